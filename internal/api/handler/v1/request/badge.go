package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type SubmitBadgeRequest struct {
	ParticipantID uint   `json:"participant_id"`
	Territory     string `json:"territory"`
	Objective     string `json:"objective"`
	LevelUp       bool   `json:"level_up"`
}

func (req *SubmitBadgeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ParticipantID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Territory, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Objective, validation.Required, validation.Length(1, 200)),
	)
}
