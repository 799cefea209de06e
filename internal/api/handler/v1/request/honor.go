package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type AwardHonorRequest struct {
	ParticipantID uint   `json:"participant_id"`
	Date          string `json:"date"`
}

func (req *AwardHonorRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ParticipantID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Date, validation.Required, validation.Date(DateFormat)),
	)
}

func (req *AwardHonorRequest) ParsedDate() (time.Time, error) {
	return time.Parse(DateFormat, req.Date)
}

type AwardHonorBatchRequest struct {
	ParticipantIDs []uint `json:"participant_ids"`
	Date           string `json:"date"`
}

func (req *AwardHonorBatchRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ParticipantIDs, validation.Required, validation.Length(1, 500)),
		validation.Field(&req.Date, validation.Required, validation.Date(DateFormat)),
	)
}

func (req *AwardHonorBatchRequest) ParsedDate() (time.Time, error) {
	return time.Parse(DateFormat, req.Date)
}
