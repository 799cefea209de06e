package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// UpdateRulesRequest carries the full point configuration; absent fields
// default to zero, so clients send the complete rule set.
type UpdateRulesRequest struct {
	Present      int `json:"present"`
	Absent       int `json:"absent"`
	Late         int `json:"late"`
	Excused      int `json:"excused"`
	HonorAward   int `json:"honor_award"`
	BadgeEarn    int `json:"badge_earn"`
	BadgeLevelUp int `json:"badge_level_up"`
}

func (req *UpdateRulesRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Present, validation.Min(-1000), validation.Max(1000)),
		validation.Field(&req.Absent, validation.Min(-1000), validation.Max(1000)),
		validation.Field(&req.Late, validation.Min(-1000), validation.Max(1000)),
		validation.Field(&req.Excused, validation.Min(-1000), validation.Max(1000)),
		validation.Field(&req.HonorAward, validation.Min(-1000), validation.Max(1000)),
		validation.Field(&req.BadgeEarn, validation.Min(-1000), validation.Max(1000)),
		validation.Field(&req.BadgeLevelUp, validation.Min(-1000), validation.Max(1000)),
	)
}

type GroupAwardRequest struct {
	GroupID uint   `json:"group_id"`
	Value   int    `json:"value"`
	Date    string `json:"date"`
}

func (req *GroupAwardRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.GroupID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Value, validation.Required),
		validation.Field(&req.Date, validation.Date(DateFormat)),
	)
}
