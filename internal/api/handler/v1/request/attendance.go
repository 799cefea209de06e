package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// DateFormat is the wire format for attendance/honor dates.
const DateFormat = "2006-01-02"

type SetAttendanceRequest struct {
	ParticipantID uint   `json:"participant_id"`
	Date          string `json:"date"`
	Status        string `json:"status"`
}

func (req *SetAttendanceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ParticipantID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Date, validation.Required, validation.Date(DateFormat)),
		validation.Field(&req.Status, validation.Required, validation.In("present", "absent", "late", "excused")),
	)
}

func (req *SetAttendanceRequest) ParsedDate() (time.Time, error) {
	return time.Parse(DateFormat, req.Date)
}

type SetAttendanceBatchRequest struct {
	ParticipantIDs []uint `json:"participant_ids"`
	Date           string `json:"date"`
	Status         string `json:"status"`
}

func (req *SetAttendanceBatchRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ParticipantIDs, validation.Required, validation.Length(1, 500)),
		validation.Field(&req.Date, validation.Required, validation.Date(DateFormat)),
		validation.Field(&req.Status, validation.Required, validation.In("present", "absent", "late", "excused")),
	)
}

func (req *SetAttendanceBatchRequest) ParsedDate() (time.Time, error) {
	return time.Parse(DateFormat, req.Date)
}
