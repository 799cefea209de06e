package domain

import "time"

type AttendanceStatus string

const (
	// AttendanceNone is the implicit status before any record exists for
	// a (participant, date) key. It is never stored.
	AttendanceNone    AttendanceStatus = "none"
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

type AttendanceRecord struct {
	ID             uint             `json:"id"`
	OrganizationID uint             `json:"organization_id"`
	ParticipantID  uint             `json:"participant_id"`
	Date           time.Time        `json:"date"`
	Status         AttendanceStatus `json:"status"`
	RecordedBy     uint             `json:"recorded_by"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// AttendanceChange is the outcome of a status transition: the status that
// was stored before, the status now stored, and the signed point delta
// appended to the ledger (zero when no event was written).
type AttendanceChange struct {
	ParticipantID  uint             `json:"participant_id"`
	PreviousStatus AttendanceStatus `json:"previous_status"`
	NewStatus      AttendanceStatus `json:"new_status"`
	PointDelta     int              `json:"point_delta"`
}

// AttendanceBatchItem is one participant's outcome inside a batch update.
// Failed carries a business-level failure (e.g. unknown participant)
// without failing the batch.
type AttendanceBatchItem struct {
	ParticipantID uint              `json:"participant_id"`
	Change        *AttendanceChange `json:"change,omitempty"`
	Failed        string            `json:"failed,omitempty"`
}
