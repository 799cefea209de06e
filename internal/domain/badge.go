package domain

import "time"

type BadgeStatus string

const (
	BadgePending  BadgeStatus = "pending"
	BadgeApproved BadgeStatus = "approved"
	BadgeRejected BadgeStatus = "rejected"
)

// Terminal reports whether no further transition is defined for the status.
func (s BadgeStatus) Terminal() bool {
	return s == BadgeApproved || s == BadgeRejected
}

// BadgeProgress is one submitted badge star/level awaiting review.
// LevelUp distinguishes a level-up submission from a first earn; the two
// are scored with different rule values on approval.
type BadgeProgress struct {
	ID             uint        `json:"id"`
	OrganizationID uint        `json:"organization_id"`
	ParticipantID  uint        `json:"participant_id"`
	Territory      string      `json:"territory"`
	Objective      string      `json:"objective"`
	LevelUp        bool        `json:"level_up"`
	Status         BadgeStatus `json:"status"`
	ApprovedBy     *uint       `json:"approved_by,omitempty"`
	ApprovalDate   *time.Time  `json:"approval_date,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// BadgeTransition is the outcome of an approve/reject call. Transitioned
// is false when the submission was already terminal; in that case Badge
// holds the unchanged row and no point event was appended.
type BadgeTransition struct {
	Badge        BadgeProgress `json:"badge"`
	Transitioned bool          `json:"transitioned"`
	Points       int           `json:"points"`
}
