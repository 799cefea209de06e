package domain

import "time"

// PointEventSource identifies which workflow produced a ledger entry.
type PointEventSource string

const (
	SourceAttendance PointEventSource = "attendance"
	SourceHonor      PointEventSource = "honor"
	SourceBadge      PointEventSource = "badge"
	SourceGroupAward PointEventSource = "group_award"
	SourceManual     PointEventSource = "manual"
)

// PointEvent is an immutable ledger entry. Corrections are made by
// appending a compensating event with the opposite sign, never by
// updating or deleting an existing one. At least one of ParticipantID
// and GroupID must be set.
type PointEvent struct {
	ID             uint             `json:"id"`
	OrganizationID uint             `json:"organization_id"`
	ParticipantID  *uint            `json:"participant_id,omitempty"`
	GroupID        *uint            `json:"group_id,omitempty"`
	Value          int              `json:"value"`
	Source         PointEventSource `json:"source"`
	EffectiveDate  time.Time        `json:"effective_date"`
	CreatedAt      time.Time        `json:"created_at"`
}

type LeaderboardEntry struct {
	ParticipantID uint `json:"participant_id"`
	Total         int  `json:"total"`
}
