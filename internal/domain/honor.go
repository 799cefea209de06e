package domain

import "time"

// Honor marks that a participant received the day's honor. The row's
// existence is the awarded state; the unique (participant, date,
// organization) key is what makes awarding idempotent.
type Honor struct {
	ID             uint      `json:"id"`
	OrganizationID uint      `json:"organization_id"`
	ParticipantID  uint      `json:"participant_id"`
	Date           time.Time `json:"date"`
	CreatedAt      time.Time `json:"created_at"`
}

type HonorAwardResult struct {
	ParticipantID uint `json:"participant_id"`
	Awarded       bool `json:"awarded"`
	Points        int  `json:"points"`
}
