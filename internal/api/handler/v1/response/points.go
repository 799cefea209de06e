package response

import "github.com/troopledger/troop-api/internal/domain"

type PointTotalResponse struct {
	SubjectType    string `json:"subject_type"` // "participant", "group", or "organization"
	SubjectID      uint   `json:"subject_id,omitempty"`
	OrganizationID uint   `json:"organization_id"`
	Total          int    `json:"total"`
}

type LeaderboardResponse struct {
	OrganizationID uint                      `json:"organization_id"`
	Entries        []domain.LeaderboardEntry `json:"entries"`
}

type GroupAwardResponse struct {
	GroupID       uint `json:"group_id"`
	Value         int  `json:"value"`
	EventsWritten int  `json:"events_written"`
}

type AttendanceBatchResponse struct {
	Date  string                       `json:"date"`
	Items []domain.AttendanceBatchItem `json:"items"`
}

type HonorBatchResponse struct {
	Date    string                    `json:"date"`
	Results []domain.HonorAwardResult `json:"results"`
}
