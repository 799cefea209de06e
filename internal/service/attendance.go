package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/troopledger/troop-api/internal/domain"
	"github.com/troopledger/troop-api/internal/repository"
)

var (
	ErrInvalidAttendanceStatus = errors.New("invalid attendance status")
	ErrParticipantNotFound     = repository.ErrParticipantNotFound
)

type AttendanceRepository interface {
	SetStatus(ctx context.Context, organizationID, participantID uint, date time.Time, status domain.AttendanceStatus, recordedBy uint, statusPoints map[string]int, groupID *uint) (domain.AttendanceChange, error)
	SetStatusBatch(ctx context.Context, organizationID uint, participantIDs []uint, date time.Time, status domain.AttendanceStatus, recordedBy uint, statusPoints map[string]int, groupIDs map[uint]uint) ([]domain.AttendanceChange, error)
}

type AttendanceParticipantRepository interface {
	FindByID(ctx context.Context, id, organizationID uint) (domain.Participant, error)
	FindByIDs(ctx context.Context, ids []uint, organizationID uint) ([]domain.Participant, error)
	CurrentGroupID(ctx context.Context, participantID, organizationID uint) (*uint, error)
	CurrentGroupIDs(ctx context.Context, participantIDs []uint, organizationID uint) (map[uint]uint, error)
}

type AttendanceRulesProvider interface {
	GetRules(ctx context.Context, organizationID uint) domain.PointRules
}

// AttendanceService maintains one current status per (participant, date,
// organization). A status change diffs against the previous stored status
// and appends the signed point delta to the ledger; the upsert, the diff
// and the event share one transaction in the persistence layer.
type AttendanceService struct {
	repo         AttendanceRepository
	participants AttendanceParticipantRepository
	rules        AttendanceRulesProvider
}

func NewAttendanceService(repo AttendanceRepository, participants AttendanceParticipantRepository, rules AttendanceRulesProvider) *AttendanceService {
	return &AttendanceService{
		repo:         repo,
		participants: participants,
		rules:        rules,
	}
}

// SetStatus records the status and returns the applied point delta.
// Setting the same status twice is a no-op transition with delta zero.
func (s *AttendanceService) SetStatus(ctx context.Context, organizationID, participantID uint, date time.Time, status domain.AttendanceStatus, recordedBy uint) (domain.AttendanceChange, error) {
	if !status.Valid() {
		return domain.AttendanceChange{}, ErrInvalidAttendanceStatus
	}

	if _, err := s.participants.FindByID(ctx, participantID, organizationID); err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return domain.AttendanceChange{}, ErrParticipantNotFound
		}

		return domain.AttendanceChange{}, fmt.Errorf("s.participants.FindByID -> %w", err)
	}

	groupID, err := s.participants.CurrentGroupID(ctx, participantID, organizationID)
	if err != nil {
		return domain.AttendanceChange{}, fmt.Errorf("s.participants.CurrentGroupID -> %w", err)
	}

	statusPoints := s.rules.GetRules(ctx, organizationID).AttendancePointsByStatus()

	change, err := s.repo.SetStatus(ctx, organizationID, participantID, date, status, recordedBy, statusPoints, groupID)
	if err != nil {
		return domain.AttendanceChange{}, fmt.Errorf("s.repo.SetStatus -> %w", err)
	}

	return change, nil
}

// SetStatusBatch applies one status+date to many participants. Unknown
// participants are reported per item; the known ones are written in a
// single transaction so their records and point events become visible
// together.
func (s *AttendanceService) SetStatusBatch(ctx context.Context, organizationID uint, participantIDs []uint, date time.Time, status domain.AttendanceStatus, recordedBy uint) ([]domain.AttendanceBatchItem, error) {
	if !status.Valid() {
		return nil, ErrInvalidAttendanceStatus
	}

	found, err := s.participants.FindByIDs(ctx, participantIDs, organizationID)
	if err != nil {
		return nil, fmt.Errorf("s.participants.FindByIDs -> %w", err)
	}

	known := make(map[uint]bool, len(found))
	knownIDs := make([]uint, 0, len(found))
	for _, p := range found {
		known[p.ID] = true
		knownIDs = append(knownIDs, p.ID)
	}

	var groupIDs map[uint]uint
	if len(knownIDs) > 0 {
		groupIDs, err = s.participants.CurrentGroupIDs(ctx, knownIDs, organizationID)
		if err != nil {
			return nil, fmt.Errorf("s.participants.CurrentGroupIDs -> %w", err)
		}
	}

	statusPoints := s.rules.GetRules(ctx, organizationID).AttendancePointsByStatus()

	var changes []domain.AttendanceChange
	if len(knownIDs) > 0 {
		changes, err = s.repo.SetStatusBatch(ctx, organizationID, knownIDs, date, status, recordedBy, statusPoints, groupIDs)
		if err != nil {
			return nil, fmt.Errorf("s.repo.SetStatusBatch -> %w", err)
		}
	}

	changeByParticipant := make(map[uint]domain.AttendanceChange, len(changes))
	for _, change := range changes {
		changeByParticipant[change.ParticipantID] = change
	}

	items := make([]domain.AttendanceBatchItem, 0, len(participantIDs))
	for _, participantID := range participantIDs {
		if !known[participantID] {
			items = append(items, domain.AttendanceBatchItem{
				ParticipantID: participantID,
				Failed:        "participant not found",
			})
			continue
		}

		change := changeByParticipant[participantID]
		items = append(items, domain.AttendanceBatchItem{
			ParticipantID: participantID,
			Change:        &change,
		})
	}

	return items, nil
}
