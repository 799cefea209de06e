package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/troopledger/troop-api/internal/domain"
	"github.com/troopledger/troop-api/internal/repository"
)

type HonorRepository interface {
	Award(ctx context.Context, organizationID, participantID uint, date time.Time, points int, groupID *uint) (bool, error)
	AwardBatch(ctx context.Context, organizationID uint, participantIDs []uint, date time.Time, points int, groupIDs map[uint]uint) ([]bool, error)
	FindByParticipant(ctx context.Context, participantID, organizationID uint) ([]domain.Honor, error)
}

// HonorService awards at most one honor per (participant, date,
// organization). An award that already exists is a successful no-op, not
// an error, and never produces a second point event.
type HonorService struct {
	repo         HonorRepository
	participants AttendanceParticipantRepository
	rules        AttendanceRulesProvider
}

func NewHonorService(repo HonorRepository, participants AttendanceParticipantRepository, rules AttendanceRulesProvider) *HonorService {
	return &HonorService{
		repo:         repo,
		participants: participants,
		rules:        rules,
	}
}

func (s *HonorService) Award(ctx context.Context, organizationID, participantID uint, date time.Time) (domain.HonorAwardResult, error) {
	if _, err := s.participants.FindByID(ctx, participantID, organizationID); err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return domain.HonorAwardResult{}, ErrParticipantNotFound
		}

		return domain.HonorAwardResult{}, fmt.Errorf("s.participants.FindByID -> %w", err)
	}

	groupID, err := s.participants.CurrentGroupID(ctx, participantID, organizationID)
	if err != nil {
		return domain.HonorAwardResult{}, fmt.Errorf("s.participants.CurrentGroupID -> %w", err)
	}

	points := s.rules.GetRules(ctx, organizationID).HonorAward

	awarded, err := s.repo.Award(ctx, organizationID, participantID, date, points, groupID)
	if err != nil {
		return domain.HonorAwardResult{}, fmt.Errorf("s.repo.Award -> %w", err)
	}

	result := domain.HonorAwardResult{
		ParticipantID: participantID,
		Awarded:       awarded,
	}
	if awarded {
		result.Points = points
	}

	return result, nil
}

// AwardBatch awards each participant independently inside one transaction
// and reports a per-item result ("multi-status" semantics): duplicates
// come back Awarded=false, unknown participants are skipped with a zero
// result, and only an infrastructure error fails the whole batch.
func (s *HonorService) AwardBatch(ctx context.Context, organizationID uint, participantIDs []uint, date time.Time) ([]domain.HonorAwardResult, error) {
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

	points := s.rules.GetRules(ctx, organizationID).HonorAward

	var (
		awarded  []bool
		groupIDs map[uint]uint
	)
	if len(knownIDs) > 0 {
		groupIDs, err = s.participants.CurrentGroupIDs(ctx, knownIDs, organizationID)
		if err != nil {
			return nil, fmt.Errorf("s.participants.CurrentGroupIDs -> %w", err)
		}

		awarded, err = s.repo.AwardBatch(ctx, organizationID, knownIDs, date, points, groupIDs)
		if err != nil {
			return nil, fmt.Errorf("s.repo.AwardBatch -> %w", err)
		}
	}

	awardedByParticipant := make(map[uint]bool, len(knownIDs))
	for i, participantID := range knownIDs {
		awardedByParticipant[participantID] = awarded[i]
	}

	results := make([]domain.HonorAwardResult, 0, len(participantIDs))
	for _, participantID := range participantIDs {
		result := domain.HonorAwardResult{
			ParticipantID: participantID,
		}
		if known[participantID] && awardedByParticipant[participantID] {
			result.Awarded = true
			result.Points = points
		}
		results = append(results, result)
	}

	return results, nil
}

func (s *HonorService) HonorsForParticipant(ctx context.Context, participantID, organizationID uint) ([]domain.Honor, error) {
	honors, err := s.repo.FindByParticipant(ctx, participantID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByParticipant -> %w", err)
	}

	return honors, nil
}
