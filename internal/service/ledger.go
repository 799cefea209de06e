package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/troopledger/troop-api/internal/domain"
)

var (
	ErrEventOrganizationMissing = errors.New("point event requires an organization")
	ErrEventSubjectMissing      = errors.New("point event requires a participant or a group")
	ErrGroupNotFound            = errors.New("group not found")
)

const defaultLeaderboardLimit = 50

type LedgerRepository interface {
	Append(ctx context.Context, event domain.PointEvent) (domain.PointEvent, error)
	AppendGroupAward(ctx context.Context, organizationID, groupID uint, value int, source domain.PointEventSource, effectiveDate time.Time) ([]domain.PointEvent, error)
	SumForParticipant(ctx context.Context, participantID, organizationID uint) (int, error)
	SumForGroup(ctx context.Context, groupID, organizationID uint) (int, error)
	SumForOrganization(ctx context.Context, organizationID uint) (int, error)
	Leaderboard(ctx context.Context, organizationID uint, limit int) ([]domain.LeaderboardEntry, error)
}

type LedgerGroupRepository interface {
	FindGroup(ctx context.Context, id, organizationID uint) (domain.Group, error)
}

// LedgerService is the single write path for point events. Every other
// workflow (attendance, honors, badges) either goes through it or through
// DAO transactions that write the same append-only table.
type LedgerService struct {
	repo   LedgerRepository
	groups LedgerGroupRepository
}

func NewLedgerService(repo LedgerRepository, groups LedgerGroupRepository) *LedgerService {
	return &LedgerService{
		repo:   repo,
		groups: groups,
	}
}

// Append validates and stores one event. A zero value is legal; callers
// that want to skip no-op events do so before calling.
func (s *LedgerService) Append(ctx context.Context, event domain.PointEvent) (domain.PointEvent, error) {
	if event.OrganizationID == 0 {
		return domain.PointEvent{}, ErrEventOrganizationMissing
	}
	if event.ParticipantID == nil && event.GroupID == nil {
		return domain.PointEvent{}, ErrEventSubjectMissing
	}
	if event.EffectiveDate.IsZero() {
		event.EffectiveDate = time.Now()
	}

	appended, err := s.repo.Append(ctx, event)
	if err != nil {
		return domain.PointEvent{}, fmt.Errorf("s.repo.Append -> %w", err)
	}

	return appended, nil
}

// AwardGroup appends a group-level award plus one fan-out event per
// current member, so member totals and the group's own ledger stay
// independently queryable.
func (s *LedgerService) AwardGroup(ctx context.Context, organizationID, groupID uint, value int, effectiveDate time.Time) ([]domain.PointEvent, error) {
	if _, err := s.groups.FindGroup(ctx, groupID, organizationID); err != nil {
		return nil, ErrGroupNotFound
	}

	if effectiveDate.IsZero() {
		effectiveDate = time.Now()
	}

	events, err := s.repo.AppendGroupAward(ctx, organizationID, groupID, value, domain.SourceGroupAward, effectiveDate)
	if err != nil {
		return nil, fmt.Errorf("s.repo.AppendGroupAward -> %w", err)
	}

	return events, nil
}

func (s *LedgerService) TotalForParticipant(ctx context.Context, participantID, organizationID uint) (int, error) {
	total, err := s.repo.SumForParticipant(ctx, participantID, organizationID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.SumForParticipant -> %w", err)
	}

	return total, nil
}

func (s *LedgerService) TotalForGroup(ctx context.Context, groupID, organizationID uint) (int, error) {
	total, err := s.repo.SumForGroup(ctx, groupID, organizationID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.SumForGroup -> %w", err)
	}

	return total, nil
}

func (s *LedgerService) TotalForOrganization(ctx context.Context, organizationID uint) (int, error) {
	total, err := s.repo.SumForOrganization(ctx, organizationID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.SumForOrganization -> %w", err)
	}

	return total, nil
}

func (s *LedgerService) Leaderboard(ctx context.Context, organizationID uint, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	entries, err := s.repo.Leaderboard(ctx, organizationID, limit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Leaderboard -> %w", err)
	}

	return entries, nil
}
