package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/troopledger/troop-api/internal/domain"
	"github.com/troopledger/troop-api/internal/repository/dao"
)

type PointEventDAO interface {
	Insert(ctx context.Context, event dao.PointEvent) (dao.PointEvent, error)
	InsertGroupAward(ctx context.Context, event dao.PointEvent) ([]dao.PointEvent, error)
	SumForParticipant(ctx context.Context, participantID, organizationID uint) (int, error)
	SumForGroup(ctx context.Context, groupID, organizationID uint) (int, error)
	SumForOrganization(ctx context.Context, organizationID uint) (int, error)
	Leaderboard(ctx context.Context, organizationID uint, limit int) ([]dao.LeaderboardRow, error)
}

type LedgerRepository struct {
	dao PointEventDAO
}

func NewLedgerRepository(dao PointEventDAO) *LedgerRepository {
	return &LedgerRepository{
		dao: dao,
	}
}

func (r *LedgerRepository) Append(ctx context.Context, event domain.PointEvent) (domain.PointEvent, error) {
	inserted, err := r.dao.Insert(ctx, r.domainToDao(event))
	if err != nil {
		return domain.PointEvent{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(inserted), nil
}

// AppendGroupAward writes the group event and its per-member fan-out
// events; the DAO runs the whole write in one transaction.
func (r *LedgerRepository) AppendGroupAward(ctx context.Context, organizationID, groupID uint, value int, source domain.PointEventSource, effectiveDate time.Time) ([]domain.PointEvent, error) {
	gID := groupID
	inserted, err := r.dao.InsertGroupAward(ctx, dao.PointEvent{
		OrganizationID: organizationID,
		GroupID:        &gID,
		Value:          value,
		Source:         string(source),
		EffectiveDate:  effectiveDate,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.InsertGroupAward -> %w", err)
	}

	events := make([]domain.PointEvent, len(inserted))
	for i, e := range inserted {
		events[i] = r.daoToDomain(e)
	}

	return events, nil
}

func (r *LedgerRepository) SumForParticipant(ctx context.Context, participantID, organizationID uint) (int, error) {
	total, err := r.dao.SumForParticipant(ctx, participantID, organizationID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.SumForParticipant -> %w", err)
	}

	return total, nil
}

func (r *LedgerRepository) SumForGroup(ctx context.Context, groupID, organizationID uint) (int, error) {
	total, err := r.dao.SumForGroup(ctx, groupID, organizationID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.SumForGroup -> %w", err)
	}

	return total, nil
}

func (r *LedgerRepository) SumForOrganization(ctx context.Context, organizationID uint) (int, error) {
	total, err := r.dao.SumForOrganization(ctx, organizationID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.SumForOrganization -> %w", err)
	}

	return total, nil
}

func (r *LedgerRepository) Leaderboard(ctx context.Context, organizationID uint, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.dao.Leaderboard(ctx, organizationID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Leaderboard -> %w", err)
	}

	entries := make([]domain.LeaderboardEntry, len(rows))
	for i, row := range rows {
		entries[i] = domain.LeaderboardEntry{
			ParticipantID: row.ParticipantID,
			Total:         row.Total,
		}
	}

	return entries, nil
}

func (r *LedgerRepository) domainToDao(e domain.PointEvent) dao.PointEvent {
	return dao.PointEvent{
		ID:             e.ID,
		OrganizationID: e.OrganizationID,
		ParticipantID:  e.ParticipantID,
		GroupID:        e.GroupID,
		Value:          e.Value,
		Source:         string(e.Source),
		EffectiveDate:  e.EffectiveDate,
		CreatedAt:      e.CreatedAt,
	}
}

func (r *LedgerRepository) daoToDomain(e dao.PointEvent) domain.PointEvent {
	return domain.PointEvent{
		ID:             e.ID,
		OrganizationID: e.OrganizationID,
		ParticipantID:  e.ParticipantID,
		GroupID:        e.GroupID,
		Value:          e.Value,
		Source:         domain.PointEventSource(e.Source),
		EffectiveDate:  e.EffectiveDate,
		CreatedAt:      e.CreatedAt,
	}
}
