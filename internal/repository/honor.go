package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/troopledger/troop-api/internal/domain"
	"github.com/troopledger/troop-api/internal/repository/dao"
)

type HonorDAO interface {
	Award(ctx context.Context, honor dao.Honor, points int, groupID *uint) (bool, error)
	AwardBatch(ctx context.Context, honors []dao.Honor, points int, groupIDs map[uint]uint) ([]bool, error)
	FindByParticipant(ctx context.Context, participantID, organizationID uint) ([]dao.Honor, error)
}

type HonorRepository struct {
	dao HonorDAO
}

func NewHonorRepository(dao HonorDAO) *HonorRepository {
	return &HonorRepository{
		dao: dao,
	}
}

// Award returns whether the honor was newly created. false means the
// (participant, date) key already held an honor for the organization.
func (r *HonorRepository) Award(ctx context.Context, organizationID, participantID uint, date time.Time, points int, groupID *uint) (bool, error) {
	awarded, err := r.dao.Award(ctx, dao.Honor{
		OrganizationID: organizationID,
		ParticipantID:  participantID,
		Date:           date,
	}, points, groupID)
	if err != nil {
		return false, fmt.Errorf("r.dao.Award -> %w", err)
	}

	return awarded, nil
}

func (r *HonorRepository) AwardBatch(ctx context.Context, organizationID uint, participantIDs []uint, date time.Time, points int, groupIDs map[uint]uint) ([]bool, error) {
	honors := make([]dao.Honor, len(participantIDs))
	for i, participantID := range participantIDs {
		honors[i] = dao.Honor{
			OrganizationID: organizationID,
			ParticipantID:  participantID,
			Date:           date,
		}
	}

	awarded, err := r.dao.AwardBatch(ctx, honors, points, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.AwardBatch -> %w", err)
	}

	return awarded, nil
}

func (r *HonorRepository) FindByParticipant(ctx context.Context, participantID, organizationID uint) ([]domain.Honor, error) {
	found, err := r.dao.FindByParticipant(ctx, participantID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByParticipant -> %w", err)
	}

	honors := make([]domain.Honor, len(found))
	for i, h := range found {
		honors[i] = domain.Honor{
			ID:             h.ID,
			OrganizationID: h.OrganizationID,
			ParticipantID:  h.ParticipantID,
			Date:           h.Date,
			CreatedAt:      h.CreatedAt,
		}
	}

	return honors, nil
}
