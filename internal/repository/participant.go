package repository

import (
	"context"
	"fmt"

	"github.com/troopledger/troop-api/internal/domain"
	"github.com/troopledger/troop-api/internal/repository/dao"
)

var (
	ErrParticipantNotFound = dao.ErrParticipantNotFound
	ErrGroupNotFound       = dao.ErrGroupNotFound
)

type ParticipantDAO interface {
	FindByID(ctx context.Context, id, organizationID uint) (dao.Participant, error)
	FindByIDs(ctx context.Context, ids []uint, organizationID uint) ([]dao.Participant, error)
	FindGroup(ctx context.Context, id, organizationID uint) (dao.Group, error)
	CurrentGroupID(ctx context.Context, participantID, organizationID uint) (*uint, error)
	CurrentGroupIDs(ctx context.Context, participantIDs []uint, organizationID uint) (map[uint]uint, error)
}

type ParticipantRepository struct {
	dao ParticipantDAO
}

func NewParticipantRepository(dao ParticipantDAO) *ParticipantRepository {
	return &ParticipantRepository{
		dao: dao,
	}
}

func (r *ParticipantRepository) FindByID(ctx context.Context, id, organizationID uint) (domain.Participant, error) {
	found, err := r.dao.FindByID(ctx, id, organizationID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	groupID, err := r.dao.CurrentGroupID(ctx, id, organizationID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.CurrentGroupID -> %w", err)
	}

	participant := r.daoToDomain(found)
	participant.GroupID = groupID

	return participant, nil
}

func (r *ParticipantRepository) FindByIDs(ctx context.Context, ids []uint, organizationID uint) ([]domain.Participant, error) {
	found, err := r.dao.FindByIDs(ctx, ids, organizationID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByIDs -> %w", err)
	}

	participants := make([]domain.Participant, len(found))
	for i, p := range found {
		participants[i] = r.daoToDomain(p)
	}

	return participants, nil
}

func (r *ParticipantRepository) FindGroup(ctx context.Context, id, organizationID uint) (domain.Group, error) {
	found, err := r.dao.FindGroup(ctx, id, organizationID)
	if err != nil {
		return domain.Group{}, fmt.Errorf("r.dao.FindGroup -> %w", err)
	}

	return domain.Group{
		ID:             found.ID,
		OrganizationID: found.OrganizationID,
		Name:           found.Name,
		CreatedAt:      found.CreatedAt,
		UpdatedAt:      found.UpdatedAt,
	}, nil
}

func (r *ParticipantRepository) CurrentGroupID(ctx context.Context, participantID, organizationID uint) (*uint, error) {
	groupID, err := r.dao.CurrentGroupID(ctx, participantID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CurrentGroupID -> %w", err)
	}

	return groupID, nil
}

func (r *ParticipantRepository) CurrentGroupIDs(ctx context.Context, participantIDs []uint, organizationID uint) (map[uint]uint, error) {
	groups, err := r.dao.CurrentGroupIDs(ctx, participantIDs, organizationID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CurrentGroupIDs -> %w", err)
	}

	return groups, nil
}

func (r *ParticipantRepository) daoToDomain(p dao.Participant) domain.Participant {
	return domain.Participant{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
