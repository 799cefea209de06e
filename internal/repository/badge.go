package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/troopledger/troop-api/internal/domain"
	"github.com/troopledger/troop-api/internal/repository/dao"
)

var ErrBadgeNotFound = dao.ErrBadgeNotFound

type BadgeDAO interface {
	Insert(ctx context.Context, badge dao.BadgeProgress) (dao.BadgeProgress, error)
	FindByID(ctx context.Context, id uint) (dao.BadgeProgress, error)
	FindPending(ctx context.Context, organizationID uint) ([]dao.BadgeProgress, error)
	Approve(ctx context.Context, id, approverID uint, approvalDate time.Time, points int, groupID *uint) (dao.BadgeProgress, bool, error)
	Reject(ctx context.Context, id, reviewerID uint, rejectionDate time.Time) (dao.BadgeProgress, bool, error)
}

type BadgeRepository struct {
	dao BadgeDAO
}

func NewBadgeRepository(dao BadgeDAO) *BadgeRepository {
	return &BadgeRepository{
		dao: dao,
	}
}

func (r *BadgeRepository) Create(ctx context.Context, badge domain.BadgeProgress) (domain.BadgeProgress, error) {
	created, err := r.dao.Insert(ctx, dao.BadgeProgress{
		OrganizationID: badge.OrganizationID,
		ParticipantID:  badge.ParticipantID,
		Territory:      badge.Territory,
		Objective:      badge.Objective,
		LevelUp:        badge.LevelUp,
	})
	if err != nil {
		return domain.BadgeProgress{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *BadgeRepository) FindByID(ctx context.Context, id uint) (domain.BadgeProgress, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.BadgeProgress{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *BadgeRepository) FindPending(ctx context.Context, organizationID uint) ([]domain.BadgeProgress, error) {
	found, err := r.dao.FindPending(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPending -> %w", err)
	}

	badges := make([]domain.BadgeProgress, len(found))
	for i, b := range found {
		badges[i] = r.daoToDomain(b)
	}

	return badges, nil
}

func (r *BadgeRepository) Approve(ctx context.Context, id, approverID uint, approvalDate time.Time, points int, groupID *uint) (domain.BadgeProgress, bool, error) {
	updated, transitioned, err := r.dao.Approve(ctx, id, approverID, approvalDate, points, groupID)
	if err != nil {
		return domain.BadgeProgress{}, false, fmt.Errorf("r.dao.Approve -> %w", err)
	}

	return r.daoToDomain(updated), transitioned, nil
}

func (r *BadgeRepository) Reject(ctx context.Context, id, reviewerID uint, rejectionDate time.Time) (domain.BadgeProgress, bool, error) {
	updated, transitioned, err := r.dao.Reject(ctx, id, reviewerID, rejectionDate)
	if err != nil {
		return domain.BadgeProgress{}, false, fmt.Errorf("r.dao.Reject -> %w", err)
	}

	return r.daoToDomain(updated), transitioned, nil
}

func (r *BadgeRepository) daoToDomain(b dao.BadgeProgress) domain.BadgeProgress {
	return domain.BadgeProgress{
		ID:             b.ID,
		OrganizationID: b.OrganizationID,
		ParticipantID:  b.ParticipantID,
		Territory:      b.Territory,
		Objective:      b.Objective,
		LevelUp:        b.LevelUp,
		Status:         domain.BadgeStatus(b.Status),
		ApprovedBy:     b.ApprovedBy,
		ApprovalDate:   b.ApprovalDate,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
