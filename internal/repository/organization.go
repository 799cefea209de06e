package repository

import (
	"context"
	"fmt"

	"github.com/troopledger/troop-api/internal/domain"
	"github.com/troopledger/troop-api/internal/repository/dao"
)

var (
	ErrOrganizationNotFound = dao.ErrOrganizationNotFound
	ErrDomainNotMapped      = dao.ErrDomainNotMapped
	ErrRulesNotFound        = dao.ErrRulesNotFound
)

type OrganizationDAO interface {
	FindByID(ctx context.Context, id uint) (dao.Organization, error)
	FindByDomain(ctx context.Context, hostname string) (dao.OrganizationDomain, error)
	FindRules(ctx context.Context, organizationID uint) (dao.PointSystemRules, error)
	UpsertRules(ctx context.Context, rules dao.PointSystemRules) (dao.PointSystemRules, error)
}

type OrganizationRepository struct {
	dao OrganizationDAO
}

func NewOrganizationRepository(dao OrganizationDAO) *OrganizationRepository {
	return &OrganizationRepository{
		dao: dao,
	}
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id uint) (domain.Organization, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return domain.Organization{
		ID:        found.ID,
		Name:      found.Name,
		CreatedAt: found.CreatedAt,
		UpdatedAt: found.UpdatedAt,
	}, nil
}

// FindIDByDomain resolves a hostname to its organization ID.
func (r *OrganizationRepository) FindIDByDomain(ctx context.Context, hostname string) (uint, error) {
	mapping, err := r.dao.FindByDomain(ctx, hostname)
	if err != nil {
		return 0, fmt.Errorf("r.dao.FindByDomain -> %w", err)
	}

	return mapping.OrganizationID, nil
}

// FindRulesConfig returns the raw JSON rules blob for the organization.
// Parsing and default fallback belong to the service layer.
func (r *OrganizationRepository) FindRulesConfig(ctx context.Context, organizationID uint) (string, error) {
	rules, err := r.dao.FindRules(ctx, organizationID)
	if err != nil {
		return "", fmt.Errorf("r.dao.FindRules -> %w", err)
	}

	return rules.Config, nil
}

func (r *OrganizationRepository) SaveRulesConfig(ctx context.Context, organizationID uint, config string) error {
	_, err := r.dao.UpsertRules(ctx, dao.PointSystemRules{
		OrganizationID: organizationID,
		Config:         config,
	})
	if err != nil {
		return fmt.Errorf("r.dao.UpsertRules -> %w", err)
	}

	return nil
}
