package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrDomainNotMapped      = errors.New("hostname not mapped to an organization")
	ErrRulesNotFound        = errors.New("point system rules not found")
)

type Organization struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// OrganizationDomain maps a request hostname to its organization, used
// when a request carries no explicit tenant header.
type OrganizationDomain struct {
	ID             uint   `gorm:"primaryKey"`
	Domain         string `gorm:"unique;not null"`
	OrganizationID uint   `gorm:"not null;index"`
}

// PointSystemRules holds one JSON configuration blob per organization.
type PointSystemRules struct {
	ID             uint   `gorm:"primaryKey"`
	OrganizationID uint   `gorm:"unique;not null"`
	Config         string `gorm:"type:jsonb;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrganizationDAO struct {
	db *gorm.DB
}

func NewOrganizationDAO(db *gorm.DB) *OrganizationDAO {
	return &OrganizationDAO{
		db: db,
	}
}

func (d *OrganizationDAO) FindByID(ctx context.Context, id uint) (Organization, error) {
	var org Organization

	result := d.db.WithContext(ctx).First(&org, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Organization{}, ErrOrganizationNotFound
		}

		return Organization{}, result.Error
	}

	return org, nil
}

func (d *OrganizationDAO) FindByDomain(ctx context.Context, hostname string) (OrganizationDomain, error) {
	var mapping OrganizationDomain

	result := d.db.WithContext(ctx).First(&mapping, "domain = ?", hostname)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return OrganizationDomain{}, ErrDomainNotMapped
		}

		return OrganizationDomain{}, result.Error
	}

	return mapping, nil
}

func (d *OrganizationDAO) FindRules(ctx context.Context, organizationID uint) (PointSystemRules, error) {
	var rules PointSystemRules

	result := d.db.WithContext(ctx).First(&rules, "organization_id = ?", organizationID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return PointSystemRules{}, ErrRulesNotFound
		}

		return PointSystemRules{}, result.Error
	}

	return rules, nil
}

func (d *OrganizationDAO) UpsertRules(ctx context.Context, rules PointSystemRules) (PointSystemRules, error) {
	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "organization_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"config", "updated_at"}),
		}).
		Create(&rules)
	if result.Error != nil {
		return PointSystemRules{}, result.Error
	}

	return rules, nil
}
