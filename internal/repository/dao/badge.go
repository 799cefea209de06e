package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrBadgeNotFound = errors.New("badge progress not found")

const (
	badgeStatusPending  = "pending"
	badgeStatusApproved = "approved"
	badgeStatusRejected = "rejected"
)

type BadgeProgress struct {
	ID uint `gorm:"primaryKey"`

	OrganizationID uint `gorm:"not null;index"`
	ParticipantID  uint `gorm:"not null;index"`

	Territory string `gorm:"not null"`
	Objective string `gorm:"not null"`
	LevelUp   bool   `gorm:"not null;default:false"`

	Status       string `gorm:"not null;default:pending"` // "pending", "approved", or "rejected"
	ApprovedBy   *uint
	ApprovalDate *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type BadgeDAO struct {
	db *gorm.DB
}

func NewBadgeDAO(db *gorm.DB) *BadgeDAO {
	return &BadgeDAO{
		db: db,
	}
}

func (d *BadgeDAO) Insert(ctx context.Context, badge BadgeProgress) (BadgeProgress, error) {
	badge.Status = badgeStatusPending

	result := d.db.WithContext(ctx).Create(&badge)
	if result.Error != nil {
		return BadgeProgress{}, result.Error
	}

	return badge, nil
}

func (d *BadgeDAO) FindByID(ctx context.Context, id uint) (BadgeProgress, error) {
	var badge BadgeProgress

	result := d.db.WithContext(ctx).First(&badge, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return BadgeProgress{}, ErrBadgeNotFound
		}

		return BadgeProgress{}, result.Error
	}

	return badge, nil
}

func (d *BadgeDAO) FindPending(ctx context.Context, organizationID uint) ([]BadgeProgress, error) {
	var badges []BadgeProgress

	result := d.db.WithContext(ctx).
		Where("organization_id = ? AND status = ?", organizationID, badgeStatusPending).
		Order("created_at ASC").
		Find(&badges)
	if result.Error != nil {
		return nil, result.Error
	}

	return badges, nil
}

// Approve moves a pending submission to approved and appends its point
// event atomically. The row is re-read with a lock inside the transaction:
// if it is no longer pending the call returns the current row untouched
// and transitioned=false, so a terminal submission can never yield a
// second point event or a new reviewer stamp.
func (d *BadgeDAO) Approve(ctx context.Context, id, approverID uint, approvalDate time.Time, points int, groupID *uint) (BadgeProgress, bool, error) {
	var (
		badge        BadgeProgress
		transitioned bool
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		badge, err = d.lockByID(tx, id)
		if err != nil {
			return err
		}

		if badge.Status != badgeStatusPending {
			return nil
		}

		badge.Status = badgeStatusApproved
		badge.ApprovedBy = &approverID
		badge.ApprovalDate = &approvalDate
		if err = tx.Save(&badge).Error; err != nil {
			return err
		}

		if points != 0 {
			participantID := badge.ParticipantID
			event := PointEvent{
				OrganizationID: badge.OrganizationID,
				ParticipantID:  &participantID,
				GroupID:        groupID,
				Value:          points,
				Source:         "badge",
				EffectiveDate:  approvalDate,
			}
			if err = tx.Create(&event).Error; err != nil {
				return err
			}
		}

		transitioned = true

		return nil
	})
	if err != nil {
		return BadgeProgress{}, false, err
	}

	return badge, transitioned, nil
}

// Reject moves a pending submission to rejected. No point event is ever
// written; re-rejecting a terminal submission is a no-op result.
func (d *BadgeDAO) Reject(ctx context.Context, id, reviewerID uint, rejectionDate time.Time) (BadgeProgress, bool, error) {
	var (
		badge        BadgeProgress
		transitioned bool
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		badge, err = d.lockByID(tx, id)
		if err != nil {
			return err
		}

		if badge.Status != badgeStatusPending {
			return nil
		}

		badge.Status = badgeStatusRejected
		badge.ApprovedBy = &reviewerID
		badge.ApprovalDate = &rejectionDate
		if err = tx.Save(&badge).Error; err != nil {
			return err
		}

		transitioned = true

		return nil
	})
	if err != nil {
		return BadgeProgress{}, false, err
	}

	return badge, transitioned, nil
}

func (d *BadgeDAO) lockByID(tx *gorm.DB, id uint) (BadgeProgress, error) {
	var badge BadgeProgress

	result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&badge, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return BadgeProgress{}, ErrBadgeNotFound
		}

		return BadgeProgress{}, result.Error
	}

	return badge, nil
}
