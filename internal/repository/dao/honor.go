package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrHonorExists signals an insert hitting the (participant, organization,
// date) unique key. Callers treat it as "already awarded", not a failure.
var ErrHonorExists = errors.New("honor already awarded")

// Honor existence is the awarded state. The unique constraint, not an
// application lock, is what makes concurrent awards collapse to one row.
type Honor struct {
	ID uint `gorm:"primaryKey"`

	OrganizationID uint      `gorm:"not null;uniqueIndex:uq_honors_participant_org_date"`
	ParticipantID  uint      `gorm:"not null;uniqueIndex:uq_honors_participant_org_date"`
	Date           time.Time `gorm:"not null;uniqueIndex:uq_honors_participant_org_date;type:date"`

	CreatedAt time.Time `gorm:"not null"`
}

type HonorDAO struct {
	db *gorm.DB
}

func NewHonorDAO(db *gorm.DB) *HonorDAO {
	return &HonorDAO{
		db: db,
	}
}

// Award inserts the honor and its point event in one transaction. A unique
// violation rolls back and reports awarded=false without error; nothing
// was written, so no compensating event is needed.
func (d *HonorDAO) Award(ctx context.Context, honor Honor, points int, groupID *uint) (bool, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return d.awardTx(tx, honor, points, groupID)
	})
	if err != nil {
		if errors.Is(err, ErrHonorExists) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// AwardBatch awards each honor independently inside one outer transaction.
// Per-item inserts run in nested transactions (savepoints), so one
// duplicate does not poison the rest of the batch, while an infrastructure
// error still rolls back everything.
func (d *HonorDAO) AwardBatch(ctx context.Context, honors []Honor, points int, groupIDs map[uint]uint) ([]bool, error) {
	awarded := make([]bool, 0, len(honors))

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, honor := range honors {
			var groupID *uint
			if g, ok := groupIDs[honor.ParticipantID]; ok {
				gID := g
				groupID = &gID
			}

			h := honor
			err := tx.Transaction(func(nested *gorm.DB) error {
				return d.awardTx(nested, h, points, groupID)
			})
			switch {
			case err == nil:
				awarded = append(awarded, true)
			case errors.Is(err, ErrHonorExists):
				awarded = append(awarded, false)
			default:
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return awarded, nil
}

func (d *HonorDAO) awardTx(tx *gorm.DB, honor Honor, points int, groupID *uint) error {
	if err := tx.Create(&honor).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrHonorExists
		}

		return err
	}

	if points != 0 {
		participantID := honor.ParticipantID
		event := PointEvent{
			OrganizationID: honor.OrganizationID,
			ParticipantID:  &participantID,
			GroupID:        groupID,
			Value:          points,
			Source:         "honor",
			EffectiveDate:  honor.Date,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
	}

	return nil
}

func (d *HonorDAO) FindByParticipant(ctx context.Context, participantID, organizationID uint) ([]Honor, error) {
	var honors []Honor

	result := d.db.WithContext(ctx).
		Where("participant_id = ? AND organization_id = ?", participantID, organizationID).
		Order("date DESC").
		Find(&honors)
	if result.Error != nil {
		return nil, result.Error
	}

	return honors, nil
}
