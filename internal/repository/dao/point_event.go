package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// PointEvent rows are append-only. Nothing in this DAO updates or deletes
// them; corrections are compensating inserts.
type PointEvent struct {
	ID uint `gorm:"primaryKey"`

	OrganizationID uint  `gorm:"not null;index:idx_point_events_org"`
	ParticipantID  *uint `gorm:"index:idx_point_events_participant"`
	GroupID        *uint `gorm:"index:idx_point_events_group"`

	Value         int       `gorm:"not null"`
	Source        string    `gorm:"not null"`
	EffectiveDate time.Time `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type PointEventDAO struct {
	db *gorm.DB
}

func NewPointEventDAO(db *gorm.DB) *PointEventDAO {
	return &PointEventDAO{
		db: db,
	}
}

func (d *PointEventDAO) Insert(ctx context.Context, event PointEvent) (PointEvent, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return PointEvent{}, result.Error
	}

	return event, nil
}

// InsertGroupAward writes the group's own event plus one fan-out event per
// current member, in a single transaction. Membership is resolved at award
// time; participants joining later do not receive the award retroactively.
func (d *PointEventDAO) InsertGroupAward(ctx context.Context, event PointEvent) ([]PointEvent, error) {
	var inserted []PointEvent

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		inserted = append(inserted, event)

		var memberships []GroupMembership
		if err := tx.
			Where("group_id = ? AND organization_id = ?", *event.GroupID, event.OrganizationID).
			Find(&memberships).Error; err != nil {
			return err
		}

		for _, m := range memberships {
			participantID := m.ParticipantID
			memberEvent := PointEvent{
				OrganizationID: event.OrganizationID,
				ParticipantID:  &participantID,
				Value:          event.Value,
				Source:         event.Source,
				EffectiveDate:  event.EffectiveDate,
			}
			if err := tx.Create(&memberEvent).Error; err != nil {
				return err
			}
			inserted = append(inserted, memberEvent)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return inserted, nil
}

func (d *PointEventDAO) SumForParticipant(ctx context.Context, participantID, organizationID uint) (int, error) {
	return d.sum(ctx, "participant_id = ? AND organization_id = ?", participantID, organizationID)
}

func (d *PointEventDAO) SumForGroup(ctx context.Context, groupID, organizationID uint) (int, error) {
	return d.sum(ctx, "group_id = ? AND organization_id = ?", groupID, organizationID)
}

func (d *PointEventDAO) SumForOrganization(ctx context.Context, organizationID uint) (int, error) {
	return d.sum(ctx, "organization_id = ?", organizationID)
}

func (d *PointEventDAO) sum(ctx context.Context, query string, args ...interface{}) (int, error) {
	var total *int

	result := d.db.WithContext(ctx).
		Model(&PointEvent{}).
		Select("SUM(value)").
		Where(query, args...).
		Scan(&total)
	if result.Error != nil {
		return 0, result.Error
	}

	// SUM over zero rows is NULL, which scans to a nil pointer.
	if total == nil {
		return 0, nil
	}

	return *total, nil
}

type LeaderboardRow struct {
	ParticipantID uint
	Total         int
}

func (d *PointEventDAO) Leaderboard(ctx context.Context, organizationID uint, limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow

	result := d.db.WithContext(ctx).
		Model(&PointEvent{}).
		Select("participant_id, SUM(value) AS total").
		Where("organization_id = ? AND participant_id IS NOT NULL", organizationID).
		Group("participant_id").
		Order("total DESC").
		Limit(limit).
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}
