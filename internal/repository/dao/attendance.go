package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const attendanceStatusNone = "none"

// AttendanceRecord keeps one row per (participant, organization, date).
// Status is replaced in place; the history of transitions lives in the
// point event ledger, not here.
type AttendanceRecord struct {
	ID uint `gorm:"primaryKey"`

	OrganizationID uint      `gorm:"not null;uniqueIndex:uq_attendance_participant_org_date"`
	ParticipantID  uint      `gorm:"not null;uniqueIndex:uq_attendance_participant_org_date"`
	Date           time.Time `gorm:"not null;uniqueIndex:uq_attendance_participant_org_date;type:date"`

	Status     string `gorm:"not null"` // "present", "absent", "late", or "excused"
	RecordedBy uint   `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AttendanceStatusChange is the transactional outcome of one upsert.
type AttendanceStatusChange struct {
	ParticipantID  uint
	PreviousStatus string
	Delta          int
}

type AttendanceDAO struct {
	db *gorm.DB
}

func NewAttendanceDAO(db *gorm.DB) *AttendanceDAO {
	return &AttendanceDAO{
		db: db,
	}
}

// SetStatus upserts the record and, when the transition changes the score,
// appends a point event, all inside one transaction. The previous row is
// read with a row lock so two concurrent transitions on the same key
// serialize and each delta is computed against a committed status.
// statusPoints maps each status to its point value; missing statuses
// (including the implicit "none") count as zero.
func (d *AttendanceDAO) SetStatus(ctx context.Context, record AttendanceRecord, statusPoints map[string]int, groupID *uint) (AttendanceStatusChange, error) {
	var change AttendanceStatusChange

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		change, err = d.setStatusTx(tx, record, statusPoints, groupID)

		return err
	})
	if err != nil {
		return AttendanceStatusChange{}, err
	}

	return change, nil
}

// SetStatusBatch applies one status+date to many participants inside a
// single transaction: either all upserts and their point events commit
// together, or none do. groupIDs carries group attribution per
// participant, resolved by the caller.
func (d *AttendanceDAO) SetStatusBatch(ctx context.Context, records []AttendanceRecord, statusPoints map[string]int, groupIDs map[uint]uint) ([]AttendanceStatusChange, error) {
	changes := make([]AttendanceStatusChange, 0, len(records))

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			var groupID *uint
			if g, ok := groupIDs[record.ParticipantID]; ok {
				gID := g
				groupID = &gID
			}

			change, err := d.setStatusTx(tx, record, statusPoints, groupID)
			if err != nil {
				return err
			}

			changes = append(changes, change)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return changes, nil
}

func (d *AttendanceDAO) setStatusTx(tx *gorm.DB, record AttendanceRecord, statusPoints map[string]int, groupID *uint) (AttendanceStatusChange, error) {
	previous := attendanceStatusNone

	var existing AttendanceRecord
	result := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&existing, "participant_id = ? AND organization_id = ? AND date = ?",
			record.ParticipantID, record.OrganizationID, record.Date)
	switch {
	case result.Error == nil:
		previous = existing.Status
		existing.Status = record.Status
		existing.RecordedBy = record.RecordedBy
		if err := tx.Save(&existing).Error; err != nil {
			return AttendanceStatusChange{}, err
		}
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		if err := tx.Create(&record).Error; err != nil {
			return AttendanceStatusChange{}, err
		}
	default:
		return AttendanceStatusChange{}, result.Error
	}

	delta := statusPoints[record.Status] - statusPoints[previous]
	if delta != 0 {
		participantID := record.ParticipantID
		event := PointEvent{
			OrganizationID: record.OrganizationID,
			ParticipantID:  &participantID,
			GroupID:        groupID,
			Value:          delta,
			Source:         "attendance",
			EffectiveDate:  record.Date,
		}
		if err := tx.Create(&event).Error; err != nil {
			return AttendanceStatusChange{}, err
		}
	}

	return AttendanceStatusChange{
		ParticipantID:  record.ParticipantID,
		PreviousStatus: previous,
		Delta:          delta,
	}, nil
}
