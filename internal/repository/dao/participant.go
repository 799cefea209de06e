package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrGroupNotFound       = errors.New("group not found")
)

type Participant struct {
	ID uint `gorm:"primaryKey"`

	OrganizationID uint `gorm:"not null;index"`

	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Group struct {
	ID uint `gorm:"primaryKey"`

	OrganizationID uint   `gorm:"not null;index"`
	Name           string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// GroupMembership assigns a participant to a group. It is a relation
// rather than a column on Participant because the same person can belong
// to different groups across organizations; the unique key allows at most
// one group per participant within an organization.
type GroupMembership struct {
	ID uint `gorm:"primaryKey"`

	OrganizationID uint `gorm:"not null;uniqueIndex:uq_membership_participant_org"`
	ParticipantID  uint `gorm:"not null;uniqueIndex:uq_membership_participant_org"`
	GroupID        uint `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
}

type ParticipantDAO struct {
	db *gorm.DB
}

func NewParticipantDAO(db *gorm.DB) *ParticipantDAO {
	return &ParticipantDAO{
		db: db,
	}
}

func (d *ParticipantDAO) FindByID(ctx context.Context, id, organizationID uint) (Participant, error) {
	var participant Participant

	result := d.db.WithContext(ctx).
		First(&participant, "id = ? AND organization_id = ?", id, organizationID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participant{}, ErrParticipantNotFound
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

func (d *ParticipantDAO) FindByIDs(ctx context.Context, ids []uint, organizationID uint) ([]Participant, error) {
	var participants []Participant

	result := d.db.WithContext(ctx).
		Where("id IN ? AND organization_id = ?", ids, organizationID).
		Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}

	return participants, nil
}

func (d *ParticipantDAO) FindGroup(ctx context.Context, id, organizationID uint) (Group, error) {
	var group Group

	result := d.db.WithContext(ctx).
		First(&group, "id = ? AND organization_id = ?", id, organizationID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Group{}, ErrGroupNotFound
		}

		return Group{}, result.Error
	}

	return group, nil
}

// CurrentGroupID resolves the participant's group within the organization
// at call time. A participant without a membership yields nil.
func (d *ParticipantDAO) CurrentGroupID(ctx context.Context, participantID, organizationID uint) (*uint, error) {
	var membership GroupMembership

	result := d.db.WithContext(ctx).
		First(&membership, "participant_id = ? AND organization_id = ?", participantID, organizationID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, result.Error
	}

	groupID := membership.GroupID

	return &groupID, nil
}

// CurrentGroupIDs resolves group attribution for a set of participants in
// one query. Participants without a membership are absent from the map.
func (d *ParticipantDAO) CurrentGroupIDs(ctx context.Context, participantIDs []uint, organizationID uint) (map[uint]uint, error) {
	var memberships []GroupMembership

	result := d.db.WithContext(ctx).
		Where("participant_id IN ? AND organization_id = ?", participantIDs, organizationID).
		Find(&memberships)
	if result.Error != nil {
		return nil, result.Error
	}

	groups := make(map[uint]uint, len(memberships))
	for _, m := range memberships {
		groups[m.ParticipantID] = m.GroupID
	}

	return groups, nil
}
