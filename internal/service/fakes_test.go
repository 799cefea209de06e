package service

import (
	"context"

	"github.com/troopledger/troop-api/internal/domain"
	"github.com/troopledger/troop-api/internal/repository"
)

// fakeParticipants is an in-memory AttendanceParticipantRepository shared
// by the attendance, honor and badge service tests.
type fakeParticipants struct {
	participants map[uint]domain.Participant
	groups       map[uint]uint
}

func newFakeParticipants(participants ...domain.Participant) *fakeParticipants {
	f := &fakeParticipants{
		participants: make(map[uint]domain.Participant),
		groups:       make(map[uint]uint),
	}
	for _, p := range participants {
		f.participants[p.ID] = p
	}

	return f
}

func (f *fakeParticipants) FindByID(_ context.Context, id, organizationID uint) (domain.Participant, error) {
	p, ok := f.participants[id]
	if !ok || p.OrganizationID != organizationID {
		return domain.Participant{}, repository.ErrParticipantNotFound
	}

	return p, nil
}

func (f *fakeParticipants) FindByIDs(_ context.Context, ids []uint, organizationID uint) ([]domain.Participant, error) {
	var found []domain.Participant
	for _, id := range ids {
		if p, ok := f.participants[id]; ok && p.OrganizationID == organizationID {
			found = append(found, p)
		}
	}

	return found, nil
}

func (f *fakeParticipants) CurrentGroupID(_ context.Context, participantID, _ uint) (*uint, error) {
	groupID, ok := f.groups[participantID]
	if !ok {
		return nil, nil
	}

	return &groupID, nil
}

func (f *fakeParticipants) CurrentGroupIDs(_ context.Context, participantIDs []uint, _ uint) (map[uint]uint, error) {
	groupIDs := make(map[uint]uint)
	for _, id := range participantIDs {
		if groupID, ok := f.groups[id]; ok {
			groupIDs[id] = groupID
		}
	}

	return groupIDs, nil
}

// fakeRules serves a fixed rule set to every organization.
type fakeRules struct {
	rules domain.PointRules
}

func defaultFakeRules() *fakeRules {
	return &fakeRules{rules: domain.DefaultPointRules()}
}

func (f *fakeRules) GetRules(_ context.Context, _ uint) domain.PointRules {
	return f.rules
}
