package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/troopledger/troop-api/internal/domain"
)

type honorKey struct {
	organizationID uint
	participantID  uint
	date           string
}

// fakeHonorRepo enforces the one-honor-per-day rule the way the unique
// constraint does: the first insert wins, later ones report awarded=false.
type fakeHonorRepo struct {
	awarded map[honorKey]bool
	events  int
}

func newFakeHonorRepo() *fakeHonorRepo {
	return &fakeHonorRepo{awarded: make(map[honorKey]bool)}
}

func (f *fakeHonorRepo) award(organizationID, participantID uint, date time.Time, points int) bool {
	key := honorKey{organizationID, participantID, date.Format("2006-01-02")}
	if f.awarded[key] {
		return false
	}

	f.awarded[key] = true
	if points != 0 {
		f.events++
	}

	return true
}

func (f *fakeHonorRepo) Award(_ context.Context, organizationID, participantID uint, date time.Time, points int, _ *uint) (bool, error) {
	return f.award(organizationID, participantID, date, points), nil
}

func (f *fakeHonorRepo) AwardBatch(_ context.Context, organizationID uint, participantIDs []uint, date time.Time, points int, _ map[uint]uint) ([]bool, error) {
	awarded := make([]bool, 0, len(participantIDs))
	for _, id := range participantIDs {
		awarded = append(awarded, f.award(organizationID, id, date, points))
	}

	return awarded, nil
}

func (f *fakeHonorRepo) FindByParticipant(_ context.Context, _, _ uint) ([]domain.Honor, error) {
	return nil, nil
}

func TestHonorService_Award(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	participants := newFakeParticipants(domain.Participant{ID: 57, OrganizationID: 1})

	t.Run("first award scores honor points", func(t *testing.T) {
		svc := NewHonorService(newFakeHonorRepo(), participants, defaultFakeRules())

		result, err := svc.Award(ctx, 1, 57, date)
		require.NoError(t, err)

		assert.True(t, result.Awarded)
		assert.Equal(t, 5, result.Points)
	})

	t.Run("repeating the award is a successful no-op", func(t *testing.T) {
		repo := newFakeHonorRepo()
		svc := NewHonorService(repo, participants, defaultFakeRules())

		_, err := svc.Award(ctx, 1, 57, date)
		require.NoError(t, err)

		result, err := svc.Award(ctx, 1, 57, date)
		require.NoError(t, err)

		assert.False(t, result.Awarded)
		assert.Zero(t, result.Points)
		assert.Equal(t, 1, repo.events)
	})

	t.Run("the same participant can be honored on another day", func(t *testing.T) {
		repo := newFakeHonorRepo()
		svc := NewHonorService(repo, participants, defaultFakeRules())

		_, err := svc.Award(ctx, 1, 57, date)
		require.NoError(t, err)

		result, err := svc.Award(ctx, 1, 57, date.AddDate(0, 0, 1))
		require.NoError(t, err)

		assert.True(t, result.Awarded)
	})

	t.Run("unknown participant", func(t *testing.T) {
		svc := NewHonorService(newFakeHonorRepo(), participants, defaultFakeRules())

		_, err := svc.Award(ctx, 1, 999, date)

		assert.ErrorIs(t, err, ErrParticipantNotFound)
	})
}

func TestHonorService_AwardBatch(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	participants := newFakeParticipants(
		domain.Participant{ID: 57, OrganizationID: 1},
		domain.Participant{ID: 58, OrganizationID: 1},
	)

	repo := newFakeHonorRepo()
	svc := NewHonorService(repo, participants, defaultFakeRules())

	// 58 already holds today's honor; 999 does not exist.
	_, err := svc.Award(ctx, 1, 58, date)
	require.NoError(t, err)

	results, err := svc.AwardBatch(ctx, 1, []uint{57, 58, 999}, date)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Awarded)
	assert.Equal(t, 5, results[0].Points)

	assert.False(t, results[1].Awarded)
	assert.Zero(t, results[1].Points)

	assert.False(t, results[2].Awarded)

	assert.Equal(t, 2, repo.events)
}
