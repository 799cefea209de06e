package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/troopledger/troop-api/internal/domain"
	"github.com/troopledger/troop-api/internal/repository"
)

type fakeRulesRepo struct {
	config string
	err    error

	saved string
}

func (f *fakeRulesRepo) FindRulesConfig(_ context.Context, _ uint) (string, error) {
	if f.err != nil {
		return "", f.err
	}

	return f.config, nil
}

func (f *fakeRulesRepo) SaveRulesConfig(_ context.Context, _ uint, config string) error {
	f.saved = config

	return nil
}

func TestRulesService_GetRules(t *testing.T) {
	t.Run("missing config yields the defaults", func(t *testing.T) {
		svc := NewRulesService(&fakeRulesRepo{err: repository.ErrRulesNotFound})

		rules := svc.GetRules(context.Background(), 1)

		assert.Equal(t, domain.DefaultPointRules(), rules)
	})

	t.Run("lookup error yields the defaults", func(t *testing.T) {
		svc := NewRulesService(&fakeRulesRepo{err: errors.New("connection refused")})

		rules := svc.GetRules(context.Background(), 1)

		assert.Equal(t, domain.DefaultPointRules(), rules)
	})

	t.Run("malformed config yields the defaults", func(t *testing.T) {
		svc := NewRulesService(&fakeRulesRepo{config: "{not json"})

		rules := svc.GetRules(context.Background(), 1)

		assert.Equal(t, domain.DefaultPointRules(), rules)
	})

	t.Run("partial config keeps default values for unspecified keys", func(t *testing.T) {
		svc := NewRulesService(&fakeRulesRepo{config: `{"present": 2, "honor_award": 8}`})

		rules := svc.GetRules(context.Background(), 1)

		assert.Equal(t, 2, rules.Present)
		assert.Equal(t, 8, rules.HonorAward)
		assert.Equal(t, 0, rules.Absent)
		assert.Equal(t, 5, rules.BadgeEarn)
		assert.Equal(t, 10, rules.BadgeLevelUp)
	})

	t.Run("full config replaces every value", func(t *testing.T) {
		svc := NewRulesService(&fakeRulesRepo{
			config: `{"present":3,"absent":-1,"late":1,"excused":2,"honor_award":7,"badge_earn":4,"badge_level_up":9}`,
		})

		rules := svc.GetRules(context.Background(), 1)

		assert.Equal(t, domain.PointRules{
			Present:      3,
			Absent:       -1,
			Late:         1,
			Excused:      2,
			HonorAward:   7,
			BadgeEarn:    4,
			BadgeLevelUp: 9,
		}, rules)
	})
}

func TestRulesService_UpdateRules(t *testing.T) {
	repo := &fakeRulesRepo{}
	svc := NewRulesService(repo)

	want := domain.PointRules{Present: 2, HonorAward: 6, BadgeEarn: 5, BadgeLevelUp: 10}
	err := svc.UpdateRules(context.Background(), 1, want)
	require.NoError(t, err)

	var saved domain.PointRules
	require.NoError(t, json.Unmarshal([]byte(repo.saved), &saved))
	assert.Equal(t, want, saved)
}
