package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/troopledger/troop-api/internal/domain"
	"github.com/troopledger/troop-api/internal/repository"
)

type fakeTenantRepo struct {
	domains map[string]uint
	err     error

	lookups int
}

func (f *fakeTenantRepo) FindIDByDomain(_ context.Context, hostname string) (uint, error) {
	f.lookups++
	if f.err != nil {
		return 0, f.err
	}

	id, ok := f.domains[hostname]
	if !ok {
		return 0, repository.ErrDomainNotMapped
	}

	return id, nil
}

func TestTenantService_Resolve(t *testing.T) {
	t.Run("header wins without a lookup", func(t *testing.T) {
		repo := &fakeTenantRepo{domains: map[string]uint{"pack42.example.org": 7}}
		svc := NewTenantService(repo, 1)

		resolution := svc.Resolve(context.Background(), "12", "pack42.example.org")

		assert.Equal(t, uint(12), resolution.OrganizationID)
		assert.Equal(t, domain.TenantSourceHeader, resolution.Source)
		assert.Zero(t, repo.lookups)
	})

	t.Run("malformed header falls through to the hostname", func(t *testing.T) {
		repo := &fakeTenantRepo{domains: map[string]uint{"pack42.example.org": 7}}
		svc := NewTenantService(repo, 1)

		resolution := svc.Resolve(context.Background(), "not-a-number", "pack42.example.org")

		assert.Equal(t, uint(7), resolution.OrganizationID)
		assert.Equal(t, domain.TenantSourceDomain, resolution.Source)
	})

	t.Run("hostname mapping", func(t *testing.T) {
		repo := &fakeTenantRepo{domains: map[string]uint{"pack42.example.org": 7}}
		svc := NewTenantService(repo, 1)

		resolution := svc.Resolve(context.Background(), "", "pack42.example.org")

		assert.Equal(t, uint(7), resolution.OrganizationID)
		assert.Equal(t, domain.TenantSourceDomain, resolution.Source)
	})

	t.Run("unmapped hostname falls back to the default", func(t *testing.T) {
		repo := &fakeTenantRepo{domains: map[string]uint{}}
		svc := NewTenantService(repo, 1)

		resolution := svc.Resolve(context.Background(), "", "unknown.example.org")

		assert.Equal(t, uint(1), resolution.OrganizationID)
		assert.Equal(t, domain.TenantSourceDefault, resolution.Source)
	})

	t.Run("lookup error degrades to the default instead of failing", func(t *testing.T) {
		repo := &fakeTenantRepo{err: errors.New("connection refused")}
		svc := NewTenantService(repo, 1)

		resolution := svc.Resolve(context.Background(), "", "pack42.example.org")

		assert.Equal(t, uint(1), resolution.OrganizationID)
		assert.Equal(t, domain.TenantSourceDefault, resolution.Source)
	})

	t.Run("no header and no hostname", func(t *testing.T) {
		repo := &fakeTenantRepo{}
		svc := NewTenantService(repo, 3)

		resolution := svc.Resolve(context.Background(), "", "")

		assert.Equal(t, uint(3), resolution.OrganizationID)
		assert.Equal(t, domain.TenantSourceDefault, resolution.Source)
		assert.Zero(t, repo.lookups)
	})
}
