package service

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/troopledger/troop-api/internal/domain"
	"github.com/troopledger/troop-api/internal/repository"
)

type TenantOrganizationRepository interface {
	FindIDByDomain(ctx context.Context, hostname string) (uint, error)
}

// TenantService determines the active organization for a request. It
// never fails: an explicit header wins, then the hostname mapping, then
// the configured default. The chosen source is returned so a fallback
// resolution is observable rather than silent.
type TenantService struct {
	repo                  TenantOrganizationRepository
	defaultOrganizationID uint
}

func NewTenantService(repo TenantOrganizationRepository, defaultOrganizationID uint) *TenantService {
	return &TenantService{
		repo:                  repo,
		defaultOrganizationID: defaultOrganizationID,
	}
}

func (s *TenantService) Resolve(ctx context.Context, headerValue, hostname string) domain.TenantResolution {
	if headerValue != "" {
		// The header is trusted as-is; no lookup.
		id, err := strconv.ParseUint(headerValue, 10, 64)
		if err == nil && id > 0 {
			return domain.TenantResolution{
				OrganizationID: uint(id),
				Source:         domain.TenantSourceHeader,
			}
		}

		zap.L().Warn("ignoring malformed tenant header",
			zap.String("header_value", headerValue),
		)
	}

	if hostname != "" {
		organizationID, err := s.repo.FindIDByDomain(ctx, hostname)
		if err == nil {
			return domain.TenantResolution{
				OrganizationID: organizationID,
				Source:         domain.TenantSourceDomain,
			}
		}

		// Resolution must never fail a request: an unmapped hostname or a
		// lookup error both degrade to the default organization.
		if errors.Is(err, repository.ErrDomainNotMapped) {
			zap.L().Debug("hostname not mapped to an organization",
				zap.String("hostname", hostname),
			)
		} else {
			zap.L().Error("tenant domain lookup failed, using default organization",
				zap.String("hostname", hostname),
				zap.Error(err),
			)
		}
	}

	return domain.TenantResolution{
		OrganizationID: s.defaultOrganizationID,
		Source:         domain.TenantSourceDefault,
	}
}
