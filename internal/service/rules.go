package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/troopledger/troop-api/internal/domain"
	"github.com/troopledger/troop-api/internal/repository"
)

type RulesOrganizationRepository interface {
	FindRulesConfig(ctx context.Context, organizationID uint) (string, error)
	SaveRulesConfig(ctx context.Context, organizationID uint, config string) error
}

// RulesService loads each organization's point configuration. Reads are
// fresh per request so a rule change takes effect on the next scored
// action. A missing or unparsable configuration degrades to the built-in
// defaults and is logged; GetRules never fails the caller.
type RulesService struct {
	repo RulesOrganizationRepository
}

func NewRulesService(repo RulesOrganizationRepository) *RulesService {
	return &RulesService{
		repo: repo,
	}
}

func (s *RulesService) GetRules(ctx context.Context, organizationID uint) domain.PointRules {
	rules := domain.DefaultPointRules()

	config, err := s.repo.FindRulesConfig(ctx, organizationID)
	if err != nil {
		if errors.Is(err, repository.ErrRulesNotFound) {
			zap.L().Debug("organization has no point rules, using defaults",
				zap.Uint("organization_id", organizationID),
			)
		} else {
			zap.L().Error("point rules lookup failed, using defaults",
				zap.Uint("organization_id", organizationID),
				zap.Error(err),
			)
		}

		return rules
	}

	// Unmarshalling over the defaults keeps unspecified keys at their
	// default values instead of zeroing them.
	if err = json.Unmarshal([]byte(config), &rules); err != nil {
		zap.L().Error("malformed point rules config, using defaults",
			zap.Uint("organization_id", organizationID),
			zap.Error(err),
		)

		return domain.DefaultPointRules()
	}

	return rules
}

func (s *RulesService) UpdateRules(ctx context.Context, organizationID uint, rules domain.PointRules) error {
	config, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	if err = s.repo.SaveRulesConfig(ctx, organizationID, string(config)); err != nil {
		return fmt.Errorf("s.repo.SaveRulesConfig -> %w", err)
	}

	return nil
}
