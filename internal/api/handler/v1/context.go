package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/troopledger/troop-api/internal/api/handler/v1/response"
	"github.com/troopledger/troop-api/internal/api/middleware"
	"github.com/troopledger/troop-api/internal/domain"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// getUserFromContext loads the authenticated user stored by the JWT
// middleware. Every ledger-affecting endpoint requires one.
func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	raw, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrUnauthorized("authentication required")
	}

	userID, ok := raw.(uint)
	if !ok || userID == 0 {
		return domain.User{}, response.ErrUnauthorized("authentication required")
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("getUserFromContext -> svc.GetUser -> %w", err))
	}

	return user, nil
}

// getTenantFromContext returns the organization resolved for this request.
// The tenant middleware runs on every API route, so a missing resolution
// is a programming error, not a client one.
func getTenantFromContext(ctx *gin.Context) (domain.TenantResolution, *response.Err) {
	raw, exists := ctx.Get(middleware.ContextKeyTenant)
	if !exists {
		return domain.TenantResolution{}, response.ErrInternalServerError(errors.New("tenant resolution missing from request context"))
	}

	resolution, ok := raw.(domain.TenantResolution)
	if !ok {
		return domain.TenantResolution{}, response.ErrInternalServerError(errors.New("tenant resolution has unexpected type"))
	}

	return resolution, nil
}
