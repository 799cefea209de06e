package middleware

import (
	"context"
	"net"

	"github.com/gin-gonic/gin"

	"github.com/troopledger/troop-api/internal/domain"
)

// ContextKeyTenant is where ResolveTenant stores the request's resolved
// organization.
const ContextKeyTenant = "tenant"

type TenantResolver interface {
	Resolve(ctx context.Context, headerValue, hostname string) domain.TenantResolution
}

// ResolveTenant determines the active organization for every request
// before any handler runs. Resolution never fails; the worst case is the
// configured default organization.
func ResolveTenant(resolver TenantResolver, headerName string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		hostname := ctx.Request.Host
		if host, _, err := net.SplitHostPort(hostname); err == nil {
			hostname = host
		}

		resolution := resolver.Resolve(
			ctx.Request.Context(),
			ctx.GetHeader(headerName),
			hostname,
		)

		ctx.Set(ContextKeyTenant, resolution)
		ctx.Next()
	}
}
