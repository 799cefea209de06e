package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/troopledger/troop-api/internal/domain"
)

type fakeResolver struct {
	gotHeaderValue string
	gotHostname    string
}

func (f *fakeResolver) Resolve(_ context.Context, headerValue, hostname string) domain.TenantResolution {
	f.gotHeaderValue = headerValue
	f.gotHostname = hostname

	return domain.TenantResolution{OrganizationID: 7, Source: domain.TenantSourceDomain}
}

func TestResolveTenant(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resolver := &fakeResolver{}

	var stored domain.TenantResolution
	router := gin.New()
	router.Use(ResolveTenant(resolver, "X-Organization-ID"))
	router.GET("/", func(ctx *gin.Context) {
		raw, exists := ctx.Get(ContextKeyTenant)
		require.True(t, exists)
		stored = raw.(domain.TenantResolution)
		ctx.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "pack42.example.org:8080"
	req.Header.Set("X-Organization-ID", "12")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(7), stored.OrganizationID)
	assert.Equal(t, "12", resolver.gotHeaderValue)
	// The port is stripped before the hostname lookup.
	assert.Equal(t, "pack42.example.org", resolver.gotHostname)
}
