package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/troopledger/troop-api/internal/api/middleware"
	"github.com/troopledger/troop-api/internal/domain"
	"github.com/troopledger/troop-api/internal/service"
)

type fakeUserService struct {
	user domain.User
}

func (f *fakeUserService) GetUser(_ context.Context, _ uint) (domain.User, error) {
	return f.user, nil
}

type fakeAttendanceService struct {
	change domain.AttendanceChange
	err    error

	gotOrganizationID uint
}

func (f *fakeAttendanceService) SetStatus(_ context.Context, organizationID, _ uint, _ time.Time, _ domain.AttendanceStatus, _ uint) (domain.AttendanceChange, error) {
	f.gotOrganizationID = organizationID

	return f.change, f.err
}

func (f *fakeAttendanceService) SetStatusBatch(_ context.Context, organizationID uint, _ []uint, _ time.Time, _ domain.AttendanceStatus, _ uint) ([]domain.AttendanceBatchItem, error) {
	f.gotOrganizationID = organizationID

	return nil, f.err
}

// newAttendanceRouter mounts the handler behind stand-ins for the auth and
// tenant middlewares.
func newAttendanceRouter(svc AttendanceService, organizationID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(func(ctx *gin.Context) {
		ctx.Set(middleware.ContextKeyUserID, uint(9))
		ctx.Set(middleware.ContextKeyTenant, domain.TenantResolution{
			OrganizationID: organizationID,
			Source:         domain.TenantSourceHeader,
		})
	})

	handler := NewAttendanceHandler(svc, &fakeUserService{user: domain.User{ID: 9, OrganizationID: organizationID, Role: domain.RoleLeader}})
	router.POST("/attendance", handler.HandleSetAttendance)

	return router
}

func TestAttendanceHandler_HandleSetAttendance(t *testing.T) {
	t.Run("records a status and returns the delta", func(t *testing.T) {
		svc := &fakeAttendanceService{change: domain.AttendanceChange{
			ParticipantID:  57,
			PreviousStatus: domain.AttendanceNone,
			NewStatus:      domain.AttendancePresent,
			PointDelta:     1,
		}}
		router := newAttendanceRouter(svc, 1)

		body := `{"participant_id": 57, "date": "2026-03-14", "status": "present"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/attendance", strings.NewReader(body))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"participant_id":57,"previous_status":"none","new_status":"present","point_delta":1}`, w.Body.String())
		// The organization comes from the resolved tenant, not the body.
		assert.Equal(t, uint(1), svc.gotOrganizationID)
	})

	t.Run("rejects an invalid status before calling the service", func(t *testing.T) {
		svc := &fakeAttendanceService{}
		router := newAttendanceRouter(svc, 1)

		body := `{"participant_id": 57, "date": "2026-03-14", "status": "vanished"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/attendance", strings.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, svc.gotOrganizationID)
	})

	t.Run("maps an unknown participant to 404", func(t *testing.T) {
		svc := &fakeAttendanceService{err: service.ErrParticipantNotFound}
		router := newAttendanceRouter(svc, 1)

		body := `{"participant_id": 999, "date": "2026-03-14", "status": "present"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/attendance", strings.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
