package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/troopledger/troop-api/internal/api/handler/v1/request"
	"github.com/troopledger/troop-api/internal/api/handler/v1/response"
	"github.com/troopledger/troop-api/internal/domain"
	"github.com/troopledger/troop-api/internal/service"
)

type AttendanceService interface {
	SetStatus(ctx context.Context, organizationID, participantID uint, date time.Time, status domain.AttendanceStatus, recordedBy uint) (domain.AttendanceChange, error)
	SetStatusBatch(ctx context.Context, organizationID uint, participantIDs []uint, date time.Time, status domain.AttendanceStatus, recordedBy uint) ([]domain.AttendanceBatchItem, error)
}

type AttendanceHandler struct {
	svc  AttendanceService
	uSvc UserService
}

func NewAttendanceHandler(svc AttendanceService, uSvc UserService) *AttendanceHandler {
	return &AttendanceHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleSetAttendance godoc
// @Summary      Record an attendance status
// @Description  Upserts the status for one participant and date. The response carries the signed point delta applied to the ledger; setting the same status twice yields a delta of 0.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        input  body      request.SetAttendanceRequest  true  "attendance status"
// @Success      200    {object}  domain.AttendanceChange
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /attendance [post]
// @Security BearerAuth
func (h *AttendanceHandler) HandleSetAttendance(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tenant, respErr := getTenantFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.SetAttendanceRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	date, err := input.ParsedDate()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid date: %v", err)))
		return
	}

	change, err := h.svc.SetStatus(ctx.Request.Context(), tenant.OrganizationID, input.ParticipantID, date, domain.AttendanceStatus(input.Status), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participant", "ID", input.ParticipantID))
			return
		}
		if errors.Is(err, service.ErrInvalidAttendanceStatus) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleSetAttendance -> h.svc.SetStatus -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, change)
}

// HandleSetAttendanceBatch godoc
// @Summary      Record one attendance status for many participants
// @Description  Applies a single status+date to a set of participants. Outcomes are reported per participant; the writes commit atomically.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        input  body      request.SetAttendanceBatchRequest  true  "batch attendance status"
// @Success      200    {object}  response.AttendanceBatchResponse
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /attendance/batch [post]
// @Security BearerAuth
func (h *AttendanceHandler) HandleSetAttendanceBatch(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tenant, respErr := getTenantFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.SetAttendanceBatchRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	date, err := input.ParsedDate()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid date: %v", err)))
		return
	}

	items, err := h.svc.SetStatusBatch(ctx.Request.Context(), tenant.OrganizationID, input.ParticipantIDs, date, domain.AttendanceStatus(input.Status), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAttendanceStatus) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleSetAttendanceBatch -> h.svc.SetStatusBatch -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.AttendanceBatchResponse{
		Date:  input.Date,
		Items: items,
	})
}
