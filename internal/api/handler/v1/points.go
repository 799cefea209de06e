package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/troopledger/troop-api/internal/api/handler/v1/request"
	"github.com/troopledger/troop-api/internal/api/handler/v1/response"
	"github.com/troopledger/troop-api/internal/domain"
	"github.com/troopledger/troop-api/internal/service"
)

type LedgerService interface {
	AwardGroup(ctx context.Context, organizationID, groupID uint, value int, effectiveDate time.Time) ([]domain.PointEvent, error)
	TotalForParticipant(ctx context.Context, participantID, organizationID uint) (int, error)
	TotalForGroup(ctx context.Context, groupID, organizationID uint) (int, error)
	TotalForOrganization(ctx context.Context, organizationID uint) (int, error)
	Leaderboard(ctx context.Context, organizationID uint, limit int) ([]domain.LeaderboardEntry, error)
}

type PointsHandler struct {
	svc  LedgerService
	uSvc UserService
}

func NewPointsHandler(svc LedgerService, uSvc UserService) *PointsHandler {
	return &PointsHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetParticipantPoints godoc
// @Summary      Get a participant's point total
// @Tags         points
// @Produce      json
// @Param        participantID  path      int  true  "Participant ID"
// @Success      200  {object}  response.PointTotalResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /points/participants/{participantID} [get]
// @Security BearerAuth
func (h *PointsHandler) HandleGetParticipantPoints(ctx *gin.Context) {
	if _, respErr := getUserFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tenant, respErr := getTenantFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	participantID, err := strconv.ParseUint(ctx.Param("participantID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid participant ID: %w", err)))
		return
	}

	total, err := h.svc.TotalForParticipant(ctx.Request.Context(), uint(participantID), tenant.OrganizationID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetParticipantPoints -> h.svc.TotalForParticipant -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.PointTotalResponse{
		SubjectType:    "participant",
		SubjectID:      uint(participantID),
		OrganizationID: tenant.OrganizationID,
		Total:          total,
	})
}

// HandleGetGroupPoints godoc
// @Summary      Get a group's point total
// @Tags         points
// @Produce      json
// @Param        groupID  path      int  true  "Group ID"
// @Success      200  {object}  response.PointTotalResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /points/groups/{groupID} [get]
// @Security BearerAuth
func (h *PointsHandler) HandleGetGroupPoints(ctx *gin.Context) {
	if _, respErr := getUserFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tenant, respErr := getTenantFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	groupID, err := strconv.ParseUint(ctx.Param("groupID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid group ID: %w", err)))
		return
	}

	total, err := h.svc.TotalForGroup(ctx.Request.Context(), uint(groupID), tenant.OrganizationID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetGroupPoints -> h.svc.TotalForGroup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.PointTotalResponse{
		SubjectType:    "group",
		SubjectID:      uint(groupID),
		OrganizationID: tenant.OrganizationID,
		Total:          total,
	})
}

// HandleGetLeaderboard godoc
// @Summary      Get the organization's participant leaderboard
// @Tags         points
// @Produce      json
// @Param        limit  query     int  false  "Maximum entries (default 50)"
// @Success      200  {object}  response.LeaderboardResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /points/leaderboard [get]
// @Security BearerAuth
func (h *PointsHandler) HandleGetLeaderboard(ctx *gin.Context) {
	if _, respErr := getUserFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tenant, respErr := getTenantFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))

	entries, err := h.svc.Leaderboard(ctx.Request.Context(), tenant.OrganizationID, limit)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetLeaderboard -> h.svc.Leaderboard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.LeaderboardResponse{
		OrganizationID: tenant.OrganizationID,
		Entries:        entries,
	})
}

// HandleAwardGroupPoints godoc
// @Summary      Award points to a group
// @Description  Appends the group's own event and fans out one event per current member, so member totals include the bonus without a read-time join. Requires an admin or leader role.
// @Tags         points
// @Accept       json
// @Produce      json
// @Param        input  body      request.GroupAwardRequest  true  "group award"
// @Success      200    {object}  response.GroupAwardResponse
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /points/groups/award [post]
// @Security BearerAuth
func (h *PointsHandler) HandleAwardGroupPoints(ctx *gin.Context) {
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

	if !user.CanReview(tenant.OrganizationID) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot award group points for this organization", user.ID)))
		return
	}

	var input request.GroupAwardRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var effectiveDate time.Time
	if input.Date != "" {
		parsed, err := time.Parse(request.DateFormat, input.Date)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid date: %v", err)))
			return
		}
		effectiveDate = parsed
	}

	events, err := h.svc.AwardGroup(ctx.Request.Context(), tenant.OrganizationID, input.GroupID, input.Value, effectiveDate)
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("group", "ID", input.GroupID))
			return
		}

		err = fmt.Errorf("v1.HandleAwardGroupPoints -> h.svc.AwardGroup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.GroupAwardResponse{
		GroupID:       input.GroupID,
		Value:         input.Value,
		EventsWritten: len(events),
	})
}
