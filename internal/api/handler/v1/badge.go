package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/troopledger/troop-api/internal/api/handler/v1/request"
	"github.com/troopledger/troop-api/internal/api/handler/v1/response"
	"github.com/troopledger/troop-api/internal/domain"
	"github.com/troopledger/troop-api/internal/service"
)

type BadgeService interface {
	Submit(ctx context.Context, organizationID, participantID uint, territory, objective string, levelUp bool) (domain.BadgeProgress, error)
	Approve(ctx context.Context, badgeID uint, actor domain.User) (domain.BadgeTransition, error)
	Reject(ctx context.Context, badgeID uint, actor domain.User) (domain.BadgeTransition, error)
	Pending(ctx context.Context, organizationID uint, actor domain.User) ([]domain.BadgeProgress, error)
}

type BadgeHandler struct {
	svc  BadgeService
	uSvc UserService
}

func NewBadgeHandler(svc BadgeService, uSvc UserService) *BadgeHandler {
	return &BadgeHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleSubmitBadge godoc
// @Summary      Submit badge progress for review
// @Tags         badges
// @Accept       json
// @Produce      json
// @Param        input  body      request.SubmitBadgeRequest  true  "badge submission"
// @Success      201    {object}  domain.BadgeProgress
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /badges [post]
// @Security BearerAuth
func (h *BadgeHandler) HandleSubmitBadge(ctx *gin.Context) {
	if _, respErr := getUserFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tenant, respErr := getTenantFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.SubmitBadgeRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	badge, err := h.svc.Submit(ctx.Request.Context(), tenant.OrganizationID, input.ParticipantID, input.Territory, input.Objective, input.LevelUp)
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participant", "ID", input.ParticipantID))
			return
		}

		err = fmt.Errorf("v1.HandleSubmitBadge -> h.svc.Submit -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, badge)
}

// HandleApproveBadge godoc
// @Summary      Approve a pending badge submission
// @Description  Requires an admin or leader role in the submission's own organization. Approving an already-terminal submission is a no-op result.
// @Tags         badges
// @Produce      json
// @Param        badgeID  path      int  true  "Badge progress ID"
// @Success      200      {object}  domain.BadgeTransition
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /badges/{badgeID}/approve [post]
// @Security BearerAuth
func (h *BadgeHandler) HandleApproveBadge(ctx *gin.Context) {
	h.handleTransition(ctx, h.svc.Approve)
}

// HandleRejectBadge godoc
// @Summary      Reject a pending badge submission
// @Description  Requires an admin or leader role in the submission's own organization. No point event is written. Rejecting an already-terminal submission is a no-op result.
// @Tags         badges
// @Produce      json
// @Param        badgeID  path      int  true  "Badge progress ID"
// @Success      200      {object}  domain.BadgeTransition
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /badges/{badgeID}/reject [post]
// @Security BearerAuth
func (h *BadgeHandler) HandleRejectBadge(ctx *gin.Context) {
	h.handleTransition(ctx, h.svc.Reject)
}

func (h *BadgeHandler) handleTransition(ctx *gin.Context, transition func(context.Context, uint, domain.User) (domain.BadgeTransition, error)) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	badgeID, err := strconv.ParseUint(ctx.Param("badgeID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid badge ID: %w", err)))
		return
	}

	result, err := transition(ctx.Request.Context(), uint(badgeID), user)
	if err != nil {
		if errors.Is(err, service.ErrBadgeNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("badge progress", "ID", badgeID))
			return
		}
		if errors.Is(err, service.ErrNotAuthorizedReviewer) {
			response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot review badges for this organization", user.ID)))
			return
		}

		err = fmt.Errorf("v1.BadgeHandler.handleTransition -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleGetPendingBadges godoc
// @Summary      List badge submissions awaiting review
// @Tags         badges
// @Produce      json
// @Success      200  {array}   domain.BadgeProgress
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /badges/pending [get]
// @Security BearerAuth
func (h *BadgeHandler) HandleGetPendingBadges(ctx *gin.Context) {
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

	badges, err := h.svc.Pending(ctx.Request.Context(), tenant.OrganizationID, user)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorizedReviewer) {
			response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot review badges for this organization", user.ID)))
			return
		}

		err = fmt.Errorf("v1.HandleGetPendingBadges -> h.svc.Pending -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, badges)
}
