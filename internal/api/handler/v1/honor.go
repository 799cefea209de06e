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

type HonorService interface {
	Award(ctx context.Context, organizationID, participantID uint, date time.Time) (domain.HonorAwardResult, error)
	AwardBatch(ctx context.Context, organizationID uint, participantIDs []uint, date time.Time) ([]domain.HonorAwardResult, error)
}

type HonorHandler struct {
	svc  HonorService
	uSvc UserService
}

func NewHonorHandler(svc HonorService, uSvc UserService) *HonorHandler {
	return &HonorHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleAwardHonor godoc
// @Summary      Award the day's honor to a participant
// @Description  At most one honor exists per participant and date. Re-awarding reports awarded=false and changes nothing.
// @Tags         honors
// @Accept       json
// @Produce      json
// @Param        input  body      request.AwardHonorRequest  true  "honor award"
// @Success      200    {object}  domain.HonorAwardResult
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /honors [post]
// @Security BearerAuth
func (h *HonorHandler) HandleAwardHonor(ctx *gin.Context) {
	if _, respErr := getUserFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tenant, respErr := getTenantFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.AwardHonorRequest
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

	result, err := h.svc.Award(ctx.Request.Context(), tenant.OrganizationID, input.ParticipantID, date)
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participant", "ID", input.ParticipantID))
			return
		}

		err = fmt.Errorf("v1.HandleAwardHonor -> h.svc.Award -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleAwardHonorBatch godoc
// @Summary      Award the day's honor to many participants
// @Description  Each participant is awarded independently; duplicates report awarded=false without failing the batch.
// @Tags         honors
// @Accept       json
// @Produce      json
// @Param        input  body      request.AwardHonorBatchRequest  true  "batch honor award"
// @Success      200    {object}  response.HonorBatchResponse
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /honors/batch [post]
// @Security BearerAuth
func (h *HonorHandler) HandleAwardHonorBatch(ctx *gin.Context) {
	if _, respErr := getUserFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tenant, respErr := getTenantFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.AwardHonorBatchRequest
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

	results, err := h.svc.AwardBatch(ctx.Request.Context(), tenant.OrganizationID, input.ParticipantIDs, date)
	if err != nil {
		err = fmt.Errorf("v1.HandleAwardHonorBatch -> h.svc.AwardBatch -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.HonorBatchResponse{
		Date:    input.Date,
		Results: results,
	})
}
