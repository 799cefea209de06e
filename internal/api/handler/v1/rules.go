package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/troopledger/troop-api/internal/api/handler/v1/request"
	"github.com/troopledger/troop-api/internal/api/handler/v1/response"
	"github.com/troopledger/troop-api/internal/domain"
)

type RulesService interface {
	GetRules(ctx context.Context, organizationID uint) domain.PointRules
	UpdateRules(ctx context.Context, organizationID uint, rules domain.PointRules) error
}

type RulesHandler struct {
	svc  RulesService
	uSvc UserService
}

func NewRulesHandler(svc RulesService, uSvc UserService) *RulesHandler {
	return &RulesHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetRules godoc
// @Summary      Get the organization's point rules
// @Description  Returns the configured rules, or the built-in defaults when the organization has none.
// @Tags         rules
// @Produce      json
// @Success      200  {object}  domain.PointRules
// @Failure      401  {object}  response.Err
// @Router       /organizations/rules [get]
// @Security BearerAuth
func (h *RulesHandler) HandleGetRules(ctx *gin.Context) {
	if _, respErr := getUserFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tenant, respErr := getTenantFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.JSON(http.StatusOK, h.svc.GetRules(ctx.Request.Context(), tenant.OrganizationID))
}

// HandleUpdateRules godoc
// @Summary      Replace the organization's point rules
// @Description  Admin only. The new rules apply to the next scored action; past ledger events are never recomputed.
// @Tags         rules
// @Accept       json
// @Produce      json
// @Param        input  body      request.UpdateRulesRequest  true  "point rules"
// @Success      200    {object}  domain.PointRules
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /organizations/rules [put]
// @Security BearerAuth
func (h *RulesHandler) HandleUpdateRules(ctx *gin.Context) {
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

	if user.Role != domain.RoleAdmin || user.OrganizationID != tenant.OrganizationID {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot update rules for this organization", user.ID)))
		return
	}

	var input request.UpdateRulesRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	rules := domain.PointRules{
		Present:      input.Present,
		Absent:       input.Absent,
		Late:         input.Late,
		Excused:      input.Excused,
		HonorAward:   input.HonorAward,
		BadgeEarn:    input.BadgeEarn,
		BadgeLevelUp: input.BadgeLevelUp,
	}

	if err := h.svc.UpdateRules(ctx.Request.Context(), tenant.OrganizationID, rules); err != nil {
		err = fmt.Errorf("v1.HandleUpdateRules -> h.svc.UpdateRules -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, rules)
}
