package intake

import (
	"net/http"

	"carequeue/internal/shared/apperrors"
	"carequeue/internal/shared/middleware"
	"carequeue/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) BillingIntake(ctx *gin.Context) {
	var req BillingIntakeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid request data: %v", err))
		return
	}

	actorID, ok := middleware.ActorID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "actor identity missing", nil, nil)
		return
	}

	result, err := c.service.BillingIntake(ctx.Request.Context(), req, actorID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusCreated, "Billing intake processed", result)
}

func (c *Controller) CheckIn(ctx *gin.Context) {
	var req CheckInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid request data: %v", err))
		return
	}

	actorID, ok := middleware.ActorID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "actor identity missing", nil, nil)
		return
	}

	entry, err := c.service.CheckIn(ctx.Request.Context(), req, actorID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusCreated, "Patient checked in", entry)
}

func (c *Controller) DiagnosticOrder(ctx *gin.Context) {
	var req DiagnosticOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid request data: %v", err))
		return
	}

	actorID, ok := middleware.ActorID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "actor identity missing", nil, nil)
		return
	}

	entry, err := c.service.DiagnosticOrder(ctx.Request.Context(), req, actorID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusCreated, "Diagnostic order queued", entry)
}
