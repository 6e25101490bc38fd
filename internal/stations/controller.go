package stations

import (
	"net/http"

	"carequeue/internal/shared/apperrors"
	"carequeue/internal/shared/middleware"
	"carequeue/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) CreateStation(ctx *gin.Context) {
	var req CreateStationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid request data: %v", err))
		return
	}

	station, err := c.service.CreateStation(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusCreated, "Station created successfully", station)
}

func (c *Controller) ListStations(ctx *gin.Context) {
	var filters Filters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid query parameters: %v", err))
		return
	}

	list, err := c.service.ListStations(ctx.Request.Context(), filters)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Stations retrieved successfully", list)
}

func (c *Controller) GetStationDetails(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid station id"))
		return
	}

	details, err := c.service.GetStationDetails(ctx.Request.Context(), id)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Station retrieved successfully", details)
}

func (c *Controller) UpdateStation(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid station id"))
		return
	}

	var req UpdateStationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid request data: %v", err))
		return
	}

	station, err := c.service.UpdateStation(ctx.Request.Context(), id, req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Station updated successfully", station)
}

func (c *Controller) PauseStation(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid station id"))
		return
	}

	var req PauseStationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, apperrors.Validation("pause reason is required"))
		return
	}

	actorID, ok := middleware.ActorID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "actor identity missing", nil, nil)
		return
	}

	station, err := c.service.PauseStation(ctx.Request.Context(), id, req.Reason, actorID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Station paused", station)
}

func (c *Controller) ResumeStation(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid station id"))
		return
	}

	actorID, ok := middleware.ActorID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "actor identity missing", nil, nil)
		return
	}

	station, err := c.service.ResumeStation(ctx.Request.Context(), id, actorID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Station resumed", station)
}

func (c *Controller) ResetAllDailyTokens(ctx *gin.Context) {
	actorID, ok := middleware.ActorID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "actor identity missing", nil, nil)
		return
	}

	result, err := c.service.ResetAllDailyTokens(ctx.Request.Context(), actorID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Daily tokens reset", result)
}
