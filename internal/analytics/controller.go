package analytics

import (
	"net/http"
	"time"

	"carequeue/internal/shared/apperrors"
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

type rangeQuery struct {
	From      string `form:"from" binding:"required"`
	To        string `form:"to" binding:"required"`
	StationID string `form:"station_id" binding:"omitempty,uuid"`
}

// GetRangeSummary handles GET /analytics?from=2025-01-01&to=2025-01-31.
// The "to" date is inclusive; internally the window is [from, to+1d).
func (c *Controller) GetRangeSummary(ctx *gin.Context) {
	var q rangeQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid query parameters: %v", err))
		return
	}

	from, err := time.Parse("2006-01-02", q.From)
	if err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid from date, expected YYYY-MM-DD"))
		return
	}
	to, err := time.Parse("2006-01-02", q.To)
	if err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid to date, expected YYYY-MM-DD"))
		return
	}
	to = to.AddDate(0, 0, 1)

	var stationID *uuid.UUID
	if q.StationID != "" {
		id, err := uuid.Parse(q.StationID)
		if err != nil {
			response.RespondError(ctx, apperrors.Validation("invalid station id"))
			return
		}
		stationID = &id
	}

	summary, err := c.service.GetRangeSummary(ctx.Request.Context(), from, to, stationID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Analytics retrieved successfully", summary)
}
