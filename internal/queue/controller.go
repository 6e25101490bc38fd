package queue

import (
	"net/http"

	"carequeue/internal/shared/apperrors"
	"carequeue/internal/shared/middleware"
	"carequeue/internal/shared/utils/response"
	"carequeue/internal/triage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) AddEntry(ctx *gin.Context) {
	var req AddEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid request data: %v", err))
		return
	}

	actorID, ok := middleware.ActorID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "actor identity missing", nil, nil)
		return
	}

	patientID, _ := uuid.Parse(req.PatientID)
	stationID, _ := uuid.Parse(req.StationID)

	entry, err := c.service.AddToQueue(ctx.Request.Context(), AddParams{
		PatientID:   patientID,
		StationID:   stationID,
		OrderRef:    req.OrderRef,
		IsEmergency: req.IsEmergency,
		Urgency:     req.Urgency,
		Notes:       req.Notes,
		ActorID:     actorID,
	})
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusCreated, "Patient added to queue", entry)
}

func (c *Controller) CallNext(ctx *gin.Context) {
	stationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid station id"))
		return
	}

	actorID, ok := middleware.ActorID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "actor identity missing", nil, nil)
		return
	}

	entry, err := c.service.CallNext(ctx.Request.Context(), stationID, actorID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Next patient called", entry)
}

func (c *Controller) StartServing(ctx *gin.Context) {
	c.entryAction(ctx, "Patient service started", func(entryID, actorID uuid.UUID) (interface{}, error) {
		return c.service.StartServing(ctx.Request.Context(), entryID, actorID)
	})
}

func (c *Controller) Complete(ctx *gin.Context) {
	c.entryAction(ctx, "Patient service completed", func(entryID, actorID uuid.UUID) (interface{}, error) {
		return c.service.Complete(ctx.Request.Context(), entryID, actorID)
	})
}

func (c *Controller) Skip(ctx *gin.Context) {
	c.entryAction(ctx, "Patient skipped", func(entryID, actorID uuid.UUID) (interface{}, error) {
		return c.service.Skip(ctx.Request.Context(), entryID, actorID)
	})
}

func (c *Controller) Recall(ctx *gin.Context) {
	c.entryAction(ctx, "Patient recalled", func(entryID, actorID uuid.UUID) (interface{}, error) {
		return c.service.Recall(ctx.Request.Context(), entryID, actorID)
	})
}

func (c *Controller) Transfer(ctx *gin.Context) {
	entryID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid entry id"))
		return
	}

	var req TransferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid request data: %v", err))
		return
	}

	actorID, ok := middleware.ActorID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "actor identity missing", nil, nil)
		return
	}

	targetID, _ := uuid.Parse(req.TargetStationID)
	result, err := c.service.Transfer(ctx.Request.Context(), entryID, targetID, req.Reason, actorID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Patient transferred", result)
}

func (c *Controller) Cancel(ctx *gin.Context) {
	entryID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid entry id"))
		return
	}

	var req CancelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, apperrors.Validation("cancel reason is required"))
		return
	}

	actorID, ok := middleware.ActorID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "actor identity missing", nil, nil)
		return
	}

	entry, err := c.service.Cancel(ctx.Request.Context(), entryID, req.Reason, actorID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Queue entry cancelled", entry)
}

func (c *Controller) ChangePriority(ctx *gin.Context) {
	entryID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid entry id"))
		return
	}

	var req ChangePriorityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid request data: %v", err))
		return
	}

	priority, err := triage.ParsePriority(req.Priority)
	if err != nil {
		response.RespondError(ctx, apperrors.Validation("unknown priority %q", req.Priority))
		return
	}

	actorID, ok := middleware.ActorID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "actor identity missing", nil, nil)
		return
	}

	entry, err := c.service.ChangePriority(ctx.Request.Context(), entryID, priority, req.Reason, actorID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Priority updated", entry)
}

func (c *Controller) Hold(ctx *gin.Context) {
	entryID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid entry id"))
		return
	}

	// The hold reason is optional, so an empty body is fine.
	var req HoldRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RespondError(ctx, apperrors.Validation("invalid request data: %v", err))
			return
		}
	}

	actorID, ok := middleware.ActorID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "actor identity missing", nil, nil)
		return
	}

	entry, err := c.service.Hold(ctx.Request.Context(), entryID, req.Reason, actorID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Queue entry placed on hold", entry)
}

func (c *Controller) ResumeFromHold(ctx *gin.Context) {
	c.entryAction(ctx, "Queue entry resumed", func(entryID, actorID uuid.UUID) (interface{}, error) {
		return c.service.ResumeFromHold(ctx.Request.Context(), entryID, actorID)
	})
}

func (c *Controller) GetEntryStatus(ctx *gin.Context) {
	entryID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid entry id"))
		return
	}

	entry, err := c.service.GetEntryStatus(ctx.Request.Context(), entryID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Queue entry retrieved", entry)
}

func (c *Controller) GetPatientEntries(ctx *gin.Context) {
	patientID, err := uuid.Parse(ctx.Param("patientId"))
	if err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid patient id"))
		return
	}

	entries, err := c.service.GetPatientEntries(ctx.Request.Context(), patientID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Patient entries retrieved", entries)
}

func (c *Controller) GetDisplayBoard(ctx *gin.Context) {
	stationID, err := uuid.Parse(ctx.Param("stationId"))
	if err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid station id"))
		return
	}

	board, err := c.service.GetDisplayBoard(ctx.Request.Context(), stationID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Display board retrieved", board)
}

// entryAction handles the shared shape of body-less entry transitions.
func (c *Controller) entryAction(ctx *gin.Context, successMsg string, action func(entryID, actorID uuid.UUID) (interface{}, error)) {
	entryID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid entry id"))
		return
	}

	actorID, ok := middleware.ActorID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "actor identity missing", nil, nil)
		return
	}

	result, err := action(entryID, actorID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, successMsg, result)
}
