package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agendaclin/agenda-slots-engine/internal/config"
	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
	"github.com/agendaclin/agenda-slots-engine/internal/core/json_types"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/in"
)

type RecurrenceController struct {
	useCase in.RecurrenceUseCase
	cfg     *config.Config
}

func NewRecurrenceController(useCase in.RecurrenceUseCase, cfg *config.Config) *RecurrenceController {
	return &RecurrenceController{
		useCase: useCase,
		cfg:     cfg,
	}
}

func (c *RecurrenceController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(basicAuth(c.cfg))
	{
		api.POST("/recurrences", c.createSeries)
		api.PATCH("/recurrences/:recurrenceId", c.applyEdit)
		api.GET("/recurrences/:recurrenceId/preview-removed", c.previewRemoved)
		api.POST("/recurrences/:recurrenceId/exceptions", c.toggleException)
		api.POST("/recurrences/:recurrenceId/finalize", c.finalize)
		api.POST("/recurrences/:recurrenceId/extend", c.extendHorizon)
	}
}

type CreateSeriesRequest struct {
	ProfessionalProfileID uuid.UUID                `json:"professionalProfileId" binding:"required"`
	ClinicID              uuid.UUID                `json:"clinicId" binding:"required"`
	PatientID             *uuid.UUID               `json:"patientId"`
	PatientName           string                   `json:"patientName"`
	Type                  domain.AppointmentType   `json:"type" binding:"required"`
	Modality              domain.Modality          `json:"modality"`
	Price                 *float64                 `json:"price"`
	FirstDate             json_types.Date          `json:"firstDate" binding:"required"`
	StartTime             json_types.ClockTime     `json:"startTime" binding:"required"`
	Duration              int                      `json:"duration" binding:"required"` // minutos
	RecurrenceType        domain.RecurrenceType    `json:"recurrenceType" binding:"required"`
	RecurrenceEndType     domain.RecurrenceEndType `json:"recurrenceEndType" binding:"required"`
	Occurrences           *int                     `json:"occurrences"`
	EndDate               *json_types.Date         `json:"endDate"`
}

func (c *RecurrenceController) createSeries(ctx *gin.Context) {
	var req CreateSeriesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var endDate *time.Time
	if req.EndDate != nil {
		endDate = &req.EndDate.Date
	}

	result, err := c.useCase.CreateSeries(ctx.Request.Context(), in.CreateSeriesCommand{
		Recurrence: domain.AppointmentRecurrence{
			ProfessionalProfileID: req.ProfessionalProfileID,
			RecurrenceType:        req.RecurrenceType,
			RecurrenceEndType:     req.RecurrenceEndType,
			StartTime:             req.StartTime.Clock,
			Duration:              req.Duration,
			Occurrences:           req.Occurrences,
			EndDate:               endDate,
			IsActive:              true,
		},
		FirstDate:   req.FirstDate.Date,
		ClinicID:    req.ClinicID,
		PatientID:   req.PatientID,
		PatientName: req.PatientName,
		Type:        req.Type,
		Modality:    req.Modality,
		Price:       req.Price,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	// Conflito não é erro de transporte: 409 com o índice da ocorrência
	if result.ConflictAt >= 0 {
		ctx.JSON(http.StatusConflict, result)
		return
	}

	ctx.JSON(http.StatusCreated, result)
}

type ApplyEditRequest struct {
	Scope domain.EditScope       `json:"scope" binding:"required"`
	Patch domain.RecurrencePatch `json:"patch"`
}

func (c *RecurrenceController) applyEdit(ctx *gin.Context) {
	recurrenceID, err := uuid.Parse(ctx.Param("recurrenceId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "recurrenceId inválido"})
		return
	}

	var req ApplyEditRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := c.useCase.ApplyEdit(ctx.Request.Context(), recurrenceID, req.Patch, req.Scope)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if len(result.Conflicts) > 0 {
		ctx.JSON(http.StatusConflict, result)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func (c *RecurrenceController) previewRemoved(ctx *gin.Context) {
	recurrenceID, err := uuid.Parse(ctx.Param("recurrenceId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "recurrenceId inválido"})
		return
	}

	newType := domain.RecurrenceType(ctx.Query("newType"))
	if newType == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "newType obrigatório"})
		return
	}

	dates, err := c.useCase.PreviewRemoved(ctx.Request.Context(), recurrenceID, newType)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"removedDates": dates})
}

type ToggleExceptionRequest struct {
	Date   json_types.Date    `json:"date" binding:"required"`
	Action in.ExceptionAction `json:"action" binding:"required"`
}

func (c *RecurrenceController) toggleException(ctx *gin.Context) {
	recurrenceID, err := uuid.Parse(ctx.Param("recurrenceId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "recurrenceId inválido"})
		return
	}

	var req ToggleExceptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := c.useCase.ToggleException(ctx.Request.Context(), recurrenceID, req.Date.Date.Format("2006-01-02"), req.Action)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

type FinalizeRequest struct {
	EndDate      *json_types.Date `json:"endDate"` // nulo encerra na hora
	CancelBeyond bool             `json:"cancelBeyond"`
}

func (c *RecurrenceController) finalize(ctx *gin.Context) {
	recurrenceID, err := uuid.Parse(ctx.Param("recurrenceId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "recurrenceId inválido"})
		return
	}

	var req FinalizeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var endDate *time.Time
	if req.EndDate != nil {
		endDate = &req.EndDate.Date
	}

	result, err := c.useCase.Finalize(ctx.Request.Context(), recurrenceID, endDate, req.CancelBeyond)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func (c *RecurrenceController) extendHorizon(ctx *gin.Context) {
	recurrenceID, err := uuid.Parse(ctx.Param("recurrenceId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "recurrenceId inválido"})
		return
	}

	result, err := c.useCase.ExtendHorizon(ctx.Request.Context(), recurrenceID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}
