package http

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agendaclin/agenda-slots-engine/internal/config"
	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/in"
	"github.com/agendaclin/agenda-slots-engine/internal/utils"
)

type AgendaController struct {
	useCase in.AgendaUseCase
	cfg     *config.Config
}

func NewAgendaController(useCase in.AgendaUseCase, cfg *config.Config) *AgendaController {
	return &AgendaController{
		useCase: useCase,
		cfg:     cfg,
	}
}

func (c *AgendaController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(basicAuth(c.cfg))
	{
		api.GET("/clinics/:clinicId/professionals/:professionalId/slots/:date", c.getDaySlots)
		api.GET("/clinics/:clinicId/grid/:date", c.getGrid)
		api.POST("/appointments/:appointmentId/cancel", c.cancelAppointment)
	}
}

func (c *AgendaController) getDaySlots(ctx *gin.Context) {
	clinicID, err := uuid.Parse(ctx.Param("clinicId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "clinicId inválido"})
		return
	}
	professionalID, err := uuid.Parse(ctx.Param("professionalId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "professionalId inválido"})
		return
	}
	day, err := utils.ParseDate(ctx.Param("date"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "data inválida"})
		return
	}

	slots, err := c.useCase.GetDaySlots(ctx.Request.Context(), clinicID, professionalID, day)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, slots)
}

func (c *AgendaController) getGrid(ctx *gin.Context) {
	clinicID, err := uuid.Parse(ctx.Param("clinicId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "clinicId inválido"})
		return
	}
	day, err := utils.ParseDate(ctx.Param("date"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "data inválida"})
		return
	}

	grid, err := c.useCase.GetMultiProfessionalGrid(ctx.Request.Context(), clinicID, day)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"slots": grid})
}

type CancelAppointmentRequest struct {
	TargetStatus      domain.AppointmentStatus `json:"targetStatus" binding:"required"`
	Reason            string                   `json:"reason"`
	CancelType        domain.CancelType        `json:"cancelType"`
	NotifyPatient     bool                     `json:"notifyPatient"`
	ConsentWhatsApp   bool                     `json:"consentWhatsapp"`
	ConsentEmail      bool                     `json:"consentEmail"`
	RecipientWhatsApp string                   `json:"recipientWhatsapp"`
	RecipientEmail    string                   `json:"recipientEmail"`
}

func (c *AgendaController) cancelAppointment(ctx *gin.Context) {
	appointmentID, err := uuid.Parse(ctx.Param("appointmentId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "appointmentId inválido"})
		return
	}

	var req CancelAppointmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := c.useCase.CancelAppointment(ctx.Request.Context(), in.CancelCommand{
		AppointmentID: appointmentID,
		TargetStatus:  req.TargetStatus,
		Reason:        req.Reason,
		CancelType:    req.CancelType,
		NotifyPatient: req.NotifyPatient,
		Consent: domain.PatientConsent{
			WhatsApp: req.ConsentWhatsApp,
			Email:    req.ConsentEmail,
		},
		RecipientWhatsApp: req.RecipientWhatsApp,
		RecipientEmail:    req.RecipientEmail,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// respondError mapeia os erros do domínio para códigos HTTP
func respondError(ctx *gin.Context, err error) {
	var validationErr *domain.ValidationError
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
	case errors.As(err, &conflictErr):
		ctx.JSON(http.StatusConflict, gin.H{
			"error":     conflictErr.Error(),
			"conflicts": conflictErr.Conflicts,
		})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// basicAuth aceita qualquer par usuário:senha configurado, com
// comparação em tempo constante
func basicAuth(cfg *config.Config) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range cfg.Auth.BasicClients {
			if subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1 &&
				subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1 {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}
