package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/mdp_service/internal/core/domain"
	portssvc "github.com/SscSPs/mdp_service/internal/core/ports/services"
	"github.com/SscSPs/mdp_service/internal/dto"
	"github.com/SscSPs/mdp_service/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// journeyHandler handles HTTP requests related to member journeys.
type journeyHandler struct {
	journeyService portssvc.JourneySvcFacade
}

func newJourneyHandler(js portssvc.JourneySvcFacade) *journeyHandler {
	return &journeyHandler{journeyService: js}
}

// RegisterJourneyRoutes registers routes related to journeys.
func RegisterJourneyRoutes(rg *gin.RouterGroup, journeySvc portssvc.JourneySvcFacade) {
	h := newJourneyHandler(journeySvc)

	journeys := rg.Group("/journeys/:type")
	{
		journeys.GET("", h.getJourney)
		journeys.POST("", h.startJourney)
		journeys.POST("/steps", h.submitStep)
		journeys.POST("/rewind", h.rewindJourney)
		journeys.PUT("/generic-data", h.saveGenericData)
		journeys.POST("/submit", h.submitJourney)
	}
}

// journeyScope binds the journey type and the caller's member. It writes the error response
// itself and reports false when the request cannot proceed.
func journeyScope(c *gin.Context, logger *slog.Logger) (dto.MemberRef, string, bool) {
	var uri dto.JourneyTypeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		logger.Warn("Invalid journey type", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journey type: " + err.Error()})
		return dto.MemberRef{}, "", false
	}
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		logger.Error("Principal not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return dto.MemberRef{}, "", false
	}
	if err := binding.Validator.ValidateStruct(principal.Member); err != nil {
		logger.Warn("Member claims failed validation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member claims: " + err.Error()})
		return dto.MemberRef{}, "", false
	}
	return principal.Member, uri.Type, true
}

func respondWithJourney(c *gin.Context, status int, journey *domain.Journey) {
	c.JSON(status, dto.ToJourneyResponse(journey))
}

// getJourney godoc
// @Summary Get a journey
// @Description Returns the member's journey of the given type
// @Tags journeys
// @Produce  json
// @Param   type path string true "Journey type"
// @Success 200 {object} dto.JourneyResponse
// @Failure 400 {object} map[string]string "Invalid journey type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journey not found"
// @Failure 500 {object} map[string]string "Failed to get journey"
// @Security BearerAuth
// @Router /journeys/{type} [get]
func (h *journeyHandler) getJourney(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	member, journeyType, ok := journeyScope(c, logger)
	if !ok {
		return
	}

	journey, err := h.journeyService.GetJourney(c.Request.Context(), member, journeyType)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get journey")
		return
	}
	respondWithJourney(c, http.StatusOK, journey)
}

// startJourney godoc
// @Summary Start a journey
// @Description Starts a journey of the given type, replacing any unsubmitted journey of that type
// @Tags journeys
// @Accept  json
// @Produce  json
// @Param   type path string true "Journey type"
// @Param   journey body dto.StartJourneyRequest true "Start page"
// @Success 201 {object} dto.JourneyResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Journey already submitted"
// @Failure 500 {object} map[string]string "Failed to start journey"
// @Security BearerAuth
// @Router /journeys/{type} [post]
func (h *journeyHandler) startJourney(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	member, journeyType, ok := journeyScope(c, logger)
	if !ok {
		return
	}
	var req dto.StartJourneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for StartJourney", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	journey, err := h.journeyService.StartJourney(c.Request.Context(), member, journeyType, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to start journey")
		return
	}
	respondWithJourney(c, http.StatusCreated, journey)
}

// submitStep godoc
// @Summary Submit a journey step
// @Description Completes the current page and moves the journey to the next one
// @Tags journeys
// @Accept  json
// @Produce  json
// @Param   type path string true "Journey type"
// @Param   step body dto.SubmitStepRequest true "Step details"
// @Success 200 {object} dto.JourneyResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journey or step not found"
// @Failure 410 {object} map[string]string "Journey expired"
// @Failure 500 {object} map[string]string "Failed to submit step"
// @Security BearerAuth
// @Router /journeys/{type}/steps [post]
func (h *journeyHandler) submitStep(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	member, journeyType, ok := journeyScope(c, logger)
	if !ok {
		return
	}
	var req dto.SubmitStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitStep", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	journey, err := h.journeyService.SubmitStep(c.Request.Context(), member, journeyType, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to submit step")
		return
	}
	respondWithJourney(c, http.StatusOK, journey)
}

// rewindJourney godoc
// @Summary Rewind a journey
// @Description Reopens an earlier page on a new branch
// @Tags journeys
// @Accept  json
// @Produce  json
// @Param   type path string true "Journey type"
// @Param   rewind body dto.RewindJourneyRequest true "Page to reopen"
// @Success 200 {object} dto.JourneyResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journey or step not found"
// @Failure 500 {object} map[string]string "Failed to rewind journey"
// @Security BearerAuth
// @Router /journeys/{type}/rewind [post]
func (h *journeyHandler) rewindJourney(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	member, journeyType, ok := journeyScope(c, logger)
	if !ok {
		return
	}
	var req dto.RewindJourneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RewindJourney", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	journey, err := h.journeyService.RewindJourney(c.Request.Context(), member, journeyType, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to rewind journey")
		return
	}
	respondWithJourney(c, http.StatusOK, journey)
}

// saveGenericData godoc
// @Summary Save journey form data
// @Description Stores a JSON document against a step of the journey
// @Tags journeys
// @Accept  json
// @Produce  json
// @Param   type path string true "Journey type"
// @Param   data body dto.SaveGenericDataRequest true "Form data"
// @Success 200 {object} dto.JourneyResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journey or step not found"
// @Failure 500 {object} map[string]string "Failed to save journey data"
// @Security BearerAuth
// @Router /journeys/{type}/generic-data [put]
func (h *journeyHandler) saveGenericData(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	member, journeyType, ok := journeyScope(c, logger)
	if !ok {
		return
	}
	var req dto.SaveGenericDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SaveGenericData", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	journey, err := h.journeyService.SaveGenericData(c.Request.Context(), member, journeyType, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to save journey data")
		return
	}
	respondWithJourney(c, http.StatusOK, journey)
}

// submitJourney godoc
// @Summary Submit a journey
// @Description Completes the journey and records the submission with the member
// @Tags journeys
// @Produce  json
// @Param   type path string true "Journey type"
// @Success 200 {object} dto.JourneyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journey not found"
// @Failure 409 {object} map[string]string "Journey already submitted"
// @Failure 410 {object} map[string]string "Journey expired"
// @Failure 500 {object} map[string]string "Failed to submit journey"
// @Security BearerAuth
// @Router /journeys/{type}/submit [post]
func (h *journeyHandler) submitJourney(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	member, journeyType, ok := journeyScope(c, logger)
	if !ok {
		return
	}

	journey, err := h.journeyService.SubmitJourney(c.Request.Context(), member, journeyType)
	if err != nil {
		respondWithError(c, logger, err, "Failed to submit journey")
		return
	}
	logger.Info("Journey submitted", slog.String("journey_type", journeyType), slog.String("journey_id", journey.ID))
	respondWithJourney(c, http.StatusOK, journey)
}
