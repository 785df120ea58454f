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

// accessKeyHandler handles HTTP requests for the member's access key.
type accessKeyHandler struct {
	accessKeyService portssvc.AccessKeySvcFacade
	memberService    portssvc.MemberSvc
	useSingleAuth    bool
}

func newAccessKeyHandler(accessKeySvc portssvc.AccessKeySvcFacade, memberSvc portssvc.MemberSvc, useSingleAuth bool) *accessKeyHandler {
	return &accessKeyHandler{
		accessKeyService: accessKeySvc,
		memberService:    memberSvc,
		useSingleAuth:    useSingleAuth,
	}
}

// RegisterAccessKeyRoutes registers routes related to access keys.
func RegisterAccessKeyRoutes(rg *gin.RouterGroup, accessKeySvc portssvc.AccessKeySvcFacade, memberSvc portssvc.MemberSvc, useSingleAuth bool) {
	h := newAccessKeyHandler(accessKeySvc, memberSvc, useSingleAuth)

	accessKey := rg.Group("/access-key")
	{
		accessKey.GET("", h.getAccessKey)
		accessKey.POST("/recalculate", h.recalculateAccessKey)
		accessKey.GET("/dc-journey-status", h.getDcJourneyStatus)
	}
}

// getAccessKey godoc
// @Summary Get the member's access key
// @Description Serves the cached access key, building and caching it when absent
// @Tags access-key
// @Produce  json
// @Param   basic query bool false "Build the reduced key without calculations"
// @Success 200 {object} dto.AccessKeyResponse
// @Failure 400 {object} map[string]string "Invalid query or member claims"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Member or tenant not found"
// @Failure 500 {object} map[string]string "Failed to build access key"
// @Security BearerAuth
// @Router /access-key [get]
func (h *accessKeyHandler) getAccessKey(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var query dto.AccessKeyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind access key query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	req, ok := h.buildRequest(c, logger)
	if !ok {
		return
	}
	req.UseBasicMode = query.Basic

	key, err := h.accessKeyService.GetOrCalculateKey(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to build access key")
		return
	}
	c.JSON(http.StatusOK, dto.AccessKeyResponse{
		AccessKey: key,
		Decoded:   h.accessKeyService.ParseJSONToAccessKey(key),
	})
}

// recalculateAccessKey godoc
// @Summary Recalculate the member's access key
// @Description Drops every cached value for the member and builds the access key again
// @Tags access-key
// @Produce  json
// @Success 200 {object} dto.AccessKeyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Member or tenant not found"
// @Failure 409 {object} map[string]string "A recalculation is already running for the member"
// @Failure 500 {object} map[string]string "Failed to recalculate access key"
// @Security BearerAuth
// @Router /access-key/recalculate [post]
func (h *accessKeyHandler) recalculateAccessKey(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	req, ok := h.buildRequest(c, logger)
	if !ok {
		return
	}

	key, err := h.accessKeyService.RecalculateKey(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to recalculate access key")
		return
	}
	logger.Info("Access key recalculated")
	c.JSON(http.StatusOK, dto.AccessKeyResponse{
		AccessKey: key,
		Decoded:   h.accessKeyService.ParseJSONToAccessKey(key),
	})
}

// getDcJourneyStatus godoc
// @Summary Get the member's DC journey status
// @Description Reads the most advanced DC journey state from the access key wording flags
// @Tags access-key
// @Produce  json
// @Success 200 {object} dto.DcJourneyStatusResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Member or tenant not found"
// @Failure 500 {object} map[string]string "Failed to build access key"
// @Security BearerAuth
// @Router /access-key/dc-journey-status [get]
func (h *accessKeyHandler) getDcJourneyStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	req, ok := h.buildRequest(c, logger)
	if !ok {
		return
	}

	key, err := h.accessKeyService.GetOrCalculateKey(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to build access key")
		return
	}
	var flags []string
	if decoded := h.accessKeyService.ParseJSONToAccessKey(key); decoded != nil {
		flags = decoded.WordingFlags
	}
	c.JSON(http.StatusOK, dto.DcJourneyStatusResponse{
		Status: h.accessKeyService.GetDcJourneyStatus(flags),
	})
}

// buildRequest loads the caller's member record and tenant settings. It writes the error
// response itself and reports false when the request cannot proceed.
func (h *accessKeyHandler) buildRequest(c *gin.Context, logger *slog.Logger) (domain.AccessKeyRequest, bool) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		logger.Error("Principal not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return domain.AccessKeyRequest{}, false
	}
	if err := binding.Validator.ValidateStruct(principal.Member); err != nil {
		logger.Warn("Member claims failed validation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member claims: " + err.Error()})
		return domain.AccessKeyRequest{}, false
	}

	ctx := c.Request.Context()
	member, err := h.memberService.GetMember(ctx, principal.Member.BusinessGroup, principal.Member.ReferenceNumber)
	if err != nil {
		respondWithError(c, logger, err, "Failed to load member")
		return domain.AccessKeyRequest{}, false
	}
	tenant, err := h.memberService.GetTenantSettings(ctx, member.BusinessGroup)
	if err != nil {
		respondWithError(c, logger, err, "Failed to load tenant settings")
		return domain.AccessKeyRequest{}, false
	}

	req := domain.NewAccessKeyRequest(member, tenant, principal.UserID)
	req.UseSingleAuth = h.useSingleAuth
	req.SingleAuthClaim = principal.SingleAuthClaim
	return req, true
}
