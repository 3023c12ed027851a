package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ShrishPande/tallyinsight/internal/apperrors"
	portssvc "github.com/ShrishPande/tallyinsight/internal/core/ports/services"
	"github.com/ShrishPande/tallyinsight/internal/dto"
	"github.com/ShrishPande/tallyinsight/internal/middleware"
	"github.com/gin-gonic/gin"
)

// sessionHandler handles HTTP requests that read or change the dashboard session.
type sessionHandler struct {
	sessionService     portssvc.SessionSvc
	acquisitionService portssvc.AcquisitionSvcFacade
}

// newSessionHandler creates a new sessionHandler.
func newSessionHandler(ss portssvc.SessionSvc, as portssvc.AcquisitionSvcFacade) *sessionHandler {
	return &sessionHandler{
		sessionService:     ss,
		acquisitionService: as,
	}
}

// registerSessionRoutes registers routes related to the session and its connection.
func registerSessionRoutes(rg *gin.RouterGroup, ss portssvc.SessionSvc, as portssvc.AcquisitionSvcFacade) {
	h := newSessionHandler(ss, as)

	session := rg.Group("/session")
	{
		session.GET("", h.getSession)
		session.PUT("/config", h.updateConfig)
		session.PUT("/company", h.selectCompany)
		session.PUT("/date-range", h.setDateRange)
		session.POST("/refresh", h.refresh)
	}
	rg.GET("/connection", h.checkConnection)
	rg.GET("/companies", h.listCompanies)
}

// getSession godoc
// @Summary Get the dashboard session
// @Tags session
// @Produce  json
// @Success 200 {object} dto.SessionResponse
// @Router /session [get]
func (h *sessionHandler) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToSessionResponse(h.sessionService.Snapshot()))
}

// updateConfig godoc
// @Summary Switch between demo data and a live Tally server
// @Tags session
// @Accept  json
// @Produce  json
// @Param   config body dto.UpdateConfigRequest true "Connection config"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Router /session/config [put]
func (h *sessionHandler) updateConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateConfig", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	snap, err := h.sessionService.UpdateConfig(c.Request.Context(), req.ToDomain())
	if err != nil {
		respondError(c, logger, err, "Failed to update connection config")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(snap))
}

// selectCompany godoc
// @Summary Select the company shown on the dashboard
// @Tags session
// @Accept  json
// @Produce  json
// @Param   company body dto.SelectCompanyRequest true "Company"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} map[string]string "Unknown company"
// @Router /session/company [put]
func (h *sessionHandler) selectCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SelectCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SelectCompany", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	snap, err := h.sessionService.SelectCompany(c.Request.Context(), req.CompanyID)
	if err != nil {
		respondError(c, logger, err, "Failed to select company")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(snap))
}

// setDateRange godoc
// @Summary Set the reporting period
// @Tags session
// @Accept  json
// @Produce  json
// @Param   range body dto.DateRangeRequest true "Date range"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string "Invalid dates"
// @Router /session/date-range [put]
func (h *sessionHandler) setDateRange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DateRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetDateRange", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	r, err := req.ToDomain()
	if err != nil {
		respondError(c, logger, err, "Invalid date range")
		return
	}

	snap, err := h.sessionService.SetDateRange(c.Request.Context(), r)
	if err != nil {
		respondError(c, logger, err, "Failed to set date range")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(snap))
}

// refresh godoc
// @Summary Connect to the configured source and fetch the dashboard
// @Tags session
// @Produce  json
// @Success 200 {object} dto.AcquisitionResponse
// @Failure 409 {object} map[string]string "Superseded by a newer refresh"
// @Failure 502 {object} map[string]string "Tally request failed"
// @Failure 503 {object} map[string]string "Tally unreachable"
// @Router /session/refresh [post]
func (h *sessionHandler) refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to refresh dashboard")

	result, err := h.sessionService.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to refresh dashboard")
		return
	}
	c.JSON(http.StatusOK, dto.ToAcquisitionResponse(result))
}

func (h *sessionHandler) checkConnection(c *gin.Context) {
	cfg := h.sessionService.Snapshot().Config
	reachable := h.acquisitionService.CheckConnection(c.Request.Context(), cfg)
	c.JSON(http.StatusOK, dto.ConnectionResponse{
		BaseURL:    cfg.BaseURL,
		IsDemoMode: cfg.IsDemoMode,
		Reachable:  reachable,
	})
}

func (h *sessionHandler) listCompanies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cfg := h.sessionService.Snapshot().Config

	if !h.acquisitionService.CheckConnection(c.Request.Context(), cfg) {
		respondError(c, logger, fmt.Errorf("%w: %s", apperrors.ErrUnreachable, cfg.BaseURL), "Failed to list companies")
		return
	}
	companies, err := h.acquisitionService.ListCompanies(c.Request.Context(), cfg)
	if err != nil {
		respondError(c, logger, err, "Failed to list companies")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCompanyResponse(companies))
}
