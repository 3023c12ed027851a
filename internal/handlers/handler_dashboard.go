package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	portssvc "github.com/ShrishPande/tallyinsight/internal/core/ports/services"
	"github.com/ShrishPande/tallyinsight/internal/dto"
	"github.com/ShrishPande/tallyinsight/internal/middleware"
	"github.com/gin-gonic/gin"
)

// dashboardHandler serves the dashboard bundle, KPI drill-downs and advisory insights.
type dashboardHandler struct {
	sessionService portssvc.SessionSvc
	insightService portssvc.InsightSvc
}

func newDashboardHandler(ss portssvc.SessionSvc, is portssvc.InsightSvc) *dashboardHandler {
	return &dashboardHandler{
		sessionService: ss,
		insightService: is,
	}
}

// registerDashboardRoutes registers routes related to the dashboard.
func registerDashboardRoutes(rg *gin.RouterGroup, ss portssvc.SessionSvc, is portssvc.InsightSvc) {
	h := newDashboardHandler(ss, is)

	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("", h.getDashboard)
		dashboard.GET("/breakdown/:metric", h.getBreakdown)
	}
	rg.POST("/insights", h.generateInsight)
}

// selectedCompany resolves the session's company; a missing one still yields its ID.
func (h *dashboardHandler) selectedCompany() domain.Company {
	snap := h.sessionService.Snapshot()
	if c, ok := snap.SelectedCompany(); ok {
		return c
	}
	return domain.Company{ID: snap.SelectedCompanyID}
}

// getDashboard godoc
// @Summary Get the dashboard for the selected company
// @Description Returns the last fetched bundle, refreshing first when there is none
// @Tags dashboard
// @Produce  json
// @Success 200 {object} dto.DashboardResponse
// @Failure 404 {object} map[string]string "No company available"
// @Failure 503 {object} map[string]string "Tally unreachable"
// @Router /dashboard [get]
func (h *dashboardHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	bundle, err := h.sessionService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, dto.ToDashboardResponse(bundle, h.selectedCompany()))
}

// getBreakdown godoc
// @Summary Split one KPI into its contributing ledgers
// @Tags dashboard
// @Produce  json
// @Param   metric path string true "revenue, net-profit, cash-balance or gst-payable"
// @Success 200 {object} dto.BreakdownResponse
// @Failure 404 {object} map[string]string "Unknown metric"
// @Router /dashboard/breakdown/{metric} [get]
func (h *dashboardHandler) getBreakdown(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	metric := c.Param("metric")

	breakdown, err := h.sessionService.Breakdown(c.Request.Context(), metric)
	if err != nil {
		respondError(c, logger.With(slog.String("metric", metric)), err, "Failed to load metric breakdown")
		return
	}
	c.JSON(http.StatusOK, dto.ToBreakdownResponse(breakdown, h.selectedCompany().Currency))
}

// generateInsight godoc
// @Summary Generate advisory text for the current dashboard
// @Description Never fails once a dashboard exists; advisory errors return a fixed fallback
// @Tags dashboard
// @Produce  json
// @Success 200 {object} dto.InsightResponse
// @Router /insights [post]
func (h *dashboardHandler) generateInsight(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	bundle, err := h.sessionService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to load dashboard for insight")
		return
	}
	insight := h.insightService.InsightForDashboard(c.Request.Context(), bundle)
	c.JSON(http.StatusOK, dto.ToInsightResponse(h.selectedCompany().ID, insight))
}
