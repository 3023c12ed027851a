package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ShrishPande/tallyinsight/internal/apperrors"
	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	portssvc "github.com/ShrishPande/tallyinsight/internal/core/ports/services"
	"github.com/ShrishPande/tallyinsight/internal/dto"
	"github.com/ShrishPande/tallyinsight/internal/middleware"
	"github.com/ShrishPande/tallyinsight/internal/utils"
	"github.com/ShrishPande/tallyinsight/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// registerHandler serves the sales and purchase voucher registers.
type registerHandler struct {
	sessionService     portssvc.SessionSvc
	acquisitionService portssvc.AcquisitionFetcherSvc
	exportService      portssvc.ExportSvc
	posthogClient      *utils.PosthogClientWrapper
}

func newRegisterHandler(ss portssvc.SessionSvc, as portssvc.AcquisitionFetcherSvc, es portssvc.ExportSvc, ph *utils.PosthogClientWrapper) *registerHandler {
	return &registerHandler{
		sessionService:     ss,
		acquisitionService: as,
		exportService:      es,
		posthogClient:      ph,
	}
}

// registerRegisterRoutes registers routes related to voucher registers.
func registerRegisterRoutes(rg *gin.RouterGroup, ss portssvc.SessionSvc, as portssvc.AcquisitionFetcherSvc, es portssvc.ExportSvc, ph *utils.PosthogClientWrapper) {
	h := newRegisterHandler(ss, as, es, ph)

	registers := rg.Group("/registers/:kind")
	{
		registers.GET("", h.listRegister)
		registers.GET("/export", h.exportRegister)
	}
}

func parseKind(c *gin.Context) (domain.RegisterKind, error) {
	kind, ok := domain.ParseRegisterKind(c.Param("kind"))
	if !ok {
		return "", fmt.Errorf("%w: unknown register %q", apperrors.ErrNotFound, c.Param("kind"))
	}
	return kind, nil
}

// companyOrSelected falls back to the session's selected company.
func (h *registerHandler) companyOrSelected(companyID string) (string, error) {
	if companyID != "" {
		return companyID, nil
	}
	if selected := h.sessionService.Snapshot().SelectedCompanyID; selected != "" {
		return selected, nil
	}
	return "", fmt.Errorf("%w: no company selected, refresh the session or pass companyId", apperrors.ErrValidation)
}

// listRegister godoc
// @Summary List one page of a voucher register
// @Tags registers
// @Produce  json
// @Param   kind path string true "sales or purchase"
// @Param   companyId query string false "Company, defaults to the session's selection"
// @Param   page query int false "1-based page" default(1)
// @Param   pageSize query int false "Rows per page" default(10)
// @Param   token query string false "nextToken from a previous page"
// @Success 200 {object} dto.RegisterPageResponse
// @Failure 400 {object} map[string]string "Invalid page or token"
// @Failure 404 {object} map[string]string "Unknown register"
// @Router /registers/{kind} [get]
func (h *registerHandler) listRegister(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	kind, err := parseKind(c)
	if err != nil {
		respondError(c, logger, err, "Unknown register")
		return
	}

	var params dto.RegisterQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for ListRegister", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	if params.Token != "" {
		cursor, err := pagination.DecodeToken(params.Token)
		if err != nil || cursor.Kind != string(kind) {
			logger.Warn("Invalid register token", slog.String("token", params.Token))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination token"})
			return
		}
		params.CompanyID, params.Page, params.PageSize = cursor.CompanyID, cursor.Page, cursor.PageSize
	}

	companyID, err := h.companyOrSelected(params.CompanyID)
	if err != nil {
		respondError(c, logger, err, "Failed to list register")
		return
	}

	logger = logger.With(slog.String("kind", string(kind)), slog.String("company_id", companyID))
	cfg := h.sessionService.Snapshot().Config
	page, err := h.acquisitionService.FetchRegister(c.Request.Context(), cfg, kind, companyID, params.Page, params.PageSize)
	if err != nil {
		respondError(c, logger, err, "Failed to list register")
		return
	}
	c.JSON(http.StatusOK, dto.ToRegisterPageResponse(kind, companyID, page))
}

// exportRegister godoc
// @Summary Download a voucher register as CSV or XLSX
// @Tags registers
// @Produce  text/csv
// @Param   kind path string true "sales or purchase"
// @Param   format query string false "csv or xlsx" default(csv)
// @Param   ids query string false "Comma separated voucher ids to export"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid format"
// @Router /registers/{kind}/export [get]
func (h *registerHandler) exportRegister(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	kind, err := parseKind(c)
	if err != nil {
		respondError(c, logger, err, "Unknown register")
		return
	}

	var params dto.ExportQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	format, ok := domain.ParseExportFormat(params.Format)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported export format %q", params.Format)})
		return
	}
	companyID, err := h.companyOrSelected(params.CompanyID)
	if err != nil {
		respondError(c, logger, err, "Failed to export register")
		return
	}

	file, err := h.exportService.ExportRegister(c.Request.Context(), domain.ExportRequest{
		Config:    h.sessionService.Snapshot().Config,
		Kind:      kind,
		CompanyID: companyID,
		Format:    format,
		IDs:       params.ParsedIDs(),
	})
	if err != nil {
		respondError(c, logger, err, "Failed to export register")
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "register_exported", map[string]any{
		"kind":    string(kind),
		"format":  string(format),
		"records": file.RecordsExported,
	})

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Header("X-Records-Exported", strconv.Itoa(file.RecordsExported))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
