package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ShrishPande/tallyinsight/internal/adapters/datasource"
	"github.com/ShrishPande/tallyinsight/internal/adapters/synthetic"
	"github.com/ShrishPande/tallyinsight/internal/apperrors"
	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	portssvc "github.com/ShrishPande/tallyinsight/internal/core/ports/services"
	"github.com/ShrishPande/tallyinsight/internal/core/services"
	"github.com/ShrishPande/tallyinsight/internal/dto"
	"github.com/ShrishPande/tallyinsight/internal/handlers"
	"github.com/ShrishPande/tallyinsight/internal/middleware"
	"github.com/ShrishPande/tallyinsight/internal/platform/config"
	"github.com/ShrishPande/tallyinsight/pkg/envelope"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mocks ---

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) CheckReachable(ctx context.Context, baseURL string) bool {
	args := m.Called(ctx, baseURL)
	return args.Bool(0)
}

func (m *MockTransport) Send(ctx context.Context, baseURL, payload string) (*envelope.Node, error) {
	args := m.Called(ctx, baseURL, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*envelope.Node), args.Error(1)
}

type MockAdvisory struct {
	mock.Mock
}

func (m *MockAdvisory) GenerateInsight(ctx context.Context, monthly []domain.MonthlyDataPoint, totals domain.InsightTotals) (*domain.Insight, error) {
	args := m.Called(ctx, monthly, totals)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Insight), args.Error(1)
}

// --- Suite ---

type HandlersTestSuite struct {
	suite.Suite
	router    *gin.Engine
	transport *MockTransport
	advisory  *MockAdvisory
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.transport = new(MockTransport)
	suite.advisory = new(MockAdvisory)

	acquisition := services.NewAcquisitionService(datasource.NewFactory(suite.transport, synthetic.NewSource()), suite.transport)
	container := &portssvc.ServiceContainer{
		Acquisition: acquisition,
		Session:     services.NewSessionService(acquisition),
		Insight:     services.NewInsightService(suite.advisory),
		Export:      services.NewExportService(acquisition),
	}

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	handlers.RegisterRoutes(suite.router, &config.Config{}, container, nil)
}

func (suite *HandlersTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (suite *HandlersTestSuite) refresh() dto.AcquisitionResponse {
	w := suite.do(http.MethodPost, "/api/v1/session/refresh", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.AcquisitionResponse
	suite.decode(w, &resp)
	return resp
}

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
	suite.NotEmpty(w.Header().Get("X-Request-ID"))
}

func (suite *HandlersTestSuite) TestSessionLifecycle() {
	w := suite.do(http.MethodGet, "/api/v1/session", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var snap dto.SessionResponse
	suite.decode(w, &snap)
	suite.Equal(domain.StatusDisconnected, snap.Status)
	suite.True(snap.Config.IsDemoMode)

	resp := suite.refresh()
	suite.Equal(domain.StatusConnected, resp.Status)
	suite.Equal("c1", resp.SelectedCompanyID)
	suite.Require().NotNil(resp.Dashboard)
	suite.Equal("₹24,50,000.00", resp.Dashboard.KPIs.Revenue.Display)
	suite.Len(resp.Dashboard.Alerts, 3)
	suite.transport.AssertNotCalled(suite.T(), "CheckReachable", mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestSelectCompanyAndDashboard() {
	suite.refresh()

	w := suite.do(http.MethodPut, "/api/v1/session/company", dto.SelectCompanyRequest{CompanyID: "c2"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodGet, "/api/v1/dashboard", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var dash dto.DashboardResponse
	suite.decode(w, &dash)
	suite.Equal("c2", dash.CompanyID)
	suite.Equal("USD", dash.Currency)
	suite.Equal("3675000", dash.KPIs.Revenue.Value.String())

	w = suite.do(http.MethodPut, "/api/v1/session/company", dto.SelectCompanyRequest{CompanyID: "zz"})
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodPut, "/api/v1/session/company", map[string]string{})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestDashboardRefreshesWhenEmpty() {
	w := suite.do(http.MethodGet, "/api/v1/dashboard", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var dash dto.DashboardResponse
	suite.decode(w, &dash)
	suite.Equal("c1", dash.CompanyID)
}

func (suite *HandlersTestSuite) TestBreakdown() {
	w := suite.do(http.MethodGet, "/api/v1/dashboard/breakdown/gst-payable", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.BreakdownResponse
	suite.decode(w, &resp)
	suite.Equal(domain.MetricGSTPayable, resp.Metric)
	suite.Len(resp.Parts, 3)

	w = suite.do(http.MethodGet, "/api/v1/dashboard/breakdown/ebitda", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestDateRange() {
	w := suite.do(http.MethodPut, "/api/v1/session/date-range", dto.DateRangeRequest{From: "2024-07-01", To: "2024-07-31"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var snap dto.SessionResponse
	suite.decode(w, &snap)
	suite.Equal("2024-07-01", snap.DateRange.From)

	w = suite.do(http.MethodPut, "/api/v1/session/date-range", dto.DateRangeRequest{From: "2024-08-01", To: "2024-07-31"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestLiveUnreachable() {
	demo := false
	w := suite.do(http.MethodPut, "/api/v1/session/config", dto.UpdateConfigRequest{BaseURL: "http://10.0.0.9:9000", IsDemoMode: &demo})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	suite.transport.On("CheckReachable", mock.Anything, "http://10.0.0.9:9000").Return(false)

	w = suite.do(http.MethodGet, "/api/v1/connection", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var conn dto.ConnectionResponse
	suite.decode(w, &conn)
	suite.False(conn.Reachable)

	w = suite.do(http.MethodPost, "/api/v1/session/refresh", nil)
	suite.Equal(http.StatusServiceUnavailable, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/companies", nil)
	suite.Equal(http.StatusServiceUnavailable, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/session", nil)
	var snap dto.SessionResponse
	suite.decode(w, &snap)
	suite.Equal(domain.StatusError, snap.Status)
}

func (suite *HandlersTestSuite) TestUpdateConfigValidation() {
	w := suite.do(http.MethodPut, "/api/v1/session/config", map[string]string{"baseUrl": "http://x"})
	suite.Equal(http.StatusBadRequest, w.Code, "isDemoMode is required")

	demo := false
	w = suite.do(http.MethodPut, "/api/v1/session/config", dto.UpdateConfigRequest{BaseURL: "not a url", IsDemoMode: &demo})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestCompanies() {
	w := suite.do(http.MethodGet, "/api/v1/companies", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var companies []dto.CompanyResponse
	suite.decode(w, &companies)
	suite.Len(companies, 2)
	suite.Equal("29AAACA1234A1Z5", companies[0].GSTIN)
}

func (suite *HandlersTestSuite) TestRegisterPaging() {
	w := suite.do(http.MethodGet, "/api/v1/registers/sales", nil)
	suite.Equal(http.StatusBadRequest, w.Code, "no company selected yet")

	w = suite.do(http.MethodGet, "/api/v1/registers/sales?companyId=c1&page=1&pageSize=20", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var first dto.RegisterPageResponse
	suite.decode(w, &first)
	suite.Len(first.Rows, 20)
	suite.Equal(50, first.TotalCount)
	suite.Equal("Overdue", string(first.Rows[0].Status))
	suite.Require().NotEmpty(first.NextToken)

	w = suite.do(http.MethodGet, "/api/v1/registers/sales?token="+first.NextToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var second dto.RegisterPageResponse
	suite.decode(w, &second)
	suite.Equal(2, second.Page)
	suite.Equal("INV-1020", second.Rows[0].ID)

	w = suite.do(http.MethodGet, "/api/v1/registers/purchase?token="+first.NextToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code, "token minted for another register")

	w = suite.do(http.MethodGet, "/api/v1/registers/sales?companyId=c1&page=6&pageSize=10", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var past dto.RegisterPageResponse
	suite.decode(w, &past)
	suite.Empty(past.Rows)
	suite.Empty(past.NextToken)

	w = suite.do(http.MethodGet, "/api/v1/registers/sales?companyId=c1&page=0", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/registers/sales?companyId=c1&page=2&pageSize=9223372036854775807", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var huge dto.RegisterPageResponse
	suite.decode(w, &huge)
	suite.Empty(huge.Rows)
	suite.Empty(huge.NextToken)

	w = suite.do(http.MethodGet, "/api/v1/registers/journal?companyId=c1", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestExport() {
	suite.refresh()

	w := suite.do(http.MethodGet, "/api/v1/registers/sales/export?ids=INV-1000,INV-1001", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Contains(w.Header().Get("Content-Disposition"), "Sales_Register_")
	suite.Equal("2", w.Header().Get("X-Records-Exported"))
	suite.True(strings.HasPrefix(w.Body.String(), "Date,Invoice No,Party Name,Amount,Status\n"))

	w = suite.do(http.MethodGet, "/api/v1/registers/purchase/export?format=xlsx", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(domain.ExportXLSX.ContentType(), w.Header().Get("Content-Type"))

	w = suite.do(http.MethodGet, "/api/v1/registers/sales/export?format=pdf", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestInsightFallback() {
	suite.advisory.On("GenerateInsight", mock.Anything, mock.Anything, mock.Anything).Return(nil, apperrors.ErrAdvisoryService)

	w := suite.do(http.MethodPost, "/api/v1/insights", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.InsightResponse
	suite.decode(w, &resp)
	suite.Equal(domain.FallbackInsight().Summary, resp.Summary)
	suite.Equal(domain.RiskLow, resp.RiskAssessment)
	suite.Equal("c1", resp.CompanyID)
}

func (suite *HandlersTestSuite) TestInsightSuccess() {
	suite.advisory.On("GenerateInsight", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.Insight{Summary: "Sales are growing", Recommendation: "Chase overdue invoices", RiskAssessment: domain.RiskMedium}, nil)

	w := suite.do(http.MethodPost, "/api/v1/insights", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var resp dto.InsightResponse
	suite.decode(w, &resp)
	suite.Equal("Sales are growing", resp.Summary)
	suite.Equal(domain.RiskMedium, resp.RiskAssessment)
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
