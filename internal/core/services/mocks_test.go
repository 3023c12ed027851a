package services_test

import (
	"context"

	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	portsrepo "github.com/ShrishPande/tallyinsight/internal/core/ports/repositories"
	"github.com/ShrishPande/tallyinsight/pkg/envelope"
	"github.com/stretchr/testify/mock"
)

// MockDataSource is a mock type for the DataSource interface
type MockDataSource struct {
	mock.Mock
}

func (m *MockDataSource) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockDataSource) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockDataSource) GetKPIs(ctx context.Context, companyID string, dateRange domain.DateRange) (*domain.DashboardKPIs, error) {
	args := m.Called(ctx, companyID, dateRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardKPIs), args.Error(1)
}

func (m *MockDataSource) GetMonthlyTrend(ctx context.Context, companyID string) ([]domain.MonthlyDataPoint, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyDataPoint), args.Error(1)
}

func (m *MockDataSource) GetReceivables(ctx context.Context, companyID string) ([]domain.ReceivablesRow, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReceivablesRow), args.Error(1)
}

func (m *MockDataSource) ListAlerts(ctx context.Context, companyID string) ([]domain.Alert, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Alert), args.Error(1)
}

func (m *MockDataSource) GetTransactions(ctx context.Context, kind domain.RegisterKind, companyID string, page, pageSize int) (*domain.TransactionPage, error) {
	args := m.Called(ctx, kind, companyID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionPage), args.Error(1)
}

// MockSourceFactory is a mock type for the DataSourceFactory interface
type MockSourceFactory struct {
	mock.Mock
}

func (m *MockSourceFactory) ForConfig(cfg domain.ConnectionConfig) portsrepo.DataSource {
	args := m.Called(cfg)
	return args.Get(0).(portsrepo.DataSource)
}

// MockTransport is a mock type for the TallyTransport interface
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

// MockAdvisory is a mock type for the AdvisoryGenerator interface
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

// stubSource returns a mock data source answering every dashboard query for companyID.
func stubSource(companies []domain.Company, companyID string) *MockDataSource {
	src := new(MockDataSource)
	src.On("Name").Return("mock").Maybe()
	src.On("ListCompanies", mock.Anything).Return(companies, nil).Maybe()
	src.On("GetKPIs", mock.Anything, companyID, mock.Anything).Return(&domain.DashboardKPIs{}, nil).Maybe()
	src.On("GetMonthlyTrend", mock.Anything, companyID).Return([]domain.MonthlyDataPoint{}, nil).Maybe()
	src.On("GetReceivables", mock.Anything, companyID).Return([]domain.ReceivablesRow{}, nil).Maybe()
	src.On("ListAlerts", mock.Anything, companyID).Return([]domain.Alert{}, nil).Maybe()
	return src
}
