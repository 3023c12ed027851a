package repositories

import (
	"context"

	"github.com/ShrishPande/tallyinsight/internal/core/domain"
)

// CompanyReader lists the companies a data source knows about.
type CompanyReader interface {
	// ListCompanies returns every company loaded in the source.
	ListCompanies(ctx context.Context) ([]domain.Company, error)
}

// ReportReader defines the dashboard aggregate queries for one company.
type ReportReader interface {
	// GetKPIs returns the headline figures for a company over a date range.
	GetKPIs(ctx context.Context, companyID string, dateRange domain.DateRange) (*domain.DashboardKPIs, error)

	// GetMonthlyTrend returns the month by month sales, purchase and expense series.
	GetMonthlyTrend(ctx context.Context, companyID string) ([]domain.MonthlyDataPoint, error)

	// GetReceivables returns the customer aging table.
	GetReceivables(ctx context.Context, companyID string) ([]domain.ReceivablesRow, error)

	// ListAlerts returns the dashboard notifications.
	ListAlerts(ctx context.Context, companyID string) ([]domain.Alert, error)
}

// RegisterReader pages through a voucher register.
type RegisterReader interface {
	// GetTransactions returns one 1-based page of the register.
	// Pages past the end are empty with TotalCount still set.
	GetTransactions(ctx context.Context, kind domain.RegisterKind, companyID string, page, pageSize int) (*domain.TransactionPage, error)
}

// DataSource is one origin of accounting data, either a live Tally server or the synthetic generator.
// Every method returns a freshly built value.
type DataSource interface {
	CompanyReader
	ReportReader
	RegisterReader

	// Name identifies the source in logs.
	Name() string
}

// DataSourceFactory picks the data source for a connection config.
type DataSourceFactory interface {
	ForConfig(cfg domain.ConnectionConfig) DataSource
}
