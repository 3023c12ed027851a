package services

import (
	"context"

	"github.com/ShrishPande/tallyinsight/internal/core/domain"
)

// SessionSvc owns the dashboard state a client edits between refreshes.
type SessionSvc interface {
	Snapshot() domain.SessionSnapshot

	// UpdateConfig switches the data source and drops the cached companies. It does not refresh.
	UpdateConfig(ctx context.Context, cfg domain.ConnectionConfig) (domain.SessionSnapshot, error)

	// SelectCompany validates id against the known companies.
	SelectCompany(ctx context.Context, companyID string) (domain.SessionSnapshot, error)

	SetDateRange(ctx context.Context, dateRange domain.DateRange) (domain.SessionSnapshot, error)

	// Refresh runs an acquisition with the current state and stores its result.
	Refresh(ctx context.Context) (*domain.AcquisitionResult, error)

	// Dashboard returns the last bundle, refreshing first if there is none.
	Dashboard(ctx context.Context) (*domain.DashboardBundle, error)

	// Breakdown splits one KPI of the current dashboard.
	Breakdown(ctx context.Context, metric string) (*domain.MetricBreakdown, error)
}
