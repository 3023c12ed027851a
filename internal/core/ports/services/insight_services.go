package services

import (
	"context"

	"github.com/ShrishPande/tallyinsight/internal/core/domain"
)

// InsightSvc produces advisory text for a dashboard. It never fails; errors yield domain.FallbackInsight.
type InsightSvc interface {
	GenerateInsight(ctx context.Context, monthly []domain.MonthlyDataPoint, totals domain.InsightTotals) domain.Insight

	// InsightForDashboard derives the totals from the bundle's KPIs.
	InsightForDashboard(ctx context.Context, bundle *domain.DashboardBundle) domain.Insight
}
