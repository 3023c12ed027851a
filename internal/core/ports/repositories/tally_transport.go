package repositories

import (
	"context"

	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	"github.com/ShrishPande/tallyinsight/pkg/envelope"
)

// ReachabilityChecker reports whether a Tally server answers.
type ReachabilityChecker interface {
	// CheckReachable never fails; every problem collapses to false.
	CheckReachable(ctx context.Context, baseURL string) bool
}

// TallyTransport sends envelopes to a Tally server.
type TallyTransport interface {
	ReachabilityChecker

	// Send posts payload to baseURL and returns the parsed response.
	Send(ctx context.Context, baseURL, payload string) (*envelope.Node, error)
}

// AdvisoryGenerator produces narrative insights from dashboard figures.
type AdvisoryGenerator interface {
	GenerateInsight(ctx context.Context, monthly []domain.MonthlyDataPoint, totals domain.InsightTotals) (*domain.Insight, error)
}
