package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ShrishPande/tallyinsight/internal/apperrors"
	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	portsrepo "github.com/ShrishPande/tallyinsight/internal/core/ports/repositories"
	portssvc "github.com/ShrishPande/tallyinsight/internal/core/ports/services"
	"github.com/ShrishPande/tallyinsight/internal/utils"
	"github.com/patrickmn/go-cache"
)

const DefaultInsightCacheTTL = 10 * time.Minute

// insightService wraps the advisory generator with caching and a fixed fallback.
type insightService struct {
	BaseService
	generator portsrepo.AdvisoryGenerator
	cache     *cache.Cache
}

// InsightOption is a functional option for configuring the insight service
type InsightOption func(*insightService)

// WithInsightCacheTTL sets how long a generated insight is reused. Zero disables caching.
func WithInsightCacheTTL(ttl time.Duration) InsightOption {
	return func(s *insightService) {
		if ttl <= 0 {
			s.cache = nil
			return
		}
		s.cache = cache.New(ttl, 2*ttl)
	}
}

// NewInsightService creates the service. A nil generator always yields the fallback insight.
func NewInsightService(generator portsrepo.AdvisoryGenerator, options ...InsightOption) portssvc.InsightSvc {
	svc := &insightService{
		generator: generator,
		cache:     cache.New(DefaultInsightCacheTTL, 2*DefaultInsightCacheTTL),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.InsightSvc = (*insightService)(nil)

func (s *insightService) GenerateInsight(ctx context.Context, monthly []domain.MonthlyDataPoint, totals domain.InsightTotals) domain.Insight {
	if s.generator == nil {
		s.LogWarn(ctx, "Advisory generator not configured, using fallback insight")
		return domain.FallbackInsight()
	}

	key := insightKey(monthly, totals)
	if s.cache != nil && key != "" {
		if v, ok := s.cache.Get(key); ok {
			if insight, ok := v.(domain.Insight); ok {
				s.LogDebug(ctx, "Insight cache hit")
				return insight
			}
		}
	}

	generated, err := s.generator.GenerateInsight(ctx, monthly, totals)
	if err != nil || generated == nil {
		if err == nil {
			err = apperrors.ErrAdvisoryService
		}
		s.LogError(ctx, err, "Insight generation failed, using fallback")
		return domain.FallbackInsight()
	}

	insight := domain.Insight{
		Summary:        utils.SanitizeText(generated.Summary),
		Recommendation: utils.SanitizeText(generated.Recommendation),
		RiskAssessment: generated.RiskAssessment,
	}
	if s.cache != nil && key != "" {
		s.cache.Set(key, insight, cache.DefaultExpiration)
	}
	s.LogInfo(ctx, "Insight generated", slog.String("risk", string(insight.RiskAssessment)))
	return insight
}

func (s *insightService) InsightForDashboard(ctx context.Context, bundle *domain.DashboardBundle) domain.Insight {
	if bundle == nil {
		return domain.FallbackInsight()
	}
	return s.GenerateInsight(ctx, bundle.Monthly, domain.InsightTotalsFromKPIs(bundle.KPIs))
}

// insightKey hashes the generator inputs. An empty key disables caching for the call.
func insightKey(monthly []domain.MonthlyDataPoint, totals domain.InsightTotals) string {
	b, err := json.Marshal(struct {
		Monthly []domain.MonthlyDataPoint `json:"monthly"`
		Totals  domain.InsightTotals      `json:"totals"`
	}{monthly, totals})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
