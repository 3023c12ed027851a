package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ShrishPande/tallyinsight/internal/apperrors"
	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	portsrepo "github.com/ShrishPande/tallyinsight/internal/core/ports/repositories"
	portssvc "github.com/ShrishPande/tallyinsight/internal/core/ports/services"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	tracerName             = "github.com/ShrishPande/tallyinsight/internal/core/services"
)

// acquisitionService runs connect-and-fetch cycles and owns the connection state machine.
// Only the newest call may write state; older calls are cancelled and report ErrSuperseded.
type acquisitionService struct {
	BaseService
	sources   portsrepo.DataSourceFactory
	transport portsrepo.ReachabilityChecker
	companies *cache.Cache
	tracer    trace.Tracer

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	status     domain.ConnectionStatus
	loading    bool
	last       *domain.AcquisitionResult
	// cacheEpoch counts InvalidateCompanies calls; lists fetched in an older epoch are not cached
	cacheEpoch uint64
}

// AcquisitionOption is a functional option for configuring the acquisition service
type AcquisitionOption func(*acquisitionService)

// WithCompanyCacheTTL expires company lists after ttl. By default they live until invalidated.
func WithCompanyCacheTTL(ttl time.Duration) AcquisitionOption {
	return func(s *acquisitionService) {
		s.companies = cache.New(ttl, 2*ttl)
	}
}

// WithTracerProvider replaces the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) AcquisitionOption {
	return func(s *acquisitionService) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// NewAcquisitionService creates the orchestrator in the Disconnected state.
func NewAcquisitionService(sources portsrepo.DataSourceFactory, transport portsrepo.ReachabilityChecker, options ...AcquisitionOption) portssvc.AcquisitionSvcFacade {
	svc := &acquisitionService{
		sources:   sources,
		transport: transport,
		companies: cache.New(cache.NoExpiration, 0),
		tracer:    otel.Tracer(tracerName),
		status:    domain.StatusDisconnected,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AcquisitionSvcFacade = (*acquisitionService)(nil)

func (s *acquisitionService) ConnectAndFetch(ctx context.Context, req domain.AcquisitionRequest) (*domain.AcquisitionResult, error) {
	if req.DateRange.Start.IsZero() && req.DateRange.End.IsZero() {
		req.DateRange = domain.DefaultDateRange()
	}

	ctx, gen, epoch := s.begin(ctx)
	defer s.finish(gen)

	ctx, span := s.tracer.Start(ctx, "acquisition.ConnectAndFetch", trace.WithAttributes(
		attribute.Bool("tally.demo_mode", req.Config.IsDemoMode),
		attribute.String("tally.company_id", req.SelectedCompanyID),
	))
	defer span.End()

	result, fetched, acquireErr := s.acquire(ctx, req)
	if err := s.commit(gen, epoch, req.Config, result, fetched, acquireErr); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, apperrors.ErrSuperseded) {
			s.LogDebug(ctx, "Acquisition superseded", slog.Uint64("generation", gen))
		} else {
			s.LogError(ctx, err, "Acquisition failed",
				slog.Bool("demo_mode", req.Config.IsDemoMode),
				slog.String("base_url", req.Config.BaseURL))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Acquisition completed",
		slog.Int("companies", len(result.Companies)),
		slog.String("company_id", result.SelectedCompanyID))
	return result, nil
}

// begin cancels any call in flight and claims the state machine for a new generation.
// It also returns the current company cache epoch.
func (s *acquisitionService) begin(ctx context.Context) (context.Context, uint64, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.status = domain.StatusConnecting
	s.loading = true
	return ctx, s.generation, s.cacheEpoch
}

// finish clears the loading flag unless a newer call owns it.
func (s *acquisitionService) finish(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return
	}
	s.loading = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// commit publishes the outcome of generation gen. A stale generation writes nothing.
func (s *acquisitionService) commit(gen, epoch uint64, cfg domain.ConnectionConfig, result *domain.AcquisitionResult, fetchedCompanies bool, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return apperrors.ErrSuperseded
	}
	if err != nil {
		s.status = domain.StatusError
		return err
	}
	if fetchedCompanies && s.cacheEpoch == epoch {
		s.companies.Set(cfg.Fingerprint(), result.Companies, cache.DefaultExpiration)
	}
	s.status = domain.StatusConnected
	s.last = result
	return nil
}

// acquire performs the I/O of one cycle without touching shared state.
// fetched reports whether the company list came from the source rather than the cache.
func (s *acquisitionService) acquire(ctx context.Context, req domain.AcquisitionRequest) (result *domain.AcquisitionResult, fetched bool, err error) {
	if !req.DateRange.Valid() {
		return nil, false, fmt.Errorf("%w: date range %s", apperrors.ErrValidation, req.DateRange)
	}
	source := s.sources.ForConfig(req.Config)

	if !req.Config.IsDemoMode && !s.transport.CheckReachable(ctx, req.Config.BaseURL) {
		return nil, false, fmt.Errorf("%w: %s", apperrors.ErrUnreachable, req.Config.BaseURL)
	}

	companies, ok := s.cachedCompanies(req.Config)
	if !ok {
		companies, err = source.ListCompanies(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("failed to list companies from %s: %w", source.Name(), err)
		}
		fetched = true
	}

	selected := req.SelectedCompanyID
	if selected == "" && len(companies) > 0 {
		selected = companies[0].ID
	}

	result = &domain.AcquisitionResult{
		Status:            domain.StatusConnected,
		Companies:         companies,
		SelectedCompanyID: selected,
	}
	if selected == "" {
		return result, fetched, nil
	}

	bundle, err := s.fetchDashboard(ctx, source, selected, req.DateRange)
	if err != nil {
		return nil, false, err
	}
	result.Dashboard = bundle
	return result, fetched, nil
}

// fetchDashboard runs the four aggregate queries concurrently. The first failure cancels the rest.
func (s *acquisitionService) fetchDashboard(ctx context.Context, source portsrepo.DataSource, companyID string, dateRange domain.DateRange) (*domain.DashboardBundle, error) {
	ctx, span := s.tracer.Start(ctx, "acquisition.fetchDashboard", trace.WithAttributes(
		attribute.String("tally.source", source.Name()),
		attribute.String("tally.company_id", companyID),
	))
	defer span.End()

	var bundle domain.DashboardBundle
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		kpis, err := source.GetKPIs(gctx, companyID, dateRange)
		if err != nil {
			return fmt.Errorf("failed to fetch KPIs: %w", err)
		}
		bundle.KPIs = *kpis
		return nil
	})
	g.Go(func() error {
		monthly, err := source.GetMonthlyTrend(gctx, companyID)
		if err != nil {
			return fmt.Errorf("failed to fetch monthly trend: %w", err)
		}
		bundle.Monthly = monthly
		return nil
	})
	g.Go(func() error {
		receivables, err := source.GetReceivables(gctx, companyID)
		if err != nil {
			return fmt.Errorf("failed to fetch receivables: %w", err)
		}
		bundle.Receivables = receivables
		return nil
	})
	g.Go(func() error {
		alerts, err := source.ListAlerts(gctx, companyID)
		if err != nil {
			return fmt.Errorf("failed to fetch alerts: %w", err)
		}
		bundle.Alerts = alerts
		return nil
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &bundle, nil
}

func (s *acquisitionService) cachedCompanies(cfg domain.ConnectionConfig) ([]domain.Company, bool) {
	v, ok := s.companies.Get(cfg.Fingerprint())
	if !ok {
		return nil, false
	}
	companies, ok := v.([]domain.Company)
	return companies, ok
}

func (s *acquisitionService) CheckConnection(ctx context.Context, cfg domain.ConnectionConfig) bool {
	if cfg.IsDemoMode {
		return true
	}
	return s.transport.CheckReachable(ctx, cfg.BaseURL)
}

func (s *acquisitionService) ListCompanies(ctx context.Context, cfg domain.ConnectionConfig) ([]domain.Company, error) {
	if companies, ok := s.cachedCompanies(cfg); ok {
		return companies, nil
	}
	s.mu.Lock()
	epoch := s.cacheEpoch
	s.mu.Unlock()

	source := s.sources.ForConfig(cfg)
	companies, err := source.ListCompanies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list companies", slog.String("source", source.Name()))
		return nil, fmt.Errorf("failed to list companies from %s: %w", source.Name(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cacheEpoch == epoch {
		s.companies.Set(cfg.Fingerprint(), companies, cache.DefaultExpiration)
	}
	return companies, nil
}

func (s *acquisitionService) FetchRegister(ctx context.Context, cfg domain.ConnectionConfig, kind domain.RegisterKind, companyID string, page, pageSize int) (*domain.TransactionPage, error) {
	if companyID == "" {
		return nil, fmt.Errorf("%w: company is required", apperrors.ErrValidation)
	}
	ctx, span := s.tracer.Start(ctx, "acquisition.FetchRegister", trace.WithAttributes(
		attribute.String("tally.register", string(kind)),
		attribute.Int("tally.page", page),
	))
	defer span.End()

	source := s.sources.ForConfig(cfg)
	result, err := source.GetTransactions(ctx, kind, companyID, page, pageSize)
	if err != nil {
		span.RecordError(err)
		s.LogError(ctx, err, "Failed to fetch register",
			slog.String("kind", string(kind)),
			slog.String("company_id", companyID),
			slog.Int("page", page))
		return nil, err
	}
	return result, nil
}

func (s *acquisitionService) Status() domain.ConnectionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *acquisitionService) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *acquisitionService) LastResult() *domain.AcquisitionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *acquisitionService) InvalidateCompanies() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cacheEpoch++
	s.companies.Flush()
}
