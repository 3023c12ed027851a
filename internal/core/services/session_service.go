package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/ShrishPande/tallyinsight/internal/apperrors"
	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	portssvc "github.com/ShrishPande/tallyinsight/internal/core/ports/services"
)

// sessionService keeps the selections a dashboard client makes between refreshes.
// Setters never trigger an acquisition; Refresh does.
type sessionService struct {
	BaseService
	acquisition portssvc.AcquisitionSvcFacade
	now         func() time.Time

	mu          sync.RWMutex
	revision    uint64 // bumped by every setter that changes state
	config      domain.ConnectionConfig
	companies   []domain.Company
	selectedID  string
	dateRange   domain.DateRange
	dashboard   *domain.DashboardBundle
	refreshedAt *time.Time
}

// SessionOption is a functional option for configuring the session service
type SessionOption func(*sessionService)

// WithInitialConfig sets the connection the session starts with.
func WithInitialConfig(cfg domain.ConnectionConfig) SessionOption {
	return func(s *sessionService) {
		s.config = cfg
	}
}

// WithInitialDateRange sets the reporting period the session starts with.
func WithInitialDateRange(r domain.DateRange) SessionOption {
	return func(s *sessionService) {
		s.dateRange = r
	}
}

// WithClock overrides time.Now for refresh timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *sessionService) {
		s.now = now
	}
}

// NewSessionService creates a session in demo mode over the default date range unless overridden.
func NewSessionService(acquisition portssvc.AcquisitionSvcFacade, options ...SessionOption) portssvc.SessionSvc {
	svc := &sessionService{
		acquisition: acquisition,
		now:         time.Now,
		config:      domain.DefaultConnectionConfig(),
		dateRange:   domain.DefaultDateRange(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SessionSvc = (*sessionService)(nil)

func (s *sessionService) Snapshot() domain.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *sessionService) snapshotLocked() domain.SessionSnapshot {
	snap := domain.SessionSnapshot{
		Config:            s.config,
		Status:            s.acquisition.Status(),
		IsLoading:         s.acquisition.IsLoading(),
		Companies:         slices.Clone(s.companies),
		SelectedCompanyID: s.selectedID,
		DateRange:         s.dateRange,
		Dashboard:         s.dashboard,
	}
	if s.refreshedAt != nil {
		t := *s.refreshedAt
		snap.LastRefreshedAt = &t
	}
	return snap
}

func (s *sessionService) UpdateConfig(ctx context.Context, cfg domain.ConnectionConfig) (domain.SessionSnapshot, error) {
	if !cfg.IsDemoMode {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return domain.SessionSnapshot{}, fmt.Errorf("%w: invalid base URL %q", apperrors.ErrValidation, cfg.BaseURL)
		}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultBaseURL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg.Fingerprint() != s.config.Fingerprint() {
		// companies from another source are meaningless here
		s.companies = nil
		s.selectedID = ""
		s.dashboard = nil
	}
	s.config = cfg
	s.revision++
	s.acquisition.InvalidateCompanies()

	s.LogInfo(ctx, "Connection config updated",
		slog.Bool("demo_mode", cfg.IsDemoMode),
		slog.String("base_url", cfg.BaseURL))
	return s.snapshotLocked(), nil
}

func (s *sessionService) SelectCompany(ctx context.Context, companyID string) (domain.SessionSnapshot, error) {
	s.mu.RLock()
	cfg := s.config
	companies := s.companies
	s.mu.RUnlock()

	// a fresh session has not listed companies yet
	if len(companies) == 0 {
		var err error
		companies, err = s.acquisition.ListCompanies(ctx, cfg)
		if err != nil {
			return domain.SessionSnapshot{}, err
		}
	}
	if _, ok := domain.FindCompany(companies, companyID); !ok {
		return domain.SessionSnapshot{}, fmt.Errorf("%w: company %q", apperrors.ErrNotFound, companyID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Fingerprint() != cfg.Fingerprint() {
		return domain.SessionSnapshot{}, fmt.Errorf("%w: connection changed while selecting a company", apperrors.ErrSuperseded)
	}
	if len(s.companies) == 0 {
		s.companies = companies
	}
	if s.selectedID != companyID {
		s.selectedID = companyID
		s.dashboard = nil
		s.revision++
	}
	s.LogDebug(ctx, "Company selected", slog.String("company_id", companyID))
	return s.snapshotLocked(), nil
}

func (s *sessionService) SetDateRange(ctx context.Context, dateRange domain.DateRange) (domain.SessionSnapshot, error) {
	if !dateRange.Valid() {
		return domain.SessionSnapshot{}, fmt.Errorf("%w: start date is after end date", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dateRange.Equal(dateRange) {
		s.dateRange = dateRange
		s.dashboard = nil
		s.revision++
	}
	s.LogDebug(ctx, "Date range set", slog.String("range", dateRange.String()))
	return s.snapshotLocked(), nil
}

func (s *sessionService) Refresh(ctx context.Context) (*domain.AcquisitionResult, error) {
	s.mu.RLock()
	req := domain.AcquisitionRequest{
		Config:            s.config,
		SelectedCompanyID: s.selectedID,
		DateRange:         s.dateRange,
	}
	revision := s.revision
	s.mu.RUnlock()

	result, err := s.acquisition.ConnectAndFetch(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// the user may have moved on while the fetch ran
	if s.revision != revision {
		s.LogDebug(ctx, "Discarding refresh for stale session state",
			slog.Uint64("requested_revision", revision),
			slog.Uint64("current_revision", s.revision))
		return result, nil
	}
	s.companies = result.Companies
	s.selectedID = result.SelectedCompanyID
	s.dashboard = result.Dashboard
	at := s.now()
	s.refreshedAt = &at
	return result, nil
}

func (s *sessionService) Dashboard(ctx context.Context) (*domain.DashboardBundle, error) {
	s.mu.RLock()
	bundle := s.dashboard
	s.mu.RUnlock()
	if bundle != nil {
		return bundle, nil
	}

	result, err := s.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	if result.Dashboard == nil {
		return nil, fmt.Errorf("%w: no company available for the dashboard", apperrors.ErrNotFound)
	}
	return result.Dashboard, nil
}

func (s *sessionService) Breakdown(ctx context.Context, metric string) (*domain.MetricBreakdown, error) {
	if _, ok := domain.NormalizeMetric(metric); !ok {
		return nil, fmt.Errorf("%w: metric %q", apperrors.ErrNotFound, metric)
	}
	bundle, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	breakdown, _ := domain.Breakdown(bundle.KPIs, metric)
	return &breakdown, nil
}
