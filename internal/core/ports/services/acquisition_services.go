package services

import (
	"context"

	"github.com/ShrishPande/tallyinsight/internal/core/domain"
)

// AcquisitionFetcherSvc defines the connect-and-fetch operations
type AcquisitionFetcherSvc interface {
	// ConnectAndFetch runs one acquisition cycle: reachability check, company list, dashboard bundle.
	// A call superseded by a newer one returns apperrors.ErrSuperseded and leaves state untouched.
	ConnectAndFetch(ctx context.Context, req domain.AcquisitionRequest) (*domain.AcquisitionResult, error)

	// CheckConnection checks the configured source. Demo mode is always reachable.
	CheckConnection(ctx context.Context, cfg domain.ConnectionConfig) bool

	// ListCompanies returns the cached company list for cfg, fetching it on a miss.
	ListCompanies(ctx context.Context, cfg domain.ConnectionConfig) ([]domain.Company, error)

	// FetchRegister returns one page of a voucher register without touching connection state.
	FetchRegister(ctx context.Context, cfg domain.ConnectionConfig, kind domain.RegisterKind, companyID string, page, pageSize int) (*domain.TransactionPage, error)
}

// AcquisitionStateSvc exposes the state machine
type AcquisitionStateSvc interface {
	Status() domain.ConnectionStatus
	IsLoading() bool
	LastResult() *domain.AcquisitionResult

	// InvalidateCompanies drops every cached company list.
	InvalidateCompanies()
}

// AcquisitionSvcFacade combines all acquisition-related service interfaces
type AcquisitionSvcFacade interface {
	AcquisitionFetcherSvc
	AcquisitionStateSvc
}
