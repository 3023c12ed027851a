package services

import (
	portsrepo "github.com/ShrishPande/tallyinsight/internal/core/ports/repositories"
	portssvc "github.com/ShrishPande/tallyinsight/internal/core/ports/services"
	"github.com/ShrishPande/tallyinsight/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// acquisitionOptions reach the acquisition service, e.g. WithTracerProvider.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, acquisitionOptions ...AcquisitionOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Acquisition first since every other service reads through it
	container.Acquisition = NewAcquisitionService(repos.Sources, repos.Transport, acquisitionOptions...)

	container.Session = NewSessionService(
		container.Acquisition,
		WithInitialConfig(cfg.ConnectionConfig()),
		WithInitialDateRange(cfg.DateRange()),
	)

	container.Insight = NewInsightService(repos.Advisory, WithInsightCacheTTL(cfg.InsightCacheTTL))
	container.Export = NewExportService(container.Acquisition)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AcquisitionSvcFacade = (*acquisitionService)(nil)
	_ portssvc.SessionSvc           = (*sessionService)(nil)
	_ portssvc.InsightSvc           = (*insightService)(nil)
	_ portssvc.ExportSvc            = (*exportService)(nil)
)
