// Package datasource selects between the live Tally source and the synthetic one.
package datasource

import (
	"github.com/ShrishPande/tallyinsight/internal/adapters/tally"
	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	portsrepo "github.com/ShrishPande/tallyinsight/internal/core/ports/repositories"
)

// Factory returns the synthetic source in demo mode and a live source bound to the configured URL otherwise.
type Factory struct {
	transport portsrepo.TallyTransport
	demo      portsrepo.DataSource
}

// NewFactory creates a data source factory sharing one transport across live sources.
func NewFactory(transport portsrepo.TallyTransport, demo portsrepo.DataSource) *Factory {
	return &Factory{transport: transport, demo: demo}
}

var _ portsrepo.DataSourceFactory = (*Factory)(nil)

func (f *Factory) ForConfig(cfg domain.ConnectionConfig) portsrepo.DataSource {
	if cfg.IsDemoMode {
		return f.demo
	}
	return tally.NewLiveSource(f.transport, cfg.BaseURL)
}
