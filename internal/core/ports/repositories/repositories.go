package repositories

// RepositoryProvider holds the outbound adapters needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	Sources   DataSourceFactory
	Transport ReachabilityChecker
	Advisory  AdvisoryGenerator
}
