package domain

// DefaultBaseURL is where Tally Prime listens for XML requests out of the box.
const DefaultBaseURL = "http://localhost:9000"

// ConnectionConfig selects the data source for every acquisition call.
type ConnectionConfig struct {
	BaseURL    string `json:"baseUrl"`
	IsDemoMode bool   `json:"isDemoMode"`
}

// DefaultConnectionConfig starts in demo mode so the dashboard works without Tally running.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{BaseURL: DefaultBaseURL, IsDemoMode: true}
}

// Fingerprint identifies the data source a config resolves to. Company caches are keyed on it.
func (c ConnectionConfig) Fingerprint() string {
	if c.IsDemoMode {
		return "demo"
	}
	return "live|" + c.BaseURL
}

// ConnectionStatus is the acquisition state machine's current state.
type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "Disconnected"
	StatusConnecting   ConnectionStatus = "Connecting..."
	StatusConnected    ConnectionStatus = "Connected"
	StatusError        ConnectionStatus = "Connection Error"
)

// AcquisitionRequest is everything one connect-and-fetch call depends on besides the company cache.
type AcquisitionRequest struct {
	Config            ConnectionConfig
	SelectedCompanyID string
	DateRange         DateRange
}

// AcquisitionResult is the outcome of one connect-and-fetch call.
// Dashboard is nil when no company could be selected.
type AcquisitionResult struct {
	Status            ConnectionStatus `json:"status"`
	Companies         []Company        `json:"companies"`
	SelectedCompanyID string           `json:"selectedCompanyId"`
	Dashboard         *DashboardBundle `json:"dashboard,omitempty"`
}
