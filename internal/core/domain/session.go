package domain

import "time"

// SessionSnapshot is a copy of the dashboard session state.
type SessionSnapshot struct {
	Config            ConnectionConfig `json:"config"`
	Status            ConnectionStatus `json:"status"`
	IsLoading         bool             `json:"isLoading"`
	Companies         []Company        `json:"companies"`
	SelectedCompanyID string           `json:"selectedCompanyId"`
	DateRange         DateRange        `json:"dateRange"`
	Dashboard         *DashboardBundle `json:"dashboard,omitempty"`
	LastRefreshedAt   *time.Time       `json:"lastRefreshedAt,omitempty"`
}

// SelectedCompany resolves SelectedCompanyID against Companies.
func (s SessionSnapshot) SelectedCompany() (Company, bool) {
	return FindCompany(s.Companies, s.SelectedCompanyID)
}
