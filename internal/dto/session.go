package dto

import (
	"fmt"
	"time"

	"github.com/ShrishPande/tallyinsight/internal/apperrors"
	"github.com/ShrishPande/tallyinsight/internal/core/domain"
)

// UpdateConfigRequest switches between demo data and a live Tally server.
type UpdateConfigRequest struct {
	BaseURL    string `json:"baseUrl"`
	IsDemoMode *bool  `json:"isDemoMode" binding:"required"`
}

// ToDomain converts the request to a connection config.
func (r UpdateConfigRequest) ToDomain() domain.ConnectionConfig {
	return domain.ConnectionConfig{BaseURL: r.BaseURL, IsDemoMode: *r.IsDemoMode}
}

// SelectCompanyRequest picks one of the listed companies.
type SelectCompanyRequest struct {
	CompanyID string `json:"companyId" binding:"required"`
}

// DateRangeRequest sets the reporting period. Dates are YYYY-MM-DD.
type DateRangeRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// ToDomain parses the range; malformed or reversed dates are validation errors.
func (r DateRangeRequest) ToDomain() (domain.DateRange, error) {
	dr, err := domain.ParseDateRange(r.From, r.To)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	return dr, nil
}

// DateRangeResponse renders a range as calendar dates.
type DateRangeResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ToDateRangeResponse converts a domain.DateRange to its DTO
func ToDateRangeResponse(r domain.DateRange) DateRangeResponse {
	return DateRangeResponse{From: r.Start.Format(domain.DateLayout), To: r.End.Format(domain.DateLayout)}
}

// CompanyResponse defines the data returned for a company.
type CompanyResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	GSTIN    string `json:"gstin,omitempty"`
	Currency string `json:"currency"`
}

// ToCompanyResponse converts a domain.Company to CompanyResponse DTO
func ToCompanyResponse(c domain.Company) CompanyResponse {
	return CompanyResponse{ID: c.ID, Name: c.Name, GSTIN: c.TaxID, Currency: c.Currency}
}

// ToListCompanyResponse converts a slice of domain.Company to a slice of CompanyResponse DTOs
func ToListCompanyResponse(companies []domain.Company) []CompanyResponse {
	res := make([]CompanyResponse, len(companies))
	for i, c := range companies {
		res[i] = ToCompanyResponse(c)
	}
	return res
}

// ConnectionResponse reports the configured source and whether it answered.
type ConnectionResponse struct {
	BaseURL    string `json:"baseUrl"`
	IsDemoMode bool   `json:"isDemoMode"`
	Reachable  bool   `json:"reachable"`
}

// SessionResponse is the session state shown in the dashboard header.
type SessionResponse struct {
	Config            domain.ConnectionConfig `json:"config"`
	Status            domain.ConnectionStatus `json:"status"`
	IsLoading         bool                    `json:"isLoading"`
	Companies         []CompanyResponse       `json:"companies"`
	SelectedCompanyID string                  `json:"selectedCompanyId"`
	SelectedCompany   *CompanyResponse        `json:"selectedCompany,omitempty"`
	DateRange         DateRangeResponse       `json:"dateRange"`
	HasDashboard      bool                    `json:"hasDashboard"`
	LastRefreshedAt   *time.Time              `json:"lastRefreshedAt,omitempty"`
}

// ToSessionResponse converts a session snapshot to its DTO
func ToSessionResponse(s domain.SessionSnapshot) SessionResponse {
	resp := SessionResponse{
		Config:            s.Config,
		Status:            s.Status,
		IsLoading:         s.IsLoading,
		Companies:         ToListCompanyResponse(s.Companies),
		SelectedCompanyID: s.SelectedCompanyID,
		DateRange:         ToDateRangeResponse(s.DateRange),
		HasDashboard:      s.Dashboard != nil,
		LastRefreshedAt:   s.LastRefreshedAt,
	}
	if c, ok := s.SelectedCompany(); ok {
		cr := ToCompanyResponse(c)
		resp.SelectedCompany = &cr
	}
	return resp
}
