package dto

import (
	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	"github.com/ShrishPande/tallyinsight/internal/utils"
	"github.com/shopspring/decimal"
)

// AmountResponse pairs a raw amount with its display string in the company currency.
type AmountResponse struct {
	Value   decimal.Decimal `json:"value"`
	Display string          `json:"display"`
}

func toAmount(v decimal.Decimal, currency string) AmountResponse {
	return AmountResponse{Value: v, Display: utils.FormatCurrency(v, currency)}
}

// KPIsResponse holds the four dashboard cards.
type KPIsResponse struct {
	Revenue     AmountResponse `json:"revenue"`
	NetProfit   AmountResponse `json:"netProfit"`
	CashBalance AmountResponse `json:"cashBalance"`
	GSTPayable  AmountResponse `json:"gstPayable"`
}

// DashboardResponse defines the data returned for the dashboard view.
type DashboardResponse struct {
	CompanyID   string                    `json:"companyId"`
	Currency    string                    `json:"currency"`
	KPIs        KPIsResponse              `json:"kpis"`
	Monthly     []domain.MonthlyDataPoint `json:"monthly"`
	Receivables []domain.ReceivablesRow   `json:"receivables"`
	Alerts      []domain.Alert            `json:"alerts"`
}

// ToDashboardResponse converts a bundle for the given company. An empty currency formats as INR.
func ToDashboardResponse(b *domain.DashboardBundle, company domain.Company) DashboardResponse {
	currency := company.Currency
	if currency == "" {
		currency = "INR"
	}
	resp := DashboardResponse{
		CompanyID: company.ID,
		Currency:  currency,
		KPIs: KPIsResponse{
			Revenue:     toAmount(b.KPIs.Revenue, currency),
			NetProfit:   toAmount(b.KPIs.NetProfit, currency),
			CashBalance: toAmount(b.KPIs.CashBalance, currency),
			GSTPayable:  toAmount(b.KPIs.GSTPayable, currency),
		},
		Monthly:     b.Monthly,
		Receivables: b.Receivables,
		Alerts:      b.Alerts,
	}
	// JSON clients expect arrays, never null
	if resp.Monthly == nil {
		resp.Monthly = []domain.MonthlyDataPoint{}
	}
	if resp.Receivables == nil {
		resp.Receivables = []domain.ReceivablesRow{}
	}
	if resp.Alerts == nil {
		resp.Alerts = []domain.Alert{}
	}
	return resp
}

// AcquisitionResponse is returned by a refresh.
type AcquisitionResponse struct {
	Status            domain.ConnectionStatus `json:"status"`
	Companies         []CompanyResponse       `json:"companies"`
	SelectedCompanyID string                  `json:"selectedCompanyId"`
	Dashboard         *DashboardResponse      `json:"dashboard,omitempty"`
}

// ToAcquisitionResponse converts an acquisition result to its DTO
func ToAcquisitionResponse(r *domain.AcquisitionResult) AcquisitionResponse {
	resp := AcquisitionResponse{
		Status:            r.Status,
		Companies:         ToListCompanyResponse(r.Companies),
		SelectedCompanyID: r.SelectedCompanyID,
	}
	if r.Dashboard != nil {
		company, ok := domain.FindCompany(r.Companies, r.SelectedCompanyID)
		if !ok {
			company = domain.Company{ID: r.SelectedCompanyID}
		}
		d := ToDashboardResponse(r.Dashboard, company)
		resp.Dashboard = &d
	}
	return resp
}

// BreakdownPartResponse is one slice of a metric drill-down.
type BreakdownPartResponse struct {
	Name   string         `json:"name"`
	Amount AmountResponse `json:"amount"`
}

// BreakdownResponse defines the data returned for a metric drill-down.
type BreakdownResponse struct {
	Metric string                  `json:"metric"`
	Total  AmountResponse          `json:"total"`
	Parts  []BreakdownPartResponse `json:"parts"`
}

// ToBreakdownResponse converts a metric breakdown to its DTO
func ToBreakdownResponse(b *domain.MetricBreakdown, currency string) BreakdownResponse {
	if currency == "" {
		currency = "INR"
	}
	parts := make([]BreakdownPartResponse, len(b.Parts))
	for i, p := range b.Parts {
		parts[i] = BreakdownPartResponse{Name: p.Name, Amount: toAmount(p.Value, currency)}
	}
	return BreakdownResponse{Metric: b.Metric, Total: toAmount(b.Total, currency), Parts: parts}
}
