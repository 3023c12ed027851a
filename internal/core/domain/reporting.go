package domain

import (
	"github.com/shopspring/decimal"
)

// DashboardKPIs is the four-field financial summary for one (company, date range) query.
type DashboardKPIs struct {
	Revenue     decimal.Decimal `json:"revenue"`
	NetProfit   decimal.Decimal `json:"netProfit"`
	CashBalance decimal.Decimal `json:"cashBalance"`
	GSTPayable  decimal.Decimal `json:"gstPayable"`
}

// MonthlyDataPoint is one chronological entry of the trend chart.
type MonthlyDataPoint struct {
	Month    string          `json:"month"`
	Sales    decimal.Decimal `json:"sales"`
	Purchase decimal.Decimal `json:"purchase"`
	Expenses decimal.Decimal `json:"expenses"`
}

// AgingBuckets splits an outstanding amount by days overdue.
type AgingBuckets struct {
	Days0To30  decimal.Decimal `json:"0-30"`
	Days31To60 decimal.Decimal `json:"31-60"`
	Days61To90 decimal.Decimal `json:"61-90"`
	Days90Plus decimal.Decimal `json:"90+"`
}

// Sum adds all four buckets.
func (b AgingBuckets) Sum() decimal.Decimal {
	return b.Days0To30.Add(b.Days31To60).Add(b.Days61To90).Add(b.Days90Plus)
}

// ReceivablesRow is the aging line of one customer, keyed by name.
// TotalDue is expected to match Buckets.Sum() but the reference data does not always do so.
type ReceivablesRow struct {
	CustomerName string          `json:"customerName"`
	TotalDue     decimal.Decimal `json:"totalDue"`
	Buckets      AgingBuckets    `json:"buckets"`
}

// Balanced reports whether TotalDue equals the bucket sum.
func (r ReceivablesRow) Balanced() bool {
	return r.TotalDue.Equal(r.Buckets.Sum())
}

// AlertSeverity grades a dashboard notification.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is an independent dashboard notification.
type Alert struct {
	ID       string        `json:"id"`
	Severity AlertSeverity `json:"type"`
	Message  string        `json:"message"`
	Date     string        `json:"date"`
	IsRead   bool          `json:"isRead"`
}

// DashboardBundle groups the four aggregates fetched together for the dashboard view.
type DashboardBundle struct {
	KPIs        DashboardKPIs      `json:"kpis"`
	Monthly     []MonthlyDataPoint `json:"monthly"`
	Receivables []ReceivablesRow   `json:"receivables"`
	Alerts      []Alert            `json:"alerts"`
}
