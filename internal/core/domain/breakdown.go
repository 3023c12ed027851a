package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// KPI metric names as shown on the dashboard cards.
const (
	MetricRevenue     = "Revenue"
	MetricNetProfit   = "Net Profit"
	MetricCashBalance = "Cash Balance"
	MetricGSTPayable  = "GST Payable"
)

// BreakdownPart is one slice of a metric drill-down.
type BreakdownPart struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// MetricBreakdown splits one KPI into its contributing ledgers.
type MetricBreakdown struct {
	Metric string          `json:"metric"`
	Total  decimal.Decimal `json:"total"`
	Parts  []BreakdownPart `json:"parts"`
}

type share struct {
	name  string
	ratio string
}

var breakdownShares = map[string][]share{
	MetricRevenue: {
		{"Sales Account (Goods)", "0.65"},
		{"Service Income", "0.25"},
		{"Other Income", "0.10"},
	},
	MetricNetProfit: {
		{"Operating Profit", "0.8"},
		{"Non-Operating Income", "0.2"},
	},
	MetricCashBalance: {
		{"HDFC Bank", "0.55"},
		{"SBI Current", "0.35"},
		{"Petty Cash", "0.10"},
	},
	MetricGSTPayable: {
		{"Output CGST", "0.45"},
		{"Output SGST", "0.45"},
		{"Output IGST", "0.10"},
	},
}

// NormalizeMetric accepts slugs like "net-profit" or "gst_payable" and returns the card name.
func NormalizeMetric(s string) (string, bool) {
	key := strings.ToLower(strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(s)))
	for name := range breakdownShares {
		if strings.ToLower(name) == key {
			return name, true
		}
	}
	return "", false
}

// Total returns the KPI value backing a metric name.
func (k DashboardKPIs) Total(metric string) (decimal.Decimal, bool) {
	switch metric {
	case MetricRevenue:
		return k.Revenue, true
	case MetricNetProfit:
		return k.NetProfit, true
	case MetricCashBalance:
		return k.CashBalance, true
	case MetricGSTPayable:
		return k.GSTPayable, true
	}
	return decimal.Zero, false
}

// Breakdown splits the named KPI using fixed ledger shares. ok is false for unknown metrics.
func Breakdown(k DashboardKPIs, metric string) (MetricBreakdown, bool) {
	name, ok := NormalizeMetric(metric)
	if !ok {
		return MetricBreakdown{}, false
	}
	total, _ := k.Total(name)
	shares := breakdownShares[name]
	parts := make([]BreakdownPart, len(shares))
	for i, s := range shares {
		parts[i] = BreakdownPart{Name: s.name, Value: total.Mul(decimal.RequireFromString(s.ratio))}
	}
	return MetricBreakdown{Metric: name, Total: total, Parts: parts}, true
}
