package domain

import "github.com/shopspring/decimal"

// RiskLevel is the advisory service's coarse risk label.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ParseRiskLevel maps generated text onto a known level.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskLevel(s), true
	}
	return "", false
}

// Insight is the advisory summary shown next to the dashboard charts.
type Insight struct {
	Summary        string    `json:"summary"`
	Recommendation string    `json:"recommendation"`
	RiskAssessment RiskLevel `json:"riskAssessment"`
}

// FallbackInsight is returned whenever the advisory service is unavailable.
func FallbackInsight() Insight {
	return Insight{
		Summary:        "Unable to generate insights at this time.",
		Recommendation: "Please check your connection.",
		RiskAssessment: RiskLow,
	}
}

// InsightTotals is the totals triple handed to the advisory service.
type InsightTotals struct {
	Sales    decimal.Decimal `json:"sales"`
	Purchase decimal.Decimal `json:"purchase"`
	Cash     decimal.Decimal `json:"cash"`
}

// purchaseToRevenueRatio estimates purchases when no purchase total is reported.
var purchaseToRevenueRatio = decimal.NewFromFloat(0.7)

// InsightTotalsFromKPIs derives the totals triple from a KPI snapshot.
func InsightTotalsFromKPIs(k DashboardKPIs) InsightTotals {
	return InsightTotals{
		Sales:    k.Revenue,
		Purchase: k.Revenue.Mul(purchaseToRevenueRatio),
		Cash:     k.CashBalance,
	}
}
