package dto

import "github.com/ShrishPande/tallyinsight/internal/core/domain"

// InsightResponse defines the advisory text returned next to the dashboard.
type InsightResponse struct {
	CompanyID      string           `json:"companyId"`
	Summary        string           `json:"summary"`
	Recommendation string           `json:"recommendation"`
	RiskAssessment domain.RiskLevel `json:"riskAssessment"`
}

// ToInsightResponse converts a domain.Insight to its DTO
func ToInsightResponse(companyID string, i domain.Insight) InsightResponse {
	return InsightResponse{
		CompanyID:      companyID,
		Summary:        i.Summary,
		Recommendation: i.Recommendation,
		RiskAssessment: i.RiskAssessment,
	}
}
