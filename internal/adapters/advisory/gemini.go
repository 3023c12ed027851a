// Package advisory generates narrative dashboard insights with Gemini.
package advisory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ShrishPande/tallyinsight/internal/apperrors"
	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	portsrepo "github.com/ShrishPande/tallyinsight/internal/core/ports/repositories"
	generativelanguage "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.5-flash"

const promptTemplate = `
Analyze the following financial data from a company's Tally Prime dashboard.

Totals:
Total Sales: %s
Total Purchase: %s
Cash in Hand: %s

Monthly Trend (Last 6 months):
%s

Provide a JSON response with:
1. A short summary of financial health.
2. A strategic recommendation.
3. A risk assessment level (Low, Medium, High).
`

// GeminiClient calls the generateContent endpoint with a JSON response schema.
type GeminiClient struct {
	svc   *generativelanguage.Service
	model string
}

type geminiConfig struct {
	model    string
	endpoint string
}

// GeminiOption is a functional option for configuring the Gemini client
type GeminiOption func(*geminiConfig)

// WithModel overrides DefaultModel.
func WithModel(model string) GeminiOption {
	return func(c *geminiConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithEndpoint points the client at another base URL, mainly for tests.
func WithEndpoint(endpoint string) GeminiOption {
	return func(c *geminiConfig) {
		c.endpoint = endpoint
	}
}

// NewGeminiClient creates a client. An empty apiKey is rejected so callers can fall back early.
func NewGeminiClient(ctx context.Context, apiKey string, options ...GeminiOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key not configured", apperrors.ErrAdvisoryService)
	}
	cfg := geminiConfig{model: DefaultModel}
	for _, o := range options {
		o(&cfg)
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if cfg.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.endpoint))
	}
	svc, err := generativelanguage.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrAdvisoryService, err)
	}
	return &GeminiClient{svc: svc, model: cfg.model}, nil
}

var _ portsrepo.AdvisoryGenerator = (*GeminiClient)(nil)

type insightPayload struct {
	Summary        string `json:"summary"`
	Recommendation string `json:"recommendation"`
	RiskAssessment string `json:"riskAssessment"`
}

// GenerateInsight returns apperrors.ErrAdvisoryService for every failure, including empty or off-schema output.
func (c *GeminiClient) GenerateInsight(ctx context.Context, monthly []domain.MonthlyDataPoint, totals domain.InsightTotals) (*domain.Insight, error) {
	prompt, err := buildPrompt(monthly, totals)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrAdvisoryService, err)
	}

	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{
			{Role: "user", Parts: []*generativelanguage.Part{{Text: prompt}}},
		},
		GenerationConfig: &generativelanguage.GenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   insightSchema(),
		},
	}

	resp, err := c.svc.Models.GenerateContent("models/"+c.model, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: generateContent: %w", apperrors.ErrAdvisoryService, err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("%w: no response from model", apperrors.ErrAdvisoryService)
	}

	insight, err := parseInsight(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrAdvisoryService, err)
	}
	slog.DebugContext(ctx, "Generated insight", slog.String("model", c.model), slog.String("risk", string(insight.RiskAssessment)))
	return insight, nil
}

func buildPrompt(monthly []domain.MonthlyDataPoint, totals domain.InsightTotals) (string, error) {
	if monthly == nil {
		monthly = []domain.MonthlyDataPoint{}
	}
	trend, err := json.Marshal(monthly)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(promptTemplate, totals.Sales.String(), totals.Purchase.String(), totals.Cash.String(), trend), nil
}

func insightSchema() *generativelanguage.Schema {
	return &generativelanguage.Schema{
		Type: "OBJECT",
		Properties: map[string]generativelanguage.Schema{
			"summary":        {Type: "STRING"},
			"recommendation": {Type: "STRING"},
			"riskAssessment": {Type: "STRING", Enum: []string{string(domain.RiskLow), string(domain.RiskMedium), string(domain.RiskHigh)}},
		},
		Required: []string{"summary", "recommendation", "riskAssessment"},
	}
}

func responseText(resp *generativelanguage.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if p != nil {
				b.WriteString(p.Text)
			}
		}
		break
	}
	return strings.TrimSpace(b.String())
}

func parseInsight(text string) (*domain.Insight, error) {
	var p insightPayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, fmt.Errorf("decoding model output: %w", err)
	}
	if strings.TrimSpace(p.Summary) == "" {
		return nil, errors.New("model output has no summary")
	}
	risk, ok := domain.ParseRiskLevel(p.RiskAssessment)
	if !ok {
		return nil, fmt.Errorf("unknown risk level %q", p.RiskAssessment)
	}
	return &domain.Insight{
		Summary:        p.Summary,
		Recommendation: p.Recommendation,
		RiskAssessment: risk,
	}, nil
}
