package tally

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	portsrepo "github.com/ShrishPande/tallyinsight/internal/core/ports/repositories"
	"github.com/ShrishPande/tallyinsight/internal/utils/mapping"
	"github.com/ShrishPande/tallyinsight/internal/utils/pagination"
	"github.com/ShrishPande/tallyinsight/pkg/envelope"
)

// LiveSource reads from a running Tally server at baseURL.
// Only companies and vouchers have field mappings; the other reports are fetched
// (so transport failures surface) but map to empty values.
type LiveSource struct {
	transport portsrepo.TallyTransport
	baseURL   string
}

// NewLiveSource creates a data source bound to one Tally server.
func NewLiveSource(transport portsrepo.TallyTransport, baseURL string) *LiveSource {
	return &LiveSource{transport: transport, baseURL: baseURL}
}

var _ portsrepo.DataSource = (*LiveSource)(nil)

func (s *LiveSource) Name() string {
	return "tally"
}

func (s *LiveSource) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	doc, err := s.transport.Send(ctx, s.baseURL, envelope.ExportDataRequest(envelope.ReportListOfCompanies, xmlFormat()))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch company list: %w", err)
	}
	return mapping.ToDomainCompanies(doc), nil
}

func (s *LiveSource) GetKPIs(ctx context.Context, companyID string, dateRange domain.DateRange) (*domain.DashboardKPIs, error) {
	doc, err := s.transport.Send(ctx, s.baseURL, envelope.ExportDataRequest(envelope.ReportProfitAndLoss,
		companyVar(companyID),
		envelope.StaticVariable{Name: envelope.VarFromDate, Value: dateRange.Start.Format(envelope.VoucherDateLayout)},
		envelope.StaticVariable{Name: envelope.VarToDate, Value: dateRange.End.Format(envelope.VoucherDateLayout)},
		xmlFormat(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", envelope.ReportProfitAndLoss, err)
	}
	kpis := mapping.ToDomainKPIs(doc)
	return &kpis, nil
}

func (s *LiveSource) GetMonthlyTrend(ctx context.Context, companyID string) ([]domain.MonthlyDataPoint, error) {
	doc, err := s.transport.Send(ctx, s.baseURL, envelope.ExportDataRequest(envelope.ReportSalesRegister, companyVar(companyID), xmlFormat()))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", envelope.ReportSalesRegister, err)
	}
	return mapping.ToDomainMonthlyTrend(doc), nil
}

func (s *LiveSource) GetReceivables(ctx context.Context, companyID string) ([]domain.ReceivablesRow, error) {
	doc, err := s.transport.Send(ctx, s.baseURL, envelope.ExportDataRequest(envelope.ReportBillsReceivable, companyVar(companyID), xmlFormat()))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", envelope.ReportBillsReceivable, err)
	}
	return mapping.ToDomainReceivables(doc), nil
}

// ListAlerts sends nothing; Tally has no alert report.
func (s *LiveSource) ListAlerts(ctx context.Context, companyID string) ([]domain.Alert, error) {
	return mapping.ToDomainAlerts(nil), nil
}

// GetTransactions exports the Day Book, keeps vouchers of kind and pages locally.
func (s *LiveSource) GetTransactions(ctx context.Context, kind domain.RegisterKind, companyID string, page, pageSize int) (*domain.TransactionPage, error) {
	// validate before paying for a round trip
	if _, _, err := pagination.Bounds(0, page, pageSize); err != nil {
		return nil, err
	}

	doc, err := s.transport.Send(ctx, s.baseURL, envelope.ExportDataRequest(envelope.ReportDayBook, companyVar(companyID), xmlFormat()))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", envelope.ReportDayBook, err)
	}

	rows := mapping.ToDomainTransactions(doc, kind)
	start, end, err := pagination.Bounds(len(rows), page, pageSize)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "Mapped live register",
		slog.String("kind", string(kind)),
		slog.String("company_id", companyID),
		slog.Int("total", len(rows)))

	return &domain.TransactionPage{
		Rows:       rows[start:end],
		TotalCount: len(rows),
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func companyVar(companyID string) envelope.StaticVariable {
	return envelope.StaticVariable{Name: envelope.VarCurrentCompany, Value: companyID}
}

func xmlFormat() envelope.StaticVariable {
	return envelope.StaticVariable{Name: envelope.VarExportFormat, Value: envelope.FormatXML}
}
