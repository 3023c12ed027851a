// Package synthetic is the demo-mode data source. Its output is a pure function of its inputs.
package synthetic

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"

	"github.com/ShrishPande/tallyinsight/internal/apperrors"
	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	portsrepo "github.com/ShrishPande/tallyinsight/internal/core/ports/repositories"
	"github.com/ShrishPande/tallyinsight/internal/utils/accounting"
	"github.com/ShrishPande/tallyinsight/internal/utils/pagination"
	"github.com/ShrishPande/tallyinsight/pkg/envelope"
	"github.com/shopspring/decimal"
)

// RegisterSize is the number of rows behind every synthetic register.
const RegisterSize = 50

// SecondaryCompanyID is the demo company whose figures are scaled.
const SecondaryCompanyID = "c2"

var (
	kpiMultiplier         = decimal.RequireFromString("1.5")
	monthlyMultiplier     = decimal.RequireFromString("1.2")
	receivablesMultiplier = decimal.RequireFromString("0.8")

	// registerEndDate is the newest voucher date; rows step back one day each, in a 20 day cycle.
	registerEndDate = time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC)
)

// Source serves fixed demo companies and figures.
type Source struct {
	latency time.Duration
}

// SourceOption is a functional option for configuring the synthetic source
type SourceOption func(*Source)

// WithLatency delays every call, mimicking a round trip to Tally.
func WithLatency(d time.Duration) SourceOption {
	return func(s *Source) {
		s.latency = d
	}
}

// NewSource creates a synthetic data source with the provided options
func NewSource(options ...SourceOption) *Source {
	s := &Source{}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portsrepo.DataSource = (*Source)(nil)

func (s *Source) Name() string {
	return "synthetic"
}

// wait sleeps for the configured latency unless ctx ends first.
func (s *Source) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Source) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return []domain.Company{
		{ID: "c1", Name: "Acme Corp (Demo)", TaxID: "29AAACA1234A1Z5", Currency: "INR"},
		{ID: SecondaryCompanyID, Name: "Globex Ltd (Demo)", TaxID: "27ABCDE5678F1Z2", Currency: "USD"},
	}, nil
}

// GetKPIs ignores dateRange; the demo figures do not vary with it.
func (s *Source) GetKPIs(ctx context.Context, companyID string, dateRange domain.DateRange) (*domain.DashboardKPIs, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	m := multiplierFor(companyID, kpiMultiplier)
	return &domain.DashboardKPIs{
		Revenue:     decimal.NewFromInt(2450000).Mul(m),
		NetProfit:   decimal.NewFromInt(450000).Mul(m),
		CashBalance: decimal.NewFromInt(125000).Mul(m),
		GSTPayable:  decimal.NewFromInt(85000).Mul(m),
	}, nil
}

var monthlyBase = []struct {
	month                     string
	sales, purchase, expenses int64
}{
	{"Apr", 120000, 80000, 15000},
	{"May", 150000, 90000, 18000},
	{"Jun", 110000, 85000, 14000},
	{"Jul", 180000, 110000, 22000},
	{"Aug", 190000, 105000, 20000},
	{"Sep", 210000, 130000, 25000},
}

// GetMonthlyTrend scales sales and purchases for the secondary company. Expenses are never scaled.
func (s *Source) GetMonthlyTrend(ctx context.Context, companyID string) ([]domain.MonthlyDataPoint, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	m := multiplierFor(companyID, monthlyMultiplier)
	points := make([]domain.MonthlyDataPoint, len(monthlyBase))
	for i, b := range monthlyBase {
		points[i] = domain.MonthlyDataPoint{
			Month:    b.month,
			Sales:    decimal.NewFromInt(b.sales).Mul(m),
			Purchase: decimal.NewFromInt(b.purchase).Mul(m),
			Expenses: decimal.NewFromInt(b.expenses),
		}
	}
	return points, nil
}

// GetReceivables scales only some buckets, so TotalDue and the bucket sum diverge for the secondary company.
func (s *Source) GetReceivables(ctx context.Context, companyID string) ([]domain.ReceivablesRow, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	m := multiplierFor(companyID, receivablesMultiplier)
	scaled := func(v int64) decimal.Decimal { return decimal.NewFromInt(v).Mul(m) }
	fixed := decimal.NewFromInt

	return []domain.ReceivablesRow{
		{
			CustomerName: "ABC Corp",
			TotalDue:     scaled(45000),
			Buckets:      domain.AgingBuckets{Days0To30: fixed(20000), Days31To60: scaled(15000), Days61To90: fixed(10000), Days90Plus: decimal.Zero},
		},
		{
			CustomerName: "XYZ Ltd",
			TotalDue:     scaled(23500),
			Buckets:      domain.AgingBuckets{Days0To30: decimal.Zero, Days31To60: decimal.Zero, Days61To90: fixed(5000), Days90Plus: scaled(18500)},
		},
		{
			CustomerName: "Global Tech",
			TotalDue:     scaled(12000),
			Buckets:      domain.AgingBuckets{Days0To30: scaled(12000), Days31To60: decimal.Zero, Days61To90: decimal.Zero, Days90Plus: decimal.Zero},
		},
	}, nil
}

func (s *Source) ListAlerts(ctx context.Context, companyID string) ([]domain.Alert, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return []domain.Alert{
		{ID: "a1", Severity: domain.SeverityCritical, Message: "Cash balance below threshold (₹50,000)", Date: "2024-09-28", IsRead: false},
		{ID: "a2", Severity: domain.SeverityWarning, Message: "GST Payment due in 2 days", Date: "2024-09-29", IsRead: false},
		{ID: "a3", Severity: domain.SeverityInfo, Message: "New Tally Connector version available", Date: "2024-09-30", IsRead: true},
	}, nil
}

func (s *Source) GetTransactions(ctx context.Context, kind domain.RegisterKind, companyID string, page, pageSize int) (*domain.TransactionPage, error) {
	start, end, err := pagination.Bounds(RegisterSize, page, pageSize)
	if err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	rows, err := register(kind, companyID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Transaction, end-start)
	copy(out, rows[start:end])
	return &domain.TransactionPage{
		Rows:       out,
		TotalCount: RegisterSize,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// register builds the full backing set for (kind, companyID).
func register(kind domain.RegisterKind, companyID string) ([]domain.Transaction, error) {
	var build func(i int, rng *rand.Rand) domain.Transaction
	switch kind {
	case domain.Sales:
		build = salesRow
	case domain.Purchase:
		build = purchaseRow
	default:
		return nil, fmt.Errorf("%w: unknown register kind %q", apperrors.ErrValidation, kind)
	}

	rng := seededRand(string(kind), companyID)
	rows := make([]domain.Transaction, RegisterSize)
	for i := range rows {
		row := build(i, rng)
		row.Date = registerEndDate.AddDate(0, 0, -(i % 20))
		xml, err := auditXML(kind, row)
		if err != nil {
			return nil, err
		}
		row.RawXML = xml
		rows[i] = row
	}
	return rows, nil
}

func salesRow(i int, rng *rand.Rand) domain.Transaction {
	id := fmt.Sprintf("INV-%d", 1000+i)

	party := "Global Tech"
	switch {
	case i%3 == 0:
		party = "ABC Corp"
	case i%2 == 0:
		party = "XYZ Ltd"
	}

	status := domain.StatusPaid
	switch {
	case i%5 == 0:
		status = domain.StatusOverdue
	case i%3 == 0:
		status = domain.StatusPending
	}

	return domain.Transaction{
		ID:        id,
		InvoiceNo: fmt.Sprintf("INV-24-%d", 1000+i),
		PartyName: party,
		Amount:    decimal.NewFromInt(5000 + rng.Int64N(50000)),
		Status:    status,
		Items: []domain.LineItem{
			lineItem(id, 1, "Consulting Services", 1, "hrs", 2500),
			lineItem(id, 2, "Maintenance", 1, "amt", 2500),
		},
	}
}

func purchaseRow(i int, rng *rand.Rand) domain.Transaction {
	id := fmt.Sprintf("PUR-%d", 5000+i)

	party := "Tech Wholesalers"
	switch {
	case i%3 == 0:
		party = "Office Depot"
	case i%2 == 0:
		party = "Raw Material Suppliers"
	}

	status := domain.StatusPaid
	if i%4 == 0 {
		status = domain.StatusPending
	}

	return domain.Transaction{
		ID:        id,
		InvoiceNo: fmt.Sprintf("PUR-24-%d", 5000+i),
		PartyName: party,
		Amount:    decimal.NewFromInt(2000 + rng.Int64N(80000)),
		Status:    status,
		Items: []domain.LineItem{
			lineItem(id, 1, "Office Supplies", 10, "box", 450),
			lineItem(id, 2, "Printer Paper", 20, "rim", 250),
		},
	}
}

func lineItem(voucherID string, n int, description string, qty int64, unit string, rate int64) domain.LineItem {
	return domain.LineItem{
		ID:          fmt.Sprintf("%s-%d", voucherID, n),
		Description: description,
		Quantity:    decimal.NewFromInt(qty),
		Unit:        unit,
		Rate:        decimal.NewFromInt(rate),
		Amount:      decimal.NewFromInt(qty * rate),
	}
}

func auditXML(kind domain.RegisterKind, row domain.Transaction) (string, error) {
	entry, err := accounting.VoucherLedgerEntry(kind, row.Amount)
	if err != nil {
		return "", err
	}
	return envelope.AuditXML(envelope.Voucher{
		VoucherType:      string(kind),
		Date:             row.Date,
		GUID:             row.ID,
		Number:           row.InvoiceNo,
		PartyLedgerName:  row.PartyName,
		LedgerName:       entry.LedgerName,
		IsDeemedPositive: entry.IsDeemedPositive,
		Amount:           entry.Amount,
	}), nil
}

// seededRand derives a generator from the register identity so repeated calls agree.
func seededRand(kind, companyID string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(kind))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(companyID))
	seed := h.Sum64()
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func multiplierFor(companyID string, m decimal.Decimal) decimal.Decimal {
	if companyID == SecondaryCompanyID {
		return m
	}
	return decimal.NewFromInt(1)
}
