package synthetic_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/ShrishPande/tallyinsight/internal/adapters/synthetic"
	"github.com/ShrishPande/tallyinsight/internal/apperrors"
	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	"github.com/ShrishPande/tallyinsight/internal/utils/mapping"
	"github.com/ShrishPande/tallyinsight/pkg/envelope"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SyntheticSourceTestSuite struct {
	suite.Suite
	ctx    context.Context
	source *synthetic.Source
}

func (suite *SyntheticSourceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.source = synthetic.NewSource()
}

func (suite *SyntheticSourceTestSuite) decimalEqual(want int64, got decimal.Decimal, msgAndArgs ...any) {
	suite.True(decimal.NewFromInt(want).Equal(got), append([]any{"want %d, got %s", want, got.String()}, msgAndArgs...)...)
}

func (suite *SyntheticSourceTestSuite) TestListCompanies() {
	companies, err := suite.source.ListCompanies(suite.ctx)

	suite.Require().NoError(err)
	suite.Require().Len(companies, 2)
	suite.Equal(domain.Company{ID: "c1", Name: "Acme Corp (Demo)", TaxID: "29AAACA1234A1Z5", Currency: "INR"}, companies[0])
	suite.Equal(domain.Company{ID: "c2", Name: "Globex Ltd (Demo)", TaxID: "27ABCDE5678F1Z2", Currency: "USD"}, companies[1])
}

func (suite *SyntheticSourceTestSuite) TestGetKPIs() {
	c1, err := suite.source.GetKPIs(suite.ctx, "c1", domain.DefaultDateRange())
	suite.Require().NoError(err)
	suite.decimalEqual(2450000, c1.Revenue)
	suite.decimalEqual(450000, c1.NetProfit)
	suite.decimalEqual(125000, c1.CashBalance)
	suite.decimalEqual(85000, c1.GSTPayable)

	c2, err := suite.source.GetKPIs(suite.ctx, "c2", domain.DefaultDateRange())
	suite.Require().NoError(err)
	suite.decimalEqual(3675000, c2.Revenue)
	suite.decimalEqual(675000, c2.NetProfit)
	suite.decimalEqual(187500, c2.CashBalance)
	suite.decimalEqual(127500, c2.GSTPayable)

	unknown, err := suite.source.GetKPIs(suite.ctx, "nope", domain.DefaultDateRange())
	suite.Require().NoError(err)
	suite.Equal(c1, unknown, "any company other than c2 gets base figures")
}

func (suite *SyntheticSourceTestSuite) TestGetMonthlyTrend() {
	c1, err := suite.source.GetMonthlyTrend(suite.ctx, "c1")
	suite.Require().NoError(err)
	suite.Require().Len(c1, 6)

	months := make([]string, len(c1))
	for i, p := range c1 {
		months[i] = p.Month
	}
	suite.Equal([]string{"Apr", "May", "Jun", "Jul", "Aug", "Sep"}, months)
	suite.decimalEqual(120000, c1[0].Sales)
	suite.decimalEqual(80000, c1[0].Purchase)
	suite.decimalEqual(25000, c1[5].Expenses)

	c2, err := suite.source.GetMonthlyTrend(suite.ctx, "c2")
	suite.Require().NoError(err)
	suite.decimalEqual(144000, c2[0].Sales)
	suite.decimalEqual(96000, c2[0].Purchase)
	suite.decimalEqual(15000, c2[0].Expenses, "expenses are never scaled")
}

func (suite *SyntheticSourceTestSuite) TestGetReceivables() {
	c1, err := suite.source.GetReceivables(suite.ctx, "c1")
	suite.Require().NoError(err)
	suite.Require().Len(c1, 3)
	for _, row := range c1 {
		suite.True(row.Balanced(), "%s should balance at multiplier 1", row.CustomerName)
	}

	c2, err := suite.source.GetReceivables(suite.ctx, "c2")
	suite.Require().NoError(err)
	suite.Equal("ABC Corp", c2[0].CustomerName)
	suite.decimalEqual(36000, c2[0].TotalDue)
	suite.decimalEqual(20000, c2[0].Buckets.Days0To30)
	suite.decimalEqual(12000, c2[0].Buckets.Days31To60)
	suite.decimalEqual(42000, c2[0].Buckets.Sum())
	suite.False(c2[0].Balanced(), "buckets are scaled asymmetrically")
	suite.decimalEqual(14800, c2[1].Buckets.Days90Plus)
	suite.True(c2[2].Balanced())
}

func (suite *SyntheticSourceTestSuite) TestListAlerts() {
	alerts, err := suite.source.ListAlerts(suite.ctx, "c1")
	suite.Require().NoError(err)
	suite.Require().Len(alerts, 3)
	suite.Equal(domain.SeverityCritical, alerts[0].Severity)
	suite.Equal("Cash balance below threshold (₹50,000)", alerts[0].Message)
	suite.False(alerts[0].IsRead)
	suite.Equal(domain.SeverityInfo, alerts[2].Severity)
	suite.True(alerts[2].IsRead)
}

func (suite *SyntheticSourceTestSuite) TestSalesRegister() {
	page, err := suite.source.GetTransactions(suite.ctx, domain.Sales, "c1", 1, 10)
	suite.Require().NoError(err)
	suite.Equal(50, page.TotalCount)
	suite.Require().Len(page.Rows, 10)
	suite.True(page.HasNext())

	first := page.Rows[0]
	suite.Equal("INV-1000", first.ID)
	suite.Equal("INV-24-1000", first.InvoiceNo)
	suite.Equal("ABC Corp", first.PartyName)
	suite.Equal(time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC), first.Date)
	suite.Equal(time.Date(2024, 9, 21, 0, 0, 0, 0, time.UTC), page.Rows[9].Date)

	suite.Equal(domain.StatusOverdue, page.Rows[0].Status)
	suite.Equal(domain.StatusPaid, page.Rows[1].Status)
	suite.Equal(domain.StatusPending, page.Rows[3].Status)
	suite.Equal("XYZ Ltd", page.Rows[2].PartyName)
	suite.Equal("Global Tech", page.Rows[1].PartyName)

	for _, row := range page.Rows {
		suite.True(row.Amount.GreaterThanOrEqual(decimal.NewFromInt(5000)), row.ID)
		suite.True(row.Amount.LessThan(decimal.NewFromInt(55000)), row.ID)
		suite.Require().Len(row.Items, 2)
		suite.Equal("Consulting Services", row.Items[0].Description)
		suite.True(row.Items[0].Consistent())
	}
}

func (suite *SyntheticSourceTestSuite) TestPurchaseRegister() {
	page, err := suite.source.GetTransactions(suite.ctx, domain.Purchase, "c1", 1, 50)
	suite.Require().NoError(err)
	suite.Require().Len(page.Rows, 50)
	suite.False(page.HasNext())

	suite.Equal("PUR-5000", page.Rows[0].ID)
	suite.Equal("PUR-24-5049", page.Rows[49].InvoiceNo)
	suite.Equal("Office Depot", page.Rows[0].PartyName)
	suite.Equal("Tech Wholesalers", page.Rows[1].PartyName)
	suite.Equal("Raw Material Suppliers", page.Rows[2].PartyName)
	suite.Equal(domain.StatusPending, page.Rows[0].Status)
	suite.Equal(domain.StatusPaid, page.Rows[1].Status)
	suite.Equal(domain.StatusPending, page.Rows[4].Status)
	suite.Equal(time.Date(2024, 9, 11, 0, 0, 0, 0, time.UTC), page.Rows[19].Date)
	suite.Equal(time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC), page.Rows[20].Date)

	for _, row := range page.Rows {
		suite.True(row.Amount.GreaterThanOrEqual(decimal.NewFromInt(2000)), row.ID)
		suite.True(row.Amount.LessThan(decimal.NewFromInt(82000)), row.ID)
		suite.decimalEqual(4500, row.Items[0].Amount)
		suite.decimalEqual(5000, row.Items[1].Amount)
	}
}

func (suite *SyntheticSourceTestSuite) TestPagination() {
	past, err := suite.source.GetTransactions(suite.ctx, domain.Sales, "c1", 6, 10)
	suite.Require().NoError(err)
	suite.Empty(past.Rows)
	suite.Equal(50, past.TotalCount)
	suite.False(past.HasNext())

	last, err := suite.source.GetTransactions(suite.ctx, domain.Sales, "c1", 3, 20)
	suite.Require().NoError(err)
	suite.Len(last.Rows, 10)
	suite.Equal("INV-1040", last.Rows[0].ID)

	// page 2 of size 10 is rows 10..19 of the full set
	all, err := suite.source.GetTransactions(suite.ctx, domain.Sales, "c1", 1, 50)
	suite.Require().NoError(err)
	second, err := suite.source.GetTransactions(suite.ctx, domain.Sales, "c1", 2, 10)
	suite.Require().NoError(err)
	suite.Equal(all.Rows[10:20], second.Rows)

	// page and size are caller input; large values page past the end
	huge, err := suite.source.GetTransactions(suite.ctx, domain.Sales, "c1", 2, math.MaxInt)
	suite.Require().NoError(err)
	suite.Empty(huge.Rows)
	suite.False(huge.HasNext())

	whole, err := suite.source.GetTransactions(suite.ctx, domain.Sales, "c1", 1, math.MaxInt)
	suite.Require().NoError(err)
	suite.Len(whole.Rows, 50)

	far, err := suite.source.GetTransactions(suite.ctx, domain.Sales, "c1", math.MaxInt/5, 10)
	suite.Require().NoError(err)
	suite.Empty(far.Rows)
	suite.Equal(50, far.TotalCount)
}

func (suite *SyntheticSourceTestSuite) TestPagination_Idempotent() {
	for _, kind := range []domain.RegisterKind{domain.Sales, domain.Purchase} {
		a, err := suite.source.GetTransactions(suite.ctx, kind, "c2", 2, 7)
		suite.Require().NoError(err)
		b, err := synthetic.NewSource().GetTransactions(suite.ctx, kind, "c2", 2, 7)
		suite.Require().NoError(err)
		suite.Equal(a, b, "same inputs must give identical pages")
	}
}

func (suite *SyntheticSourceTestSuite) TestPagination_InvalidInput() {
	_, err := suite.source.GetTransactions(suite.ctx, domain.Sales, "c1", 0, 10)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.source.GetTransactions(suite.ctx, domain.Sales, "c1", 1, 0)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.source.GetTransactions(suite.ctx, domain.RegisterKind("Journal"), "c1", 1, 10)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SyntheticSourceTestSuite) TestAuditXMLMapsBack() {
	for _, kind := range []domain.RegisterKind{domain.Sales, domain.Purchase} {
		page, err := suite.source.GetTransactions(suite.ctx, kind, "c1", 1, 5)
		suite.Require().NoError(err)

		for _, row := range page.Rows {
			doc, err := envelope.Parse(row.RawXML)
			suite.Require().NoError(err, row.ID)
			suite.Equal(envelope.ImportData, envelope.GetFirstTagValue(doc, "TALLYREQUEST"))

			mapped := mapping.ToDomainTransactions(doc, kind)
			suite.Require().Len(mapped, 1, row.ID)
			suite.Equal(row.ID, mapped[0].ID)
			suite.Equal(row.InvoiceNo, mapped[0].InvoiceNo)
			suite.Equal(row.PartyName, mapped[0].PartyName)
			suite.Equal(row.Date, mapped[0].Date)
			suite.True(row.Amount.Equal(mapped[0].Amount), row.ID)
		}
	}
}

func (suite *SyntheticSourceTestSuite) TestLatencyHonoursCancellation() {
	slow := synthetic.NewSource(synthetic.WithLatency(time.Hour))
	ctx, cancel := context.WithCancel(suite.ctx)
	cancel()

	_, err := slow.ListCompanies(ctx)
	suite.ErrorIs(err, context.Canceled)

	_, err = slow.GetTransactions(ctx, domain.Sales, "c1", 1, 10)
	suite.ErrorIs(err, context.Canceled)
}

func TestSyntheticSource(t *testing.T) {
	suite.Run(t, new(SyntheticSourceTestSuite))
}
