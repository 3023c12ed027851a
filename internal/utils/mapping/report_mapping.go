package mapping

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ShrishPande/tallyinsight/internal/apperrors"
	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	"github.com/ShrishPande/tallyinsight/internal/utils/accounting"
	"github.com/ShrishPande/tallyinsight/pkg/envelope"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is assumed when a company does not declare one.
const DefaultCurrency = "INR"

var currencyBySymbol = map[string]string{
	"₹":   "INR",
	"Rs":  "INR",
	"Rs.": "INR",
	"$":   "USD",
	"€":   "EUR",
	"£":   "GBP",
}

// ToDomainCompanies maps every COMPANY element. Companies without a name are skipped.
func ToDomainCompanies(doc *envelope.Node) []domain.Company {
	companies := []domain.Company{}
	seen := map[string]bool{}
	for _, el := range doc.FindAll("COMPANY") {
		name := strings.TrimSpace(el.Attr("NAME"))
		if name == "" {
			name = strings.TrimSpace(envelope.GetFirstTagValue(el, "NAME"))
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		taxID := envelope.GetFirstTagValue(el, "GSTIN")
		if taxID == "" {
			taxID = envelope.GetFirstTagValue(el, "GSTREGISTRATIONNUMBER")
		}

		companies = append(companies, domain.Company{
			ID:       name,
			Name:     name,
			TaxID:    strings.TrimSpace(taxID),
			Currency: toCurrencyCode(envelope.GetFirstTagValue(el, "BASECURRENCYSYMBOL")),
		})
	}
	return companies
}

func toCurrencyCode(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return DefaultCurrency
	}
	if code, ok := currencyBySymbol[symbol]; ok {
		return code
	}
	return symbol
}

// ToDomainTransactions maps every VOUCHER element of the given register kind.
// Vouchers whose type is declared and differs from kind are skipped.
// Live vouchers carry no settlement state, so every row is Paid.
func ToDomainTransactions(doc *envelope.Node, kind domain.RegisterKind) []domain.Transaction {
	rows := []domain.Transaction{}
	for _, v := range doc.FindAll("VOUCHER") {
		vchType := v.Attr("VCHTYPE")
		if vchType == "" {
			vchType = envelope.GetFirstTagValue(v, "VOUCHERTYPENAME")
		}
		if vchType != "" && !strings.EqualFold(strings.TrimSpace(vchType), string(kind)) {
			continue
		}
		rows = append(rows, ToDomainTransaction(v))
	}
	return rows
}

// ToDomainTransaction maps one VOUCHER element in the audit format.
func ToDomainTransaction(v *envelope.Node) domain.Transaction {
	number := strings.TrimSpace(envelope.GetFirstTagValue(v, "VOUCHERNUMBER"))
	id := strings.TrimSpace(envelope.GetFirstTagValue(v, "GUID"))
	if id == "" {
		id = number
	}

	var amount decimal.Decimal
	if entry := v.First("ALLLEDGERENTRIES.LIST"); entry != nil {
		amount = accounting.RegisterAmount(parseAmount(envelope.GetFirstTagValue(entry, "AMOUNT")))
	}

	return domain.Transaction{
		ID:        id,
		Date:      parseVoucherDate(envelope.GetFirstTagValue(v, "DATE")),
		InvoiceNo: number,
		PartyName: strings.TrimSpace(envelope.GetFirstTagValue(v, "PARTYLEDGERNAME")),
		Amount:    amount,
		Status:    domain.StatusPaid,
		Items:     toDomainLineItems(v),
		RawXML:    envelope.WrapVoucherMarkup(v.Markup()),
	}
}

func toDomainLineItems(v *envelope.Node) []domain.LineItem {
	entries := v.FindAll("INVENTORYENTRIES.LIST")
	if len(entries) == 0 {
		entries = v.FindAll("ALLINVENTORYENTRIES.LIST")
	}
	if len(entries) == 0 {
		return nil
	}

	items := make([]domain.LineItem, 0, len(entries))
	for i, e := range entries {
		qty, unit := parseQuantity(envelope.GetFirstTagValue(e, "ACTUALQTY"))
		rate, _, _ := strings.Cut(envelope.GetFirstTagValue(e, "RATE"), "/")
		items = append(items, domain.LineItem{
			ID:          strings.TrimSpace(envelope.GetFirstTagValue(v, "GUID")) + "-" + strconv.Itoa(i+1),
			Description: strings.TrimSpace(envelope.GetFirstTagValue(e, "STOCKITEMNAME")),
			Quantity:    qty,
			Unit:        unit,
			Rate:        parseAmount(rate),
			Amount:      accounting.RegisterAmount(parseAmount(envelope.GetFirstTagValue(e, "AMOUNT"))),
		})
	}
	return items
}

// ToDomainKPIs has no field mapping for live Tally output yet and returns zeros.
func ToDomainKPIs(doc *envelope.Node) domain.DashboardKPIs {
	logMappingGap(envelope.ReportProfitAndLoss, doc)
	return domain.DashboardKPIs{
		Revenue:     decimal.Zero,
		NetProfit:   decimal.Zero,
		CashBalance: decimal.Zero,
		GSTPayable:  decimal.Zero,
	}
}

// ToDomainMonthlyTrend has no field mapping for live Tally output yet and returns an empty series.
func ToDomainMonthlyTrend(doc *envelope.Node) []domain.MonthlyDataPoint {
	logMappingGap(envelope.ReportSalesRegister, doc)
	return []domain.MonthlyDataPoint{}
}

// ToDomainReceivables has no field mapping for live Tally output yet and returns an empty table.
func ToDomainReceivables(doc *envelope.Node) []domain.ReceivablesRow {
	logMappingGap(envelope.ReportBillsReceivable, doc)
	return []domain.ReceivablesRow{}
}

// ToDomainAlerts returns no alerts; Tally has no report that produces them.
func ToDomainAlerts(doc *envelope.Node) []domain.Alert {
	logMappingGap("Alerts", doc)
	return []domain.Alert{}
}

func logMappingGap(report string, doc *envelope.Node) {
	slog.Debug("Live report returned without field mapping",
		slog.String("report", report),
		slog.String("error", apperrors.ErrMappingGap.Error()),
		slog.Bool("has_response", doc != nil))
}

func parseVoucherDate(s string) time.Time {
	t, err := time.Parse(envelope.VoucherDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseAmount reads Tally numbers, which may carry thousands separators or a Dr/Cr suffix.
func parseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if f := strings.Fields(s); len(f) > 0 {
		s = f[0]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseQuantity splits " 10 box" into 10 and "box".
func parseQuantity(s string) (decimal.Decimal, string) {
	f := strings.Fields(s)
	if len(f) == 0 {
		return decimal.Zero, ""
	}
	qty := parseAmount(f[0])
	if len(f) == 1 {
		return qty, ""
	}
	return qty, strings.Join(f[1:], " ")
}
