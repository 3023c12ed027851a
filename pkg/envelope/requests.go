package envelope

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Report names used in Export Data requests.
const (
	ReportListOfAccounts  = "List of Accounts"
	ReportListOfCompanies = "List of Companies"
	ReportDayBook         = "Day Book"
	ReportVouchers        = "Vouchers"
	ReportProfitAndLoss   = "Profit and Loss"
	ReportSalesRegister   = "Sales Register"
	ReportBillsReceivable = "Bills Receivable"
)

// Static variable names understood by Export Data requests.
const (
	VarCurrentCompany = "SVCURRENTCOMPANY"
	VarFromDate       = "SVFROMDATE"
	VarToDate         = "SVTODATE"
	VarExportFormat   = "SVEXPORTFORMAT"
)

// FormatXML asks Tally to answer in XML rather than its default SDF.
const FormatXML = "$$SysName:XML"

// VoucherDateLayout is Tally's compact date format.
const VoucherDateLayout = "20060102"

// StaticVariable is one SVxxx entry of a REQUESTDESC.
type StaticVariable struct {
	Name  string
	Value string
}

// ExportDataRequest builds an "Export Data" envelope for reportName.
func ExportDataRequest(reportName string, vars ...StaticVariable) string {
	var b strings.Builder
	b.WriteString("<EXPORTDATA><REQUESTDESC><REPORTNAME>")
	b.WriteString(escape(reportName))
	b.WriteString("</REPORTNAME>")
	if len(vars) > 0 {
		b.WriteString("<STATICVARIABLES>")
		for _, v := range vars {
			fmt.Fprintf(&b, "<%s>%s</%s>", v.Name, escape(v.Value), v.Name)
		}
		b.WriteString("</STATICVARIABLES>")
	}
	b.WriteString("</REQUESTDESC></EXPORTDATA>")
	return BuildRequest(ExportData, b.String())
}

// ReachabilityRequest is the minimal read-only request that checks that Tally answers.
func ReachabilityRequest() string {
	return ExportDataRequest(ReportListOfAccounts)
}

// Voucher holds the fields rendered into an audit envelope.
type Voucher struct {
	VoucherType      string
	Date             time.Time
	GUID             string
	Number           string
	PartyLedgerName  string
	LedgerName       string
	IsDeemedPositive bool
	Amount           decimal.Decimal // signed
}

const voucherTemplate = `<VOUCHER VCHTYPE="%s" ACTION="Create" OBJVIEW="Invoice Voucher View">
            <DATE>%s</DATE>
            <GUID>%s</GUID>
            <VOUCHERNUMBER>%s</VOUCHERNUMBER>
            <PARTYLEDGERNAME>%s</PARTYLEDGERNAME>
            <FBTPAYMENTTYPE>Default</FBTPAYMENTTYPE>
            <PERSISTEDVIEW>Invoice Voucher View</PERSISTEDVIEW>
            <ENTEREDBY>Admin</ENTEREDBY>
            <EFFECTIVEDATE>%s</EFFECTIVEDATE>
            <ALLLEDGERENTRIES.LIST>
              <LEDGERNAME>%s</LEDGERNAME>
              <ISDEEMEDPOSITIVE>%s</ISDEEMEDPOSITIVE>
              <AMOUNT>%s</AMOUNT>
            </ALLLEDGERENTRIES.LIST>
          </VOUCHER>`

const importDataTemplate = `<IMPORTDATA>
      <REQUESTDESC>
        <REPORTNAME>%s</REPORTNAME>
      </REQUESTDESC>
      <REQUESTDATA>
        <TALLYMESSAGE xmlns:UDF="TallyUDF">
          %s
        </TALLYMESSAGE>
      </REQUESTDATA>
    </IMPORTDATA>`

// AuditXML renders v as an "Import Data" envelope, the format shown in the voucher audit viewer.
func AuditXML(v Voucher) string {
	date := v.Date.Format(VoucherDateLayout)
	voucher := fmt.Sprintf(voucherTemplate,
		escape(v.VoucherType),
		date,
		escape(v.GUID),
		escape(v.Number),
		escape(v.PartyLedgerName),
		date,
		escape(v.LedgerName),
		yesNo(v.IsDeemedPositive),
		v.Amount.String(),
	)
	return WrapVoucherMarkup(voucher)
}

// WrapVoucherMarkup places already serialised VOUCHER markup inside an audit envelope.
func WrapVoucherMarkup(voucherMarkup string) string {
	return BuildRequest(ImportData, fmt.Sprintf(importDataTemplate, ReportVouchers, voucherMarkup))
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
