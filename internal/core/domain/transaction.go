package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterKind selects which voucher register a transaction belongs to.
type RegisterKind string

const (
	Sales    RegisterKind = "Sales"
	Purchase RegisterKind = "Purchase"
)

// ParseRegisterKind accepts "sales"/"purchase" in any case.
func ParseRegisterKind(s string) (RegisterKind, bool) {
	switch s {
	case "sales", "Sales", "SALES":
		return Sales, true
	case "purchase", "Purchase", "PURCHASE":
		return Purchase, true
	}
	return "", false
}

// TransactionStatus is the settlement state of an invoice.
type TransactionStatus string

const (
	StatusPaid    TransactionStatus = "Paid"
	StatusPending TransactionStatus = "Pending"
	StatusOverdue TransactionStatus = "Overdue"
)

// LineItem is one inventory or service line of a voucher.
type LineItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// Consistent reports whether Amount equals Quantity x Rate. Advisory only, nothing enforces it.
func (l LineItem) Consistent() bool {
	return l.Quantity.Mul(l.Rate).Equal(l.Amount)
}

// Transaction is a single sales or purchase voucher as shown in a register.
type Transaction struct {
	ID        string            `json:"id"`
	Date      time.Time         `json:"date"`
	InvoiceNo string            `json:"invoiceNo"`
	PartyName string            `json:"partyName"`
	Amount    decimal.Decimal   `json:"amount"`
	Status    TransactionStatus `json:"status"`
	Items     []LineItem        `json:"items,omitempty"`
	RawXML    string            `json:"rawXml,omitempty"` // audit envelope for the voucher viewer
}

// TransactionPage is one page of a register scoped to (company, kind).
type TransactionPage struct {
	Rows       []Transaction `json:"rows"`
	TotalCount int           `json:"totalCount"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
}

// HasNext reports whether a page follows this one.
func (p TransactionPage) HasNext() bool {
	if p.Page < 1 || p.PageSize < 1 || p.TotalCount < 1 {
		return false
	}
	// Page*PageSize < TotalCount, without the overflowing product
	return p.Page <= (p.TotalCount-1)/p.PageSize
}
