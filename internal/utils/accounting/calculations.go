package accounting

import (
	"fmt"

	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Ledger names posted against in Tally's default chart of accounts.
const (
	SalesLedger    = "Sales Account"
	PurchaseLedger = "Purchase Account"
)

// LedgerEntry is the single ALLLEDGERENTRIES.LIST line of a register voucher.
type LedgerEntry struct {
	LedgerName       string
	IsDeemedPositive bool
	Amount           decimal.Decimal // signed
}

// VoucherLedgerEntry applies Tally's sign convention to a register amount.
// Tally stores debits as negative with ISDEEMEDPOSITIVE Yes:
// a Sales voucher credits the sales ledger (+amount, No),
// a Purchase voucher debits the purchase ledger (-amount, Yes).
func VoucherLedgerEntry(kind domain.RegisterKind, amount decimal.Decimal) (LedgerEntry, error) {
	amount = amount.Abs()
	switch kind {
	case domain.Sales:
		return LedgerEntry{LedgerName: SalesLedger, IsDeemedPositive: false, Amount: amount}, nil
	case domain.Purchase:
		return LedgerEntry{LedgerName: PurchaseLedger, IsDeemedPositive: true, Amount: amount.Neg()}, nil
	default:
		return LedgerEntry{}, fmt.Errorf("unknown register kind '%s'", kind)
	}
}

// RegisterAmount is the inverse of VoucherLedgerEntry: the unsigned amount shown in a register.
func RegisterAmount(signed decimal.Decimal) decimal.Decimal {
	return signed.Abs()
}

// SumAmounts totals the Amount of every transaction.
func SumAmounts(rows []domain.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.Amount)
	}
	return sum
}
