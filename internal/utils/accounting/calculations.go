package accounting

import (
	"fmt"

	"github.com/pharmatrack/ledger-core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedBalance converts gross debit/credit totals into a balance signed by
// the usual class convention:
// DEBIT increases ASSET/EXPENSE; CREDIT increases LIABILITY/EQUITY/REVENUE.
func SignedBalance(class domain.AccountClass, debits, credits decimal.Decimal) (decimal.Decimal, error) {
	switch class {
	case domain.Asset, domain.Expense:
		return debits.Sub(credits), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return credits.Sub(debits), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account class %q", class)
	}
}

// LineSignedAmount is the single-line form of SignedBalance.
func LineSignedAmount(class domain.AccountClass, line domain.JournalLine) (decimal.Decimal, error) {
	return SignedBalance(class, line.Debit, line.Credit)
}
