package memory

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pharmatrack/ledger-core/internal/apperrors"
	"github.com/pharmatrack/ledger-core/internal/core/domain"
)

// checkMovement re-validates kind and quantity at the storage boundary, as
// defense in depth behind the service-level validation.
func checkMovement(m domain.Movement) error {
	if !m.Kind.Valid() {
		return fmt.Errorf("%w: unknown movement kind %q", apperrors.ErrValidation, m.Kind)
	}
	if !m.QuantityValid() {
		return fmt.Errorf("%w: invalid quantity %d for kind %s", apperrors.ErrValidation, m.Quantity, m.Kind)
	}
	return nil
}

// checkEntryLines re-validates line shape at the storage boundary.
func checkEntryLines(lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: entry must have at least one line", apperrors.ErrValidation)
	}
	for _, l := range lines {
		if !l.SideValid() {
			return fmt.Errorf("%w: line %s must have exactly one positive side", apperrors.ErrValidation, l.LineID)
		}
	}
	return nil
}

// sumPostedLines totals debit and credit amounts for an account across
// POSTED entries. Callers hold at least the read lock.
func sumPostedLines(s *Store, accountID string) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for entryID, entry := range s.entries {
		if entry.Status != domain.Posted {
			continue
		}
		for _, l := range s.lines[entryID] {
			if l.AccountID != accountID {
				continue
			}
			debits = debits.Add(l.Debit)
			credits = credits.Add(l.Credit)
		}
	}
	return debits, credits
}

func copyLines(lines []domain.JournalLine) []domain.JournalLine {
	out := make([]domain.JournalLine, len(lines))
	copy(out, lines)
	return out
}

func sortAccountsByCode(accounts []domain.Account) {
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Code < accounts[j].Code
	})
}
