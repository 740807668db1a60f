package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
// DRAFT entries may still be replaced wholesale; POSTED is terminal.
type JournalStatus string

const (
	Draft  JournalStatus = "DRAFT"
	Posted JournalStatus = "POSTED"
)

// JournalEntry is a double-entry transaction header. Once posted, the entry
// and all of its lines are immutable; corrections happen through reversal
// entries, never in place.
type JournalEntry struct {
	EntryID         string        `json:"entryID"` // Primary Key (UUID)
	EntryDate       time.Time     `json:"entryDate"`
	Reference       string        `json:"reference"`   // Free-text link to the business event
	Description     string        `json:"description"` // Nullable user description
	Status          JournalStatus `json:"status"`
	PostedBy        *string       `json:"postedBy"`        // Nil until posted
	PostedAt        *time.Time    `json:"postedAt"`        // Nil until posted
	ReversesEntryID *string       `json:"reversesEntryID"` // Set on reversal entries only
	Lines           []JournalLine `json:"lines,omitempty"` // Often loaded separately
	AuditFields
}

// JournalLine is a single debit or credit against one account within an
// entry. Exactly one of Debit/Credit is strictly positive; the other is zero.
type JournalLine struct {
	LineID    string          `json:"lineID"`  // Primary Key (UUID)
	EntryID   string          `json:"entryID"` // FK -> JournalEntry.entryID
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	AuditFields
}

// SideValid reports whether the line carries exactly one positive side.
func (l JournalLine) SideValid() bool {
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return false
	}
	return l.Debit.IsPositive() != l.Credit.IsPositive()
}

// LinesBalanced reports whether the debit and credit totals of a line set
// match. An empty set is not balanced; it is invalid input.
func LinesBalanced(lines []JournalLine) bool {
	if len(lines) == 0 {
		return false
	}
	debits, credits := SumLines(lines)
	return debits.Equal(credits)
}

// SumLines returns the debit and credit totals across a line set.
func SumLines(lines []JournalLine) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits, credits
}
