package domain

// AccountClass defines the fundamental accounting class of an account.
type AccountClass string

const (
	Asset     AccountClass = "ASSET"
	Liability AccountClass = "LIABILITY"
	Equity    AccountClass = "EQUITY"
	Revenue   AccountClass = "REVENUE"
	Expense   AccountClass = "EXPENSE"
)

// Valid reports whether the class is one of the closed set.
func (c AccountClass) Valid() bool {
	switch c {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account is a ledger account. Accounts are reference data: they are created
// through configuration, not by the transactional flow, and are only ever
// read by the posting path.
type Account struct {
	AccountID     string       `json:"accountID"` // Primary Key (UUID)
	Class         AccountClass `json:"class"`
	Code          string       `json:"code"` // Unique chart-of-accounts code
	Name          string       `json:"name"`
	OwnerEntityID *string      `json:"ownerEntityID"` // Nil for system-level accounts
	IsActive      bool         `json:"isActive"`
	AuditFields
}
