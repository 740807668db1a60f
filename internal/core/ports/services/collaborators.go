package services

import "context"

// LotRegistry is the inbound collaborator that decides whether a lot may
// back stock movements. The core never interprets why a lot is unusable —
// blocked medicine, blocked lot, expiry — that is the registry's concern.
// The check is always resolved outside the critical section.
type LotRegistry interface {
	IsLotUsable(ctx context.Context, lotID string) (bool, error)
}

// ChartAccounts names the four accounts a stock-holding entity posts
// against. Resolution is the chart-of-accounts collaborator's job.
type ChartAccounts struct {
	Receivable string
	Payable    string
	Inventory  string
	Revenue    string
}

// AccountResolver maps an entity to its chart accounts. Used only by the
// ledger coordinator, and always resolved before any lock is taken.
type AccountResolver interface {
	AccountsFor(ctx context.Context, entityID string) (ChartAccounts, error)
}
