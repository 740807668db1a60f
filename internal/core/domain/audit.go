package domain

import "time"

// Audit actions recorded by the ledger core.
const (
	AuditActionCreate  = "CREATE"
	AuditActionPost    = "POST"
	AuditActionReverse = "REVERSE"
	AuditActionReplace = "REPLACE"
)

// AuditRecord captures the before/after state of every accepted write. The
// sink is part of the same unit of work as the write itself: if the record
// cannot be stored, the operation fails.
type AuditRecord struct {
	AuditID    string         `json:"auditID"` // Primary Key (UUID)
	ActorID    string         `json:"actorID"`
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"` // "Movement", "JournalEntry", ...
	EntityID   string         `json:"entityID"`
	OldValues  map[string]any `json:"oldValues,omitempty"`
	NewValues  map[string]any `json:"newValues,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}
