package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmatrack/ledger-core/internal/core/domain"
)

// movementAuditRecord captures the after-state of an accepted movement.
// Movements have no before-state: they did not exist.
func movementAuditRecord(m domain.Movement) domain.AuditRecord {
	return domain.AuditRecord{
		AuditID:    uuid.NewString(),
		ActorID:    m.ActorID,
		Action:     domain.AuditActionCreate,
		EntityType: "Movement",
		EntityID:   m.MovementID,
		NewValues: map[string]any{
			"entityKind": string(m.EntityKind),
			"entityID":   m.EntityID,
			"lotID":      m.LotID,
			"kind":       string(m.Kind),
			"quantity":   m.Quantity,
		},
		CreatedAt: m.CreatedAt,
	}
}

// entryAuditRecord captures a journal entry state change.
func entryAuditRecord(action, actorID string, entry domain.JournalEntry, oldValues map[string]any, at time.Time) domain.AuditRecord {
	return domain.AuditRecord{
		AuditID:    uuid.NewString(),
		ActorID:    actorID,
		Action:     action,
		EntityType: "JournalEntry",
		EntityID:   entry.EntryID,
		OldValues:  oldValues,
		NewValues: map[string]any{
			"status":      string(entry.Status),
			"entryDate":   entry.EntryDate,
			"reference":   entry.Reference,
			"description": entry.Description,
		},
		CreatedAt: at,
	}
}
