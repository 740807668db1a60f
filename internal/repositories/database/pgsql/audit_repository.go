package pgsql

import (
	"context"
	"fmt"

	"github.com/pharmatrack/ledger-core/internal/core/domain"
	portsrepo "github.com/pharmatrack/ledger-core/internal/core/ports/repositories"
)

// PgxAuditRepository stores audit records. It runs inside the same unit of
// work as the write it describes, so an insert failure here fails the whole
// operation.
type PgxAuditRepository struct {
	db DBTX
}

// newPgxAuditRepository creates a new repository for audit data.
func newPgxAuditRepository(db DBTX) *PgxAuditRepository {
	return &PgxAuditRepository{db: db}
}

var _ portsrepo.AuditLogRepository = (*PgxAuditRepository)(nil)

// RecordAudit inserts an audit row. Old and new values land in jsonb columns.
func (r *PgxAuditRepository) RecordAudit(ctx context.Context, record domain.AuditRecord) error {
	query := `
		INSERT INTO audit_logs (audit_id, actor_id, action, entity_type, entity_id, old_values, new_values, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.db.Exec(ctx, query,
		record.AuditID,
		record.ActorID,
		record.Action,
		record.EntityType,
		record.EntityID,
		record.OldValues,
		record.NewValues,
		record.CreatedAt,
	)
	if err != nil {
		return mapPgError(fmt.Errorf("failed to insert audit record %s: %w", record.AuditID, err))
	}
	return nil
}
