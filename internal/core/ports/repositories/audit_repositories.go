package repositories

import (
	"context"

	"github.com/pharmatrack/ledger-core/internal/core/domain"
)

// AuditLogRepository is the audit sink. Every accepted movement append, entry
// creation and posting/reversal records through it inside the same unit of
// work as the write itself: when the sink fails, the operation fails.
type AuditLogRepository interface {
	RecordAudit(ctx context.Context, record domain.AuditRecord) error
}
