// Package memory provides an in-memory storage backend. It backs the service
// test suites and small single-process deployments; the pgsql package is the
// durable implementation of the same ports.
package memory

import (
	"sync"

	"github.com/pharmatrack/ledger-core/internal/core/domain"
	portsrepo "github.com/pharmatrack/ledger-core/internal/core/ports/repositories"
)

// Store holds all committed state behind one RWMutex. Direct repository
// access takes the read or write lock per call; a unit of work holds the
// write lock for its whole callback, which trivially serializes transactions.
type Store struct {
	mu sync.RWMutex

	movements []domain.Movement
	entries   map[string]domain.JournalEntry
	lines     map[string][]domain.JournalLine
	accounts  map[string]domain.Account
	codes     map[string]string // account code -> account id
	audits    []domain.AuditRecord
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		entries:  make(map[string]domain.JournalEntry),
		lines:    make(map[string][]domain.JournalLine),
		accounts: make(map[string]domain.Account),
		codes:    make(map[string]string),
	}
}

// NewRepositoryProvider wires every repository port to one shared store.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		MovementRepo: &MovementRepository{store: s},
		JournalRepo:  &JournalRepository{store: s},
		AccountRepo:  &AccountRepository{store: s},
		AuditRepo:    &AuditRepository{store: s},
		UOW:          &UnitOfWork{store: s},
	}
}

// movementsForKey filters committed movements for a key, preserving append
// order. Callers hold at least the read lock.
func (s *Store) movementsForKey(key domain.StockKey) []domain.Movement {
	var out []domain.Movement
	for _, m := range s.movements {
		if m.Key() == key {
			out = append(out, m)
		}
	}
	return out
}

// AuditRecords returns a copy of all committed audit records, for tests that
// assert on the audit trail.
func (s *Store) AuditRecords() []domain.AuditRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AuditRecord, len(s.audits))
	copy(out, s.audits)
	return out
}
