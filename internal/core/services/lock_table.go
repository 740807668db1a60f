package services

import (
	"sync"

	"github.com/pharmatrack/ledger-core/internal/core/domain"
)

// stockLockTable serializes check-then-append sequences per stock key. Lock
// entries live for the life of the process; the key space is bounded by the
// (entity, lot) pairs actually traded, so there is no eviction.
type stockLockTable struct {
	locks sync.Map // key string -> *sync.Mutex
}

func newStockLockTable() *stockLockTable {
	return &stockLockTable{}
}

// lock acquires the mutex for one key and returns its release function.
func (t *stockLockTable) lock(key domain.StockKey) func() {
	v, _ := t.locks.LoadOrStore(key.String(), &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// lockPair acquires two key mutexes in the canonical (kind, entity, lot)
// order, independent of which side is buyer or seller, so two overlapping
// dual movements in opposite roles cannot deadlock.
func (t *stockLockTable) lockPair(a, b domain.StockKey) func() {
	if a == b {
		return t.lock(a)
	}
	if b.Less(a) {
		a, b = b, a
	}
	unlockA := t.lock(a)
	unlockB := t.lock(b)
	return func() {
		unlockB()
		unlockA()
	}
}
