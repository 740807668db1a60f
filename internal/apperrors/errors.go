package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks:
// non-positive quantity, unknown enum value, malformed journal line.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrLotUnusable indicates the lot registry refused the lot for stock
// movements (blocked, expired, or recalled — the registry's concern).
var ErrLotUnusable = errors.New("lot is not usable for stock movements")

// ErrInsufficientStock indicates an outbound movement would drive the
// (entity, lot) balance negative.
var ErrInsufficientStock = errors.New("insufficient stock for this operation")

// ErrUnbalancedEntry indicates a journal entry whose debit and credit sums differ.
var ErrUnbalancedEntry = errors.New("journal entry debits and credits do not balance")

// ErrImmutableRecord indicates an attempted mutation of a stored movement or
// a POSTED journal entry.
var ErrImmutableRecord = errors.New("record is immutable")

// ErrConcurrencyConflict indicates a storage-level serialization failure on a
// critical section; the operation may be retried from scratch.
var ErrConcurrencyConflict = errors.New("concurrent modification conflict")

// ErrForbidden indicates the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
