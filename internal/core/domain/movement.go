package domain

import (
	"fmt"
	"time"
)

// EntityKind identifies the sort of stock-holding party a movement belongs to.
type EntityKind string

const (
	WholesalePharmacy EntityKind = "WHOLESALE_PHARMACY"
	RetailPharmacy    EntityKind = "RETAIL_PHARMACY"
	PublicFacility    EntityKind = "PUBLIC_FACILITY"
)

// Valid reports whether the entity kind is one of the closed set.
func (k EntityKind) Valid() bool {
	switch k {
	case WholesalePharmacy, RetailPharmacy, PublicFacility:
		return true
	}
	return false
}

// MovementKind classifies a stock movement.
type MovementKind string

const (
	Import        MovementKind = "IMPORT"
	TransferIn    MovementKind = "TRANSFER_IN"
	TransferOut   MovementKind = "TRANSFER_OUT"
	Sale          MovementKind = "SALE"
	Return        MovementKind = "RETURN"
	Adjustment    MovementKind = "ADJUSTMENT"
	RecallRemoval MovementKind = "RECALL_REMOVAL"
)

// Valid reports whether the movement kind is one of the closed set.
func (k MovementKind) Valid() bool {
	switch k {
	case Import, TransferIn, TransferOut, Sale, Return, Adjustment, RecallRemoval:
		return true
	}
	return false
}

// Inbound reports whether the kind always increases stock.
// ADJUSTMENT is neither: its sign travels with the quantity.
func (k MovementKind) Inbound() bool {
	switch k {
	case Import, TransferIn, Return:
		return true
	}
	return false
}

// Outbound reports whether the kind always decreases stock.
func (k MovementKind) Outbound() bool {
	switch k {
	case TransferOut, Sale, RecallRemoval:
		return true
	}
	return false
}

// StockKey identifies the (entity, lot) pair a balance is computed for.
type StockKey struct {
	EntityKind EntityKind `json:"entityKind"`
	EntityID   string     `json:"entityID"` // Opaque UUID; FK resolved by the caller
	LotID      string     `json:"lotID"`    // Opaque UUID into the lot registry
}

// String renders the key in its canonical "KIND:entity:lot" form. The same
// form is used for lock-table keys and advisory-lock derivation.
func (s StockKey) String() string {
	return fmt.Sprintf("%s:%s:%s", s.EntityKind, s.EntityID, s.LotID)
}

// Less imposes the total order (entity kind, entity id, lot id) used to
// acquire per-key locks in a canonical sequence regardless of which side of
// a transfer the entity is on.
func (s StockKey) Less(other StockKey) bool {
	if s.EntityKind != other.EntityKind {
		return s.EntityKind < other.EntityKind
	}
	if s.EntityID != other.EntityID {
		return s.EntityID < other.EntityID
	}
	return s.LotID < other.LotID
}

// Reference names the business event that caused a movement (an order, an
// inspection fine, a recall notice). The core never dereferences it.
type Reference struct {
	ReferenceID   string `json:"referenceID"`
	ReferenceKind string `json:"referenceKind"`
}

// Movement is a single immutable stock movement. Once appended it is never
// updated or deleted; corrections are expressed as further movements.
type Movement struct {
	MovementID string       `json:"movementID"` // Primary Key (UUID)
	EntityKind EntityKind   `json:"entityKind"`
	EntityID   string       `json:"entityID"`
	LotID      string       `json:"lotID"`
	Kind       MovementKind `json:"kind"`
	Quantity   int64        `json:"quantity"` // Positive; signed only for ADJUSTMENT
	Reference  Reference    `json:"reference"`
	ActorID    string       `json:"actorID"`
	CreatedAt  time.Time    `json:"createdAt"`
	// No LastUpdatedAt: the record is insert-only.
}

// Key returns the stock key the movement applies to.
func (m Movement) Key() StockKey {
	return StockKey{EntityKind: m.EntityKind, EntityID: m.EntityID, LotID: m.LotID}
}

// SignedQuantity is the movement's contribution to the balance: positive for
// inbound kinds, negative for outbound kinds, and the stored (already signed)
// quantity for adjustments.
func (m Movement) SignedQuantity() int64 {
	switch {
	case m.Kind.Inbound():
		return m.Quantity
	case m.Kind.Outbound():
		return -m.Quantity
	default: // Adjustment
		return m.Quantity
	}
}

// QuantityValid reports whether the quantity respects the sign rules for the
// movement's kind: strictly positive everywhere except ADJUSTMENT, which must
// merely be non-zero.
func (m Movement) QuantityValid() bool {
	if m.Kind == Adjustment {
		return m.Quantity != 0
	}
	return m.Quantity > 0
}
