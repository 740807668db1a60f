package dto

import (
	"time"

	"github.com/pharmatrack/ledger-core/internal/core/domain"
)

// RecordMovementRequest is the payload for appending a single movement.
// Quantity is strictly positive for every kind except ADJUSTMENT, whose sign
// is supplied by the caller (positive restocks, negative removes).
type RecordMovementRequest struct {
	EntityKind    domain.EntityKind   `json:"entityKind" binding:"required,entitykind"`
	EntityID      string              `json:"entityID" binding:"required,uuid"`
	LotID         string              `json:"lotID" binding:"required,uuid"`
	Kind          domain.MovementKind `json:"kind" binding:"required,movementkind"`
	Quantity      int64               `json:"quantity" binding:"required"`
	ReferenceID   string              `json:"referenceID,omitempty" binding:"omitempty,uuid"`
	ReferenceKind string              `json:"referenceKind,omitempty"`
}

// Reference assembles the request's reference pair.
func (r RecordMovementRequest) Reference() domain.Reference {
	return domain.Reference{ReferenceID: r.ReferenceID, ReferenceKind: r.ReferenceKind}
}

// DualMovementRequest is the payload for an atomic seller-out/buyer-in pair.
type DualMovementRequest struct {
	SellerKind    domain.EntityKind `json:"sellerKind" binding:"required,entitykind"`
	SellerID      string            `json:"sellerID" binding:"required,uuid"`
	BuyerKind     domain.EntityKind `json:"buyerKind" binding:"required,entitykind"`
	BuyerID       string            `json:"buyerID" binding:"required,uuid"`
	LotID         string            `json:"lotID" binding:"required,uuid"`
	Quantity      int64             `json:"quantity" binding:"required,gt=0"`
	ReferenceID   string            `json:"referenceID,omitempty" binding:"omitempty,uuid"`
	ReferenceKind string            `json:"referenceKind,omitempty"`
}

// Reference assembles the request's reference pair.
func (r DualMovementRequest) Reference() domain.Reference {
	return domain.Reference{ReferenceID: r.ReferenceID, ReferenceKind: r.ReferenceKind}
}

// SellerKey returns the seller side stock key.
func (r DualMovementRequest) SellerKey() domain.StockKey {
	return domain.StockKey{EntityKind: r.SellerKind, EntityID: r.SellerID, LotID: r.LotID}
}

// BuyerKey returns the buyer side stock key.
func (r DualMovementRequest) BuyerKey() domain.StockKey {
	return domain.StockKey{EntityKind: r.BuyerKind, EntityID: r.BuyerID, LotID: r.LotID}
}

// SingleSaleRequest is the payload for the retail sale fast path.
type SingleSaleRequest struct {
	EntityKind    domain.EntityKind `json:"entityKind" binding:"required,entitykind"`
	EntityID      string            `json:"entityID" binding:"required,uuid"`
	LotID         string            `json:"lotID" binding:"required,uuid"`
	Quantity      int64             `json:"quantity" binding:"required,gt=0"`
	ReferenceID   string            `json:"referenceID,omitempty" binding:"omitempty,uuid"`
	ReferenceKind string            `json:"referenceKind,omitempty"`
}

// MovementResponse is the API representation of a stored movement.
type MovementResponse struct {
	MovementID    string              `json:"movementID"`
	EntityKind    domain.EntityKind   `json:"entityKind"`
	EntityID      string              `json:"entityID"`
	LotID         string              `json:"lotID"`
	Kind          domain.MovementKind `json:"kind"`
	Quantity      int64               `json:"quantity"`
	ReferenceID   string              `json:"referenceID,omitempty"`
	ReferenceKind string              `json:"referenceKind,omitempty"`
	ActorID       string              `json:"actorID"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// ToMovementResponse converts a domain movement to its API form.
func ToMovementResponse(m *domain.Movement) MovementResponse {
	return MovementResponse{
		MovementID:    m.MovementID,
		EntityKind:    m.EntityKind,
		EntityID:      m.EntityID,
		LotID:         m.LotID,
		Kind:          m.Kind,
		Quantity:      m.Quantity,
		ReferenceID:   m.Reference.ReferenceID,
		ReferenceKind: m.Reference.ReferenceKind,
		ActorID:       m.ActorID,
		CreatedAt:     m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of domain movements.
func ToMovementResponses(movements []domain.Movement) []MovementResponse {
	out := make([]MovementResponse, len(movements))
	for i := range movements {
		out[i] = ToMovementResponse(&movements[i])
	}
	return out
}

// BalanceResponse reports the derived balance for an (entity, lot) pair.
type BalanceResponse struct {
	EntityKind domain.EntityKind `json:"entityKind"`
	EntityID   string            `json:"entityID"`
	LotID      string            `json:"lotID"`
	Balance    int64             `json:"balance"`
}
