package dto

import (
	"github.com/pharmatrack/ledger-core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExecuteTransferRequest is the payload for an atomic wholesale delivery:
// dual stock movement plus the posting of its financial side.
type ExecuteTransferRequest struct {
	SellerKind    domain.EntityKind `json:"sellerKind" binding:"required,entitykind"`
	SellerID      string            `json:"sellerID" binding:"required,uuid"`
	BuyerKind     domain.EntityKind `json:"buyerKind" binding:"required,entitykind"`
	BuyerID       string            `json:"buyerID" binding:"required,uuid"`
	LotID         string            `json:"lotID" binding:"required,uuid"`
	Quantity      int64             `json:"quantity" binding:"required,gt=0"`
	UnitValue     decimal.Decimal   `json:"unitValue" binding:"required"`
	ReferenceID   string            `json:"referenceID,omitempty" binding:"omitempty,uuid"`
	ReferenceKind string            `json:"referenceKind,omitempty"`
}

// DualMovement projects the stock half of the transfer request.
func (r ExecuteTransferRequest) DualMovement() DualMovementRequest {
	return DualMovementRequest{
		SellerKind:    r.SellerKind,
		SellerID:      r.SellerID,
		BuyerKind:     r.BuyerKind,
		BuyerID:       r.BuyerID,
		LotID:         r.LotID,
		Quantity:      r.Quantity,
		ReferenceID:   r.ReferenceID,
		ReferenceKind: r.ReferenceKind,
	}
}

// TransferResult reports the ids the transfer produced.
type TransferResult struct {
	OutMovementID string `json:"outMovementID"`
	InMovementID  string `json:"inMovementID"`
	EntryID       string `json:"entryID"`
}
