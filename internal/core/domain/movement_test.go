package domain_test

import (
	"testing"

	"github.com/pharmatrack/ledger-core/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestMovement_SignedQuantity(t *testing.T) {
	tests := []struct {
		name     string
		movement domain.Movement
		want     int64
	}{
		{
			name:     "import counts positive",
			movement: domain.Movement{Kind: domain.Import, Quantity: 10},
			want:     10,
		},
		{
			name:     "transfer in counts positive",
			movement: domain.Movement{Kind: domain.TransferIn, Quantity: 4},
			want:     4,
		},
		{
			name:     "sale counts negative",
			movement: domain.Movement{Kind: domain.Sale, Quantity: 3},
			want:     -3,
		},
		{
			name:     "recall removal counts negative",
			movement: domain.Movement{Kind: domain.RecallRemoval, Quantity: 7},
			want:     -7,
		},
		{
			name:     "positive adjustment passes through",
			movement: domain.Movement{Kind: domain.Adjustment, Quantity: 5},
			want:     5,
		},
		{
			name:     "negative adjustment passes through",
			movement: domain.Movement{Kind: domain.Adjustment, Quantity: -5},
			want:     -5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.movement.SignedQuantity())
		})
	}
}

func TestMovement_QuantityValid(t *testing.T) {
	tests := []struct {
		name     string
		movement domain.Movement
		want     bool
	}{
		{name: "positive sale", movement: domain.Movement{Kind: domain.Sale, Quantity: 1}, want: true},
		{name: "zero sale", movement: domain.Movement{Kind: domain.Sale, Quantity: 0}, want: false},
		{name: "negative import", movement: domain.Movement{Kind: domain.Import, Quantity: -2}, want: false},
		{name: "negative adjustment allowed", movement: domain.Movement{Kind: domain.Adjustment, Quantity: -2}, want: true},
		{name: "zero adjustment rejected", movement: domain.Movement{Kind: domain.Adjustment, Quantity: 0}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.movement.QuantityValid())
		})
	}
}

func TestStockKey_Less(t *testing.T) {
	a := domain.StockKey{EntityKind: domain.RetailPharmacy, EntityID: "p1", LotID: "l1"}
	b := domain.StockKey{EntityKind: domain.WholesalePharmacy, EntityID: "a0", LotID: "l1"}

	// Kind compares first, regardless of entity id ordering.
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))

	c := domain.StockKey{EntityKind: domain.RetailPharmacy, EntityID: "p2", LotID: "l1"}
	assert.True(t, a.Less(c))
	assert.False(t, a.Less(a))
}
