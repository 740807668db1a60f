package domain_test

import (
	"testing"

	"github.com/pharmatrack/ledger-core/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestJournalLine_SideValid(t *testing.T) {
	tests := []struct {
		name string
		line domain.JournalLine
		want bool
	}{
		{
			name: "debit only",
			line: domain.JournalLine{Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			want: true,
		},
		{
			name: "credit only",
			line: domain.JournalLine{Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
			want: true,
		},
		{
			name: "both sides set",
			line: domain.JournalLine{Debit: decimal.NewFromInt(100), Credit: decimal.NewFromInt(100)},
			want: false,
		},
		{
			name: "neither side set",
			line: domain.JournalLine{Debit: decimal.Zero, Credit: decimal.Zero},
			want: false,
		},
		{
			name: "negative debit",
			line: domain.JournalLine{Debit: decimal.NewFromInt(-1), Credit: decimal.Zero},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.line.SideValid())
		})
	}
}

func TestLinesBalanced(t *testing.T) {
	balanced := []domain.JournalLine{
		{Debit: decimal.NewFromInt(400), Credit: decimal.Zero},
		{Debit: decimal.Zero, Credit: decimal.NewFromInt(400)},
	}
	assert.True(t, domain.LinesBalanced(balanced))

	unbalanced := []domain.JournalLine{
		{Debit: decimal.NewFromInt(400), Credit: decimal.Zero},
		{Debit: decimal.Zero, Credit: decimal.NewFromInt(300)},
	}
	assert.False(t, domain.LinesBalanced(unbalanced))

	assert.False(t, domain.LinesBalanced(nil))
}
