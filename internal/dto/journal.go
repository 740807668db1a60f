package dto

import (
	"time"

	"github.com/pharmatrack/ledger-core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one debit or credit within an entry request.
// Exactly one of Debit/Credit must be strictly positive.
type JournalLineRequest struct {
	AccountID string          `json:"accountID" binding:"required,uuid"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// CreateJournalEntryRequest is the payload for creating (or wholesale
// replacing) a draft entry.
type CreateJournalEntryRequest struct {
	Date        time.Time            `json:"date" binding:"required"`
	Reference   string               `json:"reference,omitempty"`
	Description string               `json:"description,omitempty"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,dive"`
}

// JournalLineResponse is the API representation of a stored line.
type JournalLineResponse struct {
	LineID    string          `json:"lineID"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// JournalEntryResponse is the API representation of an entry with lines.
type JournalEntryResponse struct {
	EntryID         string                `json:"entryID"`
	EntryDate       time.Time             `json:"entryDate"`
	Reference       string                `json:"reference,omitempty"`
	Description     string                `json:"description,omitempty"`
	Status          domain.JournalStatus  `json:"status"`
	PostedBy        *string               `json:"postedBy,omitempty"`
	PostedAt        *time.Time            `json:"postedAt,omitempty"`
	ReversesEntryID *string               `json:"reversesEntryID,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	CreatedBy       string                `json:"createdBy"`
	Lines           []JournalLineResponse `json:"lines,omitempty"`
}

// ToJournalEntryResponse converts a domain entry (with lines, when loaded).
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:         e.EntryID,
		EntryDate:       e.EntryDate,
		Reference:       e.Reference,
		Description:     e.Description,
		Status:          e.Status,
		PostedBy:        e.PostedBy,
		PostedAt:        e.PostedAt,
		ReversesEntryID: e.ReversesEntryID,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
	}
	for _, l := range e.Lines {
		resp.Lines = append(resp.Lines, JournalLineResponse{
			LineID:    l.LineID,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
		})
	}
	return resp
}
