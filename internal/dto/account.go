package dto

import (
	"time"

	"github.com/pharmatrack/ledger-core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest is the payload for registering a chart account.
type CreateAccountRequest struct {
	Class         domain.AccountClass `json:"class" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Code          string              `json:"code" binding:"required"`
	Name          string              `json:"name" binding:"required"`
	OwnerEntityID *string             `json:"ownerEntityID,omitempty" binding:"omitempty,uuid"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	AccountID     string              `json:"accountID"`
	Class         domain.AccountClass `json:"class"`
	Code          string              `json:"code"`
	Name          string              `json:"name"`
	OwnerEntityID *string             `json:"ownerEntityID,omitempty"`
	IsActive      bool                `json:"isActive"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// ToAccountResponse converts a domain account to its API form.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		Class:         a.Class,
		Code:          a.Code,
		Name:          a.Name,
		OwnerEntityID: a.OwnerEntityID,
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
	}
}

// AccountBalanceResponse reports an account balance derived from posted
// entries only.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
}
