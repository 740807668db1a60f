package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pharmatrack/ledger-core/internal/apperrors"
	"github.com/pharmatrack/ledger-core/internal/core/domain"
	portsrepo "github.com/pharmatrack/ledger-core/internal/core/ports/repositories"
	portssvc "github.com/pharmatrack/ledger-core/internal/core/ports/services"
	"github.com/pharmatrack/ledger-core/internal/dto"
	"github.com/pharmatrack/ledger-core/internal/middleware"
)

// AccountService manages the chart of accounts. Accounts are reference data
// written through configuration flows, so writes go straight to the
// repository rather than through a unit of work.
type AccountService struct {
	accounts portsrepo.AccountRepositoryFacade
}

// NewAccountService creates the chart-of-accounts service.
func NewAccountService(accounts portsrepo.AccountRepositoryFacade) *AccountService {
	return &AccountService{accounts: accounts}
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

// GetAccountByID retrieves a specific account by its unique identifier.
func (s *AccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accounts.FindAccountByID(ctx, accountID)
}

// ListAccounts retrieves a paginated list of accounts.
func (s *AccountService) ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.accounts.ListAccounts(ctx, limit, offset)
}

// CreateAccount registers a new active account.
func (s *AccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Class.Valid() {
		return nil, fmt.Errorf("%w: unknown account class %q", apperrors.ErrValidation, req.Class)
	}
	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		Class:         req.Class,
		Code:          req.Code,
		Name:          req.Name,
		OwnerEntityID: req.OwnerEntityID,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.accounts.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	logger.Info("Account created",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code),
		slog.String("class", string(account.Class)),
	)
	return &account, nil
}
