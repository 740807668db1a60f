package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/pharmatrack/ledger-core/internal/apperrors"
	"github.com/pharmatrack/ledger-core/internal/core/domain"
	"github.com/pharmatrack/ledger-core/internal/core/services"
	"github.com/pharmatrack/ledger-core/internal/dto"
	"github.com/pharmatrack/ledger-core/internal/repositories/memory"
)

type JournalServiceTestSuite struct {
	suite.Suite
	store   *memory.Store
	service *services.JournalService

	actorID         string
	assetAccount    domain.Account
	revenueAccount  domain.Account
	expenseAccount  domain.Account
	inactiveAccount domain.Account
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	repos := memory.NewRepositoryProvider(suite.store)
	suite.service = services.NewJournalService(repos.UOW, repos.JournalRepo, repos.AccountRepo)

	suite.actorID = uuid.NewString()
	suite.assetAccount = suite.newAccount(domain.Asset, "1000", true)
	suite.revenueAccount = suite.newAccount(domain.Revenue, "4000", true)
	suite.expenseAccount = suite.newAccount(domain.Expense, "5000", true)
	suite.inactiveAccount = suite.newAccount(domain.Liability, "2000", false)

	for _, a := range []domain.Account{suite.assetAccount, suite.revenueAccount, suite.expenseAccount, suite.inactiveAccount} {
		err := memory.NewRepositoryProvider(suite.store).AccountRepo.SaveAccount(context.Background(), a)
		suite.Require().NoError(err)
	}
}

func (suite *JournalServiceTestSuite) newAccount(class domain.AccountClass, code string, active bool) domain.Account {
	now := time.Now().UTC()
	return domain.Account{
		AccountID: uuid.NewString(),
		Class:     class,
		Code:      code,
		Name:      string(class) + " " + code,
		IsActive:  active,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     suite.actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: suite.actorID,
		},
	}
}

func (suite *JournalServiceTestSuite) balancedRequest(amount int64) dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		Date: time.Now().UTC(),
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.assetAccount.AccountID, Debit: decimal.NewFromInt(amount)},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(amount)},
		},
	}
}

func (suite *JournalServiceTestSuite) TestCreateEntryDraft() {
	entry, err := suite.service.CreateEntry(context.Background(), suite.balancedRequest(100), suite.actorID)
	suite.Require().NoError(err)
	suite.Equal(domain.Draft, entry.Status)
	suite.Nil(entry.PostedBy)
	suite.Len(entry.Lines, 2)

	stored, err := suite.service.GetEntry(context.Background(), entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Draft, stored.Status)
	suite.Len(stored.Lines, 2)
}

func (suite *JournalServiceTestSuite) TestCreateEntryUnbalanced() {
	req := dto.CreateJournalEntryRequest{
		Date: time.Now().UTC(),
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.assetAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(99)},
		},
	}
	_, err := suite.service.CreateEntry(context.Background(), req, suite.actorID)
	suite.ErrorIs(err, apperrors.ErrUnbalancedEntry)
}

func (suite *JournalServiceTestSuite) TestCreateEntryBadLineShape() {
	// Both sides positive on one line.
	req := dto.CreateJournalEntryRequest{
		Date: time.Now().UTC(),
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.assetAccount.AccountID, Debit: decimal.NewFromInt(50), Credit: decimal.NewFromInt(50)},
			{AccountID: suite.revenueAccount.AccountID},
		},
	}
	_, err := suite.service.CreateEntry(context.Background(), req, suite.actorID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	// No lines at all.
	_, err = suite.service.CreateEntry(context.Background(), dto.CreateJournalEntryRequest{Date: time.Now().UTC()}, suite.actorID)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreateEntryUnknownAccount() {
	req := dto.CreateJournalEntryRequest{
		Date: time.Now().UTC(),
		Lines: []dto.JournalLineRequest{
			{AccountID: uuid.NewString(), Debit: decimal.NewFromInt(10)},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(10)},
		},
	}
	_, err := suite.service.CreateEntry(context.Background(), req, suite.actorID)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreateEntryInactiveAccount() {
	req := dto.CreateJournalEntryRequest{
		Date: time.Now().UTC(),
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.assetAccount.AccountID, Debit: decimal.NewFromInt(10)},
			{AccountID: suite.inactiveAccount.AccountID, Credit: decimal.NewFromInt(10)},
		},
	}
	_, err := suite.service.CreateEntry(context.Background(), req, suite.actorID)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestFailedCreateWritesNothing() {
	_, err := suite.service.CreateEntry(context.Background(), dto.CreateJournalEntryRequest{Date: time.Now().UTC()}, suite.actorID)
	suite.Require().Error(err)
	suite.Empty(suite.store.AuditRecords())
}

func (suite *JournalServiceTestSuite) TestPostEntry() {
	entry, err := suite.service.CreateEntry(context.Background(), suite.balancedRequest(100), suite.actorID)
	suite.Require().NoError(err)

	posterID := uuid.NewString()
	posted, err := suite.service.Post(context.Background(), entry.EntryID, posterID)
	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.Require().NotNil(posted.PostedBy)
	suite.Equal(posterID, *posted.PostedBy)
	suite.NotNil(posted.PostedAt)
}

func (suite *JournalServiceTestSuite) TestDoublePostRejected() {
	entry, err := suite.service.CreateEntry(context.Background(), suite.balancedRequest(100), suite.actorID)
	suite.Require().NoError(err)

	_, err = suite.service.Post(context.Background(), entry.EntryID, suite.actorID)
	suite.Require().NoError(err)

	_, err = suite.service.Post(context.Background(), entry.EntryID, suite.actorID)
	suite.ErrorIs(err, apperrors.ErrImmutableRecord)
}

func (suite *JournalServiceTestSuite) TestUpdateDraftEntry() {
	entry, err := suite.service.CreateEntry(context.Background(), suite.balancedRequest(100), suite.actorID)
	suite.Require().NoError(err)

	replacement := dto.CreateJournalEntryRequest{
		Date:        time.Now().UTC(),
		Description: "corrected amount",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.expenseAccount.AccountID, Debit: decimal.NewFromInt(250)},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(250)},
		},
	}
	updated, err := suite.service.UpdateDraftEntry(context.Background(), entry.EntryID, replacement, suite.actorID)
	suite.Require().NoError(err)
	suite.Equal(entry.EntryID, updated.EntryID)
	suite.Equal("corrected amount", updated.Description)

	stored, err := suite.service.GetEntry(context.Background(), entry.EntryID)
	suite.Require().NoError(err)
	suite.Require().Len(stored.Lines, 2)
	suite.True(stored.Lines[0].Debit.Equal(decimal.NewFromInt(250)))
	suite.Equal(suite.expenseAccount.AccountID, stored.Lines[0].AccountID)
}

func (suite *JournalServiceTestSuite) TestUpdatePostedEntryRejected() {
	entry, err := suite.service.CreateEntry(context.Background(), suite.balancedRequest(100), suite.actorID)
	suite.Require().NoError(err)
	_, err = suite.service.Post(context.Background(), entry.EntryID, suite.actorID)
	suite.Require().NoError(err)

	_, err = suite.service.UpdateDraftEntry(context.Background(), entry.EntryID, suite.balancedRequest(200), suite.actorID)
	suite.ErrorIs(err, apperrors.ErrImmutableRecord)
}

func (suite *JournalServiceTestSuite) TestReverseEntry() {
	entry, err := suite.service.CreateEntry(context.Background(), suite.balancedRequest(100), suite.actorID)
	suite.Require().NoError(err)
	_, err = suite.service.Post(context.Background(), entry.EntryID, suite.actorID)
	suite.Require().NoError(err)

	reversal, err := suite.service.Reverse(context.Background(), entry.EntryID, suite.actorID)
	suite.Require().NoError(err)
	suite.Equal(domain.Posted, reversal.Status)
	suite.Require().NotNil(reversal.ReversesEntryID)
	suite.Equal(entry.EntryID, *reversal.ReversesEntryID)
	suite.Require().Len(reversal.Lines, 2)

	// Lines keep their accounts but swap sides.
	suite.Equal(suite.assetAccount.AccountID, reversal.Lines[0].AccountID)
	suite.True(reversal.Lines[0].Credit.Equal(decimal.NewFromInt(100)))
	suite.True(reversal.Lines[0].Debit.IsZero())

	// Original and reversal net to zero on every account.
	assetBalance, err := suite.service.GetAccountBalance(context.Background(), suite.assetAccount.AccountID)
	suite.Require().NoError(err)
	suite.True(assetBalance.IsZero())

	revenueBalance, err := suite.service.GetAccountBalance(context.Background(), suite.revenueAccount.AccountID)
	suite.Require().NoError(err)
	suite.True(revenueBalance.IsZero())

	// The original stays untouched.
	original, err := suite.service.GetEntry(context.Background(), entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Posted, original.Status)
	suite.Nil(original.ReversesEntryID)
}

func (suite *JournalServiceTestSuite) TestReverseDraftRejected() {
	entry, err := suite.service.CreateEntry(context.Background(), suite.balancedRequest(100), suite.actorID)
	suite.Require().NoError(err)

	_, err = suite.service.Reverse(context.Background(), entry.EntryID, suite.actorID)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestAccountBalanceSignedByClass() {
	entry, err := suite.service.CreateEntry(context.Background(), suite.balancedRequest(100), suite.actorID)
	suite.Require().NoError(err)

	// Draft lines never count.
	balance, err := suite.service.GetAccountBalance(context.Background(), suite.assetAccount.AccountID)
	suite.Require().NoError(err)
	suite.True(balance.IsZero())

	_, err = suite.service.Post(context.Background(), entry.EntryID, suite.actorID)
	suite.Require().NoError(err)

	// Debit increases an asset account.
	balance, err = suite.service.GetAccountBalance(context.Background(), suite.assetAccount.AccountID)
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(100)))

	// Credit increases a revenue account.
	balance, err = suite.service.GetAccountBalance(context.Background(), suite.revenueAccount.AccountID)
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(100)))
}

func (suite *JournalServiceTestSuite) TestGetEntryNotFound() {
	_, err := suite.service.GetEntry(context.Background(), uuid.NewString())
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
