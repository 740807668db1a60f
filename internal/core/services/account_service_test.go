package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/pharmatrack/ledger-core/internal/apperrors"
	"github.com/pharmatrack/ledger-core/internal/core/domain"
	"github.com/pharmatrack/ledger-core/internal/core/services"
	"github.com/pharmatrack/ledger-core/internal/dto"
	"github.com/pharmatrack/ledger-core/internal/repositories/memory"
)

type AccountServiceTestSuite struct {
	suite.Suite
	service *services.AccountService
	actorID string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	repos := memory.NewRepositoryProvider(memory.NewStore())
	suite.service = services.NewAccountService(repos.AccountRepo)
	suite.actorID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAndGetAccount() {
	created, err := suite.service.CreateAccount(context.Background(), dto.CreateAccountRequest{
		Class: domain.Asset,
		Code:  "1000",
		Name:  "Inventory",
	}, suite.actorID)
	suite.Require().NoError(err)
	suite.True(created.IsActive)
	suite.Equal(suite.actorID, created.CreatedBy)

	fetched, err := suite.service.GetAccountByID(context.Background(), created.AccountID)
	suite.Require().NoError(err)
	suite.Equal(created.AccountID, fetched.AccountID)
	suite.Equal(domain.Asset, fetched.Class)
}

func (suite *AccountServiceTestSuite) TestDuplicateCodeRejected() {
	req := dto.CreateAccountRequest{Class: domain.Revenue, Code: "4000", Name: "Sales"}
	_, err := suite.service.CreateAccount(context.Background(), req, suite.actorID)
	suite.Require().NoError(err)

	_, err = suite.service.CreateAccount(context.Background(), req, suite.actorID)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AccountServiceTestSuite) TestUnknownClassRejected() {
	_, err := suite.service.CreateAccount(context.Background(), dto.CreateAccountRequest{
		Class: domain.AccountClass("GOODWILL"),
		Code:  "9999",
		Name:  "Nope",
	}, suite.actorID)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestListAccountsPaged() {
	codes := []string{"1000", "2000", "3000", "4000", "5000"}
	for _, code := range codes {
		_, err := suite.service.CreateAccount(context.Background(), dto.CreateAccountRequest{
			Class: domain.Asset,
			Code:  code,
			Name:  "Account " + code,
		}, suite.actorID)
		suite.Require().NoError(err)
	}

	page, err := suite.service.ListAccounts(context.Background(), 2, 2)
	suite.Require().NoError(err)
	suite.Require().Len(page, 2)
	suite.Equal("3000", page[0].Code)
	suite.Equal("4000", page[1].Code)

	// Out-of-range limits fall back to the default page size.
	all, err := suite.service.ListAccounts(context.Background(), -1, 0)
	suite.Require().NoError(err)
	suite.Len(all, 5)
}

func (suite *AccountServiceTestSuite) TestGetMissingAccount() {
	_, err := suite.service.GetAccountByID(context.Background(), uuid.NewString())
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
