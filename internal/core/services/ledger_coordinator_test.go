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
	portssvc "github.com/pharmatrack/ledger-core/internal/core/ports/services"
	"github.com/pharmatrack/ledger-core/internal/core/services"
	"github.com/pharmatrack/ledger-core/internal/dto"
	"github.com/pharmatrack/ledger-core/internal/repositories/memory"
)

type LedgerCoordinatorTestSuite struct {
	suite.Suite
	store       *memory.Store
	lots        *memory.LotRegistry
	resolver    *memory.AccountResolver
	stock       *services.StockService
	journal     *services.JournalService
	coordinator *services.LedgerCoordinator

	actorID  string
	sellerID string
	buyerID  string
	lotID    string

	sellerAccounts portssvc.ChartAccounts
	buyerAccounts  portssvc.ChartAccounts
}

func (suite *LedgerCoordinatorTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	suite.lots = memory.NewLotRegistry()
	suite.resolver = memory.NewAccountResolver()
	repos := memory.NewRepositoryProvider(suite.store)

	suite.stock = services.NewStockService(repos.UOW, repos.MovementRepo, suite.lots)
	suite.journal = services.NewJournalService(repos.UOW, repos.JournalRepo, repos.AccountRepo)
	suite.coordinator = services.NewLedgerCoordinator(repos.UOW, suite.stock, suite.journal, suite.resolver)

	suite.actorID = uuid.NewString()
	suite.sellerID = uuid.NewString()
	suite.buyerID = uuid.NewString()
	suite.lotID = uuid.NewString()
	suite.lots.SetLotUsable(suite.lotID, true)

	suite.sellerAccounts = suite.registerEntity(suite.sellerID, "10")
	suite.buyerAccounts = suite.registerEntity(suite.buyerID, "20")
}

// registerEntity creates the four chart accounts for an entity and maps them
// in the resolver.
func (suite *LedgerCoordinatorTestSuite) registerEntity(entityID, codePrefix string) portssvc.ChartAccounts {
	repos := memory.NewRepositoryProvider(suite.store)
	now := time.Now().UTC()
	create := func(class domain.AccountClass, code string) string {
		account := domain.Account{
			AccountID:     uuid.NewString(),
			Class:         class,
			Code:          code,
			Name:          string(class) + " " + code,
			OwnerEntityID: &entityID,
			IsActive:      true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     suite.actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: suite.actorID,
			},
		}
		suite.Require().NoError(repos.AccountRepo.SaveAccount(context.Background(), account))
		return account.AccountID
	}
	accounts := portssvc.ChartAccounts{
		Receivable: create(domain.Asset, codePrefix+"10"),
		Payable:    create(domain.Liability, codePrefix+"20"),
		Inventory:  create(domain.Asset, codePrefix+"30"),
		Revenue:    create(domain.Revenue, codePrefix+"40"),
	}
	suite.resolver.Register(entityID, accounts)
	return accounts
}

func (suite *LedgerCoordinatorTestSuite) seedSellerStock(quantity int64) {
	_, err := suite.stock.RecordMovement(context.Background(), dto.RecordMovementRequest{
		EntityKind: domain.WholesalePharmacy,
		EntityID:   suite.sellerID,
		LotID:      suite.lotID,
		Kind:       domain.Import,
		Quantity:   quantity,
	}, suite.actorID)
	suite.Require().NoError(err)
}

func (suite *LedgerCoordinatorTestSuite) transferRequest(quantity int64, unitValue decimal.Decimal) dto.ExecuteTransferRequest {
	return dto.ExecuteTransferRequest{
		SellerKind: domain.WholesalePharmacy,
		SellerID:   suite.sellerID,
		BuyerKind:  domain.RetailPharmacy,
		BuyerID:    suite.buyerID,
		LotID:      suite.lotID,
		Quantity:   quantity,
		UnitValue:  unitValue,
	}
}

func (suite *LedgerCoordinatorTestSuite) sellerBalance() int64 {
	balance, err := suite.stock.GetBalance(context.Background(), domain.StockKey{
		EntityKind: domain.WholesalePharmacy, EntityID: suite.sellerID, LotID: suite.lotID,
	})
	suite.Require().NoError(err)
	return balance
}

func (suite *LedgerCoordinatorTestSuite) buyerBalance() int64 {
	balance, err := suite.stock.GetBalance(context.Background(), domain.StockKey{
		EntityKind: domain.RetailPharmacy, EntityID: suite.buyerID, LotID: suite.lotID,
	})
	suite.Require().NoError(err)
	return balance
}

func (suite *LedgerCoordinatorTestSuite) TestExecuteTransfer() {
	suite.seedSellerStock(100)

	result, err := suite.coordinator.ExecuteTransfer(context.Background(), suite.transferRequest(40, decimal.NewFromInt(10)), suite.actorID)
	suite.Require().NoError(err)
	suite.NotEmpty(result.OutMovementID)
	suite.NotEmpty(result.InMovementID)
	suite.NotEmpty(result.EntryID)

	suite.Equal(int64(60), suite.sellerBalance())
	suite.Equal(int64(40), suite.buyerBalance())

	entry, err := suite.journal.GetEntry(context.Background(), result.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Posted, entry.Status)
	suite.Require().Len(entry.Lines, 2)

	debits, credits := domain.SumLines(entry.Lines)
	suite.True(debits.Equal(decimal.NewFromInt(400)))
	suite.True(credits.Equal(decimal.NewFromInt(400)))

	// Debit the buyer's inventory, credit the seller's revenue.
	inventoryBalance, err := suite.journal.GetAccountBalance(context.Background(), suite.buyerAccounts.Inventory)
	suite.Require().NoError(err)
	suite.True(inventoryBalance.Equal(decimal.NewFromInt(400)))

	revenueBalance, err := suite.journal.GetAccountBalance(context.Background(), suite.sellerAccounts.Revenue)
	suite.Require().NoError(err)
	suite.True(revenueBalance.Equal(decimal.NewFromInt(400)))
}

func (suite *LedgerCoordinatorTestSuite) TestTransferInsufficientSellerStock() {
	suite.seedSellerStock(100)

	_, err := suite.coordinator.ExecuteTransfer(context.Background(), suite.transferRequest(200, decimal.NewFromInt(10)), suite.actorID)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)

	suite.Equal(int64(100), suite.sellerBalance())
	suite.Equal(int64(0), suite.buyerBalance())

	// No financial side either.
	balance, err := suite.journal.GetAccountBalance(context.Background(), suite.sellerAccounts.Revenue)
	suite.Require().NoError(err)
	suite.True(balance.IsZero())
}

func (suite *LedgerCoordinatorTestSuite) TestResolverFailureLeavesNoMovement() {
	suite.seedSellerStock(100)
	unknownBuyer := uuid.NewString()

	req := suite.transferRequest(10, decimal.NewFromInt(5))
	req.BuyerID = unknownBuyer

	before := len(suite.store.AuditRecords())
	_, err := suite.coordinator.ExecuteTransfer(context.Background(), req, suite.actorID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.Equal(int64(100), suite.sellerBalance())
	suite.Len(suite.store.AuditRecords(), before)
}

func (suite *LedgerCoordinatorTestSuite) TestTransferUnusableLot() {
	suite.seedSellerStock(100)
	suite.lots.SetLotUsable(suite.lotID, false)

	_, err := suite.coordinator.ExecuteTransfer(context.Background(), suite.transferRequest(10, decimal.NewFromInt(5)), suite.actorID)
	suite.ErrorIs(err, apperrors.ErrLotUnusable)
	suite.Equal(int64(100), suite.sellerBalance())
}

func (suite *LedgerCoordinatorTestSuite) TestTransferValidation() {
	suite.seedSellerStock(100)

	req := suite.transferRequest(0, decimal.NewFromInt(5))
	_, err := suite.coordinator.ExecuteTransfer(context.Background(), req, suite.actorID)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestLedgerCoordinatorTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerCoordinatorTestSuite))
}
