package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pharmatrack/ledger-core/internal/apperrors"
	"github.com/pharmatrack/ledger-core/internal/core/domain"
	"github.com/pharmatrack/ledger-core/internal/core/services"
	"github.com/pharmatrack/ledger-core/internal/dto"
	"github.com/pharmatrack/ledger-core/internal/repositories/memory"
)

// --- Mock LotRegistry ---
type MockLotRegistry struct {
	mock.Mock
}

func (m *MockLotRegistry) IsLotUsable(ctx context.Context, lotID string) (bool, error) {
	args := m.Called(ctx, lotID)
	return args.Bool(0), args.Error(1)
}

type StockServiceTestSuite struct {
	suite.Suite
	store   *memory.Store
	lots    *memory.LotRegistry
	service *services.StockService

	entityID string
	lotID    string
	actorID  string
	key      domain.StockKey
}

func (suite *StockServiceTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	suite.lots = memory.NewLotRegistry()
	repos := memory.NewRepositoryProvider(suite.store)
	suite.service = services.NewStockService(repos.UOW, repos.MovementRepo, suite.lots)

	suite.entityID = uuid.NewString()
	suite.lotID = uuid.NewString()
	suite.actorID = uuid.NewString()
	suite.lots.SetLotUsable(suite.lotID, true)
	suite.key = domain.StockKey{
		EntityKind: domain.RetailPharmacy,
		EntityID:   suite.entityID,
		LotID:      suite.lotID,
	}
}

func (suite *StockServiceTestSuite) record(kind domain.MovementKind, quantity int64) (*domain.Movement, error) {
	return suite.service.RecordMovement(context.Background(), dto.RecordMovementRequest{
		EntityKind: suite.key.EntityKind,
		EntityID:   suite.key.EntityID,
		LotID:      suite.key.LotID,
		Kind:       kind,
		Quantity:   quantity,
	}, suite.actorID)
}

func (suite *StockServiceTestSuite) TestRecordImportIncreasesBalance() {
	movement, err := suite.record(domain.Import, 100)
	suite.Require().NoError(err)
	suite.Require().NotNil(movement)
	suite.Equal(domain.Import, movement.Kind)

	balance, err := suite.service.GetBalance(context.Background(), suite.key)
	suite.Require().NoError(err)
	suite.Equal(int64(100), balance)
}

func (suite *StockServiceTestSuite) TestRecordMovementWritesAudit() {
	_, err := suite.record(domain.Import, 5)
	suite.Require().NoError(err)

	records := suite.store.AuditRecords()
	suite.Require().Len(records, 1)
	suite.Equal("Movement", records[0].EntityType)
	suite.Equal(domain.AuditActionCreate, records[0].Action)
	suite.Equal(suite.actorID, records[0].ActorID)
}

func (suite *StockServiceTestSuite) TestRecordMovementValidation() {
	_, err := suite.record(domain.MovementKind("TELEPORT"), 1)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.record(domain.Sale, 0)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.record(domain.Sale, -3)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.record(domain.Adjustment, 0)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *StockServiceTestSuite) TestOutboundAtExactBalance() {
	_, err := suite.record(domain.Import, 10)
	suite.Require().NoError(err)

	_, err = suite.record(domain.Sale, 10)
	suite.Require().NoError(err)

	balance, err := suite.service.GetBalance(context.Background(), suite.key)
	suite.Require().NoError(err)
	suite.Equal(int64(0), balance)
}

func (suite *StockServiceTestSuite) TestOutboundBeyondBalanceRejected() {
	_, err := suite.record(domain.Import, 10)
	suite.Require().NoError(err)

	_, err = suite.record(domain.Sale, 11)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)

	// The rejected movement left no trace.
	history, err := suite.service.GetMovementHistory(context.Background(), suite.key)
	suite.Require().NoError(err)
	suite.Len(history, 1)

	balance, err := suite.service.GetBalance(context.Background(), suite.key)
	suite.Require().NoError(err)
	suite.Equal(int64(10), balance)
}

func (suite *StockServiceTestSuite) TestNegativeAdjustmentChecksBalance() {
	_, err := suite.record(domain.Import, 5)
	suite.Require().NoError(err)

	_, err = suite.record(domain.Adjustment, -6)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)

	_, err = suite.record(domain.Adjustment, -5)
	suite.Require().NoError(err)

	balance, err := suite.service.GetBalance(context.Background(), suite.key)
	suite.Require().NoError(err)
	suite.Equal(int64(0), balance)
}

func (suite *StockServiceTestSuite) TestPositiveAdjustmentNeedsNoBalance() {
	_, err := suite.record(domain.Adjustment, 7)
	suite.Require().NoError(err)

	balance, err := suite.service.GetBalance(context.Background(), suite.key)
	suite.Require().NoError(err)
	suite.Equal(int64(7), balance)
}

func (suite *StockServiceTestSuite) TestRecallRemovalIsOutbound() {
	_, err := suite.record(domain.Import, 3)
	suite.Require().NoError(err)

	_, err = suite.record(domain.RecallRemoval, 4)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)

	_, err = suite.record(domain.RecallRemoval, 3)
	suite.NoError(err)
}

func (suite *StockServiceTestSuite) TestUnusableLotRejected() {
	suite.lots.SetLotUsable(suite.lotID, false)

	_, err := suite.record(domain.Import, 10)
	suite.ErrorIs(err, apperrors.ErrLotUnusable)
}

func (suite *StockServiceTestSuite) TestLotRegistryErrorPropagates() {
	mockLots := new(MockLotRegistry)
	repos := memory.NewRepositoryProvider(suite.store)
	service := services.NewStockService(repos.UOW, repos.MovementRepo, mockLots)

	registryErr := errors.New("registry unreachable")
	mockLots.On("IsLotUsable", mock.Anything, suite.lotID).Return(false, registryErr).Once()

	_, err := service.RecordMovement(context.Background(), dto.RecordMovementRequest{
		EntityKind: suite.key.EntityKind,
		EntityID:   suite.key.EntityID,
		LotID:      suite.key.LotID,
		Kind:       domain.Import,
		Quantity:   1,
	}, suite.actorID)
	suite.ErrorIs(err, registryErr)
	mockLots.AssertExpectations(suite.T())
}

func (suite *StockServiceTestSuite) TestBalanceEqualsHistorySum() {
	steps := []struct {
		kind     domain.MovementKind
		quantity int64
	}{
		{domain.Import, 50},
		{domain.Sale, 12},
		{domain.Return, 2},
		{domain.Adjustment, -7},
		{domain.TransferOut, 10},
		{domain.Adjustment, 4},
	}
	for _, s := range steps {
		_, err := suite.record(s.kind, s.quantity)
		suite.Require().NoError(err)
	}

	history, err := suite.service.GetMovementHistory(context.Background(), suite.key)
	suite.Require().NoError(err)
	var sum int64
	for _, m := range history {
		sum += m.SignedQuantity()
	}

	balance, err := suite.service.GetBalance(context.Background(), suite.key)
	suite.Require().NoError(err)
	suite.Equal(sum, balance)
	suite.Equal(int64(27), balance)
}

func (suite *StockServiceTestSuite) TestConcurrentSalesOfLastUnit() {
	_, err := suite.record(domain.Import, 1)
	suite.Require().NoError(err)

	const contenders = 10
	results := make([]error, contenders)
	var wg sync.WaitGroup
	wg.Add(contenders)
	for i := 0; i < contenders; i++ {
		go func(i int) {
			defer wg.Done()
			_, results[i] = suite.record(domain.Sale, 1)
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperrors.ErrInsufficientStock):
			rejected++
		default:
			suite.Failf("unexpected error", "got %v", err)
		}
	}
	suite.Equal(1, succeeded)
	suite.Equal(contenders-1, rejected)

	balance, err := suite.service.GetBalance(context.Background(), suite.key)
	suite.Require().NoError(err)
	suite.Equal(int64(0), balance)
}

func (suite *StockServiceTestSuite) TestDualMovement() {
	sellerID := uuid.NewString()
	sellerKey := domain.StockKey{EntityKind: domain.WholesalePharmacy, EntityID: sellerID, LotID: suite.lotID}

	_, err := suite.service.RecordMovement(context.Background(), dto.RecordMovementRequest{
		EntityKind: domain.WholesalePharmacy,
		EntityID:   sellerID,
		LotID:      suite.lotID,
		Kind:       domain.Import,
		Quantity:   100,
	}, suite.actorID)
	suite.Require().NoError(err)

	out, in, err := suite.service.ProcessDualMovement(context.Background(), dto.DualMovementRequest{
		SellerKind: domain.WholesalePharmacy,
		SellerID:   sellerID,
		BuyerKind:  domain.RetailPharmacy,
		BuyerID:    suite.entityID,
		LotID:      suite.lotID,
		Quantity:   40,
	}, suite.actorID)
	suite.Require().NoError(err)
	suite.Equal(domain.TransferOut, out.Kind)
	suite.Equal(domain.TransferIn, in.Kind)

	sellerBalance, err := suite.service.GetBalance(context.Background(), sellerKey)
	suite.Require().NoError(err)
	suite.Equal(int64(60), sellerBalance)

	buyerBalance, err := suite.service.GetBalance(context.Background(), suite.key)
	suite.Require().NoError(err)
	suite.Equal(int64(40), buyerBalance)
}

func (suite *StockServiceTestSuite) TestDualMovementInsufficientSellerStock() {
	sellerID := uuid.NewString()

	_, _, err := suite.service.ProcessDualMovement(context.Background(), dto.DualMovementRequest{
		SellerKind: domain.WholesalePharmacy,
		SellerID:   sellerID,
		BuyerKind:  domain.RetailPharmacy,
		BuyerID:    suite.entityID,
		LotID:      suite.lotID,
		Quantity:   5,
	}, suite.actorID)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)

	// Neither half landed.
	buyerHistory, err := suite.service.GetMovementHistory(context.Background(), suite.key)
	suite.Require().NoError(err)
	suite.Empty(buyerHistory)
}

func (suite *StockServiceTestSuite) TestSingleSale() {
	_, err := suite.record(domain.Import, 2)
	suite.Require().NoError(err)

	movement, err := suite.service.ProcessSingleSale(context.Background(), dto.SingleSaleRequest{
		EntityKind: suite.key.EntityKind,
		EntityID:   suite.key.EntityID,
		LotID:      suite.key.LotID,
		Quantity:   2,
	}, suite.actorID)
	suite.Require().NoError(err)
	suite.Equal(domain.Sale, movement.Kind)

	balance, err := suite.service.GetBalance(context.Background(), suite.key)
	suite.Require().NoError(err)
	suite.Equal(int64(0), balance)
}

func TestStockServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StockServiceTestSuite))
}

func TestMovementConsumesAdjustmentOnly(t *testing.T) {
	m := domain.Movement{Kind: domain.Adjustment, Quantity: 3}
	assert.Equal(t, int64(3), m.SignedQuantity())
	m.Quantity = -3
	assert.Equal(t, int64(-3), m.SignedQuantity())
}
