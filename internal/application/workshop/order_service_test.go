package workshop

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marealta/backend/internal/domain/finance"
	"github.com/marealta/backend/internal/domain/fleet"
	"github.com/marealta/backend/internal/domain/inventory"
	"github.com/marealta/backend/internal/domain/shared"
	"github.com/marealta/backend/internal/domain/workshop"
	"github.com/marealta/backend/internal/infrastructure/logger"
	"github.com/marealta/backend/internal/infrastructure/notification"
)

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) Save(ctx context.Context, order *workshop.ServiceOrder) error {
	return m.Called(ctx, order).Error(0)
}
func (m *mockOrderRepo) SaveWithLock(ctx context.Context, order *workshop.ServiceOrder) error {
	return m.Called(ctx, order).Error(0)
}
func (m *mockOrderRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*workshop.ServiceOrder, error) {
	args := m.Called(ctx, tenantID, id)
	if order := args.Get(0); order != nil {
		return order.(*workshop.ServiceOrder), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOrderRepo) FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*workshop.ServiceOrder, error) {
	args := m.Called(ctx, tenantID, orderNumber)
	if order := args.Get(0); order != nil {
		return order.(*workshop.ServiceOrder), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOrderRepo) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*workshop.ServiceOrder, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*workshop.ServiceOrder), args.Get(1).(int64), args.Error(2)
}
func (m *mockOrderRepo) ListByBoatForTenant(ctx context.Context, tenantID, boatID uuid.UUID) ([]*workshop.ServiceOrder, error) {
	args := m.Called(ctx, tenantID, boatID)
	return args.Get(0).([]*workshop.ServiceOrder), args.Error(1)
}
func (m *mockOrderRepo) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}
func (m *mockOrderRepo) NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

type mockPartRepo struct{ mock.Mock }

func (m *mockPartRepo) Save(ctx context.Context, part *inventory.Part) error {
	return m.Called(ctx, part).Error(0)
}
func (m *mockPartRepo) SaveWithLock(ctx context.Context, part *inventory.Part) error {
	return m.Called(ctx, part).Error(0)
}
func (m *mockPartRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Part, error) {
	args := m.Called(ctx, tenantID, id)
	if part := args.Get(0); part != nil {
		return part.(*inventory.Part), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPartRepo) FindBySKUForTenant(ctx context.Context, tenantID uuid.UUID, sku string) (*inventory.Part, error) {
	args := m.Called(ctx, tenantID, sku)
	if part := args.Get(0); part != nil {
		return part.(*inventory.Part), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPartRepo) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*inventory.Part, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*inventory.Part), args.Get(1).(int64), args.Error(2)
}
func (m *mockPartRepo) ListBelowMinimumForTenant(ctx context.Context, tenantID uuid.UUID) ([]*inventory.Part, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*inventory.Part), args.Error(1)
}
func (m *mockPartRepo) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type mockMovementRepo struct{ mock.Mock }

func (m *mockMovementRepo) Save(ctx context.Context, movement *inventory.StockMovement) error {
	return m.Called(ctx, movement).Error(0)
}
func (m *mockMovementRepo) ListByPartForTenant(ctx context.Context, tenantID, partID uuid.UUID, filter shared.Filter) ([]*inventory.StockMovement, int64, error) {
	args := m.Called(ctx, tenantID, partID, filter)
	return args.Get(0).([]*inventory.StockMovement), args.Get(1).(int64), args.Error(2)
}
func (m *mockMovementRepo) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*inventory.StockMovement, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*inventory.StockMovement), args.Get(1).(int64), args.Error(2)
}

type mockFinanceRepo struct{ mock.Mock }

func (m *mockFinanceRepo) Save(ctx context.Context, tx *finance.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}
func (m *mockFinanceRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Transaction, error) {
	args := m.Called(ctx, tenantID, id)
	if tx := args.Get(0); tx != nil {
		return tx.(*finance.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockFinanceRepo) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*finance.Transaction, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*finance.Transaction), args.Get(1).(int64), args.Error(2)
}
func (m *mockFinanceRepo) ListByReferenceForTenant(ctx context.Context, tenantID, referenceID uuid.UUID) ([]*finance.Transaction, error) {
	args := m.Called(ctx, tenantID, referenceID)
	return args.Get(0).([]*finance.Transaction), args.Error(1)
}
func (m *mockFinanceRepo) SummaryForTenant(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*finance.Summary, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).(*finance.Summary), args.Error(1)
}

type mockBoatRepo struct{ mock.Mock }

func (m *mockBoatRepo) Save(ctx context.Context, boat *fleet.Boat) error {
	return m.Called(ctx, boat).Error(0)
}
func (m *mockBoatRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fleet.Boat, error) {
	args := m.Called(ctx, tenantID, id)
	if boat := args.Get(0); boat != nil {
		return boat.(*fleet.Boat), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockBoatRepo) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*fleet.Boat, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*fleet.Boat), args.Get(1).(int64), args.Error(2)
}
func (m *mockBoatRepo) ListByClientForTenant(ctx context.Context, tenantID, clientID uuid.UUID) ([]*fleet.Boat, error) {
	args := m.Called(ctx, tenantID, clientID)
	return args.Get(0).([]*fleet.Boat), args.Error(1)
}
func (m *mockBoatRepo) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Notify(ctx context.Context, eventType string, payload interface{}) {
	m.Called(ctx, eventType, payload)
}

type testFixture struct {
	service      *OrderService
	orderRepo    *mockOrderRepo
	partRepo     *mockPartRepo
	movementRepo *mockMovementRepo
	financeRepo  *mockFinanceRepo
	boatRepo     *mockBoatRepo
	tenantID     uuid.UUID
	ctx          context.Context
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{
		orderRepo:    new(mockOrderRepo),
		partRepo:     new(mockPartRepo),
		movementRepo: new(mockMovementRepo),
		financeRepo:  new(mockFinanceRepo),
		boatRepo:     new(mockBoatRepo),
		tenantID:     uuid.New(),
	}
	scope := NewNoOpTransactionScope(f.orderRepo, f.partRepo, f.movementRepo, f.financeRepo)
	f.service = NewOrderService(scope, f.orderRepo, f.partRepo, f.boatRepo, nil)
	f.ctx, _ = logger.WithTenantID(context.Background(), zap.NewNop(), f.tenantID)
	return f
}

func (f *testFixture) newOrder(t *testing.T) *workshop.ServiceOrder {
	t.Helper()
	order, err := workshop.NewServiceOrder(f.tenantID, "OS-2026-0007", uuid.New(), uuid.New(), "Engine service")
	require.NoError(t, err)
	return order
}

func TestComplete_SettlesStockAndLedger(t *testing.T) {
	f := newFixture(t)
	order := f.newOrder(t)

	part, err := inventory.NewPart(f.tenantID, "IMP-001", "Impeller", decimal.RequireFromString("50.00"), decimal.RequireFromString("30.00"))
	require.NoError(t, err)
	part.QuantityInStock = 10

	_, err = order.AddItem(workshop.ItemTypePart, &part.ID, "Impeller", decimal.NewFromInt(2), decimal.RequireFromString("50.00"))
	require.NoError(t, err)
	_, err = order.AddItem(workshop.ItemTypeLabor, nil, "Engine service", decimal.NewFromInt(1), decimal.RequireFromString("200.00"))
	require.NoError(t, err)
	require.True(t, order.TotalValue.Equal(decimal.RequireFromString("300.00")))

	f.orderRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, order.ID).Return(order, nil)
	f.partRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, part.ID).Return(part, nil)
	f.partRepo.On("SaveWithLock", mock.Anything, mock.MatchedBy(func(p *inventory.Part) bool {
		return p.QuantityInStock == 8
	})).Return(nil)
	f.movementRepo.On("Save", mock.Anything, mock.MatchedBy(func(mv *inventory.StockMovement) bool {
		return mv.Type == inventory.MovementOutOS &&
			mv.Quantity == 2 &&
			mv.ReferenceID != nil && *mv.ReferenceID == order.ID
	})).Return(nil)
	f.financeRepo.On("Save", mock.Anything, mock.MatchedBy(func(tx *finance.Transaction) bool {
		return tx.Type == finance.TransactionIncome &&
			tx.Category == finance.CategoryServices &&
			tx.Status == finance.TransactionPending &&
			tx.Amount.Equal(decimal.RequireFromString("300.00")) &&
			tx.ReferenceID != nil && *tx.ReferenceID == order.ID
	})).Return(nil)
	f.orderRepo.On("SaveWithLock", mock.Anything, mock.MatchedBy(func(o *workshop.ServiceOrder) bool {
		return o.Status == workshop.OrderStatusCompleted
	})).Return(nil)

	completed, err := f.service.Complete(f.ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted())
	assert.NotNil(t, completed.CompletedAt)

	f.orderRepo.AssertExpectations(t)
	f.partRepo.AssertExpectations(t)
	f.movementRepo.AssertExpectations(t)
	f.financeRepo.AssertExpectations(t)
}

func TestComplete_AlreadyCompletedIsNoOp(t *testing.T) {
	f := newFixture(t)
	order := f.newOrder(t)
	require.NoError(t, order.Complete())

	f.orderRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, order.ID).Return(order, nil)

	completed, err := f.service.Complete(f.ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted())

	f.orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	f.financeRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.movementRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// withNotifier rebuilds the fixture's service with a mock notifier attached
func (f *testFixture) withNotifier() *mockNotifier {
	notifier := new(mockNotifier)
	scope := NewNoOpTransactionScope(f.orderRepo, f.partRepo, f.movementRepo, f.financeRepo)
	f.service = NewOrderService(scope, f.orderRepo, f.partRepo, f.boatRepo, notifier)
	return notifier
}

func TestComplete_ReplayDoesNotRenotify(t *testing.T) {
	f := newFixture(t)
	notifier := f.withNotifier()
	order := f.newOrder(t)

	f.orderRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, order.ID).Return(order, nil)
	f.financeRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.orderRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)
	notifier.On("Notify", mock.Anything, notification.EventOrderCompleted, mock.Anything).Once()

	_, err := f.service.Complete(f.ctx, order.ID)
	require.NoError(t, err)

	replayed, err := f.service.Complete(f.ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, replayed.IsCompleted())

	// Only the run that flipped the status publishes the event.
	notifier.AssertNumberOfCalls(t, "Notify", 1)
}

func TestComplete_CanceledOrderFails(t *testing.T) {
	f := newFixture(t)
	order := f.newOrder(t)
	require.NoError(t, order.Cancel())

	f.orderRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, order.ID).Return(order, nil)

	_, err := f.service.Complete(f.ctx, order.ID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestComplete_NotFound(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New()

	f.orderRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, missing).Return(nil, shared.ErrNotFound)

	_, err := f.service.Complete(f.ctx, missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestComplete_NoTenant(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Complete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrTenantRequired)
}

func TestComplete_ClampsStockAtZero(t *testing.T) {
	f := newFixture(t)
	order := f.newOrder(t)

	part, err := inventory.NewPart(f.tenantID, "ANO-004", "Anode", decimal.NewFromInt(25), decimal.NewFromInt(12))
	require.NoError(t, err)
	part.QuantityInStock = 1

	_, err = order.AddItem(workshop.ItemTypePart, &part.ID, "Anode", decimal.NewFromInt(3), decimal.NewFromInt(25))
	require.NoError(t, err)

	f.orderRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, order.ID).Return(order, nil)
	f.partRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, part.ID).Return(part, nil)
	f.partRepo.On("SaveWithLock", mock.Anything, mock.MatchedBy(func(p *inventory.Part) bool {
		return p.QuantityInStock == 0
	})).Return(nil)
	f.movementRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.financeRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.orderRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)

	completed, err := f.service.Complete(f.ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted())
	f.partRepo.AssertExpectations(t)
}

func TestComplete_ConcurrencyConflictPropagates(t *testing.T) {
	f := newFixture(t)
	order := f.newOrder(t)

	f.orderRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, order.ID).Return(order, nil)
	f.financeRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.orderRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(shared.ErrConcurrencyConflict)

	_, err := f.service.Complete(f.ctx, order.ID)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestCreate_GeneratesOrderNumber(t *testing.T) {
	f := newFixture(t)
	boat, err := fleet.NewBoat(f.tenantID, uuid.New(), "Santa Luzia", "Beneteau 40")
	require.NoError(t, err)

	f.boatRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, boat.ID).Return(boat, nil)
	f.orderRepo.On("NextOrderNumber", mock.Anything, f.tenantID).Return("OS-2026-0042", nil)
	f.orderRepo.On("Save", mock.Anything, mock.MatchedBy(func(o *workshop.ServiceOrder) bool {
		return o.OrderNumber == "OS-2026-0042" &&
			o.BoatID == boat.ID &&
			o.ClientID == boat.ClientID &&
			o.Status == workshop.OrderStatusPending
	})).Return(nil)

	order, err := f.service.Create(f.ctx, CreateOrderRequest{BoatID: boat.ID, Description: "Winter refit"})
	require.NoError(t, err)
	assert.Equal(t, "OS-2026-0042", order.OrderNumber)
	f.orderRepo.AssertExpectations(t)
}

func TestCreate_RetriesOnOrderNumberCollision(t *testing.T) {
	f := newFixture(t)
	boat, err := fleet.NewBoat(f.tenantID, uuid.New(), "Santa Luzia", "Beneteau 40")
	require.NoError(t, err)

	f.boatRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, boat.ID).Return(boat, nil)
	f.orderRepo.On("NextOrderNumber", mock.Anything, f.tenantID).Return("OS-2026-0042", nil).Once()
	f.orderRepo.On("NextOrderNumber", mock.Anything, f.tenantID).Return("OS-2026-0043", nil).Once()

	// A concurrent create took OS-2026-0042 first.
	f.orderRepo.On("Save", mock.Anything, mock.MatchedBy(func(o *workshop.ServiceOrder) bool {
		return o.OrderNumber == "OS-2026-0042"
	})).Return(shared.ErrAlreadyExists).Once()
	f.orderRepo.On("Save", mock.Anything, mock.MatchedBy(func(o *workshop.ServiceOrder) bool {
		return o.OrderNumber == "OS-2026-0043"
	})).Return(nil).Once()

	order, err := f.service.Create(f.ctx, CreateOrderRequest{BoatID: boat.ID})
	require.NoError(t, err)
	assert.Equal(t, "OS-2026-0043", order.OrderNumber)
	f.orderRepo.AssertExpectations(t)
}

func TestCreate_GivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newFixture(t)
	boat, err := fleet.NewBoat(f.tenantID, uuid.New(), "Santa Luzia", "Beneteau 40")
	require.NoError(t, err)

	f.boatRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, boat.ID).Return(boat, nil)
	f.orderRepo.On("NextOrderNumber", mock.Anything, f.tenantID).Return("OS-2026-0042", nil)
	f.orderRepo.On("Save", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)

	_, err = f.service.Create(f.ctx, CreateOrderRequest{BoatID: boat.ID})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	f.orderRepo.AssertNumberOfCalls(t, "Save", 3)
}

func TestAddItem_PricesPartFromCatalog(t *testing.T) {
	f := newFixture(t)
	order := f.newOrder(t)

	part, err := inventory.NewPart(f.tenantID, "FLT-010", "Fuel filter", decimal.RequireFromString("35.50"), decimal.NewFromInt(20))
	require.NoError(t, err)

	f.orderRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, order.ID).Return(order, nil)
	f.partRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, part.ID).Return(part, nil)
	f.orderRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)

	updated, err := f.service.AddItem(f.ctx, order.ID, AddItemRequest{
		Type:     "PART",
		PartID:   &part.ID,
		Quantity: decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Fuel filter", updated.Items[0].Description)
	assert.True(t, updated.Items[0].UnitPrice.Equal(decimal.RequireFromString("35.50")))
	assert.True(t, updated.TotalValue.Equal(decimal.RequireFromString("71.00")))
}
