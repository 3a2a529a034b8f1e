package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	workshopapp "github.com/marealta/backend/internal/application/workshop"
	"github.com/marealta/backend/internal/domain/finance"
	"github.com/marealta/backend/internal/domain/fleet"
	"github.com/marealta/backend/internal/domain/inventory"
	"github.com/marealta/backend/internal/domain/shared"
	"github.com/marealta/backend/internal/domain/workshop"
	"github.com/marealta/backend/internal/infrastructure/persistence"
)

// orderWorkflowFixture wires real repositories and the order service
// against a migrated test database.
type orderWorkflowFixture struct {
	tdb          *TestDB
	orderService *workshopapp.OrderService
	orderRepo    workshop.ServiceOrderRepository
	partRepo     inventory.PartRepository
	movementRepo inventory.StockMovementRepository
	financeRepo  finance.TransactionRepository
	boatRepo     fleet.BoatRepository
	clientRepo   fleet.ClientRepository

	tenantID uuid.UUID
	ctx      context.Context
}

func newOrderWorkflowFixture(t *testing.T) *orderWorkflowFixture {
	t.Helper()

	tdb := NewTestDB(t)
	ten, ctx := tdb.NewTenant("Estaleiro Azul", "estaleiro-azul")

	orderRepo := persistence.NewGormServiceOrderRepository(tdb.DB)
	partRepo := persistence.NewGormPartRepository(tdb.DB)
	movementRepo := persistence.NewGormStockMovementRepository(tdb.DB)
	financeRepo := persistence.NewGormTransactionRepository(tdb.DB)
	boatRepo := persistence.NewGormBoatRepository(tdb.DB)
	clientRepo := persistence.NewGormClientRepository(tdb.DB)

	scope := persistence.NewGormTransactionScope(tdb.DB)

	return &orderWorkflowFixture{
		tdb:          tdb,
		orderService: workshopapp.NewOrderService(scope, orderRepo, partRepo, boatRepo, nil),
		orderRepo:    orderRepo,
		partRepo:     partRepo,
		movementRepo: movementRepo,
		financeRepo:  financeRepo,
		boatRepo:     boatRepo,
		clientRepo:   clientRepo,
		tenantID:     ten.ID,
		ctx:          ctx,
	}
}

func (f *orderWorkflowFixture) newBoat(t *testing.T, name string) *fleet.Boat {
	t.Helper()

	client, err := fleet.NewClient(f.tenantID, "Owner of "+name, "", "")
	require.NoError(t, err)
	require.NoError(t, f.clientRepo.Save(f.ctx, client))

	boat, err := fleet.NewBoat(f.tenantID, client.ID, name, "Cabin 32")
	require.NoError(t, err)
	require.NoError(t, f.boatRepo.Save(f.ctx, boat))
	return boat
}

func (f *orderWorkflowFixture) newStockedPart(t *testing.T, sku string, stock int, unitPrice int64) *inventory.Part {
	t.Helper()

	part, err := inventory.NewPart(f.tenantID, sku, "Part "+sku,
		decimal.NewFromInt(unitPrice), decimal.NewFromInt(unitPrice/2))
	require.NoError(t, err)

	movement, err := inventory.NewStockMovement(f.tenantID, part.ID,
		inventory.MovementInInvoice, stock, nil, "initial stock", "system")
	require.NoError(t, err)
	part.Apply(movement)

	require.NoError(t, f.partRepo.Save(f.ctx, part))
	require.NoError(t, f.movementRepo.Save(f.ctx, movement))
	return part
}

func TestOrderWorkflow_CompleteSettlesStockAndLedger(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	f := newOrderWorkflowFixture(t)
	boat := f.newBoat(t, "Vagalume")
	part := f.newStockedPart(t, "OIL-15W40", 10, 120)

	order, err := f.orderService.Create(f.ctx, workshopapp.CreateOrderRequest{
		BoatID:      boat.ID,
		Description: "Engine overhaul",
	})
	require.NoError(t, err)
	assert.Equal(t, workshop.OrderStatusPending, order.Status)
	assert.Regexp(t, `^OS-\d{4}-\d{4}$`, order.OrderNumber)

	// Part item priced from the catalog, labor priced explicitly.
	order, err = f.orderService.AddItem(f.ctx, order.ID, workshopapp.AddItemRequest{
		Type:     "PART",
		PartID:   &part.ID,
		Quantity: decimal.NewFromInt(3),
	})
	require.NoError(t, err)
	order, err = f.orderService.AddItem(f.ctx, order.ID, workshopapp.AddItemRequest{
		Type:        "LABOR",
		Description: "Mechanic hours",
		Quantity:    decimal.NewFromInt(2),
		UnitPrice:   decimal.NewFromInt(150),
	})
	require.NoError(t, err)
	assert.True(t, order.TotalValue.Equal(decimal.NewFromInt(660)),
		"expected 3x120 + 2x150, got %s", order.TotalValue)

	_, err = f.orderService.Start(f.ctx, order.ID)
	require.NoError(t, err)

	completed, err := f.orderService.Complete(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, workshop.OrderStatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	// Stock decremented by the part item quantity.
	reloaded, err := f.partRepo.FindByIDForTenant(f.ctx, f.tenantID, part.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.QuantityInStock)

	// One OUT_OS movement referencing the order.
	movements, _, err := f.movementRepo.ListByPartForTenant(f.ctx, f.tenantID, part.ID, shared.NewFilter())
	require.NoError(t, err)
	var outMovements []*inventory.StockMovement
	for _, m := range movements {
		if m.Type == inventory.MovementOutOS {
			outMovements = append(outMovements, m)
		}
	}
	require.Len(t, outMovements, 1)
	assert.Equal(t, 3, outMovements[0].Quantity)
	require.NotNil(t, outMovements[0].ReferenceID)
	assert.Equal(t, order.ID, *outMovements[0].ReferenceID)

	// One pending receivable for the full order value.
	txs, err := f.financeRepo.ListByReferenceForTenant(f.ctx, f.tenantID, order.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, finance.TransactionIncome, txs[0].Type)
	assert.Equal(t, finance.CategoryServices, txs[0].Category)
	assert.Equal(t, finance.TransactionPending, txs[0].Status)
	assert.True(t, txs[0].Amount.Equal(completed.TotalValue))
}

func TestOrderWorkflow_CompleteIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	f := newOrderWorkflowFixture(t)
	boat := f.newBoat(t, "Andorinha")
	part := f.newStockedPart(t, "BELT-A42", 10, 60)

	order, err := f.orderService.Create(f.ctx, workshopapp.CreateOrderRequest{BoatID: boat.ID})
	require.NoError(t, err)
	_, err = f.orderService.AddItem(f.ctx, order.ID, workshopapp.AddItemRequest{
		Type:     "PART",
		PartID:   &part.ID,
		Quantity: decimal.NewFromInt(4),
	})
	require.NoError(t, err)

	first, err := f.orderService.Complete(f.ctx, order.ID)
	require.NoError(t, err)
	second, err := f.orderService.Complete(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, workshop.OrderStatusCompleted, second.Status)

	// Replaying completion must not double the decrement or the receivable.
	reloaded, err := f.partRepo.FindByIDForTenant(f.ctx, f.tenantID, part.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, reloaded.QuantityInStock)

	txs, err := f.financeRepo.ListByReferenceForTenant(f.ctx, f.tenantID, order.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestOrderWorkflow_ShortfallClampsAtZero(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	f := newOrderWorkflowFixture(t)
	boat := f.newBoat(t, "Gaivota")
	part := f.newStockedPart(t, "SEAL-09", 2, 35)

	order, err := f.orderService.Create(f.ctx, workshopapp.CreateOrderRequest{BoatID: boat.ID})
	require.NoError(t, err)
	_, err = f.orderService.AddItem(f.ctx, order.ID, workshopapp.AddItemRequest{
		Type:     "PART",
		PartID:   &part.ID,
		Quantity: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	// The work already happened in the yard; completion goes through and
	// the stock level stops at zero instead of going negative.
	completed, err := f.orderService.Complete(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, workshop.OrderStatusCompleted, completed.Status)

	reloaded, err := f.partRepo.FindByIDForTenant(f.ctx, f.tenantID, part.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.QuantityInStock)
}

func TestOrderWorkflow_CanceledOrderHasNoSideEffects(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	f := newOrderWorkflowFixture(t)
	boat := f.newBoat(t, "Albatroz")
	part := f.newStockedPart(t, "PUMP-J5", 5, 300)

	order, err := f.orderService.Create(f.ctx, workshopapp.CreateOrderRequest{BoatID: boat.ID})
	require.NoError(t, err)
	_, err = f.orderService.AddItem(f.ctx, order.ID, workshopapp.AddItemRequest{
		Type:     "PART",
		PartID:   &part.ID,
		Quantity: decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	canceled, err := f.orderService.Cancel(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, workshop.OrderStatusCanceled, canceled.Status)

	// No stock consumed, no receivable, and the order stays terminal.
	reloaded, err := f.partRepo.FindByIDForTenant(f.ctx, f.tenantID, part.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.QuantityInStock)

	txs, err := f.financeRepo.ListByReferenceForTenant(f.ctx, f.tenantID, order.ID)
	require.NoError(t, err)
	assert.Empty(t, txs)

	_, err = f.orderService.Complete(f.ctx, order.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestOrderWorkflow_OrderNumbersAreSequentialPerTenant(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	f := newOrderWorkflowFixture(t)
	boat := f.newBoat(t, "Corveta")

	first, err := f.orderService.Create(f.ctx, workshopapp.CreateOrderRequest{BoatID: boat.ID})
	require.NoError(t, err)
	second, err := f.orderService.Create(f.ctx, workshopapp.CreateOrderRequest{BoatID: boat.ID})
	require.NoError(t, err)

	assert.NotEqual(t, first.OrderNumber, second.OrderNumber)
	assert.Greater(t, second.OrderNumber, first.OrderNumber)

	// A second tenant starts its own sequence from the top.
	otherTenant, otherCtx := f.tdb.NewTenant("Marina Leste", "marina-leste")
	otherClient, err := fleet.NewClient(otherTenant.ID, "Rui Braga", "", "")
	require.NoError(t, err)
	require.NoError(t, f.clientRepo.Save(otherCtx, otherClient))
	otherBoat, err := fleet.NewBoat(otherTenant.ID, otherClient.ID, "Baleia", "Trawler 40")
	require.NoError(t, err)
	require.NoError(t, f.boatRepo.Save(otherCtx, otherBoat))

	third, err := f.orderService.Create(otherCtx, workshopapp.CreateOrderRequest{BoatID: otherBoat.ID})
	require.NoError(t, err)
	assert.Equal(t, first.OrderNumber, third.OrderNumber)
}
