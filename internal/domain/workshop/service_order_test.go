package workshop

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marealta/backend/internal/domain/shared"
)

func newTestOrder(t *testing.T) *ServiceOrder {
	t.Helper()
	order, err := NewServiceOrder(uuid.New(), "OS-2026-0001", uuid.New(), uuid.New(), "Engine overhaul")
	require.NoError(t, err)
	return order
}

func TestNewServiceOrder(t *testing.T) {
	tenantID := uuid.New()
	boatID := uuid.New()
	clientID := uuid.New()

	order, err := NewServiceOrder(tenantID, "OS-2026-0001", boatID, clientID, "Hull cleaning")
	require.NoError(t, err)

	assert.Equal(t, tenantID, order.TenantID)
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.True(t, order.TotalValue.IsZero())
	assert.Equal(t, 1, order.Version)
	assert.Empty(t, order.Items)
}

func TestNewServiceOrder_Validation(t *testing.T) {
	_, err := NewServiceOrder(uuid.New(), "", uuid.New(), uuid.New(), "")
	assert.Error(t, err)

	_, err = NewServiceOrder(uuid.New(), "OS-1", uuid.Nil, uuid.New(), "")
	assert.Error(t, err)

	_, err = NewServiceOrder(uuid.New(), "OS-1", uuid.New(), uuid.Nil, "")
	assert.Error(t, err)
}

func TestAddItem_RecalculatesTotal(t *testing.T) {
	order := newTestOrder(t)
	partID := uuid.New()

	_, err := order.AddItem(ItemTypePart, &partID, "Impeller", decimal.NewFromInt(2), decimal.RequireFromString("50.00"))
	require.NoError(t, err)

	_, err = order.AddItem(ItemTypeLabor, nil, "Engine service", decimal.NewFromInt(1), decimal.RequireFromString("200.00"))
	require.NoError(t, err)

	assert.True(t, order.TotalValue.Equal(decimal.RequireFromString("300.00")),
		"expected 300.00, got %s", order.TotalValue)
}

func TestAddItem_Validation(t *testing.T) {
	order := newTestOrder(t)
	partID := uuid.New()

	_, err := order.AddItem(ItemTypePart, nil, "Impeller", decimal.NewFromInt(1), decimal.NewFromInt(10))
	assert.Error(t, err, "part items must reference a part")

	_, err = order.AddItem(ItemTypePart, &partID, "Impeller", decimal.Zero, decimal.NewFromInt(10))
	assert.Error(t, err, "quantity must be positive")

	_, err = order.AddItem(ItemTypePart, &partID, "Impeller", decimal.NewFromInt(1), decimal.NewFromInt(-1))
	assert.Error(t, err, "price cannot be negative")

	_, err = order.AddItem(ItemType("OTHER"), nil, "?", decimal.NewFromInt(1), decimal.NewFromInt(1))
	assert.Error(t, err, "unknown item type")
}

func TestAddItem_TerminalOrder(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.Complete())

	_, err := order.AddItem(ItemTypeLabor, nil, "Late work", decimal.NewFromInt(1), decimal.NewFromInt(100))
	assert.Error(t, err)
}

func TestRemoveItem_RecalculatesTotal(t *testing.T) {
	order := newTestOrder(t)

	item, err := order.AddItem(ItemTypeLabor, nil, "Rigging", decimal.NewFromInt(1), decimal.RequireFromString("150.00"))
	require.NoError(t, err)
	_, err = order.AddItem(ItemTypeLabor, nil, "Varnish", decimal.NewFromInt(1), decimal.RequireFromString("80.00"))
	require.NoError(t, err)

	require.NoError(t, order.RemoveItem(item.ID))
	assert.True(t, order.TotalValue.Equal(decimal.RequireFromString("80.00")))

	err = order.RemoveItem(uuid.New())
	assert.Error(t, err)
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to in progress", OrderStatusPending, OrderStatusInProgress, true},
		{"pending to completed", OrderStatusPending, OrderStatusCompleted, true},
		{"pending to canceled", OrderStatusPending, OrderStatusCanceled, true},
		{"in progress to completed", OrderStatusInProgress, OrderStatusCompleted, true},
		{"in progress to canceled", OrderStatusInProgress, OrderStatusCanceled, true},
		{"in progress back to pending", OrderStatusInProgress, OrderStatusPending, false},
		{"completed to anything", OrderStatusCompleted, OrderStatusInProgress, false},
		{"completed to canceled", OrderStatusCompleted, OrderStatusCanceled, false},
		{"canceled to completed", OrderStatusCanceled, OrderStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStartCompleteCancel(t *testing.T) {
	order := newTestOrder(t)

	require.NoError(t, order.Start())
	assert.Equal(t, OrderStatusInProgress, order.Status)
	assert.NotNil(t, order.StartedAt)

	require.NoError(t, order.Complete())
	assert.Equal(t, OrderStatusCompleted, order.Status)
	assert.NotNil(t, order.CompletedAt)
	assert.True(t, order.IsCompleted())

	err := order.Cancel()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestCancelFromPending(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.Cancel())
	assert.Equal(t, OrderStatusCanceled, order.Status)
	assert.NotNil(t, order.CanceledAt)
	assert.True(t, order.IsTerminal())
}

func TestPartItems(t *testing.T) {
	order := newTestOrder(t)
	partID := uuid.New()

	_, err := order.AddItem(ItemTypePart, &partID, "Anode", decimal.NewFromInt(4), decimal.NewFromInt(25))
	require.NoError(t, err)
	_, err = order.AddItem(ItemTypeLabor, nil, "Install anodes", decimal.NewFromInt(1), decimal.NewFromInt(60))
	require.NoError(t, err)

	parts := order.PartItems()
	require.Len(t, parts, 1)
	assert.Equal(t, partID, *parts[0].PartID)
}

func TestAddNote(t *testing.T) {
	order := newTestOrder(t)

	note, err := order.AddNote("carlos", "Waiting for parts from supplier")
	require.NoError(t, err)
	assert.Equal(t, order.ID, note.OrderID)
	assert.Len(t, order.Notes, 1)

	_, err = order.AddNote("carlos", "")
	assert.Error(t, err)
}
