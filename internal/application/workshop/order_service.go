package workshop

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marealta/backend/internal/domain/finance"
	"github.com/marealta/backend/internal/domain/fleet"
	"github.com/marealta/backend/internal/domain/inventory"
	"github.com/marealta/backend/internal/domain/shared"
	"github.com/marealta/backend/internal/domain/workshop"
	"github.com/marealta/backend/internal/infrastructure/logger"
	"github.com/marealta/backend/internal/infrastructure/notification"
)

// Notifier publishes workflow events to the outside world
type Notifier interface {
	Notify(ctx context.Context, eventType string, payload interface{})
}

// OrderService drives the service order workflow from creation through
// completion. Completion is the one multi-aggregate operation in the
// system: it settles inventory and the financial ledger together with
// the status change, atomically.
type OrderService struct {
	scope     TransactionScope
	orderRepo workshop.ServiceOrderRepository
	partRepo  inventory.PartRepository
	boatRepo  fleet.BoatRepository
	notifier  Notifier
}

// NewOrderService creates a new OrderService
func NewOrderService(
	scope TransactionScope,
	orderRepo workshop.ServiceOrderRepository,
	partRepo inventory.PartRepository,
	boatRepo fleet.BoatRepository,
	notifier Notifier,
) *OrderService {
	return &OrderService{
		scope:     scope,
		orderRepo: orderRepo,
		partRepo:  partRepo,
		boatRepo:  boatRepo,
		notifier:  notifier,
	}
}

// CreateOrderRequest carries the input for creating a service order
type CreateOrderRequest struct {
	BoatID      uuid.UUID `json:"boat_id" binding:"required"`
	Description string    `json:"description"`
}

// AddItemRequest carries the input for adding a line item
type AddItemRequest struct {
	Type        string          `json:"type" binding:"required,oneof=PART LABOR"`
	PartID      *uuid.UUID      `json:"part_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func tenantFromContext(ctx context.Context) (uuid.UUID, error) {
	tenantID := logger.GetTenantID(ctx)
	if tenantID == uuid.Nil {
		return uuid.Nil, shared.ErrTenantRequired
	}
	return tenantID, nil
}

// maxOrderNumberRetries bounds retries when concurrent creates race for
// the same generated order number
const maxOrderNumberRetries = 3

// Create opens a new order in PENDING status with a generated order
// number. Numbering is count-based, so two concurrent creates can draw
// the same number; the per-tenant unique index catches the loser and the
// creation retries with a fresh one.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*workshop.ServiceOrder, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	boat, err := s.boatRepo.FindByIDForTenant(ctx, tenantID, req.BoatID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxOrderNumberRetries; attempt++ {
		orderNumber, err := s.orderRepo.NextOrderNumber(ctx, tenantID)
		if err != nil {
			return nil, err
		}

		order, err := workshop.NewServiceOrder(tenantID, orderNumber, boat.ID, boat.ClientID, req.Description)
		if err != nil {
			return nil, err
		}

		if err := s.orderRepo.Save(ctx, order); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				continue
			}
			return nil, err
		}

		logger.L(ctx).Info("service order created",
			zap.String("order_id", order.ID.String()),
			zap.String("order_number", order.OrderNumber))
		return order, nil
	}
	return nil, shared.ErrConcurrencyConflict
}

// Get returns an order with its items and notes
func (s *OrderService) Get(ctx context.Context, orderID uuid.UUID) (*workshop.ServiceOrder, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
}

// List returns orders for the active tenant
func (s *OrderService) List(ctx context.Context, filter shared.Filter) ([]*workshop.ServiceOrder, int64, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.orderRepo.ListForTenant(ctx, tenantID, filter)
}

// AddItem adds a line item to an order and recomputes its total. Part
// items are priced from the catalog when the request leaves price or
// description empty.
func (s *OrderService) AddItem(ctx context.Context, orderID uuid.UUID, req AddItemRequest) (*workshop.ServiceOrder, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	itemType := workshop.ItemType(req.Type)
	description := req.Description
	unitPrice := req.UnitPrice

	if itemType == workshop.ItemTypePart {
		if req.PartID == nil {
			return nil, shared.NewDomainError("INVALID_PART", "Part items must reference a part")
		}
		part, err := s.partRepo.FindByIDForTenant(ctx, tenantID, *req.PartID)
		if err != nil {
			return nil, err
		}
		if description == "" {
			description = part.Name
		}
		if unitPrice.IsZero() {
			unitPrice = part.UnitPrice
		}
	}

	if _, err := order.AddItem(itemType, req.PartID, description, req.Quantity, unitPrice); err != nil {
		return nil, err
	}

	order.IncrementVersion()
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// RemoveItem removes a line item from an order
func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*workshop.ServiceOrder, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}

	order.IncrementVersion()
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// AddNote appends a note to an order, attributed to the acting user
func (s *OrderService) AddNote(ctx context.Context, orderID uuid.UUID, text string) (*workshop.ServiceOrder, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if _, err := order.AddNote(logger.GetUserName(ctx), text); err != nil {
		return nil, err
	}

	order.IncrementVersion()
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Start moves an order to IN_PROGRESS
func (s *OrderService) Start(ctx context.Context, orderID uuid.UUID) (*workshop.ServiceOrder, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Start(); err != nil {
		return nil, err
	}

	order.IncrementVersion()
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel moves an order to CANCELED. No inventory or ledger side effects:
// nothing was consumed yet.
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID) (*workshop.ServiceOrder, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(); err != nil {
		return nil, err
	}

	order.IncrementVersion()
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, notification.EventOrderCanceled, map[string]interface{}{
			"order_id":     order.ID.String(),
			"order_number": order.OrderNumber,
		})
	}
	return order, nil
}

// Complete finishes an order. In one transaction it re-reads the order,
// flips it to COMPLETED, writes an OUT_OS movement per part item with the
// stock decrement, and records the receivable in the financial ledger.
//
// Completing an already completed order is a no-op and returns the order
// unchanged; running it twice never doubles the stock decrement or the
// receivable, and only the first run publishes the completion event.
func (s *OrderService) Complete(ctx context.Context, orderID uuid.UUID) (*workshop.ServiceOrder, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var completed *workshop.ServiceOrder
	var transitioned bool
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}

		if order.IsCompleted() {
			completed = order
			return nil
		}
		if err := order.Complete(); err != nil {
			return err
		}

		for _, item := range order.PartItems() {
			if err := s.consumePart(ctx, repos, order, item); err != nil {
				return err
			}
		}

		receivable, err := finance.NewTransaction(
			tenantID,
			finance.TransactionIncome,
			finance.CategoryServices,
			order.OrderNumber,
			order.TotalValue,
			&order.ID,
		)
		if err != nil {
			return err
		}
		if err := repos.FinanceRepo().Save(ctx, receivable); err != nil {
			return err
		}

		order.IncrementVersion()
		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}

		completed = order
		transitioned = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	// A replayed completion took the no-op path; downstream automation
	// already heard about this order.
	if transitioned && s.notifier != nil {
		s.notifier.Notify(ctx, notification.EventOrderCompleted, map[string]interface{}{
			"order_id":     completed.ID.String(),
			"order_number": completed.OrderNumber,
			"total_value":  completed.TotalValue.String(),
		})
	}
	return completed, nil
}

// consumePart decrements stock for one part item and appends the ledger
// movement. A shortfall clamps the level at zero and is logged rather
// than blocking completion: the work already happened in the yard.
func (s *OrderService) consumePart(ctx context.Context, repos TransactionalRepositories, order *workshop.ServiceOrder, item workshop.ServiceItem) error {
	quantity := int(item.Quantity.Round(0).IntPart())
	if quantity <= 0 {
		return nil
	}

	part, err := repos.PartRepo().FindByIDForTenant(ctx, order.TenantID, *item.PartID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// The part was removed from the catalog after being quoted.
			// Complete the order anyway; there is no stock to settle.
			logger.L(ctx).Warn("order item references missing part",
				zap.String("order_id", order.ID.String()),
				zap.String("part_id", item.PartID.String()))
			return nil
		}
		return err
	}

	movement, err := inventory.NewStockMovement(
		order.TenantID,
		part.ID,
		inventory.MovementOutOS,
		quantity,
		&order.ID,
		order.OrderNumber,
		logger.GetUserName(ctx),
	)
	if err != nil {
		return err
	}

	if shortfall := part.Apply(movement); shortfall > 0 {
		logger.L(ctx).Warn("stock shortfall on order completion",
			zap.String("order_id", order.ID.String()),
			zap.String("part_id", part.ID.String()),
			zap.String("sku", part.SKU),
			zap.Int("shortfall", shortfall))
	}

	part.IncrementVersion()
	if err := repos.PartRepo().SaveWithLock(ctx, part); err != nil {
		return err
	}
	return repos.MovementRepo().Save(ctx, movement)
}
