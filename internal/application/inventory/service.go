package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appworkshop "github.com/marealta/backend/internal/application/workshop"
	"github.com/marealta/backend/internal/domain/finance"
	"github.com/marealta/backend/internal/domain/identity"
	"github.com/marealta/backend/internal/domain/inventory"
	"github.com/marealta/backend/internal/domain/shared"
	"github.com/marealta/backend/internal/infrastructure/logger"
	"github.com/marealta/backend/internal/infrastructure/notification"
)

// maxMovementRetries bounds the retry loop on optimistic lock conflicts
const maxMovementRetries = 3

// technicianDiscountCap is the largest discount a technician may grant
// on a counter sale. Admins are not capped.
var technicianDiscountCap = decimal.NewFromInt(10)

// Service manages the parts catalog and the stock movement ledger.
// Every stock level change goes through ApplyMovement or QuickSale;
// nothing writes quantity_in_stock directly.
type Service struct {
	scope        appworkshop.TransactionScope
	partRepo     inventory.PartRepository
	movementRepo inventory.StockMovementRepository
	notifier     appworkshop.Notifier
}

// NewService creates a new inventory Service
func NewService(
	scope appworkshop.TransactionScope,
	partRepo inventory.PartRepository,
	movementRepo inventory.StockMovementRepository,
	notifier appworkshop.Notifier,
) *Service {
	return &Service{
		scope:        scope,
		partRepo:     partRepo,
		movementRepo: movementRepo,
		notifier:     notifier,
	}
}

func tenantFromContext(ctx context.Context) (uuid.UUID, error) {
	tenantID := logger.GetTenantID(ctx)
	if tenantID == uuid.Nil {
		return uuid.Nil, shared.ErrTenantRequired
	}
	return tenantID, nil
}

// CreatePartRequest carries the input for creating a part
type CreatePartRequest struct {
	SKU          string          `json:"sku" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	MinimumStock int             `json:"minimum_stock"`
	Location     string          `json:"location"`
}

// CreatePart adds a part to the catalog with zero stock. Initial stock
// arrives through an IN_INVOICE or ADJUSTMENT_PLUS movement.
func (s *Service) CreatePart(ctx context.Context, req CreatePartRequest) (*inventory.Part, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.partRepo.FindBySKUForTenant(ctx, tenantID, req.SKU); err == nil {
		return nil, shared.NewDomainError("SKU_TAKEN", "A part with this SKU already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	part, err := inventory.NewPart(tenantID, req.SKU, req.Name, req.UnitPrice, req.CostPrice)
	if err != nil {
		return nil, err
	}
	part.Description = req.Description
	part.MinimumStock = req.MinimumStock
	part.Location = req.Location

	if err := s.partRepo.Save(ctx, part); err != nil {
		return nil, err
	}
	return part, nil
}

// GetPart returns a part by ID
func (s *Service) GetPart(ctx context.Context, partID uuid.UUID) (*inventory.Part, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.partRepo.FindByIDForTenant(ctx, tenantID, partID)
}

// ListParts lists the catalog for the active tenant
func (s *Service) ListParts(ctx context.Context, filter shared.Filter) ([]*inventory.Part, int64, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.partRepo.ListForTenant(ctx, tenantID, filter)
}

// ListLowStock lists parts under their reorder point
func (s *Service) ListLowStock(ctx context.Context) ([]*inventory.Part, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.partRepo.ListBelowMinimumForTenant(ctx, tenantID)
}

// MovementRequest carries the input for a manual stock movement
type MovementRequest struct {
	PartID   uuid.UUID `json:"part_id" binding:"required"`
	Type     string    `json:"type" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,gt=0"`
	Reason   string    `json:"reason"`
}

// ApplyMovement records a stock movement and adjusts the part's level.
// On an optimistic lock conflict it re-reads the part and retries, so
// two concurrent movements both land and neither decrement is lost.
func (s *Service) ApplyMovement(ctx context.Context, req MovementRequest) (*inventory.StockMovement, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	movementType := inventory.MovementType(req.Type)
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown stock movement type")
	}

	var saved *inventory.StockMovement
	for attempt := 0; attempt < maxMovementRetries; attempt++ {
		err = s.scope.Execute(ctx, func(repos appworkshop.TransactionalRepositories) error {
			part, err := repos.PartRepo().FindByIDForTenant(ctx, tenantID, req.PartID)
			if err != nil {
				return err
			}

			movement, err := inventory.NewStockMovement(
				tenantID, part.ID, movementType, req.Quantity,
				nil, req.Reason, logger.GetUserName(ctx),
			)
			if err != nil {
				return err
			}

			if shortfall := part.Apply(movement); shortfall > 0 {
				logger.L(ctx).Warn("stock movement clamped at zero",
					zap.String("part_id", part.ID.String()),
					zap.String("type", req.Type),
					zap.Int("shortfall", shortfall))
			}

			part.IncrementVersion()
			if err := repos.PartRepo().SaveWithLock(ctx, part); err != nil {
				return err
			}
			if err := repos.MovementRepo().Save(ctx, movement); err != nil {
				return err
			}

			saved = movement
			s.notifyLowStock(ctx, part)
			return nil
		})
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// ListMovements lists the movement ledger for a part, newest first
func (s *Service) ListMovements(ctx context.Context, partID uuid.UUID, filter shared.Filter) ([]*inventory.StockMovement, int64, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.movementRepo.ListByPartForTenant(ctx, tenantID, partID, filter)
}

// QuickSaleLine is one part line of a counter sale
type QuickSaleLine struct {
	PartID   uuid.UUID `json:"part_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,gt=0"`
}

// QuickSaleRequest carries the input for a counter sale
type QuickSaleRequest struct {
	Lines           []QuickSaleLine `json:"lines" binding:"required,min=1,dive"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Description     string          `json:"description"`
}

// QuickSaleResult is the outcome of a counter sale
type QuickSaleResult struct {
	Movements   []*inventory.StockMovement `json:"movements"`
	Transaction *finance.Transaction       `json:"transaction"`
	Total       decimal.Decimal            `json:"total"`
}

// QuickSale sells parts over the counter. Unlike order completion it
// refuses to oversell: demand is aggregated per part and validated
// against current stock before anything is written, so repeating a part
// across lines counts its combined quantity. The sale decrements stock
// with one SALE_DIRECT movement per line and records a paid income
// transaction.
func (s *Service) QuickSale(ctx context.Context, req QuickSaleRequest) (*QuickSaleResult, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("INVALID_SALE", "A sale needs at least one line")
	}

	discount := req.DiscountPercent
	if discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100 percent")
	}
	if logger.GetUserRole(ctx) == string(identity.RoleTechnician) && discount.GreaterThan(technicianDiscountCap) {
		return nil, shared.NewDomainError("DISCOUNT_NOT_ALLOWED", "Technicians may grant at most 10% discount")
	}

	// Two lines may name the same part. Each part is fetched and written
	// once, with its lines applied to the single instance in between.
	demand := make(map[uuid.UUID]int, len(req.Lines))
	partIDs := make([]uuid.UUID, 0, len(req.Lines))
	for _, line := range req.Lines {
		if _, seen := demand[line.PartID]; !seen {
			partIDs = append(partIDs, line.PartID)
		}
		demand[line.PartID] += line.Quantity
	}

	var result *QuickSaleResult
	err = s.scope.Execute(ctx, func(repos appworkshop.TransactionalRepositories) error {
		total := decimal.Zero
		parts := make(map[uuid.UUID]*inventory.Part, len(partIDs))

		for _, partID := range partIDs {
			part, err := repos.PartRepo().FindByIDForTenant(ctx, tenantID, partID)
			if err != nil {
				return err
			}
			if !part.HasStock(demand[partID]) {
				return shared.ErrInsufficientStock
			}
			parts[partID] = part
			total = total.Add(part.UnitPrice.Mul(decimal.NewFromInt(int64(demand[partID]))))
		}

		movements := make([]*inventory.StockMovement, 0, len(req.Lines))
		for _, line := range req.Lines {
			part := parts[line.PartID]
			movement, err := inventory.NewStockMovement(
				tenantID, part.ID, inventory.MovementSaleDirect, line.Quantity,
				nil, req.Description, logger.GetUserName(ctx),
			)
			if err != nil {
				return err
			}

			part.Apply(movement)
			if err := repos.MovementRepo().Save(ctx, movement); err != nil {
				return err
			}
			movements = append(movements, movement)
		}

		for _, partID := range partIDs {
			part := parts[partID]
			part.IncrementVersion()
			if err := repos.PartRepo().SaveWithLock(ctx, part); err != nil {
				return err
			}
		}

		if discount.IsPositive() {
			total = total.Mul(decimal.NewFromInt(100).Sub(discount)).Div(decimal.NewFromInt(100))
		}
		total = total.Round(2)

		sale, err := finance.NewTransaction(
			tenantID, finance.TransactionIncome, finance.CategoryPartSales,
			req.Description, total, nil,
		)
		if err != nil {
			return err
		}
		if err := sale.MarkPaid(); err != nil {
			return err
		}
		if err := repos.FinanceRepo().Save(ctx, sale); err != nil {
			return err
		}

		result = &QuickSaleResult{Movements: movements, Transaction: sale, Total: total}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, notification.EventQuickSale, map[string]interface{}{
			"total": result.Total.String(),
			"lines": len(result.Movements),
		})
	}
	return result, nil
}

// notifyLowStock fires a low stock event when a movement leaves the part
// under its reorder point
func (s *Service) notifyLowStock(ctx context.Context, part *inventory.Part) {
	if s.notifier == nil || !part.BelowMinimum() {
		return
	}
	s.notifier.Notify(ctx, notification.EventLowStock, map[string]interface{}{
		"part_id":  part.ID.String(),
		"sku":      part.SKU,
		"quantity": part.QuantityInStock,
		"minimum":  part.MinimumStock,
	})
}
