package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marealta/backend/internal/domain/shared"
)

// Part is an inventory item tracked per tenant. QuantityInStock is only
// ever changed by applying a stock movement; it never goes below zero.
type Part struct {
	shared.TenantAggregateRoot
	SKU             string
	Name            string
	Description     string
	UnitPrice       decimal.Decimal
	CostPrice       decimal.Decimal
	QuantityInStock int
	MinimumStock    int
	Location        string
}

// NewPart creates a new part with zero stock
func NewPart(tenantID uuid.UUID, sku, name string, unitPrice, costPrice decimal.Decimal) (*Part, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Part SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Part name cannot be empty")
	}
	if unitPrice.IsNegative() || costPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Part prices cannot be negative")
	}

	return &Part{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 sku,
		Name:                name,
		UnitPrice:           unitPrice,
		CostPrice:           costPrice,
	}, nil
}

// Apply adjusts the stock level by the movement's signed effect. Decrements
// that would drive the level negative clamp at zero; the caller decides
// whether a shortfall is acceptable and logs it.
func (p *Part) Apply(movement *StockMovement) (shortfall int) {
	delta := movement.SignedQuantity()
	next := p.QuantityInStock + delta
	if next < 0 {
		shortfall = -next
		next = 0
	}
	p.QuantityInStock = next
	p.Touch()
	return shortfall
}

// HasStock reports whether at least quantity units are available
func (p *Part) HasStock(quantity int) bool {
	return p.QuantityInStock >= quantity
}

// BelowMinimum reports whether the stock level dropped under the reorder point
func (p *Part) BelowMinimum() bool {
	return p.MinimumStock > 0 && p.QuantityInStock < p.MinimumStock
}
