package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/marealta/backend/internal/domain/shared"
)

// MovementType identifies why stock changed. Each type has a fixed
// direction; quantities are stored positive and the type determines
// the sign applied to the stock level.
type MovementType string

const (
	// MovementInInvoice is stock received from a supplier invoice.
	MovementInInvoice MovementType = "IN_INVOICE"
	// MovementReturnOS is stock returned from a service order.
	MovementReturnOS MovementType = "RETURN_OS"
	// MovementAdjustmentPlus is a manual upward correction.
	MovementAdjustmentPlus MovementType = "ADJUSTMENT_PLUS"
	// MovementOutOS is stock consumed by completing a service order.
	MovementOutOS MovementType = "OUT_OS"
	// MovementAdjustmentMinus is a manual downward correction.
	MovementAdjustmentMinus MovementType = "ADJUSTMENT_MINUS"
	// MovementSaleDirect is stock sold over the counter.
	MovementSaleDirect MovementType = "SALE_DIRECT"
)

// IsValid checks if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementInInvoice, MovementReturnOS, MovementAdjustmentPlus,
		MovementOutOS, MovementAdjustmentMinus, MovementSaleDirect:
		return true
	}
	return false
}

// Direction returns +1 for movements that increase stock and -1 for
// movements that decrease it.
func (t MovementType) Direction() int {
	switch t {
	case MovementInInvoice, MovementReturnOS, MovementAdjustmentPlus:
		return 1
	case MovementOutOS, MovementAdjustmentMinus, MovementSaleDirect:
		return -1
	}
	return 0
}

// StockMovement is an immutable ledger entry recording a single stock
// change. Movements are never updated or deleted; corrections are made
// with compensating adjustment movements.
type StockMovement struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	PartID      uuid.UUID
	Type        MovementType
	Quantity    int
	ReferenceID *uuid.UUID
	Reason      string
	CreatedBy   string
	CreatedAt   time.Time
}

// NewStockMovement creates a new stock movement. Quantity is always the
// positive magnitude; direction comes from the type.
func NewStockMovement(tenantID, partID uuid.UUID, movementType MovementType, quantity int, referenceID *uuid.UUID, reason, createdBy string) (*StockMovement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown stock movement type")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity must be positive")
	}
	if partID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PART", "Movement must reference a part")
	}

	return &StockMovement{
		ID:          uuid.New(),
		TenantID:    tenantID,
		PartID:      partID,
		Type:        movementType,
		Quantity:    quantity,
		ReferenceID: referenceID,
		Reason:      reason,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
	}, nil
}

// SignedQuantity returns the movement's effect on the stock level
func (m *StockMovement) SignedQuantity() int {
	return m.Type.Direction() * m.Quantity
}

// IsInbound reports whether the movement increases stock
func (m *StockMovement) IsInbound() bool {
	return m.Type.Direction() > 0
}
