package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/marealta/backend/internal/domain/shared"
)

// PartRepository defines persistence for inventory parts
type PartRepository interface {
	Save(ctx context.Context, part *Part) error
	// SaveWithLock persists the part with an optimistic version check and
	// returns shared.ErrConcurrencyConflict when the version moved.
	SaveWithLock(ctx context.Context, part *Part) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Part, error)
	FindBySKUForTenant(ctx context.Context, tenantID uuid.UUID, sku string) (*Part, error)
	ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Part, int64, error)
	ListBelowMinimumForTenant(ctx context.Context, tenantID uuid.UUID) ([]*Part, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// StockMovementRepository persists the append-only movement ledger
type StockMovementRepository interface {
	Save(ctx context.Context, movement *StockMovement) error
	ListByPartForTenant(ctx context.Context, tenantID, partID uuid.UUID, filter shared.Filter) ([]*StockMovement, int64, error)
	ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*StockMovement, int64, error)
}
