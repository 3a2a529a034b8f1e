package workshop

import (
	"context"

	"github.com/google/uuid"

	"github.com/marealta/backend/internal/domain/shared"
)

// ServiceOrderRepository defines persistence for service orders. Every
// lookup takes the owning tenant's ID explicitly; an order belonging to
// another tenant is indistinguishable from a missing one.
type ServiceOrderRepository interface {
	Save(ctx context.Context, order *ServiceOrder) error
	// SaveWithLock persists the order with an optimistic version check and
	// returns shared.ErrConcurrencyConflict if another writer got there first.
	SaveWithLock(ctx context.Context, order *ServiceOrder) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ServiceOrder, error)
	FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*ServiceOrder, error)
	ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*ServiceOrder, int64, error)
	ListByBoatForTenant(ctx context.Context, tenantID, boatID uuid.UUID) ([]*ServiceOrder, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
