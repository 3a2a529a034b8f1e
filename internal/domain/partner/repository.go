package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/marealta/backend/internal/domain/shared"
)

// PartnerRepository defines persistence for partners
type PartnerRepository interface {
	Save(ctx context.Context, partner *Partner) error
	// SaveWithLock persists the partner with an optimistic version check so
	// concurrent ratings cannot silently drop each other's updates.
	SaveWithLock(ctx context.Context, partner *Partner) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Partner, error)
	ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Partner, int64, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
