package fleet

import (
	"context"

	"github.com/google/uuid"

	"github.com/marealta/backend/internal/domain/shared"
)

// ClientRepository defines persistence for clients
type ClientRepository interface {
	Save(ctx context.Context, client *Client) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)
	ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Client, int64, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// BoatRepository defines persistence for boats
type BoatRepository interface {
	Save(ctx context.Context, boat *Boat) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Boat, error)
	ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Boat, int64, error)
	ListByClientForTenant(ctx context.Context, tenantID, clientID uuid.UUID) ([]*Boat, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
