package identity

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository defines persistence for tenants. Tenants themselves are
// not tenant-scoped; they are the scope.
type TenantRepository interface {
	Save(ctx context.Context, tenant *Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*Tenant, error)
}

// UserRepository defines persistence for users. Login looks a user up by
// email across tenants; everything else stays inside one tenant.
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]*User, error)
}
