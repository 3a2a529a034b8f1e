package identity

import (
	"regexp"

	"github.com/marealta/backend/internal/domain/shared"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Tenant is a workshop account. All business data hangs off a tenant and
// is invisible to every other tenant.
type Tenant struct {
	shared.BaseAggregateRoot
	Name   string
	Slug   string
	Active bool
}

// NewTenant creates a new active tenant
func NewTenant(name, slug string) (*Tenant, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	if !slugPattern.MatchString(slug) {
		return nil, shared.NewDomainError("INVALID_SLUG", "Tenant slug must be lowercase letters, digits and hyphens")
	}

	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Active:            true,
	}, nil
}

// Deactivate suspends the tenant; its users can no longer sign in
func (t *Tenant) Deactivate() {
	t.Active = false
	t.Touch()
}
