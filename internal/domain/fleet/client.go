package fleet

import (
	"github.com/google/uuid"

	"github.com/marealta/backend/internal/domain/shared"
)

// Client is a boat owner the workshop serves
type Client struct {
	shared.TenantAggregateRoot
	Name     string
	Email    string
	Phone    string
	Document string
	Address  string
}

// NewClient creates a new client
func NewClient(tenantID uuid.UUID, name, email, phone string) (*Client, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}

	return &Client{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Email:               email,
		Phone:               phone,
	}, nil
}

// Boat is a vessel owned by a client. Service orders reference the boat
// being worked on.
type Boat struct {
	shared.TenantAggregateRoot
	ClientID     uuid.UUID
	Name         string
	Model        string
	LengthMeters float64
	HullID       string
	Marina       string
}

// NewBoat registers a boat under a client
func NewBoat(tenantID, clientID uuid.UUID, name, model string) (*Boat, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Boat must belong to a client")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Boat name cannot be empty")
	}

	return &Boat{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		Name:                name,
		Model:               model,
	}, nil
}
