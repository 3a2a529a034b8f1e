package fleet

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marealta/backend/internal/domain/fleet"
	"github.com/marealta/backend/internal/domain/shared"
	"github.com/marealta/backend/internal/infrastructure/logger"
)

// Service manages clients and their boats
type Service struct {
	clientRepo fleet.ClientRepository
	boatRepo   fleet.BoatRepository
}

// NewService creates a new fleet Service
func NewService(clientRepo fleet.ClientRepository, boatRepo fleet.BoatRepository) *Service {
	return &Service{clientRepo: clientRepo, boatRepo: boatRepo}
}

func tenantFromContext(ctx context.Context) (uuid.UUID, error) {
	tenantID := logger.GetTenantID(ctx)
	if tenantID == uuid.Nil {
		return uuid.Nil, shared.ErrTenantRequired
	}
	return tenantID, nil
}

// CreateClientRequest carries the input for registering a client
type CreateClientRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
	Address  string `json:"address"`
}

// CreateClient registers a new client
func (s *Service) CreateClient(ctx context.Context, req CreateClientRequest) (*fleet.Client, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	client, err := fleet.NewClient(tenantID, req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	client.Document = req.Document
	client.Address = req.Address

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetClient returns a client by ID
func (s *Service) GetClient(ctx context.Context, clientID uuid.UUID) (*fleet.Client, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
}

// ListClients lists clients for the active tenant
func (s *Service) ListClients(ctx context.Context, filter shared.Filter) ([]*fleet.Client, int64, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.clientRepo.ListForTenant(ctx, tenantID, filter)
}

// UpdateClientRequest carries the mutable client fields
type UpdateClientRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
	Address  string `json:"address"`
}

// UpdateClient replaces a client's contact details
func (s *Service) UpdateClient(ctx context.Context, clientID uuid.UUID, req UpdateClientRequest) (*fleet.Client, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	client.Name = req.Name
	client.Email = req.Email
	client.Phone = req.Phone
	client.Document = req.Document
	client.Address = req.Address
	client.Touch()

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient removes a client. Clients with registered boats cannot be
// removed; the boats carry service history.
func (s *Service) DeleteClient(ctx context.Context, clientID uuid.UUID) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}

	boats, err := s.boatRepo.ListByClientForTenant(ctx, tenantID, clientID)
	if err != nil {
		return err
	}
	if len(boats) > 0 {
		return shared.NewDomainError("CLIENT_HAS_BOATS", "Remove the client's boats first")
	}
	return s.clientRepo.DeleteForTenant(ctx, tenantID, clientID)
}

// CreateBoatRequest carries the input for registering a boat
type CreateBoatRequest struct {
	ClientID     uuid.UUID `json:"client_id" binding:"required"`
	Name         string    `json:"name" binding:"required"`
	Model        string    `json:"model"`
	LengthMeters float64   `json:"length_meters"`
	HullID       string    `json:"hull_id"`
	Marina       string    `json:"marina"`
}

// CreateBoat registers a boat under a client
func (s *Service) CreateBoat(ctx context.Context, req CreateBoatRequest) (*fleet.Boat, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, req.ClientID); err != nil {
		return nil, err
	}

	boat, err := fleet.NewBoat(tenantID, req.ClientID, req.Name, req.Model)
	if err != nil {
		return nil, err
	}
	boat.LengthMeters = req.LengthMeters
	boat.HullID = req.HullID
	boat.Marina = req.Marina

	if err := s.boatRepo.Save(ctx, boat); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("boat registered",
		zap.String("boat_id", boat.ID.String()),
		zap.String("client_id", boat.ClientID.String()))
	return boat, nil
}

// GetBoat returns a boat by ID
func (s *Service) GetBoat(ctx context.Context, boatID uuid.UUID) (*fleet.Boat, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.boatRepo.FindByIDForTenant(ctx, tenantID, boatID)
}

// ListBoats lists boats for the active tenant
func (s *Service) ListBoats(ctx context.Context, filter shared.Filter) ([]*fleet.Boat, int64, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.boatRepo.ListForTenant(ctx, tenantID, filter)
}

// ListBoatsByClient lists a client's boats
func (s *Service) ListBoatsByClient(ctx context.Context, clientID uuid.UUID) ([]*fleet.Boat, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.boatRepo.ListByClientForTenant(ctx, tenantID, clientID)
}

// DeleteBoat removes a boat
func (s *Service) DeleteBoat(ctx context.Context, boatID uuid.UUID) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	return s.boatRepo.DeleteForTenant(ctx, tenantID, boatID)
}
