package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marealta/backend/internal/domain/partner"
	"github.com/marealta/backend/internal/domain/shared"
	"github.com/marealta/backend/internal/infrastructure/logger"
)

// maxRateRetries bounds the retry loop on optimistic lock conflicts
const maxRateRetries = 3

// Service manages external service partners and their ratings
type Service struct {
	repo partner.PartnerRepository
}

// NewService creates a new partner Service
func NewService(repo partner.PartnerRepository) *Service {
	return &Service{repo: repo}
}

func tenantFromContext(ctx context.Context) (uuid.UUID, error) {
	tenantID := logger.GetTenantID(ctx)
	if tenantID == uuid.Nil {
		return uuid.Nil, shared.ErrTenantRequired
	}
	return tenantID, nil
}

// CreateRequest carries the input for registering a partner
type CreateRequest struct {
	Name      string `json:"name" binding:"required"`
	Specialty string `json:"specialty"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// Create registers a new partner
func (s *Service) Create(ctx context.Context, req CreateRequest) (*partner.Partner, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	p, err := partner.NewPartner(tenantID, req.Name, req.Specialty)
	if err != nil {
		return nil, err
	}
	p.Phone = req.Phone
	p.Email = req.Email

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a partner by ID
func (s *Service) Get(ctx context.Context, partnerID uuid.UUID) (*partner.Partner, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByIDForTenant(ctx, tenantID, partnerID)
}

// List returns partners for the active tenant
func (s *Service) List(ctx context.Context, filter shared.Filter) ([]*partner.Partner, int64, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListForTenant(ctx, tenantID, filter)
}

// Rate folds a score into the partner's running mean. On an optimistic
// lock conflict it re-reads and retries so concurrent ratings all land
// in the average.
func (s *Service) Rate(ctx context.Context, partnerID uuid.UUID, score float64) (*partner.Partner, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rated *partner.Partner
	for attempt := 0; attempt < maxRateRetries; attempt++ {
		p, findErr := s.repo.FindByIDForTenant(ctx, tenantID, partnerID)
		if findErr != nil {
			return nil, findErr
		}
		if err = p.Rate(score); err != nil {
			return nil, err
		}

		p.IncrementVersion()
		err = s.repo.SaveWithLock(ctx, p)
		if err == nil {
			rated = p
			break
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		logger.L(ctx).Debug("retrying partner rating after conflict",
			zap.String("partner_id", partnerID.String()),
			zap.Int("attempt", attempt+1))
	}
	if err != nil {
		return nil, err
	}
	return rated, nil
}

// Deactivate hides a partner from dispatch
func (s *Service) Deactivate(ctx context.Context, partnerID uuid.UUID) (*partner.Partner, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.FindByIDForTenant(ctx, tenantID, partnerID)
	if err != nil {
		return nil, err
	}
	p.Deactivate()

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Activate makes a partner available again
func (s *Service) Activate(ctx context.Context, partnerID uuid.UUID) (*partner.Partner, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.FindByIDForTenant(ctx, tenantID, partnerID)
	if err != nil {
		return nil, err
	}
	p.Activate()

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
