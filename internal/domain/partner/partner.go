package partner

import (
	"github.com/google/uuid"

	"github.com/marealta/backend/internal/domain/shared"
)

// Partner is an external service provider (electrician, painter, sailmaker)
// a workshop dispatches work to. Rating is the running mean of all scores
// ever given; TotalJobs counts the ratings received.
type Partner struct {
	shared.TenantAggregateRoot
	Name      string
	Specialty string
	Phone     string
	Email     string
	Rating    float64
	TotalJobs int
	Active    bool
}

// NewPartner creates a new unrated partner
func NewPartner(tenantID uuid.UUID, name, specialty string) (*Partner, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Partner name cannot be empty")
	}

	return &Partner{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Specialty:           specialty,
		Active:              true,
	}, nil
}

// Rate folds a new score into the running mean and bumps the job count.
// The first rating replaces the zero value outright so an unrated partner
// does not start from an artificial 0 average.
func (p *Partner) Rate(score float64) error {
	if score < 0 || score > 5 {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 0 and 5")
	}

	if p.TotalJobs == 0 {
		p.Rating = score
	} else {
		p.Rating = (p.Rating*float64(p.TotalJobs) + score) / float64(p.TotalJobs+1)
	}
	p.TotalJobs++
	p.Touch()
	return nil
}

// Deactivate hides the partner from dispatch without losing its history
func (p *Partner) Deactivate() {
	p.Active = false
	p.Touch()
}

// Activate makes the partner available for dispatch again
func (p *Partner) Activate() {
	p.Active = true
	p.Touch()
}
