package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marealta/backend/internal/domain/partner"
	"github.com/marealta/backend/internal/domain/shared"
	"github.com/marealta/backend/internal/infrastructure/persistence/models"
)

// GormPartnerRepository implements partner.PartnerRepository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// Save creates or updates a partner
func (r *GormPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	var model models.PartnerModel
	model.FromDomain(p)
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves the partner with an optimistic version check.
// Concurrent ratings retry on shared.ErrConcurrencyConflict rather than
// overwrite each other's running mean.
func (r *GormPartnerRepository) SaveWithLock(ctx context.Context, p *partner.Partner) error {
	result := r.db.WithContext(ctx).
		Model(&models.PartnerModel{}).
		Where("tenant_id = ? AND id = ? AND version = ?", p.TenantID, p.ID, p.Version-1).
		Updates(map[string]interface{}{
			"name":       p.Name,
			"specialty":  p.Specialty,
			"phone":      p.Phone,
			"email":      p.Email,
			"rating":     p.Rating,
			"total_jobs": p.TotalJobs,
			"active":     p.Active,
			"version":    p.Version,
			"updated_at": p.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByIDForTenant finds a partner by ID within a tenant
func (r *GormPartnerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Partner, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListForTenant lists partners for a tenant with pagination
func (r *GormPartnerRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*partner.Partner, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.PartnerModel{}).
		Where("tenant_id = ?", tenantID)

	if specialty, ok := filter.Filters["specialty"].(string); ok && specialty != "" {
		base = base.Where("specialty = ?", specialty)
	}
	if active, ok := filter.Filters["active"].(bool); ok {
		base = base.Where("active = ?", active)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var modelsList []models.PartnerModel
	if err := applyFilter(base, filter, "created_at", "name", "rating", "total_jobs").
		Find(&modelsList).Error; err != nil {
		return nil, 0, err
	}

	partners := make([]*partner.Partner, 0, len(modelsList))
	for i := range modelsList {
		partners = append(partners, modelsList[i].ToDomain())
	}
	return partners, total, nil
}

// DeleteForTenant deletes a partner within a tenant
func (r *GormPartnerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.PartnerModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
