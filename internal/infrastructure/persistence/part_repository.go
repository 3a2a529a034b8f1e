package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marealta/backend/internal/domain/inventory"
	"github.com/marealta/backend/internal/domain/shared"
	"github.com/marealta/backend/internal/infrastructure/persistence/models"
)

// GormPartRepository implements inventory.PartRepository using GORM
type GormPartRepository struct {
	db *gorm.DB
}

// NewGormPartRepository creates a new GormPartRepository
func NewGormPartRepository(db *gorm.DB) *GormPartRepository {
	return &GormPartRepository{db: db}
}

// Save creates or updates a part
func (r *GormPartRepository) Save(ctx context.Context, part *inventory.Part) error {
	var model models.PartModel
	model.FromDomain(part)
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves the part with an optimistic version check
func (r *GormPartRepository) SaveWithLock(ctx context.Context, part *inventory.Part) error {
	result := r.db.WithContext(ctx).
		Model(&models.PartModel{}).
		Where("tenant_id = ? AND id = ? AND version = ?", part.TenantID, part.ID, part.Version-1).
		Updates(map[string]interface{}{
			"quantity_in_stock": part.QuantityInStock,
			"unit_price":        part.UnitPrice,
			"cost_price":        part.CostPrice,
			"minimum_stock":     part.MinimumStock,
			"location":          part.Location,
			"version":           part.Version,
			"updated_at":        part.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByIDForTenant finds a part by ID within a tenant
func (r *GormPartRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Part, error) {
	var model models.PartModel
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

// FindBySKUForTenant finds a part by SKU within a tenant
func (r *GormPartRepository) FindBySKUForTenant(ctx context.Context, tenantID uuid.UUID, sku string) (*inventory.Part, error) {
	var model models.PartModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sku = ?", tenantID, sku).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListForTenant lists parts for a tenant with pagination
func (r *GormPartRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*inventory.Part, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.PartModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		base = base.Where("name ILIKE ? OR sku ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var modelsList []models.PartModel
	if err := applyFilter(base, filter, "created_at", "name", "sku", "quantity_in_stock").
		Find(&modelsList).Error; err != nil {
		return nil, 0, err
	}

	parts := make([]*inventory.Part, 0, len(modelsList))
	for i := range modelsList {
		parts = append(parts, modelsList[i].ToDomain())
	}
	return parts, total, nil
}

// ListBelowMinimumForTenant lists parts under their reorder point
func (r *GormPartRepository) ListBelowMinimumForTenant(ctx context.Context, tenantID uuid.UUID) ([]*inventory.Part, error) {
	var modelsList []models.PartModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND minimum_stock > 0 AND quantity_in_stock < minimum_stock", tenantID).
		Order("name ASC").
		Find(&modelsList).Error; err != nil {
		return nil, err
	}

	parts := make([]*inventory.Part, 0, len(modelsList))
	for i := range modelsList {
		parts = append(parts, modelsList[i].ToDomain())
	}
	return parts, nil
}

// DeleteForTenant deletes a part within a tenant
func (r *GormPartRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.PartModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
