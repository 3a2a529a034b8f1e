package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marealta/backend/internal/domain/fleet"
	"github.com/marealta/backend/internal/domain/shared"
	"github.com/marealta/backend/internal/infrastructure/persistence/models"
)

// GormClientRepository implements fleet.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *fleet.Client) error {
	var model models.ClientModel
	model.FromDomain(client)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindByIDForTenant finds a client by ID within a tenant
func (r *GormClientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fleet.Client, error) {
	var model models.ClientModel
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

// ListForTenant lists clients for a tenant with pagination
func (r *GormClientRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*fleet.Client, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.ClientModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		base = base.Where("name ILIKE ? OR email ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var modelsList []models.ClientModel
	if err := applyFilter(base, filter, "created_at", "name").
		Find(&modelsList).Error; err != nil {
		return nil, 0, err
	}

	clients := make([]*fleet.Client, 0, len(modelsList))
	for i := range modelsList {
		clients = append(clients, modelsList[i].ToDomain())
	}
	return clients, total, nil
}

// DeleteForTenant deletes a client within a tenant
func (r *GormClientRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.ClientModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormBoatRepository implements fleet.BoatRepository using GORM
type GormBoatRepository struct {
	db *gorm.DB
}

// NewGormBoatRepository creates a new GormBoatRepository
func NewGormBoatRepository(db *gorm.DB) *GormBoatRepository {
	return &GormBoatRepository{db: db}
}

// Save creates or updates a boat
func (r *GormBoatRepository) Save(ctx context.Context, boat *fleet.Boat) error {
	var model models.BoatModel
	model.FromDomain(boat)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindByIDForTenant finds a boat by ID within a tenant
func (r *GormBoatRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fleet.Boat, error) {
	var model models.BoatModel
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

// ListForTenant lists boats for a tenant with pagination
func (r *GormBoatRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*fleet.Boat, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.BoatModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		base = base.Where("name ILIKE ? OR model ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var modelsList []models.BoatModel
	if err := applyFilter(base, filter, "created_at", "name").
		Find(&modelsList).Error; err != nil {
		return nil, 0, err
	}

	boats := make([]*fleet.Boat, 0, len(modelsList))
	for i := range modelsList {
		boats = append(boats, modelsList[i].ToDomain())
	}
	return boats, total, nil
}

// ListByClientForTenant lists all boats belonging to a client
func (r *GormBoatRepository) ListByClientForTenant(ctx context.Context, tenantID, clientID uuid.UUID) ([]*fleet.Boat, error) {
	var modelsList []models.BoatModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		Order("name ASC").
		Find(&modelsList).Error; err != nil {
		return nil, err
	}

	boats := make([]*fleet.Boat, 0, len(modelsList))
	for i := range modelsList {
		boats = append(boats, modelsList[i].ToDomain())
	}
	return boats, nil
}

// DeleteForTenant deletes a boat within a tenant
func (r *GormBoatRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.BoatModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
