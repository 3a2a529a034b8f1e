package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marealta/backend/internal/domain/inventory"
	"github.com/marealta/backend/internal/domain/shared"
	"github.com/marealta/backend/internal/infrastructure/persistence/models"
)

// GormStockMovementRepository implements inventory.StockMovementRepository
// using GORM. The ledger is append-only: this repository only inserts
// and reads.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Save inserts a stock movement
func (r *GormStockMovementRepository) Save(ctx context.Context, movement *inventory.StockMovement) error {
	var model models.StockMovementModel
	model.FromDomain(movement)
	return r.db.WithContext(ctx).Create(&model).Error
}

// ListByPartForTenant lists movements for one part, newest first
func (r *GormStockMovementRepository) ListByPartForTenant(ctx context.Context, tenantID, partID uuid.UUID, filter shared.Filter) ([]*inventory.StockMovement, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.StockMovementModel{}).
		Where("tenant_id = ? AND part_id = ?", tenantID, partID)

	return r.list(base, filter)
}

// ListForTenant lists all movements for a tenant, newest first
func (r *GormStockMovementRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*inventory.StockMovement, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.StockMovementModel{}).
		Where("tenant_id = ?", tenantID)

	if movementType, ok := filter.Filters["type"].(string); ok && movementType != "" {
		base = base.Where("type = ?", movementType)
	}

	return r.list(base, filter)
}

func (r *GormStockMovementRepository) list(base *gorm.DB, filter shared.Filter) ([]*inventory.StockMovement, int64, error) {
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var modelsList []models.StockMovementModel
	if err := applyFilter(base, filter, "created_at").Find(&modelsList).Error; err != nil {
		return nil, 0, err
	}

	movements := make([]*inventory.StockMovement, 0, len(modelsList))
	for i := range modelsList {
		movements = append(movements, modelsList[i].ToDomain())
	}
	return movements, total, nil
}
