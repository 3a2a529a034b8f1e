package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marealta/backend/internal/domain/shared"
	"github.com/marealta/backend/internal/domain/workshop"
	"github.com/marealta/backend/internal/infrastructure/persistence/models"
)

// GormServiceOrderRepository implements workshop.ServiceOrderRepository
// using GORM
type GormServiceOrderRepository struct {
	db *gorm.DB
}

// NewGormServiceOrderRepository creates a new GormServiceOrderRepository
func NewGormServiceOrderRepository(db *gorm.DB) *GormServiceOrderRepository {
	return &GormServiceOrderRepository{db: db}
}

// Save creates or fully replaces an order with its items and notes.
// Returns shared.ErrAlreadyExists when the order number is already taken
// within the tenant, so callers can regenerate and retry.
func (r *GormServiceOrderRepository) Save(ctx context.Context, order *workshop.ServiceOrder) error {
	var model models.ServiceOrderModel
	model.FromDomain(order)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("tenant_id = ? AND order_id = ?", order.TenantID, order.ID).
			Delete(&models.ServiceItemModel{}).Error; err != nil {
			return err
		}
		if err := tx.
			Where("tenant_id = ? AND order_id = ?", order.TenantID, order.ID).
			Delete(&models.OrderNoteModel{}).Error; err != nil {
			return err
		}
		if err := tx.Save(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}
		return nil
	})
}

// SaveWithLock persists the order header with an optimistic version check
// and replaces its items and notes. Returns shared.ErrConcurrencyConflict
// when another writer updated the order first.
func (r *GormServiceOrderRepository) SaveWithLock(ctx context.Context, order *workshop.ServiceOrder) error {
	var model models.ServiceOrderModel
	model.FromDomain(order)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ServiceOrderModel{}).
			Where("tenant_id = ? AND id = ? AND version = ?", order.TenantID, order.ID, order.Version-1).
			Updates(map[string]interface{}{
				"description":  order.Description,
				"status":       order.Status.String(),
				"total_value":  order.TotalValue,
				"started_at":   order.StartedAt,
				"completed_at": order.CompletedAt,
				"canceled_at":  order.CanceledAt,
				"version":      order.Version,
				"updated_at":   order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if err := tx.
			Where("tenant_id = ? AND order_id = ?", order.TenantID, order.ID).
			Delete(&models.ServiceItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) > 0 {
			if err := tx.Create(&model.Items).Error; err != nil {
				return err
			}
		}

		if err := tx.
			Where("tenant_id = ? AND order_id = ?", order.TenantID, order.ID).
			Delete(&models.OrderNoteModel{}).Error; err != nil {
			return err
		}
		if len(model.Notes) > 0 {
			if err := tx.Create(&model.Notes).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// FindByIDForTenant finds an order by ID within a tenant, with its items
// and notes loaded
func (r *GormServiceOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*workshop.ServiceOrder, error) {
	var model models.ServiceOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Notes").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumberForTenant finds an order by its number within a tenant
func (r *GormServiceOrderRepository) FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*workshop.ServiceOrder, error) {
	var model models.ServiceOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Notes").
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListForTenant lists orders for a tenant with pagination. Items are
// loaded; notes are not.
func (r *GormServiceOrderRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*workshop.ServiceOrder, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.ServiceOrderModel{}).
		Where("tenant_id = ?", tenantID)

	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		base = base.Where("status = ?", status)
	}
	if filter.Search != "" {
		base = base.Where("order_number ILIKE ? OR description ILIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var modelsList []models.ServiceOrderModel
	if err := applyFilter(base, filter, "created_at", "order_number", "status", "total_value").
		Preload("Items").
		Find(&modelsList).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*workshop.ServiceOrder, 0, len(modelsList))
	for i := range modelsList {
		orders = append(orders, modelsList[i].ToDomain())
	}
	return orders, total, nil
}

// ListByBoatForTenant lists all orders for a boat
func (r *GormServiceOrderRepository) ListByBoatForTenant(ctx context.Context, tenantID, boatID uuid.UUID) ([]*workshop.ServiceOrder, error) {
	var modelsList []models.ServiceOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND boat_id = ?", tenantID, boatID).
		Order("created_at DESC").
		Find(&modelsList).Error; err != nil {
		return nil, err
	}

	orders := make([]*workshop.ServiceOrder, 0, len(modelsList))
	for i := range modelsList {
		orders = append(orders, modelsList[i].ToDomain())
	}
	return orders, nil
}

// DeleteForTenant deletes an order and its items and notes within a tenant
func (r *GormServiceOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("tenant_id = ? AND order_id = ?", tenantID, id).
			Delete(&models.ServiceItemModel{}).Error; err != nil {
			return err
		}
		if err := tx.
			Where("tenant_id = ? AND order_id = ?", tenantID, id).
			Delete(&models.OrderNoteModel{}).Error; err != nil {
			return err
		}

		result := tx.
			Where("tenant_id = ? AND id = ?", tenantID, id).
			Delete(&models.ServiceOrderModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// NextOrderNumber generates the next sequential order number for the
// current year, e.g. OS-2026-0042.
func (r *GormServiceOrderRepository) NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	year := time.Now().Year()

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ServiceOrderModel{}).
		Where("tenant_id = ? AND order_number LIKE ?", tenantID, fmt.Sprintf("OS-%d-%%", year)).
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("OS-%d-%04d", year, count+1), nil
}
