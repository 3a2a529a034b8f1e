package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marealta/backend/internal/domain/finance"
	"github.com/marealta/backend/internal/domain/shared"
	"github.com/marealta/backend/internal/infrastructure/persistence/models"
)

// GormTransactionRepository implements finance.TransactionRepository
// using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *finance.Transaction) error {
	var model models.TransactionModel
	model.FromDomain(tx)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindByIDForTenant finds a transaction by ID within a tenant
func (r *GormTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Transaction, error) {
	var model models.TransactionModel
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

// ListForTenant lists transactions for a tenant with pagination
func (r *GormTransactionRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*finance.Transaction, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("tenant_id = ?", tenantID)

	if txType, ok := filter.Filters["type"].(string); ok && txType != "" {
		base = base.Where("type = ?", txType)
	}
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		base = base.Where("status = ?", status)
	}
	if category, ok := filter.Filters["category"].(string); ok && category != "" {
		base = base.Where("category = ?", category)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var modelsList []models.TransactionModel
	if err := applyFilter(base, filter, "created_at", "amount", "due_date").
		Find(&modelsList).Error; err != nil {
		return nil, 0, err
	}

	transactions := make([]*finance.Transaction, 0, len(modelsList))
	for i := range modelsList {
		transactions = append(transactions, modelsList[i].ToDomain())
	}
	return transactions, total, nil
}

// ListByReferenceForTenant lists transactions created for a given aggregate
func (r *GormTransactionRepository) ListByReferenceForTenant(ctx context.Context, tenantID, referenceID uuid.UUID) ([]*finance.Transaction, error) {
	var modelsList []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND reference_id = ?", tenantID, referenceID).
		Order("created_at ASC").
		Find(&modelsList).Error; err != nil {
		return nil, err
	}

	transactions := make([]*finance.Transaction, 0, len(modelsList))
	for i := range modelsList {
		transactions = append(transactions, modelsList[i].ToDomain())
	}
	return transactions, nil
}

// SummaryForTenant aggregates the ledger between two points in time.
// Canceled transactions are excluded.
func (r *GormTransactionRepository) SummaryForTenant(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*finance.Summary, error) {
	type row struct {
		Type   string
		Status string
		Total  decimal.Decimal
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Select("type, status, COALESCE(SUM(amount), 0) AS total").
		Where("tenant_id = ? AND status <> ? AND created_at >= ? AND created_at < ?",
			tenantID, string(finance.TransactionCanceled), from, to).
		Group("type, status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	summary := &finance.Summary{
		TotalIncome:   decimal.Zero,
		TotalExpense:  decimal.Zero,
		Balance:       decimal.Zero,
		PendingIncome: decimal.Zero,
	}

	for _, r := range rows {
		switch finance.TransactionType(r.Type) {
		case finance.TransactionIncome:
			summary.TotalIncome = summary.TotalIncome.Add(r.Total)
			if finance.TransactionStatus(r.Status) == finance.TransactionPending {
				summary.PendingIncome = summary.PendingIncome.Add(r.Total)
			}
		case finance.TransactionExpense:
			summary.TotalExpense = summary.TotalExpense.Add(r.Total)
		}
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)

	return summary, nil
}
