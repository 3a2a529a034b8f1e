package persistence

import (
	"context"

	"gorm.io/gorm"

	appworkshop "github.com/marealta/backend/internal/application/workshop"
	"github.com/marealta/backend/internal/domain/finance"
	"github.com/marealta/backend/internal/domain/inventory"
	"github.com/marealta/backend/internal/domain/workshop"
)

// GormTransactionScope implements the workflow transaction scope over a
// GORM transaction. Every repository handed to the callback shares the
// same tx handle.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appworkshop.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txRepositories{tx: tx})
	})
}

type txRepositories struct {
	tx *gorm.DB
}

func (r *txRepositories) OrderRepo() workshop.ServiceOrderRepository {
	return NewGormServiceOrderRepository(r.tx)
}

func (r *txRepositories) PartRepo() inventory.PartRepository {
	return NewGormPartRepository(r.tx)
}

func (r *txRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *txRepositories) FinanceRepo() finance.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

var _ appworkshop.TransactionScope = (*GormTransactionScope)(nil)
