package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marealta/backend/internal/domain/shared"
)

// Summary aggregates the ledger over a period
type Summary struct {
	TotalIncome   decimal.Decimal
	TotalExpense  decimal.Decimal
	Balance       decimal.Decimal
	PendingIncome decimal.Decimal
}

// TransactionRepository defines persistence for financial transactions
type TransactionRepository interface {
	Save(ctx context.Context, tx *Transaction) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Transaction, error)
	ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Transaction, int64, error)
	ListByReferenceForTenant(ctx context.Context, tenantID, referenceID uuid.UUID) ([]*Transaction, error)
	SummaryForTenant(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*Summary, error)
}
