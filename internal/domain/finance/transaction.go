package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marealta/backend/internal/domain/shared"
)

// TransactionType distinguishes money coming in from money going out
type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

// IsValid checks if the transaction type is known
func (t TransactionType) IsValid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// TransactionStatus tracks settlement of a financial transaction
type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "PENDING"
	TransactionPaid     TransactionStatus = "PAID"
	TransactionCanceled TransactionStatus = "CANCELED"
)

// IsValid checks if the status is known
func (s TransactionStatus) IsValid() bool {
	return s == TransactionPending || s == TransactionPaid || s == TransactionCanceled
}

// Well-known transaction categories written by the workflows. Users may
// also record transactions under free-form categories.
const (
	CategoryServices  = "Serviços"
	CategoryPartSales = "VENDAS_PECAS"
)

// Transaction is a financial ledger entry. Entries created by workflows
// carry a ReferenceID pointing at the originating aggregate so receivables
// can be traced back to the order or sale that produced them.
type Transaction struct {
	shared.TenantAggregateRoot
	Type        TransactionType
	Category    string
	Description string
	Amount      decimal.Decimal
	Status      TransactionStatus
	ReferenceID *uuid.UUID
	DueDate     *time.Time
	PaidAt      *time.Time
}

// NewTransaction creates a new pending transaction
func NewTransaction(tenantID uuid.UUID, txType TransactionType, category, description string, amount decimal.Decimal, referenceID *uuid.UUID) (*Transaction, error) {
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Transaction type must be INCOME or EXPENSE")
	}
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Transaction category cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount cannot be negative")
	}

	return &Transaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Type:                txType,
		Category:            category,
		Description:         description,
		Amount:              amount.Round(2),
		Status:              TransactionPending,
		ReferenceID:         referenceID,
	}, nil
}

// MarkPaid settles the transaction
func (t *Transaction) MarkPaid() error {
	if t.Status == TransactionCanceled {
		return shared.NewDomainError("INVALID_STATE", "Cannot pay a canceled transaction")
	}
	if t.Status == TransactionPaid {
		return nil
	}

	now := time.Now()
	t.Status = TransactionPaid
	t.PaidAt = &now
	t.UpdatedAt = now
	return nil
}

// Cancel voids a pending transaction
func (t *Transaction) Cancel() error {
	if t.Status == TransactionPaid {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel a paid transaction")
	}

	t.Status = TransactionCanceled
	t.Touch()
	return nil
}
