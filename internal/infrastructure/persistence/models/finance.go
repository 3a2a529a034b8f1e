package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marealta/backend/internal/domain/finance"
)

// TransactionModel is the persistence model for financial transactions
type TransactionModel struct {
	TenantAggregateModel
	Type        string          `gorm:"type:varchar(10);not null;index"`
	Category    string          `gorm:"type:varchar(100);not null;index"`
	Description string          `gorm:"type:varchar(255)"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
	ReferenceID *uuid.UUID      `gorm:"type:uuid;index"`
	DueDate     *time.Time
	PaidAt      *time.Time
}

// TableName returns the table name for TransactionModel
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts TransactionModel to the domain Transaction
func (m *TransactionModel) ToDomain() *finance.Transaction {
	return &finance.Transaction{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Type:                finance.TransactionType(m.Type),
		Category:            m.Category,
		Description:         m.Description,
		Amount:              m.Amount,
		Status:              finance.TransactionStatus(m.Status),
		ReferenceID:         m.ReferenceID,
		DueDate:             m.DueDate,
		PaidAt:              m.PaidAt,
	}
}

// FromDomain populates TransactionModel from the domain Transaction
func (m *TransactionModel) FromDomain(tx *finance.Transaction) {
	m.FromDomainTenantAggregateRoot(tx.TenantAggregateRoot)
	m.Type = string(tx.Type)
	m.Category = tx.Category
	m.Description = tx.Description
	m.Amount = tx.Amount
	m.Status = string(tx.Status)
	m.ReferenceID = tx.ReferenceID
	m.DueDate = tx.DueDate
	m.PaidAt = tx.PaidAt
}
