package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marealta/backend/internal/domain/inventory"
)

// PartModel is the persistence model for inventory parts
type PartModel struct {
	TenantAggregateModel
	// Unique per tenant; the constraint lives in the migrations.
	SKU             string          `gorm:"type:varchar(64);not null;index"`
	Name            string          `gorm:"type:varchar(255);not null"`
	Description     string          `gorm:"type:text"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	QuantityInStock int             `gorm:"not null;default:0"`
	MinimumStock    int             `gorm:"not null;default:0"`
	Location        string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for PartModel
func (PartModel) TableName() string {
	return "parts"
}

// ToDomain converts PartModel to the domain Part
func (m *PartModel) ToDomain() *inventory.Part {
	return &inventory.Part{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SKU:                 m.SKU,
		Name:                m.Name,
		Description:         m.Description,
		UnitPrice:           m.UnitPrice,
		CostPrice:           m.CostPrice,
		QuantityInStock:     m.QuantityInStock,
		MinimumStock:        m.MinimumStock,
		Location:            m.Location,
	}
}

// FromDomain populates PartModel from the domain Part
func (m *PartModel) FromDomain(part *inventory.Part) {
	m.FromDomainTenantAggregateRoot(part.TenantAggregateRoot)
	m.SKU = part.SKU
	m.Name = part.Name
	m.Description = part.Description
	m.UnitPrice = part.UnitPrice
	m.CostPrice = part.CostPrice
	m.QuantityInStock = part.QuantityInStock
	m.MinimumStock = part.MinimumStock
	m.Location = part.Location
}

// StockMovementModel is the persistence model for the append-only stock
// movement ledger. Rows are inserted and read, never updated.
type StockMovementModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	PartID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type        string     `gorm:"type:varchar(20);not null"`
	Quantity    int        `gorm:"not null"`
	ReferenceID *uuid.UUID `gorm:"type:uuid;index"`
	Reason      string     `gorm:"type:varchar(255)"`
	CreatedBy   string     `gorm:"type:varchar(100)"`
	CreatedAt   time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for StockMovementModel
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts StockMovementModel to the domain StockMovement
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		ID:          m.ID,
		TenantID:    m.TenantID,
		PartID:      m.PartID,
		Type:        inventory.MovementType(m.Type),
		Quantity:    m.Quantity,
		ReferenceID: m.ReferenceID,
		Reason:      m.Reason,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

// FromDomain populates StockMovementModel from the domain StockMovement
func (m *StockMovementModel) FromDomain(movement *inventory.StockMovement) {
	m.ID = movement.ID
	m.TenantID = movement.TenantID
	m.PartID = movement.PartID
	m.Type = string(movement.Type)
	m.Quantity = movement.Quantity
	m.ReferenceID = movement.ReferenceID
	m.Reason = movement.Reason
	m.CreatedBy = movement.CreatedBy
	m.CreatedAt = movement.CreatedAt
}
