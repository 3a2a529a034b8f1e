package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marealta/backend/internal/domain/workshop"
)

// ServiceOrderModel is the persistence model for service orders
type ServiceOrderModel struct {
	TenantAggregateModel
	// Unique per tenant; the constraint lives in the migrations.
	OrderNumber string          `gorm:"type:varchar(32);not null;index"`
	BoatID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClientID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:text"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
	TotalValue  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StartedAt   *time.Time
	CompletedAt *time.Time
	CanceledAt  *time.Time

	Items []ServiceItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Notes []OrderNoteModel   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for ServiceOrderModel
func (ServiceOrderModel) TableName() string {
	return "service_orders"
}

// ServiceItemModel is the persistence model for service order line items
type ServiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type        string          `gorm:"type:varchar(10);not null"`
	PartID      *uuid.UUID      `gorm:"type:uuid;index"`
	Description string          `gorm:"type:varchar(255);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for ServiceItemModel
func (ServiceItemModel) TableName() string {
	return "service_order_items"
}

// OrderNoteModel is the persistence model for order notes
type OrderNoteModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Author    string    `gorm:"type:varchar(100)"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for OrderNoteModel
func (OrderNoteModel) TableName() string {
	return "service_order_notes"
}

// ToDomain converts the model and its associations to the domain aggregate
func (m *ServiceOrderModel) ToDomain() *workshop.ServiceOrder {
	order := &workshop.ServiceOrder{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		OrderNumber:         m.OrderNumber,
		BoatID:              m.BoatID,
		ClientID:            m.ClientID,
		Description:         m.Description,
		Status:              workshop.OrderStatus(m.Status),
		TotalValue:          m.TotalValue,
		StartedAt:           m.StartedAt,
		CompletedAt:         m.CompletedAt,
		CanceledAt:          m.CanceledAt,
		Items:               make([]workshop.ServiceItem, 0, len(m.Items)),
		Notes:               make([]workshop.OrderNote, 0, len(m.Notes)),
	}

	for _, item := range m.Items {
		order.Items = append(order.Items, workshop.ServiceItem{
			ID:          item.ID,
			OrderID:     item.OrderID,
			Type:        workshop.ItemType(item.Type),
			PartID:      item.PartID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
		})
	}

	for _, note := range m.Notes {
		order.Notes = append(order.Notes, workshop.OrderNote{
			ID:        note.ID,
			OrderID:   note.OrderID,
			Author:    note.Author,
			Text:      note.Text,
			CreatedAt: note.CreatedAt,
		})
	}

	return order
}

// FromDomain populates the model and its associations from the domain aggregate
func (m *ServiceOrderModel) FromDomain(order *workshop.ServiceOrder) {
	m.FromDomainTenantAggregateRoot(order.TenantAggregateRoot)
	m.OrderNumber = order.OrderNumber
	m.BoatID = order.BoatID
	m.ClientID = order.ClientID
	m.Description = order.Description
	m.Status = order.Status.String()
	m.TotalValue = order.TotalValue
	m.StartedAt = order.StartedAt
	m.CompletedAt = order.CompletedAt
	m.CanceledAt = order.CanceledAt

	m.Items = make([]ServiceItemModel, 0, len(order.Items))
	for _, item := range order.Items {
		m.Items = append(m.Items, ServiceItemModel{
			ID:          item.ID,
			TenantID:    order.TenantID,
			OrderID:     order.ID,
			Type:        string(item.Type),
			PartID:      item.PartID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
		})
	}

	m.Notes = make([]OrderNoteModel, 0, len(order.Notes))
	for _, note := range order.Notes {
		m.Notes = append(m.Notes, OrderNoteModel{
			ID:        note.ID,
			TenantID:  order.TenantID,
			OrderID:   order.ID,
			Author:    note.Author,
			Text:      note.Text,
			CreatedAt: note.CreatedAt,
		})
	}
}
