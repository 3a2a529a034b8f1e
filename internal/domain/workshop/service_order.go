package workshop

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marealta/backend/internal/domain/shared"
)

// OrderStatus represents the status of a service order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCanceled   OrderStatus = "CANCELED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status admits no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCanceled
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusInProgress || target == OrderStatusCompleted || target == OrderStatusCanceled
	case OrderStatusInProgress:
		return target == OrderStatusCompleted || target == OrderStatusCanceled
	case OrderStatusCompleted, OrderStatusCanceled:
		return false
	}
	return false
}

// ItemType distinguishes part line items from labor line items
type ItemType string

const (
	ItemTypePart  ItemType = "PART"
	ItemTypeLabor ItemType = "LABOR"
)

// IsValid checks if the item type is known
func (t ItemType) IsValid() bool {
	return t == ItemTypePart || t == ItemTypeLabor
}

// ServiceItem represents a line item in a service order.
// Part items reference the inventory part they consume; labor items do not.
type ServiceItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	Type        ItemType
	PartID      *uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewServiceItem creates a new service item with its total computed
func NewServiceItem(orderID uuid.UUID, itemType ItemType, partID *uuid.UUID, description string, quantity, unitPrice decimal.Decimal) (*ServiceItem, error) {
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Item type must be PART or LABOR")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if itemType == ItemTypePart && (partID == nil || *partID == uuid.Nil) {
		return nil, shared.NewDomainError("INVALID_PART", "Part items must reference a part")
	}

	now := time.Now()
	return &ServiceItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		Type:        itemType,
		PartID:      partID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Total:       quantity.Mul(unitPrice).Round(2),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// OrderNote is a free-text annotation appended to a service order
type OrderNote struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Author    string
	Text      string
	CreatedAt time.Time
}

// NewOrderNote creates a new order note
func NewOrderNote(orderID uuid.UUID, author, text string) (*OrderNote, error) {
	if text == "" {
		return nil, shared.NewDomainError("INVALID_NOTE", "Note text cannot be empty")
	}
	return &OrderNote{
		ID:        uuid.New(),
		OrderID:   orderID,
		Author:    author,
		Text:      text,
		CreatedAt: time.Now(),
	}, nil
}

// ServiceOrder is the aggregate root for a unit of work performed on a boat.
// It owns its line items and notes; TotalValue is always the sum of the
// current items' totals.
type ServiceOrder struct {
	shared.TenantAggregateRoot
	OrderNumber string
	BoatID      uuid.UUID
	ClientID    uuid.UUID
	Description string
	Status      OrderStatus
	Items       []ServiceItem
	Notes       []OrderNote
	TotalValue  decimal.Decimal
	StartedAt   *time.Time
	CompletedAt *time.Time
	CanceledAt  *time.Time
}

// NewServiceOrder creates a new service order in PENDING status
func NewServiceOrder(tenantID uuid.UUID, orderNumber string, boatID, clientID uuid.UUID, description string) (*ServiceOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if boatID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BOAT", "Boat ID cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}

	return &ServiceOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		BoatID:              boatID,
		ClientID:            clientID,
		Description:         description,
		Status:              OrderStatusPending,
		Items:               make([]ServiceItem, 0),
		Notes:               make([]OrderNote, 0),
		TotalValue:          decimal.Zero,
	}, nil
}

// AddItem appends a line item and recomputes the order total from scratch.
// The full recomputation (rather than an incremental add) keeps TotalValue
// honest when items are removed or edited concurrently.
func (o *ServiceOrder) AddItem(itemType ItemType, partID *uuid.UUID, description string, quantity, unitPrice decimal.Decimal) (*ServiceItem, error) {
	if o.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot add items to a %s order", o.Status))
	}

	item, err := NewServiceItem(o.ID, itemType, partID, description, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.RecalculateTotal()
	o.Touch()

	return item, nil
}

// RemoveItem removes a line item and recomputes the order total
func (o *ServiceOrder) RemoveItem(itemID uuid.UUID) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot remove items from a %s order", o.Status))
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.RecalculateTotal()
			o.Touch()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// AddNote appends a note to the order
func (o *ServiceOrder) AddNote(author, text string) (*OrderNote, error) {
	note, err := NewOrderNote(o.ID, author, text)
	if err != nil {
		return nil, err
	}
	o.Notes = append(o.Notes, *note)
	o.Touch()
	return note, nil
}

// Start moves the order from PENDING to IN_PROGRESS
func (o *ServiceOrder) Start() error {
	if !o.Status.CanTransitionTo(OrderStatusInProgress) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusInProgress
	o.StartedAt = &now
	o.UpdatedAt = now
	return nil
}

// Complete marks the order as completed. The surrounding workflow is
// responsible for the idempotency check and the inventory/ledger side
// effects; this method only guards the transition itself.
func (o *ServiceOrder) Complete() error {
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now
	return nil
}

// Cancel moves the order to CANCELED from any non-terminal state
func (o *ServiceOrder) Cancel() error {
	if !o.Status.CanTransitionTo(OrderStatusCanceled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCanceled
	o.CanceledAt = &now
	o.UpdatedAt = now
	return nil
}

// RecalculateTotal recomputes TotalValue as the sum of all item totals
func (o *ServiceOrder) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Total)
	}
	o.TotalValue = total.Round(2)
}

// PartItems returns the line items that consume inventory parts
func (o *ServiceOrder) PartItems() []ServiceItem {
	items := make([]ServiceItem, 0, len(o.Items))
	for _, item := range o.Items {
		if item.Type == ItemTypePart && item.PartID != nil {
			items = append(items, item)
		}
	}
	return items
}

// GetItem returns an item by its ID
func (o *ServiceOrder) GetItem(itemID uuid.UUID) *ServiceItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// IsCompleted returns true if the order reached the COMPLETED state
func (o *ServiceOrder) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// IsTerminal returns true if the order is in a terminal state
func (o *ServiceOrder) IsTerminal() bool {
	return o.Status.IsTerminal()
}
