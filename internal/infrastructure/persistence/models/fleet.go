package models

import (
	"github.com/google/uuid"

	"github.com/marealta/backend/internal/domain/fleet"
)

// ClientModel is the persistence model for clients
type ClientModel struct {
	TenantAggregateModel
	Name     string `gorm:"type:varchar(255);not null"`
	Email    string `gorm:"type:varchar(255)"`
	Phone    string `gorm:"type:varchar(32)"`
	Document string `gorm:"type:varchar(32)"`
	Address  string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for ClientModel
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts ClientModel to the domain Client
func (m *ClientModel) ToDomain() *fleet.Client {
	return &fleet.Client{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		Email:               m.Email,
		Phone:               m.Phone,
		Document:            m.Document,
		Address:             m.Address,
	}
}

// FromDomain populates ClientModel from the domain Client
func (m *ClientModel) FromDomain(c *fleet.Client) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.Document = c.Document
	m.Address = c.Address
}

// BoatModel is the persistence model for boats
type BoatModel struct {
	TenantAggregateModel
	ClientID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Model        string    `gorm:"type:varchar(100)"`
	LengthMeters float64   `gorm:"not null;default:0"`
	HullID       string    `gorm:"type:varchar(64)"`
	Marina       string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for BoatModel
func (BoatModel) TableName() string {
	return "boats"
}

// ToDomain converts BoatModel to the domain Boat
func (m *BoatModel) ToDomain() *fleet.Boat {
	return &fleet.Boat{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		ClientID:            m.ClientID,
		Name:                m.Name,
		Model:               m.Model,
		LengthMeters:        m.LengthMeters,
		HullID:              m.HullID,
		Marina:              m.Marina,
	}
}

// FromDomain populates BoatModel from the domain Boat
func (m *BoatModel) FromDomain(b *fleet.Boat) {
	m.FromDomainTenantAggregateRoot(b.TenantAggregateRoot)
	m.ClientID = b.ClientID
	m.Name = b.Name
	m.Model = b.Model
	m.LengthMeters = b.LengthMeters
	m.HullID = b.HullID
	m.Marina = b.Marina
}
