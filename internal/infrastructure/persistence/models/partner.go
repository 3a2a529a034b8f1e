package models

import (
	"github.com/marealta/backend/internal/domain/partner"
)

// PartnerModel is the persistence model for external service partners
type PartnerModel struct {
	TenantAggregateModel
	Name      string  `gorm:"type:varchar(255);not null"`
	Specialty string  `gorm:"type:varchar(100);index"`
	Phone     string  `gorm:"type:varchar(32)"`
	Email     string  `gorm:"type:varchar(255)"`
	Rating    float64 `gorm:"not null;default:0"`
	TotalJobs int     `gorm:"not null;default:0"`
	Active    bool    `gorm:"not null;default:true"`
}

// TableName returns the table name for PartnerModel
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts PartnerModel to the domain Partner
func (m *PartnerModel) ToDomain() *partner.Partner {
	return &partner.Partner{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		Specialty:           m.Specialty,
		Phone:               m.Phone,
		Email:               m.Email,
		Rating:              m.Rating,
		TotalJobs:           m.TotalJobs,
		Active:              m.Active,
	}
}

// FromDomain populates PartnerModel from the domain Partner
func (m *PartnerModel) FromDomain(p *partner.Partner) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.Specialty = p.Specialty
	m.Phone = p.Phone
	m.Email = p.Email
	m.Rating = p.Rating
	m.TotalJobs = p.TotalJobs
	m.Active = p.Active
}
