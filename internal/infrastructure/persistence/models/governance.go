package models

import (
	"time"

	"github.com/colony/backend/internal/domain/governance"
)

// OfficeBearerModel is the persistence model for the OfficeBearer aggregate.
// A partial unique index on role (status = 'active' AND seat = 'single')
// is created by the migrations.
type OfficeBearerModel struct {
	AggregateModel
	Role      string     `gorm:"type:varchar(64);not null;index:idx_office_bearers_role_status,priority:1"`
	Seat      string     `gorm:"type:varchar(10);not null"`
	FullName  string     `gorm:"type:varchar(200);not null"`
	Phone     string     `gorm:"type:varchar(30)"`
	StartDate time.Time  `gorm:"type:date;not null"`
	EndDate   *time.Time `gorm:"type:date"`
	Status    string     `gorm:"type:varchar(10);not null;default:'active';index:idx_office_bearers_role_status,priority:2"`
}

// TableName returns the table name for GORM
func (OfficeBearerModel) TableName() string {
	return "office_bearers"
}

// ToDomain converts the persistence model to a domain OfficeBearer
func (m *OfficeBearerModel) ToDomain() *governance.OfficeBearer {
	return &governance.OfficeBearer{
		BaseAggregateRoot: m.aggregateRoot(),
		Role:              m.Role,
		Seat:              governance.SeatType(m.Seat),
		FullName:          m.FullName,
		Phone:             m.Phone,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		Status:            governance.BearerStatus(m.Status),
	}
}

// FromDomain populates the persistence model from a domain OfficeBearer
func (m *OfficeBearerModel) FromDomain(b *governance.OfficeBearer) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.Role = b.Role
	m.Seat = string(b.Seat)
	m.FullName = b.FullName
	m.Phone = b.Phone
	m.StartDate = b.StartDate
	m.EndDate = b.EndDate
	m.Status = string(b.Status)
}

// OfficeBearerModelFromDomain creates a new persistence model from a domain OfficeBearer
func OfficeBearerModelFromDomain(b *governance.OfficeBearer) *OfficeBearerModel {
	m := &OfficeBearerModel{}
	m.FromDomain(b)
	return m
}

// RetirementColumns returns the columns written when a tenure ends
func (m *OfficeBearerModel) RetirementColumns() map[string]any {
	return map[string]any{
		"status":     m.Status,
		"end_date":   m.EndDate,
		"version":    m.Version,
		"updated_at": m.UpdatedAt,
	}
}
