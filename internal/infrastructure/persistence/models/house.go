package models

import (
	"github.com/colony/backend/internal/domain/housing"
)

// HouseModel is the persistence model for the House aggregate.
// vacant_portions is written on every save so reports can read it directly;
// a check constraint keeps it equal to the derived value. The portion columns
// carry no gorm default: a zero count must reach the database as zero.
type HouseModel struct {
	AggregateModel
	HouseNumber           string `gorm:"type:varchar(50);not null"`
	HouseNumberKey        string `gorm:"type:varchar(200);not null;uniqueIndex:idx_houses_number_key"`
	OwnerName             string `gorm:"type:varchar(200);not null"`
	OwnerNameKey          string `gorm:"type:varchar(800);not null"`
	TotalPortions         int    `gorm:"not null"`
	RentedPortions        int    `gorm:"not null"`
	OwnerOccupiedPortions int    `gorm:"not null"`
	VacantPortions        int    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (HouseModel) TableName() string {
	return "houses"
}

// ToDomain converts the persistence model to a domain House
func (m *HouseModel) ToDomain() *housing.House {
	return housing.RehydrateHouse(
		m.ID,
		m.HouseNumber,
		m.OwnerName,
		m.TotalPortions,
		m.RentedPortions,
		m.OwnerOccupiedPortions,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

// FromDomain populates the persistence model from a domain House
func (m *HouseModel) FromDomain(h *housing.House) {
	m.FromDomainAggregateRoot(h.BaseAggregateRoot)
	m.HouseNumber = h.HouseNumber
	m.HouseNumberKey = h.NumberKey()
	m.OwnerName = h.OwnerName
	m.OwnerNameKey = housing.FoldKey(h.OwnerName)
	m.TotalPortions = h.Portions.Total()
	m.RentedPortions = h.Portions.Rented()
	m.OwnerOccupiedPortions = h.Portions.OwnerOccupied()
	m.VacantPortions = h.Portions.Vacant()
}

// HouseModelFromDomain creates a new persistence model from a domain House
func HouseModelFromDomain(h *housing.House) *HouseModel {
	m := &HouseModel{}
	m.FromDomain(h)
	return m
}

// UpdateColumns returns the mutable columns of the house for a versioned update
func (m *HouseModel) UpdateColumns() map[string]any {
	return map[string]any{
		"house_number":            m.HouseNumber,
		"house_number_key":        m.HouseNumberKey,
		"owner_name":              m.OwnerName,
		"owner_name_key":          m.OwnerNameKey,
		"total_portions":          m.TotalPortions,
		"rented_portions":         m.RentedPortions,
		"owner_occupied_portions": m.OwnerOccupiedPortions,
		"vacant_portions":         m.VacantPortions,
		"version":                 m.Version,
		"updated_at":              m.UpdatedAt,
	}
}
