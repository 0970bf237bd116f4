package models

import "time"

const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
	TableReserved  = "reserved"
)

type Table struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"type:varchar(50);not null" json:"name"`
	Capacity       int        `gorm:"not null" json:"capacity"`
	Status         string     `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CurrentCheckID *uint      `json:"current_check_id,omitempty"`
	GuestCount     int        `json:"guest_count"`
	SeatedAt       *time.Time `json:"seated_at,omitempty"`
	SeatedMinutes  int        `gorm:"-" json:"seated_minutes"`
	CurrentTotal   float64    `gorm:"-" json:"current_total"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

// TableMerge folds several tables under one primary while active.
// Unmerge restores the members to independent status.
type TableMerge struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	PrimaryTableID    uint      `gorm:"not null" json:"primary_table_id"`
	SecondaryTableIDs []uint    `gorm:"serializer:json" json:"secondary_table_ids"`
	IsActive          bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null" json:"updated_at"`
}

// IsSecondary reports whether tableID is folded into the primary.
func (m *TableMerge) IsSecondary(tableID uint) bool {
	for _, id := range m.SecondaryTableIDs {
		if id == tableID {
			return true
		}
	}
	return false
}
