package models

import "time"

const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationSeated    = "seated"
	ReservationCancelled = "cancelled"
)

type Reservation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	GuestName       string    `gorm:"type:varchar(100);not null" json:"guest_name"`
	Phone           string    `gorm:"type:varchar(30)" json:"phone,omitempty"`
	PartySize       int       `gorm:"not null" json:"party_size"`
	ReservedFor     time.Time `gorm:"not null" json:"reserved_for"`
	DurationMinutes int       `gorm:"not null;default:90" json:"duration_minutes"`
	Status          string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TableIDs        []uint    `gorm:"serializer:json" json:"table_ids,omitempty"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

// CoversTable reports whether the reservation is bound to the given table.
func (r *Reservation) CoversTable(tableID uint) bool {
	for _, id := range r.TableIDs {
		if id == tableID {
			return true
		}
	}
	return false
}
