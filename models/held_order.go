package models

import "time"

const (
	HeldOrderHeld    = "held"
	HeldOrderResumed = "resumed"
	HeldOrderExpired = "expired"
)

// HeldOrder is a snapshot of a check parked away from the floor.
type HeldOrder struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CheckID   uint            `gorm:"not null;index" json:"check_id"`
	TableID   uint            `gorm:"not null" json:"table_id"`
	Reason    string          `gorm:"type:text;not null" json:"reason"`
	Total     float64         `gorm:"type:decimal(10,2);not null" json:"total"`
	Status    string          `gorm:"type:varchar(20);not null;default:'held'" json:"status"`
	Items     []HeldOrderItem `gorm:"foreignKey:HeldOrderID" json:"items"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`
}

type HeldOrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	HeldOrderID uint    `gorm:"not null;index" json:"held_order_id"`
	MenuItemID  uint    `gorm:"not null" json:"menu_item_id"`
	Name        string  `gorm:"type:varchar(100);not null" json:"name"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Seat        int     `json:"seat"`
	Course      string  `gorm:"type:varchar(30)" json:"course"`
}
