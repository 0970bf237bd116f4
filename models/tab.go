package models

import "time"

const (
	TabOpen   = "open"
	TabClosed = "closed"
)

// Tab is a running bar balance independent of table occupancy.
type Tab struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CustomerName  string    `gorm:"type:varchar(100);not null" json:"customer_name"`
	CardLastFour  string    `gorm:"type:varchar(4)" json:"card_last_four,omitempty"`
	PreAuthAmount float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"pre_auth_amount"`
	CreditLimit   float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"credit_limit"`
	Total         float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`
	BalanceDue    float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"balance_due"`
	Status        string    `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	TableID       *uint     `json:"table_id,omitempty"`
	Items         []TabItem `gorm:"foreignKey:TabID" json:"items"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

type TabItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TabID      uint      `gorm:"not null;index" json:"tab_id"`
	MenuItemID uint      `gorm:"not null" json:"menu_item_id"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	UnitPrice  float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	LineTotal  float64   `gorm:"type:decimal(10,2);not null" json:"line_total"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}
