package models

import "time"

const (
	CheckOpen = "open"
	CheckPaid = "paid"
	CheckHeld = "held"

	CheckItemActive = "active"
	CheckItemVoided = "voided"
)

// Check is a committed, server-assigned order attached to a table.
type Check struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	TableID    uint        `gorm:"not null;index" json:"table_id"`
	Status     string      `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	GuestCount int         `json:"guest_count"`
	Subtotal   float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"subtotal"`
	Tax        float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"tax"`
	Discount   float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"discount"`
	Total      float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`
	BalanceDue float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"balance_due"`
	Items      []CheckItem `gorm:"foreignKey:CheckID" json:"items"`
	Payments   []Payment   `gorm:"foreignKey:CheckID" json:"payments"`
	CreatedAt  time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"not null" json:"updated_at"`
}

type CheckItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CheckID    uint      `gorm:"not null;index" json:"check_id"`
	MenuItemID uint      `gorm:"not null" json:"menu_item_id"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	UnitPrice  float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	LineTotal  float64   `gorm:"type:decimal(10,2);not null" json:"line_total"`
	Seat       int       `json:"seat"`
	Course     string    `gorm:"type:varchar(30)" json:"course"`
	Modifiers  []string  `gorm:"serializer:json" json:"modifiers,omitempty"`
	Notes      string    `gorm:"type:text" json:"notes,omitempty"`
	Status     string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	VoidReason string    `gorm:"type:text" json:"void_reason,omitempty"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

// Payment is a recorded settlement against a check.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CheckID   uint      `gorm:"not null;index" json:"check_id"`
	Amount    float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	TipAmount float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"tip_amount"`
	Method    string    `gorm:"type:varchar(30);not null" json:"payment_method"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// Recalculate rebuilds the derived amounts from the item and payment lists.
// Voided items are excluded from the subtotal but stay on the check for audit.
func (c *Check) Recalculate() {
	var subtotal float64
	for _, item := range c.Items {
		if item.Status == CheckItemActive {
			subtotal += item.LineTotal
		}
	}
	c.Subtotal = subtotal
	c.Total = c.Subtotal + c.Tax - c.Discount
	var paid float64
	for _, p := range c.Payments {
		paid += p.Amount
	}
	c.BalanceDue = c.Total - paid
}

// ActiveItems returns the items that still count toward the subtotal.
func (c *Check) ActiveItems() []CheckItem {
	var items []CheckItem
	for _, item := range c.Items {
		if item.Status == CheckItemActive {
			items = append(items, item)
		}
	}
	return items
}
