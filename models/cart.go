package models

// CartItem is a pending line that has not been sent to the kitchen.
// It only exists in terminal memory and has no server-side counterpart.
type CartItem struct {
	MenuItemID uint     `json:"menu_item_id"`
	Name       string   `json:"name"`
	Quantity   int      `json:"quantity"`
	UnitPrice  float64  `json:"unit_price"`
	Seat       int      `json:"seat"`
	Course     string   `json:"course"`
	Modifiers  []string `json:"modifiers,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

func (ci *CartItem) LineTotal() float64 {
	return float64(ci.Quantity) * ci.UnitPrice
}
