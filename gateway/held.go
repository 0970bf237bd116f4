package gateway

import (
	"fmt"
	"net/http"

	"github.com/yeremiapane/waiter-terminal/models"
)

// HoldOrder parks a check's current state; the backend detaches it from the
// table and snapshots the items.
func (c *Client) HoldOrder(checkID uint, reason string) (*models.HeldOrder, error) {
	var held models.HeldOrder
	body := map[string]interface{}{
		"check_id": checkID,
		"reason":   reason,
	}
	if err := c.do(http.MethodPost, "/held-orders/", body, &held); err != nil {
		return nil, err
	}
	return &held, nil
}

func (c *Client) HeldOrders() ([]models.HeldOrder, error) {
	var orders []models.HeldOrder
	err := c.do(http.MethodGet, "/held-orders/?status=held", nil, &orders)
	return orders, err
}

// ResumeHeldOrder reattaches a parked order. With targetTableID nil the order
// returns to its original table.
func (c *Client) ResumeHeldOrder(heldID uint, targetTableID *uint) (*models.Check, error) {
	var check models.Check
	path := fmt.Sprintf("/held-orders/%d/resume", heldID)
	if targetTableID != nil {
		path = fmt.Sprintf("%s?target_table_id=%d", path, *targetTableID)
	}
	if err := c.do(http.MethodPost, path, nil, &check); err != nil {
		return nil, err
	}
	return &check, nil
}
