package gateway

import (
	"fmt"
	"net/http"

	"github.com/yeremiapane/waiter-terminal/models"
)

type OrderItemRequest struct {
	MenuItemID uint     `json:"menu_item_id"`
	Quantity   int      `json:"quantity"`
	Seat       int      `json:"seat"`
	Course     string   `json:"course"`
	Modifiers  []string `json:"modifiers,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

type OrderRequest struct {
	TableID       uint               `json:"table_id"`
	Items         []OrderItemRequest `json:"items"`
	GuestCount    int                `json:"guest_count"`
	SendToKitchen bool               `json:"send_to_kitchen"`
}

// SubmitOrder commits the cart as a check (or appends to the table's open
// check when one exists); the backend prices and totals every line.
func (c *Client) SubmitOrder(req OrderRequest) (*models.Check, error) {
	var check models.Check
	if err := c.do(http.MethodPost, "/waiter/orders", req, &check); err != nil {
		return nil, err
	}
	return &check, nil
}

// FireCourse tells the kitchen to start the named course.
func (c *Client) FireCourse(checkID uint, course string) error {
	path := fmt.Sprintf("/waiter/orders/%d/fire-course", checkID)
	return c.do(http.MethodPost, path, map[string]string{"course": course}, nil)
}

func (c *Client) GetCheck(checkID uint) (*models.Check, error) {
	var check models.Check
	path := fmt.Sprintf("/waiter/checks/%d", checkID)
	if err := c.do(http.MethodGet, path, nil, &check); err != nil {
		return nil, err
	}
	return &check, nil
}

func (c *Client) ChecksByTable(tableID uint) ([]models.Check, error) {
	var checks []models.Check
	path := fmt.Sprintf("/waiter/checks?table_id=%d", tableID)
	err := c.do(http.MethodGet, path, nil, &checks)
	return checks, err
}

type DiscountRequest struct {
	DiscountType  string  `json:"discount_type"` // percent or amount
	DiscountValue float64 `json:"discount_value"`
	Reason        string  `json:"reason"`
	ManagerPin    string  `json:"manager_pin,omitempty"`
}

func (c *Client) ApplyDiscount(checkID uint, req DiscountRequest) (*models.Check, error) {
	var check models.Check
	path := fmt.Sprintf("/waiter/checks/%d/discount", checkID)
	if err := c.do(http.MethodPost, path, req, &check); err != nil {
		return nil, err
	}
	return &check, nil
}

type SplitEvenResult struct {
	Check           models.Check `json:"check"`
	NumWays         int          `json:"num_ways"`
	AmountPerPerson float64      `json:"amount_per_person"`
}

// SplitEven divides the check total into equal shares; the backend owns the
// rounding policy.
func (c *Client) SplitEven(checkID uint, numWays int) (*SplitEvenResult, error) {
	var result SplitEvenResult
	path := fmt.Sprintf("/waiter/checks/%d/split-even", checkID)
	if err := c.do(http.MethodPost, path, map[string]int{"num_ways": numWays}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SplitBySeat produces one check per distinct seat.
func (c *Client) SplitBySeat(checkID uint) ([]models.Check, error) {
	var checks []models.Check
	path := fmt.Sprintf("/waiter/checks/%d/split-by-seat", checkID)
	err := c.do(http.MethodPost, path, nil, &checks)
	return checks, err
}

type SplitByItemsResult struct {
	Original models.Check `json:"original"`
	NewCheck models.Check `json:"new_check"`
}

// SplitByItems moves the selected items onto a new check on the same table.
// Irreversible: the backend has no unsplit operation.
func (c *Client) SplitByItems(checkID uint, itemIDs []uint) (*SplitByItemsResult, error) {
	var result SplitByItemsResult
	body := map[string]interface{}{
		"check_id": checkID,
		"item_ids": itemIDs,
	}
	if err := c.do(http.MethodPost, "/terminal-ops/split-by-items", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MergeChecks unions the items of several same-table checks into one.
// Irreversible, like SplitByItems.
func (c *Client) MergeChecks(checkIDs []uint) (*models.Check, error) {
	var check models.Check
	body := map[string]interface{}{"check_ids": checkIDs}
	if err := c.do(http.MethodPost, "/terminal-ops/merge-checks", body, &check); err != nil {
		return nil, err
	}
	return &check, nil
}

// TransferCheck moves a check to another table. With itemIDs nil the whole
// check moves; with a subset only those items relocate.
func (c *Client) TransferCheck(checkID, toTableID uint, itemIDs []uint) (*models.Check, error) {
	var check models.Check
	body := map[string]interface{}{"to_table_id": toTableID}
	if len(itemIDs) > 0 {
		body["items_to_transfer"] = itemIDs
	}
	path := fmt.Sprintf("/waiter/checks/%d/transfer", checkID)
	if err := c.do(http.MethodPost, path, body, &check); err != nil {
		return nil, err
	}
	return &check, nil
}

func (c *Client) PrintCheck(checkID uint) error {
	path := fmt.Sprintf("/waiter/checks/%d/print", checkID)
	return c.do(http.MethodPost, path, nil, nil)
}

// VoidItem marks an item voided; the response is the refreshed parent check.
func (c *Client) VoidItem(itemID uint, reason, managerPin string) (*models.Check, error) {
	var check models.Check
	body := map[string]string{"reason": reason}
	if managerPin != "" {
		body["manager_pin"] = managerPin
	}
	path := fmt.Sprintf("/waiter/items/%d/void", itemID)
	if err := c.do(http.MethodPost, path, body, &check); err != nil {
		return nil, err
	}
	return &check, nil
}

type PaymentRequest struct {
	CheckID   uint    `json:"check_id"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"payment_method"`
	TipAmount float64 `json:"tip_amount"`
}

type PaymentResult struct {
	Check   models.Check `json:"check"`
	Settled bool         `json:"settled"`
}

func (c *Client) CreatePayment(req PaymentRequest) (*PaymentResult, error) {
	var result PaymentResult
	if err := c.do(http.MethodPost, "/waiter/payments", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
