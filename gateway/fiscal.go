package gateway

import (
	"fmt"
	"net/http"

	"github.com/yeremiapane/waiter-terminal/models"
)

// FiscalResult is the approval/receipt indicator every fiscal-bridge call
// returns. The bridge protocol itself is opaque to the terminal.
type FiscalResult struct {
	Approved      bool          `json:"approved"`
	ReceiptNumber string        `json:"receipt_number,omitempty"`
	Message       string        `json:"message,omitempty"`
	Check         *models.Check `json:"check,omitempty"`
}

func (c *Client) FiscalPrintReceipt(checkID uint, method string) (*FiscalResult, error) {
	var result FiscalResult
	body := map[string]interface{}{
		"check_id":       checkID,
		"payment_method": method,
	}
	if err := c.do(http.MethodPost, "/fiscal/receipt", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) FiscalNonFiscalReceipt(checkID uint) (*FiscalResult, error) {
	var result FiscalResult
	body := map[string]uint{"check_id": checkID}
	if err := c.do(http.MethodPost, "/fiscal/non-fiscal-receipt", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FiscalCardPayment routes the grand total through the payment terminal.
// On approval the backend settles the check and returns it on the result.
func (c *Client) FiscalCardPayment(checkID uint, amount, tip float64) (*FiscalResult, error) {
	var result FiscalResult
	body := map[string]interface{}{
		"check_id":   checkID,
		"amount":     amount,
		"tip_amount": tip,
	}
	if err := c.do(http.MethodPost, "/fiscal/card-payment", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) FiscalOpenDrawer() (*FiscalResult, error) {
	var result FiscalResult
	if err := c.do(http.MethodPost, "/fiscal/open-drawer", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) FiscalXReport() (*FiscalResult, error) {
	var result FiscalResult
	if err := c.do(http.MethodPost, "/fiscal/x-report", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FiscalZReport closes the fiscal day. The backend rejects the call unless
// confirm is set, since the close is irreversible.
func (c *Client) FiscalZReport(confirm bool) (*FiscalResult, error) {
	var result FiscalResult
	path := fmt.Sprintf("/fiscal/z-report?confirm=%t", confirm)
	if err := c.do(http.MethodPost, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
