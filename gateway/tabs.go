package gateway

import (
	"fmt"
	"net/http"

	"github.com/yeremiapane/waiter-terminal/models"
)

type TabRequest struct {
	CustomerName  string  `json:"customer_name"`
	CardLastFour  string  `json:"card_last_four,omitempty"`
	PreAuthAmount float64 `json:"pre_auth_amount"`
	CreditLimit   float64 `json:"credit_limit,omitempty"`
}

func (c *Client) OpenTab(req TabRequest) (*models.Tab, error) {
	var tab models.Tab
	if err := c.do(http.MethodPost, "/tabs/", req, &tab); err != nil {
		return nil, err
	}
	return &tab, nil
}

func (c *Client) OpenTabs() ([]models.Tab, error) {
	var tabs []models.Tab
	err := c.do(http.MethodGet, "/tabs/?status=open", nil, &tabs)
	return tabs, err
}

type TabItemRequest struct {
	MenuItemID uint `json:"menu_item_id"`
	Quantity   int  `json:"quantity"`
}

func (c *Client) AddTabItems(tabID uint, items []TabItemRequest) (*models.Tab, error) {
	var tab models.Tab
	path := fmt.Sprintf("/tabs/%d/items", tabID)
	body := map[string]interface{}{"items": items}
	if err := c.do(http.MethodPost, path, body, &tab); err != nil {
		return nil, err
	}
	return &tab, nil
}

// TransferTab converts the tab into a table-bound check; the response is the
// check created on the destination table.
func (c *Client) TransferTab(tabID, tableID uint) (*models.Check, error) {
	var check models.Check
	path := fmt.Sprintf("/tabs/%d/transfer", tabID)
	body := map[string]uint{"table_id": tableID}
	if err := c.do(http.MethodPost, path, body, &check); err != nil {
		return nil, err
	}
	return &check, nil
}

func (c *Client) CloseTab(tabID uint, method string, tip float64) (*models.Tab, error) {
	var tab models.Tab
	path := fmt.Sprintf("/tabs/%d/close", tabID)
	body := map[string]interface{}{
		"payment_method": method,
		"tip_amount":     tip,
	}
	if err := c.do(http.MethodPost, path, body, &tab); err != nil {
		return nil, err
	}
	return &tab, nil
}
