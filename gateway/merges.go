package gateway

import (
	"fmt"
	"net/http"

	"github.com/yeremiapane/waiter-terminal/models"
)

func (c *Client) CreateTableMerge(primaryID uint, secondaryIDs []uint) (*models.TableMerge, error) {
	var merge models.TableMerge
	body := map[string]interface{}{
		"primary_table_id":    primaryID,
		"secondary_table_ids": secondaryIDs,
	}
	if err := c.do(http.MethodPost, "/table-merges/", body, &merge); err != nil {
		return nil, err
	}
	return &merge, nil
}

func (c *Client) ActiveTableMerges() ([]models.TableMerge, error) {
	var merges []models.TableMerge
	err := c.do(http.MethodGet, "/table-merges/?active_only=true", nil, &merges)
	return merges, err
}

func (c *Client) UnmergeTables(mergeID uint) (*models.TableMerge, error) {
	var merge models.TableMerge
	path := fmt.Sprintf("/table-merges/%d/unmerge", mergeID)
	if err := c.do(http.MethodPost, path, nil, &merge); err != nil {
		return nil, err
	}
	return &merge, nil
}
