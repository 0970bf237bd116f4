package gateway

import (
	"fmt"
	"net/http"

	"github.com/yeremiapane/waiter-terminal/models"
)

// FloorPlan fetches every table with live occupancy information.
func (c *Client) FloorPlan() ([]models.Table, error) {
	var tables []models.Table
	err := c.do(http.MethodGet, "/waiter/floor-plan", nil, &tables)
	return tables, err
}

// SeatTable seats a party; the returned table is the backend's view.
func (c *Client) SeatTable(tableID uint, guestCount int) (*models.Table, error) {
	var table models.Table
	path := fmt.Sprintf("/waiter/tables/%d/seat?guest_count=%d", tableID, guestCount)
	if err := c.do(http.MethodPost, path, nil, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// ClearTable returns a table to available after full payment or a hold.
func (c *Client) ClearTable(tableID uint) (*models.Table, error) {
	var table models.Table
	path := fmt.Sprintf("/waiter/tables/%d/clear", tableID)
	if err := c.do(http.MethodPost, path, nil, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// QuickMenu fetches the read-only item catalog.
func (c *Client) QuickMenu() ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := c.do(http.MethodGet, "/waiter/menu/quick", nil, &items)
	return items, err
}

func (c *Client) Reservations(date string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := c.do(http.MethodGet, "/reservations/?date="+date, nil, &reservations)
	return reservations, err
}

type ReservationRequest struct {
	GuestName       string `json:"guest_name"`
	Phone           string `json:"phone,omitempty"`
	PartySize       int    `json:"party_size"`
	ReservedFor     string `json:"reserved_for"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	TableIDs        []uint `json:"table_ids,omitempty"`
}

func (c *Client) CreateReservation(req ReservationRequest) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := c.do(http.MethodPost, "/reservations/", req, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// SeatReservation seats the party and binds its tables.
func (c *Client) SeatReservation(reservationID uint) (*models.Reservation, error) {
	var reservation models.Reservation
	path := fmt.Sprintf("/reservations/%d/seat", reservationID)
	if err := c.do(http.MethodPost, path, nil, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (c *Client) CancelReservation(reservationID uint) (*models.Reservation, error) {
	var reservation models.Reservation
	path := fmt.Sprintf("/reservations/%d/cancel", reservationID)
	if err := c.do(http.MethodPost, path, nil, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}
