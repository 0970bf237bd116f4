// Package session holds the waiter terminal's in-memory state and every
// workflow command a waiter can perform. The store is the single owner of
// mutation: components read the snapshot and dispatch commands, and
// server-owned entities are only ever rewritten from a successful backend
// response, never speculatively.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/yeremiapane/waiter-terminal/gateway"
	"github.com/yeremiapane/waiter-terminal/models"
)

// Screens the terminal can be on. Rendering is outside this package; the
// screen field only records where a command left the terminal.
const (
	ScreenFloor       = "floor"
	ScreenOrderEntry  = "order_entry"
	ScreenCheck       = "check"
	ScreenReservation = "reservation"
)

// Fiscal device states.
const (
	FiscalIdle       = "idle"
	FiscalPrinting   = "printing"
	FiscalProcessing = "processing"
)

var (
	ErrBusy             = errors.New("a request for this entity is still in flight")
	ErrTableNotFound    = errors.New("table not found")
	ErrTableUnavailable = errors.New("table is not available")
	ErrNoActiveTable    = errors.New("no table selected")
	ErrNoActiveCheck    = errors.New("no check is open")
	ErrNoActiveTab      = errors.New("no tab selected")
	ErrEmptyCart        = errors.New("cart is empty")
)

// Store is the terminal's session state. Fields are exported for reading;
// all mutation goes through commands, which serialize on the internal mutex.
type Store struct {
	mu sync.Mutex
	gw *gateway.Client

	Tables       []models.Table
	Menu         []models.MenuItem
	Reservations []models.Reservation
	Tabs         []models.Tab
	HeldOrders   []models.HeldOrder
	ActiveMerges []models.TableMerge

	ActiveTable       *models.Table
	ActiveCheck       *models.Check
	ActiveTab         *models.Tab
	ActiveReservation *models.Reservation
	Cart              []models.CartItem

	MergeMode      bool
	MergeSelection []uint

	Screen       string
	FiscalStatus string

	notifications []Notification
	inflight      map[string]bool

	pollStop chan struct{}
	pollWG   sync.WaitGroup
}

func NewStore(gw *gateway.Client) *Store {
	return &Store{
		gw:           gw,
		Screen:       ScreenFloor,
		FiscalStatus: FiscalIdle,
		inflight:     make(map[string]bool),
	}
}

// begin claims the in-flight token for one command/entity pair. A second
// dispatch with the same token is rejected locally, with no network call;
// commands against other entities proceed independently.
func (s *Store) begin(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[token] {
		return ErrBusy
	}
	s.inflight[token] = true
	return nil
}

func (s *Store) end(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, token)
}

func inflightToken(command string, entityID uint) string {
	return fmt.Sprintf("%s:%d", command, entityID)
}

// findTable returns a pointer into the Tables slice. Caller must hold mu.
func (s *Store) findTable(tableID uint) *models.Table {
	for i := range s.Tables {
		if s.Tables[i].ID == tableID {
			return &s.Tables[i]
		}
	}
	return nil
}

// replaceTable overwrites the local copy with the backend's authoritative
// version. Caller must hold mu.
func (s *Store) replaceTable(table models.Table) {
	for i := range s.Tables {
		if s.Tables[i].ID == table.ID {
			s.Tables[i] = table
			if s.ActiveTable != nil && s.ActiveTable.ID == table.ID {
				s.ActiveTable = &s.Tables[i]
			}
			return
		}
	}
	s.Tables = append(s.Tables, table)
}

// setActiveCheck installs the backend's check and mirrors its total onto the
// owning table.
func (s *Store) setActiveCheck(check *models.Check) {
	s.ActiveCheck = check
	if check == nil {
		return
	}
	if table := s.findTable(check.TableID); table != nil {
		table.CurrentTotal = check.Total
		table.CurrentCheckID = &check.ID
	}
}

// mergeFor returns the active merge containing tableID, if any.
// Caller must hold mu.
func (s *Store) mergeFor(tableID uint) *models.TableMerge {
	for i := range s.ActiveMerges {
		if s.ActiveMerges[i].IsActive && s.ActiveMerges[i].IsSecondary(tableID) {
			return &s.ActiveMerges[i]
		}
	}
	return nil
}

// reservationFor returns a non-cancelled reservation bound to tableID.
// Caller must hold mu.
func (s *Store) reservationFor(tableID uint) *models.Reservation {
	for i := range s.Reservations {
		r := &s.Reservations[i]
		if r.Status == models.ReservationCancelled || r.Status == models.ReservationSeated {
			continue
		}
		if r.CoversTable(tableID) {
			return r
		}
	}
	return nil
}

// Snapshot-style accessors used by tests and callers that must not race the
// poll goroutine.

func (s *Store) TableByID(tableID uint) (models.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.findTable(tableID); t != nil {
		return *t, true
	}
	return models.Table{}, false
}

func (s *Store) CartLines() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]models.CartItem, len(s.Cart))
	copy(lines, s.Cart)
	return lines
}
