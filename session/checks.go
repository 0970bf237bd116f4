package session

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/waiter-terminal/gateway"
	"github.com/yeremiapane/waiter-terminal/models"
	"github.com/yeremiapane/waiter-terminal/utils"
)

// OpenCheck fetches the open check on a table and makes it active.
func (s *Store) OpenCheck(tableID uint) error {
	token := inflightToken("open-check", tableID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	checks, err := s.gw.ChecksByTable(tableID)
	if err != nil {
		s.notifyError(err)
		return err
	}

	var open *models.Check
	for i := range checks {
		if checks[i].Status == models.CheckOpen {
			open = &checks[i]
			break
		}
	}
	if open == nil {
		return fmt.Errorf("no open check on table %d", tableID)
	}

	s.mu.Lock()
	s.setActiveCheck(open)
	s.ActiveTable = s.findTable(tableID)
	s.Screen = ScreenCheck
	s.mu.Unlock()
	return nil
}

// ReloadCheck re-fetches the active check from the backend.
func (s *Store) ReloadCheck() error {
	s.mu.Lock()
	if s.ActiveCheck == nil {
		s.mu.Unlock()
		return ErrNoActiveCheck
	}
	checkID := s.ActiveCheck.ID
	s.mu.Unlock()

	check, err := s.gw.GetCheck(checkID)
	if err != nil {
		s.notifyError(err)
		return err
	}

	s.mu.Lock()
	// Only install if the waiter is still looking at the same check.
	if s.ActiveCheck != nil && s.ActiveCheck.ID == checkID {
		s.setActiveCheck(check)
	}
	s.mu.Unlock()
	return nil
}

// ApplyDiscount forwards the discount to the backend, which owns the manager
// threshold policy; the pin rides along only when supplied.
func (s *Store) ApplyDiscount(discountType string, value float64, reason, managerPin string) error {
	s.mu.Lock()
	if s.ActiveCheck == nil {
		s.mu.Unlock()
		return ErrNoActiveCheck
	}
	checkID := s.ActiveCheck.ID
	s.mu.Unlock()

	token := inflightToken("discount", checkID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	check, err := s.gw.ApplyDiscount(checkID, gateway.DiscountRequest{
		DiscountType:  discountType,
		DiscountValue: value,
		Reason:        reason,
		ManagerPin:    managerPin,
	})
	if err != nil {
		s.notifyError(err)
		return err
	}

	s.mu.Lock()
	s.setActiveCheck(check)
	s.mu.Unlock()

	s.notifySuccess("Discount applied to check #%d, new total %s", checkID, utils.FormatCurrency(check.Total))
	return nil
}

// VoidItem marks an item voided. A reason is mandatory; voided items drop
// out of the subtotal but stay on the check for audit.
func (s *Store) VoidItem(itemID uint, reason, managerPin string) error {
	if reason == "" {
		return errors.New("a void reason is required")
	}

	s.mu.Lock()
	if s.ActiveCheck == nil {
		s.mu.Unlock()
		return ErrNoActiveCheck
	}
	var found bool
	for i := range s.ActiveCheck.Items {
		if s.ActiveCheck.Items[i].ID == itemID {
			if s.ActiveCheck.Items[i].Status != models.CheckItemActive {
				s.mu.Unlock()
				return errors.New("item is already voided")
			}
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return errors.New("item is not on the open check")
	}

	token := inflightToken("void", itemID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	check, err := s.gw.VoidItem(itemID, reason, managerPin)
	if err != nil {
		s.notifyError(err)
		return err
	}

	s.mu.Lock()
	s.setActiveCheck(check)
	s.mu.Unlock()

	s.notifySuccess("Item voided on check #%d", check.ID)
	return nil
}

// SplitEven divides the check total into n equal shares. Rounding is owned
// by the backend; committed items are untouched.
func (s *Store) SplitEven(numWays int) (*gateway.SplitEvenResult, error) {
	if numWays < 2 {
		return nil, errors.New("split requires at least two ways")
	}

	s.mu.Lock()
	if s.ActiveCheck == nil {
		s.mu.Unlock()
		return nil, ErrNoActiveCheck
	}
	checkID := s.ActiveCheck.ID
	s.mu.Unlock()

	token := inflightToken("split-even", checkID)
	if err := s.begin(token); err != nil {
		return nil, err
	}
	defer s.end(token)

	result, err := s.gw.SplitEven(checkID, numWays)
	if err != nil {
		s.notifyError(err)
		return nil, err
	}

	s.mu.Lock()
	check := result.Check
	s.setActiveCheck(&check)
	s.mu.Unlock()

	s.notifySuccess("Check #%d split %d ways, %s each", checkID, numWays, utils.FormatCurrency(result.AmountPerPerson))
	return result, nil
}

// SplitBySeat asks the backend for one check per seat. Requires the active
// items to span more than one seat.
func (s *Store) SplitBySeat() ([]models.Check, error) {
	s.mu.Lock()
	if s.ActiveCheck == nil {
		s.mu.Unlock()
		return nil, ErrNoActiveCheck
	}
	checkID := s.ActiveCheck.ID
	seats := make(map[int]bool)
	for _, item := range s.ActiveCheck.ActiveItems() {
		seats[item.Seat] = true
	}
	s.mu.Unlock()

	if len(seats) < 2 {
		return nil, errors.New("items span only one seat")
	}

	token := inflightToken("split-by-seat", checkID)
	if err := s.begin(token); err != nil {
		return nil, err
	}
	defer s.end(token)

	checks, err := s.gw.SplitBySeat(checkID)
	if err != nil {
		s.notifyError(err)
		return nil, err
	}

	s.mu.Lock()
	if len(checks) > 0 {
		check := checks[0]
		s.setActiveCheck(&check)
	}
	s.mu.Unlock()

	s.notifySuccess("Check #%d split into %d checks by seat", checkID, len(checks))
	return checks, nil
}

// SplitPreviewTotal is the client-side preview of what the new check will
// total if the selected items are split off. It must match the backend's
// post-split total exactly.
func (s *Store) SplitPreviewTotal(itemIDs []uint) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ActiveCheck == nil {
		return 0
	}
	selected := make(map[uint]bool, len(itemIDs))
	for _, id := range itemIDs {
		selected[id] = true
	}
	var total float64
	for _, item := range s.ActiveCheck.Items {
		if selected[item.ID] && item.Status == models.CheckItemActive {
			total += item.LineTotal
		}
	}
	return total
}

// SplitByItems moves the selected items onto a new check. Irreversible from
// the terminal: the backend has no unsplit.
func (s *Store) SplitByItems(itemIDs []uint) (*gateway.SplitByItemsResult, error) {
	if len(itemIDs) == 0 {
		return nil, errors.New("select at least one item to split")
	}

	s.mu.Lock()
	if s.ActiveCheck == nil {
		s.mu.Unlock()
		return nil, ErrNoActiveCheck
	}
	checkID := s.ActiveCheck.ID
	active := make(map[uint]bool)
	for _, item := range s.ActiveCheck.ActiveItems() {
		active[item.ID] = true
	}
	s.mu.Unlock()

	for _, id := range itemIDs {
		if !active[id] {
			return nil, fmt.Errorf("item %d is not an active item on the open check", id)
		}
	}

	token := inflightToken("split-by-items", checkID)
	if err := s.begin(token); err != nil {
		return nil, err
	}
	defer s.end(token)

	result, err := s.gw.SplitByItems(checkID, itemIDs)
	if err != nil {
		s.notifyError(err)
		return nil, err
	}

	s.mu.Lock()
	original := result.Original
	s.setActiveCheck(&original)
	s.mu.Unlock()

	s.notifySuccess("Moved %d items to new check #%d (%s)",
		len(itemIDs), result.NewCheck.ID, utils.FormatCurrency(result.NewCheck.Total))
	return result, nil
}

// MoveItems relocates a subset of items to another table's check; the
// destination need not be empty.
func (s *Store) MoveItems(itemIDs []uint, toTableID uint) error {
	if len(itemIDs) == 0 {
		return errors.New("select at least one item to move")
	}

	s.mu.Lock()
	if s.ActiveCheck == nil {
		s.mu.Unlock()
		return ErrNoActiveCheck
	}
	checkID := s.ActiveCheck.ID
	s.mu.Unlock()

	token := inflightToken("move-items", checkID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	if _, err := s.gw.TransferCheck(checkID, toTableID, itemIDs); err != nil {
		s.notifyError(err)
		return err
	}

	if err := s.ReloadCheck(); err != nil {
		return err
	}
	if err := s.refreshTables(); err != nil {
		return err
	}

	s.notifySuccess("Moved %d items to table %d", len(itemIDs), toTableID)
	return nil
}

// MergeChecks unions several checks on the same table into one. There is no
// unmerge for checks, unlike table merges.
func (s *Store) MergeChecks(checkIDs []uint) error {
	if len(checkIDs) < 2 {
		return errors.New("select at least two checks to merge")
	}

	token := inflightToken("merge-checks", checkIDs[0])
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	check, err := s.gw.MergeChecks(checkIDs)
	if err != nil {
		s.notifyError(err)
		return err
	}

	s.mu.Lock()
	s.setActiveCheck(check)
	s.mu.Unlock()

	s.notifySuccess("Merged %d checks into check #%d (%s)",
		len(checkIDs), check.ID, utils.FormatCurrency(check.Total))
	return nil
}

// PrintCheck reprints the open check (non-fiscal).
func (s *Store) PrintCheck() error {
	s.mu.Lock()
	if s.ActiveCheck == nil {
		s.mu.Unlock()
		return ErrNoActiveCheck
	}
	checkID := s.ActiveCheck.ID
	s.mu.Unlock()

	token := inflightToken("print-check", checkID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	if err := s.gw.PrintCheck(checkID); err != nil {
		s.notifyError(err)
		return err
	}

	s.notifySuccess("Check #%d sent to printer", checkID)
	return nil
}
