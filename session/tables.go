package session

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/waiter-terminal/models"
)

// Action tells the caller what SelectTable decided to do, so the UI can
// follow up (prompt for a guest count, show a reservation, offer unmerge).
type Action string

const (
	ActionToggledMergeSelection Action = "toggled_merge_selection"
	ActionOpenedReservation     Action = "opened_reservation"
	ActionOfferUnmerge          Action = "offer_unmerge"
	ActionSeat                  Action = "seat"
	ActionOpenedCheck           Action = "opened_check"
)

// SelectTable is the floor-plan tap dispatcher. Merge-selection mode wins,
// then reservations, then active-merge secondaries; otherwise an available
// table is to be seated and an occupied one opens its check.
func (s *Store) SelectTable(tableID uint) (Action, error) {
	s.mu.Lock()
	table := s.findTable(tableID)
	if table == nil {
		s.mu.Unlock()
		return "", ErrTableNotFound
	}

	if s.MergeMode {
		s.toggleMergeSelectionLocked(tableID)
		s.mu.Unlock()
		return ActionToggledMergeSelection, nil
	}

	if table.Status == models.TableReserved {
		if r := s.reservationFor(tableID); r != nil {
			s.ActiveReservation = r
			s.Screen = ScreenReservation
			s.mu.Unlock()
			return ActionOpenedReservation, nil
		}
	}

	if merge := s.mergeFor(tableID); merge != nil {
		s.mu.Unlock()
		return ActionOfferUnmerge, nil
	}

	if table.Status == models.TableAvailable {
		s.mu.Unlock()
		return ActionSeat, nil
	}
	s.mu.Unlock()

	if err := s.OpenCheck(tableID); err != nil {
		return "", err
	}
	return ActionOpenedCheck, nil
}

// SeatTable seats a party. Guest count is validated against capacity before
// anything touches the network; the table only transitions once the backend
// confirms.
func (s *Store) SeatTable(tableID uint, guestCount int) error {
	s.mu.Lock()
	table := s.findTable(tableID)
	if table == nil {
		s.mu.Unlock()
		return ErrTableNotFound
	}
	if table.Status != models.TableAvailable {
		s.mu.Unlock()
		return ErrTableUnavailable
	}
	if guestCount < 1 || guestCount > table.Capacity {
		s.mu.Unlock()
		return fmt.Errorf("guest count must be between 1 and %d", table.Capacity)
	}
	s.mu.Unlock()

	token := inflightToken("seat", tableID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	updated, err := s.gw.SeatTable(tableID, guestCount)
	if err != nil {
		s.notifyError(err)
		return err
	}

	s.mu.Lock()
	s.replaceTable(*updated)
	s.ActiveTable = s.findTable(tableID)
	s.ActiveCheck = nil
	s.Screen = ScreenOrderEntry
	s.mu.Unlock()

	s.notifySuccess("Seated %d guests at %s", guestCount, updated.Name)
	return nil
}

// ClearTable returns a table to available (after settlement or a manual bus).
func (s *Store) ClearTable(tableID uint) error {
	token := inflightToken("clear", tableID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	updated, err := s.gw.ClearTable(tableID)
	if err != nil {
		s.notifyError(err)
		return err
	}

	s.mu.Lock()
	s.replaceTable(*updated)
	if s.ActiveTable != nil && s.ActiveTable.ID == tableID {
		s.ActiveTable = nil
		s.ActiveCheck = nil
		s.Cart = nil
		s.Screen = ScreenFloor
	}
	s.mu.Unlock()

	s.notifySuccess("%s cleared", updated.Name)
	return nil
}

// TransferTable moves the whole check to another table, which must be free.
func (s *Store) TransferTable(checkID, toTableID uint) error {
	s.mu.Lock()
	dest := s.findTable(toTableID)
	if dest == nil {
		s.mu.Unlock()
		return ErrTableNotFound
	}
	if dest.Status != models.TableAvailable {
		s.mu.Unlock()
		return ErrTableUnavailable
	}
	s.mu.Unlock()

	token := inflightToken("transfer", checkID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	check, err := s.gw.TransferCheck(checkID, toTableID, nil)
	if err != nil {
		s.notifyError(err)
		return err
	}

	if err := s.refreshTables(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.ActiveCheck != nil && s.ActiveCheck.ID == checkID {
		s.setActiveCheck(check)
		s.ActiveTable = s.findTable(toTableID)
	}
	s.mu.Unlock()

	s.notifySuccess("Check #%d moved to table %d", checkID, toTableID)
	return nil
}

// BeginMergeSelection puts the floor plan into merge-selection mode; taps
// toggle membership instead of navigating.
func (s *Store) BeginMergeSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MergeMode = true
	s.MergeSelection = nil
}

func (s *Store) CancelMergeSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MergeMode = false
	s.MergeSelection = nil
}

// toggleMergeSelectionLocked flips membership, preserving selection order.
// The first table selected becomes the primary. Caller must hold mu.
func (s *Store) toggleMergeSelectionLocked(tableID uint) {
	for i, id := range s.MergeSelection {
		if id == tableID {
			s.MergeSelection = append(s.MergeSelection[:i], s.MergeSelection[i+1:]...)
			return
		}
	}
	s.MergeSelection = append(s.MergeSelection, tableID)
}

// MergeTables commits the pending selection: first selected is primary, the
// rest fold into it.
func (s *Store) MergeTables() error {
	s.mu.Lock()
	if len(s.MergeSelection) < 2 {
		s.mu.Unlock()
		return errors.New("select at least two tables to merge")
	}
	primary := s.MergeSelection[0]
	secondary := make([]uint, len(s.MergeSelection)-1)
	copy(secondary, s.MergeSelection[1:])
	s.mu.Unlock()

	token := inflightToken("merge-tables", primary)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	merge, err := s.gw.CreateTableMerge(primary, secondary)
	if err != nil {
		s.notifyError(err)
		return err
	}

	if err := s.refreshTables(); err != nil {
		return err
	}

	s.mu.Lock()
	s.ActiveMerges = append(s.ActiveMerges, *merge)
	s.MergeMode = false
	s.MergeSelection = nil
	s.mu.Unlock()

	s.notifySuccess("Merged %d tables into table %d", len(secondary)+1, primary)
	return nil
}

// UnmergeTables dissolves an active merge and restores the member tables.
func (s *Store) UnmergeTables(mergeID uint) error {
	token := inflightToken("unmerge", mergeID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	merge, err := s.gw.UnmergeTables(mergeID)
	if err != nil {
		s.notifyError(err)
		return err
	}

	if err := s.refreshTables(); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.ActiveMerges {
		if s.ActiveMerges[i].ID == mergeID {
			s.ActiveMerges = append(s.ActiveMerges[:i], s.ActiveMerges[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.notifySuccess("Unmerged table group %d", merge.ID)
	return nil
}

// refreshTables re-fetches the floor plan and overwrites the local copy.
func (s *Store) refreshTables() error {
	tables, err := s.gw.FloorPlan()
	if err != nil {
		s.notifyError(err)
		return err
	}
	s.mu.Lock()
	s.Tables = tables
	if s.ActiveTable != nil {
		s.ActiveTable = s.findTable(s.ActiveTable.ID)
	}
	s.mu.Unlock()
	return nil
}
