package session

import "errors"

// HoldOrder parks the open check: the backend snapshots its items and total,
// detaches it, and the table returns to available.
func (s *Store) HoldOrder(reason string) error {
	if reason == "" {
		return errors.New("a hold reason is required")
	}

	s.mu.Lock()
	if s.ActiveCheck == nil {
		s.mu.Unlock()
		return ErrNoActiveCheck
	}
	checkID := s.ActiveCheck.ID
	s.mu.Unlock()

	token := inflightToken("hold", checkID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	held, err := s.gw.HoldOrder(checkID, reason)
	if err != nil {
		s.notifyError(err)
		return err
	}

	if err := s.refreshTables(); err != nil {
		return err
	}

	s.mu.Lock()
	s.HeldOrders = append(s.HeldOrders, *held)
	if s.ActiveCheck != nil && s.ActiveCheck.ID == checkID {
		s.ActiveCheck = nil
		s.ActiveTable = nil
		s.Screen = ScreenFloor
	}
	s.mu.Unlock()

	s.notifySuccess("Check #%d held: %s", checkID, reason)
	return nil
}

// ResumeHeldOrder reattaches a parked order, to its original table when
// targetTableID is nil or to the chosen one otherwise.
func (s *Store) ResumeHeldOrder(heldID uint, targetTableID *uint) error {
	token := inflightToken("resume", heldID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	check, err := s.gw.ResumeHeldOrder(heldID, targetTableID)
	if err != nil {
		s.notifyError(err)
		return err
	}

	if err := s.refreshTables(); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.HeldOrders {
		if s.HeldOrders[i].ID == heldID {
			s.HeldOrders = append(s.HeldOrders[:i], s.HeldOrders[i+1:]...)
			break
		}
	}
	s.setActiveCheck(check)
	s.ActiveTable = s.findTable(check.TableID)
	s.Screen = ScreenCheck
	s.mu.Unlock()

	s.notifySuccess("Held order resumed on table %d as check #%d", check.TableID, check.ID)
	return nil
}
