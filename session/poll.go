package session

import (
	"time"

	"github.com/yeremiapane/waiter-terminal/utils"
)

// DefaultPollInterval is how often the terminal absorbs changes made by
// other terminals or by backend timers (held-order expiry, reservation
// status changes).
const DefaultPollInterval = 30 * time.Second

// Bootstrap loads the catalog and the initial floor state.
func (s *Store) Bootstrap() error {
	menu, err := s.gw.QuickMenu()
	if err != nil {
		s.notifyError(err)
		return err
	}
	s.mu.Lock()
	s.Menu = menu
	s.mu.Unlock()
	return s.Reconcile()
}

// Reconcile re-fetches every server-owned collection and overwrites the
// local copies wholesale. The backend is the sole arbiter of concurrent
// edits; this is last-writer reconciliation, not conflict detection.
func (s *Store) Reconcile() error {
	tables, err := s.gw.FloorPlan()
	if err != nil {
		s.notifyError(err)
		return err
	}
	reservations, err := s.gw.Reservations(time.Now().Format("2006-01-02"))
	if err != nil {
		s.notifyError(err)
		return err
	}
	tabs, err := s.gw.OpenTabs()
	if err != nil {
		s.notifyError(err)
		return err
	}
	held, err := s.gw.HeldOrders()
	if err != nil {
		s.notifyError(err)
		return err
	}
	merges, err := s.gw.ActiveTableMerges()
	if err != nil {
		s.notifyError(err)
		return err
	}

	s.mu.Lock()
	s.Tables = tables
	s.Reservations = reservations
	s.Tabs = tabs
	s.HeldOrders = held
	s.ActiveMerges = merges
	// Re-point actives into the fresh collections so stale pointers never
	// survive a reconcile.
	if s.ActiveTable != nil {
		s.ActiveTable = s.findTable(s.ActiveTable.ID)
	}
	if s.ActiveTab != nil {
		id := s.ActiveTab.ID
		s.ActiveTab = nil
		for i := range s.Tabs {
			if s.Tabs[i].ID == id {
				s.ActiveTab = &s.Tabs[i]
				break
			}
		}
	}
	s.mu.Unlock()
	return nil
}

// StartPolling launches the periodic reconciliation pass. Stop with
// StopPolling.
func (s *Store) StartPolling(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	s.mu.Lock()
	if s.pollStop != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	s.pollStop = stop
	s.mu.Unlock()

	s.pollWG.Add(1)
	go func() {
		defer s.pollWG.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.Reconcile(); err != nil && utils.ErrorLogger != nil {
					utils.ErrorLogger.Printf("reconcile failed: %v", err)
				}
			case <-stop:
				return
			}
		}
	}()
}

func (s *Store) StopPolling() {
	s.mu.Lock()
	stop := s.pollStop
	s.pollStop = nil
	s.mu.Unlock()
	if stop != nil {
		close(stop)
		s.pollWG.Wait()
	}
}
