package session

import (
	"errors"

	"github.com/yeremiapane/waiter-terminal/gateway"
	"github.com/yeremiapane/waiter-terminal/models"
)

// OpenTab starts a running bar balance. Tabs live independently of tables
// until explicitly transferred.
func (s *Store) OpenTab(customerName, cardLastFour string, preAuthAmount float64) error {
	if customerName == "" {
		return errors.New("customer name is required")
	}

	token := inflightToken("open-tab", 0)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	tab, err := s.gw.OpenTab(gateway.TabRequest{
		CustomerName:  customerName,
		CardLastFour:  cardLastFour,
		PreAuthAmount: preAuthAmount,
	})
	if err != nil {
		s.notifyError(err)
		return err
	}

	s.mu.Lock()
	s.Tabs = append(s.Tabs, *tab)
	s.ActiveTab = &s.Tabs[len(s.Tabs)-1]
	s.mu.Unlock()

	s.notifySuccess("Tab opened for %s", tab.CustomerName)
	return nil
}

// AddCartToTab appends the pending cart lines to a tab; no table involved.
// The cart empties on success, same as sending an order.
func (s *Store) AddCartToTab(tabID uint) error {
	s.mu.Lock()
	if len(s.Cart) == 0 {
		s.mu.Unlock()
		return ErrEmptyCart
	}
	items := make([]gateway.TabItemRequest, 0, len(s.Cart))
	for i := range s.Cart {
		items = append(items, gateway.TabItemRequest{
			MenuItemID: s.Cart[i].MenuItemID,
			Quantity:   s.Cart[i].Quantity,
		})
	}
	s.mu.Unlock()

	token := inflightToken("tab-items", tabID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	tab, err := s.gw.AddTabItems(tabID, items)
	if err != nil {
		s.notifyError(err)
		return err
	}

	s.mu.Lock()
	s.Cart = nil
	s.replaceTab(*tab)
	s.mu.Unlock()

	s.notifySuccess("Added %d lines to %s's tab", len(items), tab.CustomerName)
	return nil
}

// TransferTabToTable converts the tab into a table-bound check.
func (s *Store) TransferTabToTable(tabID, tableID uint) error {
	token := inflightToken("tab-transfer", tabID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	check, err := s.gw.TransferTab(tabID, tableID)
	if err != nil {
		s.notifyError(err)
		return err
	}

	if err := s.refreshTables(); err != nil {
		return err
	}

	s.mu.Lock()
	s.removeTab(tabID)
	if s.ActiveTab != nil && s.ActiveTab.ID == tabID {
		s.ActiveTab = nil
	}
	s.setActiveCheck(check)
	s.ActiveTable = s.findTable(tableID)
	s.Screen = ScreenCheck
	s.mu.Unlock()

	s.notifySuccess("Tab moved to table %d as check #%d", tableID, check.ID)
	return nil
}

// CloseTab settles the balance and ends the tab.
func (s *Store) CloseTab(tabID uint, paymentMethod string, tip float64) error {
	token := inflightToken("tab-close", tabID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	tab, err := s.gw.CloseTab(tabID, paymentMethod, tip)
	if err != nil {
		s.notifyError(err)
		return err
	}

	s.mu.Lock()
	s.removeTab(tabID)
	if s.ActiveTab != nil && s.ActiveTab.ID == tabID {
		s.ActiveTab = nil
	}
	s.mu.Unlock()

	s.notifySuccess("Tab closed for %s", tab.CustomerName)
	return nil
}

// replaceTab overwrites the local copy of a tab. Caller must hold mu.
func (s *Store) replaceTab(tab models.Tab) {
	for i := range s.Tabs {
		if s.Tabs[i].ID == tab.ID {
			s.Tabs[i] = tab
			if s.ActiveTab != nil && s.ActiveTab.ID == tab.ID {
				s.ActiveTab = &s.Tabs[i]
			}
			return
		}
	}
	s.Tabs = append(s.Tabs, tab)
}

// removeTab drops a tab from the open list. Caller must hold mu.
func (s *Store) removeTab(tabID uint) {
	for i := range s.Tabs {
		if s.Tabs[i].ID == tabID {
			s.Tabs = append(s.Tabs[:i], s.Tabs[i+1:]...)
			return
		}
	}
}
