package session

import (
	"github.com/yeremiapane/waiter-terminal/gateway"
	"github.com/yeremiapane/waiter-terminal/models"
)

// Cart commands are local-only: they never touch the gateway. The cart is
// discarded once sent or abandoned and has no server-side counterpart.

// AddToCart appends a line for the item, or bumps the quantity of an
// existing line that matches on (item, seat, course) and has no modifiers
// yet. Once a line carries modifiers or notes it stays distinct.
func (s *Store) AddToCart(item models.MenuItem, seat int, course string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.Cart {
		line := &s.Cart[i]
		if line.MenuItemID == item.ID && line.Seat == seat && line.Course == course &&
			len(line.Modifiers) == 0 && line.Notes == "" {
			line.Quantity++
			return
		}
	}

	s.Cart = append(s.Cart, models.CartItem{
		MenuItemID: item.ID,
		Name:       item.Name,
		Quantity:   1,
		UnitPrice:  item.Price,
		Seat:       seat,
		Course:     course,
	})
}

// UpdateQuantity adjusts a cart line by delta, clamping at zero; a line
// reaching zero is removed.
func (s *Store) UpdateQuantity(index, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.Cart) {
		return
	}
	s.Cart[index].Quantity += delta
	if s.Cart[index].Quantity <= 0 {
		s.Cart = append(s.Cart[:index], s.Cart[index+1:]...)
	}
}

// AttachModifiers replaces the line's modifier set and note. The line never
// re-merges with other lines afterwards.
func (s *Store) AttachModifiers(index int, modifiers []string, notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.Cart) {
		return
	}
	s.Cart[index].Modifiers = modifiers
	s.Cart[index].Notes = notes
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cart = nil
}

// CartTotal is the running value of the pending lines.
func (s *Store) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for i := range s.Cart {
		total += s.Cart[i].LineTotal()
	}
	return total
}

// SendOrder submits every cart line in one request. Requires a seated table
// and a non-empty cart; on success the cart empties and the table's check
// becomes active.
func (s *Store) SendOrder(sendToKitchen bool) error {
	s.mu.Lock()
	if s.ActiveTable == nil || s.ActiveTable.Status != models.TableOccupied {
		s.mu.Unlock()
		return ErrNoActiveTable
	}
	if len(s.Cart) == 0 {
		s.mu.Unlock()
		return ErrEmptyCart
	}

	tableID := s.ActiveTable.ID
	req := gateway.OrderRequest{
		TableID:       tableID,
		GuestCount:    s.ActiveTable.GuestCount,
		SendToKitchen: sendToKitchen,
	}
	for i := range s.Cart {
		line := &s.Cart[i]
		req.Items = append(req.Items, gateway.OrderItemRequest{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			Seat:       line.Seat,
			Course:     line.Course,
			Modifiers:  line.Modifiers,
			Notes:      line.Notes,
		})
	}
	s.mu.Unlock()

	token := inflightToken("send-order", tableID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	check, err := s.gw.SubmitOrder(req)
	if err != nil {
		s.notifyError(err)
		return err
	}

	s.mu.Lock()
	s.Cart = nil
	s.setActiveCheck(check)
	s.Screen = ScreenCheck
	s.mu.Unlock()

	if err := s.refreshTables(); err != nil {
		return err
	}

	s.notifySuccess("Order sent for table %d, check #%d", tableID, check.ID)
	return nil
}

// FireCourse tells the kitchen to start the named course on the open check.
func (s *Store) FireCourse(course string) error {
	s.mu.Lock()
	if s.ActiveCheck == nil {
		s.mu.Unlock()
		return ErrNoActiveCheck
	}
	checkID := s.ActiveCheck.ID
	s.mu.Unlock()

	token := inflightToken("fire-course", checkID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	if err := s.gw.FireCourse(checkID, course); err != nil {
		s.notifyError(err)
		return err
	}

	s.notifySuccess("Fired %s course on check #%d", course, checkID)
	return nil
}
