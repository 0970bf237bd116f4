package session

import (
	"errors"

	"github.com/yeremiapane/waiter-terminal/gateway"
	"github.com/yeremiapane/waiter-terminal/models"
)

// CreateReservation books a party for a future slot.
func (s *Store) CreateReservation(req gateway.ReservationRequest) error {
	if req.GuestName == "" {
		return errors.New("guest name is required")
	}
	if req.PartySize < 1 {
		return errors.New("party size must be at least 1")
	}

	token := inflightToken("reservation-create", 0)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	reservation, err := s.gw.CreateReservation(req)
	if err != nil {
		s.notifyError(err)
		return err
	}

	s.mu.Lock()
	s.Reservations = append(s.Reservations, *reservation)
	s.mu.Unlock()

	s.notifySuccess("Reservation created for %s, party of %d", reservation.GuestName, reservation.PartySize)
	return nil
}

// SeatReservation seats the reserved party; the backend binds and occupies
// its tables.
func (s *Store) SeatReservation(reservationID uint) error {
	token := inflightToken("reservation-seat", reservationID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	reservation, err := s.gw.SeatReservation(reservationID)
	if err != nil {
		s.notifyError(err)
		return err
	}

	if err := s.refreshTables(); err != nil {
		return err
	}

	s.mu.Lock()
	s.replaceReservation(*reservation)
	if s.ActiveReservation != nil && s.ActiveReservation.ID == reservationID {
		s.ActiveReservation = nil
		s.Screen = ScreenFloor
	}
	s.mu.Unlock()

	s.notifySuccess("Seated reservation for %s", reservation.GuestName)
	return nil
}

func (s *Store) CancelReservation(reservationID uint) error {
	token := inflightToken("reservation-cancel", reservationID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	reservation, err := s.gw.CancelReservation(reservationID)
	if err != nil {
		s.notifyError(err)
		return err
	}

	if err := s.refreshTables(); err != nil {
		return err
	}

	s.mu.Lock()
	s.replaceReservation(*reservation)
	if s.ActiveReservation != nil && s.ActiveReservation.ID == reservationID {
		s.ActiveReservation = nil
		s.Screen = ScreenFloor
	}
	s.mu.Unlock()

	s.notifySuccess("Reservation for %s cancelled", reservation.GuestName)
	return nil
}

// replaceReservation overwrites the local copy. Caller must hold mu.
func (s *Store) replaceReservation(r models.Reservation) {
	for i := range s.Reservations {
		if s.Reservations[i].ID == r.ID {
			s.Reservations[i] = r
			return
		}
	}
	s.Reservations = append(s.Reservations, r)
}
