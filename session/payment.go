package session

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/waiter-terminal/gateway"
	"github.com/yeremiapane/waiter-terminal/utils"
)

// ComputeTip returns the tip for a percentage of the subtotal and the grand
// total including it.
func ComputeTip(subtotal, total, tipPercent float64) (tip, grandTotal float64) {
	tip = subtotal * tipPercent / 100
	grandTotal = total + tip
	return tip, grandTotal
}

// ProcessPayment records a payment against the open check. Full settlement
// clears the table and returns the terminal to the floor; a partial payment
// refreshes the check in place.
func (s *Store) ProcessPayment(amount float64, method string, tip float64) error {
	if amount <= 0 {
		return errors.New("payment amount must be positive")
	}

	s.mu.Lock()
	if s.ActiveCheck == nil {
		s.mu.Unlock()
		return ErrNoActiveCheck
	}
	checkID := s.ActiveCheck.ID
	tableID := s.ActiveCheck.TableID
	s.mu.Unlock()

	token := inflightToken("pay", checkID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	result, err := s.gw.CreatePayment(gateway.PaymentRequest{
		CheckID:   checkID,
		Amount:    amount,
		Method:    method,
		TipAmount: tip,
	})
	if err != nil {
		s.notifyError(err)
		return err
	}

	if result.Settled {
		if err := s.refreshTables(); err != nil {
			return err
		}
		s.mu.Lock()
		if s.ActiveCheck != nil && s.ActiveCheck.ID == checkID {
			s.ActiveCheck = nil
			s.ActiveTable = nil
			s.Screen = ScreenFloor
		}
		s.mu.Unlock()
		s.notifySuccess("Check #%d settled, table %d cleared", checkID, tableID)
		return nil
	}

	s.mu.Lock()
	check := result.Check
	if s.ActiveCheck != nil && s.ActiveCheck.ID == checkID {
		s.setActiveCheck(&check)
	}
	s.mu.Unlock()
	s.notifySuccess("Partial payment on check #%d, %s remaining",
		checkID, utils.FormatCurrency(check.BalanceDue))
	return nil
}

// ProcessCardViaFiscalDevice routes the grand total through the fiscal
// payment terminal. Approval settles the check like a standard full payment;
// a decline leaves the check untouched and surfaces the reason.
func (s *Store) ProcessCardViaFiscalDevice(tipPercent float64) error {
	s.mu.Lock()
	if s.ActiveCheck == nil {
		s.mu.Unlock()
		return ErrNoActiveCheck
	}
	checkID := s.ActiveCheck.ID
	tableID := s.ActiveCheck.TableID
	tip, grandTotal := ComputeTip(s.ActiveCheck.Subtotal, s.ActiveCheck.BalanceDue, tipPercent)
	s.mu.Unlock()

	token := inflightToken("fiscal-pay", checkID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	s.setFiscalStatus(FiscalProcessing)
	result, err := s.gw.FiscalCardPayment(checkID, grandTotal, tip)
	s.setFiscalStatus(FiscalIdle)
	if err != nil {
		s.notifyError(err)
		return err
	}
	if !result.Approved {
		err := fmt.Errorf("card declined: %s", result.Message)
		s.notifyError(err)
		return err
	}

	if err := s.refreshTables(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.ActiveCheck != nil && s.ActiveCheck.ID == checkID {
		s.ActiveCheck = nil
		s.ActiveTable = nil
		s.Screen = ScreenFloor
	}
	s.mu.Unlock()

	s.notifySuccess("Card approved, check #%d settled, table %d cleared", checkID, tableID)
	return nil
}

// Fiscal-only actions below have no effect on check state.

func (s *Store) PrintNonFiscalReceipt() error {
	return s.fiscalPrint("non-fiscal receipt", func(checkID uint) (*gateway.FiscalResult, error) {
		return s.gw.FiscalNonFiscalReceipt(checkID)
	})
}

// PrintFiscalReceipt prints a regulated receipt for a cash or card sale.
func (s *Store) PrintFiscalReceipt(method string) error {
	return s.fiscalPrint("fiscal receipt", func(checkID uint) (*gateway.FiscalResult, error) {
		return s.gw.FiscalPrintReceipt(checkID, method)
	})
}

func (s *Store) fiscalPrint(what string, call func(checkID uint) (*gateway.FiscalResult, error)) error {
	s.mu.Lock()
	if s.ActiveCheck == nil {
		s.mu.Unlock()
		return ErrNoActiveCheck
	}
	checkID := s.ActiveCheck.ID
	s.mu.Unlock()

	token := inflightToken("fiscal-print", checkID)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	s.setFiscalStatus(FiscalPrinting)
	result, err := call(checkID)
	s.setFiscalStatus(FiscalIdle)
	if err != nil {
		s.notifyError(err)
		return err
	}
	if !result.Approved {
		err := fmt.Errorf("printer rejected %s: %s", what, result.Message)
		s.notifyError(err)
		return err
	}

	s.notifySuccess("Printed %s for check #%d", what, checkID)
	return nil
}

func (s *Store) OpenCashDrawer() error {
	token := inflightToken("drawer", 0)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	result, err := s.gw.FiscalOpenDrawer()
	if err != nil {
		s.notifyError(err)
		return err
	}
	if !result.Approved {
		err := fmt.Errorf("drawer did not open: %s", result.Message)
		s.notifyError(err)
		return err
	}
	s.notifySuccess("Cash drawer opened")
	return nil
}

// PrintXReport prints the shift snapshot; it does not close anything.
func (s *Store) PrintXReport() error {
	token := inflightToken("x-report", 0)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	s.setFiscalStatus(FiscalPrinting)
	result, err := s.gw.FiscalXReport()
	s.setFiscalStatus(FiscalIdle)
	if err != nil {
		s.notifyError(err)
		return err
	}
	if !result.Approved {
		err := fmt.Errorf("X-report failed: %s", result.Message)
		s.notifyError(err)
		return err
	}
	s.notifySuccess("X-report printed")
	return nil
}

// PrintZReport closes the fiscal day. The close is irreversible, so an
// explicit confirmation is required before anything leaves the terminal.
func (s *Store) PrintZReport(confirm bool) error {
	if !confirm {
		return errors.New("Z-report closes the fiscal day and must be confirmed")
	}

	token := inflightToken("z-report", 0)
	if err := s.begin(token); err != nil {
		return err
	}
	defer s.end(token)

	s.setFiscalStatus(FiscalPrinting)
	result, err := s.gw.FiscalZReport(true)
	s.setFiscalStatus(FiscalIdle)
	if err != nil {
		s.notifyError(err)
		return err
	}
	if !result.Approved {
		err := fmt.Errorf("Z-report failed: %s", result.Message)
		s.notifyError(err)
		return err
	}
	s.notifySuccess("Z-report printed, fiscal day closed")
	return nil
}

func (s *Store) setFiscalStatus(status string) {
	s.mu.Lock()
	s.FiscalStatus = status
	s.mu.Unlock()
}
