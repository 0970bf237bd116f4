package simulator

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/waiter-terminal/models"
	"github.com/yeremiapane/waiter-terminal/utils"
)

// The fiscal bridge is simulated as a device that always approves unless
// marked failing. Every call answers with an approval/receipt indicator.

func (s *Server) deviceResult(c *gin.Context, message string, extra gin.H) {
	if s.Device.failing() {
		utils.RespondJSON(c, http.StatusOK, "Fiscal device error", gin.H{
			"approved": false,
			"message":  "fiscal device not responding",
		})
		return
	}
	data := gin.H{
		"approved":       true,
		"receipt_number": s.Device.nextReceipt(),
		"message":        message,
	}
	for k, v := range extra {
		data[k] = v
	}
	utils.RespondJSON(c, http.StatusOK, message, data)
}

func (s *Server) FiscalReceipt(c *gin.Context) {
	var req struct {
		CheckID       uint   `json:"check_id" binding:"required"`
		PaymentMethod string `json:"payment_method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if _, err := s.loadCheck(req.CheckID); err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	s.deviceResult(c, fmt.Sprintf("Fiscal %s receipt printed", req.PaymentMethod), nil)
}

func (s *Server) NonFiscalReceipt(c *gin.Context) {
	var req struct {
		CheckID uint `json:"check_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if _, err := s.loadCheck(req.CheckID); err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	s.deviceResult(c, "Non-fiscal receipt printed", nil)
}

// FiscalCardPayment runs the card for the full balance. Approval settles the
// check exactly like a standard full payment; a decline changes nothing.
func (s *Server) FiscalCardPayment(c *gin.Context) {
	var req struct {
		CheckID   uint    `json:"check_id" binding:"required"`
		Amount    float64 `json:"amount" binding:"required"`
		TipAmount float64 `json:"tip_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	check, err := s.loadCheck(req.CheckID)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if check.Status != models.CheckOpen {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("check is %s", check.Status))
		return
	}

	if s.Device.failing() {
		utils.RespondJSON(c, http.StatusOK, "Card declined", gin.H{
			"approved": false,
			"message":  "card declined by terminal",
		})
		return
	}

	// The card covers the balance; tip rides on top of the charge.
	if _, err := s.settle(check, check.BalanceDue, "card", req.TipAmount); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	s.deviceResult(c, "Card payment approved", gin.H{"check": check})
}

func (s *Server) OpenDrawer(c *gin.Context) {
	s.deviceResult(c, "Cash drawer opened", nil)
}

// XReport prints the shift snapshot: payment counts and volume so far.
func (s *Server) XReport(c *gin.Context) {
	var count int64
	var volume float64
	s.DB.Model(&models.Payment{}).Count(&count)
	s.DB.Model(&models.Payment{}).Select("COALESCE(SUM(amount), 0)").Scan(&volume)
	s.deviceResult(c, "X-report printed", gin.H{
		"payments": count,
		"volume":   round2(volume),
	})
}

// ZReport closes the fiscal day; the caller must confirm explicitly because
// the close cannot be undone.
func (s *Server) ZReport(c *gin.Context) {
	if c.Query("confirm") != "true" {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("z-report is irreversible and requires confirm=true"))
		return
	}
	var count int64
	var volume float64
	s.DB.Model(&models.Payment{}).Count(&count)
	s.DB.Model(&models.Payment{}).Select("COALESCE(SUM(amount), 0)").Scan(&volume)
	s.deviceResult(c, "Z-report printed, day closed", gin.H{
		"payments": count,
		"volume":   round2(volume),
	})
}
