package simulator

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/waiter-terminal/models"
	"github.com/yeremiapane/waiter-terminal/utils"
)

func (s *Server) loadCheck(checkID uint) (*models.Check, error) {
	var check models.Check
	err := s.DB.Preload("Items").Preload("Payments").First(&check, checkID).Error
	if err != nil {
		return nil, err
	}
	return &check, nil
}

// retotal recomputes the derived amounts and persists them. When retax is
// set the tax follows the new subtotal; split-off checks keep tax at zero.
func (s *Server) retotal(check *models.Check, retax bool) error {
	fresh, err := s.loadCheck(check.ID)
	if err != nil {
		return err
	}
	if retax {
		var subtotal float64
		for _, item := range fresh.ActiveItems() {
			subtotal += item.LineTotal
		}
		fresh.Tax = round2(taxRate * subtotal)
	}
	fresh.Recalculate()
	*check = *fresh
	return s.DB.Model(&models.Check{}).Where("id = ?", check.ID).Updates(map[string]interface{}{
		"subtotal":    check.Subtotal,
		"tax":         check.Tax,
		"discount":    check.Discount,
		"total":       check.Total,
		"balance_due": check.BalanceDue,
	}).Error
}

// CreateOrder commits cart lines against a seated table. An existing open
// check on the table absorbs the new items.
func (s *Server) CreateOrder(c *gin.Context) {
	var req struct {
		TableID       uint `json:"table_id" binding:"required"`
		GuestCount    int  `json:"guest_count"`
		SendToKitchen bool `json:"send_to_kitchen"`
		Items         []struct {
			MenuItemID uint     `json:"menu_item_id"`
			Quantity   int      `json:"quantity"`
			Seat       int      `json:"seat"`
			Course     string   `json:"course"`
			Modifiers  []string `json:"modifiers"`
			Notes      string   `json:"notes"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(req.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("order has no items"))
		return
	}

	var table models.Table
	if err := s.DB.First(&table, req.TableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if table.Status != models.TableOccupied {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("table %s is not seated", table.Name))
		return
	}

	var check models.Check
	err := s.DB.Where("table_id = ? AND status = ?", table.ID, models.CheckOpen).First(&check).Error
	if err != nil {
		check = models.Check{
			TableID:    table.ID,
			Status:     models.CheckOpen,
			GuestCount: req.GuestCount,
		}
		if check.GuestCount == 0 {
			check.GuestCount = table.GuestCount
		}
		if err := s.DB.Create(&check).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	for _, line := range req.Items {
		var item models.MenuItem
		if err := s.DB.First(&item, line.MenuItemID).Error; err != nil {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown menu item %d", line.MenuItemID))
			return
		}
		if line.Quantity < 1 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("quantity must be positive"))
			return
		}
		checkItem := models.CheckItem{
			CheckID:    check.ID,
			MenuItemID: item.ID,
			Name:       item.Name,
			Quantity:   line.Quantity,
			UnitPrice:  item.Price,
			LineTotal:  round2(float64(line.Quantity) * item.Price),
			Seat:       line.Seat,
			Course:     line.Course,
			Modifiers:  line.Modifiers,
			Notes:      line.Notes,
			Status:     models.CheckItemActive,
		}
		if err := s.DB.Create(&checkItem).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	if err := s.retotal(&check, true); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	s.DB.Model(&table).Update("current_check_id", check.ID)

	utils.RespondJSON(c, http.StatusCreated, "Order committed", check)
}

// FireCourse acknowledges a kitchen fire for the named course.
func (s *Server) FireCourse(c *gin.Context) {
	var req struct {
		Course string `json:"course" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	check, err := s.checkFromParam(c, "check_id")
	if err != nil {
		return
	}
	if check.Status != models.CheckOpen {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("check is %s", check.Status))
		return
	}

	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Course %s fired", req.Course), nil)
}

func (s *Server) GetCheck(c *gin.Context) {
	check, err := s.checkFromParam(c, "check_id")
	if err != nil {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Check detail", check)
}

func (s *Server) ChecksByTable(c *gin.Context) {
	tableID := c.Query("table_id")
	if tableID == "" {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("table_id is required"))
		return
	}
	var checks []models.Check
	err := s.DB.Preload("Items").Preload("Payments").
		Where("table_id = ?", tableID).Order("id").Find(&checks).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Checks for table", checks)
}

// ApplyDiscount applies a percent or amount discount. Above the manager
// threshold a valid override pin must accompany the request.
func (s *Server) ApplyDiscount(c *gin.Context) {
	var req struct {
		DiscountType  string  `json:"discount_type" binding:"required"`
		DiscountValue float64 `json:"discount_value" binding:"required"`
		Reason        string  `json:"reason"`
		ManagerPin    string  `json:"manager_pin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	check, err := s.checkFromParam(c, "check_id")
	if err != nil {
		return
	}
	if check.Status != models.CheckOpen {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("check is %s", check.Status))
		return
	}

	var discount float64
	switch req.DiscountType {
	case "percent":
		if req.DiscountValue <= 0 || req.DiscountValue > 100 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("percent discount must be in (0,100]"))
			return
		}
		if req.DiscountValue > managerPercentThreshold && !s.verifyManagerPin(req.ManagerPin) {
			utils.RespondError(c, http.StatusForbidden,
				fmt.Errorf("discounts above %.0f%% require a manager pin", managerPercentThreshold))
			return
		}
		discount = round2(check.Subtotal * req.DiscountValue / 100)
	case "amount":
		if req.DiscountValue <= 0 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("amount discount must be positive"))
			return
		}
		if req.DiscountValue > managerAmountThreshold && !s.verifyManagerPin(req.ManagerPin) {
			utils.RespondError(c, http.StatusForbidden,
				fmt.Errorf("discounts above %s require a manager pin", utils.FormatCurrency(managerAmountThreshold)))
			return
		}
		discount = round2(req.DiscountValue)
	default:
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown discount type %q", req.DiscountType))
		return
	}

	check.Discount = discount
	if err := s.DB.Model(&models.Check{}).Where("id = ?", check.ID).
		Update("discount", discount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := s.retotal(check, false); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Discount applied", check)
}

// SplitEven reports an equal-share amount; committed items are untouched.
// The last share absorbs the rounding remainder.
func (s *Server) SplitEven(c *gin.Context) {
	var req struct {
		NumWays int `json:"num_ways" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.NumWays < 2 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("num_ways must be at least 2"))
		return
	}

	check, err := s.checkFromParam(c, "check_id")
	if err != nil {
		return
	}

	perPerson := round2(check.Total / float64(req.NumWays))
	utils.RespondJSON(c, http.StatusOK, "Even split computed", gin.H{
		"check":             check,
		"num_ways":          req.NumWays,
		"amount_per_person": perPerson,
	})
}

// SplitBySeat produces one check per distinct seat among the active items.
func (s *Server) SplitBySeat(c *gin.Context) {
	check, err := s.checkFromParam(c, "check_id")
	if err != nil {
		return
	}

	bySeat := make(map[int][]models.CheckItem)
	var seats []int
	for _, item := range check.ActiveItems() {
		if _, ok := bySeat[item.Seat]; !ok {
			seats = append(seats, item.Seat)
		}
		bySeat[item.Seat] = append(bySeat[item.Seat], item)
	}
	if len(seats) < 2 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("items span only one seat"))
		return
	}

	// The first seat keeps the original check; every further seat gets a new
	// check on the same table.
	results := []models.Check{}
	for i, seat := range seats {
		if i == 0 {
			continue
		}
		seatCheck := models.Check{
			TableID:    check.TableID,
			Status:     models.CheckOpen,
			GuestCount: len(bySeat[seat]),
		}
		if err := s.DB.Create(&seatCheck).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		for _, item := range bySeat[seat] {
			s.DB.Model(&models.CheckItem{}).Where("id = ?", item.ID).Update("check_id", seatCheck.ID)
		}
		if err := s.retotal(&seatCheck, true); err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		results = append(results, seatCheck)
	}

	if err := s.retotal(check, true); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	results = append([]models.Check{*check}, results...)

	utils.RespondJSON(c, http.StatusOK, "Check split by seat", results)
}

// SplitByItems moves the selected active items onto a new check on the same
// table. The new check's total is exactly the sum of the moved line totals;
// tax stays with the original. There is no unsplit.
func (s *Server) SplitByItems(c *gin.Context) {
	var req struct {
		CheckID uint   `json:"check_id" binding:"required"`
		ItemIDs []uint `json:"item_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(req.ItemIDs) == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("item_ids is empty"))
		return
	}

	check, err := s.loadCheck(req.CheckID)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	active := make(map[uint]bool)
	for _, item := range check.ActiveItems() {
		active[item.ID] = true
	}
	for _, id := range req.ItemIDs {
		if !active[id] {
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("item %d is not an active item of check %d", id, check.ID))
			return
		}
	}

	newCheck := models.Check{
		TableID:    check.TableID,
		Status:     models.CheckOpen,
		GuestCount: check.GuestCount,
	}
	if err := s.DB.Create(&newCheck).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	for _, id := range req.ItemIDs {
		s.DB.Model(&models.CheckItem{}).Where("id = ?", id).Update("check_id", newCheck.ID)
	}

	if err := s.retotal(&newCheck, false); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := s.retotal(check, false); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Check split by items", gin.H{
		"original":  check,
		"new_check": newCheck,
	})
}

// MergeChecks unions several open checks on the same table into the first.
func (s *Server) MergeChecks(c *gin.Context) {
	var req struct {
		CheckIDs []uint `json:"check_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(req.CheckIDs) < 2 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("merge requires at least two checks"))
		return
	}

	target, err := s.loadCheck(req.CheckIDs[0])
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	for _, id := range req.CheckIDs[1:] {
		source, err := s.loadCheck(id)
		if err != nil {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		if source.TableID != target.TableID {
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("check %d is on a different table", id))
			return
		}
		if source.Status != models.CheckOpen || target.Status != models.CheckOpen {
			utils.RespondError(c, http.StatusConflict, fmt.Errorf("only open checks can merge"))
			return
		}
		s.DB.Model(&models.CheckItem{}).Where("check_id = ?", source.ID).Update("check_id", target.ID)
		s.DB.Model(&models.Payment{}).Where("check_id = ?", source.ID).Update("check_id", target.ID)
		target.Tax = round2(target.Tax + source.Tax)
		target.Discount = round2(target.Discount + source.Discount)
		s.DB.Delete(&models.Check{}, source.ID)
	}

	if err := s.DB.Model(&models.Check{}).Where("id = ?", target.ID).Updates(map[string]interface{}{
		"tax":      target.Tax,
		"discount": target.Discount,
	}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := s.retotal(target, false); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Checks merged", target)
}

// TransferCheck moves the whole check, or a subset of items, to another
// table. A whole-check transfer requires a free destination; item moves can
// land on an occupied one.
func (s *Server) TransferCheck(c *gin.Context) {
	var req struct {
		ToTableID       uint   `json:"to_table_id" binding:"required"`
		ItemsToTransfer []uint `json:"items_to_transfer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	check, err := s.checkFromParam(c, "check_id")
	if err != nil {
		return
	}

	var dest models.Table
	if err := s.DB.First(&dest, req.ToTableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if len(req.ItemsToTransfer) == 0 {
		if dest.Status != models.TableAvailable {
			utils.RespondError(c, http.StatusConflict, fmt.Errorf("table %s is not available", dest.Name))
			return
		}

		var source models.Table
		if err := s.DB.First(&source, check.TableID).Error; err == nil {
			source.Status = models.TableAvailable
			source.GuestCount = 0
			source.SeatedAt = nil
			source.CurrentCheckID = nil
			s.DB.Save(&source)
		}

		now := time.Now()
		dest.Status = models.TableOccupied
		dest.GuestCount = check.GuestCount
		dest.SeatedAt = &now
		dest.CurrentCheckID = &check.ID
		s.DB.Save(&dest)

		check.TableID = dest.ID
		if err := s.DB.Model(&models.Check{}).Where("id = ?", check.ID).
			Update("table_id", dest.ID).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}

		utils.RespondJSON(c, http.StatusOK, "Check transferred", check)
		return
	}

	// Item-level move: append to the destination's open check, creating one
	// when the table has none.
	var destCheck models.Check
	err = s.DB.Where("table_id = ? AND status = ?", dest.ID, models.CheckOpen).First(&destCheck).Error
	if err != nil {
		destCheck = models.Check{
			TableID:    dest.ID,
			Status:     models.CheckOpen,
			GuestCount: dest.GuestCount,
		}
		if err := s.DB.Create(&destCheck).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if dest.Status == models.TableAvailable {
			now := time.Now()
			dest.Status = models.TableOccupied
			dest.SeatedAt = &now
		}
		dest.CurrentCheckID = &destCheck.ID
		s.DB.Save(&dest)
	}

	active := make(map[uint]bool)
	for _, item := range check.ActiveItems() {
		active[item.ID] = true
	}
	for _, id := range req.ItemsToTransfer {
		if !active[id] {
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("item %d is not an active item of check %d", id, check.ID))
			return
		}
		s.DB.Model(&models.CheckItem{}).Where("id = ?", id).Update("check_id", destCheck.ID)
	}

	if err := s.retotal(&destCheck, true); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := s.retotal(check, true); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Items transferred", destCheck)
}

func (s *Server) PrintCheck(c *gin.Context) {
	check, err := s.checkFromParam(c, "check_id")
	if err != nil {
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Check #%d printed", check.ID), nil)
}

// VoidItem marks one item voided. The line stays on the check for audit but
// drops out of the subtotal.
func (s *Server) VoidItem(c *gin.Context) {
	var req struct {
		Reason     string `json:"reason" binding:"required"`
		ManagerPin string `json:"manager_pin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var item models.CheckItem
	if err := s.DB.First(&item, c.Param("item_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if item.Status != models.CheckItemActive {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("item is already %s", item.Status))
		return
	}

	item.Status = models.CheckItemVoided
	item.VoidReason = req.Reason
	if err := s.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	check := &models.Check{ID: item.CheckID}
	if err := s.retotal(check, true); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item voided", check)
}

// CreatePayment records a payment. Covering the balance settles the check
// and releases the table; anything less leaves the check open.
func (s *Server) CreatePayment(c *gin.Context) {
	var req struct {
		CheckID   uint    `json:"check_id" binding:"required"`
		Amount    float64 `json:"amount" binding:"required"`
		Method    string  `json:"payment_method" binding:"required"`
		TipAmount float64 `json:"tip_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Amount <= 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("amount must be positive"))
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

	settled, err := s.settle(check, req.Amount, req.Method, req.TipAmount)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Payment recorded", gin.H{
		"check":   check,
		"settled": settled,
	})
}

// settle records the payment and, when the balance reaches zero, closes the
// check and frees its table.
func (s *Server) settle(check *models.Check, amount float64, method string, tip float64) (bool, error) {
	payment := models.Payment{
		CheckID:   check.ID,
		Amount:    round2(amount),
		TipAmount: round2(tip),
		Method:    method,
	}
	if err := s.DB.Create(&payment).Error; err != nil {
		return false, err
	}
	if err := s.retotal(check, false); err != nil {
		return false, err
	}

	settled := check.BalanceDue <= 0.005
	if settled {
		check.Status = models.CheckPaid
		if err := s.DB.Model(&models.Check{}).Where("id = ?", check.ID).
			Update("status", models.CheckPaid).Error; err != nil {
			return false, err
		}
		var table models.Table
		if err := s.DB.First(&table, check.TableID).Error; err == nil {
			table.Status = models.TableAvailable
			table.GuestCount = 0
			table.SeatedAt = nil
			table.CurrentCheckID = nil
			s.DB.Save(&table)
		}
	}
	return settled, nil
}

func (s *Server) checkFromParam(c *gin.Context, param string) (*models.Check, error) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid check id"))
		return nil, err
	}
	check, err := s.loadCheck(uint(id))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return nil, err
	}
	return check, nil
}
