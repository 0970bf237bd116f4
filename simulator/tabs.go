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

// Tabs run without a table until transferred; a held order expires two
// hours after parking unless resumed first.
const heldOrderTTL = 2 * time.Hour

func (s *Server) OpenTab(c *gin.Context) {
	var req struct {
		CustomerName  string  `json:"customer_name" binding:"required"`
		CardLastFour  string  `json:"card_last_four"`
		PreAuthAmount float64 `json:"pre_auth_amount"`
		CreditLimit   float64 `json:"credit_limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tab := models.Tab{
		CustomerName:  req.CustomerName,
		CardLastFour:  req.CardLastFour,
		PreAuthAmount: req.PreAuthAmount,
		CreditLimit:   req.CreditLimit,
		Status:        models.TabOpen,
	}
	if tab.CreditLimit == 0 {
		tab.CreditLimit = 500
	}
	if err := s.DB.Create(&tab).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Tab opened", tab)
}

func (s *Server) ListTabs(c *gin.Context) {
	var tabs []models.Tab
	query := s.DB.Preload("Items").Order("id")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&tabs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tabs", tabs)
}

func (s *Server) loadTab(c *gin.Context) (*models.Tab, error) {
	id, err := strconv.Atoi(c.Param("tab_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid tab id"))
		return nil, err
	}
	var tab models.Tab
	if err := s.DB.Preload("Items").First(&tab, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return nil, err
	}
	return &tab, nil
}

// AddTabItems appends priced lines, enforcing the credit limit.
func (s *Server) AddTabItems(c *gin.Context) {
	var req struct {
		Items []struct {
			MenuItemID uint `json:"menu_item_id"`
			Quantity   int  `json:"quantity"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(req.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("items is empty"))
		return
	}

	tab, err := s.loadTab(c)
	if err != nil {
		return
	}
	if tab.Status != models.TabOpen {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("tab is %s", tab.Status))
		return
	}

	added := tab.Total
	var lines []models.TabItem
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
		lineTotal := round2(float64(line.Quantity) * item.Price)
		added += lineTotal
		lines = append(lines, models.TabItem{
			TabID:      tab.ID,
			MenuItemID: item.ID,
			Name:       item.Name,
			Quantity:   line.Quantity,
			UnitPrice:  item.Price,
			LineTotal:  lineTotal,
		})
	}

	if tab.CreditLimit > 0 && added > tab.CreditLimit {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("tab credit limit of %s exceeded", utils.FormatCurrency(tab.CreditLimit)))
		return
	}

	if err := s.DB.Create(&lines).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	tab.Total = round2(added)
	tab.BalanceDue = tab.Total
	if err := s.DB.Model(&models.Tab{}).Where("id = ?", tab.ID).Updates(map[string]interface{}{
		"total":       tab.Total,
		"balance_due": tab.BalanceDue,
	}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var fresh models.Tab
	s.DB.Preload("Items").First(&fresh, tab.ID)
	utils.RespondJSON(c, http.StatusOK, "Items added to tab", fresh)
}

// TransferTab converts the tab into a check on the chosen table.
func (s *Server) TransferTab(c *gin.Context) {
	var req struct {
		TableID uint `json:"table_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tab, err := s.loadTab(c)
	if err != nil {
		return
	}
	if tab.Status != models.TabOpen {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("tab is %s", tab.Status))
		return
	}

	var table models.Table
	if err := s.DB.First(&table, req.TableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if table.Status != models.TableAvailable {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("table %s is not available", table.Name))
		return
	}

	check := models.Check{
		TableID:    table.ID,
		Status:     models.CheckOpen,
		GuestCount: 1,
	}
	if err := s.DB.Create(&check).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	for _, line := range tab.Items {
		item := models.CheckItem{
			CheckID:    check.ID,
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			LineTotal:  line.LineTotal,
			Seat:       1,
			Status:     models.CheckItemActive,
		}
		if err := s.DB.Create(&item).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}
	if err := s.retotal(&check, true); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	now := time.Now()
	table.Status = models.TableOccupied
	table.GuestCount = 1
	table.SeatedAt = &now
	table.CurrentCheckID = &check.ID
	s.DB.Save(&table)

	s.DB.Model(&models.Tab{}).Where("id = ?", tab.ID).Updates(map[string]interface{}{
		"status":      models.TabClosed,
		"table_id":    table.ID,
		"balance_due": 0,
	})

	utils.RespondJSON(c, http.StatusOK, "Tab transferred to table", check)
}

// CloseTab settles the balance and ends the tab.
func (s *Server) CloseTab(c *gin.Context) {
	var req struct {
		PaymentMethod string  `json:"payment_method" binding:"required"`
		TipAmount     float64 `json:"tip_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tab, err := s.loadTab(c)
	if err != nil {
		return
	}
	if tab.Status != models.TabOpen {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("tab is %s", tab.Status))
		return
	}

	tab.Status = models.TabClosed
	tab.BalanceDue = 0
	if err := s.DB.Model(&models.Tab{}).Where("id = ?", tab.ID).Updates(map[string]interface{}{
		"status":      models.TabClosed,
		"balance_due": 0,
	}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Tab closed", tab)
}

// HoldOrder parks a check: items are snapshotted, the check detaches, and
// its table returns to available.
func (s *Server) HoldOrder(c *gin.Context) {
	var req struct {
		CheckID uint   `json:"check_id" binding:"required"`
		Reason  string `json:"reason" binding:"required"`
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

	expires := time.Now().Add(heldOrderTTL)
	held := models.HeldOrder{
		CheckID:   check.ID,
		TableID:   check.TableID,
		Reason:    req.Reason,
		Total:     check.Total,
		Status:    models.HeldOrderHeld,
		ExpiresAt: &expires,
	}
	if err := s.DB.Create(&held).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	for _, item := range check.ActiveItems() {
		s.DB.Create(&models.HeldOrderItem{
			HeldOrderID: held.ID,
			MenuItemID:  item.MenuItemID,
			Name:        item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Seat:        item.Seat,
			Course:      item.Course,
		})
	}

	s.DB.Model(&models.Check{}).Where("id = ?", check.ID).Update("status", models.CheckHeld)

	var table models.Table
	if err := s.DB.First(&table, check.TableID).Error; err == nil {
		table.Status = models.TableAvailable
		table.GuestCount = 0
		table.SeatedAt = nil
		table.CurrentCheckID = nil
		s.DB.Save(&table)
	}

	var fresh models.HeldOrder
	s.DB.Preload("Items").First(&fresh, held.ID)
	utils.RespondJSON(c, http.StatusCreated, "Order held", fresh)
}

// ListHeldOrders flips past-due holds to expired before answering, so the
// terminal's poll sees expiry without a dedicated timer endpoint.
func (s *Server) ListHeldOrders(c *gin.Context) {
	s.DB.Model(&models.HeldOrder{}).
		Where("status = ? AND expires_at < ?", models.HeldOrderHeld, time.Now()).
		Update("status", models.HeldOrderExpired)

	var orders []models.HeldOrder
	query := s.DB.Preload("Items").Order("id")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Held orders", orders)
}

// ResumeHeldOrder reattaches the parked check, to its original table by
// default or to target_table_id when supplied.
func (s *Server) ResumeHeldOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("held_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid held order id"))
		return
	}

	var held models.HeldOrder
	if err := s.DB.First(&held, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if held.Status != models.HeldOrderHeld {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("held order is %s", held.Status))
		return
	}

	targetID := held.TableID
	if raw := c.Query("target_table_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid target_table_id"))
			return
		}
		targetID = uint(parsed)
	}

	var table models.Table
	if err := s.DB.First(&table, targetID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if table.Status != models.TableAvailable {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("table %s is not available", table.Name))
		return
	}

	check, err := s.loadCheck(held.CheckID)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	s.DB.Model(&models.Check{}).Where("id = ?", check.ID).Updates(map[string]interface{}{
		"status":   models.CheckOpen,
		"table_id": table.ID,
	})
	check.Status = models.CheckOpen
	check.TableID = table.ID

	now := time.Now()
	table.Status = models.TableOccupied
	table.GuestCount = check.GuestCount
	table.SeatedAt = &now
	table.CurrentCheckID = &check.ID
	s.DB.Save(&table)

	s.DB.Model(&models.HeldOrder{}).Where("id = ?", held.ID).Update("status", models.HeldOrderResumed)

	utils.RespondJSON(c, http.StatusOK, "Held order resumed", check)
}

// CreateTableMerge folds secondary tables under a primary.
func (s *Server) CreateTableMerge(c *gin.Context) {
	var req struct {
		PrimaryTableID    uint   `json:"primary_table_id" binding:"required"`
		SecondaryTableIDs []uint `json:"secondary_table_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(req.SecondaryTableIDs) == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("at least one secondary table is required"))
		return
	}

	ids := append([]uint{req.PrimaryTableID}, req.SecondaryTableIDs...)
	var count int64
	s.DB.Model(&models.Table{}).Where("id IN ?", ids).Count(&count)
	if count != int64(len(ids)) {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("unknown table in merge set"))
		return
	}

	merge := models.TableMerge{
		PrimaryTableID:    req.PrimaryTableID,
		SecondaryTableIDs: req.SecondaryTableIDs,
		IsActive:          true,
	}
	if err := s.DB.Create(&merge).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Tables merged", merge)
}

func (s *Server) ListTableMerges(c *gin.Context) {
	var merges []models.TableMerge
	query := s.DB.Order("id")
	if c.Query("active_only") == "true" {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&merges).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table merges", merges)
}

// Unmerge dissolves a merge; member tables keep whatever status they hold.
func (s *Server) Unmerge(c *gin.Context) {
	var merge models.TableMerge
	if err := s.DB.First(&merge, c.Param("merge_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if !merge.IsActive {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("merge is no longer active"))
		return
	}

	merge.IsActive = false
	if err := s.DB.Save(&merge).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Tables unmerged", merge)
}
