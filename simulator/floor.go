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

// FloorPlan returns every table with live occupancy details filled in.
func (s *Server) FloorPlan(c *gin.Context) {
	var tables []models.Table
	if err := s.DB.Order("id").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	for i := range tables {
		table := &tables[i]
		if table.SeatedAt != nil {
			table.SeatedMinutes = int(time.Since(*table.SeatedAt).Minutes())
		}
		if table.Status == models.TableOccupied {
			var check models.Check
			err := s.DB.Where("table_id = ? AND status = ?", table.ID, models.CheckOpen).First(&check).Error
			if err == nil {
				table.CurrentTotal = check.Total
				table.CurrentCheckID = &check.ID
			}
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Floor plan", tables)
}

// SeatTable seats a party. Guest count must fit the table's capacity.
func (s *Server) SeatTable(c *gin.Context) {
	tableID := c.Param("table_id")
	guestCount, err := strconv.Atoi(c.Query("guest_count"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("guest_count is required"))
		return
	}

	var table models.Table
	if err := s.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if table.Status != models.TableAvailable {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("table %s is not available", table.Name))
		return
	}
	if guestCount < 1 || guestCount > table.Capacity {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("guest count must be between 1 and %d", table.Capacity))
		return
	}

	now := time.Now()
	table.Status = models.TableOccupied
	table.GuestCount = guestCount
	table.SeatedAt = &now
	if err := s.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table seated", table)
}

// ClearTable returns a table to available.
func (s *Server) ClearTable(c *gin.Context) {
	tableID := c.Param("table_id")

	var table models.Table
	if err := s.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	table.Status = models.TableAvailable
	table.GuestCount = 0
	table.SeatedAt = nil
	table.CurrentCheckID = nil
	if err := s.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table cleared", table)
}

// QuickMenu returns the item catalog.
func (s *Server) QuickMenu(c *gin.Context) {
	var items []models.MenuItem
	if err := s.DB.Order("category, name").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Quick menu", items)
}

// ListReservations filters by the date of the reserved slot when given.
func (s *Server) ListReservations(c *gin.Context) {
	var reservations []models.Reservation
	query := s.DB.Order("reserved_for")
	if date := c.Query("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid date %q", date))
			return
		}
		query = query.Where("reserved_for >= ? AND reserved_for < ?", day, day.Add(24*time.Hour))
	}
	if err := query.Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservations", reservations)
}

func (s *Server) CreateReservation(c *gin.Context) {
	var req struct {
		GuestName       string `json:"guest_name" binding:"required"`
		Phone           string `json:"phone"`
		PartySize       int    `json:"party_size" binding:"required"`
		ReservedFor     string `json:"reserved_for" binding:"required"`
		DurationMinutes int    `json:"duration_minutes"`
		TableIDs        []uint `json:"table_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservedFor, err := time.Parse(time.RFC3339, req.ReservedFor)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("reserved_for must be RFC3339"))
		return
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = 90
	}

	reservation := models.Reservation{
		GuestName:       req.GuestName,
		Phone:           req.Phone,
		PartySize:       req.PartySize,
		ReservedFor:     reservedFor,
		DurationMinutes: req.DurationMinutes,
		Status:          models.ReservationConfirmed,
		TableIDs:        req.TableIDs,
	}
	if err := s.DB.Create(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Bound tables show as reserved on the floor plan.
	for _, tableID := range req.TableIDs {
		s.DB.Model(&models.Table{}).
			Where("id = ? AND status = ?", tableID, models.TableAvailable).
			Update("status", models.TableReserved)
	}

	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

// SeatReservation seats the reserved party and occupies its tables.
func (s *Server) SeatReservation(c *gin.Context) {
	var reservation models.Reservation
	if err := s.DB.First(&reservation, c.Param("reservation_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if reservation.Status == models.ReservationCancelled || reservation.Status == models.ReservationSeated {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("reservation is %s", reservation.Status))
		return
	}

	tableIDs := reservation.TableIDs
	if len(tableIDs) == 0 {
		// No bound table: pick the first free one that fits the party.
		var table models.Table
		err := s.DB.Where("status = ? AND capacity >= ?", models.TableAvailable, reservation.PartySize).
			Order("capacity").First(&table).Error
		if err != nil {
			utils.RespondError(c, http.StatusConflict, fmt.Errorf("no free table fits a party of %d", reservation.PartySize))
			return
		}
		tableIDs = []uint{table.ID}
		reservation.TableIDs = tableIDs
	}

	now := time.Now()
	for _, tableID := range tableIDs {
		var table models.Table
		if err := s.DB.First(&table, tableID).Error; err != nil {
			continue
		}
		table.Status = models.TableOccupied
		table.GuestCount = reservation.PartySize
		table.SeatedAt = &now
		s.DB.Save(&table)
	}

	reservation.Status = models.ReservationSeated
	if err := s.DB.Save(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation seated", reservation)
}

func (s *Server) CancelReservation(c *gin.Context) {
	var reservation models.Reservation
	if err := s.DB.First(&reservation, c.Param("reservation_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if reservation.Status == models.ReservationSeated {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("reservation is already seated"))
		return
	}

	reservation.Status = models.ReservationCancelled
	if err := s.DB.Save(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Release any table that was only held for this reservation.
	for _, tableID := range reservation.TableIDs {
		s.DB.Model(&models.Table{}).
			Where("id = ? AND status = ?", tableID, models.TableReserved).
			Update("status", models.TableAvailable)
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", reservation)
}
