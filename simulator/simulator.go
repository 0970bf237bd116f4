// Package simulator is an in-process POS backend implementing the endpoint
// contract the waiter terminal depends on. It backs the engine's test suite
// and the development server; the production backend lives elsewhere.
package simulator

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/waiter-terminal/models"
)

// taxRate is applied to every check subtotal at pricing time.
const taxRate = 0.08

// Discounts above either threshold require a manager pin.
const (
	managerPercentThreshold = 20.0
	managerAmountThreshold  = 50.0
)

// FiscalDevice is the simulated payment/receipt terminal. Flip Failing to
// exercise decline paths.
type FiscalDevice struct {
	mu      sync.Mutex
	Failing bool
	serial  int
}

func (d *FiscalDevice) nextReceipt() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.serial++
	return timeStampedReceipt(d.serial)
}

func (d *FiscalDevice) failing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Failing
}

func (d *FiscalDevice) SetFailing(failing bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Failing = failing
}

func timeStampedReceipt(serial int) string {
	return fmt.Sprintf("%s-%04d", time.Now().Format("20060102"), serial)
}

// Server holds the simulator's state: one handler struct owning a *gorm.DB.
type Server struct {
	DB     *gorm.DB
	Device *FiscalDevice
}

func NewServer(db *gorm.DB) *Server {
	return &Server{
		DB:     db,
		Device: &FiscalDevice{},
	}
}

// OpenDB opens an in-memory sqlite database and migrates the schema.
func OpenDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.MenuItem{},
		&models.Check{},
		&models.CheckItem{},
		&models.Payment{},
		&models.Tab{},
		&models.TabItem{},
		&models.HeldOrder{},
		&models.HeldOrderItem{},
		&models.TableMerge{},
		&models.Reservation{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Seed loads a small floor, a quick menu, and two operator accounts:
// waiter/waiter123 for login, and a manager whose override pin is 4321.
func Seed(db *gorm.DB) error {
	capacities := []int{2, 4, 4, 6, 6, 4, 8, 4, 2, 6}
	for i, capacity := range capacities {
		table := models.Table{
			Name:     tableName(i + 1),
			Capacity: capacity,
			Status:   models.TableAvailable,
		}
		if err := db.Create(&table).Error; err != nil {
			return err
		}
	}

	menu := []models.MenuItem{
		{Name: "Grilled Salmon", Price: 18.00, Category: "main"},
		{Name: "House Burger", Price: 12.50, Category: "main"},
		{Name: "Caesar Salad", Price: 9.00, Category: "appetizer"},
		{Name: "Truffle Fries", Price: 6.50, Category: "appetizer"},
		{Name: "Chocolate Tart", Price: 7.00, Category: "dessert"},
		{Name: "Craft Beer", Price: 6.00, Category: "drinks"},
		{Name: "House Red", Price: 8.00, Category: "drinks"},
		{Name: "Espresso", Price: 3.50, Category: "drinks"},
	}
	if err := db.Create(&menu).Error; err != nil {
		return err
	}

	waiterHash, err := bcrypt.GenerateFromPassword([]byte("waiter123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	pinHash, err := bcrypt.GenerateFromPassword([]byte("4321"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	users := []models.User{
		{Name: "Default Waiter", Username: "waiter", PasswordHash: string(waiterHash), Role: "waiter"},
		{Name: "Shift Manager", Username: "manager", PasswordHash: string(waiterHash), Role: "manager", PinHash: string(pinHash)},
	}
	return db.Create(&users).Error
}

func tableName(n int) string {
	return fmt.Sprintf("Table %d", n)
}

// Router wires every endpoint the terminal calls. Login is the only public
// route; the rest require a bearer token.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/auth/login", s.Login)

	authed := r.Group("/")
	authed.Use(AuthMiddleware())
	{
		authed.GET("/waiter/floor-plan", s.FloorPlan)
		authed.POST("/waiter/tables/:table_id/seat", s.SeatTable)
		authed.POST("/waiter/tables/:table_id/clear", s.ClearTable)
		authed.GET("/waiter/menu/quick", s.QuickMenu)

		authed.POST("/waiter/orders", s.CreateOrder)
		authed.POST("/waiter/orders/:check_id/fire-course", s.FireCourse)
		authed.GET("/waiter/checks/:check_id", s.GetCheck)
		authed.GET("/waiter/checks", s.ChecksByTable)
		authed.POST("/waiter/checks/:check_id/discount", s.ApplyDiscount)
		authed.POST("/waiter/checks/:check_id/split-even", s.SplitEven)
		authed.POST("/waiter/checks/:check_id/split-by-seat", s.SplitBySeat)
		authed.POST("/waiter/checks/:check_id/transfer", s.TransferCheck)
		authed.POST("/waiter/checks/:check_id/print", s.PrintCheck)
		authed.POST("/waiter/items/:item_id/void", s.VoidItem)
		authed.POST("/waiter/payments", s.CreatePayment)

		authed.POST("/terminal-ops/split-by-items", s.SplitByItems)
		authed.POST("/terminal-ops/merge-checks", s.MergeChecks)

		authed.POST("/tabs/", s.OpenTab)
		authed.GET("/tabs/", s.ListTabs)
		authed.POST("/tabs/:tab_id/items", s.AddTabItems)
		authed.POST("/tabs/:tab_id/transfer", s.TransferTab)
		authed.POST("/tabs/:tab_id/close", s.CloseTab)

		authed.POST("/held-orders/", s.HoldOrder)
		authed.GET("/held-orders/", s.ListHeldOrders)
		authed.POST("/held-orders/:held_id/resume", s.ResumeHeldOrder)

		authed.POST("/table-merges/", s.CreateTableMerge)
		authed.GET("/table-merges/", s.ListTableMerges)
		authed.POST("/table-merges/:merge_id/unmerge", s.Unmerge)

		authed.GET("/reservations/", s.ListReservations)
		authed.POST("/reservations/", s.CreateReservation)
		authed.POST("/reservations/:reservation_id/seat", s.SeatReservation)
		authed.POST("/reservations/:reservation_id/cancel", s.CancelReservation)

		authed.POST("/fiscal/receipt", s.FiscalReceipt)
		authed.POST("/fiscal/non-fiscal-receipt", s.NonFiscalReceipt)
		authed.POST("/fiscal/card-payment", s.FiscalCardPayment)
		authed.POST("/fiscal/open-drawer", s.OpenDrawer)
		authed.POST("/fiscal/x-report", s.XReport)
		authed.POST("/fiscal/z-report", s.ZReport)
	}

	return r
}

func round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
