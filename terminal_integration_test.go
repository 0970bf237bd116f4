package main

import (
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/waiter-terminal/gateway"
	"github.com/yeremiapane/waiter-terminal/models"
	"github.com/yeremiapane/waiter-terminal/session"
	"github.com/yeremiapane/waiter-terminal/simulator"
	"github.com/yeremiapane/waiter-terminal/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTerminal(t *testing.T) (*session.Store, *simulator.Server) {
	t.Helper()

	db, err := simulator.OpenDB()
	require.NoError(t, err)
	require.NoError(t, simulator.Seed(db))

	server := simulator.NewServer(db)
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)

	gw := gateway.NewClient(ts.URL, "")
	require.NoError(t, gw.Login("waiter", "waiter123"))

	store := session.NewStore(gw)
	require.NoError(t, store.Bootstrap())
	return store, server
}

func addByName(t *testing.T, store *session.Store, name string, seat int, course string) models.MenuItem {
	t.Helper()
	for _, item := range store.Menu {
		if item.Name == name {
			store.AddToCart(item, seat, course)
			return item
		}
	}
	t.Fatalf("menu item %q not seeded", name)
	return models.MenuItem{}
}

// TestDinnerServiceFlow walks a full table service:
// seat -> order -> second round -> discount -> split off the bar items ->
// merge back -> card payment through the fiscal device -> table freed.
func TestDinnerServiceFlow(t *testing.T) {
	store, _ := newTerminal(t)

	require.NoError(t, store.SeatTable(4, 3))
	addByName(t, store, "Grilled Salmon", 1, "main")
	addByName(t, store, "House Burger", 2, "main")
	addByName(t, store, "Caesar Salad", 3, "appetizer")
	require.NoError(t, store.SendOrder(true))
	require.NotNil(t, store.ActiveCheck)
	firstRound := store.ActiveCheck.Total

	addByName(t, store, "Craft Beer", 1, "drinks")
	addByName(t, store, "Craft Beer", 2, "drinks")
	require.NoError(t, store.SendOrder(true))
	assert.Greater(t, store.ActiveCheck.Total, firstRound)
	assert.Len(t, store.ActiveCheck.Items, 5)

	require.NoError(t, store.ApplyDiscount("percent", 10, "regulars", ""))
	check := store.ActiveCheck
	assert.InDelta(t, check.Subtotal+check.Tax-check.Discount, check.Total, 0.005)

	// Seat 1 pays for the drinks separately.
	var beerIDs []uint
	for _, item := range check.Items {
		if item.Name == "Craft Beer" {
			beerIDs = append(beerIDs, item.ID)
		}
	}
	require.Len(t, beerIDs, 2)
	preview := store.SplitPreviewTotal(beerIDs)
	result, err := store.SplitByItems(beerIDs)
	require.NoError(t, err)
	assert.InDelta(t, preview, result.NewCheck.Total, 0.001)

	// They change their mind; everything back on one check.
	require.NoError(t, store.MergeChecks([]uint{result.Original.ID, result.NewCheck.ID}))
	assert.Len(t, store.ActiveCheck.Items, 5)

	require.NoError(t, store.ProcessCardViaFiscalDevice(18))
	assert.Nil(t, store.ActiveCheck)

	table, ok := store.TableByID(4)
	require.True(t, ok)
	assert.Equal(t, models.TableAvailable, table.Status)
}

// TestBarTabFlow runs a bar tab that migrates to a table and settles.
func TestBarTabFlow(t *testing.T) {
	store, _ := newTerminal(t)

	require.NoError(t, store.OpenTab("Alex", "4242", 100))
	tabID := store.ActiveTab.ID

	addByName(t, store, "Craft Beer", 1, "drinks")
	addByName(t, store, "House Red", 1, "drinks")
	require.NoError(t, store.AddCartToTab(tabID))
	tabTotal := store.ActiveTab.Total

	require.NoError(t, store.TransferTabToTable(tabID, 3))
	require.NotNil(t, store.ActiveCheck)
	assert.InDelta(t, tabTotal, store.ActiveCheck.Subtotal, 0.005)

	require.NoError(t, store.ProcessPayment(store.ActiveCheck.Total, "cash", 3.00))
	assert.Nil(t, store.ActiveCheck)
	assert.Empty(t, store.Tabs)
}

// TestHoldAndResumeFlow parks an order while the party steps out, reseats
// them at a different table, and settles there.
func TestHoldAndResumeFlow(t *testing.T) {
	store, _ := newTerminal(t)

	require.NoError(t, store.SeatTable(2, 2))
	addByName(t, store, "Espresso", 1, "drinks")
	addByName(t, store, "Chocolate Tart", 2, "dessert")
	require.NoError(t, store.SendOrder(true))
	total := store.ActiveCheck.Total

	require.NoError(t, store.HoldOrder("party at the bar"))
	table, _ := store.TableByID(2)
	assert.Equal(t, models.TableAvailable, table.Status)
	require.Len(t, store.HeldOrders, 1)

	target := uint(6)
	require.NoError(t, store.ResumeHeldOrder(store.HeldOrders[0].ID, &target))
	require.NotNil(t, store.ActiveCheck)
	assert.Equal(t, target, store.ActiveCheck.TableID)
	assert.InDelta(t, total, store.ActiveCheck.Total, 0.005)

	require.NoError(t, store.ProcessPayment(total, "cash", 0))
	assert.Nil(t, store.ActiveCheck)
}

// TestLargePartyFlow merges tables for a big party, serves them, then
// dissolves the merge at close.
func TestLargePartyFlow(t *testing.T) {
	store, _ := newTerminal(t)

	store.BeginMergeSelection()
	for _, id := range []uint{5, 6, 7} {
		_, err := store.SelectTable(id)
		require.NoError(t, err)
	}
	require.NoError(t, store.MergeTables())
	require.Len(t, store.ActiveMerges, 1)
	mergeID := store.ActiveMerges[0].ID

	require.NoError(t, store.SeatTable(5, 6))
	addByName(t, store, "Grilled Salmon", 1, "main")
	require.NoError(t, store.SendOrder(true))
	require.NoError(t, store.ProcessPayment(store.ActiveCheck.Total, "card", 5.00))

	require.NoError(t, store.UnmergeTables(mergeID))
	assert.Empty(t, store.ActiveMerges)
}

// TestShiftCloseFlow ends the day with reports once the floor is clear.
func TestShiftCloseFlow(t *testing.T) {
	store, server := newTerminal(t)

	require.NoError(t, store.SeatTable(1, 2))
	addByName(t, store, "Espresso", 1, "drinks")
	require.NoError(t, store.SendOrder(true))
	require.NoError(t, store.ProcessPayment(store.ActiveCheck.Total, "cash", 0))

	require.NoError(t, store.PrintXReport())

	// The close is gated locally and on the backend.
	require.Error(t, store.PrintZReport(false))
	require.NoError(t, store.PrintZReport(true))

	// A dead device turns the close into a visible failure, not a silent one.
	server.Device.SetFailing(true)
	require.Error(t, store.PrintZReport(true))
}
