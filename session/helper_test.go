package session

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/waiter-terminal/gateway"
	"github.com/yeremiapane/waiter-terminal/models"
	"github.com/yeremiapane/waiter-terminal/simulator"
	"github.com/yeremiapane/waiter-terminal/utils"
)

// newTestStore boots a seeded simulator behind httptest, logs in, and
// returns a bootstrapped store talking to it.
func newTestStore(t *testing.T) (*Store, *simulator.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger()

	db, err := simulator.OpenDB()
	require.NoError(t, err)
	require.NoError(t, simulator.Seed(db))

	server := simulator.NewServer(db)
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)

	gw := gateway.NewClient(ts.URL, "")
	require.NoError(t, gw.Login("waiter", "waiter123"))

	store := NewStore(gw)
	require.NoError(t, store.Bootstrap())
	return store, server
}

func menuItem(t *testing.T, store *Store, name string) models.MenuItem {
	t.Helper()
	for _, item := range store.Menu {
		if item.Name == name {
			return item
		}
	}
	t.Fatalf("menu item %q not seeded", name)
	return models.MenuItem{}
}

// seatAndOrder is the common preamble: seat the table and commit one round
// of items so an open check exists.
func seatAndOrder(t *testing.T, store *Store, tableID uint, guests int, lines map[string]int) *models.Check {
	t.Helper()
	require.NoError(t, store.SeatTable(tableID, guests))
	seat := 1
	for name, qty := range lines {
		item := menuItem(t, store, name)
		for i := 0; i < qty; i++ {
			store.AddToCart(item, seat, "main")
		}
		seat++
	}
	require.NoError(t, store.SendOrder(true))
	require.NotNil(t, store.ActiveCheck)
	return store.ActiveCheck
}
