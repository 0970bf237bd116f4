package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/waiter-terminal/models"
)

func TestHoldOrderRequiresReason(t *testing.T) {
	store, _ := newTestStore(t)
	seatAndOrder(t, store, 2, 2, map[string]int{"House Burger": 1})

	err := store.HoldOrder("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reason")
}

func TestHoldOrderFreesTable(t *testing.T) {
	store, _ := newTestStore(t)
	check := seatAndOrder(t, store, 2, 2, map[string]int{"House Burger": 1, "Craft Beer": 2})

	require.NoError(t, store.HoldOrder("guest stepped out"))

	assert.Nil(t, store.ActiveCheck)
	assert.Nil(t, store.ActiveTable)
	assert.Equal(t, ScreenFloor, store.Screen)

	table, ok := store.TableByID(2)
	require.True(t, ok)
	assert.Equal(t, models.TableAvailable, table.Status)

	require.Len(t, store.HeldOrders, 1)
	held := store.HeldOrders[0]
	assert.Equal(t, check.ID, held.CheckID)
	assert.Equal(t, "guest stepped out", held.Reason)
	assert.InDelta(t, check.Total, held.Total, 0.005)
	assert.Len(t, held.Items, 2)
}

func TestResumeHeldOrderToOriginalTable(t *testing.T) {
	store, _ := newTestStore(t)
	check := seatAndOrder(t, store, 2, 2, map[string]int{"House Burger": 1})
	require.NoError(t, store.HoldOrder("kitchen backed up"))
	heldID := store.HeldOrders[0].ID

	require.NoError(t, store.ResumeHeldOrder(heldID, nil))

	require.NotNil(t, store.ActiveCheck)
	assert.Equal(t, check.ID, store.ActiveCheck.ID)
	assert.Equal(t, uint(2), store.ActiveCheck.TableID)
	assert.Equal(t, ScreenCheck, store.Screen)
	assert.Empty(t, store.HeldOrders)

	table, _ := store.TableByID(2)
	assert.Equal(t, models.TableOccupied, table.Status)
}

func TestResumeHeldOrderToDifferentTable(t *testing.T) {
	store, _ := newTestStore(t)
	seatAndOrder(t, store, 2, 2, map[string]int{"House Burger": 1})
	require.NoError(t, store.HoldOrder("party moving"))
	heldID := store.HeldOrders[0].ID

	target := uint(5)
	require.NoError(t, store.ResumeHeldOrder(heldID, &target))

	require.NotNil(t, store.ActiveCheck)
	assert.Equal(t, uint(5), store.ActiveCheck.TableID)

	table, _ := store.TableByID(5)
	assert.Equal(t, models.TableOccupied, table.Status)
	original, _ := store.TableByID(2)
	assert.Equal(t, models.TableAvailable, original.Status)
}

func TestResumeHeldOrderNeedsFreeTable(t *testing.T) {
	store, _ := newTestStore(t)
	seatAndOrder(t, store, 2, 2, map[string]int{"House Burger": 1})
	require.NoError(t, store.HoldOrder("double booked"))
	heldID := store.HeldOrders[0].ID

	// Occupy the original table before resuming.
	require.NoError(t, store.SeatTable(2, 2))

	err := store.ResumeHeldOrder(heldID, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")

	// Resuming somewhere free still works afterwards.
	target := uint(9)
	require.NoError(t, store.ResumeHeldOrder(heldID, &target))
	assert.Equal(t, uint(9), store.ActiveCheck.TableID)
}
