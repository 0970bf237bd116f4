package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/waiter-terminal/gateway"
	"github.com/yeremiapane/waiter-terminal/models"
)

// Seat validation must reject out-of-range guest counts before any network
// traffic: the gateway here points at a dead address, so a network attempt
// would surface as an unreachable-backend error instead.
func TestSeatTableValidatesGuestCountLocally(t *testing.T) {
	store := NewStore(gateway.NewClient("http://127.0.0.1:1", ""))
	store.Tables = []models.Table{
		{ID: 5, Name: "Table 5", Capacity: 4, Status: models.TableAvailable},
	}

	err := store.SeatTable(5, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "guest count")

	err = store.SeatTable(5, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "guest count")

	table, ok := store.TableByID(5)
	require.True(t, ok)
	assert.Equal(t, models.TableAvailable, table.Status)
}

func TestSeatTable(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.SeatTable(5, 4))

	table, ok := store.TableByID(5)
	require.True(t, ok)
	assert.Equal(t, models.TableOccupied, table.Status)
	assert.Equal(t, 4, table.GuestCount)
	assert.Equal(t, ScreenOrderEntry, store.Screen)
	require.NotNil(t, store.ActiveTable)
	assert.Equal(t, uint(5), store.ActiveTable.ID)
}

func TestSeatTableRejectsOccupied(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SeatTable(2, 2))

	err := store.SeatTable(2, 2)
	assert.ErrorIs(t, err, ErrTableUnavailable)
}

func TestSelectTableDispatch(t *testing.T) {
	store, _ := newTestStore(t)

	// Available table: caller should prompt for a guest count and seat.
	action, err := store.SelectTable(3)
	require.NoError(t, err)
	assert.Equal(t, ActionSeat, action)

	// Occupied table opens its check.
	seatAndOrder(t, store, 3, 2, map[string]int{"Craft Beer": 2})
	store.Screen = ScreenFloor
	action, err = store.SelectTable(3)
	require.NoError(t, err)
	assert.Equal(t, ActionOpenedCheck, action)
	assert.Equal(t, ScreenCheck, store.Screen)
	require.NotNil(t, store.ActiveCheck)

	// Merge-selection mode wins over everything else.
	store.BeginMergeSelection()
	action, err = store.SelectTable(3)
	require.NoError(t, err)
	assert.Equal(t, ActionToggledMergeSelection, action)
	assert.Equal(t, []uint{3}, store.MergeSelection)
	store.CancelMergeSelection()
}

func TestMergeTablesRequiresTwo(t *testing.T) {
	store, _ := newTestStore(t)

	store.BeginMergeSelection()
	_, err := store.SelectTable(1)
	require.NoError(t, err)

	err = store.MergeTables()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least two")
}

func TestMergeAndUnmergeTables(t *testing.T) {
	store, _ := newTestStore(t)

	store.BeginMergeSelection()
	for _, id := range []uint{4, 6, 7} {
		_, err := store.SelectTable(id)
		require.NoError(t, err)
	}
	require.NoError(t, store.MergeTables())

	require.Len(t, store.ActiveMerges, 1)
	merge := store.ActiveMerges[0]
	assert.Equal(t, uint(4), merge.PrimaryTableID)
	assert.ElementsMatch(t, []uint{6, 7}, merge.SecondaryTableIDs)
	assert.True(t, merge.IsActive)
	assert.False(t, store.MergeMode)

	// A secondary member taps as an unmerge offer, not a seat.
	action, err := store.SelectTable(6)
	require.NoError(t, err)
	assert.Equal(t, ActionOfferUnmerge, action)

	require.NoError(t, store.UnmergeTables(merge.ID))
	assert.Empty(t, store.ActiveMerges)

	for _, id := range []uint{4, 6, 7} {
		table, ok := store.TableByID(id)
		require.True(t, ok)
		assert.Equal(t, models.TableAvailable, table.Status)
	}
}

func TestMergeSelectionToggleRemoves(t *testing.T) {
	store, _ := newTestStore(t)

	store.BeginMergeSelection()
	for _, id := range []uint{1, 2, 1} {
		_, err := store.SelectTable(id)
		require.NoError(t, err)
	}
	assert.Equal(t, []uint{2}, store.MergeSelection)
}

func TestTransferTable(t *testing.T) {
	store, _ := newTestStore(t)
	check := seatAndOrder(t, store, 1, 2, map[string]int{"House Burger": 1})

	require.NoError(t, store.TransferTable(check.ID, 8))

	source, _ := store.TableByID(1)
	dest, _ := store.TableByID(8)
	assert.Equal(t, models.TableAvailable, source.Status)
	assert.Equal(t, models.TableOccupied, dest.Status)
	require.NotNil(t, store.ActiveCheck)
	assert.Equal(t, uint(8), store.ActiveCheck.TableID)
}

func TestTransferTableRequiresFreeDestination(t *testing.T) {
	store, _ := newTestStore(t)
	check := seatAndOrder(t, store, 1, 2, map[string]int{"House Burger": 1})
	require.NoError(t, store.SeatTable(2, 2))

	err := store.TransferTable(check.ID, 2)
	assert.ErrorIs(t, err, ErrTableUnavailable)
}
