package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/waiter-terminal/models"
)

func TestBootstrapLoadsMenuAndFloor(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Len(t, store.Menu, 8)
	assert.Len(t, store.Tables, 10)
	for _, table := range store.Tables {
		assert.Equal(t, models.TableAvailable, table.Status)
	}
}

// Reconcile is a wholesale overwrite: edits made by another terminal (here,
// straight against the backend database) win over whatever is cached.
func TestReconcileAbsorbsRemoteChanges(t *testing.T) {
	store, server := newTestStore(t)

	now := time.Now()
	require.NoError(t, server.DB.Model(&models.Table{}).Where("id = ?", 6).Updates(map[string]interface{}{
		"status":      models.TableOccupied,
		"guest_count": 4,
		"seated_at":   &now,
	}).Error)

	before, _ := store.TableByID(6)
	assert.Equal(t, models.TableAvailable, before.Status)

	require.NoError(t, store.Reconcile())

	after, _ := store.TableByID(6)
	assert.Equal(t, models.TableOccupied, after.Status)
	assert.Equal(t, 4, after.GuestCount)
}

func TestReconcileRepointsActiveTable(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SeatTable(3, 2))

	require.NoError(t, store.Reconcile())

	require.NotNil(t, store.ActiveTable)
	assert.Equal(t, uint(3), store.ActiveTable.ID)
	// The pointer must live inside the fresh slice, not the discarded one.
	found := false
	for i := range store.Tables {
		if &store.Tables[i] == store.ActiveTable {
			found = true
		}
	}
	assert.True(t, found)
}

func TestReconcileDropsExpiredHeldOrders(t *testing.T) {
	store, server := newTestStore(t)
	seatAndOrder(t, store, 2, 2, map[string]int{"House Burger": 1})
	require.NoError(t, store.HoldOrder("running late"))
	require.Len(t, store.HeldOrders, 1)

	past := time.Now().Add(-time.Minute)
	require.NoError(t, server.DB.Model(&models.HeldOrder{}).
		Where("id = ?", store.HeldOrders[0].ID).
		Update("expires_at", &past).Error)

	require.NoError(t, store.Reconcile())

	assert.Empty(t, store.HeldOrders)
}

func TestPollingPicksUpChanges(t *testing.T) {
	store, server := newTestStore(t)
	store.StartPolling(20 * time.Millisecond)
	defer store.StopPolling()

	require.NoError(t, server.DB.Model(&models.Table{}).Where("id = ?", 8).
		Update("status", models.TableOccupied).Error)

	require.Eventually(t, func() bool {
		table, ok := store.TableByID(8)
		return ok && table.Status == models.TableOccupied
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStartPollingIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	store.StartPolling(time.Hour)
	store.StartPolling(time.Hour)
	store.StopPolling()
	store.StopPolling()
}

func TestInflightGuardBlocksDuplicateCommand(t *testing.T) {
	store, _ := newTestStore(t)

	token := inflightToken("seat", 1)
	require.NoError(t, store.begin(token))

	err := store.SeatTable(1, 2)
	assert.ErrorIs(t, err, ErrBusy)

	// Other entities are unaffected by table 1's pending command.
	require.NoError(t, store.SeatTable(2, 2))

	store.end(token)
	require.NoError(t, store.SeatTable(1, 2))
}

func TestNotificationRingCaps(t *testing.T) {
	store, _ := newTestStore(t)
	for i := 0; i < 80; i++ {
		store.pushNotification(NotifyInfo, "msg")
	}
	assert.Len(t, store.Notifications(), maxNotifications)

	store.notifySuccess("the latest %s", "one")
	last, ok := store.LastNotification()
	require.True(t, ok)
	assert.Equal(t, NotifySuccess, last.Level)
	assert.Equal(t, "the latest one", last.Message)
}
