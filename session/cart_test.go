package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCartAggregatesPlainLines(t *testing.T) {
	store, _ := newTestStore(t)
	salmon := menuItem(t, store, "Grilled Salmon")

	store.AddToCart(salmon, 1, "main")
	store.AddToCart(salmon, 1, "main")

	lines := store.CartLines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.InDelta(t, 36.00, lines[0].LineTotal(), 0.001)
}

func TestAddToCartKeepsSeatsAndCoursesDistinct(t *testing.T) {
	store, _ := newTestStore(t)
	salmon := menuItem(t, store, "Grilled Salmon")

	store.AddToCart(salmon, 1, "main")
	store.AddToCart(salmon, 2, "main")
	store.AddToCart(salmon, 1, "appetizer")

	assert.Len(t, store.CartLines(), 3)
}

func TestAddToCartNeverMergesModifiedLines(t *testing.T) {
	store, _ := newTestStore(t)
	burger := menuItem(t, store, "House Burger")

	store.AddToCart(burger, 1, "main")
	store.AttachModifiers(0, []string{"no onion"}, "well done")
	store.AddToCart(burger, 1, "main")

	lines := store.CartLines()
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"no onion"}, lines[0].Modifiers)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Empty(t, lines[1].Modifiers)
}

func TestUpdateQuantityClampsAtZero(t *testing.T) {
	store, _ := newTestStore(t)
	beer := menuItem(t, store, "Craft Beer")

	store.AddToCart(beer, 1, "drinks")
	store.UpdateQuantity(0, 2)
	assert.Equal(t, 3, store.CartLines()[0].Quantity)

	store.UpdateQuantity(0, -5)
	assert.Empty(t, store.CartLines())
}

func TestSendOrderRequiresSeatedTableAndItems(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.SendOrder(true)
	assert.ErrorIs(t, err, ErrNoActiveTable)

	require.NoError(t, store.SeatTable(1, 2))
	err = store.SendOrder(true)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

// The seat-and-order scenario: 4 guests on table 5, two salmon on seat 1,
// send, and the table shows an active check.
func TestSendOrder(t *testing.T) {
	store, _ := newTestStore(t)
	salmon := menuItem(t, store, "Grilled Salmon")

	require.NoError(t, store.SeatTable(5, 4))
	store.AddToCart(salmon, 1, "main")
	store.AddToCart(salmon, 1, "main")
	assert.InDelta(t, 36.00, store.CartTotal(), 0.001)

	require.NoError(t, store.SendOrder(true))

	assert.Empty(t, store.CartLines())
	require.NotNil(t, store.ActiveCheck)
	check := store.ActiveCheck
	assert.InDelta(t, 36.00, check.Subtotal, 0.001)
	assert.InDelta(t, check.Subtotal+check.Tax-check.Discount, check.Total, 0.001)

	table, ok := store.TableByID(5)
	require.True(t, ok)
	require.NotNil(t, table.CurrentCheckID)
	assert.Equal(t, check.ID, *table.CurrentCheckID)
	assert.InDelta(t, check.Total, table.CurrentTotal, 0.001)
}

func TestSendOrderAppendsToOpenCheck(t *testing.T) {
	store, _ := newTestStore(t)
	beer := menuItem(t, store, "Craft Beer")

	require.NoError(t, store.SeatTable(2, 2))
	store.AddToCart(beer, 1, "drinks")
	require.NoError(t, store.SendOrder(true))
	first := store.ActiveCheck.ID

	store.AddToCart(beer, 2, "drinks")
	require.NoError(t, store.SendOrder(true))

	assert.Equal(t, first, store.ActiveCheck.ID)
	assert.Len(t, store.ActiveCheck.Items, 2)
}

func TestFireCourse(t *testing.T) {
	store, _ := newTestStore(t)
	seatAndOrder(t, store, 1, 2, map[string]int{"Caesar Salad": 1})

	require.NoError(t, store.FireCourse("main"))

	note, ok := store.LastNotification()
	require.True(t, ok)
	assert.Equal(t, NotifySuccess, note.Level)
	assert.Contains(t, note.Message, "main")
}

func TestFireCourseNeedsCheck(t *testing.T) {
	store, _ := newTestStore(t)
	assert.ErrorIs(t, store.FireCourse("main"), ErrNoActiveCheck)
}
