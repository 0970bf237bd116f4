package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/waiter-terminal/models"
)

func TestApplyDiscountPercent(t *testing.T) {
	store, _ := newTestStore(t)
	check := seatAndOrder(t, store, 1, 2, map[string]int{"Grilled Salmon": 2})
	subtotal := check.Subtotal
	tax := check.Tax

	require.NoError(t, store.ApplyDiscount("percent", 10, "regular", ""))

	check = store.ActiveCheck
	assert.InDelta(t, subtotal*0.10, check.Discount, 0.005)
	assert.InDelta(t, subtotal+tax-check.Discount, check.Total, 0.005)
}

func TestApplyDiscountAboveThresholdNeedsManagerPin(t *testing.T) {
	store, _ := newTestStore(t)
	check := seatAndOrder(t, store, 1, 2, map[string]int{"Grilled Salmon": 2})
	totalBefore := check.Total

	err := store.ApplyDiscount("percent", 50, "comp", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manager pin")
	// A rejected discount leaves the check as it was.
	assert.InDelta(t, totalBefore, store.ActiveCheck.Total, 0.001)

	require.NoError(t, store.ApplyDiscount("percent", 50, "comp", "4321"))
	assert.InDelta(t, check.Subtotal*0.50, store.ActiveCheck.Discount, 0.005)
}

func TestVoidItemRequiresReason(t *testing.T) {
	store, _ := newTestStore(t)
	check := seatAndOrder(t, store, 1, 2, map[string]int{"House Burger": 1})

	err := store.VoidItem(check.Items[0].ID, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reason")
}

func TestVoidItemKeepsLineForAudit(t *testing.T) {
	store, _ := newTestStore(t)
	store.SeatTable(1, 2)
	burger := menuItem(t, store, "House Burger")
	salad := menuItem(t, store, "Caesar Salad")
	store.AddToCart(burger, 1, "main")
	store.AddToCart(salad, 1, "main")
	require.NoError(t, store.SendOrder(true))
	check := store.ActiveCheck

	var burgerItem models.CheckItem
	for _, item := range check.Items {
		if item.Name == "House Burger" {
			burgerItem = item
		}
	}
	require.NotZero(t, burgerItem.ID)

	require.NoError(t, store.VoidItem(burgerItem.ID, "sent back", ""))

	check = store.ActiveCheck
	assert.Len(t, check.Items, 2)
	assert.InDelta(t, salad.Price, check.Subtotal, 0.005)
	for _, item := range check.Items {
		if item.ID == burgerItem.ID {
			assert.Equal(t, models.CheckItemVoided, item.Status)
			assert.Equal(t, "sent back", item.VoidReason)
		}
	}

	// Voiding twice is rejected locally.
	err := store.VoidItem(burgerItem.ID, "again", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already voided")
}

func TestSplitEven(t *testing.T) {
	store, _ := newTestStore(t)
	check := seatAndOrder(t, store, 4, 3, map[string]int{"Grilled Salmon": 1, "House Burger": 1, "Caesar Salad": 1})

	_, err := store.SplitEven(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least two")

	result, err := store.SplitEven(3)
	require.NoError(t, err)
	assert.InDelta(t, check.Total, 3*result.AmountPerPerson, 0.02)
	// Committed items are untouched by an even split.
	assert.Len(t, store.ActiveCheck.Items, len(check.Items))
}

func TestSplitBySeat(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SeatTable(4, 2))
	salmon := menuItem(t, store, "Grilled Salmon")
	burger := menuItem(t, store, "House Burger")
	store.AddToCart(salmon, 1, "main")
	store.AddToCart(burger, 2, "main")
	require.NoError(t, store.SendOrder(true))

	checks, err := store.SplitBySeat()
	require.NoError(t, err)
	require.Len(t, checks, 2)

	var totals float64
	for _, check := range checks {
		assert.Equal(t, uint(4), check.TableID)
		totals += check.Subtotal
	}
	assert.InDelta(t, salmon.Price+burger.Price, totals, 0.005)
}

func TestSplitBySeatNeedsTwoSeats(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SeatTable(4, 2))
	salmon := menuItem(t, store, "Grilled Salmon")
	store.AddToCart(salmon, 1, "main")
	store.AddToCart(salmon, 1, "main")
	require.NoError(t, store.SendOrder(true))

	_, err := store.SplitBySeat()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one seat")
}

// The split-by-items preview computed client-side must equal the backend's
// post-split total exactly, and the original subtotal shrinks by the same
// amount.
func TestSplitByItemsPreviewMatchesBackend(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SeatTable(7, 4))
	for _, name := range []string{"Grilled Salmon", "House Burger", "Caesar Salad", "Craft Beer"} {
		store.AddToCart(menuItem(t, store, name), 1, "main")
	}
	require.NoError(t, store.SendOrder(true))
	check := store.ActiveCheck
	subtotalBefore := check.Subtotal

	selected := []uint{check.Items[0].ID, check.Items[2].ID}
	preview := store.SplitPreviewTotal(selected)
	assert.Greater(t, preview, 0.0)

	result, err := store.SplitByItems(selected)
	require.NoError(t, err)

	assert.InDelta(t, preview, result.NewCheck.Total, 0.001)
	assert.InDelta(t, subtotalBefore-preview, result.Original.Subtotal, 0.001)
	assert.Len(t, result.NewCheck.Items, 2)
	assert.Len(t, result.Original.Items, 2)
}

func TestSplitByItemsValidatesSelection(t *testing.T) {
	store, _ := newTestStore(t)
	seatAndOrder(t, store, 7, 2, map[string]int{"Craft Beer": 2})

	_, err := store.SplitByItems(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one item")

	_, err = store.SplitByItems([]uint{99999})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an active item")
}

func TestMergeChecksSumsTotals(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SeatTable(7, 4))
	for _, name := range []string{"Grilled Salmon", "House Burger"} {
		store.AddToCart(menuItem(t, store, name), 1, "main")
	}
	require.NoError(t, store.SendOrder(true))
	original := store.ActiveCheck

	// Split one item off so the table carries two checks, then merge back.
	result, err := store.SplitByItems([]uint{original.Items[0].ID})
	require.NoError(t, err)
	sum := result.Original.Total + result.NewCheck.Total

	require.NoError(t, store.MergeChecks([]uint{result.Original.ID, result.NewCheck.ID}))

	merged := store.ActiveCheck
	assert.InDelta(t, sum, merged.Total, 0.005)
	assert.Len(t, merged.Items, 2)
}

func TestMergeChecksRequiresTwo(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.MergeChecks([]uint{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least two")
}

func TestMoveItemsToOccupiedTable(t *testing.T) {
	store, _ := newTestStore(t)
	check := seatAndOrder(t, store, 1, 2, map[string]int{"Craft Beer": 2})
	itemID := check.Items[0].ID

	// Occupy the destination with its own check first.
	seatAndOrder(t, store, 2, 2, map[string]int{"House Red": 1})
	require.NoError(t, store.OpenCheck(1))

	require.NoError(t, store.MoveItems([]uint{itemID}, 2))

	assert.Empty(t, store.ActiveCheck.ActiveItems())

	dest, _ := store.TableByID(2)
	assert.Equal(t, models.TableOccupied, dest.Status)
	assert.Greater(t, dest.CurrentTotal, menuItem(t, store, "House Red").Price)
}
