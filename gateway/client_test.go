package gateway

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/waiter-terminal/simulator"
	"github.com/yeremiapane/waiter-terminal/utils"
)

func newTestBackend(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger()

	db, err := simulator.OpenDB()
	require.NoError(t, err)
	require.NoError(t, simulator.Seed(db))

	ts := httptest.NewServer(simulator.NewServer(db).Router())
	t.Cleanup(ts.Close)
	return ts
}

func TestLoginStoresToken(t *testing.T) {
	ts := newTestBackend(t)
	client := NewClient(ts.URL, "")

	require.NoError(t, client.Login("waiter", "waiter123"))
	assert.NotEmpty(t, client.Token)

	// The stored token authorizes subsequent calls.
	items, err := client.QuickMenu()
	require.NoError(t, err)
	assert.NotEmpty(t, items)
}

func TestLoginBadCredentials(t *testing.T) {
	ts := newTestBackend(t)
	client := NewClient(ts.URL, "")

	err := client.Login("waiter", "wrong")
	require.Error(t, err)
	assert.EqualError(t, err, "invalid credentials")
	assert.Empty(t, client.Token)
}

func TestMissingTokenIsRejected(t *testing.T) {
	ts := newTestBackend(t)
	client := NewClient(ts.URL, "")

	_, err := client.FloorPlan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authorization header missing")
}

// Backend error messages travel through the envelope verbatim so the
// terminal can show them to the waiter unchanged.
func TestBackendMessageSurfacesVerbatim(t *testing.T) {
	ts := newTestBackend(t)
	client := NewClient(ts.URL, "")
	require.NoError(t, client.Login("waiter", "waiter123"))

	_, err := client.SeatTable(1, 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "guest count must be between 1 and")
}

func TestUnreachableBackend(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "token")
	_, err := client.FloorPlan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unreachable")
}
