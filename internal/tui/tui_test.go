package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botwatch/internal/journal"
	"botwatch/internal/snapshot"
	"botwatch/pkg/botapi"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	return NewModel(botapi.NewClient("http://127.0.0.1:1"), Options{
		PollInterval: time.Millisecond,
	})
}

func update(t *testing.T, m *Model, msg tea.Msg) (*Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(*Model)
	require.True(t, ok)
	return model, cmd
}

func TestTickWhileInFlightOnlyReschedules(t *testing.T) {
	m := newTestModel(t)
	m.inFlight = true

	m, cmd := update(t, m, TickMsg(time.Now()))
	require.NotNil(t, cmd)

	// The returned command is the timer alone, not a fetch batch.
	msg := cmd()
	_, isTick := msg.(TickMsg)
	assert.True(t, isTick)
	assert.True(t, m.inFlight)
}

func TestTickWhenIdleFetches(t *testing.T) {
	m := newTestModel(t)
	m.inFlight = false

	m, cmd := update(t, m, TickMsg(time.Now()))
	require.NotNil(t, cmd)
	assert.True(t, m.inFlight)

	msg := cmd()
	_, isBatch := msg.(tea.BatchMsg)
	assert.True(t, isBatch)
}

func TestStaleSnapshotDiscarded(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, DashboardMsg{Snap: testSnapshot(2)})
	require.Equal(t, uint64(2), m.lastSeq)
	require.Equal(t, float64(100000), m.dashboard.Account.NetLiquidation)

	stale := testSnapshot(1)
	stale.Account.NetLiquidation = 1
	m, _ = update(t, m, DashboardMsg{Snap: stale})

	assert.Equal(t, uint64(2), m.lastSeq)
	assert.Equal(t, float64(100000), m.dashboard.Account.NetLiquidation)
}

func TestFailedRefreshKeepsLastRender(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, DashboardMsg{Snap: testSnapshot(1)})
	require.Contains(t, m.View(), "AAPL")

	m, cmd := update(t, m, DashboardErrMsg{Err: assert.AnError})
	assert.Nil(t, cmd)
	assert.False(t, m.inFlight)

	view := m.View()
	assert.Contains(t, view, "AAPL")
	assert.Contains(t, view, "refresh failed")
}

func TestSuccessfulRefreshClearsError(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, DashboardErrMsg{Err: assert.AnError})
	require.Error(t, m.lastErr)

	m, _ = update(t, m, DashboardMsg{Snap: testSnapshot(1)})
	assert.NoError(t, m.lastErr)
	assert.NotContains(t, m.View(), "refresh failed")
}

func TestTabSwitchFetchesOnce(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, DashboardMsg{Snap: testSnapshot(1)})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	assert.Equal(t, TabHistory, m.activeTab)
	assert.True(t, m.inFlight)
	assert.NotNil(t, cmd)
}

func TestTabSwitchWhileInFlightDefersFetch(t *testing.T) {
	m := newTestModel(t)
	m.inFlight = true

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	assert.Nil(t, cmd)
	assert.True(t, m.needsRefresh)

	// The deferred fetch runs once the in-flight response lands.
	m, cmd = update(t, m, DashboardMsg{Snap: testSnapshot(1)})
	assert.NotNil(t, cmd)
	assert.False(t, m.needsRefresh)
	assert.True(t, m.inFlight)
}

func TestActionDoneTriggersOneRefresh(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, DashboardMsg{Snap: testSnapshot(1)})

	m, cmd := update(t, m, ActionDoneMsg{Kind: journal.KindCancelOrder, Target: "42", Detail: "cancelled"})
	assert.NotNil(t, cmd)
	assert.True(t, m.inFlight)
	assert.Contains(t, m.View(), "cancel_order 42: cancelled")
}

func TestActionDoneWhileInFlightDefers(t *testing.T) {
	m := newTestModel(t)
	m.inFlight = true

	m, cmd := update(t, m, ActionDoneMsg{Kind: journal.KindCancelOrder, Target: "42", Detail: "cancelled"})
	assert.Nil(t, cmd)
	assert.True(t, m.needsRefresh)
}

func TestActionErrShowsMessageWithoutRefresh(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, DashboardMsg{Snap: testSnapshot(1)})

	m, cmd := update(t, m, ActionErrMsg{
		Kind:   journal.KindCancelOrder,
		Target: "42",
		Err:    &botapi.APIError{StatusCode: 404, Message: "Order not found or could not cancel"},
	})
	assert.Nil(t, cmd)
	assert.False(t, m.inFlight)
	assert.Contains(t, m.View(), "Order not found or could not cancel")
}

func TestHeaderRendersStatus(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, DashboardMsg{Snap: testSnapshot(1)})

	view := m.View()
	assert.Contains(t, view, "IB ✓")
	assert.Contains(t, view, "PAPER")
	assert.Contains(t, view, "active")
	assert.Contains(t, view, "market open")
	assert.Contains(t, view, "567.12")
	assert.Contains(t, view, "VIX —")
}

func TestHeaderBeforeFirstSnapshot(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, m.View(), "Connecting...")
}

func TestConfirmDeclineDoesNothing(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, DashboardMsg{Snap: testSnapshot(1)})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	require.Equal(t, DashboardModeConfirmClose, m.dashboard.Mode)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.Nil(t, cmd)
	assert.Equal(t, DashboardModeNormal, m.dashboard.Mode)
}

func TestConfirmCancelDispatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/orders/cancel", r.URL.Path)
		var req struct {
			OrderID int64 `json:"order_id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, int64(42), req.OrderID)
		_ = json.NewEncoder(w).Encode(botapi.CancelResult{Status: "cancelled", OrderID: 42})
	}))
	defer srv.Close()

	m := NewModel(botapi.NewClient(srv.URL), Options{})
	m, _ = update(t, m, DashboardMsg{Snap: testSnapshot(1)})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	require.Equal(t, DashboardModeConfirmCancel, m.dashboard.Mode)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.NotNil(t, cmd)
	assert.Equal(t, DashboardModeNormal, m.dashboard.Mode)

	msg := cmd()
	done, ok := msg.(ActionDoneMsg)
	require.True(t, ok, "expected ActionDoneMsg, got %T", msg)
	assert.Equal(t, "42", done.Target)
	assert.Equal(t, "cancelled", done.Detail)
}

func TestConfirmCloseDispatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/positions/close", r.URL.Path)
		var req struct {
			Symbol string `json:"symbol"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "AAPL", req.Symbol)
		_ = json.NewEncoder(w).Encode(botapi.CloseResult{Status: "closing", Symbol: "AAPL"})
	}))
	defer srv.Close()

	m := NewModel(botapi.NewClient(srv.URL), Options{})
	m, _ = update(t, m, DashboardMsg{Snap: testSnapshot(1)})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	require.Equal(t, DashboardModeConfirmClose, m.dashboard.Mode)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(ActionDoneMsg)
	require.True(t, ok, "expected ActionDoneMsg, got %T", msg)
	assert.Equal(t, "AAPL", done.Target)
}

func TestActionFailureJournaled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "Order not found or could not cancel"}`))
	}))
	defer srv.Close()

	jnl, err := journal.Open(t.TempDir() + "/journal.db")
	require.NoError(t, err)
	defer func() { _ = jnl.Close() }()

	m := NewModel(botapi.NewClient(srv.URL), Options{Journal: jnl})
	m, _ = update(t, m, DashboardMsg{Snap: testSnapshot(1)})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.NotNil(t, cmd)

	msg := cmd()
	_, ok := msg.(ActionErrMsg)
	require.True(t, ok, "expected ActionErrMsg, got %T", msg)

	entries, err := jnl.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, journal.KindCancelOrder, entries[0].Kind)
	assert.False(t, entries[0].OK)
	assert.Contains(t, entries[0].Detail, "Order not found")
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestSharedSequenceAcrossTabs(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, DashboardMsg{Snap: testSnapshot(3)})
	require.Equal(t, uint64(3), m.lastSeq)

	// A history snapshot numbered behind the dashboard's is stale too.
	m, _ = update(t, m, HistoryMsg{Snap: &snapshot.HistorySnapshot{Seq: 2, Taken: time.Now()}})
	assert.Equal(t, uint64(3), m.lastSeq)
	assert.False(t, m.history.Ready)

	m, _ = update(t, m, HistoryMsg{Snap: &snapshot.HistorySnapshot{Seq: 4, Taken: time.Now()}})
	assert.Equal(t, uint64(4), m.lastSeq)
	assert.True(t, m.history.Ready)
}
