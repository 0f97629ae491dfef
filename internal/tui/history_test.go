package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botwatch/internal/snapshot"
	"botwatch/pkg/botapi"
)

func TestHistoryEmptyState(t *testing.T) {
	m := NewHistoryModel()
	m.Apply(&snapshot.HistorySnapshot{Seq: 1, Taken: time.Now()})

	assert.Contains(t, m.View(), "No orders today")
}

func TestHistoryRendersOrders(t *testing.T) {
	fill := 150.25
	m := NewHistoryModel()
	m.Apply(&snapshot.HistorySnapshot{
		Seq:   1,
		Taken: time.Now(),
		Orders: []botapi.HistoricalOrder{
			{
				IBOrderID: 41,
				Ticker:    "AAPL",
				Action:    "BUY",
				Quantity:  10,
				FillPrice: &fill,
				Status:    "Filled",
				CreatedAt: botapi.Timestamp{Time: time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)},
			},
			{
				IBOrderID: 43,
				Ticker:    "MSFT",
				Action:    "SELL",
				Quantity:  5,
				Status:    "Cancelled",
			},
		},
	})

	view := m.View()
	assert.Contains(t, view, "AAPL")
	assert.Contains(t, view, "$150.25")
	assert.Contains(t, view, "MSFT")
	assert.Contains(t, view, "Cancelled")
}

func TestHistoryUnfilledShowsDash(t *testing.T) {
	m := NewHistoryModel()
	m.Apply(&snapshot.HistorySnapshot{
		Seq:    1,
		Taken:  time.Now(),
		Orders: []botapi.HistoricalOrder{{IBOrderID: 43, Ticker: "MSFT", Action: "SELL", Quantity: 5, Status: "Submitted"}},
	})

	rows := m.Table.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "—", rows[0][5])
}

func TestHistoryApplyReplacesRows(t *testing.T) {
	m := NewHistoryModel()
	m.Apply(&snapshot.HistorySnapshot{
		Seq:    1,
		Taken:  time.Now(),
		Orders: []botapi.HistoricalOrder{{IBOrderID: 41, Ticker: "AAPL", Action: "BUY", Quantity: 10, Status: "Filled"}},
	})
	require.Len(t, m.Table.Rows(), 1)

	m.Apply(&snapshot.HistorySnapshot{Seq: 2, Taken: time.Now()})
	assert.Empty(t, m.Table.Rows())
	assert.Contains(t, m.View(), "No orders today")
}
