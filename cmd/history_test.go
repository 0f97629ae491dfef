package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCmd_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/history", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"id": 1, "ib_order_id": 41, "ticker": "AAPL", "action": "BUY",
				"quantity": 10.0, "fill_price": 150.25, "status": "Filled",
				"created_at": "2026-03-02 14:30:00.123456",
			},
			{
				"id": 2, "ib_order_id": 43, "ticker": "MSFT", "action": "SELL",
				"quantity": 5.0, "fill_price": nil, "status": "Cancelled",
				"created_at": nil,
			},
		})
	}))
	defer server.Close()

	cmd := newHistoryCmd(historyOptions{baseURL: server.URL, timeout: 5 * time.Second})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	output := out.String()
	assert.Contains(t, output, "AAPL")
	assert.Contains(t, output, "$150.25")
	assert.Contains(t, output, "14:30:00")
	assert.Contains(t, output, "MSFT")
	assert.Contains(t, output, "Cancelled")
}

func TestHistoryCmd_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	cmd := newHistoryCmd(historyOptions{baseURL: server.URL, timeout: 5 * time.Second})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "No orders today")
}

func TestHistoryCmd_JSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "ib_order_id": 41, "ticker": "AAPL", "action": "BUY", "quantity": 10.0, "status": "Filled"},
		})
	}))
	defer server.Close()

	cmd := newHistoryCmd(historyOptions{baseURL: server.URL, jsonMode: true, timeout: 5 * time.Second})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "AAPL", decoded[0]["ticker"])
}
