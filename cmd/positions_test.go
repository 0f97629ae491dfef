package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botwatch/internal/journal"
)

func TestPositionsCmd_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/positions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"symbol": "AAPL", "position": 10.0, "avg_cost": 150.0, "market_price": 160.0},
			{"symbol": "TSLA", "position": -5.0, "avg_cost": 200.0, "market_price": 190.0},
		})
	}))
	defer server.Close()

	cmd := newPositionsCmd(positionsOptions{baseURL: server.URL, timeout: 5 * time.Second})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	output := out.String()
	assert.Contains(t, output, "AAPL")
	assert.Contains(t, output, "+$100.00")
	assert.Contains(t, output, "+6.67%")
	assert.Contains(t, output, "TSLA")
	assert.Contains(t, output, "+$50.00")
}

func TestPositionsCmd_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	cmd := newPositionsCmd(positionsOptions{baseURL: server.URL, timeout: 5 * time.Second})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "No open positions")
}

func TestCloseCmd_Confirmed(t *testing.T) {
	var gotSymbol string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/positions/close", r.URL.Path)
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotSymbol = req["symbol"]
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "closing", "symbol": "AAPL"}`))
	}))
	defer server.Close()

	journalPath := filepath.Join(t.TempDir(), "journal.db")
	cmd := newPositionsCmd(positionsOptions{
		baseURL:     server.URL,
		timeout:     5 * time.Second,
		journalPath: journalPath,
	})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("y\n"))
	cmd.SetArgs([]string{"close", "AAPL"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "AAPL", gotSymbol)
	assert.Contains(t, out.String(), "closing")

	jnl, err := journal.Open(journalPath)
	require.NoError(t, err)
	defer func() { _ = jnl.Close() }()
	entries, err := jnl.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, journal.KindClosePosition, entries[0].Kind)
	assert.Equal(t, "AAPL", entries[0].Target)
	assert.True(t, entries[0].OK)
}

func TestCloseCmd_Declined(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	cmd := newPositionsCmd(positionsOptions{baseURL: server.URL, timeout: 5 * time.Second})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("n\n"))
	cmd.SetArgs([]string{"close", "AAPL"})

	// Declining is not an error.
	require.NoError(t, cmd.Execute())
	assert.False(t, called)
	assert.Contains(t, out.String(), "Aborted")
}

func TestCloseCmd_YesFlagSkipsPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "closing", "symbol": "AAPL"}`))
	}))
	defer server.Close()

	cmd := newPositionsCmd(positionsOptions{baseURL: server.URL, timeout: 5 * time.Second})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"close", "AAPL", "--yes"})

	require.NoError(t, cmd.Execute())
	assert.NotContains(t, out.String(), "[y/N]")
}

func TestCloseCmd_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "No position found for symbol AAPL"}`))
	}))
	defer server.Close()

	cmd := newPositionsCmd(positionsOptions{baseURL: server.URL, timeout: 5 * time.Second})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"close", "AAPL", "--yes"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No position found for symbol AAPL")
}
