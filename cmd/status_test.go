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

func statusPayload() map[string]any {
	return map[string]any{
		"trading_status": "active",
		"ib_connected":   true,
		"mode":           "paper",
		"market_status": map[string]any{
			"status": "open",
			"reason": "",
			"source": "clock",
		},
		"indices": map[string]any{
			"SPY": map[string]any{"value": 567.12, "change": 0.45},
			"VIX": map[string]any{"value": 0.0, "change": 0.0},
		},
	}
}

func TestStatusCmd_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(statusPayload())
	}))
	defer server.Close()

	cmd := newStatusCmd(statusOptions{baseURL: server.URL, timeout: 5 * time.Second})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	output := out.String()
	assert.Contains(t, output, "active")
	assert.Contains(t, output, "paper")
	assert.Contains(t, output, "open")
	assert.Contains(t, output, "567.12")
	// An index with no data yet is omitted, not shown as zero.
	assert.NotContains(t, output, "VIX")
}

func TestStatusCmd_JSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(statusPayload())
	}))
	defer server.Close()

	cmd := newStatusCmd(statusOptions{baseURL: server.URL, jsonMode: true, timeout: 5 * time.Second})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "active", decoded["trading_status"])
	assert.Equal(t, true, decoded["ib_connected"])
}

func TestStatusCmd_BackendDown(t *testing.T) {
	cmd := newStatusCmd(statusOptions{baseURL: "http://127.0.0.1:1", timeout: time.Second})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch status")
}
