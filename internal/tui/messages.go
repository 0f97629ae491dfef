package tui

import (
	"time"

	"botwatch/internal/snapshot"
)

// Message types for async operations

// DashboardMsg carries one complete dashboard snapshot.
type DashboardMsg struct {
	Snap *snapshot.Snapshot
}

// DashboardErrMsg is sent when a dashboard refresh fails as a whole. The
// previous render stays untouched.
type DashboardErrMsg struct {
	Err error
}

// HistoryMsg carries one complete history snapshot.
type HistoryMsg struct {
	Snap *snapshot.HistorySnapshot
}

// HistoryErrMsg is sent when a history refresh fails.
type HistoryErrMsg struct {
	Err error
}

// ActionDoneMsg is sent when a control action was confirmed by the server.
type ActionDoneMsg struct {
	Kind   string
	Target string
	Detail string
}

// ActionErrMsg is sent when a control action was rejected or never
// reached the server. Err carries the backend's message verbatim.
type ActionErrMsg struct {
	Kind   string
	Target string
	Err    error
}

// TickMsg is sent by the poll timer.
type TickMsg time.Time
