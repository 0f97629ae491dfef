// Package tui implements the live dashboard: a tabbed bubbletea program
// that polls the bot's HTTP API and renders account state, positions,
// working orders and the activity feed, with keyboard-driven cancel and
// close actions.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"botwatch/internal/derive"
	"botwatch/internal/journal"
	"botwatch/internal/snapshot"
	"botwatch/pkg/botapi"
)

// Tab identifies the visible view.
type Tab int

const (
	TabDashboard Tab = iota
	TabHistory
)

// DefaultPollInterval is used when the config does not set one.
const DefaultPollInterval = 3 * time.Second

// Model is the root bubbletea model. It owns the poll loop and routes
// snapshots to whichever tab they belong to. At most one refresh is in
// flight at a time; ticks that land mid-flight are dropped, not queued.
type Model struct {
	client *botapi.Client
	agg    *snapshot.Aggregator
	jnl    *journal.Journal
	log    *zap.Logger

	pollInterval time.Duration
	timeout      time.Duration

	activeTab Tab
	width     int
	height    int

	inFlight     bool
	needsRefresh bool
	lastSeq      uint64
	lastErr      error
	refreshedAt  time.Time

	status      botapi.Status
	statusReady bool

	dashboard *DashboardModel
	history   *HistoryModel
}

// Options configures the dashboard program.
type Options struct {
	PollInterval time.Duration
	Timeout      time.Duration
	Journal      *journal.Journal
	Logger       *zap.Logger
}

// NewModel creates the root model. Journal may be nil, in which case
// control actions are not recorded locally.
func NewModel(client *botapi.Client, opts Options) *Model {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = botapi.DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Model{
		client:       client,
		agg:          snapshot.New(client, opts.Logger),
		jnl:          opts.Journal,
		log:          opts.Logger,
		pollInterval: opts.PollInterval,
		timeout:      opts.Timeout,
		dashboard:    NewDashboardModel(),
		history:      NewHistoryModel(),
	}
}

// Init kicks off the first fetch and the poll timer.
func (m *Model) Init() tea.Cmd {
	m.inFlight = true
	return tea.Batch(m.fetchDashboard(), m.tick())
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.pollInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m *Model) fetchDashboard() tea.Cmd {
	agg, timeout := m.agg, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		snap, err := agg.Refresh(ctx)
		if err != nil {
			return DashboardErrMsg{Err: err}
		}
		return DashboardMsg{Snap: snap}
	}
}

func (m *Model) fetchHistory() tea.Cmd {
	agg, timeout := m.agg, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		snap, err := agg.History(ctx)
		if err != nil {
			return HistoryErrMsg{Err: err}
		}
		return HistoryMsg{Snap: snap}
	}
}

// fetchActive starts a refresh for the visible tab. The hidden tab is
// never polled; it is refreshed once on switch instead.
func (m *Model) fetchActive() tea.Cmd {
	m.inFlight = true
	if m.activeTab == TabHistory {
		return m.fetchHistory()
	}
	return m.fetchDashboard()
}

func (m *Model) cancelOrder(order botapi.OpenOrder) tea.Cmd {
	client, jnl, timeout := m.client, m.jnl, m.timeout
	target := fmt.Sprintf("%d", order.OrderID)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := client.CancelOrder(ctx, order.OrderID)
		if err != nil {
			if jnl != nil {
				_ = jnl.Record(journal.KindCancelOrder, target, false, err.Error())
			}
			return ActionErrMsg{Kind: journal.KindCancelOrder, Target: target, Err: err}
		}
		if jnl != nil {
			_ = jnl.Record(journal.KindCancelOrder, target, true, res.Status)
		}
		return ActionDoneMsg{Kind: journal.KindCancelOrder, Target: target, Detail: res.Status}
	}
}

func (m *Model) closePosition(symbol string) tea.Cmd {
	client, jnl, timeout := m.client, m.jnl, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := client.ClosePosition(ctx, symbol)
		if err != nil {
			if jnl != nil {
				_ = jnl.Record(journal.KindClosePosition, symbol, false, err.Error())
			}
			return ActionErrMsg{Kind: journal.KindClosePosition, Target: symbol, Err: err}
		}
		if jnl != nil {
			_ = jnl.Record(journal.KindClosePosition, symbol, true, res.Status)
		}
		return ActionDoneMsg{Kind: journal.KindClosePosition, Target: symbol, Detail: res.Status}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		body := msg.Height - 8
		if body < 6 {
			body = 6
		}
		m.dashboard.SetHeight(body)
		m.history.SetHeight(body)
		return m, nil

	case TickMsg:
		if m.inFlight {
			// Previous refresh still running, try again next tick.
			return m, m.tick()
		}
		return m, tea.Batch(m.fetchActive(), m.tick())

	case DashboardMsg:
		m.inFlight = false
		if msg.Snap.Seq <= m.lastSeq {
			m.log.Debug("discarding stale snapshot",
				zap.Uint64("seq", msg.Snap.Seq), zap.Uint64("last", m.lastSeq))
			return m, m.afterRefresh()
		}
		m.lastSeq = msg.Snap.Seq
		m.lastErr = nil
		m.refreshedAt = msg.Snap.Taken
		m.status = msg.Snap.Status
		m.statusReady = true
		m.dashboard.Apply(msg.Snap)
		return m, m.afterRefresh()

	case DashboardErrMsg:
		m.inFlight = false
		m.lastErr = msg.Err
		return m, m.afterRefresh()

	case HistoryMsg:
		m.inFlight = false
		if msg.Snap.Seq <= m.lastSeq {
			return m, m.afterRefresh()
		}
		m.lastSeq = msg.Snap.Seq
		m.lastErr = nil
		m.refreshedAt = msg.Snap.Taken
		m.status = msg.Snap.Status
		m.statusReady = true
		m.history.Apply(msg.Snap)
		return m, m.afterRefresh()

	case HistoryErrMsg:
		m.inFlight = false
		m.lastErr = msg.Err
		return m, m.afterRefresh()

	case ActionDoneMsg:
		m.dashboard.Notice = fmt.Sprintf("%s %s: %s", msg.Kind, msg.Target, msg.Detail)
		m.dashboard.NoticeIsErr = false
		// One immediate refresh so the result shows ahead of the next tick.
		if m.inFlight {
			m.needsRefresh = true
			return m, nil
		}
		return m, m.fetchActive()

	case ActionErrMsg:
		m.dashboard.Notice = fmt.Sprintf("%s %s failed: %v", msg.Kind, msg.Target, msg.Err)
		m.dashboard.NoticeIsErr = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// afterRefresh runs a deferred refresh requested while one was in flight.
func (m *Model) afterRefresh() tea.Cmd {
	if !m.needsRefresh {
		return nil
	}
	m.needsRefresh = false
	return m.fetchActive()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Confirmation prompts swallow everything except yes and no.
	if m.activeTab == TabDashboard && m.dashboard.Mode != DashboardModeNormal {
		switch msg.String() {
		case "y", "Y":
			mode := m.dashboard.Mode
			order := m.dashboard.PendingOrder
			symbol := m.dashboard.PendingSymbol
			m.dashboard.ClearConfirm()
			if mode == DashboardModeConfirmCancel {
				return m, m.cancelOrder(order)
			}
			return m, m.closePosition(symbol)
		case "n", "N", "esc":
			m.dashboard.ClearConfirm()
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "1":
		m.activeTab = TabDashboard
		if !m.inFlight {
			return m, m.fetchActive()
		}
		m.needsRefresh = true
		return m, nil

	case "2":
		m.activeTab = TabHistory
		if !m.inFlight {
			return m, m.fetchActive()
		}
		m.needsRefresh = true
		return m, nil

	case "r":
		if !m.inFlight {
			return m, m.fetchActive()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.activeTab == TabDashboard {
		m.dashboard, cmd = m.dashboard.Update(msg)
	} else {
		m.history, cmd = m.history.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.activeTab == TabDashboard {
		b.WriteString(m.dashboard.View())
	} else {
		b.WriteString(m.history.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader paints the status strip. It is rebuilt every cycle from
// the latest status payload.
func (m *Model) renderHeader() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("botwatch"))
	b.WriteString("  ")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	if !m.statusReady {
		b.WriteString(LabelStyle.Render("Connecting..."))
		if m.lastErr != nil {
			b.WriteString("  ")
			b.WriteString(ErrorStyle.Render(m.lastErr.Error()))
		}
		return b.String()
	}

	if m.status.IBConnected {
		b.WriteString(BadgeOnStyle.Render("IB ✓"))
	} else {
		b.WriteString(BadgeOffStyle.Render("IB ✗"))
	}
	b.WriteString("  ")

	b.WriteString(ValueStyle.Render(strings.ToUpper(m.status.Mode)))
	b.WriteString(" ")
	if strings.EqualFold(m.status.TradingStatus, "active") {
		b.WriteString(GreenStyle.Render(m.status.TradingStatus))
	} else {
		b.WriteString(WarningStyle.Render(m.status.TradingStatus))
	}
	b.WriteString("  ")

	ms := m.status.MarketStatus
	if strings.EqualFold(ms.Status, "open") {
		b.WriteString(GreenStyle.Render("market open"))
	} else {
		b.WriteString(RedStyle.Render("market " + ms.Status))
	}
	if ms.Reason != "" {
		b.WriteString(LabelStyle.Render(" (" + derive.Truncate(ms.Reason) + ")"))
	}
	b.WriteString("  ")

	b.WriteString(m.renderIndex("SPY"))
	b.WriteString("  ")
	b.WriteString(m.renderIndex("VIX"))

	b.WriteString("  ")
	b.WriteString(LabelStyle.Render("updated " + formatClock(m.refreshedAt)))

	if m.lastErr != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("refresh failed: " + m.lastErr.Error()))
	}

	return b.String()
}

// renderIndex shows one market index, or a dash before its first quote.
func (m *Model) renderIndex(name string) string {
	q, ok := m.status.Indices[name]
	if !ok || q.Value == 0 {
		return LabelStyle.Render(name + " —")
	}
	return LabelStyle.Render(name+" ") +
		ValueStyle.Render(fmt.Sprintf("%.2f", q.Value)) +
		GainStyle(q.Change >= 0).Render(fmt.Sprintf(" %+.2f%%", q.Change))
}

func (m *Model) renderTabs() string {
	tabs := []string{"[1] Dashboard", "[2] History"}
	rendered := make([]string, len(tabs))
	for i, t := range tabs {
		if Tab(i) == m.activeTab {
			rendered[i] = KeyStyle.Render(t)
		} else {
			rendered[i] = DescStyle.Render(t)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered[0], "  ", rendered[1])
}

func (m *Model) renderFooter() string {
	if m.activeTab == TabHistory {
		return DescStyle.Render("1/2: tabs • r: refresh • q: quit")
	}
	return DescStyle.Render("1/2: tabs • tab: focus • c: cancel order • x: close position • r: refresh • q: quit")
}
