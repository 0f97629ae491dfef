package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"botwatch/internal/activity"
	"botwatch/internal/derive"
	"botwatch/internal/snapshot"
	"botwatch/pkg/botapi"
)

// DashboardMode represents the input mode of the dashboard view.
type DashboardMode int

const (
	DashboardModeNormal DashboardMode = iota
	DashboardModeConfirmCancel
	DashboardModeConfirmClose
)

// Focus selects which dashboard table receives navigation keys.
type Focus int

const (
	FocusPositions Focus = iota
	FocusOrders
)

// feedLines caps how many activity entries are painted.
const feedLines = 8

// DashboardModel holds the state for the dashboard tab. All collections
// are replaced wholesale when a snapshot is applied; nothing is patched
// in place, so rows from a previous cycle cannot linger.
type DashboardModel struct {
	Ready       bool
	Account     botapi.Account
	PnL         botapi.PnL
	Positions   []botapi.Position
	Metrics     []derive.PositionMetrics
	OpenOrders  []botapi.OpenOrder
	Feed        []activity.Entry
	LastUpdated time.Time

	PosTable table.Model
	OrdTable table.Model
	Focus    Focus

	Mode          DashboardMode
	PendingOrder  botapi.OpenOrder
	PendingSymbol string

	// Result line of the most recent control action.
	Notice      string
	NoticeIsErr bool
}

// NewDashboardModel creates the dashboard tab model.
func NewDashboardModel() *DashboardModel {
	posCols := []table.Column{
		{Title: "Symbol", Width: 8},
		{Title: "Qty", Width: 8},
		{Title: "Avg Cost", Width: 10},
		{Title: "Price", Width: 10},
		{Title: "Mkt Value", Width: 12},
		{Title: "Unrlzd P&L", Width: 12},
		{Title: "P&L %", Width: 9},
	}
	pt := table.New(
		table.WithColumns(posCols),
		table.WithFocused(true),
		table.WithHeight(6),
	)
	pt.SetStyles(TableStyles())

	ordCols := []table.Column{
		{Title: "ID", Width: 7},
		{Title: "Symbol", Width: 8},
		{Title: "Side", Width: 5},
		{Title: "Type", Width: 6},
		{Title: "Qty", Width: 8},
		{Title: "Price", Width: 10},
		{Title: "Status", Width: 14},
	}
	ot := table.New(
		table.WithColumns(ordCols),
		table.WithHeight(4),
	)
	ot.SetStyles(BlurredTableStyles())

	return &DashboardModel{
		PosTable: pt,
		OrdTable: ot,
	}
}

// SetHeight divides the available height between the two tables.
func (m *DashboardModel) SetHeight(height int) {
	posHeight := height * 2 / 3
	if posHeight < 3 {
		posHeight = 3
	}
	ordHeight := height - posHeight
	if ordHeight < 3 {
		ordHeight = 3
	}
	m.PosTable.SetHeight(posHeight)
	m.OrdTable.SetHeight(ordHeight)
}

// Apply replaces the rendered state with the given snapshot.
func (m *DashboardModel) Apply(snap *snapshot.Snapshot) {
	m.Ready = true
	m.Account = snap.Account
	m.PnL = snap.PnL
	m.Positions = snap.Positions
	m.OpenOrders = snap.OpenOrders
	m.Feed = activity.Merge(snap.Activity.Signals, snap.Activity.Orders)
	m.LastUpdated = snap.Taken

	m.Metrics = make([]derive.PositionMetrics, len(snap.Positions))
	for i, p := range snap.Positions {
		m.Metrics[i] = derive.Compute(p)
	}

	m.rebuildTables()
}

// rebuildTables fully replaces both tables' rows.
func (m *DashboardModel) rebuildTables() {
	posRows := make([]table.Row, 0, len(m.Positions))
	for i, p := range m.Positions {
		met := m.Metrics[i]
		price := p.MarketPrice
		if price == 0 {
			price = p.AvgCost
		}
		posRows = append(posRows, table.Row{
			p.Symbol,
			formatQty(p.Quantity),
			derive.Money(decimal.NewFromFloat(p.AvgCost)),
			derive.Money(decimal.NewFromFloat(price)),
			derive.Money(met.MarketValue),
			derive.SignedMoney(met.UnrealizedPnL),
			derive.SignedPercent(met.PnLPct),
		})
	}
	m.PosTable.SetRows(posRows)

	ordRows := make([]table.Row, 0, len(m.OpenOrders))
	for _, o := range m.OpenOrders {
		price := "MKT"
		if o.Price != 0 {
			price = derive.Money(decimal.NewFromFloat(o.Price))
		}
		ordRows = append(ordRows, table.Row{
			fmt.Sprintf("%d", o.OrderID),
			o.Symbol,
			o.Action,
			o.Type,
			formatQty(o.Quantity),
			price,
			o.Status,
		})
	}
	m.OrdTable.SetRows(ordRows)

	// A shrinking collection can strand the cursor past the end.
	if c := m.PosTable.Cursor(); c >= len(posRows) && len(posRows) > 0 {
		m.PosTable.SetCursor(len(posRows) - 1)
	}
	if c := m.OrdTable.Cursor(); c >= len(ordRows) && len(ordRows) > 0 {
		m.OrdTable.SetCursor(len(ordRows) - 1)
	}
}

// SelectedPosition returns the position under the cursor, if any.
func (m *DashboardModel) SelectedPosition() *botapi.Position {
	idx := m.PosTable.Cursor()
	if idx >= 0 && idx < len(m.Positions) {
		return &m.Positions[idx]
	}
	return nil
}

// SelectedOrder returns the open order under the cursor, if any.
func (m *DashboardModel) SelectedOrder() *botapi.OpenOrder {
	idx := m.OrdTable.Cursor()
	if idx >= 0 && idx < len(m.OpenOrders) {
		return &m.OpenOrders[idx]
	}
	return nil
}

// Update handles dashboard-tab keys and table navigation. Returns the
// model, a command, and whether a control action should be dispatched.
func (m *DashboardModel) Update(msg tea.Msg) (*DashboardModel, tea.Cmd) {
	var cmd tea.Cmd

	if key, ok := msg.(tea.KeyMsg); ok && m.Mode == DashboardModeNormal {
		switch key.String() {
		case "tab":
			m.toggleFocus()
			return m, nil
		case "x":
			if pos := m.SelectedPosition(); pos != nil && m.Focus == FocusPositions {
				m.Mode = DashboardModeConfirmClose
				m.PendingSymbol = pos.Symbol
			}
			return m, nil
		case "c":
			if ord := m.SelectedOrder(); ord != nil && m.Focus == FocusOrders {
				m.Mode = DashboardModeConfirmCancel
				m.PendingOrder = *ord
			}
			return m, nil
		}
	}

	// Navigation flows to the focused table only.
	switch m.Focus {
	case FocusPositions:
		m.PosTable, cmd = m.PosTable.Update(msg)
	case FocusOrders:
		m.OrdTable, cmd = m.OrdTable.Update(msg)
	}
	return m, cmd
}

func (m *DashboardModel) toggleFocus() {
	if m.Focus == FocusPositions {
		m.Focus = FocusOrders
		m.PosTable.Blur()
		m.OrdTable.Focus()
		m.PosTable.SetStyles(BlurredTableStyles())
		m.OrdTable.SetStyles(TableStyles())
	} else {
		m.Focus = FocusPositions
		m.OrdTable.Blur()
		m.PosTable.Focus()
		m.OrdTable.SetStyles(BlurredTableStyles())
		m.PosTable.SetStyles(TableStyles())
	}
}

// ClearConfirm leaves any confirmation mode without dispatching.
func (m *DashboardModel) ClearConfirm() {
	m.Mode = DashboardModeNormal
	m.PendingOrder = botapi.OpenOrder{}
	m.PendingSymbol = ""
}

// View renders the dashboard tab.
func (m *DashboardModel) View() string {
	var b strings.Builder

	switch m.Mode {
	case DashboardModeConfirmCancel:
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Cancel order %d (%s %s %s)?",
			m.PendingOrder.OrderID, m.PendingOrder.Action,
			formatQty(m.PendingOrder.Quantity), m.PendingOrder.Symbol)))
		b.WriteString("\n\n")
		b.WriteString(LabelStyle.Render("Press Y to confirm, N to abort"))
		return b.String()

	case DashboardModeConfirmClose:
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Close position %s at market?", m.PendingSymbol)))
		b.WriteString("\n\n")
		b.WriteString(LabelStyle.Render("Press Y to confirm, N to abort"))
		return b.String()
	}

	if !m.Ready {
		b.WriteString("Loading dashboard...")
		return b.String()
	}

	m.renderSummary(&b)
	m.renderPositions(&b)
	m.renderOrders(&b)
	m.renderFeed(&b)

	if m.Notice != "" {
		b.WriteString("\n")
		if m.NoticeIsErr {
			b.WriteString(ErrorStyle.Render(m.Notice))
		} else {
			b.WriteString(GreenStyle.Render(m.Notice))
		}
	}

	return b.String()
}

func (m *DashboardModel) renderSummary(b *strings.Builder) {
	b.WriteString(SectionStyle.Render("Account"))
	b.WriteString("\n")

	b.WriteString(LabelStyle.Render("Equity: "))
	b.WriteString(ValueStyle.Render(derive.Money(decimal.NewFromFloat(m.Account.NetLiquidation))))
	b.WriteString("  ")
	b.WriteString(LabelStyle.Render("Cash: "))
	b.WriteString(ValueStyle.Render(derive.Money(decimal.NewFromFloat(m.Account.TotalCashValue))))
	b.WriteString("  ")
	b.WriteString(LabelStyle.Render("Buying Power: "))
	b.WriteString(ValueStyle.Render(derive.Money(decimal.NewFromFloat(m.Account.BuyingPower))))
	b.WriteString("  ")
	b.WriteString(LabelStyle.Render("Utilization: "))
	b.WriteString(ValueStyle.Render(derive.Utilization(m.Account).StringFixed(1) + "%"))
	b.WriteString("\n")

	total := derive.TotalPnL(m.PnL)
	b.WriteString(LabelStyle.Render("P&L: "))
	b.WriteString(GainStyle(derive.IsGain(total)).Render(derive.SignedMoney(total)))
	b.WriteString(LabelStyle.Render(fmt.Sprintf("  (realized %s, unrealized %s, %d trades)",
		derive.SignedMoney(decimal.NewFromFloat(m.PnL.Realized)),
		derive.SignedMoney(decimal.NewFromFloat(m.PnL.Unrealized)),
		m.PnL.TotalTrades)))
	b.WriteString("\n\n")
}

func (m *DashboardModel) renderPositions(b *strings.Builder) {
	b.WriteString(SectionStyle.Render("Positions"))
	b.WriteString(LabelStyle.Render(fmt.Sprintf(" (%d)", len(m.Positions))))
	b.WriteString("\n")
	if len(m.Positions) == 0 {
		b.WriteString(LabelStyle.Render("No open positions"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.PosTable.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (m *DashboardModel) renderOrders(b *strings.Builder) {
	b.WriteString(SectionStyle.Render("Pending Orders"))
	b.WriteString(LabelStyle.Render(fmt.Sprintf(" (%d)", len(m.OpenOrders))))
	b.WriteString("\n")
	if len(m.OpenOrders) == 0 {
		b.WriteString(LabelStyle.Render("No pending orders"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.OrdTable.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (m *DashboardModel) renderFeed(b *strings.Builder) {
	b.WriteString(SectionStyle.Render("Activity"))
	b.WriteString("\n")
	if len(m.Feed) == 0 {
		b.WriteString(LabelStyle.Render("No activity yet"))
		b.WriteString("\n")
		return
	}

	n := len(m.Feed)
	if n > feedLines {
		n = feedLines
	}
	for _, e := range m.Feed[:n] {
		style := StatusStyle(derive.Classify(e.Status))
		line := fmt.Sprintf("%s  %-6s %s [%s]",
			e.Time.Format("15:04:05"), e.Kind, e.Message, e.Status)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
}
