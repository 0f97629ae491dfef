package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"botwatch/internal/derive"
	"botwatch/internal/snapshot"
	"botwatch/pkg/botapi"
)

// HistoryModel holds the state for the order history tab.
type HistoryModel struct {
	Ready       bool
	Orders      []botapi.HistoricalOrder
	LastUpdated time.Time

	Table table.Model
}

// NewHistoryModel creates the history tab model.
func NewHistoryModel() *HistoryModel {
	cols := []table.Column{
		{Title: "Time", Width: 9},
		{Title: "ID", Width: 7},
		{Title: "Symbol", Width: 8},
		{Title: "Side", Width: 5},
		{Title: "Qty", Width: 8},
		{Title: "Fill", Width: 10},
		{Title: "Status", Width: 14},
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	t.SetStyles(TableStyles())
	return &HistoryModel{Table: t}
}

// SetHeight resizes the history table.
func (m *HistoryModel) SetHeight(height int) {
	if height < 3 {
		height = 3
	}
	m.Table.SetHeight(height)
}

// Apply replaces the rendered state with the given snapshot.
func (m *HistoryModel) Apply(snap *snapshot.HistorySnapshot) {
	m.Ready = true
	m.Orders = snap.Orders
	m.LastUpdated = snap.Taken

	rows := make([]table.Row, 0, len(snap.Orders))
	for _, o := range snap.Orders {
		fill := "—"
		if o.FillPrice != nil {
			fill = derive.Money(decimal.NewFromFloat(*o.FillPrice))
		}
		rows = append(rows, table.Row{
			formatClock(o.CreatedAt.Time),
			fmt.Sprintf("%d", o.IBOrderID),
			o.Ticker,
			o.Action,
			formatQty(o.Quantity),
			fill,
			o.Status,
		})
	}
	m.Table.SetRows(rows)

	if c := m.Table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.Table.SetCursor(len(rows) - 1)
	}
}

// Update handles table navigation.
func (m *HistoryModel) Update(msg tea.Msg) (*HistoryModel, tea.Cmd) {
	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

// View renders the history tab.
func (m *HistoryModel) View() string {
	var b strings.Builder

	if !m.Ready {
		b.WriteString("Loading history...")
		return b.String()
	}

	b.WriteString(SectionStyle.Render("Today's Orders"))
	b.WriteString(LabelStyle.Render(fmt.Sprintf(" (%d)", len(m.Orders))))
	b.WriteString("\n")
	if len(m.Orders) == 0 {
		b.WriteString(LabelStyle.Render("No orders today"))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(m.Table.View())
	b.WriteString("\n")
	return b.String()
}
