package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Abinaav-K876/market-crash/internal/state"
	"github.com/Abinaav-K876/market-crash/tui/styles"
)

// HeaderPanel displays the price ticker, holdings and round progress.
type HeaderPanel struct {
	snap    state.Snapshot
	focused bool
	width   int
	height  int
}

// NewHeaderPanel creates a new header panel.
func NewHeaderPanel() *HeaderPanel {
	return &HeaderPanel{}
}

// Init initializes the panel.
func (p *HeaderPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *HeaderPanel) Update(msg tea.Msg) (*HeaderPanel, tea.Cmd) {
	return p, nil
}

// SetSnapshot sets the game state to display.
func (p *HeaderPanel) SetSnapshot(snap state.Snapshot) {
	p.snap = snap
}

// View renders the panel.
func (p *HeaderPanel) View() string {
	var content strings.Builder

	delta := p.snap.Price - p.snap.LastPrice
	deltaPct := 0.0
	if p.snap.LastPrice > 0 {
		deltaPct = delta / p.snap.LastPrice * 100
	}

	arrow := "·"
	if delta > 0 {
		arrow = "▲"
	} else if delta < 0 {
		arrow = "▼"
	}

	price := styles.TrendStyle(delta).Render(fmt.Sprintf("%s %s", styles.FormatPrice(p.snap.Price), arrow))
	pct := styles.TrendStyle(delta).Render(fmt.Sprintf("%+.2f%%", deltaPct))

	content.WriteString(fmt.Sprintf("%s  %s", price, pct))
	content.WriteString("\n")

	holdings := fmt.Sprintf("Cash %s   Shares %d   Net %s",
		styles.FormatPrice(p.snap.Cash),
		p.snap.Shares,
		styles.FormatPrice(p.snap.NetWorth))
	content.WriteString(styles.RowStyle.Render(holdings))
	content.WriteString("\n")

	round := fmt.Sprintf("Round %d", p.snap.Round)
	if p.snap.MaxRounds > 0 {
		round = fmt.Sprintf("Round %d/%d", p.snap.Round, p.snap.MaxRounds)
	}
	content.WriteString(styles.SizeStyle.Render(round))

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("💹 Market", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *HeaderPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *HeaderPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
