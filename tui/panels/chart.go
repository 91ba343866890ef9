package panels

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/Abinaav-K876/market-crash/internal/state"
	"github.com/Abinaav-K876/market-crash/tui/styles"
)

// ChartPanel plots the round-by-round price history.
type ChartPanel struct {
	history []state.PricePoint
	focused bool
	width   int
	height  int
}

// NewChartPanel creates a new chart panel.
func NewChartPanel() *ChartPanel {
	return &ChartPanel{}
}

// Init initializes the panel.
func (p *ChartPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *ChartPanel) Update(msg tea.Msg) (*ChartPanel, tea.Cmd) {
	return p, nil
}

// SetHistory sets the price series to plot.
func (p *ChartPanel) SetHistory(history []state.PricePoint) {
	p.history = history
}

// View renders the panel.
func (p *ChartPanel) View() string {
	var content string

	if len(p.history) == 0 {
		content = styles.MutedStyle.Render("Waiting for price data...")
	} else {
		series := make([]float64, len(p.history))
		for i, pt := range p.history {
			series[i] = pt.Price
		}

		plotWidth := p.width - 14 // Leave room for the axis labels
		if plotWidth < 10 {
			plotWidth = 10
		}
		plotHeight := p.height - 5
		if plotHeight < 3 {
			plotHeight = 3
		}

		graph := asciigraph.Plot(series,
			asciigraph.Width(plotWidth),
			asciigraph.Height(plotHeight),
			asciigraph.Precision(2),
		)

		trend := series[len(series)-1] - series[0]
		content = styles.TrendStyle(trend).Render(graph)
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📈 Price History", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content)

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *ChartPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *ChartPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
