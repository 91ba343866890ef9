package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Abinaav-K876/market-crash/internal/state"
	"github.com/Abinaav-K876/market-crash/tui/styles"
)

// LeaderboardPanel displays the room ranking in server order.
type LeaderboardPanel struct {
	rows    []state.LeaderboardRow
	focused bool
	width   int
	height  int
}

// NewLeaderboardPanel creates a new leaderboard panel.
func NewLeaderboardPanel() *LeaderboardPanel {
	return &LeaderboardPanel{}
}

// Init initializes the panel.
func (p *LeaderboardPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *LeaderboardPanel) Update(msg tea.Msg) (*LeaderboardPanel, tea.Cmd) {
	return p, nil
}

// SetRows sets the ranking rows. Order is preserved as received.
func (p *LeaderboardPanel) SetRows(rows []state.LeaderboardRow) {
	p.rows = rows
}

// View renders the panel.
func (p *LeaderboardPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%3s %-14s %10s", "#", "Player", "Value")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	if len(p.rows) == 0 {
		content.WriteString(styles.MutedStyle.Render("No players"))
	}

	visible := p.height - 5
	if visible < 1 {
		visible = 1
	}
	rows := p.rows
	if len(rows) > visible {
		rows = rows[:visible]
	}

	for i, row := range rows {
		name := row.PlayerName
		if r := []rune(name); len(r) > 14 {
			name = string(r[:13]) + "…"
		}
		line := fmt.Sprintf("%3d %-14s %10s", i+1, name, styles.FormatPrice(row.TotalValue))

		if row.IsCurrent {
			line = styles.SelfRowStyle.Render(line)
		} else {
			line = styles.RowStyle.Render(line)
		}
		content.WriteString(line)
		if i < len(rows)-1 {
			content.WriteString("\n")
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("🏆 Leaderboard", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *LeaderboardPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *LeaderboardPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
