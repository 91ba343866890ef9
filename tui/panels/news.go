package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Abinaav-K876/market-crash/internal/state"
	"github.com/Abinaav-K876/market-crash/tui/styles"
)

// NewsPanel displays market events, the system-flagged chat entries.
type NewsPanel struct {
	items   []state.ChatMessage
	focused bool
	width   int
	height  int
}

// NewNewsPanel creates a new news panel.
func NewNewsPanel() *NewsPanel {
	return &NewsPanel{}
}

// Init initializes the panel.
func (p *NewsPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *NewsPanel) Update(msg tea.Msg) (*NewsPanel, tea.Cmd) {
	return p, nil
}

// SetMessages filters the transcript down to system entries.
func (p *NewsPanel) SetMessages(msgs []state.ChatMessage) {
	p.items = p.items[:0]
	for _, m := range msgs {
		if m.System {
			p.items = append(p.items, m)
		}
	}
}

// View renders the panel.
func (p *NewsPanel) View() string {
	var content strings.Builder

	if len(p.items) == 0 {
		content.WriteString(styles.MutedStyle.Render("No market events yet"))
	} else {
		visible := p.height - 4
		if visible < 1 {
			visible = 1
		}

		start := 0
		if len(p.items) > visible {
			start = len(p.items) - visible
		}

		for i := start; i < len(p.items); i++ {
			item := p.items[i]

			headline := truncateHeadline(item.Message, p.width-18)

			line := fmt.Sprintf("%s %s",
				styles.TimeStyle.Render(item.Time),
				styles.SystemMsgStyle.Render(headline))
			content.WriteString(line)
			if i < len(p.items)-1 {
				content.WriteString("\n")
			}
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📰 Market Events", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// truncateHeadline shortens text to limit runes plus an ellipsis. Text
// is left alone when it already fits or the limit leaves no room.
func truncateHeadline(text string, limit int) string {
	if limit < 1 {
		return text
	}
	r := []rune(text)
	if len(r) <= limit+3 {
		return text
	}
	return string(r[:limit]) + "..."
}

// SetFocus sets the focus state of the panel.
func (p *NewsPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *NewsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
