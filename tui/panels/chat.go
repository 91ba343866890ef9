package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Abinaav-K876/market-crash/internal/state"
	"github.com/Abinaav-K876/market-crash/tui/styles"
)

// ChatSubmitMsg is sent when the player submits a chat message.
type ChatSubmitMsg struct {
	Message string
}

// ChatPanel displays room chat and an input line for sending messages.
type ChatPanel struct {
	viewport  viewport.Model
	input     textinput.Model
	playerNow string
	lastCount int
	focused   bool
	width     int
	height    int
}

// NewChatPanel creates a new chat panel.
func NewChatPanel(playerName string) *ChatPanel {
	input := textinput.New()
	input.Placeholder = "Say something..."
	input.CharLimit = 200

	return &ChatPanel{
		viewport:  viewport.New(0, 0),
		input:     input,
		playerNow: playerName,
		lastCount: -1,
	}
}

// Init initializes the panel.
func (p *ChatPanel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the panel.
func (p *ChatPanel) Update(msg tea.Msg) (*ChatPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, key.NewBinding(key.WithKeys("enter"))) {
			text := strings.TrimSpace(p.input.Value())
			if text == "" {
				return p, nil
			}
			p.input.SetValue("")
			return p, func() tea.Msg {
				return ChatSubmitMsg{Message: text}
			}
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	cmds = append(cmds, cmd)
	p.viewport, cmd = p.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return p, tea.Batch(cmds...)
}

// SetMessages updates the transcript. The viewport content is rebuilt
// only when the message count changed, so manual scroll position
// survives the sync ticks that bring no new chat.
func (p *ChatPanel) SetMessages(msgs []state.ChatMessage) {
	if len(msgs) == p.lastCount {
		return
	}
	p.lastCount = len(msgs)

	var lines []string
	for _, m := range msgs {
		lines = append(lines, p.renderMessage(m))
	}
	p.viewport.SetContent(strings.Join(lines, "\n"))
	p.viewport.GotoBottom()
}

func (p *ChatPanel) renderMessage(m state.ChatMessage) string {
	timeStyled := styles.TimeStyle.Render(m.Time)
	if m.System {
		return fmt.Sprintf("%s %s", timeStyled, styles.SystemMsgStyle.Render(m.Message))
	}

	name := m.Player
	nameStyle := styles.HeaderStyle
	if name == p.playerNow {
		nameStyle = styles.SelfRowStyle
	}
	return fmt.Sprintf("%s %s %s",
		timeStyled,
		nameStyle.Render(name+":"),
		styles.PlayerMsgStyle.Render(m.Message))
}

// View renders the panel.
func (p *ChatPanel) View() string {
	inputStyle := styles.InputStyle
	if p.focused {
		inputStyle = styles.FocusedInputStyle
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("💬 Chat", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left,
		title,
		p.viewport.View(),
		inputStyle.Width(p.width-6).Render(p.input.View()),
	)

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *ChatPanel) SetFocus(focused bool) {
	p.focused = focused
	if focused {
		p.input.Focus()
	} else {
		p.input.Blur()
	}
}

// SetSize sets the panel dimensions.
func (p *ChatPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.viewport.Width = width - 4
	p.viewport.Height = height - 7
	if p.viewport.Height < 1 {
		p.viewport.Height = 1
	}
	p.input.Width = width - 10
}
