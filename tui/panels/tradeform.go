package panels

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Abinaav-K876/market-crash/internal/state"
	"github.com/Abinaav-K876/market-crash/tui/styles"
)

// TradeSide selects the direction of a submitted order.
type TradeSide int

const (
	SideBuy TradeSide = iota
	SideSell
)

// TradeSubmitMsg is sent when a trade passes local validation.
type TradeSubmitMsg struct {
	Side   TradeSide
	Shares int
}

// TradeRejectMsg is sent when a trade fails local validation.
type TradeRejectMsg struct {
	Reason string
}

// TradeFormPanel handles share amount entry and buy/sell submission.
type TradeFormPanel struct {
	amountInput textinput.Model
	sideIndex   int
	snap        state.Snapshot
	focused     bool
	width       int
	height      int
}

// NewTradeFormPanel creates a new trade form panel.
func NewTradeFormPanel() *TradeFormPanel {
	amountInput := textinput.New()
	amountInput.Placeholder = "Shares"
	amountInput.Width = 10
	amountInput.CharLimit = 9

	return &TradeFormPanel{
		amountInput: amountInput,
	}
}

// Init initializes the panel.
func (p *TradeFormPanel) Init() tea.Cmd {
	return textinput.Blink
}

// SetSnapshot feeds the holdings used for local validation.
func (p *TradeFormPanel) SetSnapshot(snap state.Snapshot) {
	p.snap = snap
}

// Update handles messages for the panel.
func (p *TradeFormPanel) Update(msg tea.Msg) (*TradeFormPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("left"))):
			p.sideIndex = 0
			return p, nil
		case key.Matches(msg, key.NewBinding(key.WithKeys("right"))):
			p.sideIndex = 1
			return p, nil
		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			return p, p.submit()
		}
	}

	var cmd tea.Cmd
	p.amountInput, cmd = p.amountInput.Update(msg)
	return p, cmd
}

// submit validates the order against the latest snapshot before it
// goes anywhere near the wire.
func (p *TradeFormPanel) submit() tea.Cmd {
	shares, err := strconv.Atoi(strings.TrimSpace(p.amountInput.Value()))
	if err != nil || shares <= 0 {
		return reject("Enter a positive whole number of shares")
	}

	if p.sideIndex == 0 {
		cost := float64(shares) * p.snap.Price
		if cost > p.snap.Cash {
			return reject(fmt.Sprintf("Need %s, have %s", styles.FormatPrice(cost), styles.FormatPrice(p.snap.Cash)))
		}
	} else {
		if shares > p.snap.Shares {
			return reject(fmt.Sprintf("Only %d shares held", p.snap.Shares))
		}
	}

	side := SideBuy
	if p.sideIndex == 1 {
		side = SideSell
	}
	return func() tea.Msg {
		return TradeSubmitMsg{Side: side, Shares: shares}
	}
}

// ClearAmount empties the share input. Called once the server accepts
// an order, a rejected one keeps the typed amount for correction.
func (p *TradeFormPanel) ClearAmount() {
	p.amountInput.SetValue("")
}

func reject(reason string) tea.Cmd {
	return func() tea.Msg {
		return TradeRejectMsg{Reason: reason}
	}
}

// View renders the panel.
func (p *TradeFormPanel) View() string {
	var content strings.Builder

	content.WriteString(p.renderSideField())
	content.WriteString("\n")

	inputStyle := styles.InputStyle
	if p.focused {
		inputStyle = styles.FocusedInputStyle
	}
	content.WriteString(styles.LabelStyle.Render("Qty "))
	content.WriteString(inputStyle.Render(p.amountInput.View()))
	content.WriteString("\n")

	if shares, err := strconv.Atoi(strings.TrimSpace(p.amountInput.Value())); err == nil && shares > 0 {
		cost := float64(shares) * p.snap.Price
		content.WriteString(styles.SizeStyle.Render(fmt.Sprintf("≈ %s", styles.FormatPrice(cost))))
		content.WriteString("\n")
	}

	content.WriteString(styles.MutedStyle.Render("←/→ side · enter submit"))

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📝 Trade", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *TradeFormPanel) renderSideField() string {
	var items []string
	for i, opt := range []string{"BUY", "SELL"} {
		style := styles.LabelStyle
		if i == p.sideIndex {
			if opt == "BUY" {
				style = styles.BullStyle
			} else {
				style = styles.BearStyle
			}
		}
		items = append(items, style.Render(opt))
	}
	return strings.Join(items, " | ")
}

// SetFocus sets the focus state of the panel.
func (p *TradeFormPanel) SetFocus(focused bool) {
	p.focused = focused
	if focused {
		p.amountInput.Focus()
	} else {
		p.amountInput.Blur()
	}
}

// SetSize sets the panel dimensions.
func (p *TradeFormPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
