package panels

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Abinaav-K876/market-crash/internal/state"
	"github.com/Abinaav-K876/market-crash/tui/styles"
)

const bookDepth = 8

// OrderBookPanel displays the bid and ask ladder with volume bars.
type OrderBookPanel struct {
	book    state.OrderBook
	focused bool
	width   int
	height  int
}

// NewOrderBookPanel creates a new order book panel.
func NewOrderBookPanel() *OrderBookPanel {
	return &OrderBookPanel{}
}

// Init initializes the panel.
func (p *OrderBookPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *OrderBookPanel) Update(msg tea.Msg) (*OrderBookPanel, tea.Cmd) {
	return p, nil
}

// SetBook sets the order book to display.
func (p *OrderBookPanel) SetBook(book state.OrderBook) {
	p.book = book
}

// displayLevels picks and orders the levels shown on each side. Asks
// are the lowest-priced eight sorted ascending, bids the highest eight
// sorted descending, so the best prices sit adjacent to the spread rows.
func (p *OrderBookPanel) displayLevels() (asks, bids []state.BookLevel) {
	asks = append(asks, p.book.Asks...)
	sort.Slice(asks, func(i, j int) bool { return asks[i].Price < asks[j].Price })
	if len(asks) > bookDepth {
		asks = asks[:bookDepth]
	}

	bids = append(bids, p.book.Bids...)
	sort.Slice(bids, func(i, j int) bool { return bids[i].Price > bids[j].Price })
	if len(bids) > bookDepth {
		bids = bids[:bookDepth]
	}
	return asks, bids
}

// View renders the panel.
func (p *OrderBookPanel) View() string {
	var content strings.Builder

	asks, bids := p.displayLevels()

	maxVol := 0
	for _, lvl := range asks {
		if lvl.Vol > maxVol {
			maxVol = lvl.Vol
		}
	}
	for _, lvl := range bids {
		if lvl.Vol > maxVol {
			maxVol = lvl.Vol
		}
	}

	barWidth := p.width - 22
	if barWidth < 4 {
		barWidth = 4
	}

	header := fmt.Sprintf("%8s %6s %s", "Price", "Vol", "")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	for _, lvl := range asks {
		content.WriteString(p.renderLevel(lvl, maxVol, barWidth, styles.AskStyle))
		content.WriteString("\n")
	}

	content.WriteString(p.renderSpread(asks, bids))
	content.WriteString("\n")

	for _, lvl := range bids {
		content.WriteString(p.renderLevel(lvl, maxVol, barWidth, styles.BidStyle))
		content.WriteString("\n")
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📊 Order Book", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *OrderBookPanel) renderLevel(lvl state.BookLevel, maxVol, barWidth int, style lipgloss.Style) string {
	bar := ""
	if maxVol > 0 {
		fill := lvl.Vol * barWidth / maxVol
		if fill > barWidth {
			fill = barWidth
		}
		bar = strings.Repeat("█", fill)
	}
	row := fmt.Sprintf("%8.2f %6d %s", lvl.Price, lvl.Vol, bar)
	return style.Render(row)
}

// renderSpread renders the spread rows between the ask and bid ladders.
// Both values show dashes while either side of the book is empty.
func (p *OrderBookPanel) renderSpread(asks, bids []state.BookLevel) string {
	if len(asks) == 0 || len(bids) == 0 {
		return styles.MutedStyle.Render(" Spread  ---    ---")
	}

	bestAsk := asks[0].Price
	bestBid := bids[0].Price
	spread := bestAsk - bestBid
	pct := 0.0
	if bestBid > 0 {
		pct = spread / bestBid * 100
	}
	return styles.MutedStyle.Render(fmt.Sprintf(" Spread  %.2f   %.2f%%", spread, pct))
}

// SetFocus sets the focus state of the panel.
func (p *OrderBookPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *OrderBookPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
