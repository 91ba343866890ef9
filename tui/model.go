package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Abinaav-K876/market-crash/internal/api"
	"github.com/Abinaav-K876/market-crash/internal/audio"
	"github.com/Abinaav-K876/market-crash/internal/particles"
	"github.com/Abinaav-K876/market-crash/internal/poll"
	"github.com/Abinaav-K876/market-crash/internal/state"
	"github.com/Abinaav-K876/market-crash/tui/panels"
	"github.com/Abinaav-K876/market-crash/tui/styles"
)

const (
	framePeriod  = 33 * time.Millisecond
	overlayDelay = 1500 * time.Millisecond
	noticeTTL    = 4 * time.Second
	actionWait   = 5 * time.Second
)

// SnapshotMsg carries a fresh game state into the UI. The store
// subscription forwards these through Program.Send.
type SnapshotMsg struct {
	Snap    state.Snapshot
	Changes state.Changes
}

// SessionExpiredMsg tells the UI the server no longer knows this player.
type SessionExpiredMsg struct{}

// PanelFocus represents which panel is currently focused.
type PanelFocus int

const (
	FocusChart       PanelFocus = 0
	FocusOrderBook   PanelFocus = 1
	FocusLeaderboard PanelFocus = 2
	FocusTrade       PanelFocus = 3
	FocusChat        PanelFocus = 4
	FocusNews        PanelFocus = 5

	focusCount = 6
)

// Model is the main TUI application model.
type Model struct {
	client *api.Client
	loop   *poll.Loop
	sound  *audio.Engine
	field  *particles.Field
	logger *slog.Logger
	roomID string

	pollInterval time.Duration

	// Panels
	headerPanel      *panels.HeaderPanel
	chartPanel       *panels.ChartPanel
	orderBookPanel   *panels.OrderBookPanel
	leaderboardPanel *panels.LeaderboardPanel
	tradePanel       *panels.TradeFormPanel
	chatPanel        *panels.ChatPanel
	newsPanel        *panels.NewsPanel

	focusedPanel PanelFocus

	// Latest game state
	snap     state.Snapshot
	haveSnap bool
	lastSync time.Time

	// End of game handling
	endSeen     bool
	showOverlay bool

	// Transient status message
	notice      string
	noticeStyle lipgloss.Style
	noticeUntil time.Time

	fatal string

	width  int
	height int
	ready  bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// NewModel creates a new TUI model.
func NewModel(client *api.Client, loop *poll.Loop, sound *audio.Engine, field *particles.Field, roomID, playerName string, pollInterval time.Duration, opts ...Option) *Model {
	m := &Model{
		client:           client,
		roomID:           roomID,
		loop:             loop,
		sound:            sound,
		field:            field,
		logger:           slog.Default(),
		pollInterval:     pollInterval,
		headerPanel:      panels.NewHeaderPanel(),
		chartPanel:       panels.NewChartPanel(),
		orderBookPanel:   panels.NewOrderBookPanel(),
		leaderboardPanel: panels.NewLeaderboardPanel(),
		tradePanel:       panels.NewTradeFormPanel(),
		chatPanel:        panels.NewChatPanel(playerName),
		newsPanel:        panels.NewNewsPanel(),
		focusedPanel:     FocusTrade,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetLoop attaches the sync loop once it exists. The loop needs the
// running program for its expiry callback, so it is built second.
func (m *Model) SetLoop(loop *poll.Loop) {
	m.loop = loop
}

// Fatal returns the message to print after the program exits, if any.
func (m *Model) Fatal() string {
	return m.fatal
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.tradePanel.Init(),
		m.chatPanel.Init(),
		m.frameTick(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.field.Resize(msg.Width, msg.Height)
		m.ready = true

	case SnapshotMsg:
		cmds = append(cmds, m.handleSnapshot(msg)...)

	case SessionExpiredMsg:
		m.fatal = "Session expired. Rejoin the room to keep playing."
		return m, tea.Quit

	case panels.TradeSubmitMsg:
		cmds = append(cmds, m.submitTrade(msg))

	case panels.TradeRejectMsg:
		m.setNotice(msg.Reason, styles.NoticeErrorStyle)

	case panels.ChatSubmitMsg:
		cmds = append(cmds, m.submitChat(msg.Message))

	case tradeResultMsg:
		if cmd := m.handleTradeResult(msg); cmd != nil {
			return m, cmd
		}

	case chatResultMsg:
		if msg.err != nil {
			m.setNotice("Chat failed: "+msg.err.Error(), styles.NoticeErrorStyle)
		}

	case overlayRevealMsg:
		m.showOverlay = true

	case frameMsg:
		m.field.Step()
		if !m.noticeUntil.IsZero() && time.Now().After(m.noticeUntil) {
			m.notice = ""
			m.noticeUntil = time.Time{}
		}
		cmds = append(cmds, m.frameTick())
	}

	m.updateFocusedPanel(msg, &cmds)

	return m, tea.Batch(cmds...)
}

// handleKey deals with global keys. Keys that should reach a text
// input fall through to the focused panel.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit, true

	case "q":
		if !m.inputFocused() || m.showOverlay {
			return tea.Quit, true
		}

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % focusCount
		return nil, true

	case "shift+tab":
		m.focusedPanel--
		if m.focusedPanel < 0 {
			m.focusedPanel = focusCount - 1
		}
		return nil, true

	case "f1":
		m.focusedPanel = FocusChart
		return nil, true
	case "f2":
		m.focusedPanel = FocusOrderBook
		return nil, true
	case "f3":
		m.focusedPanel = FocusLeaderboard
		return nil, true
	case "f4":
		m.focusedPanel = FocusTrade
		return nil, true
	case "f5":
		m.focusedPanel = FocusChat
		return nil, true
	case "f6":
		m.focusedPanel = FocusNews
		return nil, true

	case "m":
		if !m.inputFocused() {
			m.toggleMute()
			return nil, true
		}
	case "f8":
		m.toggleMute()
		return nil, true
	}
	return nil, false
}

func (m *Model) inputFocused() bool {
	return m.focusedPanel == FocusTrade || m.focusedPanel == FocusChat
}

func (m *Model) toggleMute() {
	if m.sound.Toggle() {
		m.setNotice("Sound on", styles.NoticeInfoStyle)
	} else {
		m.setNotice("Sound muted", styles.NoticeInfoStyle)
	}
}

// handleSnapshot pushes fresh state into the panels, skipping the ones
// whose slice of the state did not change, and fires the audio cues.
func (m *Model) handleSnapshot(msg SnapshotMsg) []tea.Cmd {
	var cmds []tea.Cmd

	first := !m.haveSnap
	prev := m.snap
	m.snap = msg.Snap
	m.haveSnap = true
	m.lastSync = time.Now()

	m.headerPanel.SetSnapshot(msg.Snap)
	m.tradePanel.SetSnapshot(msg.Snap)

	if first || msg.Changes.History {
		m.chartPanel.SetHistory(msg.Snap.History)
	}
	if first || msg.Changes.Book {
		m.orderBookPanel.SetBook(msg.Snap.Book)
	}
	if first || msg.Changes.Leaderboard {
		m.leaderboardPanel.SetRows(msg.Snap.Leaderboard)
	}
	if first || msg.Changes.Chat {
		m.chatPanel.SetMessages(msg.Snap.Chat)
		m.newsPanel.SetMessages(msg.Snap.Chat)
	}

	// A new price that actually moved gets the metronome tick. The
	// price comparison is the sole trigger, a refreshed equal price
	// stays silent.
	if msg.Changes.Price && msg.Snap.Price != msg.Snap.LastPrice {
		m.sound.Play(audio.CueTick)
	}

	if !m.endSeen && !first {
		if msg.Snap.Crashed && !prev.Crashed {
			m.endSeen = true
			m.sound.Play(audio.CueCrash)
			cmds = append(cmds, revealOverlayAfter(overlayDelay))
		} else if !msg.Snap.Active && prev.Active && completedAllRounds(msg.Snap) {
			m.endSeen = true
			m.sound.Play(audio.CueAlert)
			cmds = append(cmds, revealOverlayAfter(overlayDelay))
		}
	}
	// Joining a room that already ended skips the ceremony.
	if first && !msg.Snap.Active && (msg.Snap.Crashed || completedAllRounds(msg.Snap)) {
		m.endSeen = true
		m.showOverlay = true
	}

	return cmds
}

// completedAllRounds reports whether the round counter ran its course.
// An inactive room short of the final round stays LIVE on screen, the
// server may pause a game without ending it.
func completedAllRounds(snap state.Snapshot) bool {
	return !snap.Active && !snap.Crashed && snap.MaxRounds > 0 && snap.Round >= snap.MaxRounds
}

func (m *Model) submitTrade(msg panels.TradeSubmitMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionWait)
		defer cancel()

		var (
			result string
			err    error
		)
		if msg.Side == panels.SideBuy {
			result, err = m.client.Buy(ctx, m.roomID, msg.Shares)
		} else {
			result, err = m.client.Sell(ctx, m.roomID, msg.Shares)
		}
		return tradeResultMsg{side: msg.Side, message: result, err: err}
	}
}

func (m *Model) handleTradeResult(msg tradeResultMsg) tea.Cmd {
	if msg.err != nil {
		if api.IsSessionExpired(msg.err) {
			m.fatal = "Session expired. Rejoin the room to keep playing."
			return tea.Quit
		}
		m.sound.Play(audio.CueAlert)
		m.setNotice("❌ "+msg.err.Error(), styles.NoticeErrorStyle)
		return nil
	}

	if msg.side == panels.SideBuy {
		m.sound.Play(audio.CueBuy)
	} else {
		m.sound.Play(audio.CueSell)
	}
	m.tradePanel.ClearAmount()
	text := msg.message
	if text == "" {
		text = "Order filled"
	}
	m.setNotice("✓ "+text, styles.NoticeInfoStyle)
	if m.loop != nil {
		m.loop.Kick()
	}
	return nil
}

func (m *Model) submitChat(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionWait)
		defer cancel()

		err := m.client.Chat(ctx, m.roomID, text)
		if err == nil && m.loop != nil {
			m.loop.Kick()
		}
		return chatResultMsg{err: err}
	}
}

func (m *Model) setNotice(text string, style lipgloss.Style) {
	m.notice = text
	m.noticeStyle = style
	m.noticeUntil = time.Now().Add(noticeTTL)
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	switch m.focusedPanel {
	case FocusChart:
		m.chartPanel, cmd = m.chartPanel.Update(msg)
	case FocusOrderBook:
		m.orderBookPanel, cmd = m.orderBookPanel.Update(msg)
	case FocusLeaderboard:
		m.leaderboardPanel, cmd = m.leaderboardPanel.Update(msg)
	case FocusTrade:
		m.tradePanel, cmd = m.tradePanel.Update(msg)
	case FocusChat:
		m.chatPanel, cmd = m.chatPanel.Update(msg)
	case FocusNews:
		m.newsPanel, cmd = m.newsPanel.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if !m.haveSnap {
		return m.renderWaiting()
	}

	if m.showOverlay {
		backdrop := m.field.Frame()
		box := panels.RenderGameOver(m.snap, m.width, m.height)
		return composeOverBackdrop(backdrop, box)
	}

	m.chartPanel.SetFocus(m.focusedPanel == FocusChart)
	m.orderBookPanel.SetFocus(m.focusedPanel == FocusOrderBook)
	m.leaderboardPanel.SetFocus(m.focusedPanel == FocusLeaderboard)
	m.tradePanel.SetFocus(m.focusedPanel == FocusTrade)
	m.chatPanel.SetFocus(m.focusedPanel == FocusChat)
	m.newsPanel.SetFocus(m.focusedPanel == FocusNews)

	// Layout:
	// ┌─────────────────────────────────────────────┐
	// │                  Header                     │
	// ├────────────────────┬──────────────┬─────────┤
	// │       Chart        │  Order Book  │ Ranking │
	// ├─────────┬──────────┴───────┬──────┴─────────┤
	// │  Trade  │       Chat       │  Market Events │
	// └─────────┴──────────────────┴────────────────┘

	headerHeight := 6
	bodyHeight := m.height - headerHeight - 1
	topHeight := bodyHeight * 3 / 5
	bottomHeight := bodyHeight - topHeight

	chartWidth := m.width / 2
	bookWidth := m.width / 4
	rankWidth := m.width - chartWidth - bookWidth

	tradeWidth := m.width / 4
	chatWidth := m.width * 2 / 5
	newsWidth := m.width - tradeWidth - chatWidth

	m.headerPanel.SetSize(m.width, headerHeight)
	m.chartPanel.SetSize(chartWidth, topHeight)
	m.orderBookPanel.SetSize(bookWidth, topHeight)
	m.leaderboardPanel.SetSize(rankWidth, topHeight)
	m.tradePanel.SetSize(tradeWidth, bottomHeight)
	m.chatPanel.SetSize(chatWidth, bottomHeight)
	m.newsPanel.SetSize(newsWidth, bottomHeight)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.chartPanel.View(),
		m.orderBookPanel.View(),
		m.leaderboardPanel.View(),
	)

	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.tradePanel.View(),
		m.chatPanel.View(),
		m.newsPanel.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerPanel.View(),
		topRow,
		bottomRow,
		m.renderStatusBar(),
	)
}

// renderWaiting shows the particle field while the first sync is in flight.
func (m *Model) renderWaiting() string {
	backdrop := m.field.Frame()
	box := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		styles.PanelStyle.Render("Connecting to room..."))
	return composeOverBackdrop(backdrop, box)
}

// composeOverBackdrop lays box rows over the particle backdrop. Rows
// the box does not cover keep their particles.
func composeOverBackdrop(backdrop []string, box string) string {
	if len(backdrop) == 0 {
		return box
	}
	boxLines := strings.Split(box, "\n")
	out := make([]string, 0, len(backdrop))
	for i := range backdrop {
		line := styles.ParticleStyle.Render(backdrop[i])
		if i < len(boxLines) && strings.TrimSpace(boxLines[i]) != "" {
			line = boxLines[i]
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func (m *Model) renderStatusBar() string {
	var status string
	switch {
	case m.snap.Crashed:
		status = styles.StatusCrashedStyle.Render("CRASHED")
	case completedAllRounds(m.snap):
		status = styles.StatusCompletedStyle.Render("COMPLETED")
	default:
		status = styles.StatusLiveStyle.Render("LIVE")
	}

	countdown := ""
	if m.snap.Active && !m.lastSync.IsZero() {
		remain := m.pollInterval - time.Since(m.lastSync)
		if remain < 0 {
			remain = 0
		}
		countdown = fmt.Sprintf(" next sync %.1fs", remain.Seconds())
	}

	sound := "🔊"
	if !m.sound.Enabled() {
		sound = "🔇"
	}

	help := []string{
		styles.StatusBarKeyStyle.Render("F1-F6") + styles.StatusBarDescStyle.Render(" panels"),
		styles.StatusBarKeyStyle.Render("Tab") + styles.StatusBarDescStyle.Render(" focus"),
		styles.StatusBarKeyStyle.Render("m") + styles.StatusBarDescStyle.Render(" mute"),
		styles.StatusBarKeyStyle.Render("q") + styles.StatusBarDescStyle.Render(" quit"),
	}
	helpStr := strings.Join(help, " │ ")

	left := status + styles.StatusBarDescStyle.Render(countdown) + " " + sound

	line := left + "  " + helpStr
	if m.notice != "" {
		line += "  " + m.noticeStyle.Render(m.notice)
	}

	return styles.StatusBarStyle.Width(m.width).Render(line)
}

// frameMsg drives particle animation and countdown refresh.
type frameMsg time.Time

func (m *Model) frameTick() tea.Cmd {
	return tea.Tick(framePeriod, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

type overlayRevealMsg struct{}

func revealOverlayAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return overlayRevealMsg{}
	})
}

// tradeResultMsg is sent after a buy or sell round trip.
type tradeResultMsg struct {
	side    panels.TradeSide
	message string
	err     error
}

type chatResultMsg struct {
	err error
}
