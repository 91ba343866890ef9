package tui

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gopxl/beep/v2"

	"github.com/Abinaav-K876/market-crash/internal/audio"
	"github.com/Abinaav-K876/market-crash/internal/particles"
	"github.com/Abinaav-K876/market-crash/internal/state"
	"github.com/Abinaav-K876/market-crash/tui/panels"
)

// countSink records how many streamers reach the speaker.
type countSink struct {
	plays int
}

func (s *countSink) Play(beep.Streamer) { s.plays++ }

func newTestModel(t *testing.T) (*Model, *countSink) {
	t.Helper()
	sink := &countSink{}
	sound := audio.NewEngine(beep.SampleRate(8000), sink)
	field := particles.NewField(rand.New(rand.NewSource(1)))
	m := NewModel(nil, nil, sound, field, "ROOM42", "alice", time.Second)

	// Window size readies the model and the particle field.
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(*Model), sink
}

func snapshot(active, crashed bool, price, last float64) state.Snapshot {
	return state.Snapshot{
		Price:     price,
		LastPrice: last,
		Cash:      1000,
		NetWorth:  1000,
		Round:     3,
		MaxRounds: 20,
		Active:    active,
		Crashed:   crashed,
	}
}

// finishedSnapshot is an inactive room whose round counter ran out.
func finishedSnapshot(price, last float64) state.Snapshot {
	s := snapshot(false, false, price, last)
	s.Round = s.MaxRounds
	return s
}

func send(t *testing.T, m *Model, msg tea.Msg) *Model {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(*Model)
}

func TestTickCueOnlyWhenPriceMoved(t *testing.T) {
	tests := []struct {
		name      string
		price     float64
		lastPrice float64
		changed   bool
		wantPlays int
	}{
		{"price moved up", 105, 100, true, 1},
		{"price moved down", 95, 100, true, 1},
		{"price refreshed but equal", 100, 100, true, 0},
		{"no price in payload", 105, 100, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, sink := newTestModel(t)
			m = send(t, m, SnapshotMsg{
				Snap:    snapshot(true, false, tt.price, tt.lastPrice),
				Changes: state.Changes{Price: tt.changed},
			})
			if sink.plays != tt.wantPlays {
				t.Errorf("plays = %d, want %d", sink.plays, tt.wantPlays)
			}
		})
	}
}

func TestCrashCueFiresOnce(t *testing.T) {
	m, sink := newTestModel(t)

	m = send(t, m, SnapshotMsg{Snap: snapshot(true, false, 100, 100)})
	if sink.plays != 0 {
		t.Fatalf("plays = %d before crash, want 0", sink.plays)
	}

	m = send(t, m, SnapshotMsg{Snap: snapshot(false, true, 20, 100)})
	if sink.plays != 1 {
		t.Fatalf("plays = %d after crash, want 1", sink.plays)
	}

	// Further crashed snapshots stay silent.
	m = send(t, m, SnapshotMsg{Snap: snapshot(false, true, 20, 20)})
	if sink.plays != 1 {
		t.Errorf("plays = %d after repeat crash snapshot, want 1", sink.plays)
	}
}

func TestOverlayRevealedAfterDelay(t *testing.T) {
	m, _ := newTestModel(t)

	m = send(t, m, SnapshotMsg{Snap: snapshot(true, false, 100, 100)})
	m = send(t, m, SnapshotMsg{Snap: snapshot(false, true, 20, 100)})

	// Overlay waits for the reveal message, the crash tone plays first.
	if m.showOverlay {
		t.Fatal("overlay shown before reveal delay")
	}

	m = send(t, m, overlayRevealMsg{})
	if !m.showOverlay {
		t.Fatal("overlay not shown after reveal message")
	}
	if view := m.View(); !strings.Contains(view, "MARKET CRASH") {
		t.Error("crash overlay missing from view")
	}
}

func TestJoiningEndedRoomShowsOverlayImmediately(t *testing.T) {
	m, sink := newTestModel(t)

	m = send(t, m, SnapshotMsg{Snap: snapshot(false, true, 20, 20)})

	if !m.showOverlay {
		t.Error("overlay not shown when first snapshot is already over")
	}
	if sink.plays != 0 {
		t.Errorf("plays = %d on stale game over, want 0", sink.plays)
	}
}

func TestCompletedGameGetsAlertNotCrash(t *testing.T) {
	m, sink := newTestModel(t)

	m = send(t, m, SnapshotMsg{Snap: snapshot(true, false, 100, 100)})
	m = send(t, m, SnapshotMsg{Snap: finishedSnapshot(100, 100)})

	// The alert cue is a double beep, two bursts reach the sink.
	if sink.plays != 2 {
		t.Fatalf("plays = %d after natural finish, want 2", sink.plays)
	}
	m = send(t, m, overlayRevealMsg{})
	if view := m.View(); !strings.Contains(view, "GAME OVER") {
		t.Error("finish overlay missing from view")
	}
}

func TestPausedMidGameStaysLive(t *testing.T) {
	m, sink := newTestModel(t)

	m = send(t, m, SnapshotMsg{Snap: snapshot(true, false, 100, 100)})
	// Inactive at round 3 of 20, not crashed. No finish ceremony.
	m = send(t, m, SnapshotMsg{Snap: snapshot(false, false, 100, 100)})

	if sink.plays != 0 {
		t.Errorf("plays = %d for a mid-game pause, want 0", sink.plays)
	}
	if m.endSeen {
		t.Error("game-over sequence armed before the final round")
	}
	if !strings.Contains(m.View(), "LIVE") {
		t.Error("status bar left LIVE before the final round")
	}
}

func TestSessionExpiredQuits(t *testing.T) {
	m, _ := newTestModel(t)

	updated, cmd := m.Update(SessionExpiredMsg{})
	m = updated.(*Model)

	if m.Fatal() == "" {
		t.Error("fatal message not set on session expiry")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("command did not quit the program")
	}
}

func TestRejectedTradePlaysAlert(t *testing.T) {
	m, sink := newTestModel(t)
	m = send(t, m, SnapshotMsg{Snap: snapshot(true, false, 100, 100)})

	m = send(t, m, tradeResultMsg{
		side: panels.SideBuy,
		err:  errors.New("Not enough cash"),
	})

	if sink.plays != 2 {
		t.Errorf("alert cue plays = %d, want 2", sink.plays)
	}
	if !strings.Contains(m.View(), "Not enough cash") {
		t.Error("server rejection not surfaced in the notice")
	}
}

func TestTradeAmountSurvivesRejection(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, SnapshotMsg{Snap: snapshot(true, false, 100, 100)})
	// Rendering once pushes focus into the panels.
	_ = m.View()

	// Default focus is the trade form, type a distinctive amount.
	for _, r := range "7777" {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if !strings.Contains(m.View(), "7777") {
		t.Fatal("typed amount missing from the trade form")
	}

	m = send(t, m, tradeResultMsg{side: panels.SideBuy, err: errors.New("Insufficient funds")})
	if !strings.Contains(m.View(), "7777") {
		t.Error("rejected trade wiped the typed amount")
	}

	m = send(t, m, tradeResultMsg{side: panels.SideBuy, message: "Order filled"})
	if strings.Contains(m.tradePanel.View(), "7777") {
		t.Error("accepted trade left the amount in the input")
	}
}

func TestMuteToggleBlockedWhileTyping(t *testing.T) {
	m, _ := newTestModel(t)

	// Default focus is the trade form, "m" must reach the input.
	if _, handled := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}}); handled {
		t.Error("mute key swallowed while an input is focused")
	}

	m.focusedPanel = FocusChart
	if _, handled := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}}); !handled {
		t.Error("mute key ignored on a non-input panel")
	}
	if m.sound.Enabled() {
		t.Error("mute toggle did not disable sound")
	}
}
