package panels

import (
	"strings"
	"testing"

	"github.com/Abinaav-K876/market-crash/internal/state"
)

func chatMsg(player, text string) state.ChatMessage {
	return state.ChatMessage{Time: "12:00:00", Player: player, Message: text}
}

func TestChatSkipsRebuildWhenCountUnchanged(t *testing.T) {
	p := NewChatPanel("alice")
	p.SetSize(60, 20)

	p.SetMessages([]state.ChatMessage{
		chatMsg("alice", "hello"),
		chatMsg("bob", "hi"),
	})
	before := p.viewport.View()

	// Same count with different text must not rebuild the transcript.
	p.SetMessages([]state.ChatMessage{
		chatMsg("alice", "changed"),
		chatMsg("bob", "also changed"),
	})
	if after := p.viewport.View(); after != before {
		t.Error("viewport rebuilt although message count was unchanged")
	}

	// A new message does rebuild.
	p.SetMessages([]state.ChatMessage{
		chatMsg("alice", "hello"),
		chatMsg("bob", "hi"),
		chatMsg("carol", "hey"),
	})
	if after := p.viewport.View(); after == before {
		t.Error("viewport not rebuilt after new message arrived")
	}
}

func TestChatRendersSystemAndPlayerMessages(t *testing.T) {
	p := NewChatPanel("alice")
	p.SetSize(60, 20)

	p.SetMessages([]state.ChatMessage{
		chatMsg("bob", "buying the dip"),
		{Time: "12:00:01", Message: "Market volatility increasing!", System: true},
	})

	view := p.viewport.View()
	if !strings.Contains(view, "bob:") {
		t.Error("player message missing sender name")
	}
	if !strings.Contains(view, "Market volatility increasing!") {
		t.Error("system message missing")
	}
}

func TestNewsFiltersSystemMessages(t *testing.T) {
	p := NewNewsPanel()
	p.SetSize(60, 20)

	p.SetMessages([]state.ChatMessage{
		chatMsg("bob", "just chatting"),
		{Time: "12:00:01", Message: "Round 5 complete", System: true},
	})

	if len(p.items) != 1 {
		t.Fatalf("got %d items, want 1", len(p.items))
	}
	view := p.View()
	if !strings.Contains(view, "Round 5 complete") {
		t.Error("system entry missing from view")
	}
	if strings.Contains(view, "just chatting") {
		t.Error("player chat leaked into market events")
	}
}

func TestNewsRendersOnNarrowPanels(t *testing.T) {
	p := NewNewsPanel()
	p.SetMessages([]state.ChatMessage{
		{Time: "12:00:01", Message: "A market event headline far too long for a sliver of a panel", System: true},
	})

	// Panic-free at every width down to the degenerate ones.
	for w := 30; w >= 0; w-- {
		p.SetSize(w, 12)
		_ = p.View()
	}
}

func TestTruncateHeadline(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{"fits", "short", 10, "short"},
		{"cut", "a headline that drags on", 8, "a headli..."},
		{"multi-byte cut on rune boundary", "株価が急落しています注意", 6, "株価が急落し..."},
		{"no room", "anything at all", 0, "anything at all"},
		{"negative limit", "anything at all", -2, "anything at all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateHeadline(tt.text, tt.limit); got != tt.want {
				t.Errorf("truncateHeadline(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
			}
		})
	}
}
