package poll

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Abinaav-K876/market-crash/internal/api"
	"github.com/Abinaav-K876/market-crash/internal/state"
)

func snapshotBody(price float64, round int) map[string]any {
	return map[string]any{
		"success": true,
		"room": map[string]any{
			"current_price":  price,
			"round_number":   round,
			"max_rounds":     20,
			"is_active":      true,
			"crash_occurred": false,
		},
		"player":        map[string]any{"cash": 1000.0, "shares": 0},
		"price_history": []map[string]any{{"round": round, "price": price}},
		"chat":          []map[string]any{},
		"order_book":    map[string]any{"asks": []any{}, "bids": []any{}},
		"leaderboard":   []any{},
	}
}

func newLoopStore() *state.Store {
	return state.NewStore(state.Snapshot{Price: 100, LastPrice: 100, Cash: 1000, Active: true, MaxRounds: 20})
}

func TestLoop_ImmediateFirstPoll(t *testing.T) {
	var polls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		polls.Add(1)
		json.NewEncoder(w).Encode(snapshotBody(101, 1))
	}))
	defer server.Close()

	store := newLoopStore()
	l := New(Config{Interval: time.Hour}, api.NewClient(server.URL), "R1", store, nil, nil)

	l.Start(context.Background())
	defer l.Stop(context.Background())

	waitFor(t, func() bool { return polls.Load() >= 1 })
	waitFor(t, func() bool { return store.Snapshot().Price == 101 })
}

func TestLoop_NetworkErrorLeavesStoreUnchanged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(snapshotBody(105, 2))
	}))

	store := newLoopStore()
	l := New(Config{Interval: time.Hour, Timeout: time.Second}, api.NewClient(server.URL), "R1", store, nil, nil)
	l.ctx, l.cancel = context.WithCancel(context.Background())
	defer l.cancel()

	l.pollOnce()
	before := store.Snapshot()
	if before.Price != 105 {
		t.Fatalf("sanity poll failed, price = %v", before.Price)
	}

	// Server goes away; the tick must fail silently and keep the
	// previous snapshot byte for byte.
	server.Close()
	l.pollOnce()

	after := store.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("snapshot changed across failed tick:\nbefore=%+v\nafter=%+v", before, after)
	}
}

func TestLoop_SessionExpiredFiresOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Session expired"})
	}))
	defer server.Close()

	var fired atomic.Int32
	store := newLoopStore()
	l := New(Config{Interval: time.Hour, Timeout: time.Second}, api.NewClient(server.URL), "R1", store,
		func() { fired.Add(1) }, nil)
	l.ctx, l.cancel = context.WithCancel(context.Background())
	defer l.cancel()

	l.pollOnce()
	l.pollOnce()
	l.pollOnce()

	if got := fired.Load(); got != 1 {
		t.Fatalf("session-expired callback fired %d times, want 1", got)
	}
}

func TestLoop_KickTriggersOutOfBandPoll(t *testing.T) {
	var polls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(snapshotBody(110, int(polls.Add(1))))
	}))
	defer server.Close()

	store := newLoopStore()
	l := New(Config{Interval: time.Hour}, api.NewClient(server.URL), "R1", store, nil, nil)

	l.Start(context.Background())
	defer l.Stop(context.Background())

	waitFor(t, func() bool { return polls.Load() == 1 })

	l.Kick()
	waitFor(t, func() bool { return polls.Load() == 2 })
}

func TestLoop_KicksCoalesce(t *testing.T) {
	l := New(Config{}, nil, "R1", nil, nil, nil)
	l.Kick()
	l.Kick()
	l.Kick()
	if len(l.kick) != 1 {
		t.Fatalf("kick channel holds %d entries, want 1", len(l.kick))
	}
}

func TestNormalize_MapsWirePayload(t *testing.T) {
	ann := "ann"
	snap := &api.RoomSnapshot{
		Room: api.RoomPayload{
			CurrentPrice:  102.5,
			RoundNumber:   3,
			MaxRounds:     20,
			IsActive:      true,
			CrashOccurred: false,
		},
		Player: api.PlayerPayload{Cash: 500, Shares: 5},
		PriceHistory: []api.PricePoint{
			{Round: 2, Price: 101},
			{Round: 3, Price: 102.5},
		},
		Chat: []api.ChatEntry{
			{Time: "10:00:01", Player: nil, Message: "Round 3 begins", IsSystem: true},
			{Time: "10:00:05", Player: &ann, Message: "hello", IsSystem: false},
		},
		OrderBook: api.OrderBookPayload{
			Asks: []api.BookLevelPayload{{Price: 103, Vol: 40}},
			Bids: []api.BookLevelPayload{{Price: 102, Vol: 25}},
		},
		Leaderboard: []api.LeaderboardEntry{
			{PlayerName: "ann", TotalValue: 1012.5, IsCurrent: true},
		},
	}

	p := Normalize(snap)

	if *p.Price != 102.5 || *p.Round != 3 || *p.MaxRounds != 20 || !*p.Active || *p.Crashed {
		t.Fatalf("room fields wrong: %+v", p)
	}
	if *p.Cash != 500 || *p.Shares != 5 {
		t.Fatalf("player fields wrong: cash=%v shares=%v", *p.Cash, *p.Shares)
	}
	if len(p.History) != 2 || p.History[1] != (state.PricePoint{Round: 3, Price: 102.5}) {
		t.Fatalf("history wrong: %+v", p.History)
	}
	if !p.Chat[0].System || p.Chat[0].Player != "" {
		t.Fatalf("system message wrong: %+v", p.Chat[0])
	}
	if p.Chat[1].Player != "ann" {
		t.Fatalf("player message wrong: %+v", p.Chat[1])
	}
	if p.Book.Asks[0] != (state.BookLevel{Price: 103, Vol: 40}) {
		t.Fatalf("asks wrong: %+v", p.Book.Asks)
	}
	if !p.Leaderboard[0].IsCurrent {
		t.Fatalf("leaderboard wrong: %+v", p.Leaderboard)
	}
}

func TestNormalize_MissingMaxRoundsLeftIntact(t *testing.T) {
	snap := &api.RoomSnapshot{}
	p := Normalize(snap)
	if p.MaxRounds != nil {
		t.Fatalf("expected nil MaxRounds for zero wire value, got %v", *p.MaxRounds)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
