package state

import "sync"

// Subscriber receives the full post-update snapshot plus the section
// diff for that update.
type Subscriber func(Snapshot, Changes)

// Store holds the single mutable game-state snapshot and notifies
// subscribers on every update. Notifications run synchronously in
// registration order while the store lock is held, so a concurrent
// Apply cannot interleave mid-notification.
type Store struct {
	mu   sync.Mutex
	snap Snapshot
	subs []Subscriber
}

// NewStore creates a store seeded with the given initial snapshot.
// NetWorth is derived from the seed values.
func NewStore(initial Snapshot) *Store {
	initial.NetWorth = initial.Cash + float64(initial.Shares)*initial.Price
	return &Store{snap: initial}
}

// Subscribe registers a listener. Listeners live for the process
// lifetime; there is no unsubscribe.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Snapshot returns a copy of the current snapshot with cloned
// collection slices.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSnapshot(s.snap)
}

// Apply merges a partial update onto the current snapshot, recomputes
// the derived fields, and notifies every subscriber with the new full
// snapshot.
//
// LastPrice captures the outgoing Price whenever a new Price arrives.
// NetWorth is recomputed whenever cash, shares or price was present in
// the partial, so it can never drift from cash + shares*price.
func (s *Store) Apply(p Partial) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.snap
	var ch Changes

	if p.Price != nil {
		s.snap.LastPrice = prev.Price
		s.snap.Price = *p.Price
		ch.Price = true
	}
	if p.Cash != nil {
		if *p.Cash != prev.Cash {
			ch.Holdings = true
		}
		s.snap.Cash = *p.Cash
	}
	if p.Shares != nil {
		if *p.Shares != prev.Shares {
			ch.Holdings = true
		}
		s.snap.Shares = *p.Shares
	}
	if p.Price != nil || p.Cash != nil || p.Shares != nil {
		s.snap.NetWorth = s.snap.Cash + float64(s.snap.Shares)*s.snap.Price
	}

	if p.Round != nil && *p.Round != prev.Round {
		s.snap.Round = *p.Round
		ch.Lifecycle = true
	}
	if p.MaxRounds != nil && *p.MaxRounds != prev.MaxRounds {
		s.snap.MaxRounds = *p.MaxRounds
		ch.Lifecycle = true
	}
	if p.Active != nil && *p.Active != prev.Active {
		s.snap.Active = *p.Active
		ch.Lifecycle = true
	}
	if p.Crashed != nil && *p.Crashed != prev.Crashed {
		s.snap.Crashed = *p.Crashed
		ch.Lifecycle = true
	}

	if p.History != nil {
		if historyChanged(prev.History, p.History) {
			ch.History = true
		}
		s.snap.History = append([]PricePoint(nil), p.History...)
	}
	if p.Chat != nil {
		if len(p.Chat) != len(prev.Chat) {
			ch.Chat = true
		}
		s.snap.Chat = append([]ChatMessage(nil), p.Chat...)
	}
	if p.Book != nil {
		if !booksEqual(prev.Book, *p.Book) {
			ch.Book = true
		}
		s.snap.Book = OrderBook{
			Asks: append([]BookLevel(nil), p.Book.Asks...),
			Bids: append([]BookLevel(nil), p.Book.Bids...),
		}
	}
	if p.Leaderboard != nil {
		if !leaderboardsEqual(prev.Leaderboard, p.Leaderboard) {
			ch.Leaderboard = true
		}
		s.snap.Leaderboard = append([]LeaderboardRow(nil), p.Leaderboard...)
	}

	for _, fn := range s.subs {
		fn(s.snap, ch)
	}
}

func cloneSnapshot(s Snapshot) Snapshot {
	s.History = append([]PricePoint(nil), s.History...)
	s.Chat = append([]ChatMessage(nil), s.Chat...)
	s.Book = OrderBook{
		Asks: append([]BookLevel(nil), s.Book.Asks...),
		Bids: append([]BookLevel(nil), s.Book.Bids...),
	}
	s.Leaderboard = append([]LeaderboardRow(nil), s.Leaderboard...)
	return s
}

func historyChanged(old, new []PricePoint) bool {
	if len(old) != len(new) {
		return true
	}
	if len(new) == 0 {
		return false
	}
	return old[len(old)-1] != new[len(new)-1]
}

func booksEqual(a, b OrderBook) bool {
	if len(a.Asks) != len(b.Asks) || len(a.Bids) != len(b.Bids) {
		return false
	}
	for i := range a.Asks {
		if a.Asks[i] != b.Asks[i] {
			return false
		}
	}
	for i := range a.Bids {
		if a.Bids[i] != b.Bids[i] {
			return false
		}
	}
	return true
}

func leaderboardsEqual(a, b []LeaderboardRow) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
