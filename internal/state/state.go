package state

// PricePoint is one entry of the server-supplied price history.
type PricePoint struct {
	Round int
	Price float64
}

// ChatMessage is one chat entry. System-flagged entries double as
// market news items.
type ChatMessage struct {
	Time    string
	Player  string
	Message string
	System  bool
}

// BookLevel is one price level of the order book.
type BookLevel struct {
	Price float64
	Vol   int
}

// OrderBook holds both sides as supplied by the server, asks in
// ascending and bids in descending price order.
type OrderBook struct {
	Asks []BookLevel
	Bids []BookLevel
}

// LeaderboardRow is one leaderboard entry, pre-sorted by the server.
type LeaderboardRow struct {
	PlayerName string
	TotalValue float64
	IsCurrent  bool
}

// Snapshot is one complete copy of client-visible game state. It is
// owned by the Store and replaced wholesale on every update; all other
// components treat it as read-only.
type Snapshot struct {
	Price     float64
	LastPrice float64

	Cash   float64
	Shares int

	// NetWorth is derived from Cash, Shares and Price; it is never
	// set directly.
	NetWorth float64

	Round     int
	MaxRounds int
	Active    bool
	Crashed   bool

	History     []PricePoint
	Chat        []ChatMessage
	Book        OrderBook
	Leaderboard []LeaderboardRow
}

// Partial is a partial update to a Snapshot. Nil fields are left
// untouched by Store.Apply; collections replace the previous value
// wholesale when present.
type Partial struct {
	Price     *float64
	Cash      *float64
	Shares    *int
	Round     *int
	MaxRounds *int
	Active    *bool
	Crashed   *bool

	History     []PricePoint
	Chat        []ChatMessage
	Book        *OrderBook
	Leaderboard []LeaderboardRow
}

// Changes flags which sections of the snapshot a given update touched,
// so subscribers can skip unchanged sections.
type Changes struct {
	Price       bool // a price value was present in the update
	Holdings    bool // cash or shares changed
	Lifecycle   bool // round, max rounds, active or crashed changed
	History     bool
	Chat        bool // message count changed
	Book        bool
	Leaderboard bool
}

// Any reports whether the update touched anything at all.
func (c Changes) Any() bool {
	return c.Price || c.Holdings || c.Lifecycle || c.History || c.Chat || c.Book || c.Leaderboard
}
