package api

// RoomSnapshot is the wire form of one authoritative room snapshot.
type RoomSnapshot struct {
	Room         RoomPayload        `json:"room"`
	Player       PlayerPayload      `json:"player"`
	PriceHistory []PricePoint       `json:"price_history"`
	Chat         []ChatEntry        `json:"chat"`
	OrderBook    OrderBookPayload   `json:"order_book"`
	Leaderboard  []LeaderboardEntry `json:"leaderboard"`
}

// RoomPayload carries room lifecycle fields.
type RoomPayload struct {
	CurrentPrice  float64 `json:"current_price"`
	RoundNumber   int     `json:"round_number"`
	MaxRounds     int     `json:"max_rounds"`
	IsActive      bool    `json:"is_active"`
	CrashOccurred bool    `json:"crash_occurred"`
}

// PlayerPayload carries the authoritative player holdings.
type PlayerPayload struct {
	Cash   float64 `json:"cash"`
	Shares int     `json:"shares"`
}

// PricePoint is one (round, price) pair of the price history.
type PricePoint struct {
	Round int     `json:"round"`
	Price float64 `json:"price"`
}

// ChatEntry is one chat message; system entries double as news.
type ChatEntry struct {
	Time     string  `json:"time"`
	Player   *string `json:"player"`
	Message  string  `json:"message"`
	IsSystem bool    `json:"is_system"`
}

// BookLevelPayload is one order-book level.
type BookLevelPayload struct {
	Price float64 `json:"price"`
	Vol   int     `json:"vol"`
}

// OrderBookPayload carries both book sides.
type OrderBookPayload struct {
	Asks []BookLevelPayload `json:"asks"`
	Bids []BookLevelPayload `json:"bids"`
}

// LeaderboardEntry is one pre-sorted leaderboard row.
type LeaderboardEntry struct {
	PlayerName string  `json:"player_name"`
	TotalValue float64 `json:"total_value"`
	IsCurrent  bool    `json:"is_current"`
}

type stateEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	RoomSnapshot
}

type actionEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type tradeRequest struct {
	Shares int `json:"shares"`
}

type chatRequest struct {
	Message string `json:"message"`
}
