package poll

import (
	"github.com/Abinaav-K876/market-crash/internal/api"
	"github.com/Abinaav-K876/market-crash/internal/state"
)

// Normalize maps a wire snapshot into a store partial. Collections are
// taken as full replacements; the client trusts server ordering.
func Normalize(snap *api.RoomSnapshot) state.Partial {
	p := state.Partial{
		Price:   &snap.Room.CurrentPrice,
		Round:   &snap.Room.RoundNumber,
		Active:  &snap.Room.IsActive,
		Crashed: &snap.Room.CrashOccurred,
		Cash:    &snap.Player.Cash,
		Shares:  &snap.Player.Shares,
	}
	if snap.Room.MaxRounds > 0 {
		p.MaxRounds = &snap.Room.MaxRounds
	}

	p.History = make([]state.PricePoint, len(snap.PriceHistory))
	for i, pt := range snap.PriceHistory {
		p.History[i] = state.PricePoint{Round: pt.Round, Price: pt.Price}
	}

	p.Chat = make([]state.ChatMessage, len(snap.Chat))
	for i, msg := range snap.Chat {
		m := state.ChatMessage{
			Time:    msg.Time,
			Message: msg.Message,
			System:  msg.IsSystem,
		}
		if msg.Player != nil {
			m.Player = *msg.Player
		}
		p.Chat[i] = m
	}

	book := state.OrderBook{
		Asks: make([]state.BookLevel, len(snap.OrderBook.Asks)),
		Bids: make([]state.BookLevel, len(snap.OrderBook.Bids)),
	}
	for i, lvl := range snap.OrderBook.Asks {
		book.Asks[i] = state.BookLevel{Price: lvl.Price, Vol: lvl.Vol}
	}
	for i, lvl := range snap.OrderBook.Bids {
		book.Bids[i] = state.BookLevel{Price: lvl.Price, Vol: lvl.Vol}
	}
	p.Book = &book

	p.Leaderboard = make([]state.LeaderboardRow, len(snap.Leaderboard))
	for i, row := range snap.Leaderboard {
		p.Leaderboard[i] = state.LeaderboardRow{
			PlayerName: row.PlayerName,
			TotalValue: row.TotalValue,
			IsCurrent:  row.IsCurrent,
		}
	}

	return p
}
