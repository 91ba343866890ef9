package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Abinaav-K876/market-crash/internal/state"
	"github.com/Abinaav-K876/market-crash/tui/styles"
)

// RenderGameOver builds the centered end-of-game overlay. The crash
// variant gets the red title, a natural finish the green one.
func RenderGameOver(snap state.Snapshot, width, height int) string {
	var content strings.Builder

	if snap.Crashed {
		content.WriteString(styles.OverlayCrashTitleStyle.Render("💥 MARKET CRASH 💥"))
	} else {
		content.WriteString(styles.OverlayDoneTitleStyle.Render("🏁 GAME OVER 🏁"))
	}
	content.WriteString("\n\n")

	content.WriteString(styles.RowStyle.Render(
		fmt.Sprintf("Final net worth: %s", styles.FormatPrice(snap.NetWorth))))
	content.WriteString("\n")

	if len(snap.Leaderboard) > 0 {
		winner := snap.Leaderboard[0]
		content.WriteString(styles.SystemMsgStyle.Render(
			fmt.Sprintf("Winner: %s with %s", winner.PlayerName, styles.FormatPrice(winner.TotalValue))))
		content.WriteString("\n\n")

		for i, row := range snap.Leaderboard {
			line := fmt.Sprintf("%2d. %-14s %10s", i+1, row.PlayerName, styles.FormatPrice(row.TotalValue))
			if row.IsCurrent {
				content.WriteString(styles.SelfRowStyle.Render(line))
			} else {
				content.WriteString(styles.RowStyle.Render(line))
			}
			content.WriteString("\n")
		}
	}

	content.WriteString("\n")
	content.WriteString(styles.MutedStyle.Render("press q to leave"))

	box := styles.OverlayStyle.Render(content.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
