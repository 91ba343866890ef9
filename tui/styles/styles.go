package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	// Primary colors
	PrimaryColor = lipgloss.Color("#7C3AED") // Purple
	AccentColor  = lipgloss.Color("#F59E0B") // Amber

	// Trend colors
	BullColor    = lipgloss.Color("#10B981") // Green
	BearColor    = lipgloss.Color("#EF4444") // Red
	NeutralColor = lipgloss.Color("#6B7280") // Gray
	CrashColor   = lipgloss.Color("#DC2626")

	// Background colors
	BackgroundColor  = lipgloss.Color("#1F2937")
	BorderColor      = lipgloss.Color("#374151")
	FocusBorderColor = lipgloss.Color("#7C3AED")

	// Text colors
	TextColor          = lipgloss.Color("#F9FAFB")
	TextSecondaryColor = lipgloss.Color("#9CA3AF")
	TextMutedColor     = lipgloss.Color("#6B7280")
)

// Panel styles
var (
	// Base panel style
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	// Focused panel style
	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(FocusBorderColor).
				Padding(0, 1)

	// Panel title style
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Padding(0, 1)

	// Header row style
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextSecondaryColor)

	// Row styles
	RowStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	SelfRowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(lipgloss.Color("#374151"))
)

// Text styles
var (
	// Trend text
	BullStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(BullColor)

	BearStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(BearColor)

	NeutralStyle = lipgloss.NewStyle().
			Foreground(NeutralColor)

	// Price styles
	PriceStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// Size style
	SizeStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor)

	// Timestamp style
	TimeStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)

	// Chat message styles
	PlayerMsgStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	SystemMsgStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)
)

// Input styles
var (
	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	FocusedInputStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(FocusBorderColor).
				Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor)
)

// Order book styles
var (
	AskStyle = lipgloss.NewStyle().
			Foreground(BearColor)

	BidStyle = lipgloss.NewStyle().
			Foreground(BullColor)
)

// Chart styles
var (
	ChartAxisStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)

	ChartLabelStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor)
)

// Status bar styles
var (
	StatusLiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(BullColor)

	StatusCrashedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(TextColor).
				Background(CrashColor).
				Padding(0, 1)

	StatusCompletedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(AccentColor)

	StatusBarStyle = lipgloss.NewStyle().
			Background(BackgroundColor).
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	StatusBarKeyStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	StatusBarDescStyle = lipgloss.NewStyle().
				Foreground(TextSecondaryColor)

	NoticeErrorStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(TextColor).
				Background(BearColor).
				Padding(0, 1)

	NoticeInfoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#111827")).
			Background(BullColor).
			Padding(0, 1)
)

// Overlay styles
var (
	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(CrashColor).
			Padding(1, 4).
			Align(lipgloss.Center)

	OverlayCrashTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(CrashColor)

	OverlayDoneTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(BullColor)
)

// Particle backdrop style
var ParticleStyle = lipgloss.NewStyle().
	Foreground(TextMutedColor)

// Helper function to render a title bar for a panel
func RenderTitle(title string, focused bool) string {
	style := TitleStyle
	if focused {
		style = style.Foreground(FocusBorderColor)
	}
	return style.Render(title)
}

// Helper to format a dollar price
func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

// TrendStyle picks the style for a price delta.
func TrendStyle(delta float64) lipgloss.Style {
	switch {
	case delta > 0:
		return BullStyle
	case delta < 0:
		return BearStyle
	default:
		return NeutralStyle
	}
}
