package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jordanhale/timeloom/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// TypeColor returns the style used for a source type across all views.
func TypeColor(t domain.SourceType) lipgloss.Style {
	switch t {
	case domain.SourceProject:
		return StyleBlue
	case domain.SourceAssignment:
		return StylePurple
	case domain.SourceHousehold:
		return StyleGreen
	case domain.SourceMeeting:
		return StyleYellow
	default:
		return StyleFg
	}
}

// PriorityPill returns a colored priority label.
func PriorityPill(p domain.Priority) string {
	switch p {
	case domain.PriorityCritical:
		return StyleRed.Render("▲ critical")
	case domain.PriorityHigh:
		return StyleYellow.Render("● high")
	case domain.PriorityMedium:
		return StyleBlue.Render("● medium")
	case domain.PriorityLow:
		return StyleDim.Render("○ low")
	default:
		return StyleDim.Render("○ flexible")
	}
}

// StatusPill returns a colored status indicator for a block status.
func StatusPill(status domain.BlockStatus) string {
	switch status {
	case domain.BlockScheduled:
		return StyleBlue.Render("○ scheduled")
	case domain.BlockCompleted:
		return StyleGreen.Render("✔ completed")
	case domain.BlockSkipped:
		return StyleDim.Render("⊘ skipped")
	case domain.BlockExternal:
		return StyleYellow.Render("◆ external")
	default:
		return StyleDim.Render(string(status))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
