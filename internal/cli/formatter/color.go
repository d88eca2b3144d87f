package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pursuitapp/pursuit/internal/domain"
	"github.com/pursuitapp/pursuit/internal/urgency"
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

// UrgencyColor returns the style for a deadline urgency tier.
func UrgencyColor(tier urgency.Tier) lipgloss.Style {
	switch tier {
	case urgency.TierCritical, urgency.TierExpired:
		return StyleRed
	case urgency.TierUrgent:
		return StyleYellow
	case urgency.TierWarning:
		return StyleBlue
	case urgency.TierSafe:
		return StyleGreen
	default:
		return StyleDim
	}
}

// UrgencyBadge renders a compact colored badge such as "● 3d".
func UrgencyBadge(u urgency.Urgency) string {
	style := UrgencyColor(u.Tier)
	switch {
	case u.DaysLeft == nil:
		return StyleDim.Render("·")
	case *u.DaysLeft < 0:
		return style.Render("● expired")
	case *u.DaysLeft == 0:
		return style.Render("● today")
	default:
		return style.Render(fmt.Sprintf("● %dd", *u.DaysLeft))
	}
}

// StageColor returns the style for a pipeline stage column.
func StageColor(s domain.Stage) lipgloss.Style {
	switch s {
	case domain.StageDiscovered:
		return StyleBlue
	case domain.StagePreparing:
		return StyleYellow
	case domain.StageSubmitted:
		return StylePurple
	case domain.StagePending:
		return StyleFg
	case domain.StageWon:
		return StyleGreen
	case domain.StageLost:
		return StyleDim
	default:
		return StyleDim
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
