package formatter

import (
	"fmt"
	"strings"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorOrange = lipgloss.Color("#fe8019")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = ColorOrange
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

// periodColors maps the named period marker colors onto the palette.
var periodColors = map[domain.PeriodColor]lipgloss.Color{
	domain.PeriodGrey:   ColorDim,
	domain.PeriodYellow: ColorYellow,
	domain.PeriodOrange: ColorOrange,
	domain.PeriodRed:    ColorRed,
	domain.PeriodGreen:  ColorGreen,
	domain.PeriodBlue:   ColorBlue,
	domain.PeriodPurple: ColorPurple,
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
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

// Success renders a confirmation line such as "Created project Search".
func Success(text string) string {
	return StyleGreen.Render("✓ ") + text
}

// Warning renders a highlighted warning line.
func Warning(text string) string {
	return StyleYellow.Render("! " + text)
}

// Error renders an error line in red.
func Error(err error) string {
	return StyleRed.Render("Error: " + err.Error())
}

// Swatch renders a block in the given #rrggbb color followed by the code.
func Swatch(hex string) string {
	if !domain.IsRGBHex(hex) {
		return Dim(hex)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■") + " " + hex
}

// PeriodSwatch renders a period marker color name in that color.
func PeriodSwatch(c domain.PeriodColor) string {
	color, ok := periodColors[c]
	if !ok {
		return Dim(string(c))
	}
	return lipgloss.NewStyle().Foreground(color).Render("■ " + string(c))
}

// ShortID returns the first eight characters of an id for display.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
