package forme

import "github.com/charmbracelet/lipgloss"

// Theme provides a set of styles for consistent form appearance.
// Set it on a group's Configuration; nested groups inherit nothing, each
// group renders with its own.
type Theme struct {
	Base       lipgloss.Style // default text style
	Muted      lipgloss.Style // placeholders, detail text
	Accent     lipgloss.Style // focused controls
	Error      lipgloss.Style // validation messages
	Border     lipgloss.Style // separators
	Background lipgloss.Color // grouped-style background, "" for none
}

// Pre-defined themes

// ThemeDark is a dark theme with light text on dark background.
var ThemeDark = Theme{
	Base:       lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	Muted:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	Accent:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	Border:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	Background: lipgloss.Color("235"),
}

// ThemeLight is a light theme with dark text on light background.
var ThemeLight = Theme{
	Base:       lipgloss.NewStyle().Foreground(lipgloss.Color("0")),
	Muted:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	Accent:     lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
	Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	Border:     lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	Background: lipgloss.Color("255"),
}

// ThemeMonochrome is a minimal theme using only attributes.
var ThemeMonochrome = Theme{
	Base:   lipgloss.NewStyle(),
	Muted:  lipgloss.NewStyle().Faint(true),
	Accent: lipgloss.NewStyle().Bold(true),
	Error:  lipgloss.NewStyle().Bold(true).Underline(true),
	Border: lipgloss.NewStyle().Faint(true),
}

// ThemeByName looks up a pre-defined theme: "dark", "light" or "mono".
func ThemeByName(name string) (Theme, bool) {
	switch name {
	case "dark":
		return ThemeDark, true
	case "light":
		return ThemeLight, true
	case "mono", "monochrome":
		return ThemeMonochrome, true
	}
	return Theme{}, false
}
