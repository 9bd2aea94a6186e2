package views

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ApplyColorProfile picks the lipgloss color profile for the TUI. NO_COLOR
// wins; otherwise a 256color or truecolor terminal is trusted over the
// detector.
func ApplyColorProfile() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))
	switch {
	case profile == termenv.Ascii:
	case strings.Contains(colorterm, "truecolor"), strings.Contains(colorterm, "24bit"):
		profile = termenv.TrueColor
	case profile == termenv.ANSI && strings.Contains(strings.ToLower(os.Getenv("TERM")), "256color"):
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}
