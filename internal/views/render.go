package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header     string
	Banner     string
	LeftPane   string
	RightPane  string
	Overlay    string
	StatusLine string
	IsError    bool
	Footer     string
	Width      int
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	overlayStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("13")).Padding(0, 1)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

// PaneWidths splits the terminal between the habit list and the side pane.
func PaneWidths(total int) (left, right int) {
	if total <= 0 {
		total = 120
	}
	left = total * 3 / 5
	if left < 40 {
		left = 40
	}
	right = total - left - 4
	if right < 30 {
		right = 30
	}
	return left, right
}

func RenderApp(data AppData) string {
	leftW, rightW := PaneWidths(data.Width)
	left := panelStyle.Width(leftW).Render(data.LeftPane)
	body := left
	if data.Overlay != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, overlayStyle.Width(rightW).Render(data.Overlay))
	} else if data.RightPane != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, panelStyle.Width(rightW).Render(data.RightPane))
	}

	lines := []string{headerStyle.Render(data.Header)}
	if data.Banner != "" {
		lines = append(lines, data.Banner)
	}
	lines = append(lines, body)
	if data.StatusLine != "" {
		if data.IsError {
			lines = append(lines, errorStyle.Render(data.StatusLine))
		} else {
			lines = append(lines, statusStyle.Render(data.StatusLine))
		}
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(width))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
