package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/sandeepkv93/habitgrid/internal/grid"
)

const (
	glyphMarked   = "■"
	glyphUnmarked = "□"
	glyphFuture   = "·"
)

type GridData struct {
	RowLabels []string
	// Cells is indexed [row][visible column].
	Cells [][]grid.CellState
	Color string
}

type HabitCardData struct {
	Title       string
	Color       string
	Selected    bool
	TodayMarked bool
	Streak      int
	NextDue     string
	Grid        GridData
	// TodayOffGrid notes that the grid has no cell for today yet.
	TodayOffGrid bool
	// Width clips every line of the card; zero leaves lines untouched.
	Width int
}

type HabitsPanelData struct {
	Cards []HabitCardData
	Today string
}

type DetailData struct {
	Title        string
	Schedule     string
	Reminder     string
	Stats        string
	MarkdownView string
}

type MonthDayData struct {
	Key        string
	Label      string
	InMonth    bool
	Selectable bool
	IsToday    bool
	Cursor     bool
}

type MonthPickerData struct {
	HabitTitle string
	Heading    string
	Weeks      [][]MonthDayData
	UpperBound string
	// Decorations maps a marked date key to the color it is drawn in.
	Decorations map[string]string
}

type FormData struct {
	Heading      string
	TitleView    string
	DescView     string
	ReminderView string
	Color        string
	Days         []FormDay
	Focus        string
	Missing      []string
	CanSave      bool
	Preview      []string
	ErrorText    string
}

type FormDay struct {
	Key    string
	Label  string
	Active bool
}

type ConfirmData struct {
	Title string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderHabitsPanel(data HabitsPanelData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("habits") + dimStyle.Render("  today "+data.Today) + "\n")
	if len(data.Cards) == 0 {
		b.WriteString("\n(no habits yet, press [a] to add one)")
		return b.String()
	}
	for _, c := range data.Cards {
		b.WriteString("\n" + RenderHabitCard(c) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderHabitCard(data HabitCardData) string {
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(data.Color)).Render("●")
	cursor := " "
	if data.Selected {
		cursor = ">"
	}
	check := "[ ]"
	if data.TodayMarked {
		check = lipgloss.NewStyle().Foreground(lipgloss.Color(data.Color)).Render("[x]")
	}
	head := fmt.Sprintf("%s %s %s %s", cursor, check, swatch, titleStyle.Render(data.Title))
	metaText := fmt.Sprintf("    streak %d | next %s", data.Streak, data.NextDue)
	if data.TodayOffGrid {
		metaText += " | today's cell appears tomorrow"
	}
	meta := dimStyle.Render(metaText)
	return clipLines(head+"\n"+meta+"\n"+RenderGrid(data.Grid), data.Width)
}

func clipLines(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if xansi.StringWidth(line) > width {
			lines[i] = xansi.Cut(line, 0, width)
		}
	}
	return strings.Join(lines, "\n")
}

// RenderGrid draws the 7-row heatmap, one glyph per day.
func RenderGrid(data GridData) string {
	marked := lipgloss.NewStyle().Foreground(lipgloss.Color(data.Color))
	lines := make([]string, 0, len(data.Cells))
	for row, cells := range data.Cells {
		var b strings.Builder
		label := " "
		if row < len(data.RowLabels) {
			label = data.RowLabels[row]
		}
		b.WriteString("    " + dimStyle.Render(label) + " ")
		for _, state := range cells {
			switch state {
			case grid.CellMarked:
				b.WriteString(marked.Render(glyphMarked))
			case grid.CellFuture:
				b.WriteString(dimStyle.Render(glyphFuture))
			case grid.CellOutside:
				b.WriteString(" ")
			default:
				b.WriteString(dimStyle.Render(glyphUnmarked))
			}
			b.WriteString(" ")
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	if len(lines) == 0 {
		return dimStyle.Render("    (tracking starts soon)")
	}
	return strings.Join(lines, "\n")
}

func RenderDetail(data DetailData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(data.Title) + "\n")
	b.WriteString(fmt.Sprintf("days: %s\n", data.Schedule))
	b.WriteString(fmt.Sprintf("reminder: %s\n", data.Reminder))
	b.WriteString(data.Stats + "\n")
	if data.MarkdownView != "" {
		b.WriteString("\n" + data.MarkdownView)
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderMonthPicker(data MonthPickerData) string {
	cursor := lipgloss.NewStyle().Reverse(true)
	today := lipgloss.NewStyle().Underline(true).Bold(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render(data.HabitTitle) + "\n")
	b.WriteString(fmt.Sprintf("%s  (up to %s)\n", data.Heading, data.UpperBound))
	b.WriteString(dimStyle.Render("Mo Tu We Th Fr Sa Su") + "\n")
	for _, week := range data.Weeks {
		cells := make([]string, 0, len(week))
		for _, d := range week {
			label := fmt.Sprintf("%2s", d.Label)
			style := lipgloss.NewStyle()
			color, marked := data.Decorations[d.Key]
			switch {
			case !d.InMonth || !d.Selectable:
				style = dimStyle
			case marked:
				style = style.Background(lipgloss.Color(color)).Foreground(lipgloss.Color("0"))
			case d.IsToday:
				style = today
			}
			if d.Cursor {
				style = style.Inherit(cursor).Reverse(true)
			}
			cells = append(cells, style.Render(label))
		}
		b.WriteString(strings.Join(cells, " ") + "\n")
	}
	b.WriteString(dimStyle.Render("[hjkl] move [ / ] month [enter] toggle [esc] close"))
	return b.String()
}

func RenderForm(data FormData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(data.Heading) + "\n")
	b.WriteString(focusMark(data.Focus, "title") + data.TitleView + "\n")
	b.WriteString(focusMark(data.Focus, "description") + data.DescView + "\n")
	b.WriteString(focusMark(data.Focus, "reminder") + data.ReminderView + "\n")

	color := lipgloss.NewStyle().Foreground(lipgloss.Color(data.Color)).Render("●● " + data.Color)
	if data.Color == "" {
		color = dimStyle.Render("(none)")
	}
	b.WriteString(focusMark(data.Focus, "color") + "color: " + color + dimStyle.Render("  [←/→]") + "\n")

	days := make([]string, 0, len(data.Days))
	for _, d := range data.Days {
		label := d.Key + ":" + d.Label
		if d.Active {
			days = append(days, titleStyle.Render(strings.ToUpper(label)))
		} else {
			days = append(days, dimStyle.Render(label))
		}
	}
	b.WriteString(focusMark(data.Focus, "days") + "days: " + strings.Join(days, " ") + "\n")

	if len(data.Preview) > 0 {
		b.WriteString("next: " + strings.Join(data.Preview, ", ") + "\n")
	}
	if data.ErrorText != "" {
		b.WriteString(errorStyle.Render("error: "+data.ErrorText) + "\n")
	}
	if data.CanSave {
		b.WriteString(statusStyle.Render("[ctrl+s] save") + dimStyle.Render("  [tab] field [esc] cancel"))
	} else {
		b.WriteString(dimStyle.Render("save disabled, missing: "+strings.Join(data.Missing, ", ")) + "\n")
		b.WriteString(dimStyle.Render("[tab] field [esc] cancel"))
	}
	return b.String()
}

func focusMark(focus, field string) string {
	if focus == field {
		return "> "
	}
	return "  "
}

func RenderConfirm(data ConfirmData) string {
	return fmt.Sprintf("%s\n\nDelete %q?\nIts history stays on disk.\n\n[y] delete  [n/esc] keep",
		titleStyle.Render("confirm delete"), data.Title)
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command:\n" + inputView + "\n" + dimStyle.Render("add <title> | mark <today|yesterday|YYYY-MM-DD> | goto <YYYY-MM> | show <title> | export <path>")
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

var confettiColors = []string{"#ff69b4", "#ffd700", "#32cd32", "#00ced1", "#9370db", "#ff4500"}

// RenderConfetti draws a deterministic confetti strip for frame seq.
func RenderConfetti(seq int, title string, width int) string {
	if width <= 0 {
		width = 60
	}
	pieces := []string{"*", "+", "o", "~", "x", "•"}
	var top, bottom strings.Builder
	for i := 0; i < width/2; i++ {
		n := (i*7 + seq*3) % len(pieces)
		c := confettiColors[(i+seq)%len(confettiColors)]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(c))
		top.WriteString(style.Render(pieces[n]) + " ")
		bottom.WriteString(style.Render(pieces[(n+3)%len(pieces)]) + " ")
	}
	msg := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd700")).Render(fmt.Sprintf("  %s done for today!", title))
	return strings.TrimRight(top.String(), " ") + "\n" + msg + "\n" + strings.TrimRight(bottom.String(), " ")
}
