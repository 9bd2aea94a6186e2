package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/sandeepkv93/habitgrid/internal/grid"
	"github.com/sandeepkv93/habitgrid/internal/model"
	"github.com/sandeepkv93/habitgrid/internal/tracker"
)

// HeatmapWeeks is how many trailing grid columns each habit section draws.
const HeatmapWeeks = 12

var ErrNoHabits = errors.New("report: no habits to export")

// WritePDF renders one section per habit: details, stats, the trailing
// heatmap and this month's marked dates.
func WritePDF(w io.Writer, trackers []*tracker.Tracker, today time.Time) error {
	pdf, err := render(trackers, today)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// render lays out the document. User text goes through a cp1252 translator
// because the core fonts are not UTF-8.
func render(trackers []*tracker.Tracker, today time.Time) (*fpdf.Fpdf, error) {
	if len(trackers) == 0 {
		return nil, ErrNoHabits
	}
	today = grid.Day(today)

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Habit report", true)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Habit Report: %s", grid.Key(today)))
	pdf.Ln(14)

	for _, t := range trackers {
		writeSection(pdf, tr, t, today)
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdf, nil
}

// WriteFile writes the report to path, creating parent directories.
func WriteFile(path string, trackers []*tracker.Tracker, today time.Time) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(abs)
	if err != nil {
		return "", err
	}
	if err := WritePDF(f, trackers, today); err != nil {
		_ = f.Close()
		_ = os.Remove(abs)
		return "", err
	}
	return abs, f.Close()
}

func writeSection(pdf *fpdf.Fpdf, tr func(string) string, t *tracker.Tracker, today time.Time) {
	h := t.Habit()
	st := t.Stats()

	r, g, b := rgb(h.Color)
	pdf.SetFillColor(r, g, b)
	pdf.Rect(pdf.GetX(), pdf.GetY()+2, 4, 4, "F")
	pdf.SetX(pdf.GetX() + 6)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, tr(h.Title))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 11)
	if h.Description != "" {
		pdf.MultiCell(0, 6, tr(h.Description), "", "", false)
	}
	reminder := "-"
	if h.Reminder != nil {
		reminder = h.Reminder.String()
	}
	pdf.Cell(0, 6, fmt.Sprintf("Schedule: %s at %s", h.Days, reminder))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Current streak: %d   Longest: %d   Total: %d   Rate: %.0f%%",
		st.CurrentStreak, st.LongestStreak, st.Total, st.Rate*100))
	pdf.Ln(8)

	drawHeatmap(pdf, t, h.Color)

	page := t.Month(today.Year(), today.Month())
	marked := make([]string, 0, 31)
	for _, week := range page.Weeks {
		for _, c := range week {
			if c.InMonth && c.Marked {
				marked = append(marked, strconv.Itoa(c.Date.Day()))
			}
		}
	}
	summary := "none"
	if len(marked) > 0 {
		summary = strings.Join(marked, ", ")
	}
	pdf.MultiCell(0, 6, fmt.Sprintf("%s %d: %s", today.Month(), today.Year(), summary), "", "", false)
	pdf.Ln(6)
}

func drawHeatmap(pdf *fpdf.Fpdf, t *tracker.Tracker, color model.Color) {
	const cell = 4.0
	const gap = 1.0
	g := t.Grid()
	if g.Columns == 0 {
		return
	}
	first := g.FirstVisible(HeatmapWeeks)
	x0, y0 := pdf.GetX(), pdf.GetY()
	r, gg, b := rgb(color)
	for row := 0; row < grid.Rows; row++ {
		for col := first; col < g.Columns; col++ {
			x := x0 + float64(col-first)*(cell+gap)
			y := y0 + float64(row)*(cell+gap)
			switch g.State(row, col, t) {
			case grid.CellMarked:
				pdf.SetFillColor(r, gg, b)
			case grid.CellFuture:
				pdf.SetFillColor(250, 250, 250)
			default:
				pdf.SetFillColor(225, 225, 225)
			}
			pdf.Rect(x, y, cell, cell, "F")
		}
	}
	pdf.SetY(y0 + float64(grid.Rows)*(cell+gap) + 2)
}

func rgb(c model.Color) (int, int, int) {
	hex := strings.TrimPrefix(string(c), "#")
	if len(hex) != 6 {
		return 128, 128, 128
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 128, 128, 128
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
