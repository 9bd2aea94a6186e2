package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/habitgrid/internal/grid"
	"github.com/sandeepkv93/habitgrid/internal/persist"
)

func waitForPersistCmd(ch <-chan persist.Result) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return nil
		}
		return PersistResultMsg{Result: res}
	}
}

func (m Model) onPersistResult(res persist.Result) (Model, tea.Cmd) {
	if res.Err != nil {
		m.logger.Warn("save marks failed", zap.String("key", res.Key), zap.Error(res.Err))
		m.Status = StatusBar{Text: fmt.Sprintf("save failed for %s: %v", res.Key, res.Err), IsError: true}
	}
	if m.writer == nil {
		return m, nil
	}
	return m, waitForPersistCmd(m.writer.C())
}

func minuteTickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg { return MinuteTickMsg{At: t} })
}

// onMinuteTick notices the date rolling over. The grid itself is rebuilt
// from the clock on every render.
func (m Model) onMinuteTick() (Model, tea.Cmd) {
	day := grid.Key(m.today())
	if day != m.LastDay {
		m.LastDay = day
		m.Celebration.Active = false
		m.Status = StatusBar{Text: "new day: " + day}
	}
	return m, minuteTickCmd()
}
