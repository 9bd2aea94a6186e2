package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/habitgrid/internal/tracker"
)

// channelCelebrator hands celebrations from trackers to the event loop.
// A full channel drops the event; the mark itself is already recorded.
type channelCelebrator struct {
	ch chan tracker.Celebration
}

func newChannelCelebrator(size int) *channelCelebrator {
	return &channelCelebrator{ch: make(chan tracker.Celebration, size)}
}

func (c *channelCelebrator) Celebrate(ev tracker.Celebration) {
	select {
	case c.ch <- ev:
	default:
	}
}

func (c *channelCelebrator) C() <-chan tracker.Celebration {
	return c.ch
}

func waitForCelebrationCmd(ch <-chan tracker.Celebration) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return CelebrationMsg{Celebration: ev}
	}
}

func (m Model) onCelebration(ev tracker.Celebration) (Model, tea.Cmd) {
	m.Celebration.Seq++
	m.Celebration.Active = true
	m.Celebration.Title = ev.Title
	seq := m.Celebration.Seq
	cmds := []tea.Cmd{
		waitForCelebrationCmd(m.celebrator.C()),
		tea.Tick(ConfettiDuration, func(time.Time) tea.Msg { return ConfettiDoneMsg{Seq: seq} }),
	}
	if m.cfg.Bell {
		bell := m.bell
		cmds = append(cmds, func() tea.Msg {
			bell()
			return nil
		})
	}
	return m, tea.Batch(cmds...)
}

func (m Model) onConfettiDone(seq int) Model {
	if seq == m.Celebration.Seq {
		m.Celebration.Active = false
	}
	return m
}
