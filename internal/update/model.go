package update

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"go.uber.org/zap"

	"github.com/sandeepkv93/habitgrid/internal/config"
	"github.com/sandeepkv93/habitgrid/internal/grid"
	"github.com/sandeepkv93/habitgrid/internal/habits"
	"github.com/sandeepkv93/habitgrid/internal/model"
	"github.com/sandeepkv93/habitgrid/internal/persist"
	"github.com/sandeepkv93/habitgrid/internal/tracker"
)

type View string

const (
	ViewHabits   View = "Habits"
	ViewCalendar View = "Calendar"
)

// ConfettiDuration is how long the celebration banner stays up.
const ConfettiDuration = 3 * time.Second

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Toggle   string
	Calendar string
	Add      string
	Edit     string
	Delete   string
	Palette  string
	Help     string
	Quit     string
}

// Deps wires the model to storage. Writer may be nil, in which case
// Persister is used directly.
type Deps struct {
	Config    config.RuntimeConfig
	Clock     grid.Clock
	Store     *habits.Store
	Reader    tracker.Reader
	Writer    *persist.Writer
	Persister tracker.Persister
	Logger    *zap.Logger
	Bell      func()
}

type Model struct {
	CurrentView View
	Cursor      int
	Calendar    CalendarState
	Form        FormState
	Confirm     ConfirmState
	Palette     CommandPaletteState
	Celebration CelebrationState
	HelpVisible bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error
	Width       int
	LastDay     string

	cfg          config.RuntimeConfig
	clock        grid.Clock
	epoch        time.Time
	store        *habits.Store
	trackers     map[string]*tracker.Tracker
	reader       tracker.Reader
	writer       *persist.Writer
	persister    tracker.Persister
	celebrator   *channelCelebrator
	logger       *zap.Logger
	bell         func()
	commandInput textinput.Model
	helpModel    help.Model
	detailView   viewport.Model
}

type CalendarState struct {
	Year   int
	Month  time.Month
	Cursor time.Time
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type ConfirmState struct {
	Active  bool
	HabitID string
	Title   string
}

type CelebrationState struct {
	Active bool
	Title  string
	Seq    int
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type CelebrationMsg struct {
	Celebration tracker.Celebration
}

type ConfettiDoneMsg struct {
	Seq int
}

type PersistResultMsg struct {
	Result persist.Result
}

type MinuteTickMsg struct {
	At time.Time
}

// NewModel builds the model. Call Load before running the program so every
// habit's marks are in memory before the first render.
func NewModel(deps Deps) Model {
	cfg := deps.Config
	if cfg.Epoch == "" {
		cfg = config.DefaultRuntimeConfig()
	}
	m := Model{
		CurrentView: ViewHabits,
		Keys: GlobalKeyMap{
			Toggle:   " ",
			Calendar: "c",
			Add:      "a",
			Edit:     "e",
			Delete:   "x",
			Palette:  "/",
			Help:     "?",
			Quit:     "q",
		},
		cfg:        cfg,
		clock:      deps.Clock,
		epoch:      cfg.EpochDate(),
		store:      deps.Store,
		trackers:   make(map[string]*tracker.Tracker),
		reader:     deps.Reader,
		writer:     deps.Writer,
		persister:  deps.Persister,
		celebrator: newChannelCelebrator(16),
		logger:     deps.Logger,
		bell:       deps.Bell,
	}
	if m.clock == nil {
		m.clock = grid.SystemClock{}
	}
	if m.store == nil {
		m.store = habits.NewStore(habits.Options{Clock: m.clock, Logger: m.logger})
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.writer != nil {
		m.persister = m.writer
	}
	if m.bell == nil {
		m.bell = func() { fmt.Fprint(os.Stderr, "\a") }
	}
	m.LastDay = grid.Key(m.today())
	m.initBubbleComponents()
	return m
}

// Load reads the habit list and every habit's marks. Failures are logged
// and surfaced in the status bar; the model stays usable.
func (m *Model) Load(ctx context.Context) error {
	var firstErr error
	if err := m.store.Load(ctx); err != nil {
		firstErr = err
	}
	for _, h := range m.store.List() {
		if _, err := m.loadTracker(ctx, h); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		m.Status = StatusBar{Text: firstErr.Error(), IsError: true}
	}
	return firstErr
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 40

	m.helpModel = help.New()
	m.helpModel.ShowAll = true

	m.detailView = viewport.New(40, 10)
}

func (m Model) today() time.Time {
	return grid.Today(m.clock)
}

func (m *Model) loadTracker(ctx context.Context, h model.Habit) (*tracker.Tracker, error) {
	tr := tracker.New(h, tracker.Options{
		Epoch:      m.epoch,
		Clock:      m.clock,
		Reader:     m.reader,
		Persister:  m.persister,
		Celebrator: m.celebrator,
		Logger:     m.logger,
	})
	m.trackers[h.ID] = tr
	return tr, tr.Load(ctx)
}

// trackerFor returns the tracker of h, loading it on first use.
func (m *Model) trackerFor(h model.Habit) *tracker.Tracker {
	if tr, ok := m.trackers[h.ID]; ok {
		if err := tr.SetHabit(h); err != nil {
			m.logger.Warn("tracker habit mismatch", zap.String("habit_id", h.ID), zap.Error(err))
		}
		return tr
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tr, err := m.loadTracker(ctx, h)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	}
	return tr
}

func (m Model) selectedHabit() (model.Habit, bool) {
	list := m.store.List()
	if len(list) == 0 || m.Cursor < 0 || m.Cursor >= len(list) {
		return model.Habit{}, false
	}
	return list[m.Cursor], true
}

func (m *Model) clampCursor() {
	n := m.store.Len()
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// Trackers returns the trackers of all listed habits in list order.
func (m *Model) Trackers() []*tracker.Tracker {
	list := m.store.List()
	out := make([]*tracker.Tracker, 0, len(list))
	for _, h := range list {
		out = append(out, m.trackerFor(h))
	}
	return out
}
