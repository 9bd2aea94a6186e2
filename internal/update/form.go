package update

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/habitgrid/internal/habits"
	"github.com/sandeepkv93/habitgrid/internal/model"
	"github.com/sandeepkv93/habitgrid/internal/views"
)

type FormField string

const (
	FieldTitle       FormField = "title"
	FieldDescription FormField = "description"
	FieldReminder    FormField = "reminder"
	FieldColor       FormField = "color"
	FieldDays        FormField = "days"
)

var formOrder = []FormField{FieldTitle, FieldDescription, FieldReminder, FieldColor, FieldDays}

// FormState backs the add and edit modal. Draft is the single source of the
// save condition; the text inputs feed it on every keystroke.
type FormState struct {
	Active    bool
	EditingID string
	Draft     model.Draft
	Focus     FormField
	Err       string

	titleInput    textinput.Model
	descInput     textinput.Model
	reminderInput textinput.Model
}

func newFormState(d model.Draft, editingID string) FormState {
	f := FormState{Active: true, EditingID: editingID, Draft: d, Focus: FieldTitle}
	f.titleInput = newFormInput("title: ", "Morning run", 64)
	f.descInput = newFormInput("notes: ", "markdown allowed", 256)
	f.reminderInput = newFormInput("time:  ", "HH:MM", 5)
	f.titleInput.SetValue(d.Title)
	f.descInput.SetValue(d.Description)
	if d.Reminder != nil {
		f.reminderInput.SetValue(d.Reminder.String())
	}
	f.titleInput.Focus()
	return f
}

func newFormInput(prompt, placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 32
	return in
}

func (m *Model) openAddForm(title string) {
	d := model.Draft{Title: title, Color: model.Palette[m.store.Len()%len(model.Palette)]}
	m.Form = newFormState(d, "")
	m.Status = StatusBar{Text: "new habit"}
}

func (m *Model) openEditForm() {
	h, ok := m.selectedHabit()
	if !ok {
		m.Status = StatusBar{Text: "no habit selected", IsError: true}
		return
	}
	m.Form = newFormState(model.DraftOf(h), h.ID)
	m.Status = StatusBar{Text: "editing " + h.Title}
}

func (m Model) handleFormKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Form = FormState{}
		m.Status = StatusBar{Text: "form closed"}
		return m
	case "tab", "down":
		m.Form.moveFocus(1)
		return m
	case "shift+tab", "up":
		m.Form.moveFocus(-1)
		return m
	case "ctrl+s", "enter":
		return m.saveForm()
	}

	switch m.Form.Focus {
	case FieldColor:
		switch msg.String() {
		case "left", "h":
			m.Form.Draft.Color = m.Form.Draft.Color.Next(-1)
		case "right", "l", " ":
			m.Form.Draft.Color = m.Form.Draft.Color.Next(1)
		}
	case FieldDays:
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
			r := msg.Runes[0]
			if r >= '1' && r <= '7' {
				day := model.WeekOrder[r-'1']
				m.Form.Draft.Days = m.Form.Draft.Days.Toggle(day)
			}
		}
	default:
		m.Form.updateInput(msg)
	}
	return m
}

func (f *FormState) moveFocus(delta int) {
	idx := 0
	for i, field := range formOrder {
		if field == f.Focus {
			idx = i
		}
	}
	n := len(formOrder)
	f.Focus = formOrder[((idx+delta)%n+n)%n]
	f.titleInput.Blur()
	f.descInput.Blur()
	f.reminderInput.Blur()
	switch f.Focus {
	case FieldTitle:
		f.titleInput.Focus()
	case FieldDescription:
		f.descInput.Focus()
	case FieldReminder:
		f.reminderInput.Focus()
	}
}

func (f *FormState) updateInput(msg tea.KeyMsg) {
	input := f.focusedInput()
	if input == nil {
		return
	}
	if msg.Type == tea.KeyRunes {
		input.SetValue(input.Value() + string(msg.Runes))
	} else {
		*input, _ = input.Update(msg)
	}
	f.syncDraft()
}

func (f *FormState) focusedInput() *textinput.Model {
	switch f.Focus {
	case FieldTitle:
		return &f.titleInput
	case FieldDescription:
		return &f.descInput
	case FieldReminder:
		return &f.reminderInput
	}
	return nil
}

func (f *FormState) syncDraft() {
	f.Draft.Title = f.titleInput.Value()
	f.Draft.Description = f.descInput.Value()
	f.Draft.Reminder = nil
	f.Err = ""
	raw := strings.TrimSpace(f.reminderInput.Value())
	if raw == "" {
		return
	}
	at, err := model.ParseTimeOfDay(raw)
	if err != nil {
		if len(raw) >= 4 {
			f.Err = err.Error()
		}
		return
	}
	f.Draft.Reminder = &at
}

func (m Model) saveForm() Model {
	if !m.Form.Draft.CanSave() {
		m.Status = StatusBar{Text: "missing: " + strings.Join(m.Form.Draft.Missing(), ", "), IsError: true}
		return m
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var h model.Habit
	var err error
	verb := "added"
	if m.Form.EditingID == "" {
		h, err = m.store.Create(ctx, m.Form.Draft)
	} else {
		h, err = m.store.Update(ctx, m.Form.EditingID, m.Form.Draft)
		verb = "updated"
	}
	if err != nil && !errors.Is(err, habits.ErrWriteThrough) {
		m.Form.Err = err.Error()
		return m
	}
	m.trackerFor(h)
	if m.Form.EditingID == "" {
		m.Cursor = m.store.Len() - 1
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%s %s", verb, h.Title)}
	if err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("%s %s for this session only: %v", verb, h.Title, err), IsError: true}
	}
	m.Form = FormState{}
	return m
}

func (m Model) renderForm() string {
	f := m.Form
	heading := "new habit"
	if f.EditingID != "" {
		heading = "edit habit"
	}
	days := make([]views.FormDay, 0, len(model.WeekOrder))
	for i, d := range model.WeekOrder {
		days = append(days, views.FormDay{
			Key:    fmt.Sprint(i + 1),
			Label:  model.ShortWeekday(d),
			Active: f.Draft.Days.Has(d),
		})
	}
	var preview []string
	if f.Draft.Days.Len() > 0 {
		sched := model.Schedule{Days: f.Draft.Days, At: f.Draft.Reminder}
		if next, err := sched.Preview(m.clock.Now(), 3); err == nil {
			for _, t := range next {
				preview = append(preview, t.Format("Mon Jan 2 15:04"))
			}
		}
	}
	return views.RenderForm(views.FormData{
		Heading:      heading,
		TitleView:    f.titleInput.View(),
		DescView:     f.descInput.View(),
		ReminderView: f.reminderInput.View(),
		Color:        string(f.Draft.Color),
		Days:         days,
		Focus:        string(f.Focus),
		Missing:      f.Draft.Missing(),
		CanSave:      f.Draft.CanSave(),
		Preview:      preview,
		ErrorText:    f.Err,
	})
}
