package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"taskman/internal/notify"
	"taskman/internal/render"
	"taskman/internal/task"
)

const (
	fieldTitle = iota
	fieldCategory
	fieldPriority
	fieldDue
	fieldNotes
)

var fieldLabels = []string{"title", "category", "priority", "due date (YYYY-MM-DD)", "notes"}

// formState holds the raw field values. shown is what each widget displayed when the
// field was loaded; the widgets fold tabs and line breaks, so a field the user never
// touched keeps its original value.
type formState struct {
	taskID string // empty when adding
	values []string
	shown  []string
	index  int
}

func newForm(id string, values ...string) *formState {
	return &formState{taskID: id, values: values, shown: make([]string, len(values))}
}

func newAddForm() *formState {
	return newForm("", "", string(task.CategoryWork), string(task.PriorityMedium), "")
}

func newEditForm(t task.Task) *formState {
	due := ""
	if t.DueDate != nil {
		due = t.DueDate.String()
	}
	return newForm(t.ID, t.Title, string(t.Category), string(t.Priority), due, t.Notes)
}

func (f *formState) editing() bool { return f.taskID != "" }

func (f *formState) label() string { return fieldLabels[f.index] }

func (f *formState) last() bool { return f.index >= len(f.values)-1 }

func (f *formState) onNotes() bool { return f.index == fieldNotes }

func (f *formState) move(delta int) {
	f.index = wrapIndex(f.index+delta, len(f.values))
}

func (f *formState) draft() (task.Draft, error) {
	due, err := task.ParseDate(f.values[fieldDue])
	if err != nil {
		return task.Draft{}, fmt.Errorf("due date invalid: %w", err)
	}
	d := task.Draft{
		Title:    f.values[fieldTitle],
		Category: task.Category(strings.TrimSpace(f.values[fieldCategory])),
		Priority: task.Priority(strings.TrimSpace(f.values[fieldPriority])),
		DueDate:  due,
	}
	if len(f.values) > fieldNotes {
		d.Notes = f.values[fieldNotes]
	}
	return d, nil
}

func (m Model) startForm(f *formState) (tea.Model, tea.Cmd) {
	m.form = f
	m.mode = modeForm
	cmd := m.loadField()
	return m, cmd
}

// loadField puts the active field into its widget: notes go to the textarea,
// everything else to the single-line input.
func (m *Model) loadField() tea.Cmd {
	f := m.form
	v := f.values[f.index]
	if f.onNotes() {
		m.input.Blur()
		m.area.Placeholder = f.label()
		m.area.SetValue(v)
		f.shown[f.index] = m.area.Value()
		return m.area.Focus()
	}
	m.area.Blur()
	m.input.Placeholder = f.label()
	m.input.SetValue(v)
	m.input.CursorEnd()
	f.shown[f.index] = m.input.Value()
	return m.input.Focus()
}

func (m Model) fieldValue() string {
	if m.form.onNotes() {
		return m.area.Value()
	}
	return m.input.Value()
}

// storeField writes the widget back only when the user changed what it showed.
func (m *Model) storeField() {
	f := m.form
	if v := m.fieldValue(); v != f.shown[f.index] {
		f.values[f.index] = v
	}
}

func (m *Model) closeForm() {
	m.form = nil
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
	m.area.Reset()
	m.area.Blur()
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeList
		return m, nil
	}
	if m.form.onNotes() && (key == "up" || key == "down") {
		return m.updateField(msg)
	}
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		if m.form.editing() {
			m.ctrl.CancelEdit()
		}
		m.closeForm()
		return m, nil
	case m.cfg.Keys.NextField, "down":
		m.storeField()
		m.form.move(1)
		cmd := m.loadField()
		return m, cmd
	case m.cfg.Keys.PrevField, "up":
		m.storeField()
		m.form.move(-1)
		cmd := m.loadField()
		return m, cmd
	case m.cfg.Keys.Confirm, "enter":
		m.storeField()
		if !m.form.last() {
			m.form.move(1)
			cmd := m.loadField()
			return m, cmd
		}
		return m.submitForm()
	default:
		return m.updateField(msg)
	}
}

func (m Model) updateField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.form.onNotes() {
		m.area, cmd = m.area.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// submitForm hands the draft to the controller. On a rejected draft the form stays open;
// the controller has already posted the reason.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	d, err := m.form.draft()
	if err != nil {
		m.notes.Notify(err.Error(), notify.Error)
		return m, nil
	}
	if m.form.editing() {
		err = m.ctrl.EditTask(m.form.taskID, d)
	} else {
		_, err = m.ctrl.AddTask(d)
	}
	if err != nil {
		return m, nil
	}
	m.closeForm()
	m.cursor = clampCursor(m.cursor, len(m.screen.page.Rows))
	return m, nil
}

func (m Model) renderForm() string {
	f := m.form
	var b strings.Builder
	heading := "New task"
	if f.editing() {
		heading = "Edit task"
	}
	b.WriteString(heading + " (tab to move, enter to advance/save, ctrl+j new line in notes, esc to cancel)\n")
	for i, v := range f.values {
		prefix := " "
		if i == f.index {
			prefix = ">"
			v = m.fieldValue()
		}
		b.WriteString(fmt.Sprintf("%s %-22s : %s\n", prefix, fieldLabels[i], summarize(v)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// fieldView is the widget for the active field.
func (m Model) fieldView() string {
	if m.form.onNotes() {
		return m.area.View()
	}
	return m.input.View()
}

// summarize shows the first line of v and how many more follow.
func summarize(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	first, rest, multi := strings.Cut(strings.TrimRight(v, "\n"), "\n")
	first = render.Sanitize(first)
	if !multi {
		return first
	}
	return fmt.Sprintf("%s (+%d lines)", first, strings.Count(rest, "\n")+1)
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
