package ui

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskman/internal/config"
	"taskman/internal/notify"
	"taskman/internal/render"
	"taskman/internal/task"
	"taskman/internal/theme"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirm
)

// Storage is everything the UI persists: the task list and the theme preference.
type Storage interface {
	task.Store
	theme.Store
}

// screen is the controller's renderer. It keeps the latest view and the page
// projected from it.
type screen struct {
	now  func() time.Time
	view task.View
	page render.Page
}

func (s *screen) Render(v task.View) {
	s.view = v
	s.refresh()
}

// refresh projects the view again at the current time. Ages and overdue flags move
// with the clock even when no task changes.
func (s *screen) refresh() render.Page {
	s.page = render.Build(s.view, s.now())
	return s.page
}

// clockMsg re-projects the page so relative dates stay current in an idle session.
type clockMsg time.Time

const clockInterval = time.Minute

func tickClock() tea.Cmd {
	return tea.Every(clockInterval, func(t time.Time) tea.Msg { return clockMsg(t) })
}

// pending is a destructive action waiting for y/n.
type pending struct {
	prompt string
	run    func(task.Confirmer)
}

// askLater records the prompt and declines, so the question can be put to the user
// on the next key press.
type askLater struct {
	prompt string
}

func (a *askLater) Confirm(prompt string) bool {
	a.prompt = prompt
	return false
}

type Model struct {
	ctrl    *task.Controller
	theme   *theme.Manager
	notes   *notify.Center
	screen  *screen
	cfg     config.Config
	cursor  int
	mode    mode
	input   textinput.Model
	area    textarea.Model
	form    *formState
	confirm *pending
}

func Run(store Storage, cfg config.Config, log *slog.Logger) error {
	m := New(store, cfg, log, time.Now)
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// New wires the controller, theme and notification center around store.
func New(store Storage, cfg config.Config, log *slog.Logger, now func() time.Time) Model {
	center := notify.NewCenter(time.Duration(cfg.NotifySeconds) * time.Second)
	scr := &screen{now: now}
	ctrl := task.New(store,
		task.WithNotifier(center),
		task.WithRenderer(scr),
		task.WithLogger(log),
		task.WithClock(now),
		task.WithView(task.Filter(cfg.DefaultFilter), task.Category(cfg.DefaultCategory), task.Sort(cfg.DefaultSort)),
	)

	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.Width = 40

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.MaxHeight = 0
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("ctrl+j", "alt+enter"), key.WithHelp("ctrl+j", "new line"))
	ta.SetWidth(40)
	ta.SetHeight(4)

	return Model{
		ctrl:   ctrl,
		theme:  theme.Load(store, log),
		notes:  center,
		screen: scr,
		cfg:    cfg,
		input:  ti,
		area:   ta,
		mode:   modeList,
	}
}

// Init starts the clock and times out any message posted while loading.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickClock(), m.notes.Expire())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case notify.DismissMsg:
		m.notes.Dismiss(msg)
		return m, nil
	case clockMsg:
		m.screen.refresh()
		return m, tickClock()
	case tea.KeyMsg:
		seq := m.notes.Seq()
		next, cmd := m.handleKey(msg)
		if m.notes.Seq() != seq {
			cmd = tea.Batch(cmd, m.notes.Expire())
		}
		return next, cmd
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
		m.area.SetWidth(msg.Width - 10)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeConfirm:
		return m.updateConfirm(key)
	case modeForm:
		return m.updateFormMode(key, msg)
	default:
		return m.updateListMode(key)
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	rows := m.screen.page.Rows
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(rows))
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(rows))
	case m.cfg.Keys.Add:
		return m.startForm(newAddForm())
	case m.cfg.Keys.Toggle:
		if row, ok := m.selected(); ok {
			m.ctrl.ToggleTask(row.ID)
			m.cursor = clampCursor(m.cursor, len(m.screen.page.Rows))
		}
	case m.cfg.Keys.Edit:
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		t, ok := m.ctrl.BeginEdit(row.ID)
		if !ok {
			return m, nil
		}
		return m.startForm(newEditForm(t))
	case m.cfg.Keys.Delete:
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		id := row.ID
		return m.ask(func(c task.Confirmer) { m.ctrl.DeleteTask(id, c) }), nil
	case m.cfg.Keys.ClearCompleted:
		return m.ask(func(c task.Confirmer) { m.ctrl.ClearCompleted(c) }), nil
	case m.cfg.Keys.Filter:
		m.ctrl.SetFilter(cycle(task.Filters(), m.ctrl.Filter()))
		m.cursor = 0
	case m.cfg.Keys.Category:
		m.ctrl.SetCategory(cycle(task.CategoryFilters(), m.ctrl.Category()))
		m.cursor = 0
	case m.cfg.Keys.Sort:
		m.ctrl.SetSort(cycle(task.Sorts(), m.ctrl.Sort()))
		m.cursor = 0
	case m.cfg.Keys.Theme:
		m.theme.Toggle()
	}
	return m, nil
}

// ask runs op once with a recording confirmer. If op wanted confirmation the model
// switches to confirm mode and replays op with the user's answer.
func (m Model) ask(op func(task.Confirmer)) Model {
	rec := &askLater{}
	op(rec)
	if rec.prompt == "" {
		return m
	}
	m.confirm = &pending{prompt: rec.prompt, run: op}
	m.mode = modeConfirm
	return m
}

func (m Model) updateConfirm(key string) (tea.Model, tea.Cmd) {
	if m.confirm == nil {
		m.mode = modeList
		return m, nil
	}
	switch key {
	case "y", "Y", m.cfg.Keys.Confirm:
		m.confirm.run(task.Approve)
	case "n", "N", m.cfg.Keys.Cancel:
		m.confirm.run(task.Decline)
	default:
		return m, nil
	}
	m.confirm = nil
	m.mode = modeList
	m.cursor = clampCursor(m.cursor, len(m.screen.page.Rows))
	return m, nil
}

func (m Model) selected() (render.Row, bool) {
	rows := m.screen.page.Rows
	if len(rows) == 0 {
		return render.Row{}, false
	}
	return rows[clampCursor(m.cursor, len(rows))], true
}

func cycle[T comparable](values []T, current T) T {
	i := slices.Index(values, current)
	return values[(i+1)%len(values)]
}

func (m Model) View() string {
	var b strings.Builder
	st := m.theme.Styles()
	page := m.screen.refresh()

	b.WriteString(st.Title.Render(page.Title))
	b.WriteString("  ")
	b.WriteString(st.Muted.Render(m.theme.Icon() + " " + m.theme.Name()))
	b.WriteString("\n")
	b.WriteString(st.Subtitle.Render(page.Subtitle))
	b.WriteString("\n")
	b.WriteString(st.Muted.Render(fmt.Sprintf("Total %d • Pending %d • Completed %d",
		page.Stats.Total, page.Stats.Pending, page.Stats.Completed)))
	b.WriteString("\n")
	b.WriteString(st.Muted.Render(fmt.Sprintf("filter:%s • category:%s • sort:%s",
		m.ctrl.Filter(), m.ctrl.Category(), m.ctrl.Sort())))
	b.WriteString("\n\n")

	if page.Empty != nil {
		b.WriteString(page.Empty.Heading)
		b.WriteString("\n")
		b.WriteString(st.Muted.Render(page.Empty.Hint))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList(st))
	}

	if m.form != nil {
		b.WriteString("\n")
		b.WriteString(st.Box.Render(m.renderForm()))
		b.WriteString("\n")
		b.WriteString(m.fieldView())
		b.WriteString("\n")
	}
	if m.confirm != nil {
		b.WriteString("\n")
		b.WriteString(m.confirm.prompt + " y/n")
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if n := m.notes.View(); n != "" {
		b.WriteString(n)
		b.WriteString("\n")
	}
	b.WriteString(st.Muted.Render(renderHelp(m.cfg.Keys)))
	return b.String()
}

func (m Model) renderTaskList(st theme.Styles) string {
	var b strings.Builder
	for i, r := range m.screen.page.Rows {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}

		checkbox := "[ ]"
		title := r.Title
		if r.Completed {
			checkbox = "[x]"
			title = st.Completed.Render(title)
		} else if m.cursor == i {
			title = st.Selected.Render(title)
		}

		prio := r.Priority
		if s, ok := st.Priority[r.Priority]; ok {
			prio = s.Render(prio)
		}

		body := fmt.Sprintf("%s %s %s  %s  %s", cursor, checkbox, title, prio, st.Muted.Render(r.Category))
		if r.Due != "" {
			due := "due " + r.Due
			if r.Overdue {
				due = st.Overdue.Render(due + " (Overdue)")
			}
			body += "  " + due
		}
		body += "  " + st.Muted.Render(r.Age)
		if r.HasNotes {
			body += "  " + st.Muted.Render("✎ has notes")
		}
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s edit • %s delete • %s clear done • %s filter • %s category • %s sort • %s theme • %s quit",
		k.Up, k.Down, k.Add, keyName(k.Toggle), k.Edit, k.Delete, k.ClearCompleted, k.Filter, k.Category, k.Sort, k.Theme, k.Quit)
}

func keyName(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
