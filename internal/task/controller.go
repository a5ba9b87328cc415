package task

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"taskman/internal/notify"
)

// Store is the persistence contract the controller depends on.
type Store interface {
	LoadTasks() ([]Task, error)
	SaveTasks([]Task) error
}

type Notifier interface {
	Notify(message string, kind notify.Kind)
}

// Renderer receives a fresh view after every change.
type Renderer interface {
	Render(View)
}

// Confirmer gates destructive operations.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

var (
	Approve ConfirmFunc = func(string) bool { return true }
	Decline ConfirmFunc = func(string) bool { return false }
)

const (
	PromptDelete         = "Are you sure you want to delete this task?"
	promptClearCompleted = "Are you sure you want to delete %d completed task(s)?"
)

type Option func(*Controller)

func WithNotifier(n Notifier) Option { return func(c *Controller) { c.notifier = n } }

func WithRenderer(r Renderer) Option { return func(c *Controller) { c.renderer = r } }

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

func WithIDs(next func() string) Option { return func(c *Controller) { c.newID = next } }

// WithView sets the initial view parameters. Invalid values keep the defaults.
func WithView(f Filter, cat Category, s Sort) Option {
	return func(c *Controller) {
		if v, err := ParseFilter(string(f)); err == nil {
			c.filter = v
		}
		if v, err := ParseCategoryFilter(string(cat)); err == nil {
			c.category = v
		}
		if v, err := ParseSort(string(s)); err == nil {
			c.sort = v
		}
	}
}

// Controller owns the task collection and the view parameters.
// It is not safe for concurrent use; callers drive it from a single event loop.
type Controller struct {
	store    Store
	notifier Notifier
	renderer Renderer
	log      *slog.Logger
	now      func() time.Time
	newID    func() string

	tasks    []Task
	filter   Filter
	category Category
	sort     Sort
	editing  string
	readOnly bool
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, notify.Kind) {}

type nopRenderer struct{}

func (nopRenderer) Render(View) {}

// New loads the saved tasks. If the store cannot be read cleanly the controller keeps
// whatever records the store recovered and stops saving, so the next write cannot
// overwrite data it never loaded.
func New(store Store, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		notifier: nopNotifier{},
		renderer: nopRenderer{},
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		newID:    uuid.NewString,
		filter:   FilterAll,
		category: CategoryAll,
		sort:     SortNewest,
	}
	for _, opt := range opts {
		opt(c)
	}
	tasks, err := store.LoadTasks()
	if err != nil {
		c.log.Error("load tasks; saving disabled for this session", "err", err, "recovered", len(tasks))
		c.readOnly = true
		c.notifier.Notify("Saved tasks could not be read; changes will not be saved", notify.Error)
	}
	c.tasks = dedupe(tasks)
	c.log.Info("tasks loaded", "count", len(c.tasks))
	c.render()
	return c
}

// dedupe drops later records that repeat an id so lookups stay unambiguous.
func dedupe(tasks []Task) []Task {
	seen := make(map[string]struct{}, len(tasks))
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.ID]; ok || t.ID == "" {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (c *Controller) AddTask(d Draft) (Task, error) {
	d, err := d.normalize()
	if err != nil {
		c.reject(err, "Please enter a task title")
		return Task{}, err
	}
	t := Task{
		ID:        c.newID(),
		Title:     d.Title,
		Category:  d.Category,
		Priority:  d.Priority,
		DueDate:   d.DueDate,
		Notes:     d.Notes,
		CreatedAt: c.now().UTC().Truncate(time.Millisecond),
	}
	c.tasks = slices.Insert(c.tasks, 0, t)
	c.commit()
	c.notifier.Notify("Task added successfully!", notify.Success)
	return t.clone(), nil
}

func (c *Controller) ToggleTask(id string) {
	i := c.index(id)
	if i < 0 {
		return
	}
	c.tasks[i].Completed = !c.tasks[i].Completed
	c.commit()
}

// BeginEdit opens an edit session on id and returns a copy of the task.
func (c *Controller) BeginEdit(id string) (Task, bool) {
	i := c.index(id)
	if i < 0 {
		return Task{}, false
	}
	c.editing = id
	return c.tasks[i].clone(), true
}

func (c *Controller) CancelEdit() { c.editing = "" }

// Editing returns the id under edit, or "".
func (c *Controller) Editing() string { return c.editing }

func (c *Controller) EditTask(id string, d Draft) error {
	i := c.index(id)
	if i < 0 {
		return nil
	}
	d, err := d.normalize()
	if err != nil {
		c.reject(err, "Task title cannot be empty")
		return err
	}
	t := &c.tasks[i]
	t.Title = d.Title
	t.Category = d.Category
	t.Priority = d.Priority
	t.DueDate = d.DueDate
	t.Notes = d.Notes
	c.editing = ""
	c.commit()
	c.notifier.Notify("Task updated successfully!", notify.Success)
	return nil
}

// DeleteTask removes id once ok approves. It reports whether a task was removed.
func (c *Controller) DeleteTask(id string, ok Confirmer) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	if !ok.Confirm(PromptDelete) {
		return false
	}
	c.tasks = slices.Delete(c.tasks, i, i+1)
	if c.editing == id {
		c.editing = ""
	}
	c.commit()
	c.notifier.Notify("Task deleted", notify.Info)
	return true
}

// ClearCompleted removes every completed task once ok approves and returns how many went.
func (c *Controller) ClearCompleted(ok Confirmer) int {
	n := c.Stats().Completed
	if n == 0 {
		c.notifier.Notify("No completed tasks to clear", notify.Info)
		return 0
	}
	if !ok.Confirm(fmt.Sprintf(promptClearCompleted, n)) {
		return 0
	}
	c.tasks = slices.DeleteFunc(c.tasks, func(t Task) bool { return t.Completed })
	if c.editing != "" && c.index(c.editing) < 0 {
		c.editing = ""
	}
	c.commit()
	c.notifier.Notify("Completed tasks cleared", notify.Success)
	return n
}

func (c *Controller) SetFilter(f Filter) error {
	f, err := ParseFilter(string(f))
	if err != nil {
		return err
	}
	c.filter = f
	c.render()
	return nil
}

func (c *Controller) SetCategory(cat Category) error {
	cat, err := ParseCategoryFilter(string(cat))
	if err != nil {
		return err
	}
	c.category = cat
	c.render()
	return nil
}

func (c *Controller) SetSort(s Sort) error {
	s, err := ParseSort(string(s))
	if err != nil {
		return err
	}
	c.sort = s
	c.render()
	return nil
}

func (c *Controller) Filter() Filter     { return c.filter }
func (c *Controller) Category() Category { return c.category }
func (c *Controller) Sort() Sort         { return c.sort }

// Get returns a copy of the task with id.
func (c *Controller) Get(id string) (Task, error) {
	i := c.index(id)
	if i < 0 {
		return Task{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return c.tasks[i].clone(), nil
}

// Tasks returns a copy of the collection in storage order.
func (c *Controller) Tasks() []Task {
	out := make([]Task, len(c.tasks))
	for i, t := range c.tasks {
		out[i] = t.clone()
	}
	return out
}

func (c *Controller) Stats() Stats { return Count(c.tasks) }

// Saving reports whether changes are written to the store.
func (c *Controller) Saving() bool { return !c.readOnly }

func (c *Controller) View() View {
	return View{
		Tasks:    Select(c.tasks, c.filter, c.category, c.sort),
		Filter:   c.filter,
		Category: c.category,
		Sort:     c.sort,
		Stats:    c.Stats(),
	}
}

func (c *Controller) index(id string) int {
	return slices.IndexFunc(c.tasks, func(t Task) bool { return t.ID == id })
}

func (c *Controller) reject(err error, message string) {
	if errors.Is(err, ErrEmptyTitle) {
		c.notifier.Notify(message, notify.Error)
		return
	}
	c.notifier.Notify(err.Error(), notify.Error)
}

// commit persists the collection then re-renders. Save failures keep the in-memory state.
func (c *Controller) commit() {
	if c.readOnly {
		c.log.Warn("save skipped", "count", len(c.tasks))
		c.render()
		return
	}
	if err := c.store.SaveTasks(c.Tasks()); err != nil {
		c.log.Error("save tasks", "err", err, "count", len(c.tasks))
	}
	c.render()
}

func (c *Controller) render() {
	c.renderer.Render(c.View())
}
