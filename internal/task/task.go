package task

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryShopping Category = "shopping"
	CategoryHealth   Category = "health"
	CategoryOther    Category = "other"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryShopping, CategoryHealth, CategoryOther}
}

func ParseCategory(v string) (Category, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return CategoryWork, nil
	}
	for _, c := range Categories() {
		if string(c) == v {
			return c, nil
		}
	}
	return "", fmt.Errorf("%q: %w", v, ErrInvalidCategory)
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Rank orders priorities: high=3, medium=2, low=1, anything else 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func ParsePriority(v string) (Priority, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return PriorityMedium, nil
	}
	for _, p := range Priorities() {
		if string(p) == v {
			return p, nil
		}
	}
	return "", fmt.Errorf("%q: %w", v, ErrInvalidPriority)
}

// Date is a calendar day without a time of day. It is stored as "YYYY-MM-DD".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate reads a YYYY-MM-DD string. Blank input yields nil (no deadline).
func ParseDate(v string) (*Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, err
	}
	d := DateOf(t)
	return &d, nil
}

func (d Date) String() string {
	return d.In(time.UTC).Format(dateLayout)
}

// In returns midnight of the day in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Before reports whether d is an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	t, err := time.Parse(dateLayout, string(b))
	if err != nil {
		return fmt.Errorf("due date: %w", err)
	}
	*d = DateOf(t)
	return nil
}

// Task is the persisted record. JSON names are the storage contract.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  Category  `json:"category"`
	Priority  Priority  `json:"priority"`
	DueDate   *Date     `json:"dueDate"`
	Notes     string    `json:"notes"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Overdue is true when the due day has passed in now's calendar and the task is still open.
// A task due today is not overdue.
func (t Task) Overdue(now time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(DateOf(now))
}

func (t Task) clone() Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

// Draft carries the user-editable fields for add and edit.
type Draft struct {
	Title    string
	Category Category
	Priority Priority
	DueDate  *Date
	Notes    string
}

func (d Draft) normalize() (Draft, error) {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return d, &ValidationError{Field: "title", Err: ErrEmptyTitle}
	}
	c, err := ParseCategory(string(d.Category))
	if err != nil {
		return d, &ValidationError{Field: "category", Err: err}
	}
	p, err := ParsePriority(string(d.Priority))
	if err != nil {
		return d, &ValidationError{Field: "priority", Err: err}
	}
	d.Category = c
	d.Priority = p
	if d.DueDate != nil {
		due := *d.DueDate
		d.DueDate = &due
	}
	return d, nil
}
