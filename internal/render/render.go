// Package render projects a task view into display-ready text. It never mutates tasks.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/x/ansi"

	"taskman/internal/task"
)

type Row struct {
	ID        string
	Title     string
	Category  string
	Priority  string
	Completed bool
	Due       string
	Overdue   bool
	Age       string
	HasNotes  bool
}

type Empty struct {
	Heading string
	Hint    string
}

type Page struct {
	Title    string
	Subtitle string
	Stats    task.Stats
	Rows     []Row
	Empty    *Empty
}

var filterTitles = map[task.Filter]string{
	task.FilterAll:       "All Tasks",
	task.FilterPending:   "Pending Tasks",
	task.FilterCompleted: "Completed Tasks",
	task.FilterHigh:      "High Priority Tasks",
}

func Build(v task.View, now time.Time) Page {
	p := Page{
		Title: PageTitle(v.Filter, v.Category),
		Stats: v.Stats,
		Rows:  make([]Row, 0, len(v.Tasks)),
	}
	if len(v.Tasks) == 0 {
		p.Subtitle = "No tasks match your filters"
		hint := "Try a different filter."
		if v.Filter == task.FilterAll || v.Filter == "" {
			hint = "Add a new task to get started!"
		}
		p.Empty = &Empty{Heading: "No tasks found", Hint: hint}
		return p
	}
	p.Subtitle = fmt.Sprintf("%d task(s) found", len(v.Tasks))
	for _, t := range v.Tasks {
		p.Rows = append(p.Rows, buildRow(t, now))
	}
	return p
}

func buildRow(t task.Task, now time.Time) Row {
	r := Row{
		ID:        t.ID,
		Title:     Sanitize(t.Title),
		Category:  string(t.Category),
		Priority:  string(t.Priority),
		Completed: t.Completed,
		Overdue:   t.Overdue(now),
		Age:       RelativeAge(t.CreatedAt, now),
		HasNotes:  strings.TrimSpace(t.Notes) != "",
	}
	if t.DueDate != nil {
		r.Due = FormatDate(*t.DueDate)
	}
	return r
}

func PageTitle(f task.Filter, c task.Category) string {
	title, ok := filterTitles[f]
	if !ok {
		title = filterTitles[task.FilterAll]
	}
	if c == "" || c == task.CategoryAll {
		return title
	}
	name := string(c)
	return title + " - " + strings.ToUpper(name[:1]) + name[1:]
}

// FormatDate renders a due date like "Jan 2, 2006".
func FormatDate(d task.Date) string {
	return d.In(time.UTC).Format("Jan 2, 2006")
}

// RelativeAge describes how long ago created was, in whole days.
func RelativeAge(created, now time.Time) string {
	diff := now.Sub(created)
	if diff < 0 {
		diff = -diff
	}
	days := int(diff / (24 * time.Hour))
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return ago(days, "day")
	case days < 30:
		return ago(days/7, "week")
	case days < 365:
		return ago(days/30, "month")
	default:
		return ago(days/365, "year")
	}
}

func ago(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// Sanitize strips terminal escape sequences and control characters from user text.
func Sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, ansi.Strip(s))
}
