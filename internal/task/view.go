package task

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
	FilterHigh      Filter = "high"
)

func Filters() []Filter {
	return []Filter{FilterAll, FilterPending, FilterCompleted, FilterHigh}
}

func ParseFilter(v string) (Filter, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, f := range Filters() {
		if string(f) == v {
			return f, nil
		}
	}
	return "", fmt.Errorf("%q: %w", v, ErrInvalidFilter)
}

func (f Filter) match(t Task) bool {
	switch f {
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	case FilterHigh:
		return t.Priority == PriorityHigh && !t.Completed
	default:
		return true
	}
}

// CategoryAll disables category filtering.
const CategoryAll Category = "all"

// CategoryFilters is the category selector: all followed by every category.
func CategoryFilters() []Category {
	return append([]Category{CategoryAll}, Categories()...)
}

func ParseCategoryFilter(v string) (Category, error) {
	if strings.ToLower(strings.TrimSpace(v)) == string(CategoryAll) {
		return CategoryAll, nil
	}
	if strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%q: %w", v, ErrInvalidCategory)
	}
	return ParseCategory(v)
}

type Sort string

const (
	SortNewest       Sort = "date-newest"
	SortOldest       Sort = "date-oldest"
	SortPriorityHigh Sort = "priority-high"
	SortPriorityLow  Sort = "priority-low"
	SortAlphabetical Sort = "alphabetical"
)

func Sorts() []Sort {
	return []Sort{SortNewest, SortOldest, SortPriorityHigh, SortPriorityLow, SortAlphabetical}
}

func ParseSort(v string) (Sort, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, s := range Sorts() {
		if string(s) == v {
			return s, nil
		}
	}
	return "", fmt.Errorf("%q: %w", v, ErrInvalidSort)
}

// Stats are counts over the whole collection, ignoring view parameters.
type Stats struct {
	Total     int
	Pending   int
	Completed int
}

func Count(tasks []Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Pending++
		}
	}
	return s
}

// View is the read-only projection handed to the renderer.
type View struct {
	Tasks    []Task
	Filter   Filter
	Category Category
	Sort     Sort
	Stats    Stats
}

// Select applies the status filter, then the category filter, then the sort.
// The input slice is not modified; returned tasks are copies.
func Select(tasks []Task, f Filter, c Category, s Sort) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !f.match(t) {
			continue
		}
		if c != CategoryAll && c != "" && t.Category != c {
			continue
		}
		out = append(out, t.clone())
	}
	SortTasks(out, s)
	return out
}

// SortTasks orders tasks in place. Every ordering is stable; equal priorities
// fall back to newest createdAt first.
func SortTasks(tasks []Task, s Sort) {
	newest := func(a, b Task) int { return b.CreatedAt.Compare(a.CreatedAt) }
	switch s {
	case SortNewest:
		slices.SortStableFunc(tasks, newest)
	case SortOldest:
		slices.SortStableFunc(tasks, func(a, b Task) int { return a.CreatedAt.Compare(b.CreatedAt) })
	case SortPriorityHigh:
		slices.SortStableFunc(tasks, func(a, b Task) int {
			return cmp.Or(cmp.Compare(b.Priority.Rank(), a.Priority.Rank()), newest(a, b))
		})
	case SortPriorityLow:
		slices.SortStableFunc(tasks, func(a, b Task) int {
			return cmp.Or(cmp.Compare(a.Priority.Rank(), b.Priority.Rank()), newest(a, b))
		})
	case SortAlphabetical:
		col := collate.New(language.English)
		slices.SortStableFunc(tasks, func(a, b Task) int {
			return col.CompareString(a.Title, b.Title)
		})
	}
}
