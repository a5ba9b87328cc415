package task

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

func titles(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func sample() []Task {
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }
	return []Task{
		{ID: "1", Title: "report", Category: CategoryWork, Priority: PriorityHigh, CreatedAt: at(5)},
		{ID: "2", Title: "gym", Category: CategoryHealth, Priority: PriorityHigh, Completed: true, CreatedAt: at(4)},
		{ID: "3", Title: "apples", Category: CategoryShopping, Priority: PriorityLow, CreatedAt: at(3)},
		{ID: "4", Title: "Call mom", Category: CategoryPersonal, Priority: PriorityMedium, CreatedAt: at(2)},
		{ID: "5", Title: "éclair", Category: CategoryShopping, Priority: PriorityMedium, Completed: true, CreatedAt: at(1)},
	}
}

func TestSelect_StatusFilters(t *testing.T) {
	tasks := sample()

	assert.Len(t, Select(tasks, FilterAll, CategoryAll, SortNewest), 5)
	assert.Equal(t, []string{"report", "apples", "Call mom"}, titles(Select(tasks, FilterPending, CategoryAll, SortNewest)))
	assert.Equal(t, []string{"gym", "éclair"}, titles(Select(tasks, FilterCompleted, CategoryAll, SortNewest)))

	high := Select(tasks, FilterHigh, CategoryAll, SortNewest)
	assert.Equal(t, []string{"report"}, titles(high))
	for _, h := range high {
		assert.False(t, h.Completed)
	}
}

func TestSelect_CategoryComposesWithFilter(t *testing.T) {
	tasks := sample()

	assert.Equal(t, []string{"apples", "éclair"}, titles(Select(tasks, FilterAll, CategoryShopping, SortNewest)))
	assert.Equal(t, []string{"apples"}, titles(Select(tasks, FilterPending, CategoryShopping, SortNewest)))
	assert.Empty(t, Select(tasks, FilterHigh, CategoryShopping, SortNewest))
}

func TestSelect_DoesNotAliasInput(t *testing.T) {
	due := Date{Year: 2026, Month: time.May, Day: 5}
	tasks := []Task{{ID: "1", Title: "a", DueDate: &due}}

	out := Select(tasks, FilterAll, CategoryAll, SortNewest)
	out[0].Title = "changed"
	out[0].DueDate.Day = 9

	assert.Equal(t, "a", tasks[0].Title)
	assert.Equal(t, 5, tasks[0].DueDate.Day)
}

func TestSortTasks_Dates(t *testing.T) {
	tasks := sample()

	SortTasks(tasks, SortOldest)
	assert.Equal(t, []string{"éclair", "Call mom", "apples", "gym", "report"}, titles(tasks))

	SortTasks(tasks, SortNewest)
	assert.Equal(t, []string{"report", "gym", "apples", "Call mom", "éclair"}, titles(tasks))
}

func TestSortTasks_PriorityTiesFallBackToNewest(t *testing.T) {
	tasks := sample()

	SortTasks(tasks, SortPriorityHigh)
	assert.Equal(t, []string{"report", "gym", "Call mom", "éclair", "apples"}, titles(tasks))

	SortTasks(tasks, SortPriorityLow)
	assert.Equal(t, []string{"apples", "Call mom", "éclair", "report", "gym"}, titles(tasks))
}

func TestSortTasks_AlphabeticalIsLocaleAware(t *testing.T) {
	tasks := sample()
	SortTasks(tasks, SortAlphabetical)

	assert.Equal(t, []string{"apples", "Call mom", "éclair", "gym", "report"}, titles(tasks))

	col := collate.New(language.English)
	for i := 1; i < len(tasks); i++ {
		assert.LessOrEqual(t, col.CompareString(tasks[i-1].Title, tasks[i].Title), 0)
	}
}

func TestScenario_PriorityHighOrder(t *testing.T) {
	c, _ := newTestController(t, &memStore{})
	for _, p := range []Priority{PriorityHigh, PriorityLow, PriorityMedium} {
		_, err := c.AddTask(Draft{Title: string(p), Priority: p})
		require.NoError(t, err)
	}
	require.NoError(t, c.SetSort(SortPriorityHigh))

	assert.Equal(t, []string{"high", "medium", "low"}, titles(c.View().Tasks))
}

func TestOverdue(t *testing.T) {
	now := time.Date(2026, time.June, 15, 8, 30, 0, 0, time.Local)
	yesterday := DateOf(now.AddDate(0, 0, -1))
	today := DateOf(now)
	tomorrow := DateOf(now.AddDate(0, 0, 1))

	assert.True(t, Task{DueDate: &yesterday}.Overdue(now))
	assert.False(t, Task{DueDate: &yesterday, Completed: true}.Overdue(now))
	assert.False(t, Task{DueDate: &today}.Overdue(now))
	assert.False(t, Task{DueDate: &tomorrow}.Overdue(now))
	assert.False(t, Task{}.Overdue(now))
}

func TestTaskJSONContract(t *testing.T) {
	due := Date{Year: 2026, Month: time.January, Day: 2}
	in := Task{
		ID:        "abc",
		Title:     "t",
		Category:  CategoryHealth,
		Priority:  PriorityLow,
		DueDate:   &due,
		CreatedAt: time.Date(2026, 1, 1, 12, 0, 0, 123000000, time.UTC),
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc","title":"t","category":"health","priority":"low","dueDate":"2026-01-02","notes":"","completed":false,"createdAt":"2026-01-01T12:00:00.123Z"}`, string(b))

	var none Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","title":"y","category":"work","priority":"medium","dueDate":null,"notes":"","completed":true,"createdAt":"2025-12-31T23:59:59.000Z"}`), &none))
	assert.Nil(t, none.DueDate)
	assert.True(t, none.Completed)
	assert.True(t, none.CreatedAt.Equal(time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseDate(" 2026-02-28 ")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-28", d.String())

	_, err = ParseDate("28/02/2026")
	assert.Error(t, err)
}
