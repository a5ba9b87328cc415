package storage

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskman/internal/task"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "todo.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestLoadTasks_EmptyStore(t *testing.T) {
	s, _ := openTemp(t)

	tasks, err := s.LoadTasks()
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	theme, err := s.LoadTheme()
	require.NoError(t, err)
	assert.Empty(t, theme)
}

func TestTasksRoundTrip(t *testing.T) {
	s, path := openTemp(t)
	due := task.Date{Year: 2026, Month: time.July, Day: 4}
	in := []task.Task{
		{
			ID:        "b",
			Title:     "fireworks",
			Category:  task.CategoryPersonal,
			Priority:  task.PriorityHigh,
			DueDate:   &due,
			Notes:     "bring <earplugs> & snacks",
			CreatedAt: time.Date(2026, 6, 1, 10, 0, 0, 5000000, time.UTC),
		},
		{
			ID:        "a",
			Title:     "groceries",
			Category:  task.CategoryShopping,
			Priority:  task.PriorityLow,
			Completed: true,
			CreatedAt: time.Date(2026, 5, 30, 18, 30, 0, 0, time.UTC),
		},
	}
	require.NoError(t, s.SaveTasks(in))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	out, err := reopened.LoadTasks()
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
		assert.Equal(t, in[i].Title, out[i].Title)
		assert.Equal(t, in[i].Category, out[i].Category)
		assert.Equal(t, in[i].Priority, out[i].Priority)
		assert.Equal(t, in[i].DueDate, out[i].DueDate)
		assert.Equal(t, in[i].Notes, out[i].Notes)
		assert.Equal(t, in[i].Completed, out[i].Completed)
		assert.True(t, in[i].CreatedAt.Equal(out[i].CreatedAt))
	}
}

func TestSaveTasks_Overwrites(t *testing.T) {
	s, _ := openTemp(t)

	require.NoError(t, s.SaveTasks([]task.Task{{ID: "1", Title: "one"}}))
	require.NoError(t, s.SaveTasks(nil))

	raw, ok, err := s.Get(KeyTasks)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", raw)

	tasks, err := s.LoadTasks()
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestLoadTasks_ReadsBrowserExport(t *testing.T) {
	s, _ := openTemp(t)
	raw := `[{"id":"1718000000000","title":"Legacy","category":"health","priority":"high","dueDate":null,"notes":"","completed":false,"createdAt":"2024-06-10T06:13:20.000Z"}]`
	require.NoError(t, s.Set(KeyTasks, raw))

	tasks, err := s.LoadTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "1718000000000", tasks[0].ID)
	assert.Equal(t, task.PriorityHigh, tasks[0].Priority)
	assert.Nil(t, tasks[0].DueDate)
}

func TestLoadTasks_CorruptValue(t *testing.T) {
	s, _ := openTemp(t)
	require.NoError(t, s.Set(KeyTasks, "{not json"))

	_, err := s.LoadTasks()
	assert.Error(t, err)
}

const oneBadRecord = `[
 {"id":"a","title":"bad date","category":"work","priority":"low","dueDate":"2024/01/05","notes":"","completed":false,"createdAt":"2024-01-01T00:00:00.000Z"},
 {"id":"b","title":"keep me","category":"personal","priority":"high","dueDate":null,"notes":"","completed":false,"createdAt":"2024-01-02T00:00:00.000Z"}
]`

func TestLoadTasks_SkipsUndecodableRecords(t *testing.T) {
	s, _ := openTemp(t)
	require.NoError(t, s.Set(KeyTasks, oneBadRecord))

	tasks, err := s.LoadTasks()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "skipped 1 of 2")
	require.Len(t, tasks, 1)
	assert.Equal(t, "keep me", tasks[0].Title)
}

func TestController_LoadFailureLeavesStoredTasksAlone(t *testing.T) {
	s, _ := openTemp(t)
	require.NoError(t, s.Set(KeyTasks, oneBadRecord))

	c := task.New(s)
	_, err := c.AddTask(task.Draft{Title: "new"})
	require.NoError(t, err)

	raw, ok, err := s.Get(KeyTasks)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, oneBadRecord, raw)
	assert.Contains(t, raw, "keep me")
	assert.False(t, c.Saving())
	assert.Len(t, c.Tasks(), 2)
}

func TestTheme(t *testing.T) {
	s, _ := openTemp(t)

	require.NoError(t, s.SaveTheme("dark"))
	v, err := s.LoadTheme()
	require.NoError(t, err)
	assert.Equal(t, "dark", v)
}

func TestEnsureColumns_Idempotent(t *testing.T) {
	s, _ := openTemp(t)
	assert.NoError(t, s.ensureSchema())
	assert.NoError(t, s.ensureSchema())
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "file:memdb?mode=memory", sqliteDSN("file:memdb?mode=memory"))

	dsn := sqliteDSN("todo.db")
	assert.True(t, strings.HasPrefix(dsn, "file:///") || strings.HasPrefix(dsn, "file:/"))
	assert.Contains(t, dsn, "mode=rwc")
	assert.Contains(t, dsn, "busy_timeout")
}
