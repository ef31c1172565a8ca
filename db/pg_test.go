package db

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskminder/task"
)

func newMockDB(t *testing.T) (*Database, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewWithPool(mock, zap.NewNop().Sugar()), mock
}

// anyArgs returns n placeholder matchers; pgxmock requires the argument
// count to be declared even when the values themselves are not asserted.
func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func taskColumns() []string {
	return []string{"task_id", "title", "description", "remind_at", "start_date",
		"repeat_rule", "label", "is_done", "alarm_enabled", "notify_offset", "last_done"}
}

func TestSaveTask(t *testing.T) {
	d, mock := newMockDB(t)

	mock.ExpectExec("INSERT INTO tasks").
		WithArgs(anyArgs(11)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	start := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)
	tk := task.Task{
		ID:                 "t1",
		Title:              "stand-up",
		Time:               task.TimeOfDay{Hour: 9, Minute: 0},
		StartDate:          &start,
		RepeatRule:         task.NewRoutines(task.Monday),
		NotificationOffset: 15,
	}

	require.NoError(t, d.SaveTask(context.Background(), tk))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetDone(t *testing.T) {
	d, mock := newMockDB(t)

	mock.ExpectExec("UPDATE tasks").
		WithArgs(anyArgs(3)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, d.SetDone(context.Background(), "t1", false, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTask(t *testing.T) {
	d, mock := newMockDB(t)

	mock.ExpectExec("DELETE FROM tasks").
		WithArgs(anyArgs(1)...).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, d.DeleteTask(context.Background(), "t1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadTasks(t *testing.T) {
	d, mock := newMockDB(t)

	rows := pgxmock.NewRows(taskColumns()).
		AddRow("t1", "stand-up", "", 540, (*time.Time)(nil),
			[]byte(`{"routines":{"days":[2,6]}}`), "", false, true, 15, (*time.Time)(nil)).
		AddRow("t2", "rent", "pay before noon", 600, (*time.Time)(nil),
			[]byte(`{"custom":{"frequency":"monthly","values":[1]}}`), "home", true, false, 0, (*time.Time)(nil))

	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	tasks, err := d.LoadTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "t1", tasks[0].ID)
	assert.Equal(t, task.TimeOfDay{Hour: 9, Minute: 0}, tasks[0].Time)
	require.NotNil(t, tasks[0].RepeatRule.Routines)
	assert.Equal(t, []task.Weekday{task.Monday, task.Friday}, tasks[0].RepeatRule.Routines.Days)
	assert.True(t, tasks[0].AlarmEnabled)

	require.NotNil(t, tasks[1].RepeatRule.Custom)
	assert.Equal(t, task.Monthly, tasks[1].RepeatRule.Custom.Frequency)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadTasksDropsInvalidRule(t *testing.T) {
	d, mock := newMockDB(t)

	rows := pgxmock.NewRows(taskColumns()).
		AddRow("bad", "mystery", "", 540, (*time.Time)(nil),
			[]byte(`{"custom":{"frequency":"daily","values":[]}}`), "", false, false, 0, (*time.Time)(nil)).
		AddRow("good", "stand-up", "", 540, (*time.Time)(nil),
			[]byte(`{"routines":{"days":[2]}}`), "", false, false, 0, (*time.Time)(nil))

	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	tasks, err := d.LoadTasks(context.Background())
	require.NoError(t, err)

	// The broken row is dropped, not fatal.
	require.Len(t, tasks, 1)
	assert.Equal(t, "good", tasks[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
