package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"taskminder/task"
)

// SaveTask inserts the task or replaces every field of an existing row; an
// edit replaces the whole recurrence rule atomically.
func (d *Database) SaveTask(ctx context.Context, t task.Task) error {
	rule, err := json.Marshal(t.RepeatRule)
	if err != nil {
		return errors.Wrap(err, "failed encoding recurrence rule")
	}

	_, err = d.pool.Exec(ctx, `INSERT INTO tasks(task_id, title, description, remind_at, start_date,
repeat_rule, label, is_done, alarm_enabled, notify_offset, last_done)
VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (task_id) DO UPDATE SET
title=EXCLUDED.title, description=EXCLUDED.description, remind_at=EXCLUDED.remind_at,
start_date=EXCLUDED.start_date, repeat_rule=EXCLUDED.repeat_rule, label=EXCLUDED.label,
is_done=EXCLUDED.is_done, alarm_enabled=EXCLUDED.alarm_enabled,
notify_offset=EXCLUDED.notify_offset, last_done=EXCLUDED.last_done`,
		t.ID, t.Title, t.Description, t.Time.Minutes(), t.StartDate,
		rule, t.Label, t.IsDone, t.AlarmEnabled, t.NotificationOffset, t.LastDone)
	if err != nil {
		return errors.Wrap(err, "failed saving task")
	}

	return nil
}

// SetDone flips the completion flag. lastDone carries the completion day
// when done is true and nil when the reset pass clears the flag.
func (d *Database) SetDone(ctx context.Context, id string, done bool, lastDone *time.Time) error {
	if _, err := d.pool.Exec(ctx, `UPDATE tasks SET is_done=$1, last_done=COALESCE($2, last_done)
WHERE task_id=$3`, done, lastDone, id); err != nil {
		return errors.Wrap(err, "failed updating task state")
	}
	return nil
}

// DeleteTask removes the task row. Cancelling its armed triggers is the
// caller's side of the contract.
func (d *Database) DeleteTask(ctx context.Context, id string) error {
	if _, err := d.pool.Exec(ctx, `DELETE FROM tasks WHERE task_id=$1`, id); err != nil {
		return errors.Wrap(err, "failed deleting task")
	}
	return nil
}

// LoadTasks reads every stored task. A row whose recurrence rule doesn't
// decode into a known variant is dropped with a warning instead of failing
// the whole load.
func (d *Database) LoadTasks(ctx context.Context) ([]task.Task, error) {
	rows, err := d.pool.Query(ctx, `SELECT task_id, title, description, remind_at, start_date,
repeat_rule, label, is_done, alarm_enabled, notify_offset, last_done
FROM tasks
ORDER BY remind_at ASC, title ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed querying tasks")
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var (
			t        task.Task
			remindAt int
			rawRule  []byte
		)

		err = rows.Scan(&t.ID, &t.Title, &t.Description, &remindAt, &t.StartDate,
			&rawRule, &t.Label, &t.IsDone, &t.AlarmEnabled, &t.NotificationOffset, &t.LastDone)
		if err != nil {
			return nil, errors.Wrap(err, "failed scanning task row")
		}

		t.Time = task.FromMinutes(remindAt)

		if err := json.Unmarshal(rawRule, &t.RepeatRule); err != nil {
			d.logger.Warnw("dropping task with invalid recurrence rule", "task", t.ID, "err", err)
			continue
		}

		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed reading task rows")
	}

	return tasks, nil
}
