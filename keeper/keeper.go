// Package keeper owns the task collection. Every mutation — CRUD, done
// flags, the periodic completion reset — goes through one Keeper guarded by
// one mutex, so the engine never sees concurrent writes. UI surfaces and
// the reset loop are both clients of this package.
package keeper

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jmhodges/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"taskminder/schedule"
	"taskminder/task"
)

const resetTick = time.Minute

var ErrNotFound = errors.New("task not found")

// Store is the persistence collaborator.
type Store interface {
	SaveTask(ctx context.Context, t task.Task) error
	SetDone(ctx context.Context, id string, done bool, lastDone *time.Time) error
	DeleteTask(ctx context.Context, id string) error
	LoadTasks(ctx context.Context) ([]task.Task, error)
}

// Notifier is the notification collaborator. Rearm must cancel the task's
// prefix before arming the new plan.
type Notifier interface {
	Rearm(taskID string, plan []schedule.Trigger)
	CancelPrefix(prefix string)
}

type Keeper struct {
	mu       sync.Mutex
	tasks    map[string]*task.Task
	store    Store
	notifier Notifier
	logger   *zap.SugaredLogger
	clk      clock.Clock
	loc      *time.Location
}

// New loads the stored tasks and arms a trigger plan for each of them.
func New(ctx context.Context, s Store, n Notifier, loc *time.Location, l *zap.SugaredLogger) (*Keeper, error) {
	k := &Keeper{
		tasks:    make(map[string]*task.Task),
		store:    s,
		notifier: n,
		logger:   l,
		clk:      clock.New(),
		loc:      loc,
	}

	tasks, err := s.LoadTasks(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed loading tasks")
	}

	k.logger.Infof("initializing triggers for %d tasks", len(tasks))

	now := k.now()
	for i := range tasks {
		t := tasks[i]
		k.tasks[t.ID] = &t
		n.Rearm(t.ID, schedule.Plan(&t, now))
	}

	return k, nil
}

func (k *Keeper) now() time.Time {
	return k.clk.Now().In(k.loc)
}

// Create stores the task and arms its triggers.
func (k *Keeper) Create(ctx context.Context, t task.Task) error {
	if err := t.RepeatRule.Validate(); err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.store.SaveTask(ctx, t); err != nil {
		return err
	}

	k.tasks[t.ID] = &t
	k.notifier.Rearm(t.ID, schedule.Plan(&t, k.now()))
	return nil
}

// Update replaces the task's fields in place, keeping its identity, and
// re-arms its triggers. The recurrence rule swaps as a whole; a
// partially-edited rule never exists.
func (k *Keeper) Update(ctx context.Context, t task.Task) error {
	if err := t.RepeatRule.Validate(); err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if _, ok := k.tasks[t.ID]; !ok {
		return ErrNotFound
	}

	if err := k.store.SaveTask(ctx, t); err != nil {
		return err
	}

	k.tasks[t.ID] = &t
	k.notifier.Rearm(t.ID, schedule.Plan(&t, k.now()))
	return nil
}

// Delete removes the task and cancels everything armed under its prefix.
func (k *Keeper) Delete(ctx context.Context, id string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, ok := k.tasks[id]; !ok {
		return ErrNotFound
	}

	if err := k.store.DeleteTask(ctx, id); err != nil {
		return err
	}

	delete(k.tasks, id)
	k.notifier.CancelPrefix(schedule.Prefix(id))
	return nil
}

// SetDone flips the completion flag. Completion stamps LastDone with
// today's day so the reset pass leaves the current occurrence alone.
func (k *Keeper) SetDone(ctx context.Context, id string, done bool) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	t, ok := k.tasks[id]
	if !ok {
		return ErrNotFound
	}

	var lastDone *time.Time
	if done {
		day := task.Day(k.now())
		lastDone = &day
	}

	if err := k.store.SetDone(ctx, id, done, lastDone); err != nil {
		return err
	}

	t.IsDone = done
	if lastDone != nil {
		t.LastDone = lastDone
	}
	return nil
}

// TasksFor returns snapshots of the tasks occurring on the given day,
// ordered by time then title.
func (k *Keeper) TasksFor(date time.Time) []task.Task {
	k.mu.Lock()
	defer k.mu.Unlock()

	var out []task.Task
	for _, t := range k.tasks {
		if schedule.OccursOn(t, date) {
			out = append(out, *t)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Time.Minutes() != out[j].Time.Minutes() {
			return out[i].Time.Minutes() < out[j].Time.Minutes()
		}
		return out[i].Title < out[j].Title
	})

	return out
}

// DueToday returns snapshots of the tasks occurring today.
func (k *Keeper) DueToday() []task.Task {
	return k.TasksFor(k.now())
}

// All returns snapshots of every task, ordered by time then title.
func (k *Keeper) All() []task.Task {
	k.mu.Lock()
	tasks := make([]task.Task, 0, len(k.tasks))
	for _, t := range k.tasks {
		tasks = append(tasks, *t)
	}
	k.mu.Unlock()

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Time.Minutes() != tasks[j].Time.Minutes() {
			return tasks[i].Time.Minutes() < tasks[j].Time.Minutes()
		}
		return tasks[i].Title < tasks[j].Title
	})

	return tasks
}

// NextLabel returns the short next-occurrence label for the task, or "".
func (k *Keeper) NextLabel(id string) string {
	k.mu.Lock()
	defer k.mu.Unlock()

	t, ok := k.tasks[id]
	if !ok {
		return ""
	}
	return schedule.DescribeNext(t, k.now())
}

// RunResets starts the periodic completion-reset loop.
func (k *Keeper) RunResets(ctx context.Context) {
	ch := time.NewTicker(resetTick).C
	go func() {
		for range ch {
			k.resetPass(ctx, k.now())
		}
	}()
}

// resetPass clears the done flag of every completed task whose current
// occurrence window has begun. A task whose flag fails to persist keeps its
// in-memory state so the next pass retries.
func (k *Keeper) resetPass(ctx context.Context, now time.Time) {
	k.mu.Lock()
	defer k.mu.Unlock()

	snapshot := make([]task.Task, 0, len(k.tasks))
	for _, t := range k.tasks {
		snapshot = append(snapshot, *t)
	}

	for _, id := range schedule.ResetDue(snapshot, now) {
		if err := k.store.SetDone(ctx, id, false, nil); err != nil {
			k.logger.Errorw("failed resetting task", "task", id, "err", err)
			continue
		}
		k.tasks[id].IsDone = false
		k.logger.Infow("reset task for its next occurrence", "task", id)
	}
}
