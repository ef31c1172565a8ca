// Package reminder arms alert triggers planned by the schedule package and
// delivers them through a Sender when they come due. It is the in-process
// stand-in for an external notification facility: triggers are keyed by
// their deterministic IDs, cancelled by task prefix and re-armed as a whole.
package reminder

import (
	"container/heap"
	"sort"
	"sync"
	"time"

	"github.com/jmhodges/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"taskminder/schedule"
)

const (
	reminderTick = 20 * time.Second

	// Arming after a cancel is deferred so an in-flight cancel can't race a
	// freshly armed trigger back out of the queue.
	rearmDelay = 2 * time.Second
)

// Sender delivers one fired trigger to the user.
type Sender interface {
	Send(trg schedule.Trigger) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(trg schedule.Trigger) error

func (f SenderFunc) Send(trg schedule.Trigger) error {
	return f(trg)
}

// Manager owns the queue of armed triggers. All methods are safe for
// concurrent use.
type Manager struct {
	mu         sync.Mutex
	queue      *triggerQueue
	sender     Sender
	logger     *zap.SugaredLogger
	clk        clock.Clock
	rearmDelay time.Duration
}

func NewManager(s Sender, l *zap.SugaredLogger) *Manager {
	return &Manager{
		queue:      newTriggerQueue(),
		sender:     s,
		logger:     l,
		clk:        clock.New(),
		rearmDelay: rearmDelay,
	}
}

// Run starts the delivery loop.
func (m *Manager) Run() {
	ch := time.NewTicker(reminderTick).C
	go func() {
		for range ch {
			m.fire(m.clk.Now())
		}
	}()
}

// Arm inserts the planned triggers into the queue. A trigger that can't be
// armed (a spent one-shot, an unknown kind) is reported and skipped; it
// never blocks the rest of the plan.
func (m *Manager) Arm(plan []schedule.Trigger) []error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clk.Now()

	var errs []error
	for _, trg := range plan {
		at, ok := nextFire(trg, now)
		if !ok {
			if trg.Kind == schedule.KindOnce {
				// Expired one-shots are a normal outcome of re-planning.
				continue
			}
			errs = append(errs, errors.Errorf("trigger %s will never fire", trg.ID))
			continue
		}
		m.queue.Arm(&armed{trg: trg, at: at.Unix()})
	}

	return errs
}

// CancelPrefix drops every armed trigger whose ID starts with the prefix.
// With schedule.Prefix(taskID) this is the entire cleanup for a deleted
// task.
func (m *Manager) CancelPrefix(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n := m.queue.RemovePrefix(prefix); n > 0 {
		m.logger.Infow("cancelled triggers", "prefix", prefix, "count", n)
	}
}

// Rearm replaces a task's armed triggers with a new plan: cancel first, then
// arm after a short delay.
func (m *Manager) Rearm(taskID string, plan []schedule.Trigger) {
	m.CancelPrefix(schedule.Prefix(taskID))

	time.AfterFunc(m.rearmDelay, func() {
		for _, err := range m.Arm(plan) {
			m.logger.Errorw("failed arming trigger", "task", taskID, "err", err)
		}
	})
}

// fire delivers every trigger due at now. Recurring triggers are re-armed
// with their next fire instant; one-shots are consumed. A failing send is
// logged and doesn't hold back the remaining due triggers.
func (m *Manager) fire(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for {
		head := m.queue.Peek()
		if head == nil || now.Unix() < head.at {
			break
		}

		a, ok := heap.Pop(m.queue).(*armed)
		if !ok {
			break
		}

		trg := a.trg
		go func() {
			if err := m.sender.Send(trg); err != nil {
				m.logger.Errorw("failed sending reminder", "trigger", trg.ID, "err", err)
			}
		}()

		if next, ok := nextFire(trg, now); ok {
			m.queue.Arm(&armed{trg: trg, at: next.Unix()})
		}
	}
}

// Armed returns the IDs of the currently armed triggers, sorted by fire
// instant. Diagnostic surface for the /settings-style commands and tests.
func (m *Manager) Armed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]*armed, len(m.queue.backing))
	copy(entries, m.queue.backing)
	sort.Slice(entries, func(i, j int) bool { return entries[i].at < entries[j].at })

	ids := make([]string, 0, len(entries))
	for _, a := range entries {
		ids = append(ids, a.trg.ID)
	}
	return ids
}
