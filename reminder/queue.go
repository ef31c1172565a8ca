package reminder

import (
	"container/heap"
	"strings"

	"taskminder/schedule"
)

// armed is one armed trigger together with its next fire instant.
type armed struct {
	trg schedule.Trigger
	at  int64 // unix seconds of the next fire
}

// triggerQueue is a min-heap of armed triggers ordered by fire instant,
// indexed by trigger ID so re-arming replaces in place.
type triggerQueue struct {
	backing []*armed
	byID    map[string]*armed
}

func newTriggerQueue() *triggerQueue {
	q := &triggerQueue{
		backing: []*armed{},
		byID:    make(map[string]*armed),
	}
	heap.Init(q)
	return q
}

func (q triggerQueue) Len() int {
	return len(q.backing)
}

func (q triggerQueue) Less(i, j int) bool {
	return q.backing[i].at < q.backing[j].at
}

func (q triggerQueue) Swap(i, j int) {
	q.backing[j], q.backing[i] = q.backing[i], q.backing[j]
}

func (q *triggerQueue) Push(x any) {
	a, ok := x.(*armed)
	if !ok {
		return
	}
	q.byID[a.trg.ID] = a
	q.backing = append(q.backing, a)
}

func (q *triggerQueue) Pop() any {
	n := len(q.backing)
	if n == 0 {
		return nil
	}
	popped := q.backing[n-1]
	q.backing = q.backing[:n-1]
	delete(q.byID, popped.trg.ID)
	return popped
}

func (q *triggerQueue) Peek() *armed {
	if len(q.backing) == 0 {
		return nil
	}
	return q.backing[0]
}

// Arm inserts the trigger, replacing any armed trigger with the same ID.
func (q *triggerQueue) Arm(a *armed) {
	q.RemoveID(a.trg.ID)
	heap.Push(q, a)
}

// RemoveID drops the armed trigger with the given ID, if any.
func (q *triggerQueue) RemoveID(id string) {
	if _, ok := q.byID[id]; !ok {
		return
	}
	for i, a := range q.backing {
		if a.trg.ID == id {
			heap.Remove(q, i)
			delete(q.byID, id)
			return
		}
	}
}

// RemovePrefix drops every armed trigger whose ID starts with the prefix
// and reports how many were dropped.
func (q *triggerQueue) RemovePrefix(prefix string) int {
	kept := q.backing[:0]
	removed := 0
	for _, a := range q.backing {
		if strings.HasPrefix(a.trg.ID, prefix) {
			delete(q.byID, a.trg.ID)
			removed++
			continue
		}
		kept = append(kept, a)
	}
	q.backing = kept
	if removed > 0 {
		heap.Init(q)
	}
	return removed
}
