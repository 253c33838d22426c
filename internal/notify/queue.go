// Package notify keeps the transient notifications (toasts) shown to the user.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultTTL = 5 * time.Second

type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

type Toast struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// Timer is a pending expiry.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. Tests swap in a manual scheduler.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler is backed by time.AfterFunc.
func RealScheduler() Scheduler {
	return realScheduler{}
}

// Queue is an ordered list of toasts that each expire after a TTL.
type Queue struct {
	mu     sync.Mutex
	sched  Scheduler
	ttl    time.Duration
	now    func() time.Time
	toasts []Toast
	timers map[string]Timer
	closed bool
}

// NewQueue uses the real clock when sched is nil and DefaultTTL when ttl is
// not positive.
func NewQueue(sched Scheduler, ttl time.Duration) *Queue {
	if sched == nil {
		sched = realScheduler{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{
		sched:  sched,
		ttl:    ttl,
		now:    time.Now,
		timers: make(map[string]Timer),
	}
}

// Add appends a toast and schedules its expiry. A closed queue drops it and
// returns an empty id.
func (q *Queue) Add(message string, kind Kind) string {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ""
	}
	if kind == "" {
		kind = KindInfo
	}
	t := Toast{ID: uuid.NewString(), Message: message, Kind: kind, CreatedAt: q.now()}
	q.toasts = append(q.toasts, t)
	q.timers[t.ID] = q.sched.AfterFunc(q.ttl, func() { q.Remove(t.ID) })
	return t.ID
}

// Remove dismisses a toast. It reports whether the id was present.
func (q *Queue) Remove(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, t := range q.toasts {
		if t.ID != id {
			continue
		}
		q.toasts = append(q.toasts[:i], q.toasts[i+1:]...)
		if tm, ok := q.timers[id]; ok {
			tm.Stop()
			delete(q.timers, id)
		}
		return true
	}
	return false
}

// List returns the live toasts, oldest first.
func (q *Queue) List() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Toast{}, q.toasts...)
}

// Close stops every pending expiry and clears the queue.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for id, tm := range q.timers {
		tm.Stop()
		delete(q.timers, id)
	}
	q.toasts = nil
	q.closed = true
}
