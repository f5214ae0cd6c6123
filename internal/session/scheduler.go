// internal/session/scheduler.go
package session

import "time"

// Scheduler runs deferred tasks keyed by room. Scheduling a key replaces any
// pending task for it. Implementations must run tasks on the gateway loop.
type Scheduler interface {
	Schedule(key string, delay time.Duration, task func())
	Cancel(key string)
	Stop()
}

type pendingTask struct {
	timer *time.Timer
	id    uint64
}

// timerScheduler backs tasks with time.AfterFunc and posts each firing back
// to the loop. It is owned by the loop like the rest of the gateway state.
type timerScheduler struct {
	post    func(func()) bool
	pending map[string]*pendingTask
	nextID  uint64
}

func newTimerScheduler(post func(func()) bool) *timerScheduler {
	return &timerScheduler{
		post:    post,
		pending: make(map[string]*pendingTask),
	}
}

func (s *timerScheduler) Schedule(key string, delay time.Duration, task func()) {
	s.Cancel(key)
	s.nextID++
	id := s.nextID

	t := time.AfterFunc(delay, func() {
		s.post(func() {
			// a replaced or cancelled timer can still fire once; drop it
			cur, ok := s.pending[key]
			if !ok || cur.id != id {
				return
			}
			delete(s.pending, key)
			task()
		})
	})
	s.pending[key] = &pendingTask{timer: t, id: id}
}

func (s *timerScheduler) Cancel(key string) {
	if p, ok := s.pending[key]; ok {
		p.timer.Stop()
		delete(s.pending, key)
	}
}

func (s *timerScheduler) Stop() {
	for key, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, key)
	}
}
