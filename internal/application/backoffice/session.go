package backoffice

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cancelable is implemented by the form controllers
type Cancelable interface {
	Cancel()
}

// Session wraps a form with its notification buffer. Callers hold the
// session lock while they drive the form so requests of one session are
// serialized.
type Session[T Cancelable] struct {
	sync.Mutex
	ID            string
	Form          T
	Notifications *NotificationLog
	lastSeen      time.Time
}

// SessionRegistry keeps the open form sessions of one kind in memory.
// Sessions idle for longer than the TTL are cancelled and dropped by a
// background sweep.
type SessionRegistry[T Cancelable] struct {
	mu        sync.RWMutex
	sessions  map[string]*Session[T]
	idleTTL   time.Duration
	logger    *zap.Logger
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	now       func() time.Time
}

// NewSessionRegistry creates a registry and starts its sweep goroutine
func NewSessionRegistry[T Cancelable](idleTTL, sweepInterval time.Duration, logger *zap.Logger) *SessionRegistry[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &SessionRegistry[T]{
		sessions: make(map[string]*Session[T]),
		idleTTL:  idleTTL,
		logger:   logger.Named("sessions"),
		stopChan: make(chan struct{}),
		now:      time.Now,
	}

	r.wg.Add(1)
	go r.sweepLoop(sweepInterval)

	return r
}

// NewSessionID returns a fresh session identifier
func NewSessionID() string {
	return uuid.NewString()
}

// Register stores a form under the given id
func (r *SessionRegistry[T]) Register(id string, form T, notifications *NotificationLog) *Session[T] {
	s := &Session[T]{
		ID:            id,
		Form:          form,
		Notifications: notifications,
		lastSeen:      r.now(),
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.logger.Debug("form session opened", zap.String("session_id", id))
	return s
}

// Get returns a live session and refreshes its idle timer
func (r *SessionRegistry[T]) Get(id string) (*Session[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionExpired
	}
	now := r.now()
	if now.Sub(s.lastSeen) > r.idleTTL {
		return nil, ErrSessionExpired
	}
	s.lastSeen = now
	return s, nil
}

// Remove forgets a session. Removing an unknown id is a no-op.
func (r *SessionRegistry[T]) Remove(id string) {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		r.logger.Debug("form session closed", zap.String("session_id", id))
	}
}

// Len returns the number of registered sessions
func (r *SessionRegistry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close stops the sweep goroutine. Safe to call multiple times.
func (r *SessionRegistry[T]) Close() {
	r.closeOnce.Do(func() {
		close(r.stopChan)
		r.wg.Wait()
	})
}

func (r *SessionRegistry[T]) sweepLoop(interval time.Duration) {
	defer r.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

// sweep cancels and drops idle sessions. Forms are cancelled outside the
// registry lock since their hooks may call back into the registry.
func (r *SessionRegistry[T]) sweep() int {
	now := r.now()

	r.mu.Lock()
	var expired []*Session[T]
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.idleTTL {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Lock()
		s.Form.Cancel()
		s.Unlock()
	}
	if len(expired) > 0 {
		r.logger.Info("expired idle form sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}
