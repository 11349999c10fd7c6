package session

import (
	"sync"
	"time"

	"github.com/abhimanyu-1/Shibu-App/llm"
)

// Registry is the concurrency-safe owner of all live sessions, keyed by the
// caller-supplied identifier. Creating under an existing id silently
// replaces the old session. An optional TTL sweeper evicts idle sessions so
// abandoned interviews do not accumulate forever.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewRegistry creates a Registry from configuration and starts the TTL
// sweeper when eviction is enabled. Call Close to stop the sweeper.
func NewRegistry(cfg *Config) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		ttl:      cfg.ttl(),
		done:     make(chan struct{}),
	}
	if r.ttl > 0 {
		go r.sweep()
	}
	return r
}

// Create registers a new session under id, overwriting any existing one.
func (r *Registry) Create(id string, profile Profile, model llm.Client) *Session {
	sess := New(id, profile, model)
	r.mu.Lock()
	r.sessions[id] = sess
	r.mu.Unlock()
	return sess
}

// Put registers an already-built session under its own id, overwriting any
// existing one. Used when the caller must fully initialize a session before
// it becomes visible.
func (r *Registry) Put(sess *Session) {
	r.mu.Lock()
	r.sessions[sess.ID()] = sess
	r.mu.Unlock()
}

// Get returns the session for id and refreshes its idle timer.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	sess, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		sess.touch()
	}
	return sess, ok
}

// Delete removes the session for id. Unknown ids are ignored.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close stops the TTL sweeper. Live sessions stay readable.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.done) })
}

func (r *Registry) sweep() {
	interval := r.ttl / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.evictIdle(time.Now().Add(-r.ttl))
		}
	}
}

func (r *Registry) evictIdle(cutoff time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, sess := range r.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(r.sessions, id)
		}
	}
}
