package session

import (
	"context"
	"testing"
	"time"

	"github.com/abhimanyu-1/Shibu-App/llm"
)

type staticModel struct{}

func (staticModel) Complete(_ context.Context, _ []llm.Message) (string, error) {
	return "ok", nil
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	cfg := DefaultConfig()
	cfg.TTLMinutes = -1 // no background sweeper in tests
	r := NewRegistry(&cfg)
	t.Cleanup(r.Close)
	return r
}

func TestRegistryCreateGetDelete(t *testing.T) {
	r := newTestRegistry(t)

	sess := r.Create("s1", Profile{Name: "Anu"}, staticModel{})
	if sess.ID() != "s1" {
		t.Errorf("ID = %q", sess.ID())
	}

	got, ok := r.Get("s1")
	if !ok || got != sess {
		t.Fatalf("Get returned (%v, %v), want the created session", got, ok)
	}

	if _, ok := r.Get("unknown"); ok {
		t.Error("Get for unknown id must report absence")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1 (lookup must not mutate the registry)", r.Len())
	}

	r.Delete("s1")
	if _, ok := r.Get("s1"); ok {
		t.Error("session still present after Delete")
	}
}

func TestRegistryCreateOverwritesSameID(t *testing.T) {
	r := newTestRegistry(t)

	first := r.Create("s1", Profile{Name: "Anu"}, staticModel{})
	second := r.Create("s1", Profile{Name: "Biju"}, staticModel{})

	got, ok := r.Get("s1")
	if !ok || got != second || got == first {
		t.Fatalf("Get after overwrite returned the wrong session")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
	if got.Profile().Name != "Biju" {
		t.Errorf("profile = %q, want the new candidate", got.Profile().Name)
	}
}

func TestRegistryEvictsIdleSessions(t *testing.T) {
	r := newTestRegistry(t)

	r.Create("stale", Profile{}, staticModel{})
	r.Create("fresh", Profile{}, staticModel{})

	stale, _ := r.Get("stale")
	stale.mu.Lock()
	stale.lastActive = time.Now().Add(-time.Hour)
	stale.mu.Unlock()

	r.evictIdle(time.Now().Add(-30 * time.Minute))

	if _, ok := r.Get("stale"); ok {
		t.Error("idle session survived eviction")
	}
	if _, ok := r.Get("fresh"); !ok {
		t.Error("fresh session was evicted")
	}
}

func TestGetRefreshesIdleTimer(t *testing.T) {
	r := newTestRegistry(t)

	sess := r.Create("s1", Profile{}, staticModel{})
	sess.mu.Lock()
	sess.lastActive = time.Now().Add(-time.Hour)
	sess.mu.Unlock()

	// A lookup counts as activity, so the next sweep keeps the session.
	r.Get("s1")
	r.evictIdle(time.Now().Add(-30 * time.Minute))

	if _, ok := r.Get("s1"); !ok {
		t.Error("recently fetched session was evicted")
	}
}
