// Package speech converts reply text to audio bytes with provider failover.
// The primary provider is Murf; any primary failure (missing credential,
// non-2xx, network error, missing result field) falls back to a local
// offline engine. Failures never cross the package boundary as errors —
// callers always get a Result and the text reply stays authoritative.
package speech

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"time"

	"github.com/abhimanyu-1/Shibu-App/observability"
)

// Source identifies which path produced the audio.
type Source int

const (
	// SourceNone means both providers failed; Audio is nil.
	SourceNone Source = iota
	// SourcePrimary means the primary provider rendered the audio.
	SourcePrimary
	// SourceFallback means the local engine rendered the audio.
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourcePrimary:
		return "primary"
	case SourceFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Result is the outcome of a synthesis attempt. Audio is raw MP3 bytes, nil
// when Source is SourceNone.
type Result struct {
	Audio  []byte
	Source Source
}

// Base64 returns the audio encoded for the JSON response, or "" when there
// is no audio.
func (r Result) Base64() string {
	if len(r.Audio) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(r.Audio)
}

// Provider renders text to audio bytes.
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Synthesizer events.
const (
	EventPrimaryFailed  observability.EventType = "speech.primary.failed"
	EventFallbackFailed observability.EventType = "speech.fallback.failed"
)

// Synthesizer tries the primary provider, then the fallback engine.
type Synthesizer struct {
	primary  Provider // nil when no credential is configured
	fallback Provider
	observer observability.Observer
}

// Option configures a Synthesizer after config-driven initialization.
type Option func(*Synthesizer)

// WithPrimary overrides the config-created primary provider. Passing nil
// disables the primary path.
func WithPrimary(p Provider) Option {
	return func(s *Synthesizer) { s.primary = p }
}

// WithFallback overrides the config-created fallback engine.
func WithFallback(p Provider) Option {
	return func(s *Synthesizer) {
		if p != nil {
			s.fallback = p
		}
	}
}

// WithObserver overrides the default no-op observer.
func WithObserver(o observability.Observer) Option {
	return func(s *Synthesizer) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewSynthesizer creates a Synthesizer from configuration. Without an API
// key the primary path is disabled and every call uses the fallback engine.
func NewSynthesizer(cfg *Config, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		fallback: NewLocalEngine(cfg),
		observer: observability.NoOpObserver{},
	}
	if strings.TrimSpace(cfg.APIKey) != "" {
		s.primary = NewMurfProvider(cfg)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize converts text to audio, degrading from primary to fallback to
// no audio. Empty text yields SourceNone without touching any provider.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{}
	}

	if s.primary != nil {
		audio, err := s.primary.Synthesize(ctx, text)
		if err == nil {
			return Result{Audio: audio, Source: SourcePrimary}
		}
		s.observer.OnEvent(ctx, observability.Event{
			Type:   EventPrimaryFailed,
			Level:  slog.LevelWarn,
			Time:   time.Now(),
			Source: "speech.Synthesize",
			Data:   map[string]any{"provider": s.primary.Name(), "error": err.Error()},
		})
	}

	audio, err := s.fallback.Synthesize(ctx, text)
	if err != nil {
		s.observer.OnEvent(ctx, observability.Event{
			Type:   EventFallbackFailed,
			Level:  slog.LevelError,
			Time:   time.Now(),
			Source: "speech.Synthesize",
			Data:   map[string]any{"provider": s.fallback.Name(), "error": err.Error()},
		})
		return Result{}
	}
	return Result{Audio: audio, Source: SourceFallback}
}
