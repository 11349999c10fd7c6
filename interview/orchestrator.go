// Package interview implements the per-request state machine that ties the
// session registry, the slang retriever, and the speech synthesizer together
// into one scripted interview. Every failure becomes a reply payload; nothing
// here is fatal to the process.
//
//	orch, err := interview.New(&cfg)
//	go orch.BuildKnowledge(ctx)
//	reply := orch.Chat(ctx, "s1", "I mostly write Go services.")
package interview

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/abhimanyu-1/Shibu-App/llm"
	"github.com/abhimanyu-1/Shibu-App/observability"
	"github.com/abhimanyu-1/Shibu-App/rag"
	"github.com/abhimanyu-1/Shibu-App/session"
	"github.com/abhimanyu-1/Shibu-App/speech"
)

// User-visible reply texts for the degraded paths. The text reply is always
// authoritative; these carry no audio.
const (
	ReplySessionExpired = "Session expired."
	ReplyConcluded      = "The interview is already concluded. Thank you for your time."
	ReplyErrorStart     = "Error generating response"
	ReplyErrorChat      = "Error generating reply"
	ReplyErrorReview    = "Error generating review"
)

// Retriever returns the corpus fragments most similar to a query. Empty
// results mean "no augmentation", never an error.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) []string
	Status() string
}

// Synthesizer renders reply text to best-effort audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) speech.Result
}

// Reply is the outcome of one orchestrated request.
type Reply struct {
	Text          string
	Audio         speech.Result
	Finished      bool
	QuestionCount int // 0 when the response carries no count
}

// Option configures an Orchestrator after config-driven initialization.
type Option func(*Orchestrator)

// WithModel overrides the config-created chat client.
func WithModel(m llm.Client) Option {
	return func(o *Orchestrator) { o.model = m }
}

// WithRegistry overrides the config-created session registry.
func WithRegistry(r *session.Registry) Option {
	return func(o *Orchestrator) { o.registry = r }
}

// WithRetriever overrides the config-created knowledge index.
func WithRetriever(r Retriever) Option {
	return func(o *Orchestrator) {
		o.knowledge = r
		o.index = nil
	}
}

// WithSynthesizer overrides the config-created speech synthesizer.
func WithSynthesizer(s Synthesizer) Option {
	return func(o *Orchestrator) { o.synth = s }
}

// WithObserver overrides the default no-op observer.
func WithObserver(obs observability.Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// Orchestrator is the single state-transition function invoked per request.
type Orchestrator struct {
	registry  *session.Registry
	model     llm.Client
	knowledge Retriever
	synth     Synthesizer
	observer  observability.Observer

	index         *rag.Index // nil when the retriever was overridden
	questionLimit int
}

// New creates an Orchestrator from configuration. Subsystems are initialized
// from their config sections; functional options can override any of them
// for testing. The chat client requires an API key unless overridden.
func New(cfg *Config, opts ...Option) (*Orchestrator, error) {
	index := rag.NewIndex(&cfg.RAG)

	o := &Orchestrator{
		registry:      session.NewRegistry(&cfg.Session),
		knowledge:     index,
		index:         index,
		synth:         speech.NewSynthesizer(&cfg.Speech),
		observer:      observability.NoOpObserver{},
		questionLimit: cfg.QuestionLimit,
	}
	if o.questionLimit <= 0 {
		o.questionLimit = DefaultQuestionLimit
	}

	if cfg.LLM.APIKey != "" {
		model, err := llm.NewGroqClient(&cfg.LLM)
		if err != nil {
			return nil, err
		}
		o.model = model
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.model == nil {
		return nil, llm.ErrMissingAPIKey
	}
	return o, nil
}

// BuildKnowledge builds the knowledge index once, off the request path.
// Requests arriving before it completes get empty retrieval. A failed build
// leaves retrieval disabled for the process lifetime; the conversation
// itself is unaffected.
func (o *Orchestrator) BuildKnowledge(ctx context.Context) {
	if o.index == nil {
		return
	}
	if err := o.index.Build(ctx); err != nil {
		o.emit(ctx, EventKnowledgeFailed, slog.LevelWarn, map[string]any{"error": err.Error()})
		return
	}
	o.emit(ctx, EventKnowledgeReady, slog.LevelInfo, map[string]any{"fragments": o.index.Len()})
}

// RAGStatus returns the retrieval status string for the health endpoint.
func (o *Orchestrator) RAGStatus() string {
	return o.knowledge.Status()
}

// Close releases background resources (the registry's TTL sweeper).
func (o *Orchestrator) Close() {
	o.registry.Close()
}

// Start begins a new interview for the given session id, overwriting any
// existing session under the same id. The session becomes visible only
// after a successful greeting, so a failed start leaves no half-built state.
func (o *Orchestrator) Start(ctx context.Context, sessionID string, profile session.Profile) Reply {
	sess := session.New(sessionID, profile, o.model)

	greeting, err := sess.Start(ctx)
	if err != nil {
		o.emit(ctx, EventModelError, slog.LevelError, map[string]any{
			"session_id": sessionID,
			"phase":      "start",
			"error":      err.Error(),
		})
		return Reply{Text: ReplyErrorStart}
	}

	o.registry.Put(sess)
	o.emit(ctx, EventStart, slog.LevelInfo, map[string]any{
		"session_id": sessionID,
		"candidate":  profile.Name,
	})

	return Reply{Text: greeting, Audio: o.synth.Synthesize(ctx, greeting)}
}

// Chat advances the interview by one request: expired-session guard,
// already-concluded guard, closing review once the question limit is
// reached, otherwise one retrieval-augmented exchange.
func (o *Orchestrator) Chat(ctx context.Context, sessionID, message string) Reply {
	sess, ok := o.registry.Get(sessionID)
	if !ok {
		o.emit(ctx, EventSessionExpired, slog.LevelInfo, map[string]any{"session_id": sessionID})
		return Reply{Text: ReplySessionExpired}
	}

	if sess.Finished() {
		return Reply{Text: ReplyConcluded, Finished: true}
	}

	if sess.TurnsCompleted() >= o.questionLimit {
		return o.finish(ctx, sess)
	}

	slang := strings.Join(o.knowledge.Retrieve(ctx, message, 0), "\n")

	reply, err := sess.Respond(ctx, message, slang)
	if err != nil {
		o.emit(ctx, EventModelError, slog.LevelError, map[string]any{
			"session_id": sessionID,
			"phase":      "respond",
			"error":      err.Error(),
		})
		return Reply{Text: ReplyErrorChat}
	}

	count := sess.AdvanceTurn()
	audio := o.synth.Synthesize(ctx, reply)

	o.emit(ctx, EventTurn, slog.LevelInfo, map[string]any{
		"session_id":     sessionID,
		"question_count": count,
		"augmented":      slang != "",
		"audio_source":   audio.Source.String(),
	})

	return Reply{Text: reply, Audio: audio, QuestionCount: count}
}

func (o *Orchestrator) finish(ctx context.Context, sess *session.Session) Reply {
	review, err := sess.Finish(ctx)
	if err != nil {
		o.emit(ctx, EventModelError, slog.LevelError, map[string]any{
			"session_id": sess.ID(),
			"phase":      "finish",
			"error":      err.Error(),
		})
		return Reply{Text: ReplyErrorReview}
	}

	audio := o.synth.Synthesize(ctx, review)
	o.emit(ctx, EventFinish, slog.LevelInfo, map[string]any{
		"session_id":   sess.ID(),
		"audio_source": audio.Source.String(),
	})

	return Reply{Text: review, Audio: audio, Finished: true}
}

func (o *Orchestrator) emit(ctx context.Context, t observability.EventType, level slog.Level, data map[string]any) {
	o.observer.OnEvent(ctx, observability.Event{
		Type:   t,
		Level:  level,
		Time:   time.Now(),
		Source: "interview.Orchestrator",
		Data:   data,
	})
}
