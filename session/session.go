// Package session manages one candidate's interview conversation: the
// append-only transcript, the question counter, and the persona prompt that
// turns history into the next model call. The Registry owns all sessions.
package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/abhimanyu-1/Shibu-App/llm"
)

// Speaker identifies who produced a transcript turn.
type Speaker string

const (
	SpeakerCandidate Speaker = "candidate"
	SpeakerAgent     Speaker = "agent"
)

// Turn is one utterance in the transcript, stored in arrival order and never
// mutated afterwards.
type Turn struct {
	Speaker Speaker
	Text    string
}

// Profile holds the candidate details embedded into the persona prompt.
// All fields are caller-supplied strings, immutable for the session's life.
type Profile struct {
	Name       string
	Domain     string
	Age        string
	Experience string
}

// Session is the per-candidate conversation state machine:
// awaiting-first-input, then in progress for up to the question limit, then
// finished (absorbing). Turns are committed only after a successful model
// call, so a failed request can be retried without corrupting state. All
// methods are safe for concurrent use; request ordering across concurrent
// calls for the same session remains the caller's concern.
type Session struct {
	id      string
	profile Profile
	model   llm.Client

	mu         sync.Mutex
	turns      []Turn
	completed  int
	finished   bool
	lastActive time.Time
}

// New creates a Session with an empty transcript.
func New(id string, profile Profile, model llm.Client) *Session {
	return &Session{
		id:         id,
		profile:    profile,
		model:      model,
		lastActive: time.Now(),
	}
}

// ID returns the caller-supplied session identifier.
func (s *Session) ID() string { return s.id }

// Profile returns the candidate profile.
func (s *Session) Profile() Profile { return s.profile }

// Turns returns a defensive copy of the transcript.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.turns)
}

// TurnsCompleted returns the number of completed question/answer exchanges.
func (s *Session) TurnsCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// Finished reports whether the closing review has been delivered.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// AdvanceTurn increments the exchange counter. The orchestrator calls it
// after a successful non-final exchange so counting stays paired with the
// committed side effects.
func (s *Session) AdvanceTurn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed++
	return s.completed
}

// Start seeds the conversation: the fixed opening candidate line goes to the
// model with empty slang augmentation, and on success both the opening line
// and the greeting are committed as the first two turns.
func (s *Session) Start(ctx context.Context) (string, error) {
	return s.exchange(ctx, openingLine, "")
}

// Respond produces the next interviewer line for the candidate's message,
// seasoned with the retrieved slang context. It does not advance the
// exchange counter.
func (s *Session) Respond(ctx context.Context, userText, slang string) (string, error) {
	return s.exchange(ctx, userText, slang)
}

// Finish produces the scored closing review and marks the session finished.
// The finished flag flips exactly once; Finish on a finished session still
// only appends turns, callers guard the transition.
func (s *Session) Finish(ctx context.Context) (string, error) {
	review, err := s.exchange(ctx, closingInstruction, closingSlangHint)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.finished = true
	s.mu.Unlock()
	return review, nil
}

// exchange composes the prompt from an immutable snapshot, calls the model,
// and commits the candidate/agent turn pair only on success.
func (s *Session) exchange(ctx context.Context, input, slang string) (string, error) {
	s.mu.Lock()
	history := slices.Clone(s.turns)
	s.mu.Unlock()

	messages := Compose(s.profile, history, input, slang)
	reply, err := s.model.Complete(ctx, messages)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.turns = append(s.turns,
		Turn{Speaker: SpeakerCandidate, Text: input},
		Turn{Speaker: SpeakerAgent, Text: reply},
	)
	s.lastActive = time.Now()
	s.mu.Unlock()
	return reply, nil
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
