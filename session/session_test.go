package session_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abhimanyu-1/Shibu-App/llm"
	"github.com/abhimanyu-1/Shibu-App/session"
)

// scriptedModel returns canned replies in order and records every request.
type scriptedModel struct {
	replies  []string
	err      error
	requests [][]llm.Message
}

func (m *scriptedModel) Complete(_ context.Context, messages []llm.Message) (string, error) {
	m.requests = append(m.requests, messages)
	if m.err != nil {
		return "", m.err
	}
	i := len(m.requests) - 1
	if i >= len(m.replies) {
		return "", errors.New("no more scripted replies")
	}
	return m.replies[i], nil
}

func testProfile() session.Profile {
	return session.Profile{Name: "Anu", Domain: "backend", Age: "24", Experience: "2"}
}

func TestStartCommitsOpeningExchange(t *testing.T) {
	model := &scriptedModel{replies: []string{"Welcome! Introduce yourself."}}
	sess := session.New("s1", testProfile(), model)

	greeting, err := sess.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if greeting != "Welcome! Introduce yourself." {
		t.Errorf("greeting = %q", greeting)
	}

	turns := sess.Turns()
	if len(turns) != 2 {
		t.Fatalf("transcript length = %d, want 2 (opening line + greeting)", len(turns))
	}
	if turns[0].Speaker != session.SpeakerCandidate || turns[1].Speaker != session.SpeakerAgent {
		t.Errorf("turn speakers = %v, %v", turns[0].Speaker, turns[1].Speaker)
	}
	if sess.TurnsCompleted() != 0 {
		t.Errorf("TurnsCompleted = %d, want 0 after Start", sess.TurnsCompleted())
	}
	if sess.Finished() {
		t.Error("session must not be finished after Start")
	}
}

func TestRespondCommitsBothTurnsAndTranscriptGrows(t *testing.T) {
	model := &scriptedModel{replies: []string{"Greeting", "Q1", "Q2", "Q3"}}
	sess := session.New("s1", testProfile(), model)

	if _, err := sess.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	answers := []string{"I am Anu", "I like Go", "I built an API"}
	for n, answer := range answers {
		if _, err := sess.Respond(context.Background(), answer, ""); err != nil {
			t.Fatalf("Respond %d: %v", n+1, err)
		}
		sess.AdvanceTurn()

		if got, want := len(sess.Turns()), 2*(n+2); got != want {
			t.Errorf("after %d exchanges transcript length = %d, want %d", n+1, got, want)
		}
		if got := sess.TurnsCompleted(); got != n+1 {
			t.Errorf("TurnsCompleted = %d, want %d", got, n+1)
		}
	}
}

func TestRespondFailureLeavesStateUnchanged(t *testing.T) {
	model := &scriptedModel{replies: []string{"Greeting"}}
	sess := session.New("s1", testProfile(), model)
	if _, err := sess.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	model.err = errors.New("model over capacity")
	if _, err := sess.Respond(context.Background(), "my answer", "slang"); err == nil {
		t.Fatal("Respond should surface model errors")
	}

	if got := len(sess.Turns()); got != 2 {
		t.Errorf("transcript length = %d after failure, want 2", got)
	}
	if sess.TurnsCompleted() != 0 {
		t.Errorf("TurnsCompleted = %d after failure, want 0", sess.TurnsCompleted())
	}

	// Same request must be retryable once the model recovers.
	model.err = nil
	model.replies = append(model.replies, "", "Q1")
	if _, err := sess.Respond(context.Background(), "my answer", "slang"); err != nil {
		t.Fatalf("retry Respond: %v", err)
	}
	if got := len(sess.Turns()); got != 4 {
		t.Errorf("transcript length = %d after retry, want 4", got)
	}
}

func TestFinishMarksSessionFinished(t *testing.T) {
	model := &scriptedModel{replies: []string{"Greeting", "Review: 7/10. Pwoli. Goodbye."}}
	sess := session.New("s1", testProfile(), model)
	if _, err := sess.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	review, err := sess.Finish(context.Background())
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if !strings.Contains(review, "7/10") {
		t.Errorf("review = %q", review)
	}
	if !sess.Finished() {
		t.Error("Finished = false after Finish")
	}

	// The closing instruction steers toward a scored goodbye.
	last := model.requests[len(model.requests)-1]
	finalInput := last[len(last)-1].Content
	if !strings.Contains(finalInput, "Score out of 10") {
		t.Errorf("final input = %q, want closing instruction", finalInput)
	}
}

func TestFinishFailureLeavesSessionUnfinished(t *testing.T) {
	model := &scriptedModel{replies: []string{"Greeting"}}
	sess := session.New("s1", testProfile(), model)
	if _, err := sess.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	model.err = errors.New("down")
	if _, err := sess.Finish(context.Background()); err == nil {
		t.Fatal("Finish should surface model errors")
	}
	if sess.Finished() {
		t.Error("session must stay unfinished after a failed review")
	}
}

func TestComposePersonaAndRoles(t *testing.T) {
	history := []session.Turn{
		{Speaker: session.SpeakerCandidate, Text: "Hello."},
		{Speaker: session.SpeakerAgent, Text: "Introduce yourself."},
	}

	messages := session.Compose(testProfile(), history, "I am Anu.", "Adipoli - excellent")

	if len(messages) != 4 {
		t.Fatalf("message count = %d, want 4", len(messages))
	}
	system := messages[0]
	if system.Role != llm.RoleSystem {
		t.Fatalf("first message role = %q", system.Role)
	}
	for _, want := range []string{"Shibu", "Candidate Name: Anu", "Domain: backend", "Adipoli - excellent"} {
		if !strings.Contains(system.Content, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if messages[1].Role != llm.RoleUser || messages[2].Role != llm.RoleAssistant {
		t.Errorf("history roles = %q, %q", messages[1].Role, messages[2].Role)
	}
	if messages[3].Role != llm.RoleUser || messages[3].Content != "I am Anu." {
		t.Errorf("latest input = %+v", messages[3])
	}
}

func TestComposeEmptySlangUsesPlaceholder(t *testing.T) {
	messages := session.Compose(testProfile(), nil, "Hello.", "  ")
	if !strings.Contains(messages[0].Content, "No specific slang needed yet.") {
		t.Errorf("system prompt should carry the empty-slang placeholder:\n%s", messages[0].Content)
	}
}
