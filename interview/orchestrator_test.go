package interview_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abhimanyu-1/Shibu-App/interview"
	"github.com/abhimanyu-1/Shibu-App/llm"
	"github.com/abhimanyu-1/Shibu-App/session"
	"github.com/abhimanyu-1/Shibu-App/speech"
)

// scriptedModel returns canned completions in order and records every prompt
// it receives.
type scriptedModel struct {
	replies []string
	err     error
	calls   [][]llm.Message
}

func (m *scriptedModel) Complete(_ context.Context, msgs []llm.Message) (string, error) {
	m.calls = append(m.calls, msgs)
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "default reply", nil
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return reply, nil
}

type stubRetriever struct {
	fragments []string
	queries   []string
}

func (r *stubRetriever) Retrieve(_ context.Context, query string, _ int) []string {
	r.queries = append(r.queries, query)
	return r.fragments
}

func (r *stubRetriever) Status() string { return "ready" }

type stubSynth struct {
	result speech.Result
	texts  []string
}

func (s *stubSynth) Synthesize(_ context.Context, text string) speech.Result {
	s.texts = append(s.texts, text)
	return s.result
}

func newTestOrchestrator(t *testing.T, model llm.Client, opts ...interview.Option) *interview.Orchestrator {
	t.Helper()
	cfg := interview.DefaultConfig()
	cfg.Session.TTLMinutes = -1

	all := append([]interview.Option{
		interview.WithModel(model),
		interview.WithRetriever(&stubRetriever{}),
		interview.WithSynthesizer(&stubSynth{}),
	}, opts...)

	orch, err := interview.New(&cfg, all...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(orch.Close)
	return orch
}

func TestNewRequiresModel(t *testing.T) {
	cfg := interview.DefaultConfig()
	cfg.Session.TTLMinutes = -1
	if _, err := interview.New(&cfg); err == nil {
		t.Fatal("New without an API key or model override must fail")
	}
}

func TestStartGreetsAndRegisters(t *testing.T) {
	model := &scriptedModel{replies: []string{"Aah, welcome! Tell me about yourself."}}
	synth := &stubSynth{result: speech.Result{Audio: []byte("mp3"), Source: speech.SourcePrimary}}
	orch := newTestOrchestrator(t, model, interview.WithSynthesizer(synth))

	reply := orch.Start(context.Background(), "s1", session.Profile{Name: "Anu", Domain: "backend"})

	if reply.Text != "Aah, welcome! Tell me about yourself." {
		t.Errorf("Text = %q", reply.Text)
	}
	if reply.Finished {
		t.Error("Start must not finish the interview")
	}
	if reply.Audio.Source != speech.SourcePrimary {
		t.Errorf("Audio.Source = %v", reply.Audio.Source)
	}
	if len(synth.texts) != 1 || synth.texts[0] != reply.Text {
		t.Errorf("synthesized %v, want the greeting", synth.texts)
	}

	// The session is live: a follow-up chat must not see it as expired.
	model.replies = []string{"Good. Next question."}
	next := orch.Chat(context.Background(), "s1", "I build Go services.")
	if next.Text == interview.ReplySessionExpired {
		t.Fatal("session was not registered after a successful start")
	}
}

func TestStartFailureRegistersNothing(t *testing.T) {
	model := &scriptedModel{err: errors.New("upstream down")}
	synth := &stubSynth{}
	orch := newTestOrchestrator(t, model, interview.WithSynthesizer(synth))

	reply := orch.Start(context.Background(), "s1", session.Profile{Name: "Anu"})

	if reply.Text != interview.ReplyErrorStart {
		t.Errorf("Text = %q, want %q", reply.Text, interview.ReplyErrorStart)
	}
	if len(synth.texts) != 0 {
		t.Error("error replies must not be synthesized")
	}

	model.err = nil
	if got := orch.Chat(context.Background(), "s1", "hello"); got.Text != interview.ReplySessionExpired {
		t.Errorf("failed start leaked a session: Chat = %q", got.Text)
	}
}

func TestChatUnknownSessionExpired(t *testing.T) {
	orch := newTestOrchestrator(t, &scriptedModel{})

	reply := orch.Chat(context.Background(), "nope", "hello")
	if reply.Text != interview.ReplySessionExpired {
		t.Errorf("Text = %q, want %q", reply.Text, interview.ReplySessionExpired)
	}
	if reply.Finished {
		t.Error("expired reply must not be marked finished")
	}
}

func TestChatCountsQuestionsAndFinishes(t *testing.T) {
	model := &scriptedModel{}
	retr := &stubRetriever{fragments: []string{"Pwoli means awesome", "Shokam means sad"}}
	orch := newTestOrchestrator(t, model, interview.WithRetriever(retr))

	orch.Start(context.Background(), "s1", session.Profile{Name: "Anu"})

	for i := 1; i <= 5; i++ {
		reply := orch.Chat(context.Background(), "s1", "answer")
		if reply.Finished {
			t.Fatalf("exchange %d marked finished early", i)
		}
		if reply.QuestionCount != i {
			t.Fatalf("exchange %d: QuestionCount = %d", i, reply.QuestionCount)
		}
	}

	final := orch.Chat(context.Background(), "s1", "last answer")
	if !final.Finished {
		t.Fatal("sixth exchange must deliver the closing review")
	}

	// The closing prompt carries the review instruction, not the user text.
	last := model.calls[len(model.calls)-1]
	closing := last[len(last)-1].Content
	if !strings.Contains(closing, "Score out of 10") {
		t.Errorf("closing input = %q, want the review instruction", closing)
	}
}

func TestChatAugmentsPromptWithRetrieval(t *testing.T) {
	model := &scriptedModel{}
	retr := &stubRetriever{fragments: []string{"Pwoli means awesome", "Adipoli means excellent"}}
	orch := newTestOrchestrator(t, model, interview.WithRetriever(retr))

	orch.Start(context.Background(), "s1", session.Profile{Name: "Anu"})
	orch.Chat(context.Background(), "s1", "I did pwoli work at my last job")

	if len(retr.queries) != 1 || retr.queries[0] != "I did pwoli work at my last job" {
		t.Fatalf("retriever queries = %v", retr.queries)
	}

	prompt := model.calls[len(model.calls)-1]
	system := prompt[0].Content
	if !strings.Contains(system, "Pwoli means awesome\nAdipoli means excellent") {
		t.Errorf("system prompt missing joined fragments:\n%s", system)
	}
}

func TestChatEmptyRetrievalStillAnswers(t *testing.T) {
	orch := newTestOrchestrator(t, &scriptedModel{replies: []string{"greeting", "answer one"}})

	orch.Start(context.Background(), "s1", session.Profile{Name: "Anu"})
	reply := orch.Chat(context.Background(), "s1", "hello")

	if reply.Text != "answer one" {
		t.Errorf("Text = %q", reply.Text)
	}
	if reply.QuestionCount != 1 {
		t.Errorf("QuestionCount = %d", reply.QuestionCount)
	}
}

func TestChatModelFailureLeavesCounterUntouched(t *testing.T) {
	model := &scriptedModel{}
	orch := newTestOrchestrator(t, model)

	orch.Start(context.Background(), "s1", session.Profile{Name: "Anu"})

	model.err = errors.New("rate limited")
	reply := orch.Chat(context.Background(), "s1", "answer")
	if reply.Text != interview.ReplyErrorChat {
		t.Errorf("Text = %q, want %q", reply.Text, interview.ReplyErrorChat)
	}
	if reply.QuestionCount != 0 {
		t.Errorf("failed exchange reported QuestionCount = %d", reply.QuestionCount)
	}

	model.err = nil
	retry := orch.Chat(context.Background(), "s1", "answer")
	if retry.QuestionCount != 1 {
		t.Errorf("retry QuestionCount = %d, want 1", retry.QuestionCount)
	}
}

func TestChatReviewFailureKeepsSessionOpen(t *testing.T) {
	model := &scriptedModel{}
	orch := newTestOrchestrator(t, model)

	orch.Start(context.Background(), "s1", session.Profile{Name: "Anu"})
	for i := 0; i < 5; i++ {
		orch.Chat(context.Background(), "s1", "answer")
	}

	model.err = errors.New("upstream down")
	reply := orch.Chat(context.Background(), "s1", "last answer")
	if reply.Text != interview.ReplyErrorReview {
		t.Errorf("Text = %q, want %q", reply.Text, interview.ReplyErrorReview)
	}
	if reply.Finished {
		t.Error("failed review must not conclude the interview")
	}

	model.err = nil
	retry := orch.Chat(context.Background(), "s1", "last answer")
	if !retry.Finished {
		t.Error("retry after a failed review must deliver the closing review")
	}
}

func TestChatAfterConclusionIsStatic(t *testing.T) {
	model := &scriptedModel{}
	orch := newTestOrchestrator(t, model)

	orch.Start(context.Background(), "s1", session.Profile{Name: "Anu"})
	for i := 0; i < 6; i++ {
		orch.Chat(context.Background(), "s1", "answer")
	}
	callsAfterReview := len(model.calls)

	reply := orch.Chat(context.Background(), "s1", "one more thing")
	if reply.Text != interview.ReplyConcluded {
		t.Errorf("Text = %q, want %q", reply.Text, interview.ReplyConcluded)
	}
	if !reply.Finished {
		t.Error("concluded reply must be marked finished")
	}
	if len(model.calls) != callsAfterReview {
		t.Error("a concluded interview must not call the model again")
	}
}

func TestChatAudioIsBestEffort(t *testing.T) {
	synth := &stubSynth{result: speech.Result{Source: speech.SourceNone}}
	orch := newTestOrchestrator(t, &scriptedModel{}, interview.WithSynthesizer(synth))

	orch.Start(context.Background(), "s1", session.Profile{Name: "Anu"})
	reply := orch.Chat(context.Background(), "s1", "answer")

	if reply.Text == "" {
		t.Fatal("text reply must survive a silent synthesizer")
	}
	if reply.Audio.Source != speech.SourceNone || reply.Audio.Audio != nil {
		t.Errorf("Audio = %+v, want none", reply.Audio)
	}
}
