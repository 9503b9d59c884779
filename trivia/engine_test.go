package trivia

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/onnwee/trivia-tender/triviaapi"
)

type stubProvider struct {
	q           triviaapi.Question
	err         error
	gotCategory string
	calls       int
}

func (p *stubProvider) Fetch(_ context.Context, category string) (triviaapi.Question, error) {
	p.calls++
	p.gotCategory = category
	return p.q, p.err
}

func newTestEngine(t *testing.T, p Provider) *Engine {
	t.Helper()
	scores := OpenStore(filepath.Join(t.TempDir(), "leaderboard.json"))
	return NewEngine(p, NewRegistry(), scores, "!")
}

func TestStartTriviaOpensSession(t *testing.T) {
	p := &stubProvider{q: triviaapi.Question{Question: "What travels fastest?", Answer: "Light"}}
	e := newTestEngine(t, p)

	reply := e.StartTrivia(context.Background(), "room42", "science")
	if p.gotCategory != "science" {
		t.Errorf("provider got category %q, want science", p.gotCategory)
	}
	if !strings.Contains(reply, "Science") {
		t.Errorf("reply %q should contain title-cased category", reply)
	}
	if !strings.Contains(reply, "What travels fastest?") {
		t.Errorf("reply %q should contain the question", reply)
	}
	if !strings.Contains(reply, "!answer") {
		t.Errorf("reply %q should mention the answer command", reply)
	}

	s, ok := e.Sessions().Get("room42")
	if !ok {
		t.Fatal("no session after StartTrivia")
	}
	if s.Answer != "light" {
		t.Errorf("canonical answer = %q, want lower-cased light", s.Answer)
	}
	if s.Category != "science" {
		t.Errorf("category = %q, want science", s.Category)
	}
}

func TestStartTriviaDefaultsCategoryUnspecified(t *testing.T) {
	p := &stubProvider{q: triviaapi.Question{Question: "Q", Answer: "A"}}
	e := newTestEngine(t, p)

	reply := e.StartTrivia(context.Background(), "room", "")
	if p.gotCategory != "" {
		t.Errorf("provider should be called without category, got %q", p.gotCategory)
	}
	if !strings.Contains(reply, "Unspecified") {
		t.Errorf("reply %q should label category Unspecified", reply)
	}
	s, _ := e.Sessions().Get("room")
	if s.Category != CategoryUnspecified {
		t.Errorf("session category = %q, want %q", s.Category, CategoryUnspecified)
	}
}

func TestStartTriviaReplacesOpenSession(t *testing.T) {
	p := &stubProvider{q: triviaapi.Question{Question: "Q1", Answer: "first"}}
	e := newTestEngine(t, p)
	e.StartTrivia(context.Background(), "room", "")

	p.q = triviaapi.Question{Question: "Q2", Answer: "second"}
	e.StartTrivia(context.Background(), "room", "")

	s, _ := e.Sessions().Get("room")
	if s.Answer != "second" {
		t.Errorf("answer = %q, want second question's answer", s.Answer)
	}
	// The first question is gone for good: its answer counts nothing.
	reply := e.SubmitAnswer("room", "alice", "first")
	if !strings.Contains(reply, "Incorrect") {
		t.Errorf("reply = %q, old answer should no longer match", reply)
	}
}

func TestStartTriviaProviderFailures(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantReply string
	}{
		{"unavailable", triviaapi.ErrUnavailable, "Trivia API error"},
		{"no questions", triviaapi.ErrNoQuestions, "No trivia questions found"},
		{"malformed", triviaapi.ErrMalformed, "Unexpected trivia API response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, &stubProvider{err: tt.err})
			reply := e.StartTrivia(context.Background(), "room", "science")
			if !strings.Contains(reply, tt.wantReply) {
				t.Errorf("reply = %q, want it to contain %q", reply, tt.wantReply)
			}
			if _, ok := e.Sessions().Get("room"); ok {
				t.Error("session created despite provider failure")
			}
			if e.Scores().Players() != 0 {
				t.Error("leaderboard changed despite provider failure")
			}
		})
	}
}

func TestSubmitAnswerCorrectCaseInsensitive(t *testing.T) {
	p := &stubProvider{q: triviaapi.Question{Question: "Fastest thing?", Answer: "light"}}
	e := newTestEngine(t, p)
	e.StartTrivia(context.Background(), "room42", "science")

	reply := e.SubmitAnswer("room42", "player7", "LIGHT")
	if !strings.Contains(reply, "Correct") || !strings.Contains(reply, "light") {
		t.Errorf("reply = %q, want success revealing the answer", reply)
	}
	if top := e.Scores().Top(10); len(top) != 1 || top[0].Player != "player7" || top[0].Score != 1 {
		t.Errorf("Top(10) = %v, want player7 with score 1", e.Scores().Top(10))
	}
	if _, ok := e.Sessions().Get("room42"); ok {
		t.Error("session survived a correct answer")
	}
	if reply := e.Hint("room42"); !strings.Contains(reply, "No active trivia question") {
		t.Errorf("Hint after correct answer = %q, want no-active-question", reply)
	}
}

func TestSubmitAnswerIncorrectKeepsSession(t *testing.T) {
	p := &stubProvider{q: triviaapi.Question{Question: "Q", Answer: "light"}}
	e := newTestEngine(t, p)
	e.StartTrivia(context.Background(), "room", "")

	reply := e.SubmitAnswer("room", "alice", "dark")
	if !strings.Contains(reply, "Incorrect") {
		t.Errorf("reply = %q, want incorrect", reply)
	}
	if _, ok := e.Sessions().Get("room"); !ok {
		t.Error("incorrect answer removed the session")
	}
	if e.Scores().Players() != 0 {
		t.Error("incorrect answer changed the leaderboard")
	}

	// Anyone may retry; the question has no per-player exclusivity.
	if reply := e.SubmitAnswer("room", "bob", "light"); !strings.Contains(reply, "Correct") {
		t.Errorf("retry by another player = %q, want correct", reply)
	}
}

func TestSubmitAnswerNoSession(t *testing.T) {
	e := newTestEngine(t, &stubProvider{})
	reply := e.SubmitAnswer("room", "alice", "anything")
	if !strings.Contains(reply, "No active trivia question") {
		t.Errorf("reply = %q, want no-active-question", reply)
	}
}

func TestHintAfterStartAlwaysSucceeds(t *testing.T) {
	p := &stubProvider{q: triviaapi.Question{Question: "Q", Answer: "Europe"}}
	e := newTestEngine(t, p)
	e.StartTrivia(context.Background(), "room", "geography")

	want := "💡 Hint: The answer is 6 letters long, starts with 'E' and ends with 'E'."
	got := e.Hint("room")
	if got != want {
		t.Errorf("Hint = %q, want %q", got, want)
	}
	// Idempotent: a second hint is the same hint.
	if again := e.Hint("room"); again != got {
		t.Errorf("second Hint = %q, want %q", again, got)
	}
}

func TestLeaderboardFormatting(t *testing.T) {
	p := &stubProvider{q: triviaapi.Question{Question: "Q", Answer: "a"}}
	e := newTestEngine(t, p)

	if reply := e.Leaderboard(); !strings.Contains(reply, "No scores yet") {
		t.Errorf("empty leaderboard reply = %q", reply)
	}

	e.StartTrivia(context.Background(), "room", "")
	e.SubmitAnswer("room", "alice", "a")

	reply := e.Leaderboard()
	if !strings.Contains(reply, "@alice - 1 points") {
		t.Errorf("leaderboard reply = %q, want one row for alice with 1 point", reply)
	}
	if strings.Count(reply, "points") != 1 {
		t.Errorf("leaderboard reply = %q, want exactly one row", reply)
	}
}

func TestLeaderboardTruncatesToTen(t *testing.T) {
	p := &stubProvider{q: triviaapi.Question{Question: "Q", Answer: "a"}}
	e := newTestEngine(t, p)
	for i := 0; i < 12; i++ {
		e.StartTrivia(context.Background(), "room", "")
		e.SubmitAnswer("room", strings.Repeat("p", i+1), "a")
	}
	if got := strings.Count(e.Leaderboard(), "points"); got != 10 {
		t.Errorf("leaderboard rows = %d, want 10", got)
	}
}

func TestDailyTrivia(t *testing.T) {
	p := &stubProvider{q: triviaapi.Question{Question: "Daily Q?", Answer: "Yes"}}
	e := newTestEngine(t, p)

	reply := e.DailyTrivia(context.Background(), "mainroom")
	if !strings.Contains(reply, "Daily Trivia") || !strings.Contains(reply, "Daily Q?") {
		t.Errorf("reply = %q, want daily announcement with question", reply)
	}
	if p.gotCategory != "" {
		t.Errorf("daily fetch should not constrain category, got %q", p.gotCategory)
	}
	s, ok := e.Sessions().Get("mainroom")
	if !ok {
		t.Fatal("no session after DailyTrivia")
	}
	if s.Category != CategoryDaily {
		t.Errorf("category = %q, want %q", s.Category, CategoryDaily)
	}
	if s.Answer != "yes" {
		t.Errorf("answer = %q, want lower-cased yes", s.Answer)
	}
}

func TestDailyTriviaProviderFailure(t *testing.T) {
	e := newTestEngine(t, &stubProvider{err: triviaapi.ErrUnavailable})
	reply := e.DailyTrivia(context.Background(), "mainroom")
	if !strings.Contains(reply, "Trivia API error") {
		t.Errorf("reply = %q, want provider error report", reply)
	}
	if _, ok := e.Sessions().Get("mainroom"); ok {
		t.Error("session created despite provider failure")
	}
}

// alternatingProvider serves questions whose answers cycle, so a replaced
// session never shares an answer with its replacement.
type alternatingProvider struct {
	mu      sync.Mutex
	n       int
	answers []string
}

func (p *alternatingProvider) Fetch(context.Context, string) (triviaapi.Question, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	a := p.answers[p.n%len(p.answers)]
	p.n++
	return triviaapi.Question{Question: "Q", Answer: a}, nil
}

func TestSubmitAnswerNeverResolvesReplacedSession(t *testing.T) {
	e := newTestEngine(t, &alternatingProvider{answers: []string{"one", "two"}})
	ctx := context.Background()
	e.StartTrivia(ctx, "room", "")

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				e.StartTrivia(ctx, "room", "")
			}
		}
	}()

	// A submission of "one" may win or lose depending on timing, but a win
	// must always reveal "one": crediting it against a session whose answer
	// is "two" would retire a question nobody answered and leak its answer.
	for i := 0; i < 2000; i++ {
		reply := e.SubmitAnswer("room", "alice", "one")
		if strings.Contains(reply, "Correct") && !strings.Contains(reply, "one") {
			t.Fatalf("iteration %d: submission of one resolved another session: %q", i, reply)
		}
	}
	close(stop)
	wg.Wait()
}

func TestPlaceholderAnswerStillPlayable(t *testing.T) {
	// Provider substitutes placeholders for missing fields; the session must
	// still behave like any other question.
	p := &stubProvider{q: triviaapi.Question{Question: triviaapi.PlaceholderQuestion, Answer: triviaapi.PlaceholderAnswer}}
	e := newTestEngine(t, p)
	e.StartTrivia(context.Background(), "room", "")
	if reply := e.SubmitAnswer("room", "alice", "no answer found."); !strings.Contains(reply, "Correct") {
		t.Errorf("reply = %q, placeholder answer should match case-insensitively", reply)
	}
}
