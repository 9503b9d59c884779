// Package trivia implements the trivia game core: one active question per
// channel, case-insensitive answer matching, a persistent leaderboard and the
// daily broadcast question. All operations are synchronous and safe for
// concurrent use; replies are returned as ready-to-send chat lines.
package trivia

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/onnwee/trivia-tender/telemetry"
	"github.com/onnwee/trivia-tender/triviaapi"
)

// Category labels used when the player did not pick one.
const (
	CategoryUnspecified = "unspecified"
	CategoryDaily       = "daily"
)

// Provider supplies one question/answer pair, optionally for a category.
// *triviaapi.Client satisfies it.
type Provider interface {
	Fetch(ctx context.Context, category string) (triviaapi.Question, error)
}

// Engine orchestrates the provider, the session registry and the leaderboard.
type Engine struct {
	provider Provider
	sessions *Registry
	scores   *Store
	prefix   string
}

func NewEngine(provider Provider, sessions *Registry, scores *Store, commandPrefix string) *Engine {
	telemetry.Init()
	return &Engine{provider: provider, sessions: sessions, scores: scores, prefix: commandPrefix}
}

// Sessions exposes the registry for status reporting.
func (e *Engine) Sessions() *Registry { return e.sessions }

// Scores exposes the leaderboard store for status reporting and the HTTP API.
func (e *Engine) Scores() *Store { return e.scores }

// StartTrivia fetches a question and opens a session for the channel,
// replacing any unanswered one. Provider failures are reported in the reply
// and leave no session behind; there are no retries.
func (e *Engine) StartTrivia(ctx context.Context, channel, category string) string {
	label := category
	if label == "" {
		label = CategoryUnspecified
	}
	q, errReply := e.fetch(ctx, channel, category, label)
	if errReply != "" {
		return errReply
	}
	return fmt.Sprintf("🎲 Category: %s ❓ Question: %s (type %sanswer <your answer> to respond!)",
		capitalize(label), q.Question, e.prefix)
}

// DailyTrivia is the timer-invoked variant of StartTrivia: category is always
// unconstrained but labeled "daily", and failures are still returned as a chat
// line because there is no caller to hand an error to.
func (e *Engine) DailyTrivia(ctx context.Context, channel string) string {
	q, errReply := e.fetch(ctx, channel, "", CategoryDaily)
	if errReply != "" {
		return errReply
	}
	telemetry.DailyBroadcasts.Inc()
	return fmt.Sprintf("📅 Daily Trivia ❓ Question: %s (type %sanswer <your answer> to respond!)",
		q.Question, e.prefix)
}

// fetch pulls a question, installs the session and returns it. On failure the
// second return value carries the user-facing error line.
func (e *Engine) fetch(ctx context.Context, channel, category, label string) (triviaapi.Question, string) {
	q, err := e.provider.Fetch(ctx, category)
	if err != nil {
		telemetry.ProviderErrors.Inc()
		slog.Warn("trivia fetch failed", slog.String("channel", channel), slog.String("category", label), slog.Any("err", err))
		switch {
		case errors.Is(err, triviaapi.ErrNoQuestions):
			return triviaapi.Question{}, fmt.Sprintf("⚠ No trivia questions found for '%s'. Try another category.", label)
		case errors.Is(err, triviaapi.ErrMalformed):
			return triviaapi.Question{}, "⚠ Unexpected trivia API response format. Try again later."
		default:
			return triviaapi.Question{}, fmt.Sprintf("❌ Trivia API error: %v", err)
		}
	}
	e.sessions.Start(&Session{
		Channel:  channel,
		Question: q.Question,
		Answer:   strings.ToLower(q.Answer),
		Category: label,
	})
	telemetry.QuestionsServed.Inc()
	return q, ""
}

// SubmitAnswer checks a player's answer against the channel's open question.
// A correct answer retires the session and credits the player exactly one
// point, persisted before the reply is produced. Incorrect answers leave the
// session open for anyone to retry.
func (e *Engine) SubmitAnswer(channel, player, text string) string {
	s, ok := e.sessions.Get(channel)
	if !ok {
		return e.noActiveQuestion()
	}
	if strings.ToLower(text) != s.Answer {
		telemetry.AnswersIncorrect.Inc()
		return "❌ Incorrect! Try again."
	}
	// Remove only the session we matched: since Get it may have been won by
	// another player or replaced by a new question.
	if !e.sessions.ResolveIf(channel, s) {
		return e.noActiveQuestion()
	}
	telemetry.AnswersCorrect.Inc()
	score, err := e.scores.Increment(player)
	if err != nil {
		slog.Error("leaderboard save failed", slog.String("player", player), slog.Any("err", err))
	}
	slog.Info("correct answer", slog.String("channel", channel), slog.String("player", player), slog.Int("score", score))
	return fmt.Sprintf("✅ Correct, @%s! 🎉 The answer was: %s", player, s.Answer)
}

// Hint describes the open question's answer without revealing it: length,
// first and last letter. Idempotent; asking twice costs nothing.
func (e *Engine) Hint(channel string) string {
	s, ok := e.sessions.Get(channel)
	if !ok {
		return e.noActiveQuestion()
	}
	telemetry.HintsServed.Inc()
	runes := []rune(s.Answer)
	first := strings.ToUpper(string(runes[0]))
	last := strings.ToUpper(string(runes[len(runes)-1]))
	return fmt.Sprintf("💡 Hint: The answer is %d letters long, starts with '%s' and ends with '%s'.", len(runes), first, last)
}

// Leaderboard formats the top ten players, highest score first.
func (e *Engine) Leaderboard() string {
	top := e.scores.Top(10)
	if len(top) == 0 {
		return fmt.Sprintf("🏆 No scores yet! Start playing with %strivia [category]!", e.prefix)
	}
	rows := make([]string, 0, len(top))
	for _, entry := range top {
		rows = append(rows, fmt.Sprintf("@%s - %d points", entry.Player, entry.Score))
	}
	return "📊 Leaderboard: " + strings.Join(rows, " | ")
}

func (e *Engine) noActiveQuestion() string {
	return fmt.Sprintf("⚠ No active trivia question! Use %strivia [category] to start.", e.prefix)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
