// Package triviaapi contains a minimal client for the API-Ninjas trivia endpoint,
// which returns an array of question/answer objects per request.
package triviaapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

var (
	// ErrUnavailable covers network failures, timeouts and non-200 responses.
	ErrUnavailable = errors.New("trivia api unavailable")
	// ErrNoQuestions means the API answered 200 with an empty question list.
	ErrNoQuestions = errors.New("no trivia questions found")
	// ErrMalformed means the payload could not be decoded as a question list.
	ErrMalformed = errors.New("malformed trivia api response")
)

// Placeholders substituted when a question object is missing a field.
const (
	PlaceholderQuestion = "No question found."
	PlaceholderAnswer   = "No answer found."
)

// Question is one question/answer pair as served by the API.
type Question struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

// Client calls the trivia API. The zero value is not usable; set APIKey and BaseURL
// (config.Load provides both). HTTPClient is injectable for tests.
type Client struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func (c *Client) http() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// Fetch requests a single trivia question, optionally constrained to a category.
// Missing question/answer fields degrade to placeholder text rather than an error.
func (c *Client) Fetch(ctx context.Context, category string) (Question, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		return Question{}, fmt.Errorf("build trivia request: %w", err)
	}
	if category != "" {
		q := req.URL.Query()
		q.Set("category", category)
		req.URL.RawQuery = q.Encode()
	}
	req.Header.Set("X-Api-Key", c.APIKey)

	resp, err := c.http().Do(req)
	if err != nil {
		return Question{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Question{}, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Question{}, fmt.Errorf("%w: %s: %s", ErrUnavailable, resp.Status, string(body))
	}

	var items []Question
	if err := json.Unmarshal(body, &items); err != nil {
		return Question{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(items) == 0 {
		return Question{}, ErrNoQuestions
	}

	q := items[0]
	if q.Question == "" {
		q.Question = PlaceholderQuestion
	}
	if q.Answer == "" {
		q.Answer = PlaceholderAnswer
	}
	return q, nil
}
