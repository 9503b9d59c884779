package trivia

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Store is the persistent leaderboard: player name -> cumulative correct answers.
// The whole table is rewritten to disk on every increment; the dataset is a bot
// leaderboard, so a full rewrite per mutation is the accepted tradeoff.
type Store struct {
	path string

	mu     sync.RWMutex
	scores map[string]int
}

// Entry is one leaderboard row.
type Entry struct {
	Player string `json:"player"`
	Score  int    `json:"score"`
}

// OpenStore loads the leaderboard file at path. A missing or unparsable file
// degrades to an empty leaderboard, never a startup failure.
func OpenStore(path string) *Store {
	s := &Store{path: path, scores: make(map[string]int)}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("leaderboard file unreadable; starting empty", slog.String("path", path), slog.Any("err", err))
		}
		return s
	}
	if err := json.Unmarshal(data, &s.scores); err != nil {
		slog.Warn("leaderboard file corrupt; starting empty", slog.String("path", path), slog.Any("err", err))
		s.scores = make(map[string]int)
	}
	return s
}

// Increment bumps a player's score by one and flushes the table to disk before
// returning. The in-memory score is bumped even when the flush fails, so a
// correct answer is never counted twice or rolled back; the caller decides how
// loudly to report the persistence error.
func (s *Store) Increment(player string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[player]++
	n := s.scores[player]
	if err := s.persist(); err != nil {
		return n, fmt.Errorf("persist leaderboard: %w", err)
	}
	return n, nil
}

// persist writes the table via a temp file + rename so readers never observe a
// partial write. Caller must hold s.mu.
func (s *Store) persist() error {
	data, err := json.Marshal(s.scores)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".leaderboard-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Top returns up to n entries ordered by score descending. Ties are broken by
// player name ascending so output is stable for a given snapshot.
func (s *Store) Top(n int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]Entry, 0, len(s.scores))
	for player, score := range s.scores {
		entries = append(entries, Entry{Player: player, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Player < entries[j].Player
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Players returns the number of players with a recorded score.
func (s *Store) Players() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scores)
}
