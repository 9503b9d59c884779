package trivia

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRegistryStartGetResolve(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Get("chan1"); ok {
		t.Fatal("expected no session before Start")
	}

	r.Start(&Session{Channel: "chan1", Question: "Q1", Answer: "a1", Category: "history"})
	s, ok := r.Get("chan1")
	if !ok {
		t.Fatal("expected session after Start")
	}
	if s.Question != "Q1" || s.Answer != "a1" {
		t.Errorf("unexpected session %+v", s)
	}

	// Get must not remove.
	if _, ok := r.Get("chan1"); !ok {
		t.Error("Get removed the session")
	}

	s, ok = r.Resolve("chan1")
	if !ok || s.Question != "Q1" {
		t.Fatalf("Resolve = %+v, %v", s, ok)
	}
	if _, ok := r.Get("chan1"); ok {
		t.Error("session still present after Resolve")
	}
	if _, ok := r.Resolve("chan1"); ok {
		t.Error("second Resolve should find nothing")
	}
}

func TestRegistryStartOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Start(&Session{Channel: "chan1", Question: "old", Answer: "old"})
	r.Start(&Session{Channel: "chan1", Question: "new", Answer: "new"})

	if r.Active() != 1 {
		t.Fatalf("Active() = %d, want 1", r.Active())
	}
	s, _ := r.Get("chan1")
	if s.Question != "new" {
		t.Errorf("Question = %q, want new", s.Question)
	}
}

func TestRegistryChannelsAreIsolated(t *testing.T) {
	r := NewRegistry()
	r.Start(&Session{Channel: "a", Question: "qa", Answer: "x"})
	r.Start(&Session{Channel: "b", Question: "qb", Answer: "y"})

	if _, ok := r.Resolve("a"); !ok {
		t.Fatal("missing session for a")
	}
	if _, ok := r.Get("b"); !ok {
		t.Error("resolving a removed b's session")
	}
}

func TestRegistryResolveIfOnlyRemovesSameSession(t *testing.T) {
	r := NewRegistry()

	if r.ResolveIf("chan1", &Session{Channel: "chan1"}) {
		t.Error("ResolveIf succeeded with no session present")
	}

	old := &Session{Channel: "chan1", Question: "old", Answer: "old"}
	r.Start(old)
	replacement := &Session{Channel: "chan1", Question: "new", Answer: "new"}
	r.Start(replacement)

	if r.ResolveIf("chan1", old) {
		t.Fatal("ResolveIf removed a session that had been replaced")
	}
	if s, ok := r.Get("chan1"); !ok || s != replacement {
		t.Fatal("replacement session disturbed by stale ResolveIf")
	}

	if !r.ResolveIf("chan1", replacement) {
		t.Fatal("ResolveIf refused the current session")
	}
	if _, ok := r.Get("chan1"); ok {
		t.Error("session still present after ResolveIf")
	}
}

func TestRegistryResolveHasOneWinner(t *testing.T) {
	r := NewRegistry()
	r.Start(&Session{Channel: "chan1", Question: "Q", Answer: "a"})

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := r.Resolve("chan1"); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	if wins.Load() != 1 {
		t.Fatalf("Resolve winners = %d, want exactly 1", wins.Load())
	}
}

func TestRegistryConcurrentStarts(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Start(&Session{Channel: "chan1", Question: fmt.Sprintf("q-%d-%d", n, j), Answer: "a"})
			}
		}(i)
	}
	wg.Wait()
	if r.Active() != 1 {
		t.Fatalf("Active() = %d, want 1 after concurrent starts on one channel", r.Active())
	}
}
