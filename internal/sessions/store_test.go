package sessions_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/lexidrill/backend/internal/domain/quiz"
	"github.com/lexidrill/backend/internal/domain/word"
	"github.com/lexidrill/backend/internal/sessions"
)

func newStore(maxAge time.Duration) *sessions.Store {
	return sessions.New(maxAge, slog.New(slog.DiscardHandler))
}

func newSession(id string) *quiz.Session {
	questions := []quiz.Question{{
		Position: 1,
		WordID:   1,
		Text:     "apple",
		Options:  []string{"苹果", "香蕉"},
		Answer:   "苹果",
	}}
	return quiz.NewSession(id, "user-1", quiz.DirectionENToCN, word.Filter{}, questions)
}

func TestPutGetDelete(t *testing.T) {
	store := newStore(time.Hour)
	sess := newSession("s-1")

	store.Put(sess)

	got, err := store.Get("s-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ID != "s-1" {
		t.Errorf("expected session s-1, got %s", got.ID)
	}

	store.Delete("s-1")
	if _, err := store.Get("s-1"); !errors.Is(err, quiz.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGet_UnknownID(t *testing.T) {
	store := newStore(time.Hour)

	if _, err := store.Get("missing"); !errors.Is(err, quiz.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSweepExpired_RemovesOldSessionsOnly(t *testing.T) {
	store := newStore(time.Hour)

	old := newSession("old")
	old.CreatedAt = time.Now().Add(-2 * time.Hour)
	fresh := newSession("fresh")

	store.Put(old)
	store.Put(fresh)

	removed := store.SweepExpired(time.Now())
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, err := store.Get("old"); !errors.Is(err, quiz.ErrNotFound) {
		t.Errorf("expected expired session to be gone, got %v", err)
	}
	if _, err := store.Get("fresh"); err != nil {
		t.Errorf("expected fresh session to survive, got %v", err)
	}
}

func TestSweepExpired_IgnoresStatus(t *testing.T) {
	store := newStore(time.Hour)

	sess := newSession("closed")
	sess.CreatedAt = time.Now().Add(-3 * time.Hour)
	if _, err := sess.Close(time.Now()); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	store.Put(sess)

	if removed := store.SweepExpired(time.Now()); removed != 1 {
		t.Errorf("expected closed-but-expired session to be swept, removed=%d", removed)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := newStore(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("s-%d", n)
			store.Put(newSession(id))
			if _, err := store.Get(id); err != nil {
				t.Errorf("get %s: %v", id, err)
			}
			store.SweepExpired(time.Now())
		}(i)
	}
	wg.Wait()

	if store.Len() != 50 {
		t.Errorf("expected 50 sessions, got %d", store.Len())
	}
}

func TestRun_SweepsPeriodically(t *testing.T) {
	store := newStore(10 * time.Millisecond)

	old := newSession("stale")
	old.CreatedAt = time.Now().Add(-time.Minute)
	store.Put(old)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Run(ctx, 5*time.Millisecond)

	deadline := time.After(time.Second)
	for store.Len() > 0 {
		select {
		case <-deadline:
			t.Fatal("sweeper never removed the stale session")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
