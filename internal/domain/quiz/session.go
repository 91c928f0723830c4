package quiz

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lexidrill/backend/internal/domain/word"
)

// Status is the lifecycle state of a session. There are exactly two:
// a session opens, and it closes once. The only other way out is the
// expiry sweep, which removes it from the store entirely.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Session is one in-flight or completed quiz attempt. The question list
// is fixed at creation; answers and the status transition are guarded by
// the session's own mutex so concurrent submits and a finish on the same
// session serialize.
type Session struct {
	ID        string
	UserID    string
	Direction Direction
	Filter    word.Filter
	Questions []Question
	CreatedAt time.Time
	RetryOf   int64 // id of the result record this retries, 0 otherwise

	mu       sync.Mutex
	status   Status
	answers  map[int]string // question position → submitted answer
	outcome  *Outcome       // set once, at the close transition
	recordID int64          // durable record id, 0 if the sink write failed
}

// NewSession creates an open session over a fixed, non-empty question list.
func NewSession(id, userID string, dir Direction, f word.Filter, questions []Question) *Session {
	return &Session{
		ID:        id,
		UserID:    userID,
		Direction: dir,
		Filter:    f,
		Questions: questions,
		CreatedAt: time.Now(),
		status:    StatusOpen,
		answers:   make(map[int]string),
	}
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// IsRetry reports whether this session was derived from a prior result.
func (s *Session) IsRetry() bool {
	return s.RetryOf != 0
}

// Submit records an answer for the question at the given 1-based
// position. Resubmitting overwrites the previous answer. Answers are
// only accepted while the session is open.
func (s *Session) Submit(position int, answer string) error {
	if position < 1 || position > len(s.Questions) {
		return fmt.Errorf("%w: question position %d out of range", ErrValidation, position)
	}
	if strings.TrimSpace(answer) == "" {
		return fmt.Errorf("%w: answer must not be blank", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusOpen {
		return ErrAlreadyClosed
	}
	s.answers[position] = answer
	return nil
}

// Answer returns the submitted answer for a position, if any.
func (s *Session) Answer(position int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.answers[position]
	return a, ok
}

// Outcome is the score computed when a session closes.
type Outcome struct {
	TotalQuestions int
	Correct        int
	WrongWordIDs   []int64
	Duration       int // seconds from creation to close
}

// Close transitions the session to closed and computes its score in the
// same critical section, so the transition happens exactly once and the
// score is never recomputed. A second call returns ErrAlreadyClosed.
// Unanswered questions count as wrong.
func (s *Session) Close(now time.Time) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusOpen {
		return Outcome{}, ErrAlreadyClosed
	}
	s.status = StatusClosed

	out := Outcome{
		TotalQuestions: len(s.Questions),
		WrongWordIDs:   []int64{},
		Duration:       int(now.Sub(s.CreatedAt).Seconds()),
	}
	for _, q := range s.Questions {
		if answerMatches(s.answers[q.Position], q.Answer) {
			out.Correct++
		} else {
			out.WrongWordIDs = append(out.WrongWordIDs, q.WordID)
		}
	}
	s.outcome = &out
	return out, nil
}

// Outcome returns the score computed at close, if the session is closed.
func (s *Session) Outcome() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == nil {
		return Outcome{}, false
	}
	return *s.outcome, true
}

// SetRecordID links the session to its durable result record.
func (s *Session) SetRecordID(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordID = id
}

// RecordID returns the durable record id, or 0 if none was written.
func (s *Session) RecordID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordID
}

// answerMatches compares a submitted answer against the correct option,
// ignoring case and surrounding whitespace. An empty submission never
// matches.
func answerMatches(submitted, correct string) bool {
	submitted = strings.TrimSpace(submitted)
	if submitted == "" {
		return false
	}
	return strings.EqualFold(submitted, strings.TrimSpace(correct))
}
