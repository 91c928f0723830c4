// internal/service/quiz.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/lexidrill/backend/internal/domain/quiz"
	"github.com/lexidrill/backend/internal/domain/record"
	"github.com/lexidrill/backend/internal/domain/word"
	"github.com/lexidrill/backend/internal/generator"
	"github.com/lexidrill/backend/internal/id"
	"github.com/lexidrill/backend/internal/sessions"
	"github.com/lexidrill/backend/internal/store"
)

// DefaultQuestionCount is used when the caller asks for a non-positive
// number of questions.
const DefaultQuestionCount = 10

// defaultPoolSize caps the candidate pool sampled per session.
const defaultPoolSize = 50

// Catalog is the read-only vocabulary view the engine consumes.
// Implementations return store.ErrNotFound for unknown ids; an empty
// sample is a valid, non-error outcome.
type Catalog interface {
	SampleWords(ctx context.Context, f word.Filter, n int) ([]word.Word, error)
	GetWord(ctx context.Context, id int64) (word.Word, error)
}

// ResultSink durably appends a finished session's summary. SaveRecord
// assigns the record's id on success.
type ResultSink interface {
	SaveRecord(ctx context.Context, r *record.TestRecord) error
}

// QuizService is the quiz-session engine: it creates sessions, accepts
// answers while a session is open, scores it exactly once on finish,
// records the summary, and derives retry sessions from past results.
type QuizService struct {
	catalog Catalog
	sink    ResultSink
	store   *sessions.Store
	logger  *slog.Logger

	// PoolSize caps how many candidate words are sampled per session.
	// It may be raised before the service is shared between goroutines.
	PoolSize int

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewQuizService creates a QuizService. The rand source is the only
// randomness used for question generation, so a seeded source makes
// sessions reproducible.
func NewQuizService(catalog Catalog, sink ResultSink, st *sessions.Store, rng *rand.Rand, logger *slog.Logger) *QuizService {
	return &QuizService{
		catalog:  catalog,
		sink:     sink,
		store:    st,
		logger:   logger,
		PoolSize: defaultPoolSize,
		rng:      rng,
	}
}

// Create builds a new open session for the caller: it samples a
// candidate pool from the catalog, takes the first questionCount words
// as targets, and generates one multiple-choice question per target.
// The returned view hides the designated-correct options.
func (s *QuizService) Create(ctx context.Context, userID string, f word.Filter, dir quiz.Direction, questionCount int) (*SessionView, error) {
	if !dir.Valid() {
		return nil, fmt.Errorf("%w: unknown quiz direction %q", quiz.ErrValidation, dir)
	}
	if questionCount <= 0 {
		questionCount = DefaultQuestionCount
	}

	poolSize := s.PoolSize
	if poolSize < questionCount {
		poolSize = questionCount
	}
	pool, err := s.catalog.SampleWords(ctx, f, poolSize)
	if err != nil {
		return nil, fmt.Errorf("sample words: %w", err)
	}
	if len(pool) == 0 {
		return nil, quiz.ErrNoItems
	}
	if questionCount > len(pool) {
		questionCount = len(pool)
	}

	// The sample is already in random order, so the first k words are a
	// uniform draw of targets.
	questions, err := s.generateQuestions(pool[:questionCount], pool, dir)
	if err != nil {
		return nil, err
	}

	sess := quiz.NewSession(id.NewSessionID(), userID, dir, f, questions)
	s.store.Put(sess)

	s.logger.Info("quiz session created",
		"session_id", sess.ID,
		"user_id", userID,
		"direction", dir,
		"questions", len(questions),
	)
	return newSessionView(sess, nil), nil
}

// SubmitAnswer records the caller's answer for one question position.
// Resubmitting overwrites the previous answer; no scoring happens here.
func (s *QuizService) SubmitAnswer(sessionID string, position int, answer string) error {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return err
	}
	return sess.Submit(position, answer)
}

// Finish closes the session, computes its score, and appends the
// summary to the result sink. The close transition commits before the
// sink write, so a sink failure cannot re-admit answer submissions; the
// failure is logged and the summary is still returned (its id stays 0).
// A second Finish call returns quiz.ErrAlreadyClosed.
func (s *QuizService) Finish(ctx context.Context, sessionID string) (*record.TestRecord, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	out, err := sess.Close(time.Now())
	if err != nil {
		return nil, err
	}

	rec := &record.TestRecord{
		UserID:         sess.UserID,
		Direction:      sess.Direction,
		TotalQuestions: out.TotalQuestions,
		CorrectAnswers: out.Correct,
		Duration:       out.Duration,
		WrongWordIDs:   out.WrongWordIDs,
		Grade:          sess.Filter.Grade,
		Unit:           sess.Filter.Unit,
		TestedAt:       time.Now().UTC(),
	}

	if err := s.sink.SaveRecord(ctx, rec); err != nil {
		// At-most-once durability: the quiz result stands even when the
		// durable write fails.
		s.logger.Error("failed to record quiz result",
			"session_id", sessionID,
			"user_id", sess.UserID,
			"error", err,
		)
	} else {
		sess.SetRecordID(rec.ID)
	}

	s.logger.Info("quiz session finished",
		"session_id", sessionID,
		"correct", out.Correct,
		"total", out.TotalQuestions,
		"duration_s", out.Duration,
	)
	return rec, nil
}

// Result returns the finished session's summary with the missed words
// resolved to full vocabulary entries. It reads the score computed at
// the close transition; nothing is recomputed.
func (s *QuizService) Result(ctx context.Context, sessionID string) (*ResultView, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	out, ok := sess.Outcome()
	if !ok {
		return nil, fmt.Errorf("%w: quiz result not ready", quiz.ErrNotFound)
	}

	wrongWords := make([]WordView, 0, len(out.WrongWordIDs))
	for _, wid := range out.WrongWordIDs {
		w, err := s.catalog.GetWord(ctx, wid)
		if errors.Is(err, store.ErrNotFound) {
			continue // word deleted since the quiz ran
		}
		if err != nil {
			return nil, fmt.Errorf("resolve wrong word %d: %w", wid, err)
		}
		wrongWords = append(wrongWords, newWordView(w))
	}
	return newResultView(sess, out, wrongWords), nil
}

// Retry builds a new session over exactly the words missed in a prior
// result record. The record comes from durable storage, not from the
// live session, which may already have been swept. The new session uses
// the prior record's direction and links back to its id.
func (s *QuizService) Retry(ctx context.Context, userID string, prior *record.TestRecord) (*SessionView, error) {
	if prior == nil || prior.UserID != userID {
		return nil, fmt.Errorf("%w: original test record", quiz.ErrNotFound)
	}
	if len(prior.WrongWordIDs) == 0 {
		return nil, quiz.ErrNothingToRetry
	}

	pool := make([]word.Word, 0, len(prior.WrongWordIDs))
	for _, wid := range prior.WrongWordIDs {
		w, err := s.catalog.GetWord(ctx, wid)
		if errors.Is(err, store.ErrNotFound) {
			continue // word deleted since the original test
		}
		if err != nil {
			return nil, fmt.Errorf("resolve wrong word %d: %w", wid, err)
		}
		pool = append(pool, w)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: the wrong words no longer exist", quiz.ErrNotFound)
	}

	questions, err := s.generateQuestions(pool, pool, prior.Direction)
	if err != nil {
		return nil, err
	}

	sess := quiz.NewSession(id.NewSessionID(), userID, prior.Direction, word.Filter{Grade: prior.Grade, Unit: prior.Unit}, questions)
	sess.RetryOf = prior.ID
	s.store.Put(sess)

	s.logger.Info("retry session created",
		"session_id", sess.ID,
		"user_id", userID,
		"original_record_id", prior.ID,
		"questions", len(questions),
	)
	return newSessionView(sess, prior), nil
}

// generateQuestions builds one question per target, drawing distractors
// from pool. The rand source is shared, so generation holds rngMu.
func (s *QuizService) generateQuestions(targets, pool []word.Word, dir quiz.Direction) ([]quiz.Question, error) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()

	questions := make([]quiz.Question, 0, len(targets))
	for i, target := range targets {
		q, err := generator.NewQuestion(s.rng, target, pool, dir, i+1)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}
