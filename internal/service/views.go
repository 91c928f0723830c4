// internal/service/views.go
package service

import (
	"time"

	"github.com/lexidrill/backend/internal/domain/quiz"
	"github.com/lexidrill/backend/internal/domain/record"
	"github.com/lexidrill/backend/internal/domain/word"
)

// ── Caller-facing payloads ──────────────────────────────────────────────────
//
// These are what the host application (HTTP layer, CLI, ...) marshals to
// its transport. Questions never expose the designated-correct option.

type QuestionView struct {
	ID           int            `json:"id"` // 1-based position
	QuestionText string         `json:"question_text"`
	QuestionType quiz.Direction `json:"question_type"`
	Options      []string       `json:"options"`
}

type SessionView struct {
	TestID         string         `json:"test_id"`
	TestType       quiz.Direction `json:"test_type"`
	TestTypeName   string         `json:"test_type_name"`
	TotalQuestions int            `json:"total_questions"`
	IsRetry        bool           `json:"is_retry,omitempty"`
	OriginalScore  float64        `json:"original_score,omitempty"`
	Questions      []QuestionView `json:"questions"`
}

type WordView struct {
	ID       int64  `json:"id"`
	English  string `json:"word"`
	Chinese  string `json:"chinese_meaning"`
	Phonetic string `json:"phonetic,omitempty"`
	Grade    int    `json:"grade"`
	Unit     int    `json:"unit"`
}

type ResultView struct {
	RecordID       int64          `json:"id"` // 0 when the durable write failed
	TestID         string         `json:"test_id"`
	TestType       quiz.Direction `json:"test_type"`
	TestTypeName   string         `json:"test_type_name"`
	TotalQuestions int            `json:"total_questions"`
	CorrectAnswers int            `json:"correct_answers"`
	Score          float64        `json:"score"`
	Duration       int            `json:"test_duration"`
	WrongWordIDs   []int64        `json:"wrong_word_ids"`
	WrongWords     []WordView     `json:"wrong_words"`
	TestedAt       time.Time      `json:"tested_at"`
}

func newSessionView(sess *quiz.Session, prior *record.TestRecord) *SessionView {
	v := &SessionView{
		TestID:         sess.ID,
		TestType:       sess.Direction,
		TestTypeName:   sess.Direction.DisplayName(),
		TotalQuestions: len(sess.Questions),
		Questions:      make([]QuestionView, 0, len(sess.Questions)),
	}
	if prior != nil {
		v.IsRetry = true
		v.OriginalScore = prior.Score()
	}
	for _, q := range sess.Questions {
		v.Questions = append(v.Questions, QuestionView{
			ID:           q.Position,
			QuestionText: q.Text,
			QuestionType: sess.Direction,
			Options:      q.Options,
		})
	}
	return v
}

func newResultView(sess *quiz.Session, out quiz.Outcome, wrongWords []WordView) *ResultView {
	score := record.TestRecord{TotalQuestions: out.TotalQuestions, CorrectAnswers: out.Correct}
	return &ResultView{
		RecordID:       sess.RecordID(),
		TestID:         sess.ID,
		TestType:       sess.Direction,
		TestTypeName:   sess.Direction.DisplayName(),
		TotalQuestions: out.TotalQuestions,
		CorrectAnswers: out.Correct,
		Score:          score.Score(),
		Duration:       out.Duration,
		WrongWordIDs:   out.WrongWordIDs,
		WrongWords:     wrongWords,
		TestedAt:       sess.CreatedAt.Add(time.Duration(out.Duration) * time.Second),
	}
}

func newWordView(w word.Word) WordView {
	return WordView{
		ID:       w.ID,
		English:  w.English,
		Chinese:  w.Chinese,
		Phonetic: w.Phonetic,
		Grade:    w.Grade,
		Unit:     w.Unit,
	}
}
