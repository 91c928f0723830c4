package record

import (
	"math"
	"time"

	"github.com/lexidrill/backend/internal/domain/quiz"
)

// TestRecord is the durable summary of a finished quiz session. It is
// appended by the result sink when a session closes and read back for
// history, statistics, and retry sessions.
type TestRecord struct {
	ID             int64
	UserID         string
	Direction      quiz.Direction
	TotalQuestions int
	CorrectAnswers int
	Duration       int // seconds
	WrongWordIDs   []int64
	Grade          int
	Unit           int
	TestedAt       time.Time
}

// Score returns the percentage of correct answers, rounded to one decimal.
func (r *TestRecord) Score() float64 {
	if r.TotalQuestions == 0 {
		return 0
	}
	pct := float64(r.CorrectAnswers) / float64(r.TotalQuestions) * 100
	return math.Round(pct*10) / 10
}

// Stats aggregates a user's records over a time window.
type Stats struct {
	TotalTests     int
	TotalQuestions int
	TotalCorrect   int
	AverageScore   float64
}
