// simulation/simulation.go
package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/lexidrill/backend/internal/domain/quiz"
	"github.com/lexidrill/backend/internal/domain/word"
	"github.com/lexidrill/backend/internal/service"
	"github.com/lexidrill/backend/internal/worker"
)

// questionsPerTaker is how many questions each simulated taker requests.
const questionsPerTaker = 5

// submitProbability is the chance a taker answers a question at all;
// skipped questions count as wrong, which keeps retries flowing.
const submitProbability = 0.85

// TakerOutcome is what one simulated quiz taker produced.
type TakerOutcome struct {
	UserID     string
	Correct    int
	Total      int
	Score      float64
	Retried    bool
	RetryScore float64
	Err        error
}

// SeedWords is a small PEP-style vocabulary set for the demo database.
func SeedWords() []word.Word {
	return []word.Word{
		{English: "apple", Chinese: "苹果", Phonetic: "/ˈæpl/", Grade: 3, Unit: 1},
		{English: "banana", Chinese: "香蕉", Phonetic: "/bəˈnɑːnə/", Grade: 3, Unit: 1},
		{English: "orange", Chinese: "橙子", Phonetic: "/ˈɒrɪndʒ/", Grade: 3, Unit: 1},
		{English: "pear", Chinese: "梨", Phonetic: "/peə/", Grade: 3, Unit: 1},
		{English: "cat", Chinese: "猫", Phonetic: "/kæt/", Grade: 3, Unit: 2},
		{English: "dog", Chinese: "狗", Phonetic: "/dɒɡ/", Grade: 3, Unit: 2},
		{English: "bird", Chinese: "鸟", Phonetic: "/bɜːd/", Grade: 3, Unit: 2},
		{English: "fish", Chinese: "鱼", Phonetic: "/fɪʃ/", Grade: 3, Unit: 2},
		{English: "red", Chinese: "红色", Phonetic: "/red/", Grade: 3, Unit: 3},
		{English: "blue", Chinese: "蓝色", Phonetic: "/bluː/", Grade: 3, Unit: 3},
		{English: "green", Chinese: "绿色", Phonetic: "/ɡriːn/", Grade: 3, Unit: 3},
		{English: "yellow", Chinese: "黄色", Phonetic: "/ˈjeləʊ/", Grade: 3, Unit: 3},
		{English: "book", Chinese: "书", Phonetic: "/bʊk/", Grade: 4, Unit: 1},
		{English: "ruler", Chinese: "尺子", Phonetic: "/ˈruːlə/", Grade: 4, Unit: 1},
		{English: "pencil", Chinese: "铅笔", Phonetic: "/ˈpensl/", Grade: 4, Unit: 1},
		{English: "schoolbag", Chinese: "书包", Phonetic: "/ˈskuːlbæɡ/", Grade: 4, Unit: 1},
	}
}

// Run drives `takers` concurrent simulated quiz takers through the
// engine: create → submit → finish, plus a retry round when the first
// attempt missed at least two words. It exercises the same code paths a
// fleet of request handlers would.
func Run(ctx context.Context, svc *service.QuizService, takers int, logger *slog.Logger) []TakerOutcome {
	pool := worker.NewPool[TakerOutcome](ctx, takers, takers)

	for i := 0; i < takers; i++ {
		userID := fmt.Sprintf("sim-user-%02d", i+1)
		rng := rand.New(rand.NewPCG(uint64(i)+1, uint64(i)+42))
		pool.Submit(userID, func(ctx context.Context) TakerOutcome {
			return runTaker(ctx, svc, userID, rng)
		})
	}
	pool.Close()

	outcomes := make([]TakerOutcome, 0, takers)
	for result := range pool.Results() {
		o := result.Output
		if o.Err != nil {
			logger.Error("simulated taker failed", "user_id", o.UserID, "error", o.Err)
		} else {
			logger.Info("simulated taker finished",
				"user_id", o.UserID,
				"score", o.Score,
				"retried", o.Retried,
			)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes
}

func runTaker(ctx context.Context, svc *service.QuizService, userID string, rng *rand.Rand) TakerOutcome {
	out := TakerOutcome{UserID: userID}

	dir := quiz.DirectionENToCN
	if rng.IntN(2) == 0 {
		dir = quiz.DirectionCNToEN
	}

	view, err := svc.Create(ctx, userID, word.Filter{}, dir, questionsPerTaker)
	if err != nil {
		out.Err = fmt.Errorf("create: %w", err)
		return out
	}

	answerRandomly(svc, view, rng)

	rec, err := svc.Finish(ctx, view.TestID)
	if err != nil {
		out.Err = fmt.Errorf("finish: %w", err)
		return out
	}
	out.Correct = rec.CorrectAnswers
	out.Total = rec.TotalQuestions
	out.Score = rec.Score()

	// A single missed word cannot seed a multiple-choice retry.
	if len(rec.WrongWordIDs) < 2 {
		return out
	}

	retry, err := svc.Retry(ctx, userID, rec)
	if err != nil {
		out.Err = fmt.Errorf("retry: %w", err)
		return out
	}
	out.Retried = true

	answerRandomly(svc, retry, rng)

	retryRec, err := svc.Finish(ctx, retry.TestID)
	if err != nil {
		out.Err = fmt.Errorf("finish retry: %w", err)
		return out
	}
	out.RetryScore = retryRec.Score()
	return out
}

// answerRandomly picks a random option for most questions and leaves
// the rest unanswered.
func answerRandomly(svc *service.QuizService, view *service.SessionView, rng *rand.Rand) {
	for _, q := range view.Questions {
		if rng.Float64() > submitProbability || len(q.Options) == 0 {
			continue
		}
		answer := q.Options[rng.IntN(len(q.Options))]
		// Best effort; a swept session just means the run is over.
		_ = svc.SubmitAnswer(view.TestID, q.ID, answer)
	}
}
