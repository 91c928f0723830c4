// Package generator builds multiple-choice vocabulary questions: one
// correct option plus up to three distractors drawn from a candidate
// pool, shuffled. All randomness comes through the injected rand source
// so question generation is deterministic under a fixed seed.
package generator

import (
	"fmt"
	"math/rand/v2"

	"github.com/lexidrill/backend/internal/domain/quiz"
	"github.com/lexidrill/backend/internal/domain/word"
)

// maxDistractors is the number of wrong options per question when the
// pool is large enough.
const maxDistractors = 3

// maxRedraws bounds how often the distractor set is redrawn when two
// options render identical text (homographs). After the last attempt the
// duplicate is accepted rather than looping indefinitely.
const maxRedraws = 3

// NewQuestion builds the question at the given 1-based position for the
// target word. Distractors are sampled uniformly without replacement
// from pool, excluding the target. The pool must contain at least one
// word besides the target, otherwise quiz.ErrInsufficientPool is
// returned.
func NewQuestion(rng *rand.Rand, target word.Word, pool []word.Word, dir quiz.Direction, position int) (quiz.Question, error) {
	others := make([]word.Word, 0, len(pool))
	for _, w := range pool {
		if w.ID != target.ID {
			others = append(others, w)
		}
	}
	if len(others) == 0 {
		return quiz.Question{}, fmt.Errorf("%w: word %d has no candidate distractors", quiz.ErrInsufficientPool, target.ID)
	}

	correct := destText(target, dir)
	n := min(maxDistractors, len(others))

	var distractors []word.Word
	for attempt := 0; ; attempt++ {
		distractors = sample(rng, others, n)
		if attempt >= maxRedraws || !hasDuplicate(correct, distractors, dir) {
			break
		}
	}

	options := make([]string, 0, n+1)
	options = append(options, correct)
	for _, d := range distractors {
		options = append(options, destText(d, dir))
	}
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return quiz.Question{
		Position: position,
		WordID:   target.ID,
		Text:     sourceText(target, dir),
		Options:  options,
		Answer:   correct,
	}, nil
}

// sample returns n words drawn uniformly without replacement.
func sample(rng *rand.Rand, pool []word.Word, n int) []word.Word {
	picked := make([]word.Word, 0, n)
	for _, ix := range rng.Perm(len(pool))[:n] {
		picked = append(picked, pool[ix])
	}
	return picked
}

// hasDuplicate reports whether any two options would render the same
// destination text.
func hasDuplicate(correct string, distractors []word.Word, dir quiz.Direction) bool {
	seen := map[string]bool{correct: true}
	for _, d := range distractors {
		t := destText(d, dir)
		if seen[t] {
			return true
		}
		seen[t] = true
	}
	return false
}

// sourceText is the prompt side of a word for the given direction.
func sourceText(w word.Word, dir quiz.Direction) string {
	if dir == quiz.DirectionCNToEN {
		return w.Chinese
	}
	return w.English
}

// destText is the answer side of a word for the given direction.
func destText(w word.Word, dir quiz.Direction) string {
	if dir == quiz.DirectionCNToEN {
		return w.English
	}
	return w.Chinese
}
