package quiz

// Question is a single multiple-choice question. It is built once at
// session creation and immutable afterwards.
type Question struct {
	Position int      // 1-based position within the session
	WordID   int64    // the word this question tests
	Text     string   // prompt, in the source language of the direction
	Options  []string // shuffled option texts, in the destination language
	Answer   string   // the designated-correct option text
}
