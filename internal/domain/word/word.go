package word

import "time"

// Word is an immutable vocabulary entry. Words are owned by the catalog;
// quiz questions reference them by ID and never mutate them.
type Word struct {
	ID          int64
	English     string
	Chinese     string
	Phonetic    string
	Grade       int
	Unit        int
	BookVersion string
	CreatedAt   time.Time
}

// Filter narrows a catalog query. Zero values mean "any".
type Filter struct {
	Grade int
	Unit  int
}

// Matches reports whether w satisfies the filter.
func (f Filter) Matches(w Word) bool {
	if f.Grade != 0 && w.Grade != f.Grade {
		return false
	}
	if f.Unit != 0 && w.Unit != f.Unit {
		return false
	}
	return true
}
