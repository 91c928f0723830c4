package store

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/lexidrill/backend/internal/domain/word"
)

// MemoryCatalog is an in-memory word catalog with a seedable random
// source, used by tests and the simulation harness.
type MemoryCatalog struct {
	mu     sync.Mutex
	rng    *rand.Rand
	words  map[int64]word.Word
	nextID int64
}

func NewMemoryCatalog(seed uint64) *MemoryCatalog {
	return &MemoryCatalog{
		rng:   rand.New(rand.NewPCG(seed, seed)),
		words: make(map[int64]word.Word),
	}
}

// Add stores a word, assigning an id when it has none, and returns the
// stored value.
func (c *MemoryCatalog) Add(w word.Word) word.Word {
	c.mu.Lock()
	defer c.mu.Unlock()
	if w.ID == 0 {
		c.nextID++
		w.ID = c.nextID
	} else if w.ID > c.nextID {
		c.nextID = w.ID
	}
	c.words[w.ID] = w
	return w
}

func (c *MemoryCatalog) GetWord(_ context.Context, id int64) (word.Word, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.words[id]
	if !ok {
		return word.Word{}, ErrNotFound
	}
	return w, nil
}

// SampleWords returns up to n matching words, uniformly at random
// without replacement.
func (c *MemoryCatalog) SampleWords(_ context.Context, f word.Filter, n int) ([]word.Word, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	matches := make([]word.Word, 0, len(c.words))
	for _, w := range c.words {
		if f.Matches(w) {
			matches = append(matches, w)
		}
	}
	// Stable order before the shuffle so a fixed seed gives a fixed sample.
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	c.rng.Shuffle(len(matches), func(i, j int) {
		matches[i], matches[j] = matches[j], matches[i]
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches, nil
}
