package catalog

import (
	"math/rand"
	"time"
)

// NewRand returns a random source. A zero seed is replaced by the
// current time so interactive use gets a different tool every run.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Random draws one tool uniformly from the corpus.
// The same seed and corpus always yield the same tool.
func Random(c *Corpus, rng *rand.Rand) (ToolRecord, error) {
	if c == nil || c.Len() == 0 {
		return ToolRecord{}, ErrEmptyCorpus
	}
	return c.At(rng.Intn(c.Len())), nil
}
