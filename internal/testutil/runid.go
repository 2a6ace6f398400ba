package testutil

import (
	"fmt"
	"sync"
)

// SequenceGenerator generates run IDs "<prefix>-0001", "<prefix>-0002", ...
//
// Unlike engine.NewFixedGenerator, which returns a declared list and panics
// when it runs out, SequenceGenerator never exhausts. Use it when a test
// runs an unknown number of specs but still needs distinct, predictable
// IDs, e.g. when several runs are recorded in one store.
//
// Implements engine.RunIDGenerator.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceGenerator creates a generator. An empty prefix becomes "run".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "run"
	}
	return &SequenceGenerator{prefix: prefix}
}

// Generate returns the next ID in sequence.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
