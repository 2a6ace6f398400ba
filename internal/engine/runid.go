package engine

import "github.com/google/uuid"

// RunIDGenerator produces the ID stamped on each run.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator issues time-ordered UUIDv7 IDs, so recorded runs sort by
// start time.
type UUIDv7Generator struct{}

func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// RunIDFunc adapts a plain function to RunIDGenerator.
type RunIDFunc func() string

func (f RunIDFunc) Generate() string { return f() }

// NewFixedGenerator hands out ids in order, for deterministic tests and
// golden output. It panics once they run out.
func NewFixedGenerator(ids ...string) RunIDGenerator {
	return RunIDFunc(func() string {
		if len(ids) == 0 {
			panic("engine: fixed run IDs exhausted")
		}
		id := ids[0]
		ids = ids[1:]
		return id
	})
}
