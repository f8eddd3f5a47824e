package engine

import (
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/cork/internal/numeral"
)

// Request is one evaluation submitted to the engine.
type Request struct {
	// Seq orders requests; only the highest Seq may update the store.
	Seq int64

	// ID correlates log lines and traces for one request.
	ID string

	Expr string
	Mode numeral.Mode
}

// Result is the evaluator's outcome for a Request.
type Result struct {
	Seq  int64
	ID   string
	Text string
	Err  error
}

// RequestIDGenerator produces request ids.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type RequestIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 request ids.
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined ids, in order.
// Safe for concurrent use.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next id. Panics once all ids are consumed, which
// flags a test that submitted more requests than it planned for.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
