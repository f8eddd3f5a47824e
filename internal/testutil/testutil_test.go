package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cork/internal/expr"
	"github.com/roach88/cork/internal/numeral"
)

func TestSequentialIDs(t *testing.T) {
	g := NewSequentialIDs("")

	assert.Equal(t, "req-1", g.Generate())
	assert.Equal(t, "req-2", g.Generate())

	g.Reset()
	assert.Equal(t, "req-1", g.Generate())

	assert.Equal(t, "scn-1", NewSequentialIDs("scn").Generate())
}

func TestSequentialIDs_ThreadSafe(t *testing.T) {
	g := NewSequentialIDs("t")

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := g.Generate()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 1000)
}

func TestScriptedEvaluator_Replies(t *testing.T) {
	s := NewScriptedEvaluator(nil)
	s.Script("good", Reply{Text: "0x2a"})
	s.Script("bad", Reply{Err: "Cannot divide by 0"})
	ctx := context.Background()

	out, err := s.Evaluate(ctx, "good", numeral.ModeHex)
	require.NoError(t, err)
	assert.Equal(t, "0x2a", out)

	_, err = s.Evaluate(ctx, "bad", numeral.ModeHex)
	assert.EqualError(t, err, "Cannot divide by 0")

	_, err = s.Evaluate(ctx, "unknown", numeral.ModeHex)
	assert.ErrorContains(t, err, `"unknown"`)

	assert.Equal(t, []string{"good", "bad", "unknown"}, s.Calls())
}

func TestScriptedEvaluator_Fallback(t *testing.T) {
	s := NewScriptedEvaluator(&expr.Evaluator{})

	out, err := s.Evaluate(context.Background(), "ff + 1", numeral.ModeHex)
	require.NoError(t, err)
	assert.Equal(t, "0x100", out)
}

func TestScriptedEvaluator_Hold(t *testing.T) {
	s := NewScriptedEvaluator(nil)
	s.Script("slow", Reply{Text: "0x1"})
	entered := s.Hold("slow")

	result := make(chan string, 1)
	go func() {
		out, _ := s.Evaluate(context.Background(), "slow", numeral.ModeHex)
		result <- out
	}()

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("evaluation never started")
	}

	select {
	case <-result:
		t.Fatal("held evaluation returned before release")
	case <-time.After(20 * time.Millisecond):
	}

	s.Release("slow")
	assert.Equal(t, "0x1", <-result)

	// The hold applied to one call only.
	out, err := s.Evaluate(context.Background(), "slow", numeral.ModeHex)
	require.NoError(t, err)
	assert.Equal(t, "0x1", out)

	s.Release("never-held")
}

func TestScriptedEvaluator_HoldRespectsContext(t *testing.T) {
	s := NewScriptedEvaluator(nil)
	s.Hold("slow")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Evaluate(ctx, "slow", numeral.ModeHex)
	assert.ErrorIs(t, err, context.Canceled)
}
