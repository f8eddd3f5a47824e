package tui

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/cork/internal/engine"
	"github.com/roach88/cork/internal/repr"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRenderSurfaces_Golden(t *testing.T) {
	tests := []struct {
		name    string
		display Display
	}{
		{"surfaces_positive_w8", DisplayOf(engine.Updated{Value: 127, Width: repr.W8, Minimal: repr.W8})},
		{"surfaces_negative_w16", DisplayOf(engine.Updated{Value: -128, Width: repr.W16, Minimal: repr.W8})},
		{"surfaces_error", DisplayOf(engine.Failed{Message: `failed to evaluate "1/0": Cannot divide by 0`})},
		{"surfaces_empty", DisplayOf(nil)},
	}

	g := newGoldie(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.Assert(t, tt.name, []byte(RenderSurfaces(tt.display, -1, PlainStyles())))
		})
	}
}

func TestRenderGrid_Shape(t *testing.T) {
	d := DisplayOf(engine.Updated{Value: -1, Width: repr.W32})
	rows := strings.Split(RenderGrid(d, -1, PlainStyles()), "\n")

	assert.Len(t, rows, 4)
	assert.Equal(t, "63 0000 0000 0000 0000 48", rows[0])
	assert.Equal(t, "47 0000 0000 0000 0000 32", rows[1])
	assert.Equal(t, "31 1111 1111 1111 1111 16", rows[2])
	assert.Equal(t, "15 1111 1111 1111 1111  0", rows[3])
}

func TestRenderGrid_FullWidth(t *testing.T) {
	d := DisplayOf(engine.Updated{Value: -9223372036854775808, Width: repr.W64})
	rows := strings.Split(RenderGrid(d, -1, PlainStyles()), "\n")

	assert.Equal(t, "63 1000 0000 0000 0000 48", rows[0])
	assert.Equal(t, "15 0000 0000 0000 0000  0", rows[3])
}

func TestDisplay_Enabled(t *testing.T) {
	ok := DisplayOf(engine.Updated{Value: 5, Width: repr.W16})
	assert.True(t, ok.Enabled(0))
	assert.True(t, ok.Enabled(15))
	assert.False(t, ok.Enabled(16))
	assert.False(t, ok.Enabled(-1))

	failed := DisplayOf(engine.Failed{Message: "x"})
	for pos := 0; pos < 64; pos++ {
		assert.False(t, failed.Enabled(pos))
	}
}

func TestRenderWidths(t *testing.T) {
	st := PlainStyles()
	assert.Equal(t, "Width  8  16  [32]  64", RenderWidths(DisplayOf(engine.Updated{Value: 1, Width: repr.W32}), st))
	assert.Equal(t, "Width  (8)  (16)  [32]  64", RenderWidths(DisplayOf(engine.Updated{Value: 70000, Width: repr.W32}), st))
}

func TestRenderPanel_Error(t *testing.T) {
	out := RenderPanel(DisplayOf(engine.Failed{Message: "boom"}), PlainStyles())
	assert.Equal(t, "Error     boom", out)
}
