package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_FillsCanvas(t *testing.T) {
	blocks := []Block{
		{{0, 0, 100, 0}, {100, 0, 100, 50}},
	}
	out := Normalize(blocks, 40, 900)
	require.Len(t, out, 1)

	// The longer axis spans exactly canvas minus both paddings.
	assert.InDelta(t, 40.0, out[0][0].X1, 1e-9)
	assert.InDelta(t, 860.0, out[0][0].X2, 1e-9)
	// The shorter axis scales with the same factor, top-left anchored.
	assert.InDelta(t, 40.0, out[0][0].Y1, 1e-9)
	assert.InDelta(t, 40.0+50*(820.0/100.0), out[0][1].Y2, 1e-9)
}

func TestNormalize_Bounds(t *testing.T) {
	blocks := []Block{
		{{-250, 17, 313, -90}, {313, -90, 5, 600}},
		{{12, 12, -3, 550}},
	}
	out := Normalize(blocks, 40, 900)
	for _, b := range out {
		for _, s := range b {
			for _, v := range []float64{s.X1, s.Y1, s.X2, s.Y2} {
				assert.GreaterOrEqual(t, v, 40.0-1e-9)
				assert.LessOrEqual(t, v, 860.0+1e-9)
			}
		}
	}
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize(nil, 40, 900))
	assert.Empty(t, Normalize([]Block{}, 40, 900))
}

func TestNormalize_SinglePoint(t *testing.T) {
	blocks := []Block{{{7, 7, 7, 7}}}
	out := Normalize(blocks, 40, 900)
	require.Len(t, out, 1)
	assert.Equal(t, Segment{40, 40, 40, 40}, out[0][0])
}
