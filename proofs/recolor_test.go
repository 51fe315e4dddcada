package proofs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jnbvisualizer/apperr"
	"jnbvisualizer/format"
)

func TestRecolor(t *testing.T) {
	p := &format.Pattern{}
	p.AddThread(0x111111)
	p.AddThread(0x222222)
	p.AddThread(0x333333)

	require.NoError(t, Recolor(p, []string{"#ff0000", "#00ff00"}))
	assert.Equal(t, 0xFF0000, p.Threads[0].Color)
	assert.Equal(t, 0x00FF00, p.Threads[1].Color)
	// Threads past the color list keep their original color.
	assert.Equal(t, 0x333333, p.Threads[2].Color)
}

func TestRecolor_MoreColorsThanThreads(t *testing.T) {
	p := &format.Pattern{}
	p.AddThread(0x111111)

	require.NoError(t, Recolor(p, []string{"#ff0000", "#00ff00", "#0000ff"}))
	require.Len(t, p.Threads, 1)
	assert.Equal(t, 0xFF0000, p.Threads[0].Color)
}

func TestRecolor_NoThreads(t *testing.T) {
	p := &format.Pattern{}
	p.AddStitch(0, 0, format.CmdStitch)

	err := Recolor(p, []string{"#ff0000"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeUnprocessable))
}

func TestRecolor_BadColor(t *testing.T) {
	p := &format.Pattern{}
	p.AddThread(0x111111)

	err := Recolor(p, []string{"bad"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))
}
