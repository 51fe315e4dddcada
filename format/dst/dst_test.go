package dst

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jnbvisualizer/format"
)

func TestRoundTrip(t *testing.T) {
	src := &format.Pattern{}
	src.AddStitch(0, 0, format.CmdStitch)
	src.AddStitch(10, -5, format.CmdStitch)
	src.AddStitch(-30, 40, format.CmdStitch)
	src.AddStitch(0, 0, format.CmdColorChange)
	src.AddStitch(50, 50, format.CmdJump)
	src.AddStitch(55, 45, format.CmdStitch)

	var buf bytes.Buffer
	require.NoError(t, codec{}.Encode(&buf, src))

	got, err := codec{}.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	// DST has no thread list.
	assert.Empty(t, got.Threads)

	want := []format.Stitch{
		{X: 0, Y: 0, Command: format.CmdStitch},
		{X: 10, Y: -5, Command: format.CmdStitch},
		{X: -30, Y: 40, Command: format.CmdStitch},
		{X: -30, Y: 40, Command: format.CmdColorChange},
		{X: 50, Y: 50, Command: format.CmdJump},
		{X: 55, Y: 45, Command: format.CmdStitch},
		{X: 55, Y: 45, Command: format.CmdEnd},
	}
	assert.Equal(t, want, got.Stitches)
}

func TestRoundTrip_SplitsLongMoves(t *testing.T) {
	src := &format.Pattern{}
	src.AddStitch(0, 0, format.CmdStitch)
	src.AddStitch(300, -250, format.CmdStitch) // needs several records

	var buf bytes.Buffer
	require.NoError(t, codec{}.Encode(&buf, src))

	got, err := codec{}.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	// The final position is exact; the split steps in between are jumps.
	last := got.Stitches[len(got.Stitches)-2]
	assert.Equal(t, format.Stitch{X: 300, Y: -250, Command: format.CmdStitch}, last)
	for _, s := range got.Stitches[1 : len(got.Stitches)-2] {
		assert.Equal(t, format.CmdJump, s.Command)
	}
}

func TestEncodeDelta(t *testing.T) {
	for dx := -121; dx <= 121; dx += 7 {
		for dy := -121; dy <= 121; dy += 11 {
			rec, err := encodeDelta(dx, dy)
			require.NoError(t, err)
			gx, gy := decodeDelta(rec[0], rec[1], rec[2])
			assert.Equal(t, dx, gx, "dx=%d dy=%d", dx, dy)
			assert.Equal(t, dy, gy, "dx=%d dy=%d", dx, dy)
		}
	}

	_, err := encodeDelta(122, 0)
	assert.Error(t, err)
	_, err = encodeDelta(0, -122)
	assert.Error(t, err)
}

func TestHeader(t *testing.T) {
	src := &format.Pattern{}
	src.AddStitch(0, 0, format.CmdStitch)
	src.AddStitch(20, 20, format.CmdStitch)
	src.AddStitch(0, 0, format.CmdColorChange)
	src.AddStitch(25, 25, format.CmdStitch)

	var buf bytes.Buffer
	require.NoError(t, codec{}.Encode(&buf, src))

	hdr := buf.Bytes()[:headerSize]
	assert.Equal(t, "LA:", string(hdr[:3]))
	assert.Contains(t, string(hdr), "ST:      3")
	assert.Contains(t, string(hdr), "CO:  1")
	require.Equal(t, headerSize+3*5, buf.Len())
	assert.Equal(t, []byte{0x00, 0x00, 0xF3}, buf.Bytes()[buf.Len()-3:])
}

func TestDecode_RejectsBadHeader(t *testing.T) {
	_, err := codec{}.Decode(bytes.NewReader(make([]byte, 600)))
	assert.Error(t, err)

	_, err = codec{}.Decode(bytes.NewReader([]byte("LA:short")))
	assert.Error(t, err)
}
