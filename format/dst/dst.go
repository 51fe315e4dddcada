// Package dst reads and writes Tajima .dst design files: a 512-byte ASCII
// header followed by three-byte ternary-coded stitch records. DST carries no
// thread colors, so decoded patterns have an empty thread list; color blocks
// are still delimited by the color-change records in the stream.
package dst

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"jnbvisualizer/format"
)

const headerSize = 512

func init() {
	format.Register(".dst", codec{})
}

type codec struct{}

func (codec) Decode(r io.Reader) (*format.Pattern, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < headerSize {
		return nil, errors.New("dst file truncated")
	}
	if !strings.HasPrefix(string(data[:3]), "LA:") {
		return nil, errors.New("not a DST file")
	}

	p := &format.Pattern{}
	var x, y float64
	for rec := data[headerSize:]; len(rec) >= 3; rec = rec[3:] {
		b1, b2, b3 := rec[0], rec[1], rec[2]
		if b3 == 0xF3 {
			p.AddStitch(x, y, format.CmdEnd)
			break
		}
		dx, dy := decodeDelta(b1, b2, b3)
		x += float64(dx)
		y += float64(dy)
		switch b3 & 0xC0 {
		case 0xC0:
			p.AddStitch(x, y, format.CmdColorChange)
		case 0x80:
			p.AddStitch(x, y, format.CmdJump)
		default:
			p.AddStitch(x, y, format.CmdStitch)
		}
	}
	return p, nil
}

func (codec) Encode(w io.Writer, p *format.Pattern) error {
	records, stats, err := encodeRecords(p)
	if err != nil {
		return err
	}
	if _, err := w.Write(buildHeader(stats)); err != nil {
		return err
	}
	_, err = w.Write(records)
	return err
}

// Deltas are ternary-coded: each of the three bytes contributes +-1, +-3,
// +-9, +-27 or +-81 units per axis.
func decodeDelta(b1, b2, b3 byte) (dx, dy int) {
	if b1&0x01 != 0 {
		dx++
	}
	if b1&0x02 != 0 {
		dx--
	}
	if b1&0x04 != 0 {
		dx += 9
	}
	if b1&0x08 != 0 {
		dx -= 9
	}
	if b1&0x80 != 0 {
		dy++
	}
	if b1&0x40 != 0 {
		dy--
	}
	if b1&0x20 != 0 {
		dy += 9
	}
	if b1&0x10 != 0 {
		dy -= 9
	}
	if b2&0x01 != 0 {
		dx += 3
	}
	if b2&0x02 != 0 {
		dx -= 3
	}
	if b2&0x04 != 0 {
		dx += 27
	}
	if b2&0x08 != 0 {
		dx -= 27
	}
	if b2&0x80 != 0 {
		dy += 3
	}
	if b2&0x40 != 0 {
		dy -= 3
	}
	if b2&0x20 != 0 {
		dy += 27
	}
	if b2&0x10 != 0 {
		dy -= 27
	}
	if b3&0x04 != 0 {
		dx += 81
	}
	if b3&0x08 != 0 {
		dx -= 81
	}
	if b3&0x20 != 0 {
		dy += 81
	}
	if b3&0x10 != 0 {
		dy -= 81
	}
	return dx, dy
}

// encodeDelta reduces dx/dy greedily by magnitude (81, 27, 9, 3, 1), setting
// the matching sign bit at each level. Any value in [-121, 121] encodes
// exactly.
func encodeDelta(dx, dy int) ([3]byte, error) {
	var b [3]byte
	if dx < -121 || dx > 121 || dy < -121 || dy > 121 {
		return b, fmt.Errorf("dst stitch delta out of range: %d,%d", dx, dy)
	}

	steps := []struct {
		mag, threshold int
		idx            int
		xPos, xNeg     byte
		yPos, yNeg     byte
	}{
		{81, 40, 2, 0x04, 0x08, 0x20, 0x10},
		{27, 13, 1, 0x04, 0x08, 0x20, 0x10},
		{9, 4, 0, 0x04, 0x08, 0x20, 0x10},
		{3, 1, 1, 0x01, 0x02, 0x80, 0x40},
		{1, 0, 0, 0x01, 0x02, 0x80, 0x40},
	}
	for _, s := range steps {
		if dx > s.threshold {
			b[s.idx] |= s.xPos
			dx -= s.mag
		} else if dx < -s.threshold {
			b[s.idx] |= s.xNeg
			dx += s.mag
		}
		if dy > s.threshold {
			b[s.idx] |= s.yPos
			dy -= s.mag
		} else if dy < -s.threshold {
			b[s.idx] |= s.yNeg
			dy += s.mag
		}
	}
	return b, nil
}

type stats struct {
	stitchCount  int
	colorChanges int
	minX, maxX   int
	minY, maxY   int
}

// Long moves are split into multiple jump records so every record stays
// within the encodable range.
const maxStep = 121

func encodeRecords(p *format.Pattern) ([]byte, stats, error) {
	var out []byte
	var st stats
	var x, y int

	emit := func(dx, dy int, flag byte) error {
		rec, err := encodeDelta(dx, dy)
		if err != nil {
			return err
		}
		rec[2] |= 0x03 | flag
		out = append(out, rec[0], rec[1], rec[2])
		return nil
	}

	clamp := func(d int) int {
		if d > maxStep {
			return maxStep
		}
		if d < -maxStep {
			return -maxStep
		}
		return d
	}

	for _, s := range p.Stitches {
		var flag byte
		switch s.Command {
		case format.CmdEnd:
			continue // terminator written below
		case format.CmdColorChange, format.CmdStop:
			st.colorChanges++
			if err := emit(0, 0, 0xC0); err != nil {
				return nil, st, err
			}
			continue
		case format.CmdJump, format.CmdTrim:
			flag = 0x80
		}

		nx, ny := int(s.X), int(s.Y)
		if x == nx && y == ny {
			if err := emit(0, 0, flag); err != nil {
				return nil, st, err
			}
		}
		for x != nx || y != ny {
			dx, dy := clamp(nx-x), clamp(ny-y)
			stepFlag := flag
			if x+dx != nx || y+dy != ny {
				stepFlag = 0x80 // intermediate split is always a jump
			}
			if err := emit(dx, dy, stepFlag); err != nil {
				return nil, st, err
			}
			x += dx
			y += dy
		}
		if s.Command == format.CmdStitch {
			st.stitchCount++
		}
		if nx < st.minX {
			st.minX = nx
		}
		if nx > st.maxX {
			st.maxX = nx
		}
		if ny < st.minY {
			st.minY = ny
		}
		if ny > st.maxY {
			st.maxY = ny
		}
	}
	out = append(out, 0x00, 0x00, 0xF3)
	return out, st, nil
}

func buildHeader(st stats) []byte {
	var b strings.Builder
	field := func(key, value string) {
		b.WriteString(key)
		b.WriteString(value)
		b.WriteByte(0x0D)
	}
	field("LA:", fmt.Sprintf("%-16s", "jnbproof"))
	field("ST:", fmt.Sprintf("%7s", strconv.Itoa(st.stitchCount)))
	field("CO:", fmt.Sprintf("%3s", strconv.Itoa(st.colorChanges)))
	field("+X:", fmt.Sprintf("%5d", st.maxX))
	field("-X:", fmt.Sprintf("%5d", abs(st.minX)))
	field("+Y:", fmt.Sprintf("%5d", st.maxY))
	field("-Y:", fmt.Sprintf("%5d", abs(st.minY)))
	field("AX:", fmt.Sprintf("%+6d", 0))
	field("AY:", fmt.Sprintf("%+6d", 0))
	field("MX:", fmt.Sprintf("%+6d", 0))
	field("MY:", fmt.Sprintf("%+6d", 0))
	field("PD:", "******")
	b.WriteByte(0x1A)

	hdr := make([]byte, headerSize)
	for i := range hdr {
		hdr[i] = 0x20
	}
	copy(hdr, b.String())
	return hdr
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
