// Package pec implements the Brother PEC stitch block, both as a standalone
// .pec codec and as the payload of .pes files. PEC stores thread colors as
// 1-based indices into a fixed 64-color palette, so arbitrary RGB threads are
// snapped to the nearest palette entry on encode.
package pec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"jnbvisualizer/format"
)

const (
	magic = "#PEC0001"

	iconStride = 6
	iconHeight = 38

	// stitchBase is the offset of the stitch bytes from the start of the
	// PEC block: 0x202 (length field) + 3 + 0x0F filler.
	stitchBase = 0x214
)

func init() {
	format.Register(".pec", codec{})
}

type codec struct{}

func (codec) Decode(r io.Reader) (*format.Pattern, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < len(magic) || string(data[:len(magic)]) != magic {
		return nil, errors.New("not a PEC file")
	}
	return DecodeBlock(data[len(magic):])
}

func (codec) Encode(w io.Writer, p *format.Pattern) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return err
	}
	return EncodeBlock(w, p, "Untitled")
}

// DecodeBlock parses a PEC block (starting at its "LA:" label) into a
// pattern with absolute stitch positions.
func DecodeBlock(block []byte) (*format.Pattern, error) {
	if len(block) < stitchBase {
		return nil, errors.New("pec block truncated")
	}
	if string(block[:3]) != "LA:" {
		return nil, errors.New("pec block missing label")
	}

	colorChanges := int(block[0x30])
	colorCount := colorChanges + 1
	if 0x31+colorCount > len(block) {
		return nil, errors.New("pec palette truncated")
	}

	p := &format.Pattern{}
	for _, idx := range block[0x31 : 0x31+colorCount] {
		p.AddThread(ColorOf(int(idx)))
	}

	if err := decodeStitches(block[stitchBase:], p); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeStitches(data []byte, p *format.Pattern) error {
	var x, y float64
	pos := 0

	next := func() (byte, bool) {
		if pos >= len(data) {
			return 0, false
		}
		b := data[pos]
		pos++
		return b, true
	}

	// Deltas are 7-bit signed in short form. Long form sets bit 7 of the
	// lead byte, carries jump/trim flags in bits 5..4, and spreads a 12-bit
	// signed value across the low nibble and the following byte.
	longDelta := func(hi, lo byte) (delta int, jump, trim bool) {
		v := int(hi&0x0F)<<8 | int(lo)
		if v&0x800 != 0 {
			v -= 0x1000
		}
		return v, hi&0x10 != 0, hi&0x20 != 0
	}
	shortDelta := func(b byte) int {
		v := int(b)
		if v > 0x3F {
			v -= 0x80
		}
		return v
	}

	for {
		b1, ok := next()
		if !ok {
			break
		}
		b2, ok := next()
		if !ok {
			break
		}
		if b1 == 0xFF && b2 == 0x00 {
			p.AddStitch(x, y, format.CmdEnd)
			return nil
		}
		if b1 == 0xFE && b2 == 0xB0 {
			pos++ // alternating 2/1 filler byte
			p.AddStitch(x, y, format.CmdColorChange)
			continue
		}

		var dx, dy int
		var jumpX, trimX, jumpY, trimY bool
		if b1&0x80 != 0 {
			dx, jumpX, trimX = longDelta(b1, b2)
			b2, ok = next()
			if !ok {
				return errors.New("pec stitch stream truncated")
			}
		} else {
			dx = shortDelta(b1)
		}
		if b2&0x80 != 0 {
			b3, ok := next()
			if !ok {
				return errors.New("pec stitch stream truncated")
			}
			dy, jumpY, trimY = longDelta(b2, b3)
		} else {
			dy = shortDelta(b2)
		}

		x += float64(dx)
		y += float64(dy)
		switch {
		case jumpX || jumpY:
			p.AddStitch(x, y, format.CmdJump)
		case trimX || trimY:
			p.AddStitch(x, y, format.CmdTrim)
		default:
			p.AddStitch(x, y, format.CmdStitch)
		}
	}
	// Stream ended without the FF 00 terminator; tolerate it.
	p.AddStitch(x, y, format.CmdEnd)
	return nil
}

// EncodeBlock writes a complete PEC block for the pattern, including the
// palette header, encoded stitches and blank thumbnail graphics.
func EncodeBlock(w io.Writer, p *format.Pattern, label string) error {
	if len(label) > 16 {
		label = label[:16]
	}

	stitches, minX, minY, maxX, maxY := encodeStitches(p)

	colorCount := len(p.Threads)
	if colorCount == 0 {
		colorCount = 1
	}
	if colorCount > 0xFF {
		return fmt.Errorf("pec supports at most 255 threads, got %d", colorCount)
	}
	palette := make([]byte, colorCount)
	for i := range palette {
		if i < len(p.Threads) {
			palette[i] = byte(NearestIndex(p.Threads[i].Color))
		} else {
			palette[i] = 1
		}
	}
	colorChanges := colorCount - 1

	var hdr []byte
	hdr = append(hdr, "LA:"...)
	hdr = append(hdr, []byte(fmt.Sprintf("%-16s\r", label))...)
	hdr = append(hdr, bytesOf(0x20, 12)...)
	hdr = append(hdr, 0xFF, 0x00, iconStride, iconHeight)
	hdr = append(hdr, bytesOf(0x20, 12)...)
	hdr = append(hdr, byte(colorChanges))
	hdr = append(hdr, palette...)
	hdr = append(hdr, bytesOf(0x20, 0x1D0-colorChanges)...)

	// 0x202: 24-bit LE byte count such that reading it lands consumers at
	// the end of the stitch bytes.
	blockLen := 0x14 + len(stitches)
	hdr = append(hdr, byte(blockLen), byte(blockLen>>8), byte(blockLen>>16))

	width := int(maxX - minX)
	height := int(maxY - minY)
	hdr = append(hdr, 0x31, 0xFF, 0xF0)
	hdr = appendUint16LE(hdr, uint16(width))
	hdr = appendUint16LE(hdr, uint16(height))
	hdr = appendUint16LE(hdr, 0x1E0)
	hdr = appendUint16LE(hdr, 0x1B0)
	hdr = appendUint16BE(hdr, 0x9000|uint16(int(-minX)&0xFFF))
	hdr = appendUint16BE(hdr, 0x9000|uint16(int(-minY)&0xFFF))

	if _, err := w.Write(hdr); err != nil {
		return err
	}
	if _, err := w.Write(stitches); err != nil {
		return err
	}

	// One blank thumbnail per color plus the overview icon.
	icon := make([]byte, iconStride*iconHeight)
	for i := 0; i < colorCount+1; i++ {
		if _, err := w.Write(icon); err != nil {
			return err
		}
	}
	return nil
}

func encodeStitches(p *format.Pattern) (out []byte, minX, minY, maxX, maxY float64) {
	var x, y int
	first := true
	colorToggle := byte(2)

	bounds := func(fx, fy float64) {
		if first {
			minX, maxX, minY, maxY = fx, fx, fy, fy
			first = false
			return
		}
		if fx < minX {
			minX = fx
		}
		if fx > maxX {
			maxX = fx
		}
		if fy < minY {
			minY = fy
		}
		if fy > maxY {
			maxY = fy
		}
	}

	appendDelta := func(d int, jump, trim bool) {
		if !jump && !trim && d >= -64 && d <= 63 {
			out = append(out, byte(d&0x7F))
			return
		}
		flag := byte(0x80)
		if jump {
			flag |= 0x10
		}
		if trim {
			flag |= 0x20
		}
		v := d & 0xFFF
		out = append(out, flag|byte(v>>8), byte(v))
	}

	for _, st := range p.Stitches {
		switch st.Command {
		case format.CmdColorChange:
			out = append(out, 0xFE, 0xB0, colorToggle)
			colorToggle ^= 3 // alternates 2, 1, 2, ...
		case format.CmdEnd:
			// Terminator written below.
		case format.CmdStop:
			// PEC has no stop record; treated as a color change by most
			// machines, skipped here.
		default:
			nx, ny := int(st.X), int(st.Y)
			dx, dy := nx-x, ny-y
			jump := st.Command == format.CmdJump
			trim := st.Command == format.CmdTrim
			long := jump || trim || dx < -64 || dx > 63 || dy < -64 || dy > 63
			appendDelta(dx, jump && long, trim && long)
			appendDelta(dy, jump && long, trim && long)
			x, y = nx, ny
			bounds(st.X, st.Y)
		}
	}
	out = append(out, 0xFF, 0x00)
	return out, minX, minY, maxX, maxY
}

func bytesOf(b byte, n int) []byte {
	s := make([]byte, n)
	for i := range s {
		s[i] = b
	}
	return s
}

func appendUint16LE(b []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(b, v)
}

func appendUint16BE(b []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(b, v)
}
