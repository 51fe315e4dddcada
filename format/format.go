// Package format decodes and encodes machine-embroidery design files into a
// flat stitch stream plus a thread-color list. Codecs register themselves by
// file extension; the rest of the system only sees Pattern, ReadFile and
// WriteFile.
package format

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Command classifies a stitch record.
type Command int

const (
	CmdStitch Command = iota
	CmdJump
	CmdTrim
	CmdStop
	CmdEnd
	CmdColorChange
)

func (c Command) String() string {
	switch c {
	case CmdStitch:
		return "STITCH"
	case CmdJump:
		return "JUMP"
	case CmdTrim:
		return "TRIM"
	case CmdStop:
		return "STOP"
	case CmdEnd:
		return "END"
	case CmdColorChange:
		return "COLOR_CHANGE"
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

type (
	// Stitch is one record in a design's stitch stream. X and Y are absolute
	// positions in the design's native units.
	Stitch struct {
		X       float64
		Y       float64
		Command Command
	}

	// Thread is one entry of a pattern's thread list. Color is 0xRRGGBB.
	Thread struct {
		Color int
	}

	// Pattern is a fully decoded design: the ordered stitch stream and the
	// thread list its color blocks index into.
	Pattern struct {
		Stitches []Stitch
		Threads  []*Thread
	}

	// Codec reads and writes one on-disk embroidery format.
	Codec interface {
		Decode(r io.Reader) (*Pattern, error)
		Encode(w io.Writer, p *Pattern) error
	}
)

// AddStitch appends an absolute-position record.
func (p *Pattern) AddStitch(x, y float64, cmd Command) {
	p.Stitches = append(p.Stitches, Stitch{X: x, Y: y, Command: cmd})
}

// AddThread appends a thread with the given 0xRRGGBB color.
func (p *Pattern) AddThread(rgb int) {
	p.Threads = append(p.Threads, &Thread{Color: rgb & 0xFFFFFF})
}

var codecs = map[string]Codec{}

// Register associates a codec with a lowercase file extension such as ".pes".
// Codecs call this from their package init.
func Register(ext string, c Codec) {
	codecs[strings.ToLower(ext)] = c
}

// CodecFor returns the codec registered for the path's extension.
func CodecFor(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	c, ok := codecs[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported design format %q", ext)
	}
	return c, nil
}

// Supported reports whether the path's extension has a registered codec.
func Supported(path string) bool {
	_, err := CodecFor(path)
	return err == nil
}

// ReadFile decodes the design at path.
func ReadFile(path string) (*Pattern, error) {
	c, err := CodecFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := c.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return p, nil
}

// WriteFile encodes the pattern to path, choosing the codec by extension.
func WriteFile(path string, p *Pattern) error {
	c, err := CodecFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Encode(f, p); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
