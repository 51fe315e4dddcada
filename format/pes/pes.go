// Package pes reads and writes Brother .pes design files. Only the embedded
// PEC block is interpreted; the PES-level section list is skipped on read and
// written empty (version 1, truncated) on write, which is what home machines
// and most tooling accept.
package pes

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"jnbvisualizer/format"
	"jnbvisualizer/format/pec"
)

const (
	magic = "#PES0001"

	// pecOffsetPos is where the 32-bit little-endian offset of the PEC
	// block lives, right after the 8-byte signature.
	pecOffsetPos = 8
)

func init() {
	format.Register(".pes", codec{})
}

type codec struct{}

func (codec) Decode(r io.Reader) (*format.Pattern, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < pecOffsetPos+4 {
		return nil, errors.New("pes file truncated")
	}
	if string(data[:4]) != "#PES" {
		return nil, errors.New("not a PES file")
	}

	pecStart := int(binary.LittleEndian.Uint32(data[pecOffsetPos:]))
	if pecStart <= 0 || pecStart >= len(data) {
		return nil, errors.New("pes file has no PEC block")
	}
	return pec.DecodeBlock(data[pecStart:])
}

func (codec) Encode(w io.Writer, p *format.Pattern) error {
	// Version 1 truncated layout: signature, PEC offset, an empty PES
	// section, then the PEC block itself.
	var body bytes.Buffer
	if err := pec.EncodeBlock(&body, p, "Untitled"); err != nil {
		return err
	}

	var hdr bytes.Buffer
	hdr.WriteString(magic)
	pecStart := uint32(pecOffsetPos + 4 + 8) // signature + offset + empty section
	binary.Write(&hdr, binary.LittleEndian, pecStart)
	binary.Write(&hdr, binary.LittleEndian, uint16(0x01)) // scale to fit
	binary.Write(&hdr, binary.LittleEndian, uint16(0xFF)) // hoop: 130x180
	binary.Write(&hdr, binary.LittleEndian, uint16(0x00)) // section count
	binary.Write(&hdr, binary.LittleEndian, uint16(0x00))

	if _, err := w.Write(hdr.Bytes()); err != nil {
		return err
	}
	_, err := w.Write(body.Bytes())
	return err
}
