package core

import (
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"jnbvisualizer/apperr"
	"jnbvisualizer/config"
)

var hexPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// normalizeHex strips a leading '#', expands 3-digit shorthand and validates
// that exactly six hex digits remain.
func normalizeHex(hexColor string) (string, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hexColor), "#")
	if len(h) == 3 {
		var b strings.Builder
		for _, c := range h {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		h = b.String()
	}
	if !hexPattern.MatchString(h) {
		return "", apperr.NewInvalidInput("invalid color: " + hexColor)
	}
	return h, nil
}

// HexToRGBInt parses "#RRGGBB" (or "#RGB" shorthand) into a 0xRRGGBB integer.
func HexToRGBInt(hexColor string) (int, error) {
	h, err := normalizeHex(hexColor)
	if err != nil {
		return 0, err
	}
	v, _ := strconv.ParseInt(h, 16, 32)
	return int(v), nil
}

// HexToRGB parses a hex color string into an opaque color.RGBA.
func HexToRGB(hexColor string) (color.RGBA, error) {
	v, err := HexToRGBInt(hexColor)
	if err != nil {
		return color.RGBA{}, err
	}
	return RGBIntToColor(v), nil
}

// RGBIntToColor converts a 0xRRGGBB integer to an opaque color.RGBA.
func RGBIntToColor(v int) color.RGBA {
	return color.RGBA{
		R: uint8(v >> 16 & 0xFF),
		G: uint8(v >> 8 & 0xFF),
		B: uint8(v & 0xFF),
		A: 0xFF,
	}
}

// RGBIntToHex formats a 0xRRGGBB integer as "#rrggbb".
func RGBIntToHex(v int) string {
	return "#" + strconv.FormatInt(int64(v&0xFFFFFF)|0x1000000, 16)[1:]
}

// ParseColorList splits a comma-separated color list, validating every entry.
// Blank entries are dropped. An empty result is an input error; a list longer
// than the block cap is silently truncated, not rejected.
func ParseColorList(colorsCSV string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(colorsCSV, ",") {
		if c := strings.TrimSpace(part); c != "" {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, apperr.NewInvalidInput("no colors provided")
	}
	if len(out) > config.MaxBlocks {
		out = out[:config.MaxBlocks]
	}
	for _, c := range out {
		if _, err := HexToRGBInt(c); err != nil {
			return nil, err
		}
	}
	return out, nil
}
