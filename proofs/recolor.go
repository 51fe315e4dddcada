package proofs

import (
	"jnbvisualizer/apperr"
	"jnbvisualizer/core"
	"jnbvisualizer/format"
)

// Recolor overwrites the pattern's thread colors in place with the supplied
// hex colors, by position. When the lists differ in length only the common
// prefix is touched; remaining threads keep their original color. A pattern
// with no thread list cannot be recolored at all.
func Recolor(p *format.Pattern, colors []string) error {
	if len(p.Threads) == 0 {
		return apperr.NewUnprocessable("master design has no thread list")
	}
	n := len(p.Threads)
	if len(colors) < n {
		n = len(colors)
	}
	for i := 0; i < n; i++ {
		rgb, err := core.HexToRGBInt(colors[i])
		if err != nil {
			return err
		}
		p.Threads[i].Color = rgb
	}
	return nil
}
