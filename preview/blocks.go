// Package preview turns a decoded stitch stream into the proof image shown
// to customers: polyline extraction, canvas normalization and rasterization.
package preview

import (
	"math"

	"jnbvisualizer/format"
)

type (
	// Segment is one drawable line in design units.
	Segment struct {
		X1, Y1, X2, Y2 float64
	}

	// Block is the ordered segment list for one color slot. Blocks are
	// delimited by color-change records in the original stitch order.
	Block []Segment
)

// Blocks walks the stitch stream once and collects drawable segments per
// color block. A stitch-to-stitch move longer than threshold is treated as
// undrawn travel even when the format did not mark it as a jump; explicit
// jump/trim/stop records are never drawn and break the polyline. A move of
// exactly threshold is drawn.
func Blocks(p *format.Pattern, threshold float64) []Block {
	var blocks []Block
	var current Block
	var lastX, lastY float64
	haveLast := false

	for _, s := range p.Stitches {
		switch s.Command {
		case format.CmdStitch:
			if haveLast {
				dx := s.X - lastX
				dy := s.Y - lastY
				if math.Hypot(dx, dy) > threshold {
					lastX, lastY = s.X, s.Y
					continue
				}
				current = append(current, Segment{lastX, lastY, s.X, s.Y})
			}
			lastX, lastY = s.X, s.Y
			haveLast = true

		case format.CmdColorChange:
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			// The first stitch after a color change must not draw from a
			// stale position.
			haveLast = false

		default:
			haveLast = false
		}
	}

	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

// Cap truncates the block list to max entries. Designs with more color
// changes than the cap silently lose the excess blocks; this is the single
// place that policy lives.
func Cap(blocks []Block, max int) []Block {
	if len(blocks) > max {
		return blocks[:max]
	}
	return blocks
}
