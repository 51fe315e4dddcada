package preview

// Normalize rescales all segments to fit a square canvas with the given
// padding, preserving aspect ratio with a single uniform scale. The pattern
// is anchored to the top-left of its bounding box after scaling. Degenerate
// input (no segments, or a single point) never divides by zero; an empty
// block list is returned unchanged.
func Normalize(blocks []Block, padding, canvas float64) []Block {
	first := true
	var minX, maxX, minY, maxY float64
	for _, b := range blocks {
		for _, s := range b {
			for _, pt := range [][2]float64{{s.X1, s.Y1}, {s.X2, s.Y2}} {
				if first {
					minX, maxX = pt[0], pt[0]
					minY, maxY = pt[1], pt[1]
					first = false
					continue
				}
				if pt[0] < minX {
					minX = pt[0]
				}
				if pt[0] > maxX {
					maxX = pt[0]
				}
				if pt[1] < minY {
					minY = pt[1]
				}
				if pt[1] > maxY {
					maxY = pt[1]
				}
			}
		}
	}
	if first {
		return blocks
	}

	w := maxX - minX
	if w == 0 {
		w = 1
	}
	h := maxY - minY
	if h == 0 {
		h = 1
	}
	longer := w
	if h > w {
		longer = h
	}
	scale := (canvas - 2*padding) / longer

	out := make([]Block, len(blocks))
	for i, b := range blocks {
		nb := make(Block, len(b))
		for j, s := range b {
			nb[j] = Segment{
				X1: (s.X1-minX)*scale + padding,
				Y1: (s.Y1-minY)*scale + padding,
				X2: (s.X2-minX)*scale + padding,
				Y2: (s.Y2-minY)*scale + padding,
			}
		}
		out[i] = nb
	}
	return out
}
