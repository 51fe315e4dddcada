package pec

// The Brother PEC thread chart. Files reference threads as 1-based indices
// into this table; arbitrary RGB values are snapped to the nearest entry by
// squared distance when encoding.
var palette = [64]int{
	0x1A0A94, // Prussian Blue
	0x0F75FF, // Blue
	0x00934C, // Teal Green
	0xBABDFE, // Corn Flower Blue
	0xEC0000, // Red
	0xE4995A, // Reddish Brown
	0x9911FF, // Magenta
	0xFFAEFF, // Light Lilac
	0x9966FF, // Lilac
	0x00AA00, // Mint Green
	0xFFEB00, // Deep Gold
	0xFFA500, // Orange
	0xFFFF00, // Yellow
	0x7FE31D, // Lime Green
	0xC1A941, // Brass
	0xC0C0C0, // Silver
	0x7C4C1E, // Russet Brown
	0xFFF4BC, // Cream Brown
	0x808080, // Pewter
	0x000000, // Black
	0x0044FF, // Ultramarine
	0x77009D, // Royal Purple
	0x606060, // Dark Gray
	0x4C3300, // Dark Brown
	0xFF6677, // Deep Rose
	0xB26243, // Light Brown
	0xFFB3B3, // Salmon Pink
	0xFF4F36, // Vermilion
	0xF0F0F0, // White
	0x6B2FC3, // Violet
	0x9FE0A0, // Seacrest
	0x71A3C2, // Sky Blue
	0xFFB073, // Pumpkin
	0xFFF2B5, // Cream Yellow
	0xC88954, // Khaki
	0x960808, // Clay Brown
	0x76C850, // Leaf Green
	0x0A2F66, // Peacock Blue
	0xA0A0A0, // Gray
	0xF7EBD9, // Warm Gray
	0x366200, // Dark Olive
	0xFFDBC3, // Flesh Pink
	0xFF5BB2, // Pink
	0x0E7800, // Deep Green
	0xB0B8F8, // Lavender
	0x6A77E8, // Wisteria Violet
	0xF0E4A4, // Beige
	0xE00085, // Carmine
	0x95537A, // Amber Red
	0x005028, // Olive Green
	0xC20045, // Dark Fuchsia
	0xFFD38E, // Tangerine
	0x91D3F0, // Light Blue
	0x007C78, // Emerald Green
	0x5C00A0, // Purple
	0xFF99CC, // Moss Green
	0xFECCB4, // Flesh Tone
	0xFFDD00, // Harvest Gold
	0x0063B5, // Electric Blue
	0xFFF2CC, // Lemon Yellow
	0xF8C370, // Fresh Green
	0xFF8800, // Applique Material
	0xFFC8C8, // Applique Position
	0xB4B4B4, // Applique
}

// ColorOf returns the 0xRRGGBB color for a 1-based PEC palette index.
// Out-of-range indices wrap, matching how machines tolerate odd files.
func ColorOf(idx int) int {
	return palette[((idx-1)%len(palette)+len(palette))%len(palette)]
}

// NearestIndex returns the 1-based palette index closest to rgb.
func NearestIndex(rgb int) int {
	r := rgb >> 16 & 0xFF
	g := rgb >> 8 & 0xFF
	b := rgb & 0xFF

	best, bestDist := 1, int(^uint(0)>>1)
	for i, c := range palette {
		dr := r - c>>16&0xFF
		dg := g - c>>8&0xFF
		db := b - c&0xFF
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			best, bestDist = i+1, d
		}
	}
	return best
}
