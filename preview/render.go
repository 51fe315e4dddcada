package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/gogpu/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"jnbvisualizer/core"
)

const watermarkText = "jnbvisualizer proof (preview only)"

// RenderOptions fixes the raster geometry for one render call.
type RenderOptions struct {
	Canvas          int
	Padding         int
	LineWidth       float64
	WatermarkHeight int
}

// Render rasterizes normalized blocks over a background fill and returns PNG
// bytes. Block i is drawn with overrides[i] when present, else fallback[i]
// (the pattern's native thread color), else black. The watermark band is
// always drawn last and overwrites any geometry beneath it.
func Render(blocks []Block, bgHex string, overrides, fallback []string, opts RenderOptions) ([]byte, error) {
	bg, err := core.HexToRGB(bgHex)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(opts.Canvas, opts.Canvas)
	dc.ClearWithColor(gg.FromColor(bg))
	dc.SetLineWidth(opts.LineWidth)

	for i, block := range blocks {
		col, err := resolveColor(i, overrides, fallback)
		if err != nil {
			return nil, err
		}
		dc.SetColor(col)
		for _, s := range block {
			dc.DrawLine(s.X1, s.Y1, s.X2, s.Y2)
		}
		dc.Stroke()
		dc.ClearPath()
	}

	band := float64(opts.WatermarkHeight)
	dc.SetColor(color.Black)
	dc.DrawRectangle(0, float64(opts.Canvas)-band, float64(opts.Canvas), band)
	dc.Fill()

	img := dc.Image().(*image.RGBA)
	drawWatermarkText(img, 10, opts.Canvas-20)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// resolveColor applies the override -> native thread -> black precedence for
// block index i.
func resolveColor(i int, overrides, fallback []string) (color.RGBA, error) {
	switch {
	case i < len(overrides):
		return core.HexToRGB(overrides[i])
	case i < len(fallback):
		return core.HexToRGB(fallback[i])
	default:
		return color.RGBA{A: 0xFF}, nil
	}
}

func drawWatermarkText(dst *image.RGBA, x, y int) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y+basicfont.Face7x13.Ascent),
	}
	d.DrawString(watermarkText)
}
