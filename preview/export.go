package preview

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

// MaxColors is the largest palette Quantize will build.
const MaxColors = 256

// Scale enlarges m by an integer factor without smoothing.
func Scale(m image.Image, factor int) *image.RGBA {
	if factor < 1 {
		factor = 1
	}
	b := m.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)
	return dst
}

// Quantize reduces m to at most colors colors using median cut.
func Quantize(m image.Image, colors int) *image.Paletted {
	if colors < 2 || colors > MaxColors {
		colors = MaxColors
	}

	q := quantize.MedianCutQuantizer{}
	b := m.Bounds()
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return pm
}

// Encode writes m to w as a PNG, quantized first if colors is non-zero.
func Encode(w io.Writer, m image.Image, colors int) error {
	if colors > 0 {
		m = Quantize(m, colors)
	}
	return png.Encode(w, m)
}

// WriteFile writes m to file as a PNG.
func WriteFile(file string, m image.Image, colors int) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Encode(f, m, colors); err != nil {
		return err
	}

	return f.Close()
}
