/*
Package preview renders generated tilemap storage to ordinary images.

It samples the grid, tileset and layer array the same way the tilemap
renderer does: every cell starts as the default colour slice and each layer
in turn draws its tile over it, scaled by the layer intensity. Cells holding
tile 0 are left transparent. Grid row 0 is the bottom of the map so the
output is flipped to put it at the bottom of the image.
*/
package preview

import (
	"errors"
	"image"
	"image/color"

	"github.com/bodgit/tilemap3d/storage"
	"golang.org/x/image/draw"
)

var errNoLayer = errors.New("preview: no such layer")

// Render composites every layer of s into a single image of
// width*tileSize by height*tileSize pixels.
func Render(s *storage.Storage) (*image.RGBA, error) {
	g, ts := s.Grid(), s.Tileset()
	if g == nil || ts == nil {
		return nil, storage.ErrNotGenerated
	}

	size := ts.TileSize
	dst := image.NewRGBA(image.Rect(0, 0, g.Width*size, g.Height*size))
	info := s.LayerArray()

	background := ts.Slice(0)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			r := cellRect(x, y, g.Height, size)
			draw.Draw(dst, r, background, image.Point{}, draw.Src)

			for z := 0; z < g.Depth; z++ {
				t := int(g.At(x, y, z))
				if t == 0 || z >= len(info) || t >= info[z].TileCount {
					continue
				}
				src := ts.Slice(ts.SliceIndex(z, t))
				if src == nil {
					continue
				}
				mask := image.NewUniform(color.Alpha{A: info[z].Intensity})
				draw.DrawMask(dst, r, src, image.Point{}, mask, image.Point{}, draw.Over)
			}
		}
	}

	return dst, nil
}

func cellRect(x, y, height, size int) image.Rectangle {
	return image.Rect(x*size, (height-1-y)*size, (x+1)*size, (height-y)*size)
}

// Layer returns layer z of g as a grayscale image of tile indices, one pixel
// per cell.
func Layer(g *storage.Grid, z int) (*image.Gray, error) {
	if g == nil {
		return nil, storage.ErrNotGenerated
	}
	if z < 0 || z >= g.Depth {
		return nil, errNoLayer
	}

	m := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			m.SetGray(x, g.Height-1-y, color.Gray{Y: g.At(x, y, z)})
		}
	}

	return m, nil
}

// Sheet lays the tileset slices out left to right, top to bottom, in rows
// of columns tiles.
func Sheet(ts *storage.Tileset, columns int) *image.RGBA {
	if columns <= 0 {
		columns = 1
	}
	rows := (ts.Depth + columns - 1) / columns
	size := ts.TileSize

	dst := image.NewRGBA(image.Rect(0, 0, columns*size, rows*size))
	for i := 0; i < ts.Depth; i++ {
		x, y := i%columns*size, i/columns*size
		draw.Draw(dst, image.Rect(x, y, x+size, y+size), ts.Slice(i), image.Point{}, draw.Src)
	}

	return dst
}
