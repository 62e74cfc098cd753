package storage

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/bodgit/tilemap3d/layer"
)

// DefaultColor fills the reserved first tileset slice unless the
// configuration says otherwise.
var DefaultColor = color.RGBA{0x80, 0x80, 0x80, 0xff}

// Tileset is the packed tile atlas: square RGBA slices stacked along a third
// axis. Slice 0 holds the default colour, then every tile of every layer
// palette follows, layer by layer.
type Tileset struct {
	TileSize int
	Depth    int
	Pix      []uint8

	// Offsets holds the number of tiles packed before each layer
	Offsets []int
}

func newTileset(size, depth int) *Tileset {
	return &Tileset{
		TileSize: size,
		Depth:    depth,
		Pix:      make([]uint8, size*size*4*depth),
	}
}

func (t *Tileset) sliceBytes() int {
	return t.TileSize * t.TileSize * 4
}

// Slice returns slice z as an image sharing the tileset pixels, or nil if
// it does not exist.
func (t *Tileset) Slice(z int) *image.RGBA {
	if z < 0 || z >= t.Depth {
		return nil
	}
	n := t.sliceBytes()
	return &image.RGBA{
		Pix:    t.Pix[z*n : (z+1)*n : (z+1)*n],
		Stride: t.TileSize * 4,
		Rect:   image.Rect(0, 0, t.TileSize, t.TileSize),
	}
}

// SliceIndex returns the slice holding tile i of layer l.
func (t *Tileset) SliceIndex(l, i int) int {
	if l < 0 || l >= len(t.Offsets) {
		return 0
	}
	return 1 + t.Offsets[l] + i
}

// validate checks that every layer has a non-empty palette of the right
// tile size. Tile indices are palette slots, so the slots must be packed
// from zero.
func validate(tileSize int, layers []*layer.Layer) error {
	for i, l := range layers {
		switch {
		case l.Palette == nil:
			return &LayerError{Layer: i, Err: ErrNoPalette}
		case l.Palette.TilesCount() == 0:
			return &LayerError{Layer: i, Err: ErrEmptyPalette}
		case !l.Palette.Contiguous():
			return &LayerError{Layer: i, Err: ErrSparsePalette}
		case l.Palette.TileSize != tileSize:
			return &LayerError{Layer: i, Err: ErrTileSize}
		}
	}
	return nil
}

// packTileset builds a new tileset from the layer palettes. Nothing is
// built if any layer fails validation.
func packTileset(tileSize int, fill color.RGBA, layers []*layer.Layer) (*Tileset, error) {
	if err := validate(tileSize, layers); err != nil {
		return nil, err
	}

	var total int
	offsets := make([]int, len(layers))
	for i, l := range layers {
		offsets[i] = total
		total += l.Palette.TilesCount()
	}

	t := newTileset(tileSize, total+1)
	t.Offsets = offsets

	draw.Draw(t.Slice(0), image.Rect(0, 0, tileSize, tileSize), &image.Uniform{fill}, image.Point{}, draw.Src)

	for i, l := range layers {
		for j, tile := range l.Palette.Tiles() {
			s := t.Slice(t.SliceIndex(i, j))
			draw.Draw(s, s.Bounds(), tile.Image, tile.Image.Bounds().Min, draw.Src)
		}
	}

	return t, nil
}
