/*
Package palette implements tile palettes.

A palette holds up to 256 square tile images cut out of an atlas image. The
atlas is split into a grid of tileSize cells separated by gridOffset pixels
and scanned from its top row downwards, left to right, each cell being
stored in the next free palette slot.
*/
package palette

import (
	"errors"
	"image"
	"image/draw"
)

const (
	// MaxTiles is the number of slots in a palette
	MaxTiles = 256

	// DefaultTileSize is the tile size of a new or reset palette
	DefaultTileSize = 32

	// DefaultExtractNumber is the default limit on tiles taken from an atlas
	DefaultExtractNumber = 255
)

var (
	// ErrNoAtlas is returned when converting without an atlas
	ErrNoAtlas = errors.New("palette: no atlas image")
	// ErrAtlasUnreadable is returned when the atlas has no pixels to sample
	ErrAtlasUnreadable = errors.New("palette: atlas image is not readable")
	// ErrFull is returned when every palette slot is already occupied
	ErrFull = errors.New("palette: palette is already full")
	// ErrTileSize is returned for a non-positive tile size or a tile image
	// of the wrong size
	ErrTileSize = errors.New("palette: invalid tile size")
)

// Tile is a square tile image. It must not be modified once created.
type Tile struct {
	Index int
	Image *image.RGBA
}

// Palette is a sparse array of tiles.
type Palette struct {
	// ID identifies the palette, it is recorded by the tilemap settings
	// snapshot
	ID string

	TileSize      int
	GridOffset    int
	ExtractNumber int
	Atlas         image.Image

	tiles [MaxTiles]*Tile
	count int
}

// New returns an empty palette with default settings.
func New(id string) *Palette {
	return &Palette{
		ID:            id,
		TileSize:      DefaultTileSize,
		ExtractNumber: DefaultExtractNumber,
	}
}

// TilesCount returns the number of occupied slots
func (p *Palette) TilesCount() int {
	return p.count
}

// Free returns the number of empty slots
func (p *Palette) Free() int {
	return MaxTiles - p.count
}

// Tile returns the tile in slot i or nil if the slot is empty.
func (p *Palette) Tile(i int) *Tile {
	if i < 0 || i >= MaxTiles {
		return nil
	}
	return p.tiles[i]
}

// Tiles returns the occupied slots in slot order.
func (p *Palette) Tiles() []*Tile {
	tiles := make([]*Tile, 0, p.count)
	for _, t := range p.tiles {
		if t != nil {
			tiles = append(tiles, t)
		}
	}
	return tiles
}

// Contiguous reports whether the occupied slots are exactly 0 to
// TilesCount()-1.
func (p *Palette) Contiguous() bool {
	for _, t := range p.tiles[p.count:] {
		if t != nil {
			return false
		}
	}
	return true
}

// SetTile stores a copy of m in slot i, replacing any existing tile.
func (p *Palette) SetTile(i int, m image.Image) error {
	if i < 0 || i >= MaxTiles {
		return errors.New("palette: slot out of range")
	}
	b := m.Bounds()
	if b.Dx() != p.TileSize || b.Dy() != p.TileSize {
		return ErrTileSize
	}

	dup := image.NewRGBA(image.Rect(0, 0, p.TileSize, p.TileSize))
	draw.Draw(dup, dup.Bounds(), m, b.Min, draw.Src)

	if p.tiles[i] == nil {
		p.count++
	}
	p.tiles[i] = &Tile{Index: i, Image: dup}
	return nil
}

// DeleteTiles empties every slot.
func (p *Palette) DeleteTiles() {
	for i := range p.tiles {
		p.tiles[i] = nil
	}
	p.count = 0
}

// ResetAsset empties the palette and restores the default conversion
// settings.
func (p *Palette) ResetAsset() {
	p.DeleteTiles()
	p.TileSize = DefaultTileSize
	p.GridOffset = 0
	p.Atlas = nil
}
