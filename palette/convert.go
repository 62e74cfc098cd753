package palette

import (
	"image"
	"image/draw"
)

// Grid returns the number of atlas columns and rows for the current tile
// size and grid offset.
func (p *Palette) Grid() (int, int) {
	step := p.TileSize + p.GridOffset
	if p.Atlas == nil || step <= 0 {
		return 0, 0
	}
	b := p.Atlas.Bounds()
	return b.Dx() / step, b.Dy() / step
}

// cell cuts the atlas cell at column x and row y out of the atlas. Rows are
// counted upwards from the bottom edge of the atlas.
func (p *Palette) cell(x, y int) *image.RGBA {
	b := p.Atlas.Bounds()
	step := p.TileSize + p.GridOffset

	origin := image.Point{
		X: b.Min.X + x*step + p.GridOffset,
		Y: b.Max.Y - (y*step + p.GridOffset) - p.TileSize,
	}

	m := image.NewRGBA(image.Rect(0, 0, p.TileSize, p.TileSize))
	draw.Draw(m, m.Bounds(), p.Atlas, origin, draw.Src)
	return m
}

// ConvertAtlasToTiles cuts the atlas into tiles and stores each one in the
// first free slot, stopping after slot 255 or when the slot index reaches
// ExtractNumber. It returns the number of tiles added.
func (p *Palette) ConvertAtlasToTiles() (int, error) {
	if p.Atlas == nil {
		return 0, ErrNoAtlas
	}
	if p.Atlas.Bounds().Empty() {
		return 0, ErrAtlasUnreadable
	}
	if p.count == MaxTiles {
		return 0, ErrFull
	}
	if p.TileSize <= 0 || p.GridOffset < 0 {
		return 0, ErrTileSize
	}

	columns, rows := p.Grid()

	var added int
	i := 0
	for y := rows - 1; y >= 0; y-- {
		for x := 0; x < columns; x++ {
			if i >= MaxTiles || i >= p.ExtractNumber {
				break
			}
			for p.tiles[i] != nil && i < MaxTiles-1 {
				i++
			}
			if p.tiles[i] != nil {
				continue
			}

			p.tiles[i] = &Tile{Index: i, Image: p.cell(x, y)}
			p.count++
			added++
			i++
		}
	}

	return added, nil
}
