package paint

import (
	"image"

	"github.com/bodgit/tilemap3d/autotile"
	"github.com/bodgit/tilemap3d/layer"
	"github.com/bodgit/tilemap3d/storage"
)

// ring is the painted cell followed by its neighbours in recompute order.
var ring = [...]image.Point{
	{0, 0},   // Centre
	{0, 1},   // North
	{1, 1},   // North-east
	{1, 0},   // East
	{1, -1},  // South-east
	{0, -1},  // South
	{-1, -1}, // South-west
	{-1, 0},  // West
	{-1, 1},  // North-west
}

// resolve writes the layout tile for the current mask of every occupied
// cell of the ring around (x, y), clamped to the layer palette.
func resolve(g *storage.Grid, l *layer.Layer, layout *autotile.Layout, x, y, z int, offsets []image.Point) error {
	for _, o := range offsets {
		cx, cy := x+o.X, y+o.Y
		if !l.Occupied(cx, cy) {
			continue
		}
		tile, err := layout.Tile(autotile.Mask(l, cx, cy))
		if err != nil {
			return err
		}
		v, err := clamp(tile, l)
		if err != nil {
			return err
		}
		g.Set(cx, cy, z, v)
	}
	return nil
}

func (e *Engine) autoTarget(layoutIndex, z int) (*storage.Grid, *layer.Layer, *autotile.Layout, error) {
	g, l, err := e.target(z)
	if err != nil {
		return nil, nil, nil, err
	}
	layout := l.LayoutAt(layoutIndex)
	if layout == nil {
		return nil, nil, nil, ErrLayout
	}
	return g, l, layout, nil
}

// PaintAutoTile marks (x, y) of layer z as occupied and redraws it and each
// occupied neighbour with the tile layout chooses for its mask.
func (e *Engine) PaintAutoTile(x, y, layoutIndex, z int) error {
	g, l, layout, err := e.autoTarget(layoutIndex, z)
	if err != nil {
		return err
	}
	if !g.In(x, y, z) {
		return nil
	}

	l.SetOccupied(x, y, true)

	return resolve(g, l, layout, x, y, z, ring[:])
}

// EraseAutoTile marks (x, y) of layer z as unoccupied, clears the cell and
// redraws each occupied neighbour. Cells further away are not revisited.
func (e *Engine) EraseAutoTile(x, y, layoutIndex, z int) error {
	g, l, layout, err := e.autoTarget(layoutIndex, z)
	if err != nil {
		return err
	}
	if !g.In(x, y, z) {
		return nil
	}

	l.SetOccupied(x, y, false)
	g.Set(x, y, z, 0)

	return resolve(g, l, layout, x, y, z, ring[1:])
}
