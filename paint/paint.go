/*
Package paint implements the tilemap painting tools.

All operations act on one layer of a generated storage grid. Cell
coordinates are expected to come from the host already resolved to the
grid; a cell outside the grid is silently ignored. Every operation runs to
completion synchronously and is not safe for concurrent use.
*/
package paint

import (
	"errors"

	"github.com/bodgit/tilemap3d/layer"
	"github.com/bodgit/tilemap3d/storage"
)

var (
	// ErrLayer is returned for a layer index that does not exist
	ErrLayer = errors.New("paint: no such layer")
	// ErrNoPalette is returned when the layer has no tiles to paint with
	ErrNoPalette = errors.New("paint: layer has no tiles")
	// ErrLayout is returned for an auto-tile layout that does not exist
	ErrLayout = errors.New("paint: no such auto-tile layout")
)

// Engine paints onto a storage grid and the occupancy of its layers.
type Engine struct {
	storage *storage.Storage
	layers  []*layer.Layer
}

// New returns an engine painting into s. The layers must be the ones s was
// generated from.
func New(s *storage.Storage, layers []*layer.Layer) *Engine {
	return &Engine{
		storage: s,
		layers:  layers,
	}
}

func (e *Engine) target(z int) (*storage.Grid, *layer.Layer, error) {
	g := e.storage.Grid()
	if g == nil {
		return nil, nil, storage.ErrNotGenerated
	}
	if z < 0 || z >= len(e.layers) || z >= g.Depth {
		return nil, nil, ErrLayer
	}
	return g, e.layers[z], nil
}

// clamp limits tile to the palette of l.
func clamp(tile int, l *layer.Layer) (uint8, error) {
	n := l.TilesCount()
	if n == 0 {
		return 0, ErrNoPalette
	}
	return uint8(min(max(tile, 0), n-1)), nil
}

// PaintTile writes tile to the cell at (x, y) of layer z. The tile index is
// clamped to the layer palette and the cell becomes occupied unless it is
// painted with tile 0.
func (e *Engine) PaintTile(x, y, tile, z int) error {
	g, l, err := e.target(z)
	if err != nil {
		return err
	}
	v, err := clamp(tile, l)
	if err != nil {
		return err
	}
	if !g.Set(x, y, z, v) {
		return nil
	}
	l.SetOccupied(x, y, v > 0)
	return nil
}

// PickupTile returns the tile index at (x, y) of layer z.
func (e *Engine) PickupTile(x, y, z int) (int, error) {
	g, _, err := e.target(z)
	if err != nil {
		return 0, err
	}
	return int(g.At(x, y, z)), nil
}

// ResetLayer paints every cell of layer z with tile and clears the layer
// occupancy.
func (e *Engine) ResetLayer(z, tile int) error {
	g, l, err := e.target(z)
	if err != nil {
		return err
	}
	v, err := clamp(tile, l)
	if err != nil {
		return err
	}
	g.Fill(z, v)
	l.Clear()
	return nil
}

// SetLayerIntensity sets the alpha intensity of layer z, clamped to [0, 1],
// on both the layer and the layer array.
func (e *Engine) SetLayerIntensity(z int, v float64) error {
	if z < 0 || z >= len(e.layers) {
		return ErrLayer
	}
	l := e.layers[z]
	l.SetIntensity(v)
	e.storage.SetIntensity(z, l.IntensityByte())
	return nil
}

// LayerIntensity returns the alpha intensity of layer z.
func (e *Engine) LayerIntensity(z int) (float64, error) {
	if z < 0 || z >= len(e.layers) {
		return 0, ErrLayer
	}
	return e.layers[z].Intensity, nil
}

// CopyLayer copies layer z to the clipboard.
func (e *Engine) CopyLayer(z int) error {
	if _, _, err := e.target(z); err != nil {
		return err
	}
	if !e.storage.Copy(z) {
		return ErrLayer
	}
	return nil
}

// PasteLayer overwrites layer z with the clipboard. It returns false and
// changes nothing if there is nothing suitable to paste.
func (e *Engine) PasteLayer(z int) bool {
	return e.storage.Paste(z)
}
