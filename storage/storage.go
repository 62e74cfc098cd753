/*
Package storage implements the tilemap storage: the layered grid of painted
tile indices, the packed tileset atlas and the per-layer array consumed by
the renderer.

The grid and tileset are rebuilt from the layer configuration by Generate and
Regenerate. A snapshot of that configuration is kept so that callers can tell
when the stored data no longer matches it and painting must stop until the
storage is regenerated.
*/
package storage

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/bodgit/tilemap3d/layer"
)

var (
	// ErrNoPalette is returned when a layer has no palette
	ErrNoPalette = errors.New("layer has no tile palette")
	// ErrEmptyPalette is returned when a layer palette has no tiles
	ErrEmptyPalette = errors.New("layer tile palette is empty")
	// ErrSparsePalette is returned when a layer palette has empty slots
	// before its last tile
	ErrSparsePalette = errors.New("layer tile palette has gaps")
	// ErrTileSize is returned when a layer palette tile size does not match
	// the tileset
	ErrTileSize = errors.New("layer tile size does not match the tileset")
	// ErrNoLayers is returned when there are no layers to generate
	ErrNoLayers = errors.New("storage: no layers")
	// ErrDimensions is returned for a non-positive grid or tile size
	ErrDimensions = errors.New("storage: invalid dimensions")
	// ErrNotGenerated is returned when regenerating data that has never
	// been generated
	ErrNotGenerated = errors.New("storage: not generated")
)

// LayerError records a configuration error and the layer that caused it.
type LayerError struct {
	Layer int
	Err   error
}

func (e *LayerError) Error() string {
	return fmt.Sprintf("storage: layer %d: %v", e.Layer, e.Err)
}

func (e *LayerError) Unwrap() error {
	return e.Err
}

// State is the lifecycle state of a Storage.
type State int

const (
	// Uninitialized storage has never been generated
	Uninitialized State = iota
	// Generated storage holds a grid and tileset
	Generated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Generated:
		return "generated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config is the tilemap configuration the storage is generated from.
type Config struct {
	Width, Height int
	TileSize      int

	// DefaultColor fills tileset slice 0, the zero value selects
	// DefaultColor
	DefaultColor color.RGBA

	Layers []*layer.Layer
}

func (c Config) fill() color.RGBA {
	if c.DefaultColor == (color.RGBA{}) {
		return DefaultColor
	}
	return c.DefaultColor
}

func (c Config) check() error {
	if c.Width <= 0 || c.Height <= 0 || c.TileSize <= 0 {
		return ErrDimensions
	}
	if len(c.Layers) == 0 {
		return ErrNoLayers
	}
	return nil
}

// Storage owns the grid, tileset and layer array of one tilemap.
type Storage struct {
	state     State
	grid      *Grid
	tileset   *Tileset
	layers    LayerArray
	settings  Settings
	clipboard *Clipboard
}

// New returns uninitialized storage.
func New() *Storage {
	return new(Storage)
}

// State returns the lifecycle state.
func (s *Storage) State() State {
	return s.state
}

// Grid returns the grid or nil if not generated.
func (s *Storage) Grid() *Grid {
	return s.grid
}

// Tileset returns the tileset or nil if not generated.
func (s *Storage) Tileset() *Tileset {
	return s.tileset
}

// LayerArray returns the per-layer array.
func (s *Storage) LayerArray() LayerArray {
	return s.layers
}

// Settings returns the snapshot taken at the last generation.
func (s *Storage) Settings() Settings {
	return s.settings
}

// Generate builds a zero-filled grid, the tileset and the layer array from
// cfg and clears every layer's occupancy. On error nothing is changed.
func (s *Storage) Generate(cfg Config) error {
	if err := cfg.check(); err != nil {
		return err
	}

	tileset, err := packTileset(cfg.TileSize, cfg.fill(), cfg.Layers)
	if err != nil {
		return err
	}

	for _, l := range cfg.Layers {
		l.Resize(cfg.Width, cfg.Height)
		l.Clear()
	}

	s.grid = NewGrid(cfg.Width, cfg.Height, len(cfg.Layers))
	s.tileset = tileset
	s.layers = newLayerArray(cfg.Layers)
	s.settings = Capture(cfg)
	s.state = Generated

	return nil
}

// Regenerate rebuilds the tileset and layer array from cfg, preserving the
// grid. If the grid dimensions changed the grid is remapped cell by cell so
// that each (x, y, layer) keeps its value where it still exists, and if the
// width or height changed every layer's occupancy is resized and cleared.
// Uninitialized storage is generated instead. On error nothing is changed.
func (s *Storage) Regenerate(cfg Config) error {
	if s.state == Uninitialized {
		return s.Generate(cfg)
	}
	if err := cfg.check(); err != nil {
		return err
	}

	tileset, err := packTileset(cfg.TileSize, cfg.fill(), cfg.Layers)
	if err != nil {
		return err
	}

	g := s.grid
	if g.Width != cfg.Width || g.Height != cfg.Height || g.Depth != len(cfg.Layers) {
		s.grid = g.Remap(cfg.Width, cfg.Height, len(cfg.Layers))
	}
	for _, l := range cfg.Layers {
		l.Resize(cfg.Width, cfg.Height)
	}

	s.tileset = tileset
	s.layers = newLayerArray(cfg.Layers)
	s.settings = Capture(cfg)

	return nil
}

// Stale reports whether the stored data cannot be painted on with cfg,
// either because it was never generated or because cfg differs from the
// configuration it was generated with.
func (s *Storage) Stale(cfg Config) bool {
	return s.state != Generated || !s.settings.Equal(Capture(cfg))
}

// UpdateLayerSettings rewrites the tile counts and intensities of the layer
// array. It does nothing unless the layer count matches.
func (s *Storage) UpdateLayerSettings(layers []*layer.Layer) bool {
	if len(s.layers) != len(layers) {
		return false
	}
	s.layers.update(layers)
	return true
}

// SetIntensity stores the intensity byte of layer z.
func (s *Storage) SetIntensity(z int, v uint8) bool {
	if z < 0 || z >= len(s.layers) {
		return false
	}
	s.layers[z].Intensity = v
	return true
}
