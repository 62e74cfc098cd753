/*
Package tilemap3d is a library for authoring layered tilemaps whose grid and
tileset are stored as 3D textures.

A System ties the layer configuration to its generated storage and applies
the painting tools to cells resolved by the host. Painting is refused while
the storage is stale, that is while the layer configuration differs from the
one it was last generated from.
*/
package tilemap3d

import (
	"errors"
	"image/color"

	"github.com/bodgit/tilemap3d/layer"
	"github.com/bodgit/tilemap3d/paint"
	"github.com/bodgit/tilemap3d/storage"
	"go.uber.org/zap"
)

// ErrStale is returned when painting on storage that must be regenerated
// first.
var ErrStale = errors.New("tilemap3d: tilemap must be regenerated before painting")

// System is one tilemap: its layer configuration, generated storage and the
// current tool selection.
type System struct {
	Name          string
	Width, Height int
	TileSize      int
	DefaultColor  color.RGBA
	Layers        []*layer.Layer

	Tool  Tool
	Mode  Mode
	Layer int
	Tile  int

	storage *storage.Storage
	logger  *zap.Logger
}

// New returns an ungenerated system. A nil logger discards everything.
func New(name string, width, height, tileSize int, logger *zap.Logger) *System {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &System{
		Name:     name,
		Width:    width,
		Height:   height,
		TileSize: tileSize,
		storage:  storage.New(),
		logger:   logger.With(zap.String("tilemap", name)),
	}
}

func (s *System) engine() *paint.Engine {
	return paint.New(s.storage, s.Layers)
}

// Config returns the storage configuration for the current settings.
func (s *System) Config() storage.Config {
	return storage.Config{
		Width:        s.Width,
		Height:       s.Height,
		TileSize:     s.TileSize,
		DefaultColor: s.DefaultColor,
		Layers:       s.Layers,
	}
}

// Storage returns the generated storage.
func (s *System) Storage() *storage.Storage {
	return s.storage
}

// AddLayer appends a new layer sized for the grid.
func (s *System) AddLayer(name string) *layer.Layer {
	l := layer.New(name, s.Width, s.Height)
	s.Layers = append(s.Layers, l)
	return l
}

// Resize changes the grid dimensions. The storage is stale until it is
// regenerated.
func (s *System) Resize(width, height int) {
	s.Width, s.Height = width, height
}

func (s *System) rebuild(generate bool) error {
	cfg := s.Config()

	op, fn := "regenerate", s.storage.Regenerate
	if generate {
		op, fn = "generate", s.storage.Generate
	}

	if err := fn(cfg); err != nil {
		var lerr *storage.LayerError
		if errors.As(err, &lerr) {
			s.logger.Warn("cannot "+op+" tilemap", zap.Int("layer", lerr.Layer), zap.Error(lerr.Err))
		} else {
			s.logger.Warn("cannot "+op+" tilemap", zap.Error(err))
		}
		return err
	}

	s.logger.Info(op+"d tilemap",
		zap.Int("width", s.Width),
		zap.Int("height", s.Height),
		zap.Int("layers", len(s.Layers)),
		zap.Int("slices", s.storage.Tileset().Depth))

	return nil
}

// Generate builds empty storage from the current settings.
func (s *System) Generate() error {
	return s.rebuild(true)
}

// Regenerate rebuilds the storage from the current settings keeping what
// has been painted.
func (s *System) Regenerate() error {
	return s.rebuild(false)
}

// Restore replaces the storage with data previously produced by
// MarshalBinary on a storage of this system.
func (s *System) Restore(data []byte) error {
	st := storage.New()
	if err := st.UnmarshalBinary(data); err != nil {
		return err
	}
	s.storage = st
	return nil
}

// CanPaint reports whether the storage matches the current settings.
func (s *System) CanPaint() bool {
	return !s.storage.Stale(s.Config())
}

// Refresh rewrites the layer array if a layer intensity or tile count has
// changed without requiring regeneration. It reports whether anything was
// rewritten.
func (s *System) Refresh() bool {
	info := s.storage.LayerArray()
	if len(info) != len(s.Layers) {
		return false
	}
	for i, l := range s.Layers {
		if info[i].Intensity != l.IntensityByte() || info[i].TileCount != l.TilesCount() {
			return s.storage.UpdateLayerSettings(s.Layers)
		}
	}
	return false
}

// Apply uses the selected tool on the cell at (x, y) of the selected layer.
// Picking a tile makes it the selected tile.
func (s *System) Apply(x, y int) error {
	if !s.CanPaint() {
		return ErrStale
	}

	log := s.logger.With(
		zap.Stringer("tool", s.Tool),
		zap.Stringer("mode", s.Mode),
		zap.Int("x", x),
		zap.Int("y", y),
		zap.Int("layer", s.Layer))

	var err error
	switch s.Tool {
	case ToolPick:
		var tile int
		if tile, err = s.engine().PickupTile(x, y, s.Layer); err == nil {
			s.Tile = tile
		}
	case ToolPaint:
		if s.Mode == ModeAutoTiles {
			err = s.engine().PaintAutoTile(x, y, s.layoutIndex(), s.Layer)
		} else {
			err = s.engine().PaintTile(x, y, s.Tile, s.Layer)
		}
	case ToolFill:
		if s.Mode == ModeDefault {
			err = s.engine().FillTile(x, y, s.Tile, s.Layer)
		}
	case ToolErase:
		err = s.engine().EraseAutoTile(x, y, s.layoutIndex(), s.Layer)
	default:
		return nil
	}

	if err != nil {
		log.Warn("cannot apply tool", zap.Error(err))
		return err
	}
	log.Debug("applied tool", zap.Int("tile", s.Tile))

	return nil
}

func (s *System) layoutIndex() int {
	if s.Layer < 0 || s.Layer >= len(s.Layers) {
		return -1
	}
	return s.Layers[s.Layer].LayoutIndex
}

// ResetLayer paints the whole of layer z with tile and clears its
// occupancy.
func (s *System) ResetLayer(z, tile int) error {
	if !s.CanPaint() {
		return ErrStale
	}
	return s.engine().ResetLayer(z, tile)
}

// SetLayerIntensity sets the alpha intensity of layer z.
func (s *System) SetLayerIntensity(z int, v float64) error {
	return s.engine().SetLayerIntensity(z, v)
}

// CopyLayer copies layer z to the clipboard.
func (s *System) CopyLayer(z int) error {
	return s.engine().CopyLayer(z)
}

// PasteLayer overwrites layer z with the clipboard.
func (s *System) PasteLayer(z int) bool {
	if !s.CanPaint() {
		return false
	}
	return s.engine().PasteLayer(z)
}
