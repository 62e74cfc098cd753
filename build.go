package tilemap3d

import (
	"fmt"
	"image/color"

	"github.com/bodgit/tilemap3d/config"
	"go.uber.org/zap"
)

// Load builds a system from cfg, taking each layer palette from db, and
// restores whatever was last saved for it. A layer whose palette is not in
// db is left without one so that generating reports it.
func Load(cfg *config.Config, db *DB, logger *zap.Logger) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := cfg.Tilemap.Color()
	if err != nil {
		return nil, err
	}

	s := New(cfg.Tilemap.Name, cfg.Tilemap.Width, cfg.Tilemap.Height, cfg.Tilemap.TilesetSize, logger)
	s.DefaultColor = c

	for i, lc := range cfg.Layers {
		l := s.AddLayer(lc.Name)
		l.SetIntensity(lc.Intensity)
		l.LayoutIndex = lc.LayoutIndex

		for _, layout := range lc.Layouts {
			dst := l.AddLayout(layout.Name)
			copy(dst.IDs[:], layout.IDs)
			copy(dst.Picked[:], layout.Picked)
		}

		if lc.Palette == "" {
			continue
		}
		p, err := db.LoadPalette(lc.Palette)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		if p == nil {
			s.logger.Warn("palette not found", zap.Int("layer", i), zap.String("palette", lc.Palette))
			continue
		}
		l.Palette = p
	}

	if _, err := db.LoadTilemap(s); err != nil {
		return nil, err
	}

	return s, nil
}

// Save writes the settings, layers and layouts of s back into cfg.
func (s *System) Save(cfg *config.Config) {
	cfg.Tilemap.Name = s.Name
	cfg.Tilemap.Width = s.Width
	cfg.Tilemap.Height = s.Height
	cfg.Tilemap.TilesetSize = s.TileSize
	if s.DefaultColor != (color.RGBA{}) {
		c := s.DefaultColor
		cfg.Tilemap.DefaultColor = fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}

	cfg.Layers = make([]config.LayerConfig, len(s.Layers))
	for i, l := range s.Layers {
		lc := config.LayerConfig{
			Name:        l.Name,
			Intensity:   l.Intensity,
			LayoutIndex: l.LayoutIndex,
		}
		if l.Palette != nil {
			lc.Palette = l.Palette.ID
		}
		for _, layout := range l.Layouts {
			lc.Layouts = append(lc.Layouts, config.LayoutConfig{
				Name:   layout.Name,
				IDs:    append([]int(nil), layout.IDs[:]...),
				Picked: append([]bool(nil), layout.Picked[:]...),
			})
		}
		cfg.Layers[i] = lc
	}
}
