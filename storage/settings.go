package storage

import "slices"

// Settings is a snapshot of the configuration the storage was generated
// from.
type Settings struct {
	LayerCount int
	TileCounts []int
	PaletteIDs []string
	Width      int
	Height     int
	TileSize   int
}

// Capture takes a snapshot of cfg. Layers without a palette are recorded
// with an empty ID and a tile count of zero.
func Capture(cfg Config) Settings {
	s := Settings{
		LayerCount: len(cfg.Layers),
		TileCounts: make([]int, len(cfg.Layers)),
		PaletteIDs: make([]string, len(cfg.Layers)),
		Width:      cfg.Width,
		Height:     cfg.Height,
		TileSize:   cfg.TileSize,
	}
	for i, l := range cfg.Layers {
		if l.Palette != nil {
			s.PaletteIDs[i] = l.Palette.ID
			s.TileCounts[i] = l.Palette.TilesCount()
		}
	}
	return s
}

// Equal reports whether s and o describe the same configuration.
func (s Settings) Equal(o Settings) bool {
	return s.LayerCount == o.LayerCount &&
		s.Width == o.Width &&
		s.Height == o.Height &&
		s.TileSize == o.TileSize &&
		slices.Equal(s.TileCounts, o.TileCounts) &&
		slices.Equal(s.PaletteIDs, o.PaletteIDs)
}
