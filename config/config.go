// Package config handles tilemap project configuration.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/bodgit/tilemap3d/autotile"
)

// DefaultFile is the project file looked for when no path is given.
const DefaultFile = "tilemap3d.yaml"

// Config holds a tilemap project.
type Config struct {
	Tilemap  TilemapConfig `yaml:"tilemap"`
	Layers   []LayerConfig `yaml:"layers"`
	Database string        `yaml:"database"`
	Logging  LoggingConfig `yaml:"logging"`
}

// TilemapConfig holds the grid and tileset settings.
type TilemapConfig struct {
	Name         string `yaml:"name"`
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	TilesetSize  int    `yaml:"tileset_size"`
	DefaultColor string `yaml:"default_color"` // #rrggbb or #rrggbbaa
}

// LayerConfig holds one layer. Palette names a palette in the database.
type LayerConfig struct {
	Name        string         `yaml:"name"`
	Palette     string         `yaml:"palette"`
	Intensity   float64        `yaml:"intensity"`
	LayoutIndex int            `yaml:"layout_index"`
	Layouts     []LayoutConfig `yaml:"layouts,omitempty"`
}

// LayoutConfig holds one auto-tile layout.
type LayoutConfig struct {
	Name   string `yaml:"name"`
	IDs    []int  `yaml:"ids,flow"`
	Picked []bool `yaml:"picked,flow"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Tilemap: TilemapConfig{
			Name:         "tilemap",
			Width:        64,
			Height:       64,
			TilesetSize:  32,
			DefaultColor: "#808080ff",
		},
		Database: "tilemap3d.db",
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Color parses DefaultColor.
func (t TilemapConfig) Color() (color.RGBA, error) {
	s := strings.TrimPrefix(t.DefaultColor, "#")
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", t.DefaultColor)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", t.DefaultColor, err)
	}
	return color.RGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// Validate checks the values a tilemap cannot be generated without.
func (c *Config) Validate() error {
	var errs []error

	if c.Tilemap.Width <= 0 || c.Tilemap.Height <= 0 {
		errs = append(errs, fmt.Errorf("tilemap: invalid size %dx%d", c.Tilemap.Width, c.Tilemap.Height))
	}
	if c.Tilemap.TilesetSize <= 0 {
		errs = append(errs, fmt.Errorf("tilemap: invalid tileset size %d", c.Tilemap.TilesetSize))
	}
	if _, err := c.Tilemap.Color(); err != nil {
		errs = append(errs, fmt.Errorf("tilemap: %w", err))
	}

	for i, l := range c.Layers {
		if l.Intensity < 0 || l.Intensity > 1 {
			errs = append(errs, fmt.Errorf("layer %d: intensity %v out of range", i, l.Intensity))
		}
		for j, layout := range l.Layouts {
			if len(layout.IDs) > autotile.Variants || len(layout.Picked) > autotile.Variants {
				errs = append(errs, fmt.Errorf("layer %d: layout %d: more than %d entries", i, j, autotile.Variants))
			}
			for _, id := range layout.IDs {
				if id < 0 || id > autotile.MaxTile {
					errs = append(errs, fmt.Errorf("layer %d: layout %d: tile %d out of range", i, j, id))
					break
				}
			}
		}
	}

	return errors.Join(errs...)
}
