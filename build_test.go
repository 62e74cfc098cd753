package tilemap3d

import (
	"image/color"
	"testing"

	"github.com/bodgit/tilemap3d/autotile"
	"github.com/bodgit/tilemap3d/config"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testProject() *config.Config {
	cfg := config.Default()
	cfg.Tilemap.Name = "dungeon"
	cfg.Tilemap.Width = 3
	cfg.Tilemap.Height = 2
	cfg.Tilemap.TilesetSize = testTileSize
	cfg.Tilemap.DefaultColor = "#102030ff"
	cfg.Layers = []config.LayerConfig{
		{
			Name:        "floor",
			Palette:     "stone",
			Intensity:   1,
			LayoutIndex: 0,
		},
		{
			Name:        "walls",
			Palette:     "brick",
			Intensity:   0.5,
			LayoutIndex: 1,
			Layouts: []config.LayoutConfig{
				{Name: "a", IDs: make([]int, autotile.Variants), Picked: make([]bool, autotile.Variants)},
				{Name: "b", IDs: make([]int, autotile.Variants), Picked: make([]bool, autotile.Variants)},
			},
		},
	}
	cfg.Layers[1].Layouts[1].IDs[46] = 3
	cfg.Layers[1].Layouts[1].Picked[46] = true
	return cfg
}

func TestLoad(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.SavePalette(testPalette("stone", 2, 1)))
	require.NoError(t, db.SavePalette(testPalette("brick", 4, 2)))

	s, err := Load(testProject(), db, nil)
	require.NoError(t, err)

	assert.Equal(t, "dungeon", s.Name)
	assert.Equal(t, color.RGBA{0x10, 0x20, 0x30, 0xff}, s.DefaultColor)
	require.Len(t, s.Layers, 2)
	assert.Equal(t, 2, s.Layers[0].TilesCount())
	assert.Equal(t, 0.5, s.Layers[1].Intensity)

	layout := s.Layers[1].Layout()
	require.NotNil(t, layout)
	assert.Equal(t, "b", layout.Name)
	tile, err := layout.Tile(0xff)
	require.NoError(t, err)
	assert.Equal(t, 3, tile)

	// Nothing saved yet
	assert.False(t, s.CanPaint())
	require.NoError(t, s.Generate())

	s.Tool, s.Tile = ToolPaint, 1
	require.NoError(t, s.Apply(2, 1))
	require.NoError(t, db.SaveTilemap(s))

	again, err := Load(testProject(), db, nil)
	require.NoError(t, err)
	assert.True(t, again.CanPaint())
	assert.Equal(t, uint8(1), again.Storage().Grid().At(2, 1, 0))
	assert.True(t, again.Layers[0].Occupied(2, 1))
}

func TestLoadMissingPalette(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.SavePalette(testPalette("stone", 2, 1)))

	core, logs := observer.New(zapcore.WarnLevel)
	s, err := Load(testProject(), db, zap.New(core))
	require.NoError(t, err)
	assert.Nil(t, s.Layers[1].Palette)

	entries := logs.FilterMessage("palette not found").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["layer"])
	assert.Equal(t, "brick", entries[0].ContextMap()["palette"])

	assert.Error(t, s.Generate())
}

func TestLoadInvalid(t *testing.T) {
	cfg := testProject()
	cfg.Tilemap.DefaultColor = "blue"

	_, err := Load(cfg, testDB(t), nil)
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.SavePalette(testPalette("stone", 2, 1)))
	require.NoError(t, db.SavePalette(testPalette("brick", 4, 2)))

	want := testProject()
	s, err := Load(want, db, nil)
	require.NoError(t, err)

	got := config.Default()
	s.Save(got)

	// Layers without layouts stay without them
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}
