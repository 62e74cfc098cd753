package storage

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/bodgit/tilemap3d/layer"
	"github.com/bodgit/tilemap3d/palette"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPalette returns a palette of n solid tiles, tile i coloured {base, i}.
func testPalette(id string, size, n int, base uint8) *palette.Palette {
	p := palette.New(id)
	p.TileSize = size
	for i := 0; i < n; i++ {
		m := image.NewRGBA(image.Rect(0, 0, size, size))
		draw.Draw(m, m.Bounds(), &image.Uniform{color.RGBA{base, uint8(i), 0, 0xff}}, image.Point{}, draw.Src)
		if err := p.SetTile(i, m); err != nil {
			panic(err)
		}
	}
	return p
}

func testConfig(width, height int, counts ...int) Config {
	cfg := Config{Width: width, Height: height, TileSize: 4}
	for i, n := range counts {
		l := layer.New("layer", width, height)
		l.Palette = testPalette(string(rune('a'+i)), 4, n, uint8(i+1))
		cfg.Layers = append(cfg.Layers, l)
	}
	return cfg
}

func TestGenerate(t *testing.T) {
	cfg := testConfig(4, 3, 2, 3)
	cfg.Layers[1].SetIntensity(0.5)
	cfg.Layers[0].SetOccupied(1, 1, true)

	s := New()
	assert.Equal(t, Uninitialized, s.State())
	assert.True(t, s.Stale(cfg))

	require.NoError(t, s.Generate(cfg))
	assert.Equal(t, Generated, s.State())
	assert.False(t, s.Stale(cfg))
	assert.False(t, cfg.Layers[0].Occupied(1, 1))

	g := s.Grid()
	assert.Equal(t, 4, g.Width)
	assert.Equal(t, 3, g.Height)
	assert.Equal(t, 2, g.Depth)
	assert.Equal(t, make([]uint8, 24), g.Pix)

	ts := s.Tileset()
	assert.Equal(t, 6, ts.Depth)
	assert.Equal(t, []int{0, 2}, ts.Offsets)
	assert.Equal(t, DefaultColor, ts.Slice(0).RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{1, 0, 0, 0xff}, ts.Slice(1).RGBAAt(3, 3))
	assert.Equal(t, color.RGBA{1, 1, 0, 0xff}, ts.Slice(2).RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{2, 0, 0, 0xff}, ts.Slice(3).RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{2, 2, 0, 0xff}, ts.Slice(ts.SliceIndex(1, 2)).RGBAAt(2, 1))
	assert.Nil(t, ts.Slice(6))

	want := LayerArray{{TileCount: 2, Intensity: 255}, {TileCount: 3, Intensity: 127}}
	if diff := cmp.Diff(want, s.LayerArray()); diff != "" {
		t.Errorf("layer array mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []uint8{2, 255, 0, 0, 3, 127, 0, 0}, s.LayerArray().RGBA())
}

func TestGenerateDefaultColor(t *testing.T) {
	cfg := testConfig(1, 1, 1)
	cfg.DefaultColor = color.RGBA{0xff, 0, 0xff, 0xff}

	s := New()
	require.NoError(t, s.Generate(cfg))
	assert.Equal(t, cfg.DefaultColor, s.Tileset().Slice(0).RGBAAt(1, 1))
}

func TestGenerateErrors(t *testing.T) {
	tables := []struct {
		name   string
		modify func(*Config)
		layer  int
		err    error
	}{
		{"no palette", func(c *Config) { c.Layers[1].Palette = nil }, 1, ErrNoPalette},
		{"empty palette", func(c *Config) { c.Layers[0].Palette.DeleteTiles() }, 0, ErrEmptyPalette},
		{"tile size", func(c *Config) { c.Layers[2].Palette.TileSize = 8 }, 2, ErrTileSize},
		{"sparse palette", func(c *Config) {
			p := testPalette("sparse", 4, 1, 9)
			if err := p.SetTile(2, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
				panic(err)
			}
			c.Layers[1].Palette = p
		}, 1, ErrSparsePalette},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			cfg := testConfig(2, 2, 1, 1, 1)
			table.modify(&cfg)

			s := New()
			err := s.Generate(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, table.err))

			var le *LayerError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, table.layer, le.Layer)

			assert.Equal(t, Uninitialized, s.State())
			assert.Nil(t, s.Tileset())
		})
	}

	s := New()
	assert.Equal(t, ErrNoLayers, s.Generate(Config{Width: 1, Height: 1, TileSize: 1}))
	assert.Equal(t, ErrDimensions, s.Generate(testConfig(0, 1, 1)))
}

func TestRegenerateSameDimensions(t *testing.T) {
	cfg := testConfig(3, 3, 2, 2)
	s := New()
	require.NoError(t, s.Generate(cfg))

	for i := range s.Grid().Pix {
		s.Grid().Pix[i] = uint8(i)
	}
	before := s.Grid().Clone()
	cfg.Layers[0].SetOccupied(2, 2, true)

	// Add a tile to the second palette, the snapshot no longer matches
	require.NoError(t, cfg.Layers[1].Palette.SetTile(2, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	assert.True(t, s.Stale(cfg))

	require.NoError(t, s.Regenerate(cfg))
	assert.False(t, s.Stale(cfg))
	assert.Equal(t, before.Pix, s.Grid().Pix)
	assert.Equal(t, 6, s.Tileset().Depth)
	assert.Equal(t, 3, s.LayerArray()[1].TileCount)
	assert.True(t, cfg.Layers[0].Occupied(2, 2))
}

func TestRegenerateRemap(t *testing.T) {
	cfg := testConfig(3, 2, 1, 1)
	s := New()
	require.NoError(t, s.Generate(cfg))

	g := s.Grid()
	for z := 0; z < g.Depth; z++ {
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				g.Set(x, y, z, uint8(100*z+10*y+x+1))
			}
		}
	}

	// Drop the second layer and widen the grid
	cfg.Layers = cfg.Layers[:1]
	cfg.Width = 4
	cfg.Layers[0].SetOccupied(0, 0, true)

	require.NoError(t, s.Regenerate(cfg))
	g = s.Grid()
	assert.Equal(t, 4, g.Width)
	assert.Equal(t, 1, g.Depth)
	assert.Equal(t, []uint8{
		1, 2, 3, 0,
		11, 12, 13, 0,
	}, g.Pix)
	assert.False(t, cfg.Layers[0].Occupied(0, 0))
	assert.Len(t, cfg.Layers[0].Occupancy(), 8)
	assert.False(t, s.Stale(cfg))
}

func TestRegenerateErrorKeepsState(t *testing.T) {
	cfg := testConfig(2, 2, 1)
	s := New()
	require.NoError(t, s.Generate(cfg))
	s.Grid().Set(1, 1, 0, 9)

	cfg.Width = 5
	cfg.Layers[0].Palette = nil
	require.Error(t, s.Regenerate(cfg))
	assert.Equal(t, 2, s.Grid().Width)
	assert.Equal(t, uint8(9), s.Grid().At(1, 1, 0))
}

func TestRegenerateUninitialized(t *testing.T) {
	cfg := testConfig(2, 2, 1)
	s := New()
	require.NoError(t, s.Regenerate(cfg))
	assert.Equal(t, Generated, s.State())
}

func TestSettingsEqual(t *testing.T) {
	cfg := testConfig(2, 2, 1, 2)
	a := Capture(cfg)
	assert.True(t, a.Equal(Capture(cfg)))

	cfg.Layers[1].Palette = testPalette("z", 4, 2, 0)
	assert.False(t, a.Equal(Capture(cfg)))

	cfg.Layers[1].Palette = nil
	b := Capture(cfg)
	assert.Equal(t, "", b.PaletteIDs[1])
	assert.Equal(t, 0, b.TileCounts[1])

	cfg = testConfig(2, 2, 1, 2)
	cfg.TileSize = 8
	assert.False(t, a.Equal(Capture(cfg)))
}

func TestClipboard(t *testing.T) {
	cfg := testConfig(2, 2, 1, 1, 1)
	s := New()
	assert.False(t, s.Copy(0))
	require.NoError(t, s.Generate(cfg))

	assert.False(t, s.Paste(1))

	g := s.Grid()
	g.Set(0, 0, 0, 1)
	g.Set(1, 1, 0, 2)
	g.Set(0, 1, 1, 7)

	require.True(t, s.Copy(0))
	g.Set(0, 0, 0, 5)
	require.True(t, s.Paste(1))
	assert.Equal(t, []uint8{1, 0, 0, 2}, g.Slice(1))
	assert.Equal(t, 0, s.Clipboard().Layer)

	assert.False(t, s.Paste(3))
	assert.False(t, s.Copy(3))

	// The copied layer no longer exists
	require.True(t, s.Copy(2))
	cfg.Layers = cfg.Layers[:2]
	require.NoError(t, s.Regenerate(cfg))
	assert.False(t, s.Paste(0))
}

func TestUpdateLayerSettings(t *testing.T) {
	cfg := testConfig(1, 1, 1, 1)
	s := New()
	require.NoError(t, s.Generate(cfg))

	cfg.Layers[0].SetIntensity(0)
	assert.True(t, s.UpdateLayerSettings(cfg.Layers))
	assert.Equal(t, uint8(0), s.LayerArray()[0].Intensity)
	assert.False(t, s.UpdateLayerSettings(cfg.Layers[:1]))

	assert.True(t, s.SetIntensity(1, 10))
	assert.Equal(t, uint8(10), s.LayerArray()[1].Intensity)
	assert.False(t, s.SetIntensity(2, 10))
}

func TestMarshalBinary(t *testing.T) {
	empty := New()
	b, err := empty.MarshalBinary()
	require.NoError(t, err)

	s := New()
	require.NoError(t, s.UnmarshalBinary(b))
	assert.Equal(t, Uninitialized, s.State())

	cfg := testConfig(3, 2, 2, 1)
	require.NoError(t, s.Generate(cfg))
	s.Grid().Set(2, 1, 1, 42)
	require.True(t, s.Copy(1))

	b, err = s.MarshalBinary()
	require.NoError(t, err)

	n := New()
	require.NoError(t, n.UnmarshalBinary(b))
	assert.Equal(t, Generated, n.State())
	assert.False(t, n.Stale(cfg))

	opt := cmp.AllowUnexported(Storage{})
	if diff := cmp.Diff(s, n, opt); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range [][]byte{
		nil,
		[]byte("XXXX\x01\x00"),
		[]byte("TM3D\x02\x00"),
		[]byte("TM3D\x01\x07"),
		b[:len(b)-1],
		append(append([]byte(nil), b...), 0),
	} {
		assert.Error(t, New().UnmarshalBinary(bad))
	}
}

func TestUnmarshalBinaryInconsistent(t *testing.T) {
	tables := []struct {
		name   string
		modify func(*Storage)
	}{
		{"no layers", func(s *Storage) {
			s.settings.LayerCount, s.settings.TileCounts, s.settings.PaletteIDs = 0, nil, nil
			s.grid = NewGrid(1, 1, 1)
			s.layers = nil
			s.tileset = newTileset(4, 0)
		}},
		{"empty tileset", func(s *Storage) { s.tileset = newTileset(4, 0) }},
		{"grid width", func(s *Storage) { s.grid = NewGrid(2, 2, 2) }},
		{"grid depth", func(s *Storage) { s.grid = NewGrid(3, 2, 1) }},
		{"layer array", func(s *Storage) { s.layers = s.layers[:1] }},
		{"tile size", func(s *Storage) {
			ts := newTileset(2, s.tileset.Depth)
			ts.Offsets = s.tileset.Offsets
			s.tileset = ts
		}},
		{"offset count", func(s *Storage) { s.tileset.Offsets = s.tileset.Offsets[:1] }},
		{"offset value", func(s *Storage) { s.tileset.Offsets[1] = 1 }},
		{"tileset depth", func(s *Storage) {
			ts := newTileset(4, s.tileset.Depth+1)
			ts.Offsets = s.tileset.Offsets
			s.tileset = ts
		}},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			s := New()
			require.NoError(t, s.Generate(testConfig(3, 2, 2, 1)))
			table.modify(s)

			b, err := s.MarshalBinary()
			require.NoError(t, err)

			n := New()
			assert.Equal(t, errInconsistent, n.UnmarshalBinary(b))
			assert.Equal(t, Uninitialized, n.State())
		})
	}
}
