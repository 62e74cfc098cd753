package tilemap3d

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// writeAtlas writes a columns by rows atlas of testTileSize tiles, each a
// different solid colour.
func writeAtlas(t *testing.T, file string, columns, rows int) {
	t.Helper()

	m := image.NewRGBA(image.Rect(0, 0, columns*testTileSize, rows*testTileSize))
	for y := 0; y < m.Bounds().Dy(); y++ {
		for x := 0; x < m.Bounds().Dx(); x++ {
			m.SetRGBA(x, y, color.RGBA{uint8(x / testTileSize), uint8(y / testTileSize), 0, 0xff})
		}
	}

	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0755))
	f, err := os.Create(file)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, m))
}

func TestPaletteName(t *testing.T) {
	assert.Equal(t, "grass", PaletteName("/atlases/grass.png"))
	assert.Equal(t, "stone.wall", PaletteName("stone.wall.bmp"))
}

func TestConvertAtlas(t *testing.T) {
	file := filepath.Join(t.TempDir(), "grass.png")
	writeAtlas(t, file, 3, 2)

	p, err := ConvertAtlas(file, ImportOptions{TileSize: testTileSize, ExtractNumber: 4})
	require.NoError(t, err)
	assert.Equal(t, "grass", p.ID)
	assert.Equal(t, 4, p.TilesCount())

	// The top row of the atlas comes first
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, p.Tile(0).Image.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0, 1, 0, 0xff}, p.Tile(3).Image.RGBAAt(0, 0))

	_, err = ConvertAtlas(filepath.Join(t.TempDir(), "missing.png"), ImportOptions{})
	assert.Error(t, err)
}

func TestImportAtlases(t *testing.T) {
	db := testDB(t)
	dir := t.TempDir()

	writeAtlas(t, filepath.Join(dir, "grass.png"), 2, 2)
	writeAtlas(t, filepath.Join(dir, "nested", "stone.PNG"), 4, 1)
	writeAtlas(t, filepath.Join(dir, ".hidden", "skip.png"), 1, 1)
	writeAtlas(t, filepath.Join(dir, ".skip.png"), 1, 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an atlas"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0644))

	names, err := db.ImportAtlases(context.Background(), dir, ImportOptions{TileSize: testTileSize, Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"grass", "stone"}, names)

	list, err := db.ListPalettes()
	require.NoError(t, err)
	assert.Equal(t, []PaletteInfo{
		{Name: "grass", TileSize: testTileSize, Tiles: 4},
		{Name: "stone", TileSize: testTileSize, Tiles: 4},
	}, list)
}

func TestImportAtlasesDuplicateName(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), zap.New(core))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})

	dir := t.TempDir()
	writeAtlas(t, filepath.Join(dir, "grass.png"), 2, 2)
	writeAtlas(t, filepath.Join(dir, "nested", "grass.bmp"), 1, 1)
	writeAtlas(t, filepath.Join(dir, "stone.png"), 3, 1)

	names, err := db.ImportAtlases(context.Background(), dir, ImportOptions{TileSize: testTileSize, Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"grass", "stone"}, names)

	list, err := db.ListPalettes()
	require.NoError(t, err)
	assert.Equal(t, []PaletteInfo{
		{Name: "grass", TileSize: testTileSize, Tiles: 4},
		{Name: "stone", TileSize: testTileSize, Tiles: 3},
	}, list)

	entries := logs.FilterMessage("duplicate palette name").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "grass", fields["palette"])
	assert.Equal(t, filepath.Join(dir, "nested", "grass.bmp"), fields["file"])
}

func TestImportAtlasesMissingDir(t *testing.T) {
	db := testDB(t)

	_, err := db.ImportAtlases(context.Background(), filepath.Join(t.TempDir(), "missing"), ImportOptions{})
	assert.Error(t, err)
}
