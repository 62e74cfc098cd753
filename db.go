package tilemap3d

import (
	"bytes"
	"crypto/sha1"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/bodgit/tilemap3d/layer"
	"github.com/bodgit/tilemap3d/palette"
	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var errOccupancy = errors.New("occupancy does not match the layer")

// DB stores palettes and painted tilemaps in a sqlite database.
type DB struct {
	db     *sql.DB
	logger *zap.Logger

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// PaletteInfo summarises a stored palette.
type PaletteInfo struct {
	Name     string
	TileSize int
	Tiles    int
}

// NewDB opens or creates the database in file.
func NewDB(file string, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"CREATE TABLE IF NOT EXISTS palette (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, tile_size INTEGER NOT NULL, grid_offset INTEGER NOT NULL, extract_number INTEGER NOT NULL)",
		"CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, png BLOB NOT NULL)",
		"CREATE TABLE IF NOT EXISTS tile (palette_id INTEGER NOT NULL, idx INTEGER NOT NULL, image_id INTEGER NOT NULL, PRIMARY KEY(palette_id, idx), FOREIGN KEY(palette_id) REFERENCES palette(id) ON DELETE CASCADE, FOREIGN KEY(image_id) REFERENCES image(id))",
		"CREATE TABLE IF NOT EXISTS tilemap (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, data BLOB NOT NULL)",
		"CREATE TABLE IF NOT EXISTS occupancy (tilemap_id INTEGER NOT NULL, layer INTEGER NOT NULL, data BLOB NOT NULL, PRIMARY KEY(tilemap_id, layer), FOREIGN KEY(tilemap_id) REFERENCES tilemap(id) ON DELETE CASCADE)",
	} {
		if _, err = db.Exec(stmt); err != nil {
			db.Close()
			return nil, err
		}
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, err
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		db.Close()
		return nil, err
	}

	return &DB{
		db:      db,
		logger:  logger,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	db.decoder.Close()
	if err := db.encoder.Close(); err != nil {
		db.db.Close()
		return err
	}
	return db.db.Close()
}

type execer interface {
	Exec(string, ...interface{}) (sql.Result, error)
	QueryRow(string, ...interface{}) *sql.Row
}

func addImage(tx execer, m image.Image) (int64, error) {
	b := new(bytes.Buffer)
	if err := png.Encode(b, m); err != nil {
		return 0, err
	}
	sha := fmt.Sprintf("%X", sha1.Sum(b.Bytes()))

	var id int64
	switch err := tx.QueryRow("SELECT id FROM image WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := tx.Exec("INSERT INTO image (sha1, png) VALUES (?, ?)", sha, b.Bytes())
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// SavePalette stores p under its ID, replacing any palette with the same
// name. Identical tile images are stored once.
func (db *DB) SavePalette(p *palette.Palette) (err error) {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DELETE FROM palette WHERE name = ?", p.ID); err != nil {
		return err
	}

	result, err := tx.Exec("INSERT INTO palette (name, tile_size, grid_offset, extract_number) VALUES (?, ?, ?, ?)", p.ID, p.TileSize, p.GridOffset, p.ExtractNumber)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for _, t := range p.Tiles() {
		var imageID int64
		if imageID, err = addImage(tx, t.Image); err != nil {
			return err
		}
		if _, err = tx.Exec("INSERT INTO tile (palette_id, idx, image_id) VALUES (?, ?, ?)", id, t.Index, imageID); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	db.logger.Debug("saved palette", zap.String("palette", p.ID), zap.Int("tiles", p.TilesCount()))

	return nil
}

// LoadPalette returns the palette stored as name, or nil if there is none.
// The atlas is not stored.
func (db *DB) LoadPalette(name string) (*palette.Palette, error) {
	var id int64
	p := palette.New(name)
	switch err := db.db.QueryRow("SELECT id, tile_size, grid_offset, extract_number FROM palette WHERE name = ?", name).Scan(&id, &p.TileSize, &p.GridOffset, &p.ExtractNumber); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
	default:
		return nil, err
	}

	rows, err := db.db.Query("SELECT t.idx, i.png FROM tile AS t JOIN image AS i ON t.image_id = i.id WHERE t.palette_id = ? ORDER BY t.idx", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var idx int
		var b []byte
		if err := rows.Scan(&idx, &b); err != nil {
			return nil, err
		}
		m, err := png.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("palette %s: tile %d: %w", name, idx, err)
		}
		if err := p.SetTile(idx, m); err != nil {
			return nil, fmt.Errorf("palette %s: tile %d: %w", name, idx, err)
		}
	}

	return p, rows.Err()
}

// DeletePalette removes the palette stored as name. Tile images no longer
// used by any palette are removed too.
func (db *DB) DeletePalette(name string) error {
	if _, err := db.db.Exec("DELETE FROM palette WHERE name = ?", name); err != nil {
		return err
	}
	_, err := db.db.Exec("DELETE FROM image WHERE id NOT IN (SELECT image_id FROM tile)")
	return err
}

// ListPalettes returns every stored palette ordered by name.
func (db *DB) ListPalettes() ([]PaletteInfo, error) {
	rows, err := db.db.Query("SELECT p.name, p.tile_size, COUNT(t.idx) FROM palette AS p LEFT JOIN tile AS t ON t.palette_id = p.id GROUP BY p.id ORDER BY p.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var palettes []PaletteInfo
	for rows.Next() {
		var info PaletteInfo
		if err := rows.Scan(&info.Name, &info.TileSize, &info.Tiles); err != nil {
			return nil, err
		}
		palettes = append(palettes, info)
	}

	return palettes, rows.Err()
}

func packBits(b []bool) []byte {
	out := make([]byte, (len(b)+7)/8)
	for i, v := range b {
		if v {
			out[i>>3] |= 1 << (i & 7)
		}
	}
	return out
}

func unpackBits(b []byte, n int) ([]bool, bool) {
	if len(b) != (n+7)/8 {
		return nil, false
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = b[i>>3]&(1<<(i&7)) != 0
	}
	return out, true
}

// SaveTilemap stores the storage and layer occupancy of s under its name.
func (db *DB) SaveTilemap(s *System) (err error) {
	b, err := s.Storage().MarshalBinary()
	if err != nil {
		return err
	}

	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DELETE FROM tilemap WHERE name = ?", s.Name); err != nil {
		return err
	}

	result, err := tx.Exec("INSERT INTO tilemap (name, data) VALUES (?, ?)", s.Name, db.encoder.EncodeAll(b, nil))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for i, l := range s.Layers {
		if _, err = tx.Exec("INSERT INTO occupancy (tilemap_id, layer, data) VALUES (?, ?, ?)", id, i, packBits(l.Occupancy())); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	db.logger.Debug("saved tilemap", zap.String("tilemap", s.Name), zap.Int("bytes", len(b)))

	return nil
}

// LoadTilemap restores the storage and layer occupancy of s from the data
// stored under its name. It reports false if there is none. Occupancy that
// no longer fits a layer is left cleared.
func (db *DB) LoadTilemap(s *System) (bool, error) {
	var id int64
	var data []byte
	switch err := db.db.QueryRow("SELECT id, data FROM tilemap WHERE name = ?", s.Name).Scan(&id, &data); err {
	case sql.ErrNoRows:
		return false, nil
	case nil:
	default:
		return false, err
	}

	b, err := db.decoder.DecodeAll(data, nil)
	if err != nil {
		return false, err
	}
	if err := s.Restore(b); err != nil {
		return false, err
	}

	rows, err := db.db.Query("SELECT layer, data FROM occupancy WHERE tilemap_id = ? ORDER BY layer", id)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var z int
		var b []byte
		if err := rows.Scan(&z, &b); err != nil {
			return false, err
		}
		if z >= len(s.Layers) {
			continue
		}
		if err := restoreOccupancy(s.Layers[z], b); err != nil {
			db.logger.Warn("cannot restore occupancy", zap.String("tilemap", s.Name), zap.Int("layer", z), zap.Error(err))
		}
	}

	return true, rows.Err()
}

func restoreOccupancy(l *layer.Layer, b []byte) error {
	w, h := l.Size()
	bits, ok := unpackBits(b, w*h)
	if !ok || !l.SetOccupancy(bits) {
		return errOccupancy
	}
	return nil
}
