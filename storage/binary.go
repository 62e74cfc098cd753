package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	magic   = "TM3D"
	version = 1

	maxLayers = 1 << 16
	maxSide   = 1 << 16
)

var (
	errMagic        = errors.New("storage: bad magic")
	errVersion      = errors.New("storage: unsupported version")
	errInsufficient = errors.New("storage: insufficient data")
	errTooMuch      = errors.New("storage: too much data")
	errInconsistent = errors.New("storage: inconsistent data")
)

func writeString(b *bytes.Buffer, s string) error {
	if err := binary.Write(b, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := b.WriteString(s)
	return err
}

func writeUint32s(b *bytes.Buffer, v ...int) error {
	for _, i := range v {
		if err := binary.Write(b, binary.LittleEndian, uint32(i)); err != nil {
			return err
		}
	}
	return nil
}

// MarshalBinary encodes the storage into binary form and returns the result.
// It implements encoding.BinaryMarshaler.
func (s *Storage) MarshalBinary() ([]byte, error) {
	b := new(bytes.Buffer)

	b.WriteString(magic)
	b.WriteByte(version)
	b.WriteByte(byte(s.state))

	if s.state == Uninitialized {
		return b.Bytes(), nil
	}

	if len(s.layers) >= maxLayers {
		return nil, fmt.Errorf("storage: more than %d layers", maxLayers-1)
	}

	// Settings snapshot
	if err := writeUint32s(b, s.settings.LayerCount, s.settings.Width, s.settings.Height, s.settings.TileSize); err != nil {
		return nil, err
	}
	for i := 0; i < s.settings.LayerCount; i++ {
		if err := writeUint32s(b, s.settings.TileCounts[i]); err != nil {
			return nil, err
		}
		if err := writeString(b, s.settings.PaletteIDs[i]); err != nil {
			return nil, err
		}
	}

	// Grid
	if err := writeUint32s(b, s.grid.Width, s.grid.Height, s.grid.Depth); err != nil {
		return nil, err
	}
	b.Write(s.grid.Pix)

	// Layer array
	if err := binary.Write(b, binary.LittleEndian, uint16(len(s.layers))); err != nil {
		return nil, err
	}
	for _, info := range s.layers {
		if err := binary.Write(b, binary.LittleEndian, uint16(info.TileCount)); err != nil {
			return nil, err
		}
		b.WriteByte(info.Intensity)
	}

	// Tileset
	if err := writeUint32s(b, s.tileset.TileSize, s.tileset.Depth, len(s.tileset.Offsets)); err != nil {
		return nil, err
	}
	if err := writeUint32s(b, s.tileset.Offsets...); err != nil {
		return nil, err
	}
	b.Write(s.tileset.Pix)

	// Clipboard
	if s.clipboard == nil {
		b.WriteByte(0)
		return b.Bytes(), nil
	}
	b.WriteByte(1)
	if err := writeUint32s(b, s.clipboard.Layer, s.clipboard.Width, s.clipboard.Height); err != nil {
		return nil, err
	}
	b.Write(s.clipboard.Pix)

	return b.Bytes(), nil
}

type decoder struct {
	r *bytes.Reader
}

func (d *decoder) read(v interface{}) error {
	if err := binary.Read(d.r, binary.LittleEndian, v); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return errInsufficient
		}
		return err
	}
	return nil
}

func (d *decoder) int() (int, error) {
	var v uint32
	if err := d.read(&v); err != nil {
		return 0, err
	}
	return int(v), nil
}

func (d *decoder) ints(v ...*int) error {
	for _, p := range v {
		i, err := d.int()
		if err != nil {
			return err
		}
		*p = i
	}
	return nil
}

func (d *decoder) bytes(n int) ([]byte, error) {
	if n < 0 || n > d.r.Len() {
		return nil, errInsufficient
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		return nil, errInsufficient
	}
	return b, nil
}

func (d *decoder) string() (string, error) {
	var n uint16
	if err := d.read(&n); err != nil {
		return "", err
	}
	b, err := d.bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UnmarshalBinary decodes the storage from binary form, replacing its
// contents. It implements encoding.BinaryUnmarshaler.
func (s *Storage) UnmarshalBinary(data []byte) error {
	d := &decoder{r: bytes.NewReader(data)}

	header, err := d.bytes(len(magic) + 2)
	if err != nil {
		return err
	}
	if string(header[:len(magic)]) != magic {
		return errMagic
	}
	if header[len(magic)] != version {
		return errVersion
	}

	var n Storage
	n.state = State(header[len(magic)+1])

	switch n.state {
	case Uninitialized:
		if d.r.Len() != 0 {
			return errTooMuch
		}
		*s = n
		return nil
	case Generated:
	default:
		return fmt.Errorf("storage: unknown state %d", n.state)
	}

	// Settings snapshot
	st := &n.settings
	if err := d.ints(&st.LayerCount, &st.Width, &st.Height, &st.TileSize); err != nil {
		return err
	}
	if st.LayerCount >= maxLayers {
		return errInsufficient
	}
	st.TileCounts = make([]int, st.LayerCount)
	st.PaletteIDs = make([]string, st.LayerCount)
	for i := 0; i < st.LayerCount; i++ {
		if st.TileCounts[i], err = d.int(); err != nil {
			return err
		}
		if st.PaletteIDs[i], err = d.string(); err != nil {
			return err
		}
	}

	// Grid
	g := new(Grid)
	if err := d.ints(&g.Width, &g.Height, &g.Depth); err != nil {
		return err
	}
	if g.Width > maxSide || g.Height > maxSide || g.Depth >= maxLayers {
		return errInsufficient
	}
	if g.Pix, err = d.bytes(g.Width * g.Height * g.Depth); err != nil {
		return err
	}
	n.grid = g

	// Layer array
	var count uint16
	if err := d.read(&count); err != nil {
		return err
	}
	n.layers = make(LayerArray, count)
	for i := range n.layers {
		var tiles uint16
		if err := d.read(&tiles); err != nil {
			return err
		}
		if err := d.read(&n.layers[i].Intensity); err != nil {
			return err
		}
		n.layers[i].TileCount = int(tiles)
	}

	// Tileset
	t := new(Tileset)
	var offsets int
	if err := d.ints(&t.TileSize, &t.Depth, &offsets); err != nil {
		return err
	}
	if t.TileSize > maxSide || t.Depth > maxLayers {
		return errInsufficient
	}
	if offsets > d.r.Len()/4 {
		return errInsufficient
	}
	t.Offsets = make([]int, offsets)
	for i := range t.Offsets {
		if t.Offsets[i], err = d.int(); err != nil {
			return err
		}
	}
	if t.Pix, err = d.bytes(t.sliceBytes() * t.Depth); err != nil {
		return err
	}
	n.tileset = t

	// Clipboard
	var present uint8
	if err := d.read(&present); err != nil {
		return err
	}
	if present != 0 {
		c := new(Clipboard)
		if err := d.ints(&c.Layer, &c.Width, &c.Height); err != nil {
			return err
		}
		if c.Width > maxSide || c.Height > maxSide {
			return errInsufficient
		}
		if c.Pix, err = d.bytes(c.Width * c.Height); err != nil {
			return err
		}
		n.clipboard = c
	}

	if d.r.Len() != 0 {
		return errTooMuch
	}
	if !n.consistent() {
		return errInconsistent
	}

	*s = n
	return nil
}

// consistent reports whether the decoded sections of generated storage
// agree with each other and with the settings snapshot.
func (s *Storage) consistent() bool {
	st, g, t := s.settings, s.grid, s.tileset

	if st.LayerCount == 0 || st.Width <= 0 || st.Height <= 0 || st.TileSize <= 0 {
		return false
	}
	if g.Width != st.Width || g.Height != st.Height || g.Depth != st.LayerCount {
		return false
	}
	if len(s.layers) != st.LayerCount {
		return false
	}
	if t.TileSize != st.TileSize || len(t.Offsets) != st.LayerCount {
		return false
	}

	total := 0
	for i, n := range st.TileCounts {
		if n <= 0 || t.Offsets[i] != total {
			return false
		}
		total += n
	}
	return t.Depth == total+1
}
