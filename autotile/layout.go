package autotile

import "fmt"

// MaxTile is the highest tile index a layout entry can hold.
const MaxTile = 255

// Layout maps each of the 47 connectivity variants to a palette tile index.
type Layout struct {
	Name   string
	IDs    [Variants]int
	Picked [Variants]bool
}

// NewLayout returns an empty layout with the given name.
func NewLayout(name string) *Layout {
	return &Layout{Name: name}
}

// Tile returns the tile index to draw for a cell with mask m.
func (l *Layout) Tile(m uint8) (int, error) {
	i, ok := LayoutIndex(m)
	if !ok {
		return 0, fmt.Errorf("autotile: unrealizable mask %d", m)
	}
	if id := l.IDs[i]; id < 0 || id > MaxTile {
		return 0, fmt.Errorf("autotile: tile %d out of range", id)
	}
	return l.IDs[i], nil
}

// AutoAssign sets entry i to tile start+i for as long as that stays inside a
// palette of tilesCount tiles.
func (l *Layout) AutoAssign(start, tilesCount int) {
	for i := range l.IDs {
		if i+start >= tilesCount {
			break
		}
		l.IDs[i] = i + start
		l.Picked[i] = true
	}
}

// Pick assigns tile to entry and toggles its picked flag. A tile outside the
// palette clears the entry instead.
func (l *Layout) Pick(entry, tile, tilesCount int) error {
	if entry < 0 || entry >= Variants {
		return fmt.Errorf("autotile: entry %d out of range", entry)
	}
	if tile < 0 || tile >= tilesCount {
		l.IDs[entry] = 0
		l.Picked[entry] = false
		return nil
	}
	l.IDs[entry] = tile
	l.Picked[entry] = !l.Picked[entry]
	return nil
}

// Complete reports whether every entry has been assigned.
func (l *Layout) Complete() bool {
	for _, p := range l.Picked {
		if !p {
			return false
		}
	}
	return true
}
