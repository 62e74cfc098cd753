/*
Package autotile implements 8-neighbour bitmasking for auto-tiles.

Each occupied cell is given a connectivity mask built from its four cardinal
neighbours and the four diagonals between them. A diagonal only counts when
both cardinals adjacent to it are also occupied, which leaves 47 masks out of
the possible 256. Each of those is mapped to an entry in a Layout, which in
turn names the palette tile to draw.

	NW(128)  N(1)   NE(2)
	W(64)    .      E(4)
	SW(32)   S(16)  SE(8)

North is +Y.
*/
package autotile

// Direction bits of the connectivity mask.
const (
	North     uint8 = 1
	NorthEast uint8 = 2
	East      uint8 = 4
	SouthEast uint8 = 8
	South     uint8 = 16
	SouthWest uint8 = 32
	West      uint8 = 64
	NorthWest uint8 = 128
)

// Variants is the number of realizable masks and so the length of a Layout.
const Variants = 47

// masks lists every realizable mask in ascending order, the position of each
// being its layout index.
var masks = [Variants]uint8{
	0, 1, 4, 5, 7, 16, 17, 20, 21, 23, 28, 29, 31, 64, 65, 68,
	69, 71, 80, 81, 84, 85, 87, 92, 93, 95, 112, 113, 116, 117, 119, 124,
	125, 127, 193, 197, 199, 209, 213, 215, 221, 223, 241, 245, 247, 253, 255,
}

// index is the inverse of masks, -1 for unrealizable masks.
var index [256]int8

func init() {
	for i := range index {
		index[i] = -1
	}
	for i, m := range masks {
		index[m] = int8(i)
	}
}

// Occupancy reports whether a cell takes part in auto-tile connectivity.
// Implementations must return false for coordinates outside the grid.
type Occupancy interface {
	Occupied(x, y int) bool
}

// Mask computes the connectivity mask of the cell at (x, y).
func Mask(o Occupancy, x, y int) uint8 {
	var m uint8

	n := o.Occupied(x, y+1)
	e := o.Occupied(x+1, y)
	s := o.Occupied(x, y-1)
	w := o.Occupied(x-1, y)

	if n {
		m |= North
	}
	if e {
		m |= East
	}
	if s {
		m |= South
	}
	if w {
		m |= West
	}
	if n && e && o.Occupied(x+1, y+1) {
		m |= NorthEast
	}
	if s && e && o.Occupied(x+1, y-1) {
		m |= SouthEast
	}
	if s && w && o.Occupied(x-1, y-1) {
		m |= SouthWest
	}
	if n && w && o.Occupied(x-1, y+1) {
		m |= NorthWest
	}

	return m
}

// LayoutIndex returns the layout entry for mask m. The second return value
// is false if m cannot be produced by Mask.
func LayoutIndex(m uint8) (int, bool) {
	i := index[m]
	if i < 0 {
		return 0, false
	}
	return int(i), true
}

// MaskOf returns the mask for layout entry i.
func MaskOf(i int) uint8 {
	return masks[i]
}
