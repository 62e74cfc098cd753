// Package layer holds the per-layer painting state of a tilemap.
package layer

import (
	"github.com/bodgit/tilemap3d/autotile"
	"github.com/bodgit/tilemap3d/palette"
)

// Layer is one tilemap layer. Its occupancy bitmap has one flag per grid
// cell, row-major, marking the cells that take part in auto-tile
// connectivity.
type Layer struct {
	Name      string
	Palette   *palette.Palette
	Layouts   []*autotile.Layout
	Intensity float64

	// LayoutIndex selects the layout used by the auto-tile tools
	LayoutIndex int

	width, height int
	occupancy     []bool
}

// New returns a fully opaque layer with an occupancy bitmap sized for a
// width by height grid.
func New(name string, width, height int) *Layer {
	l := &Layer{
		Name:      name,
		Intensity: 1.0,
	}
	l.Resize(width, height)
	return l
}

// Size returns the grid dimensions the occupancy bitmap was sized for.
func (l *Layer) Size() (int, int) {
	return l.width, l.height
}

// Resize resizes the occupancy bitmap and clears it. It is a no-op if the
// dimensions are unchanged.
func (l *Layer) Resize(width, height int) {
	if width == l.width && height == l.height && len(l.occupancy) == width*height {
		return
	}
	l.width, l.height = width, height
	l.occupancy = make([]bool, width*height)
}

// Clear marks every cell as unoccupied.
func (l *Layer) Clear() {
	for i := range l.occupancy {
		l.occupancy[i] = false
	}
}

func (l *Layer) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < l.width && y < l.height
}

// Occupied implements autotile.Occupancy. Cells outside the grid are never
// occupied.
func (l *Layer) Occupied(x, y int) bool {
	if !l.in(x, y) {
		return false
	}
	return l.occupancy[y*l.width+x]
}

// SetOccupied sets the occupancy of the cell at (x, y). Cells outside the
// grid are ignored.
func (l *Layer) SetOccupied(x, y int, v bool) {
	if !l.in(x, y) {
		return
	}
	l.occupancy[y*l.width+x] = v
}

// Occupancy returns the occupancy bitmap. The slice is shared with the
// layer.
func (l *Layer) Occupancy() []bool {
	return l.occupancy
}

// SetOccupancy replaces the occupancy bitmap, it must hold width*height
// flags.
func (l *Layer) SetOccupancy(b []bool) bool {
	if len(b) != l.width*l.height {
		return false
	}
	copy(l.occupancy, b)
	return true
}

// TilesCount returns the tile count of the layer palette, zero if there is
// none.
func (l *Layer) TilesCount() int {
	if l.Palette == nil {
		return 0
	}
	return l.Palette.TilesCount()
}

// Layout returns the selected auto-tile layout or nil.
func (l *Layer) Layout() *autotile.Layout {
	return l.LayoutAt(l.LayoutIndex)
}

// LayoutAt returns layout i or nil if it does not exist.
func (l *Layer) LayoutAt(i int) *autotile.Layout {
	if i < 0 || i >= len(l.Layouts) {
		return nil
	}
	return l.Layouts[i]
}

// AddLayout appends an empty layout and returns it.
func (l *Layer) AddLayout(name string) *autotile.Layout {
	layout := autotile.NewLayout(name)
	l.Layouts = append(l.Layouts, layout)
	return layout
}

// IntensityByte returns the intensity as stored in the layer array.
func (l *Layer) IntensityByte() uint8 {
	return uint8(clamp01(l.Intensity) * 255)
}

// SetIntensity clamps v to [0, 1] and stores it.
func (l *Layer) SetIntensity(v float64) {
	l.Intensity = clamp01(v)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
