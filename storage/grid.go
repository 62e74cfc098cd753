package storage

// Grid is a width by height by depth array of tile indices, one byte per
// cell. Cells are stored x first, then y, then layer.
type Grid struct {
	Width, Height, Depth int
	Pix                  []uint8
}

// NewGrid returns a zero-filled grid.
func NewGrid(width, height, depth int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Depth:  depth,
		Pix:    make([]uint8, width*height*depth),
	}
}

// In reports whether (x, y, z) is inside the grid.
func (g *Grid) In(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < g.Width && y < g.Height && z < g.Depth
}

// Offset returns the index of (x, y, z) in Pix.
func (g *Grid) Offset(x, y, z int) int {
	return z*g.Width*g.Height + y*g.Width + x
}

// At returns the tile index at (x, y, z), zero outside the grid.
func (g *Grid) At(x, y, z int) uint8 {
	if !g.In(x, y, z) {
		return 0
	}
	return g.Pix[g.Offset(x, y, z)]
}

// Set writes the tile index at (x, y, z). It returns false outside the
// grid.
func (g *Grid) Set(x, y, z int, v uint8) bool {
	if !g.In(x, y, z) {
		return false
	}
	g.Pix[g.Offset(x, y, z)] = v
	return true
}

func (g *Grid) plane(z int) []uint8 {
	n := g.Width * g.Height
	return g.Pix[z*n : (z+1)*n]
}

// Slice returns a copy of layer z or nil if it does not exist.
func (g *Grid) Slice(z int) []uint8 {
	if z < 0 || z >= g.Depth {
		return nil
	}
	return append([]uint8(nil), g.plane(z)...)
}

// SetSlice overwrites layer z with b, which must hold exactly one layer.
func (g *Grid) SetSlice(z int, b []uint8) bool {
	if z < 0 || z >= g.Depth || len(b) != g.Width*g.Height {
		return false
	}
	copy(g.plane(z), b)
	return true
}

// Fill sets every cell of layer z to v.
func (g *Grid) Fill(z int, v uint8) bool {
	if z < 0 || z >= g.Depth {
		return false
	}
	p := g.plane(z)
	for i := range p {
		p[i] = v
	}
	return true
}

// Remap returns a new grid of the given dimensions holding the cells of g
// that fall inside it at the same (x, y, z) coordinates. Everything else is
// zero.
func (g *Grid) Remap(width, height, depth int) *Grid {
	n := NewGrid(width, height, depth)
	w := min(width, g.Width)
	for z := 0; z < min(depth, g.Depth); z++ {
		for y := 0; y < min(height, g.Height); y++ {
			copy(n.Pix[n.Offset(0, y, z):n.Offset(w, y, z)], g.Pix[g.Offset(0, y, z):g.Offset(w, y, z)])
		}
	}
	return n
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	return &Grid{
		Width:  g.Width,
		Height: g.Height,
		Depth:  g.Depth,
		Pix:    append([]uint8(nil), g.Pix...),
	}
}
