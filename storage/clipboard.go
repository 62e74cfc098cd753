package storage

// Clipboard holds a copy of one grid layer.
type Clipboard struct {
	Layer         int
	Width, Height int
	Pix           []uint8
}

// Copy snapshots layer z into the clipboard, replacing what was there. It
// returns false if there is no such layer.
func (s *Storage) Copy(z int) bool {
	if s.grid == nil {
		return false
	}
	b := s.grid.Slice(z)
	if b == nil {
		return false
	}
	s.clipboard = &Clipboard{
		Layer:  z,
		Width:  s.grid.Width,
		Height: s.grid.Height,
		Pix:    b,
	}
	return true
}

// Paste overwrites layer z with the clipboard. It returns false if nothing
// was copied, if the copied layer no longer exists, if z does not exist or
// if the grid was resized since the copy.
func (s *Storage) Paste(z int) bool {
	c := s.clipboard
	switch {
	case s.grid == nil, c == nil:
		return false
	case c.Layer >= s.grid.Depth:
		return false
	case c.Width != s.grid.Width || c.Height != s.grid.Height:
		return false
	}
	return s.grid.SetSlice(z, c.Pix)
}

// Clipboard returns the current clipboard or nil.
func (s *Storage) Clipboard() *Clipboard {
	return s.clipboard
}
