package paint

import "image"

// FillTile flood fills the region of layer z that is 4-connected to (x, y)
// and holds the same tile index, painting it with tile. Nothing changes if
// the region already holds tile. Occupancy is left untouched.
func (e *Engine) FillTile(x, y, tile, z int) error {
	g, l, err := e.target(z)
	if err != nil {
		return err
	}
	v, err := clamp(tile, l)
	if err != nil {
		return err
	}
	if !g.In(x, y, z) {
		return nil
	}

	cells := g.Slice(z)
	if fill(cells, g.Width, g.Height, image.Pt(x, y), v) {
		g.SetSlice(z, cells)
	}
	return nil
}

// fill is a queue-based scanline fill. From each queued point it walks
// right then left while cells match the reference value, queueing the
// matching cells above and below. It reports whether anything changed.
func fill(cells []uint8, width, height int, seed image.Point, v uint8) bool {
	ref := cells[seed.Y*width+seed.X]
	if ref == v {
		return false
	}

	queue := []image.Point{seed}

	scan := func(x, y int) bool {
		i := y*width + x
		if cells[i] != ref {
			return false
		}
		cells[i] = v
		if y+1 < height && cells[i+width] == ref {
			queue = append(queue, image.Pt(x, y+1))
		}
		if y-1 >= 0 && cells[i-width] == ref {
			queue = append(queue, image.Pt(x, y-1))
		}
		return true
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		for x := p.X; x < width; x++ {
			if !scan(x, p.Y) {
				break
			}
		}
		for x := p.X - 1; x >= 0; x-- {
			if !scan(x, p.Y) {
				break
			}
		}
	}

	return true
}
