package layer

import (
	"testing"

	"github.com/bodgit/tilemap3d/autotile"
	"github.com/bodgit/tilemap3d/palette"
	"github.com/stretchr/testify/assert"
)

func TestOccupancyBounds(t *testing.T) {
	l := New("ground", 3, 2)
	assert.Len(t, l.Occupancy(), 6)

	l.SetOccupied(2, 1, true)
	assert.True(t, l.Occupied(2, 1))
	assert.True(t, l.Occupancy()[5])

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 2}} {
		l.SetOccupied(p[0], p[1], true)
		assert.False(t, l.Occupied(p[0], p[1]))
	}

	var _ autotile.Occupancy = l
}

func TestResize(t *testing.T) {
	l := New("ground", 2, 2)
	l.SetOccupied(1, 1, true)

	l.Resize(2, 2)
	assert.True(t, l.Occupied(1, 1))

	l.Resize(4, 3)
	assert.Len(t, l.Occupancy(), 12)
	assert.False(t, l.Occupied(1, 1))
	w, h := l.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 3, h)

	assert.False(t, l.SetOccupancy(make([]bool, 4)))
	b := make([]bool, 12)
	b[11] = true
	assert.True(t, l.SetOccupancy(b))
	assert.True(t, l.Occupied(3, 2))

	l.Clear()
	assert.False(t, l.Occupied(3, 2))
}

func TestIntensity(t *testing.T) {
	l := New("water", 1, 1)
	assert.Equal(t, uint8(255), l.IntensityByte())

	l.SetIntensity(1.5)
	assert.Equal(t, 1.0, l.Intensity)
	l.SetIntensity(-2)
	assert.Equal(t, 0.0, l.Intensity)
	l.SetIntensity(0.5)
	assert.Equal(t, uint8(127), l.IntensityByte())
}

func TestLayouts(t *testing.T) {
	l := New("cliff", 1, 1)
	assert.Nil(t, l.Layout())
	assert.Equal(t, 0, l.TilesCount())

	l.Palette = palette.New("cliff")
	first := l.AddLayout("first")
	second := l.AddLayout("second")
	assert.Same(t, first, l.Layout())

	l.LayoutIndex = 1
	assert.Same(t, second, l.Layout())
	assert.Nil(t, l.LayoutAt(2))
	assert.Nil(t, l.LayoutAt(-1))
}
