package storage

import "github.com/bodgit/tilemap3d/layer"

// LayerInfo is the per-layer data read by the renderer.
type LayerInfo struct {
	TileCount int
	Intensity uint8
}

// LayerArray holds one LayerInfo per layer.
type LayerArray []LayerInfo

func newLayerArray(layers []*layer.Layer) LayerArray {
	a := make(LayerArray, len(layers))
	a.update(layers)
	return a
}

func (a LayerArray) update(layers []*layer.Layer) {
	for i, l := range layers {
		a[i] = LayerInfo{
			TileCount: l.TilesCount(),
			Intensity: l.IntensityByte(),
		}
	}
}

// RGBA packs the array as one RGBA pixel per layer, the tile count in the
// red channel and the intensity in the green channel. Tile counts above 255
// saturate.
func (a LayerArray) RGBA() []uint8 {
	b := make([]uint8, 4*len(a))
	for i, info := range a {
		b[i*4] = uint8(min(info.TileCount, 255))
		b[i*4+1] = info.Intensity
	}
	return b
}
