package palette

import (
	"image"
	_ "image/gif"  // register GIF atlases
	_ "image/jpeg" // register JPEG atlases
	_ "image/png"  // register PNG atlases
	"io"
	"os"

	_ "golang.org/x/image/bmp" // register BMP atlases
)

// DecodeAtlas decodes an atlas image in any registered format.
func DecodeAtlas(r io.Reader) (image.Image, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// LoadAtlas decodes the atlas image stored in file.
func LoadAtlas(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodeAtlas(f)
}
