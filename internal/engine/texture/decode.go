// Package texture decodes images and uploads them as 2D textures and
// cubemaps.
package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"path"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"
)

// Decode decodes png, jpeg, bmp or tga data into RGBA. The format is
// taken from the name's extension for tga and sniffed otherwise.
func Decode(name string, data []byte) (*image.RGBA, error) {
	if strings.EqualFold(path.Ext(name), ".tga") {
		return DecodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return clone.AsRGBA(img), nil
}

// ReadImage reads and decodes name from fsys.
func ReadImage(fsys fs.FS, name string) (*image.RGBA, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	return Decode(name, data)
}

// FlipVertical returns img upside down. Images are stored top row first
// while GL expects the bottom row first.
func FlipVertical(img image.Image) *image.RGBA {
	return transform.FlipV(img)
}
