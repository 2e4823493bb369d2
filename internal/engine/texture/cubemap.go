package texture

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"path"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ErrCubemapSize is returned when cubemap faces are not equal squares.
var ErrCubemapSize = errors.New("texture: cubemap faces must be equal squares")

// CubemapFaces are the face file names, without extension, in
// +X, -X, +Y, -Y, +Z, -Z order.
var CubemapFaces = [6]string{"right", "left", "top", "bottom", "front", "back"}

// CubemapExt is the extension of every face file.
const CubemapExt = ".jpg"

// ReadCubemap decodes the six faces stored under dir in fsys.
func ReadCubemap(fsys fs.FS, dir string) ([6]*image.RGBA, error) {
	var faces [6]*image.RGBA
	for i, face := range CubemapFaces {
		img, err := ReadImage(fsys, path.Join(dir, face+CubemapExt))
		if err != nil {
			return faces, fmt.Errorf("cubemap %s: %w", dir, err)
		}
		faces[i] = img
	}

	size := faces[0].Bounds().Size()
	for i, img := range faces {
		if s := img.Bounds().Size(); s != size || s.X != s.Y {
			return faces, fmt.Errorf("%w: %s is %dx%d", ErrCubemapSize, CubemapFaces[i], s.X, s.Y)
		}
	}
	return faces, nil
}

// UploadCubemap creates a mipmapped cubemap texture. Faces are uploaded
// unflipped, as cubemap lookups use the top-left origin.
func UploadCubemap(faces [6]*image.RGBA) *Texture {
	size := faces[0].Bounds().Dx()
	t := &Texture{target: gl.TEXTURE_CUBE_MAP, width: size, height: size}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.id)
	for i, img := range faces {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA8, int32(size), int32(size), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	}
	gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	// Filter across face edges so seams do not show.
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
	return t
}

// LoadCubemap reads and uploads the cubemap under dir.
func LoadCubemap(fsys fs.FS, dir string) (*Texture, error) {
	faces, err := ReadCubemap(fsys, dir)
	if err != nil {
		return nil, err
	}
	return UploadCubemap(faces), nil
}
