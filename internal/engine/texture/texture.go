package texture

import (
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Options controls sampling of uploaded 2D textures.
type Options struct {
	// Anisotropy is the requested anisotropic filtering level. It is
	// clamped to what the driver supports; 0 or 1 disables it.
	Anisotropy float32
}

// Texture is a GL texture object, either 2D or a cubemap.
type Texture struct {
	id     uint32
	target uint32
	width  int
	height int
}

// Upload creates a repeating, mipmapped 2D texture from img. img is
// flipped so its first row ends up at t=1.
func Upload(img *image.RGBA, opts Options) *Texture {
	flipped := FlipVertical(img)
	b := flipped.Bounds()

	t := &Texture{target: gl.TEXTURE_2D, width: b.Dx(), height: b.Dy()}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(t.width), int32(t.height), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&flipped.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)

	if opts.Anisotropy > 1 {
		var limit float32
		gl.GetFloatv(gl.MAX_TEXTURE_MAX_ANISOTROPY, &limit)
		gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, min(opts.Anisotropy, limit))
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t
}

// ID returns the GL texture name.
func (t *Texture) ID() uint32 { return t.id }

// Size returns the texture dimensions.
func (t *Texture) Size() (int, int) { return t.width, t.height }

// Bind binds the texture to texture unit unit.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(t.target, t.id)
}

// Destroy deletes the texture.
func (t *Texture) Destroy() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}
