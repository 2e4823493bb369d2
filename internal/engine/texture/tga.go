package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var (
	ErrTGATruncated   = errors.New("texture: TGA data truncated")
	ErrTGAUnsupported = errors.New("texture: unsupported TGA format")
)

// TGA image types.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10

	tgaHeaderSize = 18
	tgaTopOrigin  = 0x20
)

// tgaWriter places decoded pixels in file order into an RGBA image,
// flipping rows when the file stores them bottom-up.
type tgaWriter struct {
	img     *image.RGBA
	width   int
	height  int
	flip    bool
	written int
}

func (w *tgaWriter) done() bool { return w.written >= w.width*w.height }

func (w *tgaWriter) put(c color.RGBA) {
	x, y := w.written%w.width, w.written/w.width
	if w.flip {
		y = w.height - 1 - y
	}
	w.img.SetRGBA(x, y, c)
	w.written++
}

// tgaPixel reads one BGR or BGRA pixel.
func tgaPixel(p []byte, bytesPerPixel int) color.RGBA {
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if bytesPerPixel == 4 {
		c.A = p[3]
	}
	return c
}

// DecodeTGA decodes an uncompressed or RLE true-color TGA. The standard
// library has no TGA decoder and neither does x/image.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, ErrTGATruncated
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	switch {
	case colorMapType != 0:
		return nil, fmt.Errorf("%w: color-mapped", ErrTGAUnsupported)
	case imageType != tgaTrueColor && imageType != tgaTrueColorRLE:
		return nil, fmt.Errorf("%w: type %d", ErrTGAUnsupported, imageType)
	case bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrTGAUnsupported, bpp)
	case width == 0 || height == 0:
		return nil, fmt.Errorf("%w: empty image", ErrTGAUnsupported)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, ErrTGATruncated
	}

	w := &tgaWriter{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
		flip:   descriptor&tgaTopOrigin == 0,
	}
	bytesPerPixel := bpp / 8
	pixels := data[offset:]

	if imageType == tgaTrueColor {
		if len(pixels) < width*height*bytesPerPixel {
			return nil, ErrTGATruncated
		}
		for i := 0; !w.done(); i += bytesPerPixel {
			w.put(tgaPixel(pixels[i:], bytesPerPixel))
		}
		return w.img, nil
	}

	if err := decodeTGARLE(w, pixels, bytesPerPixel); err != nil {
		return nil, err
	}
	return w.img, nil
}

// decodeTGARLE expands run-length packets. The high bit of a packet header
// marks a run of one repeated pixel, otherwise a span of raw pixels follows.
func decodeTGARLE(w *tgaWriter, data []byte, bytesPerPixel int) error {
	i := 0
	for !w.done() {
		if i >= len(data) {
			return ErrTGATruncated
		}
		header := data[i]
		i++
		count := int(header&0x7F) + 1

		if header&0x80 != 0 {
			if i+bytesPerPixel > len(data) {
				return ErrTGATruncated
			}
			c := tgaPixel(data[i:], bytesPerPixel)
			i += bytesPerPixel
			for n := 0; n < count && !w.done(); n++ {
				w.put(c)
			}
			continue
		}

		for n := 0; n < count && !w.done(); n++ {
			if i+bytesPerPixel > len(data) {
				return ErrTGATruncated
			}
			w.put(tgaPixel(data[i:], bytesPerPixel))
			i += bytesPerPixel
		}
	}
	return nil
}
