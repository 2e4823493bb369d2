// Package debug provides debugging aids for a running engine.
package debug

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/anthonynsimon/bild/transform"
)

// ErrPixelSize is returned when the pixel buffer does not match the
// requested dimensions.
var ErrPixelSize = errors.New("screenshot: pixel data size mismatch")

// Screenshot writes frames read back from GL to timestamped PNG files.
type Screenshot struct {
	dir    string
	prefix string
	now    func() time.Time
}

// NewScreenshot creates a screenshot writer. An empty dir writes to the
// working directory.
func NewScreenshot(dir, prefix string) *Screenshot {
	if prefix == "" {
		prefix = "umbra"
	}
	return &Screenshot{dir: dir, prefix: prefix, now: time.Now}
}

// Dir returns the output directory.
func (s *Screenshot) Dir() string { return s.dir }

// Filename returns the path the next capture would be written to.
func (s *Screenshot) Filename() string {
	name := fmt.Sprintf("%s_%s.png", s.prefix, s.now().Format("2006-01-02_15-04-05.000"))
	if s.dir == "" {
		return name
	}
	return filepath.Join(s.dir, name)
}

// Image converts bottom-up RGBA rows, as returned by glReadPixels, into a
// top-down image.
func Image(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes, got %d",
			ErrPixelSize, width, height, width*height*4, len(pixels))
	}
	img := &image.RGBA{
		Pix:    pixels,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	return transform.FlipV(img), nil
}

// Capture writes the pixels as a PNG and returns the file path.
func (s *Screenshot) Capture(pixels []byte, width, height int) (string, error) {
	img, err := Image(pixels, width, height)
	if err != nil {
		return "", err
	}

	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	path := s.Filename()
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return path, nil
}
