package framebuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int32
		wantW, wantH int32
	}{
		{"unchanged", 640, 480, 640, 480},
		{"minimized", 0, 0, 1, 1},
		{"negative width", -5, 10, 1, 10},
		{"collapsed height", 300, 0, 300, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := clampSize(tt.w, tt.h)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}
