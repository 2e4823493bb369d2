package texture

import (
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/logger"
)

var (
	ErrDuplicateTexture = errors.New("texture: name already registered")
	ErrTextureNotFound  = errors.New("texture: not found")
)

// Handle is a texture that can be bound to a texture unit.
type Handle interface {
	Bind(unit uint32)
}

// Loader reads and uploads the named image from fsys.
type Loader func(fsys fs.FS, name string) (Handle, error)

// GLLoader returns a Loader that uploads 2D textures with opts.
func GLLoader(opts Options) Loader {
	return func(fsys fs.FS, name string) (Handle, error) {
		img, err := ReadImage(fsys, name)
		if err != nil {
			return nil, err
		}
		return Upload(img, opts), nil
	}
}

// Store owns textures keyed by file name, relative to a texture root.
type Store struct {
	root     fs.FS
	load     Loader
	textures map[string]Handle
	log      *zap.Logger
}

// NewStore creates a store reading images from root.
func NewStore(root fs.FS, load Loader) *Store {
	return &Store{
		root:     root,
		load:     load,
		textures: make(map[string]Handle),
		log:      logger.Named("texture"),
	}
}

// Root returns the texture root.
func (s *Store) Root() fs.FS { return s.root }

// Add loads name and registers it.
func (s *Store) Add(name string) (Handle, error) {
	if _, ok := s.textures[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateTexture, name)
	}
	tex, err := s.load(s.root, name)
	if err != nil {
		return nil, fmt.Errorf("load texture %q: %w", name, err)
	}
	s.textures[name] = tex
	s.log.Info("texture loaded", zap.String("name", name))
	return tex, nil
}

// Get returns a registered texture.
func (s *Store) Get(name string) (Handle, error) {
	tex, ok := s.textures[name]
	if !ok {
		s.log.Error("texture not found", zap.String("name", name))
		return nil, fmt.Errorf("%w: %q", ErrTextureNotFound, name)
	}
	return tex, nil
}

// GetOrAdd returns name, loading it on first use.
func (s *Store) GetOrAdd(name string) (Handle, error) {
	if tex, ok := s.textures[name]; ok {
		return tex, nil
	}
	return s.Add(name)
}

// Len returns the number of textures.
func (s *Store) Len() int { return len(s.textures) }

// Destroy releases every GL texture.
func (s *Store) Destroy() {
	for name, tex := range s.textures {
		if t, ok := tex.(*Texture); ok {
			t.Destroy()
		}
		delete(s.textures, name)
	}
}
