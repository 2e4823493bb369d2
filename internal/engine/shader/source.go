package shader

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
)

// Built-in program names.
const (
	Phong          = "phong"
	PhongNoTexture = "phong-notexture"
	FlatColour     = "flat-colour"
	Skybox         = "skybox"
	ShadowMap      = "shadow-map"
	DebugQuad      = "debug-quad"
)

// Builtins lists every program the renderer needs.
var Builtins = []string{Phong, PhongNoTexture, FlatColour, Skybox, ShadowMap, DebugQuad}

// Stage file names inside a program directory.
const (
	VertexFile   = "vert.glsl"
	FragmentFile = "frag.glsl"
)

//go:embed glsl
var embedded embed.FS

// Source holds the GLSL text of one program.
type Source struct {
	Vertex   string
	Fragment string
}

// Sources returns the file system programs are read from: the embedded
// GLSL when dir is empty, otherwise dir on disk.
func Sources(dir string) fs.FS {
	if dir == "" {
		sub, err := fs.Sub(embedded, "glsl")
		if err != nil {
			panic(fmt.Sprintf("shader: embedded sources: %v", err))
		}
		return sub
	}
	return os.DirFS(dir)
}

// ReadSource reads <name>/vert.glsl and <name>/frag.glsl from fsys.
func ReadSource(fsys fs.FS, name string) (Source, error) {
	vert, err := fs.ReadFile(fsys, path.Join(name, VertexFile))
	if err != nil {
		return Source{}, fmt.Errorf("read %s vertex source: %w", name, err)
	}
	frag, err := fs.ReadFile(fsys, path.Join(name, FragmentFile))
	if err != nil {
		return Source{}, fmt.Errorf("read %s fragment source: %w", name, err)
	}
	return Source{Vertex: string(vert), Fragment: string(frag)}, nil
}
