package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/umbra/pkg/math"
)

// ErrMalformedOBJ is returned for OBJ input that cannot be decoded.
var ErrMalformedOBJ = errors.New("mesh: malformed OBJ")

// objVertex indexes the position, texcoord and normal of one face corner.
// Missing attributes are -1.
type objVertex struct {
	v, vt, vn int
}

type objDecoder struct {
	line int

	positions []math.Vec3
	texCoords [][2]float32
	normals   []math.Vec3

	out      Data
	vertices map[objVertex]uint32
	// missingNormals is set when any corner has no vn.
	missingNormals bool
	missingUVs     bool
}

// DecodeOBJ reads Wavefront OBJ geometry. Polygons are fan-triangulated
// and identical corners are shared. Normals are generated when the file
// does not provide them for every corner. Materials, groups and smoothing
// are ignored.
func DecodeOBJ(r io.Reader) (*Data, error) {
	dec := &objDecoder{vertices: make(map[objVertex]uint32)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		dec.line++
		if err := dec.parseLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	d := &dec.out
	if len(d.Indices) == 0 {
		return nil, fmt.Errorf("%w: no faces", ErrMalformedOBJ)
	}
	if dec.missingNormals {
		d.Normals = GenerateNormals(d.Positions, d.Indices)
	}
	if dec.missingUVs {
		d.TexCoords = nil
	}
	return d, nil
}

func (dec *objDecoder) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	switch fields[0] {
	case "v":
		v, err := dec.parseVec3(fields[1:])
		if err != nil {
			return err
		}
		dec.positions = append(dec.positions, v)
	case "vn":
		v, err := dec.parseVec3(fields[1:])
		if err != nil {
			return err
		}
		dec.normals = append(dec.normals, v)
	case "vt":
		if len(fields) < 3 {
			return dec.errorf("vt needs 2 components")
		}
		s, err := strconv.ParseFloat(fields[1], 32)
		if err != nil {
			return dec.errorf("vt: %v", err)
		}
		t, err := strconv.ParseFloat(fields[2], 32)
		if err != nil {
			return dec.errorf("vt: %v", err)
		}
		dec.texCoords = append(dec.texCoords, [2]float32{float32(s), float32(t)})
	case "f":
		return dec.parseFace(fields[1:])
	}
	return nil
}

func (dec *objDecoder) parseVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, dec.errorf("vector needs 3 components")
	}
	var c [3]float32
	for i := range c {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math.Vec3{}, dec.errorf("%v", err)
		}
		c[i] = float32(f)
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

func (dec *objDecoder) parseFace(fields []string) error {
	if len(fields) < 3 {
		return dec.errorf("face needs at least 3 vertices")
	}

	corners := make([]uint32, len(fields))
	for i, f := range fields {
		ov, err := dec.parseCorner(f)
		if err != nil {
			return err
		}
		corners[i] = dec.vertex(ov)
	}

	for i := 1; i+1 < len(corners); i++ {
		dec.out.Indices = append(dec.out.Indices, corners[0], corners[i], corners[i+1])
	}
	return nil
}

// parseCorner parses v, v/vt, v//vn or v/vt/vn.
func (dec *objDecoder) parseCorner(field string) (objVertex, error) {
	parts := strings.Split(field, "/")
	ov := objVertex{v: -1, vt: -1, vn: -1}

	var err error
	if ov.v, err = dec.resolve(parts[0], len(dec.positions)); err != nil {
		return ov, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if ov.vt, err = dec.resolve(parts[1], len(dec.texCoords)); err != nil {
			return ov, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if ov.vn, err = dec.resolve(parts[2], len(dec.normals)); err != nil {
			return ov, err
		}
	}
	return ov, nil
}

// resolve converts a 1-based or negative relative OBJ index.
func (dec *objDecoder) resolve(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, dec.errorf("index %q: %v", s, err)
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	default:
		return 0, dec.errorf("index %d out of range (%d defined)", i, n)
	}
}

func (dec *objDecoder) vertex(ov objVertex) uint32 {
	if idx, ok := dec.vertices[ov]; ok {
		return idx
	}

	d := &dec.out
	idx := uint32(len(d.Positions))
	d.Positions = append(d.Positions, dec.positions[ov.v])

	if ov.vn >= 0 {
		d.Normals = append(d.Normals, dec.normals[ov.vn])
	} else {
		d.Normals = append(d.Normals, math.Vec3{})
		dec.missingNormals = true
	}
	if ov.vt >= 0 {
		d.TexCoords = append(d.TexCoords, dec.texCoords[ov.vt])
	} else {
		d.TexCoords = append(d.TexCoords, [2]float32{})
		dec.missingUVs = true
	}

	dec.vertices[ov] = idx
	return idx
}

func (dec *objDecoder) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformedOBJ, dec.line, fmt.Sprintf(format, args...))
}
