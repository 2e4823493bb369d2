package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/umbra/pkg/math"
)

type fakeMesh struct {
	data      *Data
	drawn     []Primitive
	destroyed bool
}

func (m *fakeMesh) Render(p Primitive) { m.drawn = append(m.drawn, p) }

func (m *fakeMesh) Primitive() Primitive { return m.data.Primitive }

func (m *fakeMesh) Destroy() { m.destroyed = true }

func fakeUpload(d *Data) (Drawable, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &fakeMesh{data: d}, nil
}

func TestStoreAddLookupGet(t *testing.T) {
	s := NewStore()
	m := &fakeMesh{data: Cube()}

	id, err := s.Add("box", m)
	require.NoError(t, err)
	assert.NotZero(t, id)

	got, err := s.Lookup("box")
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Same(t, m, s.Get(id))
	assert.Equal(t, "box", s.Name(id))
}

func TestStoreDuplicate(t *testing.T) {
	s := NewStore()
	_, err := s.Add("box", &fakeMesh{})
	require.NoError(t, err)

	_, err = s.Add("box", &fakeMesh{})
	assert.ErrorIs(t, err, ErrDuplicateMesh)

	_, err = s.AddData("box", Cube(), fakeUpload)
	assert.ErrorIs(t, err, ErrDuplicateMesh)
}

func TestStoreMissing(t *testing.T) {
	s := NewStore()

	_, err := s.Lookup("teapot")
	assert.ErrorIs(t, err, ErrMeshNotFound)
	assert.Nil(t, s.Get(0))
	assert.Nil(t, s.Get(7))
	assert.Empty(t, s.Name(0))
}

func TestStoreAddBuiltins(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.AddBuiltins(fakeUpload))

	assert.Equal(t, 5, s.Len())
	for _, name := range []string{NamePlane, NameCube, NamePyramid, NameSphere, NameQuad} {
		id, err := s.Lookup(name)
		require.NoError(t, err, name)
		assert.NotNil(t, s.Get(id))
	}
	quad, _ := s.Lookup(NameQuad)
	assert.Equal(t, TriangleStrip, s.Get(quad).Primitive())
}

func TestStoreUploadFailure(t *testing.T) {
	s := NewStore()
	boom := errors.New("boom")

	_, err := s.AddData("bad", Cube(), func(*Data) (Drawable, error) { return nil, boom })

	assert.ErrorIs(t, err, boom)
	_, err = s.Lookup("bad")
	assert.ErrorIs(t, err, ErrMeshNotFound)
}

func TestStoreDestroy(t *testing.T) {
	s := NewStore()
	m := &fakeMesh{}
	_, err := s.Add("m", m)
	require.NoError(t, err)

	s.Destroy()

	assert.True(t, m.destroyed)
	assert.Zero(t, s.Len())
}

func TestStoreBounds(t *testing.T) {
	s := NewStore()
	id, err := s.AddData("box", Cube(), fakeUpload)
	require.NoError(t, err)

	lo, hi, ok := s.Bounds(id)
	require.True(t, ok)
	assert.Equal(t, math.Splat(-1), lo)
	assert.Equal(t, math.Splat(1), hi)

	raw, err := s.Add("raw", &fakeMesh{})
	require.NoError(t, err)
	_, _, ok = s.Bounds(raw)
	assert.False(t, ok)

	_, _, ok = s.Bounds(ID(42))
	assert.False(t, ok)
}
