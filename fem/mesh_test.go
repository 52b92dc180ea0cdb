package fem

import (
	"errors"
	"testing"

	"github.com/notargets/fetransfer/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMesh(t *testing.T) {
	verts := [][]float64{{0, 0}, {1, 0}, {0, 1}}
	_, err := NewMesh(2, verts, []Element{{Geometry: Triangle, Vertices: utils.Index{0, 1, 2}}})
	assert.NoError(t, err)
	_, err = NewMesh(2, verts, []Element{{Geometry: Segment, Vertices: utils.Index{0, 1}}})
	assert.Error(t, err)
	_, err = NewMesh(2, verts, []Element{{Geometry: Quadrilateral, Vertices: utils.Index{0, 1, 2}}})
	assert.Error(t, err)
	_, err = NewMesh(2, verts, []Element{{Geometry: Triangle, Vertices: utils.Index{0, 1, 3}}})
	assert.Error(t, err)
}

func TestMeshGenerators(t *testing.T) {
	{
		m, err := NewSegmentMesh(0, 2, 4, true)
		require.NoError(t, err)
		assert.Equal(t, 4, m.NumElements())
		assert.Equal(t, 5, m.NumVertices())
		assert.Equal(t, 0, m.CanonicalVertex(4))
		assert.Equal(t, 3, m.CanonicalVertex(3))
		x := make([]float64, 1)
		m.MapToPhysical(1, []float64{0.5}, x)
		assert.InDelta(t, 0.75, x[0], 1.e-14)
		_, err = NewSegmentMesh(0, 1, 0, false)
		assert.Error(t, err)
	}
	{
		m, err := NewRectangleMesh(2, 2, 1, 1, Triangles, false)
		require.NoError(t, err)
		assert.Equal(t, 8, m.NumElements())
		assert.Equal(t, 9, m.NumVertices())
		assert.Empty(t, m.Periodic)
	}
	{
		m, err := NewRectangleMesh(3, 2, 3, 2, Mixed, true)
		require.NoError(t, err)
		// Columns 0 and 2 are quadrilaterals, column 1 a pair of triangles
		assert.Equal(t, 8, m.NumElements())
		assert.Equal(t, Quadrilateral, m.ElementGeometry(0))
		assert.Equal(t, Triangle, m.ElementGeometry(1))
		assert.Equal(t, Triangle, m.ElementGeometry(2))
		assert.Equal(t, Quadrilateral, m.ElementGeometry(3))
		assert.Equal(t, 3, len(m.Periodic))
		assert.Equal(t, 4, m.CanonicalVertex(7))
		x := make([]float64, 2)
		m.MapToPhysical(0, []float64{0.5, 0.5}, x)
		assert.InDeltaSlice(t, []float64{0.5, 0.5}, x, 1.e-14)
	}
	_, err := NewRectangleMesh(2, 2, 1, 1, Quadrilaterals, true)
	assert.Error(t, err)
	_, err = NewMeshKind("hexahedra")
	assert.Error(t, err)
}

// checkEmbeddings verifies that every fine element is the image of its
// embedding in the ancestor element.
func checkEmbeddings(t *testing.T, fine, coarse *Mesh) {
	for i := 0; i < fine.NumElements(); i++ {
		emb, err := fine.AncestorEmbedding(i, coarse)
		require.NoError(t, err)
		g := fine.ElementGeometry(i)
		assert.Equal(t, g, coarse.ElementGeometry(emb.Parent))
		for _, ip := range append(g.ReferenceVertices(), []float64{0.25, 0.3}[:g.Dim()]) {
			var (
				xFine   = make([]float64, fine.Dim)
				xCoarse = make([]float64, fine.Dim)
				ipc     = make([]float64, g.Dim())
			)
			fine.MapToPhysical(i, ip, xFine)
			emb.Transformation.Transform(ip, ipc)
			coarse.MapToPhysical(emb.Parent, ipc, xCoarse)
			assert.InDeltaSlice(t, xCoarse, xFine, 1.e-13)
		}
	}
}

func TestUniformRefinement(t *testing.T) {
	{
		m, err := NewSegmentMesh(0, 1, 2, false)
		require.NoError(t, err)
		fine := m.UniformRefinement()
		assert.Equal(t, 4, fine.NumElements())
		assert.Equal(t, 5, fine.NumVertices())
		checkEmbeddings(t, fine, m)
	}
	{
		m, err := NewRectangleMesh(1, 1, 1, 1, Triangles, false)
		require.NoError(t, err)
		fine := m.UniformRefinement()
		assert.Equal(t, 8, fine.NumElements())
		assert.Equal(t, 9, fine.NumVertices())
		checkEmbeddings(t, fine, m)
	}
	{
		m, err := NewRectangleMesh(1, 1, 2, 1, Quadrilaterals, false)
		require.NoError(t, err)
		fine := m.UniformRefinement()
		assert.Equal(t, 4, fine.NumElements())
		assert.Equal(t, 9, fine.NumVertices())
		checkEmbeddings(t, fine, m)
	}
	{ // Two levels on a periodic mixed mesh
		m, err := NewRectangleMesh(3, 2, 3, 1, Mixed, true)
		require.NoError(t, err)
		f1 := m.UniformRefinement()
		f2 := f1.UniformRefinement()
		checkEmbeddings(t, f1, m)
		checkEmbeddings(t, f2, f1)
		checkEmbeddings(t, f2, m)
		assert.True(t, f2.IsRefinementOf(m))
		assert.True(t, f2.IsRefinementOf(f1))
		assert.False(t, m.IsRefinementOf(f2))
		assert.False(t, m.IsRefinementOf(m))
		assert.Equal(t, f1, f2.Parent())
		// Midpoints of the two right boundary edges join the corner vertices
		assert.Equal(t, len(m.Periodic)+2, len(f1.Periodic))
		for v, img := range f1.Periodic {
			assert.InDelta(t, 3., f1.Vertices[v][0], 1.e-14)
			assert.InDelta(t, 0., f1.Vertices[img][0], 1.e-14)
			assert.InDelta(t, f1.Vertices[v][1], f1.Vertices[img][1], 1.e-14)
		}
		other, err := NewRectangleMesh(3, 2, 3, 1, Mixed, true)
		require.NoError(t, err)
		_, err = f1.AncestorEmbedding(0, other)
		assert.True(t, errors.Is(err, ErrNotRefinement))
	}
}

func TestPermute(t *testing.T) {
	m, err := NewRectangleMesh(3, 1, 1, 1, Mixed, true)
	require.NoError(t, err)
	pm, err := m.Permute([]int{3, 0, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, m.Elements[3], pm.Elements[0])
	assert.Equal(t, m.Periodic, pm.Periodic)
	assert.Nil(t, pm.Parent())
	_, err = m.Permute([]int{0, 0, 1, 2})
	assert.Error(t, err)
	_, err = m.Permute([]int{0, 1})
	assert.Error(t, err)
}
