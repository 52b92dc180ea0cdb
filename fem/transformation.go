package fem

import (
	"fmt"

	"github.com/notargets/fetransfer/utils"
)

// Transformation maps reference coordinates of one element into the
// reference (or physical) coordinates of another.
type Transformation interface {
	Transform(ip, x []float64)
}

// AffineTransformation computes x = Origin + J ip.
type AffineTransformation struct {
	Origin []float64
	J      utils.Matrix
}

func NewAffineTransformation(origin []float64, J utils.Matrix) (T *AffineTransformation) {
	var (
		nr, _ = J.Dims()
	)
	if nr != len(origin) {
		panic(fmt.Errorf("affine map origin has %d entries, jacobian has %d rows", len(origin), nr))
	}
	return &AffineTransformation{
		Origin: origin,
		J:      J,
	}
}

// NewIdentityTransformation maps the reference element of g onto itself.
func NewIdentityTransformation(g Geometry) (T *AffineTransformation) {
	var (
		dim = g.Dim()
		J   = utils.NewMatrix(dim, dim)
	)
	for i := 0; i < dim; i++ {
		J.Set(i, i, 1)
	}
	return NewAffineTransformation(make([]float64, dim), J)
}

// newVertexTransformation builds the affine map taking the reference element
// of g to the element spanned by the given vertices (in g's vertex order).
func newVertexTransformation(g Geometry, verts [][]float64) (T *AffineTransformation) {
	var (
		v0  = verts[0]
		ax  = g.axisVertices()
		dim = len(v0)
		J   = utils.NewMatrix(dim, len(ax))
	)
	for j, iv := range ax {
		for i := 0; i < dim; i++ {
			J.Set(i, j, verts[iv][i]-v0[i])
		}
	}
	origin := make([]float64, dim)
	copy(origin, v0)
	return NewAffineTransformation(origin, J)
}

func (T *AffineTransformation) Transform(ip, x []float64) {
	T.J.MulVec(ip, x)
	for i, o := range T.Origin {
		x[i] += o
	}
}

// Compose returns the map ip -> T(inner(ip)).
func (T *AffineTransformation) Compose(inner *AffineTransformation) (R *AffineTransformation) {
	origin := make([]float64, len(T.Origin))
	T.Transform(inner.Origin, origin)
	return NewAffineTransformation(origin, T.J.Mul(inner.J))
}

func (T *AffineTransformation) key(g Geometry) (k embeddingKey) {
	var (
		nr, nc = T.J.Dims()
	)
	k.g = g
	copy(k.origin[:], T.Origin)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			k.jac[i*2+j] = T.J.At(i, j)
		}
	}
	return
}

type embeddingKey struct {
	g      Geometry
	origin [2]float64
	jac    [4]float64
}
