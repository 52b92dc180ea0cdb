package fem

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

type NodeType uint8

const (
	Equispaced NodeType = iota
	GaussLobatto
)

var (
	NodeTypeNames = map[string]NodeType{
		"equispaced":   Equispaced,
		"uniform":      Equispaced,
		"gausslobatto": GaussLobatto,
		"gll":          GaussLobatto,
	}
	NodeTypePrintNames = []string{"Equispaced", "GaussLobatto"}
)

func (nt NodeType) String() string {
	if int(nt) < len(NodeTypePrintNames) {
		return NodeTypePrintNames[nt]
	}
	return fmt.Sprintf("NodeType(%d)", uint8(nt))
}

func NewNodeType(label string) (nt NodeType, err error) {
	var (
		ok bool
	)
	if nt, ok = NodeTypeNames[strings.ToLower(label)]; !ok {
		err = fmt.Errorf("unable to use node type named %s", label)
	}
	return
}

// Points1D returns p+1 ascending points on [0,1] including both ends. The
// set is symmetric about 1/2, so an edge traversed in either direction
// carries the same nodes.
func Points1D(p int, nodeType NodeType) (v []float64) {
	if p < 1 {
		panic(fmt.Errorf("polynomial order must be >= 1, have %d", p))
	}
	v = make([]float64, p+1)
	switch nodeType {
	case GaussLobatto:
		x := JacobiGL(0, 0, p)
		for i, val := range x {
			v[i] = 0.5 * (val + 1)
		}
	default:
		for i := range v {
			v[i] = float64(i) / float64(p)
		}
	}
	v[0], v[p] = 0, 1
	for i := 1; i < p-i; i++ {
		mid := 0.5 * (v[i] + 1 - v[p-i])
		v[i], v[p-i] = mid, 1-mid
	}
	if p%2 == 0 {
		v[p/2] = 0.5
	}
	return
}

// JacobiGL returns the N+1 Gauss-Lobatto points of the Jacobi polynomial
// P_N^(alpha,beta) on [-1,1].
func JacobiGL(alpha, beta float64, N int) (x []float64) {
	x = make([]float64, N+1)
	x[0], x[N] = -1, 1
	if N == 1 {
		return
	}
	xint := JacobiGQ(alpha+1, beta+1, N-2)
	copy(x[1:N], xint)
	return
}

// JacobiGQ returns the N+1 Gauss quadrature points of P_N^(alpha,beta) as the
// eigenvalues of the symmetric Jacobi matrix.
func JacobiGQ(alpha, beta float64, N int) (x []float64) {
	var (
		h1  = make([]float64, N+1)
		fac = -.5 * (alpha*alpha - beta*beta)
		eps = 1.e-16
	)
	if N == 0 {
		return []float64{-(alpha - beta) / (alpha + beta + 2.)}
	}
	for i := range h1 {
		h1[i] = 2*float64(i) + alpha + beta
	}
	JJ := mat.NewSymDense(N+1, nil)
	// main diagonal: diag(-1/2*(alpha^2-beta^2)./(h1+2)./h1)
	for i := 0; i < N+1; i++ {
		JJ.SetSym(i, i, fac/(h1[i]*(h1[i]+2.)))
	}
	// Handle division by zero
	if alpha+beta < 10*eps {
		JJ.SetSym(0, 0, 0)
	}
	for i := 0; i < N; i++ {
		ip1 := float64(i + 1)
		val := h1[i]
		d1 := 2. / (val + 2.)
		d1 *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) / ((val + 1.) * (val + 3.)))
		JJ.SetSym(i, i+1, d1)
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, false); !ok {
		panic("eigenvalue decomposition failed")
	}
	x = eig.Values(nil)
	return
}

// JacobiP evaluates the orthonormal Jacobi polynomial P_N^(alpha,beta) at x
// in [-1,1] with the three term recurrence.
func JacobiP(x, alpha, beta float64, N int) float64 {
	var (
		ab = alpha + beta
	)
	pold := 1. / math.Sqrt(gamma0(alpha, beta))
	if N == 0 {
		return pold
	}
	p := ((ab+2.)*x/2. + (alpha-beta)/2.) / math.Sqrt(gamma1(alpha, beta))
	aold := 2. / (2. + ab) * math.Sqrt((alpha+1.)*(beta+1.)/(ab+3.))
	for i := 1; i < N; i++ {
		h1 := 2.*float64(i) + ab
		ip1 := float64(i + 1)
		anew := 2. / (h1 + 2.) * math.Sqrt(ip1*(ip1+ab)*(ip1+alpha)*(ip1+beta)/((h1+1.)*(h1+3.)))
		bnew := -(alpha*alpha - beta*beta) / (h1 * (h1 + 2.))
		pold, p = p, (-aold*pold+(x-bnew)*p)/anew
		aold = anew
	}
	return p
}

func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	return math.Pow(2, ab1) / ab1 * math.Gamma(alpha+1.) * math.Gamma(beta+1.) / math.Gamma(ab1)
}

func gamma1(alpha, beta float64) float64 {
	ab := alpha + beta
	return (alpha + 1.) * (beta + 1.) / (ab + 3.) * gamma0(alpha, beta)
}
