package fem

import "fmt"

// Geometry identifies a reference element shape.
type Geometry int8

const (
	InvalidGeometry Geometry = iota - 1
	Segment
	Triangle
	Quadrilateral
)

func (g Geometry) String() string {
	switch g {
	case Segment:
		return "Segment"
	case Triangle:
		return "Triangle"
	case Quadrilateral:
		return "Quadrilateral"
	}
	return fmt.Sprintf("InvalidGeometry(%d)", int8(g))
}

func (g Geometry) Valid() bool {
	return g >= Segment && g <= Quadrilateral
}

func (g Geometry) Dim() int {
	switch g {
	case Segment:
		return 1
	case Triangle, Quadrilateral:
		return 2
	}
	return 0
}

func (g Geometry) NumVertices() int {
	switch g {
	case Segment:
		return 2
	case Triangle:
		return 3
	case Quadrilateral:
		return 4
	}
	return 0
}

var (
	triangleEdges      = [][2]int{{0, 1}, {1, 2}, {2, 0}}
	quadrilateralEdges = [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
)

// Edges lists the element edges as pairs of local vertices. Segments have no
// edges of their own; their interior is the whole element.
func (g Geometry) Edges() [][2]int {
	switch g {
	case Triangle:
		return triangleEdges
	case Quadrilateral:
		return quadrilateralEdges
	}
	return nil
}

// ReferenceVertices returns the vertices of the reference element: [0,1] for
// segments, (0,0),(1,0),(0,1) for triangles and the unit square for
// quadrilaterals, all counter-clockwise.
func (g Geometry) ReferenceVertices() (v [][]float64) {
	switch g {
	case Segment:
		v = [][]float64{{0}, {1}}
	case Triangle:
		v = [][]float64{{0, 0}, {1, 0}, {0, 1}}
	case Quadrilateral:
		v = [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	}
	return
}

// axisVertices are the local vertices whose offsets from vertex 0 span the
// reference element.
func (g Geometry) axisVertices() (ax []int) {
	switch g {
	case Segment:
		ax = []int{1}
	case Triangle:
		ax = []int{1, 2}
	case Quadrilateral:
		ax = []int{1, 3}
	}
	return
}
