package fem

import (
	"fmt"
	"sync"
)

// Collection is a basis family: one finite element per reference geometry.
// Two spaces share a family exactly when they hold the same *Collection.
// Elements are built on first use for each geometry.
type Collection struct {
	Name     string
	Order    int
	NodeType NodeType
	mu       sync.Mutex
	elements map[Geometry]*LagrangeElement
}

func NewH1Collection(order int, nodeTypeO ...NodeType) (c *Collection, err error) {
	var (
		nodeType = Equispaced
	)
	if len(nodeTypeO) != 0 {
		nodeType = nodeTypeO[0]
	}
	c = &Collection{
		Name:     fmt.Sprintf("H1_%s_P%d", nodeType, order),
		Order:    order,
		NodeType: nodeType,
		elements: make(map[Geometry]*LagrangeElement),
	}
	if order < 1 {
		return nil, fmt.Errorf("collection %s: polynomial order must be >= 1, have %d", c.Name, order)
	}
	return
}

func (c *Collection) FiniteElement(g Geometry) FiniteElement {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.elements[g]; ok {
		return el
	}
	el, err := NewLagrangeElement(g, c.Order, c.NodeType)
	if err != nil {
		panic(fmt.Errorf("collection %s: %w", c.Name, err))
	}
	c.elements[g] = el
	return el
}
