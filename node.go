package quadtree

type node struct {
	boundary Rect
	depth    int

	points []Point

	// nil while the node is a leaf. Set once by subdivide and never cleared,
	// except by Destroy.
	quadrants *[4]*node
}

func newNode(boundary Rect, depth int) *node {
	return &node{
		boundary: boundary,
		depth:    depth,
	}
}

func (n *node) isLeaf() bool {
	return n.quadrants == nil
}

// release clears n and its subtree, visiting every node once.
func (n *node) release() {
	if !n.isLeaf() {
		for _, c := range n.quadrants {
			c.release()
		}
	}
	n.points = nil
	n.quadrants = nil
}
