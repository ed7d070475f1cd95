package quadtree

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

const (
	// NodeCapacity is the default number of points a leaf holds before the
	// next insert subdivides it.
	NodeCapacity = 4

	// DefaultMaxDepth bounds subdivision. Leaves at this depth keep
	// accepting points past capacity, so duplicate points cannot split a
	// node forever.
	DefaultMaxDepth = 32
)

var (
	ErrInvalidBoundary = errors.New("quadtree: invalid boundary")
	ErrInvalidConfig   = errors.New("quadtree: invalid config")
	ErrDestroyed       = errors.New("quadtree: tree destroyed")
)

// Config configures New. Only Boundary is required.
type Config struct {
	Boundary Rect

	// Capacity defaults to NodeCapacity when zero.
	Capacity int

	// MaxDepth defaults to DefaultMaxDepth when zero.
	MaxDepth int

	// Logger defaults to the logrus standard logger.
	Logger log.FieldLogger
}

// HitTest decides whether Traverse descends into a node with the given
// boundary.
type HitTest func(boundary Rect) bool

// Stats is a snapshot of the tree shape and its counters.
type Stats struct {
	Points       int
	Nodes        int
	Leaves       int
	Depth        int
	Subdivisions int
	Dropped      int
}

// Tree is a point quadtree over a fixed boundary. It is not safe for
// concurrent use.
type Tree struct {
	root *node

	capacity int
	maxDepth int
	log      log.FieldLogger

	count        int
	subdivisions int
	dropped      int
}

// NewTree returns an empty tree over boundary with the default config.
func NewTree(boundary Rect) (*Tree, error) {
	return New(Config{Boundary: boundary})
}

// New returns an empty tree configured by cfg.
func New(cfg Config) (*Tree, error) {
	if !cfg.Boundary.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBoundary, cfg.Boundary)
	}
	if cfg.Capacity < 0 {
		return nil, fmt.Errorf("%w: capacity %d", ErrInvalidConfig, cfg.Capacity)
	}
	if cfg.MaxDepth < 0 {
		return nil, fmt.Errorf("%w: max depth %d", ErrInvalidConfig, cfg.MaxDepth)
	}

	t := &Tree{
		root:     newNode(cfg.Boundary, 0),
		capacity: cfg.Capacity,
		maxDepth: cfg.MaxDepth,
		log:      cfg.Logger,
	}
	if t.capacity == 0 {
		t.capacity = NodeCapacity
	}
	if t.maxDepth == 0 {
		t.maxDepth = DefaultMaxDepth
	}
	if t.log == nil {
		t.log = log.StandardLogger()
	}

	return t, nil
}

// Boundary returns the root boundary. It is the zero Rect once the tree is
// destroyed.
func (t *Tree) Boundary() Rect {
	if t.root == nil {
		return Rect{}
	}
	return t.root.boundary
}

// Len returns the number of points stored in the tree.
func (t *Tree) Len() int {
	return t.count
}

// Insert adds p to the tree. It returns false when p lies outside the root
// boundary or the tree has been destroyed.
func (t *Tree) Insert(p Point) bool {
	if t.root == nil {
		return false
	}
	if !t.insert(t.root, p) {
		return false
	}
	t.count++
	return true
}

func (t *Tree) insert(n *node, p Point) bool {
	if !n.boundary.Contains(p) {
		return false
	}

	if n.isLeaf() {
		if len(n.points) < t.capacity || n.depth >= t.maxDepth {
			n.points = append(n.points, p)
			return true
		}
		t.subdivide(n)
	}

	return t.insertIntoQuadrants(n, p)
}

// insertIntoQuadrants tries the children of n in quadrant order. Points on a
// shared edge land in the first quadrant that contains them.
func (t *Tree) insertIntoQuadrants(n *node, p Point) bool {
	for _, c := range n.quadrants {
		if t.insert(c, p) {
			return true
		}
	}
	return false
}

func (t *Tree) subdivide(n *node) {
	bounds := n.boundary.Quadrants()

	n.quadrants = &[4]*node{}
	for q := range bounds {
		n.quadrants[q] = newNode(bounds[q], n.depth+1)
	}
	t.subdivisions++

	t.log.WithFields(log.Fields{
		"boundary": n.boundary.String(),
		"depth":    n.depth,
	}).Debug("quadtree: subdivided node")

	points := n.points
	n.points = nil

	for _, p := range points {
		if t.insertIntoQuadrants(n, p) {
			continue
		}
		t.dropped++
		t.count--
		t.log.WithFields(log.Fields{
			"point":    p.String(),
			"boundary": n.boundary.String(),
			"depth":    n.depth,
		}).Warn("quadtree: point fits no quadrant, dropped")
	}
}

// Query returns every stored point that r contains. Points held by a node come
// in insertion order, followed by the points of its quadrants in quadrant
// order.
func (t *Tree) Query(r Rect) []Point {
	if t.root == nil {
		return nil
	}
	return t.queryNode(t.root, r)
}

func (t *Tree) queryNode(n *node, r Rect) (hits []Point) {
	if !n.boundary.Intersects(r) {
		return
	}

	for _, p := range n.points {
		if r.Contains(p) {
			hits = append(hits, p)
		}
	}

	if n.isLeaf() {
		return
	}

	for _, c := range n.quadrants {
		hits = append(hits, t.queryNode(c, r)...)
	}

	return
}

// Traverse descends every node whose boundary passes test and returns all
// points held by the visited nodes, unfiltered. Callers run their own precise
// check on the result.
func (t *Tree) Traverse(test HitTest) []Point {
	if t.root == nil {
		return nil
	}
	return t.traverseNode(t.root, test)
}

func (t *Tree) traverseNode(cur *node, test HitTest) (hits []Point) {
	if !test(cur.boundary) {
		return
	}

	hits = append(hits, cur.points...)

	if cur.isLeaf() {
		return
	}

	for _, c := range cur.quadrants {
		hits = append(hits, t.traverseNode(c, test)...)
	}

	return
}

// Stats walks the tree and reports its shape and counters.
func (t *Tree) Stats() Stats {
	s := Stats{
		Points:       t.count,
		Subdivisions: t.subdivisions,
		Dropped:      t.dropped,
	}
	if t.root != nil {
		t.statNode(t.root, &s)
	}
	return s
}

func (t *Tree) statNode(n *node, s *Stats) {
	s.Nodes++
	if n.depth > s.Depth {
		s.Depth = n.depth
	}
	if n.isLeaf() {
		s.Leaves++
		return
	}
	for _, c := range n.quadrants {
		t.statNode(c, s)
	}
}

// Destroy releases every node in one pass. Calling it again does nothing.
// A destroyed tree rejects inserts and answers every query with nil.
func (t *Tree) Destroy() {
	if t.root == nil {
		return
	}
	t.root.release()
	t.root = nil
	t.count = 0
}

func (t *Tree) isValidLeaf(n *node) bool {
	return n.isLeaf() && (len(n.points) <= t.capacity || n.depth >= t.maxDepth)
}

func (t *Tree) isValidInternal(n *node) bool {
	if n.isLeaf() || len(n.points) != 0 || n.depth >= t.maxDepth {
		return false
	}
	for _, c := range n.quadrants {
		if c == nil || c.depth != n.depth+1 {
			return false
		}
	}
	return true
}

// isValidBranch checks the leaf/internal invariant for n and every node below
// it.
func (t *Tree) isValidBranch(n *node) bool {
	if n.isLeaf() {
		return t.isValidLeaf(n)
	}
	if !t.isValidInternal(n) {
		return false
	}
	for _, c := range n.quadrants {
		if !t.isValidBranch(c) {
			return false
		}
	}
	return true
}
