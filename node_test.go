package quadtree

import (
	"math"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNode(t *testing.T) {
	n := newNode(screen, 3)

	assert.True(t, n.isLeaf())
	assert.Empty(t, n.points)
	assert.Equal(t, screen, n.boundary)
	assert.Equal(t, 3, n.depth)
}

func TestSubdivideDropsUnplaceable(t *testing.T) {
	logger, hook := test.NewNullLogger()

	// New refuses this boundary; its center is NaN so no quadrant can hold
	// anything.
	inf := math.Inf(1)
	qt := &Tree{
		root:     newNode(Rect{Point{-inf, -inf}, Point{inf, inf}}, 0),
		capacity: NodeCapacity,
		maxDepth: DefaultMaxDepth,
		log:      logger,
	}

	insertAll(t, qt, corners[:NodeCapacity]...)
	require.Equal(t, NodeCapacity, qt.Len())

	assert.False(t, qt.Insert(corners[NodeCapacity]))

	s := qt.Stats()
	assert.Equal(t, NodeCapacity, s.Dropped)
	assert.Equal(t, 0, s.Points)
	assert.Equal(t, 0, qt.Len())
	assert.Empty(t, qt.Query(qt.Boundary()))

	entries := hook.AllEntries()
	require.Len(t, entries, NodeCapacity)
	for i, e := range entries {
		assert.Equal(t, log.WarnLevel, e.Level)
		assert.Equal(t, corners[i].String(), e.Data["point"])
	}
}

func TestRelease(t *testing.T) {
	qt := newScreenTree(t)
	insertAll(t, qt, corners...)

	var nodes []*node
	var collect func(n *node)
	collect = func(n *node) {
		nodes = append(nodes, n)
		if !n.isLeaf() {
			for _, c := range n.quadrants {
				collect(c)
			}
		}
	}
	collect(qt.root)
	require.Len(t, nodes, 5)

	qt.root.release()

	for _, n := range nodes {
		assert.True(t, n.isLeaf())
		assert.Nil(t, n.points)
	}
}
