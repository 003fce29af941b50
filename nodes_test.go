package razed

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeGraph_LinkRequiresLiveNodes(t *testing.T) {
	g := NewNodeGraph(8)
	a := g.AddNode(mgl32.Vec3{0, 0, 0})
	b := g.AddNode(mgl32.Vec3{1, 0, 0})

	g.Link(a, b)
	assert.Equal(t, 1, g.LinkCount())

	g.RemoveNode(b)
	assert.Panics(t, func() { g.Link(a, b) })
}

func TestNodeGraph_BreakLinkRecordsEndpoints(t *testing.T) {
	g := NewNodeGraph(8)
	a := g.AddNode(mgl32.Vec3{0, 0, 0})
	b := g.AddNode(mgl32.Vec3{1, 0, 0})
	id := g.Link(a, b)

	g.BreakLink(id)
	assert.Equal(t, 0, g.LinkCount())

	broken := g.DrainBroken()
	require.Len(t, broken, 1)
	assert.Equal(t, id, broken[0].Id)
	assert.Equal(t, [2]uint32{a, b}, broken[0].Edge.Nodes)

	// a second drain comes back empty, a second break is a no-op
	assert.Empty(t, g.DrainBroken())
	g.BreakLink(id)
	assert.Empty(t, g.DrainBroken())
}

func TestNodeGraph_RemoveNodeBreaksDependentLinks(t *testing.T) {
	g := NewNodeGraph(8)
	a := g.AddNode(mgl32.Vec3{0, 0, 0})
	b := g.AddNode(mgl32.Vec3{1, 0, 0})
	c := g.AddNode(mgl32.Vec3{0, 1, 0})

	ab := g.Link(a, b)
	g.Link(a, c)
	bc := g.Link(b, c)

	g.RemoveNode(a)
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.LinkCount())

	broken := g.DrainBroken()
	require.Len(t, broken, 2)
	ids := []uint32{broken[0].Id, broken[1].Id}
	assert.Contains(t, ids, ab)
	assert.NotContains(t, ids, bc)

	// no surviving edge references the removed node
	for _, edge := range g.Edges() {
		assert.NotEqual(t, a, edge.Nodes[0])
		assert.NotEqual(t, a, edge.Nodes[1])
	}
}

func TestNodeGraph_PositionsSurviveCompaction(t *testing.T) {
	g := NewNodeGraph(8)
	a := g.AddNode(mgl32.Vec3{1, 0, 0})
	b := g.AddNode(mgl32.Vec3{2, 0, 0})
	c := g.AddNode(mgl32.Vec3{3, 0, 0})

	g.RemoveNode(a)

	assert.Equal(t, mgl32.Vec3{2, 0, 0}, g.NodePosition(b))
	assert.Equal(t, mgl32.Vec3{3, 0, 0}, g.NodePosition(c))

	g.SetNodePosition(c, mgl32.Vec3{3, 9, 0})
	assert.Equal(t, mgl32.Vec3{3, 9, 0}, g.NodePosition(c))

	// the indirection map and owners stay parallel to the dense rows
	owners := g.NodeOwners()
	positions := g.NodePositions()
	nodeMap := g.NodeMap()
	require.Len(t, positions, 2)
	for row, id := range owners {
		assert.Equal(t, uint32(row), nodeMap[id])
	}
}
