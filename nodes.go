package razed

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// NodeGraph holds the node and link tables the debug and skinning passes
// read: per-node current positions (vec3 padded to vec4) and the edges
// between them. The simulation that moves the nodes lives outside; it writes
// positions here between frames and the graph republishes maps and pose
// arrays. Topology edits go through this type so dependent records are
// always dropped together with the ids they reference.
type NodeGraph struct {
	nodes *Column[mgl32.Vec4]
	links *Column[ConstraintEdge]

	// links broken since the last DrainBroken, in break order
	broken []BrokenLink
}

// BrokenLink records a removed link together with the endpoints it had, so
// dependents can react after the constraint row itself is gone.
type BrokenLink struct {
	Id   uint32
	Edge ConstraintEdge
}

func NewNodeGraph(capacity int) *NodeGraph {
	return &NodeGraph{
		nodes: NewColumn[mgl32.Vec4](capacity),
		links: NewColumn[ConstraintEdge](capacity),
	}
}

// AddNode registers a node at its rest position and returns its logical id.
func (g *NodeGraph) AddNode(p mgl32.Vec3) uint32 {
	return g.nodes.Put(mgl32.Vec4{p.X(), p.Y(), p.Z(), 1})
}

// Link connects two nodes. Both ids must be live; linking a released node is
// a caller bug, caught here at edit time so resolvers never have to check.
func (g *NodeGraph) Link(a, b uint32) uint32 {
	if _, ok := g.nodes.Lookup(a); !ok {
		panic(fmt.Sprintf("razed: link references dead node id %d", a))
	}
	if _, ok := g.nodes.Lookup(b); !ok {
		panic(fmt.Sprintf("razed: link references dead node id %d", b))
	}
	return g.links.Put(ConstraintEdge{Nodes: [2]uint32{a, b}})
}

// BreakLink removes a link and remembers it so dependents (fragments keyed
// on the constraint graph) can react once per frame.
func (g *NodeGraph) BreakLink(id uint32) {
	row, ok := g.links.Lookup(id)
	if !ok {
		return
	}
	edge := g.links.Rows()[row]
	g.links.Remove(id)
	g.broken = append(g.broken, BrokenLink{Id: id, Edge: edge})
}

// RemoveNode releases a node and, in the same update, every link that still
// references it. Published tables therefore never carry an edge whose
// endpoint has no storage.
func (g *NodeGraph) RemoveNode(id uint32) {
	for _, linkId := range g.linksOf(id) {
		g.BreakLink(linkId)
	}
	g.nodes.Remove(id)
}

func (g *NodeGraph) linksOf(node uint32) []uint32 {
	var ids []uint32
	owners := g.links.Owners()
	for row, edge := range g.links.Rows() {
		if edge.Nodes[0] == node || edge.Nodes[1] == node {
			ids = append(ids, owners[row])
		}
	}
	return ids
}

// DrainBroken returns the links broken since the previous call and resets
// the list.
func (g *NodeGraph) DrainBroken() []BrokenLink {
	broken := g.broken
	g.broken = nil
	return broken
}

// SetNodePosition writes a node's current position. The w channel is left
// untouched.
func (g *NodeGraph) SetNodePosition(id uint32, p mgl32.Vec3) {
	v := g.nodes.At(id)
	v[0], v[1], v[2] = p.X(), p.Y(), p.Z()
}

func (g *NodeGraph) NodePosition(id uint32) mgl32.Vec3 {
	v := g.nodes.At(id)
	return mgl32.Vec3{v[0], v[1], v[2]}
}

// NodeMap is the node indirection map: logical node id -> pose row.
func (g *NodeGraph) NodeMap() []uint32 {
	return g.nodes.IndexMap()
}

// NodePositions is the dense per-frame node pose array.
func (g *NodeGraph) NodePositions() []mgl32.Vec4 {
	return g.nodes.Rows()
}

// NodeOwners maps pose rows back to logical node ids.
func (g *NodeGraph) NodeOwners() []uint32 {
	return g.nodes.Owners()
}

// Edges is the dense constraint table, one row per live link.
func (g *NodeGraph) Edges() []ConstraintEdge {
	return g.links.Rows()
}

// LinkRow resolves a link id to its current constraint-table row. The row is
// what the selection slot carries, since the debug pass addresses rows, not
// ids.
func (g *NodeGraph) LinkRow(id uint32) (uint32, bool) {
	return g.links.Lookup(id)
}

// LinkOwners maps constraint-table rows back to link ids.
func (g *NodeGraph) LinkOwners() []uint32 {
	return g.links.Owners()
}

func (g *NodeGraph) NodeCount() int {
	return g.nodes.Len()
}

func (g *NodeGraph) LinkCount() int {
	return g.links.Len()
}
