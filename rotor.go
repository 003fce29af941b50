package razed

import (
	"github.com/go-gl/mathgl/mgl32"
)

// RotorSystem estimates a rotor per node from the constraint graph alone.
// Nodes are point masses with no orientation of their own, so the rotation
// of the rigid neighborhood around a node is reconstructed by comparing the
// rest direction of each incident edge with its current direction: every
// edge contributes the arc between the two, and the contributions are
// accumulated into one quaternion per node.
//
// The accumulation is a plain component-wise sum seeded with identity, with
// a hemisphere sign flip (negate a contribution whose dot with the running
// sum is negative). The sum is published unnormalized; consumers normalize
// after weight-blending. This matches the reference output and must not be
// replaced with a spherical blend.
type RotorSystem struct {
	rest   map[uint32]mgl32.Vec3 // link id -> rest direction, first -> second node
	rotors []mgl32.Quat          // parallel to the graph's node pose rows
}

func NewRotorSystem() *RotorSystem {
	return &RotorSystem{
		rest: map[uint32]mgl32.Vec3{},
	}
}

// CaptureRest snapshots the current edge directions as the rest layout.
// Call it once the graph topology is in its authored state; links created
// later are captured lazily on their first Recompute.
func (r *RotorSystem) CaptureRest(g *NodeGraph) {
	owners := g.LinkOwners()
	for row := range g.Edges() {
		r.captureLink(g, owners[row])
	}
}

func (r *RotorSystem) captureLink(g *NodeGraph, id uint32) mgl32.Vec3 {
	row, _ := g.LinkRow(id)
	edge := g.Edges()[row]
	dir := g.NodePosition(edge.Nodes[1]).Sub(g.NodePosition(edge.Nodes[0])).Normalize()
	r.rest[id] = dir
	return dir
}

// ForgetLinks drops the rest entries of broken links.
func (r *RotorSystem) ForgetLinks(broken []BrokenLink) {
	for _, b := range broken {
		delete(r.rest, b.Id)
	}
}

// Recompute rebuilds the per-node rotor array from the graph's current
// positions. The result is parallel to NodePositions; nodes without any
// incident edge keep the identity rotor.
func (r *RotorSystem) Recompute(g *NodeGraph) {
	count := g.NodeCount()
	if cap(r.rotors) < count {
		r.rotors = make([]mgl32.Quat, count)
	}
	r.rotors = r.rotors[:count]
	for i := range r.rotors {
		r.rotors[i] = mgl32.QuatIdent()
	}

	nodeMap := g.NodeMap()
	owners := g.LinkOwners()
	for row, edge := range g.Edges() {
		id := owners[row]
		rest, ok := r.rest[id]
		if !ok {
			rest = r.captureLink(g, id)
		}

		a, b := edge.Nodes[0], edge.Nodes[1]
		cur := g.NodePosition(b).Sub(g.NodePosition(a)).Normalize()

		accumulate(&r.rotors[nodeMap[a]], mgl32.QuatBetweenVectors(rest, cur))
		accumulate(&r.rotors[nodeMap[b]], mgl32.QuatBetweenVectors(rest.Mul(-1), cur.Mul(-1)))
	}
}

func accumulate(q *mgl32.Quat, arc mgl32.Quat) {
	if q.Dot(arc) < 0 {
		arc = arc.Scale(-1)
	}
	*q = q.Add(arc)
}

// Rotors is the dense per-frame rotor array, parallel to the graph's node
// pose rows. Entries are intentionally unnormalized sums.
func (r *RotorSystem) Rotors() []mgl32.Quat {
	return r.rotors
}
