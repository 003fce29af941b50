package razed

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/colornames"
)

// ConstraintEdge is one debug line segment: two logical node ids into the
// node indirection map.
type ConstraintEdge struct {
	Nodes [2]uint32
}

// Selection is the process-wide highlighted constraint row, written by an
// external picking collaborator and read-only during a frame. It addresses
// constraint-table rows, not link ids, because that is what the instance
// ordinal of the debug pass counts in.
type Selection uint32

const NoSelection = Selection(^uint32(0))

func (s Selection) Matches(row uint32) bool {
	return uint32(s) == row
}

// NodeTables is the per-frame view shared by the debug and skinning passes:
// the node indirection map plus the dense position and rotor arrays, all
// parallel.
type NodeTables struct {
	NodeMap   []uint32
	Positions []mgl32.Vec4
	Rotors    []mgl32.Quat
}

func (t *NodeTables) nodePosition(id uint32) mgl32.Vec3 {
	p := t.Positions[t.NodeMap[id]]
	return mgl32.Vec3{p.X(), p.Y(), p.Z()}
}

var (
	edgeColor     = rgba(colornames.Silver, 0.35)
	edgeHighlight = rgba(colornames.Orange, 1.0)
)

func rgba(c color.RGBA, alpha float32) mgl32.Vec4 {
	return mgl32.Vec4{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		alpha,
	}
}

// EdgeColor picks the line color for one constraint row: exactly the
// selected row gets the highlight, everything else the default.
func EdgeColor(row uint32, selected Selection) mgl32.Vec4 {
	if selected.Matches(row) {
		return edgeHighlight
	}
	return edgeColor
}

// ResolveEdgeVertex is the per-instance addressing of the debug pass: the
// instance ordinal selects the constraint row and the vertex ordinal (0 or
// 1) selects the endpoint, resolved through the node indirection map.
func ResolveEdgeVertex(nodes *NodeTables, edges []ConstraintEdge, instance, vertex uint32) mgl32.Vec3 {
	return nodes.nodePosition(edges[instance].Nodes[vertex])
}

// PickEdge finds the link whose segment passes within radius of the ray,
// closest along the ray. It is the helper behind the picking collaborator
// that owns the selection signal; returns the link id, not the row.
func PickEdge(g *NodeGraph, origin, dir mgl32.Vec3, radius float32) (uint32, bool) {
	owners := g.LinkOwners()
	nodeMap := g.NodeMap()
	positions := g.NodePositions()

	best := float32(0)
	bestId := uint32(0)
	found := false

	for row, edge := range g.Edges() {
		pa := positions[nodeMap[edge.Nodes[0]]]
		pb := positions[nodeMap[edge.Nodes[1]]]
		a := mgl32.Vec3{pa.X(), pa.Y(), pa.Z()}
		b := mgl32.Vec3{pb.X(), pb.Y(), pb.Z()}

		t, dist := raySegmentDistance(origin, dir, a, b)
		if t < 0 || dist > radius {
			continue
		}
		if found && t > best {
			continue
		}
		best = t
		bestId = owners[row]
		found = true
	}
	return bestId, found
}

// raySegmentDistance returns the ray parameter of the closest approach
// between ray origin+t*dir (t >= 0) and segment [a, b], and the distance at
// that point.
func raySegmentDistance(origin, dir, a, b mgl32.Vec3) (float32, float32) {
	seg := b.Sub(a)
	w := a.Sub(origin)

	dd := dir.Dot(dir)
	ds := dir.Dot(seg)
	ss := seg.Dot(seg)
	dw := dir.Dot(w)
	sw := seg.Dot(w)

	denom := dd*ss - ds*ds

	var u float32 // segment parameter, clamped to [0, 1]
	if denom > 1e-12 {
		u = (dd*sw - ds*dw) / denom
		u = mgl32.Clamp(u, 0, 1)
	}

	var t float32
	if dd > 0 {
		t = (dw + u*ds) / dd
	}
	if t < 0 {
		return -1, 0
	}

	onRay := origin.Add(dir.Mul(t))
	onSeg := a.Add(seg.Mul(u))
	return t, onRay.Sub(onSeg).Len()
}
