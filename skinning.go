package razed

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Fragment is one rigid sub-part of a skinned structure: up to four parent
// nodes with blend weights, plus the fragment's base placement in the rest
// layout. RestOffset w is the live flag, 1 while the fragment is attached.
// A weight of 0 marks an unused slot; nonzero weights must sum to 1, since
// the position blend does not renormalize.
type Fragment struct {
	Parents    [4]uint32
	Weights    [4]float32
	RestOffset mgl32.Vec4
}

// FragmentTables is the per-frame view of the skinned pass, split into the
// buffer layout the shaders bind: parents, weights and rest offsets as
// separate parallel arrays.
type FragmentTables struct {
	Parents     [][4]uint32
	Weights     [][4]float32
	RestOffsets []mgl32.Vec4
}

// FragmentTable owns the fragment rows and their live state. Like the other
// tables it is edited only between frames.
type FragmentTable struct {
	frags *Column[Fragment]

	// rows disabled since the last DrainDisabled
	disabled []uint32
}

func NewFragmentTable(capacity int) *FragmentTable {
	return &FragmentTable{
		frags: NewColumn[Fragment](capacity),
	}
}

func (t *FragmentTable) Add(f Fragment) uint32 {
	if f.RestOffset[3] == 0 {
		f.RestOffset[3] = 1
	}
	return t.frags.Put(f)
}

func (t *FragmentTable) Fragment(id uint32) Fragment {
	return *t.frags.At(id)
}

func (t *FragmentTable) Len() int {
	return t.frags.Len()
}

// Validate enforces the skinning preconditions at edit time: every nonzero
// weight resolves to a live node, at least one weight per fragment is
// nonzero, and the weights sum to ~1 so the unrenormalized position blend
// cannot drift.
func (t *FragmentTable) Validate(g *NodeGraph) error {
	const tolerance = 1e-3

	for row, f := range t.frags.Rows() {
		var sum float32
		for i := 0; i < 4; i++ {
			w := f.Weights[i]
			if w == 0 {
				continue
			}
			if _, ok := g.nodes.Lookup(f.Parents[i]); !ok {
				return fmt.Errorf("fragment row %d: parent slot %d references dead node id %d", row, i, f.Parents[i])
			}
			sum += w
		}
		if sum == 0 {
			return fmt.Errorf("fragment row %d: all weights are zero", row)
		}
		if sum < 1-tolerance || sum > 1+tolerance {
			return fmt.Errorf("fragment row %d: weights sum to %v, want 1", row, sum)
		}
	}
	return nil
}

// HandleBrokenLinks detaches every fragment whose dominant parent was an
// endpoint of a broken link. Detached rows keep their storage but their
// live flag drops to 0, and the rows are queued for DrainDisabled.
func (t *FragmentTable) HandleBrokenLinks(broken []BrokenLink) {
	if len(broken) == 0 {
		return
	}

	hit := map[uint32]struct{}{}
	for _, b := range broken {
		hit[b.Edge.Nodes[0]] = struct{}{}
		hit[b.Edge.Nodes[1]] = struct{}{}
	}

	for row := range t.frags.Rows() {
		f := &t.frags.Rows()[row]
		if f.RestOffset[3] == 0 {
			continue
		}
		if _, ok := hit[dominantParent(f)]; !ok {
			continue
		}
		f.RestOffset[3] = 0
		t.disabled = append(t.disabled, uint32(row))
	}
}

func dominantParent(f *Fragment) uint32 {
	best := 0
	for i := 1; i < 4; i++ {
		if f.Weights[i] > f.Weights[best] {
			best = i
		}
	}
	return f.Parents[best]
}

// DrainDisabled returns the rows disabled since the previous call and
// resets the list.
func (t *FragmentTable) DrainDisabled() []uint32 {
	disabled := t.disabled
	t.disabled = nil
	return disabled
}

// Tables splits the fragment rows into the parallel arrays of the binding
// contract. The arrays are rebuilt per publish; rows keep their order.
func (t *FragmentTable) Tables() FragmentTables {
	rows := t.frags.Rows()
	out := FragmentTables{
		Parents:     make([][4]uint32, len(rows)),
		Weights:     make([][4]float32, len(rows)),
		RestOffsets: make([]mgl32.Vec4, len(rows)),
	}
	for i, f := range rows {
		out.Parents[i] = f.Parents
		out.Weights[i] = f.Weights
		out.RestOffsets[i] = f.RestOffset
	}
	return out
}

// BlendRotor composes the bone rotors of one fragment: component-wise
// weighted sum, then one normalization. Linear blending is the intended
// approximation: it distorts at large relative bone angles and must not be
// upgraded to a spherical blend, or output stops matching the reference.
// An all-zero weighted sum degenerates to the identity rotor instead of
// propagating NaN.
func BlendRotor(nodes *NodeTables, parents [4]uint32, weights [4]float32) mgl32.Quat {
	var sum mgl32.Quat
	for i := 0; i < 4; i++ {
		w := weights[i]
		if w == 0 {
			continue
		}
		sum = sum.Add(nodes.Rotors[nodes.NodeMap[parents[i]]].Scale(w))
	}
	if sum.Len() < 1e-8 {
		return mgl32.QuatIdent()
	}
	return sum.Normalize()
}

// BlendBase is the weighted sum of the parent node positions. Weights are
// not renormalized here: the table guarantees they sum to 1.
func BlendBase(nodes *NodeTables, parents [4]uint32, weights [4]float32) mgl32.Vec3 {
	var sum mgl32.Vec3
	for i := 0; i < 4; i++ {
		w := weights[i]
		if w == 0 {
			continue
		}
		p := nodes.Positions[nodes.NodeMap[parents[i]]]
		sum = sum.Add(mgl32.Vec3{p.X(), p.Y(), p.Z()}.Mul(w))
	}
	return sum
}

// ResolveFragmentVertex runs the full skinned path for one local vertex of
// one fragment instance: indirection chase, rotor blend, position blend,
// then world = base + rotate(local) + rest offset. The normal is rotated
// translation-free.
func ResolveFragmentVertex(nodes *NodeTables, frags *FragmentTables, instance uint32, local Vertex) (mgl32.Vec3, mgl32.Vec3) {
	parents := frags.Parents[instance]
	weights := frags.Weights[instance]

	rotor := BlendRotor(nodes, parents, weights)
	base := BlendBase(nodes, parents, weights)
	offset := frags.RestOffsets[instance]

	localPos := mgl32.Vec3{local.Position[0], local.Position[1], local.Position[2]}
	localNormal := mgl32.Vec3{local.Normal[0], local.Normal[1], local.Normal[2]}

	world := base.Add(rotor.Rotate(localPos)).Add(mgl32.Vec3{offset.X(), offset.Y(), offset.Z()})
	return world, rotor.Rotate(localNormal)
}
