package razed

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotorSystem_RestLayoutYieldsIdentitySums(t *testing.T) {
	g := NewNodeGraph(8)
	a := g.AddNode(mgl32.Vec3{0, 0, 0})
	b := g.AddNode(mgl32.Vec3{1, 0, 0})
	g.Link(a, b)

	r := NewRotorSystem()
	r.CaptureRest(g)
	r.Recompute(g)

	rotors := r.Rotors()
	require.Len(t, rotors, 2)

	// unmoved graph: every edge contributes the identity arc on top of the
	// identity seed, so the unnormalized sum normalizes back to identity
	for _, q := range rotors {
		n := q.Normalize()
		assert.InDelta(t, 1.0, float64(n.W), 1e-5)
	}
}

func TestRotorSystem_SingleEdgeRotationRecovered(t *testing.T) {
	g := NewNodeGraph(8)
	pivot := g.AddNode(mgl32.Vec3{0, 0, 0})
	arm := g.AddNode(mgl32.Vec3{1, 0, 0})
	g.Link(pivot, arm)

	r := NewRotorSystem()
	r.CaptureRest(g)

	// swing the arm 90 degrees around Z
	g.SetNodePosition(arm, mgl32.Vec3{0, 1, 0})
	r.Recompute(g)

	row := g.NodeMap()[pivot]
	rotor := r.Rotors()[row].Normalize()

	got := rotor.Rotate(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 0.0, float64(got.X()), 1e-4)
	assert.InDelta(t, 1.0, float64(got.Y()), 1e-4)
	assert.InDelta(t, 0.0, float64(got.Z()), 1e-4)
}

func TestRotorSystem_PublishesUnnormalizedSums(t *testing.T) {
	g := NewNodeGraph(8)
	center := g.AddNode(mgl32.Vec3{0, 0, 0})
	g.Link(center, g.AddNode(mgl32.Vec3{1, 0, 0}))
	g.Link(center, g.AddNode(mgl32.Vec3{0, 0, 1}))

	r := NewRotorSystem()
	r.CaptureRest(g)
	r.Recompute(g)

	// identity seed plus two identity arcs: length 3, not 1
	sum := r.Rotors()[g.NodeMap()[center]]
	assert.InDelta(t, 3.0, float64(sum.Len()), 1e-4)
}

func TestRotorSystem_LateLinksCapturedLazily(t *testing.T) {
	g := NewNodeGraph(8)
	a := g.AddNode(mgl32.Vec3{0, 0, 0})
	b := g.AddNode(mgl32.Vec3{1, 0, 0})

	r := NewRotorSystem()
	r.CaptureRest(g)

	// link created after the snapshot: its first Recompute adopts the
	// current direction as rest, so it contributes no rotation
	g.Link(a, b)
	r.Recompute(g)

	q := r.Rotors()[g.NodeMap()[a]].Normalize()
	assert.InDelta(t, 1.0, float64(q.W), 1e-5)
}

func TestRotorSystem_ForgetLinksDropsRestState(t *testing.T) {
	g := NewNodeGraph(8)
	a := g.AddNode(mgl32.Vec3{0, 0, 0})
	b := g.AddNode(mgl32.Vec3{1, 0, 0})
	id := g.Link(a, b)

	r := NewRotorSystem()
	r.CaptureRest(g)

	g.BreakLink(id)
	r.ForgetLinks(g.DrainBroken())
	r.Recompute(g)

	// no edges left: both nodes fall back to the identity seed
	for _, q := range r.Rotors() {
		assert.Equal(t, mgl32.QuatIdent(), q)
	}
}
