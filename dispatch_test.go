package razed

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandQueue_DropsOnOverflow(t *testing.T) {
	queue := NewCommandQueue(2, nil)

	queue.Push(DrawCommand{Count: 6})
	queue.Push(DrawCommand{Count: 6})
	queue.Push(DrawCommand{Count: 6})
	assert.Len(t, queue.Commands(), 2)

	// Clear reports the drop and restores capacity
	queue.Clear()
	assert.Empty(t, queue.Commands())
	queue.Push(DrawCommand{Count: 6})
	assert.Len(t, queue.Commands(), 1)
}

func TestFrameBatches_RigidCommandPerEntity(t *testing.T) {
	scene, _ := testScene(t)
	scene.CreateEntity(0, mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	scene.CreateEntity(0, mgl32.Vec3{5, 0, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})

	frame := &FrameData{Scene: scene.Tables()}
	queue := NewCommandQueue(16, nil)

	batches := FrameBatches(frame, MeshMetadata{}, queue)
	require.Len(t, batches, 1)
	assert.Equal(t, PassRigid, batches[0].Kind)

	cmds := batches[0].Commands
	require.Len(t, cmds, 2)
	for row, cmd := range cmds {
		assert.Equal(t, uint32(6), cmd.Count)
		assert.Equal(t, uint32(1), cmd.InstanceCount)
		assert.Equal(t, uint32(row), cmd.BaseInstance)
	}
}

func TestFrameBatches_SkinnedAndDebugOnlyWhenPopulated(t *testing.T) {
	scene, _ := testScene(t)
	queue := NewCommandQueue(16, nil)

	frame := &FrameData{Scene: scene.Tables()}
	frame.Fragments.Parents = [][4]uint32{{}}
	frame.Fragments.Weights = [][4]float32{{1, 0, 0, 0}}
	frame.Fragments.RestOffsets = []mgl32.Vec4{{0, 0, 0, 1}}
	frame.Edges = []ConstraintEdge{{Nodes: [2]uint32{0, 1}}, {Nodes: [2]uint32{1, 2}}}

	fragMesh := MeshMetadata{Offset: 6, Length: 36}
	batches := FrameBatches(frame, fragMesh, queue)
	require.Len(t, batches, 3)

	skinned := batches[1]
	assert.Equal(t, PassSkinned, skinned.Kind)
	require.Len(t, skinned.Commands, 1)
	assert.Equal(t, DrawCommand{Count: 36, InstanceCount: 1, FirstVertex: 6}, skinned.Commands[0])

	debug := batches[2]
	assert.Equal(t, PassDebugLines, debug.Kind)
	require.Len(t, debug.Commands, 1)
	assert.Equal(t, DrawCommand{Count: 2, InstanceCount: 2}, debug.Commands[0])
}

func TestResolveRigidVertex_DrawOrdinalSelectsEntity(t *testing.T) {
	scene, meshes := testScene(t)
	scene.CreateEntity(0, mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	idx := scene.CreateEntity(0, mgl32.Vec3{0, 10, 0}, mgl32.QuatIdent(), mgl32.Vec3{2, 2, 2})

	tables := scene.Tables()
	// vertex 3 of the axis mesh is the +Y tip
	world, _ := ResolveRigidVertex(meshes, &tables, idx, 3)
	assert.InDelta(t, 0.0, float64(world.X()), 1e-6)
	assert.InDelta(t, 12.0, float64(world.Y()), 1e-6)
	assert.InDelta(t, 0.0, float64(world.Z()), 1e-6)
}

func TestAxisColor_PairsCycleThroughAxes(t *testing.T) {
	red := AxisColor(0)
	assert.Equal(t, red, AxisColor(1))

	green := AxisColor(2)
	assert.Equal(t, green, AxisColor(3))
	assert.NotEqual(t, red, green)

	blue := AxisColor(4)
	assert.Equal(t, blue, AxisColor(5))
	assert.NotEqual(t, red, blue)
	assert.NotEqual(t, green, blue)

	assert.Equal(t, red, AxisColor(6))
}
