package razed

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScene(t *testing.T) (*Scene, *MeshStore) {
	t.Helper()
	meshes := NewMeshStore(64)
	meshes.Stage(DebugAxisVertices())
	return NewScene(meshes, 16), meshes
}

func TestScene_CreateEntityStartsLive(t *testing.T) {
	scene, _ := testScene(t)

	idx := scene.CreateEntity(0, mgl32.Vec3{1, 2, 3}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	tables := scene.Tables()

	e := tables.Entities[idx]
	pos := tables.Positions[tables.PositionMap[e.PositionID]]
	assert.Equal(t, mgl32.Vec4{1, 2, 3, 1}, pos)
}

func TestScene_ResolveVertexThroughIndirection(t *testing.T) {
	scene, _ := testScene(t)

	idx := scene.CreateEntity(0, mgl32.Vec3{11, 0, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	tables := scene.Tables()

	// local +X tip of the axis mesh lands at 11 + 1 on the x axis
	pose := tables.PoseOf(tables.Entities[idx])
	world := pose.TransformPoint(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 12.0, float64(world.X()), 1e-6)
	assert.InDelta(t, 0.0, float64(world.Y()), 1e-6)
	assert.InDelta(t, 0.0, float64(world.Z()), 1e-6)
}

func TestScene_RemoveEntityCompactsAndKeepsHandlesValid(t *testing.T) {
	scene, _ := testScene(t)

	scene.CreateEntity(0, mgl32.Vec3{1, 0, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	scene.CreateEntity(0, mgl32.Vec3{2, 0, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	scene.CreateEntity(0, mgl32.Vec3{3, 0, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})

	scene.RemoveEntity(0)
	require.Equal(t, 2, scene.EntityCount())

	// the survivors still resolve to their own poses through the maps
	tables := scene.Tables()
	seen := map[float32]bool{}
	for _, e := range tables.Entities {
		p := tables.Positions[tables.PositionMap[e.PositionID]]
		seen[p.X()] = true
	}
	assert.True(t, seen[2])
	assert.True(t, seen[3])
	assert.False(t, seen[1])
}

func TestScene_SettersWriteThroughLogicalIds(t *testing.T) {
	scene, _ := testScene(t)

	idx := scene.CreateEntity(0, mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	e := scene.Entity(idx)

	scene.SetPosition(e.PositionID, mgl32.Vec3{5, 6, 7})
	scene.SetRotation(e.RotationID, mgl32.QuatRotate(1, mgl32.Vec3{0, 1, 0}))
	scene.SetScale(e.ScaleID, mgl32.Vec3{2, 2, 2})

	tables := scene.Tables()
	pose := tables.PoseOf(tables.Entities[idx])
	assert.Equal(t, mgl32.Vec3{5, 6, 7}, pose.Position)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, pose.Scale)
}

func TestScene_LiveFlagOnPositionW(t *testing.T) {
	scene, _ := testScene(t)

	idx := scene.CreateEntity(0, mgl32.Vec3{1, 1, 1}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})

	scene.SetEntityLive(idx, false)
	tables := scene.Tables()
	e := tables.Entities[idx]
	assert.Equal(t, float32(0), tables.Positions[tables.PositionMap[e.PositionID]].W())

	// position xyz survives the flag flip
	assert.Equal(t, float32(1), tables.Positions[tables.PositionMap[e.PositionID]].X())

	scene.SetEntityLive(idx, true)
	tables = scene.Tables()
	assert.Equal(t, float32(1), tables.Positions[tables.PositionMap[e.PositionID]].W())
}

func TestScene_SetPoseLiveByHandle(t *testing.T) {
	scene, _ := testScene(t)

	idx := scene.CreateEntity(0, mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	e := scene.Entity(idx)

	scene.SetPoseLive(e.PositionID, false)
	tables := scene.Tables()
	assert.Equal(t, float32(0), tables.Positions[tables.PositionMap[e.PositionID]].W())
}
