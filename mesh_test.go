package razed

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeshStore_StageAssignsContiguousRanges(t *testing.T) {
	store := NewMeshStore(64)

	first := store.Stage(DebugAxisVertices())
	second := store.Stage(CubeVertices(0.5))

	assert.Equal(t, MeshId(0), first)
	assert.Equal(t, MeshId(1), second)

	m0 := store.MetadataOf(first)
	m1 := store.MetadataOf(second)
	assert.Equal(t, uint32(0), m0.Offset)
	assert.Equal(t, uint32(6), m0.Length)
	assert.Equal(t, uint32(6), m1.Offset)
	assert.Equal(t, uint32(36), m1.Length)
	assert.Equal(t, 42, store.VertexCount())
	assert.Equal(t, 2, store.MeshCount())
}

func TestMeshStore_AssetRoundTrip(t *testing.T) {
	store := NewMeshStore(16)
	id := store.Stage(DebugAxisVertices())

	asset := store.AssetOf(id)
	require.NotEmpty(t, asset)

	back, ok := store.MeshByAsset(asset)
	require.True(t, ok)
	assert.Equal(t, id, back)

	_, ok = store.MeshByAsset(AssetId("missing"))
	assert.False(t, ok)
}

func TestMeshStore_VertexAtRenormalizesNormal(t *testing.T) {
	store := NewMeshStore(4)
	store.Stage([]Vertex{
		{Position: [4]float32{1, 2, 3, 1}, Normal: [4]float32{0, 3, 0, 0}},
	})

	v := store.VertexAt(0)
	assert.Equal(t, [4]float32{1, 2, 3, 1}, v.Position)
	assert.InDelta(t, 1.0, float64(v.Normal[1]), 1e-6)
}

func TestDebugAxisVertices_Fixture(t *testing.T) {
	verts := DebugAxisVertices()
	require.Len(t, verts, 6)

	// odd ordinals are the axis tips, even ordinals the origin
	assert.Equal(t, [4]float32{1, 0, 0, 1}, verts[1].Position)
	assert.Equal(t, [4]float32{0, 1, 0, 1}, verts[3].Position)
	assert.Equal(t, [4]float32{0, 0, 1, 1}, verts[5].Position)
	for i := 0; i < 6; i += 2 {
		assert.Equal(t, [4]float32{0, 0, 0, 1}, verts[i].Position)
	}
}

func TestCubeVertices_UnitNormalsAndExtent(t *testing.T) {
	verts := CubeVertices(0.25)
	require.Len(t, verts, 36)

	for _, v := range verts {
		n := mgl32.Vec3{v.Normal[0], v.Normal[1], v.Normal[2]}
		assert.InDelta(t, 1.0, float64(n.Len()), 1e-6)
		for axis := 0; axis < 3; axis++ {
			assert.LessOrEqual(t, float64(v.Position[axis]), 0.25)
			assert.GreaterOrEqual(t, float64(v.Position[axis]), -0.25)
		}
	}
}
