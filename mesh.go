package razed

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type AssetId string

type MeshId uint32

// Vertex is one sample of a mesh in the layout the shaders consume:
// xyz position and xyz normal, both padded to vec4. The w components are
// ignored on read.
type Vertex struct {
	Position [4]float32
	Normal   [4]float32
}

// MeshMetadata is the contiguous vertex range of one mesh id inside the
// shared vertex pool.
type MeshMetadata struct {
	Offset uint32
	Length uint32
}

// MeshStore owns the flat vertex pool and the dense mesh metadata table.
// Mesh ids are dense from 0 in staging order; the store is immutable once
// scene building starts, so both tables can be uploaded once and addressed
// by every pass for the rest of the run.
type MeshStore struct {
	vertices []Vertex
	meta     []MeshMetadata
	byAsset  map[AssetId]MeshId
	assets   []AssetId
}

func NewMeshStore(vertexCapacity int) *MeshStore {
	return &MeshStore{
		vertices: make([]Vertex, 0, vertexCapacity),
		byAsset:  map[AssetId]MeshId{},
	}
}

// Stage appends a mesh to the vertex pool and returns its dense mesh id.
// A fresh asset id is minted so collaborators can refer to the mesh by name
// before entity tables are built.
func (s *MeshStore) Stage(vertices []Vertex) MeshId {
	id := MeshId(len(s.meta))
	s.meta = append(s.meta, MeshMetadata{
		Offset: uint32(len(s.vertices)),
		Length: uint32(len(vertices)),
	})
	s.vertices = append(s.vertices, vertices...)

	assetId := AssetId(uuid.NewString())
	s.byAsset[assetId] = id
	s.assets = append(s.assets, assetId)
	return id
}

// MeshByAsset resolves a staged asset id back to its dense mesh id.
func (s *MeshStore) MeshByAsset(id AssetId) (MeshId, bool) {
	meshId, ok := s.byAsset[id]
	return meshId, ok
}

// AssetOf returns the asset id minted when the mesh was staged.
func (s *MeshStore) AssetOf(id MeshId) AssetId {
	return s.assets[id]
}

func (s *MeshStore) MetadataOf(id MeshId) MeshMetadata {
	return s.meta[id]
}

// VertexAt reads one vertex from the pool by global index. Stored normals
// may be non-unit after import or interpolation, so the normal is
// renormalized on read. Indexing past the pool is a caller contract
// violation; bounds are enforced by the dispatch layer issuing exactly
// Length vertices per mesh, not here.
func (s *MeshStore) VertexAt(global uint32) Vertex {
	v := s.vertices[global]
	n := mgl32.Vec3{v.Normal[0], v.Normal[1], v.Normal[2]}
	if l := n.Len(); l > 0 {
		n = n.Mul(1 / l)
	}
	v.Normal = [4]float32{n.X(), n.Y(), n.Z(), v.Normal[3]}
	return v
}

func (s *MeshStore) Vertices() []Vertex {
	return s.vertices
}

// MetadataTable is the dense mesh metadata table, indexed by mesh id.
func (s *MeshStore) MetadataTable() []MeshMetadata {
	return s.meta
}

func (s *MeshStore) VertexCount() int {
	return len(s.vertices)
}

func (s *MeshStore) MeshCount() int {
	return len(s.meta)
}

// CubeVertices builds a triangle-list cube of the given half extent,
// centered on the origin.
func CubeVertices(half float32) []Vertex {
	h := half
	type face struct {
		n          mgl32.Vec3
		a, b, c, d mgl32.Vec3
	}
	faces := []face{
		{n: mgl32.Vec3{0, 0, 1}, a: mgl32.Vec3{-h, -h, h}, b: mgl32.Vec3{h, -h, h}, c: mgl32.Vec3{h, h, h}, d: mgl32.Vec3{-h, h, h}},
		{n: mgl32.Vec3{0, 0, -1}, a: mgl32.Vec3{h, -h, -h}, b: mgl32.Vec3{-h, -h, -h}, c: mgl32.Vec3{-h, h, -h}, d: mgl32.Vec3{h, h, -h}},
		{n: mgl32.Vec3{1, 0, 0}, a: mgl32.Vec3{h, -h, h}, b: mgl32.Vec3{h, -h, -h}, c: mgl32.Vec3{h, h, -h}, d: mgl32.Vec3{h, h, h}},
		{n: mgl32.Vec3{-1, 0, 0}, a: mgl32.Vec3{-h, -h, -h}, b: mgl32.Vec3{-h, -h, h}, c: mgl32.Vec3{-h, h, h}, d: mgl32.Vec3{-h, h, -h}},
		{n: mgl32.Vec3{0, 1, 0}, a: mgl32.Vec3{-h, h, h}, b: mgl32.Vec3{h, h, h}, c: mgl32.Vec3{h, h, -h}, d: mgl32.Vec3{-h, h, -h}},
		{n: mgl32.Vec3{0, -1, 0}, a: mgl32.Vec3{-h, -h, -h}, b: mgl32.Vec3{h, -h, -h}, c: mgl32.Vec3{h, -h, h}, d: mgl32.Vec3{-h, -h, h}},
	}

	verts := make([]Vertex, 0, 36)
	for _, f := range faces {
		quad := [6]mgl32.Vec3{f.a, f.b, f.c, f.a, f.c, f.d}
		for _, p := range quad {
			verts = append(verts, Vertex{
				Position: [4]float32{p.X(), p.Y(), p.Z(), 1},
				Normal:   [4]float32{f.n.X(), f.n.Y(), f.n.Z(), 0},
			})
		}
	}
	return verts
}

// DebugAxisVertices is the reference debug shape: three line segments from
// the origin along +X, +Y and +Z, drawn in axis color pairs. It doubles as
// the addressing fixture: ordinal v of mesh 0 must come back as exactly
// these local coordinates.
func DebugAxisVertices() []Vertex {
	axis := func(x, y, z float32) [4]float32 {
		return [4]float32{x, y, z, 0}
	}
	return []Vertex{
		{Position: [4]float32{0, 0, 0, 1}, Normal: axis(1, 0, 0)},
		{Position: [4]float32{1, 0, 0, 1}, Normal: axis(1, 0, 0)},
		{Position: [4]float32{0, 0, 0, 1}, Normal: axis(0, 1, 0)},
		{Position: [4]float32{0, 1, 0, 1}, Normal: axis(0, 1, 0)},
		{Position: [4]float32{0, 0, 0, 1}, Normal: axis(0, 0, 1)},
		{Position: [4]float32{0, 0, 1, 1}, Normal: axis(0, 0, 1)},
	}
}
