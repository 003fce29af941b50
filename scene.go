package razed

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Entity is one drawable row of the entity table. MeshIndex addresses the
// dense mesh metadata table; the three ids are logical handles resolved
// through their indirection maps at draw time. Field order is part of the
// GPU buffer contract.
type Entity struct {
	MeshIndex  uint32
	PositionID uint32
	RotationID uint32
	ScaleID    uint32
}

// SceneTables is the per-frame view of everything the rigid entity pass
// reads: the entity table, the mesh ranges, the three indirection maps and
// the three pose arrays. Resolvers treat every slice as read-only for the
// duration of the frame.
type SceneTables struct {
	Entities  []Entity
	MeshTable []MeshMetadata

	PositionMap []uint32
	RotationMap []uint32
	ScaleMap    []uint32

	Positions []mgl32.Vec4
	Rotations []mgl32.Quat
	Scales    []mgl32.Vec4
}

// Scene owns the entity table and the pose columns behind it. It is the
// scene-management side of the contract: all topology edits (create, remove,
// disable) happen here, atomically with the handle bookkeeping, so resolvers
// never observe a dangling id.
type Scene struct {
	meshes   *MeshStore
	entities []Entity

	positions *Column[mgl32.Vec4]
	rotations *Column[mgl32.Quat]
	scales    *Column[mgl32.Vec4]
}

func NewScene(meshes *MeshStore, capacity int) *Scene {
	return &Scene{
		meshes:    meshes,
		entities:  make([]Entity, 0, capacity),
		positions: NewColumn[mgl32.Vec4](capacity),
		rotations: NewColumn[mgl32.Quat](capacity),
		scales:    NewColumn[mgl32.Vec4](capacity),
	}
}

// CreateEntity allocates pose storage and appends an entity row. The row
// index doubles as the draw ordinal of the rigid pass. Position w starts at
// 1; the w channel is the live flag.
func (s *Scene) CreateEntity(mesh MeshId, position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) uint32 {
	posId := s.positions.Put(mgl32.Vec4{position.X(), position.Y(), position.Z(), 1})
	rotId := s.rotations.Put(rotation)
	scaleId := s.scales.Put(mgl32.Vec4{scale.X(), scale.Y(), scale.Z(), 1})

	index := uint32(len(s.entities))
	s.entities = append(s.entities, Entity{
		MeshIndex:  uint32(mesh),
		PositionID: posId,
		RotationID: rotId,
		ScaleID:    scaleId,
	})
	return index
}

// RemoveEntity drops an entity row and releases its pose handles in the same
// topology update, so no published table ever carries an id without storage.
// The last row is swapped into the hole; draw ordinals are not stable across
// removals, logical ids are.
func (s *Scene) RemoveEntity(index uint32) {
	e := s.entities[index]
	s.positions.Remove(e.PositionID)
	s.rotations.Remove(e.RotationID)
	s.scales.Remove(e.ScaleID)

	last := len(s.entities) - 1
	s.entities[index] = s.entities[last]
	s.entities = s.entities[:last]
}

// SetEntityLive flips the live flag (position w). Dead entities keep their
// rows and handles but collapse to nothing in the vertex stage.
func (s *Scene) SetEntityLive(index uint32, live bool) {
	e := s.entities[index]
	pos := s.positions.At(e.PositionID)
	if live {
		pos[3] = 1
	} else {
		pos[3] = 0
	}
}

// SetPoseLive flips the live flag on a position handle directly, for
// callers that track pose ids rather than entity rows.
func (s *Scene) SetPoseLive(positionId uint32, live bool) {
	pos := s.positions.At(positionId)
	if live {
		pos[3] = 1
	} else {
		pos[3] = 0
	}
}

// SetPosition writes a pose position by logical id. The animation side uses
// these setters between frames; within a frame the published tables are
// frozen.
func (s *Scene) SetPosition(id uint32, p mgl32.Vec3) {
	v := s.positions.At(id)
	v[0], v[1], v[2] = p.X(), p.Y(), p.Z()
}

func (s *Scene) SetRotation(id uint32, q mgl32.Quat) {
	*s.rotations.At(id) = q
}

func (s *Scene) SetScale(id uint32, sc mgl32.Vec3) {
	v := s.scales.At(id)
	v[0], v[1], v[2] = sc.X(), sc.Y(), sc.Z()
}

func (s *Scene) Entity(index uint32) Entity {
	return s.entities[index]
}

func (s *Scene) EntityCount() int {
	return len(s.entities)
}

// Tables assembles the frame view over the scene's current storage. The
// returned slices alias live storage: the producer must finish all edits
// before handing the view to resolvers, and resume editing only after the
// frame is done (one barrier per frame, no finer synchronization).
func (s *Scene) Tables() SceneTables {
	return SceneTables{
		Entities:    s.entities,
		MeshTable:   s.meshes.MetadataTable(),
		PositionMap: s.positions.IndexMap(),
		RotationMap: s.rotations.IndexMap(),
		ScaleMap:    s.scales.IndexMap(),
		Positions:   s.positions.Rows(),
		Rotations:   s.rotations.Rows(),
		Scales:      s.scales.Rows(),
	}
}
