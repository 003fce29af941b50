package razed

import (
	"github.com/go-gl/mathgl/mgl32"
)

// RigidPose is one resolved (position, rotation, scale) triple. Rotations
// are rotors: unit quaternions, pre-normalized by whoever produced the pose
// buffer.
type RigidPose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func IdentityPose() RigidPose {
	return RigidPose{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// PoseOf chases the three indirection maps of an entity and gathers its
// current pose from the POD arrays. Ids must be live; validating them is a
// table-edit concern, not a per-vertex one.
func (t *SceneTables) PoseOf(e Entity) RigidPose {
	p := t.Positions[t.PositionMap[e.PositionID]]
	q := t.Rotations[t.RotationMap[e.RotationID]]
	s := t.Scales[t.ScaleMap[e.ScaleID]]
	return RigidPose{
		Position: mgl32.Vec3{p.X(), p.Y(), p.Z()},
		Rotation: q,
		Scale:    mgl32.Vec3{s.X(), s.Y(), s.Z()},
	}
}

// TransformPoint maps a local-space vertex to world space:
// world = rotate(v * scale, q) + position.
func (p RigidPose) TransformPoint(v mgl32.Vec3) mgl32.Vec3 {
	scaled := mgl32.Vec3{
		v.X() * p.Scale.X(),
		v.Y() * p.Scale.Y(),
		v.Z() * p.Scale.Z(),
	}
	return p.Rotation.Rotate(scaled).Add(p.Position)
}

// TransformNormal rotates a direction without translating or scaling it.
func (p RigidPose) TransformNormal(n mgl32.Vec3) mgl32.Vec3 {
	return p.Rotation.Rotate(n)
}
