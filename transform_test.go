package razed

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestIdentityPose_IsNoOp(t *testing.T) {
	p := IdentityPose()
	v := mgl32.Vec3{1, -2, 3}
	assert.Equal(t, v, p.TransformPoint(v))
	assert.Equal(t, v, p.TransformNormal(v))
}

func TestRigidPose_ScaleThenRotateThenTranslate(t *testing.T) {
	p := RigidPose{
		Position: mgl32.Vec3{10, 0, 0},
		Rotation: mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}),
		Scale:    mgl32.Vec3{2, 1, 1},
	}

	// (1,0,0) scales to (2,0,0), rotates to (0,2,0), translates to (10,2,0)
	world := p.TransformPoint(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 10.0, float64(world.X()), 1e-5)
	assert.InDelta(t, 2.0, float64(world.Y()), 1e-5)
	assert.InDelta(t, 0.0, float64(world.Z()), 1e-5)
}

func TestRigidPose_NormalIgnoresScaleAndTranslation(t *testing.T) {
	p := RigidPose{
		Position: mgl32.Vec3{5, 5, 5},
		Rotation: mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}),
		Scale:    mgl32.Vec3{10, 10, 10},
	}

	n := p.TransformNormal(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 0.0, float64(n.X()), 1e-5)
	assert.InDelta(t, 0.0, float64(n.Y()), 1e-5)
	assert.InDelta(t, -1.0, float64(n.Z()), 1e-5)
	assert.InDelta(t, 1.0, float64(n.Len()), 1e-5)
}
