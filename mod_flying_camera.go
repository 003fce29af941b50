package razed

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// flyState holds the camera's flight parameters between frames. Yaw and
// pitch are degrees.
type flyState struct {
	Speed       float32
	Sensitivity float32
	Yaw         float32
	Pitch       float32
}

// FlyingCameraModule steers the Camera resource: WASD plus space and
// control to move, arrow keys to look.
type FlyingCameraModule struct {
	Speed       float32
	Sensitivity float32
}

func (m FlyingCameraModule) Install(app *App) {
	state := &flyState{
		Speed:       m.Speed,
		Sensitivity: m.Sensitivity,
		Yaw:         -135,
		Pitch:       -20,
	}
	if state.Speed == 0 {
		state.Speed = 8
	}
	if state.Sensitivity == 0 {
		state.Sensitivity = 90
	}
	app.AddResources(state)
	app.UseSystem(System(flyCamera).InStage(Update))
}

func flyCamera(input *Input, camera *Camera, state *flyState, time *Time) {
	dt := time.Seconds()
	if dt <= 0 {
		return
	}

	if input.Pressed[KeyLeft] {
		state.Yaw -= state.Sensitivity * dt
	}
	if input.Pressed[KeyRight] {
		state.Yaw += state.Sensitivity * dt
	}
	if input.Pressed[KeyUp] {
		state.Pitch += state.Sensitivity * dt
	}
	if input.Pressed[KeyDown] {
		state.Pitch -= state.Sensitivity * dt
	}
	state.Pitch = mgl32.Clamp(state.Pitch, -89, 89)

	yawRad := mgl32.DegToRad(state.Yaw)
	pitchRad := mgl32.DegToRad(state.Pitch)

	forward := mgl32.Vec3{
		float32(math.Sin(float64(yawRad)) * math.Cos(float64(pitchRad))),
		float32(math.Sin(float64(pitchRad))),
		float32(-math.Cos(float64(yawRad)) * math.Cos(float64(pitchRad))),
	}.Normalize()
	right := forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	up := mgl32.Vec3{0, 1, 0}

	move := mgl32.Vec3{}
	if input.Pressed[KeyW] {
		move = move.Add(forward)
	}
	if input.Pressed[KeyS] {
		move = move.Sub(forward)
	}
	if input.Pressed[KeyA] {
		move = move.Sub(right)
	}
	if input.Pressed[KeyD] {
		move = move.Add(right)
	}
	if input.Pressed[KeySpace] {
		move = move.Add(up)
	}
	if input.Pressed[KeyControl] {
		move = move.Sub(up)
	}
	if move.Len() > 0 {
		camera.Position = camera.Position.Add(move.Normalize().Mul(state.Speed * dt))
	}

	camera.LookAt = camera.Position.Add(forward)
	camera.Up = up
}
