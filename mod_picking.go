package razed

import (
	"github.com/go-gl/mathgl/mgl32"
)

const pickRadius = 0.05

// pickState remembers the selection as a link id. The published selection
// is a constraint row, which moves under compaction; re-deriving it from
// the id every update keeps the highlight on the same link.
type pickState struct {
	linkId uint32
	picked bool
}

// PickingModule turns mouse clicks into the selection signal: a ray
// through the cursor is tested against the constraint segments and the
// closest hit becomes the highlighted row.
type PickingModule struct{}

func (mod PickingModule) Install(app *App) {
	app.AddResources(&pickState{})
	app.UseSystem(System(pickConstraint).InStage(Update))
	app.UseSystem(System(refreshSelection).InStage(PostUpdate))
}

func pickConstraint(input *Input, camera *Camera, graph *NodeGraph, state *pickState) {
	if !input.JustPressed[MouseButtonLeft] {
		return
	}
	if input.WindowWidth == 0 || input.WindowHeight == 0 {
		return
	}

	origin, dir := mouseRay(input, camera)
	id, ok := PickEdge(graph, origin, dir, pickRadius)
	state.linkId = id
	state.picked = ok
}

func refreshSelection(graph *NodeGraph, state *pickState, selected *Selection) {
	if !state.picked {
		*selected = NoSelection
		return
	}
	row, ok := graph.LinkRow(state.linkId)
	if !ok {
		state.picked = false
		*selected = NoSelection
		return
	}
	*selected = Selection(row)
}

// mouseRay unprojects the cursor through the camera: near and far points
// in NDC back to world space.
func mouseRay(input *Input, camera *Camera) (mgl32.Vec3, mgl32.Vec3) {
	x := 2*float32(input.MouseX)/float32(input.WindowWidth) - 1
	y := 1 - 2*float32(input.MouseY)/float32(input.WindowHeight)

	inv := buildCameraMatrix(camera).Inv()
	near := inv.Mul4x1(mgl32.Vec4{x, y, -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{x, y, 1, 1})
	nearW := near.Vec3().Mul(1 / near.W())
	farW := far.Vec3().Mul(1 / far.W())

	return camera.Position, farW.Sub(nearW).Normalize()
}
