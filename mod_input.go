package razed

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyW int = iota
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyR
	KeySpace
	KeyEnter
	KeyEscape
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyShift
	KeyControl
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
	keyCount
)

var keyToGlfw = map[int]glfw.Key{
	KeyW:       glfw.KeyW,
	KeyA:       glfw.KeyA,
	KeyS:       glfw.KeyS,
	KeyD:       glfw.KeyD,
	KeyQ:       glfw.KeyQ,
	KeyE:       glfw.KeyE,
	KeyR:       glfw.KeyR,
	KeySpace:   glfw.KeySpace,
	KeyEnter:   glfw.KeyEnter,
	KeyEscape:  glfw.KeyEscape,
	KeyLeft:    glfw.KeyLeft,
	KeyRight:   glfw.KeyRight,
	KeyUp:      glfw.KeyUp,
	KeyDown:    glfw.KeyDown,
	KeyShift:   glfw.KeyLeftShift,
	KeyControl: glfw.KeyLeftControl,
}

type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseX, MouseY            float64
	WindowWidth, WindowHeight int
}

type InputModule struct{}

func (mod InputModule) Install(app *App) {
	app.AddResources(&Input{})
	app.UseSystem(System(readInput).InStage(PreUpdate))
}

// readInput samples keyboard and mouse state. Event polling already
// happened in the Prelude stage.
func readInput(s *WindowState, input *Input) {
	for key, glfwKey := range keyToGlfw {
		action := s.windowGlfw.GetKey(glfwKey)
		updateKey(input, key, action == glfw.Press)
	}

	input.MouseX, input.MouseY = s.windowGlfw.GetCursorPos()
	input.WindowWidth, input.WindowHeight = s.windowGlfw.GetSize()

	buttons := map[int]glfw.MouseButton{
		MouseButtonLeft:   glfw.MouseButtonLeft,
		MouseButtonRight:  glfw.MouseButtonRight,
		MouseButtonMiddle: glfw.MouseButtonMiddle,
	}
	for btn, glfwBtn := range buttons {
		action := s.windowGlfw.GetMouseButton(glfwBtn)
		updateKey(input, btn, action == glfw.Press)
	}
}

func updateKey(input *Input, key int, down bool) {
	input.JustPressed[key] = down && !input.Pressed[key]
	input.JustReleased[key] = !down && input.Pressed[key]
	input.Pressed[key] = down
}
