package razed

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/razed3d/razed/shaders"
)

const (
	vertexStride   = 32 // two vec4s
	entityStride   = 16 // four u32s
	meshMetaStride = 8  // offset + length
	mapStride      = 4
	vec4Stride     = 16
	edgeStride     = 8
)

type Camera struct {
	Position mgl32.Vec3
	LookAt   mgl32.Vec3
	Up       mgl32.Vec3
	Fov      float32
	Aspect   float32
	Near     float32
	Far      float32
}

func buildCameraMatrix(c *Camera) mgl32.Mat4 {
	view := mgl32.LookAtV(c.Position, c.LookAt, c.Up)
	projection := mgl32.Perspective(c.Fov, c.Aspect, c.Near, c.Far)
	return projection.Mul4(view)
}

// FragmentMesh names the staged mesh the skinned pass instances per
// fragment row.
type FragmentMesh struct {
	Mesh MeshId
}

type cameraUniform struct {
	ViewProj mgl32.Mat4
}

type debugParamsUniform struct {
	Selected uint32
	Pad0     uint32
	Pad1     uint32
	Pad2     uint32
}

type renderState struct {
	entityPipeline   *wgpu.RenderPipeline
	fragmentPipeline *wgpu.RenderPipeline
	debugPipeline    *wgpu.RenderPipeline

	cameraBuffer     *wgpu.Buffer
	vertexPoolBuffer *wgpu.Buffer

	entityBuffer      *wgpu.Buffer
	meshTableBuffer   *wgpu.Buffer
	positionMapBuffer *wgpu.Buffer
	rotationMapBuffer *wgpu.Buffer
	scaleMapBuffer    *wgpu.Buffer
	positionsBuffer   *wgpu.Buffer
	rotationsBuffer   *wgpu.Buffer
	scalesBuffer      *wgpu.Buffer

	nodeMapBuffer     *wgpu.Buffer
	nodePosBuffer     *wgpu.Buffer
	nodeRotorBuffer   *wgpu.Buffer
	fragParentsBuffer *wgpu.Buffer
	fragWeightsBuffer *wgpu.Buffer
	fragOffsetsBuffer *wgpu.Buffer

	edgesBuffer       *wgpu.Buffer
	debugParamsBuffer *wgpu.Buffer

	sceneBindGroup    *wgpu.BindGroup
	sharedBindGroup   *wgpu.BindGroup
	fragmentBindGroup *wgpu.BindGroup
	debugBindGroup    *wgpu.BindGroup
	debugCameraGroup  *wgpu.BindGroup

	commands         *CommandQueue
	uploadedVertices int
}

// RenderModule opens the window, builds the three pass pipelines and the
// fixed buffer set of the binding contract, and installs the per-frame
// upload and draw system.
type RenderModule struct{}

func (mod RenderModule) Install(app *App) {
	cfg, ok := Resource[Config](app)
	if !ok {
		def := DefaultConfig()
		cfg = &def
	}

	window := createWindowState(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	gpu := createGpuState(window)
	state := createRenderState(cfg, gpu, app.Logger())
	camera := &Camera{
		Position: mgl32.Vec3{8, 6, 8},
		LookAt:   mgl32.Vec3{0, 2, 0},
		Up:       mgl32.Vec3{0, 1, 0},
		Fov:      mgl32.DegToRad(60),
		Aspect:   float32(cfg.Window.Width) / float32(cfg.Window.Height),
		Near:     0.1,
		Far:      500,
	}

	app.AddResources(window, gpu, state, camera, &FragmentMesh{})

	app.UseSystem(System(pollWindowEvents).InStage(Prelude))
	app.UseSystem(System(renderFrame).InStage(Render))
}

func createRenderState(cfg *Config, gpu *GpuState, log Logger) *renderState {
	s := &renderState{
		entityPipeline:   createPipeline("entity", shaders.EntityWGSL, wgpu.PrimitiveTopologyLineList, gpu),
		fragmentPipeline: createPipeline("fragment", shaders.FragmentWGSL, wgpu.PrimitiveTopologyTriangleList, gpu),
		debugPipeline:    createPipeline("debug_lines", shaders.DebugLinesWGSL, wgpu.PrimitiveTopologyLineList, gpu),
		commands:         NewCommandQueue(cfg.Limits.Commands, log),
	}

	lim := cfg.Limits
	storage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
	uniform := wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst

	s.cameraBuffer = createBuffer("camera", cameraUniform{ViewProj: mgl32.Ident4()}, gpu, uniform)
	s.vertexPoolBuffer = createEmptyBuffer("vertexPool", uint64(lim.Vertices*vertexStride), gpu, storage)

	s.entityBuffer = createEmptyBuffer("entities", uint64(lim.Entities*entityStride), gpu, storage)
	s.meshTableBuffer = createEmptyBuffer("meshTable", uint64(lim.Meshes*meshMetaStride), gpu, storage)
	s.positionMapBuffer = createEmptyBuffer("positionMap", uint64(lim.Entities*mapStride), gpu, storage)
	s.rotationMapBuffer = createEmptyBuffer("rotationMap", uint64(lim.Entities*mapStride), gpu, storage)
	s.scaleMapBuffer = createEmptyBuffer("scaleMap", uint64(lim.Entities*mapStride), gpu, storage)
	s.positionsBuffer = createEmptyBuffer("positions", uint64(lim.Entities*vec4Stride), gpu, storage)
	s.rotationsBuffer = createEmptyBuffer("rotations", uint64(lim.Entities*vec4Stride), gpu, storage)
	s.scalesBuffer = createEmptyBuffer("scales", uint64(lim.Entities*vec4Stride), gpu, storage)

	s.nodeMapBuffer = createEmptyBuffer("nodeMap", uint64(lim.Nodes*mapStride), gpu, storage)
	s.nodePosBuffer = createEmptyBuffer("nodePositions", uint64(lim.Nodes*vec4Stride), gpu, storage)
	s.nodeRotorBuffer = createEmptyBuffer("nodeRotors", uint64(lim.Nodes*vec4Stride), gpu, storage)
	s.fragParentsBuffer = createEmptyBuffer("fragParents", uint64(lim.Fragments*vec4Stride), gpu, storage)
	s.fragWeightsBuffer = createEmptyBuffer("fragWeights", uint64(lim.Fragments*vec4Stride), gpu, storage)
	s.fragOffsetsBuffer = createEmptyBuffer("fragRestOffsets", uint64(lim.Fragments*vec4Stride), gpu, storage)

	s.edgesBuffer = createEmptyBuffer("edges", uint64(lim.Links*edgeStride), gpu, storage)
	s.debugParamsBuffer = createBuffer("debugParams", debugParamsUniform{Selected: uint32(NoSelection)}, gpu, uniform)

	s.sceneBindGroup = createBindGroup(gpu, s.entityPipeline, 0, []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: s.entityBuffer, Size: wgpu.WholeSize},
		{Binding: 1, Buffer: s.meshTableBuffer, Size: wgpu.WholeSize},
		{Binding: 2, Buffer: s.positionMapBuffer, Size: wgpu.WholeSize},
		{Binding: 3, Buffer: s.rotationMapBuffer, Size: wgpu.WholeSize},
		{Binding: 4, Buffer: s.scaleMapBuffer, Size: wgpu.WholeSize},
		{Binding: 5, Buffer: s.positionsBuffer, Size: wgpu.WholeSize},
		{Binding: 6, Buffer: s.rotationsBuffer, Size: wgpu.WholeSize},
		{Binding: 7, Buffer: s.scalesBuffer, Size: wgpu.WholeSize},
	})
	s.sharedBindGroup = createBindGroup(gpu, s.entityPipeline, 1, []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: s.cameraBuffer, Size: wgpu.WholeSize},
		{Binding: 1, Buffer: s.vertexPoolBuffer, Size: wgpu.WholeSize},
	})
	s.fragmentBindGroup = createBindGroup(gpu, s.fragmentPipeline, 0, []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: s.nodeMapBuffer, Size: wgpu.WholeSize},
		{Binding: 1, Buffer: s.nodePosBuffer, Size: wgpu.WholeSize},
		{Binding: 2, Buffer: s.nodeRotorBuffer, Size: wgpu.WholeSize},
		{Binding: 3, Buffer: s.fragParentsBuffer, Size: wgpu.WholeSize},
		{Binding: 4, Buffer: s.fragWeightsBuffer, Size: wgpu.WholeSize},
		{Binding: 5, Buffer: s.fragOffsetsBuffer, Size: wgpu.WholeSize},
	})
	s.debugBindGroup = createBindGroup(gpu, s.debugPipeline, 0, []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: s.nodeMapBuffer, Size: wgpu.WholeSize},
		{Binding: 1, Buffer: s.nodePosBuffer, Size: wgpu.WholeSize},
		{Binding: 2, Buffer: s.edgesBuffer, Size: wgpu.WholeSize},
		{Binding: 3, Buffer: s.debugParamsBuffer, Size: wgpu.WholeSize},
	})
	s.debugCameraGroup = createBindGroup(gpu, s.debugPipeline, 1, []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: s.cameraBuffer, Size: wgpu.WholeSize},
	})

	return s
}

func createBindGroup(gpu *GpuState, pipeline *wgpu.RenderPipeline, group uint32, entries []wgpu.BindGroupEntry) *wgpu.BindGroup {
	layout := pipeline.GetBindGroupLayout(group)
	defer layout.Release()

	bindGroup, err := gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		panic(err)
	}
	return bindGroup
}

func pollWindowEvents(window *WindowState, app *App) {
	glfw.PollEvents()
	if window.ShouldClose() {
		app.Exit()
	}
}

func uploadTable(gpu *GpuState, buffer *wgpu.Buffer, data any) {
	raw := toBufferBytes(data)
	if len(raw) == 0 {
		return
	}
	if err := gpu.queue.WriteBuffer(buffer, 0, raw); err != nil {
		panic(err)
	}
}

// renderFrame acquires the newest published frame, blits every table into
// its buffer and walks the dispatch batches. Everything after Acquire
// reads the frame's section only; the producer keeps filling the other
// sections in the meantime.
func renderFrame(gpu *GpuState, state *renderState, meshes *MeshStore, boundary *FrameBoundary, fragMesh *FragmentMesh, camera *Camera) {
	if n := meshes.VertexCount(); n != state.uploadedVertices {
		uploadTable(gpu, state.vertexPoolBuffer, meshes.Vertices())
		state.uploadedVertices = n
	}

	frame := boundary.Acquire()

	uploadTable(gpu, state.entityBuffer, frame.Scene.Entities)
	uploadTable(gpu, state.meshTableBuffer, frame.Scene.MeshTable)
	uploadTable(gpu, state.positionMapBuffer, frame.Scene.PositionMap)
	uploadTable(gpu, state.rotationMapBuffer, frame.Scene.RotationMap)
	uploadTable(gpu, state.scaleMapBuffer, frame.Scene.ScaleMap)
	uploadTable(gpu, state.positionsBuffer, frame.Scene.Positions)
	uploadTable(gpu, state.rotationsBuffer, frame.Scene.Rotations)
	uploadTable(gpu, state.scalesBuffer, frame.Scene.Scales)

	uploadTable(gpu, state.nodeMapBuffer, frame.Nodes.NodeMap)
	uploadTable(gpu, state.nodePosBuffer, frame.Nodes.Positions)
	uploadTable(gpu, state.nodeRotorBuffer, frame.Nodes.Rotors)
	uploadTable(gpu, state.fragParentsBuffer, frame.Fragments.Parents)
	uploadTable(gpu, state.fragWeightsBuffer, frame.Fragments.Weights)
	uploadTable(gpu, state.fragOffsetsBuffer, frame.Fragments.RestOffsets)

	uploadTable(gpu, state.edgesBuffer, frame.Edges)
	uploadTable(gpu, state.debugParamsBuffer, debugParamsUniform{Selected: uint32(frame.Selected)})
	uploadTable(gpu, state.cameraBuffer, cameraUniform{ViewProj: buildCameraMatrix(camera)})

	var fragMeta MeshMetadata
	if int(fragMesh.Mesh) < meshes.MeshCount() {
		fragMeta = meshes.MetadataOf(fragMesh.Mesh)
	}
	batches := FrameBatches(frame, fragMeta, state.commands)

	nextTexture, err := gpu.surface.GetCurrentTexture()
	if err != nil {
		panic(err)
	}
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}
	defer view.Release()

	encoder, err := gpu.device.CreateCommandEncoder(nil)
	if err != nil {
		panic(err)
	}
	defer encoder.Release()

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0},
			},
		},
	})
	defer renderPass.Release()

	for _, batch := range batches {
		switch batch.Kind {
		case PassRigid:
			renderPass.SetPipeline(state.entityPipeline)
			renderPass.SetBindGroup(0, state.sceneBindGroup, nil)
			renderPass.SetBindGroup(1, state.sharedBindGroup, nil)
		case PassSkinned:
			renderPass.SetPipeline(state.fragmentPipeline)
			renderPass.SetBindGroup(0, state.fragmentBindGroup, nil)
			renderPass.SetBindGroup(1, state.sharedBindGroup, nil)
		case PassDebugLines:
			renderPass.SetPipeline(state.debugPipeline)
			renderPass.SetBindGroup(0, state.debugBindGroup, nil)
			renderPass.SetBindGroup(1, state.debugCameraGroup, nil)
		}
		for _, cmd := range batch.Commands {
			renderPass.Draw(cmd.Count, cmd.InstanceCount, cmd.FirstVertex, cmd.BaseInstance)
		}
	}

	if err := renderPass.End(); err != nil {
		panic(err)
	}

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		panic(err)
	}
	defer cmdBuffer.Release()

	gpu.queue.Submit(cmdBuffer)
	gpu.surface.Present()
}
