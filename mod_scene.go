package razed

// FragmentBinding couples fragments to the entity poses they animate.
// Fragment ids map to position handles, not entity rows, so the coupling
// survives entity table compaction.
type FragmentBinding struct {
	positionByFragment map[uint32]uint32
}

func NewFragmentBinding() *FragmentBinding {
	return &FragmentBinding{positionByFragment: make(map[uint32]uint32)}
}

func (b *FragmentBinding) Bind(fragment, positionId uint32) {
	b.positionByFragment[fragment] = positionId
}

func (b *FragmentBinding) Position(fragment uint32) (uint32, bool) {
	id, ok := b.positionByFragment[fragment]
	return id, ok
}

// SceneModule installs the scene data model and the systems that keep it
// consistent: rotor estimation, broken-link propagation and the per-frame
// publish into the frame boundary.
type SceneModule struct{}

func (m SceneModule) Install(app *App) {
	cfg, ok := Resource[Config](app)
	if !ok {
		def := DefaultConfig()
		cfg = &def
	}

	meshes := NewMeshStore(cfg.Limits.Vertices)
	scene := NewScene(meshes, cfg.Limits.Entities)
	graph := NewNodeGraph(cfg.Limits.Nodes)
	rotors := NewRotorSystem()
	fragments := NewFragmentTable(cfg.Limits.Fragments)
	binding := NewFragmentBinding()
	boundary := NewFrameBoundary()
	selected := NoSelection

	app.AddResources(meshes, scene, graph, rotors, fragments, binding, boundary, &selected)

	app.UseSystem(System(recomputeRotors).InStage(Update))
	app.UseSystem(System(propagateBrokenLinks).InStage(PostUpdate))
	app.UseSystem(System(publishFrame).InStage(PreRender))
}

func recomputeRotors(graph *NodeGraph, rotors *RotorSystem) {
	rotors.Recompute(graph)
}

// propagateBrokenLinks drains this update's broken links and fans the
// damage out: the rotor system forgets the rest directions, fragments
// dominated by a broken endpoint go dead, and their bound entity poses are
// zeroed so the vertex stage collapses them.
func propagateBrokenLinks(graph *NodeGraph, rotors *RotorSystem, fragments *FragmentTable, binding *FragmentBinding, scene *Scene) {
	broken := graph.DrainBroken()
	if len(broken) == 0 {
		return
	}
	rotors.ForgetLinks(broken)
	fragments.HandleBrokenLinks(broken)
	for _, id := range fragments.DrainDisabled() {
		if posId, ok := binding.Position(id); ok {
			scene.SetPoseLive(posId, false)
		}
	}
}

// publishFrame snapshots every table into the boundary's back section and
// swaps it in. This is the single barrier of the frame.
func publishFrame(scene *Scene, graph *NodeGraph, rotors *RotorSystem, fragments *FragmentTable, selected *Selection, boundary *FrameBoundary) {
	view := FrameData{
		Scene: scene.Tables(),
		Nodes: NodeTables{
			NodeMap:   graph.NodeMap(),
			Positions: graph.NodePositions(),
			Rotors:    rotors.Rotors(),
		},
		Fragments: fragments.Tables(),
		Edges:     graph.Edges(),
		Selected:  *selected,
	}
	boundary.Publish(func(d *FrameData) {
		d.CopyFrom(&view)
	})
}
