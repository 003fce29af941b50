package razed

import (
	"sync/atomic"
)

// FrameData is one complete, internally consistent set of the tables a
// frame's resolvers read. A section is filled by the producer, published
// whole, and never touched again until the consumer has moved on; partial
// updates are not supported.
type FrameData struct {
	Scene     SceneTables
	Nodes     NodeTables
	Fragments FragmentTables
	Edges     []ConstraintEdge
	Selected  Selection
}

// CopyFrom deep-copies another frame's tables, reusing this section's
// backing arrays where capacity allows.
func (d *FrameData) CopyFrom(src *FrameData) {
	d.Scene.Entities = append(d.Scene.Entities[:0], src.Scene.Entities...)
	d.Scene.MeshTable = append(d.Scene.MeshTable[:0], src.Scene.MeshTable...)
	d.Scene.PositionMap = append(d.Scene.PositionMap[:0], src.Scene.PositionMap...)
	d.Scene.RotationMap = append(d.Scene.RotationMap[:0], src.Scene.RotationMap...)
	d.Scene.ScaleMap = append(d.Scene.ScaleMap[:0], src.Scene.ScaleMap...)
	d.Scene.Positions = append(d.Scene.Positions[:0], src.Scene.Positions...)
	d.Scene.Rotations = append(d.Scene.Rotations[:0], src.Scene.Rotations...)
	d.Scene.Scales = append(d.Scene.Scales[:0], src.Scene.Scales...)

	d.Nodes.NodeMap = append(d.Nodes.NodeMap[:0], src.Nodes.NodeMap...)
	d.Nodes.Positions = append(d.Nodes.Positions[:0], src.Nodes.Positions...)
	d.Nodes.Rotors = append(d.Nodes.Rotors[:0], src.Nodes.Rotors...)

	d.Fragments.Parents = append(d.Fragments.Parents[:0], src.Fragments.Parents...)
	d.Fragments.Weights = append(d.Fragments.Weights[:0], src.Fragments.Weights...)
	d.Fragments.RestOffsets = append(d.Fragments.RestOffsets[:0], src.Fragments.RestOffsets...)

	d.Edges = append(d.Edges[:0], src.Edges...)
	d.Selected = src.Selected
}

const frameDirty = uint32(0x4)

// FrameBoundary is the producer/consumer hand-off: three FrameData sections
// rotated through back (producer-owned), shared (latest published) and
// front (consumer-owned). One atomic swap per Publish is the only
// synchronization between the two sides; neither ever blocks, and the
// consumer always reads a complete frame, the latest one published.
type FrameBoundary struct {
	sections [3]FrameData
	shared   atomic.Uint32 // middle section index, frameDirty set when unseen
	back     uint32
	front    uint32
}

func NewFrameBoundary() *FrameBoundary {
	b := &FrameBoundary{back: 0, front: 2}
	b.shared.Store(1)
	return b
}

// Publish lets the producer fill the back section and makes it the shared
// one. The swap is the frame barrier: every write to the section happens
// before the consumer can observe its index.
func (b *FrameBoundary) Publish(fill func(*FrameData)) {
	fill(&b.sections[b.back])
	prev := b.shared.Swap(b.back | frameDirty)
	b.back = prev &^ frameDirty
}

// Acquire returns the newest published frame, or the one already held when
// nothing new was published. The returned data is read-only and stays valid
// until the next Acquire.
func (b *FrameBoundary) Acquire() *FrameData {
	for {
		shared := b.shared.Load()
		if shared&frameDirty == 0 {
			return &b.sections[b.front]
		}
		if b.shared.CompareAndSwap(shared, b.front) {
			b.front = shared &^ frameDirty
			return &b.sections[b.front]
		}
	}
}
