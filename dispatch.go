package razed

import (
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/colornames"
)

// DrawCommand mirrors the indirect draw argument layout: vertex count,
// instance count, first vertex, base instance.
type DrawCommand struct {
	Count         uint32
	InstanceCount uint32
	FirstVertex   uint32
	BaseInstance  uint32
}

// CommandQueue collects the rigid pass's per-draw commands up to a fixed
// capacity. Overflowing commands are dropped and counted; the drop is
// reported once per Clear instead of once per push.
type CommandQueue struct {
	commands []DrawCommand
	capacity int
	dropped  int
	log      Logger
}

func NewCommandQueue(capacity int, log Logger) *CommandQueue {
	if log == nil {
		log = NewNopLogger()
	}
	return &CommandQueue{
		commands: make([]DrawCommand, 0, capacity),
		capacity: capacity,
		log:      log,
	}
}

func (q *CommandQueue) Push(cmd DrawCommand) {
	if len(q.commands) >= q.capacity {
		q.dropped++
		return
	}
	q.commands = append(q.commands, cmd)
}

func (q *CommandQueue) Commands() []DrawCommand {
	return q.commands
}

func (q *CommandQueue) Clear() {
	if q.dropped > 0 {
		q.log.Warnf("draw command queue overflow: %d commands dropped", q.dropped)
		q.dropped = 0
	}
	q.commands = q.commands[:0]
}

// PassKind enumerates the closed set of resolution strategies. Each pass is
// a pure function over the published buffer views; the kind is selected
// once per batch, never per vertex.
type PassKind int

const (
	PassRigid PassKind = iota
	PassSkinned
	PassDebugLines
)

// Batch is one dispatch unit: a pass kind plus its draw commands. The
// dispatch layer issues exactly as many vertices and instances as the
// tables have valid rows; resolvers never bounds-check.
type Batch struct {
	Kind     PassKind
	Commands []DrawCommand
}

// FrameBatches builds the frame's dispatch list from the published tables:
// one multi-draw of the entity table (draw ordinal = entity row), one
// instanced draw of the skinned fragments (instance ordinal = fragment
// row), one instanced draw of the constraint edges (two vertices per
// instance).
func FrameBatches(frame *FrameData, fragmentMesh MeshMetadata, queue *CommandQueue) []Batch {
	queue.Clear()
	for row, e := range frame.Scene.Entities {
		queue.Push(DrawCommand{
			Count:         frame.Scene.MeshTable[e.MeshIndex].Length,
			InstanceCount: 1,
			BaseInstance:  uint32(row),
		})
	}

	batches := []Batch{
		{Kind: PassRigid, Commands: queue.Commands()},
	}

	if n := len(frame.Fragments.RestOffsets); n > 0 {
		batches = append(batches, Batch{
			Kind: PassSkinned,
			Commands: []DrawCommand{{
				Count:         fragmentMesh.Length,
				InstanceCount: uint32(n),
				FirstVertex:   fragmentMesh.Offset,
			}},
		})
	}

	if n := len(frame.Edges); n > 0 {
		batches = append(batches, Batch{
			Kind: PassDebugLines,
			Commands: []DrawCommand{{
				Count:         2,
				InstanceCount: uint32(n),
			}},
		})
	}
	return batches
}

// ResolveRigidVertex is the per-draw addressing path: draw ordinal selects
// the entity row, the entity selects its mesh range, and the vertex ordinal
// walks that range. Returns the world position and normal.
func ResolveRigidVertex(store *MeshStore, t *SceneTables, draw, vertex uint32) (mgl32.Vec3, mgl32.Vec3) {
	e := t.Entities[draw]
	meta := t.MeshTable[e.MeshIndex]
	v := store.VertexAt(meta.Offset + vertex)

	pose := t.PoseOf(e)
	world := pose.TransformPoint(mgl32.Vec3{v.Position[0], v.Position[1], v.Position[2]})
	normal := pose.TransformNormal(mgl32.Vec3{v.Normal[0], v.Normal[1], v.Normal[2]})
	return world, normal
}

var axisColors = [3]mgl32.Vec4{
	rgba(colornames.Red, 1),
	rgba(colornames.Lime, 1),
	rgba(colornames.Blue, 1),
}

// AxisColor is the fixed color-pair pattern of the debug axis mesh:
// consecutive vertex pairs cycle through the X, Y and Z axis colors.
func AxisColor(vertex uint32) mgl32.Vec4 {
	return axisColors[(vertex/2)%3]
}
