package razed

import (
	"github.com/go-gl/mathgl/mgl32"
)

// StructureOptions sizes the generated building lattice: a square tower of
// stacked floors on four ground anchors.
type StructureOptions struct {
	Origin      mgl32.Vec3
	Floors      int
	BaySize     float32
	FloorHeight float32
}

// Structure records the generated topology by role. Links are grouped so
// callers can treat the tiers differently: the frame is the load path,
// bracing stiffens the faces, and the floor diagonals are the weak tier
// meant to fail first.
type Structure struct {
	Anchors   [4]uint32
	Corners   [][4]uint32
	Frame     []uint32
	Bracing   []uint32
	Diagonals []uint32
}

// BuildStructure populates the graph with a multi-floor lattice: four
// anchors at ground level, a ring of ceiling edges per floor, vertical
// pillars between levels, cross bracing on every vertical face and a pair
// of weak diagonals across every ceiling.
func BuildStructure(g *NodeGraph, opts StructureOptions) Structure {
	corners := [4]mgl32.Vec2{
		{0, 0},
		{opts.BaySize, 0},
		{opts.BaySize, opts.BaySize},
		{0, opts.BaySize},
	}

	s := Structure{}
	for level := 0; level <= opts.Floors; level++ {
		h := float32(level) * opts.FloorHeight
		var ring [4]uint32
		for i, c := range corners {
			ring[i] = g.AddNode(opts.Origin.Add(mgl32.Vec3{c.X(), h, c.Y()}))
		}
		s.Corners = append(s.Corners, ring)
	}
	s.Anchors = s.Corners[0]

	for level := 1; level <= opts.Floors; level++ {
		below := s.Corners[level-1]
		ring := s.Corners[level]

		// ceiling loop
		for i := 0; i < 4; i++ {
			s.Frame = append(s.Frame, g.Link(ring[i], ring[(i+1)%4]))
		}
		// pillars
		for i := 0; i < 4; i++ {
			s.Frame = append(s.Frame, g.Link(below[i], ring[i]))
		}
		// cross bracing on each vertical face
		for i := 0; i < 4; i++ {
			j := (i + 1) % 4
			s.Bracing = append(s.Bracing,
				g.Link(below[i], ring[j]),
				g.Link(below[j], ring[i]),
			)
		}
		// weak floor diagonals
		s.Diagonals = append(s.Diagonals,
			g.Link(ring[0], ring[2]),
			g.Link(ring[1], ring[3]),
		)
	}
	return s
}
