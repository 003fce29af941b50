package razed

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// VoxelCell is one filled cell of a generated grid, identified by its
// lattice coordinate and world-space center at rest.
type VoxelCell struct {
	X, Y, Z int
	Center  mgl32.Vec3
}

// VoxelGridOptions describes a regular lattice of candidate cells. Filled
// decides per cell whether it exists; a nil Filled keeps every cell.
type VoxelGridOptions struct {
	Origin   mgl32.Vec3
	CellSize float32
	Dims     [3]int
	Filled   func(x, y, z int, center mgl32.Vec3) bool
}

type VoxelGrid struct {
	Cells []VoxelCell
}

// BuildVoxelGrid walks the lattice and keeps the cells the predicate
// accepts. Centers sit at half-cell offsets from the origin.
func BuildVoxelGrid(opts VoxelGridOptions) VoxelGrid {
	grid := VoxelGrid{}
	half := opts.CellSize * 0.5
	for z := 0; z < opts.Dims[2]; z++ {
		for y := 0; y < opts.Dims[1]; y++ {
			for x := 0; x < opts.Dims[0]; x++ {
				center := opts.Origin.Add(mgl32.Vec3{
					float32(x)*opts.CellSize + half,
					float32(y)*opts.CellSize + half,
					float32(z)*opts.CellSize + half,
				})
				if opts.Filled != nil && !opts.Filled(x, y, z, center) {
					continue
				}
				grid.Cells = append(grid.Cells, VoxelCell{X: x, Y: y, Z: z, Center: center})
			}
		}
	}
	return grid
}

// BindFragments creates one fragment per cell, skinned to the four nodes
// nearest the cell center at rest. Weights fall off with inverse distance
// and are emitted normalized; the blend path never renormalizes. Returns
// the fragment ids in cell order.
func BindFragments(grid VoxelGrid, g *NodeGraph, frags *FragmentTable) []uint32 {
	owners := g.NodeOwners()
	positions := g.NodePositions()
	if len(owners) == 0 {
		return nil
	}

	type candidate struct {
		id   uint32
		dist float32
	}

	ids := make([]uint32, 0, len(grid.Cells))
	cands := make([]candidate, len(owners))

	for _, cell := range grid.Cells {
		for row, id := range owners {
			p := positions[row]
			d := cell.Center.Sub(mgl32.Vec3{p.X(), p.Y(), p.Z()}).Len()
			cands[row] = candidate{id: id, dist: d}
		}
		sort.Slice(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })

		n := 4
		if len(cands) < n {
			n = len(cands)
		}

		var f Fragment
		var total float32
		for i := 0; i < n; i++ {
			w := 1 / (cands[i].dist + 1e-4)
			f.Parents[i] = cands[i].id
			f.Weights[i] = w
			total += w
		}
		for i := 0; i < n; i++ {
			f.Weights[i] /= total
		}

		// Rest offset anchors the cell against the weighted rest pose of
		// its parents, so an unmoved structure reproduces the cell center.
		var base mgl32.Vec3
		for i := 0; i < n; i++ {
			base = base.Add(g.NodePosition(f.Parents[i]).Mul(f.Weights[i]))
		}
		rest := cell.Center.Sub(base)
		f.RestOffset = mgl32.Vec4{rest.X(), rest.Y(), rest.Z(), 1}

		ids = append(ids, frags.Add(f))
	}
	return ids
}
