package lattice

import "github.com/HeLiuCMU/gibbsworld/internal/pos"

// samplingWindow returns, in row-major order, the up-to-four patch
// positions covering the n x n axis-aligned box centered at w, and the
// index (0..3) of the patch that contains w.
//
// w decomposes into a containing patch and an offset within it. Which
// quadrant of the patch that offset falls in determines the anchor (the
// minimum-coordinate corner of the 2x2 block) so that the block always
// extends far enough past the patch's boundary to cover the full box:
//
//	offset quadrant (relative to n/2)   anchor              contains w at
//	x < half, y < half                  patch.Left().Up()    index 3
//	x < half, y >= half                 patch.Left()          index 1
//	x >= half, y < half                 patch.Up()            index 2
//	x >= half, y >= half                 patch                index 0
func samplingWindow(w pos.Position, n uint32) (neighborhood [4]pos.Position, queryIndex int) {
	patch, within := pos.WorldToPatch(w, n)
	half := int64(n / 2)

	var anchor pos.Position
	switch {
	case within.X < half && within.Y < half:
		anchor, queryIndex = patch.Left().Up(), 3
	case within.X < half:
		anchor, queryIndex = patch.Left(), 1
	case within.Y < half:
		anchor, queryIndex = patch.Up(), 2
	default:
		anchor, queryIndex = patch, 0
	}

	neighborhood[0] = anchor
	neighborhood[1] = anchor.Right()
	neighborhood[2] = anchor.Down()
	neighborhood[3] = anchor.Down().Right()
	return neighborhood, queryIndex
}

// halo returns the 9 positions consisting of p and its 8 neighbors
// (including diagonals).
func halo(p pos.Position) [9]pos.Position {
	return [9]pos.Position{
		p,
		p.Up(), p.Down(), p.Left(), p.Right(),
		p.Up().Left(), p.Up().Right(), p.Down().Left(), p.Down().Right(),
	}
}
