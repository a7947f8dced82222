package lattice

import (
	"github.com/HeLiuCMU/gibbsworld/internal/pos"
)

// quadrant describes one of the four quadrants a cell draw can land in:
// the patches that matter for that quadrant (besides the center patch
// itself, in the same push order the original implementation builds
// them in), and whether each of the cell's two within-patch coordinates
// needs the +half offset that places it in the quadrant's far half.
type quadrant struct {
	neighbors [2]func(pos.Position) pos.Position
	offsetX   bool
	offsetY   bool
}

var quadrants = [4]quadrant{
	0: {neighbors: [2]func(pos.Position) pos.Position{pos.Position.Left, pos.Position.Up}},
	1: {neighbors: [2]func(pos.Position) pos.Position{pos.Position.Left, pos.Position.Down}, offsetY: true},
	2: {neighbors: [2]func(pos.Position) pos.Position{pos.Position.Right, pos.Position.Up}, offsetX: true},
	3: {neighbors: [2]func(pos.Position) pos.Position{pos.Position.Right, pos.Position.Down}, offsetX: true, offsetY: true},
}

// diagonal returns, for quadrant q, the diagonal neighbor offset
// (applied after the two axis neighbors in quadrants[q].neighbors).
func diagonal(q int, p pos.Position) pos.Position {
	switch q {
	case 0:
		return p.Up().Left()
	case 1:
		return p.Down().Left()
	case 2:
		return p.Up().Right()
	default:
		return p.Down().Right()
	}
}

// NeighborhoodVisitor is invoked once per draw of IterateNeighborhoods.
// x and y are the drawn cell's coordinates within the patch, in [0, n).
// patches[0] is always the patch being iterated; patches[1:] are
// whichever of the drawn quadrant's other three patches (the two axis
// neighbors and the diagonal) currently exist in the index, in the
// original implementation's push order: axis neighbor, axis neighbor,
// diagonal.
type NeighborhoodVisitor[D any] func(x, y int64, patches []*Patch[D])

// IterateNeighborhoods draws n*n samples for the patch at p. Each draw
// picks one of the four quadrants uniformly, then picks a cell uniformly
// within that quadrant's (n/2)x(n/2) box, and calls visit with the
// center patch plus whichever of that quadrant's other patches the
// caller has already materialized. This mirrors
// process_neighborhood_function(rng() % half_n, rng() % half_n, ...)
// in the reference implementation: three rng draws per iteration (one
// for the quadrant, two for the cell), not a raster scan, and a given
// cell may be drawn more than once or not at all across the n*n draws.
//
// The reference implementation dispatches on rng() % 4 with fall-through
// between the switch cases, invoking more than one quadrant's callback
// for some draws. That looks like an unintended consequence of a
// missing break rather than deliberate behavior, so this version treats
// the four cases as exclusive: exactly one quadrant's callback per draw.
func (m *Map[D]) IterateNeighborhoods(p pos.Position, visit NeighborhoodVisitor[D]) {
	center, ok := m.patches.get(p)
	if !ok {
		return
	}
	half := m.n / 2

	var buf [4]*Patch[D]
	total := int64(m.n) * int64(m.n)
	for i := int64(0); i < total; i++ {
		q := int(m.rng.IntN(4))
		quad := quadrants[q]

		x := int64(m.rng.IntN(half))
		y := int64(m.rng.IntN(half))
		if quad.offsetX {
			x += int64(half)
		}
		if quad.offsetY {
			y += int64(half)
		}

		buf[0] = center
		n := 1
		for _, axis := range quad.neighbors {
			if neighbor, ok := m.patches.get(axis(p)); ok {
				buf[n] = neighbor
				n++
			}
		}
		if neighbor, ok := m.patches.get(diagonal(q, p)); ok {
			buf[n] = neighbor
			n++
		}

		visit(x, y, buf[:n])
	}
}
