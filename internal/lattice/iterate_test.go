package lattice

import (
	"testing"

	"github.com/HeLiuCMU/gibbsworld/internal/pos"
)

func TestIterateNeighborhoodsDrawsNSquaredTimesWithinBounds(t *testing.T) {
	m := NewMap[struct{}](Config{N: 4, Seed: 9}, nil, nil)
	center := pos.Position{X: 0, Y: 0}
	m.GetOrMakePatch(center, true)

	calls := 0
	m.IterateNeighborhoods(center, func(x, y int64, patches []*Patch[struct{}]) {
		calls++
		if x < 0 || x >= 4 || y < 0 || y >= 4 {
			t.Fatalf("cell (%d,%d) out of patch bounds [0,4)", x, y)
		}
		if patches[0] == nil {
			t.Fatalf("patches[0] must always be the center patch")
		}
	})

	if calls != 16 {
		t.Fatalf("IterateNeighborhoods invoked visit %d times, want n*n = 16", calls)
	}
}

func TestIterateNeighborhoodsCellCanRepeatOrBeSkipped(t *testing.T) {
	// Each of the n*n draws independently samples a quadrant and a cell
	// within it; across a large enough n, seeing the same cell more than
	// once (or not at all) is expected, not a bug.
	m := NewMap[struct{}](Config{N: 64, Seed: 3}, nil, nil)
	center := pos.Position{X: 0, Y: 0}
	m.GetOrMakePatch(center, true)

	counts := map[[2]int64]int{}
	m.IterateNeighborhoods(center, func(x, y int64, patches []*Patch[struct{}]) {
		counts[[2]int64{x, y}]++
	})

	repeated, skipped := false, false
	for c := range counts {
		if counts[c] > 1 {
			repeated = true
		}
	}
	if len(counts) < 64*64 {
		skipped = true
	}
	if !repeated && !skipped {
		t.Fatalf("expected a random n*n sampling over n*n cells to repeat or skip at least one cell")
	}
}

func TestIterateNeighborhoodsOnlyReportsExistingNeighbors(t *testing.T) {
	m := NewMap[struct{}](Config{N: 4, Seed: 9}, nil, nil)
	center := pos.Position{X: 0, Y: 0}
	m.GetOrMakePatch(center, true)
	// No neighbors materialized: every cell's callback should see only
	// the center patch.
	m.IterateNeighborhoods(center, func(x, y int64, patches []*Patch[struct{}]) {
		if len(patches) != 1 {
			t.Fatalf("cell (%d,%d) saw %d patches with no neighbors materialized, want 1", x, y, len(patches))
		}
	})
}

func TestIterateNeighborhoodsNoopOnUnmaterializedPatch(t *testing.T) {
	m := NewMap[struct{}](Config{N: 4, Seed: 9}, nil, nil)
	calls := 0
	m.IterateNeighborhoods(pos.Position{X: 5, Y: 5}, func(x, y int64, patches []*Patch[struct{}]) {
		calls++
	})
	if calls != 0 {
		t.Fatalf("expected no callback invocations for an unmaterialized center patch")
	}
}
