package lattice

import (
	"testing"

	"github.com/HeLiuCMU/gibbsworld/internal/pos"
	"github.com/HeLiuCMU/gibbsworld/internal/rng"
)

type countingField struct {
	calls  *int
	writes []pos.Position
}

func (f countingField) Sample(r *rng.LCG) {
	*f.calls++
	for range f.writes {
		r.Next()
	}
}

func newCountingFactory(calls *int) FieldFactory[struct{}] {
	return func(m *Map[struct{}], cache any, positions []pos.Position, n uint32) Field {
		return countingField{calls: calls, writes: positions}
	}
}

func TestGetFixedNeighborhoodFixesAllFour(t *testing.T) {
	// S4: after fixing (0,0), all four returned patches are fixed; the
	// halo patches outside that block exist and are unfixed.
	calls := 0
	m := NewMap(Config{N: 8, GibbsIterations: 10, Seed: 42}, nil, newCountingFactory(&calls))

	neighborhood, positions, idx := m.GetFixedNeighborhood(pos.Position{X: 0, Y: 0})
	if idx != 3 {
		t.Fatalf("queryIndex = %d, want 3", idx)
	}
	for i, p := range neighborhood {
		if !p.Fixed {
			t.Errorf("patch %d at %v not fixed", i, positions[i])
		}
	}
	if calls != 10 {
		t.Fatalf("sampler called %d times, want 10", calls)
	}

	haloOnly := []pos.Position{{X: -2, Y: -1}, {X: -1, Y: -2}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 0}}
	found := 0
	for _, p := range haloOnly {
		patch := m.GetPatchIfExists(p)
		if patch == nil {
			continue
		}
		found++
		if patch.Fixed {
			t.Errorf("halo-only patch %v unexpectedly fixed", p)
		}
	}
	if found == 0 {
		t.Fatalf("expected at least one halo-only patch to have been materialized")
	}
}

func TestGetFixedNeighborhoodIsIdempotentOnItems(t *testing.T) {
	// Property 3: once fixed, a patch's items never change again, even if
	// a later fix's halo expansion touches it again.
	calls := 0
	m := NewMap(Config{N: 8, GibbsIterations: 1, Seed: 1}, nil, newCountingFactory(&calls))

	m.GetFixedNeighborhood(pos.Position{X: 0, Y: 0})
	patch := m.GetExistingPatch(pos.Position{X: 0, Y: 0})
	patch.Items = append(patch.Items, Item{Type: 99, Location: pos.Position{X: 0, Y: 0}})
	snapshot := append([]Item(nil), patch.Items...)

	// A second, overlapping fix must not disturb the already-fixed patch.
	m.GetFixedNeighborhood(pos.Position{X: 1, Y: 1})

	if len(patch.Items) != len(snapshot) {
		t.Fatalf("fixed patch item count changed: %d -> %d", len(snapshot), len(patch.Items))
	}
}

func TestFixPatchesHaloHasNoDuplicates(t *testing.T) {
	// Property 8: the working set handed to the sampler contains no
	// duplicate positions, even though the four query patches' halos
	// overlap heavily.
	var seenPositions []pos.Position
	factory := func(m *Map[struct{}], cache any, positions []pos.Position, n uint32) Field {
		seenPositions = positions
		return countingField{calls: new(int)}
	}
	m := NewMap(Config{N: 8, GibbsIterations: 1, Seed: 7}, nil, factory)
	m.GetFixedNeighborhood(pos.Position{X: 0, Y: 0})

	seen := map[pos.Position]bool{}
	for _, p := range seenPositions {
		if seen[p] {
			t.Fatalf("duplicate position %v in sampler working set", p)
		}
		seen[p] = true
	}
}

func TestGetFixedNeighborhoodWithNilSampler(t *testing.T) {
	m := NewMap[struct{}](Config{N: 8, GibbsIterations: 10, Seed: 1}, nil, nil)
	neighborhood, _, _ := m.GetFixedNeighborhood(pos.Position{X: 0, Y: 0})
	for _, p := range neighborhood {
		if !p.Fixed {
			t.Fatalf("patch not fixed even without a sampler configured")
		}
	}
}
