package lattice

import (
	"sort"

	"github.com/HeLiuCMU/gibbsworld/internal/pos"
)

// reservePerFix is the number of extra slots the patch index guarantees
// before a fix starts inserting: the four query patches form a 2x2 block
// whose 9-halos together cover a 4x4 block, so 16 is the most patches
// any single fix can insert (the reference implementation reserves the
// same constant for the same reason).
const reservePerFix = 16

// GetFixedNeighborhood materializes and fixes the four patches covering
// the n x n sampling window centered at w. On return, all four patches
// are Fixed and their Items will never change again. It returns the
// patches and their positions in row-major order, and the index of the
// patch containing w.
func (m *Map[D]) GetFixedNeighborhood(w pos.Position) (neighborhood [4]*Patch[D], positions [4]pos.Position, queryIndex int) {
	positions, queryIndex = samplingWindow(w, m.n)

	m.patches.reserve(reservePerFix)
	for i, p := range positions {
		patch, created := m.patches.getOrInsert(p, false)
		if created {
			m.log.Debug("materialized query patch", "position", p)
		}
		neighborhood[i] = patch
	}

	m.fixPatches(neighborhood[:], positions[:])
	return neighborhood, positions, queryIndex
}

// fixPatches ensures every patch in patches ends the call Fixed, without
// disturbing any patch that was already fixed. It expands the set of
// not-yet-fixed patches by one halo, drops positions whose patch is
// already fixed, and runs the configured number of Gibbs sweeps over
// whatever remains before flipping the Fixed flags.
func (m *Map[D]) fixPatches(patches []*Patch[D], positions []pos.Position) {
	working := make([]pos.Position, 0, 36)
	for i, p := range patches {
		if p.Fixed {
			continue
		}
		h := halo(positions[i])
		working = append(working, h[:]...)
		working = sortDedupPositions(working)
	}

	kept := working[:0]
	for _, p := range working {
		patch, _ := m.patches.getOrInsert(p, false)
		if patch.Fixed {
			continue
		}
		kept = append(kept, p)
	}
	working = kept

	if len(working) > 0 && m.sampler != nil {
		field := m.sampler(m, m.cache, working, m.n)
		for i := uint32(0); i < m.gibbs; i++ {
			field.Sample(m.rng)
		}
	}

	for _, p := range patches {
		p.Fixed = true
	}
	m.log.Debug("fixed patches", "count", len(patches), "sampled_positions", len(working))
}

// sortDedupPositions sorts s and removes adjacent duplicates in place,
// returning the deduplicated prefix. Without this, a corner cell shared
// by multiple input patches would add the same halo position once per
// patch that touches it.
func sortDedupPositions(s []pos.Position) []pos.Position {
	sort.Slice(s, func(i, j int) bool { return s[i].Less(s[j]) })
	out := s[:0]
	for i, p := range s {
		if i == 0 || p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
