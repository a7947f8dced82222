package lattice

import (
	"github.com/HeLiuCMU/gibbsworld/internal/pos"
)

// GetPatchIfExists returns the patch at p, or nil if it has not been
// materialized yet. Unlike the getter used by fixing and sampling, this
// never creates a patch as a side effect.
func (m *Map[D]) GetPatchIfExists(p pos.Position) *Patch[D] {
	patch, ok := m.patches.get(p)
	if !ok {
		return nil
	}
	return patch
}

// GetExistingPatch returns the patch at p. Querying a position that has
// never been materialized is a caller bug in any code path that should
// only ever see fixed neighborhoods; it logs a warning and returns a
// fresh, unfixed zero-value patch rather than panicking, so a diagnostic
// mistake in a caller cannot take down whatever embeds this package.
func (m *Map[D]) GetExistingPatch(p pos.Position) *Patch[D] {
	if patch := m.GetPatchIfExists(p); patch != nil {
		return patch
	}
	m.log.Warn("queried unmaterialized patch", "position", p)
	return &Patch[D]{}
}

// GetOrMakePatch returns the patch at p, materializing an empty unfixed
// one if it does not exist. resize controls whether the index is allowed
// to grow as part of this call; pass false when the caller has already
// reserved capacity (for example, mid-way through fixing a neighborhood).
func (m *Map[D]) GetOrMakePatch(p pos.Position, resize bool) *Patch[D] {
	patch, _ := m.patches.getOrInsert(p, resize)
	return patch
}

// GetNeighborhood returns the up-to-four patches covering the sampling
// window around w, without fixing them. Any patch not yet materialized
// is returned as nil rather than being created: unlike fixing, a plain
// read should not have the side effect of growing the world.
func (m *Map[D]) GetNeighborhood(w pos.Position) (neighborhood [4]*Patch[D], positions [4]pos.Position, queryIndex int) {
	positions, queryIndex = samplingWindow(w, m.n)
	for i, p := range positions {
		neighborhood[i] = m.GetPatchIfExists(p)
	}
	return neighborhood, positions, queryIndex
}

// GetState calls fn for every patch whose position falls within the
// inclusive patch-coordinate rectangle [bl, tr], in an unspecified order.
// It reports false, stopping early, if fn ever returns false.
func (m *Map[D]) GetState(bl, tr pos.Position, fn func(p pos.Position, patch *Patch[D]) bool) bool {
	ok := true
	m.patches.each(func(p pos.Position, patch *Patch[D]) bool {
		if p.X < bl.X || p.X > tr.X || p.Y < bl.Y || p.Y > tr.Y {
			return true
		}
		if !fn(p, patch) {
			ok = false
			return false
		}
		return true
	})
	return ok
}

// ItemSink receives items discovered by GetItems. Add reports whether it
// accepted the item; returning false stops GetItems early, the same way
// a false return from a GetState callback does. Callers that only want
// every matching item can use ItemSlice, whose Add always accepts;
// embedders with a fixed-capacity buffer can implement the interface
// directly and reject once full.
type ItemSink interface {
	Add(Item) bool
}

// ItemSlice is an ItemSink backed by a plain slice. Add always accepts.
type ItemSlice []Item

// Add appends item to the slice.
func (s *ItemSlice) Add(item Item) bool {
	*s = append(*s, item)
	return true
}

// GetItems collects every item located within the inclusive world
// rectangle [bl, tr] into sink, built directly on GetState: it visits
// every materialized patch overlapping the rectangle and feeds sink
// every item of that patch falling within it. A patch that has never
// been materialized is simply absent from the index and is skipped, the
// same way GetState skips it; that is not itself a failure. GetItems
// reports false only if sink ever rejects an item.
func (m *Map[D]) GetItems(bl, tr pos.Position, sink ItemSink) bool {
	patchBL := pos.PatchOf(bl, m.n)
	patchTR := pos.PatchOf(tr, m.n)

	return m.GetState(patchBL, patchTR, func(p pos.Position, patch *Patch[D]) bool {
		for _, item := range patch.Items {
			if item.withinRect(bl, tr) {
				if !sink.Add(item) {
					return false
				}
			}
		}
		return true
	})
}
