package lattice

import "github.com/HeLiuCMU/gibbsworld/internal/pos"

// index is a sentinel-keyed, open-addressed hash table mapping patch
// positions to patches, generalized from the hash_map used by the
// original reference implementation (see original_source/nel/map.h):
// slots are linear-probed, empty slots carry pos.Empty as their key, and
// reserve pre-grows the table so that a batch of inserts never triggers a
// mid-batch rehash.
//
// Patches are stored behind pointers, so growing the table never
// invalidates a *Patch[D] a caller is already holding — only the slot
// array itself is reallocated. reserve is kept as an explicit operation
// anyway (rather than relying on incidental headroom) because the fixing
// protocol depends on being able to pre-size the table before it starts
// creating halo patches.
type index[D any] struct {
	keys   []pos.Position
	values []*Patch[D]
	count  int
}

const minIndexCapacity = 16

// newIndex allocates an index with capacityHint slots, rounded up to a
// power of two and to at least minIndexCapacity. reserve keeps at most
// half the slots occupied, so the table first grows once an insert would
// take it past half of that capacity.
func newIndex[D any](capacityHint int) *index[D] {
	capacity := nextPow2(capacityHint)
	if capacity < minIndexCapacity {
		capacity = minIndexCapacity
	}
	idx := &index[D]{
		keys:   make([]pos.Position, capacity),
		values: make([]*Patch[D], capacity),
	}
	idx.resetKeys()
	return idx
}

func (idx *index[D]) resetKeys() {
	for i := range idx.keys {
		idx.keys[i] = pos.Empty
	}
}

func nextPow2(n int) int {
	p := minIndexCapacity
	for p < n {
		p <<= 1
	}
	return p
}

func hashPosition(p pos.Position) uint64 {
	h := uint64(p.X)*0x9E3779B97F4A7C15 ^ uint64(p.Y)*0xC2B2AE3D27D4EB4F
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	return h
}

// slotFor returns the index of the slot that holds k, or the first empty
// slot where k would be inserted, via linear probing.
func (idx *index[D]) slotFor(k pos.Position) int {
	mask := uint64(len(idx.keys) - 1)
	i := hashPosition(k) & mask
	for {
		if idx.keys[i] == pos.Empty || idx.keys[i] == k {
			return int(i)
		}
		i = (i + 1) & mask
	}
}

// get looks up k, returning the patch and whether it was present.
func (idx *index[D]) get(k pos.Position) (*Patch[D], bool) {
	i := idx.slotFor(k)
	if idx.keys[i] == pos.Empty {
		return nil, false
	}
	return idx.values[i], true
}

// reserve ensures the table can absorb at least extra more insertions
// without triggering a rehash partway through a batch of them.
func (idx *index[D]) reserve(extra int) {
	needed := idx.count + extra
	if needed*2 <= len(idx.keys) {
		return
	}
	idx.grow(nextPow2(needed * 2))
}

func (idx *index[D]) grow(newCap int) {
	oldKeys, oldValues := idx.keys, idx.values
	idx.keys = make([]pos.Position, newCap)
	idx.values = make([]*Patch[D], newCap)
	idx.resetKeys()
	idx.count = 0
	for i, k := range oldKeys {
		if k != pos.Empty {
			idx.insert(k, oldValues[i])
		}
	}
}

// insert places v at k, overwriting any existing value. It assumes the
// caller already reserved room; it does not grow.
func (idx *index[D]) insert(k pos.Position, v *Patch[D]) {
	i := idx.slotFor(k)
	if idx.keys[i] == pos.Empty {
		idx.keys[i] = k
		idx.count++
	}
	idx.values[i] = v
}

// getOrInsert returns the patch at k, creating an empty, unfixed one if
// absent. When resize is false the caller is responsible for having
// reserved enough capacity already; calling it without doing so when the
// table is full is a programming error, not a recoverable condition.
func (idx *index[D]) getOrInsert(k pos.Position, resize bool) (p *Patch[D], created bool) {
	if resize {
		idx.reserve(1)
	}
	i := idx.slotFor(k)
	if idx.keys[i] != pos.Empty {
		return idx.values[i], false
	}
	p = &Patch[D]{}
	idx.keys[i] = k
	idx.values[i] = p
	idx.count++
	return p, true
}

func (idx *index[D]) len() int { return idx.count }

// each calls fn for every occupied slot in an unspecified order, stopping
// early if fn returns false.
func (idx *index[D]) each(fn func(pos.Position, *Patch[D]) bool) {
	for i, k := range idx.keys {
		if k != pos.Empty {
			if !fn(k, idx.values[i]) {
				return
			}
		}
	}
}
