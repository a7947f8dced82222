package lattice

import (
	"log/slog"

	"github.com/HeLiuCMU/gibbsworld/internal/pos"
	"github.com/HeLiuCMU/gibbsworld/internal/rng"
)

// Field is the interface the Gibbs sampler implements. The core invokes
// Sample once per configured sweep during fixing; the sampler is trusted
// to read and write only the patches it was constructed with.
type Field interface {
	Sample(r *rng.LCG)
}

// FieldFactory constructs a Field scoped to the given positions, mirroring
// the reference implementation's Gibbs field constructor signature
// (self, cache, positions, position_count, n). cache is the Map's opaque
// Cache value, threaded through unexamined.
type FieldFactory[D any] func(m *Map[D], cache any, positions []pos.Position, n uint32) Field

// Map is the patch-indexed world: a sparse, infinite grid of n x n patches
// materialized lazily as queries and fixing touch them.
type Map[D any] struct {
	patches *index[D]
	n       uint32
	gibbs   uint32
	rng     *rng.LCG
	cache   any
	sampler FieldFactory[D]
	log     *slog.Logger
}

// Config bundles the parameters fixed for the lifetime of a Map.
type Config struct {
	// N is the patch edge length in lattice units. Must be even and
	// positive: the neighborhood geometry divides it in half.
	N uint32
	// GibbsIterations is the number of full sampling sweeps run each
	// time the fixer materializes a neighborhood.
	GibbsIterations uint32
	// Seed initializes the map's PRNG.
	Seed uint32
}

// NewMap constructs an empty map. sampler may be nil, in which case
// fixing still freezes patches but never invokes a Gibbs sweep (useful
// for tests that only exercise the geometry and indexing).
func NewMap[D any](cfg Config, cache any, sampler FieldFactory[D]) *Map[D] {
	if cfg.N == 0 {
		panic("lattice: patch size N must be positive")
	}
	return &Map[D]{
		patches: newIndex[D](1024),
		n:       cfg.N,
		gibbs:   cfg.GibbsIterations,
		rng:     rng.NewLCG(cfg.Seed),
		cache:   cache,
		sampler: sampler,
		log:     slog.Default().With("component", "lattice.Map"),
	}
}

// N returns the patch edge length.
func (m *Map[D]) N() uint32 { return m.n }

// GibbsIterations returns the configured sweep count.
func (m *Map[D]) GibbsIterations() uint32 { return m.gibbs }

// RNG exposes the map's generator to the sampler. Callers outside the
// sampler should not advance it directly: doing so breaks seed
// determinism for anyone replaying the same call sequence.
func (m *Map[D]) RNG() *rng.LCG { return m.rng }

// Cache exposes the map's opaque sampler-side cache.
func (m *Map[D]) Cache() any { return m.cache }

// PatchCount returns the number of patches materialized so far, fixed or
// not. Useful for diagnostics and for sizing snapshot buffers.
func (m *Map[D]) PatchCount() int { return m.patches.len() }

// Each calls fn for every materialized patch, in an unspecified order,
// stopping early if fn returns false. It exists alongside GetState so
// that whole-map consumers such as the snapshot codec do not need to
// supply an artificial bounding rectangle.
func (m *Map[D]) Each(fn func(pos.Position, *Patch[D]) bool) {
	m.patches.each(fn)
}

// RestorePatch inserts patch at p directly, bypassing the normal
// getOrInsert path. It is meant for snapshot restore, where the caller
// already knows the exact Fixed/Items/Data a patch should have and must
// not go through a sampler.
func (m *Map[D]) RestorePatch(p pos.Position, patch *Patch[D]) {
	m.patches.reserve(1)
	m.patches.insert(p, patch)
}

// SetRNG replaces the map's generator wholesale. It is meant for
// snapshot restore, to resume exactly where a persisted map left off.
func (m *Map[D]) SetRNG(r *rng.LCG) {
	m.rng = r
}
