// Package gibbs provides a small reference implementation of the
// sampler interface internal/lattice consumes through
// lattice.Field/lattice.FieldFactory. It is not the domain-specific
// potential an embedder would actually ship; it is the trivial
// always-accept field the testable scenarios are defined against, plus
// the hashing primitives a real potential would typically build on.
package gibbs

import (
	"io"

	"github.com/HeLiuCMU/gibbsworld/internal/lattice"
	"github.com/HeLiuCMU/gibbsworld/internal/pos"
	"github.com/HeLiuCMU/gibbsworld/internal/rng"
)

// mix64 is a 64-bit avalanche mix (splitmix64's finalizer), used to turn
// a linear combination of coordinates into a well-distributed hash.
func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// HashPosition combines a seed with a world position into a single
// well-mixed value, for use by proposal distributions that want a
// position-stable but seed-dependent pseudo-random value without
// consuming the shared PRNG.
func HashPosition(seed int64, p pos.Position) uint64 {
	v := uint64(seed) ^ (uint64(p.X) * 0x9e3779b97f4a7c15) ^ (uint64(p.Y) * 0xbf58476d1ce4e5b9)
	return mix64(v)
}

// Config parameterizes the reference field.
type Config struct {
	// ItemType is placed at a cell when the field decides to occupy it.
	ItemType uint32
	// Density is the number of occupied cells out of 1000, used as the
	// trivial always-accept potential's acceptance threshold.
	Density uint32
	// Seed is carried with the config but is not read by Sample: which
	// cells are occupied depends only on draws from the map's shared RNG.
	Seed int64
}

// Data is the per-patch payload this package's field uses. It carries
// nothing: the reference field keeps all of its state in the patch's
// item list, matching the spec's item-only data model.
type Data struct{}

// DataCodec is the snapshot.PayloadCodec for Data: since Data carries no
// state, it writes and reads zero bytes.
type DataCodec struct{}

// WriteData writes nothing.
func (DataCodec) WriteData(io.Writer, Data) error { return nil }

// ReadData reads nothing and returns the zero value.
func (DataCodec) ReadData(io.Reader) (Data, error) { return Data{}, nil }

// NewFieldFactory returns a lattice.FieldFactory that builds the
// reference field for a Map[Data]. The field is deliberately simple: for
// every cell in every patch of the working set, it draws one value from
// the map's shared PRNG and, independent of any neighbor, occupies the
// cell if the draw falls under cfg.Density. This is the "trivial
// always-accept potential" the testable scenarios are defined against;
// it never rejects a proposal, so a single configured sweep already
// draws from the stationary distribution. Each further sweep redraws
// every cell with fresh RNG draws, so gibbs_iterations beyond the first
// changes which cells end up occupied, not the distribution they are
// drawn from.
func NewFieldFactory(cfg Config) lattice.FieldFactory[Data] {
	return func(m *lattice.Map[Data], cache any, positions []pos.Position, n uint32) lattice.Field {
		return &field{
			m:         m,
			positions: append([]pos.Position(nil), positions...),
			n:         n,
			cfg:       cfg,
		}
	}
}

type field struct {
	m         *lattice.Map[Data]
	positions []pos.Position
	n         uint32
	cfg       Config
}

// Sample runs one sweep: for every patch in the working set, for every
// cell, draw once from r and occupy the cell if the draw lands under the
// configured density. Existing items of the configured type at a cell
// are removed first so each sweep replaces the previous sweep's items
// rather than accumulating duplicates.
func (f *field) Sample(r *rng.LCG) {
	for _, p := range f.positions {
		patch := f.m.GetOrMakePatch(p, false)
		if patch.Fixed {
			continue
		}

		kept := patch.Items[:0]
		for _, item := range patch.Items {
			if item.Type != f.cfg.ItemType {
				kept = append(kept, item)
			}
		}
		patch.Items = kept

		for y := int64(0); y < int64(f.n); y++ {
			for x := int64(0); x < int64(f.n); x++ {
				draw := r.IntN(1000)
				if draw >= f.cfg.Density {
					continue
				}
				world := pos.Position{
					X: p.X*int64(f.n) + x,
					Y: p.Y*int64(f.n) + y,
				}
				patch.Items = append(patch.Items, lattice.Item{
					Type:     f.cfg.ItemType,
					Location: world,
				})
			}
		}
	}
}
