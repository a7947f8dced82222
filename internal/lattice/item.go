// Package lattice implements the patch-indexed world map: the item and
// patch data model, the open-addressed patch index, the neighborhood
// geometry used to decide which patches must be jointly sampled, the
// fixing protocol that freezes observed patches, and the read-only query
// surface. The Gibbs sampler that actually decides item placement is an
// external collaborator, consumed through the Field/FieldFactory
// interfaces in map.go.
package lattice

import "github.com/HeLiuCMU/gibbsworld/internal/pos"

// Item is a point entity on the world lattice.
//
// CreatedAt == 0 means the item has always existed. DeletedAt == 0 means
// the item has never been deleted. Both timestamps are opaque to this
// package; the embedder assigns and interprets them.
type Item struct {
	Type      uint32
	Location  pos.Position
	CreatedAt uint64
	DeletedAt uint64
}

// AlwaysExisted reports whether the item has no recorded creation time.
func (i Item) AlwaysExisted() bool { return i.CreatedAt == 0 }

// NeverDeleted reports whether the item has no recorded deletion time.
func (i Item) NeverDeleted() bool { return i.DeletedAt == 0 }

// withinRect reports whether the item's location falls within the
// inclusive world rectangle [bl, tr].
func (i Item) withinRect(bl, tr pos.Position) bool {
	return i.Location.X >= bl.X && i.Location.X <= tr.X &&
		i.Location.Y >= bl.Y && i.Location.Y <= tr.Y
}
