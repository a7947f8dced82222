package lattice

// Patch is the unit of lazy materialization: an n x n tile of the lattice.
// D is the embedder's opaque per-patch payload; this package never
// inspects it beyond moving it around and handing it to a caller-supplied
// codec at snapshot time.
type Patch[D any] struct {
	Items []Item
	Fixed bool
	Data  D
}
