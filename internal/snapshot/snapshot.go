// Package snapshot persists and restores a lattice.Map. The on-disk
// format mirrors the zstd-wrapped, header-then-body layout the rest of
// this codebase's teachers use for world state: a JSON header line
// identifying the format version and the instance that wrote it,
// followed by a binary body the header's version governs the meaning
// of.
package snapshot

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/HeLiuCMU/gibbsworld/internal/lattice"
	"github.com/HeLiuCMU/gibbsworld/internal/pos"
	"github.com/HeLiuCMU/gibbsworld/internal/rng"
)

// Version1 is the only body layout this package currently writes.
// Bumping the version is how a future, incompatible layout would be
// introduced without breaking readers of old snapshots: Load inspects
// Header.Version before touching the body.
const Version1 = 1

// Header identifies a snapshot independent of its body layout.
type Header struct {
	Version    int       `json:"version"`
	InstanceID uuid.UUID `json:"instance_id"`
	WrittenAt  time.Time `json:"written_at"`
}

// PayloadCodec serializes and deserializes the embedder's opaque
// per-patch payload. The core has no opinion about D beyond this
// contract; a codec that encodes nothing is valid for D = struct{}.
type PayloadCodec[D any] interface {
	WriteData(w io.Writer, d D) error
	ReadData(r io.Reader) (D, error)
}

// Save writes m's full state to w: the PRNG's textual state, n,
// gibbs_iterations, and every materialized patch with its items and
// payload. now is injected rather than read from the clock so callers
// control reproducibility in tests.
func Save[D any](w io.Writer, m *lattice.Map[D], codec PayloadCodec[D], instanceID uuid.UUID, now time.Time) error {
	header := Header{Version: Version1, InstanceID: instanceID, WrittenAt: now}
	hb, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("snapshot: marshal header: %w", err)
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("snapshot: new zstd writer: %w", err)
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := writeBody(bw, m, codec); err != nil {
		return fmt.Errorf("snapshot: write body: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return enc.Close()
}

func writeBody[D any](w io.Writer, m *lattice.Map[D], codec PayloadCodec[D]) error {
	state := m.RNG().String()
	if err := writeLengthPrefixed(w, []byte(state)); err != nil {
		return fmt.Errorf("prng state: %w", err)
	}
	if err := writeU32(w, m.N()); err != nil {
		return err
	}
	if err := writeU32(w, m.GibbsIterations()); err != nil {
		return err
	}

	count := uint32(m.PatchCount())
	if err := writeU32(w, count); err != nil {
		return err
	}

	var writeErr error
	written := uint32(0)
	m.Each(func(p pos.Position, patch *lattice.Patch[D]) bool {
		if writeErr = writePatch(w, p, patch, codec); writeErr != nil {
			return false
		}
		written++
		return true
	})
	if writeErr != nil {
		return writeErr
	}
	if written != count {
		return fmt.Errorf("patch count changed during snapshot: wrote %d, counted %d", written, count)
	}
	return nil
}

func writePatch[D any](w io.Writer, p pos.Position, patch *lattice.Patch[D], codec PayloadCodec[D]) error {
	if err := writePosition(w, p); err != nil {
		return err
	}
	fixedByte := byte(0)
	if patch.Fixed {
		fixedByte = 1
	}
	if _, err := w.Write([]byte{fixedByte}); err != nil {
		return err
	}
	if err := writeU32(w, uint32(len(patch.Items))); err != nil {
		return err
	}
	for _, item := range patch.Items {
		if err := writeItem(w, item); err != nil {
			return err
		}
	}
	return codec.WriteData(w, patch.Data)
}

func writeItem(w io.Writer, item lattice.Item) error {
	if err := writeU32(w, item.Type); err != nil {
		return err
	}
	if err := writePosition(w, item.Location); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, item.CreatedAt); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, item.DeletedAt)
}

func writePosition(w io.Writer, p pos.Position) error {
	if err := binary.Write(w, binary.LittleEndian, p.X); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, p.Y)
}

func writeU32(w io.Writer, v uint32) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func writeLengthPrefixed(w io.Writer, b []byte) error {
	if err := writeU32(w, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// Load reads a snapshot written by Save and rebuilds a Map with it.
// cache and sampler are supplied fresh by the caller, exactly as with
// NewMap: neither the Gibbs cache nor the sampler is persisted.
func Load[D any](r io.Reader, cache any, sampler lattice.FieldFactory[D], codec PayloadCodec[D]) (*lattice.Map[D], Header, error) {
	var header Header

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, header, fmt.Errorf("snapshot: new zstd reader: %w", err)
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)
	hb, err := br.ReadBytes('\n')
	if err != nil {
		return nil, header, fmt.Errorf("snapshot: read header: %w", err)
	}
	if err := json.Unmarshal(hb, &header); err != nil {
		return nil, header, fmt.Errorf("snapshot: unmarshal header: %w", err)
	}
	if header.Version != Version1 {
		return nil, header, fmt.Errorf("snapshot: unsupported version %d", header.Version)
	}

	m, err := readBody(br, cache, sampler, codec)
	if err != nil {
		return nil, header, fmt.Errorf("snapshot: read body: %w", err)
	}
	return m, header, nil
}

func readBody[D any](r io.Reader, cache any, sampler lattice.FieldFactory[D], codec PayloadCodec[D]) (*lattice.Map[D], error) {
	stateBytes, err := readLengthPrefixed(r)
	if err != nil {
		return nil, fmt.Errorf("prng state: %w", err)
	}
	prng, err := rng.ParseLCG(string(stateBytes))
	if err != nil {
		return nil, fmt.Errorf("prng state: %w", err)
	}

	n, err := readU32(r)
	if err != nil {
		return nil, err
	}
	gibbsIterations, err := readU32(r)
	if err != nil {
		return nil, err
	}

	m := lattice.NewMap(lattice.Config{N: n, GibbsIterations: gibbsIterations}, cache, sampler)
	m.SetRNG(prng)

	count, err := readU32(r)
	if err != nil {
		return nil, err
	}

	for i := uint32(0); i < count; i++ {
		p, patch, err := readPatch(r, codec)
		if err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
		m.RestorePatch(p, patch)
	}

	slog.Debug("loaded snapshot", "patches", count, "n", n, "size", humanize.Comma(int64(count)*int64(n)*int64(n)))
	return m, nil
}

func readPatch[D any](r io.Reader, codec PayloadCodec[D]) (pos.Position, *lattice.Patch[D], error) {
	p, err := readPosition(r)
	if err != nil {
		return pos.Position{}, nil, err
	}
	var fixedByte [1]byte
	if _, err := io.ReadFull(r, fixedByte[:]); err != nil {
		return pos.Position{}, nil, err
	}

	itemCount, err := readU32(r)
	if err != nil {
		return pos.Position{}, nil, err
	}
	items := make([]lattice.Item, itemCount)
	for i := range items {
		item, err := readItem(r)
		if err != nil {
			return pos.Position{}, nil, err
		}
		items[i] = item
	}

	data, err := codec.ReadData(r)
	if err != nil {
		return pos.Position{}, nil, err
	}

	return p, &lattice.Patch[D]{
		Items: items,
		Fixed: fixedByte[0] != 0,
		Data:  data,
	}, nil
}

func readItem(r io.Reader) (lattice.Item, error) {
	var item lattice.Item
	typ, err := readU32(r)
	if err != nil {
		return item, err
	}
	loc, err := readPosition(r)
	if err != nil {
		return item, err
	}
	var createdAt, deletedAt uint64
	if err := binary.Read(r, binary.LittleEndian, &createdAt); err != nil {
		return item, err
	}
	if err := binary.Read(r, binary.LittleEndian, &deletedAt); err != nil {
		return item, err
	}
	return lattice.Item{Type: typ, Location: loc, CreatedAt: createdAt, DeletedAt: deletedAt}, nil
}

func readPosition(r io.Reader) (pos.Position, error) {
	var x, y int64
	if err := binary.Read(r, binary.LittleEndian, &x); err != nil {
		return pos.Position{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &y); err != nil {
		return pos.Position{}, err
	}
	return pos.Position{X: x, Y: y}, nil
}

func readU32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readLengthPrefixed(r io.Reader) ([]byte, error) {
	n, err := readU32(r)
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
