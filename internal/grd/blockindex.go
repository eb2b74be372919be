package grd

import (
	"fmt"
	"os"

	"github.com/evoconv/grd2geoscience/internal/binio"
)

// blockIndexSignature is the magic constant opening the compression
// sub-header.
const blockIndexSignature = -119023417

// BlockIndex describes where the compressed data blocks live: a 16-byte
// sub-header immediately after the grid header, then parallel arrays of
// 64-bit block offsets and (after 16-byte alignment) 32-bit block sizes.
type BlockIndex struct {
	Signature       int32
	Version         int32
	Blocks          int32
	VectorsPerBlock int32

	Offsets []int64
	Sizes   []int32
}

// validFor checks signature, version and that the index covers every
// vector of the grid. Both counts must be positive; two negative counts
// would otherwise pass the coverage product.
func (bi *BlockIndex) validFor(h *Header) bool {
	return bi.Signature == blockIndexSignature &&
		(bi.Version == 1 || bi.Version == 2) &&
		bi.Blocks > 0 && bi.VectorsPerBlock > 0 &&
		int64(bi.Blocks)*int64(bi.VectorsPerBlock) >= int64(h.NV)
}

// alignTo16 rounds a file offset up to the next 16-byte boundary, the
// alignment the writer uses between the offset and size arrays.
func alignTo16(off int64) int64 {
	return (off + 15) / 16 * 16
}

// ReadBlockIndex reads and validates the compression index. Unlike the
// outer header there is no fallback here: a bad index rejects the grid.
func ReadBlockIndex(f *os.File, h *Header, inverted bool) (*BlockIndex, error) {
	buf, err := readRange(f, HeaderSize, BlockIndexSize, inverted)
	if err != nil {
		return nil, fmt.Errorf("block index header: %w", err)
	}

	c := binio.NewCursor(buf)
	bi := &BlockIndex{
		Signature:       c.Int32(),
		Version:         c.Int32(),
		Blocks:          c.Int32(),
		VectorsPerBlock: c.Int32(),
	}
	if !bi.validFor(h) {
		return nil, fmt.Errorf("%w: block index signature=%d version=%d blocks=%d vectors/block=%d nv=%d",
			ErrFormat, bi.Signature, bi.Version, bi.Blocks, bi.VectorsPerBlock, h.NV)
	}

	n := int(bi.Blocks)
	off := int64(HeaderSize + BlockIndexSize)

	raw, err := readRange(f, off, n*8, inverted)
	if err != nil {
		return nil, fmt.Errorf("block offsets: %w", err)
	}
	oc := binio.NewCursor(raw)
	bi.Offsets = make([]int64, n)
	for i := range bi.Offsets {
		bi.Offsets[i] = oc.Int64()
	}

	off = alignTo16(off + int64(n)*8)
	raw, err = readRange(f, off, n*4, inverted)
	if err != nil {
		return nil, fmt.Errorf("block sizes: %w", err)
	}
	sc := binio.NewCursor(raw)
	bi.Sizes = make([]int32, n)
	for i := range bi.Sizes {
		bi.Sizes[i] = sc.Int32()
	}

	return bi, nil
}
