package grd

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"os"
)

// blockHeaderSize is the private sub-header prefixed to each compressed
// block payload. Its contents are opaque and skipped.
const blockHeaderSize = 16

// seekTo positions the file at offset. In the inverted layout every
// structure is addressed by its distance from the end of the file, so
// the same offset seeks end-relative instead.
func seekTo(f *os.File, offset int64, inverted bool) error {
	var err error
	if inverted {
		_, err = f.Seek(-offset, io.SeekEnd)
	} else {
		_, err = f.Seek(offset, io.SeekStart)
	}
	return err
}

// readRange reads exactly total bytes starting at offset, in fixed
// 4096-byte chunks to accommodate slow or streamed sources. A short
// chunk is an error reporting how much of the range was available.
func readRange(f *os.File, offset int64, total int, inverted bool) ([]byte, error) {
	if err := seekTo(f, offset, inverted); err != nil {
		return nil, err
	}

	buf := make([]byte, total)
	read := 0
	for read < total {
		n := rawChunk
		if total-read < n {
			n = total - read
		}
		got, err := io.ReadFull(f, buf[read:read+n])
		read += got
		if err != nil {
			return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrShortRead, total, read)
		}
	}
	return buf, nil
}

// readUncompressed reads the whole grid as one contiguous element array
// following the header.
func readUncompressed(f *os.File, n int, t ElemType, inverted bool) ([]float64, error) {
	es, err := t.ByteSize()
	if err != nil {
		return nil, err
	}
	buf, err := readRange(f, HeaderSize, n*es, inverted)
	if err != nil {
		return nil, err
	}
	return decodeElems(buf, n, t)
}

// decompressBlock reads one logical block. A block whose recorded size
// equals its uncompressed size is stored raw; otherwise the 16-byte
// private sub-header is skipped and the remainder is zlib-decompressed
// in bounded chunks. A decompressed payload shorter than blockElems is
// truncated to what is available rather than rejected; some writers
// produce short final blocks and files in the wild depend on this.
func decompressBlock(f *os.File, offset int64, compSize, blockElems int, t ElemType, inverted bool) ([]float64, error) {
	es, err := t.ByteSize()
	if err != nil {
		return nil, err
	}

	if compSize == blockElems*es {
		buf, err := readRange(f, offset, compSize, inverted)
		if err != nil {
			return nil, err
		}
		return decodeElems(buf, blockElems, t)
	}

	if err := seekTo(f, offset+blockHeaderSize, inverted); err != nil {
		return nil, err
	}

	// Short reads of the compressed payload are tolerated; whatever was
	// available is handed to the decompressor.
	payload := compSize - blockHeaderSize
	comp := make([]byte, 0, payload)
	chunk := make([]byte, zlibChunk)
	for len(comp) < payload {
		n := zlibChunk
		if payload-len(comp) < n {
			n = payload - len(comp)
		}
		got, rerr := io.ReadFull(f, chunk[:n])
		comp = append(comp, chunk[:got]...)
		if rerr != nil {
			break
		}
	}

	zr, err := zlib.NewReader(bytes.NewReader(comp))
	if err != nil {
		return nil, fmt.Errorf("%w: block at offset %d: %v", ErrFormat, offset, err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%w: decompressing block at offset %d: %v", ErrFormat, offset, err)
	}

	actual := len(out) / es
	if actual > blockElems {
		actual = blockElems
	}
	return decodeElems(out, actual, t)
}

// readCompressed reads every logical block in index order and
// concatenates them into one flat element array.
func readCompressed(f *os.File, h *Header, bi *BlockIndex, t ElemType, inverted bool) ([]float64, error) {
	es, err := t.ByteSize()
	if err != nil {
		return nil, err
	}

	vectorBytes := int(h.NE) * es
	vectorsPerBlock := blockTarget / vectorBytes
	if vectorsPerBlock < 1 {
		vectorsPerBlock = 1
	}
	blockElems := int(bi.VectorsPerBlock) * int(h.NE)
	numBlocks := (int(h.NV)-1)/vectorsPerBlock + 1

	if numBlocks > len(bi.Offsets) || numBlocks > len(bi.Sizes) {
		return nil, fmt.Errorf("%w: %d blocks needed, index holds %d", ErrFormat, numBlocks, len(bi.Offsets))
	}

	flat := make([]float64, 0, int(h.NE)*int(h.NV))
	for i := 0; i < numBlocks; i++ {
		block, err := decompressBlock(f, bi.Offsets[i], int(bi.Sizes[i]), blockElems, t, inverted)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		flat = append(flat, block...)
	}
	return flat, nil
}
