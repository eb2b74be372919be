// Package grd decodes Geosoft binary grid (GRD) files: a fixed 512-byte
// header stored at either end of the file, an optional compressed-block
// index, and the element data itself (raw or zlib-compressed blocks).
package grd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/evoconv/grd2geoscience/internal/binio"
)

// Fixed layout sizes and limits.
const (
	HeaderSize     = 512   // main grid header
	BlockIndexSize = 16    // compression sub-header
	compressFlag   = 0x400 // set in the header size field when blocks are compressed
	blockTarget    = 65536 // target uncompressed bytes per compression block
	maxElements    = 2147483647
	zlibChunk      = 32767 // compressed bytes fed to the decompressor per read
	rawChunk       = 4096  // raw element bytes read per syscall
)

// gridDummy marks unset statistics and trend coefficients in the header.
const gridDummy = 1.0e-32

// Decoder error classes. Wrapped errors carry file-specific context;
// callers classify with errors.Is.
var (
	ErrFormat    = errors.New("grd: invalid format")
	ErrShortRead = errors.New("grd: short read")
)

// Header is the 512-byte grid header record, decoded as stored
// (pre-rescale, compression flag still in Size).
type Header struct {
	Size int32 // element size in bytes: 1, 2, 4 or 8
	Sign int32 // 0 unsigned, 1 signed, 2 real, 3 color
	NE   int32 // elements per vector
	NV   int32 // number of vectors
	// Sense: +/-1 first point lower left, +/-2 upper left, +/-3 upper
	// right, +/-4 lower right; sign is handedness. Only +/-1 occurs in
	// practice and only the ==1 branch is meaningful downstream.
	KX int32

	DE   float64 // element separation
	DV   float64 // vector separation
	XO   float64 // lower-left X
	YO   float64 // lower-left Y
	Rot  float64 // rotation angle, degrees
	Base float64 // base removed before storage
	Mult float64 // stored values are value/mult after base removal

	Label [48]byte
	MapNo [16]byte

	Proj    int32
	Units   [3]int32
	NVPts   int32 // valid points in the grid
	Stats   [4]float32
	Var     float64
	Process int32
	User    [81]float32 // User[0..3] hold optional trend coefficients
}

// parseHeader decodes exactly HeaderSize bytes.
func parseHeader(buf []byte) (*Header, error) {
	c := binio.NewCursor(buf)
	h := &Header{}

	h.Size = c.Int32()
	h.Sign = c.Int32()
	h.NE = c.Int32()
	h.NV = c.Int32()
	h.KX = c.Int32()

	h.DE = c.Float64()
	h.DV = c.Float64()
	h.XO = c.Float64()
	h.YO = c.Float64()
	h.Rot = c.Float64()
	h.Base = c.Float64()
	h.Mult = c.Float64()

	copy(h.Label[:], c.Bytes(48))
	copy(h.MapNo[:], c.Bytes(16))

	h.Proj = c.Int32()
	for i := range h.Units {
		h.Units[i] = c.Int32()
	}
	h.NVPts = c.Int32()
	for i := range h.Stats {
		h.Stats[i] = c.Float32()
	}
	h.Var = c.Float64()
	h.Process = c.Int32()
	for i := range h.User {
		h.User[i] = c.Float32()
	}

	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("%w: grid header: %v", ErrShortRead, err)
	}
	return h, nil
}

// valid reports whether the decoded fields look like a real grid header.
// Used to pick between the start-of-file and end-of-file layouts.
func (h *Header) valid() bool {
	return (h.KX == 1 || h.KX == -1) &&
		h.NE > 0 && h.NV > 0 && h.DE > 0 && h.DV > 0
}

// ReadHeader reads and validates the grid header. The header normally
// occupies the first 512 bytes, but some writers append it instead; if
// the leading bytes fail validation the trailing 512 bytes are tried
// ("inverted" layout). Inverted is reported so later reads can mirror
// their offsets from the file end.
func ReadHeader(f *os.File) (h *Header, inverted bool, err error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, false, fmt.Errorf("stat grid file: %w", err)
	}
	size := fi.Size()
	if size < HeaderSize {
		return nil, false, fmt.Errorf("%w: file is %d bytes, header needs %d",
			ErrShortRead, size, HeaderSize)
	}

	buf := make([]byte, HeaderSize)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return nil, false, fmt.Errorf("%w: reading grid header: %v", ErrShortRead, err)
	}
	if h, err := parseHeader(buf); err == nil && h.valid() {
		return h, false, nil
	}

	if _, err := f.ReadAt(buf, size-HeaderSize); err != nil && err != io.EOF {
		return nil, false, fmt.Errorf("%w: reading trailing grid header: %v", ErrShortRead, err)
	}
	if h, err := parseHeader(buf); err == nil && h.valid() {
		return h, true, nil
	}

	return nil, false, fmt.Errorf("%w: header validates at neither start nor end of file", ErrFormat)
}
