// Package binio provides a little-endian byte cursor for fixed-layout
// binary records. All GRD and IPJ structures are sequences of fixed-size
// fields; the cursor replaces manual offset arithmetic with typed reads
// and a sticky error.
package binio

import (
	"encoding/binary"
	"io"
	"math"
	"strings"
)

// Cursor reads typed little-endian fields from a byte slice.
// The first out-of-bounds read sets a sticky error; subsequent reads
// return zero values.
type Cursor struct {
	buf []byte
	off int
	err error
}

// NewCursor returns a cursor positioned at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Err returns the first error encountered, or nil.
func (c *Cursor) Err() error {
	return c.err
}

// Offset returns the current byte position.
func (c *Cursor) Offset() int {
	return c.off
}

// Seek moves the cursor to an absolute byte position.
func (c *Cursor) Seek(off int) {
	if c.err != nil {
		return
	}
	if off < 0 || off > len(c.buf) {
		c.err = io.ErrUnexpectedEOF
		return
	}
	c.off = off
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int) {
	c.Seek(c.off + n)
}

// take returns the next n bytes and advances, or nil after an error.
func (c *Cursor) take(n int) []byte {
	if c.err != nil {
		return nil
	}
	if c.off+n > len(c.buf) {
		c.err = io.ErrUnexpectedEOF
		return nil
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b
}

// Bytes returns a copy of the next n bytes.
func (c *Cursor) Bytes(n int) []byte {
	b := c.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// Int32 reads a little-endian int32.
func (c *Cursor) Int32() int32 {
	b := c.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

// Float32 reads a little-endian IEEE-754 single.
func (c *Cursor) Float32() float32 {
	b := c.take(4)
	if b == nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// Float64 reads a little-endian IEEE-754 double.
func (c *Cursor) Float64() float64 {
	b := c.take(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// Int64 reads a little-endian int64.
func (c *Cursor) Int64() int64 {
	b := c.take(8)
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

// String reads an n-byte field as ASCII text. Bytes above 0x7F are
// dropped and trailing NULs are stripped; interior NULs are kept, which
// matches how the source format pads these fields.
func (c *Cursor) String(n int) string {
	b := c.take(n)
	if b == nil {
		return ""
	}
	var sb strings.Builder
	for _, ch := range b {
		if ch < 0x80 {
			sb.WriteByte(ch)
		}
	}
	return strings.TrimRight(sb.String(), "\x00")
}
