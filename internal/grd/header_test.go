package grd

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// hdrParams drives the synthetic header builder. Zero values are kept
// as-is, so tests must set the validation-relevant fields explicitly.
type hdrParams struct {
	size, sign, ne, nv, kx int32
	de, dv, xo, yo         float64
	rot, base, mult        float64
	nvpts                  int32
	stats                  [4]float32
	variance               float64
	user                   [81]float32
}

// encodeHeader builds the 512-byte little-endian header record.
func encodeHeader(p hdrParams) []byte {
	buf := make([]byte, HeaderSize)
	le := binary.LittleEndian

	le.PutUint32(buf[0:], uint32(p.size))
	le.PutUint32(buf[4:], uint32(p.sign))
	le.PutUint32(buf[8:], uint32(p.ne))
	le.PutUint32(buf[12:], uint32(p.nv))
	le.PutUint32(buf[16:], uint32(p.kx))

	for i, v := range []float64{p.de, p.dv, p.xo, p.yo, p.rot, p.base, p.mult} {
		le.PutUint64(buf[20+i*8:], math.Float64bits(v))
	}

	// label (48) and mapno (16) stay zero.
	le.PutUint32(buf[156:], uint32(p.nvpts))
	for i, v := range p.stats {
		le.PutUint32(buf[160+i*4:], math.Float32bits(v))
	}
	le.PutUint64(buf[176:], math.Float64bits(p.variance))
	for i, v := range p.user {
		le.PutUint32(buf[188+i*4:], math.Float32bits(v))
	}

	return buf
}

// validParams returns a header that passes validation.
func validParams() hdrParams {
	return hdrParams{
		size: 8, sign: 2, ne: 4, nv: 3, kx: 1,
		de: 1.0, dv: 1.0, mult: 1.0,
	}
}

// writeGridFile writes a grid file into a temp dir and returns its path.
func writeGridFile(t *testing.T, parts ...[]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.grd")
	var all []byte
	for _, p := range parts {
		all = append(all, p...)
	}
	if err := os.WriteFile(path, all, 0o644); err != nil {
		t.Fatalf("writing grid file: %v", err)
	}
	return path
}

func openGridFile(t *testing.T, parts ...[]byte) *os.File {
	t.Helper()
	f, err := os.Open(writeGridFile(t, parts...))
	if err != nil {
		t.Fatalf("opening grid file: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestReadHeader_AtFileStart(t *testing.T) {
	f := openGridFile(t, encodeHeader(validParams()), make([]byte, 96))

	h, inverted, err := ReadHeader(f)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if inverted {
		t.Errorf("inverted = true, want false")
	}
	if h.NE != 4 || h.NV != 3 || h.KX != 1 {
		t.Errorf("header = ne %d nv %d kx %d, want 4 3 1", h.NE, h.NV, h.KX)
	}
	if h.DE != 1.0 || h.DV != 1.0 {
		t.Errorf("spacing = %g %g, want 1 1", h.DE, h.DV)
	}
}

func TestReadHeader_AtFileEnd(t *testing.T) {
	// Junk at the start fails validation; the trailing copy succeeds.
	f := openGridFile(t, make([]byte, 600), encodeHeader(validParams()))

	h, inverted, err := ReadHeader(f)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if !inverted {
		t.Errorf("inverted = false, want true")
	}
	if h.NE != 4 || h.NV != 3 {
		t.Errorf("header = ne %d nv %d, want 4 3", h.NE, h.NV)
	}
}

func TestReadHeader_NeitherEndValid(t *testing.T) {
	f := openGridFile(t, make([]byte, 1024))

	_, _, err := ReadHeader(f)
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("err = %v, want ErrFormat", err)
	}
}

func TestReadHeader_FileTooSmall(t *testing.T) {
	f := openGridFile(t, make([]byte, 100))

	_, _, err := ReadHeader(f)
	if !errors.Is(err, ErrShortRead) {
		t.Fatalf("err = %v, want ErrShortRead", err)
	}
}

func TestReadHeader_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*hdrParams)
	}{
		{"kx zero", func(p *hdrParams) { p.kx = 0 }},
		{"kx two", func(p *hdrParams) { p.kx = 2 }},
		{"ne zero", func(p *hdrParams) { p.ne = 0 }},
		{"nv zero", func(p *hdrParams) { p.nv = 0 }},
		{"de zero", func(p *hdrParams) { p.de = 0 }},
		{"dv negative", func(p *hdrParams) { p.dv = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			f := openGridFile(t, encodeHeader(p))

			if _, _, err := ReadHeader(f); !errors.Is(err, ErrFormat) {
				t.Errorf("err = %v, want ErrFormat", err)
			}
		})
	}
}

func TestReadHeader_NegativeKX(t *testing.T) {
	p := validParams()
	p.kx = -1
	f := openGridFile(t, encodeHeader(p), make([]byte, 96))

	h, _, err := ReadHeader(f)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.KX != -1 {
		t.Errorf("kx = %d, want -1", h.KX)
	}
}
