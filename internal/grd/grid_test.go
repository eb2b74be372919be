package grd

import (
	"encoding/binary"
	"math"
	"testing"
)

// encodeDoubles builds the little-endian byte image of a float64 array.
func encodeDoubles(vals []float64) []byte {
	buf := make([]byte, len(vals)*8)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func encodeInt32s(vals []int32) []byte {
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
	}
	return buf
}

func sequence(n int) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(i)
	}
	return vals
}

func TestLoad_UncompressedDouble(t *testing.T) {
	p := validParams()
	p.base = 0
	p.mult = 2.0
	path := writeGridFile(t, encodeHeader(p), encodeDoubles(sequence(12)))

	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if g.NX != 4 || g.NY != 3 {
		t.Errorf("dimensions = %d x %d, want 4 x 3", g.NX, g.NY)
	}
	if g.Type != TypeDouble || g.ElemSize != 8 {
		t.Errorf("type = %d size %d, want TypeDouble size 8", g.Type, g.ElemSize)
	}
	if len(g.Data) != 3 {
		t.Fatalf("rows = %d, want 3", len(g.Data))
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			want := float64(r*4+c) * 2.0
			if got := g.Data[r][c]; got != want {
				t.Errorf("Data[%d][%d] = %g, want %g", r, c, got, want)
			}
		}
	}
}

func TestLoad_RescaleWithBase(t *testing.T) {
	p := validParams()
	p.base = 1.0
	p.mult = 2.0
	path := writeGridFile(t, encodeHeader(p), encodeDoubles(sequence(12)))

	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := g.Data[0][3], (3.0-1.0)*2.0; got != want {
		t.Errorf("Data[0][3] = %g, want %g", got, want)
	}
}

func TestLoad_MultNormalization(t *testing.T) {
	tests := []struct {
		name string
		mult float64
		want float64 // effective multiplier
	}{
		{"zero becomes one", 0, 1},
		{"negative becomes positive", -3, 3},
		{"positive unchanged", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			p.mult = tt.mult
			path := writeGridFile(t, encodeHeader(p), encodeDoubles(sequence(12)))

			g, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if g.Mult != tt.want {
				t.Errorf("Mult = %g, want %g", g.Mult, tt.want)
			}
			if got, want := g.Data[1][1], 5.0*tt.want; got != want {
				t.Errorf("Data[1][1] = %g, want %g", got, want)
			}
		})
	}
}

func TestLoad_NegativeKXSwapsAxes(t *testing.T) {
	p := validParams()
	p.kx = -1
	p.de = 0.5
	p.dv = 2.5
	path := writeGridFile(t, encodeHeader(p), encodeDoubles(sequence(12)))

	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if g.NX != 3 || g.NY != 4 {
		t.Errorf("dimensions = %d x %d, want 3 x 4", g.NX, g.NY)
	}
	if g.DX != 2.5 || g.DY != 0.5 {
		t.Errorf("spacing = %g x %g, want 2.5 x 0.5", g.DX, g.DY)
	}
}

func TestLoad_ColorGrid(t *testing.T) {
	p := validParams()
	p.size = 4
	p.sign = 3
	p.base = 100
	p.mult = 7
	vals := []int32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	path := writeGridFile(t, encodeHeader(p), encodeInt32s(vals))

	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !g.Color {
		t.Errorf("Color = false, want true")
	}
	if g.Type != TypeLong {
		t.Errorf("Type = %d, want TypeLong", g.Type)
	}
	// Packed color values bypass base/mult rescaling.
	if g.Base != 0 || g.Mult != 1 {
		t.Errorf("base/mult = %g/%g, want 0/1", g.Base, g.Mult)
	}
	if got := g.Data[2][3]; got != 12 {
		t.Errorf("Data[2][3] = %g, want 12", got)
	}
}

func TestLoad_FloatGrid(t *testing.T) {
	p := validParams()
	p.size = 4
	p.sign = 2
	vals := []float32{1.5, -2.5, 3.5, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	path := writeGridFile(t, encodeHeader(p), buf)

	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if g.Type != TypeFloat {
		t.Errorf("Type = %d, want TypeFloat", g.Type)
	}
	if g.Data[0][1] != -2.5 {
		t.Errorf("Data[0][1] = %g, want -2.5", g.Data[0][1])
	}
}

func TestLoad_ElementCountCeiling(t *testing.T) {
	p := validParams()
	p.ne = 65536
	p.nv = 65536 // product exceeds the 2^31-1 element ceiling
	path := writeGridFile(t, encodeHeader(p))

	if _, err := Load(path); err == nil {
		t.Fatal("Load succeeded, want size error")
	}
}

func TestLoad_TruncatedData(t *testing.T) {
	p := validParams()
	path := writeGridFile(t, encodeHeader(p), encodeDoubles(sequence(7)))

	if _, err := Load(path); err == nil {
		t.Fatal("Load succeeded on truncated element data, want error")
	}
}

func TestLoad_Statistics(t *testing.T) {
	p := validParams()
	p.size = 4
	p.sign = 2
	p.mult = 2.0
	p.nvpts = 10 // fewer valid points than the 12 cells
	p.stats = [4]float32{-6, 14, 3, 0}
	p.variance = 8.0
	buf := make([]byte, 12*4)
	path := writeGridFile(t, encodeHeader(p), buf)

	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !g.HasStats {
		t.Fatal("HasStats = false, want true")
	}
	if g.Items != 10 {
		t.Errorf("Items = %d, want 10", g.Items)
	}
	if g.Min != -3 || g.Max != 7 || g.Mean != 1.5 {
		t.Errorf("min/max/mean = %g/%g/%g, want -3/7/1.5", g.Min, g.Max, g.Mean)
	}
	if g.Var != 2.0 {
		t.Errorf("Var = %g, want 2", g.Var)
	}
}

func TestLoad_TrendCoefficients(t *testing.T) {
	p := validParams()
	p.nvpts = 12 // not fewer than the cell count, so no stats
	p.user[0] = 1.25
	p.user[1] = -0.5
	p.user[2] = 0.125
	p.user[3] = 3
	path := writeGridFile(t, encodeHeader(p), encodeDoubles(sequence(12)))

	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if g.HasStats {
		t.Errorf("HasStats = true, want false")
	}
	if g.Trend0 != 1.25 || g.Trend1 != -0.5 || g.Trend2 != 0.125 {
		t.Errorf("trend = %g %g %g, want 1.25 -0.5 0.125", g.Trend0, g.Trend1, g.Trend2)
	}
	if g.NumTrendCoef != 3 {
		t.Errorf("NumTrendCoef = %g, want 3", g.NumTrendCoef)
	}
}
