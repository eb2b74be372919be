package grd

import (
	"fmt"
	"os"
)

// Grid is a fully decoded grid: the rescaled 2D value array plus the
// geometry and statistics derived from the header.
//
// Data is laid out as NV rows of NE values each (vector-major, the
// storage order). NX/NY and DX/DY are the axis-mapped dimensions: for
// KX == 1 the element axis is X, otherwise the axes are swapped.
type Grid struct {
	NX, NY int
	DX, DY float64

	XOrigin  float64
	YOrigin  float64
	Rotation float64
	KX       int

	Type     ElemType
	ElemSize int
	Color    bool // sign code 3: packed color values
	Base     float64
	Mult     float64

	Compressed bool
	Inverted   bool

	Data [][]float64

	// Statistics, populated only when the header's valid-point count is
	// in range. Min/Max/Mean stay at the stored dummy for float64 grids.
	HasStats bool
	Items    int
	Min      float64
	Max      float64
	Mean     float64
	Var      float64

	// Trend coefficients from the reserved user area, when present.
	Trend0, Trend1, Trend2 float64
	NumTrendCoef           float64
}

// Load opens and fully decodes a grid file.
func Load(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening grid %s: %w", path, err)
	}
	defer f.Close()

	g, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("decoding grid %s: %w", path, err)
	}
	return g, nil
}

// Read decodes a grid from an open file. The file position is not
// assumed; reads seek both forward and backward (end-relative in the
// inverted layout), so the handle must not be shared while decoding.
func Read(f *os.File) (*Grid, error) {
	h, inverted, err := ReadHeader(f)
	if err != nil {
		return nil, err
	}

	g := &Grid{
		KX:       int(h.KX),
		Rotation: h.Rot,
		XOrigin:  h.XO,
		YOrigin:  h.YO,
		Inverted: inverted,
	}
	g.setDimensions(h)

	if h.Size&compressFlag != 0 {
		g.Compressed = true
		h.Size &^= compressFlag
	}

	g.Type, err = elemTypeFor(h.Size, h.Sign)
	if err != nil {
		return nil, err
	}
	g.ElemSize, err = g.Type.ByteSize()
	if err != nil {
		return nil, err
	}

	if h.Mult == 0 {
		h.Mult = 1.0
	}
	if h.Mult < 0 {
		h.Mult = -h.Mult
	}

	// Color grids store packed channel values: force a signed 4-byte
	// interpretation with no rescaling.
	if h.Sign == 3 {
		g.Color = true
		g.Type = TypeLong
		g.ElemSize = 4
		h.Base = 0.0
		h.Mult = 1.0
	}
	g.Base = h.Base
	g.Mult = h.Mult

	if int64(h.NE)*int64(h.NV) > maxElements {
		return nil, fmt.Errorf("invalid grid size: %d x %d elements exceeds maximum", h.NE, h.NV)
	}
	if h.NE == 0 || h.NV == 0 {
		return nil, fmt.Errorf("empty grid file: number of elements cannot be zero")
	}

	g.setStats(h)

	var flat []float64
	if g.Compressed {
		bi, err := ReadBlockIndex(f, h, inverted)
		if err != nil {
			return nil, err
		}
		flat, err = readCompressed(f, h, bi, g.Type, inverted)
		if err != nil {
			return nil, err
		}
	} else {
		flat, err = readUncompressed(f, int(h.NE)*int(h.NV), g.Type, inverted)
		if err != nil {
			return nil, err
		}
	}

	g.Data, err = reshapeRescale(flat, int(h.NV), int(h.NE), h.Base, h.Mult)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// setDimensions maps the element/vector axes onto X/Y from the sense
// code. Only KX == 1 is distinguished; every other supported code takes
// the swapped branch.
func (g *Grid) setDimensions(h *Header) {
	if h.KX == 1 {
		g.DX, g.DY = h.DE, h.DV
		g.NX, g.NY = int(h.NE), int(h.NV)
	} else {
		g.DX, g.DY = h.DV, h.DE
		g.NX, g.NY = int(h.NV), int(h.NE)
	}
}

// setStats pulls summary statistics out of the header. Stored stats are
// pre-rescale, so everything is divided back by mult; double grids keep
// the dummy since the format never records stats for them.
func (g *Grid) setStats(h *Header) {
	if h.NVPts >= 0 && int64(h.NVPts) < int64(h.NE)*int64(h.NV) {
		g.HasStats = true
		g.Items = int(h.NVPts)
		g.Var = h.Var / h.Mult / h.Mult

		if g.Type == TypeDouble {
			g.Min = gridDummy
			g.Max = gridDummy
			g.Mean = gridDummy
		} else {
			g.Min = unscaleStat(float64(h.Stats[0]), h.Mult)
			g.Max = unscaleStat(float64(h.Stats[1]), h.Mult)
			g.Mean = unscaleStat(float64(h.Stats[2]), h.Mult)
		}
	}

	if float64(h.User[0]) != gridDummy {
		g.Trend0 = float64(h.User[0])
	}
	if float64(h.User[1]) != gridDummy {
		g.Trend1 = float64(h.User[1])
	}
	if float64(h.User[2]) != gridDummy {
		g.Trend2 = float64(h.User[2])
	}
	if float64(h.User[3]) != gridDummy {
		g.NumTrendCoef = float64(h.User[3])
	}
}

func unscaleStat(v, mult float64) float64 {
	if v == gridDummy {
		return v
	}
	return v / mult
}

// reshapeRescale folds the flat element array into rows x cols and
// applies (v - base) * mult elementwise.
func reshapeRescale(flat []float64, rows, cols int, base, mult float64) ([][]float64, error) {
	if len(flat) != rows*cols {
		return nil, fmt.Errorf("%w: decoded %d elements, want %d", ErrFormat, len(flat), rows*cols)
	}
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		row := make([]float64, cols)
		for c := 0; c < cols; c++ {
			row[c] = (flat[r*cols+c] - base) * mult
		}
		out[r] = row
	}
	return out, nil
}
