// Package ipj decodes the Geosoft projection record ("IPJ") stored in
// the compound-document stream that accompanies a grid file, and
// synthesizes a WKT2 coordinate reference system string from it.
//
// The blob is a chain of fixed-size records, but the region between the
// DEF_X2 record and the tail is not reliably laid out. The decoder
// therefore uses two anchors: a forward byte search for the "IPJ "
// signature to find the head, and a fixed offset from the end of the
// buffer to find the DEF_X3/DEF_X4 tail. Do not fold this into a single
// forward walk; the middle section cannot be trusted.
package ipj

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/richardlehane/mscfb"

	"github.com/evoconv/grd2geoscience/internal/binio"
)

// Record sizes in bytes.
const (
	headerSize      = 12
	orientSize      = 92
	defXSize        = 548
	defX2Size       = 64
	defX3Size       = 72
	defX4Size       = 258
	innerHeaderSize = 32 // opaque header between records
)

// Header magic values.
const (
	headerSerialID = -3401216
	headerID       = 0x49504A20 // "IPJ " little-endian
	headerVersion  = 1
)

// streamName is the compound-document stream holding the IPJ blob.
const streamName = "ipj"

// ErrFormat reports a structurally invalid IPJ blob.
var ErrFormat = errors.New("ipj: invalid format")

// Header opens the IPJ blob.
type Header struct {
	SerialID int32
	ID       int32
	Version  int32
}

func (h Header) valid() bool {
	return h.SerialID == headerSerialID && h.ID == headerID && h.Version == headerVersion
}

// DefX is the main projection definition record: names, ellipsoid,
// datum transformation and the 8 generic projection parameters.
type DefX struct {
	IPJ      string // projection set name
	ProjType int32
	Order    int32
	Warp     int32

	Datum     string
	Ellipsoid string

	Radius        float64
	Eccentricity  float64
	PrimeMeridian float64

	DatumTrf    string // datum transformation name; empty when absent
	Dx, Dy, Dz  float64
	Rx, Ry, Rz  float64
	ScaleAdjust float64

	UnitsID    string
	UnitsScale float64

	Proj   string // projection method description
	Params [8]float64
}

// Orientation describes the grid's spatial orientation record.
type Orientation struct {
	Type       int32
	Xo, Yo, Zo float64
	Params     [8]float64
}

// Orientation type codes.
const (
	OrientDefault        = 0
	OrientPlan           = 1
	OrientSection        = 2
	OrientDepthSection   = 3
	Orient3D             = 4
	OrientSectionNormal  = 5
	OrientSectionCrooked = 6
	Orient3DMatrix       = 7
)

// DefX3 carries the authority reference (for example "EPSG" plus code).
type DefX3 struct {
	Authority       string
	AuthoritativeID int32
	SafeProjType    int32
}

// DefX4 carries extended datum name strings near the end of the blob.
type DefX4 struct {
	Datum    string
	DatumTrf string
}

// Projection is the decoded result: a WKT2 string, the authority record
// for EPSG-code extraction, and the orientation and extended-name
// records carried for diagnostics.
type Projection struct {
	WKT       string
	Authority *DefX3
	Orient    Orientation
	Names     DefX4
}

func parseDefX(c *binio.Cursor) DefX {
	var x DefX
	x.IPJ = c.String(64)
	x.ProjType = c.Int32()
	x.Order = c.Int32()
	x.Warp = c.Int32()
	x.Datum = c.String(64)
	x.Ellipsoid = c.String(64)
	x.Radius = c.Float64()
	x.Eccentricity = c.Float64()
	x.PrimeMeridian = c.Float64()
	x.DatumTrf = c.String(64)
	x.Dx = c.Float64()
	x.Dy = c.Float64()
	x.Dz = c.Float64()
	x.Rx = c.Float64()
	x.Ry = c.Float64()
	x.Rz = c.Float64()
	x.ScaleAdjust = c.Float64()
	x.UnitsID = c.String(64)
	x.UnitsScale = c.Float64()
	x.Proj = c.String(64)
	for i := range x.Params {
		x.Params[i] = c.Float64()
	}
	return x
}

func parseOrientation(c *binio.Cursor) Orientation {
	var o Orientation
	o.Type = c.Int32()
	o.Xo = c.Float64()
	o.Yo = c.Float64()
	o.Zo = c.Float64()
	for i := range o.Params {
		o.Params[i] = c.Float64()
	}
	return o
}

func parseDefX3(c *binio.Cursor) DefX3 {
	var x DefX3
	x.Authority = c.String(64)
	x.AuthoritativeID = c.Int32()
	x.SafeProjType = c.Int32()
	return x
}

func parseDefX4(c *binio.Cursor) DefX4 {
	var x DefX4
	x.Datum = c.String(129)
	x.DatumTrf = c.String(129)
	return x
}

// ipjSignature is the little-endian byte pattern of the header ID.
var ipjSignature = []byte{0x20, 0x4A, 0x50, 0x49}

// initialOffset locates the IPJ header: forward search for the ID
// signature (the second header field, hence minus 4), falling back to
// offset 0 when absent. Placeholder streams without the signature do
// occur; they fail header validation downstream instead.
func initialOffset(data []byte) int {
	sig := bytes.Index(data, ipjSignature)
	if sig < 0 {
		return 0
	}
	return sig - 4
}

// Parse decodes an IPJ blob into a Projection.
func Parse(data []byte) (*Projection, error) {
	off := initialOffset(data)
	if off < 0 {
		return nil, fmt.Errorf("%w: signature before header start", ErrFormat)
	}

	c := binio.NewCursor(data)
	c.Seek(off)
	hdr := Header{SerialID: c.Int32(), ID: c.Int32(), Version: c.Int32()}
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrFormat, err)
	}
	if !hdr.valid() {
		return nil, fmt.Errorf("%w: header serial=%d id=0x%08X version=%d",
			ErrFormat, hdr.SerialID, uint32(hdr.ID), hdr.Version)
	}

	defX := parseDefX(c)
	c.Seek(off + headerSize + defXSize + innerHeaderSize)
	orient := parseOrientation(c)

	// DEF_X2 and whatever follows it are unreliable; jump straight to
	// the tail, whose distance from the end of the buffer is fixed.
	tail := len(data) - defX4Size - defX3Size - innerHeaderSize
	c.Seek(tail)
	defX3 := parseDefX3(c)
	c.Skip(innerHeaderSize)
	defX4 := parseDefX4(c)

	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	return &Projection{
		WKT:       BuildWKT(&defX, &defX3),
		Authority: &defX3,
		Orient:    orient,
		Names:     defX4,
	}, nil
}

// Load reads the projection for a grid from its adjacent ".gi"
// compound-document file. A missing file, a non-compound file, a
// missing stream or a parse failure all downgrade to an empty
// Projection: grids without a usable CRS still convert.
func Load(path string) *Projection {
	empty := &Projection{}

	f, err := os.Open(path)
	if err != nil {
		return empty
	}
	defer f.Close()

	doc, err := mscfb.New(f)
	if err != nil {
		return empty
	}

	var data []byte
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name == streamName {
			data, err = io.ReadAll(entry)
			if err != nil {
				return empty
			}
			break
		}
	}
	if data == nil {
		return empty
	}

	p, err := Parse(data)
	if err != nil {
		log.Printf("ipj: %s: %v", path, err)
		return empty
	}
	return p
}
