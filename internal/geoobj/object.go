// Package geoobj assembles a decoded grid and its projection into a
// Regular 2D Grid geoscience object, persisting the cell values as a
// single-column Parquet blob.
package geoobj

import (
	"math"

	"github.com/evoconv/grd2geoscience/internal/grd"
)

// NaN sentinel pair marking dummy cells in the persisted value column.
// The first value is the dummy after float32-to-float64 widening, the
// second the exact double dummy.
var nanSentinels = []float64{-1.0000000331813535e32, -1e32}

// CRS identifies the grid's coordinate reference system: either a bare
// EPSG code or a full OGC WKT string.
type CRS struct {
	EPSGCode int    `json:"epsg_code,omitempty"`
	OgcWkt   string `json:"ogc_wkt,omitempty"`
}

// Rotation is the object-schema rotation triple. Grids only rotate
// about the vertical axis, so dip and pitch are always zero.
type Rotation struct {
	Dip        float64 `json:"dip"`
	DipAzimuth float64 `json:"dip_azimuth"`
	Pitch      float64 `json:"pitch"`
}

// BoundingBox is the axis-aligned extent of the (possibly rotated)
// grid. Z is always zero for 2D grids.
type BoundingBox struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
	MinZ float64 `json:"min_z"`
	MaxZ float64 `json:"max_z"`
}

// NanContinuous lists the sentinel values treated as NaN.
type NanContinuous struct {
	Values []float64 `json:"values"`
}

// FloatArray references a persisted column of float values.
type FloatArray struct {
	Data     string `json:"data"` // blob key
	DataType string `json:"data_type"`
	Length   int    `json:"length"`
	Width    int    `json:"width"`
}

// ContinuousAttribute is one continuous-valued cell attribute.
type ContinuousAttribute struct {
	Name           string        `json:"name"`
	Key            string        `json:"key"`
	AttributeType  string        `json:"attribute_type"`
	NanDescription NanContinuous `json:"nan_description"`
	Values         FloatArray    `json:"values"`
}

// Regular2DGrid is the assembled output object.
type Regular2DGrid struct {
	Name           string                `json:"name"`
	Origin         [3]float64            `json:"origin"`
	Size           [2]int                `json:"size"`
	CellSize       [2]float64            `json:"cell_size"`
	Rotation       Rotation              `json:"rotation"`
	BoundingBox    BoundingBox           `json:"bounding_box"`
	CRS            *CRS                  `json:"coordinate_reference_system,omitempty"`
	CellAttributes []ContinuousAttribute `json:"cell_attributes"`
	Tags           map[string]string     `json:"tags,omitempty"`
}

// boundingBox computes the axis-aligned box covering the grid's four
// corners after rotation. The rectangle spans (nx-1)*dx by (ny-1)*dy
// from the origin; each corner is rotated by the grid angle and the
// min/max taken over origin and corners.
func boundingBox(g *grd.Grid) BoundingBox {
	cos := math.Cos(g.Rotation * math.Pi / 180)
	sin := math.Sin(g.Rotation * math.Pi / 180)
	dx := float64(g.NX-1) * g.DX
	dy := float64(g.NY-1) * g.DY

	var xs, ys [4]float64
	ys[0] = g.YOrigin
	ys[1] = g.YOrigin + dx*sin
	ys[2] = ys[1] + dy*cos
	ys[3] = g.YOrigin + dy*cos

	xs[0] = g.XOrigin
	xs[1] = g.XOrigin + dx*cos
	xs[2] = xs[1] - dy*sin
	xs[3] = g.XOrigin - dy*sin

	bb := BoundingBox{
		MinX: g.XOrigin, MaxX: g.XOrigin,
		MinY: g.YOrigin, MaxY: g.YOrigin,
	}
	for i := 0; i < 4; i++ {
		bb.MinX = math.Min(bb.MinX, xs[i])
		bb.MaxX = math.Max(bb.MaxX, xs[i])
		bb.MinY = math.Min(bb.MinY, ys[i])
		bb.MaxY = math.Max(bb.MaxY, ys[i])
	}
	return bb
}

// rotationOf converts the grid's stored angle (degrees from north) to
// the object schema's dip-azimuth handedness.
func rotationOf(g *grd.Grid) Rotation {
	azimuth := g.Rotation
	if azimuth != 0 {
		azimuth = 360 - azimuth
	}
	return Rotation{Dip: 0, DipAzimuth: azimuth, Pitch: 0}
}
