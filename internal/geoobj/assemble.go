package geoobj

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evoconv/grd2geoscience/internal/grd"
	"github.com/evoconv/grd2geoscience/internal/ipj"
)

// cellAttributeName labels the single continuous attribute carrying the
// grid values.
const cellAttributeName = "2d-grid-data-continuous"

// Converter turns grid files into Regular2DGrid objects, persisting
// cell values through its blob store.
type Converter struct {
	Store BlobStore
}

// Convert decodes the grid at path, loads the adjacent ".gi" projection
// stream when present, persists the flattened values as Parquet and
// assembles the output object. Grid decode errors abort the
// conversion; projection errors only leave the CRS absent.
func (c *Converter) Convert(path string, tags map[string]string) (*Regular2DGrid, error) {
	grid, err := grd.Load(path)
	if err != nil {
		return nil, err
	}
	proj := ipj.Load(path + ".gi")

	base := filepath.Base(path)
	key := blobKey(base)

	blob, err := encodeParquet(Flatten(grid))
	if err != nil {
		return nil, fmt.Errorf("serializing %s: %w", path, err)
	}
	if err := c.Store.Put(key, blob); err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(base, filepath.Ext(base))

	obj := &Regular2DGrid{
		Name:        name,
		Origin:      [3]float64{grid.XOrigin, grid.YOrigin, 0.0},
		Size:        [2]int{grid.NX, grid.NY},
		CellSize:    [2]float64{grid.DX, grid.DY},
		Rotation:    rotationOf(grid),
		BoundingBox: boundingBox(grid),
		CRS:         crsOf(proj),
		CellAttributes: []ContinuousAttribute{{
			Name:           cellAttributeName,
			Key:            key,
			AttributeType:  "scalar",
			NanDescription: NanContinuous{Values: nanSentinels},
			Values: FloatArray{
				Data:     key,
				DataType: "float64",
				Length:   grid.NX * grid.NY,
				Width:    1,
			},
		}},
		Tags: objectTags(base, tags),
	}
	return obj, nil
}

// blobKey derives the stable blob key for a grid file: the lowercase
// hex SHA-256 of its basename.
func blobKey(basename string) string {
	sum := sha256.Sum256([]byte(basename))
	return strings.ToLower(hex.EncodeToString(sum[:]))
}

// crsOf maps the decoded projection to the object CRS: an EPSG
// reference when the authority is EPSG, the synthesized WKT otherwise,
// absent when no projection was decoded.
func crsOf(p *ipj.Projection) *CRS {
	if p.Authority == nil {
		return nil
	}
	if p.Authority.Authority == "EPSG" {
		return &CRS{EPSGCode: int(p.Authority.AuthoritativeID)}
	}
	return &CRS{OgcWkt: p.WKT}
}

// Flatten returns the grid values row-major as one float64 slice, the
// order the persisted column uses.
func Flatten(g *grd.Grid) []float64 {
	if len(g.Data) == 0 {
		return nil
	}
	out := make([]float64, 0, len(g.Data)*len(g.Data[0]))
	for _, row := range g.Data {
		out = append(out, row...)
	}
	return out
}

func objectTags(basename string, extra map[string]string) map[string]string {
	tags := map[string]string{
		"Source":    basename + " (via GRD converter)",
		"Stage":     "Experimental",
		"InputType": "GRD",
	}
	for k, v := range extra {
		tags[k] = v
	}
	return tags
}
