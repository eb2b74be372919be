package geoobj

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/evoconv/grd2geoscience/internal/grd"
	"github.com/evoconv/grd2geoscience/internal/ipj"
)

// memStore records puts for assertions.
type memStore struct {
	blobs map[string][]byte
}

func (s *memStore) Put(key string, data []byte) error {
	if s.blobs == nil {
		s.blobs = map[string][]byte{}
	}
	s.blobs[key] = data
	return nil
}

// writeTestGrid writes an uncompressed 4x3 double grid under name in a
// temp dir and returns its path.
func writeTestGrid(t *testing.T, name string) string {
	t.Helper()
	le := binary.LittleEndian

	buf := make([]byte, 512)
	le.PutUint32(buf[0:], 8)                              // element size
	le.PutUint32(buf[4:], 2)                              // real
	le.PutUint32(buf[8:], 4)                              // ne
	le.PutUint32(buf[12:], 3)                             // nv
	le.PutUint32(buf[16:], 1)                             // kx
	le.PutUint64(buf[20:], math.Float64bits(1.0))         // de
	le.PutUint64(buf[28:], math.Float64bits(1.0))         // dv
	le.PutUint64(buf[36:], math.Float64bits(100.0))       // xo
	le.PutUint64(buf[44:], math.Float64bits(200.0))       // yo
	le.PutUint64(buf[68:], math.Float64bits(1.0))         // mult

	for i := 0; i < 12; i++ {
		var b [8]byte
		le.PutUint64(b[:], math.Float64bits(float64(i)))
		buf = append(buf, b[:]...)
	}

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvert_WithoutProjection(t *testing.T) {
	path := writeTestGrid(t, "test.grd")
	store := &memStore{}
	c := Converter{Store: store}

	obj, err := c.Convert(path, nil)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	// No adjacent ".gi" file: the object simply has no CRS.
	if obj.CRS != nil {
		t.Errorf("CRS = %+v, want nil", obj.CRS)
	}
	if obj.Name != "test" {
		t.Errorf("Name = %q, want test", obj.Name)
	}
	if obj.Size != [2]int{4, 3} {
		t.Errorf("Size = %v, want [4 3]", obj.Size)
	}
	if obj.Origin != [3]float64{100, 200, 0} {
		t.Errorf("Origin = %v", obj.Origin)
	}

	const wantKey = "803c8a83469323c771883f9bb7591c4d01a78c22bd97d280e1dac8a0171f4360"
	if len(obj.CellAttributes) != 1 {
		t.Fatalf("attributes = %d, want 1", len(obj.CellAttributes))
	}
	attr := obj.CellAttributes[0]
	if attr.Key != wantKey {
		t.Errorf("Key = %s, want %s", attr.Key, wantKey)
	}
	if attr.Name != "2d-grid-data-continuous" || attr.AttributeType != "scalar" {
		t.Errorf("attribute = %q/%q", attr.Name, attr.AttributeType)
	}
	if attr.Values.Length != 12 || attr.Values.Width != 1 || attr.Values.DataType != "float64" {
		t.Errorf("values = %+v", attr.Values)
	}

	blob, ok := store.blobs[wantKey]
	if !ok {
		t.Fatal("blob not stored under expected key")
	}
	if !bytes.HasPrefix(blob, []byte("PAR1")) {
		t.Error("stored blob is not a parquet file")
	}

	if obj.Tags["Stage"] != "Experimental" || obj.Tags["InputType"] != "GRD" {
		t.Errorf("tags = %v", obj.Tags)
	}
}

func TestConvert_ExtraTags(t *testing.T) {
	path := writeTestGrid(t, "test.grd")
	c := Converter{Store: &memStore{}}

	obj, err := c.Convert(path, map[string]string{"Project": "Area 51", "Stage": "Final"})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if obj.Tags["Project"] != "Area 51" {
		t.Errorf("Project tag = %q", obj.Tags["Project"])
	}
	if obj.Tags["Stage"] != "Final" {
		t.Errorf("Stage tag = %q, want caller override", obj.Tags["Stage"])
	}
}

func TestBlobKey(t *testing.T) {
	const want = "3a830378ecda6e397b460fabf95206db08ff45c99199da3963fbae8dd6916d74"
	if got := blobKey("mag_residual.grd"); got != want {
		t.Errorf("blobKey = %s, want %s", got, want)
	}
}

func TestCrsOf(t *testing.T) {
	if got := crsOf(&ipj.Projection{}); got != nil {
		t.Errorf("crsOf(empty) = %+v, want nil", got)
	}

	epsg := &ipj.Projection{Authority: &ipj.DefX3{Authority: "EPSG", AuthoritativeID: 26917}}
	if got := crsOf(epsg); got == nil || got.EPSGCode != 26917 || got.OgcWkt != "" {
		t.Errorf("crsOf(EPSG) = %+v", got)
	}

	other := &ipj.Projection{
		WKT:       `PROJCRS["custom"]`,
		Authority: &ipj.DefX3{Authority: "ESRI", AuthoritativeID: 102100},
	}
	if got := crsOf(other); got == nil || got.EPSGCode != 0 || got.OgcWkt != `PROJCRS["custom"]` {
		t.Errorf("crsOf(non-EPSG) = %+v", got)
	}
}

func TestFlatten(t *testing.T) {
	g := &grd.Grid{Data: [][]float64{{1, 2}, {3, 4}, {5, 6}}}
	got := Flatten(g)
	want := []float64{1, 2, 3, 4, 5, 6}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Flatten[%d] = %g, want %g", i, got[i], want[i])
		}
	}

	if got := Flatten(&grd.Grid{}); got != nil {
		t.Errorf("Flatten(empty) = %v, want nil", got)
	}
}

func TestRotationOf(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{30, 330},
		{90, 270},
		{-10, 370},
	}
	for _, tt := range tests {
		g := &grd.Grid{Rotation: tt.in}
		if got := rotationOf(g).DipAzimuth; got != tt.want {
			t.Errorf("rotationOf(%g) = %g, want %g", tt.in, got, tt.want)
		}
	}
}

func TestBoundingBox(t *testing.T) {
	const eps = 1e-9

	near := func(t *testing.T, name string, got, want float64) {
		t.Helper()
		if math.Abs(got-want) > eps {
			t.Errorf("%s = %g, want %g", name, got, want)
		}
	}

	t.Run("unrotated", func(t *testing.T) {
		g := &grd.Grid{NX: 4, NY: 3, DX: 2, DY: 5, XOrigin: 10, YOrigin: 20}
		bb := boundingBox(g)
		near(t, "MinX", bb.MinX, 10)
		near(t, "MaxX", bb.MaxX, 16)
		near(t, "MinY", bb.MinY, 20)
		near(t, "MaxY", bb.MaxY, 30)
		if bb.MinZ != 0 || bb.MaxZ != 0 {
			t.Errorf("Z extent = %g..%g, want 0..0", bb.MinZ, bb.MaxZ)
		}
	})

	t.Run("rotated 90", func(t *testing.T) {
		// The 2x1 rectangle swings counterclockwise onto the -X side.
		g := &grd.Grid{NX: 3, NY: 2, DX: 1, DY: 1, Rotation: 90}
		bb := boundingBox(g)
		near(t, "MinX", bb.MinX, -1)
		near(t, "MaxX", bb.MaxX, 0)
		near(t, "MinY", bb.MinY, 0)
		near(t, "MaxY", bb.MaxY, 2)
	})
}
