// grdpreview renders a Geosoft grid to a grayscale quick-look image.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evoconv/grd2geoscience/internal/grd"
	"github.com/evoconv/grd2geoscience/internal/render"
)

func main() {
	format := flag.String("format", "png", "output format: png or webp")
	quality := flag.Int("quality", 85, "webp quality (1-100)")
	out := flag.String("o", "", "output file (default: input name with image extension)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: grdpreview [flags] <file.grd>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	enc, err := render.NewEncoder(*format, *quality)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	g, err := grd.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	data, err := enc.Encode(render.Image(g))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dst := *out
	if dst == "" {
		dst = strings.TrimSuffix(path, filepath.Ext(path)) + enc.FileExtension()
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%d x %d)\n", dst, g.NX, g.NY)
}
