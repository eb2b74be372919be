// grd2obj converts a Geosoft grid file (plus its optional ".gi"
// projection sidecar) into a Regular 2D Grid object document and a
// Parquet blob of cell values.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evoconv/grd2geoscience/internal/geoobj"
)

func main() {
	out := flag.String("out", ".", "output directory for the object JSON and blob")
	tagFlags := multiFlag{}
	flag.Var(&tagFlags, "tag", "extra object tag as key=value (repeatable)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: grd2obj [flags] <file.grd>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	tags, err := tagFlags.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	conv := geoobj.Converter{Store: geoobj.DirStore{Dir: *out}}
	obj, err := conv.Convert(path, tags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	doc, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	jsonPath := filepath.Join(*out, obj.Name+".json")
	if err := os.WriteFile(jsonPath, doc, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%d x %d cells, blob %s)\n",
		jsonPath, obj.Size[0], obj.Size[1], obj.CellAttributes[0].Key)
}

// multiFlag collects repeated key=value flags.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func (m multiFlag) parse() (map[string]string, error) {
	if len(m) == 0 {
		return nil, nil
	}
	tags := make(map[string]string, len(m))
	for _, kv := range m {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid tag %q, want key=value", kv)
		}
		tags[k] = v
	}
	return tags, nil
}
