package main

import (
	"fmt"
	"os"

	"github.com/evoconv/grd2geoscience/internal/grd"
	"github.com/evoconv/grd2geoscience/internal/ipj"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: grdinfo <file.grd>\n")
		os.Exit(1)
	}
	path := os.Args[1]

	g, err := grd.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File: %s\n", path)
	fmt.Printf("Size: %d x %d cells\n", g.NX, g.NY)
	fmt.Printf("Cell size: %g x %g\n", g.DX, g.DY)
	fmt.Printf("Origin: X=%f, Y=%f\n", g.XOrigin, g.YOrigin)
	fmt.Printf("Rotation: %g\n", g.Rotation)
	fmt.Printf("Element type: %d (%d bytes)\n", g.Type, g.ElemSize)
	fmt.Printf("Compressed: %v, inverted layout: %v, color: %v\n", g.Compressed, g.Inverted, g.Color)
	fmt.Printf("Rescale: base=%g mult=%g\n", g.Base, g.Mult)

	if g.HasStats {
		fmt.Printf("Stats: items=%d min=%g max=%g mean=%g var=%g\n",
			g.Items, g.Min, g.Max, g.Mean, g.Var)
	}

	proj := ipj.Load(path + ".gi")
	if proj.Authority == nil {
		fmt.Printf("CRS: none\n")
		return
	}
	fmt.Printf("CRS authority: %s:%d\n", proj.Authority.Authority, proj.Authority.AuthoritativeID)
	fmt.Printf("WKT: %s\n", proj.WKT)
}
