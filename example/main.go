//go:build example
// +build example

package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"

	"github.com/golang/geo/r2"
	"github.com/hajimehoshi/ebiten"
	"github.com/hajimehoshi/ebiten/ebitenutil"

	"github.com/hajimehoshi/go-brepmesh"
	"github.com/hajimehoshi/go-brepmesh/geom"
	"github.com/hajimehoshi/go-brepmesh/topo"
)

const (
	screenWidth  = 640
	screenHeight = 480
	margin       = 20
)

var (
	flagDeflection = flag.Float64("deflection", 0.01, "linear deflection")
	flagSurface    = flag.String("surface", "sphere", "sphere, cylinder, torus or paraboloid")
	flagParallel   = flag.Bool("parallel", false, "mesh faces in parallel")
)

func face(kind string) *topo.Face {
	rect := func(x0, y0, x1, y1 float64) r2.Rect {
		return r2.RectFromPoints(r2.Point{X: x0, Y: y0}, r2.Point{X: x1, Y: y1})
	}
	switch kind {
	case "cylinder":
		return topo.NewFace(geom.NewCylinder(geom.StandardFrame, 1, 0, 2), rect(0, 0, 2*math.Pi, 2))
	case "torus":
		return topo.NewFace(geom.NewTorus(geom.StandardFrame, 3, 1), rect(0, 0, math.Pi, math.Pi))
	case "paraboloid":
		return topo.NewFace(geom.NewParaboloid(geom.StandardFrame, 1, rect(-1, -1, 1, 1)), rect(-1, -1, 1, 1))
	}
	return topo.NewFace(geom.NewSphere(geom.StandardFrame, 1), rect(0, -1.2, math.Pi, 1.2))
}

type viewer struct {
	face *topo.Face
	info string
	// bounds of the (u, v) nodes
	lo, hi r2.Point
}

func newViewer(f *topo.Face, info string) *viewer {
	v := &viewer{face: f, info: info}
	b := r2.EmptyRect()
	for _, uv := range f.Triangulation.UVNodes {
		b = b.AddPoint(uv)
	}
	v.lo, v.hi = b.Lo(), b.Hi()
	return v
}

func (v *viewer) project(uv r2.Point) (float64, float64) {
	w := float64(screenWidth - 2*margin)
	h := float64(screenHeight - 2*margin)
	s := math.Min(w/(v.hi.X-v.lo.X), h/(v.hi.Y-v.lo.Y))
	return margin + (uv.X-v.lo.X)*s, screenHeight - margin - (uv.Y-v.lo.Y)*s
}

func (v *viewer) update(screen *ebiten.Image) error {
	if ebiten.IsDrawingSkipped() {
		return nil
	}
	t := v.face.Triangulation
	clr := color.RGBA{0x80, 0xc0, 0xff, 0xff}
	for _, tri := range t.Triangles {
		for k := 0; k < 3; k++ {
			x0, y0 := v.project(t.UVNodes[tri[k]])
			x1, y1 := v.project(t.UVNodes[tri[(k+1)%3]])
			ebitenutil.DrawLine(screen, x0, y0, x1, y1, clr)
		}
	}
	return ebitenutil.DebugPrint(screen, v.info)
}

func main() {
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f := face(*flagSurface)
	p := brepmesh.DefaultParameters()
	p.Deflection = *flagDeflection
	p.InParallel = *flagParallel
	m := brepmesh.NewIncrementalMesh(topo.NewShape(f), p, brepmesh.WithLogger(log))
	if err := m.Perform(nil); err != nil {
		panic(err)
	}
	if f.Triangulation == nil {
		fmt.Fprintf(os.Stderr, "meshing failed: %v\n", f.Status)
		os.Exit(1)
	}

	info := fmt.Sprintf("%s: %d nodes, %d triangles\nstatus %v, deviation %.4f",
		f.Surface.Kind(), len(f.Triangulation.Nodes), len(f.Triangulation.Triangles),
		f.Status, brepmesh.Deviation(f))
	v := newViewer(f, info)
	if err := ebiten.Run(v.update, screenWidth, screenHeight, 1, "brepmesh"); err != nil {
		panic(err)
	}
}
