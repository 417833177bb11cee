package brepmesh

import (
	"math"
	"testing"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/hajimehoshi/go-brepmesh/geom"
	"github.com/hajimehoshi/go-brepmesh/topo"
)

func TestAbsoluteDeflection(t *testing.T) {
	for _, c := range []struct {
		size, rel, shape float64
		want             float64
	}{
		{size: 1, rel: 0.1, shape: 10, want: 0.2},
		{size: 10, rel: 0.1, shape: 10, want: 0.5},
		{size: 4, rel: 0.1, shape: 10, want: 0.5},
		{size: 0, rel: 0.1, shape: 10, want: 0.5},
		{size: 0, rel: 0.1, shape: 0, want: 0.1},
	} {
		if got := absoluteDeflection(c.size, c.rel, c.shape); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("absoluteDeflection(%v, %v, %v): got %v, want %v", c.size, c.rel, c.shape, got, c.want)
		}
	}
}

func TestRelativeDeflection(t *testing.T) {
	p, err := Parameters{Deflection: 0.1, Angle: 0.5, Relative: true}.Validate()
	if err != nil {
		t.Fatal(err)
	}
	short := &edgeJob{edge: &topo.Edge{}, box: box{hi: r3.Vector{X: 1}}}
	long := &edgeJob{edge: &topo.Edge{}, box: box{hi: r3.Vector{X: 10}}}
	short.resolve(p, 10)
	long.resolve(p, 10)
	if math.Abs(short.deflection-0.2) > 1e-12 {
		t.Errorf("short edge: got %v, want 0.2", short.deflection)
	}
	if math.Abs(long.deflection-0.5) > 1e-12 {
		t.Errorf("long edge: got %v, want 0.5", long.deflection)
	}
	if short.minSize > 0.1*short.deflection+1e-15 {
		t.Errorf("short edge min size %v not scaled", short.minSize)
	}
}

func TestEdgeReuse(t *testing.T) {
	p, err := DefaultParameters().Validate()
	if err != nil {
		t.Fatal(err)
	}
	e := &topo.Edge{
		Curve: geom.NewSegment(r3.Vector{}, r3.Vector{X: 1}),
		Range: r1.Interval{Lo: 0, Hi: 1},
	}
	j := &edgeJob{edge: e, box: edgeBox(e)}
	j.resolve(p, 1)
	j.discretize(p)
	if !j.fresh || len(j.result.Params) != 2 {
		t.Fatalf("got %d params, fresh %v", len(j.result.Params), j.fresh)
	}

	e.Polygon = &topo.Polygon3D{
		Nodes:      j.result.Points,
		Parameters: j.result.Params,
		Deflection: j.deflection / 2,
	}
	j = &edgeJob{edge: e, box: edgeBox(e)}
	j.resolve(p, 1)
	j.discretize(p)
	if j.fresh {
		t.Errorf("finer stored polygon was not reused")
	}

	p.AllowQualityDecrease = true
	j = &edgeJob{edge: e, box: edgeBox(e)}
	j.resolve(p, 1)
	j.discretize(p)
	if !j.fresh {
		t.Errorf("finer stored polygon was reused despite AllowQualityDecrease")
	}
}

func TestFaceParams(t *testing.T) {
	p, err := Parameters{Deflection: 0.1, Angle: 0.5, DeflectionInterior: 0.05}.Validate()
	if err != nil {
		t.Fatal(err)
	}
	s := geom.NewPlane(geom.StandardFrame, r2.RectFromPoints(r2.Point{}, r2.Point{X: 1, Y: 1}))
	f := topo.NewFace(s, s.Bounds)
	jobs := map[*topo.Edge]*edgeJob{}
	for _, e := range topo.NewShape(f).Edges() {
		j := &edgeJob{edge: e, box: edgeBox(e)}
		j.resolve(p, 1)
		jobs[e] = j
	}

	if got := faceParams(f, p, jobs, 1).Deflection; math.Abs(got-0.1) > 1e-12 {
		t.Errorf("got %v, want the edge average 0.1", got)
	}
	f.Tolerance = 0.2
	if got := faceParams(f, p, jobs, 1).Deflection; math.Abs(got-0.4) > 1e-12 {
		t.Errorf("got %v, want twice the tolerance", got)
	}
	p.ForceFaceDeflection = true
	if got := faceParams(f, p, jobs, 1).Deflection; math.Abs(got-0.05) > 1e-12 {
		t.Errorf("got %v, want the interior deflection", got)
	}
}
