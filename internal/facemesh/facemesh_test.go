package facemesh

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/hajimehoshi/go-brepmesh/geom"
	"github.com/hajimehoshi/go-brepmesh/internal/discret"
	"github.com/hajimehoshi/go-brepmesh/internal/meshdata"
	"github.com/hajimehoshi/go-brepmesh/topo"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func params(defl float64) Params {
	return Params{
		Deflection:               defl,
		Angle:                    0.5,
		InteriorDeflection:       defl,
		InteriorAngle:            1,
		MinSize:                  defl / 10,
		InternalVertices:         true,
		ControlSurfaceDeflection: true,
	}
}

func discretize(f *topo.Face, p Params) map[*topo.Edge]*Edge {
	edges := map[*topo.Edge]*Edge{}
	for _, ce := range f.CoEdges() {
		e := ce.Edge
		var samples []discret.Sample
		if e.Degenerated {
			samples = discret.Degenerated(e.Pole, e.Range.Lo, e.Range.Hi, 4)
		} else {
			samples = discret.Curve(e.Curve, e.Range.Lo, e.Range.Hi, discret.Params{
				Deflection: p.Deflection,
				Angle:      p.Angle,
				MinSize:    p.MinSize,
			})
		}
		ed := &Edge{}
		for _, s := range samples {
			ed.Params = append(ed.Params, s.Param)
			ed.Points = append(ed.Points, s.Point)
		}
		edges[e] = ed
	}
	return edges
}

func meshFace(t *testing.T, f *topo.Face, p Params) Result {
	t.Helper()
	res := Mesh(f, discretize(f, p), p, nil, discard)
	if !res.Status.Has(topo.StatusDone) {
		t.Fatalf("status: %v", res.Status)
	}
	return res
}

func uvArea(tri *topo.Triangulation) float64 {
	var a float64
	for _, t := range tri.Triangles {
		a += meshdata.Orient(tri.UVNodes[t[0]], tri.UVNodes[t[1]], tri.UVNodes[t[2]]) / 2
	}
	return a
}

func rect(x0, y0, x1, y1 float64) r2.Rect {
	return r2.RectFromPoints(r2.Point{X: x0, Y: y0}, r2.Point{X: x1, Y: y1})
}

func TestPlaneSquare(t *testing.T) {
	p := geom.NewPlane(geom.StandardFrame, rect(0, 0, 1, 1))
	f := topo.NewFace(p, rect(0, 0, 1, 1))
	res := meshFace(t, f, params(0.1))
	if res.Status != topo.StatusDone {
		t.Errorf("status: got %v, want Done", res.Status)
	}
	if got := len(res.Triangulation.Nodes); got != 4 {
		t.Errorf("nodes: got %d, want 4", got)
	}
	if got := len(res.Triangulation.Triangles); got != 2 {
		t.Errorf("triangles: got %d, want 2", got)
	}
	if got := len(res.Polygons); got != 4 {
		t.Errorf("polygons: got %d, want 4", got)
	}
	for ce, poly := range res.Polygons {
		if len(poly.Nodes) != 2 {
			t.Errorf("polygon has %d nodes", len(poly.Nodes))
		}
		for i, n := range poly.Nodes {
			want := ce.Edge.Value(poly.Parameters[i])
			if d := res.Triangulation.Nodes[n].Distance(want); d > 1e-12 {
				t.Errorf("polygon node %d is %v off its edge", i, d)
			}
		}
	}
}

func TestReversedFace(t *testing.T) {
	p := geom.NewPlane(geom.StandardFrame, rect(0, 0, 2, 1))
	f := topo.NewFace(p, rect(0, 0, 2, 1))
	res := meshFace(t, f, params(0.1))
	if a := uvArea(res.Triangulation); math.Abs(a-2) > 1e-12 {
		t.Errorf("forward area: got %v, want 2", a)
	}

	f.Orientation = topo.Reversed
	res = meshFace(t, f, params(0.1))
	if a := uvArea(res.Triangulation); math.Abs(a+2) > 1e-12 {
		t.Errorf("reversed area: got %v, want -2", a)
	}
}

func TestDisk(t *testing.T) {
	p := geom.NewPlane(geom.StandardFrame, rect(-20, -20, 20, 20))
	for _, same := range []bool{true, false} {
		f := topo.NewDisk(p, r2.Point{}, 10, same)
		res := meshFace(t, f, params(0.01))
		if res.Status.Has(topo.StatusOpenWire) {
			t.Errorf("sameParameter %v: open wire", same)
		}
		ce := f.Wires[0].CoEdges[0]
		poly := res.Polygons[ce]
		if poly == nil {
			t.Fatalf("sameParameter %v: no polygon", same)
		}
		if poly.Nodes[0] != poly.Nodes[len(poly.Nodes)-1] {
			t.Errorf("sameParameter %v: polygon is not closed", same)
		}
		// The polygon area approaches πr² from below.
		if a := uvArea(res.Triangulation); a > math.Pi*100 || a < math.Pi*100*0.999 {
			t.Errorf("sameParameter %v: area %v", same, a)
		}
	}
}

func TestHoleAndInternalVertex(t *testing.T) {
	p := geom.NewPlane(geom.StandardFrame, rect(0, 0, 4, 4))
	f := topo.NewPolygonFace(p,
		[]r2.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}},
		[]r2.Point{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 1}})
	f.InternalVertices = []r2.Point{{X: 3, Y: 3}, {X: 1.5, Y: 1.5}}
	res := meshFace(t, f, params(0.1))
	if a := uvArea(res.Triangulation); math.Abs(a-15) > 1e-9 {
		t.Errorf("area: got %v, want 15", a)
	}
	var found, inHole bool
	for _, uv := range res.Triangulation.UVNodes {
		found = found || uv == (r2.Point{X: 3, Y: 3})
		inHole = inHole || uv == (r2.Point{X: 1.5, Y: 1.5})
	}
	if !found {
		t.Errorf("internal vertex missing")
	}
	if inHole {
		t.Errorf("vertex inside the hole was meshed")
	}
}

func TestSelfIntersectingWire(t *testing.T) {
	p := geom.NewPlane(geom.StandardFrame, rect(0, 0, 2, 2))
	f := topo.NewPolygonFace(p, []r2.Point{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 0, Y: 2}})
	res := Mesh(f, discretize(f, params(0.1)), params(0.1), nil, discard)
	if !res.Status.Has(topo.StatusSelfIntersectingWire) {
		t.Errorf("status: got %v", res.Status)
	}
}

func TestDegenerateWire(t *testing.T) {
	p := geom.NewPlane(geom.StandardFrame, rect(0, 0, 1, 1))
	f := topo.NewPolygonFace(p, []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}})
	res := Mesh(f, discretize(f, params(0.1)), params(0.1), nil, discard)
	if !res.Status.Has(topo.StatusFailure) || !res.Status.Has(topo.StatusTooFewPoints) {
		t.Errorf("status: got %v", res.Status)
	}
	if res.Triangulation != nil {
		t.Errorf("failed face has a triangulation")
	}
}

func TestCylinderDeflection(t *testing.T) {
	const defl = 0.01
	c := geom.NewCylinder(geom.StandardFrame, 1, 0, 1)
	f := topo.NewFace(c, rect(0, 0, math.Pi, 1))
	res := meshFace(t, f, params(defl))
	tri := res.Triangulation
	for _, tr := range tri.Triangles {
		uv := tri.UVNodes[tr[0]].Add(tri.UVNodes[tr[1]]).Add(tri.UVNodes[tr[2]]).Mul(1.0 / 3)
		ctr := tri.Nodes[tr[0]].Add(tri.Nodes[tr[1]]).Add(tri.Nodes[tr[2]]).Mul(1.0 / 3)
		if d := c.Value(uv.X, uv.Y).Distance(ctr); d > defl && !res.Status.Has(topo.StatusNotConverged) {
			t.Errorf("centroid deviation %v", d)
		}
	}
	for i, n := range tri.Nodes {
		uv := tri.UVNodes[i]
		if d := c.Value(uv.X, uv.Y).Distance(n); d > 1e-9 {
			t.Errorf("node %d is %v off the surface", i, d)
		}
	}
}

func TestUncontrolledDeflection(t *testing.T) {
	const defl = 0.001
	p := params(defl)
	p.ControlSurfaceDeflection = false
	for _, s := range []geom.Surface{
		geom.NewSphere(geom.StandardFrame, 1),
		geom.NewParaboloid(geom.StandardFrame, 1, rect(0, 0, 1, 1)),
	} {
		f := topo.NewFace(s, rect(0, 0, 1, 1))
		res := meshFace(t, f, p)
		tri := res.Triangulation
		var worst float64
		for _, tr := range tri.Triangles {
			uv := tri.UVNodes[tr[0]].Add(tri.UVNodes[tr[1]]).Add(tri.UVNodes[tr[2]]).Mul(1.0 / 3)
			ctr := tri.Nodes[tr[0]].Add(tri.Nodes[tr[1]]).Add(tri.Nodes[tr[2]]).Mul(1.0 / 3)
			worst = math.Max(worst, s.Value(uv.X, uv.Y).Distance(ctr))
		}
		// Without control the face is either within the deflection or
		// flagged.
		if worst > defl && !res.Status.Has(topo.StatusNotConverged) {
			t.Errorf("%v: deviation %v reported as %v", s.Kind(), worst, res.Status)
		}
	}
}

func TestInternalEdge(t *testing.T) {
	p := geom.NewPlane(geom.StandardFrame, rect(0, 0, 4, 4))
	f := topo.NewPolygonFace(p, []r2.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}})
	ce := topo.NewSegmentCoEdge(p, r2.Point{X: 1, Y: 2}, r2.Point{X: 3, Y: 2})
	f.InternalEdges = []*topo.CoEdge{ce}
	res := meshFace(t, f, params(0.1))
	if res.Status != topo.StatusDone {
		t.Errorf("status: got %v, want Done", res.Status)
	}
	tri := res.Triangulation
	if got := len(tri.Triangles); got != 6 {
		t.Errorf("triangles: got %d, want 6", got)
	}
	if a := uvArea(tri); math.Abs(a-16) > 1e-9 {
		t.Errorf("area: got %v, want 16", a)
	}
	poly := res.Polygons[ce]
	if poly == nil || len(poly.Nodes) != 2 {
		t.Fatalf("internal edge polygon: %v", poly)
	}
	// Both sides of the internal edge are meshed.
	a, b := poly.Nodes[0], poly.Nodes[1]
	sides := 0
	for _, tr := range tri.Triangles {
		for k := 0; k < 3; k++ {
			x, y := tr[k], tr[(k+1)%3]
			if x == a && y == b || x == b && y == a {
				sides++
			}
		}
	}
	if sides != 2 {
		t.Errorf("internal edge borders %d triangles, want 2", sides)
	}
}
