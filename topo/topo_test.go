package topo_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/hajimehoshi/go-brepmesh/geom"
	. "github.com/hajimehoshi/go-brepmesh/topo"
)

func rect(x0, y0, x1, y1 float64) r2.Rect {
	return r2.RectFromPoints(r2.Point{X: x0, Y: y0}, r2.Point{X: x1, Y: y1})
}

func TestNewFace(t *testing.T) {
	s := geom.NewSphere(geom.StandardFrame, 1)
	f := NewFace(s, rect(0, 0, math.Pi, math.Pi/2))
	ces := f.Wires[0].CoEdges
	if len(ces) != 4 {
		t.Fatalf("got %d co-edges, want 4", len(ces))
	}
	// The top iso line collapses onto the north pole.
	for i, ce := range ces {
		if got, want := ce.Edge.Degenerated, i == 2; got != want {
			t.Errorf("co-edge %d: Degenerated = %v, want %v", i, got, want)
		}
	}
	if p := ces[2].Edge.Pole; p.Sub(s.Value(0, math.Pi/2)).Norm() > 1e-12 {
		t.Errorf("pole: got %v", p)
	}

	// Consecutive co-edges meet in (u, v).
	for i, ce := range ces {
		next := ces[(i+1)%len(ces)]
		if end(ce).Sub(start(next)).Norm() > 1e-12 {
			t.Errorf("co-edges %d and %d do not meet", i, i+1)
		}
	}
}

func start(ce *CoEdge) r2.Point {
	if ce.Orientation == Reversed {
		return ce.PCurve.Value(ce.PCurve.LastParameter())
	}
	return ce.PCurve.Value(ce.PCurve.FirstParameter())
}

func end(ce *CoEdge) r2.Point {
	if ce.Orientation == Reversed {
		return ce.PCurve.Value(ce.PCurve.FirstParameter())
	}
	return ce.PCurve.Value(ce.PCurve.LastParameter())
}

func TestPolygonFace(t *testing.T) {
	p := geom.NewPlane(geom.StandardFrame, rect(0, 0, 3, 3))
	f := NewPolygonFace(p,
		[]r2.Point{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 3}},
		[]r2.Point{{X: 1, Y: 0.5}, {X: 1.5, Y: 1}, {X: 2, Y: 0.5}})
	if len(f.Wires) != 2 {
		t.Fatalf("got %d wires", len(f.Wires))
	}
	for _, w := range f.Wires {
		for _, ce := range w.CoEdges {
			e := ce.Edge
			for _, u := range []float64{e.Range.Lo, e.Range.Center(), e.Range.Hi} {
				uv := ce.PCurve.Value(u)
				if d := p.Value(uv.X, uv.Y).Distance(e.Value(u)); d > 1e-12 {
					t.Errorf("pcurve and curve differ by %v at %v", d, u)
				}
			}
		}
	}
}

func TestShapeEdges(t *testing.T) {
	p := geom.NewPlane(geom.StandardFrame, rect(0, 0, 2, 1))
	a := NewFace(p, rect(0, 0, 1, 1))
	b := NewFace(p, rect(1, 0, 2, 1))
	b.Wires[0].CoEdges[3].Edge = a.Wires[0].CoEdges[1].Edge
	s := NewShape(a, b)

	if got := len(s.Edges()); got != 7 {
		t.Errorf("Edges: got %d, want 7", got)
	}
	ef := s.EdgeFaces()
	if got := len(ef[a.Wires[0].CoEdges[1].Edge]); got != 2 {
		t.Errorf("shared edge has %d faces, want 2", got)
	}
	if got := len(ef[a.Wires[0].CoEdges[0].Edge]); got != 1 {
		t.Errorf("free edge has %d faces, want 1", got)
	}
}

func ExampleMeshStatus() {
	fmt.Println(MeshStatus(0))
	fmt.Println(StatusDone | StatusOutdated)
	fmt.Println(StatusFailure | StatusTooFewPoints | StatusOpenWire)
	// Output:
	// None
	// Done|Outdated
	// OpenWire|TooFewPoints|Failure
}

func TestInternalEdges(t *testing.T) {
	p := geom.NewPlane(geom.StandardFrame, rect(0, 0, 2, 2))
	f := NewFace(p, rect(0, 0, 2, 2))
	ce := NewSegmentCoEdge(p, r2.Point{X: 0.5, Y: 1}, r2.Point{X: 1.5, Y: 1})
	f.InternalEdges = []*CoEdge{ce}

	ces := f.CoEdges()
	if len(ces) != 5 || ces[4] != ce {
		t.Fatalf("CoEdges: got %d, internal edge last: %v", len(ces), ces[len(ces)-1] == ce)
	}
	if d := ce.Edge.Value(ce.Edge.Range.Hi).Sub(p.Value(1.5, 1)).Norm(); d > 1e-12 {
		t.Errorf("segment end is %v off", d)
	}
	s := NewShape(f)
	if got := len(s.Edges()); got != 5 {
		t.Errorf("Edges: got %d, want 5", got)
	}
	if got := len(s.EdgeFaces()[ce.Edge]); got != 1 {
		t.Errorf("internal edge has %d faces, want 1", got)
	}
}
