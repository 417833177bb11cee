package discret_test

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/hajimehoshi/go-brepmesh/geom"
	. "github.com/hajimehoshi/go-brepmesh/internal/discret"
	"github.com/hajimehoshi/go-brepmesh/topo"
)

func TestLine(t *testing.T) {
	c := geom.NewSegment(r3.Vector{}, r3.Vector{X: 3, Y: 4})
	got := Curve(c, c.FirstParameter(), c.LastParameter(), Params{Deflection: 0.01, Angle: 0.5, MinSize: 0.001})
	if len(got) != 2 {
		t.Fatalf("got %d samples, want 2", len(got))
	}
	if got[0].Param != 0 || got[1].Param != 5 {
		t.Errorf("got params %v, %v", got[0].Param, got[1].Param)
	}
}

func TestCircle(t *testing.T) {
	const defl = 0.01
	c := geom.NewCircle(geom.StandardFrame, 10)
	got := Curve(c, 0, 2*math.Pi, Params{Deflection: defl, Angle: 0.5, MinSize: 0.001})
	if len(got) < 71 {
		t.Errorf("got %d samples, too few for the deflection", len(got))
	}
	if got[0].Param != 0 || got[len(got)-1].Param != 2*math.Pi {
		t.Errorf("ends: %v, %v", got[0].Param, got[len(got)-1].Param)
	}
	for i := 1; i < len(got); i++ {
		a, b := got[i-1], got[i]
		if b.Param <= a.Param {
			t.Fatalf("params not increasing at %d", i)
		}
		mid := c.Value((a.Param + b.Param) / 2)
		if d := mid.Distance(a.Point.Add(b.Point).Mul(0.5)); d > defl {
			t.Errorf("chord %d deviates by %v", i, d)
		}
	}
}

func TestDegenerated(t *testing.T) {
	pole := r3.Vector{Z: 1}
	got := Degenerated(pole, 0, math.Pi, 4)
	if len(got) != 5 {
		t.Fatalf("got %d samples, want 5", len(got))
	}
	for i, s := range got {
		if s.Point != pole {
			t.Errorf("sample %d is not at the pole", i)
		}
		if want := math.Pi * float64(i) / 4; math.Abs(s.Param-want) > 1e-15 {
			t.Errorf("sample %d: got %v, want %v", i, s.Param, want)
		}
	}
}

func TestSameParameter(t *testing.T) {
	params := []float64{0.5, 1, 2.5}
	pp := NewParameterProvider(params, true, 0, 1, nil, 1e-7)
	cur := pp.Start()
	for i, want := range params {
		var got float64
		got, cur = pp.Parameter(i, r3.Vector{}, cur)
		if got != want {
			t.Errorf("%d: got %v, want %v", i, got, want)
		}
	}
}

// TestRescaledParameters maps a circle discretized over [0, 2π] onto a
// pcurve running over [0, 1].
func TestRescaledParameters(t *testing.T) {
	const defl = 0.01
	p := geom.NewPlane(geom.StandardFrame, r2.RectFromPoints(r2.Point{X: -20, Y: -20}, r2.Point{X: 20, Y: 20}))
	f := topo.NewDisk(p, r2.Point{}, 10, false)
	ce := f.Wires[0].CoEdges[0]
	e := ce.Edge

	samples := Curve(e.Curve, e.Range.Lo, e.Range.Hi, Params{Deflection: defl, Angle: 0.5, MinSize: 0.001})
	params := make([]float64, len(samples))
	for i, s := range samples {
		params[i] = s.Param
	}
	cos := &geom.CurveOnSurface{PCurve: ce.PCurve, Surface: p}
	pp := NewParameterProvider(params, e.SameParameter, ce.PCurve.FirstParameter(), ce.PCurve.LastParameter(), cos, defl)

	cur := pp.Start()
	prev := math.Inf(-1)
	for i, s := range samples {
		var u float64
		u, cur = pp.Parameter(i, s.Point, cur)
		if u <= prev {
			t.Fatalf("%d: parameter %v does not increase from %v", i, u, prev)
		}
		prev = u
		if d := cos.Value(u).Distance(s.Point); d > 1e-6 {
			t.Errorf("%d: mapped point is %v away", i, d)
		}
	}
	if math.Abs(prev-1) > 1e-9 {
		t.Errorf("last parameter: got %v, want 1", prev)
	}
}

func TestParameterFallback(t *testing.T) {
	const defl = 0.01
	p := geom.NewPlane(geom.StandardFrame, r2.RectFromPoints(r2.Point{X: -20, Y: -20}, r2.Point{X: 20, Y: 20}))
	f := topo.NewDisk(p, r2.Point{}, 10, false)
	e := f.Wires[0].CoEdges[0].Edge

	samples := Curve(e.Curve, e.Range.Lo, e.Range.Hi, Params{Deflection: defl, Angle: 0.5, MinSize: 0.001})
	params := make([]float64, len(samples))
	for i, s := range samples {
		params[i] = s.Param
	}
	// A pcurve two units away from the 3D curve never projects within
	// tolerance, so every index falls back to the rescaled value.
	wide := topo.NewDisk(p, r2.Point{}, 12, false).Wires[0].CoEdges[0].PCurve
	cos := &geom.CurveOnSurface{PCurve: wide, Surface: p}
	pp := NewParameterProvider(params, false, wide.FirstParameter(), wide.LastParameter(), cos, defl)

	cur := pp.Start()
	for i, s := range samples {
		var u float64
		u, cur = pp.Parameter(i, s.Point, cur)
		want := (params[i] - params[0]) / (params[len(params)-1] - params[0])
		if math.Abs(u-want) > 1e-12 {
			t.Errorf("%d: got %v, want %v", i, u, want)
		}
	}
	if cur.Fallbacks != len(samples) {
		t.Errorf("Fallbacks: got %d, want %d", cur.Fallbacks, len(samples))
	}
}
