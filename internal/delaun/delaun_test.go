package delaun

import (
	"io"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/hajimehoshi/go-brepmesh/internal/meshdata"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func loop(m *meshdata.Mesh, pts ...r2.Point) []int {
	ids := make([]int, len(pts))
	for i, p := range pts {
		ids[i] = m.RegisterNode(p, p, r3.Vector{X: p.X, Y: p.Y}, meshdata.NodeBoundary, true)
	}
	return ids
}

func area(m *meshdata.Mesh) float64 {
	var a float64
	for _, t := range m.LiveTriangles() {
		n := m.Triangle(t).Nodes
		a += meshdata.Orient(m.Pos(n[0]), m.Pos(n[1]), m.Pos(n[2])) / 2
	}
	return a
}

func build(t *testing.T, m *meshdata.Mesh, loops [][]int, extra []int) *Builder {
	t.Helper()
	b := New(m, 4, 4, discard)
	if err := b.LoadBoundary(loops); err != nil {
		t.Fatal(err)
	}
	if err := b.Build(extra); err != nil {
		t.Fatal(err)
	}
	if err := m.CheckMesh(); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestSquare(t *testing.T) {
	m := meshdata.New(1e-9)
	l := loop(m, r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 0}, r2.Point{X: 1, Y: 1}, r2.Point{X: 0, Y: 1})
	b := build(t, m, [][]int{l}, nil)
	if got := b.State(); got != StateLegalized {
		t.Errorf("State: got %v", got)
	}
	if got := len(m.LiveTriangles()); got != 2 {
		t.Errorf("triangles: got %d, want 2", got)
	}
	for i := range l {
		li, ok := m.FindLink(l[i], l[(i+1)%len(l)])
		if !ok {
			t.Fatalf("boundary link %d missing", i)
		}
		if lk := m.Link(li); lk.Kind != meshdata.LinkFrontier || lk.TriCount() != 1 {
			t.Errorf("boundary link %d: kind %v, %d triangles", i, lk.Kind, lk.TriCount())
		}
	}

	c := m.RegisterNode(r2.Point{X: 0.5, Y: 0.5}, r2.Point{}, r3.Vector{}, meshdata.NodeFree, true)
	n, err := b.AddVertices([]int{c}, nil)
	if err != nil || n != 1 {
		t.Fatalf("AddVertices: %d, %v", n, err)
	}
	if got := len(m.LiveTriangles()); got != 4 {
		t.Errorf("triangles after insertion: got %d, want 4", got)
	}
	if err := m.CheckMesh(); err != nil {
		t.Error(err)
	}
	b.Finalize()
	if _, err := b.AddVertices([]int{c}, nil); !errors.Is(err, ErrState) {
		t.Errorf("AddVertices after Finalize: got %v", err)
	}
}

func TestLShape(t *testing.T) {
	m := meshdata.New(1e-9)
	l := loop(m,
		r2.Point{X: 0, Y: 0}, r2.Point{X: 2, Y: 0}, r2.Point{X: 2, Y: 1},
		r2.Point{X: 1, Y: 1}, r2.Point{X: 1, Y: 2}, r2.Point{X: 0, Y: 2})
	build(t, m, [][]int{l}, nil)
	if got := len(m.LiveTriangles()); got != 4 {
		t.Errorf("triangles: got %d, want 4", got)
	}
	if got := area(m); math.Abs(got-3) > 1e-12 {
		t.Errorf("area: got %v, want 3", got)
	}
}

func TestHole(t *testing.T) {
	m := meshdata.New(1e-9)
	outer := loop(m, r2.Point{X: 0, Y: 0}, r2.Point{X: 3, Y: 0}, r2.Point{X: 3, Y: 3}, r2.Point{X: 0, Y: 3})
	hole := loop(m, r2.Point{X: 1, Y: 1}, r2.Point{X: 1, Y: 2}, r2.Point{X: 2, Y: 2}, r2.Point{X: 2, Y: 1})
	build(t, m, [][]int{outer, hole}, nil)
	if got := len(m.LiveTriangles()); got != 8 {
		t.Errorf("triangles: got %d, want 8", got)
	}
	if got := area(m); math.Abs(got-8) > 1e-12 {
		t.Errorf("area: got %v, want 8", got)
	}
}

func TestDelaunay(t *testing.T) {
	m := meshdata.New(1e-9)
	l := loop(m, r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 0}, r2.Point{X: 1, Y: 1}, r2.Point{X: 0, Y: 1})
	r := rand.New(rand.NewSource(1))
	var extra []int
	for i := 0; i < 50; i++ {
		p := r2.Point{X: 0.02 + 0.96*r.Float64(), Y: 0.02 + 0.96*r.Float64()}
		extra = append(extra, m.RegisterNode(p, p, r3.Vector{}, meshdata.NodeFree, true))
	}
	b := build(t, m, [][]int{l}, extra)
	if b.HangDetected() {
		t.Errorf("hang detected")
	}
	if got, want := len(m.LiveTriangles()), 2*54-4-2; got != want {
		t.Errorf("triangles: got %d, want %d", got, want)
	}
	if got := area(m); math.Abs(got-1) > 1e-12 {
		t.Errorf("area: got %v, want 1", got)
	}
	for _, li := range m.LiveLinks() {
		lk := m.Link(li)
		if lk.Kind != meshdata.LinkFree {
			continue
		}
		t0, t1 := m.Triangle(lk.Tris[0]), m.Triangle(lk.Tris[1])
		x, y, z := t0.Oriented(lk.Nodes[0], lk.Nodes[1])
		d := t1.Apex(lk.Nodes[0], lk.Nodes[1])
		if v := meshdata.InCircle(m.Pos(x), m.Pos(y), m.Pos(z), m.Pos(d)); v > 1e-9 {
			t.Errorf("link %d-%d is not locally Delaunay: %v", lk.Nodes[0], lk.Nodes[1], v)
		}
	}
}

type cancelled struct{}

func (cancelled) IsCancelled() bool { return true }

func TestCancel(t *testing.T) {
	m := meshdata.New(1e-9)
	l := loop(m, r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 0}, r2.Point{X: 1, Y: 1}, r2.Point{X: 0, Y: 1})
	b := build(t, m, [][]int{l}, nil)
	c := m.RegisterNode(r2.Point{X: 0.5, Y: 0.5}, r2.Point{}, r3.Vector{}, meshdata.NodeFree, true)
	n, err := b.AddVertices([]int{c}, cancelled{})
	if !errors.Is(err, ErrCancelled) || n != 0 {
		t.Errorf("got %d, %v", n, err)
	}
}

func TestDegenerateLoop(t *testing.T) {
	m := meshdata.New(1e-9)
	l := loop(m, r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 0})
	b := New(m, 2, 2, discard)
	if err := b.LoadBoundary([][]int{l}); !errors.Is(err, ErrDegenerate) {
		t.Errorf("LoadBoundary: got %v", err)
	}
	if got := b.State(); got != StateEmpty {
		t.Errorf("State: got %v", got)
	}
	if err := b.Build(nil); !errors.Is(err, ErrState) {
		t.Errorf("Build: got %v", err)
	}
}

func TestInternalEdge(t *testing.T) {
	m := meshdata.New(1e-9)
	l := loop(m, r2.Point{X: 0, Y: 0}, r2.Point{X: 2, Y: 0}, r2.Point{X: 2, Y: 2}, r2.Point{X: 0, Y: 2})
	c := loop(m, r2.Point{X: 0.2, Y: 1}, r2.Point{X: 1, Y: 1.05}, r2.Point{X: 1.8, Y: 1})
	b := New(m, 4, 4, discard)
	if err := b.LoadBoundary([][]int{l}); err != nil {
		t.Fatal(err)
	}
	if err := b.LoadInternalEdges([][]int{c}); err != nil {
		t.Fatal(err)
	}
	if err := b.Build(nil); err != nil {
		t.Fatal(err)
	}
	if err := m.CheckMesh(); err != nil {
		t.Fatal(err)
	}
	for k := 0; k+1 < len(c); k++ {
		li, ok := m.FindLink(c[k], c[k+1])
		if !ok {
			t.Fatalf("internal link %d missing", k)
		}
		if lk := m.Link(li); lk.Kind != meshdata.LinkInternal || lk.TriCount() != 2 {
			t.Errorf("internal link %d: kind %v, %d triangles", k, lk.Kind, lk.TriCount())
		}
	}
	// 7 nodes, 4 of them on the hull.
	if got := len(m.LiveTriangles()); got != 8 {
		t.Errorf("triangles: got %d, want 8", got)
	}
	if got := area(m); math.Abs(got-4) > 1e-12 {
		t.Errorf("area: got %v, want 4", got)
	}

	// Insertions never flip or split the internal links.
	r := rand.New(rand.NewSource(2))
	var extra []int
	for i := 0; i < 30; i++ {
		p := r2.Point{X: 0.05 + 1.9*r.Float64(), Y: 0.05 + 1.9*r.Float64()}
		extra = append(extra, m.RegisterNode(p, p, r3.Vector{}, meshdata.NodeFree, true))
	}
	if _, err := b.AddVertices(extra, nil); err != nil {
		t.Fatal(err)
	}
	if err := m.CheckMesh(); err != nil {
		t.Fatal(err)
	}
	for k := 0; k+1 < len(c); k++ {
		if _, ok := m.FindLink(c[k], c[k+1]); !ok {
			t.Errorf("internal link %d lost after insertion", k)
		}
	}
}

func TestInternalEdgeInHole(t *testing.T) {
	m := meshdata.New(1e-9)
	outer := loop(m, r2.Point{X: 0, Y: 0}, r2.Point{X: 3, Y: 0}, r2.Point{X: 3, Y: 3}, r2.Point{X: 0, Y: 3})
	hole := loop(m, r2.Point{X: 1, Y: 1}, r2.Point{X: 1, Y: 2}, r2.Point{X: 2, Y: 2}, r2.Point{X: 2, Y: 1})
	c := loop(m, r2.Point{X: 1.2, Y: 1.5}, r2.Point{X: 1.8, Y: 1.5})
	b := New(m, 4, 4, discard)
	if err := b.LoadBoundary([][]int{outer, hole}); err != nil {
		t.Fatal(err)
	}
	if err := b.LoadInternalEdges([][]int{c}); err != nil {
		t.Fatal(err)
	}
	if err := b.Build(nil); err != nil {
		t.Fatal(err)
	}
	if err := m.CheckMesh(); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.FindLink(c[0], c[1]); ok {
		t.Errorf("internal link inside the hole was kept")
	}
	if got := area(m); math.Abs(got-8) > 1e-12 {
		t.Errorf("area: got %v, want 8", got)
	}
}

func TestLoadInternalEdgesErrors(t *testing.T) {
	m := meshdata.New(1e-9)
	l := loop(m, r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 0}, r2.Point{X: 1, Y: 1})
	b := New(m, 2, 2, discard)
	if err := b.LoadInternalEdges([][]int{{l[0], l[2]}}); !errors.Is(err, ErrState) {
		t.Errorf("before LoadBoundary: got %v", err)
	}
	if err := b.LoadBoundary([][]int{l}); err != nil {
		t.Fatal(err)
	}
	if err := b.LoadInternalEdges([][]int{{l[0], l[0]}}); !errors.Is(err, ErrDegenerate) {
		t.Errorf("single node chain: got %v", err)
	}
}

// cancelAfter lets n insertions through.
type cancelAfter struct {
	n int
}

func (c *cancelAfter) IsCancelled() bool {
	c.n--
	return c.n < 0
}

func TestCancelPartway(t *testing.T) {
	m := meshdata.New(1e-9)
	l := loop(m, r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 0}, r2.Point{X: 1, Y: 1}, r2.Point{X: 0, Y: 1})
	b := build(t, m, [][]int{l}, nil)
	r := rand.New(rand.NewSource(3))
	var ids []int
	for i := 0; i < 20; i++ {
		p := r2.Point{X: 0.05 + 0.9*r.Float64(), Y: 0.05 + 0.9*r.Float64()}
		ids = append(ids, m.RegisterNode(p, p, r3.Vector{}, meshdata.NodeFree, true))
	}
	n, err := b.AddVertices(ids, &cancelAfter{n: 5})
	if !errors.Is(err, ErrCancelled) || n != 5 {
		t.Fatalf("got %d, %v", n, err)
	}
	// The partial mesh is still a valid triangulation of the square.
	if err := m.CheckMesh(); err != nil {
		t.Error(err)
	}
	if got := len(m.LiveTriangles()); got != 2+2*5 {
		t.Errorf("triangles: got %d, want %d", got, 2+2*5)
	}
	if got := area(m); math.Abs(got-1) > 1e-12 {
		t.Errorf("area: got %v, want 1", got)
	}
}

func TestFlipBudget(t *testing.T) {
	m := meshdata.New(1e-9)
	l := loop(m, r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 0}, r2.Point{X: 1, Y: 1}, r2.Point{X: 0, Y: 1})
	r := rand.New(rand.NewSource(1))
	var extra []int
	for i := 0; i < 50; i++ {
		p := r2.Point{X: 0.02 + 0.96*r.Float64(), Y: 0.02 + 0.96*r.Float64()}
		extra = append(extra, m.RegisterNode(p, p, r3.Vector{}, meshdata.NodeFree, true))
	}
	b := New(m, 4, 4, discard)
	b.flipsPerNode, b.flipBase = 0, 0
	if err := b.LoadBoundary([][]int{l}); err != nil {
		t.Fatal(err)
	}
	if err := b.Build(extra); err != nil {
		t.Fatal(err)
	}
	if !b.HangDetected() {
		t.Errorf("exhausted flip budget not reported")
	}
	if err := m.CheckMesh(); err != nil {
		t.Error(err)
	}
	if got := area(m); math.Abs(got-1) > 1e-12 {
		t.Errorf("area: got %v, want 1", got)
	}
}
