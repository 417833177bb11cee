package delaun

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/hajimehoshi/go-brepmesh/internal/meshdata"
)

func TestRemoveVertex(t *testing.T) {
	m := meshdata.New(1e-9)
	l := loop(m, r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 0}, r2.Point{X: 1, Y: 1}, r2.Point{X: 0, Y: 1})
	b := build(t, m, [][]int{l}, nil)
	c := m.RegisterNode(r2.Point{X: 0.5, Y: 0.4}, r2.Point{}, r3.Vector{}, meshdata.NodeFree, true)
	if n, err := b.AddVertices([]int{c}, nil); err != nil || n != 1 {
		t.Fatalf("AddVertices: %d, %v", n, err)
	}
	if err := b.RemoveVertex(c); err != nil {
		t.Fatal(err)
	}
	if !m.IsNodeRemoved(c) {
		t.Errorf("node %d still present", c)
	}
	if err := m.CheckMesh(); err != nil {
		t.Error(err)
	}
	if got := len(m.LiveTriangles()); got != 2 {
		t.Errorf("triangles: got %d, want 2", got)
	}
	if got := area(m); math.Abs(got-1) > 1e-12 {
		t.Errorf("area: got %v, want 1", got)
	}
	if err := b.RemoveVertex(l[0]); !errors.Is(err, ErrFixedNode) {
		t.Errorf("RemoveVertex on a boundary node: got %v", err)
	}
}

func TestRemoveVertexKeepsDelaunay(t *testing.T) {
	m := meshdata.New(1e-9)
	l := loop(m, r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 0}, r2.Point{X: 1, Y: 1}, r2.Point{X: 0, Y: 1})
	r := rand.New(rand.NewSource(5))
	var extra []int
	for i := 0; i < 40; i++ {
		p := r2.Point{X: 0.02 + 0.96*r.Float64(), Y: 0.02 + 0.96*r.Float64()}
		extra = append(extra, m.RegisterNode(p, p, r3.Vector{}, meshdata.NodeFree, true))
	}
	b := build(t, m, [][]int{l}, extra)
	removed := 0
	for _, n := range extra[:15] {
		if err := b.RemoveVertex(n); err != nil {
			t.Errorf("RemoveVertex(%d): %v", n, err)
			continue
		}
		removed++
	}
	if err := m.CheckMesh(); err != nil {
		t.Fatal(err)
	}
	if got, want := len(m.LiveTriangles()), 2*(44-removed)-4-2; got != want {
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

func TestRemoveVertexOnInternalEdge(t *testing.T) {
	m := meshdata.New(1e-9)
	l := loop(m, r2.Point{X: 0, Y: 0}, r2.Point{X: 2, Y: 0}, r2.Point{X: 2, Y: 2}, r2.Point{X: 0, Y: 2})
	chain := []int{
		m.RegisterNode(r2.Point{X: 0.5, Y: 1}, r2.Point{}, r3.Vector{}, meshdata.NodeFree, true),
		m.RegisterNode(r2.Point{X: 1.5, Y: 1}, r2.Point{}, r3.Vector{}, meshdata.NodeFree, true),
	}
	b := New(m, 4, 4, discard)
	if err := b.LoadBoundary([][]int{l}); err != nil {
		t.Fatal(err)
	}
	if err := b.LoadInternalEdges([][]int{chain}); err != nil {
		t.Fatal(err)
	}
	if err := b.Build(nil); err != nil {
		t.Fatal(err)
	}
	before := len(m.LiveTriangles())
	if err := b.RemoveVertex(chain[0]); !errors.Is(err, ErrFixedNode) {
		t.Errorf("got %v", err)
	}
	if got := len(m.LiveTriangles()); got != before {
		t.Errorf("triangles: got %d, want %d", got, before)
	}
	if err := m.CheckMesh(); err != nil {
		t.Error(err)
	}
}
