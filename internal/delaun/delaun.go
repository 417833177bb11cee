// SGI FREE SOFTWARE LICENSE B (Version 2.0, Sept. 18, 2008)
// Copyright (C) [dates of first publication] Silicon Graphics, Inc.
// All Rights Reserved.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice including the dates of first publication and either this
// permission notice or a reference to http://oss.sgi.com/projects/FreeB/ shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR IMPLIED,
// INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS FOR A
// PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL SILICON GRAPHICS, INC.
// BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
// TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE
// OR OTHER DEALINGS IN THE SOFTWARE.
//
// Except as contained in this notice, the name of Silicon Graphics, Inc. shall not
// be used in advertising or otherwise to promote the sale, use or other dealings in
// this Software without prior written authorization from Silicon Graphics, Inc.

// Package delaun builds constrained Delaunay triangulations of a face's
// parameter domain.
//
// A Builder goes through four states. LoadBoundary registers the closed
// boundary loops, Build triangulates the boundary plus any extra nodes and
// removes everything outside the loops, AddVertices inserts further nodes
// into the result, and Finalize freezes it. Boundary links are never
// flipped.
package delaun

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/hajimehoshi/go-brepmesh/internal/meshdata"
)

type State int

const (
	StateEmpty State = iota
	StateBoundaryLoaded
	StateLegalized
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "Empty"
	case StateBoundaryLoaded:
		return "BoundaryLoaded"
	case StateLegalized:
		return "Legalized"
	case StateFinalized:
		return "Finalized"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrDegenerate is returned for boundary loops with fewer than three
	// distinct nodes.
	ErrDegenerate = errors.New("delaun: degenerate boundary loop")
	// ErrCancelled is returned by AddVertices when the canceller fired.
	ErrCancelled = errors.New("delaun: cancelled")
	// ErrState is returned when an operation is called out of order.
	ErrState = errors.New("delaun: operation not allowed in this state")
)

// Canceller is polled between insertions.
type Canceller interface {
	IsCancelled() bool
}

const (
	flipsPerNode     = 64
	flipBudgetBase   = 4096
	maxRecoverDepth  = 32
	locateRingRadius = 2
)

type Builder struct {
	mesh     *meshdata.Mesh
	loops    [][]int
	internal [][]int
	super [3]int
	grid  *cellGrid
	cols  int
	rows  int
	state State
	tol   float64

	flips        int
	flipBudget   int
	flipsPerNode int
	flipBase     int
	hang       bool
	selfInter  bool
	lastTri    int

	log *slog.Logger
}

// New returns a builder triangulating into m. cols and rows size the
// acceleration grid used to locate points.
func New(m *meshdata.Mesh, cols, rows int, log *slog.Logger) *Builder {
	return &Builder{
		mesh:    m,
		cols:    cols,
		rows:    rows,
		tol:     m.Tolerance(),
		lastTri: -1,
		super:   [3]int{-1, -1, -1},
		log:     log,

		flipsPerNode: flipsPerNode,
		flipBase:     flipBudgetBase,
	}
}

func (b *Builder) Mesh() *meshdata.Mesh {
	return b.mesh
}

func (b *Builder) State() State {
	return b.state
}

// HangDetected reports whether an iteration budget ran out. The mesh is
// still valid but may not be Delaunay.
func (b *Builder) HangDetected() bool {
	return b.hang
}

// SelfIntersecting reports whether the boundary could not be recovered
// because it touches or crosses itself.
func (b *Builder) SelfIntersecting() bool {
	return b.selfInter
}

// Loops returns the loaded boundary loops.
func (b *Builder) Loops() [][]int {
	return b.loops
}

func compactLoop(l []int) []int {
	out := make([]int, 0, len(l))
	for _, n := range l {
		if len(out) > 0 && out[len(out)-1] == n {
			continue
		}
		out = append(out, n)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

func distinct(l []int) int {
	seen := map[int]struct{}{}
	for _, n := range l {
		seen[n] = struct{}{}
	}
	return len(seen)
}

// LoadBoundary registers closed loops of node indices and links every
// consecutive pair, last to first included, with a frontier link. Loops
// with fewer than three distinct nodes are skipped and reported with
// ErrDegenerate; the others stay loaded.
func (b *Builder) LoadBoundary(loops [][]int) error {
	if b.state != StateEmpty {
		return errors.Wrapf(ErrState, "LoadBoundary in state %v", b.state)
	}
	var skipped []int
	for i, l := range loops {
		l = compactLoop(l)
		if distinct(l) < 3 {
			skipped = append(skipped, i)
			continue
		}
		for k := range l {
			b.mesh.AddLink(l[k], l[(k+1)%len(l)], meshdata.LinkFrontier)
		}
		b.loops = append(b.loops, l)
	}
	if len(b.loops) > 0 {
		b.state = StateBoundaryLoaded
	}
	if len(skipped) > 0 {
		return errors.Wrapf(ErrDegenerate, "loops %v", skipped)
	}
	return nil
}

// LoadInternalEdges registers open chains of node indices lying inside the
// loaded boundary. Each consecutive pair becomes an internal link, kept by
// the triangulation with triangles on both sides. Chains with fewer than two
// distinct nodes are skipped and reported with ErrDegenerate.
func (b *Builder) LoadInternalEdges(chains [][]int) error {
	if b.state != StateBoundaryLoaded {
		return errors.Wrapf(ErrState, "LoadInternalEdges in state %v", b.state)
	}
	var skipped []int
	for i, c := range chains {
		c = compactChain(c)
		if len(c) < 2 {
			skipped = append(skipped, i)
			continue
		}
		for k := 0; k+1 < len(c); k++ {
			b.mesh.AddLink(c[k], c[k+1], meshdata.LinkInternal)
		}
		b.internal = append(b.internal, c)
	}
	if len(skipped) > 0 {
		return errors.Wrapf(ErrDegenerate, "internal edges %v", skipped)
	}
	return nil
}

func compactChain(c []int) []int {
	out := make([]int, 0, len(c))
	for _, n := range c {
		if len(out) > 0 && out[len(out)-1] == n {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (b *Builder) pos(n int) r2.Point {
	return b.mesh.Pos(n)
}

func (b *Builder) resetBudget(n int) {
	b.flips = 0
	b.flipBudget = b.flipsPerNode*n + b.flipBase
}

// Build triangulates the loaded boundary together with the extra nodes,
// recovers every boundary link and removes the triangles outside the
// loops.
func (b *Builder) Build(extra []int) error {
	if b.state != StateBoundaryLoaded {
		return errors.Wrapf(ErrState, "Build in state %v", b.state)
	}
	seen := map[int]struct{}{}
	var ids []int
	add := func(n int) {
		if _, ok := seen[n]; ok || b.mesh.IsNodeRemoved(n) {
			return
		}
		seen[n] = struct{}{}
		ids = append(ids, n)
	}
	for _, l := range b.loops {
		for _, n := range l {
			add(n)
		}
	}
	for _, c := range b.internal {
		for _, n := range c {
			add(n)
		}
	}
	for _, n := range extra {
		add(n)
	}

	bound := r2.EmptyRect()
	for _, n := range ids {
		bound = bound.AddPoint(b.pos(n))
	}
	b.initSuper(bound)

	// Insert along the (1, 1) diagonal so consecutive nodes are close.
	sort.SliceStable(ids, func(i, j int) bool {
		pi, pj := b.pos(ids[i]), b.pos(ids[j])
		si, sj := pi.X+pi.Y, pj.X+pj.Y
		if si != sj {
			return si < sj
		}
		return ids[i] < ids[j]
	})
	b.resetBudget(len(ids))
	for _, n := range ids {
		if !b.insert(n) {
			if k := b.mesh.Node(n).Kind; k == meshdata.NodeBoundary || k == meshdata.NodeFrontier {
				b.selfInter = true
			}
		}
	}

	for _, l := range b.loops {
		for k := range l {
			b.recover(l[k], l[(k+1)%len(l)], meshdata.LinkFrontier, 0)
		}
	}
	for _, c := range b.internal {
		for k := 0; k+1 < len(c); k++ {
			b.recover(c[k], c[k+1], meshdata.LinkInternal, 0)
		}
	}
	b.removeExterior()
	b.dropOutsideInternal()
	b.removeSuper()
	b.state = StateLegalized

	b.log.Debug("delaun: base triangulation built",
		"nodes", len(ids),
		"triangles", len(b.mesh.LiveTriangles()),
		"flips", b.flips,
		"hang", b.hang,
		"selfIntersecting", b.selfInter)
	return nil
}

// AddVertices inserts nodes into a built triangulation and restores the
// Delaunay property around each of them. Nodes outside the triangulated
// region, on an existing node or on a boundary link are skipped. c is
// polled before each insertion.
func (b *Builder) AddVertices(ids []int, c Canceller) (int, error) {
	if b.state != StateLegalized {
		return 0, errors.Wrapf(ErrState, "AddVertices in state %v", b.state)
	}
	b.resetBudget(len(ids))
	inserted := 0
	for _, n := range ids {
		if c != nil && c.IsCancelled() {
			return inserted, ErrCancelled
		}
		if b.hang {
			break
		}
		if b.insert(n) {
			inserted++
		}
	}
	return inserted, nil
}

// Finalize freezes the triangulation.
func (b *Builder) Finalize() {
	b.state = StateFinalized
}

func (b *Builder) initSuper(bound r2.Rect) {
	c := bound.Center()
	d := math.Max(bound.X.Length(), bound.Y.Length())
	if d <= 0 || math.IsNaN(d) {
		d = 1
	}
	pts := [3]r2.Point{
		{X: c.X - 20*d, Y: c.Y - 10*d},
		{X: c.X + 20*d, Y: c.Y - 10*d},
		{X: c.X, Y: c.Y + 20*d},
	}
	for i, p := range pts {
		b.super[i] = b.mesh.RegisterNode(p, p, r3.Vector{}, meshdata.NodeFree, false)
	}
	b.grid = newCellGrid(bound, b.cols, b.rows)
	b.addTriangle(b.super[0], b.super[1], b.super[2])
}

func (b *Builder) addTriangle(x, y, z int) int {
	t := b.mesh.AddTriangle(x, y, z)
	c := b.pos(x).Add(b.pos(y)).Add(b.pos(z)).Mul(1.0 / 3)
	b.grid.add(t, c)
	b.lastTri = t
	return t
}

// inCircle reports whether d is strictly inside the circumcircle of the
// counter-clockwise triangle xyz, with a relative tolerance so cocircular
// points never flip back and forth.
func (b *Builder) inCircle(x, y, z, d r2.Point) bool {
	det := meshdata.InCircle(x, y, z, d)
	xd, yd, zd := meshdata.Norm2(x.Sub(d)), meshdata.Norm2(y.Sub(d)), meshdata.Norm2(z.Sub(d))
	return det > 1e-12*(xd*yd+yd*zd+zd*xd)
}

// contains reports whether p is inside triangle t or within the tolerance
// of it.
func (b *Builder) contains(t int, p r2.Point) bool {
	tri := b.mesh.Triangle(t)
	for k := 0; k < 3; k++ {
		a, c := b.pos(tri.Nodes[k]), b.pos(tri.Nodes[(k+1)%3])
		if meshdata.Orient(a, c, p) < -b.tol*c.Sub(a).Norm() {
			return false
		}
	}
	return true
}

func (b *Builder) locate(p r2.Point) int {
	found, start := -1, -1
	b.grid.near(p, locateRingRadius, func(t int) bool {
		if b.mesh.IsTriangleRemoved(t) {
			return false
		}
		if start < 0 {
			start = t
		}
		if b.contains(t, p) {
			found = t
			return true
		}
		return false
	})
	if found >= 0 {
		return found
	}
	if start < 0 && b.lastTri >= 0 && !b.mesh.IsTriangleRemoved(b.lastTri) {
		start = b.lastTri
	}
	if start >= 0 {
		if t := b.walk(start, p); t >= 0 {
			return t
		}
	}
	for t := 0; t < b.mesh.TriangleSlots(); t++ {
		if !b.mesh.IsTriangleRemoved(t) && b.contains(t, p) {
			return t
		}
	}
	return -1
}

// walk moves from triangle to triangle towards p. It returns -1 when it
// leaves the triangulation or runs too long.
func (b *Builder) walk(t int, p r2.Point) int {
	limit := b.mesh.TriangleSlots() + 16
	for step := 0; step < limit; step++ {
		tri := b.mesh.Triangle(t)
		next := -1
		moved := false
		for k := 0; k < 3; k++ {
			i := (k + step) % 3
			a, c := b.pos(tri.Nodes[i]), b.pos(tri.Nodes[(i+1)%3])
			if meshdata.Orient(a, c, p) < -b.tol*c.Sub(a).Norm() {
				next = b.mesh.Link(tri.Links[i]).OtherTri(t)
				moved = true
				break
			}
		}
		if !moved {
			return t
		}
		if next < 0 {
			return -1
		}
		t = next
	}
	return -1
}

// insert adds node n to the triangulation. It reports false when n could
// not be placed: outside, coincident with a node, or on a frontier link.
func (b *Builder) insert(n int) bool {
	p := b.pos(n)
	t := b.locate(p)
	if t < 0 {
		return false
	}
	tri := *b.mesh.Triangle(t)
	for _, m := range tri.Nodes {
		if b.pos(m).Sub(p).Norm() <= b.tol {
			return false
		}
	}
	for k := 0; k < 3; k++ {
		a, c := tri.Nodes[k], tri.Nodes[(k+1)%3]
		if meshdata.DistanceToSegment(p, b.pos(a), b.pos(c)) <= b.tol {
			li := tri.Links[k]
			if b.mesh.Link(li).Kind.Constrained() {
				return false
			}
			b.splitLink(li, n)
			return true
		}
	}
	b.splitTriangle(t, n)
	return true
}

func (b *Builder) splitTriangle(t, n int) {
	tri := *b.mesh.Triangle(t)
	b.mesh.RemoveTriangle(t)
	x, y, z := tri.Nodes[0], tri.Nodes[1], tri.Nodes[2]
	b.addTriangle(x, y, n)
	b.addTriangle(y, z, n)
	b.addTriangle(z, x, n)
	b.legalize(n, [][2]int{{x, y}, {y, z}, {z, x}})
}

func (b *Builder) splitLink(li, n int) {
	l := *b.mesh.Link(li)
	type side struct{ x, y, apex int }
	var sides []side
	for _, t := range l.Tris {
		if t < 0 {
			continue
		}
		x, y, apex := b.mesh.Triangle(t).Oriented(l.Nodes[0], l.Nodes[1])
		sides = append(sides, side{x, y, apex})
	}
	for _, t := range l.Tris {
		if t >= 0 {
			b.mesh.RemoveTriangle(t)
		}
	}
	var edges [][2]int
	for _, s := range sides {
		b.addTriangle(s.x, n, s.apex)
		b.addTriangle(n, s.y, s.apex)
		edges = append(edges, [2]int{s.y, s.apex}, [2]int{s.apex, s.x})
	}
	b.legalize(n, edges)
}

// legalize flips the links opposite to n until every triangle around n is
// locally Delaunay. Constrained links are never flipped.
func (b *Builder) legalize(n int, edges [][2]int) {
	stack := edges
	for len(stack) > 0 {
		if b.hang {
			return
		}
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		li, ok := b.mesh.FindLink(e[0], e[1])
		if !ok {
			continue
		}
		l := b.mesh.Link(li)
		if l.Kind.Constrained() || l.TriCount() < 2 {
			continue
		}
		tp, to := l.Tris[0], l.Tris[1]
		x, y, apex := b.mesh.Triangle(tp).Oriented(e[0], e[1])
		if apex != n {
			tp, to = to, tp
			x, y, apex = b.mesh.Triangle(tp).Oriented(e[0], e[1])
			if apex != n {
				continue
			}
		}
		d := b.mesh.Triangle(to).Apex(x, y)
		px, py, pn, pd := b.pos(x), b.pos(y), b.pos(n), b.pos(d)
		if !b.inCircle(px, py, pn, pd) {
			continue
		}
		if meshdata.Orient(px, pd, pn) <= 0 || meshdata.Orient(pd, py, pn) <= 0 {
			continue
		}
		if b.flips >= b.flipBudget {
			b.hang = true
			b.log.Warn("delaun: flip budget exhausted", "budget", b.flipBudget)
			return
		}
		b.flips++
		b.mesh.RemoveTriangle(tp)
		b.mesh.RemoveTriangle(to)
		b.addTriangle(x, d, n)
		b.addTriangle(d, y, n)
		stack = append(stack, [2]int{x, d}, [2]int{d, y})
	}
}

// removeExterior floods the triangulation from the super triangle. Crossing
// a frontier link toggles between outside and inside; triangles reached an
// even number of crossings away are outside and removed.
func (b *Builder) removeExterior() {
	depth := make([]int, b.mesh.TriangleSlots())
	for i := range depth {
		depth[i] = -1
	}
	var queue []int
	for _, s := range b.super {
		_, ts := b.mesh.Neighbors(s)
		for _, t := range ts {
			if depth[t] < 0 {
				depth[t] = 0
				queue = append(queue, t)
			}
		}
	}
	for head := 0; head < len(queue); head++ {
		t := queue[head]
		for _, li := range b.mesh.Triangle(t).Links {
			l := b.mesh.Link(li)
			o := l.OtherTri(t)
			if o < 0 || depth[o] >= 0 {
				continue
			}
			d := depth[t]
			if l.Kind == meshdata.LinkFrontier {
				d++
			}
			depth[o] = d
			queue = append(queue, o)
		}
	}
	for t, d := range depth {
		if d >= 0 && d%2 == 0 && !b.mesh.IsTriangleRemoved(t) {
			b.mesh.RemoveTriangle(t)
		}
	}
}

// dropOutsideInternal removes the internal links left without triangles by
// removeExterior. An internal link with the face on one side only runs
// along the boundary and becomes a frontier link.
func (b *Builder) dropOutsideInternal() {
	dropped := 0
	for _, c := range b.internal {
		for k := 0; k+1 < len(c); k++ {
			li, ok := b.mesh.FindLink(c[k], c[k+1])
			if !ok || b.mesh.Link(li).Kind != meshdata.LinkInternal {
				continue
			}
			switch b.mesh.Link(li).TriCount() {
			case 0:
				b.mesh.RemoveLink(li)
				dropped++
			case 1:
				b.mesh.SetLinkKind(li, meshdata.LinkFrontier)
			}
		}
	}
	if dropped > 0 {
		b.log.Warn("delaun: internal edge outside the face", "links", dropped)
	}
}

func (b *Builder) removeSuper() {
	for i, s := range b.super {
		if s < 0 {
			continue
		}
		links, _ := b.mesh.Neighbors(s)
		for _, li := range links {
			b.mesh.RemoveLink(li)
		}
		b.mesh.RemoveNode(s)
		b.super[i] = -1
	}
}
