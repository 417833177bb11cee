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

package delaun

import (
	"math"

	"github.com/hajimehoshi/go-brepmesh/internal/meshdata"
)

// recover makes the segment a-e a link of the given constrained kind. The
// triangles the segment crosses are removed and the two pseudo-polygons on
// either side of it are re-triangulated.
func (b *Builder) recover(a, e int, kind meshdata.LinkKind, depth int) {
	if li, ok := b.mesh.FindLink(a, e); ok && b.mesh.Link(li).TriCount() > 0 {
		b.mesh.AddLink(a, e, kind)
		return
	}
	if depth > maxRecoverDepth || a == e {
		b.selfInter = true
		return
	}

	pa, pe := b.pos(a), b.pos(e)
	seg := pe.Sub(pa)
	segLen := seg.Norm()
	onSegment := func(n int) bool {
		q := b.pos(n).Sub(pa)
		d := q.Dot(seg)
		return math.Abs(meshdata.Orient(pa, pe, b.pos(n))) <= b.tol*segLen && d > 0 && d < meshdata.Norm2(seg)
	}
	split := func(n int) {
		if k := b.mesh.Node(n).Kind; k == meshdata.NodeBoundary || k == meshdata.NodeFrontier {
			b.selfInter = true
		}
		// The segment is replaced by its two halves.
		if li, ok := b.mesh.FindLink(a, e); ok {
			b.mesh.RemoveLink(li)
		}
		b.recover(a, n, kind, depth+1)
		b.recover(n, e, kind, depth+1)
	}

	// Find the triangle around a through which the segment leaves a.
	t, right, left := -1, -1, -1
	_, around := b.mesh.Neighbors(a)
	for _, tt := range around {
		tri := b.mesh.Triangle(tt)
		var x, y int
		for k := 0; k < 3; k++ {
			if tri.Nodes[k] == a {
				x, y = tri.Nodes[(k+1)%3], tri.Nodes[(k+2)%3]
			}
		}
		if onSegment(x) {
			split(x)
			return
		}
		if onSegment(y) {
			split(y)
			return
		}
		if meshdata.Orient(pa, pe, b.pos(x)) < 0 && meshdata.Orient(pa, pe, b.pos(y)) > 0 {
			t, right, left = tt, x, y
			break
		}
	}
	if t < 0 {
		b.selfInter = true
		b.log.Warn("delaun: cannot start boundary recovery", "from", a, "to", e)
		return
	}

	crossed := []int{t}
	lchain := []int{a, left}
	rchain := []int{a, right}
	for guard := 0; ; guard++ {
		if guard > b.mesh.TriangleSlots() {
			b.selfInter = true
			return
		}
		li, ok := b.mesh.FindLink(right, left)
		if !ok {
			b.selfInter = true
			return
		}
		l := b.mesh.Link(li)
		if l.Kind.Constrained() {
			// Two constrained segments cross.
			b.selfInter = true
			b.log.Warn("delaun: boundary segments cross", "segment", [2]int{a, e}, "link", l.Nodes)
			return
		}
		next := l.OtherTri(t)
		if next < 0 {
			b.selfInter = true
			return
		}
		apex := b.mesh.Triangle(next).Apex(right, left)
		if apex == e {
			crossed = append(crossed, next)
			break
		}
		if onSegment(apex) {
			split(apex)
			return
		}
		crossed = append(crossed, next)
		if meshdata.Orient(pa, pe, b.pos(apex)) > 0 {
			lchain = append(lchain, apex)
			left = apex
		} else {
			rchain = append(rchain, apex)
			right = apex
		}
		t = next
	}
	lchain = append(lchain, e)
	rchain = append(rchain, e)

	for _, tt := range crossed {
		b.mesh.RemoveTriangle(tt)
	}
	b.fillPseudoPolygon(lchain)
	for i, j := 0, len(rchain)-1; i < j; i, j = i+1, j-1 {
		rchain[i], rchain[j] = rchain[j], rchain[i]
	}
	b.fillPseudoPolygon(rchain)

	if _, ok := b.mesh.FindLink(a, e); ok {
		b.mesh.AddLink(a, e, kind)
	}
}

// fillPseudoPolygon triangulates the polygon closed by the chord from the
// first to the last node of chain. Every inner node of chain must lie to the
// left of that chord.
func (b *Builder) fillPseudoPolygon(chain []int) {
	for _, t := range b.planFill(chain, nil) {
		b.addTriangle(t[0], t[1], t[2])
	}
}

// planFill appends the triangles fillPseudoPolygon would add to tris
// without touching the mesh.
func (b *Builder) planFill(chain []int, tris [][3]int) [][3]int {
	if len(chain) < 3 {
		return tris
	}
	a, e := chain[0], chain[len(chain)-1]
	pa, pe := b.pos(a), b.pos(e)
	ci := 1
	for i := 2; i < len(chain)-1; i++ {
		if b.inCircle(pa, pe, b.pos(chain[ci]), b.pos(chain[i])) {
			ci = i
		}
	}
	tris = append(tris, [3]int{a, e, chain[ci]})
	tris = b.planFill(chain[:ci+1], tris)
	return b.planFill(chain[ci:], tris)
}
