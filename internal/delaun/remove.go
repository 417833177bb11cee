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

	"github.com/pkg/errors"

	"github.com/hajimehoshi/go-brepmesh/internal/meshdata"
)

// ErrFixedNode is returned by RemoveVertex for nodes the triangulation must
// keep.
var ErrFixedNode = errors.New("delaun: node is fixed")

// RemoveVertex takes a free node out of a built triangulation and fills the
// hole it leaves with a Delaunay triangulation of its neighbours. Boundary
// nodes and nodes on a constrained link return ErrFixedNode. The mesh is
// left unchanged on error.
func (b *Builder) RemoveVertex(n int) error {
	if b.state != StateLegalized {
		return errors.Wrapf(ErrState, "RemoveVertex in state %v", b.state)
	}
	if n < 0 || n >= b.mesh.NodeCount() || b.mesh.IsNodeRemoved(n) {
		return errors.Errorf("delaun: no node %d", n)
	}
	if b.mesh.Node(n).Kind != meshdata.NodeFree {
		return errors.Wrapf(ErrFixedNode, "node %d has kind %d", n, b.mesh.Node(n).Kind)
	}
	links, tris := b.mesh.Neighbors(n)
	for _, li := range links {
		if l := b.mesh.Link(li); l.Kind.Constrained() || l.TriCount() != 2 {
			return errors.Wrapf(ErrFixedNode, "node %d touches link %d-%d", n, l.Nodes[0], l.Nodes[1])
		}
	}
	if len(tris) < 3 {
		return errors.Wrapf(ErrFixedNode, "node %d has %d triangles", n, len(tris))
	}

	// Each triangle (n, x, y) contributes the ring edge x->y, counterclockwise
	// around n.
	next := make(map[int]int, len(tris))
	for _, t := range tris {
		nodes := b.mesh.Triangle(t).Nodes
		for k := 0; k < 3; k++ {
			if nodes[k] == n {
				next[nodes[(k+1)%3]] = nodes[(k+2)%3]
			}
		}
	}
	ring := make([]int, 0, len(tris))
	start := b.mesh.Triangle(tris[0]).Apex(n, -1)
	for x := start; ; {
		ring = append(ring, x)
		y, ok := next[x]
		if !ok || len(ring) > len(tris) {
			return errors.Errorf("delaun: star of node %d is not closed", n)
		}
		if y == start {
			break
		}
		x = y
	}
	if len(ring) != len(tris) {
		return errors.Errorf("delaun: star of node %d is not closed", n)
	}

	// The chord from the last to the first ring node is a ring edge with the
	// hole on its left, so the reversed ring is a pseudo-polygon.
	chain := make([]int, len(ring))
	for i, x := range ring {
		chain[len(ring)-1-i] = x
	}
	plan := b.planFill(chain, nil)
	var want, got float64
	for i := range ring {
		want += meshdata.Orient(b.pos(n), b.pos(ring[i]), b.pos(ring[(i+1)%len(ring)]))
	}
	for _, t := range plan {
		o := meshdata.Orient(b.pos(t[0]), b.pos(t[1]), b.pos(t[2]))
		if o <= 0 {
			return errors.Errorf("delaun: hole of node %d cannot be refilled", n)
		}
		got += o
	}
	if len(plan) != len(ring)-2 || math.Abs(got-want) > b.tol*math.Max(1, want) {
		return errors.Errorf("delaun: hole of node %d cannot be refilled", n)
	}

	for _, t := range tris {
		b.mesh.RemoveTriangle(t)
	}
	b.mesh.RemoveNode(n)
	for _, t := range plan {
		b.addTriangle(t[0], t[1], t[2])
	}
	b.log.Debug("node removed", "node", n, "ring", len(ring))
	return nil
}
