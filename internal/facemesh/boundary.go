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

package facemesh

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/hajimehoshi/go-brepmesh/geom"
	"github.com/hajimehoshi/go-brepmesh/internal/discret"
	"github.com/hajimehoshi/go-brepmesh/internal/meshdata"
	"github.com/hajimehoshi/go-brepmesh/topo"
)

// Edge is the discretization of one edge, shared read-only by every face
// using the edge.
type Edge struct {
	Params []float64
	Points []r3.Vector
}

// coEdgeNodes holds the nodes of one co-edge in the edge's natural order.
type coEdgeNodes struct {
	coEdge *topo.CoEdge
	edge   *Edge
	uv     []r2.Point
	ids    []int
}

// wireNodes maps the discretization of every co-edge of w onto the face's
// surface. Co-edges without a usable discretization are left out.
func wireNodes(f *topo.Face, w *topo.Wire, edges map[*topo.Edge]*Edge, tol float64) (nodes []*coEdgeNodes, fallbacks int, missing bool) {
	for _, ce := range w.CoEdges {
		ed := edges[ce.Edge]
		if ed == nil || len(ed.Params) < 2 {
			missing = true
			continue
		}
		cos := &geom.CurveOnSurface{PCurve: ce.PCurve, Surface: f.Surface}
		pp := discret.NewParameterProvider(ed.Params, ce.Edge.SameParameter,
			ce.PCurve.FirstParameter(), ce.PCurve.LastParameter(), cos, tol)
		cur := pp.Start()
		uv := make([]r2.Point, len(ed.Params))
		for i := range ed.Params {
			var t float64
			t, cur = pp.Parameter(i, ed.Points[i], cur)
			uv[i] = ce.PCurve.Value(t)
		}
		fallbacks += cur.Fallbacks
		nodes = append(nodes, &coEdgeNodes{coEdge: ce, edge: ed, uv: uv})
	}
	return nodes, fallbacks, missing
}

// register adds the nodes of a co-edge to the mesh. The ends are wire
// corners, the rest edge interior nodes.
func (n *coEdgeNodes) register(m *meshdata.Mesh, scale func(r2.Point) r2.Point) {
	n.ids = make([]int, len(n.uv))
	last := len(n.uv) - 1
	for i, uv := range n.uv {
		kind := meshdata.NodeFrontier
		if i == 0 || i == last {
			kind = meshdata.NodeBoundary
		}
		n.ids[i] = m.RegisterNode(scale(uv), uv, n.edge.Points[i], kind, true)
	}
}

// loop chains the co-edge nodes of a wire in traversal order. closed is
// false when the wire's end does not meet its start.
func loop(nodes []*coEdgeNodes) (ids []int, closed bool) {
	for _, n := range nodes {
		seq := n.ids
		if n.coEdge.Orientation == topo.Reversed {
			seq = make([]int, len(n.ids))
			for i, id := range n.ids {
				seq[len(seq)-1-i] = id
			}
		}
		for _, id := range seq {
			if len(ids) > 0 && ids[len(ids)-1] == id {
				continue
			}
			ids = append(ids, id)
		}
	}
	if len(ids) > 1 && ids[0] == ids[len(ids)-1] {
		return ids[:len(ids)-1], true
	}
	return ids, false
}

func distinctNodes(ids []int) int {
	seen := map[int]struct{}{}
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
