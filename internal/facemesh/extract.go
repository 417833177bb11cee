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
	"github.com/hajimehoshi/go-brepmesh/internal/meshdata"
	"github.com/hajimehoshi/go-brepmesh/topo"
)

// extract copies the live part of m into the persisted layout. Nodes are
// renumbered densely in the order they were registered.
func extract(f *topo.Face, m *meshdata.Mesh, wires [][]*coEdgeNodes, p Params) (*topo.Triangulation, map[*topo.CoEdge]*topo.PolygonOnTriangulation) {
	live := m.LiveTriangles()
	used := make([]bool, m.NodeCount())
	for _, t := range live {
		for _, n := range m.Triangle(t).Nodes {
			used[n] = true
		}
	}
	remap := make([]int, m.NodeCount())
	tri := &topo.Triangulation{
		Deflection: p.Deflection,
		MinSize:    p.MinSize,
	}
	for i, u := range used {
		remap[i] = -1
		if !u {
			continue
		}
		n := m.Node(i)
		remap[i] = len(tri.Nodes)
		tri.Nodes = append(tri.Nodes, n.XYZ)
		tri.UVNodes = append(tri.UVNodes, n.UV)
	}
	for _, t := range live {
		ns := m.Triangle(t).Nodes
		a, b, c := remap[ns[0]], remap[ns[1]], remap[ns[2]]
		if f.Orientation == topo.Reversed {
			b, c = c, b
		}
		tri.Triangles = append(tri.Triangles, [3]int{a, b, c})
	}

	polys := map[*topo.CoEdge]*topo.PolygonOnTriangulation{}
	for _, w := range wires {
		for _, n := range w {
			poly := &topo.PolygonOnTriangulation{
				Nodes:      make([]int, len(n.ids)),
				Parameters: append([]float64(nil), n.edge.Params...),
				Deflection: p.Deflection,
			}
			ok := true
			for i, id := range n.ids {
				poly.Nodes[i] = remap[id]
				if remap[id] < 0 {
					ok = false
				}
			}
			if ok {
				polys[n.coEdge] = poly
			}
		}
	}
	return tri, polys
}
