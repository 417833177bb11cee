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

package brepmesh

import (
	"github.com/golang/geo/r2"

	"github.com/hajimehoshi/go-brepmesh/geom"
	"github.com/hajimehoshi/go-brepmesh/topo"
)

// Tessellate samples s over domain on a regular nu by nv grid. Triangles are
// counter-clockwise in (u, v).
func Tessellate(s geom.Surface, domain r2.Rect, nu, nv int) *topo.Triangulation {
	nu, nv = max(nu, 1), max(nv, 1)
	t := &topo.Triangulation{}
	for j := 0; j <= nv; j++ {
		v := domain.Y.Lo + domain.Y.Length()*float64(j)/float64(nv)
		for i := 0; i <= nu; i++ {
			u := domain.X.Lo + domain.X.Length()*float64(i)/float64(nu)
			t.UVNodes = append(t.UVNodes, r2.Point{X: u, Y: v})
			t.Nodes = append(t.Nodes, s.Value(u, v))
		}
	}
	at := func(i, j int) int {
		return j*(nu+1) + i
	}
	for j := 0; j < nv; j++ {
		for i := 0; i < nu; i++ {
			t.Triangles = append(t.Triangles,
				[3]int{at(i, j), at(i+1, j), at(i+1, j+1)},
				[3]int{at(i, j), at(i+1, j+1), at(i, j+1)})
		}
	}
	return t
}
