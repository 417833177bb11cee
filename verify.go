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
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/hajimehoshi/go-brepmesh/topo"
)

// ErrInvalidTriangulation is wrapped by the errors of CheckTriangulation.
var ErrInvalidTriangulation = errors.New("brepmesh: invalid triangulation")

// Info summarizes the meshes stored on a shape.
type Info struct {
	Faces     int
	Meshed    int
	Nodes     int
	Triangles int
	// Deflection is the largest deflection of a stored triangulation.
	Deflection float64
	Status     Status
}

// ShapeInfo collects the meshes stored on s.
func ShapeInfo(s *topo.Shape) Info {
	var info Info
	for _, f := range s.Faces {
		info.Faces++
		info.Status |= f.Status
		t := f.Triangulation
		if t == nil {
			continue
		}
		info.Meshed++
		info.Nodes += len(t.Nodes)
		info.Triangles += len(t.Triangles)
		info.Deflection = math.Max(info.Deflection, t.Deflection)
	}
	return info
}

// CheckTriangulation reports the first structural defect of t: a bad node
// index, a degenerated triangle, or a directed link used twice, which
// means a non-manifold or inconsistently oriented mesh.
func CheckTriangulation(t *topo.Triangulation) error {
	if len(t.UVNodes) != 0 && len(t.UVNodes) != len(t.Nodes) {
		return errors.Wrapf(ErrInvalidTriangulation, "%d nodes but %d (u, v) nodes", len(t.Nodes), len(t.UVNodes))
	}
	seen := make(map[[2]int]int, 3*len(t.Triangles))
	for i, tri := range t.Triangles {
		for _, n := range tri {
			if n < 0 || n >= len(t.Nodes) {
				return errors.Wrapf(ErrInvalidTriangulation, "triangle %d: node %d out of range", i, n)
			}
		}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[2] == tri[0] {
			return errors.Wrapf(ErrInvalidTriangulation, "triangle %d: repeated node", i)
		}
		for k := 0; k < 3; k++ {
			l := [2]int{tri[k], tri[(k+1)%3]}
			if j, ok := seen[l]; ok {
				return errors.Wrapf(ErrInvalidTriangulation, "triangles %d and %d share link %d-%d in the same direction", j, i, l[0], l[1])
			}
			seen[l] = i
		}
	}
	return nil
}

// Deviation measures how far the triangulation stored on f is from its
// surface: the largest distance between the surface and the triangles at
// their centroids and link midpoints. It returns 0 for an unmeshed face.
func Deviation(f *topo.Face) float64 {
	t := f.Triangulation
	if t == nil || len(t.UVNodes) != len(t.Nodes) {
		return 0
	}
	var dev float64
	sample := func(uv r2.Point, p r3.Vector) {
		dev = math.Max(dev, f.Surface.Value(uv.X, uv.Y).Distance(p))
	}
	for _, tri := range t.Triangles {
		uv := [3]r2.Point{t.UVNodes[tri[0]], t.UVNodes[tri[1]], t.UVNodes[tri[2]]}
		p := [3]r3.Vector{t.Nodes[tri[0]], t.Nodes[tri[1]], t.Nodes[tri[2]]}
		sample(uv[0].Add(uv[1]).Add(uv[2]).Mul(1.0/3), p[0].Add(p[1]).Add(p[2]).Mul(1.0/3))
		for k := 0; k < 3; k++ {
			sample(uv[k].Add(uv[(k+1)%3]).Mul(0.5), p[k].Add(p[(k+1)%3]).Mul(0.5))
		}
	}
	return dev
}
