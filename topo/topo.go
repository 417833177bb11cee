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

// Package topo holds the boundary representation a mesher works on and the
// mesh data it writes back.
//
// A Shape owns Faces. A Face is a region of a Surface bounded by Wires; the
// first wire is the outer boundary, the others are holes. A Wire is a closed
// chain of CoEdges, each being the use of a shared Edge by one face together
// with the edge's pcurve on that face's surface.
package topo

import (
	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/hajimehoshi/go-brepmesh/geom"
)

type Orientation int

const (
	Forward Orientation = iota
	Reversed
)

// Edge is a bounded piece of a 3D curve. It is shared by the co-edges of
// every face it bounds.
type Edge struct {
	Curve geom.Curve
	Range r1.Interval

	// SameParameter reports whether the 3D curve and every pcurve of the
	// edge share one parameterization.
	SameParameter bool

	// Degenerated edges collapse to Pole in 3D, like the pole edges of a
	// sphere. Curve is nil for them.
	Degenerated bool
	Pole        r3.Vector

	Tolerance float64

	// Polygon is the discretization stored by the last run.
	Polygon *Polygon3D
}

// Value evaluates the edge's 3D curve.
func (e *Edge) Value(t float64) r3.Vector {
	if e.Degenerated {
		return e.Pole
	}
	return e.Curve.Value(t)
}

// CoEdge is the use of an Edge by one face.
type CoEdge struct {
	Edge        *Edge
	PCurve      geom.Curve2d
	Orientation Orientation

	// Polygon is written by the worker meshing the owning face.
	Polygon *PolygonOnTriangulation
}

// Wire is a closed chain of co-edges, listed in traversal order.
type Wire struct {
	CoEdges []*CoEdge
}

// Face is a trimmed region of a surface.
type Face struct {
	Surface     geom.Surface
	Wires       []*Wire
	Orientation Orientation
	Tolerance   float64

	// InternalVertices are isolated points of the face in (u, v) that the
	// mesh must contain.
	InternalVertices []r2.Point
	// InternalEdges lie inside the face without bounding it, like a seam
	// drawn on it. The mesh has triangles on both of their sides.
	InternalEdges []*CoEdge

	Triangulation *Triangulation
	Status        MeshStatus
}

// CoEdges returns the co-edges of every wire of f in traversal order,
// followed by the internal edges.
func (f *Face) CoEdges() []*CoEdge {
	var ces []*CoEdge
	for _, w := range f.Wires {
		ces = append(ces, w.CoEdges...)
	}
	return append(ces, f.InternalEdges...)
}

// Shape is a collection of faces.
type Shape struct {
	Faces []*Face
}

func NewShape(faces ...*Face) *Shape {
	return &Shape{Faces: faces}
}

// Edges returns every distinct edge of s in traversal order.
func (s *Shape) Edges() []*Edge {
	seen := map[*Edge]struct{}{}
	var edges []*Edge
	for _, f := range s.Faces {
		for _, ce := range f.CoEdges() {
			if _, ok := seen[ce.Edge]; ok {
				continue
			}
			seen[ce.Edge] = struct{}{}
			edges = append(edges, ce.Edge)
		}
	}
	return edges
}

// EdgeFaces maps every edge to the faces using it.
func (s *Shape) EdgeFaces() map[*Edge][]*Face {
	m := map[*Edge][]*Face{}
	for _, f := range s.Faces {
		for _, ce := range f.CoEdges() {
			fs := m[ce.Edge]
			if len(fs) > 0 && fs[len(fs)-1] == f {
				continue
			}
			m[ce.Edge] = append(fs, f)
		}
	}
	return m
}
