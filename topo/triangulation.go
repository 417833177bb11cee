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

package topo

import (
	"strings"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// Triangulation is the mesh persisted on a face. Triangles index Nodes and
// are counter-clockwise with respect to the face's outward side.
type Triangulation struct {
	Nodes     []r3.Vector
	UVNodes   []r2.Point
	Triangles [][3]int

	Deflection float64
	MinSize    float64
}

// PolygonOnTriangulation lists, in edge parameter order, the nodes of a face
// triangulation lying on one edge with the edge's 3D curve parameters.
type PolygonOnTriangulation struct {
	Nodes      []int
	Parameters []float64
	Deflection float64
}

// Polygon3D is the discretization of an edge's 3D curve.
type Polygon3D struct {
	Nodes      []r3.Vector
	Parameters []float64
	Deflection float64
}

// MeshStatus is a bit set describing what happened to a face or to a run.
type MeshStatus uint32

const (
	StatusDone MeshStatus = 1 << iota
	StatusReused
	StatusOpenWire
	StatusSelfIntersectingWire
	StatusTooFewPoints
	StatusNotConverged
	StatusOutdated
	StatusUserBreak
	StatusFailure
)

var statusNames = []struct {
	flag MeshStatus
	name string
}{
	{StatusDone, "Done"},
	{StatusReused, "Reused"},
	{StatusOpenWire, "OpenWire"},
	{StatusSelfIntersectingWire, "SelfIntersectingWire"},
	{StatusTooFewPoints, "TooFewPoints"},
	{StatusNotConverged, "NotConverged"},
	{StatusOutdated, "Outdated"},
	{StatusUserBreak, "UserBreak"},
	{StatusFailure, "Failure"},
}

func (s MeshStatus) Has(flag MeshStatus) bool {
	return s&flag != 0
}

func (s MeshStatus) String() string {
	if s == 0 {
		return "None"
	}
	var names []string
	for _, n := range statusNames {
		if s.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}
