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
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/hajimehoshi/go-brepmesh/geom"
)

// NewFace returns the face of s bounded by the isoparametric lines of
// domain. Its outer wire runs counter-clockwise in (u, v). Iso lines that
// collapse to a point become degenerated edges.
func NewFace(s geom.Surface, domain r2.Rect) *Face {
	u0, u1 := domain.X.Lo, domain.X.Hi
	v0, v1 := domain.Y.Lo, domain.Y.Hi
	us := r1.Interval{Lo: u0, Hi: u1}
	vs := r1.Interval{Lo: v0, Hi: v1}

	iso := func(fixed float64, alongU bool, rng r1.Interval) *Edge {
		c := &geom.IsoCurve{Surface: s, Fixed: fixed, AlongU: alongU, Range: rng}
		e := &Edge{Curve: c, Range: rng, SameParameter: true}
		a, m, b := c.Value(rng.Lo), c.Value(rng.Center()), c.Value(rng.Hi)
		eps := 1e-12 * (1 + a.Norm())
		if a.Distance(m) <= eps && a.Distance(b) <= eps {
			e.Curve = nil
			e.Degenerated = true
			e.Pole = a
		}
		return e
	}
	line := func(origin, dir r2.Point, rng r1.Interval) *geom.Line2d {
		return &geom.Line2d{Origin: origin, Dir: dir, Range: rng}
	}

	w := &Wire{CoEdges: []*CoEdge{
		{Edge: iso(v0, true, us), PCurve: line(r2.Point{Y: v0}, r2.Point{X: 1}, us)},
		{Edge: iso(u1, false, vs), PCurve: line(r2.Point{X: u1}, r2.Point{Y: 1}, vs)},
		{Edge: iso(v1, true, us), PCurve: line(r2.Point{Y: v1}, r2.Point{X: 1}, us), Orientation: Reversed},
		{Edge: iso(u0, false, vs), PCurve: line(r2.Point{X: u0}, r2.Point{Y: 1}, vs), Orientation: Reversed},
	}}
	return &Face{Surface: s, Wires: []*Wire{w}}
}

// NewPolygonFace returns a planar face bounded by straight edges through
// outer and, for each hole, through the hole's points. Points are in the
// plane's (u, v) coordinates.
func NewPolygonFace(p *geom.Plane, outer []r2.Point, holes ...[]r2.Point) *Face {
	f := &Face{Surface: p}
	f.Wires = append(f.Wires, polygonWire(p, outer))
	for _, h := range holes {
		f.Wires = append(f.Wires, polygonWire(p, h))
	}
	return f
}

func polygonWire(p *geom.Plane, pts []r2.Point) *Wire {
	w := &Wire{}
	vs := make([]r3.Vector, len(pts))
	for i, pt := range pts {
		vs[i] = p.Value(pt.X, pt.Y)
	}
	for i := range pts {
		j := (i + 1) % len(pts)
		w.CoEdges = append(w.CoEdges, segment(vs[i], vs[j], pts[i], pts[j]))
	}
	return w
}

func segment(a, b r3.Vector, ua, ub r2.Point) *CoEdge {
	c := geom.NewSegment(a, b)
	d := ub.Sub(ua)
	l := d.Norm()
	return &CoEdge{
		Edge:   &Edge{Curve: c, Range: c.Range, SameParameter: true},
		PCurve: &geom.Line2d{Origin: ua, Dir: d.Mul(1 / l), Range: r1.Interval{Lo: 0, Hi: l}},
	}
}

// NewSegmentCoEdge returns a straight co-edge of the plane p from a to b,
// in p's (u, v) coordinates. It is meant for Face.InternalEdges.
func NewSegmentCoEdge(p *geom.Plane, a, b r2.Point) *CoEdge {
	return segment(p.Value(a.X, a.Y), p.Value(b.X, b.Y), a, b)
}

// NewDisk returns a planar face bounded by one circular edge. Unless
// sameParameter is set, the pcurve runs over [0, 1] while the 3D circle
// runs over [0, 2π].
func NewDisk(p *geom.Plane, center r2.Point, radius float64, sameParameter bool) *Face {
	c := geom.NewCircle(geom.Frame{
		Origin: p.Value(center.X, center.Y),
		X:      p.Frame.X,
		Z:      p.Frame.Z,
	}, radius)
	var pc geom.Curve2d = geom.NewCircle2d(center, radius)
	if !sameParameter {
		pc = &geom.Reparam2d{Basis: pc, Range: r1.Interval{Lo: 0, Hi: 1}}
	}
	e := &Edge{
		Curve:         c,
		Range:         r1.Interval{Lo: 0, Hi: 2 * math.Pi},
		SameParameter: sameParameter,
	}
	return &Face{
		Surface: p,
		Wires:   []*Wire{{CoEdges: []*CoEdge{{Edge: e, PCurve: pc}}}},
	}
}
