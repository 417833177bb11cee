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

// Package discret turns edges into polylines and maps the polyline
// parameters onto the pcurves of the faces using the edge.
package discret

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/hajimehoshi/go-brepmesh/geom"
)

// Params bounds the discretization of one curve.
type Params struct {
	// Deflection is the largest distance allowed between the curve and a
	// chord.
	Deflection float64
	// Angle is the largest turn of the tangent along one chord, in radians.
	Angle float64
	// MinSize stops subdivision of chords shorter than it.
	MinSize float64
}

// Sample is a curve parameter with its 3D point.
type Sample struct {
	Param float64
	Point r3.Vector
}

const (
	maxDepth       = 24
	closedSegments = 4
)

var chordChecks = [...]float64{0.25, 0.5, 0.75}

// Curve discretizes c over [first, last] by bisecting chords until each
// satisfies p. The result includes both ends and is ordered by parameter.
func Curve(c geom.Curve, first, last float64, p Params) []Sample {
	at := func(t float64) Sample {
		return Sample{Param: t, Point: c.Value(t)}
	}
	start, end := at(first), at(last)
	n := 1
	// A closed curve has coincident ends; start it as a polygon so the
	// chords never collapse onto each other.
	mid := c.Value((first + last) / 2)
	if start.Point.Distance(end.Point) <= p.Deflection && start.Point.Distance(mid) > p.Deflection {
		n = closedSegments
	}

	out := []Sample{start}
	var split func(a, b Sample, depth int)
	split = func(a, b Sample, depth int) {
		if depth < maxDepth && needsSplit(c, a, b, p) {
			m := at((a.Param + b.Param) / 2)
			split(a, m, depth+1)
			split(m, b, depth+1)
			return
		}
		out = append(out, b)
	}
	prev := start
	for i := 1; i <= n; i++ {
		next := end
		if i < n {
			next = at(first + (last-first)*float64(i)/float64(n))
		}
		split(prev, next, 0)
		prev = next
	}
	return out
}

func needsSplit(c geom.Curve, a, b Sample, p Params) bool {
	chord := b.Point.Sub(a.Point)
	l := chord.Norm()
	if l <= p.MinSize {
		return false
	}
	for _, s := range chordChecks {
		q := c.Value(a.Param + s*(b.Param-a.Param))
		if distanceToChord(q, a.Point, b.Point) > p.Deflection {
			return true
		}
	}
	_, da := c.D1(a.Param)
	_, db := c.D1(b.Param)
	return angle(da, db) > p.Angle
}

func distanceToChord(q, a, b r3.Vector) float64 {
	ab := b.Sub(a)
	l2 := ab.Norm2()
	if l2 == 0 {
		return q.Distance(a)
	}
	t := math.Max(0, math.Min(1, q.Sub(a).Dot(ab)/l2))
	return q.Distance(a.Add(ab.Mul(t)))
}

func angle(a, b r3.Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	cos := a.Dot(b) / (na * nb)
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}

// Degenerated samples a degenerated edge: n+1 uniform parameters over
// [first, last], all at pole.
func Degenerated(pole r3.Vector, first, last float64, n int) []Sample {
	if n < 1 {
		n = 1
	}
	out := make([]Sample, n+1)
	for i := range out {
		out[i] = Sample{Param: first + (last-first)*float64(i)/float64(n), Point: pole}
	}
	return out
}
