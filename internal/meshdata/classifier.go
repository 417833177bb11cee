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

package meshdata

import (
	"github.com/golang/geo/r2"
)

// Class is the position of a point relative to a face.
type Class int

const (
	Out Class = iota
	On
	In
)

func (c Class) String() string {
	switch c {
	case In:
		return "IN"
	case On:
		return "ON"
	}
	return "OUT"
}

// Classifier tells whether working coordinates lie inside the region
// bounded by a set of closed loops. Nested loops alternate between material
// and hole, so the first loop is the outer boundary and the others holes.
type Classifier struct {
	loops [][]r2.Point
	boxes []r2.Rect
	bound r2.Rect
	tol   float64
}

func NewClassifier(loops [][]r2.Point, tol float64) *Classifier {
	c := &Classifier{tol: tol, bound: r2.EmptyRect()}
	for _, l := range loops {
		if len(l) < 3 {
			continue
		}
		b := r2.RectFromPoints(l...)
		c.loops = append(c.loops, l)
		c.boxes = append(c.boxes, b.ExpandedByMargin(tol))
		c.bound = c.bound.Union(b)
	}
	c.bound = c.bound.ExpandedByMargin(tol)
	return c
}

// Classify returns On when p is within the tolerance of a boundary segment,
// otherwise In or Out by the parity of boundary crossings of a ray towards
// +X.
func (c *Classifier) Classify(p r2.Point) Class {
	if !c.bound.ContainsPoint(p) {
		return Out
	}
	inside := false
	for i, l := range c.loops {
		box := c.boxes[i]
		if p.Y < box.Y.Lo || p.Y > box.Y.Hi || p.X > box.X.Hi {
			continue
		}
		for k := range l {
			a, b := l[k], l[(k+1)%len(l)]
			if box.ContainsPoint(p) && DistanceToSegment(p, a, b) <= c.tol {
				return On
			}
			if (a.Y > p.Y) != (b.Y > p.Y) {
				x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
				if p.X < x {
					inside = !inside
				}
			}
		}
	}
	if inside {
		return In
	}
	return Out
}
