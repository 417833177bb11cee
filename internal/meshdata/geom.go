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
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r2"
)

// Orient returns twice the signed area of abc: positive when a, b, c turn
// counter-clockwise, negative when clockwise, zero when collinear.
//
// For almost-degenerate situations, the results are not reliable.
// Callers compare against a tolerance scaled to their domain.
func Orient(a, b, c r2.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// Norm2 returns the squared length of p.
func Norm2(p r2.Point) float64 {
	return p.Dot(p)
}

// InCircle is positive when d lies inside the circumcircle of the
// counter-clockwise triangle abc, negative outside and zero on it.
func InCircle(a, b, c, d r2.Point) float64 {
	ad := a.Sub(d)
	bd := b.Sub(d)
	cd := c.Sub(d)
	m := mgl64.Mat3{
		ad.X, bd.X, cd.X,
		ad.Y, bd.Y, cd.Y,
		Norm2(ad), Norm2(bd), Norm2(cd),
	}
	return m.Det()
}

// DistanceToSegment returns the distance from p to the segment ab.
func DistanceToSegment(p, a, b r2.Point) float64 {
	ab := b.Sub(a)
	l2 := Norm2(ab)
	if l2 == 0 {
		return p.Sub(a).Norm()
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Sub(a.Add(ab.Mul(t))).Norm()
}

// interpolate:
// Given parameters a,x,b,y returns the value (b*x+a*y)/(a+b),
// or (x+y)/2 if a==b==0. Slightly negative weights are clamped to zero,
// so the result always lies between x and y.
func interpolate(a, x, b, y float64) float64 {
	if a < 0 {
		a = 0
	}
	if b < 0 {
		b = 0
	}
	if a <= b {
		if b == 0 {
			return (x + y) / 2
		}
		return x + (y-x)*(a/(a+b))
	}
	return y + (x-y)*(b/(a+b))
}

// Intersection classifies how two segments meet.
type Intersection int

const (
	NoIntersection Intersection = iota
	// Crossing segments meet at a single point interior to both.
	Crossing
	// Touching segments meet at an endpoint of at least one of them.
	Touching
	// Overlapping segments are collinear and share more than a point.
	Overlapping
)

// SegmentIntersection computes where the segments (o1,d1) and (o2,d2) meet.
// The intersection point is interpolated from the signed distances of the
// endpoints, which keeps it inside both segments' bounding boxes.
func SegmentIntersection(o1, d1, o2, d2 r2.Point, tol float64) (r2.Point, Intersection) {
	z1 := Orient(o2, d2, o1)
	z2 := Orient(o2, d2, d1)
	z3 := Orient(o1, d1, o2)
	z4 := Orient(o1, d1, d2)

	l1 := d1.Sub(o1).Norm()
	l2 := d2.Sub(o2).Norm()
	e1 := tol * l2
	e2 := tol * l1

	if math.Abs(z1) <= e1 && math.Abs(z2) <= e1 {
		// Collinear.
		if l1 == 0 {
			return o1, NoIntersection
		}
		dir := d1.Sub(o1).Mul(1 / l1)
		a0, a1 := 0.0, l1
		b0, b1 := o2.Sub(o1).Dot(dir), d2.Sub(o1).Dot(dir)
		if b0 > b1 {
			b0, b1 = b1, b0
		}
		lo, hi := math.Max(a0, b0), math.Min(a1, b1)
		switch {
		case hi < lo-tol:
			return r2.Point{}, NoIntersection
		case hi-lo <= tol:
			return o1.Add(dir.Mul(lo)), Touching
		}
		return o1.Add(dir.Mul((lo + hi) / 2)), Overlapping
	}

	if (z1 > e1 && z2 > e1) || (z1 < -e1 && z2 < -e1) {
		return r2.Point{}, NoIntersection
	}
	if (z3 > e2 && z4 > e2) || (z3 < -e2 && z4 < -e2) {
		return r2.Point{}, NoIntersection
	}

	a, b := math.Abs(z1), math.Abs(z2)
	p := r2.Point{X: interpolate(a, o1.X, b, d1.X), Y: interpolate(a, o1.Y, b, d1.Y)}
	if a <= e1 || b <= e1 || math.Abs(z3) <= e2 || math.Abs(z4) <= e2 {
		return p, Touching
	}
	return p, Crossing
}
