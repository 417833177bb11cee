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

package geom

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// Line is C(t) = Origin + t·Dir over Range.
type Line struct {
	Origin r3.Vector
	Dir    r3.Vector
	Range  r1.Interval
}

// NewSegment returns the line from a to b parameterized by arc length.
func NewSegment(a, b r3.Vector) *Line {
	d := b.Sub(a)
	l := d.Norm()
	return &Line{Origin: a, Dir: d.Mul(1 / l), Range: r1.Interval{Lo: 0, Hi: l}}
}

func (l *Line) FirstParameter() float64 { return l.Range.Lo }
func (l *Line) LastParameter() float64  { return l.Range.Hi }
func (l *Line) IsPeriodic() bool        { return false }
func (l *Line) Period() float64         { return 0 }

func (l *Line) Value(t float64) r3.Vector {
	return l.Origin.Add(l.Dir.Mul(t))
}

func (l *Line) D1(t float64) (r3.Vector, r3.Vector) {
	return l.Value(t), l.Dir
}

// Circle is C(t) = Center + R(cos t·X + sin t·Y) in Frame.
type Circle struct {
	Frame  Frame
	Radius float64
	Range  r1.Interval
}

func NewCircle(f Frame, radius float64) *Circle {
	return &Circle{Frame: f, Radius: radius, Range: r1.Interval{Lo: 0, Hi: 2 * math.Pi}}
}

func (c *Circle) FirstParameter() float64 { return c.Range.Lo }
func (c *Circle) LastParameter() float64  { return c.Range.Hi }
func (c *Circle) IsPeriodic() bool        { return true }
func (c *Circle) Period() float64         { return 2 * math.Pi }

func (c *Circle) Value(t float64) r3.Vector {
	s, co := math.Sincos(t)
	return c.Frame.at(c.Radius*co, c.Radius*s, 0)
}

func (c *Circle) D1(t float64) (r3.Vector, r3.Vector) {
	s, co := math.Sincos(t)
	return c.Value(t), c.Frame.dir(-c.Radius*s, c.Radius*co, 0)
}

// IsoCurve is the 3D image of an isoparametric line of a surface: either
// S(t, Fixed) when AlongU is set, or S(Fixed, t).
type IsoCurve struct {
	Surface Surface
	Fixed   float64
	AlongU  bool
	Range   r1.Interval
}

func (c *IsoCurve) FirstParameter() float64 { return c.Range.Lo }
func (c *IsoCurve) LastParameter() float64  { return c.Range.Hi }

func (c *IsoCurve) IsPeriodic() bool {
	if c.AlongU {
		return c.Surface.IsUClosed() && c.Range.Length() >= c.Period()
	}
	return c.Surface.IsVClosed() && c.Range.Length() >= c.Period()
}

func (c *IsoCurve) Period() float64 {
	d := c.Surface.Domain()
	if c.AlongU {
		return d.X.Length()
	}
	return d.Y.Length()
}

func (c *IsoCurve) Value(t float64) r3.Vector {
	if c.AlongU {
		return c.Surface.Value(t, c.Fixed)
	}
	return c.Surface.Value(c.Fixed, t)
}

func (c *IsoCurve) D1(t float64) (r3.Vector, r3.Vector) {
	if c.AlongU {
		p, du, _ := c.Surface.D1(t, c.Fixed)
		return p, du
	}
	p, _, dv := c.Surface.D1(c.Fixed, t)
	return p, dv
}

// CurveOnSurface is the 3D curve S(P(t)) traced by a pcurve on a surface.
type CurveOnSurface struct {
	PCurve  Curve2d
	Surface Surface
}

func (c *CurveOnSurface) FirstParameter() float64 { return c.PCurve.FirstParameter() }
func (c *CurveOnSurface) LastParameter() float64  { return c.PCurve.LastParameter() }
func (c *CurveOnSurface) IsPeriodic() bool        { return c.PCurve.IsPeriodic() }
func (c *CurveOnSurface) Period() float64         { return c.PCurve.Period() }

func (c *CurveOnSurface) Value(t float64) r3.Vector {
	uv := c.PCurve.Value(t)
	return c.Surface.Value(uv.X, uv.Y)
}

func (c *CurveOnSurface) D1(t float64) (r3.Vector, r3.Vector) {
	uv, d := c.PCurve.D1(t)
	p, du, dv := c.Surface.D1(uv.X, uv.Y)
	return p, du.Mul(d.X).Add(dv.Mul(d.Y))
}

// Line2d is P(t) = Origin + t·Dir over Range.
type Line2d struct {
	Origin r2.Point
	Dir    r2.Point
	Range  r1.Interval
}

func (l *Line2d) FirstParameter() float64 { return l.Range.Lo }
func (l *Line2d) LastParameter() float64  { return l.Range.Hi }
func (l *Line2d) IsPeriodic() bool        { return false }
func (l *Line2d) Period() float64         { return 0 }

func (l *Line2d) Value(t float64) r2.Point {
	return l.Origin.Add(l.Dir.Mul(t))
}

func (l *Line2d) D1(t float64) (r2.Point, r2.Point) {
	return l.Value(t), l.Dir
}

// Circle2d is P(t) = Center + R(cos t, sin t).
type Circle2d struct {
	Center r2.Point
	Radius float64
	Range  r1.Interval
}

func NewCircle2d(center r2.Point, radius float64) *Circle2d {
	return &Circle2d{Center: center, Radius: radius, Range: r1.Interval{Lo: 0, Hi: 2 * math.Pi}}
}

func (c *Circle2d) FirstParameter() float64 { return c.Range.Lo }
func (c *Circle2d) LastParameter() float64  { return c.Range.Hi }
func (c *Circle2d) IsPeriodic() bool        { return true }
func (c *Circle2d) Period() float64         { return 2 * math.Pi }

func (c *Circle2d) Value(t float64) r2.Point {
	s, co := math.Sincos(t)
	return r2.Point{X: c.Center.X + c.Radius*co, Y: c.Center.Y + c.Radius*s}
}

func (c *Circle2d) D1(t float64) (r2.Point, r2.Point) {
	s, co := math.Sincos(t)
	return c.Value(t), r2.Point{X: -c.Radius * s, Y: c.Radius * co}
}

// Reparam2d reparameterizes Basis affinely so that [Range.Lo, Range.Hi]
// covers the basis' own parameter range.
type Reparam2d struct {
	Basis Curve2d
	Range r1.Interval
}

func (c *Reparam2d) scale() float64 {
	return (c.Basis.LastParameter() - c.Basis.FirstParameter()) / c.Range.Length()
}

func (c *Reparam2d) basisParam(t float64) float64 {
	return c.Basis.FirstParameter() + (t-c.Range.Lo)*c.scale()
}

func (c *Reparam2d) FirstParameter() float64 { return c.Range.Lo }
func (c *Reparam2d) LastParameter() float64  { return c.Range.Hi }
func (c *Reparam2d) IsPeriodic() bool        { return c.Basis.IsPeriodic() }

func (c *Reparam2d) Period() float64 {
	return c.Basis.Period() / c.scale()
}

func (c *Reparam2d) Value(t float64) r2.Point {
	return c.Basis.Value(c.basisParam(t))
}

func (c *Reparam2d) D1(t float64) (r2.Point, r2.Point) {
	p, d := c.Basis.D1(c.basisParam(t))
	return p, d.Mul(c.scale())
}
