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

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// Frame is a right-handed orthonormal placement.
type Frame struct {
	Origin r3.Vector
	X      r3.Vector
	Z      r3.Vector
}

// StandardFrame is the world frame.
var StandardFrame = Frame{X: r3.Vector{X: 1}, Z: r3.Vector{Z: 1}}

// Y returns Z × X.
func (f Frame) Y() r3.Vector {
	return f.Z.Cross(f.X)
}

func (f Frame) at(x, y, z float64) r3.Vector {
	return f.Origin.Add(f.X.Mul(x)).Add(f.Y().Mul(y)).Add(f.Z.Mul(z))
}

func (f Frame) dir(x, y, z float64) r3.Vector {
	return f.X.Mul(x).Add(f.Y().Mul(y)).Add(f.Z.Mul(z))
}

// Plane is S(u, v) = O + u·X + v·Y.
type Plane struct {
	Frame  Frame
	Bounds r2.Rect
}

func NewPlane(f Frame, bounds r2.Rect) *Plane {
	return &Plane{Frame: f, Bounds: bounds}
}

func (p *Plane) Kind() SurfaceKind      { return KindPlane }
func (p *Plane) Domain() r2.Rect        { return p.Bounds }
func (p *Plane) IsUClosed() bool        { return false }
func (p *Plane) IsVClosed() bool        { return false }
func (p *Plane) Continuity() Continuity { return CN }

func (p *Plane) Value(u, v float64) r3.Vector {
	return p.Frame.at(u, v, 0)
}

func (p *Plane) D1(u, v float64) (r3.Vector, r3.Vector, r3.Vector) {
	return p.Value(u, v), p.Frame.X, p.Frame.Y()
}

func (p *Plane) D2(u, v float64) (pt, du, dv, duu, dvv, duv r3.Vector) {
	pt, du, dv = p.D1(u, v)
	return
}

// Cylinder is S(u, v) = O + R(cos u·X + sin u·Y) + v·Z with u in [0, 2π].
type Cylinder struct {
	Frame  Frame
	Radius float64
	Height [2]float64
}

func NewCylinder(f Frame, radius, v0, v1 float64) *Cylinder {
	return &Cylinder{Frame: f, Radius: radius, Height: [2]float64{v0, v1}}
}

func (c *Cylinder) Kind() SurfaceKind { return KindCylinder }

func (c *Cylinder) Domain() r2.Rect {
	return r2.RectFromPoints(r2.Point{X: 0, Y: c.Height[0]}, r2.Point{X: 2 * math.Pi, Y: c.Height[1]})
}

func (c *Cylinder) IsUClosed() bool        { return true }
func (c *Cylinder) IsVClosed() bool        { return false }
func (c *Cylinder) Continuity() Continuity { return CN }

func (c *Cylinder) Value(u, v float64) r3.Vector {
	s, co := math.Sincos(u)
	return c.Frame.at(c.Radius*co, c.Radius*s, v)
}

func (c *Cylinder) D1(u, v float64) (r3.Vector, r3.Vector, r3.Vector) {
	s, co := math.Sincos(u)
	return c.Value(u, v), c.Frame.dir(-c.Radius*s, c.Radius*co, 0), c.Frame.Z
}

func (c *Cylinder) D2(u, v float64) (pt, du, dv, duu, dvv, duv r3.Vector) {
	pt, du, dv = c.D1(u, v)
	s, co := math.Sincos(u)
	duu = c.Frame.dir(-c.Radius*co, -c.Radius*s, 0)
	return
}

// Sphere is S(u, v) = C + R cos v(cos u·X + sin u·Y) + R sin v·Z with
// u in [0, 2π] and v in [-π/2, π/2].
type Sphere struct {
	Frame  Frame
	Radius float64
}

func NewSphere(f Frame, radius float64) *Sphere {
	return &Sphere{Frame: f, Radius: radius}
}

func (s *Sphere) Kind() SurfaceKind { return KindSphere }

func (s *Sphere) Domain() r2.Rect {
	return r2.RectFromPoints(r2.Point{X: 0, Y: -math.Pi / 2}, r2.Point{X: 2 * math.Pi, Y: math.Pi / 2})
}

func (s *Sphere) IsUClosed() bool        { return true }
func (s *Sphere) IsVClosed() bool        { return false }
func (s *Sphere) Continuity() Continuity { return CN }

func (s *Sphere) Value(u, v float64) r3.Vector {
	su, cu := math.Sincos(u)
	sv, cv := math.Sincos(v)
	r := s.Radius
	return s.Frame.at(r*cv*cu, r*cv*su, r*sv)
}

func (s *Sphere) D1(u, v float64) (r3.Vector, r3.Vector, r3.Vector) {
	su, cu := math.Sincos(u)
	sv, cv := math.Sincos(v)
	r := s.Radius
	return s.Value(u, v),
		s.Frame.dir(-r*cv*su, r*cv*cu, 0),
		s.Frame.dir(-r*sv*cu, -r*sv*su, r*cv)
}

func (s *Sphere) D2(u, v float64) (pt, du, dv, duu, dvv, duv r3.Vector) {
	pt, du, dv = s.D1(u, v)
	su, cu := math.Sincos(u)
	sv, cv := math.Sincos(v)
	r := s.Radius
	duu = s.Frame.dir(-r*cv*cu, -r*cv*su, 0)
	dvv = s.Frame.dir(-r*cv*cu, -r*cv*su, -r*sv)
	duv = s.Frame.dir(r*sv*su, -r*sv*cu, 0)
	return
}

// Torus is S(u, v) = C + (R + r cos v)(cos u·X + sin u·Y) + r sin v·Z.
type Torus struct {
	Frame       Frame
	MajorRadius float64
	MinorRadius float64
}

func NewTorus(f Frame, major, minor float64) *Torus {
	return &Torus{Frame: f, MajorRadius: major, MinorRadius: minor}
}

func (t *Torus) Kind() SurfaceKind { return KindTorus }

func (t *Torus) Domain() r2.Rect {
	return r2.RectFromPoints(r2.Point{}, r2.Point{X: 2 * math.Pi, Y: 2 * math.Pi})
}

func (t *Torus) IsUClosed() bool        { return true }
func (t *Torus) IsVClosed() bool        { return true }
func (t *Torus) Continuity() Continuity { return CN }

func (t *Torus) Value(u, v float64) r3.Vector {
	su, cu := math.Sincos(u)
	sv, cv := math.Sincos(v)
	w := t.MajorRadius + t.MinorRadius*cv
	return t.Frame.at(w*cu, w*su, t.MinorRadius*sv)
}

func (t *Torus) D1(u, v float64) (r3.Vector, r3.Vector, r3.Vector) {
	su, cu := math.Sincos(u)
	sv, cv := math.Sincos(v)
	w := t.MajorRadius + t.MinorRadius*cv
	r := t.MinorRadius
	return t.Value(u, v),
		t.Frame.dir(-w*su, w*cu, 0),
		t.Frame.dir(-r*sv*cu, -r*sv*su, r*cv)
}

func (t *Torus) D2(u, v float64) (pt, du, dv, duu, dvv, duv r3.Vector) {
	pt, du, dv = t.D1(u, v)
	su, cu := math.Sincos(u)
	sv, cv := math.Sincos(v)
	w := t.MajorRadius + t.MinorRadius*cv
	r := t.MinorRadius
	duu = t.Frame.dir(-w*cu, -w*su, 0)
	dvv = t.Frame.dir(-r*cv*cu, -r*cv*su, -r*sv)
	duv = t.Frame.dir(r*sv*su, -r*sv*cu, 0)
	return
}

// Paraboloid is the graph z = A(u² + v²) over Bounds, placed in Frame.
// It stands in for free-form surfaces and reports KindOther.
type Paraboloid struct {
	Frame  Frame
	A      float64
	Bounds r2.Rect
}

func NewParaboloid(f Frame, a float64, bounds r2.Rect) *Paraboloid {
	return &Paraboloid{Frame: f, A: a, Bounds: bounds}
}

func (p *Paraboloid) Kind() SurfaceKind      { return KindOther }
func (p *Paraboloid) Domain() r2.Rect        { return p.Bounds }
func (p *Paraboloid) IsUClosed() bool        { return false }
func (p *Paraboloid) IsVClosed() bool        { return false }
func (p *Paraboloid) Continuity() Continuity { return CN }

func (p *Paraboloid) Value(u, v float64) r3.Vector {
	return p.Frame.at(u, v, p.A*(u*u+v*v))
}

func (p *Paraboloid) D1(u, v float64) (r3.Vector, r3.Vector, r3.Vector) {
	return p.Value(u, v), p.Frame.dir(1, 0, 2*p.A*u), p.Frame.dir(0, 1, 2*p.A*v)
}

func (p *Paraboloid) D2(u, v float64) (pt, du, dv, duu, dvv, duv r3.Vector) {
	pt, du, dv = p.D1(u, v)
	duu = p.Frame.dir(0, 0, 2*p.A)
	dvv = duu
	return
}
