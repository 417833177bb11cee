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

// Package geom describes the parametric geometry a face mesher consumes.
//
// Surfaces map (u, v) to 3D points, curves map t to 3D points and pcurves
// map t to (u, v). The mesher never looks behind these interfaces; the
// analytic types in this package are the ones the tests and the example
// use.
package geom

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// SurfaceKind is the tag used to pick a meshing algorithm for a surface.
type SurfaceKind int

const (
	KindPlane SurfaceKind = iota
	KindCylinder
	KindCone
	KindSphere
	KindTorus
	KindOther
)

func (k SurfaceKind) String() string {
	switch k {
	case KindPlane:
		return "plane"
	case KindCylinder:
		return "cylinder"
	case KindCone:
		return "cone"
	case KindSphere:
		return "sphere"
	case KindTorus:
		return "torus"
	}
	return "other"
}

// Continuity is the global smoothness class of a surface or curve.
type Continuity int

const (
	C0 Continuity = iota
	C1
	C2
	CN
)

// Surface is a parametric surface S(u, v).
type Surface interface {
	Kind() SurfaceKind

	// Domain returns the natural parameter bounds. Unbounded directions
	// report the bounds the surface was built with.
	Domain() r2.Rect

	IsUClosed() bool
	IsVClosed() bool
	Continuity() Continuity

	Value(u, v float64) r3.Vector
	D1(u, v float64) (p, du, dv r3.Vector)
	D2(u, v float64) (p, du, dv, duu, dvv, duv r3.Vector)
}

// Curve is a parametric 3D curve C(t).
type Curve interface {
	FirstParameter() float64
	LastParameter() float64
	IsPeriodic() bool
	Period() float64

	Value(t float64) r3.Vector
	D1(t float64) (p, d r3.Vector)
}

// Curve2d is a parametric curve in the (u, v) domain of a surface.
type Curve2d interface {
	FirstParameter() float64
	LastParameter() float64
	IsPeriodic() bool
	Period() float64

	Value(t float64) r2.Point
	D1(t float64) (p, d r2.Point)
}

// Normal returns the unit normal of s at (u, v), or the zero vector where
// the surface is singular.
func Normal(s Surface, u, v float64) r3.Vector {
	_, du, dv := s.D1(u, v)
	n := du.Cross(dv)
	l := n.Norm()
	if l == 0 {
		return r3.Vector{}
	}
	return n.Mul(1 / l)
}
