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

package rangesplit

import (
	"math"

	"github.com/hajimehoshi/go-brepmesh/geom"
)

// angularStep returns the parameter step along a circle of radius r that
// keeps both the sagitta within deflection and the turn within angle.
func angularStep(r float64, p Params) float64 {
	step := p.Angle
	if r > p.Deflection && p.Deflection > 0 {
		step = math.Min(step, 2*math.Acos(1-p.Deflection/r))
	}
	if r > 0 && p.MinSize > 0 {
		// Chords shorter than MinSize are not worth it.
		step = math.Max(step, math.Min(p.MinSize/r, math.Pi/2))
	}
	return step
}

// Cylinder places nodes on a (u, v) grid: columns by the circle's
// deflection, rows spaced like the columns are in 3D so triangles stay
// close to equilateral.
type Cylinder struct {
	Default
}

func (c *Cylinder) GenerateSurfaceNodes() *NodeSequence {
	cyl, ok := c.surface.(*geom.Cylinder)
	if !ok || !c.IsValid() {
		return emptySequence()
	}
	du := angularStep(cyl.Radius, c.params)
	nu := clampSteps(c.rng.X.Length() / du)
	du = c.rng.X.Length() / float64(nu)
	dv := du * cyl.Radius
	nv := clampSteps(c.rng.Y.Length() / dv)
	us := interior(c.rng.X.Lo, c.rng.X.Hi, nu)
	vs := interior(c.rng.Y.Lo, c.rng.Y.Hi, nv)
	return gridSequence(vs, func(int) []float64 { return us })
}

// Sphere places nodes on parallels. The count per parallel shrinks with its
// radius towards the poles.
type Sphere struct {
	Default
}

func (s *Sphere) GenerateSurfaceNodes() *NodeSequence {
	sph, ok := s.surface.(*geom.Sphere)
	if !ok || !s.IsValid() {
		return emptySequence()
	}
	step := angularStep(sph.Radius, s.params)
	nv := clampSteps(s.rng.Y.Length() / step)
	vs := interior(s.rng.Y.Lo, s.rng.Y.Hi, nv)
	return gridSequence(vs, func(row int) []float64 {
		r := sph.Radius * math.Cos(vs[row])
		nu := 1
		if r > 0 {
			nu = clampSteps(s.rng.X.Length() / angularStep(r, s.params))
		}
		return interior(s.rng.X.Lo, s.rng.X.Hi, max(nu, 2))
	})
}
