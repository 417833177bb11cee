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
)

const curvatureSamples = 7

// UVParam derives a grid from the second derivatives of the surface. A
// parabola with second derivative k deviates from its chord of length h by
// k·h²/8, so the step in each direction is sqrt(8·deflection/k) over the
// largest k sampled.
type UVParam struct {
	Default
}

func (s *UVParam) GenerateSurfaceNodes() *NodeSequence {
	if !s.IsValid() || s.params.Deflection <= 0 {
		return emptySequence()
	}
	var kuu, kvv, ku, kv float64
	for i := 0; i < curvatureSamples; i++ {
		for j := 0; j < curvatureSamples; j++ {
			u := s.rng.X.Lo + s.rng.X.Length()*float64(i)/(curvatureSamples-1)
			v := s.rng.Y.Lo + s.rng.Y.Length()*float64(j)/(curvatureSamples-1)
			_, du, dv, duu, dvv, _ := s.surface.D2(u, v)
			kuu = math.Max(kuu, duu.Norm())
			kvv = math.Max(kvv, dvv.Norm())
			ku = math.Max(ku, du.Norm())
			kv = math.Max(kv, dv.Norm())
		}
	}
	nu := s.steps(s.rng.X.Length(), kuu, ku)
	nv := s.steps(s.rng.Y.Length(), kvv, kv)
	if nu < 2 && nv < 2 {
		return emptySequence()
	}
	us := interior(s.rng.X.Lo, s.rng.X.Hi, max(nu, 2))
	vs := interior(s.rng.Y.Lo, s.rng.Y.Hi, max(nv, 2))
	return gridSequence(vs, func(int) []float64 { return us })
}

// steps returns the number of intervals along a parameter range of length
// span given the largest second and first derivative norms.
func (s *UVParam) steps(span, second, first float64) int {
	if second <= 0 {
		return 1
	}
	h := math.Sqrt(8 * s.params.Deflection / second)
	if first > 0 && s.params.Angle > 0 {
		// The tangent turns by about second·h/first over a step.
		h = math.Min(h, s.params.Angle*first/second)
	}
	if first > 0 && s.params.MinSize > 0 {
		h = math.Max(h, s.params.MinSize/first)
	}
	return clampSteps(span / h)
}
