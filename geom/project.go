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

	"github.com/golang/geo/r3"
)

const (
	locateSamples = 8
	locateSteps   = 64
	goldenIters   = 48
)

var invPhi = (math.Sqrt(5) - 1) / 2

// LocateOnCurve searches the neighbourhood of seed for the parameter of c
// closest to p. Periodic curves wrap the result into
// [FirstParameter, FirstParameter+Period). ok is false when the closest
// point found is farther than tol from p.
func LocateOnCurve(c Curve, p r3.Vector, seed, tol float64) (t float64, ok bool) {
	first, last := c.FirstParameter(), c.LastParameter()
	span := last - first
	if span <= 0 {
		return seed, false
	}
	norm := func(x float64) float64 {
		if c.IsPeriodic() && c.Period() > 0 {
			per := c.Period()
			x = first + math.Mod(x-first, per)
			if x < first {
				x += per
			}
			return x
		}
		return math.Max(first, math.Min(last, x))
	}
	dist := func(x float64) float64 {
		return c.Value(norm(x)).Sub(p).Norm2()
	}

	step := span / locateSteps
	best, bestD := seed, dist(seed)
	for k := -locateSamples; k <= locateSamples; k++ {
		if k == 0 {
			continue
		}
		x := seed + float64(k)*step
		if d := dist(x); d < bestD {
			best, bestD = x, d
		}
	}

	// Golden-section search around the best sample.
	lo, hi := best-step, best+step
	x1 := hi - invPhi*(hi-lo)
	x2 := lo + invPhi*(hi-lo)
	f1, f2 := dist(x1), dist(x2)
	for i := 0; i < goldenIters; i++ {
		if f1 < f2 {
			hi, x2, f2 = x2, x1, f1
			x1 = hi - invPhi*(hi-lo)
			f1 = dist(x1)
		} else {
			lo, x1, f1 = x1, x2, f2
			x2 = lo + invPhi*(hi-lo)
			f2 = dist(x2)
		}
	}
	t = (lo + hi) / 2
	if d := dist(t); d > bestD {
		t = best
	}
	t = norm(t)
	return t, c.Value(t).Sub(p).Norm() <= tol
}
