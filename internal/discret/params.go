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

package discret

import (
	"github.com/golang/geo/r3"

	"github.com/hajimehoshi/go-brepmesh/geom"
)

// ParameterProvider maps the stored parameters of an edge discretization to
// parameters on one of the edge's pcurves.
//
// When the edge is same-parameter the stored values are returned as they
// are. Otherwise each value is rescaled from the stored range to the live
// pcurve range and then corrected by projecting the 3D point onto the curve
// traced by the pcurve on the surface. A projection that would move the
// result backwards is rejected.
type ParameterProvider struct {
	params        []float64
	sameParameter bool

	storedFirst float64
	liveFirst   float64
	scale       float64

	curve geom.Curve
	tol   float64
}

// Cursor carries the progression of a ParameterProvider from one index to
// the next. The zero value is not valid; use Start.
type Cursor struct {
	prevNaive float64
	found     float64

	// Fallbacks counts the projections that were ambiguous or rejected.
	Fallbacks int
}

// NewParameterProvider returns a provider for stored parameters params. The
// live range [liveFirst, liveLast] is the pcurve's range; curve is the
// pcurve on its surface, used for the projection. tol bounds the distance
// a projected point may stay away from the 3D point.
func NewParameterProvider(params []float64, sameParameter bool, liveFirst, liveLast float64, curve geom.Curve, tol float64) *ParameterProvider {
	p := &ParameterProvider{
		params:        params,
		sameParameter: sameParameter,
		liveFirst:     liveFirst,
		scale:         1,
		curve:         curve,
		tol:           tol,
	}
	if len(params) > 0 {
		p.storedFirst = params[0]
		if span := params[len(params)-1] - params[0]; span != 0 {
			p.scale = (liveLast - liveFirst) / span
		}
	}
	return p
}

// Start returns the cursor for index 0.
func (p *ParameterProvider) Start() Cursor {
	return Cursor{prevNaive: p.liveFirst, found: p.liveFirst}
}

// Parameter returns the pcurve parameter of the i-th stored parameter,
// whose 3D point is point, and the cursor for the next index. Indices must
// be visited in increasing order.
func (p *ParameterProvider) Parameter(i int, point r3.Vector, cur Cursor) (float64, Cursor) {
	if p.sameParameter {
		return p.params[i], cur
	}

	naive := p.liveFirst + p.scale*(p.params[i]-p.storedFirst)
	prevFound := cur.found
	cur.found += naive - cur.prevNaive
	cur.prevNaive = naive

	if p.curve == nil {
		return cur.found, cur
	}
	t, ok := geom.LocateOnCurve(p.curve, point, cur.found, p.tol)
	if !ok {
		cur.Fallbacks++
		return cur.found, cur
	}
	// Accept the projection only when it moves the same way as the naive
	// progression did.
	if (prevFound < cur.found && prevFound < t) || (prevFound > cur.found && prevFound > t) {
		cur.found = t
	} else if t != cur.found {
		cur.Fallbacks++
	}
	return cur.found, cur
}
