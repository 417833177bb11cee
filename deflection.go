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

package brepmesh

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/hajimehoshi/go-brepmesh/internal/discret"
	"github.com/hajimehoshi/go-brepmesh/internal/facemesh"
	"github.com/hajimehoshi/go-brepmesh/topo"
)

const (
	// sizeSamples is the number of chords used to estimate the extent of
	// an edge.
	sizeSamples = 32
	// maxPoleSegments bounds the discretization of a degenerated edge.
	maxPoleSegments = 32
)

// box is an axis aligned bounding box in 3D.
type box struct {
	lo, hi r3.Vector
	empty  bool
}

func emptyBox() box {
	return box{empty: true}
}

func (b *box) add(p r3.Vector) {
	if b.empty {
		b.lo, b.hi, b.empty = p, p, false
		return
	}
	b.lo = r3.Vector{X: math.Min(b.lo.X, p.X), Y: math.Min(b.lo.Y, p.Y), Z: math.Min(b.lo.Z, p.Z)}
	b.hi = r3.Vector{X: math.Max(b.hi.X, p.X), Y: math.Max(b.hi.Y, p.Y), Z: math.Max(b.hi.Z, p.Z)}
}

func (b *box) union(o box) {
	if o.empty {
		return
	}
	b.add(o.lo)
	b.add(o.hi)
}

// size is the largest extent of b.
func (b box) size() float64 {
	if b.empty {
		return 0
	}
	d := b.hi.Sub(b.lo)
	return math.Max(d.X, math.Max(d.Y, d.Z))
}

func edgeBox(e *topo.Edge) box {
	b := emptyBox()
	if e.Degenerated {
		b.add(e.Pole)
		return b
	}
	for i := 0; i <= sizeSamples; i++ {
		t := e.Range.Lo + e.Range.Length()*float64(i)/sizeSamples
		b.add(e.Value(t))
	}
	return b
}

// absoluteDeflection turns a relative deflection into a length for an item
// of the given size. Items small compared to the whole shape get a looser
// ratio, large ones a tighter one.
func absoluteDeflection(size, rel, shapeSize float64) float64 {
	if size <= confusion {
		size = shapeSize
	}
	if size <= confusion {
		return rel
	}
	k := shapeSize / (2 * size)
	k = math.Max(0.5, math.Min(2, k))
	return k * size * rel
}

// edgeJob is the discretization state of one edge during preprocessing.
type edgeJob struct {
	edge       *topo.Edge
	box        box
	deflection float64
	minSize    float64

	result *facemesh.Edge
	fresh  bool
	failed bool
}

func (j *edgeJob) resolve(p Parameters, shapeSize float64) {
	size := j.box.size()
	j.deflection = p.Deflection
	if p.Relative {
		j.deflection = absoluteDeflection(size, p.Deflection, shapeSize)
	}
	j.deflection = math.Max(j.deflection, j.edge.Tolerance)
	j.minSize = p.MinSize
	if p.Relative {
		j.minSize = math.Max(math.Min(j.minSize, relMinSize*j.deflection), confusion)
	}
	if p.AdjustMinSize && size > 0 {
		j.minSize = math.Max(math.Min(j.minSize, relMinSize*size), confusion)
	}
}

// reusable reports whether the polygon stored on the edge satisfies the
// requested deflection.
func (j *edgeJob) reusable(p Parameters) bool {
	poly := j.edge.Polygon
	if poly == nil || len(poly.Parameters) < 2 || len(poly.Nodes) != len(poly.Parameters) {
		return false
	}
	if poly.Deflection > j.deflection*(1+confusion) {
		return false
	}
	if p.AllowQualityDecrease && poly.Deflection < j.deflection*(1-confusion) {
		return false
	}
	return true
}

func (j *edgeJob) discretize(p Parameters) {
	if j.reusable(p) {
		j.result = &facemesh.Edge{
			Params: j.edge.Polygon.Parameters,
			Points: j.edge.Polygon.Nodes,
		}
		return
	}

	e := j.edge
	var samples []discret.Sample
	if e.Degenerated {
		n := int(math.Ceil(e.Range.Length() / p.Angle))
		n = max(1, min(n, maxPoleSegments))
		samples = discret.Degenerated(e.Pole, e.Range.Lo, e.Range.Hi, n)
	} else {
		samples = discret.Curve(e.Curve, e.Range.Lo, e.Range.Hi, discret.Params{
			Deflection: j.deflection,
			Angle:      p.Angle,
			MinSize:    j.minSize,
		})
	}
	ed := &facemesh.Edge{
		Params: make([]float64, len(samples)),
		Points: make([]r3.Vector, len(samples)),
	}
	for i, s := range samples {
		ed.Params[i] = s.Param
		ed.Points[i] = s.Point
	}
	j.result = ed
	j.fresh = true
}

// faceParams resolves the tolerances of f. A face is meshed at least as
// coarsely as the average of its edges and twice its own tolerance, unless
// the interior deflection is forced.
func faceParams(f *topo.Face, p Parameters, jobs map[*topo.Edge]*edgeJob, shapeSize float64) facemesh.Params {
	fb := emptyBox()
	var sum float64
	var n int
	for _, ce := range f.CoEdges() {
		j := jobs[ce.Edge]
		if j == nil {
			continue
		}
		fb.union(j.box)
		sum += j.deflection
		n++
	}

	defl := p.DeflectionInterior
	if p.Relative {
		defl = absoluteDeflection(fb.size(), p.DeflectionInterior, shapeSize)
	}
	if !p.ForceFaceDeflection {
		if n > 0 {
			defl = math.Max(defl, sum/float64(n))
		}
		defl = math.Max(defl, 2*f.Tolerance)
	}

	minSize := p.MinSize
	if p.Relative {
		minSize = math.Max(math.Min(minSize, relMinSize*defl), confusion)
	}

	return facemesh.Params{
		Deflection:               defl,
		Angle:                    p.Angle,
		InteriorDeflection:       defl,
		InteriorAngle:            p.AngleInterior,
		MinSize:                  minSize,
		InternalVertices:         p.InternalVerticesMode,
		ControlSurfaceDeflection: p.ControlSurfaceDeflection,
	}
}
