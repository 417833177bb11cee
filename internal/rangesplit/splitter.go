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

// Package rangesplit prepares the parameter domain of a face for
// triangulation: it tracks the (u, v) range the boundary covers, scales it
// into working coordinates and generates the interior nodes a surface needs
// to be approximated within a deflection.
package rangesplit

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/hajimehoshi/go-brepmesh/geom"
)

// Params drives interior node generation.
type Params struct {
	Deflection float64
	Angle      float64
	MinSize    float64
}

// Splitter is the per-surface-kind strategy for a face's domain.
type Splitter interface {
	// Reset prepares the splitter for a new face.
	Reset(s geom.Surface, p Params)
	// AddPoint extends the tracked range with a boundary point.
	AddPoint(uv r2.Point)
	// AdjustRange fixes the range and computes the working scale.
	AdjustRange()
	// IsValid reports whether the range has a positive area.
	IsValid() bool
	// Range returns the tracked (u, v) range.
	Range() r2.Rect
	// Scale maps (u, v) to working coordinates.
	Scale(uv r2.Point) r2.Point
	// GenerateSurfaceNodes returns the interior nodes, in (u, v).
	GenerateSurfaceNodes() *NodeSequence
	// CellsCount sizes the acceleration grid for vertexCount nodes.
	CellsCount(vertexCount int) (cols, rows int)
}

// NodeSequence yields nodes one by one. It cannot be rewound.
type NodeSequence struct {
	next func() (r2.Point, bool)
	done bool
}

func emptySequence() *NodeSequence {
	return &NodeSequence{done: true}
}

// Next returns the next node, or false once the sequence is exhausted.
func (s *NodeSequence) Next() (r2.Point, bool) {
	if s.done {
		return r2.Point{}, false
	}
	p, ok := s.next()
	if !ok {
		s.done = true
	}
	return p, ok
}

// gridSequence walks the rows vs, each with its own columns from cols.
func gridSequence(vs []float64, cols func(row int) []float64) *NodeSequence {
	row, col := 0, 0
	var us []float64
	if len(vs) > 0 {
		us = cols(0)
	}
	return &NodeSequence{next: func() (r2.Point, bool) {
		for row < len(vs) {
			if col < len(us) {
				p := r2.Point{X: us[col], Y: vs[row]}
				col++
				return p, true
			}
			row++
			col = 0
			if row < len(vs) {
				us = cols(row)
			}
		}
		return r2.Point{}, false
	}}
}

// interior returns n-1 evenly spaced values strictly inside [lo, hi].
func interior(lo, hi float64, n int) []float64 {
	if n < 2 {
		return nil
	}
	out := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		out = append(out, lo+(hi-lo)*float64(i)/float64(n))
	}
	return out
}

const (
	maxStepsPerDirection = 1000
	maxCells             = 1024
	scaleSamples         = 5
)

func clampSteps(n float64) int {
	if math.IsNaN(n) || n < 1 {
		return 1
	}
	if n > maxStepsPerDirection {
		return maxStepsPerDirection
	}
	return int(math.Ceil(n))
}

// Default tracks the range and scale of a face but generates no interior
// nodes. Planes need nothing more.
type Default struct {
	surface geom.Surface
	params  Params
	rng     r2.Rect
	scale   r2.Point
}

func (d *Default) Reset(s geom.Surface, p Params) {
	d.surface = s
	d.params = p
	d.rng = r2.EmptyRect()
	d.scale = r2.Point{X: 1, Y: 1}
}

func (d *Default) AddPoint(uv r2.Point) {
	d.rng = d.rng.AddPoint(uv)
}

// AdjustRange computes the working scale from the mean lengths of the
// surface's first derivatives over the range.
func (d *Default) AdjustRange() {
	if !d.IsValid() {
		return
	}
	var su, sv float64
	n := 0
	for i := 0; i < scaleSamples; i++ {
		for j := 0; j < scaleSamples; j++ {
			u := d.rng.X.Lo + d.rng.X.Length()*float64(i)/(scaleSamples-1)
			v := d.rng.Y.Lo + d.rng.Y.Length()*float64(j)/(scaleSamples-1)
			_, du, dv := d.surface.D1(u, v)
			su += du.Norm()
			sv += dv.Norm()
			n++
		}
	}
	su /= float64(n)
	sv /= float64(n)
	if su <= 0 || math.IsNaN(su) {
		su = 1
	}
	if sv <= 0 || math.IsNaN(sv) {
		sv = 1
	}
	d.scale = r2.Point{X: su, Y: sv}
}

func (d *Default) IsValid() bool {
	return !d.rng.IsEmpty() && d.rng.X.Length() > 0 && d.rng.Y.Length() > 0
}

func (d *Default) Range() r2.Rect {
	return d.rng
}

func (d *Default) Scale(uv r2.Point) r2.Point {
	return r2.Point{
		X: (uv.X - d.rng.X.Lo) * d.scale.X,
		Y: (uv.Y - d.rng.Y.Lo) * d.scale.Y,
	}
}

func (d *Default) GenerateSurfaceNodes() *NodeSequence {
	return emptySequence()
}

// CellsCount aims at a couple of nodes per cell, following the aspect
// ratio of the working domain.
func (d *Default) CellsCount(vertexCount int) (int, int) {
	w := d.rng.X.Length() * d.scale.X
	h := d.rng.Y.Length() * d.scale.Y
	n := float64(max(vertexCount, 4))
	ratio := 1.0
	if w > 0 && h > 0 {
		ratio = w / h
	}
	cols := int(math.Ceil(math.Sqrt(n * ratio / 2)))
	rows := int(math.Ceil(math.Sqrt(n / ratio / 2)))
	return max(2, min(maxCells, cols)), max(2, min(maxCells, rows))
}
