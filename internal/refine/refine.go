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

// Package refine inserts interior nodes into a face triangulation until it
// follows the surface within the requested deflection.
package refine

import (
	"log/slog"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/hajimehoshi/go-brepmesh/geom"
	"github.com/hajimehoshi/go-brepmesh/internal/delaun"
	"github.com/hajimehoshi/go-brepmesh/internal/meshdata"
	"github.com/hajimehoshi/go-brepmesh/internal/rangesplit"
)

// Params are the interior tolerances of a face.
type Params struct {
	Deflection float64
	Angle      float64
	MinSize    float64

	// ControlDeflection enables the iterative deflection control after
	// the base triangulation, for algorithms that support it. Without it
	// the deflection is only measured.
	ControlDeflection bool
	// MaxPasses bounds the control passes. Zero means the default.
	MaxPasses int
}

// Session is the state shared by the steps meshing one face.
type Session struct {
	Surface    geom.Surface
	Mesh       *meshdata.Mesh
	Classifier *meshdata.Classifier
	Params     Params
	Log        *slog.Logger
}

// Algorithm composes a range splitter with a node insertion policy.
type Algorithm struct {
	Splitter rangesplit.Splitter

	// PreProcess inserts the splitter's nodes with the boundary in the
	// base triangulation; otherwise they are added afterwards.
	PreProcess bool

	// ControlDeflection allows the deflection control loop.
	ControlDeflection bool
}

// Result describes what PostProcessMesh did.
type Result struct {
	Inserted  int
	Passes    int
	Converged bool
}

const (
	maxPasses = 12
	maxNodes  = 200000
)

// Reset prepares the algorithm's splitter for a face.
func (a *Algorithm) Reset(s geom.Surface, p Params) {
	a.Splitter.Reset(s, rangesplit.Params{
		Deflection: p.Deflection,
		Angle:      p.Angle,
		MinSize:    p.MinSize,
	})
}

// CellsCount sizes the triangulator's acceleration grid.
func (a *Algorithm) CellsCount(vertexCount int) (int, int) {
	return a.Splitter.CellsCount(vertexCount)
}

// InitDataStructure returns the nodes to triangulate together with the
// boundary. Only pre-processing algorithms return any.
func (a *Algorithm) InitDataStructure(s *Session) []int {
	if !a.PreProcess {
		return nil
	}
	return a.surfaceNodes(s)
}

// PostProcessMesh completes a base triangulation: post-processing
// algorithms add the splitter's nodes, then the deflection control runs if
// enabled. Otherwise Result.Converged reports whether the mesh is within the
// deflection anyway. It returns delaun.ErrCancelled when c fired.
func (a *Algorithm) PostProcessMesh(s *Session, b *delaun.Builder, c delaun.Canceller) (Result, error) {
	res := Result{Converged: true}
	if !a.PreProcess {
		ids := a.surfaceNodes(s)
		if len(ids) > 0 {
			n, err := b.AddVertices(ids, c)
			res.Inserted += n
			if err != nil {
				return res, err
			}
		}
	}
	if a.ControlDeflection && s.Params.ControlDeflection {
		return a.controlDeflection(s, b, c, res)
	}
	return measureDeflection(s, res), nil
}

func (a *Algorithm) surfaceNodes(s *Session) []int {
	var ids []int
	seq := a.Splitter.GenerateSurfaceNodes()
	for {
		uv, ok := seq.Next()
		if !ok {
			break
		}
		if id, ok := a.register(s, uv, s.Surface.Value(uv.X, uv.Y)); ok {
			ids = append(ids, id)
		}
	}
	s.Log.Debug("refine: surface nodes", "count", len(ids))
	return ids
}

func (a *Algorithm) register(s *Session, uv r2.Point, xyz r3.Vector) (int, bool) {
	pos := a.Splitter.Scale(uv)
	if s.Classifier.Classify(pos) != meshdata.In {
		return 0, false
	}
	return s.Mesh.RegisterNode(pos, uv, xyz, meshdata.NodeFree, true), true
}

// candidates measures the distance between the mesh and the surface at
// triangle centroids and free link midpoints and queues every point beyond
// the deflection. With normals set, centroids whose triangle normal turns
// away from the surface normal by more than the angle are queued too.
func candidates(s *Session, normals bool) *queue {
	m := s.Mesh
	p := s.Params
	q := pqNew()
	visited := map[int]struct{}{}
	for _, t := range m.LiveTriangles() {
		tri := m.Triangle(t)
		n0, n1, n2 := m.Node(tri.Nodes[0]), m.Node(tri.Nodes[1]), m.Node(tri.Nodes[2])
		if longestEdge(n0.XYZ, n1.XYZ, n2.XYZ) <= p.MinSize {
			continue
		}

		uv := n0.UV.Add(n1.UV).Add(n2.UV).Mul(1.0 / 3)
		xyz := s.Surface.Value(uv.X, uv.Y)
		plane := n0.XYZ.Add(n1.XYZ).Add(n2.XYZ).Mul(1.0 / 3)
		dev := xyz.Distance(plane)
		if dev > p.Deflection || normals && normalDeviation(s.Surface, uv, n0.XYZ, n1.XYZ, n2.XYZ) > p.Angle {
			pqInsert(q, &candidate{uv: uv, xyz: xyz, deviation: dev})
		}

		for _, li := range tri.Links {
			if _, ok := visited[li]; ok {
				continue
			}
			visited[li] = struct{}{}
			l := m.Link(li)
			if l.Kind.Constrained() {
				continue
			}
			na, nb := m.Node(l.Nodes[0]), m.Node(l.Nodes[1])
			if na.XYZ.Distance(nb.XYZ) <= p.MinSize {
				continue
			}
			muv := na.UV.Add(nb.UV).Mul(0.5)
			mxyz := s.Surface.Value(muv.X, muv.Y)
			if d := mxyz.Distance(na.XYZ.Add(nb.XYZ).Mul(0.5)); d > p.Deflection {
				pqInsert(q, &candidate{uv: muv, xyz: mxyz, deviation: d})
			}
		}
	}
	return q
}

// measureDeflection reports whether the mesh follows the surface within the
// deflection without inserting anything.
func measureDeflection(s *Session, res Result) Result {
	if q := candidates(s, false); !pqIsEmpty(q) {
		res.Converged = false
		s.Log.Debug("refine: deflection not controlled and not reached", "worst", q.h[0].deviation)
	}
	return res
}

// controlDeflection inserts the points queued by candidates, worst first,
// until nothing is queued any more.
func (a *Algorithm) controlDeflection(s *Session, b *delaun.Builder, c delaun.Canceller, res Result) (Result, error) {
	m := s.Mesh
	passes := s.Params.MaxPasses
	if passes <= 0 {
		passes = maxPasses
	}
	for res.Passes = 0; res.Passes < passes; res.Passes++ {
		q := candidates(s, true)
		if pqIsEmpty(q) {
			s.Log.Debug("refine: deflection reached", "passes", res.Passes, "inserted", res.Inserted)
			return res, nil
		}

		var ids []int
		for !pqIsEmpty(q) {
			cand := pqExtractMax(q)
			if id, ok := a.register(s, cand.uv, cand.xyz); ok {
				ids = append(ids, id)
			}
		}
		if m.NodeCount()+len(ids) > maxNodes {
			break
		}
		n, err := b.AddVertices(ids, c)
		res.Inserted += n
		if err != nil {
			return res, err
		}
		if n == 0 || b.HangDetected() {
			break
		}
	}
	res.Converged = false
	s.Log.Warn("refine: deflection not reached", "passes", res.Passes, "inserted", res.Inserted)
	return res, nil
}

func longestEdge(a, b, c r3.Vector) float64 {
	return math.Max(a.Distance(b), math.Max(b.Distance(c), c.Distance(a)))
}

// normalDeviation returns the angle between the normal of triangle abc and
// the surface normal at uv.
func normalDeviation(s geom.Surface, uv r2.Point, a, b, c r3.Vector) float64 {
	sn := geom.Normal(s, uv.X, uv.Y)
	tn := b.Sub(a).Cross(c.Sub(a))
	l := tn.Norm()
	if l == 0 || sn.Norm2() == 0 {
		return 0
	}
	cos := tn.Dot(sn) / l
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}
