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

// Package facemesh meshes a single face: it maps the edge discretizations
// onto the face's parameter domain, triangulates the domain, refines the
// triangulation and extracts the result in its persisted layout.
package facemesh

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/hajimehoshi/go-brepmesh/internal/delaun"
	"github.com/hajimehoshi/go-brepmesh/internal/meshdata"
	"github.com/hajimehoshi/go-brepmesh/internal/refine"
	"github.com/hajimehoshi/go-brepmesh/topo"
)

// Params are the resolved tolerances of one face.
type Params struct {
	Deflection         float64
	Angle              float64
	InteriorDeflection float64
	InteriorAngle      float64
	MinSize            float64

	InternalVertices         bool
	ControlSurfaceDeflection bool
}

// Result is the outcome of meshing one face. Triangulation and Polygons are
// nil unless Status has StatusDone.
type Result struct {
	Triangulation *topo.Triangulation
	Polygons      map[*topo.CoEdge]*topo.PolygonOnTriangulation
	Status        topo.MeshStatus
}

// relativeTolerance is the node confusion distance relative to the size of
// the working domain.
const relativeTolerance = 1e-7

// Mesh meshes f. edges holds the discretization of every edge of f. c is
// polled between node insertions; when it fires the partial mesh is
// discarded and the result carries StatusUserBreak.
func Mesh(f *topo.Face, edges map[*topo.Edge]*Edge, p Params, c delaun.Canceller, log *slog.Logger) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("facemesh: face failed", "panic", fmt.Sprint(r))
			res = Result{Status: res.Status | topo.StatusFailure}
		}
	}()
	mesh(f, edges, p, c, log, &res)
	return res
}

// mesh fills res as it goes, so the statuses gathered before a panic
// survive it.
func mesh(f *topo.Face, edges map[*topo.Edge]*Edge, p Params, c delaun.Canceller, log *slog.Logger, res *Result) {
	if len(f.Wires) == 0 {
		res.Status |= topo.StatusFailure | topo.StatusTooFewPoints
		return
	}

	var wires [][]*coEdgeNodes
	projTol := math.Max(p.Deflection, 1e-7)
	for _, w := range f.Wires {
		nodes, fallbacks, missing := wireNodes(f, w, edges, projTol)
		if missing {
			res.Status |= topo.StatusTooFewPoints
		}
		if fallbacks > 0 {
			log.Debug("facemesh: edge parameters kept from rescaling", "count", fallbacks)
		}
		wires = append(wires, nodes)
	}
	internal, fallbacks, missing := wireNodes(f, &topo.Wire{CoEdges: f.InternalEdges}, edges, projTol)
	if missing {
		res.Status |= topo.StatusTooFewPoints
	}
	if fallbacks > 0 {
		log.Debug("facemesh: internal edge parameters kept from rescaling", "count", fallbacks)
	}
	all := append(wires[:len(wires):len(wires)], internal)

	algo := refine.ForSurface(f.Surface.Kind())
	rp := refine.Params{
		Deflection:        p.InteriorDeflection,
		Angle:             p.InteriorAngle,
		MinSize:           p.MinSize,
		ControlDeflection: p.ControlSurfaceDeflection,
	}
	algo.Reset(f.Surface, rp)
	for _, w := range all {
		for _, n := range w {
			for _, uv := range n.uv {
				algo.Splitter.AddPoint(uv)
			}
		}
	}
	algo.Splitter.AdjustRange()
	if !algo.Splitter.IsValid() {
		log.Warn("facemesh: empty parameter range")
		res.Status |= topo.StatusFailure | topo.StatusTooFewPoints
		return
	}

	rng := algo.Splitter.Range()
	diag := algo.Splitter.Scale(rng.Hi()).Sub(algo.Splitter.Scale(rng.Lo())).Norm()
	m := meshdata.New(math.Max(diag*relativeTolerance, 1e-12))

	var loops [][]int
	var loopPos [][]r2.Point
	for wi, w := range wires {
		for _, n := range w {
			n.register(m, algo.Splitter.Scale)
		}
		ids, closed := loop(w)
		if !closed {
			res.Status |= topo.StatusOpenWire
		}
		if distinctNodes(ids) < 3 {
			res.Status |= topo.StatusTooFewPoints
			if wi == 0 {
				log.Warn("facemesh: degenerate outer wire")
				res.Status |= topo.StatusFailure
				return
			}
			continue
		}
		pos := make([]r2.Point, len(ids))
		for i, id := range ids {
			pos[i] = m.Pos(id)
		}
		loops = append(loops, ids)
		loopPos = append(loopPos, pos)
	}

	var chains [][]int
	for _, n := range internal {
		n.register(m, algo.Splitter.Scale)
		chains = append(chains, n.ids)
	}

	if xs := meshdata.FindSelfIntersections(loopPos, m.Tolerance()); len(xs) > 0 {
		log.Warn("facemesh: self-intersecting wire", "intersections", len(xs), "first", xs[0].Point)
		res.Status |= topo.StatusSelfIntersectingWire
	}

	sess := &refine.Session{
		Surface:    f.Surface,
		Mesh:       m,
		Classifier: meshdata.NewClassifier(loopPos, m.Tolerance()),
		Params:     rp,
		Log:        log,
	}
	extra := algo.InitDataStructure(sess)
	if p.InternalVertices {
		for _, uv := range f.InternalVertices {
			pos := algo.Splitter.Scale(uv)
			if sess.Classifier.Classify(pos) != meshdata.In {
				continue
			}
			extra = append(extra, m.RegisterNode(pos, uv, f.Surface.Value(uv.X, uv.Y), meshdata.NodeInternal, true))
		}
	}

	cols, rows := algo.CellsCount(m.NodeCount())
	b := delaun.New(m, cols, rows, log)
	if err := b.LoadBoundary(loops); err != nil {
		res.Status |= topo.StatusTooFewPoints
		if b.State() != delaun.StateBoundaryLoaded {
			res.Status |= topo.StatusFailure
			return
		}
	}
	if len(chains) > 0 {
		if err := b.LoadInternalEdges(chains); err != nil {
			log.Warn("facemesh: degenerate internal edge", "err", err)
			res.Status |= topo.StatusTooFewPoints
		}
	}
	if err := b.Build(extra); err != nil {
		log.Warn("facemesh: base triangulation failed", "err", err)
		res.Status |= topo.StatusFailure
		return
	}

	pr, err := algo.PostProcessMesh(sess, b, c)
	if errors.Is(err, delaun.ErrCancelled) {
		log.Debug("facemesh: cancelled, mesh discarded")
		*res = Result{Status: topo.StatusUserBreak}
		return
	}
	if err != nil {
		log.Warn("facemesh: refinement failed", "err", err)
		res.Status |= topo.StatusFailure
		return
	}
	b.Finalize()

	if b.SelfIntersecting() {
		res.Status |= topo.StatusSelfIntersectingWire
	}
	if !pr.Converged || b.HangDetected() {
		res.Status |= topo.StatusNotConverged
	}
	if err := m.CheckMesh(); err != nil {
		log.Warn("facemesh: inconsistent mesh", "err", err)
		res.Status |= topo.StatusFailure
		return
	}

	tri, polys := extract(f, m, all, p)
	if len(tri.Triangles) == 0 {
		res.Status |= topo.StatusFailure
		return
	}
	res.Triangulation = tri
	res.Polygons = polys
	res.Status |= topo.StatusDone
	log.Debug("facemesh: face meshed",
		"surface", f.Surface.Kind(),
		"nodes", len(tri.Nodes),
		"triangles", len(tri.Triangles),
		"inserted", pr.Inserted,
		"passes", pr.Passes,
		"status", res.Status)
	return
}
