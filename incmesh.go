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

// Package brepmesh triangulates the faces of a boundary representation so
// that every triangle stays within a linear and angular deflection of the
// surface it approximates.
//
// Edges are discretized once and shared by the faces they bound, so
// neighbouring face meshes meet on identical nodes. Each face is then
// triangulated in its parameter domain by a constrained Delaunay builder and
// refined until it follows the surface.
package brepmesh

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/hajimehoshi/go-brepmesh/internal/facemesh"
	"github.com/hajimehoshi/go-brepmesh/internal/parallel"
	"github.com/hajimehoshi/go-brepmesh/topo"
)

// State is the stage of a meshing run.
type State int

const (
	StateNotStarted State = iota
	StatePreprocessing
	StateMeshing
	StateDone
	StatePartialFailure
	StateFatal
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "NotStarted"
	case StatePreprocessing:
		return "Preprocessing"
	case StateMeshing:
		return "Meshing"
	case StateDone:
		return "Done"
	case StatePartialFailure:
		return "PartialFailure"
	case StateFatal:
		return "Fatal"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// IncrementalMesh meshes the faces of a shape and stores the results on the
// shape: Edge.Polygon, CoEdge.Polygon, Face.Triangulation and Face.Status.
// Faces whose stored triangulation is fine enough are kept.
type IncrementalMesh struct {
	shape  *topo.Shape
	params Parameters
	opts   options

	state  State
	status atomic.Uint32
}

// NewIncrementalMesh prepares a run over shape. Nothing is computed until
// Perform is called.
func NewIncrementalMesh(shape *topo.Shape, params Parameters, opts ...Option) *IncrementalMesh {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &IncrementalMesh{
		shape:  shape,
		params: params,
		opts:   o,
	}
}

// Parameters returns the parameters of the run, resolved once Perform has
// validated them.
func (m *IncrementalMesh) Parameters() Parameters {
	return m.params
}

// State returns the stage the run is in, or ended in.
func (m *IncrementalMesh) State() State {
	return m.state
}

// Status returns the union of the statuses of every face processed.
func (m *IncrementalMesh) Status() Status {
	return Status(m.status.Load())
}

func (m *IncrementalMesh) addStatus(s Status) {
	for {
		old := m.status.Load()
		if old|uint32(s) == old || m.status.CompareAndSwap(old, old|uint32(s)) {
			return
		}
	}
}

// Perform runs the mesher. c is polled between faces and between node
// insertions; nil never cancels. The returned error is non-nil only when the
// parameters are rejected, in which case no face is touched. Per face
// outcomes are reported through Status and Face.Status.
func (m *IncrementalMesh) Perform(c Canceller) error {
	if c == nil {
		c = never{}
	}
	log := m.opts.logger
	m.state = StatePreprocessing
	m.status.Store(0)

	p, err := m.params.Validate()
	if err != nil {
		log.Error("brepmesh: rejected parameters", "err", err)
		m.state = StateFatal
		m.addStatus(StatusFailure)
		return err
	}
	m.params = p

	var pool *parallel.WorkerPool
	if p.InParallel {
		pool = parallel.NewWorkerPool(m.opts.workers)
		defer pool.Close()
	}
	run := func(units []func()) {
		if pool != nil {
			pool.ExecuteAll(units)
			return
		}
		for _, u := range units {
			u()
		}
	}

	jobs, shapeSize := m.prepareEdges(p, run)
	log.Info("brepmesh: edges discretized",
		"edges", len(jobs),
		"faces", len(m.shape.Faces),
		"size", shapeSize,
		"relative", p.Relative,
		"parallel", p.InParallel)

	m.state = StateMeshing
	faces := m.shape.Faces
	units := make([]func(), len(faces))
	for i, f := range faces {
		f := f
		units[i] = func() {
			m.meshFace(f, p, jobs, shapeSize, c)
		}
	}
	run(units)

	var failed, succeeded int
	for _, f := range faces {
		switch {
		case f.Status.Has(StatusFailure):
			failed++
		case f.Status.Has(StatusDone | StatusReused):
			succeeded++
		}
	}
	m.state = StateDone
	if failed > 0 {
		m.state = StatePartialFailure
	}
	log.Info("brepmesh: run finished",
		"state", m.state,
		"status", m.Status(),
		"succeeded", succeeded,
		"failed", failed)
	return nil
}

// prepareEdges resolves the deflection of every edge and discretizes the
// edges whose stored polygon cannot be reused. Fresh polygons are written
// back to the edges.
func (m *IncrementalMesh) prepareEdges(p Parameters, run func([]func())) (map[*topo.Edge]*edgeJob, float64) {
	edges := m.shape.Edges()
	jobs := make(map[*topo.Edge]*edgeJob, len(edges))
	list := make([]*edgeJob, len(edges))
	shape := emptyBox()
	log := m.opts.logger
	for i, e := range edges {
		j := &edgeJob{edge: e, box: emptyBox()}
		if guard(log, "brepmesh: edge bounds failed", func() { j.box = edgeBox(e) }) {
			shape.union(j.box)
		} else {
			j.failed = true
		}
		jobs[e] = j
		list[i] = j
	}
	shapeSize := shape.size()

	units := make([]func(), len(list))
	for i, j := range list {
		j := j
		units[i] = func() {
			if j.failed {
				return
			}
			if !guard(log, "brepmesh: edge discretization failed", func() {
				j.resolve(p, shapeSize)
				j.discretize(p)
			}) {
				j.failed = true
				j.result, j.fresh = nil, false
			}
		}
	}
	run(units)

	for _, j := range list {
		if j.failed || !j.fresh {
			continue
		}
		j.edge.Polygon = &topo.Polygon3D{
			Nodes:      j.result.Points,
			Parameters: j.result.Params,
			Deflection: j.deflection,
		}
	}
	return jobs, shapeSize
}

// meshFace runs on a worker. It only writes to f and to the co-edges of f.
func (m *IncrementalMesh) meshFace(f *topo.Face, p Parameters, jobs map[*topo.Edge]*edgeJob, shapeSize float64, c Canceller) {
	defer func() {
		if r := recover(); r != nil {
			m.opts.logger.Warn("brepmesh: face failed", "panic", fmt.Sprint(r))
			f.Status = StatusFailure
			m.addStatus(StatusFailure)
		}
	}()
	if c.IsCancelled() {
		f.Status = StatusUserBreak
		m.addStatus(StatusUserBreak)
		return
	}
	for _, ce := range f.CoEdges() {
		if j := jobs[ce.Edge]; j != nil && j.failed {
			f.Status = StatusFailure | StatusTooFewPoints
			m.addStatus(f.Status)
			return
		}
	}

	fp := faceParams(f, p, jobs, shapeSize)
	if reusableFace(f, fp, p, jobs) {
		f.Status = StatusReused
		m.addStatus(StatusReused)
		return
	}

	edges := make(map[*topo.Edge]*facemesh.Edge)
	for _, ce := range f.CoEdges() {
		if j := jobs[ce.Edge]; j != nil {
			edges[ce.Edge] = j.result
		}
	}

	res := facemesh.Mesh(f, edges, fp, c, m.opts.logger)
	if res.Status.Has(StatusDone) {
		if f.Triangulation != nil {
			res.Status |= StatusOutdated
		}
		f.Triangulation = res.Triangulation
		for _, ce := range f.CoEdges() {
			ce.Polygon = res.Polygons[ce]
		}
	}
	f.Status = res.Status
	m.addStatus(res.Status)
}

// guard runs fn and reports whether it returned without panicking.
func guard(log *slog.Logger, msg string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn(msg, "panic", fmt.Sprint(r))
			ok = false
		}
	}()
	fn()
	return true
}

// reusableFace reports whether the triangulation stored on f can be kept:
// it is fine enough and none of its edges was rediscretized.
func reusableFace(f *topo.Face, fp facemesh.Params, p Parameters, jobs map[*topo.Edge]*edgeJob) bool {
	t := f.Triangulation
	if t == nil || len(t.Triangles) == 0 {
		return false
	}
	if t.Deflection > fp.Deflection*(1+confusion) {
		return false
	}
	if p.AllowQualityDecrease && t.Deflection < fp.Deflection*(1-confusion) {
		return false
	}
	for _, ce := range f.CoEdges() {
		if j := jobs[ce.Edge]; j == nil || j.fresh || ce.Polygon == nil {
			return false
		}
	}
	return true
}
