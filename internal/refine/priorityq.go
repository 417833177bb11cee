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

package refine

import (
	"container/heap"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// candidate is a point proposed for insertion, ranked by how far the
// current mesh is from the surface there.
type candidate struct {
	uv        r2.Point
	xyz       r3.Vector
	deviation float64
	seq       int
}

// pq pops the worst candidate first. Equal deviations pop in insertion
// order so runs are reproducible.
type pq []*candidate

func (p pq) Len() int {
	return len(p)
}

func (p pq) Less(i, j int) bool {
	if p[i].deviation != p[j].deviation {
		return p[i].deviation > p[j].deviation
	}
	return p[i].seq < p[j].seq
}

func (p pq) Swap(i, j int) {
	p[i], p[j] = p[j], p[i]
}

func (p *pq) Push(x interface{}) {
	*p = append(*p, x.(*candidate))
}

func (p *pq) Pop() interface{} {
	old := *p
	x := old[len(old)-1]
	*p = old[:len(old)-1]
	return x
}

// queue numbers its candidates as they arrive.
type queue struct {
	h   pq
	seq int
}

func pqNew() *queue {
	q := &queue{}
	heap.Init(&q.h)
	return q
}

func pqInsert(q *queue, c *candidate) {
	c.seq = q.seq
	q.seq++
	heap.Push(&q.h, c)
}

func pqExtractMax(q *queue) *candidate {
	if len(q.h) == 0 {
		return nil
	}
	return heap.Pop(&q.h).(*candidate)
}

func pqIsEmpty(q *queue) bool {
	return len(q.h) == 0
}
