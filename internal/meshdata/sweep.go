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

package meshdata

import (
	"sort"

	"github.com/golang/geo/r2"
)

type segment struct {
	loop, index int
	a, b        r2.Point
	box         r2.Rect
}

// SelfIntersection reports two boundary segments that meet somewhere other
// than at the node they share.
type SelfIntersection struct {
	Loop1, Segment1 int
	Loop2, Segment2 int
	Point           r2.Point
}

// adjacent reports whether s and t are consecutive segments of one loop.
func adjacent(s, t *segment, sizes []int) bool {
	if s.loop != t.loop {
		return false
	}
	n := sizes[s.loop]
	d := s.index - t.index
	if d < 0 {
		d = -d
	}
	return d == 1 || d == n-1
}

// FindSelfIntersections sweeps the segments of closed loops from left to
// right and returns every pair of non-adjacent segments that cross, touch or
// overlap.
func FindSelfIntersections(loops [][]r2.Point, tol float64) []SelfIntersection {
	var segs []*segment
	sizes := make([]int, len(loops))
	for li, l := range loops {
		sizes[li] = len(l)
		for i := range l {
			a, b := l[i], l[(i+1)%len(l)]
			segs = append(segs, &segment{
				loop:  li,
				index: i,
				a:     a,
				b:     b,
				box:   r2.RectFromPoints(a, b).ExpandedByMargin(tol),
			})
		}
	}
	sort.SliceStable(segs, func(i, j int) bool {
		return segs[i].box.X.Lo < segs[j].box.X.Lo
	})

	active := dictNewDict(func(a, b *segment) bool {
		return a.box.X.Hi <= b.box.X.Hi
	})
	var found []SelfIntersection
	for _, s := range segs {
		// Retire segments that end before this one starts.
		for n := dictMin(active); n.key != nil && n.key.box.X.Hi < s.box.X.Lo; n = dictMin(active) {
			dictDelete(n)
		}
		for n := dictMin(active); n.key != nil; n = n.next {
			t := n.key
			if !t.box.Intersects(s.box) || adjacent(s, t, sizes) {
				continue
			}
			p, kind := SegmentIntersection(s.a, s.b, t.a, t.b, tol)
			if kind == NoIntersection {
				continue
			}
			x := SelfIntersection{Loop1: t.loop, Segment1: t.index, Loop2: s.loop, Segment2: s.index, Point: p}
			if s.loop < t.loop || (s.loop == t.loop && s.index < t.index) {
				x.Loop1, x.Segment1, x.Loop2, x.Segment2 = s.loop, s.index, t.loop, t.index
			}
			found = append(found, x)
		}
		dictInsert(active, s)
	}
	sort.Slice(found, func(i, j int) bool {
		a, b := found[i], found[j]
		if a.Loop1 != b.Loop1 {
			return a.Loop1 < b.Loop1
		}
		if a.Segment1 != b.Segment1 {
			return a.Segment1 < b.Segment1
		}
		if a.Loop2 != b.Loop2 {
			return a.Loop2 < b.Loop2
		}
		return a.Segment2 < b.Segment2
	})
	return found
}
