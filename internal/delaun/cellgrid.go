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

package delaun

import (
	"math"

	"github.com/golang/geo/r2"
)

// cellGrid buckets triangles by the cell holding their centroid. It only
// supplies starting triangles for the point location walk, so stale entries
// are harmless.
type cellGrid struct {
	bound      r2.Rect
	cols, rows int
	cells      [][]int
}

const maxCellEntries = 16

func newCellGrid(bound r2.Rect, cols, rows int) *cellGrid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &cellGrid{
		bound: bound,
		cols:  cols,
		rows:  rows,
		cells: make([][]int, cols*rows),
	}
}

func (g *cellGrid) cellOf(p r2.Point) (int, int) {
	w, h := g.bound.X.Length(), g.bound.Y.Length()
	cx, cy := 0, 0
	if w > 0 {
		cx = int(math.Floor((p.X - g.bound.X.Lo) / w * float64(g.cols)))
	}
	if h > 0 {
		cy = int(math.Floor((p.Y - g.bound.Y.Lo) / h * float64(g.rows)))
	}
	cx = max(0, min(g.cols-1, cx))
	cy = max(0, min(g.rows-1, cy))
	return cx, cy
}

func (g *cellGrid) add(t int, centroid r2.Point) {
	cx, cy := g.cellOf(centroid)
	c := &g.cells[cy*g.cols+cx]
	if len(*c) >= maxCellEntries {
		// Keep the most recent entries; older ones are likely stale.
		copy(*c, (*c)[1:])
		*c = (*c)[:len(*c)-1]
	}
	*c = append(*c, t)
}

// near calls f with the triangles registered around p, ring by ring, until
// f returns true or radius rings were visited.
func (g *cellGrid) near(p r2.Point, radius int, f func(t int) bool) {
	cx, cy := g.cellOf(p)
	for r := 0; r <= radius; r++ {
		for y := cy - r; y <= cy+r; y++ {
			if y < 0 || y >= g.rows {
				continue
			}
			for x := cx - r; x <= cx+r; x++ {
				if x < 0 || x >= g.cols {
					continue
				}
				if r > 0 && x != cx-r && x != cx+r && y != cy-r && y != cy+r {
					continue
				}
				c := g.cells[y*g.cols+x]
				for i := len(c) - 1; i >= 0; i-- {
					if f(c[i]) {
						return
					}
				}
			}
		}
	}
}
