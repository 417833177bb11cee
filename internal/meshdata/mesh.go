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

// Package meshdata is the arena that stores the nodes, links and triangles of
// one face's mesh while it is being built.
package meshdata

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

type NodeKind uint8

const (
	// NodeBoundary is a node at a wire corner, shared by two co-edges.
	NodeBoundary NodeKind = iota
	// NodeFrontier is an interior node of an edge discretization.
	NodeFrontier
	// NodeFree is a node the triangulator may place anywhere.
	NodeFree
	// NodeInternal is a fixed node inside the face.
	NodeInternal
)

type LinkKind uint8

const (
	LinkFree LinkKind = iota
	// LinkFrontier is a boundary segment with the face on one side.
	LinkFrontier
	// LinkInternal is a segment of an internal edge with the face on both
	// sides.
	LinkInternal
)

// Constrained reports whether links of kind k are kept by the triangulator.
func (k LinkKind) Constrained() bool {
	return k != LinkFree
}

// Node is a mesh vertex. Pos is the working coordinate the triangulator
// uses, UV the surface parameter and XYZ the 3D point.
type Node struct {
	Pos  r2.Point
	UV   r2.Point
	XYZ  r3.Vector
	Kind NodeKind

	removed bool
}

// Link is an undirected edge. Tris holds the bordering triangles, -1 for an
// empty side.
type Link struct {
	Nodes [2]int
	Tris  [2]int
	Kind  LinkKind

	removed bool
}

// TriCount returns how many triangles border l.
func (l *Link) TriCount() int {
	n := 0
	for _, t := range l.Tris {
		if t >= 0 {
			n++
		}
	}
	return n
}

// Other returns the node of l that is not n.
func (l *Link) Other(n int) int {
	if l.Nodes[0] == n {
		return l.Nodes[1]
	}
	return l.Nodes[0]
}

// OtherTri returns the triangle across l from t, or -1.
func (l *Link) OtherTri(t int) int {
	if l.Tris[0] == t {
		return l.Tris[1]
	}
	if l.Tris[1] == t {
		return l.Tris[0]
	}
	return -1
}

// Triangle is counter-clockwise in Pos. Links[i] joins Nodes[i] and
// Nodes[(i+1)%3].
type Triangle struct {
	Nodes [3]int
	Links [3]int

	removed bool
}

// Apex returns the node of t opposite to the link joining a and b.
func (t *Triangle) Apex(a, b int) int {
	for _, n := range t.Nodes {
		if n != a && n != b {
			return n
		}
	}
	return -1
}

// Oriented returns the nodes of t rotated so that the triangle reads
// (x, y, apex) counter-clockwise, where {x, y} = {a, b}.
func (t *Triangle) Oriented(a, b int) (x, y, apex int) {
	for i := 0; i < 3; i++ {
		n0, n1 := t.Nodes[i], t.Nodes[(i+1)%3]
		if (n0 == a && n1 == b) || (n0 == b && n1 == a) {
			return n0, n1, t.Nodes[(i+2)%3]
		}
	}
	return -1, -1, -1
}

type linkKey struct {
	lo, hi int
}

func keyOf(a, b int) linkKey {
	if a > b {
		a, b = b, a
	}
	return linkKey{a, b}
}

type cellKey struct {
	x, y int64
}

// Mesh stores nodes, links and triangles by index. Removed links and
// triangles are recycled.
type Mesh struct {
	nodes []Node
	links []Link
	tris  []Triangle

	linkIdx   map[linkKey]int
	nodeLinks [][]int
	freeLinks []int
	freeTris  []int

	tol   float64
	cells map[cellKey][]int
}

// New returns an empty mesh. tol is the distance under which two nodes are
// the same node.
func New(tol float64) *Mesh {
	return &Mesh{
		linkIdx: map[linkKey]int{},
		tol:     tol,
		cells:   map[cellKey][]int{},
	}
}

func (m *Mesh) Tolerance() float64 {
	return m.tol
}

func (m *Mesh) cellOf(p r2.Point) cellKey {
	return cellKey{int64(math.Floor(p.X / m.tol)), int64(math.Floor(p.Y / m.tol))}
}

// RegisterNode adds a node. With dedupe set, a node closer than the
// tolerance to pos is returned instead.
func (m *Mesh) RegisterNode(pos, uv r2.Point, xyz r3.Vector, kind NodeKind, dedupe bool) int {
	c := m.cellOf(pos)
	if dedupe {
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for _, i := range m.cells[cellKey{c.x + dx, c.y + dy}] {
					n := &m.nodes[i]
					if !n.removed && n.Pos.Sub(pos).Norm() <= m.tol {
						return i
					}
				}
			}
		}
	}
	i := len(m.nodes)
	m.nodes = append(m.nodes, Node{Pos: pos, UV: uv, XYZ: xyz, Kind: kind})
	m.nodeLinks = append(m.nodeLinks, nil)
	m.cells[c] = append(m.cells[c], i)
	return i
}

func (m *Mesh) NodeCount() int {
	return len(m.nodes)
}

func (m *Mesh) Node(i int) *Node {
	return &m.nodes[i]
}

func (m *Mesh) Pos(i int) r2.Point {
	return m.nodes[i].Pos
}

func (m *Mesh) IsNodeRemoved(i int) bool {
	return m.nodes[i].removed
}

// RemoveNode removes a node that no link references any more.
func (m *Mesh) RemoveNode(i int) {
	assert(len(m.nodeLinks[i]) == 0)
	m.nodes[i].removed = true
	c := m.cellOf(m.nodes[i].Pos)
	ids := m.cells[c]
	for k, j := range ids {
		if j == i {
			m.cells[c] = append(ids[:k], ids[k+1:]...)
			break
		}
	}
}

func (m *Mesh) LinkCount() int {
	return len(m.links)
}

func (m *Mesh) Link(i int) *Link {
	return &m.links[i]
}

func (m *Mesh) IsLinkRemoved(i int) bool {
	return m.links[i].removed
}

// FindLink returns the link joining a and b.
func (m *Mesh) FindLink(a, b int) (int, bool) {
	i, ok := m.linkIdx[keyOf(a, b)]
	return i, ok
}

// AddLink returns the link joining a and b, creating it if needed. An
// existing free link is promoted to a constrained kind; a constrained link
// keeps its kind.
func (m *Mesh) AddLink(a, b int, kind LinkKind) int {
	assert(a != b)
	if i, ok := m.linkIdx[keyOf(a, b)]; ok {
		if m.links[i].Kind == LinkFree {
			m.links[i].Kind = kind
		}
		return i
	}
	l := Link{Nodes: [2]int{a, b}, Tris: [2]int{-1, -1}, Kind: kind}
	var i int
	if n := len(m.freeLinks); n > 0 {
		i = m.freeLinks[n-1]
		m.freeLinks = m.freeLinks[:n-1]
		m.links[i] = l
	} else {
		i = len(m.links)
		m.links = append(m.links, l)
	}
	m.linkIdx[keyOf(a, b)] = i
	m.nodeLinks[a] = append(m.nodeLinks[a], i)
	m.nodeLinks[b] = append(m.nodeLinks[b], i)
	return i
}

func (m *Mesh) SetLinkKind(i int, kind LinkKind) {
	m.links[i].Kind = kind
}

// RemoveLink removes a link no triangle borders. It reports whether the
// link was removed.
func (m *Mesh) RemoveLink(i int) bool {
	l := &m.links[i]
	if l.removed || l.TriCount() > 0 {
		return false
	}
	delete(m.linkIdx, keyOf(l.Nodes[0], l.Nodes[1]))
	for _, n := range l.Nodes {
		ls := m.nodeLinks[n]
		for k, j := range ls {
			if j == i {
				m.nodeLinks[n] = append(ls[:k], ls[k+1:]...)
				break
			}
		}
	}
	l.removed = true
	m.freeLinks = append(m.freeLinks, i)
	return true
}

func (m *Mesh) TriangleSlots() int {
	return len(m.tris)
}

func (m *Mesh) Triangle(i int) *Triangle {
	return &m.tris[i]
}

func (m *Mesh) IsTriangleRemoved(i int) bool {
	return m.tris[i].removed
}

// AddTriangle adds the counter-clockwise triangle abc and attaches it to its
// links, creating free links where none exist.
func (m *Mesh) AddTriangle(a, b, c int) int {
	var i int
	if n := len(m.freeTris); n > 0 {
		i = m.freeTris[n-1]
		m.freeTris = m.freeTris[:n-1]
	} else {
		i = len(m.tris)
		m.tris = append(m.tris, Triangle{})
	}
	t := Triangle{Nodes: [3]int{a, b, c}}
	for k := 0; k < 3; k++ {
		li := m.AddLink(t.Nodes[k], t.Nodes[(k+1)%3], LinkFree)
		l := &m.links[li]
		switch {
		case l.Tris[0] < 0:
			l.Tris[0] = i
		case l.Tris[1] < 0:
			l.Tris[1] = i
		default:
			panic(fmt.Sprintf("meshdata: link %d-%d already borders two triangles", l.Nodes[0], l.Nodes[1]))
		}
		t.Links[k] = li
	}
	m.tris[i] = t
	return i
}

// RemoveTriangle detaches a triangle from its links. Free links left with
// no triangle are removed too; frontier links stay.
func (m *Mesh) RemoveTriangle(i int) {
	t := &m.tris[i]
	assert(!t.removed)
	for _, li := range t.Links {
		l := &m.links[li]
		for k := range l.Tris {
			if l.Tris[k] == i {
				l.Tris[k] = -1
			}
		}
		if l.Kind == LinkFree {
			m.RemoveLink(li)
		}
	}
	t.removed = true
	m.freeTris = append(m.freeTris, i)
}

// Neighbors returns the links incident to node n and the triangles around it.
func (m *Mesh) Neighbors(n int) (links []int, tris []int) {
	links = append(links, m.nodeLinks[n]...)
	seen := map[int]struct{}{}
	for _, li := range m.nodeLinks[n] {
		for _, t := range m.links[li].Tris {
			if t < 0 {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tris = append(tris, t)
		}
	}
	return links, tris
}

// LiveTriangles returns the indices of all triangles in slot order.
func (m *Mesh) LiveTriangles() []int {
	var ts []int
	for i := range m.tris {
		if !m.tris[i].removed {
			ts = append(ts, i)
		}
	}
	return ts
}

// LiveLinks returns the indices of all links in slot order.
func (m *Mesh) LiveLinks() []int {
	var ls []int
	for i := range m.links {
		if !m.links[i].removed {
			ls = append(ls, i)
		}
	}
	return ls
}

// CheckMesh verifies the structural invariants of the mesh: triangles and
// links reference each other consistently, free and internal links border
// two triangles, frontier links exactly one, and no triangle is inverted.
func (m *Mesh) CheckMesh() error {
	for i := range m.tris {
		t := &m.tris[i]
		if t.removed {
			continue
		}
		for k := 0; k < 3; k++ {
			a, b := t.Nodes[k], t.Nodes[(k+1)%3]
			if m.nodes[a].removed {
				return errors.Errorf("triangle %d references removed node %d", i, a)
			}
			l := &m.links[t.Links[k]]
			if l.removed {
				return errors.Errorf("triangle %d references removed link %d", i, t.Links[k])
			}
			if keyOf(a, b) != keyOf(l.Nodes[0], l.Nodes[1]) {
				return errors.Errorf("triangle %d: link %d does not join %d-%d", i, t.Links[k], a, b)
			}
			if l.Tris[0] != i && l.Tris[1] != i {
				return errors.Errorf("triangle %d: link %d does not reference it", i, t.Links[k])
			}
		}
		p0, p1, p2 := m.Pos(t.Nodes[0]), m.Pos(t.Nodes[1]), m.Pos(t.Nodes[2])
		if Orient(p0, p1, p2) < -m.tol*m.tol {
			return errors.Errorf("triangle %d is inverted", i)
		}
	}
	for i := range m.links {
		l := &m.links[i]
		if l.removed {
			continue
		}
		for _, t := range l.Tris {
			if t >= 0 && m.tris[t].removed {
				return errors.Errorf("link %d references removed triangle %d", i, t)
			}
		}
		n := l.TriCount()
		switch l.Kind {
		case LinkFree:
			if n != 2 {
				return errors.Errorf("free link %d-%d borders %d triangles", l.Nodes[0], l.Nodes[1], n)
			}
		case LinkFrontier:
			if n != 1 {
				return errors.Errorf("frontier link %d-%d borders %d triangles", l.Nodes[0], l.Nodes[1], n)
			}
		case LinkInternal:
			if n != 2 {
				return errors.Errorf("internal link %d-%d borders %d triangles", l.Nodes[0], l.Nodes[1], n)
			}
		}
	}
	return nil
}

func assert(cond bool) {
	if !cond {
		panic("meshdata: assertion error")
	}
}
