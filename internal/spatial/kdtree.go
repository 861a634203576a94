// Package spatial provides an immutable 2-D k-d tree for radius queries over
// entity positions. An Index is built once from a point list and never
// mutated; callers rebuild it wholesale on their own cadence.
package spatial

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/castlehold/arena/internal/core/ecs"
)

// Point is one indexed position.
type Point struct {
	Pos mgl32.Vec2
	ID  ecs.EntityID
}

// Index is an implicit k-d tree: each subslice stores its splitting point at
// the midpoint, with smaller-or-equal coordinates on the left and
// greater-or-equal on the right. Depth parity picks the axis (x, then y).
type Index struct {
	nodes []Point
}

// Build copies points and arranges them into a tree in O(n log n).
func Build(points []Point) *Index {
	nodes := make([]Point, len(points))
	copy(nodes, points)
	build(nodes, 0)
	return &Index{nodes: nodes}
}

func build(pts []Point, axis int) {
	if len(pts) <= 1 {
		return
	}
	mid := len(pts) / 2
	selectNth(pts, mid, axis)
	build(pts[:mid], axis^1)
	build(pts[mid+1:], axis^1)
}

// Len returns the number of indexed points. A nil Index is empty.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.nodes)
}

// QueryRadius returns the ids of all points within radius of center
// (inclusive). Result order is unspecified.
func (ix *Index) QueryRadius(center mgl32.Vec2, radius float32) []ecs.EntityID {
	var out []ecs.EntityID
	ix.visit(center, radius, func(p Point, _ float32) {
		out = append(out, p.ID)
	})
	return out
}

// QueryNearest returns the same set as QueryRadius ordered by distance,
// ties broken by id.
func (ix *Index) QueryNearest(center mgl32.Vec2, radius float32) []ecs.EntityID {
	type hit struct {
		id ecs.EntityID
		d2 float32
	}
	var hits []hit
	ix.visit(center, radius, func(p Point, d2 float32) {
		hits = append(hits, hit{id: p.ID, d2: d2})
	})
	slices.SortFunc(hits, func(a, b hit) int {
		if c := cmp.Compare(a.d2, b.d2); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	out := make([]ecs.EntityID, len(hits))
	for i, h := range hits {
		out[i] = h.id
	}
	return out
}

func (ix *Index) visit(center mgl32.Vec2, radius float32, fn func(Point, float32)) {
	if ix.Len() == 0 || !(radius >= 0) {
		return
	}
	search(ix.nodes, 0, center, radius, radius*radius, fn)
}

func search(pts []Point, axis int, c mgl32.Vec2, r, r2 float32, fn func(Point, float32)) {
	for len(pts) > 0 {
		mid := len(pts) / 2
		p := pts[mid]
		if d2 := DistSq(p.Pos, c); d2 <= r2 {
			fn(p, d2)
		}
		delta := c[axis] - p.Pos[axis]
		left, right := pts[:mid], pts[mid+1:]
		goLeft, goRight := delta <= r, delta >= -r
		next := axis ^ 1
		switch {
		case goLeft && goRight:
			search(left, next, c, r, r2, fn)
			pts = right
		case goLeft:
			pts = left
		case goRight:
			pts = right
		default:
			return
		}
		axis = next
	}
}

// DistSq is the squared Euclidean distance used by every radius test.
func DistSq(a, b mgl32.Vec2) float32 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx + dy*dy
}

// selectNth reorders pts so pts[k] holds the k-th smallest coordinate on
// axis, with nothing larger before it and nothing smaller after it.
func selectNth(pts []Point, k, axis int) {
	lo, hi := 0, len(pts)-1
	for lo < hi {
		lt, gt := partition3(pts, lo, hi, axis)
		switch {
		case k < lt:
			hi = lt - 1
		case k > gt:
			lo = gt + 1
		default:
			return
		}
	}
}

// partition3 splits pts[lo..hi] around a median-of-three pivot into
// less / equal / greater bands and returns the bounds of the equal band.
// Stacked coordinates (enemies piled on the castle) stay linear.
func partition3(pts []Point, lo, hi, axis int) (int, int) {
	mid := lo + (hi-lo)/2
	if pts[mid].Pos[axis] < pts[lo].Pos[axis] {
		pts[lo], pts[mid] = pts[mid], pts[lo]
	}
	if pts[hi].Pos[axis] < pts[lo].Pos[axis] {
		pts[lo], pts[hi] = pts[hi], pts[lo]
	}
	if pts[hi].Pos[axis] < pts[mid].Pos[axis] {
		pts[mid], pts[hi] = pts[hi], pts[mid]
	}
	pivot := pts[mid].Pos[axis]

	lt, i, gt := lo, lo, hi
	for i <= gt {
		v := pts[i].Pos[axis]
		switch {
		case v < pivot:
			pts[lt], pts[i] = pts[i], pts[lt]
			lt++
			i++
		case v > pivot:
			pts[i], pts[gt] = pts[gt], pts[i]
			gt--
		default:
			i++
		}
	}
	return lt, gt
}
