package feature

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// nnIndex is the nearest-neighbour index a List queries. It is a composed
// component so the index strategy can change without touching the List
// contract.
type nnIndex interface {
	// nearest returns the stored feature closest to (x, y) and the planar
	// distance to it. ok is false when the index is empty.
	nearest(x, y float64) (f *Feature, dist float64, ok bool)
}

// kdIndex is a kd-tree over the (x, y) coordinates of a feature snapshot.
// Building is O(n log n) and not incremental: the List rebuilds the whole
// index whenever a query finds it stale.
type kdIndex struct {
	tree *kdtree.Tree
	n    int
}

// buildKDIndex snapshots the coordinates of feats into a fresh kd-tree.
func buildKDIndex(feats []*Feature) *kdIndex {
	pts := make(featPoints, 0, len(feats))
	for _, f := range feats {
		if f == nil {
			continue
		}
		pts = append(pts, featPoint{x: f.X, y: f.Y, f: f})
	}
	if len(pts) == 0 {
		return &kdIndex{}
	}
	return &kdIndex{tree: kdtree.New(pts, false), n: len(pts)}
}

func (ix *kdIndex) nearest(x, y float64) (*Feature, float64, bool) {
	if ix.tree == nil || ix.n == 0 {
		return nil, 0, false
	}
	got, distSq := ix.tree.Nearest(featPoint{x: x, y: y})
	if got == nil {
		return nil, 0, false
	}
	p := got.(featPoint)
	return p.f, distSq, true
}

// featPoint adapts a feature's coordinates to the kdtree.Comparable
// interface. The coordinates are copied at build time so later tracker
// updates cannot skew an already-built tree.
type featPoint struct {
	x, y float64
	f    *Feature
}

func (p featPoint) coord(d kdtree.Dim) float64 {
	if d == 0 {
		return p.x
	}
	return p.y
}

// Compare returns the signed distance of p from the plane through q
// perpendicular to dimension d.
func (p featPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(featPoint)
	return p.coord(d) - q.coord(d)
}

// Dims returns the number of dimensions described by the point.
func (p featPoint) Dims() int { return 2 }

// Distance returns the squared Euclidean distance between the points.
func (p featPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(featPoint)
	dx := p.x - q.x
	dy := p.y - q.y
	return dx*dx + dy*dy
}

// featPoints implements kdtree.Interface over a coordinate snapshot.
type featPoints []featPoint

func (p featPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p featPoints) Len() int                              { return len(p) }
func (p featPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }
func (p featPoints) Pivot(d kdtree.Dim) int {
	return featPlane{Dim: d, featPoints: p}.Pivot()
}

// featPlane sorts featPoints along a dimension for pivot selection.
type featPlane struct {
	kdtree.Dim
	featPoints
}

var _ sort.Interface = featPlane{}

func (p featPlane) Less(i, j int) bool {
	return p.featPoints[i].coord(p.Dim) < p.featPoints[j].coord(p.Dim)
}
func (p featPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p featPlane) Slice(start, end int) kdtree.SortSlicer {
	p.featPoints = p.featPoints[start:end]
	return p
}
func (p featPlane) Swap(i, j int) {
	p.featPoints[i], p.featPoints[j] = p.featPoints[j], p.featPoints[i]
}
