package feature

import "math"

// List is an ordered, mutable sequence of shared features, as produced by
// detectors and consumed by trackers and matchers. It keeps a lazily rebuilt
// kd-tree over (x, y) for nearest-neighbour queries.
//
// List is not internally synchronised: mutation concurrent with any other
// access needs external exclusion (single writer, multiple readers).
type List struct {
	feats []*Feature
	index nnIndex
	stale bool
}

// NewList returns an empty feature list.
func NewList() *List {
	return &List{stale: true}
}

// Len returns the number of features in the list.
func (l *List) Len() int { return len(l.feats) }

// Empty reports whether the list holds no features.
func (l *List) Empty() bool { return len(l.feats) == 0 }

// At returns the feature at position i in insertion order.
func (l *List) At(i int) *Feature { return l.feats[i] }

// Features returns the backing slice, in insertion order. The slice is shared
// with the list; callers iterating it must not outlive structural mutations.
func (l *List) Features() []*Feature { return l.feats }

// PushBack appends a feature to the end of the list.
func (l *List) PushBack(f *Feature) {
	l.feats = append(l.feats, f)
	l.stale = true
}

// PushFront inserts a feature at the front of the list.
func (l *List) PushFront(f *Feature) {
	l.feats = append(l.feats, nil)
	copy(l.feats[1:], l.feats)
	l.feats[0] = f
	l.stale = true
}

// Erase removes the feature at position i, preserving the order of the rest.
func (l *List) Erase(i int) {
	l.feats = append(l.feats[:i], l.feats[i+1:]...)
	l.stale = true
}

// Clear removes every feature from the list.
func (l *List) Clear() {
	l.feats = l.feats[:0]
	l.stale = true
}

// Resize truncates the list to n features, or grows it with fresh idle
// features of undefined type.
func (l *List) Resize(n int) {
	switch {
	case n < len(l.feats):
		l.feats = l.feats[:n]
	case n > len(l.feats):
		for len(l.feats) < n {
			l.feats = append(l.feats, New())
		}
	}
	l.stale = true
}

// Type returns the type of the first feature in the list, or TypeNotDefined
// when the list is empty.
func (l *List) Type() Type {
	if len(l.feats) == 0 {
		return TypeNotDefined
	}
	return l.feats[0].Type
}

// GetByID returns the feature with the given ID, scanning in insertion order,
// or nil when no feature matches.
func (l *List) GetByID(id FeatureID) *Feature {
	for _, f := range l.feats {
		if f != nil && f.ID == id {
			return f
		}
	}
	return nil
}

// MaxID returns the largest feature ID in the list. ok is false when the list
// is empty.
func (l *List) MaxID() (id FeatureID, ok bool) {
	for _, f := range l.feats {
		if f == nil {
			continue
		}
		if !ok || f.ID > id {
			id = f.ID
			ok = true
		}
	}
	return id, ok
}

// InvalidateIndex marks the spatial index stale. Structural mutations do this
// automatically; callers that move features in place (trackers updating X, Y)
// must invalidate before the next Nearest query.
func (l *List) InvalidateIndex() { l.stale = true }

// Nearest returns the feature whose planar distance to (x, y) is minimal,
// provided that distance is at most maxDist, together with the achieved
// distance so callers can tighten subsequent queries. ok is false when the
// list is empty or no feature satisfies the bound.
//
// The first query after a mutation rebuilds the spatial index synchronously
// (O(n log n)); a query never observes a partially updated index.
func (l *List) Nearest(x, y, maxDist float64) (f *Feature, dist float64, ok bool) {
	if len(l.feats) == 0 {
		return nil, 0, false
	}
	if l.stale || l.index == nil {
		l.index = buildKDIndex(l.feats)
		l.stale = false
	}
	got, distSq, ok := l.index.nearest(x, y)
	if !ok {
		return nil, 0, false
	}
	dist = math.Sqrt(distSq)
	if dist > maxDist {
		return nil, 0, false
	}
	return got, dist, true
}
