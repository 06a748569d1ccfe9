package feature

// Match is a correspondence between two features found by a matcher,
// conventionally (detected, tracked) or (left, right). Both sides reference
// features owned elsewhere; a match never copies.
type Match struct {
	First  *Feature
	Second *Feature
}

// MatchedList is an ordered sequence of feature correspondences. Like List it
// is not internally synchronised.
type MatchedList struct {
	matches []Match
}

// NewMatchedList returns an empty matched-pair list.
func NewMatchedList() *MatchedList {
	return &MatchedList{}
}

// Append records a correspondence between a and b.
func (m *MatchedList) Append(a, b *Feature) {
	m.matches = append(m.matches, Match{First: a, Second: b})
}

// Len returns the number of matched pairs.
func (m *MatchedList) Len() int { return len(m.matches) }

// At returns the pair at position i in insertion order.
func (m *MatchedList) At(i int) Match { return m.matches[i] }

// Matches returns the backing slice, in insertion order.
func (m *MatchedList) Matches() []Match { return m.matches }

// Clear removes every pair from the list.
func (m *MatchedList) Clear() { m.matches = m.matches[:0] }

// Type returns the type of the first pair's first feature, or TypeNotDefined
// when the list is empty.
func (m *MatchedList) Type() Type {
	if len(m.matches) == 0 || m.matches[0].First == nil {
		return TypeNotDefined
	}
	return m.matches[0].First.Type
}
