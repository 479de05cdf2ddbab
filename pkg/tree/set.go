package tree

import "sort"

// Set is a set of identifiers with structural equality. Members do not need
// to resolve to a node.
type Set map[string]Identifier

// NewSet returns a set holding the given identifiers.
func NewSet(ids ...Identifier) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id and reports whether it was newly added.
func (s Set) Add(id Identifier) bool {
	k := id.Key()
	if _, ok := s[k]; ok {
		return false
	}
	s[k] = id.Clone()
	return true
}

// Remove deletes id and reports whether it was present.
func (s Set) Remove(id Identifier) bool {
	k := id.Key()
	if _, ok := s[k]; !ok {
		return false
	}
	delete(s, k)
	return true
}

// Has reports membership. Safe on a nil set.
func (s Set) Has(id Identifier) bool {
	_, ok := s[id.Key()]
	return ok
}

// Slice returns the members ordered by path.
func (s Set) Slice() []Identifier {
	out := make([]Identifier, 0, len(s))
	for _, id := range s {
		out = append(out, id.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

// Less orders identifiers the way a pre-order walk visits them.
func Less(a, b Identifier) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
