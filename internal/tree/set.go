package tree

import "sort"

// Set is a set of node ids. A nil Set is a valid empty set for reads.
type Set map[string]struct{}

// NewSet returns a set holding ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id.
func (s Set) Add(id string) {
	s[id] = struct{}{}
}

// Remove deletes id.
func (s Set) Remove(id string) {
	delete(s, id)
}

// Len returns the number of ids.
func (s Set) Len() int {
	return len(s)
}

// Clone returns an independent copy; never nil.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Slice returns the ids sorted.
func (s Set) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Equal reports setwise equality.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Union returns a fresh set holding every id of every input.
func Union(sets ...Set) Set {
	size := 0
	for _, s := range sets {
		size += len(s)
	}
	out := make(Set, size)
	for _, s := range sets {
		for id := range s {
			out[id] = struct{}{}
		}
	}
	return out
}
