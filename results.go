package objectgraph

import "iter"

// Store accumulates validation failures for one graph walk. It is a
// multimap from FieldIdentifier to an ordered list of Violations:
// inserting for an identifier appends rather than replaces, and the first
// insertion fixes the identifier's position in iteration order.
//
// An identifier absent from the store means "no recorded failures for that
// field", not "known-valid".
//
// A Store is created empty by the caller, populated only by the walker,
// and read after the walk completes. It is not safe for concurrent use;
// a single walk is strictly sequential.
type Store struct {
	order  []*FieldIdentifier
	lists  [][]Violation
	groups map[Key]int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		groups: make(map[Key]int),
	}
}

// Add appends a violation for the given field identifier.
func (s *Store) Add(id *FieldIdentifier, v Violation) {
	key := id.Key()
	idx, ok := s.groups[key]
	if !ok {
		idx = len(s.order)
		s.order = append(s.order, id)
		s.groups[key] = idx
		s.lists = append(s.lists, nil)
	}
	s.lists[idx] = append(s.lists[idx], v)
}

// Len returns the number of field identifiers with recorded failures.
func (s *Store) Len() int {
	return len(s.order)
}

// Total returns the total number of recorded violations.
func (s *Store) Total() int {
	n := 0
	for _, vs := range s.lists {
		n += len(vs)
	}
	return n
}

// Valid reports whether the store holds no violations.
func (s *Store) Valid() bool {
	return len(s.order) == 0
}

// Violations returns the ordered failures recorded for id, or nil.
func (s *Store) Violations(id *FieldIdentifier) []Violation {
	idx, ok := s.groups[id.Key()]
	if !ok {
		return nil
	}
	return s.lists[idx]
}

// Entries iterates (FieldIdentifier, ordered failures) pairs in
// first-insertion order.
func (s *Store) Entries() iter.Seq2[*FieldIdentifier, []Violation] {
	return func(yield func(*FieldIdentifier, []Violation) bool) {
		for i, id := range s.order {
			if !yield(id, s.lists[i]) {
				return
			}
		}
	}
}

// All returns every violation in iteration order, flattened.
func (s *Store) All() []Violation {
	out := make([]Violation, 0, s.Total())
	for _, vs := range s.lists {
		out = append(out, vs...)
	}
	return out
}

// First returns the first violation in iteration order, or nil when the
// store is empty. Break-on-first-error mode surfaces exactly this failure.
func (s *Store) First() *Violation {
	for _, vs := range s.lists {
		if len(vs) > 0 {
			return &vs[0]
		}
	}
	return nil
}
