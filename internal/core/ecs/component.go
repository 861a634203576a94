package ecs

// Removable is implemented by all component stores so the World can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// Store is a sparse-set component store keyed by slot index. Components live
// behind pointers so a *T stays valid while other entities come and go.
// Iteration follows the dense array, which makes it deterministic for a given
// history of Set and Remove calls.
type Store[T any] struct {
	sparse map[uint32]int
	ids    []EntityID
	data   []*T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		sparse: make(map[uint32]int, 128),
		ids:    make([]EntityID, 0, 128),
		data:   make([]*T, 0, 128),
	}
}

// Set attaches c to id, replacing whatever the slot held before.
func (s *Store[T]) Set(id EntityID, c *T) {
	if pos, ok := s.sparse[id.Index()]; ok {
		s.ids[pos] = id
		s.data[pos] = c
		return
	}
	s.sparse[id.Index()] = len(s.ids)
	s.ids = append(s.ids, id)
	s.data = append(s.data, c)
}

// Get returns the component for id. A stale handle whose slot has been
// reused by a newer generation misses.
func (s *Store[T]) Get(id EntityID) (*T, bool) {
	pos, ok := s.sparse[id.Index()]
	if !ok || s.ids[pos] != id {
		return nil, false
	}
	return s.data[pos], true
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.Get(id)
	return ok
}

func (s *Store[T]) Remove(id EntityID) {
	pos, ok := s.sparse[id.Index()]
	if !ok || s.ids[pos] != id {
		return
	}
	last := len(s.ids) - 1
	if pos != last {
		s.ids[pos] = s.ids[last]
		s.data[pos] = s.data[last]
		s.sparse[s.ids[pos].Index()] = pos
	}
	s.ids[last] = 0
	s.data[last] = nil
	s.ids = s.ids[:last]
	s.data = s.data[:last]
	delete(s.sparse, id.Index())
}

func (s *Store[T]) Len() int {
	return len(s.ids)
}

// Each visits every component from the back of the dense array. fn may
// remove the entity it is visiting; any other structural change during the
// walk is unsupported.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for i := len(s.ids) - 1; i >= 0; i-- {
		if i >= len(s.ids) {
			continue
		}
		fn(s.ids[i], s.data[i])
	}
}

// IDs returns a copy of the ids currently in the store.
func (s *Store[T]) IDs() []EntityID {
	out := make([]EntityID, len(s.ids))
	copy(out, s.ids)
	return out
}
