package ecs

// TagStore records membership of entities in a zero-data category.
type TagStore struct {
	members map[EntityID]struct{}
}

func NewTagStore() *TagStore {
	return &TagStore{members: make(map[EntityID]struct{}, 64)}
}

func (s *TagStore) Add(id EntityID) {
	s.members[id] = struct{}{}
}

func (s *TagStore) Remove(id EntityID) {
	delete(s.members, id)
}

func (s *TagStore) Has(id EntityID) bool {
	_, ok := s.members[id]
	return ok
}

func (s *TagStore) Len() int {
	return len(s.members)
}

func (s *TagStore) IDs() []EntityID {
	ids := make([]EntityID, 0, len(s.members))
	for id := range s.members {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// AddTag marks e with tag T.
func AddTag[T any](w *World, e EntityID) {
	w.mustAlive(e, "AddTag")
	s := tagStore[T](w)
	if s.Has(e) {
		return
	}
	w.mustNotIterate("AddTag")
	s.Add(e)
}

// HasTag reports whether e carries tag T. Dead entities carry no tags.
func HasTag[T any](w *World, e EntityID) bool {
	if !w.Alive(e) {
		return false
	}
	s, ok := lookupTagStore[T](w)
	return ok && s.Has(e)
}

// RemoveTag clears tag T from e.
func RemoveTag[T any](w *World, e EntityID) {
	w.mustAlive(e, "RemoveTag")
	s, ok := lookupTagStore[T](w)
	if !ok || !s.Has(e) {
		return
	}
	w.mustNotIterate("RemoveTag")
	s.Remove(e)
}

func tagStore[T any](w *World) *TagStore {
	if s, ok := lookupTagStore[T](w); ok {
		return s
	}
	s := NewTagStore()
	w.registry.Register(KindOf[T](), s)
	return s
}

func lookupTagStore[T any](w *World) (*TagStore, bool) {
	k := KindOf[T]()
	s, ok := w.registry.Lookup(k)
	if !ok {
		return nil, false
	}
	ts, isTag := s.(*TagStore)
	if !isTag {
		panic("ecs: " + k.String() + " is registered as a component, not a tag")
	}
	return ts, true
}
