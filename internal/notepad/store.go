package notepad

// noteStore is the ordered list of views. Order is the load order and is
// never changed by mutations. gen identifies the load that produced the list.
type noteStore struct {
	views []NoteView
	index map[string]int
	gen   uint64
}

func newNoteStore() *noteStore {
	return &noteStore{index: make(map[string]int)}
}

// reset replaces the whole list with views from load gen. Later duplicates
// of an ID are dropped.
func (s *noteStore) reset(gen uint64, views []NoteView) {
	s.gen = gen
	s.views = make([]NoteView, 0, len(views))
	s.index = make(map[string]int, len(views))
	for _, v := range views {
		if _, dup := s.index[v.ID]; dup {
			continue
		}
		s.index[v.ID] = len(s.views)
		s.views = append(s.views, v)
	}
}

func (s *noteStore) get(id string) (NoteView, bool) {
	i, ok := s.index[id]
	if !ok {
		return NoteView{}, false
	}
	return s.views[i], true
}

// put replaces the entry with v.ID in place. It reports false when the ID is
// not in the list.
func (s *noteStore) put(v NoteView) bool {
	i, ok := s.index[v.ID]
	if !ok {
		return false
	}
	s.views[i] = v
	return true
}

// update applies fn to the entry with id, if present.
func (s *noteStore) update(id string, fn func(NoteView) NoteView) bool {
	v, ok := s.get(id)
	if !ok {
		return false
	}
	return s.put(fn(v))
}

func (s *noteStore) list() []NoteView {
	out := make([]NoteView, len(s.views))
	copy(out, s.views)
	return out
}
