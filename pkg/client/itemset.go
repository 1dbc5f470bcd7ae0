package client

// ItemSet is an insertion-ordered set of favorites keyed by id. It is not safe for
// concurrent use; ListView guards it.
type ItemSet struct {
	order []uint
	byID  map[uint]Favorite
}

func NewItemSet() *ItemSet {
	return &ItemSet{byID: map[uint]Favorite{}}
}

// Upsert replaces the favorite in place when its id is known and appends it otherwise.
func (s *ItemSet) Upsert(f Favorite) {
	if _, ok := s.byID[f.ID]; !ok {
		s.order = append(s.order, f.ID)
	}
	s.byID[f.ID] = f
}

// Prepend is Upsert for new rows that belong at the top.
func (s *ItemSet) Prepend(f Favorite) {
	if _, ok := s.byID[f.ID]; !ok {
		s.order = append([]uint{f.ID}, s.order...)
	}
	s.byID[f.ID] = f
}

func (s *ItemSet) Remove(id uint) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *ItemSet) Get(id uint) (Favorite, bool) {
	f, ok := s.byID[id]
	return f, ok
}

// Items returns a copy in display order.
func (s *ItemSet) Items() []Favorite {
	out := make([]Favorite, len(s.order))
	for i, id := range s.order {
		out[i] = s.byID[id]
	}
	return out
}

func (s *ItemSet) Len() int { return len(s.order) }

func (s *ItemSet) Reset() {
	s.order = nil
	s.byID = map[uint]Favorite{}
}
