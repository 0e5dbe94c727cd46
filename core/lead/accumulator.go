package lead

// Set accumulates leads across backend pages.
// It keeps first-seen order and holds at most one lead per ID; a lead never moves once merged.
type Set struct {
	leads []Lead
	index map[string]int
}

func NewSet() *Set {
	return &Set{index: make(map[string]int)}
}

// Merge adds `records` to the set. When `firstPage` is set the set is replaced by `records` instead.
// Leads already present keep their position and fields. It returns how many leads were added.
func (s *Set) Merge(records []Lead, firstPage bool) int {
	if firstPage {
		s.leads = make([]Lead, 0, len(records))
		s.index = make(map[string]int, len(records))
	}

	var added int
	for _, l := range records {
		if l.ID == "" {
			continue
		}
		if _, ok := s.index[l.ID]; ok {
			continue
		}
		s.index[l.ID] = len(s.leads)
		s.leads = append(s.leads, l)
		added++
	}
	return added
}

func (s *Set) Len() int {
	return len(s.leads)
}

// Records returns a copy of the accumulated leads.
func (s *Set) Records() []Lead {
	res := make([]Lead, len(s.leads))
	copy(res, s.leads)
	return res
}

func (s *Set) Get(id string) (Lead, bool) {
	i, ok := s.index[id]
	if !ok {
		return Lead{}, false
	}
	return s.leads[i], true
}

// Update applies `fn` to the lead with the given ID in place.
func (s *Set) Update(id string, fn func(*Lead)) (Lead, bool) {
	i, ok := s.index[id]
	if !ok {
		return Lead{}, false
	}
	fn(&s.leads[i])
	s.leads[i].ID = id // identity is not up for change
	return s.leads[i], true
}
