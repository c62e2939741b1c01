package monitor

import "container/list"

// seenSet recuerda los últimos N ids notificados de una wallet (FIFO).
// Un set nil está desactivado: nunca contiene nada y Add no hace nada.
type seenSet struct {
	capacity int
	order    *list.List
	index    map[string]*list.Element
}

func newSeenSet(capacity int) *seenSet {
	if capacity <= 0 {
		return nil
	}
	return &seenSet{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[string]*list.Element, capacity),
	}
}

func (s *seenSet) Contains(id string) bool {
	if s == nil || id == "" {
		return false
	}
	_, ok := s.index[id]
	return ok
}

func (s *seenSet) Add(id string) {
	if s == nil || id == "" {
		return
	}
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = s.order.PushBack(id)
	if s.order.Len() > s.capacity {
		oldest := s.order.Front()
		s.order.Remove(oldest)
		delete(s.index, oldest.Value.(string))
	}
}

func (s *seenSet) Len() int {
	if s == nil {
		return 0
	}
	return s.order.Len()
}
