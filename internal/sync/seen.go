package sync

import "sync"

// seenSet is a bounded FIFO set of event keys used to drop duplicate
// deliveries. The broker may redeliver, and an optimistic local append can
// race its own echo; both collapse to one application here.
type seenSet struct {
	mu    sync.Mutex
	limit int
	order []string
	keys  map[string]struct{}
}

func newSeenSet(limit int) *seenSet {
	return &seenSet{
		limit: limit,
		keys:  make(map[string]struct{}, limit),
	}
}

// Observe records the key and reports whether it was already present.
func (s *seenSet) Observe(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[key]; ok {
		return true
	}
	s.keys[key] = struct{}{}
	s.order = append(s.order, key)
	if len(s.order) > s.limit {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.keys, oldest)
	}
	return false
}
