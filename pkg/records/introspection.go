package records

import "github.com/aretw0/introspection"

// StoreState exposes internal state for observability.
type StoreState struct {
	CacheSize int  `json:"cache_size"`
	Active    int  `json:"active"`
	Favorites int  `json:"favorites"`
	Trashed   int  `json:"trashed"`
	Blocking  bool `json:"blocking_writes"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := StoreState{
		CacheSize: len(s.cache),
		Blocking:  s.blocking,
	}
	for _, e := range s.index {
		if e.IsDeleted {
			st.Trashed++
			continue
		}
		st.Active++
		if e.IsFavorite {
			st.Favorites++
		}
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "record-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
