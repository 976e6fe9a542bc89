package placelookup

import (
	"sync"

	"maps-extended-service/internal/domain"
)

// Source resolves the place a consumer works with: its own place when set,
// otherwise the place provided by its surroundings.
//
// OnChange fires only when the resolved place changes identity.
type Source struct {
	onChange func(cur, prev *domain.Place)

	mu       sync.Mutex
	own      *domain.Place
	provided *domain.Place
	resolved *domain.Place
}

// NewSource creates a Source. onChange may be nil.
func NewSource(onChange func(cur, prev *domain.Place)) *Source {
	return &Source{onChange: onChange}
}

// SetPlace sets the consumer's own place; nil falls back to the provided one.
func (s *Source) SetPlace(p *domain.Place) {
	s.update(func() { s.own = p })
}

// SetProvided sets the fallback place.
func (s *Source) SetProvided(p *domain.Place) {
	s.update(func() { s.provided = p })
}

// Place returns the resolved place, or nil.
func (s *Source) Place() *domain.Place {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved
}

func (s *Source) update(set func()) {
	s.mu.Lock()
	set()
	prev := s.resolved
	cur := s.own
	if cur == nil {
		cur = s.provided
	}
	s.resolved = cur
	s.mu.Unlock()

	if cur != prev && s.onChange != nil {
		s.onChange(cur, prev)
	}
}
