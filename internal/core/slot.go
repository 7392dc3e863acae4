package core

import (
	"sync"

	"github.com/lumo-app/lumo/internal/process"
)

// handleSlot holds at most one supervised child. The child is only ever
// swapped in or taken out whole, so readers never see a partial handle.
type handleSlot struct {
	mu     sync.Mutex
	child  process.Child
	closed bool
}

// replace stores c and returns the child it displaced, if any. Once the slot
// is closed, c is refused and returned as rejected so the caller can kill it.
func (s *handleSlot) replace(c process.Child) (prev process.Child, rejected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, true
	}
	prev, s.child = s.child, c
	return prev, false
}

// take empties the slot and returns what it held.
func (s *handleSlot) take() process.Child {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.child
	s.child = nil
	return c
}

// close refuses future children and returns the current one.
func (s *handleSlot) close() process.Child {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	c := s.child
	s.child = nil
	return c
}

func (s *handleSlot) occupied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.child != nil
}
