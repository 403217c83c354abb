package supervisor

import "sync"

// Slot holds at most one backend process. The startup goroutine stores into
// it and the exit handler takes from it; each access holds the lock only for
// that single operation.
type Slot struct {
	mu   sync.Mutex
	proc Process
}

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	return &Slot{}
}

// Store records p. It fails with ErrSlotOccupied if a process is already held.
func (s *Slot) Store(p Process) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc != nil {
		return ErrSlotOccupied
	}
	s.proc = p
	return nil
}

// Take removes and returns the held process, or nil when the slot is empty.
func (s *Slot) Take() Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.proc
	s.proc = nil
	return p
}

// Held reports whether a process is currently stored.
func (s *Slot) Held() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proc != nil
}
