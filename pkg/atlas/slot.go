package atlas

import (
	"sync"
	"sync/atomic"
)

// Slot holds a value that is filled at most once. Readers see either
// nothing or the complete value.
type Slot[T any] struct {
	once sync.Once
	v    atomic.Pointer[T]
}

// Get returns the value and whether it has been filled.
func (s *Slot[T]) Get() (*T, bool) {
	v := s.v.Load()
	return v, v != nil
}

// Fill runs fn on the first call only. The value is published when fn
// succeeds; a failed fill leaves the slot empty for good. ran reports
// whether this call executed fn.
func (s *Slot[T]) Fill(fn func() (*T, error)) (ran bool, err error) {
	s.once.Do(func() {
		ran = true
		var v *T
		v, err = fn()
		if err == nil && v != nil {
			s.v.Store(v)
		}
	})
	return ran, err
}
