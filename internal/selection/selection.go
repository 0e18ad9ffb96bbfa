// Package selection hands out series indices to selected records. The
// smallest free index is always chosen so that colors derived from
// consecutive indices stay well separated.
package selection

import (
	"errors"
	"fmt"
)

// DefaultCapacity is the number of simultaneous selections per view.
const DefaultCapacity = 144

// ErrFull is returned when every index is in use.
var ErrFull = errors.New("all selection slots are in use")

// Slots maps selection keys to series indices.
type Slots struct {
	byIndex []string
	used    []bool
	byKey   map[string]int
}

// New creates Slots with room for capacity selections. A non-positive
// capacity means DefaultCapacity.
func New(capacity int) *Slots {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Slots{
		byIndex: make([]string, capacity),
		used:    make([]bool, capacity),
		byKey:   make(map[string]int),
	}
}

// Acquire returns the index held by key, assigning the smallest free index
// when key is new.
func (s *Slots) Acquire(key string) (int, error) {
	if i, ok := s.byKey[key]; ok {
		return i, nil
	}
	for i, used := range s.used {
		if !used {
			s.used[i] = true
			s.byIndex[i] = key
			s.byKey[key] = i
			return i, nil
		}
	}
	return -1, fmt.Errorf("select %q: %w", key, ErrFull)
}

// Release frees the index held by key and returns it.
func (s *Slots) Release(key string) (int, bool) {
	i, ok := s.byKey[key]
	if !ok {
		return -1, false
	}
	delete(s.byKey, key)
	s.used[i] = false
	s.byIndex[i] = ""
	return i, true
}

// Index returns the index held by key.
func (s *Slots) Index(key string) (int, bool) {
	i, ok := s.byKey[key]
	return i, ok
}

// Key returns the key holding index.
func (s *Slots) Key(index int) (string, bool) {
	if index < 0 || index >= len(s.used) || !s.used[index] {
		return "", false
	}
	return s.byIndex[index], true
}

// Keys returns the selected keys ordered by index.
func (s *Slots) Keys() []string {
	out := make([]string, 0, len(s.byKey))
	for i, used := range s.used {
		if used {
			out = append(out, s.byIndex[i])
		}
	}
	return out
}

// Len returns the number of selections.
func (s *Slots) Len() int {
	return len(s.byKey)
}

// Cap returns the capacity.
func (s *Slots) Cap() int {
	return len(s.used)
}
