// Package gls provides goroutine-local storage. The scheduler uses
// it to locate the calling goroutine's SchedulerThread record, the
// Go-native substitute for the thread-local storage spec.md §9
// assumes is available to locate "the calling worker." No package in
// the retrieved example corpus solves this; the technique below
// (recovering the runtime-assigned goroutine id from the header line
// of a runtime.Stack dump) is the standard idiomatic-Go answer when a
// true TLS slot isn't exposed by the language, and is hand-rolled on
// the standard library for exactly that reason — see DESIGN.md.
package gls

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// ID returns the runtime-assigned id of the calling goroutine.
func ID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	// The header line looks like "goroutine 123 [running]:".
	const prefix = "goroutine "
	buf = bytes.TrimPrefix(buf, []byte(prefix))
	if end := bytes.IndexByte(buf, ' '); end >= 0 {
		buf = buf[:end]
	}

	id, err := strconv.ParseUint(string(buf), 10, 64)
	if err != nil {
		panic("gls: could not parse goroutine id: " + err.Error())
	}
	return id
}

// Store maps goroutine ids to arbitrary values.
type Store[T any] struct {
	mu sync.RWMutex
	m  map[uint64]T
}

// NewStore returns a ready-to-use Store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{m: make(map[uint64]T)}
}

// Set associates v with the calling goroutine.
func (s *Store[T]) Set(v T) {
	id := ID()
	s.mu.Lock()
	s.m[id] = v
	s.mu.Unlock()
}

// Get returns the value associated with the calling goroutine, if
// any.
func (s *Store[T]) Get() (T, bool) {
	id := ID()
	s.mu.RLock()
	v, ok := s.m[id]
	s.mu.RUnlock()
	return v, ok
}

// Delete removes any value associated with the calling goroutine.
func (s *Store[T]) Delete() {
	id := ID()
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()
}
