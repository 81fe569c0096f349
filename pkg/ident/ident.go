// Package ident implements a content-addressed identifier pool.
//
// Key source identifiers (variable names, property names, class names,
// method names) are interned once and thereafter compared by a small
// integer handle rather than by byte comparison. Two identifiers compare
// equal exactly when their underlying bytes compare equal; interned
// handles never expire during program execution.
package ident

import "sync"

// ID is an opaque, content-addressed handle for an interned byte string.
// IDs are assigned from 0 in interning order, so the zero value is the
// ID of the first name a Pool interns; use Pool.Intern to obtain one.
type ID int32

// Pool interns byte strings into small comparable handles. A Pool is safe
// for concurrent use; native-module loading may run premain/main on a
// goroutine distinct from the evaluator's.
type Pool struct {
	mu      sync.RWMutex
	byBytes map[string]ID
	byID    []string
}

// NewPool creates an empty identifier pool.
func NewPool() *Pool {
	return &Pool{
		byBytes: make(map[string]ID, 256),
	}
}

// Intern returns the stable handle for name, assigning a new one the
// first time name is seen. Interning the same bytes always returns the
// same ID, satisfying intern(a) == intern(b) iff a == b.
func (p *Pool) Intern(name string) ID {
	p.mu.RLock()
	if id, ok := p.byBytes[name]; ok {
		p.mu.RUnlock()
		return id
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if id, ok := p.byBytes[name]; ok {
		return id
	}
	id := ID(len(p.byID))
	p.byID = append(p.byID, name)
	p.byBytes[name] = id
	return id
}

// Name returns the original bytes for id. Panics if id was never
// returned by Intern on this pool — identifiers never expire, so a
// valid id is always resolvable.
func (p *Pool) Name(id ID) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.byID[id]
}

// Len returns the number of distinct identifiers interned so far.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byID)
}
