package proxy

import (
	"sync"
	"sync/atomic"
)

var scopeIDCounter atomic.Uint64

// Scope is the lifetime of one mounted proxy instance.
// When a Scope is disposed, its child scopes are disposed first and its
// cleanup functions then run in reverse registration order.
//
// Scopes form a hierarchy mirroring the proxy chain: each proxy instance
// gets a Scope that is a child of the previous proxy's Scope, and the
// component at the end of the chain gets the innermost one.
type Scope struct {
	id uint64

	// parent is nil for the root scope (typically the loader).
	parent *Scope

	children   []*Scope
	childrenMu sync.Mutex

	cleanups   []func()
	cleanupsMu sync.Mutex

	// values stores context values provided at this scope.
	values   map[any]any
	valuesMu sync.RWMutex

	disposed atomic.Bool
}

// NewScope creates a Scope registered as a child of parent.
// If parent is nil, it creates a root Scope.
func NewScope(parent *Scope) *Scope {
	s := &Scope{
		id:     scopeIDCounter.Add(1),
		parent: parent,
	}
	if parent != nil {
		parent.addChild(s)
	}
	return s
}

// ID returns the unique identifier for this Scope.
func (s *Scope) ID() uint64 {
	return s.id
}

// Parent returns the parent Scope, or nil for a root Scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// IsDisposed reports whether this Scope has been disposed.
func (s *Scope) IsDisposed() bool {
	return s.disposed.Load()
}

func (s *Scope) addChild(child *Scope) {
	s.childrenMu.Lock()
	defer s.childrenMu.Unlock()
	s.children = append(s.children, child)
}

func (s *Scope) removeChild(child *Scope) {
	s.childrenMu.Lock()
	defer s.childrenMu.Unlock()
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

// OnCleanup registers fn to run when this Scope is disposed.
// On an already disposed Scope, fn runs immediately.
func (s *Scope) OnCleanup(fn func()) {
	if s.disposed.Load() {
		fn()
		return
	}
	s.cleanupsMu.Lock()
	defer s.cleanupsMu.Unlock()
	s.cleanups = append(s.cleanups, fn)
}

// Dispose tears down this Scope and everything below it. It is idempotent.
func (s *Scope) Dispose() {
	if !s.disposed.CompareAndSwap(false, true) {
		return
	}

	if s.parent != nil {
		s.parent.removeChild(s)
	}

	s.childrenMu.Lock()
	children := s.children
	s.children = nil
	s.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	s.cleanupsMu.Lock()
	cleanups := s.cleanups
	s.cleanups = nil
	s.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// SetValue stores a value on this Scope.
func (s *Scope) SetValue(key, value any) {
	s.valuesMu.Lock()
	defer s.valuesMu.Unlock()
	if s.values == nil {
		s.values = make(map[any]any)
	}
	s.values[key] = value
}

// GetValue looks key up on this Scope, then on its ancestors.
func (s *Scope) GetValue(key any) (any, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		cur.valuesMu.RLock()
		v, ok := cur.values[key]
		cur.valuesMu.RUnlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}
