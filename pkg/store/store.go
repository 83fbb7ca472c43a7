package store

import (
	"errors"
	"sync"
)

// ActionInit is dispatched once when a store is created so reducers can
// supply their default state.
const ActionInit = "@@cosmos/INIT"

// ErrEmptyActionType is returned when an action has no type.
var ErrEmptyActionType = errors.New("store: action type must not be empty")

// Action describes a state change.
type Action struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Reducer computes the next state from the current state and an action.
type Reducer func(state any, action Action) any

// Store is the read side of a state container: what a proxy needs to relay
// state changes.
type Store interface {
	// Subscribe registers listener and returns a function that removes it.
	// The returned function is safe to call more than once.
	Subscribe(listener func()) (unsubscribe func())

	// GetState returns the current state snapshot.
	GetState() any
}

// Dispatcher is implemented by stores that accept actions.
type Dispatcher interface {
	Dispatch(action Action) error
}

type subscription struct {
	id uint64
	fn func()
}

// Memory is an in-memory Store driven by a Reducer.
type Memory struct {
	reducer Reducer

	mu    sync.RWMutex
	state any

	listenersMu sync.Mutex
	listeners   []subscription
	nextID      uint64
}

var _ Store = (*Memory)(nil)
var _ Dispatcher = (*Memory)(nil)

// New creates a store with the given reducer and initial state. The reducer
// is run once with ActionInit; listeners are not notified for it.
func New(reducer Reducer, initial any) *Memory {
	return &Memory{
		reducer: reducer,
		state:   reducer(initial, Action{Type: ActionInit}),
	}
}

// Factory adapts a reducer into a store constructor taking the initial state.
func Factory(reducer Reducer) func(initial any) Store {
	return func(initial any) Store {
		return New(reducer, initial)
	}
}

// GetState implements Store.
func (m *Memory) GetState() any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Subscribe implements Store.
func (m *Memory) Subscribe(listener func()) func() {
	m.listenersMu.Lock()
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, subscription{id: id, fn: listener})
	m.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.listenersMu.Lock()
			defer m.listenersMu.Unlock()
			for i, s := range m.listeners {
				if s.id == id {
					m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Dispatch runs the reducer and notifies every listener subscribed at the
// time of the call.
func (m *Memory) Dispatch(action Action) error {
	if action.Type == "" {
		return ErrEmptyActionType
	}

	m.mu.Lock()
	m.state = m.reducer(m.state, action)
	m.mu.Unlock()

	m.listenersMu.Lock()
	listeners := make([]subscription, len(m.listeners))
	copy(listeners, m.listeners)
	m.listenersMu.Unlock()

	for _, s := range listeners {
		s.fn()
	}
	return nil
}

// ListenerCount returns the number of active subscriptions.
func (m *Memory) ListenerCount() int {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()
	return len(m.listeners)
}

// Combine builds a reducer whose state is a map holding one slice per key,
// each managed by its own reducer.
func Combine(reducers map[string]Reducer) Reducer {
	return func(state any, action Action) any {
		prev, _ := state.(map[string]any)
		next := make(map[string]any, len(reducers))
		for key, r := range reducers {
			var slice any
			if prev != nil {
				slice = prev[key]
			}
			next[key] = r(slice, action)
		}
		return next
	}
}
