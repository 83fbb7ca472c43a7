package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counter(state any, a Action) any {
	n, _ := state.(int)
	switch a.Type {
	case "increment":
		return n + 1
	case "add":
		return n + a.Payload.(int)
	}
	return n
}

func TestNewRunsInit(t *testing.T) {
	var seen []string
	s := New(func(state any, a Action) any {
		seen = append(seen, a.Type)
		return state
	}, 5)

	assert.Equal(t, []string{ActionInit}, seen)
	assert.Equal(t, 5, s.GetState())
}

func TestDispatchNotifiesInOrder(t *testing.T) {
	s := New(counter, 0)

	var calls []string
	s.Subscribe(func() { calls = append(calls, "first") })
	s.Subscribe(func() { calls = append(calls, "second") })

	require.NoError(t, s.Dispatch(Action{Type: "increment"}))
	require.NoError(t, s.Dispatch(Action{Type: "add", Payload: 4}))

	assert.Equal(t, 5, s.GetState())
	assert.Equal(t, []string{"first", "second", "first", "second"}, calls)
}

func TestListenerSeesNewState(t *testing.T) {
	s := New(counter, 1)
	var got []any
	s.Subscribe(func() { got = append(got, s.GetState()) })

	s.Dispatch(Action{Type: "increment"})
	s.Dispatch(Action{Type: "increment"})

	assert.Equal(t, []any{2, 3}, got)
}

func TestUnsubscribe(t *testing.T) {
	s := New(counter, 0)
	calls := 0
	unsubscribe := s.Subscribe(func() { calls++ })
	other := s.Subscribe(func() {})

	s.Dispatch(Action{Type: "increment"})
	unsubscribe()
	unsubscribe()
	s.Dispatch(Action{Type: "increment"})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, s.ListenerCount())
	other()
	assert.Equal(t, 0, s.ListenerCount())
}

func TestUnsubscribeDuringDispatch(t *testing.T) {
	s := New(counter, 0)

	var unsubscribeSecond func()
	secondCalls := 0
	s.Subscribe(func() { unsubscribeSecond() })
	unsubscribeSecond = s.Subscribe(func() { secondCalls++ })

	// The snapshot taken at dispatch time still includes the second listener.
	s.Dispatch(Action{Type: "increment"})
	s.Dispatch(Action{Type: "increment"})

	assert.Equal(t, 1, secondCalls)
}

func TestDispatchEmptyType(t *testing.T) {
	s := New(counter, 0)
	calls := 0
	s.Subscribe(func() { calls++ })

	assert.ErrorIs(t, s.Dispatch(Action{}), ErrEmptyActionType)
	assert.Zero(t, calls)
}

func TestFactory(t *testing.T) {
	create := Factory(counter)
	s := create(7)
	assert.Equal(t, 7, s.GetState())

	d, ok := s.(Dispatcher)
	require.True(t, ok)
	d.Dispatch(Action{Type: "increment"})
	assert.Equal(t, 8, s.GetState())
}

func TestCombine(t *testing.T) {
	label := func(state any, a Action) any {
		if a.Type == "rename" {
			return a.Payload
		}
		if state == nil {
			return "untitled"
		}
		return state
	}

	s := New(Combine(map[string]Reducer{"count": counter, "label": label}), map[string]any{"count": 2})
	assert.Equal(t, map[string]any{"count": 2, "label": "untitled"}, s.GetState())

	s.Dispatch(Action{Type: "increment"})
	s.Dispatch(Action{Type: "rename", Payload: "clicks"})
	assert.Equal(t, map[string]any{"count": 3, "label": "clicks"}, s.GetState())
}

func TestConcurrentDispatch(t *testing.T) {
	s := New(counter, 0)
	var mu sync.Mutex
	notified := 0
	s.Subscribe(func() {
		mu.Lock()
		notified++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(Action{Type: "increment"})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.GetState())
	assert.Equal(t, 50, notified)
}
