// Package store provides a small Redux-style state container.
//
// A Store holds a single state value that only changes in response to
// dispatched actions. Each action is passed, together with the current
// state, to a Reducer that returns the next state. Listeners registered with
// Subscribe are called synchronously after every dispatch, in subscription
// order.
//
// Usage:
//
//	counter := func(state any, a store.Action) any {
//	    n, _ := state.(int)
//	    if a.Type == "increment" {
//	        return n + 1
//	    }
//	    return n
//	}
//
//	s := store.New(counter, 0)
//	unsubscribe := s.Subscribe(func() { fmt.Println(s.GetState()) })
//	defer unsubscribe()
//	s.Dispatch(store.Action{Type: "increment"})
//
// Reducers must not dispatch: the state lock is held while they run.
package store
