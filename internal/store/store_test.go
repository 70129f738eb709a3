package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type counter struct {
	N     int
	Items []string
}

func increment(by int) Action[counter] {
	return NewAction("increment", func(c counter) counter {
		c.N += by
		return c
	})
}

func appendItem(item string) Action[counter] {
	return NewAction("appendItem", func(c counter) counter {
		items := make([]string, len(c.Items), len(c.Items)+1)
		copy(items, c.Items)
		c.Items = append(items, item)
		return c
	})
}

func TestStore_Dispatch(t *testing.T) {
	s := New(func() counter { return counter{} })

	next := s.Dispatch(increment(2))
	assert.Equal(t, 2, next.N)
	assert.Equal(t, 2, s.State().N)
}

func TestStore_SnapshotsAreIndependent(t *testing.T) {
	s := New(func() counter { return counter{} })
	s.Dispatch(appendItem("a"))
	before := s.State()

	s.Dispatch(appendItem("b"))

	assert.Equal(t, []string{"a"}, before.Items)
	assert.Equal(t, []string{"a", "b"}, s.State().Items)
}

func TestStore_Subscribe(t *testing.T) {
	s := New(func() counter { return counter{} })

	var calls []string
	unsubscribe := s.Subscribe(func(action string, prev, next counter) {
		calls = append(calls, action)
		assert.Equal(t, prev.N+1, next.N)
	})

	s.Dispatch(increment(1))
	s.Dispatch(increment(1))
	unsubscribe()
	s.Dispatch(increment(1))

	assert.Equal(t, []string{"increment", "increment"}, calls)
}

func TestStore_ListenersRunInSubscriptionOrder(t *testing.T) {
	s := New(func() counter { return counter{} })

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		s.Subscribe(func(string, counter, counter) { order = append(order, i) })
	}
	s.Dispatch(increment(1))

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestStore_ListenerMayReadState(t *testing.T) {
	s := New(func() counter { return counter{} })

	var seen int
	s.Subscribe(func(_ string, _, _ counter) {
		seen = s.State().N
	})
	s.Dispatch(increment(3))

	assert.Equal(t, 3, seen)
}

func TestStore_Reset(t *testing.T) {
	s := Restore(func() counter { return counter{N: 1} }, counter{N: 10})
	assert.Equal(t, 10, s.State().N)

	s.Reset()
	assert.Equal(t, 1, s.State().N)
}

func TestAction_ZeroValueIsNoop(t *testing.T) {
	var a Action[counter]
	assert.Equal(t, counter{N: 4}, a.Apply(counter{N: 4}))
}
