package auth

import (
	"sync"
	"testing"

	"github.com/jonathan/job-tracker/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestSession_StartsLoading(t *testing.T) {
	s := NewSession()
	assert.True(t, s.State().Loading)
	assert.Nil(t, s.State().User)
}

func TestSession_SubscribeAndUnsubscribe(t *testing.T) {
	s := NewSession()
	var seen []State
	unsubscribe := s.Subscribe(func(st State) { seen = append(seen, st) })

	user := &types.User{ID: "u1", Role: types.RoleApplier}
	s.Set(user)
	s.Clear()
	unsubscribe()
	unsubscribe()
	s.Set(user)

	if assert.Len(t, seen, 3) {
		assert.True(t, seen[0].Loading, "current state is delivered on subscribe")
		assert.Equal(t, user, seen[1].User)
		assert.False(t, seen[1].Loading)
		assert.Nil(t, seen[2].User)
	}
	assert.Equal(t, user, s.State().User)
}

func TestSession_MultipleSubscribers(t *testing.T) {
	s := NewSession()
	var a, b int
	s.Subscribe(func(State) { a++ })
	unsubscribeB := s.Subscribe(func(State) { b++ })
	unsubscribeB()

	s.Clear()
	assert.Equal(t, 2, a)
	assert.Equal(t, 1, b)
}

func TestSession_SubscribeSeesStatesInOrder(t *testing.T) {
	for i := 0; i < 200; i++ {
		s := NewSession()
		user := &types.User{ID: "u1"}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Set(user)
		}()

		var seen []State
		var mu sync.Mutex
		unsubscribe := s.Subscribe(func(st State) {
			mu.Lock()
			seen = append(seen, st)
			mu.Unlock()
		})
		wg.Wait()
		unsubscribe()

		mu.Lock()
		// Either the subscription saw loading then the user, or it started
		// after Set and saw only the user. The user is never followed by loading.
		last := seen[len(seen)-1]
		assert.Equal(t, user, last.User, "run %d: %+v", i, seen)
		assert.False(t, last.Loading)
		mu.Unlock()
	}
}
