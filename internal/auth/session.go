package auth

import (
	"sync"

	"github.com/jonathan/job-tracker/internal/types"
)

// State is a snapshot of a session. Loading is true until the provider has
// decided whether a user is signed in.
type State struct {
	Loading bool
	User    *types.User
}

// Session is an observable auth state. It is created once per client and
// passed explicitly to whatever needs it.
type Session struct {
	// deliver serializes notifications so every subscriber sees states in
	// the order they were set. It is taken before mu.
	deliver sync.Mutex

	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// NewSession returns a session in the loading state.
func NewSession() *Session {
	return &Session{
		state: State{Loading: true},
		subs:  make(map[int]func(State)),
	}
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Set marks the user signed in.
func (s *Session) Set(user *types.User) {
	s.publish(State{User: user})
}

// Clear marks the session signed out.
func (s *Session) Clear() {
	s.publish(State{})
}

// Subscribe calls fn with the current state and again on every change.
// The returned function removes the subscription. fn must not call Set or
// Clear on the same session.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.deliver.Lock()
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	current := s.state
	s.mu.Unlock()

	fn(current)
	s.deliver.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Session) publish(next State) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	s.state = next
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}
