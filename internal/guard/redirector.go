package guard

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/job-tracker/internal/auth"
	"github.com/jonathan/job-tracker/internal/logging"
	"github.com/jonathan/job-tracker/internal/types"
)

// RoleResolver resolves the role of a signed-in user.
type RoleResolver interface {
	Resolve(ctx context.Context, userID string) types.Role
}

// Redirector applies Decide to a stream of states and calls navigate at most
// once per (user, path) transition. A role resolution that finishes after the
// state has changed is dropped.
type Redirector struct {
	roles    RoleResolver
	navigate func(path string)
	timeout  time.Duration
	log      *logging.Logger

	mu      sync.Mutex
	gen     uint64
	lastKey string
	started bool
}

// NewRedirector creates a redirector. timeout bounds each role resolution.
func NewRedirector(roles RoleResolver, navigate func(path string), timeout time.Duration, log *logging.Logger) *Redirector {
	if log == nil {
		log = logging.NewNop()
	}
	return &Redirector{roles: roles, navigate: navigate, timeout: timeout, log: log.Named("guard")}
}

func transitionKey(s State) string {
	if s.AuthLoading {
		return "loading\x00" + s.Path
	}
	uid := ""
	if s.User != nil {
		uid = s.User.ID
	}
	return uid + "\x00" + s.Path
}

// Observe feeds one state. It returns the path navigated to, if any.
func (r *Redirector) Observe(ctx context.Context, s State) (string, bool) {
	gen, ok := r.begin(s)
	if !ok {
		return "", false
	}
	return r.finish(ctx, s, gen)
}

// begin records the transition and reports whether it needs a navigation.
// States must be passed to begin in the order they occurred.
func (r *Redirector) begin(s State) (uint64, bool) {
	key := transitionKey(s)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started && key == r.lastKey {
		return 0, false
	}
	r.started = true
	r.lastKey = key
	r.gen++
	return r.gen, Decide(s).Navigates()
}

func (r *Redirector) finish(ctx context.Context, s State, gen uint64) (string, bool) {
	d := Decide(s)

	var role types.Role
	if d.Action == ActionDashboard {
		rctx := ctx
		if r.timeout > 0 {
			var cancel context.CancelFunc
			rctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}
		role = r.roles.Resolve(rctx, s.User.ID)
	}

	r.mu.Lock()
	stale := gen != r.gen
	r.mu.Unlock()
	if stale || ctx.Err() != nil {
		r.log.Debug("dropping stale redirect", "path", s.Path)
		return "", false
	}

	target := d.Target(role)
	if r.navigate != nil {
		r.navigate(target)
	}
	return target, true
}

// Run follows a session and a stream of path changes until ctx is done or
// paths is closed. initialPath is the path before the first change.
func (r *Redirector) Run(ctx context.Context, session *auth.Session, initialPath string, paths <-chan string) {
	var mu sync.Mutex
	current := auth.State{Loading: true}
	path := initialPath

	// begin runs under mu so transitions are recorded in order; only the
	// role lookup runs in the background.
	observe := func() {
		mu.Lock()
		s := State{AuthLoading: current.Loading, User: current.User, Path: path}
		gen, ok := r.begin(s)
		mu.Unlock()
		if ok {
			go r.finish(ctx, s, gen)
		}
	}

	unsubscribe := session.Subscribe(func(st auth.State) {
		mu.Lock()
		current = st
		mu.Unlock()
		observe()
	})
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-paths:
			if !ok {
				return
			}
			mu.Lock()
			path = p
			mu.Unlock()
			observe()
		}
	}
}
