package middleware

import (
	"context"
	"net/http"

	"github.com/jonathan/job-tracker/internal/auth"
	"github.com/jonathan/job-tracker/internal/guard"
	"github.com/jonathan/job-tracker/internal/types"
)

// SessionRestorer rebuilds the auth session behind a token.
type SessionRestorer interface {
	Restore(ctx context.Context, token string) *auth.Session
}

// RoleResolver maps a user to a role.
type RoleResolver interface {
	Resolve(ctx context.Context, userID string) types.Role
}

// knownRoles prefers the role denormalized on the signed-in user's record.
type knownRoles struct {
	user  *types.User
	roles RoleResolver
}

func (k knownRoles) Resolve(ctx context.Context, userID string) types.Role {
	if k.user != nil && k.user.ID == userID && k.user.Role.Valid() {
		return k.user.Role
	}
	return k.roles.Resolve(ctx, userID)
}

// Redirect runs the guard over the request's restored session and returns
// where the client must go, or "" to stay.
func Redirect(ctx context.Context, sessions SessionRestorer, roles RoleResolver, token, path string) string {
	session := sessions.Restore(ctx, token)

	var target string
	resolver := knownRoles{user: session.State().User, roles: roles}
	redirector := guard.NewRedirector(resolver, func(p string) { target = p }, 0, nil)
	unsubscribe := session.Subscribe(func(st auth.State) {
		redirector.Observe(ctx, guard.State{AuthLoading: st.Loading, User: st.User, Path: path})
	})
	unsubscribe()
	return target
}

// Guard answers page requests the guard wants moved with 302 Found and passes
// the rest to next.
func Guard(sessions SessionRestorer, roles RoleResolver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := Redirect(r.Context(), sessions, roles, TokenFrom(r), r.URL.Path)
		if target != "" && target != r.URL.Path {
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
