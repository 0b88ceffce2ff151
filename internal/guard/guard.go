// Package guard decides where a client must be sent based on its auth state
// and current path.
package guard

import (
	"strings"

	"github.com/jonathan/job-tracker/internal/types"
)

// HomePath is where signed-out visitors land.
const HomePath = "/"

// State is the input of the guard.
type State struct {
	AuthLoading bool
	User        *types.User
	Path        string
}

// Action is what the guard wants done.
type Action int

const (
	// ActionNone leaves the client where it is.
	ActionNone Action = iota
	// ActionWait renders nothing until auth has settled.
	ActionWait
	// ActionDashboard sends a signed-in user on "/" to their role dashboard.
	ActionDashboard
	// ActionHome sends a signed-out visitor away from a dashboard.
	ActionHome
)

func (a Action) String() string {
	switch a {
	case ActionWait:
		return "wait"
	case ActionDashboard:
		return "dashboard"
	case ActionHome:
		return "home"
	default:
		return "none"
	}
}

// Decision is the result of Decide. For ActionDashboard the target depends on
// the user's role and is filled in by Target.
type Decision struct {
	Action Action
}

// Decide is the guard state machine.
func Decide(s State) Decision {
	switch {
	case s.AuthLoading:
		return Decision{Action: ActionWait}
	case s.User != nil && s.Path == HomePath:
		return Decision{Action: ActionDashboard}
	case s.User == nil && IsDashboardPath(s.Path):
		return Decision{Action: ActionHome}
	default:
		return Decision{Action: ActionNone}
	}
}

// Navigates reports whether the decision moves the client.
func (d Decision) Navigates() bool {
	return d.Action == ActionDashboard || d.Action == ActionHome
}

// Target returns the path to navigate to, given the user's role.
func (d Decision) Target(role types.Role) string {
	switch d.Action {
	case ActionDashboard:
		if !role.Valid() {
			role = types.RoleApplier
		}
		return role.Dashboard()
	case ActionHome:
		return HomePath
	default:
		return ""
	}
}

// IsDashboardPath reports whether path is a protected dashboard page.
func IsDashboardPath(path string) bool {
	return strings.Contains(path, "dashboard")
}
