package board

import "fmt"

// ErrNotFound indicates a missing job, application or profile.
type ErrNotFound struct {
	Kind string
	ID   string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ErrForbidden indicates the caller may not perform the action.
type ErrForbidden struct {
	Reason string
}

func (e *ErrForbidden) Error() string {
	return "forbidden: " + e.Reason
}

// ErrConflict indicates the action clashes with the current state, such as
// applying to a closed job.
type ErrConflict struct {
	Reason string
}

func (e *ErrConflict) Error() string {
	return "conflict: " + e.Reason
}
