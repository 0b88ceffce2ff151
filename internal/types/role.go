// Package types provides type definitions for the documents and API payloads used throughout the job tracker.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Role identifies which profile collection a user is registered in.
type Role string

const (
	// RoleRecruiter posts jobs and reviews applications.
	RoleRecruiter Role = "recruiter"
	// RoleApplier browses, saves and applies to jobs.
	RoleApplier Role = "applier"
)

// Collection names in the document store.
const (
	CollectionUsers        = "users"
	CollectionRecruiters   = "recruiters"
	CollectionAppliers     = "appliers"
	CollectionJobs         = "jobs"
	CollectionApplications = "applications"
	CollectionSavedJobs    = "savedJobs"
)

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleRecruiter:
		return RoleRecruiter, true
	case RoleApplier:
		return RoleApplier, true
	default:
		return "", false
	}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleRecruiter || r == RoleApplier
}

// Dashboard returns the landing path for the role, e.g. "/recruiter-dashboard".
func (r Role) Dashboard() string {
	return "/" + string(r) + "-dashboard"
}

// ProfileCollection returns the collection holding profiles for the role.
func (r Role) ProfileCollection() string {
	if r == RoleRecruiter {
		return CollectionRecruiters
	}
	return CollectionAppliers
}
