package listing

import (
	"strings"

	"github.com/jonathan/job-tracker/internal/types"
)

// StatusFilter selects postings on the recruiter's list.
type StatusFilter string

const (
	StatusAll    StatusFilter = "all"
	StatusActive StatusFilter = "active"
	StatusClosed StatusFilter = "closed"
)

// ParseStatusFilter accepts all, active or closed; empty means all.
func ParseStatusFilter(raw string) (StatusFilter, bool) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StatusAll:
		return StatusAll, true
	case StatusActive:
		return StatusActive, true
	case StatusClosed:
		return StatusClosed, true
	}
	return "", false
}

// Matches reports whether a job passes the filter.
func (f StatusFilter) Matches(job *types.Job) bool {
	switch f {
	case StatusActive:
		return job.IsActive()
	case StatusClosed:
		return !job.IsActive()
	default:
		return true
	}
}

// MatchesSearch is a case-insensitive substring match on title or location.
// An empty term matches everything.
func MatchesSearch(job *types.Job, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(job.Title), term) ||
		strings.Contains(strings.ToLower(job.Location), term)
}

// Filter returns the jobs matching both the search term and the status filter.
func Filter(jobs []types.Job, term string, status StatusFilter) []types.Job {
	out := make([]types.Job, 0, len(jobs))
	for i := range jobs {
		if MatchesSearch(&jobs[i], term) && status.Matches(&jobs[i]) {
			out = append(out, jobs[i])
		}
	}
	return out
}
