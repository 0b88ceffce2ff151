package listing

import (
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

// JobView is a posting decorated for the browse page.
type JobView struct {
	types.Job
	DeadlineInfo Deadline `json:"deadlineInfo"`
	Posted       string   `json:"posted"`
	Saved        bool     `json:"saved"`
	Applied      bool     `json:"applied"`
}

// RecruiterJobView is a posting decorated for the recruiter's list.
type RecruiterJobView struct {
	types.Job
	Posted       string `json:"posted"`
	DeadlineText string `json:"deadlineText"`
}

// Browse builds the applier listing: active jobs with a listable deadline
// that match the search term, with saved and applied flags.
func Browse(jobs []types.Job, now time.Time, term string, saved, applied map[string]bool) []JobView {
	out := make([]JobView, 0, len(jobs))
	for i := range jobs {
		job := jobs[i]
		if !job.IsActive() || !MatchesSearch(&job, term) {
			continue
		}
		d := ClassifyDeadline(job.Deadline, now)
		if !d.Listable() {
			continue
		}
		out = append(out, JobView{
			Job:          job,
			DeadlineInfo: d,
			Posted:       PostedAgo(job.CreatedAt, now),
			Saved:        saved[job.ID],
			Applied:      applied[job.ID],
		})
	}
	return out
}

// RecruiterList builds the recruiter's job list with fine-grained posted times.
func RecruiterList(jobs []types.Job, now time.Time, term string, status StatusFilter) []RecruiterJobView {
	filtered := Filter(jobs, term, status)
	out := make([]RecruiterJobView, 0, len(filtered))
	for _, job := range filtered {
		text := job.Deadline
		if text == "" {
			text = "Not set"
		}
		out = append(out, RecruiterJobView{
			Job:          job,
			Posted:       SinceAgo(job.CreatedAt, now),
			DeadlineText: text,
		})
	}
	return out
}

// ActiveOnly drops closed postings, keeping order.
func ActiveOnly(jobs []types.Job) []types.Job {
	out := make([]types.Job, 0, len(jobs))
	for _, job := range jobs {
		if job.IsActive() {
			out = append(out, job)
		}
	}
	return out
}
