package listing

import (
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

// Transition is a status change computed by ReconcileExpired.
type Transition struct {
	JobID string          `json:"jobId"`
	From  types.JobStatus `json:"from"`
	To    types.JobStatus `json:"to"`
}

// ReconcileExpired returns a transition to closed for every active job whose
// deadline day is before today. Jobs without a parsable deadline and jobs
// that are already closed produce nothing.
func ReconcileExpired(jobs []types.Job, now time.Time) []Transition {
	var out []Transition
	for i := range jobs {
		job := &jobs[i]
		if !job.IsActive() || job.Deadline == "" {
			continue
		}
		days, err := DaysUntil(job.Deadline, now)
		if err != nil || days >= 0 {
			continue
		}
		out = append(out, Transition{JobID: job.ID, From: job.Status, To: types.JobClosed})
	}
	return out
}

// ApplyTransitions returns a copy of jobs with the transitions applied.
// Closing a job also zeroes its openings.
func ApplyTransitions(jobs []types.Job, transitions []Transition) []types.Job {
	byID := make(map[string]Transition, len(transitions))
	for _, t := range transitions {
		byID[t.JobID] = t
	}
	out := make([]types.Job, len(jobs))
	copy(out, jobs)
	for i := range out {
		t, ok := byID[out[i].ID]
		if !ok {
			continue
		}
		out[i].Status = t.To
		if t.To == types.JobClosed {
			out[i].Openings = 0
		}
	}
	return out
}
