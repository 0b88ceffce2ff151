// Package dashboard builds the applier and recruiter dashboards from store
// snapshots. Aggregation is a full re-scan; sub-fetches run in parallel and a
// failed one only empties its own widget.
package dashboard

import (
	"github.com/jonathan/job-tracker/internal/types"
)

// TabCount is the number of applications under one applier tab.
type TabCount struct {
	Tab   types.StatusTab `json:"tab"`
	Count int             `json:"count"`
}

// CountByTab counts applications per tab in display order. Statuses are
// matched case-insensitively; unknown statuses only count toward All.
func CountByTab(apps []types.Application) []TabCount {
	counts := make(map[types.StatusTab]int, len(types.StatusTabs))
	for i := range apps {
		for _, tab := range types.StatusTabs {
			if tab.Matches(apps[i].Status) {
				counts[tab]++
			}
		}
	}
	out := make([]TabCount, 0, len(types.StatusTabs))
	for _, tab := range types.StatusTabs {
		out = append(out, TabCount{Tab: tab, Count: counts[tab]})
	}
	return out
}

// FilterByTab keeps the applications listed under tab, preserving order.
func FilterByTab(apps []types.Application, tab types.StatusTab) []types.Application {
	out := make([]types.Application, 0, len(apps))
	for _, a := range apps {
		if tab.Matches(a.Status) {
			out = append(out, a)
		}
	}
	return out
}

// StatusOther collects stored statuses that match no canonical status.
const StatusOther types.ApplicationStatus = "other"

// StatusTotals counts applications per canonical status. Every known status
// has an entry, zero included; StatusOther appears only when some status could
// not be parsed. The totals always sum to len(apps).
func StatusTotals(apps []types.Application) map[types.ApplicationStatus]int {
	totals := make(map[types.ApplicationStatus]int, len(types.AllStatuses)+1)
	for _, s := range types.AllStatuses {
		totals[s] = 0
	}
	for i := range apps {
		if s := types.NormalizeStatus(apps[i].Status); s.Valid() {
			totals[s]++
		} else {
			totals[StatusOther]++
		}
	}
	return totals
}

// JobRollup is one row of the recruiter's per-job table.
type JobRollup struct {
	JobID        string          `json:"jobId"`
	Title        string          `json:"title"`
	Status       types.JobStatus `json:"status"`
	Applications int             `json:"applications"`
	Shortlisted  int             `json:"shortlisted"`
}

// Rollup joins jobs with applications by jobId. Applications to jobs outside
// the given set are ignored; the returned slice follows the order of jobs.
func Rollup(jobs []types.Job, apps []types.Application) ([]JobRollup, []types.Application) {
	index := make(map[string]int, len(jobs))
	rows := make([]JobRollup, len(jobs))
	for i := range jobs {
		index[jobs[i].ID] = i
		rows[i] = JobRollup{JobID: jobs[i].ID, Title: jobs[i].Title, Status: jobs[i].Status}
	}

	owned := make([]types.Application, 0, len(apps))
	for _, a := range apps {
		i, ok := index[a.JobID]
		if !ok {
			continue
		}
		owned = append(owned, a)
		rows[i].Applications++
		if a.CanonicalStatus() == types.StatusShortlisted {
			rows[i].Shortlisted++
		}
	}
	return rows, owned
}
