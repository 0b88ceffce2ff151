package dashboard

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-tracker/internal/listing"
	"github.com/jonathan/job-tracker/internal/logging"
	"github.com/jonathan/job-tracker/internal/types"
)

// Widget limits.
const (
	SavedPanelSize = 4
	QuickPickSize  = 4
)

// Store is the read access the dashboards need.
type Store interface {
	GetApplier(ctx context.Context, id string) (*types.ApplierProfile, error)
	GetRecruiter(ctx context.Context, id string) (*types.RecruiterProfile, error)
	GetJob(ctx context.Context, id string) (*types.Job, error)
	LatestJobs(ctx context.Context, limit int) ([]types.Job, error)
	ListJobsByRecruiter(ctx context.Context, recruiterID string) ([]types.Job, error)
	CountJobsByRecruiter(ctx context.Context, recruiterID string) (int, error)
	ListApplications(ctx context.Context) ([]types.Application, error)
	ListApplicationsByUser(ctx context.Context, userID string) ([]types.Application, error)
	CountApplications(ctx context.Context, userID string, status string) (int, error)
	CountSavedJobs(ctx context.Context, userID string) (int, error)
	ListSavedJobs(ctx context.Context, userID string, limit int) ([]types.SavedJob, error)
}

// Service assembles dashboards.
type Service struct {
	store Store
	log   *logging.Logger
}

// NewService creates a dashboard service.
func NewService(store Store, log *logging.Logger) *Service {
	if log == nil {
		log = logging.NewNop()
	}
	return &Service{store: store, log: log.Named("dashboard")}
}

// degradation collects widgets whose fetch failed.
type degradation struct {
	mu      sync.Mutex
	widgets []string
	log     *logging.Logger
	userID  string
}

func (d *degradation) fail(widget string, err error) {
	d.log.Warn("dashboard widget degraded", "widget", widget, "user_id", d.userID, "error", err)
	d.mu.Lock()
	d.widgets = append(d.widgets, widget)
	d.mu.Unlock()
}

func (d *degradation) list() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := append([]string{}, d.widgets...)
	sort.Strings(out)
	return out
}

// Overview holds the applier's headline counters.
type Overview struct {
	Submitted   int `json:"submitted"`
	Shortlisted int `json:"shortlisted"`
	Rejected    int `json:"rejected"`
	Saved       int `json:"saved"`
}

// Applier is the applier dashboard.
type Applier struct {
	Name         string              `json:"name"`
	Overview     Overview            `json:"overview"`
	ActiveTab    types.StatusTab     `json:"activeTab"`
	Tabs         []TabCount          `json:"tabs"`
	Applications []types.Application `json:"applications"`
	SavedJobs    []types.Job         `json:"savedJobs"`
	QuickPicks   []types.Job         `json:"quickPicks"`
	Degraded     []string            `json:"degraded"`
}

// Applier builds the applier dashboard with the application list filtered by tab.
func (s *Service) Applier(ctx context.Context, userID string, tab types.StatusTab) *Applier {
	d := &degradation{log: s.log, userID: userID}
	out := &Applier{
		ActiveTab:    tab,
		Tabs:         CountByTab(nil),
		Applications: []types.Application{},
		SavedJobs:    []types.Job{},
		QuickPicks:   []types.Job{},
	}

	var g errgroup.Group

	g.Go(func() error {
		p, err := s.store.GetApplier(ctx, userID)
		if err != nil {
			d.fail("name", err)
			return nil
		}
		if p != nil {
			out.Name = p.FullName
		}
		return nil
	})

	g.Go(func() error {
		apps, err := s.store.ListApplicationsByUser(ctx, userID)
		if err != nil {
			d.fail("applications", err)
			return nil
		}
		out.Tabs = CountByTab(apps)
		out.Applications = FilterByTab(apps, tab)
		return nil
	})

	counter := func(widget string, count func() (int, error), dst *int) {
		g.Go(func() error {
			n, err := count()
			if err != nil {
				d.fail(widget, err)
				return nil
			}
			*dst = n
			return nil
		})
	}
	counter("overview.submitted", func() (int, error) {
		return s.store.CountApplications(ctx, userID, "")
	}, &out.Overview.Submitted)
	counter("overview.shortlisted", func() (int, error) {
		return s.store.CountApplications(ctx, userID, string(types.StatusShortlisted))
	}, &out.Overview.Shortlisted)
	counter("overview.rejected", func() (int, error) {
		return s.store.CountApplications(ctx, userID, string(types.StatusRejected))
	}, &out.Overview.Rejected)
	counter("overview.saved", func() (int, error) {
		return s.store.CountSavedJobs(ctx, userID)
	}, &out.Overview.Saved)

	g.Go(func() error {
		jobs, err := s.savedPanel(ctx, userID)
		if err != nil {
			d.fail("savedJobs", err)
			return nil
		}
		out.SavedJobs = jobs
		return nil
	})

	g.Go(func() error {
		jobs, err := s.store.LatestJobs(ctx, QuickPickSize)
		if err != nil {
			d.fail("quickPicks", err)
			return nil
		}
		out.QuickPicks = listing.ActiveOnly(jobs)
		return nil
	})

	_ = g.Wait()
	out.Degraded = d.list()
	return out
}

// savedPanel returns the jobs behind the latest saved bookmarks that are still active.
func (s *Service) savedPanel(ctx context.Context, userID string) ([]types.Job, error) {
	saved, err := s.store.ListSavedJobs(ctx, userID, SavedPanelSize)
	if err != nil {
		return nil, err
	}
	jobs := make([]types.Job, 0, len(saved))
	for _, sj := range saved {
		job, err := s.store.GetJob(ctx, sj.JobID)
		if err != nil {
			return nil, err
		}
		if job != nil && job.IsActive() {
			jobs = append(jobs, *job)
		}
	}
	return jobs, nil
}

// Recruiter is the recruiter dashboard.
type Recruiter struct {
	Name              string                          `json:"name"`
	JobsPosted        int                             `json:"jobsPosted"`
	TotalApplications int                             `json:"totalApplications"`
	StatusTotals      map[types.ApplicationStatus]int `json:"statusTotals"`
	Jobs              []JobRollup                     `json:"jobs"`
	Degraded          []string                        `json:"degraded"`
}

// Recruiter builds the recruiter dashboard over the recruiter's own jobs.
func (s *Service) Recruiter(ctx context.Context, recruiterID string) *Recruiter {
	d := &degradation{log: s.log, userID: recruiterID}
	out := &Recruiter{StatusTotals: StatusTotals(nil), Jobs: []JobRollup{}}

	var (
		g                errgroup.Group
		jobs             []types.Job
		apps             []types.Application
		posted           int
		jobsErr, appsErr error
		postedErr        error
	)

	g.Go(func() error {
		p, err := s.store.GetRecruiter(ctx, recruiterID)
		if err != nil {
			d.fail("name", err)
			return nil
		}
		if p != nil {
			out.Name = p.FullName
		}
		return nil
	})
	g.Go(func() error {
		jobs, jobsErr = s.store.ListJobsByRecruiter(ctx, recruiterID)
		return nil
	})
	g.Go(func() error {
		posted, postedErr = s.store.CountJobsByRecruiter(ctx, recruiterID)
		return nil
	})
	g.Go(func() error {
		apps, appsErr = s.store.ListApplications(ctx)
		return nil
	})
	_ = g.Wait()

	if postedErr != nil {
		d.fail("jobsPosted", postedErr)
		posted = len(jobs)
	}
	out.JobsPosted = posted
	if jobsErr != nil {
		d.fail("jobs", jobsErr)
		out.Degraded = d.list()
		return out
	}
	if appsErr != nil {
		d.fail("applications", appsErr)
		apps = nil
	}

	rows, owned := Rollup(jobs, apps)
	out.Jobs = rows
	out.TotalApplications = len(owned)
	out.StatusTotals = StatusTotals(owned)
	out.Degraded = d.list()
	return out
}
