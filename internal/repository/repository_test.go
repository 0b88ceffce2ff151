package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/schemas"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	reg, err := schemas.LoadRegistry()
	require.NoError(t, err)
	return New(db.NewMemory(), reg)
}

func ts(s string) types.Timestamp {
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return types.NewTimestamp(parsed)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	id, err := repo.CreateUser(ctx, &types.UserRecord{Email: "  Asha@Example.com ", PasswordHash: "h"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	u, err := repo.FindUserByEmail(ctx, "ASHA@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "asha@example.com", u.Email)

	require.NoError(t, repo.SetUserRole(ctx, id, types.RoleRecruiter))
	u, err = repo.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.RoleRecruiter, u.Role)

	missing, err := repo.FindUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = repo.SetUserRole(ctx, "ghost", types.RoleApplier)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateUser_SchemaRejectsMissingHash(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.CreateUser(context.Background(), &types.UserRecord{Email: "a@b.co"})
	var ve *schemas.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.CreateRecruiter(ctx, &types.RecruiterProfile{UID: "r1", Email: "r@x.co", FullName: "Rita"}))
	require.NoError(t, repo.CreateApplier(ctx, &types.ApplierProfile{UID: "a1", Email: "a@x.co", FullName: "Arun"}))

	ok, err := repo.ProfileExists(ctx, types.RoleRecruiter, "r1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.ProfileExists(ctx, types.RoleApplier, "r1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.UpdateApplierFields(ctx, "a1", map[string]any{"address": "Pune"}))
	require.NoError(t, repo.SetWorkExperience(ctx, "a1", []types.WorkExperience{{Company: "Acme", JobRole: "Dev", ExperienceYears: 2}}))

	a, err := repo.GetApplier(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "Pune", a.Address)
	assert.Equal(t, types.RoleApplier, a.Role)
	require.Len(t, a.WorkExperience, 1)
	assert.Equal(t, 2, a.WorkExperience[0].ExperienceYears)

	r, err := repo.GetRecruiter(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestJobs(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	newJob := func(title, recruiter, created string) *types.Job {
		return &types.Job{
			Title: title, Location: "Remote", Openings: 1, Status: types.JobActive,
			Company: "Acme", RecruiterID: recruiter, CreatedAt: ts(created), Deadline: "2030-01-01",
		}
	}

	id1, err := repo.CreateJob(ctx, newJob("old", "r1", "2024-01-01T00:00:00Z"))
	require.NoError(t, err)
	_, err = repo.CreateJob(ctx, newJob("new", "r1", "2024-03-01T00:00:00Z"))
	require.NoError(t, err)
	_, err = repo.CreateJob(ctx, newJob("other", "r2", "2024-02-01T00:00:00Z"))
	require.NoError(t, err)

	jobs, err := repo.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, []string{"new", "other", "old"}, []string{jobs[0].Title, jobs[1].Title, jobs[2].Title})

	mine, err := repo.ListJobsByRecruiter(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	n, err := repo.CountJobsByRecruiter(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	latest, err := repo.LatestJobs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "new", latest[0].Title)

	require.NoError(t, repo.MergeJob(ctx, id1, map[string]any{"status": types.JobClosed, "openings": 0}))
	got, err := repo.GetJob(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, types.JobClosed, got.Status)
	assert.Equal(t, 0, got.Openings)
	assert.Equal(t, "old", got.Title)
	assert.Equal(t, id1, got.ID)
}

func TestCreateJob_SchemaRejectsNegativeOpenings(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.CreateJob(context.Background(), &types.Job{
		Title: "x", Location: "y", Openings: -1, Status: types.JobActive, Company: "c", RecruiterID: "r",
	})
	assert.Error(t, err)
}

func TestWatchJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo := newTestRepo(t)

	ch, err := repo.WatchJobs(ctx)
	require.NoError(t, err)
	assert.Empty(t, <-ch)

	_, err = repo.CreateJob(ctx, &types.Job{
		Title: "Go", Location: "Remote", Openings: 1, Status: types.JobActive, Company: "Acme", RecruiterID: "r1",
	})
	require.NoError(t, err)

	select {
	case jobs := <-ch:
		require.Len(t, jobs, 1)
		assert.Equal(t, "Go", jobs[0].Title)
		assert.NotEmpty(t, jobs[0].ID)
	case <-time.After(time.Second):
		t.Fatal("no snapshot after create")
	}
}

func TestApplicationsAndSaved(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.CreateApplication(ctx, &types.Application{
		UserID: "u1", JobID: "j1", Status: string(types.StatusApplied), AppliedAt: ts("2024-01-01T00:00:00Z"),
	}))
	require.NoError(t, repo.CreateApplication(ctx, &types.Application{
		UserID: "u1", JobID: "j2", Status: string(types.StatusApplied), AppliedAt: ts("2024-01-02T00:00:00Z"),
	}))

	app, err := repo.GetApplication(ctx, "u1_j1")
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, "u1_j1", app.ID)

	require.NoError(t, repo.UpdateApplicationStatus(ctx, "u1_j1", types.StatusShortlisted))
	n, err := repo.CountApplications(ctx, "u1", string(types.StatusShortlisted))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = repo.CountApplications(ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	mine, err := repo.ListApplicationsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "j2", mine[0].JobID, "newest first")

	err = repo.UpdateApplicationStatus(ctx, "nope", types.StatusRejected)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.CreateSavedJob(ctx, &types.SavedJob{UserID: "u1", JobID: "j1", SavedAt: ts("2024-01-01T00:00:00Z")}))
	saved, err := repo.ListSavedJobs(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "u1_j1", saved[0].ID)

	require.NoError(t, repo.DeleteSavedJob(ctx, "u1_j1"))
	count, err := repo.CountSavedJobs(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
