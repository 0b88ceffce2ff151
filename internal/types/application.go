package types

// ApplicationID is the natural key of an application: one per user per job.
func ApplicationID(userID, jobID string) string {
	return userID + "_" + jobID
}

// SavedJobID is the natural key of a bookmark.
func SavedJobID(userID, jobID string) string {
	return userID + "_" + jobID
}

// Application links an applier to a posting.
// Title, Location and Experience are copied from the job at apply time.
type Application struct {
	ID         string          `json:"id,omitempty"`
	UserID     string          `json:"userId"`
	JobID      string          `json:"jobId"`
	Status     string          `json:"status"`
	AppliedAt  Timestamp       `json:"appliedAt"`
	Title      string          `json:"title,omitempty"`
	Location   string          `json:"location,omitempty"`
	Experience ExperienceLevel `json:"experience,omitempty"`
}

// CanonicalStatus returns the normalized status of the application.
func (a *Application) CanonicalStatus() ApplicationStatus {
	return NormalizeStatus(a.Status)
}

// SavedJob is a bookmark between an applier and a posting.
type SavedJob struct {
	ID      string    `json:"id,omitempty"`
	UserID  string    `json:"userId"`
	JobID   string    `json:"jobId"`
	SavedAt Timestamp `json:"savedAt"`
}
