package types

import "strings"

// JobStatus is the lifecycle state of a posting.
type JobStatus string

const (
	JobActive JobStatus = "active"
	JobClosed JobStatus = "closed"
)

// ExperienceLevel is the seniority a posting asks for.
type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "Entry"
	ExperienceMid    ExperienceLevel = "Mid"
	ExperienceSenior ExperienceLevel = "Senior"
)

// DateLayout is the calendar-date layout of job deadlines.
const DateLayout = "2006-01-02"

// Job is a posting owned by a recruiter.
type Job struct {
	ID          string          `json:"id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Type        string          `json:"type,omitempty"`
	Openings    int             `json:"openings"`
	Skills      []string        `json:"skills"`
	Experience  ExperienceLevel `json:"experience,omitempty"`
	Years       int             `json:"years"`
	Status      JobStatus       `json:"status"`
	Deadline    string          `json:"deadline"`
	CreatedAt   Timestamp       `json:"createdAt"`
	Company     string          `json:"company"`
	RecruiterID string          `json:"recruiterId,omitempty"`
}

// IsActive reports whether the job accepts applications.
func (j *Job) IsActive() bool {
	return strings.EqualFold(string(j.Status), string(JobActive))
}

// SplitSkills turns a comma separated skill list into trimmed entries.
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return skills
}
