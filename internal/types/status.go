package types

import "strings"

// ApplicationStatus is the canonical application status enumeration.
//
// Stored values are snake_case. Older documents carry display labels
// ("Under Review", "Shortlisted") or lowercase forms ("applied",
// "inreview"); ParseApplicationStatus accepts all of them.
type ApplicationStatus string

const (
	StatusApplied            ApplicationStatus = "applied"
	StatusUnderReview        ApplicationStatus = "under_review"
	StatusShortlisted        ApplicationStatus = "shortlisted"
	StatusRejected           ApplicationStatus = "rejected"
	StatusInterviewScheduled ApplicationStatus = "interview_scheduled"
)

// AllStatuses lists every status in display order.
var AllStatuses = []ApplicationStatus{
	StatusApplied,
	StatusUnderReview,
	StatusShortlisted,
	StatusRejected,
	StatusInterviewScheduled,
}

// RecruiterStatuses are the statuses a recruiter may set on an application.
var RecruiterStatuses = []ApplicationStatus{
	StatusUnderReview,
	StatusShortlisted,
	StatusRejected,
	StatusInterviewScheduled,
}

var statusLabels = map[ApplicationStatus]string{
	StatusApplied:            "Applied",
	StatusUnderReview:        "Under Review",
	StatusShortlisted:        "Shortlisted",
	StatusRejected:           "Rejected",
	StatusInterviewScheduled: "Interview Scheduled",
}

// Label returns the display label for the status.
func (s ApplicationStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether s is one of the canonical statuses.
func (s ApplicationStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// RecruiterSettable reports whether a recruiter may move an application to s.
func (s ApplicationStatus) RecruiterSettable() bool {
	for _, rs := range RecruiterStatuses {
		if rs == s {
			return true
		}
	}
	return false
}

// ParseApplicationStatus normalizes any known spelling of a status.
// Matching ignores case, spaces, underscores and hyphens.
func ParseApplicationStatus(raw string) (ApplicationStatus, bool) {
	switch squash(raw) {
	case "applied":
		return StatusApplied, true
	case "underreview", "inreview", "review":
		return StatusUnderReview, true
	case "shortlisted":
		return StatusShortlisted, true
	case "rejected":
		return StatusRejected, true
	case "interviewscheduled", "interview", "interviewed":
		return StatusInterviewScheduled, true
	default:
		return "", false
	}
}

// NormalizeStatus maps a stored status onto the canonical enumeration.
// Empty values count as applied; unknown values are returned unchanged.
func NormalizeStatus(raw string) ApplicationStatus {
	if strings.TrimSpace(raw) == "" {
		return StatusApplied
	}
	if s, ok := ParseApplicationStatus(raw); ok {
		return s
	}
	return ApplicationStatus(raw)
}

func squash(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// StatusTab is a filter tab on the applier's application list.
type StatusTab string

const (
	TabAll                StatusTab = "All"
	TabApplied            StatusTab = "Applied"
	TabInterviewScheduled StatusTab = "Interview Scheduled"
	TabRejected           StatusTab = "Rejected"
	TabShortlisted        StatusTab = "Shortlisted"
	TabInReview           StatusTab = "In Review"
)

// StatusTabs lists the applier tabs in display order.
var StatusTabs = []StatusTab{
	TabAll,
	TabApplied,
	TabInterviewScheduled,
	TabRejected,
	TabShortlisted,
	TabInReview,
}

// ParseStatusTab accepts a tab label or any status spelling. Empty means All.
func ParseStatusTab(raw string) (StatusTab, bool) {
	if strings.TrimSpace(raw) == "" || strings.EqualFold(strings.TrimSpace(raw), string(TabAll)) {
		return TabAll, true
	}
	for _, t := range StatusTabs {
		if strings.EqualFold(string(t), strings.TrimSpace(raw)) {
			return t, true
		}
	}
	if s, ok := ParseApplicationStatus(raw); ok {
		for _, t := range StatusTabs {
			if t.Status() == s {
				return t, true
			}
		}
	}
	return "", false
}

// Status returns the status a tab selects. TabAll returns "".
func (t StatusTab) Status() ApplicationStatus {
	switch t {
	case TabApplied:
		return StatusApplied
	case TabInterviewScheduled:
		return StatusInterviewScheduled
	case TabRejected:
		return StatusRejected
	case TabShortlisted:
		return StatusShortlisted
	case TabInReview:
		return StatusUnderReview
	default:
		return ""
	}
}

// Matches reports whether an application status belongs under the tab.
func (t StatusTab) Matches(raw string) bool {
	if t == TabAll {
		return true
	}
	s, ok := ParseApplicationStatus(raw)
	return ok && s == t.Status()
}
