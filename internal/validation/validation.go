// Package validation checks the sign-up, job and profile forms and returns
// per-field messages ready to show next to the offending input.
package validation

import (
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-tracker/internal/types"
)

// Errors maps a form field to its message. A nil or empty map means the form is valid.
type Errors map[string]string

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns e as an error, or nil when there is nothing to report.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

var (
	linkedInPattern = regexp.MustCompile(`^https://(www\.)?linkedin\.com/(in|company)/[\w\-\.]+`)
	mobileINPattern = regexp.MustCompile(`^(\+?91|0)?[6789]\d{9}$`)
)

// iso8601Layouts are the date and date-time shapes accepted for deadlines.
var iso8601Layouts = []string{
	types.DateLayout,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

// MaxExperienceYears bounds a single work history entry.
const MaxExperienceYears = 60

var validate *validator.Validate

func init() {
	validate = newValidator()
}

func newValidator() *validator.Validate {
	v := validator.New()
	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	must("linkedin", func(fl validator.FieldLevel) bool {
		return linkedInPattern.MatchString(fl.Field().String())
	})
	must("mobile_in", func(fl validator.FieldLevel) bool {
		return mobileINPattern.MatchString(fl.Field().String())
	})
	must("iso8601", func(fl validator.FieldLevel) bool {
		return IsISO8601(fl.Field().String())
	})
	must("website", func(fl validator.FieldLevel) bool {
		return IsWebsite(fl.Field().String())
	})
	return v
}

// passes reports whether value satisfies the validator tag.
func passes(value any, tag string) bool {
	return validate.Var(value, tag) == nil
}

// IsISO8601 reports whether s is a calendar date or date-time in ISO-8601 form.
func IsISO8601(s string) bool {
	_, ok := ParseISO8601(s)
	return ok
}

// ParseISO8601 parses a calendar date or date-time in ISO-8601 form.
func ParseISO8601(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range iso8601Layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsWebsite accepts http(s) URLs and bare host names such as "acme.com/careers".
func IsWebsite(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := u.Hostname()
	return host != "" && passes(host, "fqdn")
}

// positiveInt reports whether s is a whole number of at least min.
func positiveInt(s string, floor int) bool {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil && n >= floor
}

// ParseExperienceYears parses a finite number of years between 1 and
// MaxExperienceYears. Fractions are truncated to whole years.
func ParseExperienceYears(s string) (int, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	if n < 1 || n > MaxExperienceYears {
		return 0, false
	}
	return int(n), true
}

// ValidateField checks a single applier profile field and returns its message,
// or "" when the value is acceptable or the field has no rule.
func ValidateField(field, value string) string {
	trimmed := strings.TrimSpace(value)
	switch field {
	case "linkedin":
		if !passes(trimmed, "linkedin") {
			return "Please enter a valid LinkedIn profile or company URL."
		}
	case "address":
		if !passes(trimmed, "required") {
			return "Address is required."
		}
	case "qualification":
		if !passes(trimmed, "required") {
			return "Qualification is required."
		}
	case "skills":
		if !passes(trimmed, "required") {
			return "Please list at least one skill."
		}
	case "company":
		if !passes(trimmed, "min=2") {
			return "Company name is required."
		}
	case "jobRole":
		if !passes(trimmed, "min=2") {
			return "Job role is required."
		}
	case "experienceYears":
		if _, ok := ParseExperienceYears(trimmed); !ok {
			return "Enter a valid number of years."
		}
	}
	return ""
}

// ValidateWorkExperience checks one work history entry.
func ValidateWorkExperience(req *types.WorkExperienceRequest) Errors {
	errs := Errors{}
	for field, value := range map[string]types.FormValue{
		"company":         req.Company,
		"jobRole":         req.JobRole,
		"experienceYears": req.ExperienceYears,
	} {
		if msg := ValidateField(field, value.String()); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

// ValidateSignup checks the sign-up form. Company fields are only required for recruiters.
func ValidateSignup(form *types.SignupRequest) Errors {
	errs := Errors{}

	if !passes(strings.TrimSpace(form.FullName), "required") {
		errs["fullName"] = "Full Name is required"
	}
	if !passes(strings.TrimSpace(form.Email), "required,email") {
		errs["email"] = "Invalid email format"
	}
	if !passes(strings.TrimSpace(form.Mobile), "mobile_in") {
		errs["mobile"] = "Invalid mobile number"
	}
	if !passes(form.Gender, "required") {
		errs["gender"] = "Please select a gender"
	}
	role, ok := types.ParseRole(form.Role)
	if !ok {
		errs["role"] = "Please select a role"
	}

	if ok && role == types.RoleRecruiter {
		if !passes(strings.TrimSpace(form.CompanyName), "required") {
			errs["companyName"] = "Company Name is required"
		}
		website := strings.TrimSpace(form.Website)
		switch {
		case website == "":
			errs["website"] = "Website is required"
		case !passes(website, "website"):
			errs["website"] = "Invalid URL format"
		}
		if !passes(strings.TrimSpace(form.CompanyLocation), "required") {
			errs["companyLocation"] = "Company Location is required"
		}
	}

	if !passes(form.Password, "min=8") {
		errs["password"] = "Password must be at least 8 characters"
	}
	if form.Password != form.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
	return errs
}

// ValidatePostJob checks the job posting form.
func ValidatePostJob(form *types.PostJobRequest) Errors {
	errs := Errors{}

	if !passes(form.Company.Trimmed(), "required") {
		errs["company"] = "Company name is required"
	}
	if !passes(form.Title.Trimmed(), "required") {
		errs["title"] = "Job title is required"
	}
	if !passes(form.Description.Trimmed(), "required") {
		errs["description"] = "Job description is required"
	}
	if !passes(form.Location.Trimmed(), "required") {
		errs["location"] = "Location is required"
	}
	if !passes(form.Skills.Trimmed(), "min=3") {
		errs["skills"] = "Please enter at least one skill"
	}
	if !positiveInt(form.Openings.String(), 1) {
		errs["openings"] = "Please enter a valid number of openings"
	}

	experience := types.ExperienceLevel(form.Experience.Trimmed())
	if !passes(string(experience), "oneof=Entry Mid Senior") {
		errs["experience"] = "Please select experience level"
	}
	if (experience == types.ExperienceMid || experience == types.ExperienceSenior) &&
		!positiveInt(form.Years.String(), 1) {
		errs["years"] = "Please enter valid years of experience"
	}

	if msg := deadlineMessage(form.Deadline.Trimmed()); msg != "" {
		errs["deadline"] = msg
	}
	if !validJobStatus(form.Status.Trimmed()) {
		errs["status"] = "Please select a valid status"
	}
	return errs
}

// ValidateEditJob checks the job editing form. Openings may drop to zero.
func ValidateEditJob(form *types.EditJobRequest) Errors {
	errs := Errors{}

	if !passes(form.Title.Trimmed(), "required") {
		errs["title"] = "Job title is required"
	}
	if !passes(form.Location.Trimmed(), "required") {
		errs["location"] = "Location is required"
	}
	if !positiveInt(form.Openings.String(), 0) {
		errs["openings"] = "Please enter a valid number of openings"
	}
	if msg := deadlineMessage(form.Deadline.Trimmed()); msg != "" {
		errs["deadline"] = msg
	}
	if !validJobStatus(form.Status.Trimmed()) {
		errs["status"] = "Please select a valid status"
	}
	return errs
}

func deadlineMessage(deadline string) string {
	if !passes(deadline, "required") {
		return "Please select an application deadline"
	}
	if !passes(deadline, "iso8601") {
		return "Invalid date format"
	}
	return ""
}

func validJobStatus(s string) bool {
	return passes(s, "oneof="+string(types.JobActive)+" "+string(types.JobClosed))
}
