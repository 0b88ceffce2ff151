package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/job-tracker/internal/types"
)

func TestValidateField(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"linkedin profile", "linkedin", "https://www.linkedin.com/in/jane-doe", ""},
		{"linkedin company", "linkedin", "https://linkedin.com/company/acme.inc", ""},
		{"linkedin http", "linkedin", "http://linkedin.com/in/jane", "Please enter a valid LinkedIn profile or company URL."},
		{"linkedin other host", "linkedin", "https://example.com/in/jane", "Please enter a valid LinkedIn profile or company URL."},
		{"linkedin empty", "linkedin", "", "Please enter a valid LinkedIn profile or company URL."},
		{"address empty", "address", "   ", "Address is required."},
		{"address ok", "address", "12 MG Road", ""},
		{"qualification empty", "qualification", "", "Qualification is required."},
		{"skills empty", "skills", "", "Please list at least one skill."},
		{"skills ok", "skills", "Go", ""},
		{"company short", "company", "A", "Company name is required."},
		{"company ok", "company", "Acme", ""},
		{"job role short", "jobRole", " x ", "Job role is required."},
		{"job role ok", "jobRole", "Engineer", ""},
		{"years zero", "experienceYears", "0", "Enter a valid number of years."},
		{"years text", "experienceYears", "two", "Enter a valid number of years."},
		{"years ok", "experienceYears", "3", ""},
		{"years fractional", "experienceYears", "1.5", ""},
		{"years NaN", "experienceYears", "NaN", "Enter a valid number of years."},
		{"years Inf", "experienceYears", "Inf", "Enter a valid number of years."},
		{"years huge", "experienceYears", "1e300", "Enter a valid number of years."},
		{"years above cap", "experienceYears", "61", "Enter a valid number of years."},
		{"years at cap", "experienceYears", "60", ""},
		{"unknown field", "favouriteColour", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateField(tt.field, tt.value))
		})
	}
}

func validApplierSignup() *types.SignupRequest {
	return &types.SignupRequest{
		FullName:        "Jane Doe",
		Email:           "jane@example.com",
		Mobile:          "9876543210",
		Gender:          "female",
		Role:            "applier",
		Password:        "secret-pass",
		ConfirmPassword: "secret-pass",
	}
}

func TestValidateSignup(t *testing.T) {
	t.Run("valid applier", func(t *testing.T) {
		errs := ValidateSignup(validApplierSignup())
		assert.Empty(t, errs)
		assert.NoError(t, errs.Err())
	})

	t.Run("valid recruiter", func(t *testing.T) {
		form := validApplierSignup()
		form.Role = "recruiter"
		form.CompanyName = "Acme"
		form.Website = "acme.com"
		form.CompanyLocation = "Pune"
		assert.Empty(t, ValidateSignup(form))
	})

	t.Run("empty form", func(t *testing.T) {
		errs := ValidateSignup(&types.SignupRequest{})
		assert.Equal(t, Errors{
			"fullName": "Full Name is required",
			"email":    "Invalid email format",
			"mobile":   "Invalid mobile number",
			"gender":   "Please select a gender",
			"role":     "Please select a role",
			"password": "Password must be at least 8 characters",
		}, errs)
		assert.Error(t, errs.Err())
	})

	t.Run("recruiter company fields", func(t *testing.T) {
		form := validApplierSignup()
		form.Role = "recruiter"
		errs := ValidateSignup(form)
		assert.Equal(t, "Company Name is required", errs["companyName"])
		assert.Equal(t, "Website is required", errs["website"])
		assert.Equal(t, "Company Location is required", errs["companyLocation"])

		form.Website = "not a url"
		assert.Equal(t, "Invalid URL format", ValidateSignup(form)["website"])
	})

	t.Run("applier ignores company fields", func(t *testing.T) {
		form := validApplierSignup()
		form.Website = "not a url"
		assert.Empty(t, ValidateSignup(form))
	})

	t.Run("malformed email and mobile", func(t *testing.T) {
		form := validApplierSignup()
		form.Email = "jane@"
		form.Mobile = "12345"
		errs := ValidateSignup(form)
		assert.Equal(t, "Invalid email format", errs["email"])
		assert.Equal(t, "Invalid mobile number", errs["mobile"])
	})

	t.Run("password mismatch", func(t *testing.T) {
		form := validApplierSignup()
		form.ConfirmPassword = "different"
		assert.Equal(t, Errors{"confirmPassword": "Passwords do not match"}, ValidateSignup(form))
	})
}

func validPostJob() *types.PostJobRequest {
	return &types.PostJobRequest{
		Company:     "Acme",
		Title:       "Go Developer",
		Description: "Build services",
		Location:    "Remote",
		Type:        "Full-time",
		Openings:    "2",
		Skills:      "Go, SQL",
		Experience:  "Mid",
		Years:       "3",
		Deadline:    "2030-01-15",
		Status:      "active",
	}
}

func TestValidatePostJob(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.Empty(t, ValidatePostJob(validPostJob()))
	})

	t.Run("empty form", func(t *testing.T) {
		errs := ValidatePostJob(&types.PostJobRequest{})
		assert.Equal(t, Errors{
			"company":     "Company name is required",
			"title":       "Job title is required",
			"description": "Job description is required",
			"location":    "Location is required",
			"skills":      "Please enter at least one skill",
			"openings":    "Please enter a valid number of openings",
			"experience":  "Please select experience level",
			"deadline":    "Please select an application deadline",
			"status":      "Please select a valid status",
		}, errs)
	})

	tests := []struct {
		name   string
		mutate func(*types.PostJobRequest)
		field  string
		want   string
	}{
		{"zero openings", func(r *types.PostJobRequest) { r.Openings = "0" }, "openings", "Please enter a valid number of openings"},
		{"short skills", func(r *types.PostJobRequest) { r.Skills = "Go" }, "skills", "Please enter at least one skill"},
		{"senior without years", func(r *types.PostJobRequest) { r.Experience = "Senior"; r.Years = "" }, "years", "Please enter valid years of experience"},
		{"bad deadline", func(r *types.PostJobRequest) { r.Deadline = "15/01/2030" }, "deadline", "Invalid date format"},
		{"impossible date", func(r *types.PostJobRequest) { r.Deadline = "2030-02-30" }, "deadline", "Invalid date format"},
		{"unknown status", func(r *types.PostJobRequest) { r.Status = "paused" }, "status", "Please select a valid status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validPostJob()
			tt.mutate(form)
			errs := ValidatePostJob(form)
			assert.Len(t, errs, 1)
			assert.Equal(t, tt.want, errs[tt.field])
		})
	}

	t.Run("entry level needs no years", func(t *testing.T) {
		form := validPostJob()
		form.Experience = "Entry"
		form.Years = ""
		assert.Empty(t, ValidatePostJob(form))
	})

	t.Run("date-time deadline", func(t *testing.T) {
		form := validPostJob()
		form.Deadline = "2030-01-15T10:00:00Z"
		assert.Empty(t, ValidatePostJob(form))
	})
}

func TestValidateEditJob(t *testing.T) {
	valid := func() *types.EditJobRequest {
		return &types.EditJobRequest{
			Title:    "Go Developer",
			Location: "Remote",
			Openings: "0",
			Status:   "closed",
			Deadline: "2030-01-15",
		}
	}

	assert.Empty(t, ValidateEditJob(valid()))

	form := valid()
	form.Openings = "-1"
	form.Title = ""
	form.Status = "Active"
	errs := ValidateEditJob(form)
	assert.Equal(t, Errors{
		"title":    "Job title is required",
		"openings": "Please enter a valid number of openings",
		"status":   "Please select a valid status",
	}, errs)
}

func TestValidateWorkExperience(t *testing.T) {
	errs := ValidateWorkExperience(&types.WorkExperienceRequest{Company: "A", JobRole: "Dev", ExperienceYears: "0"})
	assert.Equal(t, Errors{
		"company":         "Company name is required.",
		"experienceYears": "Enter a valid number of years.",
	}, errs)

	assert.Empty(t, ValidateWorkExperience(&types.WorkExperienceRequest{Company: "Acme", JobRole: "Dev", ExperienceYears: "2"}))
}

func TestErrors_Error(t *testing.T) {
	errs := Errors{"title": "Job title is required", "company": "Company name is required"}
	assert.Equal(t, "validation failed: company: Company name is required; title: Job title is required", errs.Error())
	assert.Nil(t, Errors{}.Err())
}

func TestIsWebsite(t *testing.T) {
	for _, s := range []string{"acme.com", "https://acme.com/careers", "http://www.acme.co.in"} {
		assert.True(t, IsWebsite(s), s)
	}
	for _, s := range []string{"", "acme", "ftp://acme.com", "not a url"} {
		assert.False(t, IsWebsite(s), s)
	}
}

func TestParseExperienceYears(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"3", 3, true},
		{" 2.9 ", 2, true},
		{"60", 60, true},
		{"0.5", 0, false},
		{"NaN", 0, false},
		{"-Inf", 0, false},
		{"1e300", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseExperienceYears(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
