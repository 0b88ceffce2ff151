package types

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormValue is a form field as typed by a user. JSON strings, numbers and
// booleans are all accepted and kept as text so validation sees what was sent.
type FormValue string

// UnmarshalJSON implements json.Unmarshaler
func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	*v = FormValue(data)
	return nil
}

// String returns the raw text.
func (v FormValue) String() string {
	return string(v)
}

// Trimmed returns the text without surrounding whitespace.
func (v FormValue) Trimmed() string {
	return strings.TrimSpace(string(v))
}

// PostJobRequest is the job posting form.
type PostJobRequest struct {
	Company     FormValue `json:"company"`
	Title       FormValue `json:"title"`
	Description FormValue `json:"description"`
	Location    FormValue `json:"location"`
	Type        FormValue `json:"type"`
	Openings    FormValue `json:"openings"`
	Skills      FormValue `json:"skills"` // comma separated
	Experience  FormValue `json:"experience"`
	Years       FormValue `json:"years"`
	Deadline    FormValue `json:"deadline"`
	Status      FormValue `json:"status"`
}

// EditJobRequest is the job editing form.
type EditJobRequest struct {
	Title       FormValue `json:"title"`
	Description FormValue `json:"description"`
	Location    FormValue `json:"location"`
	Openings    FormValue `json:"openings"`
	Skills      FormValue `json:"skills"`
	Status      FormValue `json:"status"`
	Deadline    FormValue `json:"deadline"`
}

// FieldUpdateRequest edits one profile field.
type FieldUpdateRequest struct {
	Field string    `json:"field" validate:"required"`
	Value FormValue `json:"value"`
}

// WorkExperienceRequest adds or replaces a work history entry.
type WorkExperienceRequest struct {
	Company         FormValue `json:"company"`
	JobRole         FormValue `json:"jobRole"`
	ExperienceYears FormValue `json:"experienceYears"`
}

// StatusUpdateRequest changes an application's status.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// Validate validates the FieldUpdateRequest using the validator.
func (r *FieldUpdateRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the StatusUpdateRequest using the validator.
func (r *StatusUpdateRequest) Validate() error {
	return validator.New().Struct(r)
}
