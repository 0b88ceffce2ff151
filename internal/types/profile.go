package types

// RecruiterProfile is stored under recruiters/{userId}.
type RecruiterProfile struct {
	UID             string    `json:"uid"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	Mobile          string    `json:"mobile,omitempty"`
	Gender          string    `json:"gender,omitempty"`
	Role            Role      `json:"role"`
	CompanyName     string    `json:"companyName,omitempty"`
	Website         string    `json:"website,omitempty"`
	CompanyLocation string    `json:"companyLocation,omitempty"`
	CreatedAt       Timestamp `json:"createdAt"`
}

// WorkExperience is one entry of an applier's work history.
type WorkExperience struct {
	Company         string `json:"company"`
	JobRole         string `json:"jobRole"`
	ExperienceYears int    `json:"experienceYears"`
}

// ApplierProfile is stored under appliers/{userId}.
type ApplierProfile struct {
	UID            string           `json:"uid"`
	FullName       string           `json:"fullName"`
	Email          string           `json:"email"`
	Mobile         string           `json:"mobile,omitempty"`
	Gender         string           `json:"gender,omitempty"`
	Role           Role             `json:"role"`
	Address        string           `json:"address,omitempty"`
	Qualification  string           `json:"qualification,omitempty"`
	Skills         string           `json:"skills,omitempty"`
	LinkedIn       string           `json:"linkedin,omitempty"`
	WorkExperience []WorkExperience `json:"workExperience"`
	CreatedAt      Timestamp        `json:"createdAt"`
}

// EditableApplierFields are the profile fields an applier may change one at a time.
var EditableApplierFields = map[string]bool{
	"fullName":      true,
	"mobile":        true,
	"address":       true,
	"qualification": true,
	"skills":        true,
	"linkedin":      true,
}
