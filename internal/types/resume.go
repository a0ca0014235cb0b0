// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ExperienceLevel is the seniority of a single position
type ExperienceLevel string

// Experience levels accepted by the form
const (
	LevelIntern  ExperienceLevel = "Intern"
	LevelFresher ExperienceLevel = "Fresher"
	LevelJunior  ExperienceLevel = "Junior"
	LevelMid     ExperienceLevel = "Mid"
	LevelSenior  ExperienceLevel = "Senior"
)

// GradeType is the scale an education grade is expressed in
type GradeType string

// Grade types accepted by the form
const (
	GradeCGPA       GradeType = "CGPA"
	GradePercentage GradeType = "Percentage"
)

// ResumeRecord is the complete snapshot of one user's résumé data at generation time
type ResumeRecord struct {
	PersonalInfo       PersonalInfo        `json:"personalInfo" yaml:"personalInfo"`
	TargetRole         TargetRole          `json:"targetRole" yaml:"targetRole"`
	Experience         []Experience        `json:"experience" yaml:"experience" validate:"dive"`
	Skills             Skills              `json:"skills" yaml:"skills"`
	Education          []Education         `json:"education" yaml:"education" validate:"dive"`
	SecondaryEducation *SecondaryEducation `json:"schoolEducation,omitempty" yaml:"schoolEducation,omitempty"`
	Certifications     []Certification     `json:"certifications" yaml:"certifications" validate:"dive"`
	Projects           []Project           `json:"projects" yaml:"projects" validate:"dive"`
	Settings           Settings            `json:"settings" yaml:"settings"`
}

// PersonalInfo holds the header/contact data
type PersonalInfo struct {
	FullName          string `json:"fullName" yaml:"fullName" validate:"required"`
	ProfessionalTitle string `json:"professionalTitle" yaml:"professionalTitle"`
	Location          string `json:"location" yaml:"location"`
	Phone             string `json:"phone" yaml:"phone"`
	Email             string `json:"email" yaml:"email" validate:"omitempty,email"`
	LinkedIn          string `json:"linkedin" yaml:"linkedin"`
	Portfolio         string `json:"portfolio" yaml:"portfolio"`
	Photo             string `json:"photo,omitempty" yaml:"photo,omitempty"` // Reference only, never embedded
}

// TargetRole describes the job the résumé is tailored to
type TargetRole struct {
	Role             string   `json:"role" yaml:"role"`
	Company          string   `json:"company" yaml:"company"`
	JobDescription   string   `json:"jobDescription" yaml:"jobDescription"`
	GeneratedSummary string   `json:"generatedSummary" yaml:"generatedSummary"`
	Keywords         []string `json:"keywords" yaml:"keywords"`
}

// Experience is one position in the work history
type Experience struct {
	ID           string          `json:"id" yaml:"id"`
	JobTitle     string          `json:"jobTitle" yaml:"jobTitle"`
	Company      string          `json:"company" yaml:"company"`
	Location     string          `json:"location" yaml:"location"`
	StartDate    string          `json:"startDate" yaml:"startDate"`
	EndDate      string          `json:"endDate" yaml:"endDate"`
	Current      bool            `json:"current" yaml:"current"`
	Level        ExperienceLevel `json:"level" yaml:"level" validate:"omitempty,oneof=Intern Fresher Junior Mid Senior"`
	Description  string          `json:"description" yaml:"description"`
	BulletPoints []string        `json:"bulletPoints" yaml:"bulletPoints"`
}

// Skills holds three ordered skill lists
type Skills struct {
	Technical []string `json:"technical" yaml:"technical"`
	Soft      []string `json:"soft" yaml:"soft"`
	Tools     []string `json:"tools" yaml:"tools"`
}

// IsEmpty reports whether all three skill lists are empty
func (s Skills) IsEmpty() bool {
	return len(s.Technical) == 0 && len(s.Soft) == 0 && len(s.Tools) == 0
}

// Education is one higher-education entry
type Education struct {
	ID             string    `json:"id" yaml:"id"`
	Degree         string    `json:"degree" yaml:"degree"`
	Specialization string    `json:"specialization" yaml:"specialization"`
	Institution    string    `json:"institution" yaml:"institution"`
	Location       string    `json:"location" yaml:"location"`
	StartYear      string    `json:"startYear" yaml:"startYear"`
	EndYear        string    `json:"endYear" yaml:"endYear"`
	Grade          string    `json:"grade" yaml:"grade"`
	GradeType      GradeType `json:"gradeType" yaml:"gradeType" validate:"omitempty,oneof=CGPA Percentage"`
}

// SecondaryEducation holds class X and class XII school records
type SecondaryEducation struct {
	Tenth   SchoolRecord `json:"tenth" yaml:"tenth"`
	Twelfth SchoolRecord `json:"twelfth" yaml:"twelfth"`
}

// SchoolRecord is a single school-leaving record
type SchoolRecord struct {
	School     string `json:"school" yaml:"school"`
	Board      string `json:"board" yaml:"board"`
	Year       string `json:"year" yaml:"year"`
	Percentage string `json:"percentage" yaml:"percentage"`
}

// Certification is a professional certificate or license
type Certification struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Organization  string `json:"organization" yaml:"organization"`
	IssueDate     string `json:"issueDate" yaml:"issueDate"`
	ExpiryDate    string `json:"expiryDate,omitempty" yaml:"expiryDate,omitempty"`
	CredentialID  string `json:"credentialId,omitempty" yaml:"credentialId,omitempty"`
	CredentialURL string `json:"credentialUrl,omitempty" yaml:"credentialUrl,omitempty" validate:"omitempty,url"`
}

// Project is a portfolio project
type Project struct {
	ID           string       `json:"id" yaml:"id"`
	Title        string       `json:"title" yaml:"title"`
	Description  string       `json:"description" yaml:"description"`
	Technologies StringList   `json:"technologies" yaml:"technologies"`
	Links        ProjectLinks `json:"links" yaml:"links"`
	BulletPoints []string     `json:"bulletPoints" yaml:"bulletPoints"`
}

// ProjectLinks holds optional project URLs
type ProjectLinks struct {
	GitHub string `json:"github,omitempty" yaml:"github,omitempty"`
	Live   string `json:"live,omitempty" yaml:"live,omitempty"`
	Other  string `json:"other,omitempty" yaml:"other,omitempty"`
}

// Settings are generation-time switches
type Settings struct {
	StrictATSMode bool `json:"strictATSMode" yaml:"strictATSMode"`
	IncludePhoto  bool `json:"includePhoto" yaml:"includePhoto"`
}

// PhotoAllowed reports whether a downstream template may reference the photo.
// Strict ATS mode always wins over IncludePhoto.
func (s Settings) PhotoAllowed() bool {
	return s.IncludePhoto && !s.StrictATSMode
}
