// Package types provides type definitions for structured data used throughout the resume-tailor system.
package types

// PersonalInfo holds the contact block of a resume. It is never tailored.
type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

// Skills groups skills into the four categories the resume renders.
// Order within each list is display order and must be preserved.
type Skills struct {
	Languages []string `json:"languages"`
	Databases []string `json:"databases"`
	Cloud     []string `json:"cloud"`
	Tools     []string `json:"tools"`
}

// Experience is one work-history entry. ID is caller-assigned and must
// survive tailoring unchanged.
type Experience struct {
	ID          string   `json:"id"`
	Company     string   `json:"company"`
	Role        string   `json:"role"`
	Location    string   `json:"location"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Description []string `json:"description"`
}

// Education is one education entry.
type Education struct {
	ID             string `json:"id"`
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	Location       string `json:"location"`
	GraduationDate string `json:"graduationDate"`
}

// Project is one project entry. ID is caller-assigned and must survive
// tailoring unchanged.
type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Technologies []string `json:"technologies"`
	Description  []string `json:"description"`
}

// ResumeData is the full resume document as the client edits it.
// All list fields keep caller order end to end.
type ResumeData struct {
	PersonalInfo   PersonalInfo `json:"personalInfo"`
	AdditionalInfo string       `json:"additionalInfo"`
	CoverLetter    string       `json:"coverLetter"`
	Skills         Skills       `json:"skills"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Projects       []Project    `json:"projects"`
	Certifications []string     `json:"certifications"`
}

// ResumeProfile is the stored profile row keyed by user id.
type ResumeProfile struct {
	UserID      string     `json:"userId" validate:"required"`
	ProfileData ResumeData `json:"profileData"`
	TargetJD    string     `json:"targetJd"`
}

// ResumeProfileResponse is a stored profile with persistence timestamps.
type ResumeProfileResponse struct {
	UserID      string     `json:"userId"`
	ProfileData ResumeData `json:"profileData"`
	TargetJD    string     `json:"targetJd"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

// TailorRequest is the immutable input to one tailoring run.
type TailorRequest struct {
	ProfileData    ResumeData `json:"profileData"`
	JobDescription string     `json:"jobDescription" validate:"required"`
}

// CoverLetterRequest asks for a generated cover letter body.
type CoverLetterRequest struct {
	ProfileData    ResumeData `json:"profileData"`
	JobDescription string     `json:"jobDescription" validate:"required"`
	Instructions   string     `json:"instructions"`
}

// TailoredResumeData is a ResumeData plus the generated summary. It is
// assembled by the orchestrator and always structurally valid: any section
// whose tailoring failed holds the original input value.
type TailoredResumeData struct {
	PersonalInfo   PersonalInfo `json:"personalInfo"`
	Summary        string       `json:"summary"`
	CoverLetter    string       `json:"coverLetter"`
	Skills         Skills       `json:"skills"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Projects       []Project    `json:"projects"`
	Certifications []string     `json:"certifications"`
}

// KeywordAnalysis reports job-description keyword coverage. The shape is
// part of the tailoring response contract even when the scorer is not wired
// in, in which case both fields are zero-valued.
type KeywordAnalysis struct {
	MatchedPercentage int      `json:"matched_percentage"`
	MissingKeywords   []string `json:"missing_keywords"`
}

// ChangeDetail describes one edit the tailoring pass made.
type ChangeDetail struct {
	Section string `json:"section"`
	Field   string `json:"field"`
	Before  string `json:"before"`
	After   string `json:"after"`
	Reason  string `json:"reason"`
}

// TailoredResumeResponse is the tailoring entry point's response body.
type TailoredResumeResponse struct {
	TailoredResume TailoredResumeData `json:"tailoredResume"`
	Changes        []ChangeDetail     `json:"changes"`
	KeywordAnalysis KeywordAnalysis   `json:"keywordAnalysis"`
}

// ATSScore is a provider-computed compatibility score.
type ATSScore struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Proposal is a generated freelance proposal with the experience and
// project entries the model suggests leading with.
type Proposal struct {
	Proposal            string   `json:"proposal"`
	SuggestedExperience []string `json:"suggested_experience"`
	SuggestedProjects   []string `json:"suggested_projects"`
}
