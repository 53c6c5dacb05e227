// Package tailor orchestrates a full-resume tailoring run: five independent
// section transforms fanned out against one provider client, joined
// unconditionally, with per-section fallback to the original input.
package tailor

import (
	"context"
	"log"
	"sync"

	"resume-tailor/internal/provider"
	"resume-tailor/internal/types"
)

// Orchestrator runs resume tailoring against a resolved provider client.
// It holds no cross-request state; the zero value is ready to use.
type Orchestrator struct{}

// New returns an Orchestrator.
func New() *Orchestrator {
	return &Orchestrator{}
}

// sectionResults collects the five fan-out outcomes. Each branch owns
// exactly one value/err pair, so no locking is needed beyond the join.
type sectionResults struct {
	summary    string
	summaryErr error

	experience    []types.Experience
	experienceErr error

	skills    types.Skills
	skillsErr error

	projects    []types.Project
	projectsErr error

	education    []types.Education
	educationErr error
}

// TailorResume tailors all five resume sections in parallel and assembles a
// structurally valid result. A failed branch never aborts its siblings and
// never fails the request: its section falls back to the original input
// field. Worst case the result equals the input profile with an empty
// summary. Only provider resolution (done by the caller) and wholesale
// transport faults outside the fan-out are request-level errors.
func (o *Orchestrator) TailorResume(ctx context.Context, client provider.Client, req types.TailorRequest) (*types.TailoredResumeResponse, error) {
	profile := req.ProfileData
	jd := req.JobDescription

	var res sectionResults
	var wg sync.WaitGroup
	wg.Add(5)

	// The five branches are fully independent: same job description, disjoint
	// slices of the profile, disjoint result slots. They are joined
	// unconditionally; a branch failure must never cancel the others.
	go func() {
		defer wg.Done()
		res.summary, res.summaryErr = client.TailorSummary(ctx, profile.AdditionalInfo, profile.Skills, profile.Experience, jd)
	}()
	go func() {
		defer wg.Done()
		res.experience, res.experienceErr = client.TailorExperience(ctx, profile.Experience, jd)
	}()
	go func() {
		defer wg.Done()
		res.skills, res.skillsErr = client.TailorSkills(ctx, profile.Skills, jd)
	}()
	go func() {
		defer wg.Done()
		res.projects, res.projectsErr = client.TailorProjects(ctx, profile.Projects, jd)
	}()
	go func() {
		defer wg.Done()
		res.education, res.educationErr = client.TailorEducation(ctx, profile.Education, jd)
	}()

	wg.Wait()

	return &types.TailoredResumeResponse{
		TailoredResume: assemble(profile, &res),
		Changes:        []types.ChangeDetail{},
		// Shape is part of the contract; the keyword scorer is not wired in,
		// so the analysis is zero-valued.
		KeywordAnalysis: types.KeywordAnalysis{
			MatchedPercentage: 0,
			MissingKeywords:   []string{},
		},
	}, nil
}

// assemble applies the fallback policy: any failed branch is replaced by the
// corresponding original field, and list sections that came back with the
// wrong cardinality are treated the same as failures. Personal info,
// certifications and the cover letter are copied verbatim; they are never
// tailored.
func assemble(profile types.ResumeData, res *sectionResults) types.TailoredResumeData {
	summary := res.summary
	if res.summaryErr != nil {
		log.Printf("tailor: summary branch failed, using original: %v", res.summaryErr)
		summary = profile.AdditionalInfo
	}

	experience := res.experience
	if res.experienceErr != nil || len(experience) != len(profile.Experience) {
		if res.experienceErr != nil {
			log.Printf("tailor: experience branch failed, using original: %v", res.experienceErr)
		}
		experience = profile.Experience
	}

	skills := res.skills
	if res.skillsErr != nil {
		log.Printf("tailor: skills branch failed, using original: %v", res.skillsErr)
		skills = profile.Skills
	}

	projects := res.projects
	if res.projectsErr != nil || len(projects) != len(profile.Projects) {
		if res.projectsErr != nil {
			log.Printf("tailor: projects branch failed, using original: %v", res.projectsErr)
		}
		projects = profile.Projects
	}

	education := res.education
	if res.educationErr != nil || len(education) != len(profile.Education) {
		if res.educationErr != nil {
			log.Printf("tailor: education branch failed, using original: %v", res.educationErr)
		}
		education = profile.Education
	}

	return types.TailoredResumeData{
		PersonalInfo:   profile.PersonalInfo,
		Summary:        summary,
		CoverLetter:    profile.CoverLetter,
		Skills:         skills,
		Experience:     experience,
		Education:      education,
		Projects:       projects,
		Certifications: profile.Certifications,
	}
}
