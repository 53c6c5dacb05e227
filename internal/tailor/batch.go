package tailor

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"resume-tailor/internal/provider"
	"resume-tailor/internal/types"
)

// MaxBatchSize caps one batch-tailoring call.
const MaxBatchSize = 5

// ErrBatchTooLarge is returned before any provider work when a batch
// exceeds MaxBatchSize.
var ErrBatchTooLarge = fmt.Errorf("maximum %d job descriptions allowed for batch processing", MaxBatchSize)

// TailorBatch tailors the resume for up to MaxBatchSize job descriptions in
// parallel. Jobs are isolated exactly like fan-out branches: TailorResume
// never fails for in-fan-out reasons, and each job writes only its own
// result slot, so one job's provider trouble cannot affect its siblings.
func (o *Orchestrator) TailorBatch(ctx context.Context, client provider.Client, reqs []types.TailorRequest) ([]*types.TailoredResumeResponse, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("at least one tailor request is required")
	}
	if len(reqs) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	results := make([]*types.TailoredResumeResponse, len(reqs))
	var g errgroup.Group
	for i, req := range reqs {
		g.Go(func() error {
			resp, err := o.TailorResume(ctx, client, req)
			if err != nil {
				// Degrade this job to its all-original result rather than
				// failing the batch.
				resp = fallbackResponse(req.ProfileData)
			}
			results[i] = resp
			return nil
		})
	}
	// Branches always return nil; Wait is a pure join.
	_ = g.Wait()
	return results, nil
}

// fallbackResponse is the all-original result for one job: every section
// copied from the input profile, summary from the additional info.
func fallbackResponse(profile types.ResumeData) *types.TailoredResumeResponse {
	return &types.TailoredResumeResponse{
		TailoredResume: types.TailoredResumeData{
			PersonalInfo:   profile.PersonalInfo,
			Summary:        profile.AdditionalInfo,
			CoverLetter:    profile.CoverLetter,
			Skills:         profile.Skills,
			Experience:     profile.Experience,
			Education:      profile.Education,
			Projects:       profile.Projects,
			Certifications: profile.Certifications,
		},
		Changes: []types.ChangeDetail{},
		KeywordAnalysis: types.KeywordAnalysis{
			MissingKeywords: []string{},
		},
	}
}
