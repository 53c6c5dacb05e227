package tailor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-tailor/internal/types"
)

func TestTailorBatch_RejectsOversizedBatchBeforeProviderWork(t *testing.T) {
	client := &fakeClient{}
	reqs := make([]types.TailorRequest, MaxBatchSize+1)
	for i := range reqs {
		reqs[i] = testRequest()
	}

	results, err := New().TailorBatch(context.Background(), client, reqs)
	require.ErrorIs(t, err, ErrBatchTooLarge)
	assert.Nil(t, results)
	assert.Equal(t, int64(0), atomic.LoadInt64(&client.calls), "no provider call may happen for a rejected batch")
}

func TestTailorBatch_RejectsEmptyBatch(t *testing.T) {
	client := &fakeClient{}
	_, err := New().TailorBatch(context.Background(), client, nil)
	require.Error(t, err)
	assert.Equal(t, int64(0), atomic.LoadInt64(&client.calls))
}

func TestTailorBatch_ResultsKeepRequestOrder(t *testing.T) {
	client := &fakeClient{}
	reqs := make([]types.TailorRequest, MaxBatchSize)
	for i := range reqs {
		reqs[i] = testRequest()
	}

	results, err := New().TailorBatch(context.Background(), client, reqs)
	require.NoError(t, err)
	require.Len(t, results, MaxBatchSize)
	for i, result := range results {
		require.NotNil(t, result, "result %d", i)
		assert.Equal(t, "tailored summary", result.TailoredResume.Summary)
	}
	assert.Equal(t, int64(5*MaxBatchSize), atomic.LoadInt64(&client.calls))
}

func TestTailorBatch_JobFailuresStayIsolated(t *testing.T) {
	// Branch failures degrade per section inside each job; the batch as a
	// whole always succeeds with one result per request.
	client := &fakeClient{summaryErr: errors.New("quota exceeded")}
	reqs := []types.TailorRequest{testRequest(), testRequest()}

	results, err := New().TailorBatch(context.Background(), client, reqs)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, result := range results {
		assert.Equal(t, reqs[0].ProfileData.AdditionalInfo, result.TailoredResume.Summary)
		assert.Equal(t, "tailored Engineer", result.TailoredResume.Experience[0].Role)
	}
}
