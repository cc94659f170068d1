package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adscribe/internal/ai"
	"adscribe/internal/models"
	"adscribe/internal/queue"
)

// mockCopyGenerator mocks CopyGenerator
type mockCopyGenerator struct {
	GenerateFunc func(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResult, error)

	Calls map[string]int
}

func newMockCopyGenerator() *mockCopyGenerator {
	return &mockCopyGenerator{Calls: make(map[string]int)}
}

func (m *mockCopyGenerator) GenerateAdCopy(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResult, error) {
	m.Calls["GenerateAdCopy"]++
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &ai.GenerateResult{Title: "Generated Title", Copy: "Generated body copy."}, nil
}

func TestProcessJobSavesGeneratedCopy(t *testing.T) {
	repo := NewMockDraftRepository()
	gen := newMockCopyGenerator()

	var savedTitle, savedCopy string
	repo.UpdateCopyFunc = func(ctx context.Context, tenantID, id, title, copy string) error {
		savedTitle = title
		savedCopy = copy
		return nil
	}

	svc := NewCopyService(repo, nil, gen, newTestLogger())

	err := svc.ProcessJob(context.Background(), &queue.CopyJob{
		TenantID: "tenant-1",
		DraftID:  "draft-1",
		Tone:     "playful",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, gen.Calls["GenerateAdCopy"])
	assert.Equal(t, "Generated Title", savedTitle)
	assert.Equal(t, "Generated body copy.", savedCopy)
}

func TestProcessJobTruncatesOverlongCopy(t *testing.T) {
	repo := NewMockDraftRepository()
	gen := newMockCopyGenerator()
	gen.GenerateFunc = func(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResult, error) {
		return &ai.GenerateResult{
			Title: strings.Repeat("T", models.MaxTitleLength+40),
			Copy:  strings.Repeat("c", models.MaxCopyLength+40),
		}, nil
	}

	var savedTitle, savedCopy string
	repo.UpdateCopyFunc = func(ctx context.Context, tenantID, id, title, copy string) error {
		savedTitle = title
		savedCopy = copy
		return nil
	}

	svc := NewCopyService(repo, nil, gen, newTestLogger())

	err := svc.ProcessJob(context.Background(), &queue.CopyJob{TenantID: "tenant-1", DraftID: "draft-1"})

	require.NoError(t, err)
	assert.Len(t, []rune(savedTitle), models.MaxTitleLength)
	assert.Len(t, []rune(savedCopy), models.MaxCopyLength)
}

func TestProcessJobDropsDeletedDraft(t *testing.T) {
	repo := notFoundDraftRepo()
	gen := newMockCopyGenerator()

	svc := NewCopyService(repo, nil, gen, newTestLogger())

	// Dropping the job means no error, so the queue does not redeliver
	err := svc.ProcessJob(context.Background(), &queue.CopyJob{TenantID: "tenant-1", DraftID: "gone"})

	require.NoError(t, err)
	assert.Equal(t, 0, gen.Calls["GenerateAdCopy"])
}

func TestProcessJobDropsSubmittedDraft(t *testing.T) {
	repo := NewMockDraftRepository()
	repo.GetByIDFunc = func(ctx context.Context, tenantID, id string) (*models.AdDraft, error) {
		draft := NewTestDraft()
		draft.Status = models.DraftStatusSubmitted
		return draft, nil
	}
	gen := newMockCopyGenerator()

	svc := NewCopyService(repo, nil, gen, newTestLogger())

	err := svc.ProcessJob(context.Background(), &queue.CopyJob{TenantID: "tenant-1", DraftID: "draft-1"})

	require.NoError(t, err)
	assert.Equal(t, 0, gen.Calls["GenerateAdCopy"])
	assert.Equal(t, 0, repo.Calls["UpdateCopy"])
}

func TestEnqueueGenerationRejectsSubmittedDraft(t *testing.T) {
	repo := NewMockDraftRepository()
	repo.GetByIDFunc = func(ctx context.Context, tenantID, id string) (*models.AdDraft, error) {
		draft := NewTestDraft()
		draft.Status = models.DraftStatusSubmitted
		return draft, nil
	}

	svc := NewCopyService(repo, nil, nil, newTestLogger())

	_, err := svc.EnqueueGeneration(context.Background(), "tenant-1", "draft-1", nil)

	var alreadyErr *AlreadySubmittedError
	require.ErrorAs(t, err, &alreadyErr)
}

func TestEnqueueGenerationDraftNotFound(t *testing.T) {
	svc := NewCopyService(notFoundDraftRepo(), nil, nil, newTestLogger())

	_, err := svc.EnqueueGeneration(context.Background(), "tenant-1", "missing", nil)

	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestTruncateKeepsMultibyteRunesIntact(t *testing.T) {
	s := strings.Repeat("é", 10)
	out := truncate(s, 5)
	assert.Equal(t, strings.Repeat("é", 5), out)
}
