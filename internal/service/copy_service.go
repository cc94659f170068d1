package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"adscribe/internal/ai"
	"adscribe/internal/models"
	"adscribe/internal/queue"
	"adscribe/internal/repository"
)

// CopyGenerator produces an ad title/copy pair for a product
type CopyGenerator interface {
	GenerateAdCopy(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResult, error)
}

// CopyService enqueues and processes ad copy generation jobs. The API
// side only enqueues; the worker side calls the completion API and
// writes the result back onto the draft.
type CopyService struct {
	draftRepo repository.DraftRepository
	publisher *queue.Publisher
	generator CopyGenerator
	log       *logrus.Logger
}

// NewCopyService creates a new copy service. The publisher may be nil
// in the worker process and the generator may be nil in the API process.
func NewCopyService(draftRepo repository.DraftRepository, publisher *queue.Publisher, generator CopyGenerator, log *logrus.Logger) *CopyService {
	return &CopyService{
		draftRepo: draftRepo,
		publisher: publisher,
		generator: generator,
		log:       log,
	}
}

// EnqueueGeneration queues a copy generation job for a draft
func (s *CopyService) EnqueueGeneration(ctx context.Context, tenantID, draftID string, req *GenerateCopyRequest) (*EnqueueResult, error) {
	draft, err := s.draftRepo.GetByID(ctx, tenantID, draftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "draft", ID: draftID}
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	// Submitted drafts are immutable; regenerating their copy would
	// desync the record from the published ad.
	if draft.Status == models.DraftStatusSubmitted {
		return nil, &AlreadySubmittedError{DraftID: draftID}
	}

	job := queue.CopyJob{
		TenantID: tenantID,
		DraftID:  draftID,
	}
	if req != nil {
		job.Tone = req.Tone
		job.ProductDescription = req.ProductDescription
	}

	if err := s.publisher.PublishCopyJob(job); err != nil {
		return nil, fmt.Errorf("failed to queue copy generation: %w", err)
	}

	return &EnqueueResult{DraftID: draftID, Queued: true}, nil
}

// ProcessJob handles one copy generation job in the worker
func (s *CopyService) ProcessJob(ctx context.Context, job *queue.CopyJob) error {
	log := s.log.WithFields(logrus.Fields{
		"tenant_id": job.TenantID,
		"draft_id":  job.DraftID,
	})

	draft, err := s.draftRepo.GetByID(ctx, job.TenantID, job.DraftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Draft deleted since the job was queued; drop the job
			log.Warn("draft no longer exists, dropping copy job")
			return nil
		}
		return fmt.Errorf("failed to get draft: %w", err)
	}

	if draft.Status == models.DraftStatusSubmitted {
		log.Info("draft already submitted, dropping copy job")
		return nil
	}

	result, err := s.generator.GenerateAdCopy(ctx, ai.GenerateRequest{
		ProductTitle:       draft.Title,
		ProductDescription: job.ProductDescription,
		Tone:               job.Tone,
	})
	if err != nil {
		return fmt.Errorf("failed to generate copy: %w", err)
	}

	title := truncate(result.Title, models.MaxTitleLength)
	copyText := truncate(result.Copy, models.MaxCopyLength)

	if err := s.draftRepo.UpdateCopy(ctx, job.TenantID, job.DraftID, title, copyText); err != nil {
		return fmt.Errorf("failed to save generated copy: %w", err)
	}

	log.Info("generated ad copy saved")
	return nil
}

// truncate clips s to at most n characters
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Request/Response types

// GenerateCopyRequest carries optional generation hints
type GenerateCopyRequest struct {
	Tone               string `json:"tone,omitempty"`
	ProductDescription string `json:"product_description,omitempty"`
}

// EnqueueResult acknowledges a queued generation job
type EnqueueResult struct {
	DraftID string `json:"draft_id"`
	Queued  bool   `json:"queued"`
}
