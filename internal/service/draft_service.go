package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"adscribe/internal/models"
	"adscribe/internal/repository"
)

// DraftService handles ad draft business logic
type DraftService struct {
	draftRepo repository.DraftRepository
}

// NewDraftService creates a new draft service
func NewDraftService(draftRepo repository.DraftRepository) *DraftService {
	return &DraftService{draftRepo: draftRepo}
}

// CreateDraft creates a new ad draft for the tenant
func (s *DraftService) CreateDraft(ctx context.Context, tenantID string, req *CreateDraftRequest) (*models.AdDraft, error) {
	draft := &models.AdDraft{
		TenantID:         tenantID,
		Title:            req.Title,
		Copy:             req.Copy,
		ImageURLs:        req.ImageURLs,
		SelectedImageURL: req.SelectedImageURL,
		CampaignID:       req.CampaignID,
		ProductHandle:    req.ProductHandle,
		Status:           models.DraftStatusDraft,
	}

	if err := draft.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if err := s.draftRepo.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	return draft, nil
}

// GetDraft retrieves a draft by ID, scoped to the tenant
func (s *DraftService) GetDraft(ctx context.Context, tenantID, id string) (*models.AdDraft, error) {
	draft, err := s.draftRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "draft", ID: id}
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

// ListDrafts lists the tenant's drafts with filters
func (s *DraftService) ListDrafts(ctx context.Context, tenantID string, filters repository.DraftFilters) ([]*models.AdDraft, *PaginationInfo, error) {
	drafts, total, err := s.draftRepo.List(ctx, tenantID, filters)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	pagination := &PaginationInfo{
		Page:       filters.Page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: (total + pageSize - 1) / pageSize,
	}

	return drafts, pagination, nil
}

// DeleteDraft removes a draft. A draft with a submission in flight
// cannot be deleted out from under the pipeline.
func (s *DraftService) DeleteDraft(ctx context.Context, tenantID, id string) error {
	draft, err := s.GetDraft(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if draft.Status == models.DraftStatusSubmitting {
		return &SubmitInFlightError{DraftID: id}
	}

	if err := s.draftRepo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Resource: "draft", ID: id}
		}
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	return nil
}

// Request/Response types

// CreateDraftRequest represents a request to create an ad draft
type CreateDraftRequest struct {
	Title            string   `json:"ad_title"`
	Copy             string   `json:"ad_copy"`
	ImageURLs        []string `json:"image_urls"`
	SelectedImageURL *string  `json:"selected_image_url,omitempty"`
	CampaignID       string   `json:"campaign_id"`
	ProductHandle    *string  `json:"product_handle,omitempty"`
}

// PaginationInfo represents pagination metadata
type PaginationInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}
