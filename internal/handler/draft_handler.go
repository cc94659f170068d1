package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"adscribe/internal/middleware"
	"adscribe/internal/models"
	"adscribe/internal/repository"
	"adscribe/internal/service"
)

// DraftHandler handles HTTP requests for ad draft operations
type DraftHandler struct {
	draftService *service.DraftService
	copyService  *service.CopyService
	publisher    *service.PublisherService
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(draftService *service.DraftService, copyService *service.CopyService, publisher *service.PublisherService) *DraftHandler {
	return &DraftHandler{
		draftService: draftService,
		copyService:  copyService,
		publisher:    publisher,
	}
}

// Create handles POST /drafts - creates a new ad draft
func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())

	var req service.CreateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	draft, err := h.draftService.CreateDraft(r.Context(), tenant.ID, &req)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteCreated(w, draft)
}

// List handles GET /drafts - lists the tenant's drafts
func (h *DraftHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	query := r.URL.Query()

	page := 1
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	perPage := 20
	if perPageStr := query.Get("per_page"); perPageStr != "" {
		if pp, err := strconv.Atoi(perPageStr); err == nil && pp > 0 {
			perPage = pp
		}
	}
	if perPage > 100 {
		perPage = 100
	}

	filters := repository.DraftFilters{
		Page:     page,
		PageSize: perPage,
	}

	if statusStr := query.Get("status"); statusStr != "" {
		validStatuses := map[string]models.DraftStatus{
			"draft":      models.DraftStatusDraft,
			"submitting": models.DraftStatusSubmitting,
			"submitted":  models.DraftStatusSubmitted,
			"failed":     models.DraftStatusFailed,
		}
		if status, ok := validStatuses[statusStr]; ok {
			filters.Status = &status
		} else {
			WriteValidationError(w, "invalid status: must be one of draft, submitting, submitted, failed")
			return
		}
	}

	drafts, pagination, err := h.draftService.ListDrafts(r.Context(), tenant.ID, filters)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, ListDraftsResponse{
		Drafts:     drafts,
		Pagination: pagination,
	})
}

// GetByID handles GET /drafts/{id} - gets a draft by ID
func (h *DraftHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	id := mux.Vars(r)["id"]

	draft, err := h.draftService.GetDraft(r.Context(), tenant.ID, id)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, draft)
}

// Delete handles DELETE /drafts/{id}
func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.draftService.DeleteDraft(r.Context(), tenant.ID, id); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteNoContent(w)
}

// Generate handles POST /drafts/{id}/generate - queues copy generation
func (h *DraftHandler) Generate(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	id := mux.Vars(r)["id"]

	// Body is optional; hints default to empty
	var req service.GenerateCopyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	result, err := h.copyService.EnqueueGeneration(r.Context(), tenant.ID, id, &req)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusAccepted, result)
}

// Submit handles POST /drafts/{id}/submit - publishes the draft
func (h *DraftHandler) Submit(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	id := mux.Vars(r)["id"]

	result, err := h.publisher.Submit(r.Context(), tenant.ID, id)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, result)
}

// Request/Response types

// ListDraftsResponse represents the response for listing drafts
type ListDraftsResponse struct {
	Drafts     []*models.AdDraft       `json:"drafts"`
	Pagination *service.PaginationInfo `json:"pagination"`
}
