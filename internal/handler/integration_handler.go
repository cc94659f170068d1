package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"adscribe/internal/middleware"
	"adscribe/internal/models"
	"adscribe/internal/service"
)

// IntegrationHandler handles HTTP requests for platform integrations
type IntegrationHandler struct {
	credentials *service.CredentialService
}

// NewIntegrationHandler creates a new integration handler
func NewIntegrationHandler(credentials *service.CredentialService) *IntegrationHandler {
	return &IntegrationHandler{credentials: credentials}
}

// platformFromRequest validates the {platform} path variable
func platformFromRequest(r *http.Request) (models.Platform, bool) {
	switch mux.Vars(r)["platform"] {
	case "facebook":
		return models.PlatformFacebook, true
	case "google":
		return models.PlatformGoogle, true
	case "tiktok":
		return models.PlatformTikTok, true
	default:
		return "", false
	}
}

// Connect handles POST /integrations/{platform} - stores credentials
func (h *IntegrationHandler) Connect(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())

	p, ok := platformFromRequest(r)
	if !ok {
		WriteValidationError(w, "invalid platform: must be 'facebook', 'google' or 'tiktok'")
		return
	}

	var req ConnectIntegrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	integration, err := h.credentials.Connect(r.Context(), tenant.ID, p, req.AccessToken, req.AdAccountID, req.PageID)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteCreated(w, integration)
}

// Status handles GET /integrations/{platform} - reports connection state
func (h *IntegrationHandler) Status(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())

	p, ok := platformFromRequest(r)
	if !ok {
		WriteValidationError(w, "invalid platform: must be 'facebook', 'google' or 'tiktok'")
		return
	}

	integration, err := h.credentials.Status(r.Context(), tenant.ID, p)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, integration)
}

// Disconnect handles DELETE /integrations/{platform}
func (h *IntegrationHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())

	p, ok := platformFromRequest(r)
	if !ok {
		WriteValidationError(w, "invalid platform: must be 'facebook', 'google' or 'tiktok'")
		return
	}

	if err := h.credentials.Disconnect(r.Context(), tenant.ID, p); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteNoContent(w)
}

// ConnectIntegrationRequest carries the credentials for a platform connection
type ConnectIntegrationRequest struct {
	AccessToken string  `json:"access_token"`
	AdAccountID string  `json:"ad_account_id"`
	PageID      *string `json:"page_id,omitempty"`
}
