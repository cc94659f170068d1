package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"adscribe/internal/service"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error code and message. Platform fields are
// present when the root cause came from the ad platform, so the caller
// sees the platform's own code instead of a generic failure.
type ErrorDetail struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	PlatformCode int    `json:"platform_error_code,omitempty"`
	PlatformType string `json:"platform_error_type,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("failed to encode JSON response")
		return err
	}

	return nil
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// WriteCreated writes a 201 Created response with the given data
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteOK writes a 200 OK response with the given data
func WriteOK(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteNoContent writes a 204 No Content response
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteValidationError writes a 400 Bad Request response with VALIDATION_ERROR code
func WriteValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", message)
}

// WriteInternalError writes a 500 response without exposing internals
func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
}

// writePlatformError writes an upstream failure, preserving the
// platform's error code and type when they are known.
func writePlatformError(w http.ResponseWriter, status int, code string, err error) {
	detail := ErrorDetail{
		Code:    code,
		Message: err.Error(),
	}
	if pe := service.PlatformCause(err); pe != nil {
		detail.Message = pe.Message
		detail.PlatformCode = pe.Code
		detail.PlatformType = pe.Type
	}
	WriteJSON(w, status, ErrorResponse{Error: detail})
}

// HandleServiceError maps service layer errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *service.NotFoundError:
		WriteError(w, http.StatusNotFound, "RESOURCE_NOT_FOUND",
			fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID))
	case *service.ValidationError:
		WriteValidationError(w, e.Message)
	case *service.AlreadySubmittedError:
		WriteError(w, http.StatusConflict, "ALREADY_SUBMITTED", e.Error())
	case *service.SubmitInFlightError:
		WriteError(w, http.StatusConflict, "SUBMISSION_IN_PROGRESS", e.Error())
	case *service.NotConnectedError:
		WriteError(w, http.StatusBadRequest, "NOT_CONNECTED", e.Error())
	case *service.MissingIdentifierError:
		WriteError(w, http.StatusBadRequest, "MISSING_IDENTIFIER", e.Error())
	case *service.AssetFetchError:
		WriteError(w, http.StatusUnprocessableEntity, "ASSET_FETCH_FAILED", e.Error())
	case *service.UploadError:
		writePlatformError(w, http.StatusBadGateway, "PLATFORM_UPLOAD_ERROR", e)
	case *service.CreativeError:
		writePlatformError(w, http.StatusBadGateway, "PLATFORM_CREATIVE_ERROR", e)
	case *service.AdCreationError:
		writePlatformError(w, http.StatusBadGateway, "PLATFORM_AD_ERROR", e)
	default:
		logrus.WithError(err).Error("unhandled service error")
		WriteInternalError(w)
	}
}
