package service

import (
	"errors"
	"fmt"

	"adscribe/internal/models"
	"adscribe/internal/platform"
)

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// AlreadySubmittedError is returned when submitting a draft that has
// already been published. Submitted drafts are immutable.
type AlreadySubmittedError struct {
	DraftID string
}

func (e *AlreadySubmittedError) Error() string {
	return fmt.Sprintf("draft %s has already been submitted", e.DraftID)
}

// SubmitInFlightError is returned when another submission currently
// holds the draft's in-flight claim.
type SubmitInFlightError struct {
	DraftID string
}

func (e *SubmitInFlightError) Error() string {
	return fmt.Sprintf("a submission for draft %s is already in progress", e.DraftID)
}

// NotConnectedError is returned when the tenant has no active
// integration for the platform.
type NotConnectedError struct {
	Platform models.Platform
}

func (e *NotConnectedError) Error() string {
	return fmt.Sprintf("no active %s integration for this store", e.Platform)
}

// MissingIdentifierError is returned when the integration exists but a
// mandatory account identifier is absent. Distinct from NotConnectedError
// so the user knows what to fix.
type MissingIdentifierError struct {
	Platform   models.Platform
	Identifier string
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("%s integration is missing required %s", e.Platform, e.Identifier)
}

// AssetFetchError means the draft's source image URL was unreachable;
// the ad platform was never called.
type AssetFetchError struct {
	URL string
	Err error
}

func (e *AssetFetchError) Error() string {
	return fmt.Sprintf("failed to fetch ad image from %s: %v", e.URL, e.Err)
}

func (e *AssetFetchError) Unwrap() error {
	return e.Err
}

// UploadError wraps a platform failure during the image upload step
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("image upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// CreativeError wraps a platform failure during creative creation.
// The platform's own code and type remain reachable via Unwrap.
type CreativeError struct {
	Err error
}

func (e *CreativeError) Error() string {
	return fmt.Sprintf("creative creation failed: %v", e.Err)
}

func (e *CreativeError) Unwrap() error {
	return e.Err
}

// AdCreationError wraps a platform failure creating the ad set or ad
type AdCreationError struct {
	Object string
	Err    error
}

func (e *AdCreationError) Error() string {
	return fmt.Sprintf("%s creation failed: %v", e.Object, e.Err)
}

func (e *AdCreationError) Unwrap() error {
	return e.Err
}

// PlatformCause digs the platform's typed error out of a wrapped chain,
// or nil when the failure did not come from the platform.
func PlatformCause(err error) *platform.Error {
	var pe *platform.Error
	if errors.As(err, &pe) {
		return pe
	}
	return nil
}
