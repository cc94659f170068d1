package platform

import (
	"context"
	"fmt"
)

// Object statuses accepted by the ad platforms. Every object the
// publisher creates is paused; activation is a separate user action.
const (
	StatusPaused = "PAUSED"
	StatusActive = "ACTIVE"
)

// Error is a typed error raised by an ad platform call. It preserves
// the platform's own status, code and type so callers can act on them.
type Error struct {
	StatusCode int    `json:"status_code"`
	Code       int    `json:"code"`
	Subcode    int    `json:"subcode,omitempty"`
	Type       string `json:"type,omitempty"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("platform error %d (code %d): %s", e.StatusCode, e.Code, e.Message)
}

// FetchError indicates the source image URL could not be fetched.
// It is distinct from Error: the remote platform was never reached.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch asset %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NotSupportedError is returned by platform clients that are not yet implemented.
type NotSupportedError struct {
	Platform string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("platform %s is not supported yet", e.Platform)
}

// UploadImageRequest uploads the image at a source URL to the
// platform's asset library, returning an opaque asset handle.
type UploadImageRequest struct {
	AccessToken string
	AdAccountID string
	ImageURL    string
}

// UploadImageResponse carries the platform's handle for the uploaded asset
type UploadImageResponse struct {
	ImageHash string
}

// CreateCreativeRequest builds an ad creative from uploaded assets
type CreateCreativeRequest struct {
	AccessToken string
	AdAccountID string
	Name        string
	Title       string
	Body        string
	ImageHash   string
	Link        string
	PageID      string
}

// CreateCreativeResponse carries the new creative's platform ID
type CreateCreativeResponse struct {
	CreativeID string
}

// CreateAdSetRequest creates the grouping object between a campaign and
// its ads, carrying budget and targeting. Status must be set by the
// caller; the publisher always sends StatusPaused.
type CreateAdSetRequest struct {
	AccessToken      string
	AdAccountID      string
	CampaignID       string
	Name             string
	DailyBudget      int
	Countries        []string
	Status           string
	OptimizationGoal string
}

// CreateAdSetResponse carries the new ad set's platform ID
type CreateAdSetResponse struct {
	AdSetID string
}

// CreateAdRequest creates the ad itself, referencing a creative
type CreateAdRequest struct {
	AccessToken string
	AdAccountID string
	Name        string
	AdSetID     string
	CreativeID  string
	Status      string
}

// CreateAdResponse carries the new ad's platform ID
type CreateAdResponse struct {
	AdID string
}

// Client performs the remote calls to an ad platform. Each call may
// return *Error with the platform's status and error code preserved.
type Client interface {
	UploadImage(ctx context.Context, req UploadImageRequest) (*UploadImageResponse, error)
	CreateCreative(ctx context.Context, req CreateCreativeRequest) (*CreateCreativeResponse, error)
	CreateAdSet(ctx context.Context, req CreateAdSetRequest) (*CreateAdSetResponse, error)
	CreateAd(ctx context.Context, req CreateAdRequest) (*CreateAdResponse, error)
}
