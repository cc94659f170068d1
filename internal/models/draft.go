package models

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Maximum lengths enforced by the ad platforms we publish to.
const (
	MaxTitleLength = 125
	MaxCopyLength  = 125
)

// DraftStatus represents valid ad draft statuses
type DraftStatus string

const (
	DraftStatusDraft      DraftStatus = "draft"
	DraftStatusSubmitting DraftStatus = "submitting"
	DraftStatusSubmitted  DraftStatus = "submitted"
	DraftStatusFailed     DraftStatus = "failed"
)

// AdDraft represents a not-yet-published ad awaiting submission to a platform
type AdDraft struct {
	ID               string      `json:"id" db:"id"`
	TenantID         string      `json:"tenant_id" db:"tenant_id"`
	Title            string      `json:"ad_title" db:"ad_title"`
	Copy             string      `json:"ad_copy" db:"ad_copy"`
	ImageURLs        []string    `json:"image_urls" db:"image_urls"`
	SelectedImageURL *string     `json:"selected_image_url,omitempty" db:"selected_image_url"`
	CampaignID       string      `json:"campaign_id" db:"campaign_id"`
	ProductHandle    *string     `json:"product_handle,omitempty" db:"product_handle"`
	Status           DraftStatus `json:"status" db:"status"`

	// Result fields, populated together on successful submission.
	PlatformAdID       *string `json:"platform_ad_id,omitempty" db:"platform_ad_id"`
	PlatformAdSetID    *string `json:"platform_adset_id,omitempty" db:"platform_adset_id"`
	PlatformCreativeID *string `json:"platform_creative_id,omitempty" db:"platform_creative_id"`

	// Failure bookkeeping.
	ErrorMessage *string `json:"error_message,omitempty" db:"error_message"`
	ErrorCode    *string `json:"error_code,omitempty" db:"error_code"`
	RetryCount   int     `json:"retry_count" db:"retry_count"`

	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty" db:"submitted_at"`
}

// Validate checks if the draft fields are valid
func (d *AdDraft) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("ad title is required")
	}
	if utf8.RuneCountInString(d.Title) > MaxTitleLength {
		return fmt.Errorf("ad title exceeds %d characters", MaxTitleLength)
	}
	if utf8.RuneCountInString(d.Copy) > MaxCopyLength {
		return fmt.Errorf("ad copy exceeds %d characters", MaxCopyLength)
	}
	if len(d.ImageURLs) == 0 {
		return fmt.Errorf("at least one image URL is required")
	}
	if d.CampaignID == "" {
		return fmt.Errorf("campaign ID is required")
	}
	return nil
}

// CanSubmit checks if the draft is eligible for submission.
// A failed draft may be resubmitted; a submitted draft is immutable.
func (d *AdDraft) CanSubmit() bool {
	return d.Status == DraftStatusDraft || d.Status == DraftStatusFailed
}

// ImageURL returns the image to publish: the selected one, or the first.
func (d *AdDraft) ImageURL() string {
	if d.SelectedImageURL != nil && *d.SelectedImageURL != "" {
		return *d.SelectedImageURL
	}
	if len(d.ImageURLs) > 0 {
		return d.ImageURLs[0]
	}
	return ""
}
