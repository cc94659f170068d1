package models

import (
	"fmt"
	"time"
)

// Platform represents a supported ad platform
type Platform string

const (
	PlatformFacebook Platform = "facebook"
	PlatformGoogle   Platform = "google"
	PlatformTikTok   Platform = "tiktok"
)

// Integration holds a tenant's connection to an ad platform.
// The access token is stored encrypted and never leaves the
// credential service in ciphertext form.
type Integration struct {
	ID             string    `json:"id" db:"id"`
	TenantID       string    `json:"tenant_id" db:"tenant_id"`
	Platform       Platform  `json:"platform" db:"platform"`
	AccessTokenEnc string    `json:"-" db:"access_token_enc"`
	AdAccountID    string    `json:"ad_account_id" db:"ad_account_id"`
	PageID         *string   `json:"page_id,omitempty" db:"page_id"`
	Active         bool      `json:"active" db:"active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks if the integration fields are valid
func (i *Integration) Validate() error {
	if i.TenantID == "" {
		return fmt.Errorf("tenant ID is required")
	}
	if i.Platform != PlatformFacebook && i.Platform != PlatformGoogle && i.Platform != PlatformTikTok {
		return fmt.Errorf("invalid platform: must be 'facebook', 'google' or 'tiktok'")
	}
	if i.AccessTokenEnc == "" {
		return fmt.Errorf("access token is required")
	}
	if i.AdAccountID == "" {
		return fmt.Errorf("ad account ID is required")
	}
	return nil
}
