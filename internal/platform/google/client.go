package google

import (
	"context"

	"adscribe/internal/platform"
)

// Client is a placeholder for the Google Ads integration. Every call
// returns NotSupportedError until the integration ships.
type Client struct{}

// NewClient creates the Google Ads client stub
func NewClient() *Client {
	return &Client{}
}

func (c *Client) UploadImage(ctx context.Context, req platform.UploadImageRequest) (*platform.UploadImageResponse, error) {
	return nil, &platform.NotSupportedError{Platform: "google"}
}

func (c *Client) CreateCreative(ctx context.Context, req platform.CreateCreativeRequest) (*platform.CreateCreativeResponse, error) {
	return nil, &platform.NotSupportedError{Platform: "google"}
}

func (c *Client) CreateAdSet(ctx context.Context, req platform.CreateAdSetRequest) (*platform.CreateAdSetResponse, error) {
	return nil, &platform.NotSupportedError{Platform: "google"}
}

func (c *Client) CreateAd(ctx context.Context, req platform.CreateAdRequest) (*platform.CreateAdResponse, error) {
	return nil, &platform.NotSupportedError{Platform: "google"}
}
