package facebook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"adscribe/internal/platform"
)

const (
	// DefaultBaseURL is the Facebook Graph API endpoint
	DefaultBaseURL = "https://graph.facebook.com"

	// DefaultAPIVersion is the Marketing API version this client targets
	DefaultAPIVersion = "v19.0"

	// maxImageBytes caps how much of a source image we will download (8 MB)
	maxImageBytes = 8 << 20
)

// Config holds Facebook client configuration
type Config struct {
	BaseURL    string
	APIVersion string
	HTTPClient *http.Client
}

// Client implements platform.Client against the Facebook Marketing API.
// Images are uploaded to the ad account's image library first (the
// hash-upload flow); creatives then reference the returned hash.
type Client struct {
	baseURL    string
	apiVersion string
	client     *http.Client
}

// NewClient creates a new Facebook Marketing API client
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiVersion: apiVersion,
		client:     client,
	}
}

// endpoint builds a Graph API URL for a path under the ad account
func (c *Client) endpoint(path string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, c.apiVersion, path)
}

// UploadImage downloads the image at req.ImageURL and uploads it to the
// ad account's image library, returning the asset hash.
func (c *Client) UploadImage(ctx context.Context, req platform.UploadImageRequest) (*platform.UploadImageResponse, error) {
	// Fetch the source image bytes
	data, err := c.fetchImage(ctx, req.ImageURL)
	if err != nil {
		return nil, &platform.FetchError{URL: req.ImageURL, Err: err}
	}

	// Build multipart body with the image bytes
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("source", "ad_image.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write upload form: %w", err)
	}
	if err := writer.WriteField("access_token", req.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to write upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	// POST to /act_{ad_account_id}/adimages
	uploadURL := c.endpoint(fmt.Sprintf("act_%s/adimages", req.AdAccountID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	var uploadResp adImagesResponse
	if err := c.do(httpReq, &uploadResp); err != nil {
		return nil, err
	}

	// The response maps filename -> image metadata; take the first hash
	for _, img := range uploadResp.Images {
		if img.Hash != "" {
			return &platform.UploadImageResponse{ImageHash: img.Hash}, nil
		}
	}

	return nil, fmt.Errorf("adimages response contained no image hash")
}

// CreateCreative creates an ad creative referencing an uploaded image hash
func (c *Client) CreateCreative(ctx context.Context, req platform.CreateCreativeRequest) (*platform.CreateCreativeResponse, error) {
	// object_story_spec builds an unpublished page post for the ad
	spec := objectStorySpec{
		PageID: req.PageID,
		LinkData: linkData{
			Name:      req.Title,
			Message:   req.Body,
			Link:      req.Link,
			ImageHash: req.ImageHash,
		},
	}
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal object_story_spec: %w", err)
	}

	form := url.Values{}
	form.Set("name", req.Name)
	form.Set("object_story_spec", string(specJSON))
	form.Set("access_token", req.AccessToken)

	var created idResponse
	if err := c.postForm(ctx, fmt.Sprintf("act_%s/adcreatives", req.AdAccountID), form, &created); err != nil {
		return nil, err
	}

	return &platform.CreateCreativeResponse{CreativeID: created.ID}, nil
}

// CreateAdSet creates an ad set under the draft's campaign
func (c *Client) CreateAdSet(ctx context.Context, req platform.CreateAdSetRequest) (*platform.CreateAdSetResponse, error) {
	targeting := targetingSpec{
		GeoLocations: geoLocations{Countries: req.Countries},
	}
	targetingJSON, err := json.Marshal(targeting)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal targeting: %w", err)
	}

	optimizationGoal := req.OptimizationGoal
	if optimizationGoal == "" {
		optimizationGoal = "LINK_CLICKS"
	}

	form := url.Values{}
	form.Set("name", req.Name)
	form.Set("campaign_id", req.CampaignID)
	form.Set("status", req.Status)
	form.Set("daily_budget", strconv.Itoa(req.DailyBudget))
	form.Set("billing_event", "IMPRESSIONS")
	form.Set("optimization_goal", optimizationGoal)
	form.Set("bid_strategy", "LOWEST_COST_WITHOUT_CAP")
	form.Set("targeting", string(targetingJSON))
	form.Set("access_token", req.AccessToken)

	var created idResponse
	if err := c.postForm(ctx, fmt.Sprintf("act_%s/adsets", req.AdAccountID), form, &created); err != nil {
		return nil, err
	}

	return &platform.CreateAdSetResponse{AdSetID: created.ID}, nil
}

// CreateAd creates the ad itself, referencing the creative
func (c *Client) CreateAd(ctx context.Context, req platform.CreateAdRequest) (*platform.CreateAdResponse, error) {
	creative, err := json.Marshal(map[string]string{"creative_id": req.CreativeID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal creative reference: %w", err)
	}

	form := url.Values{}
	form.Set("name", req.Name)
	form.Set("adset_id", req.AdSetID)
	form.Set("creative", string(creative))
	form.Set("status", req.Status)
	form.Set("access_token", req.AccessToken)

	var created idResponse
	if err := c.postForm(ctx, fmt.Sprintf("act_%s/ads", req.AdAccountID), form, &created); err != nil {
		return nil, err
	}

	return &platform.CreateAdResponse{AdID: created.ID}, nil
}

// fetchImage downloads the source image bytes from its URL
func (c *Client) fetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	return data, nil
}

// postForm sends a form-encoded POST to a Graph endpoint and decodes the response
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(httpReq, out)
}

// do executes a request and decodes either the payload or a Graph error
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("graph api request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read graph api response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseGraphError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode graph api response: %w", err)
	}

	return nil
}

// parseGraphError converts a Graph error body into a platform.Error,
// preserving the platform's code, subcode and type.
func parseGraphError(statusCode int, body []byte) error {
	var envelope graphErrorResponse
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error.Message == "" {
		return &platform.Error{
			StatusCode: statusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	return &platform.Error{
		StatusCode: statusCode,
		Code:       envelope.Error.Code,
		Subcode:    envelope.Error.Subcode,
		Type:       envelope.Error.Type,
		Message:    envelope.Error.Message,
	}
}
