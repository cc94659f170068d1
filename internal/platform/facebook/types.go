package facebook

// Graph API wire types. Kept internal to the adapter; the rest of the
// application only sees the typed requests in the platform package.

// idResponse is the minimal "created object" response from Graph
type idResponse struct {
	ID string `json:"id"`
}

// adImagesResponse maps uploaded filenames to image metadata
type adImagesResponse struct {
	Images map[string]adImage `json:"images"`
}

type adImage struct {
	Hash string `json:"hash"`
	URL  string `json:"url,omitempty"`
}

// objectStorySpec describes the unpublished page post backing a creative
type objectStorySpec struct {
	PageID   string   `json:"page_id"`
	LinkData linkData `json:"link_data"`
}

type linkData struct {
	Name      string `json:"name"`
	Message   string `json:"message"`
	Link      string `json:"link"`
	ImageHash string `json:"image_hash"`
}

// targetingSpec is the conservative default targeting for new ad sets
type targetingSpec struct {
	GeoLocations geoLocations `json:"geo_locations"`
}

type geoLocations struct {
	Countries []string `json:"countries"`
}

// graphErrorResponse is Facebook's standard error envelope
type graphErrorResponse struct {
	Error graphError `json:"error"`
}

type graphError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
	Subcode int    `json:"error_subcode"`
	TraceID string `json:"fbtrace_id"`
}
