package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/homepro/siteforge/service/vo"
)

// BusinessDirectory supplies the read-only business context rendered into
// sections. It is never written by this module.
type BusinessDirectory interface {
	// GetBusinessBySlugAndTemplate returns nil when no business matches.
	GetBusinessBySlugAndTemplate(ctx context.Context, slug, templateSlug string) (*vo.Business, error)
	GetServicesForBusiness(ctx context.Context, businessID string) ([]vo.Offering, error)
}

// ImageUploader stores an image and returns its public URL. Validation of
// size and content type happens at this boundary, before any bytes leave the
// process.
type ImageUploader interface {
	Upload(ctx context.Context, businessID, folder, filename, contentType string, data []byte) (string, error)
}

const MaxImageUploadBytes = 10 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidateImageUpload enforces the upload contract: common raster formats
// only, size-capped.
func ValidateImageUpload(contentType string, size int64) error {
	if !allowedImageTypes[contentType] {
		return fmt.Errorf("unsupported image type %q", contentType)
	}
	if size <= 0 {
		return fmt.Errorf("empty upload")
	}
	if size > MaxImageUploadBytes {
		return fmt.Errorf("upload of %d bytes exceeds limit of %d", size, MaxImageUploadBytes)
	}
	return nil
}

// HTTPDirectory is a BusinessDirectory backed by a plain JSON HTTP API.
type HTTPDirectory struct {
	httpClient *http.Client
	baseURL    string
}

func NewHTTPDirectory(httpClient *http.Client, baseURL string) *HTTPDirectory {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPDirectory{httpClient: httpClient, baseURL: baseURL}
}

func (d *HTTPDirectory) GetBusinessBySlugAndTemplate(ctx context.Context, slug, templateSlug string) (*vo.Business, error) {
	endpoint := fmt.Sprintf("%s/businesses/%s?template=%s",
		d.baseURL, url.PathEscape(slug), url.QueryEscape(templateSlug))
	var business vo.Business
	found, err := d.getJSON(ctx, endpoint, &business)
	if err != nil || !found {
		return nil, err
	}
	return &business, nil
}

func (d *HTTPDirectory) GetServicesForBusiness(ctx context.Context, businessID string) ([]vo.Offering, error) {
	endpoint := fmt.Sprintf("%s/businesses/%s/services", d.baseURL, url.PathEscape(businessID))
	var offerings []vo.Offering
	if _, err := d.getJSON(ctx, endpoint, &offerings); err != nil {
		return nil, err
	}
	return offerings, nil
}

func (d *HTTPDirectory) getJSON(ctx context.Context, endpoint string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("directory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("directory request failed with status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("failed to decode directory response: %w", err)
	}
	return true, nil
}
