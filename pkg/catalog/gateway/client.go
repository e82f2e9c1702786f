// Package gateway exposes the composition service: it fans out to the four
// backends, joins their answers per recommendation and bounds the whole
// composition with a deadline.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Abraxas-365/ensamble/pkg/catalog"
	"github.com/Abraxas-365/ensamble/pkg/config"
	"github.com/Abraxas-365/ensamble/pkg/errx"
)

// Client is the gateway's view of the backends.
type Client interface {
	Recommendations(ctx context.Context, userID string) ([]catalog.Recommendation, error)
	Metadata(ctx context.Context, entityID string) (catalog.Metadata, error)
	Rating(ctx context.Context, entityID string) (catalog.Rating, error)
	User(ctx context.Context, userID string) (catalog.User, error)
}

// HTTPClient talks JSON over HTTP to the backend base URLs.
type HTTPClient struct {
	recommendationURL string
	metadataURL       string
	ratingURL         string
	userURL           string
	http              *http.Client
}

// NewHTTPClient builds a client from the gateway configuration. Per-request
// deadlines come from the caller's context; the composition deadline is
// enforced one level up by the composer.
func NewHTTPClient(cfg config.GatewayConfig) *HTTPClient {
	return &HTTPClient{
		recommendationURL: cfg.RecommendationURL,
		metadataURL:       cfg.MetadataURL,
		ratingURL:         cfg.RatingURL,
		userURL:           cfg.UserURL,
		http:              &http.Client{Timeout: 30 * time.Second},
	}
}

// Recommendations implements Client.
func (c *HTTPClient) Recommendations(ctx context.Context, userID string) ([]catalog.Recommendation, error) {
	return getJSON[[]catalog.Recommendation](ctx, c.http,
		fmt.Sprintf("%s/recommendations?userId=%s", c.recommendationURL, url.QueryEscape(userID)))
}

// Metadata implements Client.
func (c *HTTPClient) Metadata(ctx context.Context, entityID string) (catalog.Metadata, error) {
	return getJSON[catalog.Metadata](ctx, c.http,
		fmt.Sprintf("%s/metadata?entityId=%s", c.metadataURL, url.QueryEscape(entityID)))
}

// Rating implements Client.
func (c *HTTPClient) Rating(ctx context.Context, entityID string) (catalog.Rating, error) {
	return getJSON[catalog.Rating](ctx, c.http,
		fmt.Sprintf("%s/rating?entityId=%s", c.ratingURL, url.QueryEscape(entityID)))
}

// User implements Client.
func (c *HTTPClient) User(ctx context.Context, userID string) (catalog.User, error) {
	return getJSON[catalog.User](ctx, c.http,
		fmt.Sprintf("%s/user?userId=%s", c.userURL, url.QueryEscape(userID)))
}

func getJSON[T any](ctx context.Context, client *http.Client, rawURL string) (T, error) {
	var zero T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return zero, errx.Wrap(err, "failed to build backend request", errx.TypeInternal)
	}

	resp, err := client.Do(req)
	if err != nil {
		return zero, errx.Wrap(err, "backend call failed", errx.TypeExternal).
			WithDetail("url", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return zero, errx.External(fmt.Sprintf("backend returned status %d", resp.StatusCode)).
			WithDetail("url", rawURL).
			WithDetail("body", string(body))
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return zero, errx.Wrap(err, "failed to decode backend response", errx.TypeExternal).
			WithDetail("url", rawURL)
	}
	return out, nil
}
