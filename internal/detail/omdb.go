package detail

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// OmdbProvider fetches details from an OMDb-compatible API. The HTTP client
// carries no timeout; a request is bounded only by its context.
type OmdbProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewOmdbProvider constructs a provider for the given API base URL and key.
func NewOmdbProvider(baseURL, apiKey string) *OmdbProvider {
	return &OmdbProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{},
	}
}

// GetDetails issues the upstream GET and hands the body back unread, so the
// handler can stream it to the client without buffering.
func (p *OmdbProvider) GetDetails(ctx context.Context, imdbID string) (*Details, error) {
	endpoint := fmt.Sprintf("%s/?apikey=%s&i=%s", p.baseURL, url.QueryEscape(p.apiKey), url.QueryEscape(imdbID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		resp.Body.Close()
		return nil, fmt.Errorf("omdb: upstream returned %s", resp.Status)
	}
	return &Details{
		Body:          resp.Body,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.Header.Get("Content-Length"),
	}, nil
}
