// Package detail integrates the optional external movie-metadata API. When
// the provider is not configured it is absent from the system entirely; the
// details endpoint then answers "feature disabled" without attempting a call.
package detail

import (
	"context"
	"io"
)

// Details is an in-flight upstream response. Body streams the upstream bytes
// as they arrive; the caller must close it. Only the Content-Type and
// Content-Length of the upstream response are exposed, every other upstream
// header is dropped on purpose.
type Details struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength string
}

// Provider fetches movie details by natural key (imdbId).
type Provider interface {
	GetDetails(ctx context.Context, imdbID string) (*Details, error)
}
