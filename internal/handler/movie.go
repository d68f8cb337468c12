package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/filmhall/cinema-booking/internal/detail"
	"github.com/filmhall/cinema-booking/internal/httperr"
	"github.com/filmhall/cinema-booking/internal/queue"
	"github.com/filmhall/cinema-booking/internal/repository"
)

// MoviesPath is the canonical base path of the movie resource.
const MoviesPath = "/api/movies"

// MovieService is the service surface MovieHandler (and RatingHandler, for
// its existence checks) depends on.
type MovieService interface {
	ViewAll(ctx context.Context) ([]repository.MovieWithShows, error)
	ViewByID(ctx context.Context, id int64) (*repository.MovieWithShows, error)
	GetImdbID(ctx context.Context, id int64) (string, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, name string, durationMins int16, imdbID string) (*repository.Movie, error)
	Delete(ctx context.Context, id int64) error
}

// MovieHandler serves the /api/movies surface. Details is nil when the
// external provider is not configured; Events is nil when no broker is.
type MovieHandler struct {
	Movies  MovieService
	Details detail.Provider
	Events  *queue.Publisher
}

// MovieCreationRequest is the POST /api/movies body.
type MovieCreationRequest struct {
	Name         string `json:"name" validate:"required"`
	DurationMins int16  `json:"durationMins"`
	ImdbID       string `json:"imdbId" validate:"required,max=24"`
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// GetAll handles GET /api/movies.
func (h *MovieHandler) GetAll(c echo.Context) error {
	movies, err := h.Movies.ViewAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newMovieDtos(movies))
}

// Get handles GET /api/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	movie, err := h.Movies.ViewByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return httperr.NotFound(id)
		}
		return err
	}
	return c.JSON(http.StatusOK, newMovieDto(*movie))
}

// GetShows handles GET /api/movies/:id/shows, listing the movie's shows.
func (h *MovieHandler) GetShows(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	movie, err := h.Movies.ViewByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return httperr.NotFound(id)
		}
		return err
	}
	return c.JSON(http.StatusOK, newShowDtos(movie.Shows))
}

// Create handles POST /api/movies: 201 with a Location header pointing at
// the new resource and an empty body. A duplicate imdbId is not checked
// proactively; the unique constraint surfaces as a generic failure.
func (h *MovieHandler) Create(c echo.Context) error {
	var req MovieCreationRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	movie, err := h.Movies.Create(c.Request().Context(), req.Name, req.DurationMins, req.ImdbID)
	if err != nil {
		return err
	}
	h.publish(c, queue.CatalogEvent{
		Kind:    queue.KindMovieCreated,
		MovieID: movie.ID,
		Name:    movie.Name,
		ImdbID:  movie.ImdbID,
	})
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("%s/%d", MoviesPath, movie.ID))
	return c.NoContent(http.StatusCreated)
}

// Delete handles DELETE /api/movies/:id. Absence is detected from the
// repository's no-rows-affected signal, not a pre-check; shows cascade.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.Movies.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return httperr.NotFound(id)
		}
		return err
	}
	h.publish(c, queue.CatalogEvent{Kind: queue.KindMovieDeleted, MovieID: id})
	return c.NoContent(http.StatusNoContent)
}

// GetDetails handles GET /api/movies/:id/details by resolving the movie's
// natural key and streaming the external provider's response through
// unmodified. Only Content-Type and Content-Length survive from upstream.
func (h *MovieHandler) GetDetails(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if h.Details == nil {
		return httperr.DetailsDisabled()
	}
	imdbID, err := h.Movies.GetImdbID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return httperr.NotFound(id)
		}
		return err
	}
	details, err := h.Details.GetDetails(c.Request().Context(), imdbID)
	if err != nil {
		return err
	}
	defer details.Body.Close()

	if details.ContentLength != "" {
		c.Response().Header().Set(echo.HeaderContentLength, details.ContentLength)
	}
	return c.Stream(http.StatusOK, details.ContentType, details.Body)
}

// publish sends a catalog event best-effort; failures are logged by the
// publisher and never fail the request.
func (h *MovieHandler) publish(c echo.Context, event queue.CatalogEvent) {
	event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	_ = h.Events.Publish(c.Request().Context(), event)
}
