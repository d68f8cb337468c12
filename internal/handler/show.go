package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/filmhall/cinema-booking/internal/httperr"
	"github.com/filmhall/cinema-booking/internal/queue"
	"github.com/filmhall/cinema-booking/internal/repository"
)

// ShowsPath is the canonical base path of the show resource.
const ShowsPath = "/api/shows"

// ShowService is the service surface ShowHandler depends on.
type ShowService interface {
	ViewAll(ctx context.Context) ([]repository.ShowView, error)
	ViewByID(ctx context.Context, id int64) (*repository.ShowView, error)
	GetMovieID(ctx context.Context, id int64) (int64, error)
	Create(ctx context.Context, movieID int64, date time.Time, priceCents int, room string) (*repository.Show, error)
	Delete(ctx context.Context, id int64) error
}

// ShowHandler serves the /api/shows surface.
type ShowHandler struct {
	Shows  ShowService
	Events *queue.Publisher
}

// ShowCreationRequest is the POST /api/shows body. Date is RFC 3339 with a
// timezone offset.
type ShowCreationRequest struct {
	MovieID    int64     `json:"movieId" validate:"required"`
	Date       time.Time `json:"date" validate:"required"`
	PriceCents int       `json:"priceCents"`
	Room       string    `json:"room" validate:"required"`
}

// GetAll handles GET /api/shows.
func (h *ShowHandler) GetAll(c echo.Context) error {
	shows, err := h.Shows.ViewAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newShowDtos(shows))
}

// Get handles GET /api/shows/:id.
func (h *ShowHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	show, err := h.Shows.ViewByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return httperr.NotFound(id)
		}
		return err
	}
	return c.JSON(http.StatusOK, newShowDto(*show))
}

// RedirectToMovie handles GET and DELETE /api/shows/:id/movie. It is a
// deliberate alias, not a proxy: the response is always a 308 Permanent
// Redirect to the owning movie's canonical URI, whatever the method, and
// the client is expected to follow it.
func (h *ShowHandler) RedirectToMovie(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	movieID, err := h.Shows.GetMovieID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return httperr.NotFound(id)
		}
		return err
	}
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("%s/%d", MoviesPath, movieID))
	return c.NoContent(http.StatusPermanentRedirect)
}

// Create handles POST /api/shows: 201 with a Location header and an empty
// body. The movie reference is not verified up front; a bad movieId fails
// the foreign key at insert time.
func (h *ShowHandler) Create(c echo.Context) error {
	var req ShowCreationRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	show, err := h.Shows.Create(c.Request().Context(), req.MovieID, req.Date, req.PriceCents, req.Room)
	if err != nil {
		return err
	}
	h.publish(c, queue.CatalogEvent{
		Kind:    queue.KindShowCreated,
		MovieID: show.MovieID,
		ShowID:  show.ID,
		Room:    show.Room,
	})
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("%s/%d", ShowsPath, show.ID))
	return c.NoContent(http.StatusCreated)
}

// Delete handles DELETE /api/shows/:id.
func (h *ShowHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.Shows.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return httperr.NotFound(id)
		}
		return err
	}
	h.publish(c, queue.CatalogEvent{Kind: queue.KindShowDeleted, ShowID: id})
	return c.NoContent(http.StatusNoContent)
}

func (h *ShowHandler) publish(c echo.Context, event queue.CatalogEvent) {
	event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	_ = h.Events.Publish(c.Request().Context(), event)
}
