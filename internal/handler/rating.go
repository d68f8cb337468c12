package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/filmhall/cinema-booking/internal/httperr"
	"github.com/filmhall/cinema-booking/internal/middleware"
	"github.com/filmhall/cinema-booking/internal/repository"
)

// RatingService is the service surface RatingHandler depends on.
type RatingService interface {
	GetUserRating(ctx context.Context, username string, movieID int64) (*repository.Rating, error)
	UpdateRating(ctx context.Context, username string, movieID int64, value int16) error
}

// RatingHandler serves the per-user rating endpoints under
// /api/movies/:id/rating. Both routes sit behind BasicAuth with role USER.
type RatingHandler struct {
	Ratings RatingService
	Movies  MovieService
}

// RatingUpdateRequest is the PUT body. The value must lie in [1,5].
type RatingUpdateRequest struct {
	Rating int16 `json:"rating" validate:"min=1,max=5"`
}

// Update handles PUT /api/movies/:id/rating: upserts the authenticated
// user's rating for an existing movie and answers 204.
func (h *RatingHandler) Update(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req RatingUpdateRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	exists, err := h.Movies.Exists(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !exists {
		return httperr.NotFound(id)
	}
	if err := h.Ratings.UpdateRating(c.Request().Context(), user.Name, id, req.Rating); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /api/movies/:id/rating and returns the bare numeric value
// of the authenticated user's rating.
func (h *RatingHandler) Get(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	exists, err := h.Movies.Exists(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !exists {
		return httperr.NotFound(id)
	}
	rating, err := h.Ratings.GetUserRating(c.Request().Context(), user.Name, id)
	if err != nil {
		if errors.Is(err, repository.ErrRatingNotFound) {
			return httperr.RatingNotFound(id)
		}
		return err
	}
	return c.JSON(http.StatusOK, rating.Value)
}
