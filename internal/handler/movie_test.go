package handler_test

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmhall/cinema-booking/internal/detail"
	"github.com/filmhall/cinema-booking/internal/httperr"
	"github.com/filmhall/cinema-booking/internal/repository"
)

func TestGetAllMovies(t *testing.T) {
	f := newFixture(t, nil)
	date := time.Date(2021, 11, 5, 17, 0, 0, 0, time.UTC)
	f.movies.On("ViewAll").Return([]repository.MovieWithShows{
		{
			ID: 1, Name: "The Fast and the Furious", DurationMins: 106, ImdbID: "tt0232500",
			Shows: []repository.ShowView{{ID: 1, MovieID: 1, Date: date, PriceCents: 900, Room: "Room 1"}},
		},
		{ID: 2, Name: "Interstellar", DurationMins: 169, ImdbID: "tt0816692", Shows: []repository.ShowView{}},
	}, nil)

	rec := f.do(http.MethodGet, "/api/movies", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
        {"id":1,"name":"The Fast and the Furious","durationMins":106,"imdbId":"tt0232500",
         "shows":[{"id":1,"movieId":1,"date":"2021-11-05T17:00:00Z","priceCents":900,"room":"Room 1"}]},
        {"id":2,"name":"Interstellar","durationMins":169,"imdbId":"tt0816692","shows":[]}
    ]`, rec.Body.String())
}

func TestGetAllMoviesEmpty(t *testing.T) {
	f := newFixture(t, nil)
	f.movies.On("ViewAll").Return([]repository.MovieWithShows{}, nil)

	rec := f.do(http.MethodGet, "/api/movies", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetMovieNotFound(t *testing.T) {
	f := newFixture(t, nil)
	f.movies.On("ViewByID", int64(123)).Return(nil, repository.ErrMovieNotFound)

	rec := f.do(http.MethodGet, "/api/movies/123", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeError(t, rec)
	assert.Equal(t, httperr.CodeNotFound, env.Error.Code)
	assert.Contains(t, env.Error.Message, "id=123")
}

func TestGetMovieShows(t *testing.T) {
	f := newFixture(t, nil)
	date := time.Date(2021, 11, 5, 17, 0, 0, 0, time.UTC)
	f.movies.On("ViewByID", int64(1)).Return(&repository.MovieWithShows{
		ID: 1, Name: "The Fast and the Furious", DurationMins: 106, ImdbID: "tt0232500",
		Shows: []repository.ShowView{{ID: 7, MovieID: 1, Date: date, PriceCents: 1200, Room: "Room 2"}},
	}, nil)

	rec := f.do(http.MethodGet, "/api/movies/1/shows", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":7,"movieId":1,"date":"2021-11-05T17:00:00Z","priceCents":1200,"room":"Room 2"}]`,
		rec.Body.String())
}

func TestCreateMovie(t *testing.T) {
	f := newFixture(t, nil)
	f.movies.On("Create", "Interstellar", int16(169), "tt0816692").
		Return(&repository.Movie{ID: 42, Name: "Interstellar", DurationMins: 169, ImdbID: "tt0816692"}, nil)

	rec := f.do(http.MethodPost, "/api/movies",
		`{"name":"Interstellar","durationMins":169,"imdbId":"tt0816692"}`,
		asUser("admin", "admin"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/movies/42", rec.Header().Get("Location"))
	assert.Empty(t, rec.Body.String())
	f.movies.AssertExpectations(t)
}

func TestCreateMovieImdbIDTooLong(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodPost, "/api/movies",
		`{"name":"Interstellar","durationMins":169,"imdbId":"`+strings.Repeat("t", 25)+`"}`,
		asUser("admin", "admin"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.movies.AssertNotCalled(t, "Create")
}

func TestCreateMovieRequiresAdmin(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodPost, "/api/movies",
		`{"name":"Interstellar","durationMins":169,"imdbId":"tt0816692"}`,
		asUser("user1", "user1"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	f.movies.AssertNotCalled(t, "Create")
}

func TestCreateMovieUnauthenticated(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodPost, "/api/movies",
		`{"name":"Interstellar","durationMins":169,"imdbId":"tt0816692"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
}

func TestDeleteMovie(t *testing.T) {
	f := newFixture(t, nil)
	f.movies.On("Delete", int64(7)).Return(nil)

	rec := f.do(http.MethodDelete, "/api/movies/7", "", asUser("admin", "admin"))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteMovieNotFound(t *testing.T) {
	f := newFixture(t, nil)
	f.movies.On("Delete", int64(7)).Return(repository.ErrMovieNotFound)

	rec := f.do(http.MethodDelete, "/api/movies/7", "", asUser("admin", "admin"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, httperr.CodeNotFound, decodeError(t, rec).Error.Code)
}

func TestDeleteMovieRequiresAdmin(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodDelete, "/api/movies/7", "", asUser("user2", "user2"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	f.movies.AssertNotCalled(t, "Delete")
}

func TestGetDetailsDisabled(t *testing.T) {
	f := newFixture(t, nil) // no provider configured

	rec := f.do(http.MethodGet, "/api/movies/1/details", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, httperr.CodeFeatureDisabled, decodeError(t, rec).Error.Code)
}

func TestGetDetailsInvalidID(t *testing.T) {
	f := newFixture(t, nil) // no provider configured

	rec := f.do(http.MethodGet, "/api/movies/abc/details", "")

	// a malformed id is rejected before the provider availability check
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDetailsMovieNotFound(t *testing.T) {
	provider := &stubProvider{}
	f := newFixture(t, provider)
	f.movies.On("GetImdbID", int64(9)).Return("", repository.ErrMovieNotFound)

	rec := f.do(http.MethodGet, "/api/movies/9/details", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, httperr.CodeNotFound, decodeError(t, rec).Error.Code)
	assert.Empty(t, provider.gotImdbID)
}

func TestGetDetailsStreamsUpstream(t *testing.T) {
	const payload = `{"Title":"The Fast and the Furious"}`
	provider := &stubProvider{details: &detail.Details{
		Body:          io.NopCloser(strings.NewReader(payload)),
		ContentType:   "application/json",
		ContentLength: "36",
	}}
	f := newFixture(t, provider)
	f.movies.On("GetImdbID", int64(1)).Return("tt0232500", nil)

	rec := f.do(http.MethodGet, "/api/movies/1/details", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tt0232500", provider.gotImdbID)
	assert.Equal(t, payload, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "36", rec.Header().Get("Content-Length"))
}

func TestGetDetailsUpstreamFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("upstream exploded")}
	f := newFixture(t, provider)
	f.movies.On("GetImdbID", int64(1)).Return("tt0232500", nil)

	rec := f.do(http.MethodGet, "/api/movies/1/details", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeError(t, rec)
	assert.Zero(t, env.Error.Code)
	assert.NotContains(t, env.Error.Message, "exploded") // no detail leakage
}
