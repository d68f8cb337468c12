package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/filmhall/cinema-booking/internal/auth"
	"github.com/filmhall/cinema-booking/internal/detail"
	"github.com/filmhall/cinema-booking/internal/handler"
	"github.com/filmhall/cinema-booking/internal/httperr"
	"github.com/filmhall/cinema-booking/internal/repository"
	"github.com/filmhall/cinema-booking/internal/router"
)

// mockMovieService is a testify double for handler.MovieService.
type mockMovieService struct {
	mock.Mock
}

func (m *mockMovieService) ViewAll(ctx context.Context) ([]repository.MovieWithShows, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.MovieWithShows), args.Error(1)
}

func (m *mockMovieService) ViewByID(ctx context.Context, id int64) (*repository.MovieWithShows, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.MovieWithShows), args.Error(1)
}

func (m *mockMovieService) GetImdbID(ctx context.Context, id int64) (string, error) {
	args := m.Called(id)
	return args.String(0), args.Error(1)
}

func (m *mockMovieService) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *mockMovieService) Create(ctx context.Context, name string, durationMins int16, imdbID string) (*repository.Movie, error) {
	args := m.Called(name, durationMins, imdbID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Movie), args.Error(1)
}

func (m *mockMovieService) Delete(ctx context.Context, id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

// mockShowService is a testify double for handler.ShowService.
type mockShowService struct {
	mock.Mock
}

func (m *mockShowService) ViewAll(ctx context.Context) ([]repository.ShowView, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ShowView), args.Error(1)
}

func (m *mockShowService) ViewByID(ctx context.Context, id int64) (*repository.ShowView, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ShowView), args.Error(1)
}

func (m *mockShowService) GetMovieID(ctx context.Context, id int64) (int64, error) {
	args := m.Called(id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockShowService) Create(ctx context.Context, movieID int64, date time.Time, priceCents int, room string) (*repository.Show, error) {
	args := m.Called(movieID, date, priceCents, room)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Show), args.Error(1)
}

func (m *mockShowService) Delete(ctx context.Context, id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

// mockRatingService is a testify double for handler.RatingService.
type mockRatingService struct {
	mock.Mock
}

func (m *mockRatingService) GetUserRating(ctx context.Context, username string, movieID int64) (*repository.Rating, error) {
	args := m.Called(username, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Rating), args.Error(1)
}

func (m *mockRatingService) UpdateRating(ctx context.Context, username string, movieID int64, value int16) error {
	args := m.Called(username, movieID, value)
	return args.Error(0)
}

// stubProvider is a canned detail.Provider.
type stubProvider struct {
	details   *detail.Details
	err       error
	gotImdbID string
}

func (s *stubProvider) GetDetails(ctx context.Context, imdbID string) (*detail.Details, error) {
	s.gotImdbID = imdbID
	if s.err != nil {
		return nil, s.err
	}
	return s.details, nil
}

var (
	credStoreOnce sync.Once
	credStore     *auth.StaticStore
)

// testCredentialStore hashes the default user set once for the whole package
// (bcrypt is deliberately slow).
func testCredentialStore(t *testing.T) *auth.StaticStore {
	t.Helper()
	credStoreOnce.Do(func() {
		var err error
		credStore, err = auth.NewStaticStore(auth.DefaultEntries())
		require.NoError(t, err)
	})
	return credStore
}

// fixture wires mocked services into a fully routed echo instance so tests
// exercise routing, auth middleware and the global error handler together.
type fixture struct {
	e       *echo.Echo
	movies  *mockMovieService
	shows   *mockShowService
	ratings *mockRatingService
}

func newFixture(t *testing.T, provider detail.Provider) *fixture {
	t.Helper()
	f := &fixture{
		e:       echo.New(),
		movies:  new(mockMovieService),
		shows:   new(mockShowService),
		ratings: new(mockRatingService),
	}
	f.e.Validator = handler.NewValidator()
	f.e.HTTPErrorHandler = httperr.Handler
	router.Register(f.e, router.Handlers{
		Movies:  &handler.MovieHandler{Movies: f.movies, Details: provider},
		Shows:   &handler.ShowHandler{Shows: f.shows},
		Ratings: &handler.RatingHandler{Ratings: f.ratings, Movies: f.movies},
	}, testCredentialStore(t), nil)
	return f
}

type requestOpt func(*http.Request)

func asUser(username, password string) requestOpt {
	return func(r *http.Request) { r.SetBasicAuth(username, password) }
}

func (f *fixture) do(method, target, body string, opts ...requestOpt) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

// errorEnvelope mirrors the wire error shape for assertions.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}
