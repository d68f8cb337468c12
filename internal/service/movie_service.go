// Package service holds the domain services. Each service wraps repository
// calls with a small amount of orchestration: existence checks, identifier
// resolution and the rating upsert. Repository dependencies are taken as
// interfaces so tests can substitute doubles.
package service

import (
	"context"

	"github.com/filmhall/cinema-booking/internal/repository"
)

// MovieStore is the persistence surface MovieService depends on.
type MovieStore interface {
	FindAllWithShows(ctx context.Context) ([]repository.MovieWithShows, error)
	FindWithShowsByID(ctx context.Context, id int64) (*repository.MovieWithShows, error)
	FindImdbID(ctx context.Context, id int64) (string, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, m *repository.Movie) error
	Delete(ctx context.Context, id int64) error
}

// MovieService exposes catalog operations over the movie store.
type MovieService struct {
	movies MovieStore
}

// NewMovieService constructs a MovieService.
func NewMovieService(movies MovieStore) *MovieService {
	return &MovieService{movies: movies}
}

// ViewAll returns every movie with its shows eagerly loaded.
func (s *MovieService) ViewAll(ctx context.Context) ([]repository.MovieWithShows, error) {
	return s.movies.FindAllWithShows(ctx)
}

// ViewByID returns the eager projection for one movie, or
// repository.ErrMovieNotFound.
func (s *MovieService) ViewByID(ctx context.Context, id int64) (*repository.MovieWithShows, error) {
	return s.movies.FindWithShowsByID(ctx, id)
}

// GetImdbID resolves a movie identifier to its natural key without loading
// the full entity.
func (s *MovieService) GetImdbID(ctx context.Context, id int64) (string, error) {
	return s.movies.FindImdbID(ctx, id)
}

// Exists reports whether the movie exists. Used to gate rating operations.
func (s *MovieService) Exists(ctx context.Context, id int64) (bool, error) {
	return s.movies.Exists(ctx, id)
}

// Create persists a new movie and returns it with the assigned identifier.
// imdbId uniqueness is not checked proactively; a duplicate surfaces as the
// database constraint error.
func (s *MovieService) Create(ctx context.Context, name string, durationMins int16, imdbID string) (*repository.Movie, error) {
	movie := &repository.Movie{Name: name, DurationMins: durationMins, ImdbID: imdbID}
	if err := s.movies.Create(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// Delete removes a movie; its shows and ratings go with it via the cascading
// foreign keys. Returns repository.ErrMovieNotFound when nothing was deleted.
func (s *MovieService) Delete(ctx context.Context, id int64) error {
	return s.movies.Delete(ctx, id)
}
