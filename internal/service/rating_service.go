package service

import (
	"context"
	"errors"

	"github.com/filmhall/cinema-booking/internal/repository"
)

// RatingStore is the persistence surface RatingService depends on.
type RatingStore interface {
	FindByUsernameAndMovieID(ctx context.Context, username string, movieID int64) (*repository.Rating, error)
	Insert(ctx context.Context, rating *repository.Rating) error
	UpdateValue(ctx context.Context, id int64, value int16) error
}

// RatingService maintains the one-rating-per-(user, movie) invariant through
// an application-level upsert.
type RatingService struct {
	ratings RatingStore
}

// NewRatingService constructs a RatingService.
func NewRatingService(ratings RatingStore) *RatingService {
	return &RatingService{ratings: ratings}
}

// GetUserRating returns the rating a user gave a movie, or
// repository.ErrRatingNotFound.
func (s *RatingService) GetUserRating(ctx context.Context, username string, movieID int64) (*repository.Rating, error) {
	return s.ratings.FindByUsernameAndMovieID(ctx, username, movieID)
}

// UpdateRating upserts the rating for a (user, movie) pair: an existing row
// has its value replaced in place, otherwise a new row is inserted. The
// read-then-write is not atomic; two concurrent requests for the same pair
// can both take the insert path since no unique index backs the pairing.
// The movie's existence is the caller's responsibility.
func (s *RatingService) UpdateRating(ctx context.Context, username string, movieID int64, value int16) error {
	existing, err := s.ratings.FindByUsernameAndMovieID(ctx, username, movieID)
	switch {
	case err == nil:
		return s.ratings.UpdateValue(ctx, existing.ID, value)
	case errors.Is(err, repository.ErrRatingNotFound):
		return s.ratings.Insert(ctx, &repository.Rating{Username: username, MovieID: movieID, Value: value})
	default:
		return err
	}
}
