package service

import (
	"context"
	"time"

	"github.com/filmhall/cinema-booking/internal/repository"
)

// ShowStore is the persistence surface ShowService depends on.
type ShowStore interface {
	FindAllViews(ctx context.Context) ([]repository.ShowView, error)
	FindViewByID(ctx context.Context, id int64) (*repository.ShowView, error)
	FindMovieID(ctx context.Context, id int64) (int64, error)
	Create(ctx context.Context, s *repository.Show) error
	Delete(ctx context.Context, id int64) error
}

// ShowService exposes screening operations over the show store.
type ShowService struct {
	shows ShowStore
}

// NewShowService constructs a ShowService.
func NewShowService(shows ShowStore) *ShowService {
	return &ShowService{shows: shows}
}

// ViewAll returns the projection of every show.
func (s *ShowService) ViewAll(ctx context.Context) ([]repository.ShowView, error) {
	return s.shows.FindAllViews(ctx)
}

// ViewByID returns the projection for one show, or repository.ErrShowNotFound.
func (s *ShowService) ViewByID(ctx context.Context, id int64) (*repository.ShowView, error) {
	return s.shows.FindViewByID(ctx, id)
}

// GetMovieID returns the owning movie's identifier for a show. The show
// controller uses it to build the redirect Location.
func (s *ShowService) GetMovieID(ctx context.Context, id int64) (int64, error) {
	return s.shows.FindMovieID(ctx, id)
}

// Create persists a new show against the referenced movie. The reference is
// taken on trust: a movieId that does not exist fails the foreign key
// constraint at insert time and bubbles up as a plain database error.
func (s *ShowService) Create(ctx context.Context, movieID int64, date time.Time, priceCents int, room string) (*repository.Show, error) {
	show := &repository.Show{MovieID: movieID, Date: date, PriceCents: priceCents, Room: room}
	if err := s.shows.Create(ctx, show); err != nil {
		return nil, err
	}
	return show, nil
}

// Delete removes a show, returning repository.ErrShowNotFound when nothing
// was deleted.
func (s *ShowService) Delete(ctx context.Context, id int64) error {
	return s.shows.Delete(ctx, id)
}
