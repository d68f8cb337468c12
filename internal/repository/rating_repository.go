package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Rating is one user's score for one movie, in the closed range [1,5]. The
// username is free text with no referential integrity to a user table; the
// credential store is in-memory. At most one rating per (username, movie)
// pair is maintained by the service-level upsert, not by a unique index.
type Rating struct {
	ID       int64
	Username string
	MovieID  int64
	Value    int16
}

// Equal reports value equality by (username, movie, value).
func (r Rating) Equal(other Rating) bool {
	return r.Username == other.Username && r.MovieID == other.MovieID && r.Value == other.Value
}

// RatingRepo manages persistence for ratings.
type RatingRepo struct {
	db *sql.DB
}

// NewRatingRepo constructs a RatingRepo with the given DB handle.
func NewRatingRepo(db *sql.DB) *RatingRepo {
	return &RatingRepo{db: db}
}

// FindByUsernameAndMovieID returns the rating for a (user, movie) pair, or
// ErrRatingNotFound when the user has not rated the movie.
func (r *RatingRepo) FindByUsernameAndMovieID(ctx context.Context, username string, movieID int64) (*Rating, error) {
	var rating Rating
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, movie_id, value FROM ratings WHERE username = ? AND movie_id = ?`,
		username, movieID).
		Scan(&rating.ID, &rating.Username, &rating.MovieID, &rating.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return &rating, nil
}

// Insert stores a new rating and assigns the generated ID back to the model.
func (r *RatingRepo) Insert(ctx context.Context, rating *Rating) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO ratings (username, movie_id, value) VALUES (?, ?, ?)`,
		rating.Username, rating.MovieID, rating.Value)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rating.ID = id
	return nil
}

// UpdateValue replaces the stored value of an existing rating in place.
func (r *RatingRepo) UpdateValue(ctx context.Context, id int64, value int16) error {
	_, err := r.db.ExecContext(ctx, `UPDATE ratings SET value = ? WHERE id = ?`, value, id)
	return err
}
