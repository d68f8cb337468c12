// Package repository contains the data access layer. Each repository wraps a
// *sql.DB handle and speaks plain SQL; rows are scanned into the models
// defined alongside the repositories.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Movie is a film in the catalog. ImdbID is the natural key: unique,
// immutable after creation and at most 24 characters. ID is the
// server-generated surrogate key.
type Movie struct {
	ID           int64
	Name         string
	DurationMins int16
	ImdbID       string
}

// Equal reports value equality by natural key. Two movies with the same
// imdbId are the same movie regardless of their surrogate identifiers.
func (m Movie) Equal(other Movie) bool {
	return m.ImdbID == other.ImdbID
}

// MovieWithShows is the eager projection of a movie together with its shows,
// fetched in a single joined query.
type MovieWithShows struct {
	ID           int64
	Name         string
	DurationMins int16
	ImdbID       string
	Shows        []ShowView
}

// MovieRepo manages persistence for movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

const movieWithShowsQuery = `SELECT m.id, m.name, m.duration_mins, m.imdb_id,
       s.id, s.movie_id, s.date, s.price_cents, s.room
FROM movies m
LEFT JOIN shows s ON s.movie_id = m.id`

// scanMoviesWithShows assembles MovieWithShows projections from the joined
// rows. Rows are ordered by movie id, so each movie's shows arrive
// contiguously and a single pass suffices.
func scanMoviesWithShows(rows *sql.Rows) ([]MovieWithShows, error) {
	var result []MovieWithShows
	for rows.Next() {
		var m MovieWithShows
		var showID, showMovieID sql.NullInt64
		var showDate sql.NullTime
		var priceCents sql.NullInt64
		var room sql.NullString
		if err := rows.Scan(
			&m.ID, &m.Name, &m.DurationMins, &m.ImdbID,
			&showID, &showMovieID, &showDate, &priceCents, &room,
		); err != nil {
			return nil, err
		}
		if len(result) == 0 || result[len(result)-1].ID != m.ID {
			m.Shows = []ShowView{}
			result = append(result, m)
		}
		if showID.Valid {
			last := &result[len(result)-1]
			last.Shows = append(last.Shows, ShowView{
				ID:         showID.Int64,
				MovieID:    showMovieID.Int64,
				Date:       showDate.Time.UTC(),
				PriceCents: int(priceCents.Int64),
				Room:       room.String,
			})
		}
	}
	return result, rows.Err()
}

// FindAllWithShows returns every movie with its shows eagerly loaded. One
// joined query, no per-movie follow-ups.
func (r *MovieRepo) FindAllWithShows(ctx context.Context) ([]MovieWithShows, error) {
	rows, err := r.db.QueryContext(ctx, movieWithShowsQuery+` ORDER BY m.id, s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMoviesWithShows(rows)
}

// FindWithShowsByID returns the eager projection for one movie. It returns
// ErrMovieNotFound when no row matches.
func (r *MovieRepo) FindWithShowsByID(ctx context.Context, id int64) (*MovieWithShows, error) {
	rows, err := r.db.QueryContext(ctx, movieWithShowsQuery+` WHERE m.id = ? ORDER BY s.id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies, err := scanMoviesWithShows(rows)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, ErrMovieNotFound
	}
	return &movies[0], nil
}

// FindImdbID returns only the natural key for the given identifier, avoiding
// a full entity load when cross-referencing the external detail API.
func (r *MovieRepo) FindImdbID(ctx context.Context, id int64) (string, error) {
	var imdbID string
	err := r.db.QueryRowContext(ctx, `SELECT imdb_id FROM movies WHERE id = ?`, id).Scan(&imdbID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrMovieNotFound
		}
		return "", err
	}
	return imdbID, nil
}

// Exists reports whether a movie row with the given identifier exists.
func (r *MovieRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ?`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create inserts a new movie and assigns the generated ID back to the model.
// Uniqueness of imdb_id is left to the database constraint.
func (r *MovieRepo) Create(ctx context.Context, m *Movie) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO movies (name, duration_mins, imdb_id) VALUES (?, ?, ?)`,
		m.Name, m.DurationMins, m.ImdbID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

// Delete removes a movie by identifier. Dependent shows and ratings are
// removed by the database through ON DELETE CASCADE. When no row was
// affected, ErrMovieNotFound is returned so the handler can answer 404
// without a pre-check.
func (r *MovieRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMovieNotFound
	}
	return nil
}
