package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Show is a screening of a movie: when, in which room, at what price.
// MovieID is a non-null reference to the owning movie. Date is stored as a
// UTC DATETIME; the wire format carries the RFC 3339 offset.
type Show struct {
	ID         int64
	MovieID    int64
	Date       time.Time
	PriceCents int
	Room       string
}

// Equal reports value equality by (movie, date, room). Two shows for the
// same movie in the same room at the same instant are conceptually the same
// screening; nothing at the database level enforces this.
func (s Show) Equal(other Show) bool {
	return s.MovieID == other.MovieID && s.Date.Equal(other.Date) && s.Room == other.Room
}

// ShowView is the read projection of a show carrying only the owning movie's
// identifier. The FK column already holds it, so no join is needed.
type ShowView struct {
	ID         int64
	MovieID    int64
	Date       time.Time
	PriceCents int
	Room       string
}

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

const showViewColumns = `id, movie_id, date, price_cents, room`

func scanShowView(row interface{ Scan(...any) error }) (ShowView, error) {
	var v ShowView
	err := row.Scan(&v.ID, &v.MovieID, &v.Date, &v.PriceCents, &v.Room)
	v.Date = v.Date.UTC()
	return v, err
}

// FindAllViews returns the projection of every show, ordered by id.
func (r *ShowRepo) FindAllViews(ctx context.Context) ([]ShowView, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+showViewColumns+` FROM shows ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []ShowView{}
	for rows.Next() {
		v, err := scanShowView(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

// FindViewByID returns the projection for one show, or ErrShowNotFound.
func (r *ShowRepo) FindViewByID(ctx context.Context, id int64) (*ShowView, error) {
	v, err := scanShowView(r.db.QueryRowContext(ctx,
		`SELECT `+showViewColumns+` FROM shows WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FindMovieID returns the owning movie's identifier for a show. Used by the
// redirect alias, which needs nothing but the id.
func (r *ShowRepo) FindMovieID(ctx context.Context, id int64) (int64, error) {
	var movieID int64
	err := r.db.QueryRowContext(ctx, `SELECT movie_id FROM shows WHERE id = ?`, id).Scan(&movieID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrShowNotFound
		}
		return 0, err
	}
	return movieID, nil
}

// Create inserts a new show and assigns the generated ID back to the model.
// The movie reference is not verified here; a dangling movie_id fails the
// foreign key constraint at insert time.
func (r *ShowRepo) Create(ctx context.Context, s *Show) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO shows (movie_id, date, price_cents, room) VALUES (?, ?, ?, ?)`,
		s.MovieID, s.Date.UTC(), s.PriceCents, s.Room)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

// Delete removes a show by identifier, returning ErrShowNotFound when no row
// was affected.
func (r *ShowRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shows WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrShowNotFound
	}
	return nil
}
