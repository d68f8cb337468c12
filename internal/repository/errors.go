package repository

import "errors"

// Sentinel errors returned by the repositories. Services pass them through
// unchanged; handlers translate them into domain HTTP errors.
var (
	// ErrMovieNotFound indicates that no movie row matched the identifier.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrShowNotFound indicates that no show row matched the identifier.
	ErrShowNotFound = errors.New("show not found")

	// ErrRatingNotFound indicates that the user has no rating for the movie.
	ErrRatingNotFound = errors.New("rating not found")
)
