// Package httperr defines the domain error type carried from services and
// handlers to the edge of the HTTP layer, together with the global error
// handler that renders every failure as a stable JSON envelope:
//
//	{"error": {"message": "...", "code": 1}}
//
// The numeric code is only present on recognized domain errors. Framework
// errors keep their status but get a generic message so that no internal
// detail leaks to clients.
package httperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// genericMessage is returned for every error that carries no domain code.
const genericMessage = "Oops! Something went wrong."

// Error codes for recognized domain failures.
const (
	CodeNotFound        = 1
	CodeFeatureDisabled = 2
	CodeRatingNotFound  = 3
)

// Error is an HTTP-mapped domain error. It is raised by handlers (and
// translated from repository sentinels) and rendered by Handler.
type Error struct {
	Status  int
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

// NotFound reports that the requested entity does not exist.
func NotFound(id any) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("Resource with id=%v has not been found.", id),
	}
}

// DetailsDisabled reports that the external movie detail provider is not
// configured. The feature is absent, not failing.
func DetailsDisabled() *Error {
	return &Error{
		Status:  http.StatusServiceUnavailable,
		Code:    CodeFeatureDisabled,
		Message: "Movie details fetching feature is currently unavailable",
	}
}

// RatingNotFound reports that the authenticated user has not rated the movie.
func RatingNotFound(movieID int64) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Code:    CodeRatingNotFound,
		Message: fmt.Sprintf("You have not rated movie {id=%d} yet.", movieID),
	}
}

type errorBody struct {
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

type envelope struct {
	Error errorBody `json:"error"`
}

// Handler is the single translation point between internal errors and wire
// responses. Install it as echo's HTTPErrorHandler.
func Handler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var domainErr *Error
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &domainErr):
		err = c.JSON(domainErr.Status, envelope{errorBody{Message: domainErr.Message, Code: domainErr.Code}})
	case errors.As(err, &echoErr):
		// Binding/validation failures, 401/403 from the auth middleware,
		// unknown routes. Status is kept, the message is not.
		err = c.JSON(echoErr.Code, envelope{errorBody{Message: genericMessage}})
	default:
		c.Logger().Error(err)
		err = c.JSON(http.StatusInternalServerError, envelope{errorBody{Message: genericMessage}})
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
