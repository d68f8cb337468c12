// Package router wires the HTTP surface: public catalog reads, admin-only
// mutations, user-scoped rating endpoints, and the health probe.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/filmhall/cinema-booking/internal/auth"
	"github.com/filmhall/cinema-booking/internal/handler"
	"github.com/filmhall/cinema-booking/internal/middleware"
)

// Handlers bundles the controllers registered on the echo instance.
type Handlers struct {
	Movies  *handler.MovieHandler
	Shows   *handler.ShowHandler
	Ratings *handler.RatingHandler
}

// Register mounts every route. rateLimit may be nil when redis is absent.
func Register(e *echo.Echo, h Handlers, store auth.CredentialStore, rateLimit echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")
	if rateLimit != nil {
		api.Use(rateLimit)
	}

	basic := middleware.BasicAuth(store)
	admin := middleware.RequireRole(auth.RoleAdmin)
	user := middleware.RequireRole(auth.RoleUser)

	movies := api.Group("/movies")
	movies.GET("", h.Movies.GetAll)
	movies.GET("/:id", h.Movies.Get)
	movies.GET("/:id/details", h.Movies.GetDetails)
	movies.GET("/:id/shows", h.Movies.GetShows)
	movies.POST("", h.Movies.Create, basic, admin)
	movies.DELETE("/:id", h.Movies.Delete, basic, admin)
	movies.PUT("/:id/rating", h.Ratings.Update, basic, user)
	movies.GET("/:id/rating", h.Ratings.Get, basic, user)

	shows := api.Group("/shows")
	shows.GET("", h.Shows.GetAll)
	shows.GET("/:id", h.Shows.Get)
	// The movie alias answers both verbs with the same permanent redirect.
	shows.GET("/:id/movie", h.Shows.RedirectToMovie)
	shows.DELETE("/:id/movie", h.Shows.RedirectToMovie)
	shows.POST("", h.Shows.Create, basic, admin)
	shows.DELETE("/:id", h.Shows.Delete, basic, admin)
}
