package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/filmhall/cinema-booking/internal/auth"
	"github.com/filmhall/cinema-booking/internal/config"
	"github.com/filmhall/cinema-booking/internal/database"
	"github.com/filmhall/cinema-booking/internal/detail"
	"github.com/filmhall/cinema-booking/internal/handler"
	"github.com/filmhall/cinema-booking/internal/httperr"
	"github.com/filmhall/cinema-booking/internal/middleware"
	"github.com/filmhall/cinema-booking/internal/queue"
	"github.com/filmhall/cinema-booking/internal/repository"
	"github.com/filmhall/cinema-booking/internal/router"
	"github.com/filmhall/cinema-booking/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("bootstrapping schema: %v", err)
	}

	store, err := credentialStore(cfg)
	if err != nil {
		log.Fatalf("building credential store: %v", err)
	}

	var provider detail.Provider
	if cfg.DetailsEnabled() {
		provider = detail.NewOmdbProvider(cfg.OmdbURL, cfg.OmdbAPIKey)
	} else {
		log.Printf("movie details provider not configured; /details endpoint disabled")
	}

	var events *queue.Publisher
	if cfg.AMQPURL != "" {
		events = queue.NewPublisher(cfg.AMQPURL)
		go queue.StartCatalogConsumer(cfg.AMQPURL)
	}

	movieSvc := service.NewMovieService(repository.NewMovieRepo(db))
	showSvc := service.NewShowService(repository.NewShowRepo(db))
	ratingSvc := service.NewRatingService(repository.NewRatingRepo(db))

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = httperr.Handler

	var rateLimit echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		rateLimit = middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
	}

	router.Register(e, router.Handlers{
		Movies:  &handler.MovieHandler{Movies: movieSvc, Details: provider, Events: events},
		Shows:   &handler.ShowHandler{Shows: showSvc, Events: events},
		Ratings: &handler.RatingHandler{Ratings: ratingSvc, Movies: movieSvc},
	}, store, rateLimit)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// credentialStore builds the static basic-auth user set, taking overrides
// from BASIC_AUTH_USERS when present.
func credentialStore(cfg config.Config) (auth.CredentialStore, error) {
	entries, err := auth.ParseEntries(cfg.BasicAuthUsers)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		entries = auth.DefaultEntries()
	}
	return auth.NewStaticStore(entries)
}
