// Package handler contains the HTTP controllers. They are thin adapters:
// path/body binding and validation on the way in, DTO mapping on the way
// out, with domain errors raised for the global translator.
package handler

import (
	"time"

	"github.com/filmhall/cinema-booking/internal/repository"
)

// MovieDto is the wire shape of a movie with its shows eagerly included.
type MovieDto struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	DurationMins int16     `json:"durationMins"`
	ImdbID       string    `json:"imdbId"`
	Shows        []ShowDto `json:"shows"`
}

// ShowDto is the wire shape of a show. MovieID references the owning movie.
type ShowDto struct {
	ID         int64     `json:"id"`
	MovieID    int64     `json:"movieId"`
	Date       time.Time `json:"date"`
	PriceCents int       `json:"priceCents"`
	Room       string    `json:"room"`
}

func newShowDto(v repository.ShowView) ShowDto {
	return ShowDto{ID: v.ID, MovieID: v.MovieID, Date: v.Date, PriceCents: v.PriceCents, Room: v.Room}
}

func newShowDtos(views []repository.ShowView) []ShowDto {
	dtos := make([]ShowDto, 0, len(views))
	for _, v := range views {
		dtos = append(dtos, newShowDto(v))
	}
	return dtos
}

func newMovieDto(m repository.MovieWithShows) MovieDto {
	return MovieDto{
		ID:           m.ID,
		Name:         m.Name,
		DurationMins: m.DurationMins,
		ImdbID:       m.ImdbID,
		Shows:        newShowDtos(m.Shows),
	}
}

func newMovieDtos(movies []repository.MovieWithShows) []MovieDto {
	dtos := make([]MovieDto, 0, len(movies))
	for _, m := range movies {
		dtos = append(dtos, newMovieDto(m))
	}
	return dtos
}
