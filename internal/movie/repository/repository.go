package repository

import (
	"context"
	"errors"
	"time"

	"movie-booking-admin/backend/internal/movie/domain"
)

// ErrUnknownStar is returned by SetMovieStars when a star id does not name a live star.
var ErrUnknownStar = errors.New("movie: unknown star")

// Repository persists movies, stars and the movie-star mapping. Lookups return (nil, nil)
// when no live row matches; deletes report whether a row was deleted.
type Repository interface {
	ListMovies(ctx context.Context, filter domain.NewFilter) ([]domain.Movie, error)
	GetMovie(ctx context.Context, id int64) (*domain.Movie, error)
	// CreateMovie inserts m and sets its ID.
	CreateMovie(ctx context.Context, m *domain.Movie) error
	UpdateMovie(ctx context.Context, m *domain.Movie) error
	DeleteMovie(ctx context.Context, id int64, at time.Time) (bool, error)

	GetStar(ctx context.Context, id int64) (*domain.Star, error)
	// CreateStar inserts s and sets its ID.
	CreateStar(ctx context.Context, s *domain.Star) error
	UpdateStar(ctx context.Context, s *domain.Star) error
	DeleteStar(ctx context.Context, id int64, at time.Time) (bool, error)

	// SetMovieStars replaces the stars linked to movieID and recounts total_movies for
	// every star gained or lost.
	SetMovieStars(ctx context.Context, movieID int64, starIDs []int64) error
	ListMovieStars(ctx context.Context, movieID int64) ([]domain.Star, error)
}
