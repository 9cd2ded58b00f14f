package repository

import (
	"context"
	"time"

	"movie-booking-admin/backend/internal/theater/domain"
)

// Repository persists theaters, screens and show timings. Lookups return (nil, nil) when no
// live row matches; deletes report whether a row was deleted.
type Repository interface {
	ListTheaters(ctx context.Context) ([]domain.Theater, error)
	GetTheater(ctx context.Context, id int64) (*domain.Theater, error)
	CreateTheater(ctx context.Context, t *domain.Theater) error
	UpdateTheater(ctx context.Context, t *domain.Theater) error
	DeleteTheater(ctx context.Context, id int64, at time.Time) (bool, error)

	GetScreen(ctx context.Context, id int64) (*domain.Screen, error)
	ListScreens(ctx context.Context, theaterID int64) ([]domain.Screen, error)
	CreateScreen(ctx context.Context, s *domain.Screen) error
	UpdateScreen(ctx context.Context, s *domain.Screen) error
	DeleteScreen(ctx context.Context, id int64, at time.Time) (bool, error)

	GetShowTiming(ctx context.Context, id int64) (*domain.ShowTiming, error)
	CreateShowTiming(ctx context.Context, s *domain.ShowTiming) error
	UpdateShowTiming(ctx context.Context, s *domain.ShowTiming) error
	// RunningShows returns the running shows of movieID on live screens of live theaters,
	// ordered by start time.
	RunningShows(ctx context.Context, movieID int64) ([]domain.ShowRow, error)
}
