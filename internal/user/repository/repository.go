package repository

import (
	"context"
	"time"

	"movie-booking-admin/backend/internal/user/domain"
)

// Repository defines persistence for users. Lookups return (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, u *domain.User) error
	// GetActiveByEmail returns the active user with the given email.
	GetActiveByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetActiveByID returns the active user with the given id.
	GetActiveByID(ctx context.Context, id string) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id, hash string, at time.Time) error
	// Deactivate clears is_active regardless of its current value.
	Deactivate(ctx context.Context, id string, at time.Time) error
	MarkDeleted(ctx context.Context, id string, at time.Time) error
	UpdateProfile(ctx context.Context, u *domain.User) error
}
