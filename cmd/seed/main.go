// seed inserts development sample data: an admin user plus a small catalog with a running show.
// Idempotent: does nothing when the dev user (dev@example.com) already exists.
package main

import (
	"context"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"movie-booking-admin/backend/internal/config"
	"movie-booking-admin/backend/internal/db"
	identityservice "movie-booking-admin/backend/internal/identity/service"
	"movie-booking-admin/backend/internal/logger"
	moviedomain "movie-booking-admin/backend/internal/movie/domain"
	movierepo "movie-booking-admin/backend/internal/movie/repository"
	"movie-booking-admin/backend/internal/security"
	theaterdomain "movie-booking-admin/backend/internal/theater/domain"
	theaterrepo "movie-booking-admin/backend/internal/theater/repository"
	userrepo "movie-booking-admin/backend/internal/user/repository"
)

const (
	devUserEmail = "dev@example.com"
	devPassword  = "password123"
)

func main() {
	log, err := logger.New(logger.Options{Development: true})
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db", zap.Error(err))
	}
	defer conn.Close()

	users := userrepo.NewPostgresRepository(conn)
	existing, err := users.GetActiveByEmail(ctx, devUserEmail)
	if err != nil {
		log.Fatal("seed check", zap.Error(err))
	}
	if existing != nil {
		log.Info("seed already applied; skipping", zap.String("email", devUserEmail))
		return
	}

	auth := identityservice.NewAuthService(users, nil, security.NewHasher(cfg.BcryptCost), nil, nil, log, 0)
	if err := auth.Signup(ctx, identityservice.SignupInput{
		FirstName: "Dev",
		LastName:  "Admin",
		EmailID:   devUserEmail,
		Password:  devPassword,
		Phone:     "9999999999",
	}); err != nil {
		log.Fatal("create dev user", zap.Error(err))
	}

	now := time.Now().UTC()
	movies := movierepo.NewPostgresRepository(conn)
	theaters := theaterrepo.NewPostgresRepository(conn)

	star := mustStar(log, "Keanu Reeves", "1985-01-01", now)
	if err := movies.CreateStar(ctx, star); err != nil {
		log.Fatal("create star", zap.Error(err))
	}

	movieIDs := make([]int64, 0, 2)
	for _, name := range []string{"The Matrix", "John Wick"} {
		m := mustMovie(log, name, now)
		if err := movies.CreateMovie(ctx, m); err != nil {
			log.Fatal("create movie", zap.String("movie", name), zap.Error(err))
		}
		if err := movies.SetMovieStars(ctx, m.ID, []int64{star.ID}); err != nil {
			log.Fatal("link star", zap.String("movie", name), zap.Error(err))
		}
		movieIDs = append(movieIDs, m.ID)
	}

	name, screens := "PVR Downtown", 2
	theater, problems := theaterdomain.NewTheater(theaterdomain.TheaterInput{Name: &name, NoOfScreens: &screens}, now)
	if len(problems) > 0 {
		log.Fatal("theater", zap.Strings("problems", problems))
	}
	if err := theaters.CreateTheater(ctx, theater); err != nil {
		log.Fatal("create theater", zap.Error(err))
	}

	for i, screenName := range []string{"Audi 1", "Audi 2"} {
		seats := 120
		screen, problems := theaterdomain.NewScreen(theaterdomain.ScreenInput{
			Name:       &screenName,
			TheaterID:  &theater.ID,
			TotalSeats: &seats,
		}, now)
		if len(problems) > 0 {
			log.Fatal("screen", zap.Strings("problems", problems))
		}
		if err := theaters.CreateScreen(ctx, screen); err != nil {
			log.Fatal("create screen", zap.Error(err))
		}

		starts := theaterdomain.ClockTime{Hour: 18 + i, Minute: 30}
		show, problems := theaterdomain.NewShowTiming(theaterdomain.ShowTimingInput{
			TheaterID: &theater.ID,
			ScreenID:  &screen.ID,
			MovieID:   &movieIDs[i],
			StartsAt:  &starts,
		}, now)
		if len(problems) > 0 {
			log.Fatal("show timing", zap.Strings("problems", problems))
		}
		if err := theaters.CreateShowTiming(ctx, show); err != nil {
			log.Fatal("create show timing", zap.Error(err))
		}
	}

	log.Info("seed applied",
		zap.String("email", devUserEmail),
		zap.Int64s("movies", movieIDs),
		zap.Int64("theater", theater.ID),
	)
}

func mustStar(log *zap.Logger, name, started string, now time.Time) *moviedomain.Star {
	date, err := moviedomain.ParseDate(started)
	if err != nil {
		log.Fatal("star date", zap.Error(err))
	}
	s, problems := moviedomain.NewStar(moviedomain.StarInput{Name: &name, CareerStartedAt: &date}, now)
	if len(problems) > 0 {
		log.Fatal("star", zap.Strings("problems", problems))
	}
	return s
}

func mustMovie(log *zap.Logger, name string, now time.Time) *moviedomain.Movie {
	rating := 8.5
	start := now.Truncate(24 * time.Hour)
	m, problems := moviedomain.NewMovie(moviedomain.MovieInput{
		Name:      &name,
		Rating:    &rating,
		StartDate: &start,
		ImageURLs: []string{"https://images.example.com/" + strings.ToLower(strings.ReplaceAll(name, " ", "-")) + ".jpg"},
	}, now)
	if len(problems) > 0 {
		log.Fatal("movie", zap.Strings("problems", problems))
	}
	return m
}
