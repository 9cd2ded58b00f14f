package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"movie-booking-admin/backend/internal/movie/domain"
)

const (
	movieColumns = `id, movie_name, rating, is_brand_new, image_urls, video_urls,
	movie_start_date, movie_end_date, is_deleted, created_at, modified_at`
	starColumns = `id, star_name, carrier_started_at, total_movies, image_urls, is_deleted, created_at, modified_at`
)

type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository returns a movie repository that uses the given db for persistence.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListMovies(ctx context.Context, filter domain.NewFilter) ([]domain.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE NOT is_deleted`
	var args []any
	switch filter {
	case domain.OnlyNew:
		query += ` AND is_brand_new = $1`
		args = append(args, true)
	case domain.OnlyOld:
		query += ` AND is_brand_new = $1`
		args = append(args, false)
	}
	movies := []domain.Movie{}
	if err := r.db.SelectContext(ctx, &movies, query+` ORDER BY id`, args...); err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *PostgresRepository) GetMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	var m domain.Movie
	err := r.db.GetContext(ctx, &m, `SELECT `+movieColumns+` FROM movies WHERE id = $1 AND NOT is_deleted`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) CreateMovie(ctx context.Context, m *domain.Movie) error {
	rows, err := r.db.NamedQueryContext(ctx, `
		INSERT INTO movies (movie_name, rating, is_brand_new, image_urls, video_urls,
			movie_start_date, movie_end_date, created_at, modified_at)
		VALUES (:movie_name, :rating, :is_brand_new, :image_urls, :video_urls,
			:movie_start_date, :movie_end_date, :created_at, :modified_at)
		RETURNING id`, m)
	if err != nil {
		return err
	}
	return scanID(rows, &m.ID)
}

func (r *PostgresRepository) UpdateMovie(ctx context.Context, m *domain.Movie) error {
	_, err := r.db.NamedExecContext(ctx, `
		UPDATE movies
		SET movie_name = :movie_name, rating = :rating, is_brand_new = :is_brand_new,
			image_urls = :image_urls, video_urls = :video_urls, movie_start_date = :movie_start_date,
			movie_end_date = :movie_end_date, modified_at = :modified_at
		WHERE id = :id AND NOT is_deleted`, m)
	return err
}

func (r *PostgresRepository) DeleteMovie(ctx context.Context, id int64, at time.Time) (bool, error) {
	return softDelete(ctx, r.db, "movies", id, at)
}

func (r *PostgresRepository) GetStar(ctx context.Context, id int64) (*domain.Star, error) {
	var s domain.Star
	err := r.db.GetContext(ctx, &s, `SELECT `+starColumns+` FROM movie_stars WHERE id = $1 AND NOT is_deleted`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresRepository) CreateStar(ctx context.Context, s *domain.Star) error {
	rows, err := r.db.NamedQueryContext(ctx, `
		INSERT INTO movie_stars (star_name, carrier_started_at, image_urls, created_at, modified_at)
		VALUES (:star_name, :carrier_started_at, :image_urls, :created_at, :modified_at)
		RETURNING id`, s)
	if err != nil {
		return err
	}
	return scanID(rows, &s.ID)
}

func (r *PostgresRepository) UpdateStar(ctx context.Context, s *domain.Star) error {
	_, err := r.db.NamedExecContext(ctx, `
		UPDATE movie_stars
		SET star_name = :star_name, carrier_started_at = :carrier_started_at,
			image_urls = :image_urls, modified_at = :modified_at
		WHERE id = :id AND NOT is_deleted`, s)
	return err
}

func (r *PostgresRepository) DeleteStar(ctx context.Context, id int64, at time.Time) (bool, error) {
	return softDelete(ctx, r.db, "movie_stars", id, at)
}

func (r *PostgresRepository) SetMovieStars(ctx context.Context, movieID int64, starIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if len(starIDs) > 0 {
		var live int
		if err := tx.GetContext(ctx, &live,
			`SELECT count(*) FROM movie_stars WHERE id = ANY($1) AND NOT is_deleted`, starIDs); err != nil {
			return err
		}
		if live != len(starIDs) {
			return ErrUnknownStar
		}
	}

	var previous []int64
	if err := tx.SelectContext(ctx, &previous,
		`DELETE FROM movie_stars_mapping WHERE movie_id = $1 RETURNING star_id`, movieID); err != nil {
		return err
	}
	for _, starID := range starIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO movie_stars_mapping (movie_id, star_id) VALUES ($1, $2)`, movieID, starID); err != nil {
			return err
		}
	}
	touched := append(previous, starIDs...)
	if len(touched) > 0 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE movie_stars s
			SET total_movies = (SELECT count(*) FROM movie_stars_mapping m WHERE m.star_id = s.id)
			WHERE s.id = ANY($1)`, touched); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *PostgresRepository) ListMovieStars(ctx context.Context, movieID int64) ([]domain.Star, error) {
	stars := []domain.Star{}
	err := r.db.SelectContext(ctx, &stars, `
		SELECT s.id, s.star_name, s.carrier_started_at, s.total_movies, s.image_urls,
			s.is_deleted, s.created_at, s.modified_at
		FROM movie_stars s
		JOIN movie_stars_mapping m ON m.star_id = s.id
		WHERE m.movie_id = $1 AND NOT s.is_deleted
		ORDER BY s.id`, movieID)
	if err != nil {
		return nil, err
	}
	return stars, nil
}

func softDelete(ctx context.Context, db *sqlx.DB, table string, id int64, at time.Time) (bool, error) {
	res, err := db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET is_deleted = TRUE, modified_at = $2 WHERE id = $1 AND NOT is_deleted`, table), id, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func scanID(rows *sqlx.Rows, id *int64) error {
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	return rows.Scan(id)
}
