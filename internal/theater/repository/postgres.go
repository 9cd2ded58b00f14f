package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"movie-booking-admin/backend/internal/theater/domain"
)

const (
	theaterColumns = `id, theater_name, no_of_screens, is_deleted, created_at, modified_at`
	screenColumns  = `id, screen_name, theater_id, status, total_seats, is_deleted, created_at, modified_at`
	showColumns    = `id, theater_id, screen_id, movie_id, show_starts_at, is_currently_running, created_at, modified_at`
)

type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository returns a theater repository that uses the given db for persistence.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListTheaters(ctx context.Context) ([]domain.Theater, error) {
	theaters := []domain.Theater{}
	err := r.db.SelectContext(ctx, &theaters, `SELECT `+theaterColumns+` FROM theaters WHERE NOT is_deleted ORDER BY id`)
	return theaters, err
}

func (r *PostgresRepository) GetTheater(ctx context.Context, id int64) (*domain.Theater, error) {
	var t domain.Theater
	if err := r.getOne(ctx, &t, `SELECT `+theaterColumns+` FROM theaters WHERE id = $1 AND NOT is_deleted`, id); err != nil {
		return nil, err
	}
	if t.ID == 0 {
		return nil, nil
	}
	return &t, nil
}

func (r *PostgresRepository) CreateTheater(ctx context.Context, t *domain.Theater) error {
	return r.insert(ctx, &t.ID, `
		INSERT INTO theaters (theater_name, no_of_screens, created_at, modified_at)
		VALUES (:theater_name, :no_of_screens, :created_at, :modified_at)
		RETURNING id`, t)
}

func (r *PostgresRepository) UpdateTheater(ctx context.Context, t *domain.Theater) error {
	_, err := r.db.NamedExecContext(ctx, `
		UPDATE theaters SET theater_name = :theater_name, no_of_screens = :no_of_screens, modified_at = :modified_at
		WHERE id = :id AND NOT is_deleted`, t)
	return err
}

func (r *PostgresRepository) DeleteTheater(ctx context.Context, id int64, at time.Time) (bool, error) {
	return r.softDelete(ctx, "theaters", id, at)
}

func (r *PostgresRepository) GetScreen(ctx context.Context, id int64) (*domain.Screen, error) {
	var s domain.Screen
	if err := r.getOne(ctx, &s, `SELECT `+screenColumns+` FROM theater_screens WHERE id = $1 AND NOT is_deleted`, id); err != nil {
		return nil, err
	}
	if s.ID == 0 {
		return nil, nil
	}
	return &s, nil
}

func (r *PostgresRepository) ListScreens(ctx context.Context, theaterID int64) ([]domain.Screen, error) {
	screens := []domain.Screen{}
	err := r.db.SelectContext(ctx, &screens,
		`SELECT `+screenColumns+` FROM theater_screens WHERE theater_id = $1 AND NOT is_deleted ORDER BY id`, theaterID)
	return screens, err
}

func (r *PostgresRepository) CreateScreen(ctx context.Context, s *domain.Screen) error {
	return r.insert(ctx, &s.ID, `
		INSERT INTO theater_screens (screen_name, theater_id, status, total_seats, created_at, modified_at)
		VALUES (:screen_name, :theater_id, :status, :total_seats, :created_at, :modified_at)
		RETURNING id`, s)
}

func (r *PostgresRepository) UpdateScreen(ctx context.Context, s *domain.Screen) error {
	_, err := r.db.NamedExecContext(ctx, `
		UPDATE theater_screens
		SET screen_name = :screen_name, theater_id = :theater_id, status = :status,
			total_seats = :total_seats, modified_at = :modified_at
		WHERE id = :id AND NOT is_deleted`, s)
	return err
}

func (r *PostgresRepository) DeleteScreen(ctx context.Context, id int64, at time.Time) (bool, error) {
	return r.softDelete(ctx, "theater_screens", id, at)
}

func (r *PostgresRepository) GetShowTiming(ctx context.Context, id int64) (*domain.ShowTiming, error) {
	var s domain.ShowTiming
	if err := r.getOne(ctx, &s, `SELECT `+showColumns+` FROM show_timings WHERE id = $1`, id); err != nil {
		return nil, err
	}
	if s.ID == 0 {
		return nil, nil
	}
	return &s, nil
}

func (r *PostgresRepository) CreateShowTiming(ctx context.Context, s *domain.ShowTiming) error {
	return r.insert(ctx, &s.ID, `
		INSERT INTO show_timings (theater_id, screen_id, movie_id, show_starts_at, is_currently_running,
			created_at, modified_at)
		VALUES (:theater_id, :screen_id, :movie_id, :show_starts_at, :is_currently_running,
			:created_at, :modified_at)
		RETURNING id`, s)
}

func (r *PostgresRepository) UpdateShowTiming(ctx context.Context, s *domain.ShowTiming) error {
	_, err := r.db.NamedExecContext(ctx, `
		UPDATE show_timings
		SET theater_id = :theater_id, screen_id = :screen_id, movie_id = :movie_id,
			show_starts_at = :show_starts_at, is_currently_running = :is_currently_running,
			modified_at = :modified_at
		WHERE id = :id`, s)
	return err
}

func (r *PostgresRepository) RunningShows(ctx context.Context, movieID int64) ([]domain.ShowRow, error) {
	rows := []domain.ShowRow{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT
			t.id AS "theater.id", t.theater_name AS "theater.theater_name",
			t.no_of_screens AS "theater.no_of_screens", t.is_deleted AS "theater.is_deleted",
			t.created_at AS "theater.created_at", t.modified_at AS "theater.modified_at",
			s.id AS "screen.id", s.screen_name AS "screen.screen_name", s.theater_id AS "screen.theater_id",
			s.status AS "screen.status", s.total_seats AS "screen.total_seats", s.is_deleted AS "screen.is_deleted",
			s.created_at AS "screen.created_at", s.modified_at AS "screen.modified_at",
			st.id AS "show.id", st.theater_id AS "show.theater_id", st.screen_id AS "show.screen_id",
			st.movie_id AS "show.movie_id", st.show_starts_at AS "show.show_starts_at",
			st.is_currently_running AS "show.is_currently_running",
			st.created_at AS "show.created_at", st.modified_at AS "show.modified_at"
		FROM show_timings st
		JOIN theaters t ON t.id = st.theater_id
		JOIN theater_screens s ON s.id = st.screen_id
		WHERE st.movie_id = $1 AND st.is_currently_running AND NOT t.is_deleted AND NOT s.is_deleted
		ORDER BY st.show_starts_at, st.id`, movieID)
	return rows, err
}

// getOne loads one row into dest, leaving it zero when nothing matches.
func (r *PostgresRepository) getOne(ctx context.Context, dest any, query string, args ...any) error {
	err := r.db.GetContext(ctx, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

func (r *PostgresRepository) insert(ctx context.Context, id *int64, query string, arg any) error {
	rows, err := r.db.NamedQueryContext(ctx, query, arg)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	return rows.Scan(id)
}

func (r *PostgresRepository) softDelete(ctx context.Context, table string, id int64, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET is_deleted = TRUE, modified_at = $2 WHERE id = $1 AND NOT is_deleted`, table), id, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
