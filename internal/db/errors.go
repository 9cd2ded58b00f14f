package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

func hasSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
