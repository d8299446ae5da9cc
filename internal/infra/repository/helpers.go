package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
	pgErrCodeCheckViolation      = "23514"
)

func isUniqueViolation(err error) bool {
	return hasPgCode(err, pgErrCodeUniqueViolation)
}

func isForeignKeyViolation(err error) bool {
	return hasPgCode(err, pgErrCodeForeignKeyViolation)
}

func isCheckViolation(err error) bool {
	return hasPgCode(err, pgErrCodeCheckViolation)
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
