package postgresql

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// constraintViolation reports the violated constraint name when err is a
// Postgres error with the given SQLSTATE.
func constraintViolation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// validIDs reports whether every id can be stored in a uuid column. Anything
// else cannot match a row, and sending it to Postgres fails with 22P02.
func validIDs(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}

// uuidsOnly drops the ids validIDs would reject.
func uuidsOnly(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if validIDs(id) {
			out = append(out, id)
		}
	}
	return out
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
