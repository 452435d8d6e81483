package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// IsForeignKeyViolation reports whether err is a referential integrity
// failure from either engine.
func IsForeignKeyViolation(err error) bool {
	return constraintViolation(err, pgerrcode.ForeignKeyViolation, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, "FOREIGN KEY")
}

// IsCheckViolation reports whether err is a CHECK constraint failure.
func IsCheckViolation(err error) bool {
	return constraintViolation(err, pgerrcode.CheckViolation, sqlite3.SQLITE_CONSTRAINT_CHECK, "CHECK")
}

func constraintViolation(err error, pgCode string, liteCode int, liteText string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgCode
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == liteCode {
			return true
		}
		// Primary code only when extended result codes are off.
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), liteText+" constraint failed")
	}
	return false
}
