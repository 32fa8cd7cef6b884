package repository

import (
	"context"
	"database/sql"
)

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	BindNamed(query string, arg interface{}) (string, []interface{}, error)
	DriverName() string
}

// limitClause returns the row-limiting suffix for driver, bound to :row_limit.
// Oracle has no LIMIT keyword.
func limitClause(driver string) string {
	if driver == "oracle" {
		return "FETCH FIRST :row_limit ROWS ONLY"
	}
	return "LIMIT :row_limit"
}

// selectNamed binds a named query for exec's driver and scans all rows.
func selectNamed(ctx context.Context, exec DBTX, dest interface{}, query string, arg interface{}) error {
	q, args, err := exec.BindNamed(query, arg)
	if err != nil {
		return err
	}
	return exec.SelectContext(ctx, dest, q, args...)
}

// getNamed binds a named query for exec's driver and scans one row.
func getNamed(ctx context.Context, exec DBTX, dest interface{}, query string, arg interface{}) error {
	q, args, err := exec.BindNamed(query, arg)
	if err != nil {
		return err
	}
	return exec.GetContext(ctx, dest, q, args...)
}
