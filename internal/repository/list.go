package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// fetchPage runs the count query and the windowed select of one listing
// inside a single read-only transaction, so the total and the page reflect
// the same filter at the same instant. Both queries use ? bindvars and are
// rebound for Postgres here.
func fetchPage(ctx context.Context, db *sqlx.DB, dest interface{}, countQuery, pageQuery string, countArgs, pageArgs []interface{}) (int, error) {
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return 0, fmt.Errorf("begin list tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var total int
	if err := tx.GetContext(ctx, &total, sqlx.Rebind(sqlx.DOLLAR, countQuery), countArgs...); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}

	if err := tx.SelectContext(ctx, dest, sqlx.Rebind(sqlx.DOLLAR, pageQuery), pageArgs...); err != nil {
		return 0, fmt.Errorf("select page: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit list tx: %w", err)
	}
	return total, nil
}

func likeTerm(search string) string {
	return "%" + strings.ToLower(search) + "%"
}
