package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/scholara/scholara-api/internal/models"
)

// whereOf joins accumulated conditions into a WHERE clause. Queries are
// built with ? placeholders and rebound to $n just before execution.
func whereOf(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func rebind(query string) string {
	return sqlx.Rebind(sqlx.DOLLAR, query)
}

// pageWindow translates a 1-indexed page into LIMIT/OFFSET using the
// fixed page size. Invalid pages fall back to page one.
func pageWindow(page int) (int, int) {
	page = models.NormalizePage(page)
	return models.PageSize, models.PageSize * (page - 1)
}

// searchClause builds a case-insensitive substring match over the given
// columns, OR-ed together.
func searchClause(columns []string, term string) (string, interface{}) {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf("LOWER(%s) LIKE ?", col)
	}
	return "(" + strings.Join(parts, " OR ") + ")", "%" + strings.ToLower(term) + "%"
}

// listInTx runs the page query and the count query inside one read-only
// transaction so both observe the same snapshot.
func listInTx(ctx context.Context, db *sqlx.DB, dest interface{}, pageQuery, countQuery string, args []interface{}) (int, error) {
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return 0, fmt.Errorf("begin list tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := tx.SelectContext(ctx, dest, rebind(pageQuery), args...); err != nil {
		return 0, fmt.Errorf("list page: %w", err)
	}
	var total int
	if err := tx.GetContext(ctx, &total, rebind(countQuery), args...); err != nil {
		return 0, fmt.Errorf("list count: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit list tx: %w", err)
	}
	return total, nil
}
