package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/peakstart/ledger-api/internal/models"
)

const pqForeignKeyViolation = "23503"

// IsForeignKeyViolation reports whether err came from a rejected foreign key.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation
}

// withTx runs fn inside a transaction, rolling back on any error.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func exists(ctx context.Context, db *sqlx.DB, table string, id int64) (bool, error) {
	var found bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)", table)
	if err := db.GetContext(ctx, &found, query, id); err != nil {
		return false, fmt.Errorf("check %s exists: %w", table, err)
	}
	return found, nil
}

// conditions accumulates AND-ed predicates with positional arguments.
type conditions struct {
	where []string
	args  []interface{}
}

// add appends a predicate; format must contain a single %d for the placeholder index.
func (c *conditions) add(format string, arg interface{}) {
	c.args = append(c.args, arg)
	c.where = append(c.where, fmt.Sprintf(format, len(c.args)))
}

func (c *conditions) addDateRange(column string, r models.DateRange) {
	if r.On != nil {
		c.add(column+" = $%d", *r.On)
	}
	if r.Start != nil {
		c.add(column+" >= $%d", *r.Start)
	}
	if r.End != nil {
		c.add(column+" <= $%d", *r.End)
	}
}

// and renders the predicates for appending to an existing ON or WHERE clause.
func (c *conditions) and() string {
	if len(c.where) == 0 {
		return ""
	}
	return " AND " + strings.Join(c.where, " AND ")
}

func (c *conditions) clause() string {
	if len(c.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.where, " AND ")
}
