package internal

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// table maps T onto a Postgres table with id, created_at and updated_at
// columns around the writable ones.
type table[T any] struct {
	name    string
	columns []string
	order   string
	// values returns the writable columns in order.
	values func(*T) []any
	// dest returns scan targets for id, the writable columns, created_at
	// and updated_at.
	dest func(*T) []any
}

func (t *table[T]) selectList() string {
	return "id, " + strings.Join(t.columns, ", ") + ", created_at, updated_at"
}

func (t *table[T]) scanOne(row interface{ Scan(...any) error }) (*T, error) {
	v := new(T)
	if err := row.Scan(t.dest(v)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// list returns rows matching where (may be empty) in table order.
func (t *table[T]) list(ctx context.Context, q dbtx, where string, args ...any) ([]*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", t.selectList(), t.name)
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY " + t.order

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*T{}
	for rows.Next() {
		v, err := t.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *table[T]) get(ctx context.Context, q dbtx, where string, args ...any) (*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1", t.selectList(), t.name, where)
	return t.scanOne(q.QueryRowContext(ctx, query, args...))
}

func (t *table[T]) insert(ctx context.Context, q dbtx, v *T) (*T, error) {
	placeholders := make([]string, len(t.columns)+1)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (id, %s) VALUES (%s) RETURNING %s",
		t.name, strings.Join(t.columns, ", "), strings.Join(placeholders, ", "), t.selectList())

	args := append([]any{uuid.NewString()}, t.values(v)...)
	created, err := t.scanOne(q.QueryRowContext(ctx, query, args...))
	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	return created, err
}

// update replaces every writable column of the row with id.
func (t *table[T]) update(ctx context.Context, q dbtx, id string, v *T) (*T, error) {
	set := make([]string, len(t.columns))
	for i, c := range t.columns {
		set[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}

	query := fmt.Sprintf("UPDATE %s SET %s, updated_at = now() WHERE id = $%d RETURNING %s",
		t.name, strings.Join(set, ", "), len(t.columns)+1, t.selectList())

	args := append(t.values(v), id)
	updated, err := t.scanOne(q.QueryRowContext(ctx, query, args...))
	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	return updated, err
}

func (t *table[T]) delete(ctx context.Context, q dbtx, where string, args ...any) error {
	res, err := q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s", t.name, where), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// isUniqueViolation understands both lib/pq and pgx errors since the
// database may be reached through either driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// jsonb stores *v as a JSONB column.
type jsonb[T any] struct {
	v *T
}

func (j jsonb[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j jsonb[T]) Scan(src any) error {
	var b []byte
	switch s := src.(type) {
	case []byte:
		b = s
	case string:
		b = []byte(s)
	case nil:
		return nil
	default:
		return fmt.Errorf("jsonb: cannot scan %T", src)
	}
	return json.Unmarshal(b, j.v)
}
