package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of *pgxpool.Pool the backend needs. pgxmock pools
// satisfy it too.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresBackend stores entries in the kv_store table (see config.AutoMigrate).
type PostgresBackend struct {
	db PgxPool
}

// NewPostgresBackend creates a Backend over a pgx pool
func NewPostgresBackend(db PgxPool) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	sql := `SELECT item_value FROM kv_store WHERE item_key = $1`
	err := b.db.QueryRow(ctx, sql, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get kv entry: %w", err)
	}
	return value, true, nil
}

func (b *PostgresBackend) Set(ctx context.Context, key, value string) error {
	sql := `INSERT INTO kv_store (item_key, item_value, updated_at) VALUES ($1, $2, NOW())
            ON CONFLICT (item_key) DO UPDATE SET item_value = EXCLUDED.item_value, updated_at = NOW()`
	if _, err := b.db.Exec(ctx, sql, key, value); err != nil {
		return fmt.Errorf("failed to set kv entry: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Delete(ctx context.Context, key string) error {
	sql := `DELETE FROM kv_store WHERE item_key = $1`
	if _, err := b.db.Exec(ctx, sql, key); err != nil {
		return fmt.Errorf("failed to delete kv entry: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Keys matches with LIKE so the text_pattern_ops index on item_key applies.
func (b *PostgresBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	sql := `SELECT item_key FROM kv_store WHERE item_key LIKE $1 ORDER BY item_key`
	rows, err := b.db.Query(ctx, sql, likeEscaper.Replace(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query kv keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan kv key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating kv keys: %w", err)
	}
	return keys, nil
}

func (b *PostgresBackend) MultiGet(ctx context.Context, keys []string) (map[string]string, error) {
	sql := `SELECT item_key, item_value FROM kv_store WHERE item_key = ANY($1)`
	rows, err := b.db.Query(ctx, sql, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to query kv entries: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string, len(keys))
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan kv entry: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating kv entries: %w", err)
	}
	return out, nil
}

// MultiSet upserts all items in a single statement.
func (b *PostgresBackend) MultiSet(ctx context.Context, items []Item) error {
	keys := make([]string, len(items))
	values := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Key
		values[i] = it.Value
	}
	sql := `INSERT INTO kv_store (item_key, item_value, updated_at)
            SELECT k, v, NOW() FROM unnest($1::text[], $2::text[]) AS t(k, v)
            ON CONFLICT (item_key) DO UPDATE SET item_value = EXCLUDED.item_value, updated_at = NOW()`
	if _, err := b.db.Exec(ctx, sql, keys, values); err != nil {
		return fmt.Errorf("failed to set kv entries: %w", err)
	}
	return nil
}

func (b *PostgresBackend) MultiDelete(ctx context.Context, keys []string) error {
	sql := `DELETE FROM kv_store WHERE item_key = ANY($1)`
	if _, err := b.db.Exec(ctx, sql, keys); err != nil {
		return fmt.Errorf("failed to delete kv entries: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Ping(ctx context.Context) error {
	return b.db.Ping(ctx)
}
