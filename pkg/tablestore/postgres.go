package tablestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// PostgresStore keeps one table per store in PostgreSQL. Keys are plain text
// columns compared under the "C" collation so that listing order matches the
// byte order used by continuation tokens; properties live in a JSONB column
// using the annotated encoding from EncodeProperties.
type PostgresStore struct {
	db    *pgxpool.Pool
	table string
}

func NewPostgresStore(db *pgxpool.Pool, table string) *PostgresStore {
	return &PostgresStore{db: db, table: pq.QuoteIdentifier(table)}
}

// EnsureTable creates the backing table when it does not exist yet.
func (s *PostgresStore) EnsureTable(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		partition_key TEXT NOT NULL,
		row_key       TEXT NOT NULL,
		etag          TEXT NOT NULL,
		"timestamp"   TIMESTAMPTZ NOT NULL DEFAULT now(),
		properties    JSONB NOT NULL DEFAULT '{}'::jsonb,
		PRIMARY KEY (partition_key, row_key)
	)`, s.table)
	if _, err := s.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("tablestore: create table: %w", err)
	}
	return nil
}

func (s *PostgresStore) PutEntity(ctx context.Context, e Entity) (Entity, error) {
	if err := validKeys(e); err != nil {
		return Entity{}, err
	}
	props, err := normalizeProperties(e.Properties)
	if err != nil {
		return Entity{}, err
	}
	payload, err := EncodeProperties(props)
	if err != nil {
		return Entity{}, err
	}

	etag := newETag()
	query := fmt.Sprintf(`INSERT INTO %s (partition_key, row_key, etag, "timestamp", properties)
		VALUES ($1, $2, $3, now(), $4::jsonb)
		ON CONFLICT (partition_key, row_key) DO UPDATE
		SET etag = EXCLUDED.etag, "timestamp" = EXCLUDED."timestamp", properties = EXCLUDED.properties
		RETURNING "timestamp"`, s.table)

	var ts time.Time
	if err := s.db.QueryRow(ctx, query, e.PartitionKey, e.RowKey, etag, string(payload)).Scan(&ts); err != nil {
		return Entity{}, fmt.Errorf("tablestore: put entity: %w", err)
	}
	return Entity{
		PartitionKey: e.PartitionKey,
		RowKey:       e.RowKey,
		ETag:         etag,
		Timestamp:    ts.UTC(),
		Properties:   props,
	}, nil
}

func (s *PostgresStore) UpdateEntity(ctx context.Context, e Entity, mode UpdateMode, etag string) (Entity, error) {
	if err := validKeys(e); err != nil {
		return Entity{}, err
	}
	props, err := normalizeProperties(e.Properties)
	if err != nil {
		return Entity{}, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Entity{}, fmt.Errorf("tablestore: begin update: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		currentETag string
		raw         []byte
	)
	selectQuery := fmt.Sprintf(`SELECT etag, properties FROM %s
		WHERE partition_key = $1 AND row_key = $2 FOR UPDATE`, s.table)
	err = tx.QueryRow(ctx, selectQuery, e.PartitionKey, e.RowKey).Scan(&currentETag, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entity{}, ErrNotFound
	}
	if err != nil {
		return Entity{}, fmt.Errorf("tablestore: load entity: %w", err)
	}
	if etag != "" && etag != AnyETag && etag != currentETag {
		return Entity{}, ErrPreconditionFailed
	}

	if mode == Merge {
		current, err := DecodeProperties(raw)
		if err != nil {
			return Entity{}, err
		}
		for k, v := range props {
			current[k] = v
		}
		props = current
	}

	payload, err := EncodeProperties(props)
	if err != nil {
		return Entity{}, err
	}

	newTag := newETag()
	updateQuery := fmt.Sprintf(`UPDATE %s SET etag = $3, "timestamp" = now(), properties = $4::jsonb
		WHERE partition_key = $1 AND row_key = $2
		RETURNING "timestamp"`, s.table)
	var ts time.Time
	if err := tx.QueryRow(ctx, updateQuery, e.PartitionKey, e.RowKey, newTag, string(payload)).Scan(&ts); err != nil {
		return Entity{}, fmt.Errorf("tablestore: update entity: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Entity{}, fmt.Errorf("tablestore: commit update: %w", err)
	}

	return Entity{
		PartitionKey: e.PartitionKey,
		RowKey:       e.RowKey,
		ETag:         newTag,
		Timestamp:    ts.UTC(),
		Properties:   props,
	}, nil
}

func (s *PostgresStore) DeleteEntity(ctx context.Context, partitionKey, rowKey string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE partition_key = $1 AND row_key = $2`, s.table)
	tag, err := s.db.Exec(ctx, query, partitionKey, rowKey)
	if err != nil {
		return fmt.Errorf("tablestore: delete entity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListEntities(ctx context.Context, opts ListOptions) (Page, error) {
	limit := pageSize(opts.MaxPageSize)

	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f := opts.Filter; f != nil {
		switch f.Property {
		case PartitionKeyProperty:
			where = append(where, "partition_key = "+arg(f.Value))
		case RowKeyProperty:
			where = append(where, "row_key = "+arg(f.Value))
		default:
			where = append(where, fmt.Sprintf("properties ->> %s = %s", arg(f.Property), arg(f.Value)))
		}
	}
	if opts.ContinuationToken != "" {
		c, err := decodeToken(opts.ContinuationToken)
		if err != nil {
			return Page{}, err
		}
		where = append(where, fmt.Sprintf(`(partition_key COLLATE "C", row_key COLLATE "C") > (%s, %s)`,
			arg(c.PartitionKey), arg(c.RowKey)))
	}

	query := fmt.Sprintf(`SELECT partition_key, row_key, etag, "timestamp", properties FROM %s`, s.table)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY partition_key COLLATE "C", row_key COLLATE "C" LIMIT ` + arg(limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return Page{}, fmt.Errorf("tablestore: list entities: %w", err)
	}
	defer rows.Close()

	var items []Entity
	for rows.Next() {
		var (
			e   Entity
			raw []byte
		)
		if err := rows.Scan(&e.PartitionKey, &e.RowKey, &e.ETag, &e.Timestamp, &raw); err != nil {
			return Page{}, fmt.Errorf("tablestore: scan entity: %w", err)
		}
		e.Timestamp = e.Timestamp.UTC()
		if e.Properties, err = DecodeProperties(raw); err != nil {
			return Page{}, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return Page{}, fmt.Errorf("tablestore: list entities: %w", err)
	}

	page := Page{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		last := page.Items[limit-1]
		page.ContinuationToken = encodeToken(last.PartitionKey, last.RowKey)
	}
	return page, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
