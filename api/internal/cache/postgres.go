package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const createCacheTable = `
create table if not exists estimate_cache (
  cache_key   text primary key,
  response    bytea not null,
  created_at  timestamptz not null,
  ttl_seconds bigint not null
)`

// Postgres shares one estimate cache across replicas. Same contract as
// Memory: expired rows read as misses and are deleted on that read.
type Postgres struct {
	db  *sql.DB
	ttl time.Duration
}

func NewPostgres(ctx context.Context, url string, ttl time.Duration) (*Postgres, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if _, err := db.ExecContext(ctx, createCacheTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}
	return &Postgres{db: db, ttl: ttl}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, bool) {
	var (
		response  []byte
		createdAt time.Time
		ttlSec    int64
	)
	err := p.db.QueryRowContext(ctx,
		`select response, created_at, ttl_seconds from estimate_cache where cache_key = $1`,
		key,
	).Scan(&response, &createdAt, &ttlSec)
	if err != nil {
		return nil, false
	}
	if time.Since(createdAt) > time.Duration(ttlSec)*time.Second {
		_, _ = p.db.ExecContext(ctx, `delete from estimate_cache where cache_key = $1`, key)
		return nil, false
	}
	return response, true
}

func (p *Postgres) Put(ctx context.Context, key string, response []byte) error {
	const q = `
insert into estimate_cache (cache_key, response, created_at, ttl_seconds)
values ($1, $2, $3, $4)
on conflict (cache_key) do update
set response = excluded.response,
    created_at = excluded.created_at,
    ttl_seconds = excluded.ttl_seconds`
	_, err := p.db.ExecContext(ctx, q, key, response, time.Now().UTC(), int64(p.ttl.Seconds()))
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error { return p.db.Close() }
