package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"pokedex.local/internal/platform/metrics"
)

// PostgresStore 把缓存条目存到 cache_entries 表（见 migrate/sql）。
// 过期的行对 Get 不可见，由 PurgeLoop 定期删除。
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := p.db.QueryRow(ctx,
		`SELECT payload FROM cache_entries WHERE key=$1 AND expires_at > NOW()`, key).
		Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.CacheOperations.WithLabelValues("postgres", "miss").Inc()
		return nil, nil
	}
	if err != nil {
		metrics.CacheOperations.WithLabelValues("postgres", "error").Inc()
		return nil, err
	}
	metrics.CacheOperations.WithLabelValues("postgres", "hit").Inc()
	return payload, nil
}

func (p *PostgresStore) Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	_, err := p.db.Exec(ctx, `
INSERT INTO cache_entries (key, payload, expires_at) VALUES ($1,$2,$3)
ON CONFLICT (key) DO UPDATE SET payload=EXCLUDED.payload, expires_at=EXCLUDED.expires_at`,
		key, value, expiresAt)
	if err != nil {
		metrics.CacheOperations.WithLabelValues("postgres", "error").Inc()
		return err
	}
	metrics.CacheOperations.WithLabelValues("postgres", "set").Inc()
	return nil
}

// PurgeExpired 删除所有已过期的行，返回删除条数。
func (p *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := p.db.Exec(ctx, `DELETE FROM cache_entries WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// PurgeLoop 阻塞运行，直到 ctx 结束
func (p *PostgresStore) PurgeLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purgeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			n, err := p.PurgeExpired(purgeCtx)
			cancel()
			if err != nil {
				slog.Error("cache purge failed", "err", err)
				continue
			}
			if n > 0 {
				slog.Debug("cache purge: removed expired rows", "count", n)
			}
		}
	}
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}
