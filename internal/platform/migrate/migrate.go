package migrate

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed sql/*.sql
var embedded embed.FS

type Options struct {
	// FS 为 nil 时使用内置的 sql/*.sql
	FS fs.FS
}

type Result struct {
	AppliedFiles []string
	SkippedFiles []string
}

// Up 按文件名顺序执行尚未记录在 schema_migrations 中的迁移，每个文件一个事务
func Up(ctx context.Context, db *pgxpool.Pool, opts Options) (*Result, error) {
	fsys, err := resolveFS(opts.FS)
	if err != nil {
		return nil, err
	}

	if err := ensureTable(ctx, db); err != nil {
		return nil, err
	}

	entries, err := listSQLFiles(fsys)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, name := range entries {
		applied, err := isApplied(ctx, db, name)
		if err != nil {
			return nil, err
		}
		if applied {
			res.SkippedFiles = append(res.SkippedFiles, name)
			continue
		}
		if err := applyFile(ctx, db, fsys, name); err != nil {
			return nil, err
		}
		slog.Info("migration applied", "version", name)
		res.AppliedFiles = append(res.AppliedFiles, name)
	}

	return res, nil
}

func resolveFS(fsys fs.FS) (fs.FS, error) {
	if fsys != nil {
		return fsys, nil
	}
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	return sub, nil
}

func ensureTable(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
	return err
}

// listSQLFiles 只看根目录下的 .sql 文件，按名字排序
func listSQLFiles(fsys fs.FS) ([]string, error) {
	dirEntries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	entries := make([]string, 0, len(dirEntries))
	for _, d := range dirEntries {
		if d.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			entries = append(entries, d.Name())
		}
	}
	sort.Strings(entries)
	return entries, nil
}

func isApplied(ctx context.Context, db *pgxpool.Pool, version string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version=$1)`, version).Scan(&exists)
	return exists, err
}

func applyFile(ctx context.Context, db *pgxpool.Pool, fsys fs.FS, filename string) error {
	sqlBytes, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", filename, err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("apply migration %s: %w", filename, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1,$2)`, filename, time.Now()); err != nil {
		return fmt.Errorf("record migration %s: %w", filename, err)
	}

	return tx.Commit(ctx)
}
