package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
	_ "modernc.org/sqlite"             // sqlite driver

	"github.com/socs4ai/standards-tracker/internal/entity"
)

const sqlSchema = `
CREATE TABLE IF NOT EXISTS batch_runs (
	run_id      TEXT PRIMARY KEY,
	store_id    TEXT NOT NULL,
	sheet       TEXT NOT NULL,
	key_column  TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP
);
CREATE TABLE IF NOT EXISTS item_results (
	run_id       TEXT NOT NULL,
	item_index   INTEGER NOT NULL,
	item_key     TEXT NOT NULL,
	document_ref TEXT NOT NULL,
	status       TEXT NOT NULL,
	error        TEXT,
	started_at   TIMESTAMP NOT NULL,
	finished_at  TIMESTAMP NOT NULL,
	PRIMARY KEY (run_id, item_index)
);
CREATE TABLE IF NOT EXISTS write_results (
	run_id       TEXT NOT NULL,
	item_index   INTEGER NOT NULL,
	field        TEXT NOT NULL,
	col          TEXT NOT NULL,
	status       TEXT NOT NULL,
	cell_address TEXT,
	error        TEXT,
	PRIMARY KEY (run_id, item_index, field)
);`

// SQLStore persists batch results into relational tables for audit
// queries. The driver is picked from the DSN: postgres:// URLs use pgx,
// anything else is treated as a sqlite path (or ":memory:").
type SQLStore struct {
	db       *sql.DB
	postgres bool
	logger   *slog.Logger
}

// OpenSQL opens the store and creates the schema if needed.
func OpenSQL(ctx context.Context, dsn string, logger *slog.Logger) (*SQLStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver := "sqlite"
	postgres := false
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "pgx"
		postgres = true
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open manifest db: %w", err)
	}
	if !postgres {
		// A pooled :memory: sqlite would give each connection its own
		// database; single-file sqlite also serializes writes anyway.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping manifest db: %w", err)
	}

	for _, stmt := range strings.Split(sqlSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create manifest schema: %w", err)
		}
	}

	logger.Info("manifest.sql.open", "driver", driver)
	return &SQLStore{db: db, postgres: postgres, logger: logger}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Append records one completed item (and its writes) under the run row.
func (s *SQLStore) Append(ctx context.Context, result *entity.BatchResult, item entity.ItemResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin manifest tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, s.rebind(`
		INSERT INTO batch_runs (run_id, store_id, sheet, key_column, started_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (run_id) DO NOTHING`),
		result.RunID.String(), result.StoreID, result.Sheet, result.KeyColumn, result.StartedAt,
	); err != nil {
		return fmt.Errorf("insert batch run: %w", err)
	}

	idx := len(result.Items) - 1
	if _, err := tx.ExecContext(ctx, s.rebind(`
		INSERT INTO item_results (run_id, item_index, item_key, document_ref, status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (run_id, item_index) DO UPDATE SET
			status = excluded.status, error = excluded.error, finished_at = excluded.finished_at`),
		result.RunID.String(), idx, item.Key, item.DocumentRef,
		string(item.Status), item.Error, item.StartedAt, item.FinishedAt,
	); err != nil {
		return fmt.Errorf("insert item result: %w", err)
	}

	for _, w := range item.Writes {
		if _, err := tx.ExecContext(ctx, s.rebind(`
			INSERT INTO write_results (run_id, item_index, field, col, status, cell_address, error)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (run_id, item_index, field) DO UPDATE SET
				status = excluded.status, cell_address = excluded.cell_address, error = excluded.error`),
			result.RunID.String(), idx, w.Field, w.Column,
			string(w.Status), w.CellAddress, w.Error,
		); err != nil {
			return fmt.Errorf("insert write result: %w", err)
		}
	}

	return tx.Commit()
}

// Flush stamps the run's finish time.
func (s *SQLStore) Flush(ctx context.Context, result *entity.BatchResult) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE batch_runs SET finished_at = ? WHERE run_id = ?`),
		result.FinishedAt, result.RunID.String(),
	)
	if err != nil {
		return fmt.Errorf("finish batch run: %w", err)
	}
	return nil
}

// CountItems returns how many item rows a run has; used by tests and
// audits.
func (s *SQLStore) CountItems(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT COUNT(*) FROM item_results WHERE run_id = ?`), runID).Scan(&n)
	return n, err
}
