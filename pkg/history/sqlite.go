package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/model"
	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/protocol"
)

const dbTimeLayout = "2006-01-02 15:04:05"

// SQLiteLog records history into a SQLite database, keeping the same entries
// as FileLog but queryable by origin and action for audit and replay.
type SQLiteLog struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the history database and runs migrations.
func OpenSQLite(dbPath string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}

	ctx := context.Background()

	// Enable WAL mode for better concurrent read performance
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: set WAL: %w", err)
	}
	// Set busy timeout to avoid "database is locked" under concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: set busy_timeout: %w", err)
	}

	l := &SQLiteLog{db: db}
	if err := l.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: migrate: %w", err)
	}
	return l, nil
}

func (l *SQLiteLog) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS history (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		origin     TEXT    NOT NULL,
		action     TEXT    NOT NULL,
		raw        TEXT    NOT NULL,
		created_at TEXT    NOT NULL DEFAULT (datetime('now'))
	);
	`
	if err := l.ensureSchemaMigrations(ctx); err != nil {
		return err
	}
	currentVersion, err := l.getSchemaVersion(ctx)
	if err != nil {
		return err
	}

	migrations := []struct {
		version    int
		statements []string
	}{
		{
			version:    1,
			statements: []string{schema},
		},
		{
			version: 2,
			statements: []string{
				"CREATE INDEX IF NOT EXISTS idx_history_origin ON history(origin)",
				"CREATE INDEX IF NOT EXISTS idx_history_action ON history(action)",
			},
		},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		for _, stmt := range m.statements {
			if _, err := l.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("history: migrate v%d: %w", m.version, err)
			}
		}
		if err := l.setSchemaVersion(ctx, m.version); err != nil {
			return err
		}
	}
	return nil
}

func (l *SQLiteLog) ensureSchemaMigrations(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER NOT NULL)"); err != nil {
		return fmt.Errorf("history: create schema_migrations: %w", err)
	}
	var count int
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		return fmt.Errorf("history: check schema_migrations: %w", err)
	}
	if count == 0 {
		if _, err := l.db.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (0)"); err != nil {
			return fmt.Errorf("history: init schema_migrations: %w", err)
		}
	}
	return nil
}

func (l *SQLiteLog) getSchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := l.db.QueryRowContext(ctx, "SELECT version FROM schema_migrations LIMIT 1").Scan(&version); err != nil {
		return 0, fmt.Errorf("history: read schema version: %w", err)
	}
	return version, nil
}

func (l *SQLiteLog) setSchemaVersion(ctx context.Context, version int) error {
	if _, err := l.db.ExecContext(ctx, "UPDATE schema_migrations SET version = ?", version); err != nil {
		return fmt.Errorf("history: update schema version: %w", err)
	}
	return nil
}

// Record appends one history row. The action column is derived from the raw
// message so listings can filter relays from logins without string prefixes.
func (l *SQLiteLog) Record(origin, raw string) error {
	action := protocol.Parse(raw).Action
	_, err := l.db.ExecContext(context.Background(),
		"INSERT INTO history (origin, action, raw) VALUES (?, ?, ?)",
		origin, action, raw)
	if err != nil {
		return fmt.Errorf("history: record: %w", err)
	}
	return nil
}

// List returns history entries, newest first. Nil filters are ignored;
// page size defaults to 100.
func (l *SQLiteLog) List(filters model.HistoryFilters) ([]model.HistoryRecord, error) {
	query := `
		SELECT id, origin, action, raw, created_at
		FROM history
		WHERE (? IS NULL OR origin = ?)
		AND (? IS NULL OR action = ?)
		ORDER BY id DESC
		LIMIT COALESCE(?, 100)
		OFFSET COALESCE(?, 0)
	`

	rows, err := l.db.QueryContext(
		context.Background(),
		query,
		filters.LimitToOrigin, filters.LimitToOrigin,
		filters.LimitToAction, filters.LimitToAction,
		filters.PageSize,
		filters.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.HistoryRecord
	for rows.Next() {
		var r model.HistoryRecord
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Origin, &r.Action, &r.Raw, &createdAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		parsed, err := time.ParseInLocation(dbTimeLayout, createdAt, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		r.CreatedAt = parsed
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of persisted history entries.
func (l *SQLiteLog) Count() (int64, error) {
	var n int64
	if err := l.db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM history").Scan(&n); err != nil {
		return 0, fmt.Errorf("history: count: %w", err)
	}
	return n, nil
}

func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
