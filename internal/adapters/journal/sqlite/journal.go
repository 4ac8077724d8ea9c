// Package sqlite keeps the spawn journal in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/spf13/viper"

	_ "modernc.org/sqlite"
)

const (
	JournalPathKey = "journal.path"

	defaultListLimit = 20
	maxListLimit     = 1000
)

const schema = `
CREATE TABLE IF NOT EXISTS spawns (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    creature_id INTEGER NOT NULL,
    name        TEXT    NOT NULL DEFAULT '',
    tier        TEXT    NOT NULL DEFAULT '',
    types       TEXT    NOT NULL DEFAULT '',
    source      TEXT    NOT NULL CHECK(source IN ('primary','chat')),
    arrived_at  INTEGER NOT NULL,
    tool        TEXT    NOT NULL DEFAULT '',
    engaged     INTEGER NOT NULL DEFAULT 0 CHECK(engaged IN (0, 1)),
    recorded_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_spawns_recorded_at ON spawns(recorded_at);
`

var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA synchronous = NORMAL",
}

type Journal struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.SpawnJournal = (*Journal)(nil)

// DefaultPath resolves the journal location from config, falling back to
// ~/.pcg/journal.db.
func DefaultPath(cfg *viper.Viper) (string, error) {
	if cfg != nil {
		if path := strings.TrimSpace(cfg.GetString(JournalPathKey)); path != "" {
			return path, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".pcg", "journal.db"), nil
}

// Open creates the database file and schema when missing. ":memory:" keeps
// everything on a single connection.
func Open(ctx context.Context, path string) (*Journal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("journal %s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &Journal{db: db, now: time.Now}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) Record(ctx context.Context, entry domain.JournalEntry) error {
	if entry.CreatureID <= 0 {
		return fmt.Errorf("record spawn: invalid creature id %d", entry.CreatureID)
	}
	recordedAt := entry.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = j.now()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO spawns (creature_id, name, tier, types, source, arrived_at, tool, engaged, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.CreatureID,
		entry.Name,
		string(entry.Tier),
		strings.Join(entry.Types, ","),
		string(entry.Source),
		entry.ArrivedAt.UnixMilli(),
		string(entry.Tool),
		entry.Engaged,
		recordedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record spawn %d: %w", entry.CreatureID, err)
	}
	return nil
}

// List returns the newest entries first.
func (j *Journal) List(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, creature_id, name, tier, types, source, arrived_at, tool, engaged, recorded_at
		FROM spawns
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list spawns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []domain.JournalEntry
	for rows.Next() {
		var (
			entry                 domain.JournalEntry
			tier, types, source   string
			tool                  string
			arrivedAt, recordedAt int64
		)
		if err := rows.Scan(&entry.ID, &entry.CreatureID, &entry.Name, &tier, &types, &source, &arrivedAt, &tool, &entry.Engaged, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan spawn: %w", err)
		}
		entry.Tier = domain.Tier(tier)
		entry.Source = domain.SpawnSource(source)
		entry.Tool = domain.Tool(tool)
		if types != "" {
			entry.Types = strings.Split(types, ",")
		}
		entry.ArrivedAt = time.UnixMilli(arrivedAt).UTC()
		entry.RecordedAt = time.UnixMilli(recordedAt).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list spawns: %w", err)
	}
	return entries, nil
}
