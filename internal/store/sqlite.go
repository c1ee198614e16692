package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/AngelCh415/channel-roi/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	created_at   INTEGER NOT NULL,
	time_horizon INTEGER NOT NULL,
	channels     INTEGER NOT NULL,
	monte_carlo  INTEGER NOT NULL,
	report       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_created_at ON runs (created_at DESC);
`

// SQLiteStore persists reports as JSON documents.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the database at path. ":memory:" gives a
// private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// every connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, rep models.Report) error {
	if rep.ID == "" {
		return errors.New("report id required")
	}
	body, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	info := infoOf(rep)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, time_horizon, channels, monte_carlo, report)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at = excluded.created_at,
			time_horizon = excluded.time_horizon,
			channels = excluded.channels,
			monte_carlo = excluded.monte_carlo,
			report = excluded.report`,
		info.ID, info.CreatedAt.UTC().UnixNano(), info.TimeHorizon, info.Channels, info.MonteCarlo, string(body))
	if err != nil {
		return fmt.Errorf("save run %s: %w", rep.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (models.Report, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT report FROM runs WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Report{}, ErrNotFound
	}
	if err != nil {
		return models.Report{}, fmt.Errorf("get run %s: %w", id, err)
	}
	var rep models.Report
	if err := json.Unmarshal([]byte(body), &rep); err != nil {
		return models.Report{}, fmt.Errorf("unmarshal run %s: %w", id, err)
	}
	return rep, nil
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, time_horizon, channels, monte_carlo
		FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := []RunInfo{}
	for rows.Next() {
		var (
			ri RunInfo
			ns int64
		)
		if err := rows.Scan(&ri.ID, &ns, &ri.TimeHorizon, &ri.Channels, &ri.MonteCarlo); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		ri.CreatedAt = time.Unix(0, ns).UTC()
		out = append(out, ri)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
