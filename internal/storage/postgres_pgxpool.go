package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPoolStorage is a pgxpool-backed Storage. It additionally exposes
// PostgreSQL advisory locks so that in a multi-replica deployment only one
// worker runs the poll cycle at a time.
type PostgresPoolStorage struct {
	pool *pgxpool.Pool
}

func OpenPostgresPool(ctx context.Context, dsn string) (*PostgresPoolStorage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &PostgresPoolStorage{pool: pool}, nil
}

func (s *PostgresPoolStorage) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresPoolStorage) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bot_state (
			source TEXT PRIMARY KEY,
			snapshot BYTEA,
			report_date TEXT NOT NULL DEFAULT '',
			last_notified_date TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS deliveries (
			id TEXT PRIMARY KEY,
			report_date TEXT NOT NULL,
			channel TEXT NOT NULL,
			success BOOLEAN NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			sent_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_deliveries_report_date ON deliveries (report_date);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS scheduled_jobs (
			name TEXT PRIMARY KEY,
			last_run_at TIMESTAMPTZ NOT NULL,
			last_duration_ms BIGINT NOT NULL,
			last_success BOOLEAN NOT NULL,
			last_error TEXT NOT NULL DEFAULT ''
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// AcquireAdvisoryLock attempts a non-blocking session advisory lock. Returns
// false when another session holds the lock.
func (s *PostgresPoolStorage) AcquireAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	var got bool
	err := s.pool.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, key).Scan(&got)
	return got, err
}

func (s *PostgresPoolStorage) ReleaseAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	var released bool
	err := s.pool.QueryRow(ctx, `SELECT pg_advisory_unlock($1)`, key).Scan(&released)
	return released, err
}

func (s *PostgresPoolStorage) GetBotState(ctx context.Context, source string) (*BotState, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT source, snapshot, report_date, last_notified_date, updated_at
		FROM bot_state WHERE source=$1
	`, source)

	var st BotState
	if err := row.Scan(&st.Source, &st.Snapshot, &st.ReportDate, &st.LastNotifiedDate, &st.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

func (s *PostgresPoolStorage) SaveBotState(ctx context.Context, state BotState) error {
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO bot_state (source, snapshot, report_date, last_notified_date, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (source) DO UPDATE SET
			snapshot=EXCLUDED.snapshot,
			report_date=EXCLUDED.report_date,
			last_notified_date=EXCLUDED.last_notified_date,
			updated_at=EXCLUDED.updated_at
	`, state.Source, state.Snapshot, state.ReportDate, state.LastNotifiedDate, state.UpdatedAt)
	return err
}

func (s *PostgresPoolStorage) GetDelivery(ctx context.Context, reportDate string) (*Delivery, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, report_date, channel, success, error, sent_at
		FROM deliveries WHERE report_date=$1
		ORDER BY sent_at DESC LIMIT 1
	`, reportDate)

	var d Delivery
	if err := row.Scan(&d.ID, &d.ReportDate, &d.Channel, &d.Success, &d.Error, &d.SentAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (s *PostgresPoolStorage) SaveDelivery(ctx context.Context, d Delivery) error {
	if d.SentAt.IsZero() {
		d.SentAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO deliveries (id, report_date, channel, success, error, sent_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, d.ID, d.ReportDate, d.Channel, d.Success, d.Error, d.SentAt)
	return err
}

func (s *PostgresPoolStorage) GetSetting(ctx context.Context, key string) (string, error) {
	row := s.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key=$1`, key)
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func (s *PostgresPoolStorage) SaveSetting(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES ($1,$2,$3)
		ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at
	`, key, value, time.Now())
	return err
}

func (s *PostgresPoolStorage) GetScheduledJob(ctx context.Context, name string) (*ScheduledJob, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT name, last_run_at, last_duration_ms, last_success, last_error
		FROM scheduled_jobs WHERE name=$1
	`, name)

	var j ScheduledJob
	if err := row.Scan(&j.Name, &j.LastRunAt, &j.LastDurationMs, &j.LastSuccess, &j.LastError); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &j, nil
}

func (s *PostgresPoolStorage) UpdateScheduledJob(ctx context.Context, name string, startedAt time.Time, dur time.Duration, success bool, errMsg string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scheduled_jobs (name, last_run_at, last_duration_ms, last_success, last_error)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (name) DO UPDATE SET
			last_run_at=EXCLUDED.last_run_at,
			last_duration_ms=EXCLUDED.last_duration_ms,
			last_success=EXCLUDED.last_success,
			last_error=EXCLUDED.last_error
	`, name, startedAt, dur.Milliseconds(), success, errMsg)
	return err
}
