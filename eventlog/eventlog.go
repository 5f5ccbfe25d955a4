// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package eventlog persists bootstrap failure events to SQLite or
// PostgreSQL.
package eventlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	// Register the pgx driver under name "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lightningnetwork/lnd/clock"

	// Register SQLite driver under name "sqlite".
	_ "modernc.org/sqlite"
)

const (
	sqliteScheme = "sqlite://"

	// dbTimeout bounds every statement.
	dbTimeout = 30 * time.Second

	// The statements below use $N placeholders, which both PostgreSQL
	// and SQLite accept.
	createTableSQL = `
		CREATE TABLE IF NOT EXISTS bootstrap_events (
			code BIGINT NOT NULL,
			message TEXT NOT NULL,
			created_at BIGINT NOT NULL
		);`
	insertSQL = `INSERT INTO bootstrap_events (code, message, created_at)
		VALUES ($1, $2, $3);`
	selectSQL = `SELECT code, message, created_at FROM bootstrap_events
		ORDER BY created_at`
)

// ErrUnknownDSN is returned by Open for a DSN of an unsupported database.
var ErrUnknownDSN = errors.New("event log DSN must start with sqlite://, " +
	"postgres:// or postgresql://")

// Event is one recorded event.
type Event struct {
	Code    uint32
	Message string
	Time    time.Time
}

// Store is an event log backed by a SQL database.
type Store struct {
	db    *sql.DB
	clock clock.Clock
}

// Open connects to the database named by dsn and prepares the event table.
// sqlite://<path> selects a SQLite file, postgres:// and postgresql:// a
// PostgreSQL server.
func Open(dsn string) (*Store, error) {
	var (
		driver string
		source string
	)
	switch {
	case strings.HasPrefix(dsn, sqliteScheme):
		path := strings.TrimPrefix(dsn, sqliteScheme)
		if path == "" {
			return nil, fmt.Errorf("%w: missing SQLite path",
				ErrUnknownDSN)
		}
		driver = "sqlite"
		source = "file:" + path + "?mode=rwc"

	case strings.HasPrefix(dsn, "postgres://"),
		strings.HasPrefix(dsn, "postgresql://"):

		driver = "pgx"
		source = dsn

	default:
		return nil, ErrUnknownDSN
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("unable to open event log: %w", err)
	}

	s, err := New(db, nil)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Infof("Event log opened (%s)", driver)

	return s, nil
}

// New returns a Store using db.  The event table is created if missing.  The
// real clock is used when clk is nil.
func New(db *sql.DB, clk clock.Clock) (*Store, error) {
	if clk == nil {
		clk = clock.NewDefaultClock()
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("unable to reach event log: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("unable to create event table: %w", err)
	}

	return &Store{
		db:    db,
		clock: clk,
	}, nil
}

// Record appends an event.
func (s *Store) Record(code uint32, message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	now := s.clock.Now().UnixNano()
	_, err := s.db.ExecContext(ctx, insertSQL, int64(code), message, now)
	if err != nil {
		return fmt.Errorf("unable to record event %d: %w", code, err)
	}

	log.Debugf("Recorded event %d: %s", code, message)

	return nil
}

// Events returns all recorded events, oldest first.
func (s *Store) Events() ([]Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, selectSQL)
	if err != nil {
		return nil, fmt.Errorf("unable to query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			code    int64
			message string
			created int64
		)
		if err := rows.Scan(&code, &message, &created); err != nil {
			return nil, err
		}
		events = append(events, Event{
			Code:    uint32(code),
			Message: message,
			Time:    time.Unix(0, created).UTC(),
		})
	}

	return events, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LogRecorder records events to the package logger only.  It is used when
// no database is configured.
type LogRecorder struct{}

// Record logs the event.
func (LogRecorder) Record(code uint32, message string) error {
	log.Errorf("Event %d: %s", code, message)
	return nil
}
