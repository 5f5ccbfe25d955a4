// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build integration_test

// Package sqltest hands out isolated databases to tests that have to run
// against both PostgreSQL and SQLite.
package sqltest

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	// Register the pgx driver under name "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	// Register SQLite driver under name "sqlite".
	_ "modernc.org/sqlite"
)

// DBFactory returns a fresh database that is removed when the test ends.
type DBFactory func(t testing.TB) *sql.DB

// RunDatabaseTest runs testFunc once per supported database, in parallel.
func RunDatabaseTest(t *testing.T, testFunc func(*testing.T, DBFactory)) {
	t.Helper()

	backends := []struct {
		name    string
		factory DBFactory
	}{
		{name: "Postgres", factory: NewPostgresDB},
		{name: "SQLite", factory: NewSQLiteDB},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			t.Parallel()
			testFunc(t, b.factory)
		})
	}
}

// dbName derives a short database name from the test name so cached test
// results stay valid.
func dbName(t testing.TB) string {
	t.Helper()

	h := fnv.New32a()
	_, err := h.Write([]byte(t.Name()))
	require.NoError(t, err)

	return fmt.Sprintf("pairwalletd_test_%08x", h.Sum32())
}

// NewSQLiteDB opens a SQLite file in the test's temp directory.
func NewSQLiteDB(t testing.TB) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), dbName(t)+".sqlite")
	db, err := sql.Open("sqlite", "file:"+path+"?mode=rwc")
	require.NoError(t, err, "failed to open SQLite database")

	t.Cleanup(func() { _ = db.Close() })

	return db
}

var (
	pgOnce     sync.Once
	pgAdminDSN string
	pgErr      error
)

// adminDSN starts the shared Postgres container on first use.
func adminDSN(t testing.TB) string {
	t.Helper()

	pgOnce.Do(func() {
		ctx, cancel := context.WithTimeout(
			context.Background(), 2*time.Minute,
		)
		defer cancel()

		container, err := postgres.Run(ctx, "postgres:16-alpine",
			postgres.WithDatabase("pairwalletd"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			postgres.BasicWaitStrategies(),
		)
		if err != nil {
			pgErr = err
			return
		}

		pgAdminDSN, pgErr = container.ConnectionString(
			ctx, "sslmode=disable",
		)
	})
	require.NoError(t, pgErr, "failed to start Postgres container")

	return pgAdminDSN
}

// NewPostgresDB creates a database in the shared Postgres container and
// drops it when the test ends.
func NewPostgresDB(t testing.TB) *sql.DB {
	t.Helper()

	admin := adminDSN(t)
	name := dbName(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	adminDB, err := sql.Open("pgx", admin)
	require.NoError(t, err, "failed to connect to postgres")
	defer adminDB.Close()

	_, err = adminDB.ExecContext(ctx, "CREATE DATABASE "+name)
	require.NoError(t, err, "failed to create test database")

	u, err := url.Parse(admin)
	require.NoError(t, err)
	u.Path = "/" + name

	db, err := sql.Open("pgx", u.String())
	require.NoError(t, err, "failed to open test database")

	t.Cleanup(func() {
		_ = db.Close()

		ctx, cancel := context.WithTimeout(
			context.Background(), 30*time.Second,
		)
		defer cancel()

		adminDB, err := sql.Open("pgx", admin)
		if err != nil {
			return
		}
		defer adminDB.Close()

		_, _ = adminDB.ExecContext(ctx,
			"DROP DATABASE IF EXISTS "+name+" WITH (FORCE)")
	})

	return db
}
