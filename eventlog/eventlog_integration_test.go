// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build integration_test

package eventlog

import (
	"testing"

	"github.com/pairwallet/pairwalletd/internal/sqltest"
)

// TestStoreBackends runs the store against PostgreSQL and SQLite.
func TestStoreBackends(t *testing.T) {
	sqltest.RunDatabaseTest(t, func(t *testing.T, newDB sqltest.DBFactory) {
		testRecordAndList(t, newDB(t))
	})
}
