// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sqlitedb is an internal helper for the test packages which
// need a database without starting a PostgreSQL container. It creates
// a SQLite database file in a temporary directory, creates the tables
// with the same names and columns as the PostgreSQL schema, and wraps
// it as a *postgres.Pool, so all repositories can be used with it.
//
// SQLite ignores the row locking clauses. Instead, transactions are
// begun immediately, so writers are serialized by the database lock.
package sqlitedb

import (
	"context"
	_ "embed"
	"path/filepath"
	"testing"

	"github.com/momeni/carmarket/pkg/adapter/db/postgres"
	"github.com/momeni/carmarket/pkg/core/repo"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// New creates a fresh database for t and returns its connection pool.
// The pool is closed when t finishes.
func New(ctx context.Context, t testing.TB) *postgres.Pool {
	t.Helper()
	path := filepath.Join(t.TempDir(), "carmarket.db")
	dsn := "file:" + path +
		"?_foreign_keys=on&_busy_timeout=10000&_txlock=immediate"
	pool, err := postgres.Open(ctx, sqlite.Open(dsn))
	require.NoError(t, err, "opening sqlite database")
	t.Cleanup(func() {
		require.NoError(t, pool.Close(), "closing sqlite database")
	})
	err = pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		_, err := c.Exec(ctx, schemaSQL)
		return err
	})
	require.NoError(t, err, "creating tables")
	return pool
}
