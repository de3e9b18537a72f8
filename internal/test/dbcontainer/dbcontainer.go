// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer starts throwaway postgres:16 containers for the
// test suites which need a real PostgreSQL server, such as the roles
// and schema initialization tests. Container engines are found through
// the DOCKER_HOST environment variable, e.g., for podman:
//
//	DOCKER_HOST=unix://$XDG_RUNTIME_DIR/podman/podman.sock
//
// Tests are skipped when DOCKER_HOST is not set.
package dbcontainer

import (
	"context"
	"errors"
	"net"
	"net/url"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/carmarket/pkg/adapter/db/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PostgresVersion is the tag of the postgres container image.
const PostgresVersion = "16"

// sqlStateStartingUp is reported while the server is starting up.
const sqlStateStartingUp = "57P03"

// Container is a running PostgreSQL server and a superuser pool.
type Container struct {
	Pool *postgres.Pool
	Host string
	Port int
}

// Start runs a container and connects to it, waiting at most timeout
// for the server to accept connections. The container and its pool are
// released by t.Cleanup, using ctx for the shutdown.
func Start(ctx context.Context, t *testing.T, timeout time.Duration) *Container {
	t.Helper()
	if os.Getenv("DOCKER_HOST") == "" {
		t.Skip("DOCKER_HOST is not set; skipping PostgreSQL tests")
	}
	startCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pg, err := sqltestutil.StartPostgresContainer(startCtx, PostgresVersion)
	require.NoError(t, err, "starting the postgres container")
	t.Cleanup(func() {
		assert.NoError(t, pg.Shutdown(ctx), "shutting down postgres")
	})

	dsn := pg.ConnectionString()
	u, err := url.Parse(dsn)
	require.NoError(t, err, "parsing the container DSN")
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err, "parsing the container port")

	pool, err := connect(startCtx, dsn)
	require.NoError(t, err, "connecting to postgres")
	t.Cleanup(func() {
		assert.NoError(t, pool.Close(), "closing the postgres pool")
	})
	return &Container{Pool: pool, Host: u.Hostname(), Port: port}
}

func connect(ctx context.Context, dsn string) (*postgres.Pool, error) {
	for {
		pool, err := postgres.NewPool(ctx, dsn)
		if err == nil {
			return pool, nil
		}
		var pgErr *pgconn.PgError
		var netErr net.Error
		switch {
		case ctx.Err() != nil:
			return nil, err
		case errors.As(err, &pgErr) && pgErr.SQLState() == sqlStateStartingUp:
		case errors.As(err, &netErr):
		default:
			return nil, err
		}
		time.Sleep(100 * time.Millisecond)
	}
}
