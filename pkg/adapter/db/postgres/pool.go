// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres implements the repo.Pool, repo.Conn, and repo.Tx
// interfaces on top of the GORM framework. It is named after the
// production DBMS, although any GORM dialector may be used with the
// Open function (e.g., an in-memory SQLite database for tests).
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/carmarket/pkg/core/cerr"
	"github.com/momeni/carmarket/pkg/core/repo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Pool struct {
	*gorm.DB
}

// NewPool connects to the PostgreSQL database which is identified by
// the url connection string.
func NewPool(ctx context.Context, url string) (*Pool, error) {
	return Open(ctx, postgres.Open(url))
}

// Open creates a connection pool using the d GORM dialector and tests
// it by acquiring one connection. Driver specific errors are
// translated to GORM errors, so the repositories can recognize the
// unique and foreign key constraint violations portably.
func Open(ctx context.Context, d gorm.Dialector) (*Pool, error) {
	gdb, err := gorm.Open(d, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
				// Set to false in order to log with replaced vars
				ParameterizedQueries: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	pool := &Pool{DB: gdb}
	err = pool.Conn(ctx, NoOpConnHandler)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	return pool, nil
}

type ConnHandler = repo.ConnHandler

func NoOpConnHandler(context.Context, repo.Conn) error {
	return nil
}

func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	return p.DB.WithContext(ctx).Connection(func(c *gorm.DB) error {
		cc := newConn(c)
		return f(ctx, cc)
	})
}

func (p *Pool) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// PostgreSQL error codes of the integrity constraint violations which
// are reported as conflicts.
const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

// Err converts the constraint violation errors to their cerr
// counterparts, so they are reported with a suitable status code.
// Other errors are wrapped as query errors.
func Err(err error) error {
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return cerr.Conflict(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return cerr.Conflict(err)
	case errors.As(err, &pgErr) && (pgErr.Code == foreignKeyViolation ||
		pgErr.Code == uniqueViolation):
		return cerr.Conflict(err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return cerr.NotFound(err)
	default:
		return fmt.Errorf("query: %w", err)
	}
}

// One verifies that exactly one row was affected or returned.
func One(n int) error {
	if n != 1 {
		return cerr.NotFound(fmt.Errorf("expected one row, but got %d", n))
	}
	return nil
}
