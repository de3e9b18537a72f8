// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"database/sql"

	"github.com/momeni/carmarket/pkg/core/repo"
	"gorm.io/gorm"
)

// Queryer is satisfied by both connections and transactions, so the
// generic query functions of the repository packages may run on
// either of them.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer
	GORM(ctx context.Context) *gorm.DB
}

// session holds the statement execution methods which are shared by
// Conn and Tx.
type session struct {
	db *gorm.DB
}

// Exec runs the sql statement and returns the number of affected rows.
// Placeholders may be numbered ($1), positional (?), or named (@name).
// Without args, sql may hold several semicolon separated statements,
// which is how the embedded schema files are executed.
func (s session) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	r := s.db.WithContext(ctx).Exec(sql, args...)
	if err := r.Error; err != nil {
		return 0, err
	}
	return r.RowsAffected, nil
}

// Query runs one sql statement and returns its result set. No other
// statement may run on the same session until the rows are closed.
func (s session) Query(ctx context.Context, sql string, args ...any) (repo.Rows, error) {
	rows, err := s.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	return sqlRows{rows}, nil
}

// GORM returns a gorm session which is bound to ctx.
func (s session) GORM(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

type sqlRows struct {
	*sql.Rows
}

// Close drops the close error; it is reported by Err too.
func (r sqlRows) Close() {
	_ = r.Rows.Close()
}
