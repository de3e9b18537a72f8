// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrp implements the repo.Users interface.
package usersrp

import (
	"context"
	"time"

	"github.com/momeni/carmarket/pkg/adapter/db/postgres"
	"github.com/momeni/carmarket/pkg/core/model"
	"github.com/momeni/carmarket/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (users *Repo) Conn(c repo.Conn) repo.UsersQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Upsert(ctx context.Context, email string, now time.Time) (*model.User, error) {
	return Upsert(ctx, cq.Conn, email, now)
}

func (cq connQueryer) Count(ctx context.Context) (int64, error) {
	return Count(ctx, cq.Conn)
}

type txQueryer struct {
	*postgres.Tx
}

func (users *Repo) Tx(tx repo.Tx) repo.UsersQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Upsert(ctx context.Context, email string, now time.Time) (*model.User, error) {
	return Upsert(ctx, tq.Tx, email, now)
}

func (tq txQueryer) Count(ctx context.Context) (int64, error) {
	return Count(ctx, tq.Tx)
}
