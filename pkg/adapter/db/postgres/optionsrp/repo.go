// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package optionsrp implements the repo.Options interface. Each option
// tag is kept as one row, keyed by its car, category, and name.
package optionsrp

import (
	"context"

	"github.com/google/uuid"
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

func (options *Repo) Conn(c repo.Conn) repo.OptionsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) List(ctx context.Context, carID uuid.UUID) (model.OptionTags, error) {
	return List(ctx, cq.Conn, carID)
}

type txQueryer struct {
	*postgres.Tx
}

func (options *Repo) Tx(tx repo.Tx) repo.OptionsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) List(ctx context.Context, carID uuid.UUID) (model.OptionTags, error) {
	return List(ctx, tq.Tx, carID)
}

func (tq txQueryer) Replace(ctx context.Context, carID uuid.UUID, tags model.OptionTags) error {
	return Replace(ctx, tq.Tx, carID, tags)
}

func (tq txQueryer) DeleteAll(ctx context.Context, carID uuid.UUID) error {
	return DeleteAll(ctx, tq.Tx, carID)
}
